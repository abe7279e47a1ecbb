package orders

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/andrifirman/camilanku-golang/internal/models"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }

func newTestService() (*Service, *fakeStore, *fakeNotifier) {
	store := newFakeStore()
	notifier := newFakeNotifier()
	svc := &Service{
		Orders:   store,
		Products: store,
		Notifier: notifier,
		Carrier:  &fakeCarrier{},
	}
	return svc, store, notifier
}

func waitFired(t *testing.T, n *fakeNotifier) {
	t.Helper()
	select {
	case <-n.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was never invoked")
	}
}

func TestNextOrderNumberFormat(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^ORD-\d{13,}-\d{4}$`)
	for i := 0; i < 20; i++ {
		require.Regexp(t, pattern, NextOrderNumber())
	}
}

func TestCreateOrderComputesTotals(t *testing.T) {
	t.Parallel()

	svc, store, notifier := newTestService()
	store.products[7] = &PurchaseInfo{ProductID: 7, Name: "Keripik Singkong", Stock: 10, ReviewCount: 3, ResellerID: int64p(42)}

	result, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Customer: CustomerInput{
			Email: "budi@example.com", Name: "Budi", City: "bandung", PostalCode: "40111",
		},
		Items: []ItemInput{
			{ProductID: int64p(7), Name: "Keripik Singkong", UnitPrice: 10000, Quantity: 2},
		},
		ShippingMethod: "jne",
		PaymentMethod:  "qris",
	})
	require.NoError(t, err)

	// bandung = 150 km -> jne fee 18000 + 150*50 = 25500.
	require.Equal(t, 20000.0, result.Subtotal)
	require.Equal(t, 0.0, result.Discount)
	require.Equal(t, 25500.0, result.DeliveryFee)
	require.Equal(t, 45500.0, result.Total)
	require.Regexp(t, `^ORD-`, result.OrderNumber)

	order := store.orders[result.OrderID]
	require.NotNil(t, order)
	require.Equal(t, models.StatusMenunggu, order.Status)
	require.Equal(t, result.Total, order.Total)
	require.Nil(t, order.UserID)
	require.NotNil(t, order.Meta.Payment)
	require.Equal(t, "qris", order.Meta.Payment.Method)

	items := store.items[result.OrderID]
	require.Len(t, items, 1)
	require.Equal(t, 20000.0, items[0].TotalPrice)

	waitFired(t, notifier)
	require.Len(t, notifier.purchases, 1)
	require.Equal(t, result.OrderID, notifier.purchases[0].Order.ID)
}

func TestCreateOrderSubtotalSumsRoundedLines(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	svc.Notifier = nil

	result, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Customer: CustomerInput{Email: "x@example.com", Name: "X"},
		Items: []ItemInput{
			{Name: "A", UnitPrice: 1500.25, Quantity: 3},
			{Name: "B", UnitPrice: 1999.5, Quantity: 2},
			{Name: "C (defaults to qty 1)", UnitPrice: 500},
		},
		Discount: 100,
	})
	require.NoError(t, err)

	require.Equal(t, 4500.75+3999.0+500.0, result.Subtotal)
	require.Equal(t, 0.0, result.DeliveryFee) // no city/method, no fee
	require.Equal(t, result.Subtotal-100, result.Total)
}

func TestCreateOrderValidation(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Customer: CustomerInput{Email: "x@example.com", Name: "X"},
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{
		Customer: CustomerInput{Email: "x@example.com", Name: "X"},
		Items:    []ItemInput{{Name: "A", UnitPrice: 100, Quantity: -1}},
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{
		Customer: CustomerInput{Email: "x@example.com", Name: "X"},
		Items:    []ItemInput{{Name: "A", UnitPrice: -5, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrValidation)

	require.Empty(t, store.orders, "validation failures must not persist anything")
}

func TestCreateOrderRejectsOversizedDiscount(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Customer: CustomerInput{Email: "x@example.com", Name: "X"},
		Items:    []ItemInput{{Name: "A", UnitPrice: 1000, Quantity: 1}},
		Discount: 5000,
	})
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, store.orders, "a negative-total order must never be persisted")

	// Discount equal to the order amount is the floor: total 0 is fine.
	result, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Customer:       CustomerInput{Email: "x@example.com", Name: "X", City: "bandung"},
		Items:          []ItemInput{{Name: "A", UnitPrice: 1000, Quantity: 1}},
		ShippingMethod: "jne",
		Discount:       26500, // 1000 subtotal + 25500 delivery
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, result.Total)
}

func TestCreateOrderShippingUnavailableBlocksPersistence(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()

	// surabaya is 780 km out; gosend only serves <= 30 km.
	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Customer:       CustomerInput{Email: "x@example.com", Name: "X", City: "surabaya"},
		Items:          []ItemInput{{ProductID: int64p(7), Name: "A", UnitPrice: 10000, Quantity: 2}},
		ShippingMethod: "gosend",
	})
	require.ErrorIs(t, err, ErrShippingUnavailable)
	require.Empty(t, store.orders)
	require.Empty(t, store.items)
}

func TestCreateOrderCallerSuppliedOrderNumberWins(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()
	svc.Notifier = nil

	result, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Customer:    CustomerInput{Email: "x@example.com", Name: "X"},
		Items:       []ItemInput{{Name: "A", UnitPrice: 100, Quantity: 1}},
		OrderNumber: "ORD-1756500000000-0042",
	})
	require.NoError(t, err)
	require.Equal(t, "ORD-1756500000000-0042", result.OrderNumber)
	require.Equal(t, "ORD-1756500000000-0042", store.orders[result.OrderID].OrderNumber)
}

func TestCreateOrderStockDecrement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		stock       int
		qty         int
		wantStock   int
		wantInStock bool
	}{
		{name: "partial sale", stock: 5, qty: 2, wantStock: 3, wantInStock: true},
		{name: "sell out", stock: 2, qty: 2, wantStock: 0, wantInStock: false},
		{name: "oversell clamps at zero", stock: 1, qty: 3, wantStock: 0, wantInStock: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, store, _ := newTestService()
			svc.Notifier = nil
			store.products[9] = &PurchaseInfo{ProductID: 9, Name: "Basreng", Stock: tc.stock, ReviewCount: 10}

			_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
				Customer: CustomerInput{Email: "x@example.com", Name: "X"},
				Items:    []ItemInput{{ProductID: int64p(9), Name: "Basreng", UnitPrice: 8000, Quantity: tc.qty}},
			})
			require.NoError(t, err)

			require.Equal(t, tc.wantStock, store.products[9].Stock)
			require.Equal(t, tc.wantInStock, store.inStockByID[9])
			require.Equal(t, 10+tc.qty, store.products[9].ReviewCount, "review_count doubles as purchase counter")
		})
	}
}

func TestCreateOrderUnknownProductKeepsSnapshot(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()
	svc.Notifier = nil

	// Product 404 does not exist; the line is still persisted.
	result, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Customer: CustomerInput{Email: "x@example.com", Name: "X"},
		Items:    []ItemInput{{ProductID: int64p(404), Name: "Discontinued", UnitPrice: 5000, Quantity: 1}},
	})
	require.NoError(t, err)
	require.Len(t, store.items[result.OrderID], 1)
}

func TestCreateOrderPartialFailureLeavesEarlierWrites(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()
	svc.Notifier = nil
	store.products[1] = &PurchaseInfo{ProductID: 1, Name: "A", Stock: 10, ReviewCount: 0}
	store.products[2] = &PurchaseInfo{ProductID: 2, Name: "B", Stock: 10, ReviewCount: 0}
	store.failItemAt = 2

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Customer: CustomerInput{Email: "x@example.com", Name: "X"},
		Items: []ItemInput{
			{ProductID: int64p(1), Name: "A", UnitPrice: 1000, Quantity: 2},
			{ProductID: int64p(2), Name: "B", UnitPrice: 1000, Quantity: 2},
		},
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrValidation)

	// No transaction: the order row and item 1's effects survive.
	require.Len(t, store.orders, 1)
	var orderID int64
	for id := range store.orders {
		orderID = id
	}
	require.Len(t, store.items[orderID], 1)
	require.Equal(t, 8, store.products[1].Stock)
	require.Equal(t, 10, store.products[2].Stock, "item 2 never got far enough to touch stock")
}

func TestSetStatus(t *testing.T) {
	t.Parallel()

	svc, store, notifier := newTestService()
	seedOrder(store, &models.Order{OrderNumber: "ORD-1-0001", Email: "budi@example.com", Status: models.StatusMenunggu, Total: 45500})

	t.Run("non-admin forbidden", func(t *testing.T) {
		_, err := svc.SetStatus(context.Background(), 1, models.StatusDikirim, models.RoleCustomer)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("invalid literal rejected, row untouched", func(t *testing.T) {
		_, err := svc.SetStatus(context.Background(), 1, "Shipped", models.RoleAdmin)
		require.ErrorIs(t, err, ErrInvalidStatus)
		require.Equal(t, models.StatusMenunggu, store.orders[1].Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.SetStatus(context.Background(), 99, models.StatusSelesai, models.RoleAdmin)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("valid transition notifies", func(t *testing.T) {
		order, err := svc.SetStatus(context.Background(), 1, models.StatusDikirim, models.RoleAdmin)
		require.NoError(t, err)
		require.Equal(t, models.StatusDikirim, order.Status)
		require.Equal(t, models.StatusDikirim, store.orders[1].Status)

		waitFired(t, notifier)
		require.Len(t, notifier.statusChanges, 1)
		require.Equal(t, models.StatusDikirim, notifier.statusChanges[0].Status)
	})

	t.Run("re-submitting the current status is a no-op", func(t *testing.T) {
		order, err := svc.SetStatus(context.Background(), 1, models.StatusDikirim, models.RoleAdmin)
		require.NoError(t, err)
		require.Equal(t, models.StatusDikirim, order.Status)
		require.Len(t, notifier.statusChanges, 1, "an unchanged status must not notify again")
	})
}

func TestGetOrderOwnership(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()
	seedOrder(store, &models.Order{OrderNumber: "ORD-1-0001", UserID: int64p(5), Email: "owner@example.com", Status: models.StatusMenunggu})

	_, err := svc.GetOrder(context.Background(), 1, Identity{UserID: 6, Email: "other@example.com"})
	require.ErrorIs(t, err, ErrForbidden)

	got, err := svc.GetOrder(context.Background(), 1, Identity{UserID: 5})
	require.NoError(t, err)
	require.Equal(t, int64(1), got.ID)

	// Guest orders are matched by email, case-insensitively.
	got, err = svc.GetOrder(context.Background(), 1, Identity{Email: "OWNER@example.com"})
	require.NoError(t, err)
	require.Equal(t, int64(1), got.ID)

	got, err = svc.GetOrder(context.Background(), 1, Identity{UserID: 99, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, int64(1), got.ID)

	_, err = svc.GetOrder(context.Background(), 404, Identity{Role: models.RoleAdmin})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListCustomerOrders(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()
	seedOrder(store, &models.Order{OrderNumber: "A", UserID: int64p(5), Email: "budi@example.com", Status: models.StatusMenunggu})
	seedOrder(store, &models.Order{OrderNumber: "B", Email: "budi@example.com", Status: models.StatusSelesai})
	seedOrder(store, &models.Order{OrderNumber: "C", UserID: int64p(6), Email: "siti@example.com", Status: models.StatusMenunggu})
	store.items[1] = []models.OrderItem{{OrderID: 1, Name: "Keripik", Quantity: 1}}

	list, err := svc.ListCustomerOrders(context.Background(), Identity{UserID: 5, Email: "budi@example.com"}, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2, "matched by id OR email")
	require.Len(t, list[0].Items, 1, "items are attached")

	list, err = svc.ListCustomerOrders(context.Background(), Identity{UserID: 5, Email: "budi@example.com"}, models.StatusSelesai, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "B", list[0].OrderNumber)
}

func seedOrder(store *fakeStore, o *models.Order) int64 {
	id, _ := store.InsertOrder(context.Background(), o)
	return id
}
