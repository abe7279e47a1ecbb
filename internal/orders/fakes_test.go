package orders

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/andrifirman/camilanku-golang/internal/models"
)

// fakeStore is an in-memory OrderStore + ProductStore standing in for
// MySQLStore.
type fakeStore struct {
	mu sync.Mutex

	nextOrderID int64
	orders      map[int64]*models.Order
	items       map[int64][]models.OrderItem
	products    map[int64]*PurchaseInfo
	inStockByID map[int64]bool

	// failItemAt makes the Nth InsertOrderItem call fail (1-based),
	// to exercise the documented partial-write behavior.
	failItemAt int
	itemCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:   map[int64]*models.Order{},
		items:    map[int64][]models.OrderItem{},
		products: map[int64]*PurchaseInfo{},
	}
}

func (f *fakeStore) InsertOrder(_ context.Context, o *models.Order) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextOrderID++
	cp := *o
	cp.ID = f.nextOrderID
	f.orders[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeStore) InsertOrderItem(_ context.Context, item *models.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemCalls++
	if f.failItemAt > 0 && f.itemCalls == f.failItemAt {
		return errors.New("connection reset by peer")
	}
	item.ID = int64(f.itemCalls)
	f.items[item.OrderID] = append(f.items[item.OrderID], *item)
	return nil
}

func (f *fakeStore) GetOrder(_ context.Context, id int64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	// Mirror the MySQL store: the driver reports changed rows, so a
	// no-op UPDATE is indistinguishable from a missing row.
	if !ok || o.Status == status {
		return ErrNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeStore) UpdateMeta(_ context.Context, id int64, meta models.OrderMeta) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Meta = meta
	return nil
}

func (f *fakeStore) ListItems(_ context.Context, orderID int64) ([]models.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.OrderItem{}, f.items[orderID]...), nil
}

func (f *fakeStore) ListByCustomer(_ context.Context, userID int64, email, status string, limit, offset int) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.sortedOrders() {
		owned := (userID != 0 && o.UserID != nil && *o.UserID == userID) || (email != "" && o.Email == email)
		if !owned {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, *o)
	}
	return page(out, limit, offset), nil
}

func (f *fakeStore) ListAll(_ context.Context, status string, limit, offset int) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.sortedOrders() {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, *o)
	}
	return page(out, limit, offset), nil
}

func (f *fakeStore) ListTrackable(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.sortedOrders() {
		if o.Status == models.StatusSelesai || o.Status == models.StatusGagal {
			continue
		}
		if o.Meta.Tracking == nil || o.Meta.Tracking.TrackingNumber == "" {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeStore) sortedOrders() []*models.Order {
	ids := make([]int64, 0, len(f.orders))
	for id := range f.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*models.Order, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.orders[id])
	}
	return out
}

func page(in []models.Order, limit, offset int) []models.Order {
	if offset >= len(in) {
		return []models.Order{}
	}
	end := offset + limit
	if end > len(in) {
		end = len(in)
	}
	return in[offset:end]
}

func (f *fakeStore) GetPurchaseInfo(_ context.Context, productID int64) (*PurchaseInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.products[productID]
	if !ok {
		return nil, nil
	}
	cp := *info
	return &cp, nil
}

func (f *fakeStore) UpdatePurchaseCounters(_ context.Context, productID int64, stock int, inStock bool, reviewCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.products[productID]
	if !ok {
		return errors.New("product vanished")
	}
	info.Stock = stock
	info.ReviewCount = reviewCount
	if f.inStockByID == nil {
		f.inStockByID = map[int64]bool{}
	}
	f.inStockByID[productID] = inStock
	return nil
}

// fakeNotifier records calls and signals on a channel so tests can
// wait for the fire-and-forget goroutine.
type fakeNotifier struct {
	mu            sync.Mutex
	purchases     []purchaseCall
	statusChanges []statusCall
	fired         chan struct{}
}

type purchaseCall struct {
	Order *models.Order
	Items []models.OrderItem
}

type statusCall struct {
	Order  *models.Order
	Status string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{fired: make(chan struct{}, 8)}
}

func (n *fakeNotifier) NotifyPurchase(_ context.Context, order *models.Order, items []models.OrderItem) {
	n.mu.Lock()
	n.purchases = append(n.purchases, purchaseCall{Order: order, Items: items})
	n.mu.Unlock()
	n.fired <- struct{}{}
}

func (n *fakeNotifier) NotifyStatusChange(_ context.Context, order *models.Order, status string) {
	n.mu.Lock()
	n.statusChanges = append(n.statusChanges, statusCall{Order: order, Status: status})
	n.mu.Unlock()
	n.fired <- struct{}{}
}

// fakeCarrier returns a canned answer or error.
type fakeCarrier struct {
	info *models.TrackingInfo
	err  error

	mu    sync.Mutex
	calls []string
}

func (fc *fakeCarrier) FetchStatus(_ context.Context, provider, trackingNumber string) (*models.TrackingInfo, error) {
	fc.mu.Lock()
	fc.calls = append(fc.calls, trackingNumber)
	fc.mu.Unlock()
	if fc.err != nil {
		return nil, fc.err
	}
	if fc.info == nil {
		return nil, nil
	}
	cp := *fc.info
	return &cp, nil
}
