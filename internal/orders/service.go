package orders

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/andrifirman/camilanku-golang/internal/carrier"
	"github.com/andrifirman/camilanku-golang/internal/models"
	"github.com/andrifirman/camilanku-golang/internal/shipping"
)

// notifyTimeout bounds the fire-and-forget notification fan-out so a
// hung Telegram call cannot leak a goroutine per order.
const notifyTimeout = 10 * time.Second

// Service orchestrates order intake, status/tracking mutation and the
// customer-facing order queries.
type Service struct {
	Orders   OrderStore
	Products ProductStore
	Notifier Notifier
	Carrier  carrier.Adapter
}

// Identity is the authenticated requester attached by the auth
// middleware. A guest has UserID 0 and an empty Role.
type Identity struct {
	UserID int64
	Email  string
	Role   string
}

// IsAdmin reports whether the requester has the admin role.
func (id Identity) IsAdmin() bool { return id.Role == models.RoleAdmin }

// CustomerInput is the contact snapshot submitted at checkout.
type CustomerInput struct {
	Email      string
	Name       string
	Phone      string
	Address    string
	City       string
	Province   string
	PostalCode string
}

// ItemInput is one cart line as submitted by the client. UnitPrice is
// snapshotted as-is; the storefront quotes it and the reseller console
// audits it.
type ItemInput struct {
	ProductID *int64
	Name      string
	UnitPrice float64
	Quantity  int
	Options   models.ItemOptions
}

// CreateOrderInput is everything CreateOrder needs. The caller treats
// one call as one single-seller checkout; a multi-seller cart issues
// one call per seller group so each order carries its own delivery fee.
type CreateOrderInput struct {
	Customer       CustomerInput
	Items          []ItemInput
	ShippingMethod string
	PaymentMethod  string
	Discount       float64
	// OrderNumber, when supplied, takes precedence over a generated
	// one. It is the idempotency hook for retried client submissions.
	OrderNumber string
	// UserID is nil for guest checkout.
	UserID *int64
}

// CreateOrderResult echoes the server-computed totals. Client-submitted
// totals are never trusted or returned.
type CreateOrderResult struct {
	OrderID     int64   `json:"orderId"`
	OrderNumber string  `json:"orderNumber"`
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateOrder validates the cart, quotes shipping, persists the order
// and its items, decrements stock, and kicks off the notification
// fan-out asynchronously.
//
// The per-item loop runs WITHOUT an enclosing transaction: a failure
// on item N leaves items 1..N-1 and their stock decrements in place.
// That partial state is logged for operators; the caller's retry path
// is resubmitting with the same order number.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: item list is empty", ErrValidation)
	}

	// 1. Normalize items and accumulate the subtotal.
	var subtotal float64
	items := make([]models.OrderItem, 0, len(in.Items))
	for i, it := range in.Items {
		if it.Quantity < 0 {
			return nil, fmt.Errorf("%w: item %d has negative quantity", ErrValidation, i)
		}
		if it.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: item %d has negative unit price", ErrValidation, i)
		}
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		lineTotal := round2(it.UnitPrice * float64(qty))
		subtotal += lineTotal

		items = append(items, models.OrderItem{
			ProductID:  it.ProductID,
			Name:       it.Name,
			UnitPrice:  it.UnitPrice,
			Quantity:   qty,
			TotalPrice: lineTotal,
			Options:    it.Options,
		})
	}
	subtotal = round2(subtotal)

	// 2. Quote shipping for this (single-seller) batch. Unavailable
	//    blocks the order before anything is written.
	var deliveryFee float64
	if in.Customer.City != "" && in.ShippingMethod != "" {
		fee, _, available := shipping.Quote(in.Customer.City, in.Customer.PostalCode, in.ShippingMethod)
		if !available {
			return nil, fmt.Errorf("%w: %s to %s", ErrShippingUnavailable, in.ShippingMethod, in.Customer.City)
		}
		deliveryFee = float64(fee)
	}

	discount := in.Discount
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal+deliveryFee {
		return nil, fmt.Errorf("%w: discount %.2f exceeds order amount %.2f", ErrValidation, discount, subtotal+deliveryFee)
	}
	total := round2(subtotal - discount + deliveryFee)

	orderNumber := strings.TrimSpace(in.OrderNumber)
	if orderNumber == "" {
		orderNumber = NextOrderNumber()
	}

	// 3. Persist the order row with the server-computed totals.
	order := &models.Order{
		OrderNumber:   orderNumber,
		UserID:        in.UserID,
		Email:         in.Customer.Email,
		Name:          in.Customer.Name,
		Phone:         in.Customer.Phone,
		Address:       in.Customer.Address,
		City:          in.Customer.City,
		Province:      in.Customer.Province,
		PostalCode:    in.Customer.PostalCode,
		PaymentMethod: in.PaymentMethod,
		Subtotal:      subtotal,
		Discount:      discount,
		DeliveryFee:   deliveryFee,
		Total:         total,
		Status:        models.StatusMenunggu,
		Meta: models.OrderMeta{
			Payment: &models.PaymentInfo{Method: in.PaymentMethod},
		},
		CreatedAt: time.Now(),
	}
	orderID, err := s.Orders.InsertOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	order.ID = orderID

	// 4. Persist items and mutate stock, one round-trip at a time.
	for i := range items {
		items[i].OrderID = orderID
		if err := s.Orders.InsertOrderItem(ctx, &items[i]); err != nil {
			log.Printf("orders: order %d (%s): item %d/%d failed, order left partially populated: %v",
				orderID, orderNumber, i+1, len(items), err)
			return nil, fmt.Errorf("save order item: %w", err)
		}
		if items[i].ProductID == nil {
			continue
		}
		if err := s.recordPurchase(ctx, *items[i].ProductID, items[i].Quantity); err != nil {
			log.Printf("orders: order %d (%s): stock update for product %d failed, order left partially populated: %v",
				orderID, orderNumber, *items[i].ProductID, err)
			return nil, fmt.Errorf("update product counters: %w", err)
		}
	}
	order.Items = items

	// 5. Fan out notifications without blocking the response. Fan-out
	//    failure never fails the order.
	if s.Notifier != nil {
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			s.Notifier.NotifyPurchase(nctx, order, items)
		}()
	}

	return &CreateOrderResult{
		OrderID:     orderID,
		OrderNumber: orderNumber,
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: deliveryFee,
		Total:       total,
	}, nil
}

// recordPurchase applies the post-sale counters for one line item:
// stock floor-clamped at zero, in_stock derived, review_count bumped
// by the purchased quantity (the column doubles as a purchase counter).
//
// Read-then-write with no concurrency token: two simultaneous
// checkouts of the same product can both read stale stock. Known race,
// kept as-is; the single place a compare-and-swap UPDATE would go.
func (s *Service) recordPurchase(ctx context.Context, productID int64, quantity int) error {
	info, err := s.Products.GetPurchaseInfo(ctx, productID)
	if err != nil {
		return err
	}
	if info == nil {
		// Unknown or deleted product: the item row keeps its snapshot,
		// there is just no live product to mutate.
		return nil
	}
	newStock := info.Stock - quantity
	if newStock < 0 {
		newStock = 0
	}
	return s.Products.UpdatePurchaseCounters(ctx, productID, newStock, newStock > 0, info.ReviewCount+quantity)
}

// SetStatus applies a staff status transition. Only admins may call
// it, and only the five allowed literals pass; anything else is
// rejected before any write. On success a best-effort status push goes
// out without blocking the response.
func (s *Service) SetStatus(ctx context.Context, orderID int64, newStatus, requesterRole string) (*models.Order, error) {
	if requesterRole != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if !models.IsValidOrderStatus(newStatus) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Idempotent retry: the UPDATE would change zero rows (MySQL
	// reports changed rows, not matched rows), so don't run it at all.
	if order.Status == newStatus {
		return order, nil
	}
	if err := s.Orders.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = newStatus

	if s.Notifier != nil {
		pushed := *order
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			s.Notifier.NotifyStatusChange(nctx, &pushed, newStatus)
		}()
	}
	return order, nil
}

// GetOrder returns one order with its items, for the owner or an admin.
func (s *Service) GetOrder(ctx context.Context, orderID int64, requester Identity) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin() && !ownerMatches(order, requester) {
		return nil, ErrForbidden
	}
	items, err := s.Orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	order.Items = items
	return order, nil
}

// ListCustomerOrders returns the requester's orders (matched by user
// id or contact email), newest first, with items attached.
func (s *Service) ListCustomerOrders(ctx context.Context, requester Identity, status string, page, pageSize int) ([]models.Order, error) {
	limit, offset := clampPage(page, pageSize)
	list, err := s.Orders.ListByCustomer(ctx, requester.UserID, requester.Email, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	for i := range list {
		items, err := s.Orders.ListItems(ctx, list[i].ID)
		if err != nil {
			return nil, fmt.Errorf("load order items: %w", err)
		}
		list[i].Items = items
	}
	return list, nil
}

// ListAllOrders is the admin console listing, optionally filtered by
// status.
func (s *Service) ListAllOrders(ctx context.Context, status string, page, pageSize int) ([]models.Order, error) {
	limit, offset := clampPage(page, pageSize)
	list, err := s.Orders.ListAll(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}

func (s *Service) getOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// ownerMatches honors both checks because guest checkouts only have an
// email to match on.
func ownerMatches(order *models.Order, requester Identity) bool {
	if requester.UserID != 0 && order.UserID != nil && *order.UserID == requester.UserID {
		return true
	}
	if requester.Email != "" && strings.EqualFold(order.Email, requester.Email) {
		return true
	}
	return false
}

func clampPage(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return pageSize, (page - 1) * pageSize
}
