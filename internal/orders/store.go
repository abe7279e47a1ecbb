package orders

import (
	"context"

	"github.com/andrifirman/camilanku-golang/internal/models"
)

// OrderStore is the persistence boundary for orders and their items.
// The production implementation is MySQLStore; tests plug in fakes.
type OrderStore interface {
	InsertOrder(ctx context.Context, o *models.Order) (int64, error)
	InsertOrderItem(ctx context.Context, item *models.OrderItem) error
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdateMeta(ctx context.Context, id int64, meta models.OrderMeta) error
	ListItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	// ListByCustomer matches orders by user id OR contact email, since
	// guest checkouts only have an email. Empty status means no filter.
	ListByCustomer(ctx context.Context, userID int64, email, status string, limit, offset int) ([]models.Order, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]models.Order, error)
	// ListTrackable returns orders that have a tracking number and are
	// still in flight (not Selesai/Gagal), for the background sweep.
	ListTrackable(ctx context.Context) ([]models.Order, error)
}

// PurchaseInfo is the slice of a product row the intake pipeline
// touches when a line item is sold.
type PurchaseInfo struct {
	ProductID   int64
	ResellerID  *int64
	Name        string
	Stock       int
	// ReviewCount doubles as a purchase counter: every purchased unit
	// bumps it, and the storefront reads the same column for review
	// aggregation. Historical quirk, kept on purpose.
	ReviewCount int
}

// ProductStore is the product read/write boundary. Catalog CRUD lives
// elsewhere; the pipeline only reads purchase info and writes the
// post-sale counters.
type ProductStore interface {
	// GetPurchaseInfo returns (nil, nil) for an unknown product; a
	// sold line may reference a product that has since been deleted.
	GetPurchaseInfo(ctx context.Context, productID int64) (*PurchaseInfo, error)
	UpdatePurchaseCounters(ctx context.Context, productID int64, stock int, inStock bool, reviewCount int) error
}

// Notifier receives order events after the order is durable. Both
// calls are best-effort: implementations log failures and never
// propagate them, and callers never wait on the result.
type Notifier interface {
	NotifyPurchase(ctx context.Context, order *models.Order, items []models.OrderItem)
	NotifyStatusChange(ctx context.Context, order *models.Order, newStatus string)
}
