// Package notify turns a single order event into notification rows for
// every affected reseller and admin, plus a best-effort Telegram push.
// Everything here is fire-and-forget: errors are logged, never
// returned, and never fail the order that triggered them.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/andrifirman/camilanku-golang/internal/models"
)

// Store is the persistence boundary for the fan-out.
type Store interface {
	// ResellerForProduct returns (nil, nil) when the product is gone
	// or platform-owned; such lines simply get no reseller row.
	ResellerForProduct(ctx context.Context, productID int64) (*int64, error)
	ListAdminIDs(ctx context.Context) ([]int64, error)
	InsertNotification(ctx context.Context, n *models.Notification) error
}

// Service implements orders.Notifier.
type Service struct {
	Store    Store
	Telegram *TelegramClient // nil-safe; disabled client is a no-op
}

func NewService(store Store, telegram *TelegramClient) *Service {
	return &Service{Store: store, Telegram: telegram}
}

// NotifyPurchase writes one notification row per reseller-owned line
// item and one summary row per admin user, then pushes the order to
// the Telegram channel.
func (s *Service) NotifyPurchase(ctx context.Context, order *models.Order, items []models.OrderItem) {
	for i := range items {
		item := &items[i]
		if item.ProductID == nil {
			continue
		}
		resellerID, err := s.Store.ResellerForProduct(ctx, *item.ProductID)
		if err != nil {
			log.Printf("notify: order %s: reseller lookup for product %d failed: %v", order.OrderNumber, *item.ProductID, err)
			continue
		}
		if resellerID == nil {
			continue
		}
		n := &models.Notification{
			UserID:    *resellerID,
			Type:      models.NotificationOrderPurchase,
			Title:     "Produk kamu terjual",
			Message: fmt.Sprintf("%s terjual %d pcs @ %s pada pesanan %s",
				item.Name, item.Quantity, formatRupiah(item.UnitPrice), order.OrderNumber),
			OrderID:   &order.ID,
			ProductID: item.ProductID,
		}
		if err := s.Store.InsertNotification(ctx, n); err != nil {
			log.Printf("notify: order %s: reseller notification for user %d failed: %v", order.OrderNumber, *resellerID, err)
		}
	}

	admins, err := s.Store.ListAdminIDs(ctx)
	if err != nil {
		log.Printf("notify: order %s: admin lookup failed: %v", order.OrderNumber, err)
	} else {
		message := fmt.Sprintf("Pesanan baru %s: %d item, total %s",
			order.OrderNumber, len(items), formatRupiah(order.Total))
		for _, adminID := range admins {
			n := &models.Notification{
				UserID:  adminID,
				Type:    models.NotificationOrderPurchase,
				Title:   "Pesanan baru",
				Message: message,
				OrderID: &order.ID,
			}
			if err := s.Store.InsertNotification(ctx, n); err != nil {
				log.Printf("notify: order %s: admin notification for user %d failed: %v", order.OrderNumber, adminID, err)
			}
		}
	}

	if err := s.Telegram.SendMessage(ctx, newOrderText(order, items)); err != nil {
		log.Printf("notify: order %s: telegram push failed: %v", order.OrderNumber, err)
	}
}

// NotifyStatusChange pushes a staff status transition to the Telegram
// channel.
func (s *Service) NotifyStatusChange(ctx context.Context, order *models.Order, newStatus string) {
	text := fmt.Sprintf("Status pesanan %s: %s\nPelanggan: %s\nTotal: %s",
		order.OrderNumber, newStatus, order.Name, formatRupiah(order.Total))
	if err := s.Telegram.SendMessage(ctx, text); err != nil {
		log.Printf("notify: order %s: telegram status push failed: %v", order.OrderNumber, err)
	}
}

func newOrderText(order *models.Order, items []models.OrderItem) string {
	text := fmt.Sprintf("Pesanan baru %s\nPelanggan: %s (%s)\nKota: %s\nPembayaran: %s\n",
		order.OrderNumber, order.Name, order.Email, order.City, order.PaymentMethod)
	for i := range items {
		text += fmt.Sprintf("- %s x%d = %s\n", items[i].Name, items[i].Quantity, formatRupiah(items[i].TotalPrice))
	}
	text += fmt.Sprintf("Ongkir: %s\nTotal: %s", formatRupiah(order.DeliveryFee), formatRupiah(order.Total))
	return text
}

func formatRupiah(v float64) string {
	return fmt.Sprintf("Rp%.0f", v)
}
