package orders

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/andrifirman/camilanku-golang/internal/models"
)

// TrackingPatch is a staff edit of the tracking sub-document. Nil
// fields are left untouched; this is the merge half of the tracking
// state machine (the carrier refresh is the replace half).
type TrackingPatch struct {
	Provider       *string
	TrackingNumber *string
	History        []models.TrackingEvent
}

// SetTracking applies a staff MERGE into the order's tracking
// sub-document: only the supplied fields overwrite, absent fields
// survive. A history entry without a status is malformed input and is
// rejected rather than stored.
func (s *Service) SetTracking(ctx context.Context, orderID int64, patch TrackingPatch, requesterRole string) (*models.OrderMeta, error) {
	if requesterRole != models.RoleAdmin {
		return nil, ErrForbidden
	}
	for i, ev := range patch.History {
		if ev.Status == "" {
			return nil, fmt.Errorf("%w: history entry %d has no status", ErrValidation, i)
		}
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	meta := order.Meta
	if meta.Tracking == nil {
		meta.Tracking = &models.TrackingInfo{}
	}
	if patch.Provider != nil {
		meta.Tracking.Provider = *patch.Provider
	}
	if patch.TrackingNumber != nil {
		meta.Tracking.TrackingNumber = *patch.TrackingNumber
	}
	if patch.History != nil {
		meta.Tracking.History = patch.History
	}

	if err := s.Orders.UpdateMeta(ctx, orderID, meta); err != nil {
		return nil, fmt.Errorf("update order metadata: %w", err)
	}
	return &meta, nil
}

// RefreshTracking asks the carrier for the current status and REPLACES
// the tracking sub-document wholesale with the normalized result. The
// requester must be the order's owner (by user id or contact email) or
// an admin.
func (s *Service) RefreshTracking(ctx context.Context, orderID int64, requester Identity) (*models.OrderMeta, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin() && !ownerMatches(order, requester) {
		return nil, ErrForbidden
	}

	tracking := order.Meta.Tracking
	if tracking == nil || tracking.TrackingNumber == "" {
		return nil, ErrNoTrackingNumber
	}

	fresh, err := s.Carrier.FetchStatus(ctx, tracking.Provider, tracking.TrackingNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCarrier, err)
	}
	if fresh == nil {
		return nil, fmt.Errorf("%w: carrier returned no data for %s", ErrCarrier, tracking.TrackingNumber)
	}

	meta := order.Meta
	meta.Tracking = fresh
	if err := s.Orders.UpdateMeta(ctx, orderID, meta); err != nil {
		return nil, fmt.Errorf("update order metadata: %w", err)
	}
	return &meta, nil
}

// SweepTracking refreshes every trackable order in sequence, waiting
// delay between carrier calls to avoid hammering the external API.
// Per-order failures are logged and skipped; the sweep stops early
// only when ctx is done. Returns the number of orders updated.
func (s *Service) SweepTracking(ctx context.Context, delay time.Duration) (int, error) {
	list, err := s.Orders.ListTrackable(ctx)
	if err != nil {
		return 0, fmt.Errorf("list trackable orders: %w", err)
	}

	updated := 0
	for i := range list {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return updated, ctx.Err()
			case <-time.After(delay):
			}
		}

		o := &list[i]
		tracking := o.Meta.Tracking
		if tracking == nil || tracking.TrackingNumber == "" {
			continue
		}
		fresh, err := s.Carrier.FetchStatus(ctx, tracking.Provider, tracking.TrackingNumber)
		if err != nil || fresh == nil {
			log.Printf("orders: sweep: carrier lookup for order %d (%s) failed: %v", o.ID, tracking.TrackingNumber, err)
			continue
		}
		meta := o.Meta
		meta.Tracking = fresh
		if err := s.Orders.UpdateMeta(ctx, o.ID, meta); err != nil {
			log.Printf("orders: sweep: persisting tracking for order %d failed: %v", o.ID, err)
			continue
		}
		updated++
	}
	return updated, nil
}
