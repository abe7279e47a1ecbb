// Package carrier is the boundary between the order pipeline and the
// shipment courier's API. The Adapter interface is the seam: swap the
// Mock for an HTTP-backed implementation without touching any caller.
package carrier

import (
	"context"

	"github.com/andrifirman/camilanku-golang/internal/models"
)

// Adapter maps (provider, tracking number) to a normalized tracking
// status and history.
//
// A (nil, nil) return means the carrier knows nothing about the
// shipment; callers treat that the same as a lookup failure. Real
// implementations are expected to honor ctx cancellation, since the
// background sweep calls this once per tracked order.
type Adapter interface {
	FetchStatus(ctx context.Context, provider, trackingNumber string) (*models.TrackingInfo, error)
}
