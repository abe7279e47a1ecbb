package carrier

import (
	"context"
	"time"

	"github.com/andrifirman/camilanku-golang/internal/models"
)

// checkpoints the mock routes parcels through, keyed off the tracking
// number so repeated lookups stay deterministic.
var mockCheckpoints = []string{
	"Gudang Sortir Jakarta",
	"Hub Cikarang",
	"Hub Bandung",
	"Hub Semarang",
	"Hub Surabaya",
}

// Mock is a deterministic stand-in for a real courier API. It
// synthesizes a plausible two-entry history for any non-empty tracking
// number: handed to the courier 24 hours ago, in transit now.
type Mock struct {
	// Now is a clock hook for tests; defaults to time.Now.
	Now func() time.Time
}

// NewMock returns a Mock using the real clock.
func NewMock() *Mock {
	return &Mock{Now: time.Now}
}

// FetchStatus implements Adapter.
func (m *Mock) FetchStatus(_ context.Context, provider, trackingNumber string) (*models.TrackingInfo, error) {
	if trackingNumber == "" {
		return nil, nil
	}

	now := m.Now()
	checkpoint := mockCheckpoints[int(trackingNumber[len(trackingNumber)-1])%len(mockCheckpoints)]

	return &models.TrackingInfo{
		Provider:       provider,
		TrackingNumber: trackingNumber,
		Status:         models.StatusDalamPengiriman,
		History: []models.TrackingEvent{
			{
				Status:    models.StatusDikirim,
				Location:  "Gudang Asal",
				Timestamp: now.Add(-24 * time.Hour),
				Note:      "Paket diserahkan ke kurir",
			},
			{
				Status:    models.StatusDalamPengiriman,
				Location:  checkpoint,
				Timestamp: now,
			},
		},
	}, nil
}
