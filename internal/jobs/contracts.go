//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=jobs

package jobs

import (
	"context"
	"time"

	"service-fulfillment/internal/domain"
)

// shipper replays and finalizes fulfillment runs.
type shipper interface {
	Ship(ctx context.Context, orderID, correlationID string) (*domain.Run, error)
	ResendCallback(ctx context.Context, key string) error
	RecordTracking(ctx context.Context, orderID, trackingNumber, status string, at time.Time) error
}

// runSource lists runs that need the sweep's attention.
type runSource interface {
	ListUnfinished(ctx context.Context, cutoff time.Time, limit int) ([]domain.Run, error)
	ListCallbackPending(ctx context.Context, limit int) ([]domain.Run, error)
	ListTrackable(ctx context.Context, since time.Time, limit int) ([]domain.Run, error)
}

// trackingSource answers carrier delivery status per tracking number.
type trackingSource interface {
	LookupTracking(ctx context.Context, trackingNumber string) (string, error)
}
