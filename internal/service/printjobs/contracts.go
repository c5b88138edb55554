package printjobs

import (
	"context"

	"service-fulfillment/internal/domain"
)

// jobStore defines the storage operations required by the operator surface.
type jobStore interface {
	Get(ctx context.Context, id int64) (*domain.PrintJob, error)
	ListByKey(ctx context.Context, key string) ([]domain.PrintJob, error)
	Requeue(ctx context.Context, id int64) (bool, error)
}

// printDriver re-runs the attempt cycle for one requeued job.
type printDriver interface {
	PrintOne(ctx context.Context, id int64) error
}
