package printjobs

import (
	"context"
	"fmt"
	"time"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/domain"
	"service-fulfillment/internal/logx"
)

// Service - operator surface over print jobs: inspect state and attempts,
// requeue an exhausted job for a fresh cycle.
type Service struct {
	jobs             jobStore
	driver           printDriver
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService - creates a new print job Service.
func NewService(jobs jobStore, driver printDriver, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		jobs:             jobs,
		driver:           driver,
		operationTimeout: timeout,
		logger:           logger,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Get returns one print job with its state, attempt count and last error.
func (s *Service) Get(ctx context.Context, id int64) (*domain.PrintJob, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("print job %d: %w", id, apperr.NotFound)
	}
	return job, nil
}

// ListByKey returns every piece of one shipment, ordered by piece.
func (s *Service) ListByKey(ctx context.Context, key string) ([]domain.PrintJob, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.jobs.ListByKey(ctx, key)
}

// Retry requeues an exhausted job and immediately runs a fresh attempt cycle.
// Historical attempts survive the requeue; only exhausted jobs qualify. The
// reloaded job is returned so the caller sees the cycle's outcome.
func (s *Service) Retry(ctx context.Context, id int64) (*domain.PrintJob, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("print job %d: %w", id, apperr.NotFound)
	}
	if job.State != domain.PrintExhausted {
		return nil, fmt.Errorf("print job %d is %s, only exhausted jobs can be retried: %w",
			id, job.State, apperr.Conflict)
	}

	ok, err := s.jobs.Requeue(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("print job %d changed state: %w", id, apperr.Conflict)
	}
	s.logger.Info("print job requeued",
		logx.Int64("job_id", id),
		logx.String("order_id", job.OrderID),
		logx.Int("prior_attempts", job.Attempts))

	if err := s.driver.PrintOne(ctx, id); err != nil {
		s.logger.Warn("requeued print job did not finish",
			logx.Int64("job_id", id),
			logx.Err(err))
	}

	return s.jobs.Get(ctx, id)
}
