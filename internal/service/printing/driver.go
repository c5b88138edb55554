package printing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/domain"
	"service-fulfillment/internal/logx"
	"service-fulfillment/internal/retry"
)

type dispatcher interface {
	SendLabel(ctx context.Context, payload []byte) error
	Addr() string
}

type jobStore interface {
	Create(ctx context.Context, j *domain.PrintJob) (int64, error)
	Get(ctx context.Context, id int64) (*domain.PrintJob, error)
	ListByKey(ctx context.Context, key string) ([]domain.PrintJob, error)
	MarkSent(ctx context.Context, id int64, from domain.PrintState) (bool, error)
	MarkAcknowledged(ctx context.Context, id int64) (bool, error)
	MarkFailed(ctx context.Context, id int64, cause string) (bool, error)
	MarkExhausted(ctx context.Context, id int64, cause string) (bool, error)
}

type counter interface {
	Inc()
}

// Config tunes the print driver.
type Config struct {
	MaxAttempts int
	Delays      retry.Policy
}

// Driver walks print jobs through their state machine: mark Sent, write the
// label to the printer, mark Acknowledged or Failed, up to MaxAttempts per
// cycle, then Exhausted. A later cycle (replay or operator retry) gets a
// fresh budget; the job's Attempts column keeps the all-time count.
type Driver struct {
	jobs        jobStore
	printer     dispatcher
	maxAttempts int
	delays      retry.Policy
	logger      logx.Logger
	acked       counter
	failed      counter
}

func NewDriver(jobs jobStore, printer dispatcher, cfg Config, logger logx.Logger, acked, failed counter) *Driver {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	return &Driver{
		jobs:        jobs,
		printer:     printer,
		maxAttempts: cfg.MaxAttempts,
		delays:      cfg.Delays,
		logger:      logger,
		acked:       acked,
		failed:      failed,
	}
}

// EnsureJobs creates one queued job per label piece under the idempotency
// key. Pieces that already exist (from an earlier run of the same key) are
// left untouched; the full ordered list is returned.
func (d *Driver) EnsureJobs(ctx context.Context, idempotencyKey, orderID string, labels [][]byte) ([]domain.PrintJob, error) {
	existing, err := d.jobs.ListByKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if len(existing) >= len(labels) {
		return existing, nil
	}

	have := make(map[int]bool, len(existing))
	for _, j := range existing {
		have[j.Piece] = true
	}
	for piece, label := range labels {
		if have[piece] {
			continue
		}
		job := &domain.PrintJob{
			OrderID:        orderID,
			IdempotencyKey: idempotencyKey,
			Piece:          piece,
			Payload:        label,
			PrinterAddr:    d.printer.Addr(),
			State:          domain.PrintQueued,
		}
		if _, err := d.jobs.Create(ctx, job); err != nil && !errors.Is(err, apperr.Conflict) {
			return nil, err
		}
	}
	return d.jobs.ListByKey(ctx, idempotencyKey)
}

// Print drives every unfinished job under the key to a terminal state.
// Exhausted pieces do not stop the remaining ones; if any piece ends
// exhausted the whole call reports it so the run can fail without
// confirming the order.
func (d *Driver) Print(ctx context.Context, idempotencyKey string) error {
	jobs, err := d.jobs.ListByKey(ctx, idempotencyKey)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no print jobs for key %q", idempotencyKey)
	}

	var exhausted []int
	for i := range jobs {
		job := &jobs[i]
		switch job.State {
		case domain.PrintAcknowledged:
			continue
		case domain.PrintExhausted:
			exhausted = append(exhausted, job.Piece)
			continue
		}
		if err := d.drive(ctx, job); err != nil {
			if errors.Is(err, apperr.Exhausted) {
				exhausted = append(exhausted, job.Piece)
				continue
			}
			return err
		}
	}
	if len(exhausted) > 0 {
		return fmt.Errorf("%w: pieces %v", apperr.Exhausted, exhausted)
	}
	return nil
}

// PrintOne drives a single job, used by the operator retry path after a
// requeue.
func (d *Driver) PrintOne(ctx context.Context, id int64) error {
	job, err := d.jobs.Get(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("print job %d: %w", id, apperr.NotFound)
	}
	switch job.State {
	case domain.PrintAcknowledged:
		return nil
	case domain.PrintExhausted:
		return fmt.Errorf("piece %d: %w", job.Piece, apperr.Exhausted)
	}
	return d.drive(ctx, job)
}

func (d *Driver) drive(ctx context.Context, job *domain.PrintJob) error {
	if job.State == domain.PrintSent {
		// A Sent row outside a live cycle is a crashed send; the bytes may or
		// may not have reached the printer. Resolve it to Failed and resend.
		ok, err := d.jobs.MarkFailed(ctx, job.ID, "interrupted send")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		job.State = domain.PrintFailed
	}

	delays := d.delays.Delays()
	for attempt := 1; ; attempt++ {
		ok, err := d.jobs.MarkSent(ctx, job.ID, job.State)
		if err != nil {
			return err
		}
		if !ok {
			d.logger.Warn("print job changed state underneath, skipping",
				logx.Int64("job_id", job.ID),
				logx.String("order_id", job.OrderID))
			return nil
		}
		job.Attempts++

		sendErr := d.printer.SendLabel(ctx, job.Payload)
		if sendErr == nil {
			if _, err := d.jobs.MarkAcknowledged(ctx, job.ID); err != nil {
				return err
			}
			job.State = domain.PrintAcknowledged
			if d.acked != nil {
				d.acked.Inc()
			}
			d.logger.Info("label printed",
				logx.String("order_id", job.OrderID),
				logx.Int("piece", job.Piece),
				logx.Int("attempt", attempt))
			return nil
		}

		if d.failed != nil {
			d.failed.Inc()
		}
		if _, err := d.jobs.MarkFailed(ctx, job.ID, sendErr.Error()); err != nil {
			return err
		}
		job.State = domain.PrintFailed
		d.logger.Warn("print attempt failed",
			logx.String("order_id", job.OrderID),
			logx.Int("piece", job.Piece),
			logx.Int("attempt", attempt),
			logx.Err(sendErr))

		// An open printer breaker fails every piece the same way until the
		// cool-down elapses. Stop the cycle without exhausting the job; a
		// later replay gets a fresh budget against a recovered printer.
		if errors.Is(sendErr, apperr.CircuitOpen) {
			return sendErr
		}

		if attempt >= d.maxAttempts {
			if _, err := d.jobs.MarkExhausted(ctx, job.ID, sendErr.Error()); err != nil {
				return err
			}
			job.State = domain.PrintExhausted
			d.logger.Error("print job exhausted",
				logx.String("order_id", job.OrderID),
				logx.Int("piece", job.Piece),
				logx.Int("attempts_total", job.Attempts))
			return fmt.Errorf("piece %d: %w", job.Piece, apperr.Exhausted)
		}
		if err := sleepCtx(ctx, delays.NextBackOff()); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
