package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-fulfillment/internal/domain"
)

// RunRepo stores fulfillment runs, the persisted state machine of one
// order's shipping sequence.
type RunRepo struct{ db *pgxpool.Pool }

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *pgxpool.Pool) *RunRepo { return &RunRepo{db: db} }

const runColumns = `idempotency_key, order_id, state, fail_reason, correlation_id,
        tracking_numbers, callback_delivered, callback_last_error, events, started_at, updated_at`

// Get - returns the run for the key, or nil when absent.
func (r *RunRepo) Get(ctx context.Context, key string) (*domain.Run, error) {
	var run domain.Run
	err := r.db.QueryRow(ctx, `
        SELECT `+runColumns+`
        FROM fulfillment_runs
        WHERE idempotency_key = $1
    `, key).Scan(&run.IdempotencyKey, &run.OrderID, &run.State, &run.FailReason,
		&run.CorrelationID, &run.TrackingNumbers, &run.CallbackDelivered,
		&run.CallbackLastError, &run.Events, &run.StartedAt, &run.UpdatedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get run %q: %w", key, err)
	}
	return &run, nil
}

// GetOrCreate returns the run for the key, creating it in state received when
// no run exists yet. The second result reports whether a row was created.
func (r *RunRepo) GetOrCreate(ctx context.Context, key, orderID, correlationID string) (*domain.Run, bool, error) {
	ct, err := r.db.Exec(ctx, `
        INSERT INTO fulfillment_runs (idempotency_key, order_id, state, correlation_id)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (idempotency_key) DO NOTHING
    `, key, orderID, string(domain.RunReceived), correlationID)
	if err != nil {
		return nil, false, fmt.Errorf("create run %q: %w", key, err)
	}

	run, err := r.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if run == nil {
		return nil, false, fmt.Errorf("run %q vanished after insert", key)
	}
	return run, ct.RowsAffected() > 0, nil
}

// UpdateState moves a run between states, guarded by the expected current
// state. failReason is recorded on the way into failed and cleared otherwise.
func (r *RunRepo) UpdateState(ctx context.Context, key string, from, to domain.RunState, failReason string) (bool, error) {
	if to != domain.RunFailed {
		failReason = ""
	}
	ct, err := r.db.Exec(ctx, `
        UPDATE fulfillment_runs
        SET state = $3, fail_reason = $4, updated_at = now()
        WHERE idempotency_key = $1 AND state = $2
    `, key, string(from), string(to), failReason)
	if err != nil {
		return false, fmt.Errorf("update run %q state: %w", key, err)
	}
	return ct.RowsAffected() > 0, nil
}

// SetTracking records the tracking numbers assigned by the carrier.
func (r *RunRepo) SetTracking(ctx context.Context, key string, trackingNumbers []string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE fulfillment_runs
        SET tracking_numbers = $2, updated_at = now()
        WHERE idempotency_key = $1
    `, key, trackingNumbers)
	if err != nil {
		return fmt.Errorf("set tracking for run %q: %w", key, err)
	}
	return nil
}

// MarkCallback records the outcome of the latest callback delivery attempt.
func (r *RunRepo) MarkCallback(ctx context.Context, key string, delivered bool, lastError string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE fulfillment_runs
        SET callback_delivered = $2, callback_last_error = $3, updated_at = now()
        WHERE idempotency_key = $1
    `, key, delivered, lastError)
	if err != nil {
		return fmt.Errorf("mark callback for run %q: %w", key, err)
	}
	return nil
}

// AppendEvent appends one event to the run's audit trail.
func (r *RunRepo) AppendEvent(ctx context.Context, key string, ev domain.RunEvent) error {
	_, err := r.db.Exec(ctx, `
        UPDATE fulfillment_runs
        SET events = events || $2::jsonb, updated_at = now()
        WHERE idempotency_key = $1
    `, key, ev)
	if err != nil {
		return fmt.Errorf("append event to run %q: %w", key, err)
	}
	return nil
}

// ListCallbackPending returns settled runs whose callback has not been
// delivered yet, oldest first.
func (r *RunRepo) ListCallbackPending(ctx context.Context, limit int) ([]domain.Run, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+runColumns+`
        FROM fulfillment_runs
        WHERE callback_delivered = false
          AND state IN ($1, $2)
        ORDER BY updated_at
        LIMIT $3
    `, string(domain.RunOrderConfirmed), string(domain.RunFailed), limit)
	if err != nil {
		return nil, fmt.Errorf("list callback pending runs: %w", err)
	}
	defer rows.Close()
	return collectRuns(rows)
}

// ListUnfinished returns runs parked in a non-terminal state with no progress
// since the cutoff, oldest first.
func (r *RunRepo) ListUnfinished(ctx context.Context, cutoff time.Time, limit int) ([]domain.Run, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+runColumns+`
        FROM fulfillment_runs
        WHERE state NOT IN ($1, $2)
          AND updated_at < $3
        ORDER BY updated_at
        LIMIT $4
    `, string(domain.RunCallbackSent), string(domain.RunFailed), cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list unfinished runs: %w", err)
	}
	defer rows.Close()
	return collectRuns(rows)
}

// ListTrackable returns confirmed runs with tracking numbers started after
// since, oldest first. These are the runs whose carrier status is worth
// polling.
func (r *RunRepo) ListTrackable(ctx context.Context, since time.Time, limit int) ([]domain.Run, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+runColumns+`
        FROM fulfillment_runs
        WHERE cardinality(tracking_numbers) > 0
          AND state IN ($1, $2)
          AND started_at > $3
        ORDER BY updated_at
        LIMIT $4
    `, string(domain.RunOrderConfirmed), string(domain.RunCallbackSent), since, limit)
	if err != nil {
		return nil, fmt.Errorf("list trackable runs: %w", err)
	}
	defer rows.Close()
	return collectRuns(rows)
}

// ListMissingTracking returns runs past shipment creation that still have no
// tracking numbers recorded, oldest first.
func (r *RunRepo) ListMissingTracking(ctx context.Context, limit int) ([]domain.Run, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+runColumns+`
        FROM fulfillment_runs
        WHERE cardinality(tracking_numbers) = 0
          AND state IN ($1, $2, $3)
        ORDER BY updated_at
        LIMIT $4
    `, string(domain.RunShipmentCreated), string(domain.RunLabelsPrinted),
		string(domain.RunOrderConfirmed), limit)
	if err != nil {
		return nil, fmt.Errorf("list runs missing tracking: %w", err)
	}
	defer rows.Close()
	return collectRuns(rows)
}

func collectRuns(rows pgx.Rows) ([]domain.Run, error) {
	var out []domain.Run
	for rows.Next() {
		var run domain.Run
		if err := rows.Scan(&run.IdempotencyKey, &run.OrderID, &run.State, &run.FailReason,
			&run.CorrelationID, &run.TrackingNumbers, &run.CallbackDelivered,
			&run.CallbackLastError, &run.Events, &run.StartedAt, &run.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
