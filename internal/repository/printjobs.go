package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/domain"
)

// PrintJobRepo stores label print jobs and guards their state transitions.
type PrintJobRepo struct{ db *pgxpool.Pool }

// NewPrintJobRepo creates a new PrintJobRepo.
func NewPrintJobRepo(db *pgxpool.Pool) *PrintJobRepo { return &PrintJobRepo{db: db} }

const printJobColumns = `id, order_id, idempotency_key, piece, payload, printer_addr,
        state, attempts, last_error, first_attempt_at, last_attempt_at, created_at`

// Create - creates a new print job in state queued.
// Returns apperr.Conflict when a job for the same key and piece already exists.
func (r *PrintJobRepo) Create(ctx context.Context, j *domain.PrintJob) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
        INSERT INTO print_jobs (order_id, idempotency_key, piece, payload, printer_addr, state)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, j.OrderID, j.IdempotencyKey, j.Piece, j.Payload, j.PrinterAddr,
		string(domain.PrintQueued)).Scan(&id)
	if err != nil {
		if IsDuplicate(err) {
			return 0, apperr.Conflict
		}
		return 0, fmt.Errorf("create print job for %q piece %d: %w", j.IdempotencyKey, j.Piece, err)
	}
	return id, nil
}

// Get - returns a print job by its ID, or nil when absent.
func (r *PrintJobRepo) Get(ctx context.Context, id int64) (*domain.PrintJob, error) {
	var j domain.PrintJob
	err := r.db.QueryRow(ctx, `
        SELECT `+printJobColumns+`
        FROM print_jobs
        WHERE id = $1
    `, id).Scan(&j.ID, &j.OrderID, &j.IdempotencyKey, &j.Piece, &j.Payload, &j.PrinterAddr,
		&j.State, &j.Attempts, &j.LastError, &j.FirstAttemptAt, &j.LastAttemptAt, &j.CreatedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get print job %d: %w", id, err)
	}
	return &j, nil
}

// ListByKey returns the jobs of one fulfillment run ordered by piece.
func (r *PrintJobRepo) ListByKey(ctx context.Context, key string) ([]domain.PrintJob, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+printJobColumns+`
        FROM print_jobs
        WHERE idempotency_key = $1
        ORDER BY piece
    `, key)
	if err != nil {
		return nil, fmt.Errorf("list print jobs for %q: %w", key, err)
	}
	defer rows.Close()

	var out []domain.PrintJob
	for rows.Next() {
		var j domain.PrintJob
		if err := rows.Scan(&j.ID, &j.OrderID, &j.IdempotencyKey, &j.Piece, &j.Payload,
			&j.PrinterAddr, &j.State, &j.Attempts, &j.LastError,
			&j.FirstAttemptAt, &j.LastAttemptAt, &j.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// MarkSent moves a job from the given state to sent, counting the attempt.
// Returns false when the job was not in that state.
func (r *PrintJobRepo) MarkSent(ctx context.Context, id int64, from domain.PrintState) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE print_jobs
        SET state            = $3,
            attempts         = attempts + 1,
            first_attempt_at = COALESCE(first_attempt_at, now()),
            last_attempt_at  = now()
        WHERE id = $1 AND state = $2
    `, id, string(from), string(domain.PrintSent))
	if err != nil {
		return false, fmt.Errorf("mark print job %d sent: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// MarkAcknowledged moves a sent job to acknowledged.
func (r *PrintJobRepo) MarkAcknowledged(ctx context.Context, id int64) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE print_jobs
        SET state = $2, last_error = ''
        WHERE id = $1 AND state = $3
    `, id, string(domain.PrintAcknowledged), string(domain.PrintSent))
	if err != nil {
		return false, fmt.Errorf("mark print job %d acknowledged: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// MarkFailed moves a sent job to failed, recording the cause.
func (r *PrintJobRepo) MarkFailed(ctx context.Context, id int64, cause string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE print_jobs
        SET state = $2, last_error = $3
        WHERE id = $1 AND state = $4
    `, id, string(domain.PrintFailed), cause, string(domain.PrintSent))
	if err != nil {
		return false, fmt.Errorf("mark print job %d failed: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// MarkExhausted moves a failed job to exhausted once its cycle budget is spent.
func (r *PrintJobRepo) MarkExhausted(ctx context.Context, id int64, cause string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE print_jobs
        SET state = $2, last_error = $3
        WHERE id = $1 AND state = $4
    `, id, string(domain.PrintExhausted), cause, string(domain.PrintFailed))
	if err != nil {
		return false, fmt.Errorf("mark print job %d exhausted: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Requeue moves an exhausted job back to queued. Operator path: attempts keep
// their historical count, the next cycle gets a fresh budget.
func (r *PrintJobRepo) Requeue(ctx context.Context, id int64) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE print_jobs
        SET state = $2, last_error = ''
        WHERE id = $1 AND state = $3
    `, id, string(domain.PrintQueued), string(domain.PrintExhausted))
	if err != nil {
		return false, fmt.Errorf("requeue print job %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
