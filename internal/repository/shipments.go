package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-fulfillment/internal/domain"
)

// ShipmentRepo stores carrier shipment results keyed by idempotency key.
type ShipmentRepo struct{ db *pgxpool.Pool }

// NewShipmentRepo creates a new ShipmentRepo.
func NewShipmentRepo(db *pgxpool.Pool) *ShipmentRepo { return &ShipmentRepo{db: db} }

// Get - returns the stored shipment result for the key, or nil when absent.
func (r *ShipmentRepo) Get(ctx context.Context, key string) (*domain.ShipmentResult, error) {
	var s domain.ShipmentResult
	err := r.db.QueryRow(ctx, `
        SELECT idempotency_key, order_id, status, tracking_numbers, label_format, labels, created_at
        FROM shipments
        WHERE idempotency_key = $1
    `, key).Scan(&s.IdempotencyKey, &s.OrderID, &s.Status, &s.TrackingNumbers,
		&s.LabelFormat, &s.Labels, &s.CreatedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment %q: %w", key, err)
	}
	return &s, nil
}

// Save - inserts or replaces the shipment result for its idempotency key.
// A failed row is replaced by a later successful one.
func (r *ShipmentRepo) Save(ctx context.Context, s *domain.ShipmentResult) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO shipments (idempotency_key, order_id, status, tracking_numbers, label_format, labels)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (idempotency_key) DO UPDATE
        SET status           = EXCLUDED.status,
            tracking_numbers = EXCLUDED.tracking_numbers,
            label_format     = EXCLUDED.label_format,
            labels           = EXCLUDED.labels
        RETURNING created_at
    `, s.IdempotencyKey, s.OrderID, string(s.Status), s.TrackingNumbers,
		s.LabelFormat, s.Labels).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("save shipment %q: %w", s.IdempotencyKey, err)
	}
	return nil
}
