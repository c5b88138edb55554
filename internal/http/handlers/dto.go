package handlers

import (
	"time"

	"service-fulfillment/internal/domain"
)

type shipRequest struct {
	OrderID       string `json:"order_id"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

type overrideRequest struct {
	Operator string `json:"operator"`
}

type runResponse struct {
	OrderID           string            `json:"order_id"`
	State             string            `json:"state"`
	FailReason        string            `json:"fail_reason,omitempty"`
	CorrelationID     string            `json:"correlation_id,omitempty"`
	TrackingNumbers   []string          `json:"tracking_numbers,omitempty"`
	CallbackDelivered bool              `json:"callback_delivered"`
	Events            []domain.RunEvent `json:"events,omitempty"`
	StartedAt         time.Time         `json:"started_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type printJobDTO struct {
	ID            int64      `json:"id"`
	OrderID       string     `json:"order_id"`
	Piece         int        `json:"piece"`
	PrinterAddr   string     `json:"printer_addr,omitempty"`
	State         string     `json:"state"`
	Attempts      int        `json:"attempts"`
	LastError     string     `json:"last_error,omitempty"`
	FirstAttempt  *time.Time `json:"first_attempt_at,omitempty"`
	LastAttempt   *time.Time `json:"last_attempt_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type trackingEventRequest struct {
	OrderID        string    `json:"order_id"`
	TrackingNumber string    `json:"tracking_number"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at,omitempty"`
}
