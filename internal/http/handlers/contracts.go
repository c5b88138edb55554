package handlers

import (
	"context"
	"time"

	"service-fulfillment/internal/domain"
	"service-fulfillment/internal/service/fulfillment"
	"service-fulfillment/internal/service/printjobs"
)

type fulfillmentUsecase interface {
	Ship(ctx context.Context, orderID, correlationID string) (*domain.Run, error)
	Status(ctx context.Context, orderID string) (*domain.Run, error)
	OverrideConfirm(ctx context.Context, orderID, operator string) (*domain.Run, error)
	RecordTracking(ctx context.Context, orderID, trackingNumber, status string, at time.Time) error
}

// NewFulfillmentUsecase wires the fulfillment Service into a fulfillmentUsecase.
func NewFulfillmentUsecase(svc *fulfillment.Service) fulfillmentUsecase {
	return svc
}

type printJobUsecase interface {
	Get(ctx context.Context, id int64) (*domain.PrintJob, error)
	ListByKey(ctx context.Context, idempotencyKey string) ([]domain.PrintJob, error)
	Retry(ctx context.Context, id int64) (*domain.PrintJob, error)
}

// NewPrintJobUsecase wires the print job Service into a printJobUsecase.
func NewPrintJobUsecase(svc *printjobs.Service) printJobUsecase {
	return svc
}
