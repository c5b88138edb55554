//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=fulfillment

package fulfillment

import (
	"context"

	"service-fulfillment/internal/domain"
	"service-fulfillment/internal/gateway/callback"
)

// orderGateway is the order platform: source of orders, target of the
// shipped confirmation.
type orderGateway interface {
	FetchOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ConfirmShipped(ctx context.Context, orderID string, trackingNumbers []string) error
}

// carrierGateway registers shipments under an idempotency key. Repeated
// calls for the same key return the stored result.
type carrierGateway interface {
	CreateShipment(ctx context.Context, req domain.ShipmentRequest) (*domain.ShipmentResult, error)
}

// printDriver materializes label pieces as print jobs and drives them to a
// terminal state.
type printDriver interface {
	EnsureJobs(ctx context.Context, idempotencyKey, orderID string, labels [][]byte) ([]domain.PrintJob, error)
	Print(ctx context.Context, idempotencyKey string) error
}

// runStore persists the run state machine.
type runStore interface {
	Get(ctx context.Context, key string) (*domain.Run, error)
	GetOrCreate(ctx context.Context, key, orderID, correlationID string) (*domain.Run, bool, error)
	UpdateState(ctx context.Context, key string, from, to domain.RunState, failReason string) (bool, error)
	SetTracking(ctx context.Context, key string, trackingNumbers []string) error
	MarkCallback(ctx context.Context, key string, delivered bool, lastError string) error
	AppendEvent(ctx context.Context, key string, ev domain.RunEvent) error
}

// outcomeNotifier posts the terminal-outcome callback to the order platform.
type outcomeNotifier interface {
	Notify(ctx context.Context, p callback.Payload) error
}

// keyLocker serializes runs per idempotency key.
type keyLocker interface {
	Lock(ctx context.Context, key string) error
	Unlock(key string)
}
