package orderapi

import (
	"context"
	"time"

	"service-fulfillment/internal/domain"
	"service-fulfillment/internal/logx"
	"service-fulfillment/internal/retry"
)

type gateway interface {
	FetchOrder(context.Context, string) (*domain.Order, error)
	ConfirmShipped(context.Context, string, []string) error
}

type counter interface {
	Inc()
}

// RetryingGateway wraps an order platform gateway with the shared outbound
// retry policy. Non-retryable classes pass through after the first attempt.
type RetryingGateway struct {
	next    gateway
	logger  logx.Logger
	retries counter
	policy  retry.Policy
}

// NewRetryingGateway creates a RetryingGateway; next must not be nil.
func NewRetryingGateway(next gateway, logger logx.Logger, retries counter, policy retry.Policy) *RetryingGateway {
	if next == nil {
		return nil
	}
	return &RetryingGateway{next: next, logger: logger, retries: retries, policy: policy}
}

// FetchOrder fetches an order, retrying transient failures.
func (g *RetryingGateway) FetchOrder(ctx context.Context, id string) (*domain.Order, error) {
	return retry.Do(ctx, g.policy, g.notify("FetchOrder"), func() (*domain.Order, error) {
		return g.next.FetchOrder(ctx, id)
	})
}

// ConfirmShipped confirms the order as shipped, retrying transient failures.
func (g *RetryingGateway) ConfirmShipped(ctx context.Context, id string, trackingNumbers []string) error {
	return retry.DoVoid(ctx, g.policy, g.notify("ConfirmShipped"), func() error {
		return g.next.ConfirmShipped(ctx, id, trackingNumbers)
	})
}

func (g *RetryingGateway) notify(method string) retry.Notify {
	return func(err error, next time.Duration) {
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("order gateway retry",
			logx.String("method", method),
			logx.Duration("delay", next),
			logx.Err(err),
		)
	}
}
