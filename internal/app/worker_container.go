package app

import (
	"context"
	"fmt"

	"go.uber.org/dig"

	"service-fulfillment/internal/config"
	"service-fulfillment/internal/domain"
	"service-fulfillment/internal/gateway/carrier"
	"service-fulfillment/internal/jobs"
	"service-fulfillment/internal/logx"
	"service-fulfillment/internal/repository"
	"service-fulfillment/internal/service/fulfillment"
	"service-fulfillment/internal/transport/kafka"
)

// MustBuildWorkerContainer builds the worker container.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

// MustBuildWorker builds and returns the worker dig container
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerGateways(container); err != nil {
		return nil, fmt.Errorf("gateways: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		newShipCommandHandler,
		newShipConsumer,
		newReconciler,
	)
}

type shipExecutor interface {
	Ship(ctx context.Context, orderID, correlationID string) (*domain.Run, error)
}

func newShipCommandHandler(svc *fulfillment.Service) kafka.HandleFunc {
	return makeShipCommandHandler(svc)
}

// makeShipCommandHandler adapts the fulfillment service to the consumer's
// handler contract. Ship owns the per-run timeout; the command's correlation
// id is carried through so callbacks and logs line up with the producer.
func makeShipCommandHandler(svc shipExecutor) kafka.HandleFunc {
	return func(ctx context.Context, cmd kafka.ShipCommand) error {
		_, err := svc.Ship(ctx, cmd.OrderID, cmd.CorrelationID)
		return err
	}
}

func newShipConsumer(cfg *config.Config, logger logx.Logger, h kafka.HandleFunc) (*kafka.Consumer, error) {
	return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h)
}

func newReconciler(
	svc *fulfillment.Service,
	runs *repository.RunRepo,
	carrierClient *carrier.Client,
	cfg *config.Config,
	logger logx.Logger,
) *jobs.Reconciler {
	rc := cfg.Reconciler
	return jobs.NewReconciler(svc, runs, carrierClient, jobs.Config{
		Schedule:     rc.Schedule,
		BatchSize:    rc.BatchSize,
		ReplayAfter:  rc.ReplayAfter,
		PollTracking: rc.TrackingMode == config.TrackingModePoll,
		TrackWindow:  rc.TrackWindow,
	}, logger)
}
