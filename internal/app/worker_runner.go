package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"service-fulfillment/internal/jobs"
	"service-fulfillment/internal/logx"
	"service-fulfillment/internal/transport/kafka"
)

// WorkerRunner runs the async worker process.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner.
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun starts the worker using the provided DI container.
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

// workerRun drives the two worker loops: the ship-command consumer and the
// reconciliation sweep. A deployment without Kafka still runs the sweep; at
// least one of the two must be configured.
func workerRun(
	ctx context.Context,
	pool *pgxpool.Pool,
	logger logx.Logger,
	consumer *kafka.Consumer,
	reconciler *jobs.Reconciler,
) error {
	if consumer == nil && reconciler == nil {
		return fmt.Errorf("neither kafka consumer nor reconciler configured: worker container misconfigured")
	}
	defer closeWorker(pool, logger, consumer)

	logger.Info("service-fulfillment-worker started")

	g, gctx := errgroup.WithContext(ctx)
	if consumer != nil {
		g.Go(func() error { return consumer.Run(gctx) })
	}
	if reconciler != nil {
		g.Go(func() error { return reconciler.Run(gctx) })
	}
	return g.Wait()
}

func closeWorker(pool *pgxpool.Pool, logger logx.Logger, kafkaConsumer *kafka.Consumer) {
	if kafkaConsumer != nil {
		if err := kafkaConsumer.Close(); err != nil {
			logger.Error("kafka close error", logx.Err(err))
		}
	}
	if pool != nil {
		pool.Close()
	}
}
