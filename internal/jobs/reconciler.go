package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/logx"
)

// Config tunes the reconciliation sweep.
type Config struct {
	Schedule     string
	BatchSize    int
	ReplayAfter  time.Duration
	PollTracking bool
	TrackWindow  time.Duration
}

// Reconciler - the worker's periodic safety net. Each sweep replays runs
// that stalled mid-sequence, resends undelivered callbacks, and, when the
// deployment polls instead of receiving webhooks, asks the carrier for
// delivery status of confirmed runs. Every sweep action goes through the
// fulfillment service, so it fights over runs with live requests only via
// the same per-key locks and guarded state updates.
type Reconciler struct {
	svc     shipper
	runs    runSource
	carrier trackingSource
	cfg     Config

	cron   *cron.Cron
	logger logx.Logger
	now    func() time.Time
}

// NewReconciler creates a new Reconciler. carrier may be nil when tracking
// polling is disabled.
func NewReconciler(svc shipper, runs runSource, carrier trackingSource, cfg Config, logger logx.Logger) *Reconciler {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1m"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.ReplayAfter <= 0 {
		cfg.ReplayAfter = 5 * time.Minute
	}
	if cfg.TrackWindow <= 0 {
		cfg.TrackWindow = 72 * time.Hour
	}
	return &Reconciler{
		svc:     svc,
		runs:    runs,
		carrier: carrier,
		cfg:     cfg,
		cron:    cron.New(),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Run schedules the sweep and blocks until ctx is canceled. The in-flight
// sweep finishes before Run returns.
func (r *Reconciler) Run(ctx context.Context) error {
	if _, err := r.cron.AddFunc(r.cfg.Schedule, func() { r.Sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule reconciler %q: %w", r.cfg.Schedule, err)
	}
	r.cron.Start()
	r.logger.Info("reconciler started",
		logx.String("schedule", r.cfg.Schedule),
		logx.Bool("poll_tracking", r.cfg.PollTracking))

	<-ctx.Done()
	<-r.cron.Stop().Done()
	r.logger.Info("reconciler stopped")
	return ctx.Err()
}

// Sweep executes one reconciliation pass.
func (r *Reconciler) Sweep(ctx context.Context) {
	r.replayStale(ctx)
	r.resendCallbacks(ctx)
	if r.cfg.PollTracking {
		r.pollTracking(ctx)
	}
}

// replayStale re-enters runs parked in a non-terminal state with no progress
// for ReplayAfter. Ship resumes each from its persisted state; a run that
// fails again simply waits for the next sweep.
func (r *Reconciler) replayStale(ctx context.Context) {
	cutoff := r.now().Add(-r.cfg.ReplayAfter)
	runs, err := r.runs.ListUnfinished(ctx, cutoff, r.cfg.BatchSize)
	if err != nil {
		r.logger.Warn("list unfinished runs failed", logx.Err(err))
		return
	}
	replayed := 0
	for _, run := range runs {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.svc.Ship(ctx, run.OrderID, run.CorrelationID); err != nil {
			r.logger.Warn("stale run replay failed",
				logx.String("order_id", run.OrderID),
				logx.Err(err))
			continue
		}
		replayed++
	}
	if len(runs) > 0 {
		r.logger.Info("stale runs swept",
			logx.Int("found", len(runs)),
			logx.Int("replayed", replayed))
	}
}

// resendCallbacks retries the outcome callback of settled runs the order
// platform has not acknowledged yet.
func (r *Reconciler) resendCallbacks(ctx context.Context) {
	runs, err := r.runs.ListCallbackPending(ctx, r.cfg.BatchSize)
	if err != nil {
		r.logger.Warn("list pending callbacks failed", logx.Err(err))
		return
	}
	for _, run := range runs {
		if ctx.Err() != nil {
			return
		}
		if err := r.svc.ResendCallback(ctx, run.IdempotencyKey); err != nil {
			r.logger.Warn("callback resend failed",
				logx.String("order_id", run.OrderID),
				logx.Err(err))
		}
	}
	if len(runs) > 0 {
		r.logger.Info("pending callbacks swept", logx.Int("found", len(runs)))
	}
}

// pollTracking asks the carrier for the delivery status of every tracking
// number on recently confirmed runs and relays changes. RecordTracking drops
// statuses already on the trail, so polling an unchanged shipment is a no-op.
func (r *Reconciler) pollTracking(ctx context.Context) {
	since := r.now().Add(-r.cfg.TrackWindow)
	runs, err := r.runs.ListTrackable(ctx, since, r.cfg.BatchSize)
	if err != nil {
		r.logger.Warn("list trackable runs failed", logx.Err(err))
		return
	}
	for _, run := range runs {
		for _, tn := range run.TrackingNumbers {
			if ctx.Err() != nil {
				return
			}
			status, err := r.carrier.LookupTracking(ctx, tn)
			if err != nil {
				if errors.Is(err, apperr.NotFound) {
					continue
				}
				r.logger.Warn("tracking lookup failed",
					logx.String("order_id", run.OrderID),
					logx.String("tracking", tn),
					logx.Err(err))
				continue
			}
			if status == "" {
				continue
			}
			if err := r.svc.RecordTracking(ctx, run.OrderID, tn, status, r.now()); err != nil {
				r.logger.Warn("tracking record failed",
					logx.String("order_id", run.OrderID),
					logx.String("tracking", tn),
					logx.Err(err))
			}
		}
	}
}
