package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/domain"
	"service-fulfillment/internal/gateway/callback"
	"service-fulfillment/internal/logx"
)

type counter interface {
	Inc()
}

// Config tunes one ship sequence.
type Config struct {
	Shipper           domain.Party
	LabelFormat       string
	MaxParcelWeightKg float64
	ShipTimeout       time.Duration
}

// Metrics holds the optional outcome counters; any field may be nil.
type Metrics struct {
	RunsCompleted   counter
	RunsFailed      counter
	CallbacksOK     counter
	CallbacksFailed counter
}

func (m Metrics) runCompleted() {
	if m.RunsCompleted != nil {
		m.RunsCompleted.Inc()
	}
}

func (m Metrics) runFailed() {
	if m.RunsFailed != nil {
		m.RunsFailed.Inc()
	}
}

func (m Metrics) callbackOK() {
	if m.CallbacksOK != nil {
		m.CallbacksOK.Inc()
	}
}

func (m Metrics) callbackFailed() {
	if m.CallbacksFailed != nil {
		m.CallbacksFailed.Inc()
	}
}

// Service - orchestrates one fulfillment run per order: fetch the order,
// create the shipment, print every label piece, confirm shipped, deliver the
// callback. Runs are serialized per idempotency key; every step leaves a
// persisted state behind, so a crashed or timed-out run resumes from where
// it stopped instead of rolling back.
type Service struct {
	orders   orderGateway
	carrier  carrierGateway
	printing printDriver
	runs     runStore
	notifier outcomeNotifier
	locks    keyLocker

	shipper     domain.Party
	labelFormat string
	maxWeightKg float64
	shipTimeout time.Duration

	metrics Metrics
	logger  logx.Logger
	now     func() time.Time
}

// NewService - creates a new fulfillment Service.
func NewService(
	orders orderGateway,
	carrier carrierGateway,
	printing printDriver,
	runs runStore,
	notifier outcomeNotifier,
	locks keyLocker,
	cfg Config,
	m Metrics,
	logger logx.Logger,
) *Service {
	if cfg.ShipTimeout <= 0 {
		cfg.ShipTimeout = 2 * time.Minute
	}
	return &Service{
		orders:      orders,
		carrier:     carrier,
		printing:    printing,
		runs:        runs,
		notifier:    notifier,
		locks:       locks,
		shipper:     cfg.Shipper,
		labelFormat: cfg.LabelFormat,
		maxWeightKg: cfg.MaxParcelWeightKg,
		shipTimeout: cfg.ShipTimeout,
		metrics:     m,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// cycle carries the in-flight state of one Ship invocation. The order and
// shipment result are re-resolved on replay through their own idempotent
// sources, never trusted from memory.
type cycle struct {
	run    *domain.Run
	order  *domain.Order
	result *domain.ShipmentResult
	log    logx.Logger
}

// Ship executes the fulfillment sequence for one order. Repeated calls with
// the same order are safe to replay from any step: the idempotency key is
// derived from the order id, completed runs return their stored outcome,
// failed runs re-enter at Received, and half-finished runs resume from their
// persisted state. On failure the terminal run is returned together with the
// causing error.
func (s *Service) Ship(ctx context.Context, orderID, correlationID string) (*domain.Run, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("empty order id: %w", apperr.Invalid)
	}
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	key := domain.IdempotencyKeyFor(orderID)

	if err := s.locks.Lock(ctx, key); err != nil {
		return nil, err
	}
	defer s.locks.Unlock(key)

	ctx, cancel := context.WithTimeout(ctx, s.shipTimeout)
	defer cancel()

	log := s.logger.With(
		logx.String("order_id", orderID),
		logx.String("correlation_id", correlationID))

	run, created, err := s.runs.GetOrCreate(ctx, key, orderID, correlationID)
	if err != nil {
		return nil, err
	}
	c := &cycle{run: run, log: log}
	if created {
		log.Info("run started", logx.String("idempotency_key", key))
		s.event(ctx, c, string(domain.RunReceived), "")
	} else {
		log.Info("run resumed",
			logx.String("idempotency_key", key),
			logx.String("state", string(run.State)))
	}

	if c.run.State == domain.RunFailed {
		if err := s.reenter(ctx, c); err != nil {
			return c.run, err
		}
	}

	return s.advance(ctx, c)
}

// Status returns the persisted run for an order.
func (s *Service) Status(ctx context.Context, orderID string) (*domain.Run, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("empty order id: %w", apperr.Invalid)
	}
	run, err := s.runs.Get(ctx, domain.IdempotencyKeyFor(orderID))
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("no run for order %q: %w", orderID, apperr.NotFound)
	}
	return run, nil
}

// OverrideConfirm force-confirms a failed run on operator authority: the
// order platform is told shipped even though not every piece printed. The
// override lands in the run's event log and triggers a fresh outcome
// callback.
func (s *Service) OverrideConfirm(ctx context.Context, orderID, operator string) (*domain.Run, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("empty order id: %w", apperr.Invalid)
	}
	if operator == "" {
		operator = "unknown"
	}
	key := domain.IdempotencyKeyFor(orderID)

	if err := s.locks.Lock(ctx, key); err != nil {
		return nil, err
	}
	defer s.locks.Unlock(key)

	run, err := s.runs.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("no run for order %q: %w", orderID, apperr.NotFound)
	}
	c := &cycle{run: run, log: s.logger.With(logx.String("order_id", orderID))}

	switch run.State {
	case domain.RunCallbackSent:
		return run, nil
	case domain.RunFailed:
	default:
		return nil, fmt.Errorf("run is %s, override applies to failed runs: %w", run.State, apperr.Conflict)
	}
	if len(run.TrackingNumbers) == 0 {
		return nil, fmt.Errorf("no shipment to confirm: %w", apperr.Conflict)
	}

	if err := s.orders.ConfirmShipped(ctx, orderID, run.TrackingNumbers); err != nil {
		return nil, err
	}
	ok, err := s.runs.UpdateState(ctx, key, domain.RunFailed, domain.RunOrderConfirmed, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("run changed state during override: %w", apperr.Conflict)
	}
	c.run.State = domain.RunOrderConfirmed
	c.run.FailReason = ""
	s.event(ctx, c, "override_confirm", fmt.Sprintf("operator %s confirmed despite unprinted pieces", operator))
	c.log.Warn("operator override confirmed order", logx.String("operator", operator))

	// The override is a new terminal outcome; it gets its own callback even
	// when the failure callback already went out.
	if err := s.runs.MarkCallback(ctx, key, false, ""); err != nil {
		c.log.Error("callback state not reset", logx.Err(err))
	}
	c.run.CallbackDelivered = false

	s.deliverCallback(ctx, c)
	return c.run, nil
}

// ResendCallback re-delivers the pending callback for one run and closes
// confirmed runs. Called by the periodic sweep.
func (s *Service) ResendCallback(ctx context.Context, key string) error {
	if err := s.locks.Lock(ctx, key); err != nil {
		return err
	}
	defer s.locks.Unlock(key)

	run, err := s.runs.Get(ctx, key)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %q: %w", key, apperr.NotFound)
	}
	c := &cycle{run: run, log: s.logger.With(logx.String("order_id", run.OrderID))}

	switch run.State {
	case domain.RunOrderConfirmed:
		s.deliverCallback(ctx, c)
	case domain.RunFailed:
		s.notifyOutcome(ctx, c)
	}
	return nil
}

// RecordTracking appends a carrier tracking event to the run's trail and
// relays it to the order platform. The relay is best effort: the event is
// durable before the relay is attempted, so a failed relay is logged and the
// update is not lost. A status already on the trail for the same tracking
// number is dropped, which makes webhook redeliveries and repeated polls
// no-ops.
func (s *Service) RecordTracking(ctx context.Context, orderID, trackingNumber, status string, at time.Time) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" || trackingNumber == "" || status == "" {
		return fmt.Errorf("tracking update needs order, number and status: %w", apperr.Invalid)
	}
	key := domain.IdempotencyKeyFor(orderID)

	if err := s.locks.Lock(ctx, key); err != nil {
		return err
	}
	defer s.locks.Unlock(key)

	run, err := s.runs.Get(ctx, key)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no run for order %q: %w", orderID, apperr.NotFound)
	}
	if at.IsZero() {
		at = s.now()
	}
	detail := fmt.Sprintf("%s %s", trackingNumber, status)
	if lastTrackingDetail(run.Events, trackingNumber) == detail {
		return nil
	}
	c := &cycle{run: run, log: s.logger.With(
		logx.String("order_id", orderID),
		logx.String("tracking", trackingNumber))}
	s.event(ctx, c, "tracking_update", detail)

	p := callback.Payload{
		OrderID:         orderID,
		Status:          status,
		TrackingNumbers: []string{trackingNumber},
		LastUpdate:      at,
		Events:          c.run.Events,
	}
	if err := s.notifier.Notify(ctx, p); err != nil {
		c.log.Warn("tracking relay failed", logx.Err(err))
	}
	return nil
}

// advance walks the run forward until it reaches a terminal state or a step
// fails. Each pass dispatches on the persisted state, so a run resumed from
// any point continues correctly.
func (s *Service) advance(ctx context.Context, c *cycle) (*domain.Run, error) {
	for {
		if err := ctx.Err(); err != nil {
			return s.fail(ctx, c, err)
		}
		switch c.run.State {
		case domain.RunCallbackSent:
			return c.run, nil
		case domain.RunFailed:
			return c.run, nil
		case domain.RunReceived:
			if err := s.stepFetch(ctx, c); err != nil {
				return s.fail(ctx, c, err)
			}
		case domain.RunOrderFetched:
			if err := s.stepCreateShipment(ctx, c); err != nil {
				return s.fail(ctx, c, err)
			}
		case domain.RunShipmentCreated:
			if err := s.stepPrint(ctx, c); err != nil {
				return s.fail(ctx, c, err)
			}
		case domain.RunLabelsPrinted:
			if err := s.stepConfirm(ctx, c); err != nil {
				return s.fail(ctx, c, err)
			}
		case domain.RunOrderConfirmed:
			if !s.deliverCallback(ctx, c) {
				// Confirmed but not yet notified; the sweep resends.
				return c.run, nil
			}
		default:
			return c.run, fmt.Errorf("run %q in unknown state %q", c.run.IdempotencyKey, c.run.State)
		}
	}
}

func (s *Service) stepFetch(ctx context.Context, c *cycle) error {
	if err := s.ensureOrder(ctx, c); err != nil {
		return err
	}
	return s.transition(ctx, c, domain.RunOrderFetched,
		fmt.Sprintf("%d items", len(c.order.Items)))
}

func (s *Service) stepCreateShipment(ctx context.Context, c *cycle) error {
	if err := s.ensureShipment(ctx, c); err != nil {
		return err
	}
	if err := s.runs.SetTracking(ctx, c.run.IdempotencyKey, c.result.TrackingNumbers); err != nil {
		return err
	}
	c.run.TrackingNumbers = c.result.TrackingNumbers
	return s.transition(ctx, c, domain.RunShipmentCreated,
		fmt.Sprintf("%d pieces, tracking %s", len(c.result.Labels), strings.Join(c.result.TrackingNumbers, ",")))
}

func (s *Service) stepPrint(ctx context.Context, c *cycle) error {
	if err := s.ensureShipment(ctx, c); err != nil {
		return err
	}
	if _, err := s.printing.EnsureJobs(ctx, c.run.IdempotencyKey, c.run.OrderID, c.result.Labels); err != nil {
		return err
	}
	if err := s.printing.Print(ctx, c.run.IdempotencyKey); err != nil {
		return err
	}
	return s.transition(ctx, c, domain.RunLabelsPrinted,
		fmt.Sprintf("%d pieces acknowledged", len(c.result.Labels)))
}

func (s *Service) stepConfirm(ctx context.Context, c *cycle) error {
	tracking := c.run.TrackingNumbers
	if len(tracking) == 0 {
		if err := s.ensureShipment(ctx, c); err != nil {
			return err
		}
		tracking = c.result.TrackingNumbers
	}
	if err := s.orders.ConfirmShipped(ctx, c.run.OrderID, tracking); err != nil {
		return err
	}
	return s.transition(ctx, c, domain.RunOrderConfirmed, "")
}

// deliverCallback sends the delivered-outcome callback and closes the run.
// It never fails the run: an undeliverable callback leaves the run in
// OrderConfirmed with callback_delivered false for the sweep to pick up.
func (s *Service) deliverCallback(ctx context.Context, c *cycle) bool {
	if err := s.reload(ctx, c); err != nil {
		c.log.Warn("callback postponed", logx.Err(err))
		return false
	}
	if c.run.State != domain.RunOrderConfirmed {
		return true
	}
	if !c.run.CallbackDelivered {
		if err := s.notifier.Notify(ctx, callback.PayloadFor(*c.run)); err != nil {
			s.metrics.callbackFailed()
			c.log.Warn("callback delivery failed, sweep will resend", logx.Err(err))
			if mErr := s.runs.MarkCallback(ctx, c.run.IdempotencyKey, false, err.Error()); mErr != nil {
				c.log.Error("callback state not recorded", logx.Err(mErr))
			}
			return false
		}
		s.metrics.callbackOK()
		if err := s.runs.MarkCallback(ctx, c.run.IdempotencyKey, true, ""); err != nil {
			c.log.Error("callback state not recorded", logx.Err(err))
			return false
		}
		c.run.CallbackDelivered = true
	}
	if err := s.transition(ctx, c, domain.RunCallbackSent, ""); err != nil {
		c.log.Error("run not closed after callback", logx.Err(err))
		return false
	}
	s.metrics.runCompleted()
	c.log.Info("run completed",
		logx.String("tracking", strings.Join(c.run.TrackingNumbers, ",")))
	return true
}

// notifyOutcome delivers the callback for an already-terminal run, guarded by
// the callback_delivered flag. Best effort; failures stay pending.
func (s *Service) notifyOutcome(ctx context.Context, c *cycle) {
	if err := s.reload(ctx, c); err != nil {
		c.log.Warn("callback postponed", logx.Err(err))
		return
	}
	if c.run.CallbackDelivered {
		return
	}
	if err := s.notifier.Notify(ctx, callback.PayloadFor(*c.run)); err != nil {
		s.metrics.callbackFailed()
		c.log.Warn("callback delivery failed, sweep will resend", logx.Err(err))
		if mErr := s.runs.MarkCallback(ctx, c.run.IdempotencyKey, false, err.Error()); mErr != nil {
			c.log.Error("callback state not recorded", logx.Err(mErr))
		}
		return
	}
	s.metrics.callbackOK()
	if err := s.runs.MarkCallback(ctx, c.run.IdempotencyKey, true, ""); err != nil {
		c.log.Error("callback state not recorded", logx.Err(err))
		return
	}
	c.run.CallbackDelivered = true
}

// fail persists the terminal failure and sends the failure callback. The
// persistence context is detached from the run context: a timed-out run must
// still record Failed(Timeout).
func (s *Service) fail(ctx context.Context, c *cycle, cause error) (*domain.Run, error) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	reason := failReason(cause)
	ok, err := s.runs.UpdateState(pctx, c.run.IdempotencyKey, c.run.State, domain.RunFailed, reason)
	if err != nil {
		c.log.Error("failed run not persisted",
			logx.String("reason", reason),
			logx.Err(err))
		return c.run, cause
	}
	if !ok {
		_ = s.reload(pctx, c)
		return c.run, cause
	}
	c.run.State = domain.RunFailed
	c.run.FailReason = reason
	s.event(pctx, c, "failed", cause.Error())
	s.metrics.runFailed()
	c.log.Error("run failed",
		logx.String("reason", reason),
		logx.Err(cause))

	s.notifyOutcome(pctx, c)
	return c.run, cause
}

// reenter moves a failed run back to Received for another attempt.
func (s *Service) reenter(ctx context.Context, c *cycle) error {
	ok, err := s.runs.UpdateState(ctx, c.run.IdempotencyKey, domain.RunFailed, domain.RunReceived, "")
	if err != nil {
		return err
	}
	if !ok {
		return s.reload(ctx, c)
	}
	c.run.State = domain.RunReceived
	c.run.FailReason = ""
	s.event(ctx, c, "replay", "failed run re-entered")
	return nil
}

func (s *Service) ensureOrder(ctx context.Context, c *cycle) error {
	if c.order != nil {
		return nil
	}
	order, err := s.orders.FetchOrder(ctx, c.run.OrderID)
	if err != nil {
		return err
	}
	c.order = order
	return nil
}

func (s *Service) ensureShipment(ctx context.Context, c *cycle) error {
	if c.result != nil {
		return nil
	}
	if err := s.ensureOrder(ctx, c); err != nil {
		return err
	}
	result, err := s.carrier.CreateShipment(ctx, domain.ShipmentRequest{
		IdempotencyKey: c.run.IdempotencyKey,
		OrderID:        c.run.OrderID,
		Shipper:        s.shipper,
		Recipient:      c.order.Recipient,
		Parcels:        domain.BuildParcels(c.order.Items, s.maxWeightKg),
		LabelFormat:    s.labelFormat,
	})
	if err != nil {
		return err
	}
	c.result = result
	return nil
}

// transition advances the persisted state with a guarded update. A lost race
// (another replica advanced the run) reloads instead of erroring.
func (s *Service) transition(ctx context.Context, c *cycle, to domain.RunState, detail string) error {
	ok, err := s.runs.UpdateState(ctx, c.run.IdempotencyKey, c.run.State, to, "")
	if err != nil {
		return err
	}
	if !ok {
		c.log.Warn("run advanced elsewhere, reloading",
			logx.String("from", string(c.run.State)),
			logx.String("to", string(to)))
		return s.reload(ctx, c)
	}
	c.run.State = to
	s.event(ctx, c, string(to), detail)
	return nil
}

func (s *Service) reload(ctx context.Context, c *cycle) error {
	fresh, err := s.runs.Get(ctx, c.run.IdempotencyKey)
	if err != nil {
		return err
	}
	if fresh == nil {
		return fmt.Errorf("run %q vanished", c.run.IdempotencyKey)
	}
	c.run = fresh
	return nil
}

// event appends to the run's audit trail. The trail is best effort: a write
// failure must not break the run itself.
func (s *Service) event(ctx context.Context, c *cycle, step, detail string) {
	ev := domain.RunEvent{At: s.now(), Step: step, Detail: detail}
	if err := s.runs.AppendEvent(ctx, c.run.IdempotencyKey, ev); err != nil {
		c.log.Warn("run event not recorded",
			logx.String("step", step),
			logx.Err(err))
		return
	}
	c.run.Events = append(c.run.Events, ev)
}

func failReason(cause error) string {
	if errors.Is(cause, context.DeadlineExceeded) || errors.Is(cause, context.Canceled) {
		return apperr.Class(apperr.Timeout)
	}
	return apperr.Class(cause)
}

// lastTrackingDetail returns the detail of the newest tracking_update event
// for the given tracking number, or "" when the trail has none.
func lastTrackingDetail(events []domain.RunEvent, trackingNumber string) string {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Step != "tracking_update" {
			continue
		}
		if strings.HasPrefix(events[i].Detail, trackingNumber+" ") {
			return events[i].Detail
		}
	}
	return ""
}
