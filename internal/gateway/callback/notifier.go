package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/domain"
	"service-fulfillment/internal/logx"
	"service-fulfillment/internal/retry"
)

// Payload is the callback body reporting one terminal fulfillment outcome.
type Payload struct {
	OrderID         string            `json:"order_id"`
	Status          string            `json:"status"`
	Reason          string            `json:"reason,omitempty"`
	TrackingNumbers []string          `json:"tracking_numbers,omitempty"`
	LastUpdate      time.Time         `json:"last_update"`
	Events          []domain.RunEvent `json:"events,omitempty"`
}

// PayloadFor builds the callback payload from a finished run.
func PayloadFor(run domain.Run) Payload {
	status, reason := run.CallbackStatus()
	return Payload{
		OrderID:         run.OrderID,
		Status:          status,
		Reason:          reason,
		TrackingNumbers: run.TrackingNumbers,
		LastUpdate:      run.UpdatedAt,
		Events:          run.Events,
	}
}

// Config configures the callback notifier.
type Config struct {
	URL     string
	Secret  string
	Timeout time.Duration
	Retry   retry.Policy
}

// Notifier posts signed outcome callbacks to the order platform. Delivery is
// at-least-once: a failed Notify leaves the run callback-pending and a later
// sweep resends it.
type Notifier struct {
	url    string
	secret []byte
	http   *http.Client
	logger logx.Logger
	policy retry.Policy
}

func NewNotifier(cfg Config, logger logx.Logger) *Notifier {
	return &Notifier{
		url:    cfg.URL,
		secret: []byte(cfg.Secret),
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		policy: cfg.Retry,
	}
}

// Notify delivers one payload, retrying transient failures within the
// configured budget.
func (n *Notifier) Notify(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("callback: encode payload: %w", err)
	}

	notify := func(err error, next time.Duration) {
		n.logger.Warn("callback retry",
			logx.String("order_id", p.OrderID),
			logx.Duration("delay", next),
			logx.Err(err))
	}
	if err := retry.DoVoid(ctx, n.policy, notify, func() error {
		return n.post(ctx, body)
	}); err != nil {
		return fmt.Errorf("callback: %w", err)
	}
	return nil
}

func (n *Notifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(n.secret, body))

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.Transient, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

	switch {
	case resp.StatusCode < http.StatusMultipleChoices:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: callback status 429", apperr.RateLimited)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: callback status %d", apperr.Transient, resp.StatusCode)
	default:
		return fmt.Errorf("%w: callback status %d: %s", apperr.Rejected, resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
