package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker/v2"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/domain"
	"service-fulfillment/internal/logx"
	"service-fulfillment/internal/retry"
)

// ShipmentStore persists shipment outcomes keyed by idempotency key. A stored
// success short-circuits repeated CreateShipment calls for the same key.
type ShipmentStore interface {
	Get(ctx context.Context, idempotencyKey string) (*domain.ShipmentResult, error)
	Save(ctx context.Context, s *domain.ShipmentResult) error
}

type counter interface {
	Inc()
}

type gauge interface {
	Set(float64)
}

// Config configures the carrier client.
type Config struct {
	BaseURL          string
	ClientID         string
	ClientSecret     string
	Timeout          time.Duration
	TokenSkew        time.Duration
	BreakerThreshold int
	BreakerCooldown  time.Duration
	Retry            retry.Policy
}

// Client talks to the carrier REST API. One circuit breaker guards every
// carrier endpoint except auth: shipment creation and tracking lookups share
// the same failure budget, so a carrier outage trips the whole client at once.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
	tokens       *tokenCache
	breaker      *gobreaker.CircuitBreaker[[]byte]
	store        ShipmentStore
	logger       logx.Logger
	retries      counter
	policy       retry.Policy
	now          func() time.Time
}

// New creates a carrier Client. The state gauge receives 0/1/2 for
// closed/half-open/open and may be nil; retries may be nil as well.
func New(cfg Config, store ShipmentStore, logger logx.Logger, retries counter, state gauge) *Client {
	if store == nil {
		return nil
	}
	if cfg.BreakerThreshold < 1 {
		cfg.BreakerThreshold = 5
	}

	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		http:         &http.Client{Timeout: cfg.Timeout},
		store:        store,
		logger:       logger,
		retries:      retries,
		policy:       cfg.Retry,
		now:          time.Now,
	}
	c.tokens = newTokenCache(c.auth, cfg.TokenSkew, func() time.Time { return c.now() })

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "carrier",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.BreakerThreshold)
		},
		// Only infrastructure failures count against the breaker. Carrier
		// rejections and auth errors are the carrier answering normally.
		IsSuccessful: func(err error) bool {
			return !errors.Is(err, apperr.Transient) && !errors.Is(err, apperr.RateLimited)
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			logger.Warn("carrier breaker state change",
				logx.String("from", from.String()),
				logx.String("to", to.String()))
			if state != nil {
				state.Set(breakerStateValue(to))
			}
		},
	})
	return c
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Available reports whether the breaker currently admits carrier calls.
func (c *Client) Available() bool {
	return c.breaker.State() != gobreaker.StateOpen
}

// CreateShipment registers a shipment for the request's idempotency key and
// returns tracking numbers plus one label per parcel. A previously stored
// success for the same key is returned without calling the carrier. Fatal
// carrier rejections are recorded under the key as failed.
func (c *Client) CreateShipment(ctx context.Context, req domain.ShipmentRequest) (*domain.ShipmentResult, error) {
	cached, err := c.store.Get(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("carrier gateway: CreateShipment: %w", err)
	}
	if cached != nil && cached.Status == domain.ShipmentCreated {
		c.logger.Debug("carrier shipment already created",
			logx.String("idempotency_key", req.IdempotencyKey),
			logx.String("order_id", req.OrderID))
		return cached, nil
	}

	payload, err := json.Marshal(shipmentPayload(req))
	if err != nil {
		return nil, fmt.Errorf("carrier gateway: encode shipment: %w", err)
	}

	headers := map[string]string{"Idempotency-Key": req.IdempotencyKey}
	body, err := retry.Do(ctx, c.policy, c.notify("CreateShipment"), func() ([]byte, error) {
		return c.call(ctx, http.MethodPost, "/api/v1/shipments", payload, headers)
	})
	if err != nil {
		if errors.Is(err, apperr.Rejected) {
			c.recordRejection(ctx, req)
		}
		return nil, fmt.Errorf("carrier gateway: CreateShipment: %w", err)
	}

	var dto shipmentResponse
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("carrier gateway: decode shipment: %w", err)
	}
	res := &domain.ShipmentResult{
		IdempotencyKey:  req.IdempotencyKey,
		OrderID:         req.OrderID,
		Status:          domain.ShipmentCreated,
		TrackingNumbers: dto.TrackingNumbers,
		LabelFormat:     dto.LabelFormat,
		Labels:          dto.Labels,
	}
	if res.LabelFormat == "" {
		res.LabelFormat = req.LabelFormat
	}
	if err := c.store.Save(ctx, res); err != nil {
		return nil, fmt.Errorf("carrier gateway: persist shipment: %w", err)
	}
	return res, nil
}

// recordRejection stores a failed row so operators can see the carrier said
// no. The cache check above ignores failed rows, so a later replay still
// reaches the carrier.
func (c *Client) recordRejection(ctx context.Context, req domain.ShipmentRequest) {
	failed := &domain.ShipmentResult{
		IdempotencyKey: req.IdempotencyKey,
		OrderID:        req.OrderID,
		Status:         domain.ShipmentFailed,
	}
	if err := c.store.Save(ctx, failed); err != nil {
		c.logger.Error("carrier record rejected shipment",
			logx.String("idempotency_key", req.IdempotencyKey),
			logx.Err(err))
	}
}

// LookupTracking returns the carrier's delivery status for a tracking number.
func (c *Client) LookupTracking(ctx context.Context, trackingNumber string) (string, error) {
	body, err := retry.Do(ctx, c.policy, c.notify("LookupTracking"), func() ([]byte, error) {
		return c.call(ctx, http.MethodGet, "/api/v1/tracking/"+trackingNumber, nil, nil)
	})
	if err != nil {
		return "", fmt.Errorf("carrier gateway: LookupTracking: %w", err)
	}
	var dto trackingResponse
	if err := json.Unmarshal(body, &dto); err != nil {
		return "", fmt.Errorf("carrier gateway: decode tracking: %w", err)
	}
	return dto.Status, nil
}

// call runs one authenticated request through the breaker. A 401 invalidates
// the cached token and re-authenticates exactly once before surfacing
// AuthExpired.
func (c *Client) call(ctx context.Context, method, path string, payload []byte, headers map[string]string) ([]byte, error) {
	attempt := func() ([]byte, error) {
		token, err := c.tokens.ensure(ctx)
		if err != nil {
			return nil, err
		}
		body, err := c.breaker.Execute(func() ([]byte, error) {
			return c.roundTrip(ctx, token, method, path, payload, headers)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, fmt.Errorf("carrier %s: %w", path, apperr.CircuitOpen)
			}
			return nil, err
		}
		return body, nil
	}

	body, err := attempt()
	if err != nil && errors.Is(err, apperr.AuthExpired) {
		c.tokens.invalidate()
		return attempt()
	}
	return body, err
}

func (c *Client) roundTrip(ctx context.Context, token, method, path string, payload []byte, headers map[string]string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.Transient, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", apperr.Transient, err)
	}
	if resp.StatusCode < http.StatusBadRequest {
		return b, nil
	}

	var dto errorDTO
	_ = json.Unmarshal(b, &dto)
	if dto.Message == "" {
		dto.Message = strings.TrimSpace(string(b))
	}

	apiErr := &apiError{status: resp.StatusCode, code: dto.Code, message: dto.Message}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		apiErr.err = apperr.AuthExpired
	case resp.StatusCode == http.StatusNotFound:
		apiErr.err = apperr.NotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		apiErr.err = apperr.RateLimited
		if d := retryAfter(resp.Header.Get("Retry-After")); d > 0 {
			return nil, errors.Join(apiErr, &backoff.RetryAfterError{Duration: d})
		}
	case resp.StatusCode >= http.StatusInternalServerError:
		apiErr.err = apperr.Transient
	default:
		apiErr.err = apperr.Rejected
	}
	return nil, apiErr
}

// auth exchanges client credentials for an access token. Auth runs outside
// the breaker: a broken credential must not look like a carrier outage.
func (c *Client) auth(ctx context.Context) (Token, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	})
	if err != nil {
		return Token{}, fmt.Errorf("encode auth request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/token", bytes.NewReader(payload))
	if err != nil {
		return Token{}, fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("%w: auth: %v", apperr.Transient, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, fmt.Errorf("%w: read auth body: %v", apperr.Transient, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var dto authResponse
		if err := json.Unmarshal(b, &dto); err != nil {
			return Token{}, fmt.Errorf("decode auth response: %w", err)
		}
		if dto.AccessToken == "" {
			return Token{}, fmt.Errorf("%w: auth returned empty token", apperr.AuthFailure)
		}
		return Token{
			AccessToken: dto.AccessToken,
			ExpiresAt:   c.now().Add(time.Duration(dto.ExpiresIn) * time.Second),
		}, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Token{}, fmt.Errorf("%w: auth status %d: %s", apperr.AuthFailure, resp.StatusCode, strings.TrimSpace(string(b)))
	case resp.StatusCode >= http.StatusInternalServerError:
		return Token{}, fmt.Errorf("%w: auth status %d", apperr.Transient, resp.StatusCode)
	default:
		return Token{}, fmt.Errorf("%w: auth status %d: %s", apperr.AuthFailure, resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

func (c *Client) notify(method string) retry.Notify {
	return func(err error, next time.Duration) {
		if c.retries != nil {
			c.retries.Inc()
		}
		c.logger.Warn("carrier gateway retry",
			logx.String("method", method),
			logx.Duration("delay", next),
			logx.Err(err))
	}
}

func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// apiError is a non-2xx carrier answer carrying the carrier's own error code.
type apiError struct {
	status  int
	code    string
	message string
	err     error
}

func (e *apiError) Error() string {
	if e.code != "" {
		return fmt.Sprintf("carrier status %d [%s]: %s", e.status, e.code, e.message)
	}
	return fmt.Sprintf("carrier status %d: %s", e.status, e.message)
}

func (e *apiError) Unwrap() error { return e.err }

type errorDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type shipmentResponse struct {
	TrackingNumbers []string `json:"tracking_numbers"`
	LabelFormat     string   `json:"label_format"`
	Labels          [][]byte `json:"labels"`
}

type trackingResponse struct {
	Status string `json:"status"`
}

type partyJSON struct {
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type parcelJSON struct {
	WeightKg float64 `json:"weight_kg"`
	LengthCm float64 `json:"length_cm,omitempty"`
	WidthCm  float64 `json:"width_cm,omitempty"`
	HeightCm float64 `json:"height_cm,omitempty"`
}

type shipmentPayloadJSON struct {
	IdempotencyKey string       `json:"idempotency_key"`
	OrderID        string       `json:"order_id"`
	Shipper        partyJSON    `json:"shipper"`
	Recipient      partyJSON    `json:"recipient"`
	Parcels        []parcelJSON `json:"parcels"`
	LabelFormat    string       `json:"label_format"`
}

func shipmentPayload(req domain.ShipmentRequest) shipmentPayloadJSON {
	parcels := make([]parcelJSON, 0, len(req.Parcels))
	for _, p := range req.Parcels {
		parcels = append(parcels, parcelJSON{
			WeightKg: p.WeightKg,
			LengthCm: p.LengthCm,
			WidthCm:  p.WidthCm,
			HeightCm: p.HeightCm,
		})
	}
	return shipmentPayloadJSON{
		IdempotencyKey: req.IdempotencyKey,
		OrderID:        req.OrderID,
		Shipper:        toPartyJSON(req.Shipper),
		Recipient:      toPartyJSON(req.Recipient),
		Parcels:        parcels,
		LabelFormat:    req.LabelFormat,
	}
}

func toPartyJSON(p domain.Party) partyJSON {
	return partyJSON{
		Name:       p.Name,
		Phone:      p.Phone,
		Email:      p.Email,
		Line1:      p.Address.Line1,
		Line2:      p.Address.Line2,
		City:       p.Address.City,
		Region:     p.Address.Region,
		PostalCode: p.Address.PostalCode,
		Country:    p.Address.Country,
	}
}
