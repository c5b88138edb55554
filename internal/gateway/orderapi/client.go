package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/domain"
)

// TokenSource supplies bearer tokens for the order platform. Refresh is
// invoked once after a token rejection; the token lifecycle itself is owned
// outside this service.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// StaticTokenSource serves one configured token. Refresh hands out the same
// token, so a second rejection surfaces as AuthExpired.
type StaticTokenSource struct{ token string }

// NewStaticTokenSource creates a StaticTokenSource.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

// Token returns the configured token.
func (s *StaticTokenSource) Token(context.Context) (string, error) { return s.token, nil }

// Refresh returns the configured token again.
func (s *StaticTokenSource) Refresh(context.Context) (string, error) { return s.token, nil }

// HTTPGateway is an order platform gateway backed by HTTP.
type HTTPGateway struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

// NewHTTPGateway creates an order platform gateway backed by HTTP.
func NewHTTPGateway(baseURL string, tokens TokenSource, timeout time.Duration) *HTTPGateway {
	if tokens == nil {
		return nil
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: timeout},
	}
}

type orderDTO struct {
	ID         string   `json:"id"`
	Recipient  partyDTO `json:"recipient"`
	Items      []struct {
		SKU      string  `json:"sku"`
		Quantity int     `json:"quantity"`
		WeightKg float64 `json:"weight_kg"`
	} `json:"items"`
	References []string `json:"references"`
}

type partyDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address struct {
		Line1      string `json:"line1"`
		Line2      string `json:"line2"`
		City       string `json:"city"`
		Region     string `json:"region"`
		PostalCode string `json:"postal_code"`
		Country    string `json:"country"`
	} `json:"address"`
}

func mapOrder(dto orderDTO) domain.Order {
	o := domain.Order{
		ID: dto.ID,
		Recipient: domain.Party{
			Name:  dto.Recipient.Name,
			Phone: dto.Recipient.Phone,
			Email: dto.Recipient.Email,
			Address: domain.Address{
				Line1:      dto.Recipient.Address.Line1,
				Line2:      dto.Recipient.Address.Line2,
				City:       dto.Recipient.Address.City,
				Region:     dto.Recipient.Address.Region,
				PostalCode: dto.Recipient.Address.PostalCode,
				Country:    dto.Recipient.Address.Country,
			},
		},
		References: dto.References,
	}
	for _, it := range dto.Items {
		o.Items = append(o.Items, domain.LineItem{
			SKU:      it.SKU,
			Quantity: it.Quantity,
			WeightKg: it.WeightKg,
		})
	}
	return o
}

// FetchOrder fetches an order snapshot by ID from the order platform.
func (g *HTTPGateway) FetchOrder(ctx context.Context, id string) (*domain.Order, error) {
	var ord *domain.Order
	err := g.withAuthRetry(ctx, func(token string) error {
		body, err := g.do(ctx, token, http.MethodGet, "/api/v1/orders/"+id, nil)
		if err != nil {
			return err
		}
		var dto orderDTO
		if err := json.Unmarshal(body, &dto); err != nil {
			return fmt.Errorf("decode order: %w", err)
		}
		o := mapOrder(dto)
		ord = &o
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("order gateway: FetchOrder: %w", err)
	}
	return ord, nil
}

// ConfirmShipped reports the order as shipped with its tracking numbers.
// Repeating the call with the same tracking numbers does not error: the
// platform answers a repeat with 409, which is treated as prior confirmation.
func (g *HTTPGateway) ConfirmShipped(ctx context.Context, id string, trackingNumbers []string) error {
	payload, err := json.Marshal(struct {
		TrackingNumbers []string `json:"tracking_numbers"`
	}{TrackingNumbers: trackingNumbers})
	if err != nil {
		return fmt.Errorf("order gateway: encode confirm: %w", err)
	}

	err = g.withAuthRetry(ctx, func(token string) error {
		_, err := g.do(ctx, token, http.MethodPost, "/api/v1/orders/"+id+"/confirm-shipped", payload)
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusConflict {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("order gateway: ConfirmShipped: %w", err)
	}
	return nil
}

// withAuthRetry runs fn with a token, allowing one re-authentication when the
// platform rejects it.
func (g *HTTPGateway) withAuthRetry(ctx context.Context, fn func(token string) error) error {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}

	err = fn(token)
	if err == nil || !errors.Is(err, apperr.AuthExpired) {
		return err
	}

	token, rerr := g.tokens.Refresh(ctx)
	if rerr != nil {
		return fmt.Errorf("refresh token: %w", rerr)
	}
	return fn(token)
}

func (g *HTTPGateway) do(ctx context.Context, token, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.Transient, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", apperr.Transient, err)
	}
	if resp.StatusCode >= 400 {
		return nil, &statusError{
			code: resp.StatusCode,
			body: strings.TrimSpace(string(b)),
			err:  classify(resp.StatusCode),
		}
	}
	return b, nil
}

type statusError struct {
	code int
	body string
	err  error
}

func (e *statusError) Error() string { return fmt.Sprintf("status %d: %s", e.code, e.body) }

func (e *statusError) Unwrap() error { return e.err }

func classify(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return apperr.AuthExpired
	case status == http.StatusNotFound:
		return apperr.NotFound
	case status == http.StatusTooManyRequests:
		return apperr.RateLimited
	case status >= 500:
		return apperr.Transient
	default:
		return apperr.Rejected
	}
}
