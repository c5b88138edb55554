package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"service-fulfillment/internal/http/handlers"
)

// Deps carries everything the router mounts.
type Deps struct {
	Base     *handlers.Handlers
	Ship     *handlers.ShipHandler
	PrintJob *handlers.PrintJobHandler
	Webhook  *handlers.WebhookHandler
	Ready    *handlers.ReadyHandler

	// Observe wraps every route with request logging and metrics; Limit
	// wraps the fulfillment routes only. Either may be nil.
	Observe func(http.Handler) http.Handler
	Limit   func(http.Handler) http.Handler

	// Metrics serves GET /metrics; nil leaves the route unmounted.
	Metrics http.Handler

	// RequestTimeout bounds every request. It must exceed the ship
	// sequence timeout, or synchronous runs get cut off mid-flight.
	RequestTimeout time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if d.Observe != nil {
		r.Use(d.Observe)
	}
	r.Use(middleware.Recoverer)
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 3 * time.Minute
	}
	r.Use(middleware.Timeout(d.RequestTimeout))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	if d.Ready != nil {
		r.Get("/readyz", d.Ready.Ready)
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Group(func(r chi.Router) {
		if d.Limit != nil {
			r.Use(d.Limit)
		}
		r.Post("/ship", d.Ship.Ship)
		r.Get("/ship/{orderID}", d.Ship.Status)
		r.Post("/ship/{orderID}/override", d.Ship.Override)
		r.Get("/ship/{orderID}/print-jobs", d.Ship.PrintJobs)

		r.Get("/print-jobs/{id}", d.PrintJob.GetByID)
		r.Post("/print-jobs/{id}/retry", d.PrintJob.Retry)
	})

	if d.Webhook != nil {
		r.Post("/carrier/webhook", d.Webhook.Receive)
	}

	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	return r
}
