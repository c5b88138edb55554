package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"service-fulfillment/internal/config"
	"service-fulfillment/internal/domain"
	"service-fulfillment/internal/gateway/carrier"
	"service-fulfillment/internal/http/handlers"
	"service-fulfillment/internal/http/middleware"
	"service-fulfillment/internal/http/middleware/ratelimit"
	"service-fulfillment/internal/http/pprofserver"
	"service-fulfillment/internal/http/router"
	"service-fulfillment/internal/logx"
	"service-fulfillment/internal/printer"
	"service-fulfillment/internal/service/fulfillment"
)

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		handlers.New,
		handlers.NewFulfillmentUsecase,
		handlers.NewPrintJobUsecase,
		handlers.NewShipHandler,
		handlers.NewPrintJobHandler,
		newWebhookHandler,
		newReadyHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouterHandler,
		newServer,
		newPprofServer,
	)
}

// newWebhookHandler mounts the inbound carrier webhook only when the
// deployment receives tracking pushes; in poll mode the sweep asks the
// carrier instead and the route stays unmounted.
func newWebhookHandler(cfg *config.Config, logger logx.Logger, svc *fulfillment.Service) *handlers.WebhookHandler {
	if cfg.Reconciler.TrackingMode != config.TrackingModeWebhook {
		return nil
	}
	return handlers.NewWebhookHandler(logger, handlers.NewFulfillmentUsecase(svc), cfg.Callback.Secret)
}

func shipperParty(sh config.Shipper) domain.Party {
	return domain.Party{
		Name:  sh.Name,
		Phone: sh.Phone,
		Address: domain.Address{
			Line1:      sh.Line1,
			City:       sh.City,
			Region:     sh.Region,
			PostalCode: sh.PostalCode,
			Country:    sh.Country,
		},
	}
}

type readyIn struct {
	dig.In

	Cfg     *config.Config
	Logger  logx.Logger
	Carrier *carrier.Client
	Printer *printer.Dispatcher
}

// newReadyHandler gates readiness on the downstream breakers: an open
// carrier or printer circuit means new ship requests would fail fast, so the
// instance reports 503 until the breaker admits traffic again.
func newReadyHandler(in readyIn) *handlers.ReadyHandler {
	if !in.Cfg.Readiness.GateOnBreaker {
		return handlers.NewReadyHandler(in.Logger)
	}
	return handlers.NewReadyHandler(in.Logger,
		handlers.ReadyGate{Name: "carrier", Available: in.Carrier.Available},
		handlers.ReadyGate{Name: "printer", Available: in.Printer.Available},
	)
}

type routerIn struct {
	dig.In

	Cfg       *config.Config
	Logger    logx.Logger
	Base      *handlers.Handlers
	Ship      *handlers.ShipHandler
	PrintJob  *handlers.PrintJobHandler
	Webhook   *handlers.WebhookHandler
	Ready     *handlers.ReadyHandler
	RateLimit *ratelimit.Middleware
}

func newRouterHandler(in routerIn) http.Handler {
	deps := router.Deps{
		Base:           in.Base,
		Ship:           in.Ship,
		PrintJob:       in.PrintJob,
		Webhook:        in.Webhook,
		Ready:          in.Ready,
		Observe:        middleware.Observability(in.Logger),
		Limit:          in.RateLimit.Handler(),
		Metrics:        promhttp.Handler(),
		RequestTimeout: in.Cfg.Ship.Timeout + 30*time.Second,
	}
	return router.New(deps)
}

func newServer(cfg *config.Config, mux http.Handler) *http.Server {
	// The write timeout must outlast a synchronous ship run.
	writeTimeout := cfg.Ship.Timeout + 45*time.Second
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

type pprofOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

// newPprofServer builds the standalone debug server; port 0 disables it.
func newPprofServer(cfg *config.Config) pprofOut {
	if cfg.Pprof.Port <= 0 {
		return pprofOut{}
	}
	return pprofOut{Server: &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Pprof.Port),
		Handler: pprofserver.Handler(pprofserver.Config{
			User: cfg.Pprof.User,
			Pass: cfg.Pprof.Pass,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}
