package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-fulfillment/internal/config"
	"service-fulfillment/internal/gateway/callback"
	"service-fulfillment/internal/gateway/carrier"
	"service-fulfillment/internal/gateway/orderapi"
	"service-fulfillment/internal/keylock"
	"service-fulfillment/internal/logx"
	"service-fulfillment/internal/printer"
	"service-fulfillment/internal/repository"
	"service-fulfillment/internal/retry"
	"service-fulfillment/internal/service/fulfillment"
	"service-fulfillment/internal/service/printing"
	"service-fulfillment/internal/service/printjobs"
)

type dbConnectFunc func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect dbConnectFunc
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// build builds and returns a new dig container
func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
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
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds the API container.
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		config.Load,
		provideMetrics,
		newRetryPolicy,
	)
}

func newRetryPolicy(cfg *config.Config) retry.Policy {
	return retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		MaxDelay:    cfg.Retry.MaxDelay,
		Multiplier:  cfg.Retry.Multiplier,
		Jitter:      cfg.Retry.Jitter,
	}
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, logger logx.Logger, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

type orderGatewayIn struct {
	dig.In

	Cfg     *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"gateway_retries_total"`
	Policy  retry.Policy
}

func newOrderGateway(in orderGatewayIn) *orderapi.RetryingGateway {
	base := orderapi.NewHTTPGateway(
		in.Cfg.OrderAPI.BaseURL,
		orderapi.NewStaticTokenSource(in.Cfg.OrderAPI.Token),
		in.Cfg.OrderAPI.Timeout,
	)
	return orderapi.NewRetryingGateway(base, in.Logger, in.Retries, in.Policy)
}

type carrierIn struct {
	dig.In

	Cfg     *config.Config
	Store   *repository.ShipmentRepo
	Logger  logx.Logger
	Retries prometheus.Counter   `name:"gateway_retries_total"`
	Circuit *prometheus.GaugeVec `name:"circuit_state"`
	Policy  retry.Policy
}

func newCarrierClient(in carrierIn) *carrier.Client {
	return carrier.New(carrier.Config{
		BaseURL:          in.Cfg.Carrier.BaseURL,
		ClientID:         in.Cfg.Carrier.ClientID,
		ClientSecret:     in.Cfg.Carrier.ClientSecret,
		Timeout:          in.Cfg.Carrier.Timeout,
		TokenSkew:        in.Cfg.Carrier.TokenSkew,
		BreakerThreshold: in.Cfg.Carrier.BreakerThreshold,
		BreakerCooldown:  in.Cfg.Carrier.BreakerCooldown,
		Retry:            in.Policy,
	}, in.Store, in.Logger, in.Retries, in.Circuit.WithLabelValues("carrier"))
}

func newCallbackNotifier(cfg *config.Config, logger logx.Logger, policy retry.Policy) *callback.Notifier {
	return callback.NewNotifier(callback.Config{
		URL:     cfg.Callback.URL,
		Secret:  cfg.Callback.Secret,
		Timeout: cfg.Callback.Timeout,
		Retry:   policy,
	}, logger)
}

func registerGateways(container *dig.Container) error {
	return provideAll(container,
		newOrderGateway,
		newCarrierClient,
		newCallbackNotifier,
	)
}

type printerIn struct {
	dig.In

	Cfg     *config.Config
	Logger  logx.Logger
	Circuit *prometheus.GaugeVec `name:"circuit_state"`
}

func newPrinterDispatcher(in printerIn) *printer.Dispatcher {
	p := in.Cfg.Printer
	return printer.NewDispatcher(printer.Config{
		Addr:             p.Addr(),
		ConnectTimeout:   p.ConnectTimeout,
		WriteTimeout:     p.WriteTimeout,
		BreakerThreshold: p.BreakerThreshold,
		BreakerCooldown:  p.BreakerCooldown,
	}, in.Logger, in.Circuit.WithLabelValues("printer"))
}

type printDriverIn struct {
	dig.In

	Jobs     *repository.PrintJobRepo
	Printer  *printer.Dispatcher
	Cfg      *config.Config
	Logger   logx.Logger
	Attempts *prometheus.CounterVec `name:"print_attempts_total"`
	Policy   retry.Policy
}

func newPrintDriver(in printDriverIn) *printing.Driver {
	return printing.NewDriver(in.Jobs, in.Printer, printing.Config{
		MaxAttempts: in.Cfg.Printer.MaxAttempts,
		Delays:      in.Policy,
	}, in.Logger,
		in.Attempts.WithLabelValues("acked"),
		in.Attempts.WithLabelValues("failed"))
}

func newPrintJobsService(jobs *repository.PrintJobRepo, driver *printing.Driver, logger logx.Logger) *printjobs.Service {
	return printjobs.NewService(jobs, driver, 30*time.Second, logger)
}

type fulfillmentIn struct {
	dig.In

	Orders    *orderapi.RetryingGateway
	Carrier   *carrier.Client
	Printing  *printing.Driver
	Runs      *repository.RunRepo
	Notifier  *callback.Notifier
	Locks     *keylock.KeyLock
	Cfg       *config.Config
	Logger    logx.Logger
	RunsTotal *prometheus.CounterVec `name:"ship_runs_total"`
	Callbacks *prometheus.CounterVec `name:"callback_deliveries_total"`
}

func newFulfillmentService(in fulfillmentIn) *fulfillment.Service {
	sh := in.Cfg.Shipper
	return fulfillment.NewService(
		in.Orders, in.Carrier, in.Printing, in.Runs, in.Notifier, in.Locks,
		fulfillment.Config{
			Shipper:           shipperParty(sh),
			LabelFormat:       sh.LabelFormat,
			MaxParcelWeightKg: in.Cfg.Ship.MaxParcelWeightKg,
			ShipTimeout:       in.Cfg.Ship.Timeout,
		},
		fulfillment.Metrics{
			RunsCompleted:   in.RunsTotal.WithLabelValues("completed"),
			RunsFailed:      in.RunsTotal.WithLabelValues("failed"),
			CallbacksOK:     in.Callbacks.WithLabelValues("delivered"),
			CallbacksFailed: in.Callbacks.WithLabelValues("failed"),
		},
		in.Logger,
	)
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		repository.NewShipmentRepo,
		repository.NewPrintJobRepo,
		repository.NewRunRepo,
		keylock.New,
		newPrinterDispatcher,
		newPrintDriver,
		newPrintJobsService,
		newFulfillmentService,
	)
}
