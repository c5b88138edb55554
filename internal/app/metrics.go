package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-fulfillment/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal  prometheus.Counter     `name:"rate_limit_exceeded_total"`
	GatewayRetriesTotal     prometheus.Counter     `name:"gateway_retries_total"`
	ShipRunsTotal           *prometheus.CounterVec `name:"ship_runs_total"`
	PrintAttemptsTotal      *prometheus.CounterVec `name:"print_attempts_total"`
	CallbackDeliveriesTotal *prometheus.CounterVec `name:"callback_deliveries_total"`
	CircuitState            *prometheus.GaugeVec   `name:"circuit_state"`
}

// provideMetrics registers the service's collectors on the default registry.
// Re-registration (tests building several containers) hands back the existing
// collector instead of failing.
func provideMetrics() (metricsOut, error) {
	var out metricsOut
	var err error

	if out.RateLimitExceededTotal, err = registerOr("rate_limit_exceeded_total", metrics.NewRateLimitExceededTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.GatewayRetriesTotal, err = registerOr("gateway_retries_total", metrics.NewGatewayRetriesTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.ShipRunsTotal, err = registerOr("ship_runs_total", metrics.NewShipRunsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.PrintAttemptsTotal, err = registerOr("print_attempts_total", metrics.NewPrintAttemptsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.CallbackDeliveriesTotal, err = registerOr("callback_deliveries_total", metrics.NewCallbackDeliveriesTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.CircuitState, err = registerOr("circuit_state", metrics.NewCircuitState()); err != nil {
		return metricsOut{}, err
	}
	return out, nil
}

func registerOr[C prometheus.Collector](name string, c C) (C, error) {
	err := prometheus.DefaultRegisterer.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	var zero C
	return zero, fmt.Errorf("register %s: %w", name, err)
}
