package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by gateways
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by gateways",
	})
}

// NewShipRunsTotal returns a Prometheus counter vector for finished fulfillment runs labeled by outcome
func NewShipRunsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ship_runs_total",
		Help: "Total number of finished fulfillment runs by outcome",
	}, []string{"outcome"})
}

// NewPrintAttemptsTotal returns a Prometheus counter vector for print attempts labeled by result
func NewPrintAttemptsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "print_attempts_total",
		Help: "Total number of label print attempts by result",
	}, []string{"result"})
}

// NewCallbackDeliveriesTotal returns a Prometheus counter vector for callback deliveries labeled by result
func NewCallbackDeliveriesTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "callback_deliveries_total",
		Help: "Total number of callback delivery attempts by result",
	}, []string{"result"})
}

// NewCircuitState returns a Prometheus gauge vector reporting breaker state per upstream (0 closed, 1 half-open, 2 open)
func NewCircuitState() *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_state",
		Help: "Circuit breaker state per upstream: 0 closed, 1 half-open, 2 open",
	}, []string{"upstream"})
}
