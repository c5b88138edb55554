package config

import "time"

const defaultPort = 8080

// DefaultPort returns the default HTTP port.
func DefaultPort() int { return defaultPort }

// DefaultDB returns local development Postgres settings.
func DefaultDB() DB {
	return DB{
		Host: "localhost",
		Port: "5432",
		User: "postgres",
		Pass: "postgres",
		Name: "fulfillment",
	}
}

// DefaultOrderAPI returns local development order service settings.
func DefaultOrderAPI() OrderAPI {
	return OrderAPI{
		BaseURL: "http://localhost:8081",
		Token:   "",
		Timeout: 5 * time.Second,
	}
}

// DefaultCarrier returns local development carrier settings.
func DefaultCarrier() Carrier {
	return Carrier{
		BaseURL:          "http://localhost:8082",
		ClientID:         "",
		ClientSecret:     "",
		Timeout:          10 * time.Second,
		TokenSkew:        30 * time.Second,
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}

// DefaultPrinter returns local development printer settings.
func DefaultPrinter() Printer {
	return Printer{
		Host:             "localhost",
		Port:             "9100",
		ConnectTimeout:   3 * time.Second,
		WriteTimeout:     5 * time.Second,
		MaxAttempts:      3,
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}

// DefaultRetry returns the default retry policy.
func DefaultRetry() Retry {
	return Retry{
		MaxAttempts: 4,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2,
		Jitter:      0.2,
	}
}

// DefaultCallback returns local development callback settings.
func DefaultCallback() Callback {
	return Callback{
		URL:     "http://localhost:8083/callbacks",
		Secret:  "",
		Timeout: 5 * time.Second,
	}
}

// DefaultKafka returns local development Kafka settings.
func DefaultKafka() Kafka {
	return Kafka{
		Brokers: []string{"localhost:9092"},
		GroupID: "service-fulfillment",
		Topic:   "orders.ship",
	}
}

// DefaultReconciler returns the default sweep settings.
func DefaultReconciler() Reconciler {
	return Reconciler{
		Schedule:     "@every 1m",
		BatchSize:    50,
		ReplayAfter:  5 * time.Minute,
		TrackingMode: TrackingModeWebhook,
		TrackWindow:  72 * time.Hour,
	}
}

// DefaultShipper returns placeholder sender requisites.
func DefaultShipper() Shipper {
	return Shipper{
		Name:        "Fulfillment Warehouse",
		Phone:       "+1 555 0100",
		Line1:       "1 Warehouse Way",
		City:        "Springfield",
		Region:      "IL",
		PostalCode:  "62701",
		Country:     "US",
		LabelFormat: "PDF",
	}
}

// DefaultShip returns the default limits for a fulfillment run.
func DefaultShip() Ship {
	return Ship{
		Timeout:           2 * time.Minute,
		MaxParcelWeightKg: 20,
	}
}

// DefaultRateLimit returns the default inbound rate limit.
func DefaultRateLimit() RateLimit {
	return RateLimit{
		Enabled:    false,
		RPS:        10,
		Burst:      20,
		TTL:        10 * time.Minute,
		MaxBuckets: 10000,
	}
}

// DefaultPprof returns the default debug server settings.
func DefaultPprof() Pprof {
	return Pprof{Port: 6060}
}

// DefaultReadiness returns the default readiness gating.
func DefaultReadiness() Readiness {
	return Readiness{GateOnBreaker: true}
}
