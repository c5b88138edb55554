package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config - service configuration assembled from defaults, .env, environment and flags.
type Config struct {
	Port int

	DB         DB
	OrderAPI   OrderAPI
	Carrier    Carrier
	Printer    Printer
	Retry      Retry
	Callback   Callback
	Kafka      Kafka
	Reconciler Reconciler
	Shipper    Shipper
	Ship       Ship
	RateLimit  RateLimit
	Pprof      Pprof
	Readiness  Readiness
}

// DB - Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns the Postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// OrderAPI - order service access settings.
type OrderAPI struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Carrier - carrier API access settings.
type Carrier struct {
	BaseURL          string
	ClientID         string
	ClientSecret     string
	Timeout          time.Duration
	TokenSkew        time.Duration
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Printer - label printer endpoint settings.
type Printer struct {
	Host             string
	Port             string
	ConnectTimeout   time.Duration
	WriteTimeout     time.Duration
	MaxAttempts      int
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Addr returns the printer address as host:port.
func (p Printer) Addr() string {
	return p.Host + ":" + p.Port
}

// Retry - retry policy for outbound calls.
type Retry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	Jitter      float64
}

// Callback - order source notification settings.
type Callback struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

// Kafka - ship command intake settings.
type Kafka struct {
	Brokers []string
	GroupID string
	Topic   string
}

// Reconciler - background sweep settings for unfinished runs.
type Reconciler struct {
	Schedule     string
	BatchSize    int
	ReplayAfter  time.Duration
	TrackingMode string
	TrackWindow  time.Duration
}

// Shipper - sender requisites stamped on every shipment.
type Shipper struct {
	Name        string
	Phone       string
	Line1       string
	City        string
	Region      string
	PostalCode  string
	Country     string
	LabelFormat string
}

// Ship - limits for a single fulfillment run.
type Ship struct {
	Timeout           time.Duration
	MaxParcelWeightKg float64
}

// RateLimit - per-client limit on inbound requests.
type RateLimit struct {
	Enabled    bool
	RPS        float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Pprof - standalone debug HTTP server settings.
type Pprof struct {
	Port int
	User string
	Pass string
}

// Readiness - conditions reported by the readiness probe.
type Readiness struct {
	GateOnBreaker bool
}

// Tracking modes: how carrier status updates reach the service.
const (
	TrackingModeWebhook = "webhook"
	TrackingModePoll    = "poll"
)

// Load reads configuration from .env, environment variables and flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "warning: .env not loaded:", err)
	}

	cfg := &Config{
		Port:       DefaultPort(),
		DB:         DefaultDB(),
		OrderAPI:   DefaultOrderAPI(),
		Carrier:    DefaultCarrier(),
		Printer:    DefaultPrinter(),
		Retry:      DefaultRetry(),
		Callback:   DefaultCallback(),
		Kafka:      DefaultKafka(),
		Reconciler: DefaultReconciler(),
		Shipper:    DefaultShipper(),
		Ship:       DefaultShip(),
		RateLimit:  DefaultRateLimit(),
		Pprof:      DefaultPprof(),
		Readiness:  DefaultReadiness(),
	}

	if err := cfg.fromEnv(); err != nil {
		return nil, err
	}

	pflag.CommandLine.ParseErrorsWhitelist.UnknownFlags = true
	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "HTTP port to listen on")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) fromEnv() error {
	var err error

	if err = envInt("PORT", &c.Port); err != nil {
		return err
	}

	envStr("POSTGRES_HOST", &c.DB.Host)
	envStr("POSTGRES_PORT", &c.DB.Port)
	envStr("POSTGRES_USER", &c.DB.User)
	envStr("POSTGRES_PASSWORD", &c.DB.Pass)
	envStr("POSTGRES_DB", &c.DB.Name)

	envStr("ORDER_API_URL", &c.OrderAPI.BaseURL)
	envStr("ORDER_API_TOKEN", &c.OrderAPI.Token)
	if err = envDuration("ORDER_API_TIMEOUT", &c.OrderAPI.Timeout); err != nil {
		return err
	}

	envStr("CARRIER_API_URL", &c.Carrier.BaseURL)
	envStr("CARRIER_CLIENT_ID", &c.Carrier.ClientID)
	envStr("CARRIER_CLIENT_SECRET", &c.Carrier.ClientSecret)
	if err = envDuration("CARRIER_TIMEOUT", &c.Carrier.Timeout); err != nil {
		return err
	}
	if err = envDuration("CARRIER_TOKEN_SKEW", &c.Carrier.TokenSkew); err != nil {
		return err
	}
	if err = envInt("CARRIER_BREAKER_THRESHOLD", &c.Carrier.BreakerThreshold); err != nil {
		return err
	}
	if err = envDuration("CARRIER_BREAKER_COOLDOWN", &c.Carrier.BreakerCooldown); err != nil {
		return err
	}

	envStr("PRINTER_HOST", &c.Printer.Host)
	envStr("PRINTER_PORT", &c.Printer.Port)
	if err = envDuration("PRINTER_CONNECT_TIMEOUT", &c.Printer.ConnectTimeout); err != nil {
		return err
	}
	if err = envDuration("PRINTER_WRITE_TIMEOUT", &c.Printer.WriteTimeout); err != nil {
		return err
	}
	if err = envInt("PRINT_MAX_ATTEMPTS", &c.Printer.MaxAttempts); err != nil {
		return err
	}
	if err = envInt("PRINTER_BREAKER_THRESHOLD", &c.Printer.BreakerThreshold); err != nil {
		return err
	}
	if err = envDuration("PRINTER_BREAKER_COOLDOWN", &c.Printer.BreakerCooldown); err != nil {
		return err
	}

	if err = envInt("RETRY_MAX_ATTEMPTS", &c.Retry.MaxAttempts); err != nil {
		return err
	}
	if err = envDuration("RETRY_BASE_DELAY", &c.Retry.BaseDelay); err != nil {
		return err
	}
	if err = envDuration("RETRY_MAX_DELAY", &c.Retry.MaxDelay); err != nil {
		return err
	}
	if err = envFloat("RETRY_MULTIPLIER", &c.Retry.Multiplier); err != nil {
		return err
	}
	if err = envFloat("RETRY_JITTER", &c.Retry.Jitter); err != nil {
		return err
	}

	envStr("CALLBACK_URL", &c.Callback.URL)
	envStr("CALLBACK_SECRET", &c.Callback.Secret)
	if err = envDuration("CALLBACK_TIMEOUT", &c.Callback.Timeout); err != nil {
		return err
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitCSV(v)
	}
	envStr("KAFKA_GROUP_ID", &c.Kafka.GroupID)
	envStr("KAFKA_SHIP_TOPIC", &c.Kafka.Topic)

	envStr("RECONCILE_SCHEDULE", &c.Reconciler.Schedule)
	if err = envInt("RECONCILE_BATCH_SIZE", &c.Reconciler.BatchSize); err != nil {
		return err
	}
	if err = envDuration("RECONCILE_REPLAY_AFTER", &c.Reconciler.ReplayAfter); err != nil {
		return err
	}
	envStr("TRACKING_MODE", &c.Reconciler.TrackingMode)
	if err = envDuration("TRACKING_POLL_WINDOW", &c.Reconciler.TrackWindow); err != nil {
		return err
	}

	envStr("SHIPPER_NAME", &c.Shipper.Name)
	envStr("SHIPPER_PHONE", &c.Shipper.Phone)
	envStr("SHIPPER_ADDRESS_LINE1", &c.Shipper.Line1)
	envStr("SHIPPER_CITY", &c.Shipper.City)
	envStr("SHIPPER_REGION", &c.Shipper.Region)
	envStr("SHIPPER_POSTAL_CODE", &c.Shipper.PostalCode)
	envStr("SHIPPER_COUNTRY", &c.Shipper.Country)
	envStr("LABEL_FORMAT", &c.Shipper.LabelFormat)

	if err = envDuration("SHIP_TIMEOUT", &c.Ship.Timeout); err != nil {
		return err
	}
	if err = envFloat("SHIP_MAX_PARCEL_WEIGHT_KG", &c.Ship.MaxParcelWeightKg); err != nil {
		return err
	}

	if err = envBool("RATE_LIMIT_ENABLED", &c.RateLimit.Enabled); err != nil {
		return err
	}
	if err = envFloat("RATE_LIMIT_RPS", &c.RateLimit.RPS); err != nil {
		return err
	}
	if err = envInt("RATE_LIMIT_BURST", &c.RateLimit.Burst); err != nil {
		return err
	}
	if err = envDuration("RATE_LIMIT_TTL", &c.RateLimit.TTL); err != nil {
		return err
	}
	if err = envInt("RATE_LIMIT_MAX_BUCKETS", &c.RateLimit.MaxBuckets); err != nil {
		return err
	}

	if err = envInt("PPROF_PORT", &c.Pprof.Port); err != nil {
		return err
	}
	envStr("PPROF_USER", &c.Pprof.User)
	envStr("PPROF_PASSWORD", &c.Pprof.Pass)

	if err = envBool("READY_GATE_ON_BREAKER", &c.Readiness.GateOnBreaker); err != nil {
		return err
	}

	return nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if _, err := strconv.Atoi(c.DB.Port); err != nil {
		return fmt.Errorf("invalid postgres port: %q", c.DB.Port)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("invalid retry max attempts: %d", c.Retry.MaxAttempts)
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("invalid retry multiplier: %v", c.Retry.Multiplier)
	}
	if c.Retry.Jitter < 0 || c.Retry.Jitter >= 1 {
		return fmt.Errorf("invalid retry jitter: %v", c.Retry.Jitter)
	}
	if c.Printer.MaxAttempts < 1 {
		return fmt.Errorf("invalid print max attempts: %d", c.Printer.MaxAttempts)
	}
	if c.Carrier.BreakerThreshold < 1 {
		return fmt.Errorf("invalid breaker threshold: %d", c.Carrier.BreakerThreshold)
	}
	if c.Printer.BreakerThreshold < 1 {
		return fmt.Errorf("invalid printer breaker threshold: %d", c.Printer.BreakerThreshold)
	}
	if c.Ship.Timeout <= 0 {
		return fmt.Errorf("invalid ship timeout: %v", c.Ship.Timeout)
	}
	if c.Ship.MaxParcelWeightKg <= 0 {
		return fmt.Errorf("invalid max parcel weight: %v", c.Ship.MaxParcelWeightKg)
	}
	if m := c.Reconciler.TrackingMode; m != TrackingModeWebhook && m != TrackingModePoll {
		return fmt.Errorf("invalid tracking mode: %q", m)
	}
	return nil
}

func envStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = f
	return nil
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
