package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/sony/gobreaker/v2"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/logx"
)

type gauge interface {
	Set(float64)
}

// Config configures the TCP dispatcher.
type Config struct {
	Addr             string
	ConnectTimeout   time.Duration
	WriteTimeout     time.Duration
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Dispatcher writes label payloads to a raw TCP printer socket. The protocol
// is fire-and-forget: the device sends nothing back, so a completed write is
// the only acknowledgement there is. A breaker guards the socket: once the
// printer fails BreakerThreshold sends in a row, further sends fail fast
// until the cool-down elapses and a probe send goes through.
type Dispatcher struct {
	addr         string
	dialer       *net.Dialer
	writeTimeout time.Duration
	breaker      *gobreaker.CircuitBreaker[struct{}]
	logger       logx.Logger
}

// NewDispatcher creates a Dispatcher. The state gauge receives 0/1/2 for
// closed/half-open/open and may be nil.
func NewDispatcher(cfg Config, logger logx.Logger, state gauge) *Dispatcher {
	if cfg.BreakerThreshold < 1 {
		cfg.BreakerThreshold = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}
	d := &Dispatcher{
		addr:         cfg.Addr,
		dialer:       &net.Dialer{Timeout: cfg.ConnectTimeout},
		writeTimeout: cfg.WriteTimeout,
		logger:       logger,
	}
	d.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "printer",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.BreakerThreshold)
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			logger.Warn("printer breaker state change",
				logx.String("from", from.String()),
				logx.String("to", to.String()))
			if state != nil {
				state.Set(breakerStateValue(to))
			}
		},
	})
	return d
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

// Addr returns the printer address labels are sent to.
func (d *Dispatcher) Addr() string { return d.addr }

// Available reports whether the breaker currently admits sends.
func (d *Dispatcher) Available() bool {
	return d.breaker.State() != gobreaker.StateOpen
}

// SendLabel streams one label payload to the printer byte for byte. The
// payload is never inspected or re-encoded; connect and write are each bounded
// by their own timeout. Every failure is a print transport error. While the
// breaker is open the call fails fast without touching the socket.
func (d *Dispatcher) SendLabel(ctx context.Context, payload []byte) error {
	_, err := d.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, d.send(ctx, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("printer %s: %w", d.addr, apperr.CircuitOpen)
	}
	return err
}

func (d *Dispatcher) send(ctx context.Context, payload []byte) error {
	conn, err := d.dialer.DialContext(ctx, "tcp", d.addr)
	if err != nil {
		return fmt.Errorf("%w: connect %s: %v", apperr.PrintTransport, d.addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(d.writeTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if d.writeTimeout > 0 {
		if err := conn.SetWriteDeadline(deadline); err != nil {
			return fmt.Errorf("%w: set write deadline: %v", apperr.PrintTransport, err)
		}
	}

	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("%w: write %s: %v", apperr.PrintTransport, d.addr, err)
	}

	// Half-close tells printers that spool until EOF the payload is complete.
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.CloseWrite()
	}

	d.logger.Debug("label sent",
		logx.String("printer", d.addr),
		logx.Int("bytes", len(payload)))
	return nil
}
