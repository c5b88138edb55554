package apperr

import "errors"

// Invalid is returned when the input fails domain validation.
var Invalid = errors.New("invalid input")

// Conflict indicates a uniqueness or state conflict (HTTP 409).
var Conflict = errors.New("conflict")

// NotFound indicates that the requested resource does not exist.
var NotFound = errors.New("not found")

// AuthFailure indicates rejected credentials. Non-retryable.
var AuthFailure = errors.New("authentication failure")

// AuthExpired indicates a token still rejected after one re-authentication.
var AuthExpired = errors.New("authentication expired")

// Rejected indicates a downstream validation rejection (4xx). Non-retryable;
// the downstream error code travels in the wrapping message.
var Rejected = errors.New("rejected request")

// RateLimited indicates a 429 from downstream. Retryable, honoring the
// downstream retry-after hint when one was provided.
var RateLimited = errors.New("rate limited")

// Transient indicates a network error or downstream 5xx. Retryable, counted
// by the circuit breaker.
var Transient = errors.New("transient failure")

// CircuitOpen is returned without a network call while a breaker is open.
var CircuitOpen = errors.New("circuit open")

// PrintTransport indicates a printer connect/write failure within the
// per-cycle retry budget.
var PrintTransport = errors.New("print transport error")

// Exhausted indicates a print job that spent its per-cycle retry budget.
// Terminal until an operator requeues the job.
var Exhausted = errors.New("print attempts exhausted")

// Timeout indicates that the run deadline elapsed. The run stays replayable
// under the same idempotency key.
var Timeout = errors.New("timeout")

// Retryable reports whether err belongs to a class that may be retried,
// locally or via replay of the owning run.
func Retryable(err error) bool {
	switch {
	case errors.Is(err, RateLimited),
		errors.Is(err, Transient),
		errors.Is(err, CircuitOpen),
		errors.Is(err, PrintTransport),
		errors.Is(err, Timeout):
		return true
	default:
		return false
	}
}
