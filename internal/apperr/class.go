package apperr

import "errors"

// Class names the failure class of err for logs, run records and callbacks.
// Unrecognized errors are reported as Internal.
func Class(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, NotFound):
		return "NotFound"
	case errors.Is(err, AuthExpired):
		return "AuthExpired"
	case errors.Is(err, AuthFailure):
		return "AuthFailure"
	case errors.Is(err, Rejected):
		return "RejectedRequest"
	case errors.Is(err, RateLimited):
		return "RateLimited"
	case errors.Is(err, CircuitOpen):
		return "CircuitOpen"
	case errors.Is(err, Exhausted), errors.Is(err, PrintTransport):
		return "PrintTransportError"
	case errors.Is(err, Timeout):
		return "Timeout"
	case errors.Is(err, Transient):
		return "TransientFailure"
	case errors.Is(err, Invalid):
		return "InvalidInput"
	case errors.Is(err, Conflict):
		return "Conflict"
	default:
		return "Internal"
	}
}
