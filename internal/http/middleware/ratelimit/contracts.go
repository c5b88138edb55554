package ratelimit

// Limiter decides whether one more request from a client key may pass.
type Limiter interface {
	Allow(key string) bool
}
