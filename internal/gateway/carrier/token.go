package carrier

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Token holds a carrier access token and its expiry.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// tokenCache keeps the carrier token between calls. Refreshes are
// single-flight: concurrent callers observing an expired token block on one
// in-flight auth call instead of issuing parallel refreshes.
type tokenCache struct {
	fetch func(ctx context.Context) (Token, error)
	skew  time.Duration
	now   func() time.Time

	group singleflight.Group
	mu    sync.RWMutex
	tok   Token
}

func newTokenCache(fetch func(ctx context.Context) (Token, error), skew time.Duration, now func() time.Time) *tokenCache {
	if now == nil {
		now = time.Now
	}
	return &tokenCache{fetch: fetch, skew: skew, now: now}
}

// ensure returns a valid token, refreshing it when missing or about to
// expire within the configured skew.
func (t *tokenCache) ensure(ctx context.Context) (string, error) {
	if tok, ok := t.cached(); ok {
		return tok, nil
	}

	v, err, _ := t.group.Do("token", func() (any, error) {
		if tok, ok := t.cached(); ok {
			return tok, nil
		}
		fresh, err := t.fetch(ctx)
		if err != nil {
			return "", err
		}
		t.mu.Lock()
		t.tok = fresh
		t.mu.Unlock()
		return fresh.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (t *tokenCache) cached() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.tok.AccessToken == "" {
		return "", false
	}
	if !t.now().Add(t.skew).Before(t.tok.ExpiresAt) {
		return "", false
	}
	return t.tok.AccessToken, true
}

// invalidate drops the cached token after a server-side rejection.
func (t *tokenCache) invalidate() {
	t.mu.Lock()
	t.tok = Token{}
	t.mu.Unlock()
}
