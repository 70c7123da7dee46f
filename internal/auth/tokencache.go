package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrAuth marks credential acquisition failures. Callers that need a real
// credential decide locally whether to degrade or propagate.
var ErrAuth = errors.New("auth error")

// Credential is a bearer token and its expiry. A credential returned by
// Acquire is never expired at time of return.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Authenticator performs one remote credential exchange.
type Authenticator interface {
	Authenticate(ctx context.Context) (Credential, error)
}

// Option customises TokenCache behaviour.
type Option func(*TokenCache)

// WithClock overrides the clock used for expiry checks. Useful for tests.
func WithClock(now func() time.Time) Option {
	return func(tc *TokenCache) {
		if now != nil {
			tc.now = now
		}
	}
}

// WithRefreshSkew makes the cache refresh early by the given margin so a
// credential handed to a slow outbound call does not expire mid-flight.
func WithRefreshSkew(skew time.Duration) Option {
	return func(tc *TokenCache) {
		if skew >= 0 {
			tc.skew = skew
		}
	}
}

// TokenCache is an expiry-aware credential holder shared across all
// executions within the process lifetime. It is constructed once at boot and
// injected into whatever needs a bearer token. Refresh is single-flight: the
// mutex is held across the remote exchange, so concurrent expired-state
// callers produce exactly one authentication call.
type TokenCache struct {
	mu            sync.Mutex
	authenticator Authenticator
	cached        Credential
	now           func() time.Time
	skew          time.Duration
}

// NewTokenCache constructs an empty cache around the given authenticator.
func NewTokenCache(authenticator Authenticator, opts ...Option) (*TokenCache, error) {
	if authenticator == nil {
		return nil, errors.New("token cache: authenticator dependency is required")
	}
	tc := &TokenCache{
		authenticator: authenticator,
		now:           time.Now,
		skew:          30 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(tc)
		}
	}
	return tc, nil
}

// Acquire returns a valid credential, re-authenticating only when no
// credential is held or the held one is within the refresh skew of expiry.
func (tc *TokenCache) Acquire(ctx context.Context) (Credential, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.cached.Token != "" && tc.now().Add(tc.skew).Before(tc.cached.ExpiresAt) {
		return tc.cached, nil
	}

	cred, err := tc.authenticator.Authenticate(ctx)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if cred.Token == "" {
		return Credential{}, fmt.Errorf("%w: authenticator returned empty token", ErrAuth)
	}
	tc.cached = cred
	return tc.cached, nil
}

// Invalidate drops the held credential so the next Acquire re-authenticates.
// Used when the remote side rejects a token before its computed expiry.
func (tc *TokenCache) Invalidate() {
	tc.mu.Lock()
	tc.cached = Credential{}
	tc.mu.Unlock()
}
