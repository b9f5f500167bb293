package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/hlra-health/profilesync/config"
)

const (
	gracePeriod    = time.Second * 30
	refreshTimeout = time.Second * 15
)

type TokenSourceParams struct {
	fx.In

	Config    *config.Config
	Refresher Refresher
	Breaker   *CircuitBreaker
	Logger    *zap.SugaredLogger
	Clock     func() time.Time `optional:"true"`
}

// TokenSource returns the access token of the session, refreshing it when it is about
// to expire. Refresh attempts are short-circuited while the breaker is open.
type TokenSource struct {
	refresher      Refresher
	breaker        *CircuitBreaker
	logger         *zap.SugaredLogger
	now            func() time.Time
	refreshTimeout time.Duration

	mu    sync.Mutex
	token *oauth2.Token
}

var _ oauth2.TokenSource = &TokenSource{}

func NewTokenSource(p TokenSourceParams) *TokenSource {
	ts := &TokenSource{
		refresher:      p.Refresher,
		breaker:        p.Breaker,
		logger:         p.Logger,
		now:            p.Clock,
		refreshTimeout: refreshTimeout,
	}
	if p.Config != nil && p.Config.RemoteRequestTimeout > 0 {
		ts.refreshTimeout = p.Config.RemoteRequestTimeout
	}
	if ts.now == nil {
		ts.now = time.Now
	}
	return ts
}

// SetToken starts a session with the given token. The expiry is taken from the access token when it's not set.
func (t *TokenSource) SetToken(token *oauth2.Token) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = withExpiry(token)
}

// Clear ends the session
func (t *TokenSource) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = nil
}

// Current returns a copy of the current token without refreshing it
func (t *TokenSource) Current() *oauth2.Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyToken(t.token)
}

func (t *TokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), t.refreshTimeout)
	defer cancel()
	return t.TokenContext(ctx)
}

func (t *TokenSource) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token == nil {
		return nil, ErrSessionExpired
	}
	if t.tokenIsValid() {
		return copyToken(t.token), nil
	}
	if t.token.RefreshToken == "" {
		return nil, ErrSessionExpired
	}
	if t.breaker.IsBroken() {
		return nil, ErrBreakerOpen
	}

	refreshed, err := t.refresher.RefreshToken(ctx, t.token.RefreshToken)
	if err != nil {
		t.breaker.RecordFailure()
		t.logger.Warnw("unable to refresh access token", "failures", t.breaker.Failures(), "error", err)
		return nil, fmt.Errorf("unable to refresh access token: %w", err)
	}
	if refreshed == nil || refreshed.AccessToken == "" {
		t.breaker.RecordFailure()
		return nil, fmt.Errorf("unable to refresh access token: %w", ErrSessionExpired)
	}
	t.breaker.RecordSuccess()

	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = t.token.RefreshToken
	}
	t.token = withExpiry(refreshed)
	t.logger.Debugw("refreshed access token", "expiry", t.token.Expiry)
	return copyToken(t.token), nil
}

func (t *TokenSource) tokenIsValid() bool {
	if t.token == nil || t.token.AccessToken == "" {
		return false
	}
	if t.token.Expiry.IsZero() {
		return true
	}
	return t.now().Before(t.token.Expiry.Add(-gracePeriod))
}

// ExpiryFromAccessToken returns the expiration time of a JWT access token
func ExpiryFromAccessToken(accessToken string) (time.Time, bool) {
	// The token was issued to us by the remote service which verifies it, the claims are only used for scheduling the refresh
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func withExpiry(token *oauth2.Token) *oauth2.Token {
	token = copyToken(token)
	if token != nil && token.Expiry.IsZero() {
		if expiry, ok := ExpiryFromAccessToken(token.AccessToken); ok {
			token.Expiry = expiry
		}
	}
	return token
}

func copyToken(token *oauth2.Token) *oauth2.Token {
	if token == nil {
		return nil
	}
	c := *token
	return &c
}
