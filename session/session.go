package session

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/hlra-health/profilesync/auth"
	"github.com/hlra-health/profilesync/errors"
	"github.com/hlra-health/profilesync/notifications"
	"github.com/hlra-health/profilesync/profiles"
)

var ErrNotSignedIn = fmt.Errorf("not signed in: %w", errors.Unauthorized)

var Module = fx.Provide(NewSession)

type Params struct {
	fx.In

	Profiles    profiles.Service
	TokenSource *auth.TokenSource
	Breaker     *auth.CircuitBreaker
	Users       auth.UserService
	Inbox       *notifications.Inbox
	Logger      *zap.SugaredLogger
	Clock       func() time.Time `optional:"true"`
}

// Session owns the lifecycle of the signed in user. Signing out, explicitly or because
// the session expired, discards the profiles, the token and the notifications of the user.
type Session struct {
	profiles    profiles.Service
	tokenSource *auth.TokenSource
	breaker     *auth.CircuitBreaker
	users       auth.UserService
	inbox       *notifications.Inbox
	logger      *zap.SugaredLogger
	now         func() time.Time

	mu        sync.Mutex
	user      *auth.User
	onExpired []func(user auth.User)
}

func NewSession(p Params) *Session {
	now := p.Clock
	if now == nil {
		now = time.Now
	}
	return &Session{
		profiles:    p.Profiles,
		tokenSource: p.TokenSource,
		breaker:     p.Breaker,
		users:       p.Users,
		inbox:       p.Inbox,
		logger:      p.Logger,
		now:         now,
	}
}

// Login starts a session with the token, resolves the user it belongs to and loads the
// profiles of the user
func (s *Session) Login(ctx context.Context, token *oauth2.Token) (*auth.User, error) {
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("%w: access token is required", errors.BadRequest)
	}

	s.breaker.Reset()
	s.tokenSource.SetToken(token)

	user, err := s.users.GetCurrentUser(ctx)
	if err != nil {
		s.tokenSource.Clear()
		return nil, fmt.Errorf("unable to sign in: %w", err)
	}

	s.mu.Lock()
	previous := s.user
	s.user = user
	s.mu.Unlock()
	if previous != nil && previous.Id != user.Id {
		s.inbox.Clear()
	}

	if err := s.profiles.Initialize(ctx, user.Id); err != nil {
		return user, fmt.Errorf("unable to load profiles: %w", err)
	}
	s.logger.Infow("signed in", "userId", user.Id)
	return user, nil
}

// Logout ends the session. Calling it without a session is a no-op.
func (s *Session) Logout() {
	s.mu.Lock()
	user := s.user
	s.user = nil
	s.mu.Unlock()

	s.clear()
	if user != nil {
		s.logger.Infow("signed out", "userId", user.Id)
	}
}

func (s *Session) clear() {
	s.profiles.Reset()
	s.breaker.Reset()
	s.tokenSource.Clear()
	s.inbox.Clear()
}

// User returns the signed in user, or nil
func (s *Session) User() *auth.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// RequireUser returns the signed in user or ErrNotSignedIn
func (s *Session) RequireUser() (*auth.User, error) {
	if user := s.User(); user != nil {
		return user, nil
	}
	return nil, ErrNotSignedIn
}

// OnExpired registers a callback that is invoked after the session expired
func (s *Session) OnExpired(fn func(user auth.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = append(s.onExpired, fn)
}

// IsAuthError returns true for errors that can only be resolved by signing in again
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if stdErrors.Is(err, auth.ErrBreakerOpen) || stdErrors.Is(err, auth.ErrSessionExpired) {
		return true
	}
	return !stdErrors.Is(err, ErrNotSignedIn) && errors.Code(err) == http.StatusUnauthorized
}

// HandleAuthError expires the session if err is an authentication failure. Returns
// true if the session was expired by this call.
func (s *Session) HandleAuthError(err error) bool {
	if !IsAuthError(err) {
		return false
	}

	s.mu.Lock()
	user := s.user
	s.user = nil
	callbacks := append([]func(auth.User){}, s.onExpired...)
	s.mu.Unlock()

	// Concurrent requests fail together, only the first one expires the session
	if user == nil {
		return false
	}

	s.logger.Warnw("session expired", "userId", user.Id, "error", err)
	s.clear()
	s.inbox.Add(notifications.NewSessionExpired(user.Id, s.now()))
	for _, fn := range callbacks {
		fn(*user)
	}
	return true
}
