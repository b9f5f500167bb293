package auth

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"golang.org/x/oauth2"

	"github.com/hlra-health/profilesync/errors"
)

//go:generate mockgen --build_flags=--mod=mod -source=./auth.go -destination=./test/mock_auth.go -package test

var (
	ErrBreakerOpen    = fmt.Errorf("token refresh is suspended after repeated failures: %w", errors.Unauthorized)
	ErrSessionExpired = fmt.Errorf("session expired: %w", errors.Unauthorized)
)

var Module = fx.Provide(
	NewCircuitBreaker,
	NewTokenSource,
)

type User struct {
	Id     string  `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
}

// Refresher exchanges a refresh token for a new access token. Implementations must not
// authenticate the request with the token source they refresh.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// UserService returns the user the current session belongs to
type UserService interface {
	GetCurrentUser(ctx context.Context) (*User, error)
}
