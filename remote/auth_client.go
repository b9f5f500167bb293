package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/hlra-health/profilesync/auth"
	"github.com/hlra-health/profilesync/config"
	"github.com/hlra-health/profilesync/errors"
)

// AuthClient calls the unauthenticated token endpoints of the profile service
type AuthClient struct {
	requester
	now func() time.Time
}

var _ auth.Refresher = &AuthClient{}

func NewAuthClient(cfg *config.Config, logger *zap.SugaredLogger) (*AuthClient, error) {
	r, err := newRequester(cfg, http.DefaultTransport, logger)
	if err != nil {
		return nil, err
	}
	return &AuthClient{requester: r, now: time.Now}, nil
}

func (a *AuthClient) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	response := Token{}
	if err := a.do(ctx, http.MethodPost, refreshTokenPath, RefreshTokenRequest{RefreshToken: refreshToken}, &response); err != nil {
		return nil, fmt.Errorf("unable to refresh token: %w", err)
	}
	if response.AccessToken == "" {
		return nil, fmt.Errorf("refresh response has no access token: %w", errors.BadGateway)
	}

	token := &oauth2.Token{
		AccessToken:  response.AccessToken,
		TokenType:    response.TokenType,
		RefreshToken: response.RefreshToken,
	}
	if response.ExpiresIn > 0 {
		token.Expiry = a.now().Add(time.Duration(response.ExpiresIn) * time.Second)
	} else if expiry, ok := auth.ExpiryFromAccessToken(token.AccessToken); ok {
		token.Expiry = expiry
	}
	return token, nil
}
