package remote

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/hlra-health/profilesync/auth"
	"github.com/hlra-health/profilesync/config"
	"github.com/hlra-health/profilesync/errors"
	"github.com/hlra-health/profilesync/profiles"
)

type ClientParams struct {
	fx.In

	Config      *config.Config
	TokenSource *auth.TokenSource
	Logger      *zap.SugaredLogger
}

// Client calls the profile endpoints on behalf of the signed in user. Requests are
// authenticated with the access token of the session which identifies the account,
// the account id arguments are only used to fill in missing owner ids.
type Client struct {
	requester
}

var (
	_ profiles.RemoteService = &Client{}
	_ auth.UserService       = &Client{}
)

func NewClient(p ClientParams) (*Client, error) {
	transport := &oauth2.Transport{
		Source: p.TokenSource,
		Base:   http.DefaultTransport,
	}
	r, err := newRequester(p.Config, transport, p.Logger)
	if err != nil {
		return nil, err
	}
	return &Client{requester: r}, nil
}

func (c *Client) GetCurrentUser(ctx context.Context) (*auth.User, error) {
	user := User{}
	if err := c.do(ctx, http.MethodGet, currentUserPath, nil, &user); err != nil {
		return nil, fmt.Errorf("unable to get current user: %w", err)
	}
	return &auth.User{
		Id:     user.Id,
		Email:  user.Email,
		Name:   user.Name,
		Avatar: user.Avatar,
	}, nil
}

func (c *Client) ListProfiles(ctx context.Context, accountId string) ([]profiles.Profile, error) {
	list := ProfileList{}
	if err := c.do(ctx, http.MethodGet, profilesPath, nil, &list); err != nil {
		return nil, fmt.Errorf("unable to list profiles: %w", err)
	}
	result := make([]profiles.Profile, 0, len(list.Profiles))
	for _, p := range list.Profiles {
		result = append(result, p.ToProfile(accountId))
	}
	return result, nil
}

func (c *Client) GetActiveProfile(ctx context.Context, accountId string) (*profiles.Profile, error) {
	profile := Profile{}
	if err := c.do(ctx, http.MethodGet, activeProfilePath, nil, &profile); err != nil {
		if stdErrors.Is(err, errors.NotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to get active profile: %w", err)
	}
	if profile.Id == "" {
		return nil, nil
	}
	result := profile.ToProfile(accountId)
	return &result, nil
}

func (c *Client) CreateProfile(ctx context.Context, accountId string, create profiles.Create) (*profiles.Profile, error) {
	profile := Profile{}
	if err := c.do(ctx, http.MethodPost, profilesPath, NewCreateRequest(create), &profile); err != nil {
		return nil, fmt.Errorf("unable to create profile: %w", err)
	}
	result := profile.ToProfile(accountId)
	return &result, nil
}

func (c *Client) UpdateProfile(ctx context.Context, accountId string, profileId string, update profiles.Update) (*profiles.Profile, error) {
	profile := Profile{}
	if err := c.do(ctx, http.MethodPut, profilePath(profileId), NewUpdateRequest(update), &profile); err != nil {
		return nil, fmt.Errorf("unable to update profile %s: %w", profileId, err)
	}
	result := profile.ToProfile(accountId)
	return &result, nil
}

func (c *Client) DeleteProfile(ctx context.Context, accountId string, profileId string) error {
	if err := c.do(ctx, http.MethodDelete, profilePath(profileId), nil, nil); err != nil {
		return fmt.Errorf("unable to delete profile %s: %w", profileId, err)
	}
	return nil
}

func (c *Client) SetActiveProfile(ctx context.Context, accountId string, profileId string) error {
	if err := c.do(ctx, http.MethodPost, setActivePath, ActiveProfileRequest{ProfileId: profileId}, nil); err != nil {
		return fmt.Errorf("unable to set active profile %s: %w", profileId, err)
	}
	return nil
}

func profilePath(profileId string) string {
	return profilesPath + "/" + url.PathEscape(profileId)
}
