package remote

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hlra-health/profilesync/auth"
	"github.com/hlra-health/profilesync/config"
	"github.com/hlra-health/profilesync/errors"
	"github.com/hlra-health/profilesync/profiles"
)

const (
	apiPrefix          = "/api/v1"
	profilesPath       = apiPrefix + "/family-profiles"
	activeProfilePath  = profilesPath + "/active/current"
	setActivePath      = profilesPath + "/set-active"
	refreshTokenPath   = apiPrefix + "/auth/refresh"
	currentUserPath    = apiPrefix + "/auth/me"
	maxErrorDetailSize = 4096
)

var Module = fx.Provide(
	NewAuthClient,
	func(c *AuthClient) auth.Refresher { return c },
	NewClient,
	func(c *Client) profiles.RemoteService { return c },
	func(c *Client) auth.UserService { return c },
)

// requester sends json requests to the profile service and classifies the responses
type requester struct {
	baseUrl    *url.URL
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

func newRequester(cfg *config.Config, transport http.RoundTripper, logger *zap.SugaredLogger) (requester, error) {
	baseUrl, err := url.Parse(strings.TrimSuffix(cfg.RemoteBaseUrl, "/"))
	if err != nil {
		return requester{}, fmt.Errorf("invalid remote base url: %w", err)
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return requester{}, fmt.Errorf("invalid remote base url %q", cfg.RemoteBaseUrl)
	}

	timeout := cfg.RemoteRequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return requester{
		baseUrl: baseUrl,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: logger,
	}, nil
}

func (r requester) do(ctx context.Context, method string, path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("unable to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseUrl.String()+path, reader)
	if err != nil {
		return fmt.Errorf("unable to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := r.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer res.Body.Close()

	if err := errors.FromStatusCode(res.StatusCode); err != nil {
		detail := errorDetail(res.Body)
		r.logger.Warnw("profile service request failed", "method", method, "path", path, "status", res.StatusCode, "detail", detail)
		if detail != "" {
			return fmt.Errorf("%s %s: %s: %w", method, path, detail, err)
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if result == nil || res.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(result); err != nil {
		return fmt.Errorf("unable to decode response of %s %s: %w", method, path, errors.BadGateway)
	}
	return nil
}

// transportError keeps the classification of errors raised by the token source and
// reports everything else as the service being unreachable
func transportError(err error) error {
	var httpErr errors.HttpError
	if stdErrors.As(err, &httpErr) {
		return err
	}
	if stdErrors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", errors.ServiceUnavailable, err)
}

func errorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorDetailSize))
	if err != nil || len(data) == 0 {
		return ""
	}
	response := ErrorResponse{}
	if err := json.Unmarshal(data, &response); err != nil {
		return strings.TrimSpace(string(data))
	}
	switch detail := response.Detail.(type) {
	case nil:
		return ""
	case string:
		return detail
	default:
		encoded, _ := json.Marshal(detail)
		return string(encoded)
	}
}
