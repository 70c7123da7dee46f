package sfmc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sfmc-labs/ai-email-activity/internal/auth"
	"github.com/sfmc-labs/ai-email-activity/internal/config"
)

// Authenticator performs the Marketing Cloud OAuth2 client-credentials
// exchange. It implements auth.Authenticator and is wrapped by a TokenCache
// so the exchange only happens when no unexpired credential is held.
type Authenticator struct {
	logger       zerolog.Logger
	clientID     string
	clientSecret string
	accountID    string
	authURL      string
	httpClient   HTTPClient
	now          func() time.Time
}

// AuthOption customises the authenticator.
type AuthOption func(*Authenticator)

// WithAuthHTTPClient overrides the HTTP client used for the token exchange.
func WithAuthHTTPClient(client HTTPClient) AuthOption {
	return func(a *Authenticator) {
		if client != nil {
			a.httpClient = client
		}
	}
}

// WithAuthURL sets the token endpoint. Useful for tests.
func WithAuthURL(authURL string) AuthOption {
	return func(a *Authenticator) {
		a.authURL = strings.TrimRight(authURL, "/")
	}
}

// WithAuthClock overrides the clock used to compute credential expiry.
func WithAuthClock(now func() time.Time) AuthOption {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAuthenticator constructs an authenticator from SFMC configuration.
func NewAuthenticator(cfg config.SFMCConfig, logger zerolog.Logger, opts ...AuthOption) (*Authenticator, error) {
	if !cfg.Configured() {
		return nil, errors.New("sfmc authenticator: client ID, client secret and subdomain are required")
	}

	a := &Authenticator{
		logger:       logger,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		accountID:    cfg.AccountID,
		authURL:      fmt.Sprintf("https://%s.auth.marketingcloudapis.com", cfg.Subdomain),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AccountID    string `json:"account_id,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Authenticate exchanges client credentials for a bearer token. The returned
// credential expires after the server-reported lifetime, defaulting to one
// hour when the server omits it.
func (a *Authenticator) Authenticate(ctx context.Context) (auth.Credential, error) {
	body, err := json.Marshal(tokenRequest{
		GrantType:    "client_credentials",
		ClientID:     a.clientID,
		ClientSecret: a.clientSecret,
		AccountID:    a.accountID,
	})
	if err != nil {
		return auth.Credential{}, fmt.Errorf("sfmc authenticator: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.authURL+"/v2/token", bytes.NewReader(body))
	if err != nil {
		return auth.Credential{}, fmt.Errorf("sfmc authenticator: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return auth.Credential{}, fmt.Errorf("sfmc authenticator: token request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return auth.Credential{}, fmt.Errorf("sfmc authenticator: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return auth.Credential{}, fmt.Errorf("sfmc authenticator: unexpected status %d", resp.StatusCode)
	}

	var parsed tokenResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return auth.Credential{}, fmt.Errorf("sfmc authenticator: decode response: %w", err)
	}
	if parsed.AccessToken == "" {
		return auth.Credential{}, errors.New("sfmc authenticator: response is missing access_token")
	}

	lifetime := time.Duration(parsed.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = time.Hour
	}

	a.logger.Info().Dur("lifetime", lifetime).Msg("authenticated with marketing cloud")
	return auth.Credential{
		Token:     parsed.AccessToken,
		ExpiresAt: a.now().Add(lifetime),
	}, nil
}
