package genai

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

	"github.com/sfmc-labs/ai-email-activity/internal/config"
)

// Provider is the contract for one generative-text call. Implementations
// return the raw model text for a prompt or an error.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HTTPClient abstracts the http.Client Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// GeminiOption customises the Gemini provider.
type GeminiOption func(*GeminiProvider)

// WithHTTPClient overrides the HTTP client used to talk to the API.
func WithHTTPClient(client HTTPClient) GeminiOption {
	return func(p *GeminiProvider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// WithBaseURL sets the API base URL. Useful for tests.
func WithBaseURL(baseURL string) GeminiOption {
	return func(p *GeminiProvider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// GeminiProvider calls the generative-language REST API.
type GeminiProvider struct {
	logger     zerolog.Logger
	apiKey     string
	model      string
	baseURL    string
	httpClient HTTPClient
}

// NewGeminiProvider constructs a provider from configuration.
func NewGeminiProvider(cfg config.GeminiConfig, logger zerolog.Logger, opts ...GeminiOption) (*GeminiProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini provider: API key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-pro"
	}

	p := &GeminiProvider{
		logger:     logger,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		baseURL:    "https://generativelanguage.googleapis.com",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate issues one generateContent call and returns the first candidate's
// text. An empty candidate list or empty text is reported as an error so the
// caller can fall back.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini provider: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		p.baseURL, url.PathEscape(p.model), url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini provider: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini provider: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("gemini provider: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini provider: unexpected status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("gemini provider: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gemini provider: API error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini provider: empty candidate list")
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", errors.New("gemini provider: empty content")
	}

	p.logger.Debug().Int("chars", len(text)).Msg("gemini generation succeeded")
	return text, nil
}
