package genai

import (
	"context"
	"errors"
)

// UnavailableProvider stands in when no API key is configured. Every call
// fails, so the generator serves its deterministic fallback copy.
type UnavailableProvider struct{}

// Generate always reports the provider as unconfigured.
func (UnavailableProvider) Generate(context.Context, string) (string, error) {
	return "", errors.New("generative provider is not configured")
}
