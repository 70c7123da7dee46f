package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/sfmc-labs/ai-email-activity/internal/models"
)

const (
	subjectMaxRunes   = 50
	subjectTruncRunes = 47
)

// Generator produces personalized email bodies and subject lines. Upstream
// failures are caught, not propagated: both methods always return usable
// content, tagging fallback copy so callers can report it as metadata. The
// activity must never block a journey's send step on the content provider
// being unavailable.
type Generator struct {
	logger   zerolog.Logger
	provider Provider
}

// NewGenerator constructs a Generator around the given provider.
func NewGenerator(provider Provider, logger zerolog.Logger) (*Generator, error) {
	if provider == nil {
		return nil, errors.New("content generator: provider dependency is required")
	}
	return &Generator{logger: logger, provider: provider}, nil
}

// Body generates the email body for the recipient and template variant. On
// any upstream failure it returns the fixed fallback copy interpolated with
// the recipient's known fields, with Generated=false.
func (g *Generator) Body(ctx context.Context, r models.Recipient, template string) models.GeneratedContent {
	r = r.WithDefaults()

	text, err := g.provider.Generate(ctx, bodyPrompt(r, template))
	if err != nil {
		g.logger.Warn().Err(err).Str("template", template).Msg("content generation failed, using fallback body")
		return models.GeneratedContent{Body: fallbackBody(r), Generated: false}
	}

	return models.GeneratedContent{Body: strings.TrimSpace(text), Generated: true}
}

// Subject generates the subject line for the recipient and template variant.
// Surrounding quote characters are stripped and subjects longer than 50
// characters are truncated to 47 plus an ellipsis. On failure it returns the
// fixed fallback subject.
func (g *Generator) Subject(ctx context.Context, r models.Recipient, template string) string {
	r = r.WithDefaults()

	text, err := g.provider.Generate(ctx, subjectPrompt(r, template))
	if err != nil {
		g.logger.Warn().Err(err).Str("template", template).Msg("subject generation failed, using fallback subject")
		return fallbackSubject(r)
	}

	return CleanSubject(text)
}

// CleanSubject normalizes raw model output into a usable subject line:
// quotes stripped, whitespace trimmed, length capped at 50 runes.
func CleanSubject(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '"', '“', '”':
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)

	if utf8.RuneCountInString(s) > subjectMaxRunes {
		runes := []rune(s)
		s = string(runes[:subjectTruncRunes]) + "..."
	}
	return s
}

func fallbackSubject(r models.Recipient) string {
	return fmt.Sprintf("%s, tenemos algo especial para ti", r.FirstName)
}

func fallbackBody(r models.Recipient) string {
	return fmt.Sprintf(`Hola %s,

Esperamos que te encuentres muy bien en %s.

Nos complace contactarte porque sabemos de tu interés en %s. Queremos ofrecerte contenido y ofertas especiales que realmente te interesen.

En los próximos días recibirás más información personalizada que esperamos sea de tu agrado.

¡Gracias por confiar en nosotros!

Saludos cordiales,
El equipo`, r.FirstName, r.City, r.InterestCategory)
}
