package genai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfmc-labs/ai-email-activity/internal/models"
)

type stubProvider struct {
	calls   int
	prompts []string
	text    string
	err     error
}

func (p *stubProvider) Generate(_ context.Context, prompt string) (string, error) {
	p.calls++
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	return p.text, nil
}

func newTestGenerator(t *testing.T, provider Provider) *Generator {
	t.Helper()
	g, err := NewGenerator(provider, zerolog.Nop())
	require.NoError(t, err)
	return g
}

func TestBodyReturnsGeneratedText(t *testing.T) {
	provider := &stubProvider{text: "Hola Ana, contenido generado."}
	g := newTestGenerator(t, provider)

	content := g.Body(context.Background(), models.Recipient{FirstName: "Ana"}, models.TemplateDefault)
	assert.True(t, content.Generated)
	assert.Equal(t, "Hola Ana, contenido generado.", content.Body)
}

func TestBodyFallsBackOnProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("timeout")}
	g := newTestGenerator(t, provider)

	content := g.Body(context.Background(), models.Recipient{FirstName: "Ana", City: "Madrid"}, models.TemplateDefault)
	assert.False(t, content.Generated)
	assert.Contains(t, content.Body, "Hola Ana,")
	assert.Contains(t, content.Body, "Esperamos que te encuentres muy bien en Madrid.")
	assert.Contains(t, content.Body, "nuestros productos")
}

func TestBodyAppliesRecipientDefaultsBeforePrompting(t *testing.T) {
	provider := &stubProvider{text: "contenido"}
	g := newTestGenerator(t, provider)

	g.Body(context.Background(), models.Recipient{}, models.TemplateDefault)
	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "Estimado Cliente")
	assert.Contains(t, provider.prompts[0], "su ciudad")
	assert.Contains(t, provider.prompts[0], "nuestros productos")
}

func TestBodyPromptVariesByTemplate(t *testing.T) {
	for template, marker := range map[string]string{
		models.TemplatePromotional:   "email promocional",
		models.TemplateInformational: "email informativo",
		models.TemplateWelcome:       "email de bienvenida",
	} {
		provider := &stubProvider{text: "x"}
		g := newTestGenerator(t, provider)

		g.Body(context.Background(), models.Recipient{FirstName: "Ana"}, template)
		require.Len(t, provider.prompts, 1)
		assert.Contains(t, provider.prompts[0], marker, "template %s", template)
	}
}

func TestBodyUnknownTemplateUsesGeneralVariant(t *testing.T) {
	provider := &stubProvider{text: "x"}
	g := newTestGenerator(t, provider)

	g.Body(context.Background(), models.Recipient{FirstName: "Ana"}, "no-such-template")
	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "Ser personalizado y relevante")
}

func TestSubjectIsDeterministicWithStubProvider(t *testing.T) {
	provider := &stubProvider{text: "Ana, descubre Madrid"}
	g := newTestGenerator(t, provider)

	r := models.Recipient{FirstName: "Ana", City: "Madrid"}
	first := g.Subject(context.Background(), r, models.TemplateDefault)
	second := g.Subject(context.Background(), r, models.TemplateDefault)
	assert.Equal(t, first, second)
	assert.Equal(t, "Ana, descubre Madrid", first)
}

func TestSubjectStripsQuotes(t *testing.T) {
	provider := &stubProvider{text: `"Oferta especial para ti"`}
	g := newTestGenerator(t, provider)

	subject := g.Subject(context.Background(), models.Recipient{FirstName: "Ana"}, models.TemplateDefault)
	assert.Equal(t, "Oferta especial para ti", subject)
}

func TestSubjectTruncatesToFiftyRunes(t *testing.T) {
	long := strings.Repeat("a", 80)
	provider := &stubProvider{text: long}
	g := newTestGenerator(t, provider)

	subject := g.Subject(context.Background(), models.Recipient{FirstName: "Ana"}, models.TemplateDefault)
	assert.Len(t, []rune(subject), 50)
	assert.Equal(t, strings.Repeat("a", 47)+"...", subject)
}

func TestSubjectFallbackOnProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("unavailable")}
	g := newTestGenerator(t, provider)

	subject := g.Subject(context.Background(), models.Recipient{FirstName: "Ana"}, models.TemplateDefault)
	assert.Equal(t, "Ana, tenemos algo especial para ti", subject)
}

func TestCleanSubjectKeepsShortSubjects(t *testing.T) {
	assert.Equal(t, "Hola", CleanSubject("  Hola  "))
	assert.Equal(t, "Oferta", CleanSubject("“Oferta”"))
}

func TestNewGeneratorRequiresProvider(t *testing.T) {
	_, err := NewGenerator(nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestUnavailableProviderAlwaysErrors(t *testing.T) {
	_, err := UnavailableProvider{}.Generate(context.Background(), "x")
	assert.Error(t, err)
}
