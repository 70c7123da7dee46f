package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfmc-labs/ai-email-activity/internal/config"
	"github.com/sfmc-labs/ai-email-activity/internal/models"
)

type noopExecutor struct{}

func (noopExecutor) Execute(_ context.Context, req models.ExecutionRequest) models.Outcome {
	return models.Outcome{Success: true, ContactKey: req.ContactKey, Email: req.Email, MessageID: "req-1"}
}

func testConfig() config.Config {
	cfg := config.Config{}
	cfg.App.StaticDir = "testdata"
	cfg.Gemini.APIKey = "key"
	return cfg
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthReportsConfiguredFlags(t *testing.T) {
	r := NewRouter(testConfig(), noopExecutor{}, zerolog.Nop())

	w := get(t, r, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["geminiConfigured"])
	assert.Equal(t, false, body["sfmcConfigured"])
	assert.Equal(t, false, body["auditDbConfigured"])
}

func TestConfigDescriptorIsServed(t *testing.T) {
	r := NewRouter(testConfig(), noopExecutor{}, zerolog.Nop())

	w := get(t, r, "/config.json")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1.1", body["workflowApiVersion"])
	assert.Contains(t, body, "configurationArguments")
}

func TestSecurityHeadersArePresent(t *testing.T) {
	r := NewRouter(testConfig(), noopExecutor{}, zerolog.Nop())

	w := get(t, r, "/health")
	csp := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "generativelanguage.googleapis.com")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	r := NewRouter(testConfig(), noopExecutor{}, zerolog.Nop())

	w := get(t, r, "/no-such-path")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestMetricsEndpointIsServed(t *testing.T) {
	r := NewRouter(testConfig(), noopExecutor{}, zerolog.Nop())

	// Drive one instrumented request so the counter vector has a series.
	get(t, r, "/health")

	w := get(t, r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
