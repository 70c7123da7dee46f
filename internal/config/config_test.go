package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 3000, cfg.App.Port)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "gemini-pro", cfg.Gemini.Model)
	assert.Equal(t, "gemini-triggered-email", cfg.SFMC.TriggeredSendKey)
	assert.Equal(t, "TestCustomActivity", cfg.SFMC.DataExtensionKey)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SFMC_CLIENT_ID", "id")
	t.Setenv("SFMC_CLIENT_SECRET", "secret")
	t.Setenv("SFMC_SUBDOMAIN", "sub")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.App.Port)
	assert.Equal(t, "production", cfg.App.Env)
	assert.True(t, cfg.SFMC.Configured())
}

func TestLoadRejectsMalformedPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestSFMCConfiguredRequiresAllCredentials(t *testing.T) {
	cfg := SFMCConfig{ClientID: "id", ClientSecret: "secret"}
	assert.False(t, cfg.Configured())

	cfg.Subdomain = "sub"
	assert.True(t, cfg.Configured())
}
