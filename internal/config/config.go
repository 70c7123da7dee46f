package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration required by the service.
type Config struct {
	App    AppConfig
	Gemini GeminiConfig
	SFMC   SFMCConfig
	DBURL  string // optional; enables the Postgres audit store when set
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env       string
	Port      int
	LogLevel  string
	StaticDir string
}

// GeminiConfig holds the generative-language API settings.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// SFMCConfig holds Marketing Cloud credentials and send definition keys.
type SFMCConfig struct {
	ClientID         string
	ClientSecret     string
	Subdomain        string
	AccountID        string
	TriggeredSendKey string
	DefinitionKey    string
	DataExtensionKey string
	FromAddress      string
	FromName         string
}

// Configured reports whether the API credentials needed for real SFMC calls
// are present. Missing credentials keep the service in simulation mode.
func (c SFMCConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.Subdomain != ""
}

// Load reads environment variables (after an optional .env file), applies
// defaults and validates required values.
func Load() (Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.Port = ldr.getInt("PORT", 3000, false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)
	cfg.App.StaticDir = ldr.getString("STATIC_DIR", "public", false)

	cfg.Gemini.APIKey = ldr.getString("GEMINI_API_KEY", "", false)
	cfg.Gemini.Model = ldr.getString("GEMINI_MODEL", "gemini-pro", false)

	cfg.SFMC.ClientID = ldr.getString("SFMC_CLIENT_ID", "", false)
	cfg.SFMC.ClientSecret = ldr.getString("SFMC_CLIENT_SECRET", "", false)
	cfg.SFMC.Subdomain = ldr.getString("SFMC_SUBDOMAIN", "", false)
	cfg.SFMC.AccountID = ldr.getString("SFMC_ACCOUNT_ID", "", false)
	cfg.SFMC.TriggeredSendKey = ldr.getString("SFMC_TRIGGERED_SEND_KEY", "gemini-triggered-email", false)
	cfg.SFMC.DefinitionKey = ldr.getString("SFMC_DEFINITION_KEY", "gemini-email-definition", false)
	cfg.SFMC.DataExtensionKey = ldr.getString("SFMC_DATA_EXTENSION_KEY", "TestCustomActivity", false)
	cfg.SFMC.FromAddress = ldr.getString("SFMC_FROM_ADDRESS", "noreply@company.com", false)
	cfg.SFMC.FromName = ldr.getString("SFMC_FROM_NAME", "Tu Empresa", false)

	cfg.DBURL = ldr.getString("DB_URL", "", false)

	if err := ldr.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string, required bool) string {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val != "" {
			return val
		}
	}
	if required {
		l.errs = append(l.errs, fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	raw := l.getString(key, "", required)
	if raw == "" {
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		l.errs = append(l.errs, fmt.Sprintf("%s must be a valid integer", key))
		return def
	}
	return i
}
