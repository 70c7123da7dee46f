package httpserver

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sfmc-labs/ai-email-activity/internal/config"
	"github.com/sfmc-labs/ai-email-activity/internal/handlers"
	"github.com/sfmc-labs/ai-email-activity/internal/metrics"
)

// contentSecurityPolicy mirrors the directives the hosted wizard needs: the
// Postmonger CDN for scripts, the generative-language and Marketing Cloud
// hosts for outbound calls, inline styles for the wizard markup.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' https://cdn.jsdelivr.net; " +
	"connect-src 'self' https://generativelanguage.googleapis.com *.salesforce.com *.marketingcloudapis.com; " +
	"img-src 'self' data:; " +
	"style-src 'self' 'unsafe-inline'; " +
	// Journey Builder embeds the wizard in an iframe from its own origin.
	"frame-ancestors 'self' https://*.exacttarget.com https://*.marketingcloudapps.com"

// NewRouter wires the lifecycle endpoints, platform endpoints and the static
// wizard UI. Unhandled panics are recovered and normalized to a generic
// internal-failure response so no exception ever escapes to the transport.
func NewRouter(cfg config.Config, exec handlers.Executor, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "internal error",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}))
	r.Use(requestLogger(logger))
	r.Use(securityHeaders())
	r.Use(cors.Default())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	lifecycle := r.Group("/")
	lifecycle.Use(metrics.Instrument("lifecycle"))
	handlers.RegisterLifecycleRoutes(lifecycle, exec, logger)
	handlers.RegisterPlatformRoutes(lifecycle, cfg)

	// Wizard UI. Journey Builder loads index.html in the config modal iframe.
	r.StaticFile("/", filepath.Join(cfg.App.StaticDir, "index.html"))
	r.Static("/js", filepath.Join(cfg.App.StaticDir, "js"))
	r.Static("/css", filepath.Join(cfg.App.StaticDir, "css"))
	r.Static("/images", filepath.Join(cfg.App.StaticDir, "images"))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
	})

	return r
}

// securityHeaders applies the strict CSP plus the usual hardening headers.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		h.Set("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}

// requestLogger emits one access log per request with a generated request ID.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()
		c.Set("request_id", requestID)

		c.Next()

		logger.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	}
}
