package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sfmc-labs/ai-email-activity/internal/metrics"
	"github.com/sfmc-labs/ai-email-activity/internal/models"
)

// Executor runs one contact execution. Satisfied by activity.Orchestrator.
type Executor interface {
	Execute(ctx context.Context, req models.ExecutionRequest) models.Outcome
}

// RegisterLifecycleRoutes registers the Journey Builder lifecycle surface.
//
// POST /execute  — run one contact execution
// POST /save     — acknowledge configuration save
// POST /validate — structural verdict on the activity payload
// POST /publish  — acknowledge journey activation
// POST /stop     — acknowledge journey stop
func RegisterLifecycleRoutes(r gin.IRoutes, exec Executor, logger zerolog.Logger) {
	r.POST("/execute", func(c *gin.Context) {
		var payload models.ExecutePayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON payload"})
			return
		}

		req, err := models.ParseExecutionRequest(payload)
		if err != nil {
			if errors.Is(err, models.ErrValidation) {
				metrics.RecordExecution(false, false, false)
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to parse execution request"})
			return
		}

		outcome := exec.Execute(c.Request.Context(), req)
		metrics.RecordExecution(outcome.Success, outcome.ContentGenerated, outcome.Simulated)

		if !outcome.Success {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": outcome.Error})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "result": outcome})
	})

	r.POST("/save", func(c *gin.Context) {
		var payload models.ActivityPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			logger.Warn().Err(err).Msg("save called with unreadable payload")
		} else if !payload.HasArguments() {
			logger.Debug().Msg("save called without inArguments")
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	r.POST("/validate", func(c *gin.Context) {
		var payload models.ActivityPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "invalid JSON payload"})
			return
		}
		if !payload.HasArguments() {
			c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "arguments.execute.inArguments is required"})
			return
		}

		issues := map[string]string{}
		fields := payload.Flatten()
		for _, key := range []string{"ContactKey", "Mail"} {
			if s, ok := fields[key].(string); !ok || s == "" {
				issues[key] = "required binding is missing"
			}
		}

		c.JSON(http.StatusOK, gin.H{"valid": len(issues) == 0, "issues": issues})
	})

	r.POST("/publish", func(c *gin.Context) {
		logger.Info().Msg("activity published")
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	r.POST("/stop", func(c *gin.Context) {
		logger.Info().Msg("activity stopped")
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}
