package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sfmc-labs/ai-email-activity/internal/config"
)

// RegisterPlatformRoutes registers the non-lifecycle surface: liveness plus
// the Journey Builder activity descriptor.
func RegisterPlatformRoutes(r gin.IRoutes, cfg config.Config) {
	// Liveness plus configured-credential flags so operators can tell real
	// mode from simulation mode at a glance.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":            "ok",
			"geminiConfigured":  cfg.Gemini.APIKey != "",
			"sfmcConfigured":    cfg.SFMC.Configured(),
			"auditDbConfigured": cfg.DBURL != "",
		})
	})

	r.GET("/config.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, descriptor())
	})
}

// descriptor is the activity manifest Journey Builder fetches when the
// custom activity is dragged onto a journey canvas. URLs are relative to the
// endpoint the activity is registered under.
func descriptor() gin.H {
	return gin.H{
		"workflowApiVersion": "1.1",
		"metaData": gin.H{
			"icon":     "images/icon.svg",
			"category": "message",
		},
		"type": "REST",
		"lang": gin.H{
			"es-ES": gin.H{
				"name":        "Email personalizado con IA",
				"description": "Genera y envía un email personalizado por contacto",
			},
		},
		"arguments": gin.H{
			"execute": gin.H{
				"inArguments": []gin.H{{
					"ContactKey":       "{{Contact.Key}}",
					"Mail":             "{{InteractionDefaults.Email}}",
					"FirstName":        "{{Contact.Attribute.TestCustomActivity.FirstName}}",
					"City":             "{{Contact.Attribute.TestCustomActivity.City}}",
					"InterestCategory": "{{Contact.Attribute.TestCustomActivity.InterestCategory}}",
				}},
				"outArguments":       []gin.H{},
				"url":                "execute",
				"verb":               "POST",
				"timeout":            90000,
				"retryCount":         0,
				"useJwt":             false,
				"concurrentRequests": 5,
			},
		},
		"configurationArguments": gin.H{
			"save":     gin.H{"url": "save", "verb": "POST"},
			"validate": gin.H{"url": "validate", "verb": "POST"},
			"publish":  gin.H{"url": "publish", "verb": "POST"},
			"stop":     gin.H{"url": "stop", "verb": "POST"},
		},
		"userInterfaces": gin.H{
			"configModal": gin.H{
				"height":     400,
				"width":      600,
				"fullscreen": false,
			},
		},
		"schema": gin.H{
			"arguments": gin.H{
				"execute": gin.H{
					"inArguments":  []gin.H{},
					"outArguments": []gin.H{},
				},
			},
		},
	}
}
