package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/readease/readease-api/api/handlers"
	"github.com/readease/readease-api/api/middleware"
)

// SetupRoutes registers the full HTTP surface.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, corsOrigins []string) {
	r.Use(middleware.CORS(corsOrigins))

	r.GET("/", h.Welcome)

	api := r.Group("/api")
	{
		api.POST("/image-to-text", h.Image.Convert)
		api.POST("/text-to-speech", h.Speech.TextToSpeech)
		api.POST("/speech-to-text", h.Speech.SpeechToText)
		api.POST("/pdf-to-markdown", h.PDF.ToMarkdown)
		api.POST("/markdown-to-pdf", h.PDF.FromMarkdown)
		api.POST("/spell-correct", h.Spell.Correct)

		// Background media jobs. The :processType parameter also accepts
		// the legacy "transcribe" alias.
		process := api.Group("/process")
		{
			process.POST("/:processType", h.Process.Submit)
			process.GET("/:taskId", h.Process.Status)
		}

		accessibility := api.Group("/web-accessibility")
		{
			accessibility.POST("/check-accessibility", h.Accessibility.Check)
		}
	}
}
