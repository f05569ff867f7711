// Package handlers holds the gin HTTP handlers. Each handler depends on
// a narrow service interface so tests can substitute fakes.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readease/readease-api/pkg/logger"
)

// ErrorResponse is the error envelope for every endpoint.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

type Handlers struct {
	Image         *ImageHandler
	Speech        *SpeechHandler
	PDF           *PDFHandler
	Spell         *SpellHandler
	Process       *ProcessHandler
	Accessibility *AccessibilityHandler

	logger logger.Logger
}

type Deps struct {
	Image         ImageExtractor
	Synthesizer   SpeechSynthesizer
	Recognizer    SpeechRecognizer
	PDF           PDFConverter
	Spell         SpellCorrector
	Accessibility AccessibilityChecker
	Process       ProcessDeps
	Logger        logger.Logger
}

func NewHandlers(d Deps) *Handlers {
	return &Handlers{
		Image:         NewImageHandler(d.Image, d.Logger),
		Speech:        NewSpeechHandler(d.Synthesizer, d.Recognizer, d.Logger),
		PDF:           NewPDFHandler(d.PDF, d.Logger),
		Spell:         NewSpellHandler(d.Spell, d.Logger),
		Process:       NewProcessHandler(d.Process, d.Logger),
		Accessibility: NewAccessibilityHandler(d.Accessibility, d.Logger),
		logger:        d.Logger,
	}
}

// Welcome answers the root probe.
func (h *Handlers) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "ReadEase API",
		"version": "1.0.0",
		"message": "Accessibility media conversion service",
	})
}

func handleError(c *gin.Context, log logger.Logger, status int, message string, err error) {
	log.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	response := ErrorResponse{Message: message}
	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(status, response)
}
