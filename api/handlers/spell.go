package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readease/readease-api/internal/models"
	"github.com/readease/readease-api/pkg/logger"
)

// SpellCorrector fixes spelling and grammar while preserving meaning.
type SpellCorrector interface {
	Correct(ctx context.Context, text string) (string, error)
}

type SpellHandler struct {
	service SpellCorrector
	logger  logger.Logger
}

func NewSpellHandler(service SpellCorrector, log logger.Logger) *SpellHandler {
	return &SpellHandler{
		service: service,
		logger:  log,
	}
}

// Correct handles POST /api/spell-correct.
func (h *SpellHandler) Correct(c *gin.Context) {
	var req models.SpellCorrectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	corrected, err := h.service.Correct(c.Request.Context(), req.Text)
	if err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to correct text", err)
		return
	}

	c.JSON(http.StatusOK, models.SpellCorrectResponse{
		CorrectedText: corrected,
		OriginalText:  req.Text,
	})
}
