package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readease/readease-api/internal/models"
	"github.com/readease/readease-api/pkg/logger"
)

// AccessibilityChecker audits a page and optionally summarizes what it
// found.
type AccessibilityChecker interface {
	Audit(ctx context.Context, url string, summarize bool) (*models.AccessibilityResponse, error)
}

type AccessibilityHandler struct {
	service AccessibilityChecker
	logger  logger.Logger
}

func NewAccessibilityHandler(service AccessibilityChecker, log logger.Logger) *AccessibilityHandler {
	return &AccessibilityHandler{
		service: service,
		logger:  log,
	}
}

// Check handles POST /api/web-accessibility/check-accessibility.
func (h *AccessibilityHandler) Check(c *gin.Context) {
	var req models.AccessibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	summarize := true
	if req.Summarize != nil {
		summarize = *req.Summarize
	}

	result, err := h.service.Audit(c.Request.Context(), req.URL, summarize)
	if err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Failed to generate accessibility report", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
