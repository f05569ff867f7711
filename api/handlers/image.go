package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readease/readease-api/internal/models"
	imagesvc "github.com/readease/readease-api/internal/service/image"
	"github.com/readease/readease-api/internal/utils/validator"
	"github.com/readease/readease-api/pkg/logger"
)

// ImageExtractor extracts text from an image with the chosen method.
type ImageExtractor interface {
	Extract(ctx context.Context, data []byte, method imagesvc.Method) (*models.ImageToTextResponse, error)
}

type ImageHandler struct {
	service   ImageExtractor
	validator *validator.UploadValidator
	logger    logger.Logger
}

func NewImageHandler(service ImageExtractor, log logger.Logger) *ImageHandler {
	return &ImageHandler{
		service:   service,
		validator: validator.NewUploadValidator(log, validator.ImageConfig()),
		logger:    log,
	}
}

// Convert handles POST /api/image-to-text.
func (h *ImageHandler) Convert(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	if _, err := h.validator.Validate(header); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "File validation failed", err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Failed to read file", err)
		return
	}

	method := imagesvc.Method(c.DefaultPostForm("method", string(imagesvc.MethodOCR)))
	switch method {
	case imagesvc.MethodOCR, imagesvc.MethodCloud, imagesvc.MethodAI:
	default:
		handleError(c, h.logger, http.StatusBadRequest, "Unknown extraction method", nil)
		return
	}

	result, err := h.service.Extract(c.Request.Context(), data, method)
	if err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to extract text from image", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
