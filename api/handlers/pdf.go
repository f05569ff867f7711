package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readease/readease-api/internal/models"
	"github.com/readease/readease-api/internal/utils/validator"
	"github.com/readease/readease-api/pkg/logger"
)

// PDFConverter converts between PDF documents and markdown.
type PDFConverter interface {
	ToMarkdown(ctx context.Context, filename string, data []byte) (string, int, error)
	FromMarkdown(markdown string) ([]byte, error)
}

type PDFHandler struct {
	service   PDFConverter
	validator *validator.UploadValidator
	logger    logger.Logger
}

func NewPDFHandler(service PDFConverter, log logger.Logger) *PDFHandler {
	return &PDFHandler{
		service:   service,
		validator: validator.NewUploadValidator(log, validator.PDFConfig()),
		logger:    log,
	}
}

// ToMarkdown handles POST /api/pdf-to-markdown.
func (h *PDFHandler) ToMarkdown(c *gin.Context) {
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
	if len(data) == 0 {
		handleError(c, h.logger, http.StatusBadRequest, "Uploaded file is empty", nil)
		return
	}

	markdown, pages, err := h.service.ToMarkdown(c.Request.Context(), header.Filename, data)
	if err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to convert PDF", err)
		return
	}

	c.JSON(http.StatusOK, models.PdfToMarkdownResponse{
		Markdown: markdown,
		Pages:    pages,
	})
}

// FromMarkdown handles POST /api/markdown-to-pdf and streams the
// rendered document back.
func (h *PDFHandler) FromMarkdown(c *gin.Context) {
	var req models.MarkdownToPdfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	pdf, err := h.service.FromMarkdown(req.Markdown)
	if err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to render PDF", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="document.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
