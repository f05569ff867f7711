// Package pdfconv converts PDFs to markdown through a document OCR
// provider, and renders markdown back to PDF locally.
package pdfconv

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/readease/readease-api/internal/provider/mistral"
	"github.com/readease/readease-api/pkg/logger"
)

// OCRClient is the provider call for PDF OCR. Satisfied by the mistral
// client.
type OCRClient interface {
	ProcessPDF(ctx context.Context, filename string, data []byte) (*mistral.OCRResponse, error)
}

type Service struct {
	ocr    OCRClient
	logger logger.Logger
}

func NewService(ocr OCRClient, log logger.Logger) *Service {
	return &Service{
		ocr:    ocr,
		logger: log,
	}
}

// ToMarkdown OCRs a PDF and returns the merged markdown plus the page
// count read from the document itself.
func (s *Service) ToMarkdown(ctx context.Context, filename string, data []byte) (string, int, error) {
	if len(data) == 0 {
		return "", 0, fmt.Errorf("uploaded file is empty")
	}

	pages := s.pageCount(data)

	resp, err := s.ocr.ProcessPDF(ctx, filename, data)
	if err != nil {
		return "", 0, fmt.Errorf("failed to convert pdf to markdown: %w", err)
	}

	s.logger.Info("PDF OCR completed",
		logger.String("filename", filename),
		logger.Int("ocrPages", len(resp.Pages)),
	)

	return combineMarkdown(resp), pages, nil
}

// pageCount inspects the PDF locally; OCR page totals can differ when the
// provider skips blank pages.
func (s *Service) pageCount(data []byte) int {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		s.logger.Warn("Failed to read pdf metadata", logger.Error(err))
		return 0
	}
	return pdfReader.NumPage()
}

// combineMarkdown merges per-page markdown into one document, re-inlining
// extracted images as data URIs.
func combineMarkdown(resp *mistral.OCRResponse) string {
	sections := make([]string, 0, len(resp.Pages))
	for _, page := range resp.Pages {
		md := page.Markdown
		for _, img := range page.Images {
			md = strings.ReplaceAll(md,
				fmt.Sprintf("![%s](%s)", img.ID, img.ID),
				fmt.Sprintf("![%s](data:image/png;base64,%s)", img.ID, img.ImageBase64),
			)
		}
		sections = append(sections, md)
	}
	return strings.Join(sections, "\n\n")
}
