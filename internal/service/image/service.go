// Package image extracts text from uploaded images. Three methods are
// offered: local tesseract OCR, AWS Textract, and a vision-model
// analysis that adds an explanation plus hosted image and audio URLs.
package image

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/readease/readease-api/internal/models"
	"github.com/readease/readease-api/pkg/logger"
	"github.com/readease/readease-api/pkg/storage"
)

// Method selects the extraction backend.
type Method string

const (
	MethodOCR   Method = "ocr"
	MethodCloud Method = "cloud"
	MethodAI    Method = "ai"
)

// Engine extracts text from raw image bytes.
type Engine interface {
	ExtractText(ctx context.Context, data []byte) (string, float64, error)
}

// VisionAnalyzer answers a prompt about an image. Satisfied by the
// gemini client.
type VisionAnalyzer interface {
	GenerateFromMedia(ctx context.Context, data []byte, mimeType, prompt string) (string, error)
}

// SpeechSynthesizer turns text into a hosted audio URL.
type SpeechSynthesizer interface {
	SynthesizeToURL(ctx context.Context, text, voice string, rate float64) (string, error)
}

type Service struct {
	local   Engine
	cloud   Engine
	vision  VisionAnalyzer
	speech  SpeechSynthesizer
	storage storage.Storage
	logger  logger.Logger
}

func NewService(local, cloud Engine, vision VisionAnalyzer, speech SpeechSynthesizer, store storage.Storage, log logger.Logger) *Service {
	return &Service{
		local:   local,
		cloud:   cloud,
		vision:  vision,
		speech:  speech,
		storage: store,
		logger:  log,
	}
}

// Extract runs the requested method over the image. An empty method
// defaults to local OCR.
func (s *Service) Extract(ctx context.Context, data []byte, method Method) (*models.ImageToTextResponse, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image is empty")
	}
	if method == "" {
		method = MethodOCR
	}

	switch method {
	case MethodOCR:
		return s.extractWith(ctx, s.local, data)
	case MethodCloud:
		if s.cloud == nil {
			return nil, fmt.Errorf("cloud OCR is not configured")
		}
		return s.extractWith(ctx, s.cloud, data)
	case MethodAI:
		return s.analyze(ctx, data)
	default:
		return nil, fmt.Errorf("unknown extraction method: %s", method)
	}
}

func (s *Service) extractWith(ctx context.Context, engine Engine, data []byte) (*models.ImageToTextResponse, error) {
	text, confidence, err := engine.ExtractText(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}
	return &models.ImageToTextResponse{
		Text:       text,
		Confidence: confidence,
	}, nil
}

const analysisPromptFmt = `%sPlease analyze this image and provide the following:
1. A brief explanation of what the image shows
2. Any additional context that might be relevant
3. Any formatting or layout observations

Format your response like this:
EXPLANATION: [your explanation]
CONTEXT: [additional context]
LAYOUT: [layout observations]`

// analyze hosts the image, OCRs it locally for grounding, then asks
// the vision model for an explanation and speaks it aloud. OCR, hosting
// and narration failures degrade the response instead of failing it.
func (s *Service) analyze(ctx context.Context, data []byte) (*models.ImageToTextResponse, error) {
	imageURL := s.hostImage(ctx, data)

	ocrText, confidence, err := s.local.ExtractText(ctx, data)
	if err != nil {
		s.logger.Warn("Local OCR failed during analysis", logger.Error(err))
		ocrText, confidence = "", 0.9
	}

	grounding := ""
	if ocrText != "" {
		grounding = fmt.Sprintf("The OCR system extracted the following text:\n%s\n\n", ocrText)
	}

	response, err := s.vision.GenerateFromMedia(ctx, data, "image/jpeg", fmt.Sprintf(analysisPromptFmt, grounding))
	if err != nil {
		return nil, fmt.Errorf("failed to analyze image: %w", err)
	}

	explanation, _, _ := parseAnalysis(response)

	audioURL := ""
	if s.speech != nil && explanation != "" {
		audioURL, err = s.speech.SynthesizeToURL(ctx, explanation, "", 1.0)
		if err != nil {
			s.logger.Warn("Failed to narrate explanation", logger.Error(err))
			audioURL = ""
		}
	}

	return &models.ImageToTextResponse{
		Text:        ocrText,
		Confidence:  confidence,
		Explanation: explanation,
		ImageURL:    imageURL,
		AudioURL:    audioURL,
	}, nil
}

func (s *Service) hostImage(ctx context.Context, data []byte) string {
	if s.storage == nil {
		return ""
	}
	key := fmt.Sprintf("images/%s.jpg", uuid.New().String())
	if _, err := s.storage.Store(ctx, bytes.NewReader(data), key, "image/jpeg"); err != nil {
		s.logger.Warn("Failed to host image", logger.Error(err))
		return ""
	}
	url, err := s.storage.PublicURL(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to build image url", logger.Error(err))
		return ""
	}
	return url
}

// parseAnalysis splits the model response into its labelled sections.
// Missing sections fall back to fixed placeholders.
func parseAnalysis(response string) (explanation, extra, layout string) {
	explanation = "No explanation provided."
	extra = "No additional context provided."
	layout = "No layout information provided."

	if idx := strings.Index(response, "EXPLANATION:"); idx >= 0 {
		part := response[idx+len("EXPLANATION:"):]
		if end := strings.Index(part, "CONTEXT:"); end >= 0 {
			part = part[:end]
		}
		explanation = strings.TrimSpace(part)
	}
	if idx := strings.Index(response, "CONTEXT:"); idx >= 0 {
		part := response[idx+len("CONTEXT:"):]
		if end := strings.Index(part, "LAYOUT:"); end >= 0 {
			part = part[:end]
		}
		extra = strings.TrimSpace(part)
	}
	if idx := strings.Index(response, "LAYOUT:"); idx >= 0 {
		layout = strings.TrimSpace(response[idx+len("LAYOUT:"):])
	}
	return explanation, extra, layout
}
