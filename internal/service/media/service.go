// Package media processes audio and video files through a multimodal
// generative model: transcription, translation and summarization.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/readease/readease-api/internal/models"
	"github.com/readease/readease-api/pkg/logger"
)

// MediaGenerator runs a prompt over inline media. Satisfied by the
// gemini client.
type MediaGenerator interface {
	GenerateFromMedia(ctx context.Context, data []byte, mimeType, prompt string) (string, error)
}

// Media types the provider accepts for inline processing.
var supportedMimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".flv":  "video/x-flv",
	".m4v":  "video/x-m4v",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
}

type Service struct {
	gen    MediaGenerator
	logger logger.Logger
}

func NewService(gen MediaGenerator, log logger.Logger) *Service {
	return &Service{
		gen:    gen,
		logger: log,
	}
}

// Transcribe produces a full transcript of the spoken content.
// modelSize is recorded for API compatibility but does not change the
// provider call.
func (s *Service) Transcribe(ctx context.Context, filePath, modelSize string, opts models.ProcessOptions) (map[string]interface{}, error) {
	text, err := s.run(ctx, filePath, transcriptionPrompt())
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"transcript": strings.TrimSpace(text),
		"language":   optString(opts, "language", "auto-detected"),
		"model_size": modelSize,
	}, nil
}

// Translate produces a translation of the spoken content into the
// target_language option (default English).
func (s *Service) Translate(ctx context.Context, filePath, modelSize string, opts models.ProcessOptions) (map[string]interface{}, error) {
	targetLanguage := optString(opts, "target_language", "English")

	text, err := s.run(ctx, filePath, translationPrompt(targetLanguage))
	if err != nil {
		return nil, err
	}

	translation := strings.TrimSpace(text)
	return map[string]interface{}{
		"transcript":      translation,
		"translation":     translation,
		"target_language": targetLanguage,
		"model_size":      modelSize,
	}, nil
}

// Summarize produces both a transcript and a summary in one provider
// call, then splits the response into its sections.
func (s *Service) Summarize(ctx context.Context, filePath, modelSize string, opts models.ProcessOptions) (map[string]interface{}, error) {
	summaryType := optString(opts, "summary_type", "general")

	text, err := s.run(ctx, filePath, summarizationPrompt(summaryType, opts))
	if err != nil {
		return nil, err
	}

	transcript, summary := splitTranscriptAndSummary(text)
	return map[string]interface{}{
		"transcript":   transcript,
		"summary":      summary,
		"summary_type": summaryType,
		"language":     "auto-detected",
		"model_size":   modelSize,
	}, nil
}

func (s *Service) run(ctx context.Context, filePath, prompt string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	mimeType, ok := supportedMimeTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file format %q; supported formats: %s", ext, supportedExtensions())
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read media file: %w", err)
	}

	s.logger.Info("Sending media to provider",
		logger.String("filePath", filePath),
		logger.String("mimeType", mimeType),
		logger.Int("bytes", len(data)),
	)

	text, err := s.gen.GenerateFromMedia(ctx, data, mimeType, prompt)
	if err != nil {
		return "", fmt.Errorf("media processing failed: %w", err)
	}

	return text, nil
}

func supportedExtensions() string {
	exts := make([]string, 0, len(supportedMimeTypes))
	for ext := range supportedMimeTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

func optString(opts models.ProcessOptions, key, fallback string) string {
	if opts == nil {
		return fallback
	}
	if v, ok := opts[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
