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

// SpeechSynthesizer renders text to audio, either raw bytes or a hosted
// artifact URL.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string, rate float64) ([]byte, error)
	SynthesizeToURL(ctx context.Context, text, voice string, rate float64) (string, error)
}

// SpeechRecognizer transcribes audio bytes.
type SpeechRecognizer interface {
	Transcribe(ctx context.Context, audio []byte) (string, float64, error)
}

type SpeechHandler struct {
	synth     SpeechSynthesizer
	rec       SpeechRecognizer
	validator *validator.UploadValidator
	logger    logger.Logger
}

func NewSpeechHandler(synth SpeechSynthesizer, rec SpeechRecognizer, log logger.Logger) *SpeechHandler {
	return &SpeechHandler{
		synth:     synth,
		rec:       rec,
		validator: validator.NewUploadValidator(log, validator.AudioConfig()),
		logger:    log,
	}
}

// TextToSpeech handles POST /api/text-to-speech. The response is raw
// audio/mpeg unless upload is requested, in which case the audio is
// stored and its URL returned.
func (h *SpeechHandler) TextToSpeech(c *gin.Context) {
	var req models.TextToSpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Upload {
		url, err := h.synth.SynthesizeToURL(c.Request.Context(), req.Text, req.Voice, req.Rate)
		if err != nil {
			handleError(c, h.logger, http.StatusInternalServerError, "Failed to synthesize speech", err)
			return
		}
		c.JSON(http.StatusOK, models.TextToSpeechResponse{AudioURL: url})
		return
	}

	audio, err := h.synth.Synthesize(c.Request.Context(), req.Text, req.Voice, req.Rate)
	if err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to synthesize speech", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="speech.mp3"`)
	c.Data(http.StatusOK, "audio/mpeg", audio)
}

// SpeechToText handles POST /api/speech-to-text.
func (h *SpeechHandler) SpeechToText(c *gin.Context) {
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

	audio, err := io.ReadAll(file)
	if err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Failed to read file", err)
		return
	}

	text, confidence, err := h.rec.Transcribe(c.Request.Context(), audio)
	if err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to transcribe audio", err)
		return
	}

	c.JSON(http.StatusOK, models.SpeechToTextResponse{
		Text:       text,
		Confidence: confidence,
	})
}
