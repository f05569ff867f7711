package speech

import (
	"context"
	"fmt"

	"github.com/readease/readease-api/pkg/logger"
)

// Recognizer transcribes audio bytes. Satisfied by the gcloud STT client.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte) (string, float64, error)
}

type STTService struct {
	rec    Recognizer
	logger logger.Logger
}

func NewSTTService(rec Recognizer, log logger.Logger) *STTService {
	return &STTService{
		rec:    rec,
		logger: log,
	}
}

// Transcribe converts speech audio to text with a confidence score.
func (s *STTService) Transcribe(ctx context.Context, audio []byte) (string, float64, error) {
	if len(audio) == 0 {
		return "", 0, fmt.Errorf("audio payload is empty")
	}

	text, confidence, err := s.rec.Recognize(ctx, audio)
	if err != nil {
		s.logger.Error("Speech recognition failed", logger.Error(err))
		return "", 0, fmt.Errorf("failed to convert speech to text: %w", err)
	}

	return text, confidence, nil
}
