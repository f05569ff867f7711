// Package speech holds the text-to-speech and speech-to-text adapters.
package speech

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/readease/readease-api/pkg/logger"
	"github.com/readease/readease-api/pkg/storage"
)

// Synthesizer renders text to audio bytes. Satisfied by the gcloud TTS
// client.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string, rate float64) ([]byte, error)
}

type TTSService struct {
	synth   Synthesizer
	storage storage.Storage
	logger  logger.Logger
}

func NewTTSService(synth Synthesizer, store storage.Storage, log logger.Logger) *TTSService {
	return &TTSService{
		synth:   synth,
		storage: store,
		logger:  log,
	}
}

// Synthesize converts text to MP3 audio bytes.
func (s *TTSService) Synthesize(ctx context.Context, text, voice string, rate float64) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text is empty")
	}
	if rate == 0 {
		rate = 1.0
	}

	audio, err := s.synth.Synthesize(ctx, text, voice, rate)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	return audio, nil
}

// SynthesizeToURL converts text to speech, stores the audio artifact and
// returns a shareable URL. Artifact names are random, so repeated calls
// with identical input mint distinct URLs.
func (s *TTSService) SynthesizeToURL(ctx context.Context, text, voice string, rate float64) (string, error) {
	audio, err := s.Synthesize(ctx, text, voice, rate)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("audio/%s.mp3", uuid.New().String())
	if _, err := s.storage.Store(ctx, bytes.NewReader(audio), key, "audio/mpeg"); err != nil {
		return "", fmt.Errorf("failed to store audio: %w", err)
	}

	url, err := s.storage.PublicURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to build audio url: %w", err)
	}

	s.logger.Info("Synthesized speech stored",
		logger.String("key", key),
		logger.Int("bytes", len(audio)),
	)

	return url, nil
}
