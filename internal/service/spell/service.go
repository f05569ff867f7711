// Package spell corrects spelling and grammar through a generative
// language model while preserving the author's meaning and tone.
package spell

import (
	"context"
	"fmt"
	"strings"

	"github.com/readease/readease-api/pkg/logger"
)

// TextGenerator is the provider call used for correction. Satisfied by
// the gemini client.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	gen    TextGenerator
	logger logger.Logger
}

func NewService(gen TextGenerator, log logger.Logger) *Service {
	return &Service{
		gen:    gen,
		logger: log,
	}
}

// Correct fixes spelling and grammatical errors only. Empty or
// whitespace-only input is returned unchanged without a provider call.
func (s *Service) Correct(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	out, err := s.gen.GenerateText(ctx, correctionPrompt(text))
	if err != nil {
		s.logger.Error("Spell correction failed", logger.Error(err))
		return "", fmt.Errorf("spell correction failed: %w", err)
	}

	return strings.TrimSpace(out), nil
}

func correctionPrompt(text string) string {
	return fmt.Sprintf(`Please correct ONLY spelling and grammatical errors in the following text.
Do not change the meaning, style, tone, vocabulary level, or any other aspects of the text.
Do not add or remove information.
Do not rewrite sentences for clarity or any other reason unless they contain grammatical errors.
Only fix objective spelling mistakes and grammatical errors.
The end-user is dyslexic and needs the text to be corrected without changing the meaning, style, tone, or vocabulary level.

Here is the text to correct:

%s

Return ONLY the corrected text with no explanations, comments, or other additions.`, text)
}
