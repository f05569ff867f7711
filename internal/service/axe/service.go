// Package axe audits web pages for accessibility violations and can
// summarize the findings for non-technical readers.
package axe

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/readease/readease-api/internal/models"
	"github.com/readease/readease-api/pkg/logger"
)

// noViolationsMessage is returned without consulting the model.
const noViolationsMessage = "✅ No accessibility violations were found."

// chunkSize bounds the violation text handed to the model per request.
const chunkSize = 512

// maxParallelSummaries caps concurrent model calls per audit.
const maxParallelSummaries = 4

// Auditor produces the violations found on a page.
type Auditor interface {
	Run(ctx context.Context, url string) ([]models.Violation, error)
}

// TextGenerator answers a text prompt. Satisfied by the gemini client.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	auditor Auditor
	gen     TextGenerator
	logger  logger.Logger
}

func NewService(auditor Auditor, gen TextGenerator, log logger.Logger) *Service {
	return &Service{
		auditor: auditor,
		gen:     gen,
		logger:  log,
	}
}

// Audit checks the URL and optionally attaches a model-written summary
// of the violations.
func (s *Service) Audit(ctx context.Context, url string, summarize bool) (*models.AccessibilityResponse, error) {
	violations, err := s.auditor.Run(ctx, url)
	if err != nil {
		return nil, err
	}
	if violations == nil {
		violations = []models.Violation{}
	}

	resp := &models.AccessibilityResponse{
		URL:             url,
		Violations:      violations,
		TotalViolations: len(violations),
	}

	if summarize {
		summary, err := s.Summarize(ctx, violations)
		if err != nil {
			s.logger.Error("Failed to summarize violations", logger.Error(err))
			summary = fmt.Sprintf("Error generating summary: %s", err)
		}
		resp.Summary = summary
	}

	return resp, nil
}

// Summarize condenses the violation list. Long lists are split into
// chunks summarized in parallel and joined in order.
func (s *Service) Summarize(ctx context.Context, violations []models.Violation) (string, error) {
	if len(violations) == 0 {
		return noViolationsMessage, nil
	}

	chunks := chunkViolations(violations, chunkSize)
	summaries := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelSummaries)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			prompt := "Summarize the following web accessibility violations in plain language, " +
				"focusing on what is wrong and how severe it is:\n\n" + chunk
			summary, err := s.gen.GenerateText(gctx, prompt)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i+1, err)
			}
			summaries[i] = strings.TrimSpace(summary)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.Join(summaries, "\n\n"), nil
}

// chunkViolations renders each violation as a text block and packs the
// blocks into chunks no larger than limit. A single oversized block
// still forms its own chunk.
func chunkViolations(violations []models.Violation, limit int) []string {
	var (
		chunks  []string
		current strings.Builder
	)

	for _, v := range violations {
		text := formatViolation(v)
		if current.Len() > 0 && current.Len()+len(text) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(text)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func formatViolation(v models.Violation) string {
	id := v.ID
	if id == "" {
		id = "unknown"
	}
	description := v.Description
	if description == "" {
		description = "No description"
	}
	impact := v.Impact
	if impact == "" {
		impact = "unknown"
	}
	help := v.Help
	if help == "" {
		help = "No help available"
	}

	return fmt.Sprintf(
		"Violation ID: %s\nDescription: %s\nImpact: %s\nHelp: %s\nAffected Elements: %d\n\n",
		id, description, impact, help, len(v.Nodes),
	)
}
