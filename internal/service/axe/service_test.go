package axe

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readease/readease-api/internal/models"
	"github.com/readease/readease-api/pkg/logger"
)

type fakeAuditor struct {
	violations []models.Violation
	err        error
}

func (f *fakeAuditor) Run(ctx context.Context, url string) ([]models.Violation, error) {
	return f.violations, f.err
}

type fakeTextGenerator struct {
	calls int64
	out   string
	err   error
}

func (f *fakeTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt64(&f.calls, 1)
	return f.out, f.err
}

func someViolation(id string) models.Violation {
	return models.Violation{
		ID:          id,
		Impact:      "serious",
		Description: "Images must have alternate text",
		Help:        "Provide an alt attribute",
		Nodes:       []models.ViolationNode{{HTML: "<img src=x>", Target: []string{"img"}}},
	}
}

func TestAuditWithSummary(t *testing.T) {
	auditor := &fakeAuditor{violations: []models.Violation{someViolation("image-alt")}}
	gen := &fakeTextGenerator{out: "One image is missing alternate text."}
	svc := NewService(auditor, gen, logger.NewTestLogger())

	resp, err := svc.Audit(context.Background(), "https://example.com", true)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", resp.URL)
	assert.Equal(t, 1, resp.TotalViolations)
	assert.Equal(t, "One image is missing alternate text.", resp.Summary)
	assert.EqualValues(t, 1, atomic.LoadInt64(&gen.calls))
}

func TestAuditWithoutSummary(t *testing.T) {
	auditor := &fakeAuditor{violations: []models.Violation{someViolation("image-alt")}}
	gen := &fakeTextGenerator{out: "should not run"}
	svc := NewService(auditor, gen, logger.NewTestLogger())

	resp, err := svc.Audit(context.Background(), "https://example.com", false)
	require.NoError(t, err)

	assert.Empty(t, resp.Summary)
	assert.Zero(t, atomic.LoadInt64(&gen.calls))
}

func TestAuditCleanPageSkipsModel(t *testing.T) {
	auditor := &fakeAuditor{}
	gen := &fakeTextGenerator{out: "should not run"}
	svc := NewService(auditor, gen, logger.NewTestLogger())

	resp, err := svc.Audit(context.Background(), "https://example.com", true)
	require.NoError(t, err)

	assert.Equal(t, noViolationsMessage, resp.Summary)
	assert.Equal(t, 0, resp.TotalViolations)
	assert.NotNil(t, resp.Violations)
	assert.Zero(t, atomic.LoadInt64(&gen.calls))
}

func TestAuditFailure(t *testing.T) {
	auditor := &fakeAuditor{err: errors.New("navigation timeout")}
	svc := NewService(auditor, &fakeTextGenerator{}, logger.NewTestLogger())

	_, err := svc.Audit(context.Background(), "https://unreachable.example", true)
	require.Error(t, err)
}

func TestSummarizeChunksLongViolationLists(t *testing.T) {
	violations := make([]models.Violation, 12)
	for i := range violations {
		violations[i] = someViolation("rule")
	}

	gen := &fakeTextGenerator{out: "chunk summary"}
	svc := NewService(&fakeAuditor{}, gen, logger.NewTestLogger())

	summary, err := svc.Summarize(context.Background(), violations)
	require.NoError(t, err)

	wantChunks := len(chunkViolations(violations, chunkSize))
	assert.Greater(t, wantChunks, 1)
	assert.EqualValues(t, wantChunks, atomic.LoadInt64(&gen.calls))
	assert.Equal(t, wantChunks, len(strings.Split(summary, "\n\n")))
}

func TestChunkViolations(t *testing.T) {
	v := someViolation("image-alt")
	block := formatViolation(v)

	// Everything fits in one chunk when under the limit.
	chunks := chunkViolations([]models.Violation{v}, 10*len(block))
	assert.Len(t, chunks, 1)

	// A limit smaller than one block still yields one chunk per block.
	chunks = chunkViolations([]models.Violation{v, v, v}, len(block)-1)
	assert.Len(t, chunks, 3)

	for _, chunk := range chunks {
		assert.Contains(t, chunk, "Violation ID: image-alt")
		assert.Contains(t, chunk, "Impact: serious")
		assert.Contains(t, chunk, "Affected Elements: 1")
	}
}

func TestFormatViolationDefaults(t *testing.T) {
	text := formatViolation(models.Violation{})
	assert.Contains(t, text, "Violation ID: unknown")
	assert.Contains(t, text, "Description: No description")
	assert.Contains(t, text, "Impact: unknown")
	assert.Contains(t, text, "Help: No help available")
	assert.Contains(t, text, "Affected Elements: 0")
}
