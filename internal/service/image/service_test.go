package image

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readease/readease-api/pkg/logger"
)

type fakeEngine struct {
	calls      int
	text       string
	confidence float64
	err        error
}

func (f *fakeEngine) ExtractText(ctx context.Context, data []byte) (string, float64, error) {
	f.calls++
	return f.text, f.confidence, f.err
}

type fakeVision struct {
	calls  int
	prompt string
	out    string
	err    error
}

func (f *fakeVision) GenerateFromMedia(ctx context.Context, data []byte, mimeType, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.out, f.err
}

type fakeNarrator struct {
	calls int
	text  string
	url   string
	err   error
}

func (f *fakeNarrator) SynthesizeToURL(ctx context.Context, text, voice string, rate float64) (string, error) {
	f.calls++
	f.text = text
	return f.url, f.err
}

func TestExtractDefaultsToLocalOCR(t *testing.T) {
	local := &fakeEngine{text: "printed words", confidence: 0.87}
	cloud := &fakeEngine{text: "wrong engine"}
	svc := NewService(local, cloud, nil, nil, nil, logger.NewTestLogger())

	resp, err := svc.Extract(context.Background(), []byte("img"), "")
	require.NoError(t, err)

	assert.Equal(t, "printed words", resp.Text)
	assert.InDelta(t, 0.87, resp.Confidence, 0.001)
	assert.Equal(t, 1, local.calls)
	assert.Zero(t, cloud.calls)
}

func TestExtractCloudMethod(t *testing.T) {
	local := &fakeEngine{text: "wrong engine"}
	cloud := &fakeEngine{text: "cloud words", confidence: 0.95}
	svc := NewService(local, cloud, nil, nil, nil, logger.NewTestLogger())

	resp, err := svc.Extract(context.Background(), []byte("img"), MethodCloud)
	require.NoError(t, err)

	assert.Equal(t, "cloud words", resp.Text)
	assert.Equal(t, 1, cloud.calls)
	assert.Zero(t, local.calls)
}

func TestExtractCloudNotConfigured(t *testing.T) {
	svc := NewService(&fakeEngine{}, nil, nil, nil, nil, logger.NewTestLogger())

	_, err := svc.Extract(context.Background(), []byte("img"), MethodCloud)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestExtractUnknownMethod(t *testing.T) {
	svc := NewService(&fakeEngine{}, nil, nil, nil, nil, logger.NewTestLogger())

	_, err := svc.Extract(context.Background(), []byte("img"), Method("magic"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extraction method")
}

func TestExtractEmptyImage(t *testing.T) {
	svc := NewService(&fakeEngine{}, nil, nil, nil, nil, logger.NewTestLogger())

	_, err := svc.Extract(context.Background(), nil, MethodOCR)
	require.Error(t, err)
}

func TestAnalyzeUsesOCRGrounding(t *testing.T) {
	local := &fakeEngine{text: "menu: soup of the day", confidence: 0.8}
	vision := &fakeVision{out: "EXPLANATION: A restaurant menu.\nCONTEXT: Lunch specials.\nLAYOUT: Single column."}
	narrator := &fakeNarrator{url: "https://cdn.example/audio/x.mp3"}
	svc := NewService(local, nil, vision, narrator, nil, logger.NewTestLogger())

	resp, err := svc.Extract(context.Background(), []byte("img"), MethodAI)
	require.NoError(t, err)

	assert.Equal(t, "menu: soup of the day", resp.Text)
	assert.Equal(t, "A restaurant menu.", resp.Explanation)
	assert.Equal(t, "https://cdn.example/audio/x.mp3", resp.AudioURL)
	assert.Contains(t, vision.prompt, "menu: soup of the day")
	assert.Equal(t, "A restaurant menu.", narrator.text)
}

func TestAnalyzeSurvivesOCRFailure(t *testing.T) {
	local := &fakeEngine{err: errors.New("tesseract missing")}
	vision := &fakeVision{out: "EXPLANATION: A photo of a cat."}
	svc := NewService(local, nil, vision, nil, nil, logger.NewTestLogger())

	resp, err := svc.Extract(context.Background(), []byte("img"), MethodAI)
	require.NoError(t, err)

	assert.Empty(t, resp.Text)
	assert.Equal(t, "A photo of a cat.", resp.Explanation)
	assert.NotContains(t, vision.prompt, "OCR system extracted")
}

func TestAnalyzeVisionFailure(t *testing.T) {
	local := &fakeEngine{text: "x"}
	vision := &fakeVision{err: errors.New("model overloaded")}
	svc := NewService(local, nil, vision, nil, nil, logger.NewTestLogger())

	_, err := svc.Extract(context.Background(), []byte("img"), MethodAI)
	require.Error(t, err)
}

func TestParseAnalysis(t *testing.T) {
	explanation, extra, layout := parseAnalysis(
		"EXPLANATION: It shows a chart.\nCONTEXT: Quarterly sales.\nLAYOUT: Two columns.")
	assert.Equal(t, "It shows a chart.", explanation)
	assert.Equal(t, "Quarterly sales.", extra)
	assert.Equal(t, "Two columns.", layout)

	explanation, extra, layout = parseAnalysis("no labelled sections at all")
	assert.Equal(t, "No explanation provided.", explanation)
	assert.Equal(t, "No additional context provided.", extra)
	assert.Equal(t, "No layout information provided.", layout)

	explanation, _, _ = parseAnalysis("EXPLANATION: only this section")
	assert.Equal(t, "only this section", explanation)
}
