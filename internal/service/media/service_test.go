package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readease/readease-api/pkg/logger"
)

type fakeMediaGenerator struct {
	calls    int
	mimeType string
	prompt   string
	out      string
	err      error
}

func (f *fakeMediaGenerator) GenerateFromMedia(ctx context.Context, data []byte, mimeType, prompt string) (string, error) {
	f.calls++
	f.mimeType = mimeType
	f.prompt = prompt
	return f.out, f.err
}

func writeMediaFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fake media bytes"), 0o644))
	return path
}

func TestTranscribe(t *testing.T) {
	gen := &fakeMediaGenerator{out: "  Hello world.  "}
	svc := NewService(gen, logger.NewTestLogger())

	result, err := svc.Transcribe(context.Background(), writeMediaFile(t, "clip.mp4"), "base", nil)
	require.NoError(t, err)

	assert.Equal(t, "Hello world.", result["transcript"])
	assert.Equal(t, "auto-detected", result["language"])
	assert.Equal(t, "base", result["model_size"])
	assert.Equal(t, "video/mp4", gen.mimeType)
	assert.Contains(t, gen.prompt, "transcription")
}

func TestTranslateDefaultsToEnglish(t *testing.T) {
	gen := &fakeMediaGenerator{out: "Hola"}
	svc := NewService(gen, logger.NewTestLogger())

	result, err := svc.Translate(context.Background(), writeMediaFile(t, "clip.mp3"), "base", nil)
	require.NoError(t, err)

	assert.Equal(t, "English", result["target_language"])
	assert.Equal(t, "Hola", result["translation"])
	assert.Equal(t, "Hola", result["transcript"])
	assert.Equal(t, "audio/mpeg", gen.mimeType)
}

func TestTranslateTargetLanguageOption(t *testing.T) {
	gen := &fakeMediaGenerator{out: "Bonjour"}
	svc := NewService(gen, logger.NewTestLogger())

	result, err := svc.Translate(context.Background(), writeMediaFile(t, "clip.wav"), "base",
		map[string]interface{}{"target_language": "French"})
	require.NoError(t, err)

	assert.Equal(t, "French", result["target_language"])
	assert.Contains(t, gen.prompt, "to French")
}

func TestSummarizeSplitsSections(t *testing.T) {
	gen := &fakeMediaGenerator{out: "TRANSCRIPTION:\nfull text\n\nSUMMARY:\nshort text"}
	svc := NewService(gen, logger.NewTestLogger())

	result, err := svc.Summarize(context.Background(), writeMediaFile(t, "talk.webm"), "base",
		map[string]interface{}{"summary_type": "bullet_points"})
	require.NoError(t, err)

	assert.Equal(t, "full text", result["transcript"])
	assert.Equal(t, "short text", result["summary"])
	assert.Equal(t, "bullet_points", result["summary_type"])
}

func TestUnsupportedExtensionFails(t *testing.T) {
	gen := &fakeMediaGenerator{}
	svc := NewService(gen, logger.NewTestLogger())

	_, err := svc.Transcribe(context.Background(), writeMediaFile(t, "notes.txt"), "base", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
	assert.Contains(t, err.Error(), ".mp4")
	assert.Zero(t, gen.calls)
}

func TestMissingFileFails(t *testing.T) {
	gen := &fakeMediaGenerator{}
	svc := NewService(gen, logger.NewTestLogger())

	_, err := svc.Transcribe(context.Background(), filepath.Join(t.TempDir(), "gone.mp3"), "base", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read media file")
	assert.Zero(t, gen.calls)
}
