package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readease/readease-api/internal/models"
	"github.com/readease/readease-api/pkg/logger"
)

type fakeSynth struct {
	audio []byte
	url   string
	voice string
	rate  float64
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, voice string, rate float64) ([]byte, error) {
	f.voice, f.rate = voice, rate
	return f.audio, nil
}

func (f *fakeSynth) SynthesizeToURL(ctx context.Context, text, voice string, rate float64) (string, error) {
	f.voice, f.rate = voice, rate
	return f.url, nil
}

type fakeRecognizer struct{}

func (fakeRecognizer) Transcribe(ctx context.Context, audio []byte) (string, float64, error) {
	return "spoken words", 0.92, nil
}

func speechRouter(t *testing.T, synth SpeechSynthesizer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewSpeechHandler(synth, fakeRecognizer{}, logger.NewTestLogger())
	r := gin.New()
	r.POST("/api/text-to-speech", h.TextToSpeech)
	return r
}

func TestTextToSpeechRawAudio(t *testing.T) {
	synth := &fakeSynth{audio: []byte("mp3-bytes")}
	r := speechRouter(t, synth)

	req := httptest.NewRequest(http.MethodPost, "/api/text-to-speech",
		strings.NewReader(`{"text":"read this aloud","voice":"default","rate":1.2}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "mp3-bytes", w.Body.String())
	assert.Equal(t, "default", synth.voice)
	assert.InDelta(t, 1.2, synth.rate, 0.001)
}

func TestTextToSpeechUpload(t *testing.T) {
	synth := &fakeSynth{url: "https://cdn.example/audio/a.mp3"}
	r := speechRouter(t, synth)

	req := httptest.NewRequest(http.MethodPost, "/api/text-to-speech",
		strings.NewReader(`{"text":"read this aloud","upload":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.TextToSpeechResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://cdn.example/audio/a.mp3", resp.AudioURL)
}

func TestTextToSpeechMissingText(t *testing.T) {
	r := speechRouter(t, &fakeSynth{})

	req := httptest.NewRequest(http.MethodPost, "/api/text-to-speech",
		strings.NewReader(`{"voice":"default"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
