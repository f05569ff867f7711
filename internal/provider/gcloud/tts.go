package gcloud

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/readease/readease-api/config"
)

// TTSClient calls the Cloud Text-to-Speech REST API.
type TTSClient struct {
	apiKey       string
	endpoint     string
	languageCode string
	defaultVoice string
	httpClient   *http.Client
}

func NewTTSClient(cfg *config.SpeechConfig) *TTSClient {
	return &TTSClient{
		apiKey:       cfg.APIKey,
		endpoint:     strings.TrimRight(cfg.TTSEndpoint, "/"),
		languageCode: cfg.LanguageCode,
		defaultVoice: cfg.DefaultVoice,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate,omitempty"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Synthesize renders text to MP3 bytes. An empty or "default" voice is
// mapped to the configured provider voice.
func (c *TTSClient) Synthesize(ctx context.Context, text, voice string, rate float64) ([]byte, error) {
	if voice == "" || voice == "default" {
		voice = c.defaultVoice
	}

	var reqBody synthesizeRequest
	reqBody.Input.Text = text
	reqBody.Voice.LanguageCode = languageCodeFor(voice, c.languageCode)
	reqBody.Voice.Name = voice
	reqBody.AudioConfig.AudioEncoding = "MP3"
	reqBody.AudioConfig.SpeakingRate = rate

	data, err := json.Marshal(&reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text:synthesize?key=%s", c.endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(b))
	}

	var result synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("text-to-speech error: %s", result.Error.Message)
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %w", err)
	}

	return audio, nil
}

// languageCodeFor derives the language code from a provider voice name
// like "en-IN-Chirp-HD-F", falling back to the configured default.
func languageCodeFor(voice, fallback string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) >= 2 && len(parts[0]) == 2 && len(parts[1]) == 2 {
		return parts[0] + "-" + parts[1]
	}
	return fallback
}
