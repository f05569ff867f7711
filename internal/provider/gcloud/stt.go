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

// STTClient calls the Cloud Speech-to-Text REST API.
type STTClient struct {
	apiKey       string
	endpoint     string
	languageCode string
	httpClient   *http.Client
}

func NewSTTClient(cfg *config.SpeechConfig) *STTClient {
	return &STTClient{
		apiKey:       cfg.APIKey,
		endpoint:     strings.TrimRight(cfg.STTEndpoint, "/"),
		languageCode: cfg.LanguageCode,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

type recognizeRequest struct {
	Config struct {
		LanguageCode string `json:"languageCode"`
	} `json:"config"`
	Audio struct {
		Content string `json:"content"`
	} `json:"audio"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Recognize transcribes audio bytes, returning the concatenated top
// alternative transcript and its average confidence.
func (c *STTClient) Recognize(ctx context.Context, audio []byte) (string, float64, error) {
	var reqBody recognizeRequest
	reqBody.Config.LanguageCode = c.languageCode
	reqBody.Audio.Content = base64.StdEncoding.EncodeToString(audio)

	data, err := json.Marshal(&reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/speech:recognize?key=%s", c.endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", 0, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(b))
	}

	var result recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != nil {
		return "", 0, fmt.Errorf("speech-to-text error: %s", result.Error.Message)
	}

	var sb strings.Builder
	var confSum float64
	var confN int
	for _, r := range result.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		best := r.Alternatives[0]
		sb.WriteString(best.Transcript)
		confSum += best.Confidence
		confN++
	}

	confidence := 0.0
	if confN > 0 {
		confidence = confSum / float64(confN)
	}

	return sb.String(), confidence, nil
}
