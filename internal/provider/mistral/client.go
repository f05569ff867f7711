package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/readease/readease-api/config"
)

// Client wraps Mistral's document OCR flow: upload the file, obtain a
// signed URL, then run the OCR model against it.
type Client struct {
	apiKey     string
	endpoint   string
	ocrModel   string
	httpClient *http.Client
}

func NewClient(cfg *config.MistralConfig) *Client {
	return &Client{
		apiKey:   cfg.APIKey,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		ocrModel: cfg.OCRModel,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type uploadedFile struct {
	ID string `json:"id"`
}

type signedURL struct {
	URL string `json:"url"`
}

// OCRPage is one page of the OCR response. Markdown references page
// images by id; Images carries their base64 content.
type OCRPage struct {
	Index    int        `json:"index"`
	Markdown string     `json:"markdown"`
	Images   []OCRImage `json:"images"`
}

type OCRImage struct {
	ID          string `json:"id"`
	ImageBase64 string `json:"image_base64"`
}

type OCRResponse struct {
	Pages []OCRPage `json:"pages"`
}

// ProcessPDF runs the full upload/sign/ocr sequence for one document.
func (c *Client) ProcessPDF(ctx context.Context, filename string, data []byte) (*OCRResponse, error) {
	fileID, err := c.uploadFile(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	url, err := c.getSignedURL(ctx, fileID)
	if err != nil {
		return nil, err
	}

	return c.processOCR(ctx, url)
}

func (c *Client) uploadFile(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField("purpose", "ocr"); err != nil {
		return "", fmt.Errorf("failed to write form field: %w", err)
	}
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/files", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var uploaded uploadedFile
	if err := c.do(req, &uploaded); err != nil {
		return "", fmt.Errorf("file upload failed: %w", err)
	}
	if uploaded.ID == "" {
		return "", fmt.Errorf("file upload failed: no valid file id received")
	}

	return uploaded.ID, nil
}

func (c *Client) getSignedURL(ctx context.Context, fileID string) (string, error) {
	url := fmt.Sprintf("%s/v1/files/%s/url?expiry=1", c.endpoint, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var signed signedURL
	if err := c.do(req, &signed); err != nil {
		return "", fmt.Errorf("failed to obtain signed url: %w", err)
	}
	if signed.URL == "" {
		return "", fmt.Errorf("failed to obtain signed url for ocr processing")
	}

	return signed.URL, nil
}

func (c *Client) processOCR(ctx context.Context, documentURL string) (*OCRResponse, error) {
	reqBody := map[string]interface{}{
		"model": c.ocrModel,
		"document": map[string]string{
			"type":         "document_url",
			"document_url": documentURL,
		},
		"include_image_base64": true,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/ocr", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var result OCRResponse
	if err := c.do(req, &result); err != nil {
		return nil, fmt.Errorf("ocr processing failed: %w", err)
	}

	return &result, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
