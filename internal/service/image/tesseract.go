package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/readease/readease-api/pkg/logger"
)

// TesseractEngine runs local OCR through a per-call gosseract client.
// Clients are not safe for concurrent use, so each extraction creates
// and closes its own.
type TesseractEngine struct {
	logger        logger.Logger
	languages     []string
	pageSegMode   gosseract.PageSegMode
	preprocessors []Preprocessor
}

func NewTesseractEngine(log logger.Logger) *TesseractEngine {
	return &TesseractEngine{
		logger:        log,
		languages:     []string{"eng"},
		pageSegMode:   gosseract.PSM_AUTO,
		preprocessors: defaultPipeline(),
	}
}

func (e *TesseractEngine) ExtractText(ctx context.Context, data []byte) (string, float64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", 0, fmt.Errorf("failed to decode image: %w", err)
	}

	processed, err := e.applyPreprocessing(img)
	if err != nil {
		return "", 0, fmt.Errorf("failed to preprocess image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: 95}); err != nil {
		return "", 0, fmt.Errorf("failed to encode processed image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(strings.Join(e.languages, "+")); err != nil {
		return "", 0, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(e.pageSegMode); err != nil {
		return "", 0, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", 0, fmt.Errorf("failed to load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("ocr failed: %w", err)
	}

	confidence := e.averageConfidence(client)
	e.logger.Debug("Local OCR finished",
		logger.Int("chars", len(text)),
		logger.Float64("confidence", confidence),
	)

	return strings.TrimSpace(text), confidence, nil
}

func (e *TesseractEngine) applyPreprocessing(img image.Image) (image.Image, error) {
	current := img
	for _, p := range e.preprocessors {
		processed, err := p.Process(current)
		if err != nil {
			return nil, err
		}
		current = processed
	}
	return current, nil
}

// averageConfidence reports the mean word confidence as a 0..1 score.
func (e *TesseractEngine) averageConfidence(client *gosseract.Client) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0.9
	}
	var sum float64
	for _, box := range boxes {
		sum += box.Confidence
	}
	return sum / float64(len(boxes)) / 100.0
}
