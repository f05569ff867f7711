package image

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	appconfig "github.com/readease/readease-api/config"
	"github.com/readease/readease-api/pkg/logger"
)

// TextractEngine extracts text through AWS Textract. Used when the
// caller asks for the cloud OCR method.
type TextractEngine struct {
	client        *textract.Client
	logger        logger.Logger
	minConfidence float32
}

func NewTextractEngine(ctx context.Context, log logger.Logger) (*TextractEngine, error) {
	cfg := appconfig.GetTextractConfig()

	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKey,
		cfg.SecretKey,
		"",
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &TextractEngine{
		client:        textract.NewFromConfig(awsCfg),
		logger:        log,
		minConfidence: 60.0,
	}, nil
}

func (e *TextractEngine) ExtractText(ctx context.Context, data []byte) (string, float64, error) {
	input := &textract.DetectDocumentTextInput{
		Document: &types.Document{
			Bytes: data,
		},
	}

	result, err := e.client.DetectDocumentText(ctx, input)
	if err != nil {
		return "", 0, fmt.Errorf("failed to detect document text: %w", err)
	}

	var (
		lines []string
		sum   float64
		count int
	)
	for _, block := range result.Blocks {
		if block.BlockType != types.BlockTypeLine || block.Text == nil {
			continue
		}
		if block.Confidence != nil && *block.Confidence < e.minConfidence {
			continue
		}
		lines = append(lines, *block.Text)
		if block.Confidence != nil {
			sum += float64(*block.Confidence)
			count++
		}
	}

	confidence := 0.9
	if count > 0 {
		confidence = sum / float64(count) / 100.0
	}

	e.logger.Debug("Cloud OCR finished",
		logger.Int("lines", len(lines)),
		logger.Float64("confidence", confidence),
	)

	return strings.Join(lines, "\n"), confidence, nil
}
