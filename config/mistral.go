package config

import (
	"sync"
)

var (
	mistralOnce   sync.Once
	mistralConfig *MistralConfig
)

type MistralConfig struct {
	APIKey   string
	Endpoint string
	OCRModel string
}

func GetMistralConfig() *MistralConfig {
	mistralOnce.Do(func() {
		loadEnv()

		mistralConfig = &MistralConfig{
			APIKey:   getenv("MISTRAL_API_KEY", ""),
			Endpoint: getenv("MISTRAL_ENDPOINT", "https://api.mistral.ai"),
			OCRModel: getenv("MISTRAL_OCR_MODEL", "mistral-ocr-latest"),
		}
	})
	return mistralConfig
}
