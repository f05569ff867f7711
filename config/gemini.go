package config

import (
	"sync"
)

var (
	geminiOnce   sync.Once
	geminiConfig *GeminiConfig
)

type GeminiConfig struct {
	APIKey   string
	Endpoint string
	// Model used for plain text generation (spell correction, summaries).
	TextModel string
	// Model used for multimodal requests (image analysis, audio/video).
	MediaModel string
}

func GetGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		loadEnv()

		geminiConfig = &GeminiConfig{
			APIKey:     getenv("GEMINI_API_KEY", ""),
			Endpoint:   getenv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com"),
			TextModel:  getenv("GEMINI_TEXT_MODEL", "gemini-1.5-flash"),
			MediaModel: getenv("GEMINI_MEDIA_MODEL", "gemini-2.0-flash-exp"),
		}
	})
	return geminiConfig
}
