package config

import (
	"sync"
)

var (
	textractOnce   sync.Once
	textractConfig *TextractConfig
)

type TextractConfig struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func GetTextractConfig() *TextractConfig {
	textractOnce.Do(func() {
		loadEnv()

		textractConfig = &TextractConfig{
			Region:    getenv("AWS_REGION", "us-east-1"),
			Endpoint:  getenv("AWS_ENDPOINT", ""),
			AccessKey: getenv("AWS_ACCESS_KEY", ""),
			SecretKey: getenv("AWS_SECRET_KEY", ""),
		}
	})
	return textractConfig
}
