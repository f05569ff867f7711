package config

import (
	"sync"
)

var (
	speechOnce   sync.Once
	speechConfig *SpeechConfig
)

// SpeechConfig covers both the text-to-speech and speech-to-text
// Google Cloud REST endpoints.
type SpeechConfig struct {
	APIKey       string
	TTSEndpoint  string
	STTEndpoint  string
	LanguageCode string
	// DefaultVoice replaces the "default" voice id clients may send.
	DefaultVoice string
}

func GetSpeechConfig() *SpeechConfig {
	speechOnce.Do(func() {
		loadEnv()

		speechConfig = &SpeechConfig{
			APIKey:       getenv("GOOGLE_SPEECH_API_KEY", ""),
			TTSEndpoint:  getenv("GOOGLE_TTS_ENDPOINT", "https://texttospeech.googleapis.com"),
			STTEndpoint:  getenv("GOOGLE_STT_ENDPOINT", "https://speech.googleapis.com"),
			LanguageCode: getenv("SPEECH_LANGUAGE_CODE", "en-US"),
			DefaultVoice: getenv("SPEECH_DEFAULT_VOICE", "en-US-Wavenet-D"),
		}
	})
	return speechConfig
}
