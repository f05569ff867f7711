package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig is the YAML application configuration shared by the API
// server and the worker.
type AppConfig struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"corsOrigins"`
	} `yaml:"server"`
	Uploads struct {
		// Root directory for background-job payloads. Process-type
		// subdirectories are created beneath it.
		Dir string `yaml:"dir"`
		// MaxFileSize in bytes for multipart uploads.
		MaxFileSize int64 `yaml:"maxFileSize"`
	} `yaml:"uploads"`
	Worker struct {
		Concurrency int            `yaml:"concurrency"`
		Queues      map[string]int `yaml:"queues"`
	} `yaml:"worker"`
	Storage struct {
		// Backend is "minio" or "s3".
		Backend string `yaml:"backend"`
	} `yaml:"storage"`
}

// DefaultAppConfig returns the config used when no file is present.
func DefaultAppConfig() *AppConfig {
	cfg := &AppConfig{}
	cfg.Server.Addr = ":8080"
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.Uploads.Dir = "."
	cfg.Uploads.MaxFileSize = 100 * 1024 * 1024
	cfg.Worker.Concurrency = 5
	cfg.Worker.Queues = map[string]int{
		"critical": 6,
		"default":  3,
		"low":      1,
	}
	cfg.Storage.Backend = "minio"
	return cfg
}

// LoadAppConfig reads a YAML config file, falling back to defaults when
// the file does not exist.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Worker.Concurrency <= 0 {
		cfg.Worker.Concurrency = 5
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	return cfg, nil
}
