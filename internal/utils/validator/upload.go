// Package validator checks uploaded files before any adapter touches
// them: size caps, extension allow-lists and content sniffing.
package validator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/readease/readease-api/pkg/logger"
)

type Config struct {
	MaxFileSize int64
	// AllowedTypes maps lowercase extensions to acceptable sniffed MIME
	// prefixes. An empty prefix list accepts any content for that
	// extension.
	AllowedTypes map[string][]string
}

// FileInfo describes a validated upload.
type FileInfo struct {
	Filename  string
	Size      int64
	Extension string
	MimeType  string
	Hash      string
}

type UploadValidator struct {
	logger logger.Logger
	config *Config
}

func NewUploadValidator(log logger.Logger, cfg *Config) *UploadValidator {
	if cfg == nil {
		cfg = ImageConfig()
	}
	return &UploadValidator{
		logger: log,
		config: cfg,
	}
}

// Validate checks one multipart upload against the configured limits
// and returns its descriptor.
func (v *UploadValidator) Validate(file *multipart.FileHeader) (*FileInfo, error) {
	info := &FileInfo{
		Filename:  file.Filename,
		Size:      file.Size,
		Extension: strings.ToLower(filepath.Ext(file.Filename)),
	}

	if v.config.MaxFileSize > 0 && file.Size > v.config.MaxFileSize {
		return nil, fmt.Errorf("file size %d exceeds maximum of %d bytes", file.Size, v.config.MaxFileSize)
	}

	allowedMimes, ok := v.config.AllowedTypes[info.Extension]
	if !ok {
		return nil, fmt.Errorf("file type %s is not allowed", info.Extension)
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info.MimeType, err = detectMimeType(f)
	if err != nil {
		return nil, fmt.Errorf("failed to detect mime type: %w", err)
	}

	if len(allowedMimes) > 0 && !mimeAllowed(info.MimeType, allowedMimes) {
		return nil, fmt.Errorf("content type %s does not match extension %s", info.MimeType, info.Extension)
	}

	info.Hash, err = calculateHash(f)
	if err != nil {
		return nil, fmt.Errorf("failed to hash file: %w", err)
	}

	v.logger.Debug("Upload validated",
		logger.String("filename", info.Filename),
		logger.String("mime_type", info.MimeType),
		logger.Int("size", int(info.Size)),
	)

	return info, nil
}

func detectMimeType(f multipart.File) (string, error) {
	buffer := make([]byte, 512)
	n, err := f.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buffer[:n]), nil
}

func calculateHash(f multipart.File) (string, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func mimeAllowed(mimeType string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}

// ImageConfig accepts the raster formats the OCR engines understand.
func ImageConfig() *Config {
	return &Config{
		MaxFileSize: 20 * 1024 * 1024,
		AllowedTypes: map[string][]string{
			".jpg":  {"image/jpeg"},
			".jpeg": {"image/jpeg"},
			".png":  {"image/png"},
			".tiff": {"image/tiff", "application/octet-stream"},
			".bmp":  {"image/bmp"},
		},
	}
}

// PDFConfig accepts PDF documents only.
func PDFConfig() *Config {
	return &Config{
		MaxFileSize: 50 * 1024 * 1024,
		AllowedTypes: map[string][]string{
			".pdf": {"application/pdf"},
		},
	}
}

// AudioConfig accepts the audio formats the transcriber understands.
// Several containers sniff as octet-stream, so the prefix lists stay
// permissive.
func AudioConfig() *Config {
	return &Config{
		MaxFileSize: 100 * 1024 * 1024,
		AllowedTypes: map[string][]string{
			".mp3":  {"audio/", "application/octet-stream", "video/"},
			".wav":  {"audio/"},
			".aac":  {"audio/", "application/octet-stream"},
			".ogg":  {"audio/", "application/ogg"},
			".flac": {"audio/", "application/octet-stream"},
			".m4a":  {"audio/", "video/", "application/octet-stream"},
		},
	}
}

// MediaConfig accepts everything the background processor can handle,
// audio and video alike.
func MediaConfig() *Config {
	cfg := AudioConfig()
	cfg.MaxFileSize = 500 * 1024 * 1024
	for _, ext := range []string{".mp4", ".avi", ".mov", ".mkv", ".webm", ".flv", ".m4v"} {
		cfg.AllowedTypes[ext] = []string{"video/", "audio/", "application/octet-stream"}
	}
	return cfg
}
