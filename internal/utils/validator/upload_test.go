package validator

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readease/readease-api/pkg/logger"
)

// pngHeader is the magic-byte prefix sniffed as image/png.
var pngHeader = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

func TestValidateAcceptsMatchingImage(t *testing.T) {
	v := NewUploadValidator(logger.NewTestLogger(), ImageConfig())

	info, err := v.Validate(uploadHeader(t, "scan.png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, ".png", info.Extension)
	assert.Equal(t, "image/png", info.MimeType)
	assert.NotEmpty(t, info.Hash)
	assert.Equal(t, int64(len(pngHeader)), info.Size)
}

func TestValidateRejectsDisallowedExtension(t *testing.T) {
	v := NewUploadValidator(logger.NewTestLogger(), ImageConfig())

	_, err := v.Validate(uploadHeader(t, "notes.txt", []byte("hello")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestValidateRejectsMismatchedContent(t *testing.T) {
	v := NewUploadValidator(logger.NewTestLogger(), ImageConfig())

	// A .png upload holding plain text must not pass.
	_, err := v.Validate(uploadHeader(t, "fake.png", []byte("just some text content")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match extension")
}

func TestValidateRejectsOversizedFile(t *testing.T) {
	cfg := ImageConfig()
	cfg.MaxFileSize = 4
	v := NewUploadValidator(logger.NewTestLogger(), cfg)

	_, err := v.Validate(uploadHeader(t, "scan.png", pngHeader))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestMediaConfigAcceptsVideoContainers(t *testing.T) {
	v := NewUploadValidator(logger.NewTestLogger(), MediaConfig())

	// Unrecognized binary content sniffs as octet-stream, which the
	// media config accepts.
	info, err := v.Validate(uploadHeader(t, "clip.mkv", []byte{0x1a, 0x45, 0xdf, 0xa3, 0x00, 0x01}))
	require.NoError(t, err)
	assert.Equal(t, ".mkv", info.Extension)
}
