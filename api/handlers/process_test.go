package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readease/readease-api/internal/models"
	"github.com/readease/readease-api/pkg/logger"
	"github.com/readease/readease-api/pkg/queue"
	"github.com/readease/readease-api/pkg/task"
)

type fakeQueue struct {
	jobs []*queue.Job
	err  error
}

func (f *fakeQueue) Enqueue(ctx context.Context, job *queue.Job) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeQueue) Close() error { return nil }

func processRouter(t *testing.T, store task.Store, q queue.Queue) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewProcessHandler(ProcessDeps{
		Store:     store,
		Queue:     q,
		UploadDir: t.TempDir(),
	}, logger.NewTestLogger())

	r := gin.New()
	r.POST("/api/process/:processType", h.Submit)
	r.GET("/api/process/:taskId", h.Status)
	return r
}

func mediaUpload(t *testing.T, filename string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	// Binary payload so content sniffing yields octet-stream.
	_, err = part.Write([]byte{0x00, 0x01, 0x02, 0xff, 0xfe, 0x00, 0x10})
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("model_size", "small"))
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestSubmitCreatesTaskAndEnqueuesJob(t *testing.T) {
	store := task.NewMemoryStore()
	q := &fakeQueue{}
	r := processRouter(t, store, q)

	body, contentType := mediaUpload(t, "talk.mp3")
	req := httptest.NewRequest(http.MethodPost, "/api/process/transcription", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ProcessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TaskID)
	assert.Contains(t, resp.Message, "transcription")
	assert.Contains(t, resp.FilePath, "uploaded_transcription")

	// Payload written to disk for the worker.
	_, err := os.Stat(resp.FilePath)
	require.NoError(t, err)

	got, err := store.Get(context.Background(), resp.TaskID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)
	assert.Equal(t, "small", got.ModelSize)

	require.Len(t, q.jobs, 1)
	assert.Equal(t, resp.TaskID, q.jobs[0].TaskID)
	assert.Equal(t, "transcription", q.jobs[0].ProcessType)
}

func TestSubmitTranscribeAlias(t *testing.T) {
	store := task.NewMemoryStore()
	q := &fakeQueue{}
	r := processRouter(t, store, q)

	body, contentType := mediaUpload(t, "talk.mp4")
	req := httptest.NewRequest(http.MethodPost, "/api/process/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, q.jobs, 1)
	assert.Equal(t, "transcription", q.jobs[0].ProcessType)
}

func TestSubmitUnknownProcessTypeIsAccepted(t *testing.T) {
	// The worker, not the API, decides whether the type is runnable.
	store := task.NewMemoryStore()
	q := &fakeQueue{}
	r := processRouter(t, store, q)

	body, contentType := mediaUpload(t, "talk.mp3")
	req := httptest.NewRequest(http.MethodPost, "/api/process/enhance", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, q.jobs, 1)
	assert.Equal(t, "enhance", q.jobs[0].ProcessType)
}

func TestSubmitMissingFile(t *testing.T) {
	r := processRouter(t, task.NewMemoryStore(), &fakeQueue{})

	req := httptest.NewRequest(http.MethodPost, "/api/process/transcription", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitRejectsUnsupportedExtension(t *testing.T) {
	r := processRouter(t, task.NewMemoryStore(), &fakeQueue{})

	body, contentType := mediaUpload(t, "notes.txt")
	req := httptest.NewRequest(http.MethodPost, "/api/process/transcription", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitEnqueueFailureFailsTask(t *testing.T) {
	store := task.NewMemoryStore()
	r := processRouter(t, store, &fakeQueue{err: errors.New("redis down")})

	body, contentType := mediaUpload(t, "talk.mp3")
	req := httptest.NewRequest(http.MethodPost, "/api/process/transcription", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.StatusFailed, all[0].Status)
}

func TestStatusReturnsTask(t *testing.T) {
	store := task.NewMemoryStore()
	r := processRouter(t, store, &fakeQueue{})

	require.NoError(t, store.Create(context.Background(), &models.Task{
		ID:          "abc",
		Status:      models.StatusProcessing,
		ProcessType: "summarization",
		FilePath:    "uploaded_summarization/abc.mp4",
		CreatedAt:   time.Now(),
	}))
	require.NoError(t, store.Complete(context.Background(), "abc",
		map[string]interface{}{"summary": "short"}))

	req := httptest.NewRequest(http.MethodGet, "/api/process/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ProcessResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc", resp.TaskID)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "short", resp.Result["summary"])
	assert.Empty(t, resp.Error)
}

func TestStatusUnknownTask(t *testing.T) {
	r := processRouter(t, task.NewMemoryStore(), &fakeQueue{})

	req := httptest.NewRequest(http.MethodGet, "/api/process/unknown-id", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
