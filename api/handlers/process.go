package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/readease/readease-api/internal/models"
	"github.com/readease/readease-api/internal/utils/validator"
	"github.com/readease/readease-api/pkg/logger"
	"github.com/readease/readease-api/pkg/queue"
	"github.com/readease/readease-api/pkg/task"
)

// ProcessDeps wires the background-processing handler.
type ProcessDeps struct {
	Store task.Store
	Queue queue.Queue
	// UploadDir is the root under which per-type upload directories are
	// created.
	UploadDir string
}

// ProcessHandler accepts media jobs and reports their status. Submitted
// payloads are written to disk so the worker process can read them; an
// unknown process type is still accepted and recorded, and the worker
// fails the task asynchronously.
type ProcessHandler struct {
	deps      ProcessDeps
	validator *validator.UploadValidator
	logger    logger.Logger
}

func NewProcessHandler(deps ProcessDeps, log logger.Logger) *ProcessHandler {
	if deps.UploadDir == "" {
		deps.UploadDir = "."
	}
	return &ProcessHandler{
		deps:      deps,
		validator: validator.NewUploadValidator(log, validator.MediaConfig()),
		logger:    log,
	}
}

// Submit handles POST /api/process/:processType.
func (h *ProcessHandler) Submit(c *gin.Context) {
	processType := strings.ToLower(c.Param("processType"))
	// Compatibility alias kept from the original endpoint naming.
	if processType == "transcribe" {
		processType = string(models.ProcessTranscription)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	if _, err := h.validator.Validate(header); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "File validation failed", err)
		return
	}

	modelSize := c.DefaultPostForm("model_size", "base")

	var options models.ProcessOptions
	if raw := c.PostForm("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &options); err != nil {
			handleError(c, h.logger, http.StatusBadRequest, "Invalid options payload", err)
			return
		}
	}

	taskID := uuid.New().String()
	filePath, err := h.saveUpload(c, taskID, processType, header)
	if err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to store upload", err)
		return
	}

	now := time.Now()
	t := &models.Task{
		ID:          taskID,
		Status:      models.StatusProcessing,
		ProcessType: processType,
		FilePath:    filePath,
		ModelSize:   modelSize,
		Options:     options,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.deps.Store.Create(c.Request.Context(), t); err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to create task", err)
		return
	}

	job := &queue.Job{
		TaskID:      taskID,
		ProcessType: processType,
		FilePath:    filePath,
		ModelSize:   modelSize,
		Options:     options,
		CreatedAt:   now,
	}
	if err := h.deps.Queue.Enqueue(c.Request.Context(), job); err != nil {
		// Leave a failed task behind rather than an orphaned processing one.
		if ferr := h.deps.Store.Fail(c.Request.Context(), taskID, "failed to enqueue job"); ferr != nil {
			h.logger.Error("Failed to record enqueue failure", logger.Error(ferr))
		}
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to enqueue job", err)
		return
	}

	h.logger.Info("Media job submitted",
		logger.String("taskId", taskID),
		logger.String("processType", processType),
		logger.String("filePath", filePath),
	)

	c.JSON(http.StatusOK, models.ProcessResponse{
		TaskID:   taskID,
		Message:  fmt.Sprintf("File submitted for %s", processType),
		FilePath: filePath,
	})
}

// Status handles GET /api/process/:taskId.
func (h *ProcessHandler) Status(c *gin.Context) {
	taskID := c.Param("taskId")

	t, err := h.deps.Store.Get(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			handleError(c, h.logger, http.StatusNotFound, "Task not found", err)
			return
		}
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to load task", err)
		return
	}

	c.JSON(http.StatusOK, models.ProcessResult{
		TaskID: t.ID,
		Status: string(t.Status),
		Result: t.Result,
		Error:  t.Error,
	})
}

// saveUpload writes the payload to uploaded_<type>/<taskid><ext>. The
// file is kept after processing so results can be re-derived.
func (h *ProcessHandler) saveUpload(c *gin.Context, taskID, processType string, header *multipart.FileHeader) (string, error) {
	dir := filepath.Join(h.deps.UploadDir, "uploaded_"+processType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst := filepath.Join(dir, taskID+strings.ToLower(filepath.Ext(header.Filename)))
	if err := c.SaveUploadedFile(header, dst); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return dst, nil
}
