package models

import (
	"fmt"
	"time"
)

// ProcessType is the closed set of media processing kinds handled by the
// background worker. Parse before dispatching so an unknown kind is an
// error, not a silent no-op.
type ProcessType string

const (
	ProcessTranscription ProcessType = "transcription"
	ProcessTranslation   ProcessType = "translation"
	ProcessSummarization ProcessType = "summarization"
)

// ParseProcessType validates a raw process-type string.
func ParseProcessType(s string) (ProcessType, error) {
	switch ProcessType(s) {
	case ProcessTranscription, ProcessTranslation, ProcessSummarization:
		return ProcessType(s), nil
	default:
		return "", fmt.Errorf("unsupported process type: %q", s)
	}
}

type TaskStatus string

const (
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// Terminal reports whether no further status transition is allowed.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ProcessOptions carries free-form adapter options supplied at submit time
// (target_language, summary_type, max_length, ...).
type ProcessOptions map[string]interface{}

// Task tracks one background media-processing job. A task is created in
// StatusProcessing and moved to a terminal status exactly once by the
// worker; the store enforces that terminal states are sticky.
type Task struct {
	ID          string                 `json:"taskId"`
	Status      TaskStatus             `json:"status"`
	ProcessType string                 `json:"processType"`
	FilePath    string                 `json:"filePath"`
	ModelSize   string                 `json:"modelSize,omitempty"`
	Options     ProcessOptions         `json:"options,omitempty"`
	Result      map[string]interface{} `json:"result,omitempty"`
	Error       string                 `json:"error,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt,omitempty"`
}
