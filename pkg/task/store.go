package task

import (
	"context"
	"errors"

	"github.com/readease/readease-api/internal/models"
)

var (
	// ErrNotFound is returned when a task id is unknown to the store.
	ErrNotFound = errors.New("task not found")
	// ErrTerminal is returned on an attempt to transition a task that
	// already reached completed or failed.
	ErrTerminal = errors.New("task already in a terminal state")
	// ErrDuplicate is returned when creating a task whose id exists.
	ErrDuplicate = errors.New("task id already exists")
)

// Store tracks background task lifecycles. A task is created in
// StatusProcessing and transitioned to a terminal state exactly once via
// Complete or Fail; implementations must reject any transition out of a
// terminal state so polls after completion are idempotent.
type Store interface {
	Create(ctx context.Context, t *models.Task) error
	Get(ctx context.Context, id string) (*models.Task, error)
	Complete(ctx context.Context, id string, result map[string]interface{}) error
	Fail(ctx context.Context, id string, message string) error
	List(ctx context.Context) ([]*models.Task, error)
}
