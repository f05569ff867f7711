package task

import (
	"context"
	"sync"
	"time"

	"github.com/readease/readease-api/internal/models"
)

// MemoryStore is a process-local Store. Task history does not survive a
// restart; use the Redis store when that matters.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]*models.Task),
	}
}

func (s *MemoryStore) Create(ctx context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; ok {
		return ErrDuplicate
	}

	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *t
	return &cp, nil
}

func (s *MemoryStore) Complete(ctx context.Context, id string, result map[string]interface{}) error {
	return s.transition(id, func(t *models.Task) {
		t.Status = models.StatusCompleted
		t.Result = result
	})
}

func (s *MemoryStore) Fail(ctx context.Context, id string, message string) error {
	return s.transition(id, func(t *models.Task) {
		t.Status = models.StatusFailed
		t.Error = message
	})
}

func (s *MemoryStore) List(ctx context.Context) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) transition(id string, apply func(*models.Task)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return ErrNotFound
	}
	if t.Status.Terminal() {
		return ErrTerminal
	}

	apply(t)
	t.UpdatedAt = time.Now()
	return nil
}
