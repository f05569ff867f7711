package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readease/readease-api/internal/models"
)

func newTask(id string) *models.Task {
	return &models.Task{
		ID:          id,
		Status:      models.StatusProcessing,
		ProcessType: "transcription",
		FilePath:    "uploaded_transcription/" + id + ".mp3",
		CreatedAt:   time.Now(),
	}
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTask("a")))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, models.StatusProcessing, got.Status)

	// Mutating the returned copy must not leak into the store.
	got.Status = models.StatusFailed
	again, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, again.Status)
}

func TestMemoryStoreDuplicateCreate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTask("a")))
	assert.ErrorIs(t, store.Create(ctx, newTask("a")), ErrDuplicate)
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreComplete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTask("a")))
	require.NoError(t, store.Complete(ctx, "a", map[string]interface{}{"transcript": "hello"}))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, "hello", got.Result["transcript"])
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestMemoryStoreFail(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTask("a")))
	require.NoError(t, store.Fail(ctx, "a", "unsupported file format"))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Equal(t, "unsupported file format", got.Error)
}

func TestMemoryStoreTerminalStatesAreSticky(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTask("done")))
	require.NoError(t, store.Complete(ctx, "done", nil))
	assert.ErrorIs(t, store.Complete(ctx, "done", nil), ErrTerminal)
	assert.ErrorIs(t, store.Fail(ctx, "done", "late failure"), ErrTerminal)

	got, err := store.Get(ctx, "done")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Empty(t, got.Error)

	require.NoError(t, store.Create(ctx, newTask("failed")))
	require.NoError(t, store.Fail(ctx, "failed", "boom"))
	assert.ErrorIs(t, store.Complete(ctx, "failed", map[string]interface{}{"x": 1}), ErrTerminal)
}

func TestMemoryStoreTransitionUnknown(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Complete(ctx, "nope", nil), ErrNotFound)
	assert.ErrorIs(t, store.Fail(ctx, "nope", "x"), ErrNotFound)
}

func TestMemoryStoreList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTask("a")))
	require.NoError(t, store.Create(ctx, newTask("b")))

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
