package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/readease/readease-api/internal/models"
)

const taskKeyPrefix = "task:"

// RedisStore persists tasks in Redis so status survives API restarts and
// is shared between the API server and the worker process.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Addr string
	DB   int
	// TTL for task records; zero keeps them forever.
	TTL time.Duration
}

func NewRedisStore(cfg *RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr: cfg.Addr,
			DB:   cfg.DB,
		}),
		ttl: cfg.TTL,
	}
}

func (s *RedisStore) Create(ctx context.Context, t *models.Task) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	ok, err := s.client.SetNX(ctx, taskKeyPrefix+t.ID, data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	if !ok {
		return ErrDuplicate
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Task, error) {
	data, err := s.client.Get(ctx, taskKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	var t models.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &t, nil
}

func (s *RedisStore) Complete(ctx context.Context, id string, result map[string]interface{}) error {
	return s.transition(ctx, id, func(t *models.Task) {
		t.Status = models.StatusCompleted
		t.Result = result
	})
}

func (s *RedisStore) Fail(ctx context.Context, id string, message string) error {
	return s.transition(ctx, id, func(t *models.Task) {
		t.Status = models.StatusFailed
		t.Error = message
	})
}

func (s *RedisStore) List(ctx context.Context) ([]*models.Task, error) {
	var out []*models.Task

	iter := s.client.Scan(ctx, 0, taskKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var t models.Task
		if err := json.Unmarshal(data, &t); err != nil {
			continue
		}
		out = append(out, &t)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan tasks: %w", err)
	}

	return out, nil
}

// transition runs read-modify-write inside a WATCH so a concurrent writer
// cannot resurrect a terminal task.
func (s *RedisStore) transition(ctx context.Context, id string, apply func(*models.Task)) error {
	key := taskKeyPrefix + id

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}

		var t models.Task
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("failed to unmarshal task: %w", err)
		}
		if t.Status.Terminal() {
			return ErrTerminal
		}

		apply(&t)
		t.UpdatedAt = time.Now()

		updated, err := json.Marshal(&t)
		if err != nil {
			return fmt.Errorf("failed to marshal task: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.ttl)
			return nil
		})
		return err
	}, key)
}
