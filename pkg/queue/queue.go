package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/readease/readease-api/internal/models"
)

// TypeMediaProcess is the asynq task type for background media jobs.
const TypeMediaProcess = "media:process"

// Job is the payload handed from the API server to the worker. The raw
// process-type string travels as submitted; the worker parses it and
// records a failed task when it is unknown.
type Job struct {
	TaskID      string                `json:"taskId"`
	ProcessType string                `json:"processType"`
	FilePath    string                `json:"filePath"`
	ModelSize   string                `json:"modelSize"`
	Options     models.ProcessOptions `json:"options,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// Queue enqueues media-processing jobs.
type Queue interface {
	Enqueue(ctx context.Context, job *Job) error
	Close() error
}

type Config struct {
	RedisAddr string
	RedisDB   int
	// Timeout bounds one processing attempt on the worker side.
	Timeout time.Duration
}

// AsynqQueue is the Redis-backed Queue.
type AsynqQueue struct {
	client *asynq.Client
	cfg    *Config
}

func NewAsynqQueue(cfg *Config) *AsynqQueue {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &AsynqQueue{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		}),
		cfg: cfg,
	}
}

func (q *AsynqQueue) Enqueue(ctx context.Context, job *Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	// MaxRetry 0: task execution is at-most-once, matching the one-shot
	// state machine recorded in the task store.
	opts := []asynq.Option{
		asynq.MaxRetry(0),
		asynq.Timeout(q.cfg.Timeout),
		asynq.TaskID(job.TaskID),
		asynq.Queue("default"),
	}

	t := asynq.NewTask(TypeMediaProcess, payload, opts...)
	if _, err := q.client.EnqueueContext(ctx, t); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	return nil
}

func (q *AsynqQueue) Close() error {
	return q.client.Close()
}
