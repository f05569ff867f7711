package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/readease/readease-api/pkg/logger"
	"github.com/readease/readease-api/pkg/queue"
)

// MediaWorker consumes media-processing jobs from the asynq queue and
// hands them to a Runner.
type MediaWorker struct {
	BaseWorker
	runner *Runner
}

func NewMediaWorker(cfg *Config, runner *Runner, log logger.Logger) (*MediaWorker, error) {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
		},
	)

	w := &MediaWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log,
			stopChan: make(chan struct{}),
		},
		runner: runner,
	}

	w.mux.HandleFunc(queue.TypeMediaProcess, w.handleMediaProcess)
	return w, nil
}

func (w *MediaWorker) handleMediaProcess(ctx context.Context, t *asynq.Task) error {
	var job queue.Job
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		w.logger.Error("Failed to unmarshal job",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal job: %w", err)
	}

	if job.TaskID == "" || job.FilePath == "" {
		return fmt.Errorf("invalid job data: missing required fields")
	}

	return w.runner.Run(ctx, &job)
}

func (w *MediaWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
