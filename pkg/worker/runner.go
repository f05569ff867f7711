package worker

import (
	"context"

	"github.com/readease/readease-api/internal/models"
	"github.com/readease/readease-api/pkg/logger"
	"github.com/readease/readease-api/pkg/queue"
	"github.com/readease/readease-api/pkg/task"
)

// MediaProcessor runs one media job against the provider. Implemented by
// internal/service/media.
type MediaProcessor interface {
	Transcribe(ctx context.Context, filePath, modelSize string, opts models.ProcessOptions) (map[string]interface{}, error)
	Translate(ctx context.Context, filePath, modelSize string, opts models.ProcessOptions) (map[string]interface{}, error)
	Summarize(ctx context.Context, filePath, modelSize string, opts models.ProcessOptions) (map[string]interface{}, error)
}

// Runner executes one job and records its terminal transition in the task
// store. Exactly one of Complete/Fail is called per job; an unknown
// process type is a failed task, never a synchronous error to the client.
type Runner struct {
	store  task.Store
	proc   MediaProcessor
	logger logger.Logger
}

func NewRunner(store task.Store, proc MediaProcessor, log logger.Logger) *Runner {
	return &Runner{
		store:  store,
		proc:   proc,
		logger: log,
	}
}

func (r *Runner) Run(ctx context.Context, job *queue.Job) error {
	log := r.logger.With(
		logger.String("taskId", job.TaskID),
		logger.String("processType", job.ProcessType),
	)
	log.Info("Running media job", logger.String("filePath", job.FilePath))

	processType, err := models.ParseProcessType(job.ProcessType)
	if err != nil {
		return r.fail(ctx, log, job.TaskID, err)
	}

	var result map[string]interface{}
	switch processType {
	case models.ProcessTranscription:
		result, err = r.proc.Transcribe(ctx, job.FilePath, job.ModelSize, job.Options)
	case models.ProcessTranslation:
		result, err = r.proc.Translate(ctx, job.FilePath, job.ModelSize, job.Options)
	case models.ProcessSummarization:
		result, err = r.proc.Summarize(ctx, job.FilePath, job.ModelSize, job.Options)
	}
	if err != nil {
		return r.fail(ctx, log, job.TaskID, err)
	}

	if err := r.store.Complete(ctx, job.TaskID, result); err != nil {
		log.Error("Failed to record task completion", logger.Error(err))
		return err
	}

	log.Info("Media job completed")
	return nil
}

func (r *Runner) fail(ctx context.Context, log logger.Logger, taskID string, cause error) error {
	log.Error("Media job failed", logger.Error(cause))

	if err := r.store.Fail(ctx, taskID, cause.Error()); err != nil {
		log.Error("Failed to record task failure", logger.Error(err))
		return err
	}

	// The failure is recorded in the store; the job itself is done.
	return nil
}
