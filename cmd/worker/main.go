package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/readease/readease-api/config"
	"github.com/readease/readease-api/internal/provider/gemini"
	"github.com/readease/readease-api/internal/service/media"
	"github.com/readease/readease-api/pkg/logger"
	"github.com/readease/readease-api/pkg/task"
	"github.com/readease/readease-api/pkg/worker"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.LoadAppConfig("config/app.yaml")
	if err != nil {
		log.Error("Failed to load config", logger.Error(err))
		os.Exit(1)
	}

	redisCfg := config.GetRedisConfig()

	taskStore := task.NewRedisStore(&task.RedisConfig{
		Addr: redisCfg.Addr,
		DB:   redisCfg.DB,
	})

	geminiClient := gemini.NewClient(config.GetGeminiConfig())
	mediaService := media.NewService(geminiClient, log)

	runner := worker.NewRunner(taskStore, mediaService, log)

	workerCfg := &worker.Config{
		RedisAddr:   redisCfg.Addr,
		RedisDB:     redisCfg.DB,
		Concurrency: cfg.Worker.Concurrency,
		Queues:      cfg.Worker.Queues,
	}

	mediaWorker, err := worker.NewMediaWorker(workerCfg, runner, log)
	if err != nil {
		log.Error("Failed to create media worker", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := mediaWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	mediaWorker.Stop()
	log.Info("Worker stopped")
}
