package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/readease/readease-api/api/handlers"
	"github.com/readease/readease-api/api/routes"
	"github.com/readease/readease-api/config"
	"github.com/readease/readease-api/internal/provider/gcloud"
	"github.com/readease/readease-api/internal/provider/gemini"
	"github.com/readease/readease-api/internal/provider/mistral"
	"github.com/readease/readease-api/internal/service/axe"
	"github.com/readease/readease-api/internal/service/image"
	"github.com/readease/readease-api/internal/service/pdfconv"
	"github.com/readease/readease-api/internal/service/speech"
	"github.com/readease/readease-api/internal/service/spell"
	"github.com/readease/readease-api/pkg/logger"
	"github.com/readease/readease-api/pkg/queue"
	"github.com/readease/readease-api/pkg/storage"
	"github.com/readease/readease-api/pkg/task"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/app.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.LoadAppConfig("config/app.yaml")
	if err != nil {
		log.Fatal("Failed to load config", logger.Error(err))
	}

	store, err := storage.NewStorage(storage.StorageType(cfg.Storage.Backend), log)
	if err != nil {
		log.Fatal("Failed to init object storage", logger.Error(err))
	}

	// Providers
	geminiClient := gemini.NewClient(config.GetGeminiConfig())
	mistralClient := mistral.NewClient(config.GetMistralConfig())
	ttsClient := gcloud.NewTTSClient(config.GetSpeechConfig())
	sttClient := gcloud.NewSTTClient(config.GetSpeechConfig())

	// Services
	ttsService := speech.NewTTSService(ttsClient, store, log)
	sttService := speech.NewSTTService(sttClient, log)
	spellService := spell.NewService(geminiClient, log)
	pdfService := pdfconv.NewService(mistralClient, log)

	ctx := context.Background()

	localOCR := image.NewTesseractEngine(log)
	cloudOCR, err := image.NewTextractEngine(ctx, log)
	if err != nil {
		log.Error("Cloud OCR unavailable", logger.Error(err))
		cloudOCR = nil
	}
	var cloudEngine image.Engine
	if cloudOCR != nil {
		cloudEngine = cloudOCR
	}
	imageService := image.NewService(localOCR, cloudEngine, geminiClient, ttsService, store, log)

	auditor, err := axe.NewChromeAuditor(os.Getenv("AXE_SCRIPT_PATH"), 60*time.Second, log)
	if err != nil {
		log.Fatal("Failed to init accessibility auditor", logger.Error(err))
	}
	axeService := axe.NewService(auditor, geminiClient, log)

	// Background jobs share the Redis task store with the worker.
	redisCfg := config.GetRedisConfig()
	taskStore := task.NewRedisStore(&task.RedisConfig{
		Addr: redisCfg.Addr,
		DB:   redisCfg.DB,
	})
	jobQueue := queue.NewAsynqQueue(&queue.Config{
		RedisAddr: redisCfg.Addr,
		RedisDB:   redisCfg.DB,
	})
	defer jobQueue.Close()

	h := handlers.NewHandlers(handlers.Deps{
		Image:         imageService,
		Synthesizer:   ttsService,
		Recognizer:    sttService,
		PDF:           pdfService,
		Spell:         spellService,
		Accessibility: axeService,
		Process: handlers.ProcessDeps{
			Store:     taskStore,
			Queue:     jobQueue,
			UploadDir: cfg.Uploads.Dir,
		},
		Logger: log,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = cfg.Uploads.MaxFileSize
	routes.SetupRoutes(r, h, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		log.Info("Server starting", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
}
