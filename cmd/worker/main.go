package main

import (
	"context"
	"os"
	"time"

	"quizforge/internal/activities"
	"quizforge/internal/config"
	"quizforge/internal/ocr"
	"quizforge/internal/storage"
	"quizforge/internal/workflows"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "quizforge-worker").Logger()

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		logger.Fatal().Err(err).Msg("temporal dial failed")
	}
	defer c.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})
	workflows.Register(w)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer db.Close()

	// The vision client outlives the connect timeout above, so it gets
	// its own context.
	engine, err := buildOCREngine(context.Background(), cfg.OCRProvider)
	if err != nil {
		logger.Fatal().Err(err).Msg("ocr engine init failed")
	}

	a, err := activities.New(cfg, db, engine, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("activities init failed")
	}
	activities.Register(w, a)

	logger.Info().
		Str("temporal", cfg.TemporalAddress).
		Str("queue", cfg.TemporalTaskQueue).
		Str("llm_providers", cfg.LLMProviders).
		Str("ocr_provider", cfg.OCRProvider).
		Msg("quizforge worker listening")
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal().Err(err).Msg("worker exited")
	}
}

func buildOCREngine(ctx context.Context, provider string) (ocr.Engine, error) {
	switch provider {
	case "vision":
		return ocr.NewVisionEngine(ctx)
	default:
		return &ocr.MockEngine{}, nil
	}
}
