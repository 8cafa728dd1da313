package main

import (
	"net/http"
	"os"

	"quizforge/internal/api"
	"quizforge/internal/config"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "quizforge-api").Logger()

	h := api.NewServer(cfg, logger)
	logger.Info().
		Str("addr", cfg.APIAddr).
		Str("llm_providers", cfg.LLMProviders).
		Str("ocr_provider", cfg.OCRProvider).
		Msg("quizforge api listening")
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		logger.Fatal().Err(err).Msg("api server exited")
	}
}
