package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"NewsletterDigest/internal/app"
	"NewsletterDigest/internal/config"
	"NewsletterDigest/internal/logging"
)

const heuristicsPathEnv = "NEWSLETTER_DIGEST_HEURISTICS"

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	heuristics, err := config.LoadHeuristics(os.Getenv(heuristicsPathEnv))
	if err != nil {
		logger.Warn("heuristics load failed, using defaults", "error", err)
	}

	// The IMAP transport is wired by the deployment; without one the
	// pipeline reports a configuration error per run instead of crashing.
	application, err := app.New(cfg, heuristics, nil, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(context.Background()); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
