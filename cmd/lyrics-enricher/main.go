package main

import (
	"context"
	"time"

	"chart-lyrics-go/internal/config"
	"chart-lyrics-go/internal/logger"
	"chart-lyrics-go/internal/lyrics"
	"chart-lyrics-go/internal/processor"
)

func main() {
	log := logger.New().WithRun()
	log.WithField("service", "chart-lyrics-go").Info("starting enrichment run")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.WithField("input_path", cfg.InputPath).WithField("output_path", cfg.OutputPath).Info("config loaded")

	ctx := context.Background()

	// pinged by Run once the input has loaded
	genius := lyrics.NewGeniusClient(cfg, log)

	start := time.Now()
	if err := processor.Run(ctx, log, cfg, genius); err != nil {
		log.WithError(err).Fatal("enrichment run failed")
	}
	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("enrichment run finished")
}
