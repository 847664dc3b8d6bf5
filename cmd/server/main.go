package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"mneme/internal/config"
	"mneme/internal/inference"
	"mneme/internal/jobs"
	"mneme/internal/logging"
	"mneme/internal/metrics"
	"mneme/internal/notes"
	"mneme/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited")
}

func run() error {
	config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(cfg.IsDev())

	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := inference.New(cfg.HFToken,
		inference.WithBaseURL(cfg.HFBaseURL),
		inference.WithTimeout(cfg.HFTimeout),
		inference.WithModels(inference.Models{
			Sentiment:     cfg.Models.Sentiment,
			Summarization: cfg.Models.Summarization,
			ZeroShot:      cfg.Models.ZeroShot,
		}),
	)
	if err != nil {
		return err
	}
	models := client.Models()
	slog.Info("inference client ready",
		"base_url", cfg.HFBaseURL,
		"sentiment_model", models.Sentiment,
		"summarization_model", models.Summarization,
		"zero_shot_model", models.ZeroShot)

	metrics.Init()

	var monitor *jobs.InferenceMonitor
	if cfg.MonitorInterval > 0 {
		monitor = jobs.NewInferenceMonitor(client, cfg.MonitorInterval)
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(server.Dependencies{
		Notes:     notes.NewService(client),
		Inference: monitor,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	if monitor != nil {
		g.Go(func() error {
			monitor.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server...")
		return srv.Shutdown()
	})

	return g.Wait()
}
