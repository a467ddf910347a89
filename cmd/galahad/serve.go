package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/galahad-project/galahad/internal/classifier"
	"github.com/galahad-project/galahad/internal/config"
	"github.com/galahad-project/galahad/internal/httpapi"
	"github.com/galahad-project/galahad/internal/modelstore"
	"github.com/galahad-project/galahad/internal/repository"
	"github.com/galahad-project/galahad/internal/training"
)

const lockJanitorInterval = 5 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the galahad HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	logger.Info("starting galahad",
		"version", Version,
		"data_root", cfg.Data.Root,
		"port", cfg.Server.Port,
		"training_workers", cfg.Training.Workers)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repo := repository.New(cfg.Data.Root)
	models := modelstore.New(cfg.Data.Root)
	registry := registerClassifiers(classifier.NewRegistry())

	locksDir := filepath.Join(cfg.Data.Root, "locks")
	trainingScheduler := training.New(logger, registry, repo, models, locksDir, cfg.Training.Workers)
	trainingScheduler.Start(ctx)

	janitor := training.NewLockJanitor(locksDir, logger, lockJanitorInterval)
	janitor.Start(ctx)
	defer janitor.Stop()

	server := httpapi.New(repo, registry, trainingScheduler, cfg.Server.CORSOrigins, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	}
}

// registerClassifiers wires the classifiers bundled with this build. A
// deployment that needs a different set builds its own registry the same
// way; the registry itself knows nothing about which variants exist.
func registerClassifiers(registry *classifier.Registry) *classifier.Registry {
	must(registry.Add("passthrough", classifier.NewPassthrough()))
	must(registry.Add("sentence", classifier.NewSentence()))
	must(registry.Add("tagger", classifier.NewTagger()))
	return registry
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("registering bundled classifier: %v", err))
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
