package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romangod6/agency-site/config"
	"github.com/romangod6/agency-site/internal/api"
	"github.com/romangod6/agency-site/internal/content"
	"github.com/romangod6/agency-site/internal/metrics"
	"github.com/romangod6/agency-site/internal/render"
	"github.com/romangod6/agency-site/internal/sitemap"
	"github.com/romangod6/agency-site/internal/storage"
	"github.com/romangod6/agency-site/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	os.Exit(finish(logger, run(cfg, logger)))
}

// finish logs the run error and flushes the logger, returning the exit
// code. os.Exit skips deferred calls, so Sync happens here.
func finish(logger *zap.Logger, err error) int {
	code := 0
	if err != nil {
		logger.Error("Site exited", zap.Error(err))
		code = 1
	}
	_ = logger.Sync()
	return code
}

func run(cfg *config.Config, logger *zap.Logger) error {
	registry, err := loadRegistry(cfg.Content.File)
	if err != nil {
		return err
	}
	logger.Info("Loaded content registry", zap.Int("pages", registry.Len()))

	// Initialize storage
	store, err := storage.Open(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Initialize(); err != nil {
		return err
	}

	m := metrics.New()
	generator := sitemap.NewGenerator(cfg.Site.BaseURL)

	server := api.NewServer(cfg.Server.Port, api.Deps{
		Registry:  registry,
		Generator: generator,
		Store:     store,
		Metrics:   m,
		Logger:    logger,
		Site:      render.Site{Name: cfg.Site.Name, BaseURL: cfg.Site.BaseURL},
		Filename:  cfg.Sitemap.Filename,
	})

	publisher := sitemap.NewPublisher(registry, generator, store, m, logger.Named("publisher"))
	publisher.OutputDir = cfg.Sitemap.OutputDir
	publisher.Filename = cfg.Sitemap.Filename

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return publisher.Run(ctx, cfg.GetPublishInterval())
	})

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("Starting server", zap.Int("port", cfg.Server.Port))
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Wait for shutdown
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", zap.Error(err))
			return err
		}
		logger.Info("Server shut down gracefully")
		return nil
	})

	return g.Wait()
}

func loadRegistry(path string) (*content.Registry, error) {
	if path == "" {
		return content.Default()
	}
	return content.LoadFile(path)
}
