package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mailsift/email-classifier/internal/core"
	"github.com/mailsift/email-classifier/internal/di"
	"github.com/mailsift/email-classifier/internal/metrics"
	"github.com/mailsift/email-classifier/internal/server"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	service *core.ClassifierService,
	srv *server.Server,
	cache core.PredictionCache,
) error {
	defer logger.Sync()

	// Load the model bundle. A missing artifact is not fatal: the server
	// starts degraded and answers health checks while a model is trained.
	if err := service.LoadBundle(); err != nil {
		if errors.Is(err, core.ErrArtifactNotFound) {
			logger.Warn("No model bundle found, starting without a model", zap.Error(err))
		} else {
			logger.Fatal("Failed to load model bundle", zap.Error(err))
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// SIGHUP reloads the model bundle in place; SIGINT/SIGTERM shut down
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("Server stopped unexpectedly", zap.Error(err))
				return err
			}
			return nil
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				logger.Info("Reloading model bundle")
				if err := service.LoadBundle(); err != nil {
					metrics.ModelReloads.WithLabelValues("error").Inc()
					logger.Error("Failed to reload model bundle", zap.Error(err))
				} else {
					metrics.ModelReloads.WithLabelValues("ok").Inc()
				}
				continue
			}

			logger.Info("Shutting down...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := srv.Stop(ctx)
			cancel()
			if err != nil {
				logger.Error("Failed to stop server", zap.Error(err))
			}
			if cache != nil {
				cache.Stop()
			}
			logger.Info("Shutdown complete")
			return nil
		}
	}
}
