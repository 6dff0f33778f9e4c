package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/keychain/internal/app"
)

const shutdownTimeout = 30 * time.Second

// RunServer serves the bridge API, and the metrics listener when enabled, until SIGINT or
// SIGTERM arrives or either listener fails. The container is always shut down before
// returning, which drains pending vault operations and zeroes the master keys.
func RunServer(ctx context.Context, version string) (err error) {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server",
		slog.String("version", version),
		slog.String("db_driver", cfg.DBDriver),
		slog.String("namespace", cfg.VaultNamespace),
	)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := container.Shutdown(shutdownCtx); shutdownErr != nil {
			err = errors.Join(err, shutdownErr)
		}
	}()

	api, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}
	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Start(gctx)
	})
	if metricsServer != nil {
		g.Go(func() error {
			return metricsServer.Start(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping listeners")

		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		errs := []error{api.Shutdown(stopCtx)}
		if metricsServer != nil {
			errs = append(errs, metricsServer.Shutdown(stopCtx))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
