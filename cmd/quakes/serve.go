package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/quake-analytics-service/internal/adapter/http"
	"github.com/couchcryptid/quake-analytics-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-analytics-service/internal/config"
	"github.com/couchcryptid/quake-analytics-service/internal/observability"
	"github.com/couchcryptid/quake-analytics-service/internal/pipeline"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the events API with health, readiness, and metrics endpoints.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := observability.NewLogger(cfg)
			metrics := observability.NewMetrics()

			client := usgs.NewClient(cfg.CatalogURL, cfg.CatalogTimeout)
			fetcher := usgs.NewFetcher(client, logger, metrics)
			dash := pipeline.New(fetcher, logger, metrics, cfg.HistogramBins)

			srv := httpadapter.NewServer(cfg.HTTPAddr, dash, dash, cfg.DefaultFilter(), cfg.CatalogTimeout, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Warm up so /readyz turns green without waiting for the first client.
			go func() {
				snap := dash.Refresh(ctx, cfg.DefaultFilter())
				logger.Info("initial refresh complete", "events", snap.Events.Len(), "diagnostics", len(snap.Diagnostics))
			}()

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			var serveErr error
			select {
			case <-ctx.Done():
			case serveErr = <-errCh:
				if serveErr != nil {
					logger.Error("http server error", "error", serveErr)
				}
			}
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}

			logger.Info("shutdown complete")
			return serveErr
		},
	}
}
