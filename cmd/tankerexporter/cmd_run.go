package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andygrunwald/tanker-exporter/internal/api/tankerkoenig"
	"github.com/andygrunwald/tanker-exporter/internal/geocode"
	"github.com/andygrunwald/tanker-exporter/internal/http"
	"github.com/andygrunwald/tanker-exporter/internal/refresher"
	"github.com/andygrunwald/tanker-exporter/internal/store"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the exporter service",
		Long:  "Resolves the configured location, starts the periodic price refresh and serves the Prometheus metrics endpoint.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger.Info().
				Str("version", Version).
				Str("commit", Commit).
				Str("buildDate", BuildDate).
				Str("listen", cfg.ListenAddr).
				Str("location", cfg.Location).
				Float64("radiusKm", cfg.RadiusKm).
				Int("updateInterval", cfg.UpdateInterval).
				Msg("starting fuel price exporter")

			// Resolve the location once. Without a coordinate the process
			// cannot run, so resolution failures are fatal.
			resolver := geocode.NewResolver(logger)
			center, err := resolver.Resolve(cfg.Location)
			if err != nil {
				return fmt.Errorf("resolving location %q: %w", cfg.Location, err)
			}

			logger.Info().
				Str("location", cfg.Location).
				Str("coordinate", center.String()).
				Msg("location resolved")

			// Create provider, store and refresher
			provider := tankerkoenig.New(logger, cfg.APIKey, cfg.HTTPTimeout)
			st := store.New()
			ref := refresher.New(provider, st, center, cfg.RadiusKm, time.Duration(cfg.UpdateInterval)*time.Second, logger)

			// Create HTTP server
			httpServer := http.NewServer(cfg, st, ref, logger)

			// Wire Prometheus metrics to the refresher
			ref.SetMetrics(httpServer.Metrics())

			// Setup signal handling
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			// Start HTTP server in goroutine
			go func() {
				if err := httpServer.Start(); err != nil {
					logger.Error().Err(err).Msg("HTTP server error")
					cancel()
				}
			}()

			// Start refresher in goroutine
			go func() {
				if err := ref.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error().Err(err).Msg("refresher error")
					cancel()
				}
			}()

			// Wait for signal
			select {
			case sig := <-sigCh:
				logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
			case <-ctx.Done():
			}

			// Graceful shutdown
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("HTTP server shutdown error")
			}

			logger.Info().Msg("shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfg.Location, "location", "l", cfg.Location, "Location to search prices around (coordinate or place name)")
	cmd.Flags().Float64VarP(&cfg.RadiusKm, "radius", "r", cfg.RadiusKm, "Search radius around the location in km (max 25)")
	cmd.Flags().StringVarP(&cfg.APIKey, "api-key", "k", cfg.APIKey, "API key for the Tankerkönig API")
	cmd.Flags().IntVarP(&cfg.UpdateInterval, "update-interval", "u", cfg.UpdateInterval, "Update interval in seconds")
	cmd.Flags().StringVarP(&cfg.Namespace, "namespace", "n", cfg.Namespace, "Namespace prefix for all exported metrics")
	cmd.Flags().DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "Timeout for outbound API calls")

	return cmd
}
