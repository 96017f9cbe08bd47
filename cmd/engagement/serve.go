package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"engagement-prediction-api/config"
	"engagement-prediction-api/handlers"
	"engagement-prediction-api/services"
	"engagement-prediction-api/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		port int
		seed uint64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web page, chart and JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("seed") {
				cfg.RandomSeed = seed
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP port (overrides SERVER_PORT)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed for jitter and confidence (overrides RANDOM_SEED)")
	return cmd
}

func runServe(parent context.Context, cfg *config.Config) error {
	setupLogging(cfg.Log)
	gin.SetMode(cfg.Server.Mode)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	cache, err := services.NewCacheService(ctx, cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, toasts stay in-process and charts are not cached")
	}
	defer cache.Close()

	insights, err := services.LoadInsights()
	if err != nil {
		return fmt.Errorf("load insights: %w", err)
	}

	router, err := handlers.NewRouter(handlers.Deps{
		Config:    cfg,
		Predictor: services.NewPredictor(services.NewRandomSource(cfg.RandomSeed)),
		Insights:  insights,
		Charts:    services.NewChartRenderer(insights, cache, cfg.Chart.CacheTTL),
		Notifier:  services.NewNotifier(cache, cfg.Pacing.ToastTTL),
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Bool("redis", cache.Available()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
