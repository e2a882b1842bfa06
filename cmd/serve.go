package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theopenlane/recon/internal/api"
	"github.com/theopenlane/recon/internal/metrics"
	"github.com/theopenlane/recon/internal/render"
	"github.com/theopenlane/recon/internal/scanner"
	"github.com/theopenlane/recon/internal/session"
)

// serveCmd is the cobra command that starts the recon API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the recon api server for the browser front end",
	Run: func(cmd *cobra.Command, _ []string) {
		err := serve(cmd.Context())
		cobra.CheckErr(err)
	},
}

// init registers the serve command on the root command
func init() {
	rootCmd.AddCommand(serveCmd)
}

// serve initializes dependencies and starts the recon API server
func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client, err := setupReconClient(cfg)
	if err != nil {
		return fmt.Errorf("setting up recon client: %w", err)
	}

	var (
		fetcher        scanner.Fetcher = client
		metricsHandler http.Handler
		m              *metrics.Metrics
	)

	if cfg.Server.EnableMetrics {
		m, err = metrics.New()
		if err != nil {
			return fmt.Errorf("setting up metrics: %w", err)
		}

		fetcher, err = m.InstrumentFetcher(client)
		if err != nil {
			return fmt.Errorf("setting up metrics: %w", err)
		}

		metricsHandler = m.Handler()
	}

	sessions, err := session.NewManager(
		fetcher,
		session.WithTTL(cfg.Session.TTL),
		session.WithCleanupInterval(cfg.Session.CleanupInterval),
		session.WithScanOptions(scanOptions(cfg)...),
	)
	if err != nil {
		return fmt.Errorf("setting up sessions: %w", err)
	}

	if m != nil {
		if err := m.TrackSessions(sessions.Len); err != nil {
			return fmt.Errorf("setting up metrics: %w", err)
		}
	}

	go sessions.Run(ctx)

	handler := api.NewRouter(api.RouterConfig{
		Sessions:       sessions,
		Renderer:       render.NewPlain(),
		MaxBodySize:    cfg.Server.MaxBodySize,
		HandlerTimeout: cfg.Server.HandlerTimeout,
		Metrics:        metricsHandler,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGracePeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("listen", cfg.Server.Listen).Str("remote", client.BaseURL()).Msg("starting recon service")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}
