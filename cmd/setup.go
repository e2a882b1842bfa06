package cmd

import (
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/theopenlane/recon/config"
	"github.com/theopenlane/recon/internal/reconapi"
	"github.com/theopenlane/recon/internal/render"
	"github.com/theopenlane/recon/internal/scanner"
)

// setupReconClient initializes the client for the upstream recon service from config
func setupReconClient(cfg *config.Config) (*reconapi.Client, error) {
	client, err := reconapi.New(
		cfg.Remote.BaseURL,
		reconapi.WithHTTPClient(&http.Client{Timeout: cfg.Remote.RequestTimeout}),
		reconapi.WithMaxResponseSize(cfg.Remote.MaxResponseSize),
		reconapi.WithRateLimit(cfg.Remote.RateLimit, cfg.Remote.RateBurst),
	)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("base_url", client.BaseURL()).Float64("rate_limit", cfg.Remote.RateLimit).Msg("recon service configured")

	return client, nil
}

// setupRenderer builds a transcript renderer for w, honoring the no color setting
func setupRenderer(cfg *config.Config, w io.Writer) *render.Renderer {
	return render.New(w, render.WithNoColor(cfg.Render.NoColor || k.Bool("no-color")))
}

// scanOptions returns the scanner options derived from config
func scanOptions(cfg *config.Config) []scanner.ScanOption {
	return []scanner.ScanOption{
		scanner.WithTimeout(cfg.Scanner.Timeout),
	}
}
