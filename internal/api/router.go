package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/theopenlane/recon/internal/render"
	"github.com/theopenlane/recon/internal/session"
)

const (
	defaultMaxBodySize    = 4096
	defaultHandlerTimeout = 20 * time.Second
)

// RouterConfig holds the dependencies for the API router
type RouterConfig struct {
	// Sessions owns the per-client collectors and scanners
	Sessions *session.Manager
	// Renderer produces the plain text transcript; a plain renderer is used when nil
	Renderer *render.Renderer
	// MaxBodySize limits request bodies in bytes
	MaxBodySize int64
	// HandlerTimeout bounds a single request
	HandlerTimeout time.Duration
	// Metrics serves /metrics when set
	Metrics http.Handler
}

// NewRouter creates a new chi router with all endpoints and middleware
func NewRouter(cfg RouterConfig) http.Handler {
	h := &Handler{
		sessions:    cfg.Sessions,
		renderer:    cfg.Renderer,
		maxBodySize: cfg.MaxBodySize,
	}

	if h.renderer == nil {
		h.renderer = render.NewPlain()
	}

	if h.maxBodySize <= 0 {
		h.maxBodySize = defaultMaxBodySize
	}

	timeout := cfg.HandlerTimeout
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors)

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Get("/scan-types", h.handleScanTypes)

		r.Route("/sessions", func(r chi.Router) {
			r.Use(h.requireSessions)
			r.Post("/", h.handleCreateSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.handleGetSession)
				r.Delete("/", h.handleDeleteSession)
				r.Put("/input", h.handleUpdateInput)
				r.Post("/scan", h.handleSubmitScan)
			})
		})
	})

	return r
}

// cors allows the browser front end to call the API from another origin
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
