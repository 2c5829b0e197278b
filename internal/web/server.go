package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hpungsan/urlcopy/internal/menu"
	"github.com/hpungsan/urlcopy/internal/ops"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Options configures NewServer.
type Options struct {
	Deps       ops.Deps
	Indicators *menu.Indicators
	// Bridge serves GET /ws. Pages is usually the same value.
	Bridge  http.Handler
	Pages   TabLister
	Version string
	Addr    string
	Logger  *slog.Logger
}

// NewServer creates and configures the HTTP server for the daemon.
func NewServer(opts Options) (*http.Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("template sub-FS: %w", err)
	}
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static sub-FS: %w", err)
	}

	h := &Handlers{
		deps:       opts.Deps,
		indicators: opts.Indicators,
		pages:      opts.Pages,
		renderer:   NewRenderer(templateSub, opts.Version, opts.Logger),
		logger:     opts.Logger,
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           routes(h, opts.Bridge, staticSub),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func routes(h *Handlers, bridge http.Handler, staticSub fs.FS) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	// The bridge upgrade is exempt from the page security headers.
	if bridge != nil {
		r.Method(http.MethodGet, "/ws", bridge)
	}

	r.Group(func(r chi.Router) {
		r.Use(securityHeaders)

		r.Get("/", h.HandleOptions)

		r.Route("/api", func(r chi.Router) {
			r.Post("/action", h.HandleAction)
			r.Get("/menu", h.HandleMenu)
			r.Post("/menu/{id}", h.HandleMenuClick)
			r.Get("/preferences", h.HandlePreferences)
			r.Get("/shortcuts", h.HandleShortcuts)
		})

		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticSub)))
	})

	return r
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled or on SIGINT/SIGTERM.
func Run(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("url-copy daemon running", "url", "http://"+srv.Addr)

	if strings.HasPrefix(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	case <-sigCh:
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
