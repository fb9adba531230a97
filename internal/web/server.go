package web

import (
	"context"
	"crypto/rand"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/hpungsan/contentvault/internal/config"
	"github.com/hpungsan/contentvault/internal/content"
	"github.com/hpungsan/contentvault/internal/metrics"
	"github.com/hpungsan/contentvault/internal/ops"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Deps are the collaborators the web UI needs.
type Deps struct {
	Backend  content.Backend
	Markdown ops.MarkdownSource
	Config   *config.Config
	Logger   *logrus.Logger
	Version  string
}

// NewServer creates and configures the HTTP server for the vault web UI.
func NewServer(deps Deps, bind string, port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           NewHandler(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewHandler returns the routed, wrapped handler.
func NewHandler(deps Deps) http.Handler {
	h := newHandlers(deps)

	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		deps.Logger.Fatalf("failed to create static sub-FS: %v", err)
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/vault", http.StatusFound)
	})
	mux.HandleFunc("GET /vault", h.listHandler(content.ModeUnread))
	mux.HandleFunc("GET /vault/archive", h.listHandler(content.ModeRead))
	mux.HandleFunc("GET /vault/favorites", h.listHandler(content.ModeFavorites))
	mux.HandleFunc("GET /vault/all", h.listHandler(content.ModeAll))
	mux.HandleFunc("GET /vault/preview", h.HandlePreview)
	mux.HandleFunc("GET /vault/read", h.HandleRead)
	mux.HandleFunc("POST /vault/items", h.HandleAdd)
	mux.HandleFunc("POST /vault/items/{id}/status", h.HandleStatus)
	mux.HandleFunc("POST /vault/items/{id}/favorite", h.HandleFavorite)
	mux.HandleFunc("POST /vault/items/{id}/archive", h.HandleArchive)

	// JSON API
	mux.HandleFunc("GET /api/content", h.APIList)
	mux.HandleFunc("POST /api/content", h.APICreate)
	mux.HandleFunc("PATCH /api/content", h.APIUpdate)
	mux.HandleFunc("DELETE /api/content", h.APIArchive)
	mux.HandleFunc("GET /api/notion-preview", h.APIPreview)
	mux.HandleFunc("GET /api/markdown", h.APIMarkdown)

	mux.Handle("GET /metrics", promhttp.Handler())

	// Static file server
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return requestLogger(deps.Logger, securityHeaders(mux))
}

func newHandlers(deps Deps) *Handlers {
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		deps.Logger.Fatalf("failed to create template sub-FS: %v", err)
	}

	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Handlers{
		backend:  deps.Backend,
		markdown: deps.Markdown,
		logger:   deps.Logger,
		renderer: NewRenderer(templateSub, deps.Version, cfg.SiteName, deps.Logger),
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
// Preview images and covers are remote, so img-src allows https.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' https: data:")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// requestLogger assigns a request ID, logs each request, and counts it
// by route pattern.
func requestLogger(logger *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := ulid.MustNew(ulid.Timestamp(start), ulid.Monotonic(rand.Reader, 0)).String()
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()

		logger.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, logger *logrus.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Infof("ContentVault running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warn("Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
