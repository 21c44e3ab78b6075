package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	LastCycle string `json:"last_cycle,omitempty"`
	LastError bool   `json:"last_cycle_failed,omitempty"`
}

// Server serves /metrics and /healthz.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewRouter builds the HTTP routes. The watcher is reported stale, with a
// 503, once no cycle has finished for staleAfter.
func NewRouter(rec *Recorder, staleAfter time.Duration, now func() time.Time) http.Handler {
	if now == nil {
		now = time.Now
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(rec.Registry(), promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		last, failed := rec.LastCycle()
		if last.IsZero() {
			writeJSON(w, http.StatusOK, HealthResponse{Status: "starting"})
			return
		}

		resp := HealthResponse{
			Status:    "ok",
			LastCycle: last.UTC().Format(time.RFC3339),
			LastError: failed,
		}
		if staleAfter > 0 && now().Sub(last) > staleAfter {
			resp.Status = "stale"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
	return r
}

// NewServer creates a server listening on addr.
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With("component", "metrics"),
	}
}

// Start serves in a background goroutine until Shutdown.
func (s *Server) Start() {
	go func() {
		s.logger.Info("metrics listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()
}

// Shutdown stops the server, waiting up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
