package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresher builds a dashboard snapshot for a filter.
type Refresher interface {
	Refresh(ctx context.Context, filter domain.QueryFilter) pipeline.Snapshot
}

// Server exposes the events API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// responseMargin is the time a handler has to encode a snapshot once the
// catalog call has returned.
const responseMargin = 10 * time.Second

// NewServer creates an HTTP server with /api/v1/events, /healthz, /readyz,
// and /metrics routes. defaults fills query parameters the caller omits.
// catalogTimeout bounds one upstream fetch; the write timeout is derived from
// it so slow catalog responses are not cut off.
func NewServer(addr string, dash Refresher, ready sharedobs.ReadinessChecker, defaults domain.QueryFilter, catalogTimeout time.Duration, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      catalogTimeout + responseMargin,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /api/v1/events", handleEvents(dash, defaults, logger))
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleEvents answers with a full snapshot. Upstream failures are not HTTP
// errors: they arrive as diagnostics inside a 200 response.
func handleEvents(dash Refresher, defaults domain.QueryFilter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r, defaults)
		if err != nil {
			logger.Debug("rejected events query", "query", r.URL.RawQuery, "error", err)
			sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, dash.Refresh(r.Context(), filter))
	}
}

func parseFilter(r *http.Request, defaults domain.QueryFilter) (domain.QueryFilter, error) {
	q := r.URL.Query()
	filter := defaults

	if raw := q.Get("minmagnitude"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.QueryFilter{}, fmt.Errorf("%w: %q", domain.ErrInvalidMinMagnitude, raw)
		}
		filter.MinMagnitude = v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return domain.QueryFilter{}, fmt.Errorf("%w: %q", domain.ErrInvalidLimit, raw)
		}
		filter.Limit = v
	}

	if err := filter.Validate(); err != nil {
		return domain.QueryFilter{}, err
	}
	return filter, nil
}
