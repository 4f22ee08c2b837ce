package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/bee-colony-dashboard/internal/adapter/render"
	"github.com/couchcryptid/bee-colony-dashboard/internal/dashboard"
	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 64 << 10

// Dashboard answers option and view queries.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Options() (domain.Options, error)
	ComputeViews(ctx context.Context, sel domain.Selection) (domain.Views, error)
}

// ChartRenderer draws one view of a selection as an image.
type ChartRenderer interface {
	Render(kind string, v domain.Views, w io.Writer) error
}

// Server exposes the dashboard API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dashboard  Dashboard
	charts     ChartRenderer
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /api routes, /healthz, /readyz, and /metrics.
func NewServer(addr string, dash Dashboard, charts ChartRenderer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboard: dash,
		charts:    charts,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dash))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("GET /api/views", s.handleViewsQuery)
	mux.HandleFunc("POST /api/views", s.handleViewsBody)
	mux.HandleFunc("GET /api/charts/{file}", s.handleChart)

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

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	opts, err := s.dashboard.Options()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleViewsQuery(w http.ResponseWriter, r *http.Request) {
	sel, err := s.selectionFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.serveViews(w, r, sel)
}

func (s *Server) handleViewsBody(w http.ResponseWriter, r *http.Request) {
	var sel domain.Selection
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&sel); err != nil {
		s.writeError(w, badRequest{err})
		return
	}
	sel, err := s.withDefaults(sel, sel.Year != 0, len(sel.Categories) > 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.serveViews(w, r, sel)
}

func (s *Server) serveViews(w http.ResponseWriter, r *http.Request, sel domain.Selection) {
	views, err := s.dashboard.ComputeViews(r.Context(), sel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok || !render.IsKind(kind) {
		http.NotFound(w, r)
		return
	}

	sel, err := s.selectionFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	views, err := s.dashboard.ComputeViews(r.Context(), sel)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := s.charts.Render(kind, views, &buf); err != nil {
		switch {
		case errors.Is(err, render.ErrNoData):
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, render.ErrUnknownChart):
			http.NotFound(w, r)
		default:
			s.writeError(w, err)
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// selectionFromQuery reads ?year=&affected_by=. Missing parameters fall back
// to the dataset's default selection; affected_by may repeat.
func (s *Server) selectionFromQuery(r *http.Request) (domain.Selection, error) {
	q := r.URL.Query()
	hasYear := q.Has("year")
	categories := q["affected_by"]

	var sel domain.Selection
	if hasYear {
		year, err := strconv.Atoi(strings.TrimSpace(q.Get("year")))
		if err != nil {
			return domain.Selection{}, badRequest{errors.New("year must be an integer")}
		}
		sel.Year = year
	}
	if len(categories) > 0 {
		sel.Categories = domain.NewCategorySet(categories...)
	}
	return s.withDefaults(sel, hasYear, len(categories) > 0)
}

// withDefaults fills the year and categories the client left out from the
// dataset's default selection.
func (s *Server) withDefaults(sel domain.Selection, hasYear, hasCategories bool) (domain.Selection, error) {
	if hasYear && hasCategories {
		return sel, nil
	}
	opts, err := s.dashboard.Options()
	if err != nil {
		return domain.Selection{}, err
	}
	if !hasYear {
		sel.Year = opts.Default.Year
	}
	if !hasCategories {
		sel.Categories = opts.Default.Categories
	}
	return sel, nil
}

type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var br badRequest
	switch {
	case errors.As(err, &br):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, dashboard.ErrNotReady):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	default:
		s.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// writeJSON encodes v before writing the header so an encoding failure can
// still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
