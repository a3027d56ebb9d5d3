// Package server exposes the layout pipeline over HTTP.
//
//	POST /v1/layout   lay out a schedule, returning positions and artifacts
//	GET  /healthz     liveness and build info
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/blockweek/pkg/buildinfo"
	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
	bwio "github.com/matzehuels/blockweek/pkg/io"
	"github.com/matzehuels/blockweek/pkg/observability"
	"github.com/matzehuels/blockweek/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = "127.0.0.1:8080"

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes = 1 << 20

	// DefaultRequestTimeout bounds one layout request.
	DefaultRequestTimeout = 30 * time.Second

	shutdownTimeout = 5 * time.Second
)

// RequestIDHeader carries the request ID on requests and responses.
const RequestIDHeader = "X-Request-ID"

// Config configures a Server.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
	Runner         *pipeline.Runner // Nil creates one without a cache
	Logger         *log.Logger      // Nil discards
}

// Server serves the layout API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a Server with its routes mounted.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	s := &Server{cfg: cfg, runner: cfg.Runner, logger: cfg.Logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		r.Post("/layout", s.handleLayout)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", "http://"+s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// RequestID returns the request ID stored on ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID keeps a caller-supplied X-Request-ID or assigns a new UUID.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request", "id", RequestID(r.Context()),
			"method", r.Method, "path", r.URL.Path,
			"status", status, "elapsed", elapsed.Round(time.Microsecond))
	})
}

// =============================================================================
// Handlers
// =============================================================================

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	Schedule bwio.Schedule   `json:"schedule"`
	Options  pipeline.Options `json:"options"`
}

// LayoutResponse is the reply to POST /v1/layout. Artifacts holds every
// requested format other than json as text; the JSON layout is always
// returned in Layout.
type LayoutResponse struct {
	RequestID string                        `json:"request_id"`
	Layout    bwio.Layout                   `json:"layout"`
	Days      map[string]*pipeline.DayStats `json:"days"`
	Artifacts map[string]string             `json:"artifacts,omitempty"`
	ElapsedMS float64                       `json:"elapsed_ms"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req LayoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, bwerrors.Wrap(bwerrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	week, err := req.Schedule.Week()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := req.Options
	opts.Logger = s.logger.With("request_id", RequestID(ctx))
	opts.Formats = withoutJSON(opts.Formats)

	laid, days, err := s.runner.Layout(ctx, week, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := LayoutResponse{
		RequestID: RequestID(ctx),
		Layout:    bwio.NewLayout(laid),
		Days:      make(map[string]*pipeline.DayStats, len(days)),
	}
	for d, st := range days {
		resp.Days[d.Short()] = st
	}

	if len(opts.Formats) > 0 {
		artifacts, err := s.runner.Render(ctx, laid, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Artifacts = make(map[string]string, len(artifacts))
		for f, data := range artifacts {
			resp.Artifacts[f] = string(data)
		}
	}

	resp.ElapsedMS = float64(time.Since(start).Microseconds()) / 1000
	writeJSON(w, http.StatusOK, resp)
}

// withoutJSON drops "json" from formats; the layout is always in the body.
func withoutJSON(formats []string) []string {
	out := formats[:0:0]
	for _, f := range formats {
		if f != pipeline.FormatJSON {
			out = append(out, f)
		}
	}
	return out
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := bwerrors.HTTPStatus(err)
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	if status >= 500 {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error:     err.Error(),
		Code:      string(bwerrors.GetCode(err)),
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
