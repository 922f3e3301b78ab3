// Package server exposes a live [gallery.Gallery] over HTTP.
//
// Routes:
//
//	GET  /healthz             liveness probe
//	GET  /api/layout          current columns, heights and positioned cards
//	POST /api/more            load the next page
//	POST /api/refresh         clear and reload page 1
//	PUT  /api/columns/{n}     switch the column count and reflow
//	POST /api/place           place caller-supplied {"id","height"} items
//	GET  /gallery.svg         the wall as SVG (?style=simple&labels=1)
//
// Errors are returned as {"error": "...", "code": "INVALID_ITEM"} with a
// status derived from the error code.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	werrors "github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/feed"
	"github.com/matzehuels/waterfall/pkg/gallery"
	"github.com/matzehuels/waterfall/pkg/httputil"
	"github.com/matzehuels/waterfall/pkg/masonry"
	"github.com/matzehuels/waterfall/pkg/render"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

const (
	// requestIDHeader carries the per-request ID in both directions.
	requestIDHeader = "X-Request-ID"

	// maxBodyBytes bounds POST /api/place payloads.
	maxBodyBytes = 1 << 20

	shutdownTimeout = 5 * time.Second
)

// Options configures a [Server].
type Options struct {
	// Style is the default SVG style (default "card").
	Style string
	// Logger receives one line per request (default discard).
	Logger *log.Logger
}

// Server serves one gallery. It is safe for concurrent requests.
type Server struct {
	gallery *gallery.Gallery
	style   string
	logger  *log.Logger
	router  chi.Router
}

// New creates a server for g.
func New(g *gallery.Gallery, opts Options) *Server {
	if opts.Style == "" {
		opts.Style = "card"
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{gallery: g, style: opts.Style, logger: opts.Logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/gallery.svg", s.handleSVG)
	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Post("/more", s.handleMore)
		r.Post("/refresh", s.handleRefresh)
		r.Put("/columns/{n}", s.handleColumns)
		r.Post("/place", s.handlePlace)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving gallery", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// =============================================================================
// Handlers
// =============================================================================

// layoutResponse is the body of every gallery endpoint.
type layoutResponse struct {
	Columns     int           `json:"columns"`
	ColumnWidth float64       `json:"column_width"`
	Heights     []float64     `json:"heights"`
	NextPage    int           `json:"next_page"`
	Exhausted   bool          `json:"exhausted"`
	Cards       []render.Card `json:"cards"`
	Placed      *int          `json:"placed,omitempty"`
	Rejected    []string      `json:"rejected,omitempty"`
	Warning     string        `json:"warning,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.layout())
}

func (s *Server) handleMore(w http.ResponseWriter, r *http.Request) {
	n, err := s.gallery.LoadMore(r.Context())
	s.respondPlaced(w, n, err)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	n, err := s.gallery.Refresh(r.Context())
	s.respondPlaced(w, n, err)
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		s.writeError(w, werrors.New(werrors.ErrCodeInvalidInput, "column count %q is not a number", chi.URLParam(r, "n")))
		return
	}
	if err := s.gallery.SetColumns(r.Context(), n); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.layout())
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var items []masonry.Item
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&items); err != nil {
		s.writeError(w, werrors.Wrap(werrors.ErrCodeInvalidFormat, err, "decode items"))
		return
	}

	cols, err := s.gallery.Place(items)
	resp := s.layout()
	placed := 0
	for i, c := range cols {
		if c < 0 {
			resp.Rejected = append(resp.Rejected, items[i].ID)
			continue
		}
		placed++
	}
	resp.Placed = &placed
	if err != nil {
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("style")
	if name == "" {
		name = s.style
	}
	style, err := styles.ByName(name)
	if err != nil {
		s.writeError(w, werrors.Wrap(werrors.ErrCodeInvalidStyle, err, "style"))
		return
	}

	opts := []render.SVGOption{render.WithStyle(style)}
	if labels, _ := strconv.ParseBool(r.URL.Query().Get("labels")); labels {
		opts = append(opts, render.WithLabels())
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(render.RenderSVG(s.gallery.Snapshot().Scene(), opts...))
}

// respondPlaced reports a LoadMore or Refresh outcome. Invalid items do not
// fail the request; they are surfaced as a warning next to the new layout.
func (s *Server) respondPlaced(w http.ResponseWriter, n int, err error) {
	if err != nil && !werrors.Is(err, werrors.ErrCodeInvalidItem) {
		s.writeError(w, err)
		return
	}
	resp := s.layout()
	resp.Placed = &n
	if err != nil {
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) layout() layoutResponse {
	v := s.gallery.Snapshot()
	scene := v.Scene()
	cards := scene.Cards
	if cards == nil {
		cards = []render.Card{}
	}
	return layoutResponse{
		Columns:     v.Columns,
		ColumnWidth: v.ColumnWidth,
		Heights:     v.Layout.Heights(),
		NextPage:    v.NextPage,
		Exhausted:   v.Exhausted,
		Cards:       cards,
	}
}

// =============================================================================
// Errors
// =============================================================================

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: werrors.UserMessage(err), Code: string(werrors.GetCode(err))}
	if id := w.Header().Get(requestIDHeader); id != "" {
		resp.RequestID = id
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", resp.RequestID, "error", err)
	}
	var re *httputil.RetryableError
	if status == http.StatusTooManyRequests && errors.As(err, &re) && re.After > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(re.After.Round(time.Second)/time.Second)))
	}
	writeJSON(w, status, resp)
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, feed.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, context.Canceled):
		return 499
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	switch werrors.GetCode(err) {
	case werrors.ErrCodeInvalidConfiguration, werrors.ErrCodeInvalidItem, werrors.ErrCodeInvalidInput,
		werrors.ErrCodeInvalidFormat, werrors.ErrCodeInvalidStyle, werrors.ErrCodeInvalidSource:
		return http.StatusBadRequest
	case werrors.ErrCodeNotFound:
		return http.StatusNotFound
	case werrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case werrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case werrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Middleware
// =============================================================================

// requestID echoes a caller's X-Request-ID or assigns a new UUID.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", w.Header().Get(requestIDHeader))
	})
}
