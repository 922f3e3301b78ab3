// Package cli implements the waterfall command-line interface.
//
// This package provides commands for loading photo feeds, computing masonry
// layouts, rendering them, browsing a live gallery in the terminal, serving
// it over HTTP, and managing the cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - feed: Load pages of photos into items.json
//   - layout: Place items into columns and write layout.json
//   - visualize: Render a layout.json to SVG, PNG, PDF or JSON
//   - render: Run feed, layout and visualize in one step
//   - browse: Scroll an interactive wall in the terminal
//   - serve: Expose a gallery over HTTP
//   - cache: Manage the cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces feed pages, layout and render stages, cache lookups and HTTP calls.
// Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Loaded 30 photos (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks writes every observability event to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

// installLogHooks routes all observability events to l.
func installLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("trace")}
	observability.SetPipelineHooks(h)
	observability.SetGalleryHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnFeedStart(_ context.Context, source string, page int) {
	h.logger.Debug("feed start", "source", source, "page", page)
}

func (h logHooks) OnFeedComplete(_ context.Context, source string, page, count int, d time.Duration, err error) {
	h.logger.Debug("feed done", "source", source, "page", page, "photos", count, "duration", d, "error", err)
}

func (h logHooks) OnLayoutStart(_ context.Context, columns, items int) {
	h.logger.Debug("layout start", "columns", columns, "items", items)
}

func (h logHooks) OnLayoutComplete(_ context.Context, columns int, d time.Duration, err error) {
	h.logger.Debug("layout done", "columns", columns, "duration", d, "error", err)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render done", "formats", formats, "duration", d, "error", err)
}

func (h logHooks) OnLoadMore(_ context.Context, page, placed, rejected int) {
	h.logger.Debug("load more", "page", page, "placed", placed, "rejected", rejected)
}

func (h logHooks) OnRefresh(_ context.Context, columns int) {
	h.logger.Debug("refresh", "columns", columns)
}

func (h logHooks) OnReflow(_ context.Context, from, to, items int) {
	h.logger.Debug("reflow", "from", from, "to", to, "items", items)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}
