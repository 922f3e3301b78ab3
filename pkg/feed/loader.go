package feed

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/observability"
)

// Loader pages through a [Source]. It is safe for concurrent use; at most one
// load runs at a time and concurrent callers get [ErrBusy].
type Loader struct {
	src     Source
	perPage int
	logger  *log.Logger

	mu      sync.Mutex
	page    int
	loading bool
	photos  []Photo
	done    bool
}

// LoaderOption configures a [Loader].
type LoaderOption func(*Loader)

// WithPerPage sets the page size. Values below 1 are ignored.
func WithPerPage(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.perPage = n
		}
	}
}

// WithLogger sets the logger used for load events.
func WithLogger(logger *log.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader returns a loader positioned at page 1.
func NewLoader(src Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		src:     src,
		perPage: DefaultPerPage,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		page:    1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Source returns the underlying source.
func (l *Loader) Source() Source { return l.src }

// PerPage returns the page size.
func (l *Loader) PerPage() int { return l.perPage }

// Page returns the number of the next page to load.
func (l *Loader) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Exhausted reports whether the source returned an empty page.
func (l *Loader) Exhausted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}

// Photos returns a copy of every photo loaded so far, in load order.
func (l *Loader) Photos() []Photo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Photo(nil), l.photos...)
}

// LoadMore fetches the next page and returns its photos. The page counter
// only advances on success.
func (l *Loader) LoadMore(ctx context.Context) ([]Photo, error) {
	return l.load(ctx, false)
}

// Refresh loads page 1 again and, once it arrives, replaces every loaded
// photo with it. A failed refresh leaves the loader as it was.
func (l *Loader) Refresh(ctx context.Context) ([]Photo, error) {
	return l.load(ctx, true)
}

func (l *Loader) load(ctx context.Context, refresh bool) ([]Photo, error) {
	l.mu.Lock()
	if l.loading {
		l.mu.Unlock()
		return nil, ErrBusy
	}
	l.loading = true
	page := l.page
	if refresh {
		page = 1
	}
	l.mu.Unlock()

	photos, err := l.fetch(ctx, page)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if err != nil {
		return nil, err
	}
	if refresh {
		l.photos = nil
	}
	l.photos = append(l.photos, photos...)
	l.page = page + 1
	l.done = len(photos) == 0
	return photos, nil
}

func (l *Loader) fetch(ctx context.Context, page int) ([]Photo, error) {
	name := l.src.Name()
	hooks := observability.Pipeline()
	hooks.OnFeedStart(ctx, name, page)
	start := time.Now()

	photos, err := l.src.Page(ctx, page, l.perPage)

	hooks.OnFeedComplete(ctx, name, page, len(photos), time.Since(start), err)
	if err != nil {
		l.logger.Warn("load failed", "source", name, "page", page, "error", err)
		return nil, err
	}
	l.logger.Debug("loaded page", "source", name, "page", page, "photos", len(photos))
	return photos, nil
}
