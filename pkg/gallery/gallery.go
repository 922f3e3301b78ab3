// Package gallery provides the live photo wall: a [feed.Loader] feeding a
// [masonry.Engine], with pagination, pull-to-refresh and column switching.
//
// A Gallery serializes every mutation of its engine, so it can be shared by
// HTTP handlers and UI loops.
package gallery

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	werrors "github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/feed"
	"github.com/matzehuels/waterfall/pkg/masonry"
	"github.com/matzehuels/waterfall/pkg/observability"
	"github.com/matzehuels/waterfall/pkg/render"
)

// DefaultColumns is the column count of a new gallery.
const DefaultColumns = 2

// Options configures a [Gallery].
type Options struct {
	// Columns is the initial column count (default 2).
	Columns int
	// Geometry is the frame the gallery is displayed in (default [render.DefaultGeometry]).
	Geometry render.Geometry
	// Scale derives item heights from the photo aspect ratio and the column
	// width. Without it, photo heights are used as display heights.
	Scale bool
	// Logger receives gallery events (default discard).
	Logger *log.Logger
}

// Gallery is safe for concurrent use. It owns its loader: the loader must not
// be driven directly once the gallery is built.
type Gallery struct {
	loader *feed.Loader
	geom   render.Geometry
	scale  bool
	logger *log.Logger

	// load is held from fetch to placement, so the engine always holds
	// exactly the photos the loader has.
	load sync.Mutex

	mu     sync.RWMutex
	engine *masonry.Engine
	photos map[string]feed.Photo
	next   int
	done   bool
}

// View is a consistent snapshot of a gallery.
type View struct {
	Layout      masonry.Layout
	Photos      map[string]feed.Photo
	Columns     int
	ColumnWidth float64
	Geometry    render.Geometry
	NextPage    int
	Exhausted   bool
}

// Scene positions the view in its geometry, attaching photo URLs.
func (v View) Scene() render.Scene {
	urls := make(map[string]string, len(v.Photos))
	for id, p := range v.Photos {
		urls[id] = p.URL
	}
	return render.Position(v.Layout, v.Geometry, render.WithURLs(urls))
}

// New creates an empty gallery reading from loader.
func New(loader *feed.Loader, opts Options) (*Gallery, error) {
	if opts.Columns == 0 {
		opts.Columns = DefaultColumns
	}
	if opts.Geometry == (render.Geometry{}) {
		opts.Geometry = render.DefaultGeometry()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	engine, err := masonry.New(opts.Columns)
	if err != nil {
		return nil, err
	}
	g := &Gallery{
		loader: loader,
		geom:   opts.Geometry,
		scale:  opts.Scale,
		logger: opts.Logger,
		engine: engine,
		photos: make(map[string]feed.Photo),
		next:   loader.Page(),
		done:   loader.Exhausted(),
	}
	if err := g.checkColumns(opts.Columns); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Gallery) checkColumns(n int) error {
	if err := werrors.ValidateColumns(n); err != nil {
		return err
	}
	if err := g.geom.Validate(n); err != nil {
		return werrors.Wrap(werrors.ErrCodeInvalidConfiguration, err, "cannot show %d columns", n)
	}
	return nil
}

// LoadMore fetches the next page and appends it to the layout. It returns the
// number of photos placed; photos with invalid heights are skipped and
// reported in the error alongside the successful placements. While another
// load or refresh is in flight it returns [feed.ErrBusy].
func (g *Gallery) LoadMore(ctx context.Context) (int, error) {
	if !g.load.TryLock() {
		return 0, feed.ErrBusy
	}
	defer g.load.Unlock()

	photos, err := g.loader.LoadMore(ctx)
	if err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	page := g.next
	g.next, g.done = g.loader.Page(), g.loader.Exhausted()
	placed, perr := g.placeLocked(photos)
	observability.Gallery().OnLoadMore(ctx, page, placed, len(photos)-placed)
	g.logger.Debug("page placed", "page", page, "placed", placed, "heights", g.engine.Heights())
	return placed, perr
}

// Refresh reloads the first page and replaces the layout with it. If the
// reload fails the current layout is kept. While another load or refresh is
// in flight it returns [feed.ErrBusy].
func (g *Gallery) Refresh(ctx context.Context) (int, error) {
	if !g.load.TryLock() {
		return 0, feed.ErrBusy
	}
	defer g.load.Unlock()

	photos, err := g.loader.Refresh(ctx)
	if err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.engine.Reset()
	clear(g.photos)
	g.next, g.done = g.loader.Page(), g.loader.Exhausted()
	placed, perr := g.placeLocked(photos)
	observability.Gallery().OnRefresh(ctx, g.engine.Columns())
	g.logger.Debug("refreshed", "placed", placed)
	return placed, perr
}

// SetColumns changes the column count and re-lays out every placed item in
// arrival order. An invalid count leaves the gallery unchanged.
func (g *Gallery) SetColumns(ctx context.Context, n int) error {
	if err := g.checkColumns(n); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	from := g.engine.Columns()
	if from == n {
		return nil
	}

	if g.scale {
		// heights depend on the column width, so rebuild from the photos
		items := g.engine.Items()
		if err := g.engine.ResetColumns(n); err != nil {
			return err
		}
		cw := g.geom.ColumnWidth(n)
		for _, it := range items {
			if p, ok := g.photos[it.ID]; ok && p.Width > 0 {
				it = feed.ToItem(p, cw)
			}
			// Items were validated when first placed.
			_, _ = g.engine.Place(it)
		}
	} else if err := g.engine.Reflow(n); err != nil {
		return err
	}

	observability.Gallery().OnReflow(ctx, from, n, g.engine.Len())
	g.logger.Debug("reflowed", "from", from, "to", n, "items", g.engine.Len())
	return nil
}

// Place appends caller-supplied items directly, bypassing the feed.
func (g *Gallery) Place(items []masonry.Item) ([]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.PlaceAll(items)
}

// Columns returns the current column count.
func (g *Gallery) Columns() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.Columns()
}

// ColumnWidth returns the current column width in frame units.
func (g *Gallery) ColumnWidth() float64 {
	return g.geom.ColumnWidth(g.Columns())
}

// Snapshot returns a copy of the gallery state.
func (g *Gallery) Snapshot() View {
	g.mu.RLock()
	defer g.mu.RUnlock()
	photos := make(map[string]feed.Photo, len(g.photos))
	for id, p := range g.photos {
		photos[id] = p
	}
	n := g.engine.Columns()
	return View{
		Layout:      g.engine.Snapshot(),
		Photos:      photos,
		Columns:     n,
		ColumnWidth: g.geom.ColumnWidth(n),
		Geometry:    g.geom,
		NextPage:    g.next,
		Exhausted:   g.done,
	}
}

func (g *Gallery) placeLocked(photos []feed.Photo) (int, error) {
	cw := 0.0
	if g.scale {
		cw = g.geom.ColumnWidth(g.engine.Columns())
	}
	cols, err := g.engine.PlaceAll(feed.ToItems(photos, cw))
	placed := 0
	for i, c := range cols {
		if c >= 0 {
			g.photos[photos[i].ID] = photos[i]
			placed++
		}
	}
	return placed, err
}
