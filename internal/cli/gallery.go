package cli

import (
	"context"
	"fmt"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/feed"
	"github.com/matzehuels/waterfall/pkg/gallery"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

// newGallery builds a live gallery over the configured source. The returned
// cache backs remote HTTP responses and must be closed by the caller.
func (c *CLI) newGallery(ctx context.Context, opts pipeline.Options, noCache bool) (*gallery.Gallery, cache.Cache, error) {
	if err := opts.ValidateForFeed(); err != nil {
		return nil, nil, err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return nil, nil, err
	}

	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	src, err := pipeline.NewSource(opts, store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	logger := loggerFromContext(ctx)
	loader := feed.NewLoader(src, feed.WithPerPage(opts.PerPage), feed.WithLogger(logger))
	g, err := gallery.New(loader, gallery.Options{
		Columns:  opts.Columns,
		Geometry: opts.Geometry(),
		Scale:    opts.Scale,
		Logger:   logger,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return g, store, nil
}
