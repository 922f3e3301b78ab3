package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/feed"
	"github.com/matzehuels/waterfall/pkg/integrations/picsum"
	"github.com/matzehuels/waterfall/pkg/observability"
)

// =============================================================================
// Feed Stage
// =============================================================================

// NewSource builds the photo source named by opts.Source.
//
// Remote sources share c for raw HTTP responses. A nil cache disables caching.
func NewSource(opts Options, c cache.Cache) (feed.Source, error) {
	opts.SetFeedDefaults()
	switch opts.Source {
	case SourceRandom:
		return feed.NewRandomSource(opts.Seed), nil
	case SourceSample:
		return feed.SampleSource{}, nil
	case SourcePicsum:
		return picsum.NewClient(c, opts.PageTTL()).WithRefresh(opts.Refresh), nil
	}
	return nil, ValidateSource(opts.Source)
}

// Feed loads opts.Pages pages from the configured source without page caching.
func Feed(ctx context.Context, src feed.Source, opts Options) ([]feed.Photo, error) {
	if err := opts.ValidateForFeed(); err != nil {
		return nil, err
	}
	loader := feed.NewLoader(src, feed.WithPerPage(opts.PerPage), feed.WithLogger(opts.Logger))
	for loader.Page() <= opts.Pages && !loader.Exhausted() {
		if _, err := loader.LoadMore(ctx); err != nil {
			return nil, fmt.Errorf("load page %d: %w", loader.Page(), err)
		}
	}
	return loader.Photos(), nil
}

// cachedSource stores whole pages under the page key.
type cachedSource struct {
	feed.Source
	cache   cache.Cache
	keyer   cache.Keyer
	opts    Options
	refresh bool

	hits   atomic.Int32
	misses atomic.Int32
}

// Cacheable reports whether pages of the configured source are deterministic
// enough to cache. Unseeded random feeds differ on every run.
func (o *Options) Cacheable() bool {
	return !(o.Source == SourceRandom && o.Seed == 0)
}

func newCachedSource(src feed.Source, c cache.Cache, k cache.Keyer, opts Options) *cachedSource {
	return &cachedSource{Source: src, cache: c, keyer: k, opts: opts, refresh: opts.Refresh}
}

func (s *cachedSource) Page(ctx context.Context, page, perPage int) ([]feed.Photo, error) {
	key := s.keyer.PageKey(s.Name(), s.opts.PageKeyOpts(page))
	hooks := observability.Cache()

	if !s.refresh {
		if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
			var photos []feed.Photo
			if err := json.Unmarshal(data, &photos); err == nil {
				hooks.OnCacheHit(ctx, "page")
				s.hits.Add(1)
				return photos, nil
			}
		}
	}
	hooks.OnCacheMiss(ctx, "page")
	s.misses.Add(1)

	photos, err := s.Source.Page(ctx, page, perPage)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(photos); err == nil {
		if err := s.cache.Set(ctx, key, data, s.opts.PageTTL()); err == nil {
			hooks.OnCacheSet(ctx, "page", len(data))
		}
	}
	return photos, nil
}

// allHits reports whether every page request was served from cache.
func (s *cachedSource) allHits() bool {
	return s.misses.Load() == 0 && s.hits.Load() > 0
}
