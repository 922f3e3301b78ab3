package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/feed"
	wio "github.com/matzehuels/waterfall/pkg/io"
	"github.com/matzehuels/waterfall/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete feed → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Feed
	feedStart := time.Now()
	photos, feedHit, err := r.FeedWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	result.Photos = photos
	result.Stats.FeedTime = time.Since(feedStart)
	result.Stats.Photos = len(photos)
	result.CacheInfo.FeedHit = feedHit

	r.Logger.Info("loaded photos",
		"source", opts.Source,
		"photos", len(photos),
		"duration", result.Stats.FeedTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.LayoutWithCacheInfo(ctx, photos, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Placed = layout.Layout.Len()
	result.Stats.Rejected = len(layout.Rejected)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"columns", opts.Columns,
		"placed", result.Stats.Placed,
		"rejected", result.Stats.Rejected,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout.LayoutFile, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FeedWithCacheInfo loads photos with per-page caching and reports whether
// every page came from cache.
func (r *Runner) FeedWithCacheInfo(ctx context.Context, opts Options) ([]feed.Photo, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForFeed(); err != nil {
		return nil, false, err
	}

	src, err := NewSource(opts, r.Cache)
	if err != nil {
		return nil, false, err
	}
	if !opts.Cacheable() {
		photos, err := Feed(ctx, src, opts)
		return photos, false, err
	}

	cached := newCachedSource(src, r.Cache, r.Keyer, opts)
	photos, err := Feed(ctx, cached, opts)
	if err != nil {
		return nil, false, err
	}
	return photos, cached.allHits(), nil
}

// Feed is a convenience wrapper that calls FeedWithCacheInfo and discards the cache hit info.
func (r *Runner) Feed(ctx context.Context, opts Options) ([]feed.Photo, error) {
	photos, _, err := r.FeedWithCacheInfo(ctx, opts)
	return photos, err
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, photos []feed.Photo, opts Options) (LayoutResult, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return LayoutResult{}, false, err
	}

	// Scaled heights and URLs are part of the hashed items.
	photosHash, err := cache.HashJSON(struct {
		Photos []feed.Photo `json:"photos"`
		Scale  bool         `json:"scale"`
	}{photos, opts.Scale})
	if err != nil {
		return LayoutResult{}, false, fmt.Errorf("hash photos for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(photosHash, opts.LayoutKeyOpts())
	hooks := observability.Cache()

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached LayoutResult
		if err := json.Unmarshal(data, &cached); err == nil {
			hooks.OnCacheHit(ctx, "layout")
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}
	hooks.OnCacheMiss(ctx, "layout")

	layout, err := ComputeLayout(ctx, photos, opts)
	if err != nil {
		return LayoutResult{}, false, err
	}

	// Cache the result
	if data, err := json.Marshal(layout); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}

	return layout, false, nil // Cache miss
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, photos []feed.Photo, opts Options) (LayoutResult, error) {
	layout, _, err := r.LayoutWithCacheInfo(ctx, photos, opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, lf wio.LayoutFile, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutHash, err := cache.HashJSON(lf)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	hooks := observability.Cache()

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		hooks.OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	hooks.OnCacheMiss(ctx, "artifact")

	// Render all formats
	rendered, err := RenderFromLayout(ctx, lf, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, lf wio.LayoutFile, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, lf, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
