// Package pipeline provides the feed → layout → render pipeline shared by the
// CLI commands and the HTTP gallery.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Feed: Load pages of photos from a source (random, sample, picsum)
//  2. Layout: Place the photos into columns with the masonry engine
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each is cached under a key derived from every option that affects it.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "sample",
//	    Columns: 3,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	photos, err := runner.Feed(ctx, opts)
//	layout, err := runner.Layout(ctx, photos, opts)
//	artifacts, err := runner.Render(ctx, layout.LayoutFile, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/cache"
	werrors "github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/feed"
	"github.com/matzehuels/waterfall/pkg/render"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultColumns is the default column count.
	DefaultColumns = 2

	// DefaultPages is the number of feed pages loaded per run.
	DefaultPages = 1

	// DefaultSource is the default photo source.
	DefaultSource = SourceRandom

	// DefaultStyle is the default visual style.
	DefaultStyle = "card"

	// DefaultPNGScale renders PNGs at 2x.
	DefaultPNGScale = 2.0
)

// Photo sources.
const (
	SourceRandom = "random"
	SourceSample = "sample"
	SourcePicsum = "picsum"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidSources is the set of supported photo sources.
var ValidSources = map[string]bool{
	SourceRandom: true,
	SourceSample: true,
	SourcePicsum: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Feed options
	Source  string `json:"source,omitempty"`
	Pages   int    `json:"pages,omitempty"`
	PerPage int    `json:"per_page,omitempty"`
	Seed    int64  `json:"seed,omitempty"` // random source seed; 0 picks one and disables feed caching
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	Columns int     `json:"columns,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Gap     float64 `json:"gap,omitempty"`
	Padding float64 `json:"padding,omitempty"`
	Scale   bool    `json:"scale,omitempty"` // scale photo heights to the column width

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Labels   bool     `json:"labels,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger   `json:"-"`
	CacheTTL time.Duration `json:"-"` // feed page and HTTP response TTL; 0 uses cache.TTLPage

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Photos is every photo loaded by the feed stage, in arrival order.
	Photos []feed.Photo

	// Layout is the computed layout and the IDs of rejected items.
	Layout LayoutResult

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Photos     int
	Placed     int
	Rejected   int
	FeedTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FeedHit   bool // Whether every feed page came from cache
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return werrors.New(werrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !slices.Contains(styles.Names, style) {
		return werrors.New(werrors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: simple, card)", style)
	}
	return nil
}

// ValidateSource checks that a photo source is valid.
func ValidateSource(source string) error {
	if !ValidSources[source] {
		return werrors.New(werrors.ErrCodeInvalidSource, "invalid source: %q (must be one of: random, sample, picsum)", source)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every stage's fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFeed(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetFeedDefaults sets default values for the feed stage.
func (o *Options) SetFeedDefaults() {
	if o.Source == "" {
		o.Source = DefaultSource
	}
	if o.Pages == 0 {
		o.Pages = DefaultPages
	}
	if o.PerPage == 0 {
		o.PerPage = feed.DefaultPerPage
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForFeed validates and sets defaults for the feed stage.
func (o *Options) ValidateForFeed() error {
	o.SetFeedDefaults()
	if err := ValidateSource(o.Source); err != nil {
		return err
	}
	if o.Pages < 1 || o.PerPage < 1 {
		return werrors.New(werrors.ErrCodeInvalidInput, "pages and per-page must be at least 1")
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if o.Width == 0 {
		o.Width = render.DefaultWidth
	}
	if o.Gap == 0 {
		o.Gap = render.DefaultGap
	}
	if o.Padding == 0 {
		o.Padding = render.DefaultPadding
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := werrors.ValidateColumns(o.Columns); err != nil {
		return err
	}
	if err := o.Geometry().Validate(o.Columns); err != nil {
		return werrors.Wrap(werrors.ErrCodeInvalidConfiguration, err, "geometry")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// Geometry returns the frame described by the layout options.
func (o *Options) Geometry() render.Geometry {
	return render.Geometry{Width: o.Width, Gap: o.Gap, Padding: o.Padding}
}

// ColumnWidth returns the width items are scaled to, or 0 without Scale.
func (o *Options) ColumnWidth() float64 {
	if !o.Scale {
		return 0
	}
	return o.Geometry().ColumnWidth(o.Columns)
}

// PageKeyOpts returns cache key options for one feed page.
func (o *Options) PageKeyOpts(page int) cache.PageKeyOpts {
	return cache.PageKeyOpts{Page: page, PerPage: o.PerPage, Seed: uint64(o.Seed)}
}

// PageTTL returns the TTL for cached feed pages and HTTP responses.
func (o *Options) PageTTL() time.Duration {
	if o.CacheTTL > 0 {
		return o.CacheTTL
	}
	return cache.TTLPage
}

// LayoutKeyOpts returns cache key options for layout computation.
// Scaled item heights are already part of the items hash.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Columns: o.Columns,
		Width:   o.Width,
		Gap:     o.Gap,
		Padding: o.Padding,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Style:  o.Style,
		Labels: o.Labels,
	}
}

// String summarizes the options for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("source=%s pages=%d columns=%d style=%s", o.Source, o.Pages, o.Columns, o.Style)
}
