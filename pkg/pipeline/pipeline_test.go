package pipeline

import (
	"bytes"
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/waterfall/pkg/cache"
	werrors "github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/feed"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"card", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
		if err != nil && !werrors.Is(err, werrors.ErrCodeInvalidStyle) {
			t.Errorf("ValidateStyle(%q) code = %s, want INVALID_STYLE", tt.style, werrors.GetCode(err))
		}
	}
}

func TestValidateSource(t *testing.T) {
	tests := []struct {
		source  string
		wantErr bool
	}{
		{"random", false},
		{"sample", false},
		{"picsum", false},
		{"unsplash", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateSource(tt.source)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSource(%q) error = %v, wantErr %v", tt.source, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.Source != DefaultSource {
		t.Errorf("Source = %q, want %q", opts.Source, DefaultSource)
	}
	if opts.Pages != DefaultPages || opts.PerPage != feed.DefaultPerPage {
		t.Errorf("Pages = %d, PerPage = %d", opts.Pages, opts.PerPage)
	}
	if opts.Columns != DefaultColumns {
		t.Errorf("Columns = %d, want %d", opts.Columns, DefaultColumns)
	}
	if opts.Width != 430 || opts.Gap != 10 || opts.Padding != 10 {
		t.Errorf("geometry = %+v", opts.Geometry())
	}
	if !slices.Equal(opts.Formats, []string{FormatSVG}) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style = %q, want %q", opts.Style, DefaultStyle)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateForLayout(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		code    werrors.Code
		wantErr bool
	}{
		{"defaults", Options{}, "", false},
		{"max columns", Options{Columns: werrors.MaxColumns}, "", false},
		{"negative columns", Options{Columns: -1}, werrors.ErrCodeInvalidConfiguration, true},
		{"too many columns", Options{Columns: werrors.MaxColumns + 1}, werrors.ErrCodeInvalidConfiguration, true},
		{"negative gap", Options{Gap: -5}, werrors.ErrCodeInvalidConfiguration, true},
		{"frame too narrow", Options{Columns: 40, Width: 100}, werrors.ErrCodeInvalidConfiguration, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateForLayout() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !werrors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", werrors.GetCode(err), tt.code)
			}
		})
	}
}

func TestOptionsValidateForFeed(t *testing.T) {
	opts := Options{Source: "flickr"}
	if err := opts.ValidateForFeed(); !werrors.Is(err, werrors.ErrCodeInvalidSource) {
		t.Errorf("unknown source: error = %v, want INVALID_SOURCE", err)
	}

	opts = Options{Pages: -1}
	if err := opts.ValidateForFeed(); !werrors.Is(err, werrors.ErrCodeInvalidInput) {
		t.Errorf("negative pages: error = %v, want INVALID_INPUT", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Columns: 3, Style: "simple"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if first.Columns != opts.Columns || first.Style != opts.Style || !slices.Equal(first.Formats, opts.Formats) {
		t.Errorf("second call changed options: %+v -> %+v", first, opts)
	}
}

func TestOptionsColumnWidth(t *testing.T) {
	opts := Options{Columns: 2}
	opts.SetLayoutDefaults()
	if got := opts.ColumnWidth(); got != 0 {
		t.Errorf("ColumnWidth() without Scale = %v, want 0", got)
	}
	opts.Scale = true
	if got := opts.ColumnWidth(); got != 200 {
		t.Errorf("ColumnWidth() = %v, want 200", got)
	}
}

func TestOptionsCacheable(t *testing.T) {
	tests := []struct {
		opts Options
		want bool
	}{
		{Options{Source: SourceRandom}, false},
		{Options{Source: SourceRandom, Seed: 7}, true},
		{Options{Source: SourceSample}, true},
		{Options{Source: SourcePicsum}, true},
	}
	for _, tt := range tests {
		if got := tt.opts.Cacheable(); got != tt.want {
			t.Errorf("%s seed=%d: Cacheable() = %v, want %v", tt.opts.Source, tt.opts.Seed, got, tt.want)
		}
	}
}

func TestComputeLayout(t *testing.T) {
	opts := Options{Columns: 2}
	l, err := ComputeLayout(context.Background(), feed.SamplePhotos(), opts)
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	if got := l.Layout.Heights(); !slices.Equal(got, []float64{1490, 1690}) {
		t.Errorf("Heights() = %v, want [1490 1690]", got)
	}
	if l.Layout.Len() != 10 {
		t.Errorf("Len() = %d, want 10", l.Layout.Len())
	}
	if len(l.Rejected) != 0 {
		t.Errorf("Rejected = %v, want none", l.Rejected)
	}
	if len(l.URLs) != 10 {
		t.Errorf("len(URLs) = %d, want 10", len(l.URLs))
	}
}

func TestComputeLayoutRejectsInvalid(t *testing.T) {
	photos := []feed.Photo{
		{ID: "a", URL: "https://example.com/a", Height: 100},
		{ID: "zero", URL: "https://example.com/zero", Height: 0},
		{ID: "b", Height: 50},
		{ID: "neg", Height: -10},
	}
	l, err := ComputeLayout(context.Background(), photos, Options{Columns: 2})
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	if !slices.Equal(l.Rejected, []string{"zero", "neg"}) {
		t.Errorf("Rejected = %v, want [zero neg]", l.Rejected)
	}
	if got := l.Layout.Heights(); !slices.Equal(got, []float64{100, 50}) {
		t.Errorf("Heights() = %v, want [100 50]", got)
	}
	if _, ok := l.URLs["zero"]; ok {
		t.Error("rejected item should not keep its URL")
	}
}

func TestComputeLayoutScaled(t *testing.T) {
	photos := []feed.Photo{
		{ID: "wide", Width: 400, Height: 200},
		{ID: "tall", Width: 100, Height: 300},
	}
	l, err := ComputeLayout(context.Background(), photos, Options{Columns: 2, Scale: true})
	if err != nil {
		t.Fatal(err)
	}
	// Column width is (430 - 2*10 - 10) / 2 = 200.
	if got := l.Layout.Heights(); !slices.Equal(got, []float64{100, 600}) {
		t.Errorf("Heights() = %v, want [100 600]", got)
	}
}

func TestRenderFromLayout(t *testing.T) {
	ctx := context.Background()
	opts := Options{Columns: 3, Formats: []string{FormatSVG, FormatJSON}, Labels: true}
	l, err := ComputeLayout(ctx, feed.SamplePhotos(), opts)
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := RenderFromLayout(ctx, l.LayoutFile, opts)
	if err != nil {
		t.Fatalf("RenderFromLayout() error = %v", err)
	}
	if !bytes.Contains(artifacts[FormatSVG], []byte(`data-columns="3"`)) {
		t.Error("svg should record the column count")
	}
	if !bytes.Contains(artifacts[FormatSVG], []byte("sample-01")) {
		t.Error("svg should include labels")
	}
	if !bytes.Contains(artifacts[FormatJSON], []byte(`"cards"`)) {
		t.Errorf("json = %s", artifacts[FormatJSON])
	}
}

func TestRunnerExecuteCaches(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	opts := Options{Source: SourceSample, Columns: 2, Formats: []string{FormatSVG}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.FeedHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if first.Stats.Photos != 10 || first.Stats.Placed != 10 || first.Stats.Rejected != 0 {
		t.Errorf("Stats = %+v", first.Stats)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.FeedHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit every stage: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}
	if !slices.Equal(second.Layout.Layout.Heights(), []float64{1490, 1690}) {
		t.Errorf("cached heights = %v", second.Layout.Layout.Heights())
	}

	// A different column count reuses the feed but recomputes the layout.
	opts.Columns = 3
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheInfo.FeedHit || third.CacheInfo.LayoutHit {
		t.Errorf("column change: %+v", third.CacheInfo)
	}
}

func TestRunnerFeedUnseededRandomSkipsCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	ctx := context.Background()
	opts := Options{Source: SourceRandom, Pages: 2, PerPage: 5}

	for range 2 {
		photos, hit, err := r.FeedWithCacheInfo(ctx, opts)
		if err != nil {
			t.Fatal(err)
		}
		if hit {
			t.Error("unseeded random feed should never hit the cache")
		}
		if len(photos) != 10 {
			t.Errorf("len(photos) = %d, want 10", len(photos))
		}
	}
}

func TestRunnerFeedSeededRandom(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{Source: SourceRandom, Seed: 42, Pages: 3, PerPage: 4}

	a, err := r.Feed(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Feed(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 12 || !slices.Equal(a, b) {
		t.Errorf("seeded feeds differ or are short: %d vs %d photos", len(a), len(b))
	}
}

func TestRunnerFeedSampleExhausts(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	photos, err := r.Feed(context.Background(), Options{Source: SourceSample, Pages: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(photos) != 10 {
		t.Errorf("len(photos) = %d, want 10", len(photos))
	}
}
