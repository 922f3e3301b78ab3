package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/waterfall/pkg/feed"
	wio "github.com/matzehuels/waterfall/pkg/io"
	"github.com/matzehuels/waterfall/pkg/masonry"
	"github.com/matzehuels/waterfall/pkg/observability"
)

// =============================================================================
// Layout Stage
// =============================================================================

// LayoutResult is a placed layout together with the items the engine refused.
type LayoutResult struct {
	wio.LayoutFile
	Rejected []string `json:"rejected,omitempty"`
}

// ComputeLayout places photos into opts.Columns columns in arrival order.
//
// Photos with invalid heights are skipped and listed in Rejected; they never
// fail the layout as a whole.
func ComputeLayout(ctx context.Context, photos []feed.Photo, opts Options) (LayoutResult, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return LayoutResult{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Columns, len(photos))
	start := time.Now()

	result, err := computeLayout(photos, opts)

	hooks.OnLayoutComplete(ctx, opts.Columns, time.Since(start), err)
	return result, err
}

func computeLayout(photos []feed.Photo, opts Options) (LayoutResult, error) {
	eng, err := masonry.New(opts.Columns)
	if err != nil {
		return LayoutResult{}, err
	}

	items := feed.ToItems(photos, opts.ColumnWidth())
	cols, placeErr := eng.PlaceAll(items)

	var rejected []string
	for i, c := range cols {
		if c < 0 {
			rejected = append(rejected, items[i].ID)
		}
	}
	if placeErr != nil {
		opts.Logger.Warn("skipped invalid items", "count", len(rejected), "error", placeErr)
	}

	urls := make(map[string]string, len(photos))
	for i, p := range photos {
		if p.URL != "" && cols[i] >= 0 {
			urls[p.ID] = p.URL
		}
	}

	return LayoutResult{
		LayoutFile: wio.LayoutFile{
			Layout:   eng.Snapshot(),
			Geometry: opts.Geometry(),
			URLs:     urls,
		},
		Rejected: rejected,
	}, nil
}
