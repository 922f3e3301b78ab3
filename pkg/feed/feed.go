package feed

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/matzehuels/waterfall/pkg/masonry"
)

// DefaultPerPage is the page size used when none is configured.
const DefaultPerPage = 10

// ErrBusy is returned when a load is requested while another one is in flight.
var ErrBusy = errors.New("feed: load already in progress")

// Photo is a single entry in a feed. Width and Height are the intrinsic pixel
// dimensions; a zero Width means only the display height is known.
type Photo struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height"`
	Author string `json:"author,omitempty"`
}

// Source returns pages of photos. Pages are numbered from 1.
type Source interface {
	// Name identifies the source in logs and cache keys.
	Name() string
	// Page fetches one page. An empty slice means the source is exhausted.
	Page(ctx context.Context, page, perPage int) ([]Photo, error)
}

// ToItem converts p into a layout item whose height is scaled to columnWidth,
// preserving the aspect ratio. When either width is unknown the raw height is used.
//
// Invalid heights pass through unchanged so the engine can reject them.
func ToItem(p Photo, columnWidth float64) masonry.Item {
	h := float64(p.Height)
	if p.Width > 0 && columnWidth > 0 {
		h = columnWidth * float64(p.Height) / float64(p.Width)
	}
	return masonry.Item{ID: p.ID, Height: h}
}

// ToItems converts photos with [ToItem].
func ToItems(photos []Photo, columnWidth float64) []masonry.Item {
	items := make([]masonry.Item, len(photos))
	for i, p := range photos {
		items[i] = ToItem(p, columnWidth)
	}
	return items
}

// PicsumURL returns the placeholder image URL for a photo of the given size.
func PicsumURL(width, height int) string {
	return "https://picsum.photos/" + strconv.Itoa(width) + "/" + strconv.Itoa(height)
}

func checkPage(page, perPage int) error {
	if page < 1 {
		return fmt.Errorf("feed: page %d out of range", page)
	}
	if perPage < 1 {
		return fmt.Errorf("feed: per-page %d out of range", perPage)
	}
	return nil
}
