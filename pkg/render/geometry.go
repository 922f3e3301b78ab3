package render

import (
	"fmt"
	"math"

	"github.com/matzehuels/waterfall/pkg/masonry"
)

// Default frame geometry: a phone-width frame with 10pt spacing.
const (
	DefaultWidth   = 430.0
	DefaultGap     = 10.0
	DefaultPadding = 10.0
)

// Geometry describes the frame a layout is drawn into.
type Geometry struct {
	Width   float64 `json:"width" toml:"width"`
	Gap     float64 `json:"gap" toml:"gap"`
	Padding float64 `json:"padding" toml:"padding"`
}

// DefaultGeometry returns the default frame.
func DefaultGeometry() Geometry {
	return Geometry{Width: DefaultWidth, Gap: DefaultGap, Padding: DefaultPadding}
}

// ColumnWidth returns the width of each of n columns. It returns 0 when the
// frame is too narrow or n < 1.
func (g Geometry) ColumnWidth(n int) float64 {
	if n < 1 {
		return 0
	}
	w := (g.Width - 2*g.Padding - float64(n-1)*g.Gap) / float64(n)
	return max(w, 0)
}

// ColumnX returns the left edge of column i.
func (g Geometry) ColumnX(i, n int) float64 {
	return g.Padding + float64(i)*(g.ColumnWidth(n)+g.Gap)
}

// Validate reports geometry that cannot hold n columns.
func (g Geometry) Validate(n int) error {
	fields := []struct {
		name string
		v    float64
	}{{"width", g.Width}, {"gap", g.Gap}, {"padding", g.Padding}}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("invalid %s %v", f.name, f.v)
		}
	}
	if g.ColumnWidth(n) <= 0 {
		return fmt.Errorf("frame width %v too narrow for %d columns", g.Width, n)
	}
	return nil
}

// Card is one positioned item in a [Scene].
type Card struct {
	ID     string  `json:"id"`
	Column int     `json:"column"`
	Row    int     `json:"row"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	URL    string  `json:"url,omitempty"`
}

// Scene is a layout placed in a frame.
type Scene struct {
	Geometry    Geometry  `json:"geometry"`
	Columns     int       `json:"columns"`
	ColumnWidth float64   `json:"column_width"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Heights     []float64 `json:"heights"`
	Cards       []Card    `json:"cards"`
}

// PositionOption configures [Position].
type PositionOption func(*positioner)

type positioner struct {
	urls map[string]string
}

// WithURLs attaches image URLs to cards by item ID.
func WithURLs(urls map[string]string) PositionOption {
	return func(p *positioner) { p.urls = urls }
}

// Position places every item of l into g. Cards are ordered column by column,
// top to bottom. The scene height covers the tallest column plus padding.
func Position(l masonry.Layout, g Geometry, opts ...PositionOption) Scene {
	var p positioner
	for _, opt := range opts {
		opt(&p)
	}

	n := len(l.Columns)
	cw := g.ColumnWidth(n)
	s := Scene{
		Geometry:    g,
		Columns:     n,
		ColumnWidth: cw,
		Width:       g.Width,
		Heights:     l.Heights(),
		Cards:       make([]Card, 0, l.Len()),
	}

	bottom := 0.0
	for c, col := range l.Columns {
		x := g.ColumnX(c, n)
		y := g.Padding
		for r, it := range col.Items {
			if r > 0 {
				y += g.Gap
			}
			s.Cards = append(s.Cards, Card{
				ID:     it.ID,
				Column: c,
				Row:    r,
				X:      x,
				Y:      y,
				Width:  cw,
				Height: it.Height,
				URL:    p.urls[it.ID],
			})
			y += it.Height
		}
		bottom = max(bottom, y)
	}
	s.Height = max(bottom, g.Padding) + g.Padding
	return s
}
