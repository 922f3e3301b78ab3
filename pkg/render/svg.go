package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/waterfall/pkg/render/styles"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style  styles.Style
	labels bool
	images bool
}

// WithStyle sets the visual style (default [styles.Card]).
func WithStyle(s styles.Style) SVGOption {
	return func(r *svgRenderer) {
		if s != nil {
			r.style = s
		}
	}
}

// WithLabels draws each item's ID on its card.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithoutImages keeps cards as placeholders even when they carry URLs.
func WithoutImages() SVGOption { return func(r *svgRenderer) { r.images = false } }

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(s Scene, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Card{}, images: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-columns="%d">`+"\n",
		s.Width, s.Height, s.Width, s.Height, s.Columns)

	r.style.RenderDefs(&buf)
	r.style.RenderBackground(&buf, s.Width, s.Height)

	tiles := make([]styles.Tile, len(s.Cards))
	for i, c := range s.Cards {
		tiles[i] = styles.Tile{ID: c.ID, Label: c.ID, X: c.X, Y: c.Y, W: c.Width, H: c.Height}
		if r.images {
			tiles[i].URL = c.URL
		}
	}
	for _, t := range tiles {
		r.style.RenderCard(&buf, t)
	}
	if r.labels {
		for _, t := range tiles {
			r.style.RenderLabel(&buf, t)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
