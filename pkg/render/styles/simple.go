package styles

import (
	"bytes"
	"fmt"
)

// Simple draws outlined rectangles on white.
type Simple struct{}

func (Simple) Name() string { return "simple" }

func (Simple) RenderDefs(*bytes.Buffer) {}

func (Simple) RenderBackground(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="#ffffff"/>`+"\n", w, h)
}

func (Simple) RenderCard(buf *bytes.Buffer, c Tile) {
	fmt.Fprintf(buf, `  <rect id="card-%s" class="card" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="#333333" stroke-width="1"/>`+"\n",
		EscapeXML(c.ID), c.X, c.Y, c.W, c.H, Tone(c.ID))
}

func (Simple) RenderLabel(buf *bytes.Buffer, c Tile) {
	renderText(buf, c, "#333333")
}
