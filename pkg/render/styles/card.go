package styles

import (
	"bytes"
	"fmt"
)

// Card corner and shadow radii.
const (
	CornerRadius = 10.0
	ShadowRadius = 3.0
)

// Card draws rounded photo cards with a drop shadow. When a card has a URL
// the image is embedded by reference and clipped to the rounded shape.
type Card struct{}

func (Card) Name() string { return "card" }

func (Card) RenderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <defs>
    <filter id="card-shadow" x="-20%%" y="-20%%" width="140%%" height="140%%">
      <feDropShadow dx="0" dy="1" stdDeviation="%.1f" flood-color="#000000" flood-opacity="0.25"/>
    </filter>
  </defs>
`, ShadowRadius)
}

func (Card) RenderBackground(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="#f2f2f7"/>`+"\n", w, h)
}

func (Card) RenderCard(buf *bytes.Buffer, c Tile) {
	id := EscapeXML(c.ID)
	fmt.Fprintf(buf, `  <rect id="card-%s" class="card" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.0f" ry="%.0f" fill="%s" filter="url(#card-shadow)"/>`+"\n",
		id, c.X, c.Y, c.W, c.H, CornerRadius, CornerRadius, Tone(c.ID))
	if c.URL == "" {
		return
	}
	fmt.Fprintf(buf, `  <clipPath id="clip-%s"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.0f" ry="%.0f"/></clipPath>`+"\n",
		id, c.X, c.Y, c.W, c.H, CornerRadius, CornerRadius)
	fmt.Fprintf(buf, `  <image href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="xMidYMid slice" clip-path="url(#clip-%s)"/>`+"\n",
		EscapeXML(c.URL), c.X, c.Y, c.W, c.H, id)
}

func (Card) RenderLabel(buf *bytes.Buffer, c Tile) {
	renderText(buf, c, "#3c3c43")
}
