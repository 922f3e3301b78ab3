package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"hash/fnv"
)

const (
	fontHeightRatio = 0.3
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 16.0
)

// FontSize returns a label size that fits c.
func FontSize(c Tile) float64 {
	n := max(1, len(c.Label))
	byHeight := c.H * fontHeightRatio
	byWidth := (c.W * 0.85) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// TruncateLabel shortens the label to what fits the card width.
func TruncateLabel(c Tile) string {
	maxChars := max(3, int(c.W*0.85/(FontSize(c)*fontCharWidth)))
	if len(c.Label) <= maxChars {
		return c.Label
	}
	return c.Label[:maxChars-2] + ".."
}

// EscapeXML escapes s for use in SVG text and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Tone returns a deterministic pastel fill for id.
func Tone(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	v := h.Sum32()
	r := 180 + int(v&0x3f)
	g := 180 + int((v>>8)&0x3f)
	b := 180 + int((v>>16)&0x3f)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func renderText(buf *bytes.Buffer, c Tile, fill string) {
	size := FontSize(c)
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		c.X+c.W/2, c.Y+c.H/2, size, fill, EscapeXML(TruncateLabel(c)))
}
