// Package styles provides the visual styles used by the SVG renderer.
//
// Two styles are available:
//
//   - [Simple]: flat outlined rectangles, suited to debugging layouts
//   - [Card]: rounded photo cards with a soft drop shadow
package styles

import (
	"bytes"
	"fmt"
)

// Style defines the visual appearance of a rendered gallery.
type Style interface {
	// Name returns the style identifier used on the command line.
	Name() string
	// RenderDefs writes SVG <defs> content (filters, clip paths).
	RenderDefs(buf *bytes.Buffer)
	// RenderBackground writes the frame background.
	RenderBackground(buf *bytes.Buffer, w, h float64)
	// RenderCard writes the SVG for a single tile.
	RenderCard(buf *bytes.Buffer, c Tile)
	// RenderLabel writes the SVG for a tile's label.
	RenderLabel(buf *bytes.Buffer, c Tile)
}

// Tile contains all data needed to draw a single item.
type Tile struct {
	ID         string  // Item identifier
	Label      string  // Display text
	X, Y, W, H float64 // Position and dimensions
	URL        string  // Optional image URL
}

// Names lists the available style names.
var Names = []string{"simple", "card"}

// ByName returns the style called name.
func ByName(name string) (Style, error) {
	switch name {
	case "", "card":
		return Card{}, nil
	case "simple":
		return Simple{}, nil
	default:
		return nil, fmt.Errorf("unknown style %q (want one of %v)", name, Names)
	}
}
