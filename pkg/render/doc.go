// Package render turns masonry layouts into pictures.
//
// # Overview
//
// Rendering happens in two steps. [Position] converts an abstract
// [masonry.Layout] into a [Scene] of absolutely positioned cards using a
// [Geometry] (frame width, gap and padding). Sinks then write the scene:
//
//   - [RenderSVG]: vector output, styled by a [styles.Style]
//   - [RenderJSON]: the card positions for external tools
//   - [RenderPNG], [RenderPDF]: raster and print output via rsvg-convert
//
// # Geometry
//
// Columns share the frame width equally after removing the padding on both
// sides and the gaps between columns:
//
//	columnWidth = (Width - 2*Padding - (columns-1)*Gap) / columns
//
// Within a column, cards stack top-down in arrival order, separated by Gap.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The tool is killed when the
// context is done; without it these functions return an UNSUPPORTED error.
//
//	scene := render.Position(layout, render.DefaultGeometry())
//	svg := render.RenderSVG(scene, render.WithStyle(styles.Card{}))
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [masonry.Layout]: github.com/matzehuels/waterfall/pkg/masonry.Layout
// [styles.Style]: github.com/matzehuels/waterfall/pkg/render/styles.Style
package render
