package pipeline

import (
	"context"
	"fmt"
	"time"

	wio "github.com/matzehuels/waterfall/pkg/io"
	"github.com/matzehuels/waterfall/pkg/observability"
	"github.com/matzehuels/waterfall/pkg/render"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

// =============================================================================
// Render Stage
// =============================================================================

// RenderFromLayout generates output artifacts in the requested formats.
func RenderFromLayout(ctx context.Context, lf wio.LayoutFile, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderScene(ctx, lf.Scene(), opts)

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderScene(ctx context.Context, scene render.Scene, opts Options) (map[string][]byte, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []render.SVGOption{render.WithStyle(style)}
	if opts.Labels {
		svgOpts = append(svgOpts, render.WithLabels())
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.RenderSVG(scene, svgOpts...)
		case FormatJSON:
			data, err = render.RenderJSON(scene, render.WithJSONStyle(opts.Style))
		case FormatPNG:
			data, err = render.RenderPNG(ctx, scene,
				render.WithPNGSVGOptions(svgOpts...),
				render.WithScale(opts.PNGScale))
		case FormatPDF:
			data, err = render.RenderPDF(ctx, scene, render.WithPDFSVGOptions(svgOpts...))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
