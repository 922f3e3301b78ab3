package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	wio "github.com/matzehuels/waterfall/pkg/io"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.baseOptions()

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a computed layout",
		Long: `Render a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it to SVG, PNG, PDF or JSON. The layout records its columns and frame
geometry, so this step is purely about drawing.

PNG and PDF output require rsvg-convert (librsvg) on the PATH.

Use 'render' as a shortcut to go directly from a photo source to output.`,
		Args: cobra.ExactArgs(1),
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Render flags
	formats := addRenderFlags(cmd, &opts)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts.Formats = parseFormats(*formats)
		if err := pipeline.ValidateFormats(opts.Formats); err != nil {
			return err
		}
		if err := pipeline.ValidateStyle(opts.Style); err != nil {
			return err
		}
		return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
	}

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	lf, err := wio.ImportLayout(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	// The recorded geometry wins over configured defaults.
	opts.Columns = len(lf.Layout.Columns)
	opts.Width, opts.Gap, opts.Padding = lf.Geometry.Width, lf.Geometry.Gap, lf.Geometry.Padding

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %d items...", lf.Layout.Len()))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, lf, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  cacheHit,
	})
}
