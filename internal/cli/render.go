package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/pipeline"
)

// defaultRenderBase is the output base path of 'render' when -o is not given.
const defaultRenderBase = "waterfall"

// renderCommand creates the render command that runs the full pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.baseOptions()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Load, lay out and render a photo wall in one step",
		Long: `Load, lay out and render a photo wall in one step.

The render command is a shortcut for 'feed', 'layout' and 'visualize'. Each
stage is cached separately, so changing only the style re-renders without
reloading photos or recomputing the layout.

Examples:
  waterfall render --source sample -c 3
  waterfall render --source picsum --pages 3 --scale -f svg,png -o wall`,
		Args: cobra.NoArgs,
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (default: waterfall)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	addFeedFlags(cmd, &opts)
	addLayoutFlags(cmd, &opts)
	formats := addRenderFlags(cmd, &opts)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts.Formats = parseFormats(*formats)
		return c.runRender(cmd.Context(), opts, output, noCache)
	}

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinner(ctx, "Rendering photo wall...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if result.Stats.Rejected > 0 {
		printWarning("Skipped %d invalid photo(s)", result.Stats.Rejected)
	}
	printStats(result.CacheInfo.FeedHit && result.CacheInfo.LayoutHit,
		fmt.Sprintf("%d photos", result.Stats.Photos),
		fmt.Sprintf("%d columns", opts.Columns))

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     defaultRenderBase,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
	})
}
