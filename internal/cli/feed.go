package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	wio "github.com/matzehuels/waterfall/pkg/io"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

// defaultItemsFile is the output of 'feed' when -o is not given.
const defaultItemsFile = "items.json"

// feedCommand creates the feed command for loading photos from a source.
func (c *CLI) feedCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.baseOptions()

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Load pages of photos from a source",
		Long: `Load pages of photos from a source.

The feed command requests --pages pages of --per-page photos each and writes
them to items.json, in arrival order. Sources:

  random   generated placeholders with heights between 250 and 400 (seedable)
  sample   the fixed ten-photo sample wall
  picsum   the public picsum.photos list API

Pages are cached locally, except for the unseeded random source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFeed(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultItemsFile, "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addFeedFlags(cmd, &opts)

	return cmd
}

// runFeed loads the photos and writes them to output.
func (c *CLI) runFeed(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	prog := newProgress(opts.Logger)

	spinner := newSpinner(ctx, fmt.Sprintf("Loading %s photos...", opts.Source))
	spinner.Start()

	photos, cacheHit, err := runner.FeedWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Feed failed")
		return fmt.Errorf("load feed: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := wio.ExportItems(photos, opts.Source, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	prog.done(fmt.Sprintf("Loaded %d photos", len(photos)))

	printSuccess("Feed complete")
	printFile(output)
	printStats(cacheHit, fmt.Sprintf("%d photos", len(photos)), fmt.Sprintf("%d pages", opts.Pages))
	printNewline()
	printNextStep("Layout", "waterfall layout "+output)

	return nil
}
