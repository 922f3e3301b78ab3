package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	wio "github.com/matzehuels/waterfall/pkg/io"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

// layoutCommand creates the layout command for placing items into columns.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		quiet   bool
	)
	opts := c.baseOptions()

	cmd := &cobra.Command{
		Use:   "layout [items.json]",
		Short: "Place items into columns",
		Long: `Place items into columns.

The layout command takes an items.json file (produced by 'feed', or any JSON
array of {"id", "height"} objects) and places every item, in order, into the
currently shortest column. Ties go to the leftmost column. Items with a
non-positive height are skipped and reported.

The output is a layout.json file that can be rendered with 'visualize'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache, quiet)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the column table")

	// Layout flags
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runLayout loads the items, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache, quiet bool) error {
	photos, err := wio.ImportItems(input)
	if err != nil {
		return fmt.Errorf("load items %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinner(ctx, fmt.Sprintf("Placing %d items in %d columns...", len(photos), opts.Columns))
	spinner.Start()

	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, photos, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := wio.ExportLayout(layout.LayoutFile, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(cacheHit,
		fmt.Sprintf("%d placed", layout.Layout.Len()),
		fmt.Sprintf("%d columns", len(layout.Layout.Columns)))
	if len(layout.Rejected) > 0 {
		printWarning("Skipped %d invalid item(s): %s", len(layout.Rejected), strings.Join(layout.Rejected, ", "))
	}
	if !quiet {
		fmt.Println(columnTable(layout.Layout))
	}
	printNewline()
	printNextStep("Render", "waterfall visualize "+outputPath)

	return nil
}
