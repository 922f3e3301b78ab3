package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/pipeline"
)

// browseCommand creates the browse command for the interactive wall.
func (c *CLI) browseCommand() *cobra.Command {
	var noCache bool
	opts := c.baseOptions()

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Scroll an infinite photo wall in the terminal",
		Long: `Scroll an infinite photo wall in the terminal.

Photos are placed into the shortest column as pages arrive. Scrolling near
the bottom loads the next page; 'r' refreshes from page 1 and the number keys
switch the column count, reflowing every photo in arrival order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable HTTP response caching")
	addFeedFlags(cmd, &opts)
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runBrowse runs the bubbletea program until the user quits.
func (c *CLI) runBrowse(ctx context.Context, opts pipeline.Options, noCache bool) error {
	// Log lines would tear the alternate screen.
	ctx = withLogger(ctx, log.NewWithOptions(io.Discard, log.Options{}))
	g, store, err := c.newGallery(ctx, opts, noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	p := tea.NewProgram(NewBrowseModel(ctx, g), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	if m, ok := final.(BrowseModel); ok && m.Wall.Layout.Len() > 0 {
		printInfo("Browsed %d photos in %d columns", m.Wall.Layout.Len(), m.Wall.Columns)
	}
	return nil
}
