package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/internal/server"
	werrors "github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

// serveCommand creates the serve command that exposes a gallery over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	opts := c.baseOptions()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live gallery over HTTP",
		Long: `Serve a live gallery over HTTP.

The first page is loaded at startup. Clients page, refresh and switch columns
through the JSON API:

  GET  /api/layout         POST /api/more       POST /api/refresh
  PUT  /api/columns/{n}    POST /api/place      GET  /gallery.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.Config.Serve.Addr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable HTTP response caching")
	cmd.Flags().StringVar(&opts.Style, "style", opts.Style, "default SVG style: card (default), simple")
	_ = cmd.RegisterFlagCompletionFunc("style", completeWords(styles.Names...))
	addFeedFlags(cmd, &opts)
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runServe loads the first page and serves until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts pipeline.Options, addr string, noCache bool) error {
	if err := pipeline.ValidateStyle(opts.Style); err != nil {
		return err
	}
	g, store, err := c.newGallery(ctx, opts, noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	logger := loggerFromContext(ctx)
	spinner := newSpinner(ctx, fmt.Sprintf("Loading first %s page...", opts.Source))
	spinner.Start()
	n, err := g.LoadMore(ctx)
	if err != nil && !werrors.Is(err, werrors.ErrCodeInvalidItem) {
		spinner.StopWithError("Initial load failed")
		return fmt.Errorf("load first page: %w", err)
	}
	spinner.Stop()
	logger.Info("loaded first page", "source", opts.Source, "placed", n)

	printSuccess("Serving gallery")
	printKeyValue("Layout", "http://"+addr+"/api/layout")
	printKeyValue("SVG", "http://"+addr+"/gallery.svg")

	srv := server.New(g, server.Options{Style: opts.Style, Logger: logger})
	if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	printInfo("Server stopped")
	return nil
}
