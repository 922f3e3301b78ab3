package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/buildinfo"
	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/config"
	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.App

	// boltFile is the database file name used by the bolt cache backend.
	boltFile = "cache.db"

	// redisPrefix namespaces every key in a shared Redis.
	redisPrefix = "waterfall:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	// configErr is reported by the first command that runs, so that
	// completion and --help keep working with a broken config file.
	configErr error
}

// New creates a new CLI instance with a default logger and the user's
// configuration file, if any.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	c.Config, c.configErr = config.LoadDefault()
	if c.configErr != nil {
		c.Config = config.Default()
	}
	return c
}

// SetLogLevel updates the logger's level. At debug level pipeline, cache and
// HTTP events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "waterfall",
		Short:         "Waterfall lays out photo feeds as masonry walls",
		Long:          `Waterfall is a CLI tool that loads pages of photos and arranges them into columns, always filling the shortest column first, then renders the wall as SVG, PNG, PDF or JSON.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.configErr
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.feedCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if ns := c.Config.Cache.Namespace; ns != "" {
		keyer = cache.NewScopedKeyer(nil, ns+":")
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache opens the configured cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	if c.Config.Cache.Backend == config.BackendRedis {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   c.Config.Cache.RedisAddr,
			DB:     c.Config.Cache.RedisDB,
			Prefix: redisPrefix,
		})
	}

	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	if c.Config.Cache.Backend == config.BackendBolt {
		return cache.NewBoltCache(filepath.Join(dir, boltFile))
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/waterfall/).
func cacheDir() (string, error) {
	return cache.DefaultDir(appName)
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the configuration file.
// Command-line flags are bound on top of these values.
func (c *CLI) baseOptions() pipeline.Options {
	cfg := c.Config
	ttl, _ := cfg.Cache.Duration()
	return pipeline.Options{
		Source:   cfg.Feed.Source,
		Pages:    cfg.Feed.Pages,
		PerPage:  cfg.Feed.PerPage,
		Seed:     cfg.Feed.Seed,
		Columns:  cfg.Layout.Columns,
		Width:    cfg.Layout.Width,
		Gap:      cfg.Layout.Gap,
		Padding:  cfg.Layout.Padding,
		Scale:    cfg.Layout.Scale,
		Formats:  append([]string(nil), cfg.Render.Formats...),
		Style:    cfg.Render.Style,
		Labels:   cfg.Render.Labels,
		CacheTTL: ttl,
	}
}

// Completion words, in help order.
var (
	formatNames = []string{pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatPNG, pipeline.FormatPDF}
	sourceNames = []string{pipeline.SourceRandom, pipeline.SourceSample, pipeline.SourcePicsum}
)

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// addLayoutFlags binds the column count and frame geometry flags.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().IntVarP(&opts.Columns, "columns", "c", opts.Columns, "number of columns")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "frame width")
	cmd.Flags().Float64Var(&opts.Gap, "gap", opts.Gap, "spacing between columns and items")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "frame padding")
	cmd.Flags().BoolVar(&opts.Scale, "scale", opts.Scale, "scale photo heights to the column width")
}

// addRenderFlags binds the style and label flags and returns the raw format flag.
func addRenderFlags(cmd *cobra.Command, opts *pipeline.Options) *string {
	formats := strings.Join(opts.Formats, ",")
	cmd.Flags().StringVar(&opts.Style, "style", opts.Style, "visual style: card (default), simple")
	cmd.Flags().BoolVar(&opts.Labels, "labels", opts.Labels, "draw photo IDs on the cards")
	cmd.Flags().StringVarP(&formats, "format", "f", formats, "output format(s): svg (default), json, pdf, png (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("style", completeWords(styles.Names...))
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	return &formats
}

// addFeedFlags binds the photo source flags.
func addFeedFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Source, "source", "s", opts.Source, "photo source: random (default), sample, picsum")
	cmd.Flags().IntVar(&opts.Pages, "pages", opts.Pages, "number of pages to load")
	cmd.Flags().IntVar(&opts.PerPage, "per-page", opts.PerPage, "photos per page")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "seed for the random source (0 picks one)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cached pages")
	_ = cmd.RegisterFlagCompletionFunc("source", completeWords(sourceNames...))
}
