package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cellspan/pkg/buildinfo"
	"github.com/matzehuels/cellspan/pkg/cache"
	"github.com/matzehuels/cellspan/pkg/design"
	"github.com/matzehuels/cellspan/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cellspan"

	// defaultListen is the server's listen address without configuration.
	defaultListen = ":8080"
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
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Cellspan lays out graphs on painted table grids",
		Long: `Cellspan is a CLI tool for designing table grids whose cells are painted
into rectangular spans, and for laying out graphs inside them: every span
becomes a group that owns the cells under it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/cellspan/cellspan.toml)")

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.paintCommand())
	root.AddCommand(c.eraseCommand())
	root.AddCommand(c.spansCommand())
	root.AddCommand(c.trackCommand(trackColumn))
	root.AddCommand(c.trackCommand(trackRow))
	root.AddCommand(c.nodeCommand())
	root.AddCommand(c.edgeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.designCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, unknown, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	for _, key := range unknown {
		c.Logger.Warn("unknown config key", "key", key)
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(ctx, noCache), nil, c.Logger)
}

// newCache returns the configured layout cache. A Redis cache that cannot be
// reached falls back to the file cache, and a file cache that cannot be
// created disables caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if c.Config.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: c.Config.RedisURL})
		if err == nil {
			c.Logger.Debug("using redis cache", "url", c.Config.RedisURL)
			return rc
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "err", err)
	}
	fc, err := cache.NewFileCache(c.Config.CacheDir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Design Files
// =============================================================================

func loadDesign(path string) (*design.Document, error) {
	d, err := design.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load design %s: %w", path, err)
	}
	return d, nil
}

func saveDesign(d *design.Document, path string) error {
	if err := design.Save(d, path); err != nil {
		return fmt.Errorf("save design %s: %w", path, err)
	}
	return nil
}

// editDesign loads the design at path, applies fn and saves the result.
func editDesign(path string, fn func(d *design.Document) error) (*design.Document, error) {
	d, err := loadDesign(path)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, saveDesign(d, path)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// addLayoutFlags registers the engine options shared by layout and render.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.Engine, "engine", pipeline.DefaultEngine, "layout engine: hierarchic")
	cmd.Flags().Float64Var(&opts.NodeSpacing, "node-spacing", 0, "gap between nodes of a layer (default from engine)")
	cmd.Flags().Float64Var(&opts.LayerSpacing, "layer-spacing", 0, "gap between layers (default from engine)")
	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "gap between cell content and cell edges (default from engine)")
	cmd.Flags().Float64Var(&opts.MinTrackSize, "min-track-size", 0, "smallest column width or row height (default from engine)")
	cmd.Flags().BoolVar(&opts.KeepTrackSizes, "keep-track-sizes", false, "never shrink tracks below their design size")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
}
