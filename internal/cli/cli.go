// Package cli implements the svgbundle command-line interface.
//
// # Commands
//
//   - build: bundle entry points with esbuild and write the sprite
//   - pack: pack SVG files into a sprite without a bundler
//   - serve: rebuild on change and serve the output directory
//   - browse: list the anchors of a sprite interactively
//   - cache, config, completion: housekeeping
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/svgbundle/pkg/buildinfo"
	"github.com/matzehuels/svgbundle/pkg/cache"
	"github.com/matzehuels/svgbundle/pkg/config"
	"github.com/matzehuels/svgbundle/pkg/optimize"
	"github.com/matzehuels/svgbundle/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	configFile string
	verbose    bool
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
		Use:          appName,
		Short:        "svgbundle packs the SVGs your CSS references into one sprite",
		Long:         `svgbundle is an esbuild plugin and CLI that rewrites url() references to SVG files into fragment references on a single generated sprite.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: ./svgbundle.{toml,yaml})")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.packCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// spriteFlags maps config keys to the flags that override them.
var spriteFlags = map[string]string{
	"bundle_file":    "bundle-file",
	"bundle_url":     "bundle-url",
	"hash":           "hash",
	"gap":            "gap",
	"minify":         "minify",
	"concurrency":    "concurrency",
	"cache.disabled": "no-cache",
}

// addSpriteFlags registers the sprite options on cmd.
func addSpriteFlags(fs *pflag.FlagSet) {
	fs.String("bundle-file", "", "sprite file name, relative to the output directory")
	fs.String("bundle-url", "", "public URL of the sprite used in rewritten references")
	fs.String("hash", "", "cache-busting value appended as ?hash=")
	fs.Float64("gap", config.DefaultGap, "spacing between packed images")
	fs.Bool("minify", false, "minify each image before packing")
	fs.Int("concurrency", config.DefaultConcurrency, "parallel reads at the end of a build")
	fs.Bool("no-cache", false, "disable the optimizer cache")
}

// loadConfig reads the config file and environment, then applies the flags
// of cmd that the user set.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Options, error) {
	flags := make(map[string]*pflag.Flag, len(spriteFlags))
	for key, name := range spriteFlags {
		if f := cmd.Flags().Lookup(name); f != nil {
			flags[key] = f
		}
	}
	opts, used, err := config.Load(config.LoadOptions{ConfigFile: c.configFile, Flags: flags})
	if err != nil {
		return nil, err
	}
	if used != "" {
		c.Logger.Debug("loaded config", "file", used)
	}
	return opts, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner whose optimizer caches according to
// opts. The returned function releases the cache.
func (c *CLI) newRunner(ctx context.Context, opts config.Options) (*pipeline.Runner, func(), error) {
	ch, err := newCache(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	keyer := cache.NewScopedKeyer(nil, opts.Cache.Namespace)
	opt := optimize.New(optimize.WithCache(ch, keyer), optimize.WithLogger(c.Logger))
	return pipeline.NewRunner(nil, opt, c.Logger), func() { _ = ch.Close() }, nil
}

func newCache(ctx context.Context, opts config.Options) (cache.Cache, error) {
	switch {
	case opts.Cache.Disabled:
		return cache.NewNullCache(), nil
	case opts.Cache.RedisURL != "":
		return cache.NewRedisCache(ctx, opts.Cache.RedisURL, appName+":")
	}
	dir, err := opts.CacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the default cache directory (~/.cache/svgbundle/).
func cacheDir() (string, error) {
	return config.DefaultCacheDir()
}

// workingDir returns the absolute current directory.
func workingDir() (string, error) {
	return os.Getwd()
}
