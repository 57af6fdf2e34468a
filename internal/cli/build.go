package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/cobra"

	"github.com/matzehuels/svgbundle/pkg/config"
	"github.com/matzehuels/svgbundle/pkg/errors"
	"github.com/matzehuels/svgbundle/pkg/pipeline"
	"github.com/matzehuels/svgbundle/pkg/plugin"
)

// buildOpts holds the esbuild-side flags of the build command.
type buildOpts struct {
	outdir   string
	metafile string
	minifyJS bool
	watch    bool
}

func (c *CLI) buildCommand() *cobra.Command {
	var bo buildOpts

	cmd := &cobra.Command{
		Use:   "build <entry>...",
		Short: "Bundle entry points with esbuild and write the sprite",
		Long: `Bundle entry points with esbuild. Every url() reference to an .svg file is
rewritten to <bundle-url>#<id> and the referenced images are packed into
<outdir>/<bundle-file>.`,
		Example: `  svgbundle build src/app.css --outdir dist --bundle-file sprite.svg --bundle-url /sprite.svg
  svgbundle build src/app.css --outdir dist --watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), args, bo, *opts)
		},
	}

	cmd.Flags().StringVarP(&bo.outdir, "outdir", "o", "dist", "output directory")
	cmd.Flags().StringVar(&bo.metafile, "metafile", "", "write esbuild's metafile, including the sprite, to this path")
	cmd.Flags().BoolVar(&bo.minifyJS, "minify-output", false, "minify esbuild's own output")
	cmd.Flags().BoolVarP(&bo.watch, "watch", "w", false, "rebuild when inputs change")
	addSpriteFlags(cmd.Flags())

	return cmd
}

// esbuildOptions returns the build options shared by build and serve.
func esbuildOptions(root string, entries []string, bo buildOpts, p api.Plugin) api.BuildOptions {
	return api.BuildOptions{
		EntryPoints:       entries,
		Bundle:            true,
		Outdir:            bo.outdir,
		Write:             true,
		Metafile:          bo.metafile != "",
		MinifyWhitespace:  bo.minifyJS,
		MinifySyntax:      bo.minifyJS,
		MinifyIdentifiers: bo.minifyJS,
		AbsWorkingDir:     root,
		LogLevel:          api.LogLevelWarning,
		Plugins:           []api.Plugin{p},
	}
}

func (c *CLI) runBuild(ctx context.Context, entries []string, bo buildOpts, opts config.Options) error {
	logger := loggerFromContext(ctx)
	root, err := workingDir()
	if err != nil {
		return err
	}

	runner, closeCache, err := c.newRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer closeCache()

	hits := countCacheHits()
	bundler, err := plugin.NewBundler(opts,
		plugin.WithLogger(logger),
		plugin.WithRunner(runner),
		plugin.WithContext(ctx),
		plugin.OnResult(func(r *pipeline.Result) {
			printSuccess("Sprite written")
			printSprite(r, hits.take())
		}),
	)
	if err != nil {
		return err
	}
	buildOptions := esbuildOptions(root, entries, bo, bundler.Plugin())

	if bo.watch {
		return watch(ctx, buildOptions)
	}

	prog := newProgress(logger)
	result := api.Build(buildOptions)
	if len(result.Errors) > 0 {
		return buildError(result.Errors)
	}
	prog.done("build finished", "entries", len(entries), "references", bundler.Collector().Len())

	if bo.metafile != "" {
		path := bo.metafile
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		if err := os.WriteFile(path, []byte(result.Metafile), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write metafile")
		}
		printFile(bo.metafile)
	}
	return nil
}

// watch rebuilds on change until ctx is cancelled.
func watch(ctx context.Context, options api.BuildOptions) error {
	bctx, cerr := api.Context(options)
	if cerr != nil {
		return buildError(cerr.Errors)
	}
	defer bctx.Dispose()

	if err := bctx.Watch(api.WatchOptions{}); err != nil {
		return err
	}
	printInfo("Watching for changes (ctrl+c to stop)")
	<-ctx.Done()
	return nil
}

// buildError formats esbuild messages into one error.
func buildError(msgs []api.Message) error {
	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: api.ErrorMessage})
	return fmt.Errorf("build failed with %d error(s):\n%s", len(msgs), strings.Join(formatted, ""))
}
