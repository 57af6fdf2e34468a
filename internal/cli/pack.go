package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svgbundle/pkg/collect"
	"github.com/matzehuels/svgbundle/pkg/config"
	"github.com/matzehuels/svgbundle/pkg/errors"
	"github.com/matzehuels/svgbundle/pkg/pipeline"
)

func (c *CLI) packCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pack <dir|file.svg>...",
		Short: "Pack SVG files into a sprite without running a bundler",
		Long: `Pack SVG files into a sprite. Directories are searched recursively for .svg
files in lexical order; files keep their argument order. Ids are allocated
from file names the same way the esbuild plugin does.`,
		Example: `  svgbundle pack icons/ -o dist/icons.svg
  svgbundle pack a.svg b.svg --gap 4 --minify`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			_, err = c.runPack(cmd.Context(), args, output, *opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "sprite.svg", "sprite file to write")
	addSpriteFlags(cmd.Flags())

	return cmd
}

func (c *CLI) runPack(ctx context.Context, args []string, output string, opts config.Options) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)

	root, err := workingDir()
	if err != nil {
		return nil, err
	}
	paths, err := collectSVGs(args)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		printWarning("No .svg files found")
		return nil, nil
	}

	// The collector provides the same dedup and id allocation as a build.
	collector := collect.New(nil, collect.Options{BundleURL: output, Logger: logger})
	for _, p := range paths {
		if _, err := collector.Register(p, p); err != nil {
			return nil, err
		}
	}

	out, err := filepath.Abs(output)
	if err != nil {
		return nil, err
	}
	runOpts := pipeline.OptionsFromConfig(opts, root, filepath.Dir(out))
	runOpts.BundleFile = filepath.Base(out)

	runner, closeCache, err := c.newRunner(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer closeCache()

	hits := countCacheHits()
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Packing %d images...", collector.Len()))
	spin.Start()
	prog := newProgress(logger)

	result, err := runner.Run(ctx, collector.Pending(), runOpts)
	if err != nil {
		spin.StopWithError("Pack failed")
		return nil, err
	}
	spin.StopWithSuccess("Sprite written")
	prog.done("packed sprite", "shapes", len(result.IDs))
	printSprite(result, hits.take())
	return result, nil
}

// collectSVGs expands args into absolute .svg paths. Directories are walked
// recursively in lexical order.
func collectSVGs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", arg)
		}
		if !info.IsDir() {
			paths = append(paths, abs)
			continue
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".svg") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "walk %s", arg)
		}
	}
	return paths, nil
}
