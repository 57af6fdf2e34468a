// Package pipeline turns the references collected during a bundling pass
// into the sprite.
//
// The pipeline runs once, after esbuild has finished resolving. It has three
// stages:
//
//  1. Extract: read every referenced file, optionally minify it, and parse it
//     into a normalized shape. Files are processed concurrently but results
//     keep first-seen order.
//  2. Pack: place the shapes on a grid and serialize the composite document.
//  3. Write: persist the document to <OutDir>/<BundleFile>.
//
// Any failure aborts the pass before anything is written; there is never a
// partial sprite.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, optimizer, logger)
//	result, err := runner.Run(ctx, collector.Pending(), pipeline.Options{
//	    Root:       "/work/app",
//	    OutDir:     "/work/app/dist",
//	    BundleFile: "sprite.svg",
//	    Gap:        1,
//	})
package pipeline

import (
	"path/filepath"
	"time"

	"github.com/matzehuels/svgbundle/pkg/config"
	"github.com/matzehuels/svgbundle/pkg/errors"
)

// Options configures one run.
type Options struct {
	// Root is the project root. Input sizes and the output path are
	// reported relative to it.
	Root string

	// OutDir is the absolute output directory of the build.
	OutDir string

	// BundleFile is the sprite's file name relative to OutDir.
	BundleFile string

	// Gap is the spacing between packed shapes.
	Gap float64

	// Minify runs each file through the optimizer before extraction.
	Minify bool

	// Concurrency bounds parallel reads. Zero uses config.DefaultConcurrency.
	Concurrency int
}

// OptionsFromConfig derives run options for a build rooted at root that
// writes into outDir.
func OptionsFromConfig(c config.Options, root, outDir string) Options {
	return Options{
		Root:        root,
		OutDir:      outDir,
		BundleFile:  c.BundleFile,
		Gap:         c.GapOrDefault(),
		Minify:      c.Minify,
		Concurrency: c.Concurrency,
	}
}

// Validate checks required fields and applies defaults.
func (o *Options) Validate() error {
	if o.OutDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output directory is required")
	}
	if err := errors.ValidateBundleFile(o.BundleFile); err != nil {
		return err
	}
	if err := errors.ValidateGap(o.Gap); err != nil {
		return err
	}
	if o.Concurrency <= 0 {
		o.Concurrency = config.DefaultConcurrency
	}
	return nil
}

// OutputPath returns the absolute path the sprite is written to.
func (o Options) OutputPath() string {
	return filepath.Join(o.OutDir, filepath.FromSlash(o.BundleFile))
}

// Result describes the written sprite.
type Result struct {
	// Text is the serialized composite document.
	Text []byte

	// Bytes is len(Text).
	Bytes int

	// Inputs maps each input's root-relative path to the byte length of the
	// text that was extracted (after minification when enabled).
	Inputs map[string]int

	// IDs lists the fragment ids in sprite order.
	IDs []string

	// OutputPath is the absolute path of the written file; RelOutputPath is
	// the same path relative to Root, as used in esbuild's metafile.
	OutputPath    string
	RelOutputPath string

	// Width and Height are the canvas size.
	Width, Height float64

	Stats Stats
}

// Stats contains timing information.
type Stats struct {
	ExtractTime time.Duration
	PackTime    time.Duration
	WriteTime   time.Duration
}

// relPath returns path relative to root with forward slashes, or path
// unchanged when it cannot be made relative.
func relPath(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
