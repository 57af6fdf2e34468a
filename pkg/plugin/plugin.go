// Package plugin adapts svgbundle to esbuild's Go plugin API.
//
//	p, err := plugin.New(config.Options{
//	    BundleFile: "sprite.svg",
//	    BundleURL:  "/assets/sprite.svg",
//	})
//	if err != nil {
//	    return err
//	}
//	result := api.Build(api.BuildOptions{
//	    EntryPoints: []string{"src/app.css"},
//	    Bundle:      true,
//	    Outdir:      "dist",
//	    Write:       true,
//	    Plugins:     []api.Plugin{p},
//	})
//
// Every url() reference to a .svg file is rewritten to
// "/assets/sprite.svg#<id>" and, once the build ends, dist/sprite.svg holds
// all referenced images.
package plugin

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/uuid"

	"github.com/matzehuels/svgbundle/pkg/collect"
	"github.com/matzehuels/svgbundle/pkg/config"
	"github.com/matzehuels/svgbundle/pkg/errors"
	"github.com/matzehuels/svgbundle/pkg/metafile"
	"github.com/matzehuels/svgbundle/pkg/pipeline"
)

// Name is the plugin name reported to esbuild.
const Name = "svg-bundle"

// Bundler owns the state of one plugin instance: the id registry and the
// reference queue. Both persist across rebuilds of the same instance, so ids
// stay stable in watch mode.
type Bundler struct {
	opts      config.Options
	runner    *pipeline.Runner
	logger    *log.Logger
	ctx       context.Context
	onResult  func(*pipeline.Result)
	collector *collect.Collector

	resolve atomic.Pointer[collect.ResolveFunc]
	pass    atomic.Pointer[string]
}

// Option configures a Bundler.
type Option func(*Bundler)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Bundler) { b.logger = l }
}

// WithRunner replaces the end-of-pass runner.
func WithRunner(r *pipeline.Runner) Option {
	return func(b *Bundler) { b.runner = r }
}

// WithContext sets the context passed to the end-of-pass pipeline.
func WithContext(ctx context.Context) Option {
	return func(b *Bundler) { b.ctx = ctx }
}

// OnResult registers fn to receive every written sprite.
func OnResult(fn func(*pipeline.Result)) Option {
	return func(b *Bundler) { b.onResult = fn }
}

// NewBundler validates opts and creates a plugin instance.
// bundleFile and bundleUrl are required.
func NewBundler(opts config.Options, options ...Option) (*Bundler, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.SetDefaults()

	b := &Bundler{opts: opts, ctx: context.Background()}
	for _, o := range options {
		o(b)
	}
	if b.logger == nil {
		b.logger = log.Default()
	}
	if b.runner == nil {
		b.runner = pipeline.NewRunner(nil, nil, b.logger)
	}

	b.collector = collect.New(b.resolveInBuild, collect.Options{
		BundleURL:  opts.BundleURL,
		Hash:       opts.Hash,
		PluginName: Name,
		Logger:     b.logger,
	})
	return b, nil
}

// New returns an esbuild plugin for opts.
func New(opts config.Options, options ...Option) (api.Plugin, error) {
	b, err := NewBundler(opts, options...)
	if err != nil {
		return api.Plugin{}, err
	}
	return b.Plugin(), nil
}

// Collector exposes the reference collector.
func (b *Bundler) Collector() *collect.Collector { return b.collector }

// Plugin returns the esbuild plugin backed by b.
func (b *Bundler) Plugin() api.Plugin {
	return api.Plugin{Name: Name, Setup: b.setup}
}

func (b *Bundler) setup(build api.PluginBuild) {
	resolve := collect.ResolveFunc(build.Resolve)
	b.resolve.Store(&resolve)

	root := workingDir(build.InitialOptions)
	outDir := outputDir(build.InitialOptions, root)

	build.OnResolve(api.OnResolveOptions{Filter: collect.Filter, Namespace: "file"}, b.collector.OnResolve)

	build.OnStart(func() (api.OnStartResult, error) {
		id := uuid.NewString()
		b.pass.Store(&id)
		b.collector.BeginPass()
		b.logger.Debug("build started", "pass", id)
		return api.OnStartResult{}, nil
	})

	build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
		return b.end(result, pipeline.OptionsFromConfig(b.opts, root, outDir))
	})
}

// end runs the pipeline and records the sprite in the metafile.
func (b *Bundler) end(result *api.BuildResult, opts pipeline.Options) (api.OnEndResult, error) {
	logger := b.logger
	if id := b.pass.Load(); id != nil {
		logger = logger.With("pass", *id)
	}

	if len(result.Errors) > 0 {
		logger.Debug("build reported errors, still writing sprite", "errors", len(result.Errors))
	}

	start := time.Now()
	sprite, err := b.runner.Run(b.ctx, b.collector.Pending(), opts)
	if err != nil {
		logger.Error("sprite failed", "err", err)
		return api.OnEndResult{Errors: []api.Message{message(err, opts.Root)}}, nil
	}
	if sprite == nil {
		return api.OnEndResult{}, nil
	}

	if result.Metafile != "" {
		patched, err := metafile.AddOutput(result.Metafile, sprite.RelOutputPath,
			metafile.LeafOutput(sprite.Bytes, sprite.Inputs))
		if err != nil {
			return api.OnEndResult{Errors: []api.Message{message(err, opts.Root)}}, nil
		}
		result.Metafile = patched
	}

	logger.Debug("build ended", "duration", time.Since(start))
	if b.onResult != nil {
		b.onResult(sprite)
	}
	return api.OnEndResult{}, nil
}

// resolveInBuild forwards to the Resolve of the build currently set up.
func (b *Bundler) resolveInBuild(path string, options api.ResolveOptions) api.ResolveResult {
	fn := b.resolve.Load()
	if fn == nil {
		return api.ResolveResult{Errors: []api.Message{{
			PluginName: Name,
			Text:       errors.New(errors.ErrCodeNotResolved, "resolve called before setup").Error(),
		}}}
	}
	return (*fn)(path, options)
}

// message converts a pipeline error into an esbuild message, attributing
// file errors to the offending image.
func message(err error, root string) api.Message {
	m := api.Message{
		PluginName: Name,
		Text:       err.Error(),
		Detail:     err,
	}
	var fe *errors.FileError
	if stderrors.As(err, &fe) {
		m.Text = fe.Err.Error()
		file := fe.Path
		if rel, relErr := filepath.Rel(root, fe.Path); relErr == nil {
			file = filepath.ToSlash(rel)
		}
		m.Location = &api.Location{File: file}
	}
	return m
}

func workingDir(o *api.BuildOptions) string {
	if o != nil && o.AbsWorkingDir != "" {
		return o.AbsWorkingDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// outputDir is Outdir, else the directory of Outfile, resolved against root.
// It returns "" when the build sets neither.
func outputDir(o *api.BuildOptions, root string) string {
	if o == nil {
		return ""
	}
	dir := o.Outdir
	if dir == "" && o.Outfile != "" {
		dir = filepath.Dir(o.Outfile)
	}
	if dir == "" {
		return ""
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return dir
}
