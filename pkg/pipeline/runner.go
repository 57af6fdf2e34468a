package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/viant/afs"

	"github.com/matzehuels/svgbundle/pkg/collect"
	"github.com/matzehuels/svgbundle/pkg/observability"
	"github.com/matzehuels/svgbundle/pkg/optimize"
	"github.com/matzehuels/svgbundle/pkg/shape"
	"github.com/matzehuels/svgbundle/pkg/sink"
)

// Runner executes the end-of-pass pipeline.
//
// The Runner holds no per-pass state. The plugin keeps one Runner for its
// lifetime and calls Run once per bundling pass.
type Runner struct {
	FS        afs.Service
	Optimizer *optimize.Optimizer
	Logger    *log.Logger
}

// NewRunner creates a runner.
// If fs is nil, afs.New() is used.
// If optimizer is nil, an uncached optimizer is used when Minify is set.
func NewRunner(fs afs.Service, optimizer *optimize.Optimizer, logger *log.Logger) *Runner {
	if fs == nil {
		fs = afs.New()
	}
	if logger == nil {
		logger = log.Default()
	}
	if optimizer == nil {
		optimizer = optimize.New(optimize.WithLogger(logger))
	}
	return &Runner{
		FS:        fs,
		Optimizer: optimizer,
		Logger:    logger,
	}
}

// Run builds and writes the sprite for refs. It returns (nil, nil) without
// touching the filesystem when refs is empty.
func (r *Runner) Run(ctx context.Context, refs []collect.Reference, opts Options) (result *Result, err error) {
	if len(refs) == 0 {
		return nil, nil
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	outPath := opts.OutputPath()
	start := time.Now()
	hooks.OnPassStart(ctx, len(refs))
	defer func() {
		hooks.OnPassComplete(ctx, outPath, time.Since(start), err)
	}()

	result = &Result{
		Inputs:        make(map[string]int, len(refs)),
		IDs:           make([]string, 0, len(refs)),
		OutputPath:    outPath,
		RelOutputPath: relPath(opts.Root, outPath),
	}

	// Stage 1: Extract
	extractStart := time.Now()
	items, err := r.extractAll(ctx, refs, opts)
	if err != nil {
		return nil, err
	}
	shapes := make([]*shape.Shape, len(items))
	for i, it := range items {
		shapes[i] = it.shape
		result.IDs = append(result.IDs, it.shape.ID)
		result.Inputs[relPath(opts.Root, refs[i].Path)] += it.size
	}
	result.Stats.ExtractTime = time.Since(extractStart)

	// Stage 2: Pack
	packStart := time.Now()
	text, l, err := sink.Pack(shapes, opts.Gap)
	if err != nil {
		return nil, err
	}
	result.Text = text
	result.Bytes = len(text)
	result.Width, result.Height = l.Width, l.Height
	result.Stats.PackTime = time.Since(packStart)
	hooks.OnPack(ctx, len(shapes), result.Bytes, result.Stats.PackTime)

	r.Logger.Debug("packed sprite",
		"shapes", len(shapes),
		"viewBox", l.ViewBox(),
		"bytes", result.Bytes)

	// Stage 3: Write
	writeStart := time.Now()
	if err := r.write(ctx, outPath, text); err != nil {
		return nil, err
	}
	result.Stats.WriteTime = time.Since(writeStart)

	r.Logger.Info("wrote sprite",
		"path", result.RelOutputPath,
		"shapes", len(shapes),
		"bytes", result.Bytes,
		"duration", time.Since(start).Round(time.Millisecond))

	return result, nil
}
