package pipeline

import (
	"context"
	stderrors "errors"
	"io/fs"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/svgbundle/pkg/collect"
	"github.com/matzehuels/svgbundle/pkg/errors"
	"github.com/matzehuels/svgbundle/pkg/observability"
	"github.com/matzehuels/svgbundle/pkg/shape"
)

// extracted is the outcome for one reference.
type extracted struct {
	shape *shape.Shape
	size  int
}

// extractAll loads every reference concurrently. The returned slice is in
// refs order. The first failure cancels the remaining work and is returned
// as a *errors.FileError naming the offending file.
func (r *Runner) extractAll(ctx context.Context, refs []collect.Reference, opts Options) ([]extracted, error) {
	out := make([]extracted, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			s, size, err := r.extractOne(gctx, ref, opts)
			observability.Pipeline().OnExtract(gctx, ref.ID, size, time.Since(start), err)
			if err != nil {
				return &errors.FileError{Path: ref.Path, Err: err}
			}
			r.Logger.Debug("extracted", "id", ref.ID, "bytes", size, "viewBox", s.ViewBox.Raw)
			out[i] = extracted{shape: s, size: size}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Runner) extractOne(ctx context.Context, ref collect.Reference, opts Options) (*shape.Shape, int, error) {
	raw, err := r.FS.DownloadWithURL(ctx, ref.Path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "read")
		}
		return nil, 0, errors.Wrap(errors.ErrCodeIO, err, "read")
	}

	if opts.Minify {
		if raw, err = r.Optimizer.Optimize(ctx, raw); err != nil {
			return nil, 0, err
		}
	}

	s, err := shape.Extract(ref.ID, raw)
	if err != nil {
		return nil, 0, err
	}
	return s, len(raw), nil
}
