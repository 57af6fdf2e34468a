package pipeline

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/viant/afs/file"

	"github.com/matzehuels/svgbundle/pkg/errors"
)

// write ensures the destination directory exists and stores text at path.
func (r *Runner) write(ctx context.Context, path string, text []byte) error {
	dir := filepath.Dir(path)
	exists, err := r.FS.Exists(ctx, dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "stat %s", dir)
	}
	if !exists {
		if err := r.FS.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
		}
	}
	if err := r.FS.Upload(ctx, path, file.DefaultFileOsMode, bytes.NewReader(text)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
