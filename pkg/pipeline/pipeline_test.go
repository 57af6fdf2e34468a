package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/svgbundle/pkg/collect"
	"github.com/matzehuels/svgbundle/pkg/config"
	"github.com/matzehuels/svgbundle/pkg/errors"
	"github.com/matzehuels/svgbundle/pkg/shape"
	"github.com/matzehuels/svgbundle/pkg/sink"
)

func square(side int) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d"><rect width="%d" height="%d"/></svg>`,
		side, side, side, side)
}

type fixture struct {
	root string
	refs []collect.Reference
}

// newFixture writes files under <root>/icons and returns references in the
// given order.
func newFixture(t *testing.T, files ...[2]string) fixture {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "icons"), 0o755))

	f := fixture{root: root}
	for _, nf := range files {
		path := filepath.Join(root, "icons", nf[0]+".svg")
		require.NoError(t, os.WriteFile(path, []byte(nf[1]), 0o644))
		f.refs = append(f.refs, collect.Reference{
			Specifier: "./icons/" + nf[0] + ".svg",
			Path:      path,
			ID:        nf[0],
		})
	}
	return f
}

func (f fixture) options() Options {
	return Options{
		Root:       f.root,
		OutDir:     filepath.Join(f.root, "dist"),
		BundleFile: "sprite.svg",
		Gap:        2,
	}
}

func testRunner() *Runner {
	return NewRunner(nil, nil, log.New(io.Discard))
}

func TestRunEmptyIsNoop(t *testing.T) {
	root := t.TempDir()
	opts := Options{Root: root, OutDir: filepath.Join(root, "dist"), BundleFile: "sprite.svg", Gap: 1}

	result, err := testRunner().Run(context.Background(), nil, opts)
	require.NoError(t, err)
	assert.Nil(t, result)

	_, err = os.Stat(filepath.Join(root, "dist"))
	assert.True(t, os.IsNotExist(err), "no directory should be created")
}

func TestRunWritesSprite(t *testing.T) {
	f := newFixture(t,
		[2]string{"a", square(10)},
		[2]string{"b", square(10)},
		[2]string{"c", square(10)},
		[2]string{"d", square(10)},
	)
	opts := f.options()

	result, err := testRunner().Run(context.Background(), f.refs, opts)
	require.NoError(t, err)
	require.NotNil(t, result)

	written, err := os.ReadFile(filepath.Join(f.root, "dist", "sprite.svg"))
	require.NoError(t, err)
	assert.Equal(t, result.Text, written)
	assert.Equal(t, len(written), result.Bytes)

	assert.Equal(t, []string{"a", "b", "c", "d"}, result.IDs)
	assert.Equal(t, "dist/sprite.svg", result.RelOutputPath)
	assert.Equal(t, 22.0, result.Width)
	assert.Equal(t, 22.0, result.Height)

	assert.Len(t, result.Inputs, 4)
	assert.Equal(t, len(square(10)), result.Inputs["icons/a.svg"])

	// Same bytes as packing the shapes directly.
	var shapes []*shape.Shape
	for _, ref := range f.refs {
		raw, err := os.ReadFile(ref.Path)
		require.NoError(t, err)
		s, err := shape.Extract(ref.ID, raw)
		require.NoError(t, err)
		shapes = append(shapes, s)
	}
	want, _, err := sink.Pack(shapes, 2)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(written))
}

func TestRunPreservesFirstSeenOrder(t *testing.T) {
	var files [][2]string
	for i := 0; i < 20; i++ {
		files = append(files, [2]string{fmt.Sprintf("icon%02d", i), square(i + 1)})
	}
	f := newFixture(t, files...)
	opts := f.options()
	opts.Concurrency = 4

	result, err := testRunner().Run(context.Background(), f.refs, opts)
	require.NoError(t, err)

	for i, id := range result.IDs {
		assert.Equal(t, f.refs[i].ID, id)
	}
}

func TestRunCreatesNestedOutputDir(t *testing.T) {
	f := newFixture(t, [2]string{"a", square(4)})
	opts := f.options()
	opts.BundleFile = "assets/img/sprite.svg"

	result, err := testRunner().Run(context.Background(), f.refs, opts)
	require.NoError(t, err)
	assert.Equal(t, "dist/assets/img/sprite.svg", result.RelOutputPath)

	_, err = os.Stat(filepath.Join(f.root, "dist", "assets", "img", "sprite.svg"))
	assert.NoError(t, err)
}

func TestRunFailureWritesNothing(t *testing.T) {
	f := newFixture(t,
		[2]string{"good", square(10)},
		[2]string{"bad", `<svg xmlns="http://www.w3.org/2000/svg"><rect/></svg>`},
	)

	result, err := testRunner().Run(context.Background(), f.refs, f.options())
	require.Error(t, err)
	assert.Nil(t, result)

	var fe *errors.FileError
	require.True(t, stderrors.As(err, &fe))
	assert.Equal(t, f.refs[1].Path, fe.Path)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSVG))

	_, statErr := os.Stat(filepath.Join(f.root, "dist", "sprite.svg"))
	assert.True(t, os.IsNotExist(statErr), "no partial sprite should be written")
}

func TestRunMissingFile(t *testing.T) {
	f := newFixture(t, [2]string{"a", square(10)})
	f.refs = append(f.refs, collect.Reference{
		Specifier: "./icons/gone.svg",
		Path:      filepath.Join(f.root, "icons", "gone.svg"),
		ID:        "gone",
	})

	_, err := testRunner().Run(context.Background(), f.refs, f.options())
	require.Error(t, err)

	var fe *errors.FileError
	require.True(t, stderrors.As(err, &fe))
	assert.Equal(t, f.refs[1].Path, fe.Path)
}

func TestRunMinifyReportsOptimizedSize(t *testing.T) {
	raw := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
    <!-- comment -->
    <rect width="10" height="10"/>
</svg>`
	f := newFixture(t, [2]string{"a", raw})
	opts := f.options()
	opts.Minify = true

	result, err := testRunner().Run(context.Background(), f.refs, opts)
	require.NoError(t, err)
	assert.Less(t, result.Inputs["icons/a.svg"], len(raw))
	assert.NotContains(t, string(result.Text), "comment")
}

func TestOptionsValidate(t *testing.T) {
	o := Options{OutDir: "/out", BundleFile: "sprite.svg", Gap: 0}
	require.NoError(t, o.Validate())
	assert.Equal(t, config.DefaultConcurrency, o.Concurrency)

	assert.Error(t, (&Options{BundleFile: "sprite.svg"}).Validate())
	assert.Error(t, (&Options{OutDir: "/out"}).Validate())
	assert.Error(t, (&Options{OutDir: "/out", BundleFile: "sprite.svg", Gap: -1}).Validate())
}

func TestOptionsFromConfig(t *testing.T) {
	c := config.Options{BundleFile: "s.svg", BundleURL: "/s.svg", Minify: true}
	o := OptionsFromConfig(c, "/root", "/root/dist")
	assert.Equal(t, config.DefaultGap, o.Gap)
	assert.Equal(t, "/root/dist/s.svg", o.OutputPath())
	assert.True(t, o.Minify)
}
