package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/svgbundle/pkg/errors"
)

func ptr(f float64) *float64 { return &f }

func TestSetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	require.NotNil(t, o.Gap)
	assert.Equal(t, DefaultGap, *o.Gap)
	assert.Equal(t, DefaultConcurrency, o.Concurrency)

	// Explicit zero gap survives.
	o = Options{Gap: ptr(0)}
	o.SetDefaults()
	assert.Equal(t, 0.0, *o.Gap)
}

func TestGapOrDefault(t *testing.T) {
	assert.Equal(t, DefaultGap, Options{}.GapOrDefault())
	assert.Equal(t, 4.0, Options{Gap: ptr(4)}.GapOrDefault())
	assert.Equal(t, 0.0, Options{Gap: ptr(0)}.GapOrDefault())
}

func TestValidate(t *testing.T) {
	valid := Options{BundleFile: "sprite.svg", BundleURL: "/assets/sprite.svg"}

	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"valid", func(*Options) {}, false},
		{"missing bundle file", func(o *Options) { o.BundleFile = "" }, true},
		{"missing bundle url", func(o *Options) { o.BundleURL = "" }, true},
		{"traversal", func(o *Options) { o.BundleFile = "../sprite.svg" }, true},
		{"negative gap", func(o *Options) { o.Gap = ptr(-1) }, true},
		{"zero gap", func(o *Options) { o.Gap = ptr(0) }, false},
		{"negative concurrency", func(o *Options) { o.Concurrency = -2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)
			err := o.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCacheDir(t *testing.T) {
	dir, err := Options{Cache: CacheOptions{Dir: "/tmp/x"}}.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", dir)

	t.Setenv("XDG_CACHE_HOME", "/var/cache")
	dir, err = Options{}.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/var/cache", AppName), dir)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	o, used, err := Load(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, DefaultGap, o.GapOrDefault())
	assert.Equal(t, DefaultConcurrency, o.Concurrency)
	assert.False(t, o.Minify)
}

func TestLoadTOMLFile(t *testing.T) {
	dir := t.TempDir()
	content := `
bundle_file = "icons.svg"
bundle_url = "/static/icons.svg"
hash = "abc123"
gap = 0
minify = true

[cache]
namespace = "web:"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "svgbundle.toml"), []byte(content), 0o644))

	o, used, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "svgbundle.toml"), used)
	assert.Equal(t, "icons.svg", o.BundleFile)
	assert.Equal(t, "/static/icons.svg", o.BundleURL)
	assert.Equal(t, "abc123", o.Hash)
	assert.Equal(t, 0.0, o.GapOrDefault())
	assert.True(t, o.Minify)
	assert.Equal(t, "web:", o.Cache.Namespace)
	assert.NoError(t, o.Validate())
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	content := "bundle_file: sprite.svg\nbundle_url: https://cdn.example.com/sprite.svg\ngap: 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "svgbundle.yaml"), []byte(content), 0o644))

	o, _, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/sprite.svg", o.BundleURL)
	assert.Equal(t, 3.0, o.GapOrDefault())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "svgbundle.toml"),
		[]byte("bundle_url = \"/from-file.svg\"\n"), 0o644))

	t.Setenv("SVGBUNDLE_BUNDLE_URL", "/from-env.svg")
	t.Setenv("SVGBUNDLE_CACHE_DISABLED", "true")

	o, _, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "/from-env.svg", o.BundleURL)
	assert.True(t, o.Cache.Disabled)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SVGBUNDLE_HASH", "env")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("hash", "", "")
	fs.Float64("gap", 0, "")
	require.NoError(t, fs.Parse([]string{"--hash", "flag"}))

	o, _, err := Load(LoadOptions{
		Dir:   t.TempDir(),
		Flags: map[string]*pflag.Flag{"hash": fs.Lookup("hash"), "gap": fs.Lookup("gap")},
	})
	require.NoError(t, err)
	assert.Equal(t, "flag", o.Hash)
	// An unset flag does not clobber the default.
	assert.Equal(t, DefaultGap, o.GapOrDefault())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, _, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.toml")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestWriteTemplateRoundTrips(t *testing.T) {
	o := Defaults()
	o.BundleFile = "sprite.svg"
	o.BundleURL = "/sprite.svg"

	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, o))
	assert.Contains(t, buf.String(), "# svgbundle configuration.")

	var got Options
	_, err := toml.Decode(buf.String(), &got)
	require.NoError(t, err)
	assert.Equal(t, o.BundleFile, got.BundleFile)
	assert.Equal(t, o.BundleURL, got.BundleURL)
	assert.Equal(t, DefaultGap, got.GapOrDefault())
}

func TestWriteYAML(t *testing.T) {
	o := Defaults()
	o.BundleURL = "/sprite.svg"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, o, "yaml"))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "/sprite.svg", got["bundle_url"])
	assert.Contains(t, got, "cache")
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, Defaults(), "ini"))
}
