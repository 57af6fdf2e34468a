package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/svgbundle/pkg/errors"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, data)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))

	_, hit, _ = c.Get(ctx, "key")
	assert.False(t, hit, "NullCache should not store data")

	assert.NoError(t, c.Delete(ctx, "key"))
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	_, hit, err := c.Get(ctx, "optimize:abc")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "optimize:abc", []byte("<svg/>"), time.Hour))

	data, hit, err := c.Get(ctx, "optimize:abc")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("<svg/>"), data)

	require.NoError(t, c.Delete(ctx, "optimize:abc"))
	_, hit, _ = c.Get(ctx, "optimize:abc")
	assert.False(t, hit)

	// Deleting a missing key is fine.
	assert.NoError(t, c.Delete(ctx, "optimize:abc"))
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, hit, _ := c.Get(ctx, "k")
	assert.True(t, hit)

	now = now.Add(2 * time.Minute)
	_, hit, _ = c.Get(ctx, "k")
	assert.False(t, hit, "expired entry should miss")

	_, err = os.Stat(c.path("k"))
	assert.True(t, os.IsNotExist(err), "expired entry should be removed")
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	path := c.path("k")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0))
	}

	n, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, hit, _ := c.Get(ctx, "a")
	assert.False(t, hit)
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	assert.Equal(t, h1, Hash([]byte("hello")), "Hash should be deterministic")
	assert.NotEqual(t, h1, Hash([]byte("world")))
	assert.Len(t, h1, 64)
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	content := []byte(`<svg viewBox="0 0 1 1"/>`)

	k1 := k.OptimizeKey(content, OptimizeKeyOpts{Optimizer: "minify", Precision: 0})
	assert.True(t, strings.HasPrefix(k1, "optimize:"))
	assert.Equal(t, k1, k.OptimizeKey(content, OptimizeKeyOpts{Optimizer: "minify", Precision: 0}))

	k2 := k.OptimizeKey(content, OptimizeKeyOpts{Optimizer: "minify", Precision: 3})
	assert.NotEqual(t, k1, k2, "settings should change the key")

	k3 := k.OptimizeKey([]byte(`<svg viewBox="0 0 2 2"/>`), OptimizeKeyOpts{Optimizer: "minify"})
	assert.NotEqual(t, k1, k3, "content should change the key")
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "web:")
	content := []byte("<svg/>")

	got := scoped.OptimizeKey(content, OptimizeKeyOpts{})
	assert.Equal(t, "web:"+inner.OptimizeKey(content, OptimizeKeyOpts{}), got)
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	got := scoped.OptimizeKey([]byte("x"), OptimizeKeyOpts{})
	assert.True(t, strings.HasPrefix(got, "prefix:optimize:"))
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "http://not-redis", "svgbundle:")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}
