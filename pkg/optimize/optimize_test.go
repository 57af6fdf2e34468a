package optimize

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/svgbundle/pkg/cache"
	"github.com/matzehuels/svgbundle/pkg/shape"
)

const icon = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none">
  <!-- exported by a design tool -->
  <path d="M 2.000 2.000 L 22.000 22.000"/>
</svg>
`

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestOptimizeShrinksAndStaysExtractable(t *testing.T) {
	o := New()

	out, err := o.Optimize(context.Background(), []byte(icon))
	require.NoError(t, err)

	assert.Less(t, len(out), len(icon))
	assert.NotContains(t, string(out), "<!--")

	s, err := shape.Extract("icon", out)
	require.NoError(t, err)
	assert.Equal(t, 24.0, s.ViewBox.Width)
	assert.Equal(t, 24.0, s.ViewBox.Height)
}

func TestOptimizeCachesResult(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	o := New(WithCache(mc, nil))

	first, err := o.Optimize(ctx, []byte(icon))
	require.NoError(t, err)
	assert.Equal(t, 1, mc.sets)

	second, err := o.Optimize(ctx, []byte(icon))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, mc.sets, "second call should be served from cache")
	assert.Equal(t, 2, mc.gets)
}

func TestOptimizeReturnsCachedBytesVerbatim(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	keyer := cache.NewScopedKeyer(nil, "proj:")
	o := New(WithCache(mc, keyer))

	key := keyer.OptimizeKey([]byte(icon), cache.OptimizeKeyOpts{Optimizer: name})
	mc.data[key] = []byte("cached")

	out, err := o.Optimize(ctx, []byte(icon))
	require.NoError(t, err)
	assert.Equal(t, "cached", string(out))
}

func TestOptimizePrecisionChangesKey(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()

	_, err := New(WithCache(mc, nil)).Optimize(ctx, []byte(icon))
	require.NoError(t, err)
	_, err = New(WithCache(mc, nil), WithPrecision(3)).Optimize(ctx, []byte(icon))
	require.NoError(t, err)

	assert.Len(t, mc.data, 2)
}
