package cli

import (
	"context"
	"sync/atomic"

	"github.com/matzehuels/svgbundle/pkg/observability"
)

// cacheCounter counts optimizer cache hits for the summary line.
type cacheCounter struct {
	observability.NoopCacheHooks
	hits atomic.Int64
}

func (c *cacheCounter) OnCacheHit(context.Context, string) { c.hits.Add(1) }

// take returns the hits counted since the last call and resets the count.
func (c *cacheCounter) take() int { return int(c.hits.Swap(0)) }

// countCacheHits installs a counter as the global cache hooks.
func countCacheHits() *cacheCounter {
	c := &cacheCounter{}
	observability.SetCacheHooks(c)
	return c
}
