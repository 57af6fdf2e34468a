package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Collect hooks
	c := NoopCollectHooks{}
	c.OnReference(ctx, "home", "/src/home.svg", false)
	c.OnResolveError(ctx, "./missing.svg", 1)

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnPassStart(ctx, 3)
	p.OnExtract(ctx, "home", 512, time.Millisecond, nil)
	p.OnPack(ctx, 3, 2048, time.Millisecond)
	p.OnPassComplete(ctx, "dist/sprite.svg", time.Second, nil)

	// Cache hooks
	k := NoopCacheHooks{}
	k.OnCacheHit(ctx, "optimize")
	k.OnCacheMiss(ctx, "optimize")
	k.OnCacheSet(ctx, "optimize", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Collect().(NoopCollectHooks); !ok {
		t.Error("Collect() should return NoopCollectHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customCollect := &testCollectHooks{}
	SetCollectHooks(customCollect)
	if Collect() != customCollect {
		t.Error("SetCollectHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Collect().(NoopCollectHooks); !ok {
		t.Error("Reset() should restore NoopCollectHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testCollectHooks struct{ NoopCollectHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
