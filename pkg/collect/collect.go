// Package collect discovers SVG references while esbuild resolves imports.
//
// A Collector is installed as an esbuild OnResolve callback for ".svg" paths
// in the file namespace. For every CSS url() token it resolves the file,
// assigns the file a stable id, and rewrites the reference to point into the
// future sprite:
//
//	url("./icons/home.svg")  ->  url("/assets/sprite.svg?hash=abc#home")
//
// The rewritten reference is external and side-effect free, so esbuild
// neither inlines nor tree-shakes it. The source file is registered as a
// watched file so edits trigger a rebuild.
//
// Every distinct resolved file is appended once per pass to an ordered queue.
// The end-of-pass pipeline reads that queue through [Collector.Pending] after
// esbuild has settled all resolutions. [Collector.BeginPass] empties the queue
// for the next rebuild; ids assigned in earlier passes are kept, so a file
// keeps its fragment id for the lifetime of the Collector.
package collect

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/evanw/esbuild/pkg/api"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/svgbundle/pkg/errors"
	"github.com/matzehuels/svgbundle/pkg/ids"
	"github.com/matzehuels/svgbundle/pkg/observability"
)

// DefaultNamespace is the isolated namespace used to resolve image paths so
// esbuild never treats the resolved file as bundlable code.
const DefaultNamespace = "svg-bundle"

// Filter is the OnResolve path filter for vector images.
const Filter = `\.svg$`

// Reference is one distinct image discovered during resolution.
type Reference struct {
	Specifier string // specifier text as first written in the importer
	Path      string // resolved absolute path, the dedup key
	ID        string // fragment id inside the sprite
}

// ResolveFunc resolves a specifier the way esbuild's PluginBuild.Resolve does.
type ResolveFunc func(path string, options api.ResolveOptions) api.ResolveResult

// Options configures a Collector.
type Options struct {
	// BundleURL is the public URL of the sprite.
	BundleURL string

	// Hash, when set, is appended as "?hash=<Hash>" for cache busting.
	Hash string

	// Namespace overrides DefaultNamespace.
	Namespace string

	// PluginName is reported to esbuild when resolving.
	PluginName string

	Logger *log.Logger
}

// Collector records image references for one plugin instance.
// It is safe for concurrent use by esbuild's resolver goroutines.
type Collector struct {
	resolve ResolveFunc
	opts    Options
	logger  *log.Logger

	flight singleflight.Group

	mu     sync.Mutex
	ids    *ids.Registry
	byPath map[string]string // every path ever assigned an id
	inPass map[string]bool   // paths queued in the current pass
	queue  []Reference
}

// New creates a Collector that resolves specifiers through resolve.
func New(resolve ResolveFunc, opts Options) *Collector {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Collector{
		resolve: resolve,
		opts:    opts,
		logger:  logger,
		ids:     ids.NewRegistry(),
		byPath:  make(map[string]string),
		inPass:  make(map[string]bool),
	}
}

// BeginPass discards the references queued by the previous pass. Ids stay
// assigned, so a file referenced again gets the id it had before.
func (c *Collector) BeginPass() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = nil
	c.inPass = make(map[string]bool)
}

// OnResolve is the esbuild OnResolve callback.
//
// Only url() tokens are handled. Other kinds (JS imports, CSS @import) get an
// empty result so esbuild falls through to its default handling. Resolution
// errors are forwarded unchanged and affect only this reference.
func (c *Collector) OnResolve(args api.OnResolveArgs) (api.OnResolveResult, error) {
	if args.Kind != api.ResolveCSSURLToken {
		return api.OnResolveResult{}, nil
	}

	resolved := c.resolveOnce(args)
	if len(resolved.Errors) > 0 {
		observability.Collect().OnResolveError(context.Background(), args.Path, len(resolved.Errors))
		return api.OnResolveResult{Errors: resolved.Errors, Warnings: resolved.Warnings}, nil
	}

	ref, err := c.Register(args.Path, resolved.Path)
	if err != nil {
		return api.OnResolveResult{}, err
	}

	return api.OnResolveResult{
		Path:        c.URL(ref.ID),
		External:    true,
		SideEffects: api.SideEffectsFalse,
		WatchFiles:  []string{ref.Path},
		Warnings:    resolved.Warnings,
	}, nil
}

// resolveOnce resolves args in the isolated namespace, sharing the work of
// identical resolutions that are in flight at the same time.
func (c *Collector) resolveOnce(args api.OnResolveArgs) api.ResolveResult {
	key := args.ResolveDir + "\x00" + args.Path
	if c.resolve == nil {
		return api.ResolveResult{Errors: []api.Message{{
			PluginName: c.opts.PluginName,
			Text:       errors.New(errors.ErrCodeNotResolved, "no resolver for %q", args.Path).Error(),
		}}}
	}
	v, _, _ := c.flight.Do(key, func() (any, error) {
		return c.resolve(args.Path, api.ResolveOptions{
			PluginName: c.opts.PluginName,
			Importer:   args.Importer,
			Namespace:  c.opts.Namespace,
			ResolveDir: args.ResolveDir,
			Kind:       args.Kind,
		}), nil
	})
	return v.(api.ResolveResult)
}

// Register records path under a fresh id, or reuses the id assigned earlier.
// A path is queued once per pass. Lookup, allocation and insertion happen
// under one lock, so concurrent callers for the same path always agree on
// the id.
func (c *Collector) Register(specifier, path string) (Reference, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.byPath[path]; ok {
		ref := Reference{Specifier: specifier, Path: path, ID: id}
		if !c.inPass[path] {
			c.inPass[path] = true
			c.queue = append(c.queue, ref)
		}
		observability.Collect().OnReference(context.Background(), id, path, true)
		return ref, nil
	}

	id, err := c.ids.Allocate(ids.Stem(path))
	if err != nil {
		return Reference{}, err
	}
	ref := Reference{Specifier: specifier, Path: path, ID: id}
	c.byPath[path] = id
	c.inPass[path] = true
	c.queue = append(c.queue, ref)

	c.logger.Debug("collected svg", "id", id, "path", path)
	observability.Collect().OnReference(context.Background(), id, path, false)
	return ref, nil
}

// URL returns the rewritten reference for id.
func (c *Collector) URL(id string) string {
	u := c.opts.BundleURL
	if c.opts.Hash != "" {
		u += "?hash=" + c.opts.Hash
	}
	return u + "#" + id
}

// Lookup returns the id assigned to an absolute path in any pass.
func (c *Collector) Lookup(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.byPath[path]
	return id, ok
}

// Pending returns a snapshot of the collected references in first-seen order.
func (c *Collector) Pending() []Reference {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Reference(nil), c.queue...)
}

// Len returns the number of distinct references queued in the current pass.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}
