// Package optimize shrinks SVG markup before it is packed.
//
// Optimized output is cached by a fingerprint of the source bytes and the
// optimizer settings, so unchanged images are only minified once.
package optimize

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/svg"

	"github.com/matzehuels/svgbundle/pkg/cache"
	"github.com/matzehuels/svgbundle/pkg/errors"
	"github.com/matzehuels/svgbundle/pkg/observability"
)

const (
	mimeSVG = "image/svg+xml"
	mimeCSS = "text/css"

	// name identifies the optimizer in cache keys.
	name = "tdewolff/minify/svg"
)

// Optimizer minifies SVG documents.
type Optimizer struct {
	m         *minify.M
	cache     cache.Cache
	keyer     cache.Keyer
	precision int
	logger    *log.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithCache stores results in c using keys from keyer.
// A nil keyer uses the default keyer.
func WithCache(c cache.Cache, keyer cache.Keyer) Option {
	return func(o *Optimizer) {
		o.cache = c
		if keyer != nil {
			o.keyer = keyer
		}
	}
}

// WithPrecision sets the number of significant digits kept in numbers.
// Zero keeps all digits.
func WithPrecision(p int) Option {
	return func(o *Optimizer) { o.precision = p }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Optimizer) { o.logger = l }
}

// New creates an optimizer. Without WithCache nothing is cached.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	o.m = minify.New()
	o.m.Add(mimeSVG, &svg.Minifier{Precision: o.precision})
	o.m.AddFunc(mimeCSS, css.Minify)
	return o
}

// Optimize returns the minified form of raw. Cache failures are logged and
// otherwise ignored; minification failures are returned as INVALID_SVG.
func (o *Optimizer) Optimize(ctx context.Context, raw []byte) ([]byte, error) {
	hooks := observability.Cache()
	key := o.keyer.OptimizeKey(raw, cache.OptimizeKeyOpts{Optimizer: name, Precision: o.precision})

	data, ok, err := o.cache.Get(ctx, key)
	if err != nil {
		o.logger.Warn("optimizer cache read failed", "err", err)
	}
	if ok {
		hooks.OnCacheHit(ctx, "optimize")
		return data, nil
	}
	hooks.OnCacheMiss(ctx, "optimize")

	out, err := o.m.Bytes(mimeSVG, raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSVG, err, "optimize")
	}

	if err := o.cache.Set(ctx, key, out, cache.TTLOptimized); err != nil {
		o.logger.Warn("optimizer cache write failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, "optimize", len(out))
	}
	return out, nil
}
