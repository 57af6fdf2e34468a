package cache

// ScopedKeyer wraps a Keyer with a prefix so several projects can share one
// cache backend (typically Redis) without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "web-app:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// OptimizeKey generates a prefixed key for optimized markup.
func (k *ScopedKeyer) OptimizeKey(content []byte, opts OptimizeKeyOpts) string {
	return k.prefix + k.inner.OptimizeKey(content, opts)
}
