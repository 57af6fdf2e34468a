package cache

// Keyer derives cache keys for cached artifacts.
type Keyer interface {
	// OptimizeKey returns the key for the optimized form of content.
	OptimizeKey(content []byte, opts OptimizeKeyOpts) string
}

// OptimizeKeyOpts are the optimizer settings that change its output.
type OptimizeKeyOpts struct {
	Optimizer string `json:"optimizer"`
	Precision int    `json:"precision"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// OptimizeKey generates "optimize:<hash>" from the content and settings.
func (DefaultKeyer) OptimizeKey(content []byte, opts OptimizeKeyOpts) string {
	return hashKey("optimize", Hash(content), opts)
}
