// Package ids allocates short, collision-free identifiers for packed images.
//
// Identifiers are derived from a file's basename. The first file named
// "home.svg" is addressed as "home"; later files with the same stem become
// "home-2", "home-3", and so on, in allocation order.
//
//	r := ids.NewRegistry()
//	a, _ := r.Allocate("home") // "home"
//	b, _ := r.Allocate("home") // "home-2"
package ids

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/matzehuels/svgbundle/pkg/errors"
)

// Registry is the set of identifiers already handed out within one build.
// It is safe for concurrent use.
type Registry struct {
	mu   sync.Mutex
	used map[string]struct{}

	// limit bounds the suffix counter; tests lower it to reach the
	// exhaustion path.
	limit int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{used: make(map[string]struct{}), limit: math.MaxInt}
}

// Allocate returns basename if it is unused, otherwise the first unused
// candidate of basename-2, basename-3, ... The returned id is recorded as used.
func (r *Registry) Allocate(basename string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.used[basename]; !taken {
		r.used[basename] = struct{}{}
		return basename, nil
	}
	for n := 2; ; n++ {
		candidate := basename + "-" + strconv.Itoa(n)
		if _, taken := r.used[candidate]; !taken {
			r.used[candidate] = struct{}{}
			return candidate, nil
		}
		if n >= r.limit {
			return "", errors.New(errors.ErrCodeInternal, "id space exhausted for %q", basename)
		}
	}
}

// Has reports whether id has been allocated.
func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.used[id]
	return ok
}

// Len returns the number of allocated ids.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.used)
}

// Stem returns the file name of path without its final extension,
// e.g. "/src/icons/arrow.left.svg" -> "arrow.left".
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
