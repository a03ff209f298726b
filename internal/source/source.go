// Package source loads configuration trees from source documents so the
// CLI can generate Evergreen files without Go code. YAML and JSON documents
// keep their key order; HCL documents keep their source order.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/evgconfig/internal/value"
)

// Loader parses raw document bytes into a configuration tree. filename is
// used for diagnostics only.
type Loader interface {
	Load(data []byte, filename string) (value.Value, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(data []byte, filename string) (value.Value, error)

// Load calls f.
func (f LoaderFunc) Load(data []byte, filename string) (value.Value, error) {
	return f(data, filename)
}

// Registry maps file extensions (including the dot) to loaders.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// Register adds a loader for the given extension. Existing entries for the
// same extension are overwritten.
func (r *Registry) Register(ext string, l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loaders[strings.ToLower(ext)] = l
}

// Loader returns the loader responsible for path.
func (r *Registry) Loader(path string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))

	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported source format %q for %s (available: %s)",
			ext, path, strings.Join(r.extensionsLocked(), ", "))
	}

	return l, nil
}

// Extensions returns the sorted list of registered extensions.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.extensionsLocked()
}

func (r *Registry) extensionsLocked() []string {
	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}

	sort.Strings(exts)

	return exts
}

// LoadFile reads path and parses it with the matching loader.
func (r *Registry) LoadFile(path string) (value.Value, error) {
	l, err := r.Loader(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied source path
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", path, err)
	}

	v, err := l.Load(data, path)
	if err != nil {
		return nil, fmt.Errorf("loading source %s: %w", path, err)
	}

	return v, nil
}

// DefaultRegistry returns a registry with the built-in loaders:
// .yaml, .yml and .json (YAML loader) and .hcl (HCL loader).
func DefaultRegistry() *Registry {
	r := NewRegistry()

	y := LoaderFunc(LoadYAML)
	r.Register(".yaml", y)
	r.Register(".yml", y)
	r.Register(".json", y)
	r.Register(".hcl", LoaderFunc(LoadHCL))

	return r
}

// Load reads path with the default registry.
func Load(path string) (value.Value, error) {
	return DefaultRegistry().LoadFile(path)
}
