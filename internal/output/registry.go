package output

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/evgconfig/internal/render"
)

// Encoder serializes a configuration tree with the given renderer.
type Encoder func(r *render.Renderer, tree any) ([]byte, error)

// Registry maps format names to Encoder functions, enabling pluggable
// output formats for the render command.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewRegistry creates an empty encoder registry.
func NewRegistry() *Registry {
	return &Registry{
		encoders: make(map[string]Encoder),
	}
}

// Register adds an encoder under the given format name.
// Existing entries for the same name are overwritten.
func (r *Registry) Register(name string, enc Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.encoders[name] = enc
}

// Encoder returns the encoder for the given format, or an error if not found.
func (r *Registry) Encoder(name string) (Encoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enc, ok := r.encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, r.availableLocked())
	}

	return enc, nil
}

// Formats returns the sorted list of registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.formatsLocked()
}

// AvailableFormats returns a comma-separated string of registered format names.
func (r *Registry) AvailableFormats() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.availableLocked()
}

func (r *Registry) formatsLocked() []string {
	names := make([]string, 0, len(r.encoders))
	for name := range r.encoders {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *Registry) availableLocked() string {
	formats := r.formatsLocked()
	if len(formats) == 0 {
		return "none"
	}

	return strings.Join(formats, ", ")
}

// DefaultRegistry returns a registry pre-populated with the built-in
// formats: yaml (with the generated-file header) and json.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("yaml", func(rr *render.Renderer, tree any) ([]byte, error) {
		return Document(tree, rr)
	})

	r.Register("json", func(rr *render.Renderer, tree any) ([]byte, error) {
		if rr == nil {
			rr = render.New()
		}

		return rr.JSON(tree)
	})

	return r
}
