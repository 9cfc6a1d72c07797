// Package writer persists rendered dataset records to disk. Writers are
// registered by name so the output format is a configuration choice.
package writer

import (
	"context"
	"fmt"

	"github.com/vk/synthgrid/internal/render"
)

// Options tunes how a writer annotates its output.
type Options struct {
	// OmitSemanticType strips the semantic type prefix from labels, leaving
	// the bare class name.
	OmitSemanticType bool
}

// Writer persists dataset records. Initialize is called once before the
// run, Attach once per render product, and Write once per record. Write
// must be safe for concurrent use; records arrive from dispatcher workers
// in no particular order.
type Writer interface {
	Initialize(outputDir string, opts Options) error
	Attach(p *render.Product) error
	Write(ctx context.Context, rec *render.Record) error
	Close() error
}

// Factory creates a fresh writer instance.
type Factory func() Writer

// Registry maps writer names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a writer factory. It panics when the name is already
// taken; duplicate registrations are a programming error caught at
// startup.
func (r *Registry) Register(name string, factory Factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("writer '%s' is already registered", name))
	}
	r.factories[name] = factory
}

// Get instantiates the named writer.
func (r *Registry) Get(name string) (Writer, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown writer '%s'", name)
	}
	return factory(), nil
}

// DefaultRegistry returns a registry with all built-in writers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("kitti", func() Writer { return NewKitti() })
	r.Register("cbor", func() Writer { return NewCBOR() })
	return r
}
