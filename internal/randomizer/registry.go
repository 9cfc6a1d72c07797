// Package randomizer mutates the scene graph once per tick. Rules are
// registered in a fixed order and applied in that order, so a run is fully
// reproducible from the sampler seed alone.
package randomizer

import (
	"context"
	"fmt"

	"github.com/vk/synthgrid/internal/ctxlog"
)

// Rule mutates some part of the scene for one frame. Apply is called once
// per tick from a single goroutine; rules never run concurrently.
type Rule interface {
	Name() string
	Apply(ctx context.Context, tick int) error
}

// Registry holds the ordered rule list for a run.
type Registry struct {
	rules []Rule
	names map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register appends a rule. Registration order is application order. It
// panics on a duplicate rule name; that is a wiring error caught at startup.
func (r *Registry) Register(rule Rule) {
	if _, exists := r.names[rule.Name()]; exists {
		panic(fmt.Sprintf("randomization rule '%s' is already registered", rule.Name()))
	}
	r.names[rule.Name()] = struct{}{}
	r.rules = append(r.rules, rule)
}

// Len returns the number of registered rules.
func (r *Registry) Len() int { return len(r.rules) }

// Apply runs every rule in registration order, stopping at the first
// failure.
func (r *Registry) Apply(ctx context.Context, tick int) error {
	logger := ctxlog.FromContext(ctx)
	for _, rule := range r.rules {
		if err := rule.Apply(ctx, tick); err != nil {
			return fmt.Errorf("rule '%s' failed on tick %d: %w", rule.Name(), tick, err)
		}
		logger.Debug("Randomization rule applied.", "rule", rule.Name(), "tick", tick)
	}
	return nil
}
