// Package engine runs the per-frame dataset generation cycle: apply the
// randomization rules, render each product, and hand the records to an
// asynchronous writer pool. The engine is tick-driven; something external
// (the orchestrator through the simulator) advances it one Step at a time.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/synthgrid/internal/ctxlog"
	"github.com/vk/synthgrid/internal/randomizer"
	"github.com/vk/synthgrid/internal/render"
	"github.com/vk/synthgrid/internal/writer"
)

// Config wires an Engine.
type Config struct {
	Registry *randomizer.Registry
	Renderer *render.Renderer
	Products []*render.Product
	Sink     writer.Writer
	// Workers sizes the asynchronous writer pool. Values below 1 are
	// clamped to 1.
	Workers int
}

// Engine generates one frame per tick once a run is active. The first tick
// after Run only marks the run as started; generation begins on the next
// tick. Ticks arriving outside a run, or after the frame budget is
// exhausted, are no-ops.
type Engine struct {
	registry *randomizer.Registry
	renderer *render.Renderer
	products []*render.Product
	dispatch *dispatcher

	mu        sync.Mutex
	total     int
	completed int
	started   bool
	tick      int
}

// New creates an Engine from the given wiring.
func New(cfg Config) (*Engine, error) {
	if cfg.Registry == nil || cfg.Renderer == nil || cfg.Sink == nil {
		return nil, fmt.Errorf("engine: registry, renderer and sink are all required")
	}
	if len(cfg.Products) == 0 {
		return nil, fmt.Errorf("engine: at least one render product is required")
	}
	return &Engine{
		registry: cfg.Registry,
		renderer: cfg.Renderer,
		products: cfg.Products,
		dispatch: newDispatcher(cfg.Sink, cfg.Workers),
	}, nil
}

// Start launches the writer pool. Must be called once before the first Run;
// Close is its counterpart.
func (e *Engine) Start(ctx context.Context) {
	e.dispatch.start(ctx)
}

// Run arms the engine for a run of n frames. n may be zero; the run then
// starts and immediately has nothing left to generate.
func (e *Engine) Run(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.total = n
	e.completed = 0
	e.started = false
}

// IsStarted reports whether the armed run has consumed its startup tick.
func (e *Engine) IsStarted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

// IsRunning reports whether the run still has frames to generate.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started && e.completed < e.total
}

// Completed returns the number of frames generated so far in this run.
func (e *Engine) Completed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.completed
}

// Step advances the engine by one tick.
func (e *Engine) Step(ctx context.Context) error {
	e.mu.Lock()
	e.tick++
	tick := e.tick
	if !e.started {
		e.started = true
		total := e.total
		e.mu.Unlock()
		ctxlog.FromContext(ctx).Debug("Generation run started.", "frames", total)
		return nil
	}
	if e.completed >= e.total {
		e.mu.Unlock()
		return nil
	}
	index := e.completed
	e.mu.Unlock()

	if err := e.registry.Apply(ctx, tick); err != nil {
		return err
	}
	for _, p := range e.products {
		record, err := e.renderer.Render(p, index)
		if err != nil {
			return fmt.Errorf("failed to render frame %d: %w", index, err)
		}
		e.dispatch.dispatch(record)
	}

	e.mu.Lock()
	e.completed++
	e.mu.Unlock()
	return nil
}

// Drain blocks until all dispatched records are written and returns the
// first write error, if any.
func (e *Engine) Drain() error {
	return e.dispatch.drain()
}

// Stop disarms the current run.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = false
	e.total = 0
	e.completed = 0
}

// Close shuts the writer pool down. Pending records are still written.
func (e *Engine) Close() {
	e.dispatch.close()
}
