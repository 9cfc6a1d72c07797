// Package orchestrator drives a generation run through its lifecycle. It
// owns no scene or writer state; it only sequences the backend through
// Idle -> Started -> Running -> Stopped -> Idle, advancing the simulator
// one tick at a time.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/synthgrid/internal/ctxlog"
)

// State is the orchestrator's lifecycle phase.
type State int

const (
	// StateIdle means no run is active.
	StateIdle State = iota
	// StateStarted means a run was requested and is waiting for its
	// startup tick.
	StateStarted
	// StateRunning means frames are being generated.
	StateRunning
	// StateStopped means generation finished and the run is being torn
	// down.
	StateStopped
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarted:
		return "started"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Backend is the tick-driven generation engine the orchestrator sequences.
type Backend interface {
	// Run arms the backend for n frames.
	Run(n int)
	// IsStarted reports whether the armed run has consumed its startup tick.
	IsStarted() bool
	// IsRunning reports whether frames remain to generate.
	IsRunning() bool
	// Drain blocks until all in-flight output is persisted.
	Drain() error
	// Stop disarms the run.
	Stop()
}

// TickFunc advances the simulation by one tick.
type TickFunc func(ctx context.Context) error

// Orchestrator sequences one run at a time.
type Orchestrator struct {
	backend Backend
	tick    TickFunc

	mu    sync.RWMutex
	state State
}

// New creates an Orchestrator over a backend and a tick source.
func New(backend Backend, tick TickFunc) *Orchestrator {
	return &Orchestrator{backend: backend, tick: tick}
}

// State returns the current lifecycle phase.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

func (o *Orchestrator) setState(ctx context.Context, s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	ctxlog.FromContext(ctx).Info("Run state changed.", "state", s.String())
}

// Run executes one full generation run of frameCount frames, ticking the
// simulation until the backend reports completion, then draining output
// and tearing the run down with one final settling tick. Context
// cancellation is honored between ticks.
func (o *Orchestrator) Run(ctx context.Context, frameCount int) error {
	if frameCount < 0 {
		return fmt.Errorf("frame count must not be negative, got %d", frameCount)
	}
	if o.State() != StateIdle {
		return fmt.Errorf("a run is already active (state %s)", o.State())
	}

	o.setState(ctx, StateStarted)
	o.backend.Run(frameCount)

	for !o.backend.IsStarted() {
		if err := o.step(ctx); err != nil {
			return err
		}
	}

	o.setState(ctx, StateRunning)
	for o.backend.IsRunning() {
		if err := o.step(ctx); err != nil {
			return err
		}
	}

	if err := o.backend.Drain(); err != nil {
		return fmt.Errorf("failed to drain output: %w", err)
	}

	o.setState(ctx, StateStopped)
	o.backend.Stop()
	if err := o.step(ctx); err != nil {
		return err
	}

	o.setState(ctx, StateIdle)
	return nil
}

func (o *Orchestrator) step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.tick(ctx)
}
