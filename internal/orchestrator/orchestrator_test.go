package orchestrator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend mimics the engine's tick protocol: the first tick consumes
// the startup, each following tick completes one frame.
type fakeBackend struct {
	total     int
	completed int
	started   bool
	drained   bool
	stopped   bool
	drainErr  error
	events    []string
}

func (b *fakeBackend) Run(n int) {
	b.total = n
	b.completed = 0
	b.started = false
	b.events = append(b.events, fmt.Sprintf("run(%d)", n))
}

func (b *fakeBackend) IsStarted() bool { return b.started }

func (b *fakeBackend) IsRunning() bool { return b.started && b.completed < b.total }

func (b *fakeBackend) Drain() error {
	b.drained = true
	b.events = append(b.events, "drain")
	return b.drainErr
}

func (b *fakeBackend) Stop() {
	b.stopped = true
	b.events = append(b.events, "stop")
}

func (b *fakeBackend) step() {
	if !b.started {
		b.started = true
		return
	}
	if b.completed < b.total {
		b.completed++
	}
}

func newHarness(backend *fakeBackend) (*Orchestrator, *int) {
	ticks := 0
	orc := New(backend, func(ctx context.Context) error {
		ticks++
		backend.events = append(backend.events, "tick")
		backend.step()
		return nil
	})
	return orc, &ticks
}

func TestRun_FullLifecycle(t *testing.T) {
	backend := &fakeBackend{}
	orc, ticks := newHarness(backend)

	require.NoError(t, orc.Run(context.Background(), 3))

	// One startup tick, three frame ticks, one settling tick after stop.
	assert.Equal(t, 5, *ticks)
	assert.Equal(t, 3, backend.completed)
	assert.True(t, backend.drained)
	assert.True(t, backend.stopped)
	assert.Equal(t, StateIdle, orc.State())

	// Drain happens before stop, stop before the final tick.
	assert.Equal(t,
		[]string{"run(3)", "tick", "tick", "tick", "tick", "drain", "stop", "tick"},
		backend.events)
}

func TestRun_ZeroFrames(t *testing.T) {
	backend := &fakeBackend{}
	orc, ticks := newHarness(backend)

	require.NoError(t, orc.Run(context.Background(), 0))
	// Startup tick plus the final settling tick; no frame ticks.
	assert.Equal(t, 2, *ticks)
	assert.Equal(t, 0, backend.completed)
	assert.Equal(t, StateIdle, orc.State())
}

func TestRun_NegativeFrames(t *testing.T) {
	orc, _ := newHarness(&fakeBackend{})
	assert.ErrorContains(t, orc.Run(context.Background(), -1), "must not be negative")
}

func TestRun_DrainErrorSurfaces(t *testing.T) {
	backend := &fakeBackend{drainErr: fmt.Errorf("disk full")}
	orc, _ := newHarness(backend)

	err := orc.Run(context.Background(), 1)
	assert.ErrorContains(t, err, "failed to drain output")
	assert.False(t, backend.stopped)
}

func TestRun_ContextCancellation(t *testing.T) {
	backend := &fakeBackend{}
	ctx, cancel := context.WithCancel(context.Background())

	orc := New(backend, func(ctx context.Context) error {
		backend.step()
		if backend.completed >= 2 {
			cancel()
		}
		return nil
	})

	err := orc.Run(ctx, 100)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, backend.completed, 100)
}

func TestRun_TickErrorSurfaces(t *testing.T) {
	backend := &fakeBackend{}
	orc := New(backend, func(ctx context.Context) error {
		return fmt.Errorf("simulator crashed")
	})
	assert.ErrorContains(t, orc.Run(context.Background(), 1), "simulator crashed")
}

func TestRun_RejectsConcurrentRun(t *testing.T) {
	backend := &fakeBackend{}
	var orc *Orchestrator
	orc = New(backend, func(ctx context.Context) error {
		if orc.State() == StateStarted && !backend.started {
			// Re-entry while a run is active must be rejected.
			assert.ErrorContains(t, orc.Run(ctx, 1), "already active")
		}
		backend.step()
		return nil
	})
	require.NoError(t, orc.Run(context.Background(), 1))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "started", StateStarted.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopped", StateStopped.String())
}
