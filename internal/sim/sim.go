// Package sim hosts the simulation application shell: the process-level
// runtime that must be launched before any scene work and ticked to
// advance simulation time. Components that need to move once per tick
// attach themselves as Tickers.
package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/synthgrid/internal/ctxlog"
)

// Quality selects the render quality preset.
type Quality int

const (
	// QualityPreview is the fast rasterized preset.
	QualityPreview Quality = iota
	// QualityRayTraced enables ray-traced lighting.
	QualityRayTraced
	// QualityPathTraced enables full path tracing.
	QualityPathTraced
)

// String returns the preset's configuration name.
func (q Quality) String() string {
	switch q {
	case QualityPreview:
		return "preview"
	case QualityRayTraced:
		return "raytraced"
	case QualityPathTraced:
		return "pathtraced"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// ParseQuality maps a configuration string to its Quality preset.
func ParseQuality(s string) (Quality, error) {
	switch s {
	case "preview":
		return QualityPreview, nil
	case "raytraced":
		return QualityRayTraced, nil
	case "pathtraced":
		return QualityPathTraced, nil
	default:
		return 0, fmt.Errorf("unknown render quality '%s' (expected preview, raytraced or pathtraced)", s)
	}
}

// Config holds the simulator launch parameters.
type Config struct {
	Headless      bool
	Width         int
	Height        int
	FrameCount    int
	RenderQuality Quality
}

// Validate checks the launch parameters.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", c.Width, c.Height)
	}
	if c.FrameCount < 0 {
		return fmt.Errorf("frame count must not be negative, got %d", c.FrameCount)
	}
	return nil
}

// Ticker is a component advanced once per simulation tick.
type Ticker interface {
	Step(ctx context.Context) error
}

// Simulator is the launched application shell. It owns the tick counter
// and fans each tick out to the attached tickers in attachment order.
type Simulator struct {
	cfg Config

	mu      sync.Mutex
	tickers []Ticker
	ticks   int
	closed  bool
}

// Launch validates the configuration and brings the simulator up. Close
// must be called on every launched simulator, including after failed runs.
func Launch(ctx context.Context, cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Simulation app launched.",
		"headless", cfg.Headless,
		"resolution", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"render_quality", cfg.RenderQuality.String(),
	)
	return &Simulator{cfg: cfg}, nil
}

// Config returns the launch configuration.
func (s *Simulator) Config() Config { return s.cfg }

// Attach registers a ticker. Attachment order is tick order.
func (s *Simulator) Attach(t Ticker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickers = append(s.tickers, t)
}

// Tick advances simulation time by one step and steps every attached
// ticker, stopping at the first failure.
func (s *Simulator) Tick(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("simulation app is closed")
	}
	s.ticks++
	tickers := append([]Ticker(nil), s.tickers...)
	s.mu.Unlock()

	for _, t := range tickers {
		if err := t.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Ticks returns the number of ticks since launch.
func (s *Simulator) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Close shuts the simulator down. Close is idempotent; ticks arriving
// after Close fail.
func (s *Simulator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
