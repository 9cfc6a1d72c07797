package randomizer

import (
	"context"
	"fmt"

	"github.com/vk/synthgrid/internal/config"
	"github.com/vk/synthgrid/internal/dist"
	"github.com/vk/synthgrid/internal/geom"
	"github.com/vk/synthgrid/internal/scene"
)

// ColorRule assigns a fresh color draw to every entity matching a path
// pattern. A pattern matching nothing is a valid no-op.
type ColorRule struct {
	name    string
	graph   *scene.Graph
	pattern string
	color   dist.Distribution
	sampler *dist.Sampler
}

// NewColorRule creates a color randomization rule over a path pattern.
func NewColorRule(name string, graph *scene.Graph, pattern string, color dist.Distribution, sampler *dist.Sampler) *ColorRule {
	return &ColorRule{name: name, graph: graph, pattern: pattern, color: color, sampler: sampler}
}

func (r *ColorRule) Name() string { return r.name }

func (r *ColorRule) Apply(ctx context.Context, tick int) error {
	matches, err := r.graph.Find(r.pattern)
	if err != nil {
		return err
	}
	for _, e := range matches {
		e.Color = r.sampler.SampleColor(r.color)
	}
	return nil
}

// LightRule randomizes color and intensity of every matching light.
type LightRule struct {
	name      string
	graph     *scene.Graph
	pattern   string
	color     dist.Distribution
	intensity dist.Distribution
	sampler   *dist.Sampler
}

// NewLightRule creates a light randomization rule over a path pattern.
func NewLightRule(name string, graph *scene.Graph, pattern string, color, intensity dist.Distribution, sampler *dist.Sampler) *LightRule {
	return &LightRule{name: name, graph: graph, pattern: pattern, color: color, intensity: intensity, sampler: sampler}
}

func (r *LightRule) Name() string { return r.name }

func (r *LightRule) Apply(ctx context.Context, tick int) error {
	matches, err := r.graph.Find(r.pattern)
	if err != nil {
		return err
	}
	for _, e := range matches {
		e.Color = r.sampler.SampleColor(r.color)
		e.Intensity = r.sampler.Sample(r.intensity).Float()
	}
	return nil
}

// PoseRule draws a position and rotation for its target entities. With
// Shared set, one draw is applied to all targets so they move as a unit;
// otherwise each target gets its own draw.
type PoseRule struct {
	name     string
	targets  []*scene.Entity
	position dist.Distribution
	rotation dist.Distribution
	shared   bool
	sampler  *dist.Sampler
}

// NewPoseRule creates a pose randomization rule for fixed target entities.
func NewPoseRule(name string, targets []*scene.Entity, position, rotation dist.Distribution, shared bool, sampler *dist.Sampler) *PoseRule {
	return &PoseRule{name: name, targets: targets, position: position, rotation: rotation, shared: shared, sampler: sampler}
}

func (r *PoseRule) Name() string { return r.name }

func (r *PoseRule) Apply(ctx context.Context, tick int) error {
	if r.shared {
		pos := r.sampler.Sample(r.position).Vec()
		rot := r.sampler.Sample(r.rotation).Vec()
		for _, e := range r.targets {
			e.Transform.Position = pos
			e.Transform.Rotation = rot
		}
		return nil
	}
	for _, e := range r.targets {
		e.Transform.Position = r.sampler.Sample(r.position).Vec()
		e.Transform.Rotation = r.sampler.Sample(r.rotation).Vec()
	}
	return nil
}

// ClassRule instantiates and scatters one object class per tick. Instances
// live in a pool under /Replicated; the per-tick count only toggles
// visibility, so entity identity is stable across frames and the scene
// graph never shrinks.
type ClassRule struct {
	class   *config.ClassConfig
	graph   *scene.Graph
	sampler *dist.Sampler
	scatter *scatter
	pool    []*scene.Entity
}

// NewClassRule creates the scatter rule for one object class. The class
// asset must already be resolved; the rule only places instances.
func NewClassRule(class *config.ClassConfig, graph *scene.Graph, surface *scene.Entity, sampler *dist.Sampler) *ClassRule {
	return &ClassRule{
		class:   class,
		graph:   graph,
		sampler: sampler,
		scatter: &scatter{
			surface:         surface,
			checkCollisions: class.CheckCollisions,
			retries:         class.PlacementRetries,
		},
	}
}

func (r *ClassRule) Name() string { return "class/" + r.class.Name }

func (r *ClassRule) Apply(ctx context.Context, tick int) error {
	n := r.sampler.SampleCount(r.class.Count)
	if err := r.grow(n); err != nil {
		return err
	}

	occupied := make([]footprint, 0, n)
	for i, e := range r.pool {
		if i >= n {
			e.Visible = false
			continue
		}
		e.Visible = true
		e.Transform.Scale = r.sampleScale()
		e.Transform.Rotation = r.sampler.Sample(r.class.Rotation).Vec()
		e.Color = r.sampler.SampleColor(r.class.Color)

		pos, fp := r.scatter.place(r.sampler, e.Transform.Scale, occupied)
		e.Transform.Position = pos
		occupied = append(occupied, fp)
	}
	return nil
}

// grow extends the instance pool to at least n entities.
func (r *ClassRule) grow(n int) error {
	for len(r.pool) < n {
		path := fmt.Sprintf("/Replicated/%s_%02d", r.class.Name, len(r.pool))
		e, err := r.graph.Create(path)
		if err != nil {
			return err
		}
		e.Label = r.class.Name
		e.Visible = false
		r.pool = append(r.pool, e)
	}
	return nil
}

// sampleScale draws the instance scale. A scalar distribution yields one
// draw applied to all three axes, keeping the instance proportions.
func (r *ClassRule) sampleScale() geom.Vec3 {
	v := r.sampler.Sample(r.class.Scale)
	if v.Shape == dist.Scalar {
		f := v.Float()
		return geom.Vec3{f, f, f}
	}
	return v.Vec()
}
