// Package scene holds the in-memory scene graph: addressable entities with
// a transform, color, visibility and an optional semantic label, plus the
// composer that builds the initial stage/camera/tray/surface layout.
//
// The graph is an explicit handle passed to every component that needs it;
// there is no process-global stage. Mutation is owned by the randomization
// registry during a tick: callers must not mutate entities between a run's
// start and its stop.
package scene

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/vk/synthgrid/internal/geom"
)

// Transform is an entity's pose: position, ZYX Euler rotation in degrees,
// and per-axis scale.
type Transform struct {
	Position geom.Vec3
	Rotation geom.Vec3
	Scale    geom.Vec3
}

// Entity is an addressable node in the scene graph.
type Entity struct {
	path  string
	id    int
	Label string

	Transform Transform
	Color     geom.Vec3
	Intensity float32
	Visible   bool
}

// Path returns the entity's unique scene-graph path.
func (e *Entity) Path() string { return e.path }

// ID returns the entity's stable instance id, unique within the graph.
func (e *Entity) ID() int { return e.id }

// Graph is the collection of scene entities, addressable by path.
type Graph struct {
	mu       sync.RWMutex
	entities map[string]*Entity
	order    []*Entity
	nextID   int
}

// NewGraph returns an empty scene graph.
func NewGraph() *Graph {
	return &Graph{entities: make(map[string]*Entity)}
}

// Create adds a new entity at the given path. The path must be unique;
// a duplicate is a programmer error in scene composition.
func (g *Graph) Create(path string) (*Entity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.entities[path]; exists {
		return nil, fmt.Errorf("entity path '%s' already exists", path)
	}
	g.nextID++
	e := &Entity{
		path:    path,
		id:      g.nextID,
		Visible: true,
		Transform: Transform{
			Scale: geom.Vec3{1, 1, 1},
		},
		Color: geom.Vec3{1, 1, 1},
	}
	g.entities[path] = e
	g.order = append(g.order, e)
	return e, nil
}

// Get returns the entity at the exact path, or nil.
func (g *Graph) Get(path string) *Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.entities[path]
}

// Find returns all entities whose path matches the given pattern, in
// creation order. The pattern is a regular expression matched anywhere in
// the path. A pattern matching nothing returns an empty slice; selectors
// with no targets are valid (the consuming rule becomes a no-op).
func (g *Graph) Find(pattern string) ([]*Entity, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid path pattern '%s': %w", pattern, err)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	var matched []*Entity
	for _, e := range g.order {
		if re.MatchString(e.path) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Labeled returns all visible entities carrying a semantic label, sorted by
// path for deterministic iteration.
func (g *Graph) Labeled() []*Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []*Entity
	for _, e := range g.order {
		if e.Visible && e.Label != "" {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

// Len returns the number of entities in the graph.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entities)
}
