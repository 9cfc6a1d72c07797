package randomizer

import (
	"github.com/chewxy/math32"

	"github.com/vk/synthgrid/internal/dist"
	"github.com/vk/synthgrid/internal/geom"
	"github.com/vk/synthgrid/internal/scene"
)

// footprint is an item's occupied disc in the scatter surface's local XY
// plane. Collision checks approximate every item as a circle around its
// center, which overestimates slim items but never lets true box overlap
// slip through undetected.
type footprint struct {
	x, y, r float32
}

func (f footprint) overlaps(other footprint) bool {
	dx, dy := f.x-other.x, f.y-other.y
	limit := f.r + other.r
	return dx*dx+dy*dy < limit*limit
}

// scatter places items uniformly on the scatter surface plane. The surface
// entity's scale X/Y are the placement half-extents; its pose maps local
// placements into world space and is re-read every call, so per-tick
// surface movement is picked up automatically.
type scatter struct {
	surface *scene.Entity

	checkCollisions bool
	retries         int
}

// place samples a surface-local position for an item with the given scale,
// avoiding the occupied footprints when collision checking is on. After the
// retry budget is exhausted the last candidate is accepted; an overlapping
// placement beats an infinite loop on a crowded surface.
func (s *scatter) place(sampler *dist.Sampler, itemScale geom.Vec3, occupied []footprint) (geom.Vec3, footprint) {
	halfX := s.surface.Transform.Scale[0]
	halfY := s.surface.Transform.Scale[1]
	radius := math32.Max(itemScale[0], itemScale[1]) / 2

	span := dist.NewUniformVec3(geom.Vec3{-halfX, -halfY, 0}, geom.Vec3{halfX, halfY, 0})

	var candidate footprint
	attempts := 1
	if s.checkCollisions {
		attempts += s.retries
	}
	for i := 0; i < attempts; i++ {
		uv := sampler.Sample(span).Vec()
		candidate = footprint{x: uv[0], y: uv[1], r: radius}
		if !s.checkCollisions || !overlapsAny(candidate, occupied) {
			break
		}
	}

	// Rest the item on the plane, then map into world space through the
	// surface's current pose.
	local := geom.Vec3{candidate.x, candidate.y, itemScale[2] / 2}
	rot := geom.EulerZYX(s.surface.Transform.Rotation)
	world := s.surface.Transform.Position.Add(rot.MulVec(local))
	return world, candidate
}

func overlapsAny(candidate footprint, occupied []footprint) bool {
	for _, f := range occupied {
		if candidate.overlaps(f) {
			return true
		}
	}
	return false
}
