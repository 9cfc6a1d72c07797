package render

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/chewxy/math32"

	"github.com/vk/synthgrid/internal/geom"
	"github.com/vk/synthgrid/internal/scene"
)

// Renderer rasterizes the current scene-graph state into dataset records.
// Camera space is right-handed with -Z forward and +Y up; rotations are ZYX
// Euler degrees, matching entity poses.
type Renderer struct {
	graph *scene.Graph
}

// New creates a renderer over the given scene graph.
func New(graph *scene.Graph) *Renderer {
	return &Renderer{graph: graph}
}

// Render captures one frame for the product at the scene's current state.
// Randomization for the frame must already have been applied; the engine's
// per-frame cycle guarantees that ordering.
func (r *Renderer) Render(p *Product, frameIndex int) (*Record, error) {
	camera := r.graph.Get(p.CameraPath())
	if camera == nil {
		return nil, fmt.Errorf("render product camera '%s' not found in scene graph", p.CameraPath())
	}

	bounds := image.Rect(0, 0, p.width, p.height)
	img := image.NewRGBA(bounds)
	mask := image.NewGray16(bounds)

	brightness := r.brightness()
	fill(img, shade(r.groundColor(), brightness))

	view := newView(camera, p)

	type drawable struct {
		entity *scene.Entity
		bbox   image.Rectangle
		depth  float32
	}
	var visible []drawable
	for _, e := range r.graph.Labeled() {
		bbox, depth, ok := view.projectFootprint(e)
		if !ok {
			continue
		}
		clipped := bbox.Intersect(bounds)
		if clipped.Empty() {
			continue
		}
		visible = append(visible, drawable{entity: e, bbox: clipped, depth: depth})
	}

	// Paint far to near so closer instances overwrite farther ones.
	sort.Slice(visible, func(i, j int) bool { return visible[i].depth > visible[j].depth })

	record := &Record{
		Index:   frameIndex,
		Product: p,
		Image:   img,
		Mask:    mask,
	}
	for _, d := range visible {
		paint(img, mask, d.bbox, shade(d.entity.Color, brightness), uint16(d.entity.ID()))
		record.Instances = append(record.Instances, Instance{
			ID:    d.entity.ID(),
			Label: d.entity.Label,
			BBox:  d.bbox,
		})
	}

	return record, nil
}

// groundColor returns the first ground entity's color, or a neutral grey.
func (r *Renderer) groundColor() geom.Vec3 {
	if matches, err := r.graph.Find("GroundPlane"); err == nil && len(matches) > 0 {
		return matches[0].Color
	}
	return geom.Vec3{0.5, 0.5, 0.5}
}

// brightness derives a global shading factor from the first dome light.
func (r *Renderer) brightness() float32 {
	matches, err := r.graph.Find("DomeLight")
	if err != nil || len(matches) == 0 {
		return 1
	}
	b := matches[0].Intensity / 1000
	if b < 0.1 {
		b = 0.1
	}
	if b > 1.5 {
		b = 1.5
	}
	return b
}

// view precomputes the world-to-camera transform for one frame.
type view struct {
	position geom.Vec3
	invRot   geom.Mat3
	fx       float32
	cx, cy   float32
	clipNear float32
	clipFar  float32
	width    int
	height   int
}

func newView(camera *scene.Entity, p *Product) *view {
	return &view{
		position: camera.Transform.Position,
		invRot:   geom.EulerZYX(camera.Transform.Rotation).Transposed(),
		fx:       p.optics.FocalLength / p.optics.HorizontalAperture * float32(p.width),
		cx:       float32(p.width) / 2,
		cy:       float32(p.height) / 2,
		clipNear: p.optics.ClipNear,
		clipFar:  p.optics.ClipFar,
		width:    p.width,
		height:   p.height,
	}
}

// projectFootprint projects the eight corners of the entity's scaled,
// rotated bounding box and returns the enclosing screen rectangle plus the
// center depth. ok is false when the entity is outside the clip range.
func (v *view) projectFootprint(e *scene.Entity) (image.Rectangle, float32, bool) {
	rot := geom.EulerZYX(e.Transform.Rotation)
	half := e.Transform.Scale.Scale(0.5)

	var minX, minY float32 = math32.MaxFloat32, math32.MaxFloat32
	var maxX, maxY float32 = -math32.MaxFloat32, -math32.MaxFloat32
	anyInFront := false

	for i := 0; i < 8; i++ {
		corner := geom.Vec3{
			half[0] * sign(i&1),
			half[1] * sign(i&2),
			half[2] * sign(i&4),
		}
		world := e.Transform.Position.Add(rot.MulVec(corner))
		q := v.invRot.MulVec(world.Sub(v.position))
		depth := -q[2]
		if depth < v.clipNear || depth > v.clipFar {
			continue
		}
		anyInFront = true
		x := v.cx + v.fx*q[0]/depth
		y := v.cy - v.fx*q[1]/depth
		minX = math32.Min(minX, x)
		minY = math32.Min(minY, y)
		maxX = math32.Max(maxX, x)
		maxY = math32.Max(maxY, y)
	}
	if !anyInFront {
		return image.Rectangle{}, 0, false
	}

	center := v.invRot.MulVec(e.Transform.Position.Sub(v.position))
	rect := image.Rect(
		int(math32.Floor(minX)), int(math32.Floor(minY)),
		int(math32.Ceil(maxX)), int(math32.Ceil(maxY)),
	)
	return rect, -center[2], true
}

func sign(bit int) float32 {
	if bit != 0 {
		return 1
	}
	return -1
}

func shade(c geom.Vec3, brightness float32) color.RGBA {
	return color.RGBA{
		R: channel(c[0] * brightness),
		G: channel(c[1] * brightness),
		B: channel(c[2] * brightness),
		A: 0xff,
	}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*255 + 0.5)
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func paint(img *image.RGBA, mask *image.Gray16, rect image.Rectangle, c color.RGBA, id uint16) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetRGBA(x, y, c)
			mask.SetGray16(x, y, color.Gray16{Y: id})
		}
	}
}
