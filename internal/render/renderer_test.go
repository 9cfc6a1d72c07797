package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/synthgrid/internal/geom"
	"github.com/vk/synthgrid/internal/scene"
)

func testOptics() Optics {
	return Optics{
		FocalLength:        1.93,
		FocusDistance:      0.8,
		HorizontalAperture: 3.896,
		ClipNear:           0.1,
		ClipFar:            1_000_000,
	}
}

// newTestScene builds a graph with a camera at (0, 0, 5) looking down -Z.
func newTestScene(t *testing.T) (*scene.Graph, *Product) {
	t.Helper()
	g := scene.NewGraph()
	camera, err := g.Create(scene.CameraPath)
	require.NoError(t, err)
	camera.Transform.Position = geom.Vec3{0, 0, 5}

	p, err := NewProduct(camera, 960, 544, testOptics())
	require.NoError(t, err)
	return g, p
}

func TestNewProduct_Validation(t *testing.T) {
	g := scene.NewGraph()
	camera, err := g.Create(scene.CameraPath)
	require.NoError(t, err)

	_, err = NewProduct(nil, 960, 544, testOptics())
	assert.Error(t, err)

	_, err = NewProduct(camera, 0, 544, testOptics())
	assert.ErrorContains(t, err, "invalid render resolution")
}

func TestRender_SingleInstance(t *testing.T) {
	g, p := newTestScene(t)

	cube, err := g.Create("/Replicated/cube_00")
	require.NoError(t, err)
	cube.Label = "cube"
	cube.Transform.Scale = geom.Vec3{0.5, 0.5, 0.5}
	cube.Color = geom.Vec3{1, 0, 1}

	record, err := New(g).Render(p, 7)
	require.NoError(t, err)

	assert.Equal(t, 7, record.Index)
	assert.Equal(t, image.Rect(0, 0, 960, 544), record.Image.Bounds())
	require.Len(t, record.Instances, 1)

	inst := record.Instances[0]
	assert.Equal(t, "cube", inst.Label)
	assert.Equal(t, cube.ID(), inst.ID)

	// The cube sits on the camera axis, so its footprint straddles the
	// image center.
	assert.Less(t, inst.BBox.Min.X, 480)
	assert.Greater(t, inst.BBox.Max.X, 480)
	assert.Less(t, inst.BBox.Min.Y, 272)
	assert.Greater(t, inst.BBox.Max.Y, 272)
	assert.True(t, inst.BBox.In(record.Image.Bounds()))

	// The mask carries the entity ID inside the footprint and zero outside.
	center := record.Mask.Gray16At(480, 272)
	assert.Equal(t, uint16(cube.ID()), center.Y)
	assert.Equal(t, uint16(0), record.Mask.Gray16At(0, 0).Y)
}

func TestRender_EntityBehindCameraSkipped(t *testing.T) {
	g, p := newTestScene(t)

	behind, err := g.Create("/Replicated/cube_00")
	require.NoError(t, err)
	behind.Label = "cube"
	behind.Transform.Position = geom.Vec3{0, 0, 10}
	behind.Transform.Scale = geom.Vec3{0.5, 0.5, 0.5}

	record, err := New(g).Render(p, 0)
	require.NoError(t, err)
	assert.Empty(t, record.Instances)
}

func TestRender_UnlabeledAndHiddenIgnored(t *testing.T) {
	g, p := newTestScene(t)

	unlabeled, err := g.Create("/World/Tray")
	require.NoError(t, err)
	unlabeled.Transform.Scale = geom.Vec3{1, 1, 1}

	hidden, err := g.Create("/Replicated/cube_00")
	require.NoError(t, err)
	hidden.Label = "cube"
	hidden.Visible = false

	record, err := New(g).Render(p, 0)
	require.NoError(t, err)
	assert.Empty(t, record.Instances)
}

func TestRender_CloserInstanceOverwritesMask(t *testing.T) {
	g, p := newTestScene(t)

	far, err := g.Create("/Replicated/cube_00")
	require.NoError(t, err)
	far.Label = "cube"
	far.Transform.Position = geom.Vec3{0, 0, -1}
	far.Transform.Scale = geom.Vec3{0.5, 0.5, 0.5}

	near, err := g.Create("/Replicated/cylinder_00")
	require.NoError(t, err)
	near.Label = "cylinder"
	near.Transform.Position = geom.Vec3{0, 0, 1}
	near.Transform.Scale = geom.Vec3{0.5, 0.5, 0.5}

	record, err := New(g).Render(p, 0)
	require.NoError(t, err)
	require.Len(t, record.Instances, 2)

	// Painted far to near, so the near entity owns the shared pixels.
	assert.Equal(t, uint16(near.ID()), record.Mask.Gray16At(480, 272).Y)
}

func TestRender_MissingCamera(t *testing.T) {
	_, p := newTestScene(t)

	orphaned := scene.NewGraph()
	_, err := New(orphaned).Render(p, 0)
	assert.ErrorContains(t, err, "not found in scene graph")
}

func TestRender_GroundAndLightShadeBackground(t *testing.T) {
	g, p := newTestScene(t)

	ground, err := g.Create(scene.GroundPath)
	require.NoError(t, err)
	ground.Color = geom.Vec3{1, 1, 1}

	light, err := g.Create(scene.LightPath)
	require.NoError(t, err)
	light.Intensity = 500

	record, err := New(g).Render(p, 0)
	require.NoError(t, err)

	// Intensity 500 halves the white ground.
	bg := record.Image.RGBAAt(0, 0)
	assert.InDelta(t, 128, int(bg.R), 1)
	assert.Equal(t, bg.R, bg.G)
	assert.Equal(t, bg.R, bg.B)
}
