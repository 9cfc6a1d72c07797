package scene

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/synthgrid/internal/assets"
	"github.com/vk/synthgrid/internal/config"
	"github.com/vk/synthgrid/internal/geom"
)

func TestGraph_CreateAndGet(t *testing.T) {
	g := NewGraph()

	e, err := g.Create("/World/Thing")
	require.NoError(t, err)
	assert.Equal(t, "/World/Thing", e.Path())
	assert.True(t, e.Visible)
	assert.Equal(t, geom.Vec3{1, 1, 1}, e.Transform.Scale)
	assert.Positive(t, e.ID())

	assert.Same(t, e, g.Get("/World/Thing"))
	assert.Nil(t, g.Get("/World/Other"))

	_, err = g.Create("/World/Thing")
	assert.ErrorContains(t, err, "already exists")
}

func TestGraph_Find(t *testing.T) {
	g := NewGraph()
	_, err := g.Create("/World/GroundPlane")
	require.NoError(t, err)
	_, err = g.Create("/Replicated/cube_00")
	require.NoError(t, err)
	_, err = g.Create("/Replicated/cube_01")
	require.NoError(t, err)

	t.Run("substring pattern", func(t *testing.T) {
		matched, err := g.Find("GroundPlane")
		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.Equal(t, "/World/GroundPlane", matched[0].Path())
	})

	t.Run("multi match preserves creation order", func(t *testing.T) {
		matched, err := g.Find("cube_")
		require.NoError(t, err)
		require.Len(t, matched, 2)
		assert.Equal(t, "/Replicated/cube_00", matched[0].Path())
		assert.Equal(t, "/Replicated/cube_01", matched[1].Path())
	})

	t.Run("empty selector match is not an error", func(t *testing.T) {
		matched, err := g.Find("DomeLight")
		require.NoError(t, err)
		assert.Empty(t, matched)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := g.Find("[unclosed")
		assert.ErrorContains(t, err, "invalid path pattern")
	})
}

func TestGraph_Labeled(t *testing.T) {
	g := NewGraph()
	b, err := g.Create("/Replicated/b")
	require.NoError(t, err)
	b.Label = "cylinder"

	a, err := g.Create("/Replicated/a")
	require.NoError(t, err)
	a.Label = "cube"

	hidden, err := g.Create("/Replicated/c")
	require.NoError(t, err)
	hidden.Label = "cube"
	hidden.Visible = false

	_, err = g.Create("/World/Camera")
	require.NoError(t, err)

	labeled := g.Labeled()
	require.Len(t, labeled, 2)
	assert.Equal(t, "/Replicated/a", labeled[0].Path())
	assert.Equal(t, "/Replicated/b", labeled[1].Path())
}

func TestCompose(t *testing.T) {
	model := config.Default()
	g := NewGraph()

	comp, err := Compose(context.Background(), g, &fakeSource{}, model)
	require.NoError(t, err)

	assert.Same(t, comp.Camera, g.Get(CameraPath))
	assert.Same(t, comp.Tray, g.Get(TrayPath))
	assert.Same(t, comp.Surface, g.Get(SurfacePath))
	assert.NotNil(t, g.Get(GroundPath))
	assert.NotNil(t, g.Get(LightPath))

	assert.False(t, comp.Surface.Visible, "scatter surface must be invisible")
	assert.Equal(t, model.Surface.Scale, comp.Surface.Transform.Scale)
	assert.Equal(t, model.Surface.Position, comp.Surface.Transform.Position)
}

func TestCompose_MissingStageIsFatal(t *testing.T) {
	model := config.Default()
	model.Stage = "nope.usd"
	g := NewGraph()

	_, err := Compose(context.Background(), g, &fakeSource{fail: "nope.usd"}, model)
	assert.ErrorContains(t, err, "failed to load stage")
}

// fakeSource resolves everything except the configured failing ref.
type fakeSource struct {
	fail string
}

func (s *fakeSource) Resolve(_ context.Context, ref assets.Ref) (*assets.Asset, error) {
	if string(ref) == s.fail {
		return nil, assertErr("missing asset reference '" + s.fail + "'")
	}
	return &assets.Asset{Ref: ref, Name: string(ref)}, nil
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
