package writer

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/synthgrid/internal/render"
	"github.com/vk/synthgrid/internal/scene"
)

func testRecord(t *testing.T, index int) *render.Record {
	t.Helper()
	g := scene.NewGraph()
	camera, err := g.Create(scene.CameraPath)
	require.NoError(t, err)
	p, err := render.NewProduct(camera, 8, 4, render.Optics{
		FocalLength:        1.93,
		HorizontalAperture: 3.896,
		ClipNear:           0.1,
		ClipFar:            100,
	})
	require.NoError(t, err)

	return &render.Record{
		Index:   index,
		Product: p,
		Image:   image.NewRGBA(image.Rect(0, 0, 8, 4)),
		Mask:    image.NewGray16(image.Rect(0, 0, 8, 4)),
		Instances: []render.Instance{
			{ID: 3, Label: "cube", BBox: image.Rect(1, 1, 5, 3)},
		},
	}
}

func TestRegistry(t *testing.T) {
	t.Run("built-in writers resolve", func(t *testing.T) {
		r := DefaultRegistry()
		for _, name := range []string{"kitti", "cbor"} {
			w, err := r.Get(name)
			require.NoError(t, err)
			assert.NotNil(t, w)
		}
	})

	t.Run("unknown writer", func(t *testing.T) {
		_, err := DefaultRegistry().Get("coco")
		assert.ErrorContains(t, err, "unknown writer 'coco'")
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		r := NewRegistry()
		r.Register("kitti", func() Writer { return NewKitti() })
		assert.Panics(t, func() {
			r.Register("kitti", func() Writer { return NewKitti() })
		})
	})
}

func TestKitti_WriteLayout(t *testing.T) {
	dir := t.TempDir()
	w := NewKitti()
	require.NoError(t, w.Initialize(dir, Options{OmitSemanticType: true}))
	require.NoError(t, w.Attach(testRecord(t, 0).Product))

	for i := 0; i < 3; i++ {
		require.NoError(t, w.Write(context.Background(), testRecord(t, i)))
	}
	require.NoError(t, w.Close())

	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("%06d", i)
		assert.FileExists(t, filepath.Join(dir, "images", name+".png"))
		assert.FileExists(t, filepath.Join(dir, "semantic", name+".png"))
		assert.FileExists(t, filepath.Join(dir, "labels", name+".txt"))
	}

	data, err := os.ReadFile(filepath.Join(dir, "labels", "000000.txt"))
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	fields := strings.Fields(line)
	require.Len(t, fields, 15)
	assert.Equal(t, "cube", fields[0])
	assert.Equal(t, "1.00", fields[4])
	assert.Equal(t, "1.00", fields[5])
	assert.Equal(t, "5.00", fields[6])
	assert.Equal(t, "3.00", fields[7])
}

func TestKitti_SemanticTypePrefix(t *testing.T) {
	dir := t.TempDir()
	w := NewKitti()
	require.NoError(t, w.Initialize(dir, Options{OmitSemanticType: false}))
	require.NoError(t, w.Write(context.Background(), testRecord(t, 0)))

	data, err := os.ReadFile(filepath.Join(dir, "labels", "000000.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "class:cube "))
}

func TestKitti_DuplicateIndexRejected(t *testing.T) {
	w := NewKitti()
	require.NoError(t, w.Initialize(t.TempDir(), Options{}))
	require.NoError(t, w.Write(context.Background(), testRecord(t, 5)))

	err := w.Write(context.Background(), testRecord(t, 5))
	assert.ErrorContains(t, err, "already written")
}

func TestKitti_RequiresInitialize(t *testing.T) {
	w := NewKitti()
	assert.ErrorContains(t, w.Write(context.Background(), testRecord(t, 0)), "not initialized")
	assert.ErrorContains(t, w.Attach(testRecord(t, 0).Product), "not initialized")
}

func TestCBOR_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	w := NewCBOR()
	require.NoError(t, w.Initialize(dir, Options{OmitSemanticType: true}))
	require.NoError(t, w.Attach(testRecord(t, 0).Product))

	rec := testRecord(t, 12)
	require.NoError(t, w.Write(context.Background(), rec))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(dir, "frame_000012.cbor"))
	require.NoError(t, err)

	var frame cborFrame
	require.NoError(t, cbor.Unmarshal(data, &frame))
	assert.Equal(t, 12, frame.Index)
	assert.Equal(t, 8, frame.Width)
	assert.Equal(t, 4, frame.Height)
	assert.Len(t, frame.Image, 8*4*4)
	require.Len(t, frame.Instances, 1)
	assert.Equal(t, "cube", frame.Instances[0].Label)
	assert.Equal(t, 5, frame.Instances[0].X2)
}

func TestCBOR_DuplicateIndexRejected(t *testing.T) {
	w := NewCBOR()
	require.NoError(t, w.Initialize(t.TempDir(), Options{}))
	require.NoError(t, w.Write(context.Background(), testRecord(t, 1)))
	assert.ErrorContains(t, w.Write(context.Background(), testRecord(t, 1)), "already written")
}
