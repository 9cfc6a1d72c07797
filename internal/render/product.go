// Package render binds camera viewpoints to output resolutions and turns
// the scene graph into per-frame dataset records: an RGB render, an
// instance mask, and per-instance bounding boxes with class labels.
//
// The rasterizer is preview-quality on purpose: entities are drawn as
// projected box silhouettes, back to front. Ground-truth annotations, not
// photorealism, are the product.
package render

import (
	"fmt"
	"image"

	"github.com/vk/synthgrid/internal/scene"
)

// Optics holds a camera's fixed optical parameters. Set once when the
// render product is created; never randomized.
type Optics struct {
	FocalLength        float32
	FocusDistance      float32
	HorizontalAperture float32
	ClipNear           float32
	ClipFar            float32
}

// Product associates a camera entity with an output resolution. A product
// is created once per camera before the run starts; its resolution is
// immutable for the run's duration. The camera's pose is read from the
// scene graph at render time, so pose randomization flows through without
// touching the product.
type Product struct {
	cameraPath string
	width      int
	height     int
	optics     Optics
}

// NewProduct creates a render product for the given camera entity.
func NewProduct(camera *scene.Entity, width, height int, optics Optics) (*Product, error) {
	if camera == nil {
		return nil, fmt.Errorf("render product requires a camera entity")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid render resolution %dx%d", width, height)
	}
	return &Product{cameraPath: camera.Path(), width: width, height: height, optics: optics}, nil
}

// CameraPath returns the scene path of the bound camera.
func (p *Product) CameraPath() string { return p.cameraPath }

// Width returns the output width in pixels.
func (p *Product) Width() int { return p.width }

// Height returns the output height in pixels.
func (p *Product) Height() int { return p.height }

// Instance is the ground-truth annotation for one labeled entity visible in
// a frame.
type Instance struct {
	ID    int
	Label string
	BBox  image.Rectangle
}

// Record is one emitted dataset unit: everything a writer needs to persist
// a single rendered frame. A record is written exactly once and never
// overwritten.
type Record struct {
	Index     int
	Product   *Product
	Image     *image.RGBA
	Mask      *image.Gray16
	Instances []Instance
}
