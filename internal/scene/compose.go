package scene

import (
	"context"
	"fmt"

	"github.com/vk/synthgrid/internal/assets"
	"github.com/vk/synthgrid/internal/config"
	"github.com/vk/synthgrid/internal/ctxlog"
	"github.com/vk/synthgrid/internal/geom"
)

// Well-known entity paths created by composition.
const (
	GroundPath  = "/World/GroundPlane"
	LightPath   = "/World/DomeLight"
	CameraPath  = "/World/Camera"
	TrayPath    = "/World/Tray"
	SurfacePath = "/World/ScatterSurface"
)

// Composition holds the handles to the entities the randomization rules and
// the render bridge address directly.
type Composition struct {
	Graph   *Graph
	Camera  *Entity
	Tray    *Entity
	Surface *Entity
}

// Compose builds the initial scene into g: the background stage (ground and
// dome light), one camera, one tray resolved from its asset reference, and
// one invisible planar scatter surface at a fixed nominal pose offset from
// the tray. Compose must run exactly once per graph; re-composition without
// teardown is not supported.
func Compose(ctx context.Context, g *Graph, source assets.Source, model *config.Model) (*Composition, error) {
	logger := ctxlog.FromContext(ctx)

	logger.Info("Loading stage.", "ref", model.Stage)
	if _, err := source.Resolve(ctx, assets.Ref(model.Stage)); err != nil {
		return nil, fmt.Errorf("failed to load stage: %w", err)
	}

	ground, err := g.Create(GroundPath)
	if err != nil {
		return nil, err
	}
	ground.Color = geom.Vec3{0.5, 0.5, 0.5}

	light, err := g.Create(LightPath)
	if err != nil {
		return nil, err
	}
	light.Intensity = 1000

	camera, err := g.Create(CameraPath)
	if err != nil {
		return nil, err
	}

	if _, err := source.Resolve(ctx, assets.Ref(model.Tray)); err != nil {
		return nil, fmt.Errorf("failed to load tray: %w", err)
	}
	tray, err := g.Create(TrayPath)
	if err != nil {
		return nil, err
	}

	surface, err := g.Create(SurfacePath)
	if err != nil {
		return nil, err
	}
	surface.Visible = false
	surface.Transform.Scale = model.Surface.Scale
	surface.Transform.Position = model.Surface.Position

	logger.Debug("Scene composed.", "entities", g.Len())
	return &Composition{Graph: g, Camera: camera, Tray: tray, Surface: surface}, nil
}
