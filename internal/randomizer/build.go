package randomizer

import (
	"context"
	"fmt"

	"github.com/vk/synthgrid/internal/assets"
	"github.com/vk/synthgrid/internal/config"
	"github.com/vk/synthgrid/internal/dist"
	"github.com/vk/synthgrid/internal/scene"
)

// Build wires the run's randomization rules into a registry in their
// application order: ground color, dome light, camera pose, tray and
// surface pose (one shared draw), then one scatter rule per object class.
// Class rules come last so scatter coordinates are computed in the
// surface's current frame. Class assets are resolved here so a broken
// reference fails the run before the first tick.
func Build(ctx context.Context, model *config.Model, comp *scene.Composition, sampler *dist.Sampler, source assets.Source) (*Registry, error) {
	registry := NewRegistry()

	registry.Register(NewColorRule("ground_color", comp.Graph, model.Ground.PathPattern, model.Ground.Color, sampler))
	registry.Register(NewLightRule("dome_light", comp.Graph, model.Light.PathPattern, model.Light.Color, model.Light.Intensity, sampler))
	registry.Register(NewPoseRule("camera_pose",
		[]*scene.Entity{comp.Camera},
		model.Camera.Position, model.Camera.Rotation, false, sampler))
	registry.Register(NewPoseRule("tray_pose",
		[]*scene.Entity{comp.Tray, comp.Surface},
		model.TrayPose.Position, model.TrayPose.Rotation, true, sampler))

	for _, class := range model.Classes {
		if _, err := source.Resolve(ctx, assets.Ref(class.Asset)); err != nil {
			return nil, fmt.Errorf("class '%s': %w", class.Name, err)
		}
		registry.Register(NewClassRule(class, comp.Graph, comp.Surface, sampler))
	}

	return registry, nil
}
