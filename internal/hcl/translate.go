package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/synthgrid/internal/config"
	"github.com/vk/synthgrid/internal/dist"
	"github.com/vk/synthgrid/internal/geom"
)

// translate overlays a decoded manifest onto the built-in default model.
// Only blocks present in the manifest replace their defaults, except for
// classes: declaring any class block replaces the default class list.
func translate(sc *SceneConfig) (*config.Model, error) {
	model := config.Default()

	if sc.Seed != nil {
		model.Seed = *sc.Seed
	}
	if sc.Scene != nil {
		model.Stage = sc.Scene.Stage
		model.Tray = sc.Scene.Tray
	}

	if cam := sc.Camera; cam != nil {
		setFloat(&model.Camera.FocalLength, cam.FocalLength)
		setFloat(&model.Camera.FocusDistance, cam.FocusDistance)
		setFloat(&model.Camera.HorizontalAperture, cam.HorizontalAperture)
		setFloat(&model.Camera.ClipNear, cam.ClipNear)
		setFloat(&model.Camera.ClipFar, cam.ClipFar)
		if err := setDist(&model.Camera.Position, cam.Position, dist.Vec3, "camera.position"); err != nil {
			return nil, err
		}
		if err := setDist(&model.Camera.Rotation, cam.Rotation, dist.Vec3, "camera.rotation"); err != nil {
			return nil, err
		}
	}

	if g := sc.Ground; g != nil {
		if g.PathPattern != nil {
			model.Ground.PathPattern = *g.PathPattern
		}
		if err := setDist(&model.Ground.Color, g.Color, dist.Color, "ground.color"); err != nil {
			return nil, err
		}
	}

	if l := sc.Light; l != nil {
		if l.PathPattern != nil {
			model.Light.PathPattern = *l.PathPattern
		}
		if err := setDist(&model.Light.Color, l.Color, dist.Color, "light.color"); err != nil {
			return nil, err
		}
		if err := setDist(&model.Light.Intensity, l.Intensity, dist.Scalar, "light.intensity"); err != nil {
			return nil, err
		}
	}

	if tr := sc.Tray; tr != nil {
		if err := setDist(&model.TrayPose.Position, tr.Position, dist.Vec3, "tray.position"); err != nil {
			return nil, err
		}
		if err := setDist(&model.TrayPose.Rotation, tr.Rotation, dist.Vec3, "tray.rotation"); err != nil {
			return nil, err
		}
	}

	if s := sc.Surface; s != nil {
		if s.Scale != nil {
			v, err := vecFromSlice(s.Scale, "surface.scale")
			if err != nil {
				return nil, err
			}
			model.Surface.Scale = v
		}
		if s.Position != nil {
			v, err := vecFromSlice(s.Position, "surface.position")
			if err != nil {
				return nil, err
			}
			model.Surface.Position = v
		}
	}

	if len(sc.Classes) > 0 {
		model.Classes = nil
		for _, cb := range sc.Classes {
			class, err := translateClass(cb)
			if err != nil {
				return nil, err
			}
			model.Classes = append(model.Classes, class)
		}
	}

	if out := sc.Output; out != nil {
		if out.Writer != nil {
			model.Writer.Name = *out.Writer
		}
		if out.OmitSemanticType != nil {
			model.Writer.OmitSemanticType = *out.OmitSemanticType
		}
	}

	return model, nil
}

func translateClass(cb *ClassBlock) (*config.ClassConfig, error) {
	class := &config.ClassConfig{
		Name:             cb.Name,
		Asset:            cb.Asset,
		PlacementRetries: config.DefaultPlacementRetries,
	}
	field := func(name string) string { return fmt.Sprintf("class '%s': %s", cb.Name, name) }

	if err := setDist(&class.Count, cb.Count, dist.Scalar, field("count")); err != nil {
		return nil, err
	}
	if err := setDist(&class.Rotation, cb.Rotation, dist.Vec3, field("rotation")); err != nil {
		return nil, err
	}
	if err := setDist(&class.Scale, cb.Scale, dist.Vec3, field("scale")); err != nil {
		return nil, err
	}
	if err := setDist(&class.Color, cb.Color, dist.Color, field("color")); err != nil {
		return nil, err
	}
	if class.Count == nil || class.Rotation == nil || class.Scale == nil || class.Color == nil {
		return nil, fmt.Errorf("class '%s': count, rotation, scale and color blocks are all required", cb.Name)
	}

	if cb.CheckCollisions != nil {
		class.CheckCollisions = *cb.CheckCollisions
	}
	if cb.PlacementRetries != nil {
		class.PlacementRetries = *cb.PlacementRetries
	}
	return class, nil
}

func setFloat(dst *float32, src *float64) {
	if src != nil {
		*dst = float32(*src)
	}
}

// setDist translates an optional DistBlock into a uniform distribution of
// the given shape, leaving the default in place when the block is absent.
func setDist(dst **dist.Uniform, block *DistBlock, shape dist.Shape, field string) error {
	if block == nil {
		return nil
	}

	low, err := evalBounds(block.Low, field+".low")
	if err != nil {
		return err
	}
	high, err := evalBounds(block.High, field+".high")
	if err != nil {
		return err
	}
	if len(low) != len(high) {
		return fmt.Errorf("%s: low and high must have the same arity", field)
	}

	switch shape {
	case dist.Scalar:
		if len(low) != 1 {
			return fmt.Errorf("%s: expected scalar bounds, got %d components", field, len(low))
		}
		*dst = dist.NewUniform(low[0], high[0])
	case dist.Vec3, dist.Color:
		lo, hi := broadcast(low), broadcast(high)
		if lo == nil || hi == nil {
			return fmt.Errorf("%s: expected 1 or 3 components, got %d", field, len(low))
		}
		if shape == dist.Color {
			*dst = dist.NewUniformColor(*lo, *hi)
		} else {
			*dst = dist.NewUniformVec3(*lo, *hi)
		}
	}
	return nil
}

// evalBounds evaluates a bound expression to its numeric components: a
// single number or a tuple of numbers.
func evalBounds(expr hcl.Expression, field string) ([]float32, error) {
	if expr == nil {
		return nil, fmt.Errorf("%s: bound is required", field)
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: %w", field, diags)
	}

	if val.Type().IsTupleType() || val.Type().IsListType() {
		var out []float32
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			f, err := toFloat(elem)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", field, err)
			}
			out = append(out, f)
		}
		return out, nil
	}

	f, err := toFloat(val)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return []float32{f}, nil
}

func toFloat(val cty.Value) (float32, error) {
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %s", val.Type().FriendlyName())
	}
	f, _ := num.AsBigFloat().Float32()
	return f, nil
}

func broadcast(vals []float32) *geom.Vec3 {
	switch len(vals) {
	case 1:
		return &geom.Vec3{vals[0], vals[0], vals[0]}
	case 3:
		return &geom.Vec3{vals[0], vals[1], vals[2]}
	default:
		return nil
	}
}

func vecFromSlice(vals []float64, field string) (geom.Vec3, error) {
	if len(vals) != 3 {
		return geom.Vec3{}, fmt.Errorf("%s: expected 3 components, got %d", field, len(vals))
	}
	return geom.Vec3{float32(vals[0]), float32(vals[1]), float32(vals[2])}, nil
}
