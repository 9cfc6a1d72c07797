// Package config defines the format-agnostic model of a scene manifest: the
// assets to compose, the distributions every randomization rule draws from,
// the object classes to scatter, and the dataset writer options. Loaders
// (e.g. the HCL loader) translate their source format into this model; the
// rest of the pipeline never sees the source format.
package config

import (
	"fmt"

	"github.com/vk/synthgrid/internal/dist"
	"github.com/vk/synthgrid/internal/geom"
)

// CameraConfig holds the camera's fixed optical parameters and its
// pose-randomization distributions. Optics are set once at composition and
// never randomized; only the pose changes per frame.
type CameraConfig struct {
	FocalLength        float32
	FocusDistance      float32
	HorizontalAperture float32
	ClipNear           float32
	ClipFar            float32

	Position *dist.Uniform
	Rotation *dist.Uniform
}

// GroundConfig randomizes the ground color.
type GroundConfig struct {
	PathPattern string
	Color       *dist.Uniform
}

// LightConfig randomizes the dome light's color and intensity.
type LightConfig struct {
	PathPattern string
	Color       *dist.Uniform
	Intensity   *dist.Uniform
}

// PoseConfig holds a shared position/rotation distribution pair. The tray
// and the scatter surface both consume one sample of it per tick so they
// move together.
type PoseConfig struct {
	Position *dist.Uniform
	Rotation *dist.Uniform
}

// SurfaceConfig places the invisible planar scatter surface. Scale X/Y are
// the surface half-extents in its local frame.
type SurfaceConfig struct {
	Scale    geom.Vec3
	Position geom.Vec3
}

// ClassConfig declares one object class to instantiate and scatter per tick.
type ClassConfig struct {
	Name  string
	Asset string

	Count    *dist.Uniform
	Rotation *dist.Uniform
	Scale    *dist.Uniform
	Color    *dist.Uniform

	// CheckCollisions toggles footprint collision avoidance during scatter
	// placement. Off by default: overlapping placements are accepted output.
	CheckCollisions  bool
	PlacementRetries int
}

// WriterConfig selects and configures the dataset writer sink.
type WriterConfig struct {
	Name             string
	OmitSemanticType bool
}

// Model is the complete, source-format-agnostic scene description.
type Model struct {
	Stage string
	Tray  string

	Camera   CameraConfig
	Ground   GroundConfig
	Light    LightConfig
	TrayPose PoseConfig
	Surface  SurfaceConfig
	Classes  []*ClassConfig
	Writer   WriterConfig

	// Seed drives the run's sampler. Zero means non-reproducible.
	Seed int64
}

// Validate checks every distribution's bounds and the structural fields.
// Any failure here is a configuration error: fatal, no retry.
func (m *Model) Validate() error {
	if m.Stage == "" {
		return fmt.Errorf("scene: stage asset reference is required")
	}
	if m.Tray == "" {
		return fmt.Errorf("scene: tray asset reference is required")
	}

	checks := []struct {
		name string
		d    *dist.Uniform
	}{
		{"camera.position", m.Camera.Position},
		{"camera.rotation", m.Camera.Rotation},
		{"ground.color", m.Ground.Color},
		{"light.color", m.Light.Color},
		{"light.intensity", m.Light.Intensity},
		{"tray.position", m.TrayPose.Position},
		{"tray.rotation", m.TrayPose.Rotation},
	}
	for _, c := range checks {
		if c.d == nil {
			return fmt.Errorf("%s: distribution is required", c.name)
		}
		if err := c.d.Validate(); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}

	if m.Camera.ClipNear <= 0 || m.Camera.ClipFar <= m.Camera.ClipNear {
		return fmt.Errorf("camera: invalid clip range (%v, %v)", m.Camera.ClipNear, m.Camera.ClipFar)
	}
	if m.Surface.Scale[0] <= 0 || m.Surface.Scale[1] <= 0 {
		return fmt.Errorf("surface: scale extents must be positive, got %v", m.Surface.Scale)
	}

	seen := make(map[string]struct{}, len(m.Classes))
	for _, class := range m.Classes {
		if class.Name == "" {
			return fmt.Errorf("class: semantic label must not be empty")
		}
		if _, dup := seen[class.Name]; dup {
			return fmt.Errorf("class '%s': duplicate class name", class.Name)
		}
		seen[class.Name] = struct{}{}
		if class.Asset == "" {
			return fmt.Errorf("class '%s': asset reference is required", class.Name)
		}
		for _, c := range []struct {
			name string
			d    *dist.Uniform
		}{
			{"count", class.Count},
			{"rotation", class.Rotation},
			{"scale", class.Scale},
			{"color", class.Color},
		} {
			if c.d == nil {
				return fmt.Errorf("class '%s': %s distribution is required", class.Name, c.name)
			}
			if err := c.d.Validate(); err != nil {
				return fmt.Errorf("class '%s': %s: %w", class.Name, c.name, err)
			}
		}
		if class.CheckCollisions && class.PlacementRetries <= 0 {
			return fmt.Errorf("class '%s': collision checking requires a positive retry bound", class.Name)
		}
	}

	if m.Writer.Name == "" {
		return fmt.Errorf("output: writer name is required")
	}

	return nil
}
