package hcl

import "github.com/hashicorp/hcl/v2"

// DistBlock is the HCL surface of a uniform distribution: componentwise
// low/high bounds. Bounds may be a single number or a 3-element tuple.
type DistBlock struct {
	Low  hcl.Expression `hcl:"low"`
	High hcl.Expression `hcl:"high"`
}

// SceneBlock names the background stage and tray assets.
type SceneBlock struct {
	Stage string `hcl:"stage"`
	Tray  string `hcl:"tray"`
}

// CameraBlock declares the fixed optics and the pose distributions.
type CameraBlock struct {
	FocalLength        *float64   `hcl:"focal_length,optional"`
	FocusDistance      *float64   `hcl:"focus_distance,optional"`
	HorizontalAperture *float64   `hcl:"horizontal_aperture,optional"`
	ClipNear           *float64   `hcl:"clip_near,optional"`
	ClipFar            *float64   `hcl:"clip_far,optional"`
	Position           *DistBlock `hcl:"position,block"`
	Rotation           *DistBlock `hcl:"rotation,block"`
}

// GroundBlock declares the ground color randomization.
type GroundBlock struct {
	PathPattern *string    `hcl:"path_pattern,optional"`
	Color       *DistBlock `hcl:"color,block"`
}

// LightBlock declares the dome light randomization.
type LightBlock struct {
	PathPattern *string    `hcl:"path_pattern,optional"`
	Color       *DistBlock `hcl:"color,block"`
	Intensity   *DistBlock `hcl:"intensity,block"`
}

// TrayBlock declares the shared tray/surface pose distributions.
type TrayBlock struct {
	Position *DistBlock `hcl:"position,block"`
	Rotation *DistBlock `hcl:"rotation,block"`
}

// SurfaceBlock places the invisible scatter surface.
type SurfaceBlock struct {
	Scale    []float64 `hcl:"scale,optional"`
	Position []float64 `hcl:"position,optional"`
}

// ClassBlock declares one object class to instantiate and scatter.
type ClassBlock struct {
	Name             string     `hcl:"name,label"`
	Asset            string     `hcl:"asset"`
	Count            *DistBlock `hcl:"count,block"`
	Rotation         *DistBlock `hcl:"rotation,block"`
	Scale            *DistBlock `hcl:"scale,block"`
	Color            *DistBlock `hcl:"color,block"`
	CheckCollisions  *bool      `hcl:"check_collisions,optional"`
	PlacementRetries *int       `hcl:"placement_retries,optional"`
}

// OutputBlock selects the dataset writer sink.
type OutputBlock struct {
	Writer           *string `hcl:"writer,optional"`
	OmitSemanticType *bool   `hcl:"omit_semantic_type,optional"`
}

// SceneConfig is the top-level structure of a scene manifest file.
type SceneConfig struct {
	Seed    *int64        `hcl:"seed,optional"`
	Scene   *SceneBlock   `hcl:"scene,block"`
	Camera  *CameraBlock  `hcl:"camera,block"`
	Ground  *GroundBlock  `hcl:"ground,block"`
	Light   *LightBlock   `hcl:"light,block"`
	Tray    *TrayBlock    `hcl:"tray,block"`
	Surface *SurfaceBlock `hcl:"surface,block"`
	Classes []*ClassBlock `hcl:"class,block"`
	Output  *OutputBlock  `hcl:"output,block"`
}
