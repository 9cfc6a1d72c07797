package config

import (
	"github.com/vk/synthgrid/internal/dist"
	"github.com/vk/synthgrid/internal/geom"
)

// Asset URLs for the built-in object classes.
const (
	cubeAssetURL     = "https://omniverse-content-production.s3-us-west-2.amazonaws.com/Assets/Isaac/4.5/Isaac/Props/Shapes/cube.usd"
	cylinderAssetURL = "https://omniverse-content-production.s3-us-west-2.amazonaws.com/Assets/Isaac/4.5/Isaac/Props/Shapes/cylinder.usd"
)

// DefaultPlacementRetries bounds collision resampling when a class enables
// collision checking.
const DefaultPlacementRetries = 100

// Default returns the built-in table-setup scene: a tray on a table, a
// camera looking down at it, and cubes plus cylinders scattered over an
// invisible surface above the tray. Used when no scene manifest is given.
func Default() *Model {
	return &Model{
		Stage: "models/table_setup.usd",
		Tray:  "models/tray.usd",

		Camera: CameraConfig{
			FocalLength:        1.93,
			FocusDistance:      0.8,
			HorizontalAperture: 3.896,
			ClipNear:           0.1,
			ClipFar:            1e6,
			Position:           dist.NewUniformVec3(geom.Vec3{1, 0, 1.77}, geom.Vec3{1, 0, 1.83}),
			Rotation:           dist.NewUniformVec3(geom.Vec3{0, -52, 0}, geom.Vec3{0, -48, 0}),
		},

		Ground: GroundConfig{
			PathPattern: "GroundPlane",
			Color:       dist.NewUniform(0.15, 0.5),
		},

		Light: LightConfig{
			PathPattern: "DomeLight",
			Color:       dist.NewUniformColor(geom.Vec3{0.9, 0.9, 0.9}, geom.Vec3{1, 1, 1}),
			Intensity:   dist.NewUniform(600, 1200),
		},

		TrayPose: PoseConfig{
			Position: dist.NewUniformVec3(geom.Vec3{0.57, -0.03, 1.095}, geom.Vec3{0.63, 0.03, 1.095}),
			Rotation: dist.NewUniformVec3(geom.Vec3{0, 0, -2}, geom.Vec3{0, 0, 2}),
		},

		Surface: SurfaceConfig{
			Scale:    geom.Vec3{0.35, 0.5, 1},
			Position: geom.Vec3{0.6, 0, 1.12},
		},

		Classes: []*ClassConfig{
			{
				Name:             "cube",
				Asset:            cubeAssetURL,
				Count:            dist.NewUniform(0, 5),
				Rotation:         dist.NewUniformVec3(geom.Vec3{0, 0, 0}, geom.Vec3{45, 45, 180}),
				Scale:            dist.NewUniformVec3(geom.Vec3{0.03, 0.03, 0.03}, geom.Vec3{0.06, 0.06, 0.06}),
				Color:            dist.NewUniformColor(geom.Vec3{0.6, 0, 0.6}, geom.Vec3{1, 0.3, 1}),
				PlacementRetries: DefaultPlacementRetries,
			},
			{
				Name:             "cylinder",
				Asset:            cylinderAssetURL,
				Count:            dist.NewUniform(0, 5),
				Rotation:         dist.NewUniformVec3(geom.Vec3{0, 0, 0}, geom.Vec3{45, 45, 180}),
				Scale:            dist.NewUniformVec3(geom.Vec3{0.04, 0.04, 0.03}, geom.Vec3{0.06, 0.06, 0.06}),
				Color:            dist.NewUniformColor(geom.Vec3{0, 0, 0}, geom.Vec3{0.3, 0.3, 0.3}),
				PlacementRetries: DefaultPlacementRetries,
			},
		},

		Writer: WriterConfig{
			Name:             "kitti",
			OmitSemanticType: true,
		},
	}
}
