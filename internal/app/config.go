package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScenePath  string // optional .hcl manifest file or directory
	OutputPath string

	Width         int
	Height        int
	FrameCount    int
	Headless      bool
	RenderQuality string

	Seed       int64  // overrides the manifest seed when non-zero
	WriterName string // overrides the manifest writer when non-empty

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int
}

// NewConfig validates the raw configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.OutputPath == "" {
		return nil, errors.New("OutputPath is a required configuration field and cannot be empty")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("resolution must be positive in both dimensions")
	}
	if cfg.FrameCount < 0 {
		return nil, errors.New("frame count cannot be negative")
	}

	return &cfg, nil
}
