package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/synthgrid/internal/app"
	"github.com/vk/synthgrid/internal/sim"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("synthgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
SynthGrid - A randomized synthetic-image dataset generator.

Usage:
  synthgrid [options] [SCENE_PATH]

Arguments:
  SCENE_PATH
    Path to a single .hcl scene manifest or a directory containing .hcl
    manifests. Without it the built-in default scene is generated.

Options:
`)
		flagSet.PrintDefaults()
	}

	sceneFlag := flagSet.String("scene", "", "Path to the scene manifest file or directory.")
	sFlag := flagSet.String("s", "", "Path to the scene manifest file or directory (shorthand).")
	outputFlag := flagSet.String("output", "./training_data", "Directory the dataset is written to.")
	widthFlag := flagSet.Int("width", 960, "Rendered image width in pixels.")
	heightFlag := flagSet.Int("height", 544, "Rendered image height in pixels.")
	framesFlag := flagSet.Int("frames", 1000, "Number of frames to generate.")
	headlessFlag := flagSet.Bool("headless", true, "Run the simulation app without a viewport.")
	qualityFlag := flagSet.String("quality", "preview", "Render quality. Options: 'preview', 'raytraced' or 'pathtraced'.")
	seedFlag := flagSet.Int64("seed", 0, "Random seed. 0 picks a time-based seed; overrides the manifest.")
	writerFlag := flagSet.String("writer", "", "Dataset writer. Options: 'kitti' or 'cbor'; overrides the manifest.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 4, "Number of concurrent workers for the dataset writer.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	scenePath := ""
	if *sceneFlag != "" {
		scenePath = *sceneFlag
	} else if *sFlag != "" {
		scenePath = *sFlag
	} else if flagSet.NArg() > 0 {
		scenePath = flagSet.Arg(0)
	}
	slog.Debug("Scene path determined.", "path", scenePath)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	quality := strings.ToLower(*qualityFlag)
	if _, err := sim.ParseQuality(quality); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ScenePath:       scenePath,
		OutputPath:      *outputFlag,
		Width:           *widthFlag,
		Height:          *heightFlag,
		FrameCount:      *framesFlag,
		Headless:        *headlessFlag,
		RenderQuality:   quality,
		Seed:            *seedFlag,
		WriterName:      *writerFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		WorkerCount:     *workersFlag,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
