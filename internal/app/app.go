package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/vk/synthgrid/internal/config"
	"github.com/vk/synthgrid/internal/ctxlog"
	"github.com/vk/synthgrid/internal/engine"
	"github.com/vk/synthgrid/internal/hcl"
	"github.com/vk/synthgrid/internal/orchestrator"
	"github.com/vk/synthgrid/internal/writer"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	model   *config.Model
	writers *writer.Registry

	mu  sync.RWMutex
	orc *orchestrator.Orchestrator
	eng *engine.Engine
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and the
// loaded scene model.
func NewApp(outW io.Writer, appConfig *Config, loader *hcl.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Without a manifest the built-in default scene is used as-is.
	model := config.Default()
	if appConfig.ScenePath != "" {
		loaded, err := loader.Load(ctx, appConfig.ScenePath)
		if err != nil {
			// A failure to load config is a fatal startup error.
			panic(fmt.Errorf("failed to load scene manifest: %w", err))
		}
		model = loaded
	}
	logger.Debug("Scene model ready.", "classes", len(model.Classes))

	// CLI-level overrides take precedence over the manifest.
	if appConfig.Seed != 0 {
		model.Seed = appConfig.Seed
	}
	if appConfig.WriterName != "" {
		model.Writer.Name = appConfig.WriterName
	}

	return &App{
		outW:    outW,
		logger:  logger,
		model:   model,
		writers: writer.DefaultRegistry(),
	}
}

// Model returns the application's scene model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

func (a *App) setRun(orc *orchestrator.Orchestrator, eng *engine.Engine) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.orc = orc
	a.eng = eng
}

func (a *App) currentRun() (*orchestrator.Orchestrator, *engine.Engine) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.orc, a.eng
}
