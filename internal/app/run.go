package app

import (
	"context"
	"fmt"

	"github.com/vk/synthgrid/internal/assets"
	"github.com/vk/synthgrid/internal/ctxlog"
	"github.com/vk/synthgrid/internal/dist"
	"github.com/vk/synthgrid/internal/engine"
	"github.com/vk/synthgrid/internal/orchestrator"
	"github.com/vk/synthgrid/internal/randomizer"
	"github.com/vk/synthgrid/internal/render"
	"github.com/vk/synthgrid/internal/scene"
	"github.com/vk/synthgrid/internal/sim"
	"github.com/vk/synthgrid/internal/writer"
)

// Run executes one full dataset generation run based on the provided
// configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.HealthcheckPort > 0 {
		a.startHealthcheckServer(appConfig.HealthcheckPort)
	}

	quality, err := sim.ParseQuality(appConfig.RenderQuality)
	if err != nil {
		return err
	}

	simApp, err := sim.Launch(ctx, sim.Config{
		Headless:      appConfig.Headless,
		Width:         appConfig.Width,
		Height:        appConfig.Height,
		FrameCount:    appConfig.FrameCount,
		RenderQuality: quality,
	})
	if err != nil {
		return err
	}
	// The simulator must come down on every exit path, including failures
	// between launch and the run itself.
	defer simApp.Close()

	library := assets.NewLibrary()
	graph := scene.NewGraph()
	comp, err := scene.Compose(ctx, graph, library, a.model)
	if err != nil {
		return fmt.Errorf("failed to compose scene: %w", err)
	}

	sampler := dist.NewSampler(a.model.Seed)
	rules, err := randomizer.Build(ctx, a.model, comp, sampler, library)
	if err != nil {
		return fmt.Errorf("failed to build randomization rules: %w", err)
	}
	a.logger.Info("Randomization rules registered.", "count", rules.Len())

	sink, err := a.writers.Get(a.model.Writer.Name)
	if err != nil {
		return err
	}
	if err := sink.Initialize(appConfig.OutputPath, writer.Options{
		OmitSemanticType: a.model.Writer.OmitSemanticType,
	}); err != nil {
		return err
	}

	product, err := render.NewProduct(comp.Camera, appConfig.Width, appConfig.Height, render.Optics{
		FocalLength:        a.model.Camera.FocalLength,
		FocusDistance:      a.model.Camera.FocusDistance,
		HorizontalAperture: a.model.Camera.HorizontalAperture,
		ClipNear:           a.model.Camera.ClipNear,
		ClipFar:            a.model.Camera.ClipFar,
	})
	if err != nil {
		return err
	}
	if err := sink.Attach(product); err != nil {
		return err
	}

	eng, err := engine.New(engine.Config{
		Registry: rules,
		Renderer: render.New(graph),
		Products: []*render.Product{product},
		Sink:     sink,
		Workers:  appConfig.WorkerCount,
	})
	if err != nil {
		return err
	}
	eng.Start(ctx)
	defer eng.Close()

	simApp.Attach(eng)
	orc := orchestrator.New(eng, simApp.Tick)
	a.setRun(orc, eng)

	a.logger.Info("🎬 Starting dataset generation.",
		"frames", appConfig.FrameCount,
		"writer", a.model.Writer.Name,
		"output", appConfig.OutputPath,
	)
	if err := orc.Run(ctx, appConfig.FrameCount); err != nil {
		return fmt.Errorf("generation run failed: %w", err)
	}

	if err := sink.Close(); err != nil {
		return fmt.Errorf("failed to finalize writer: %w", err)
	}

	a.logger.Info("🏁 Dataset generation finished.", "frames", appConfig.FrameCount, "ticks", simApp.Ticks())
	a.logger.Debug("App.Run method finished.")
	return nil
}
