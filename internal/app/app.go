package app

import (
	"fmt"
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/cropview/internal/config"
	"github.com/irfansharif/cropview/internal/geom"
	"github.com/irfansharif/cropview/internal/palette"
	"github.com/irfansharif/cropview/internal/render"
	"github.com/irfansharif/cropview/internal/source"
	"github.com/irfansharif/cropview/internal/viewport"
)

// App encapsulates the main application state and logic.
type App struct {
	Window    *glfw.Window
	Renderer  *render.Renderer
	Scheduler *viewport.FrameScheduler
	Source    *source.Image
	Engine    *viewport.Engine

	uploaded bool // image texture handed to the renderer (or given up on)
}

// NewApp creates a new application instance showing src on the window's
// framebuffer. The window's GL context must be current.
func NewApp(window *glfw.Window, cfg config.Config, src *source.Image) (*App, error) {
	fw, fh := window.GetFramebufferSize()
	surface := geom.MakeSize(float64(fw), float64(fh))

	background, err := palette.ParseBackground(cfg.Background)
	if err != nil {
		return nil, err
	}
	fit, err := viewport.ParseFitMode(cfg.Fit)
	if err != nil {
		return nil, err
	}

	renderer := render.NewRenderer(surface, background)
	scheduler := viewport.NewFrameScheduler()
	engine, err := viewport.New(surface, src, renderer, scheduler,
		viewport.WithFit(fit),
		viewport.WithStepFraction(cfg.StepFraction),
	)
	if err != nil {
		return nil, fmt.Errorf("creating viewport: %w", err)
	}

	return &App{
		Window:    window,
		Renderer:  renderer,
		Scheduler: scheduler,
		Source:    src,
		Engine:    engine,
	}, nil
}

// Frame runs one display refresh: it uploads the image once decoding is done
// and then runs everything scheduled for this tick. It reports whether a
// paint happened and the back buffer should be presented.
func (app *App) Frame() bool {
	app.uploadImage()
	app.Scheduler.Tick()
	return app.Renderer.TakePainted()
}

// uploadImage hands the decoded image to the renderer, once. The engine only
// sees the image size after decoding too, so the texture is in place before
// the first paint.
func (app *App) uploadImage() {
	if app.uploaded {
		return
	}
	select {
	case <-app.Source.Done():
	default:
		return // still loading
	}
	app.uploaded = true

	if err := app.Source.Err(); err != nil {
		log.Printf("WARNING: nothing to show: %v", err)
		return
	}
	if err := app.Renderer.SetImage(app.Source.Pixels()); err != nil {
		log.Printf("WARNING: failed to upload image: %v", err)
		return
	}
	stats := app.Renderer.Stats()
	log.Printf("Loaded %s (%s) in %v, uploaded as %dx%d texture in %.2fms",
		app.Source.Path(), app.Source.Format(), app.Source.LoadTime(),
		stats.TextureW, stats.TextureH, stats.LastUploadMs)
}

// Release frees GPU resources.
func (app *App) Release() {
	app.Renderer.Release()
}
