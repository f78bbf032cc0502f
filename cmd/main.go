package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/irfansharif/cropview/internal/app"
	"github.com/irfansharif/cropview/internal/config"
	"github.com/irfansharif/cropview/internal/palette"
	"github.com/irfansharif/cropview/internal/render"
	"github.com/irfansharif/cropview/internal/source"
	"github.com/irfansharif/cropview/internal/viewport"
)

const logFlags = log.Ltime | log.Lshortfile

// frameInterval bounds how long the loop sleeps waiting for input before
// running the next tick.
const frameInterval = time.Second / 60

var runtimeLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	// OpenGL contexts are tied to specific OS threads - let's pin to just one.
	runtime.LockOSThread()
	log.SetFlags(logFlags)

	if os.Getenv("CROPVIEW_DEBUG_RUNTIME") == "1" {
		runtimeLogger = log.New(os.Stdout, "[runtime] ", log.Ltime|log.Lmsgprefix)
	}
}

func makeTitle(name string, state viewport.State, center [2]float64, stats render.Stats) string {
	if !state.Ready {
		return fmt.Sprintf("Cropview - %s (loading)", name)
	}
	return fmt.Sprintf("Cropview - %s (%.0fx%.0f, zoom %.1f%%, center %+.3f,%+.3f, %d paints, %.0fµs/paint)",
		name,
		state.Image.W, state.Image.H,
		state.Zoom*100,
		center[0], center[1],
		stats.Paints,
		stats.LastPaintTimeUs,
	)
}

func newRootCmd() *cobra.Command {
	var overrides config.Config
	var configPath string
	var changeCursor bool

	cmd := &cobra.Command{
		Use:          "cropview [flags] IMAGE",
		Short:        "Pan and zoom an image inside a fixed crop window",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("change-cursor") {
				overrides.ChangeCursor = &changeCursor
			}

			var fileCfg *config.Config
			var err error
			if configPath != "" {
				fileCfg, err = config.LoadFile(configPath)
			} else {
				fileCfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg := fileCfg.Merge(overrides)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(args[0], cfg)
		},
	}

	cmd.Flags().IntVar(&overrides.Width, "width", 0, fmt.Sprintf("crop surface width in pixels (default %d)", config.DefaultWidth))
	cmd.Flags().IntVar(&overrides.Height, "height", 0, fmt.Sprintf("crop surface height in pixels (default %d)", config.DefaultHeight))
	cmd.Flags().StringVar(&overrides.Fit, "fit", "", "initial fit: cover or width (default cover)")
	cmd.Flags().StringVar(&overrides.Background, "background", "", fmt.Sprintf("background colour as hex (default %q)", palette.DefaultBackground))
	cmd.Flags().Float64Var(&overrides.StepFraction, "step", 0, "wheel zoom step as a fraction of the surface width (default 0.05)")
	cmd.Flags().BoolVar(&changeCursor, "change-cursor", true, "show a move cursor while dragging")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/cropview/config.yaml)")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string, cfg config.Config) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initializing GLFW: %w", err)
	}
	defer glfw.Terminate()

	// Configure GLFW window hints - use OpenGL 4.1. The crop surface has a
	// fixed size, so the window isn't resizable.
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	name := filepath.Base(path)
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, "Cropview - "+name, nil, nil)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Destroy()
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		return fmt.Errorf("initializing OpenGL: %w", err)
	}

	application, err := app.NewApp(window, cfg, source.Load(path))
	if err != nil {
		return err
	}
	defer application.Release()

	eventHandlers := NewEventHandlers(application, *cfg.ChangeCursor)
	defer eventHandlers.Release()

	paints, lastStatsUpdate := 0, time.Now()
	for !window.ShouldClose() {
		if application.Frame() {
			window.SwapBuffers()
			paints++

			c := application.Engine.CenterOffset()
			window.SetTitle(makeTitle(name, application.Engine.State(), [2]float64{c.X, c.Y}, application.Renderer.Stats()))
		}
		glfw.WaitEventsTimeout(frameInterval.Seconds())

		if now := time.Now(); now.Sub(lastStatsUpdate) >= time.Second {
			if paints > 0 {
				state := application.Engine.State()
				runtimeLogger.Printf("%d paints/sec, zoom=%.4f delta=%.1f dest=%+v",
					paints, state.Zoom, state.ZoomDelta, state.Painted.Dest)
			}
			paints, lastStatsUpdate = 0, now
		}
	}
	return nil
}
