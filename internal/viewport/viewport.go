// Package viewport implements the transform engine behind the crop view.
//
// The engine maps a source image onto a fixed-size surface. It owns the zoom
// and pan state, fits the image once its natural size is known, and on every
// paint recomputes the destination rectangle, keeping the point at the
// surface center fixed across zoom steps. Painting is deferred to the host's
// display refresh through a Scheduler, and any number of commands issued
// between two refreshes result in a single paint.
//
// An Engine is not safe for concurrent use; it is driven from the thread that
// runs the host's event and render loop.
package viewport

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/irfansharif/cropview/internal/geom"
)

var viewportLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("CROPVIEW_DEBUG_VIEWPORT") == "1" {
		viewportLogger = log.New(os.Stdout, "[viewport] ", log.Ltime|log.Lmsgprefix)
	}
}

// ErrInvalidSurface is returned when constructing an engine for a surface
// without a positive width and height.
var ErrInvalidSurface = errors.New("surface must have positive width and height")

// ImageSource reports the natural size of the source image once it is
// available.
type ImageSource interface {
	Size() (geom.Size, bool)
}

// Painter draws the full source image scaled into dest, after clearing the
// surface.
type Painter interface {
	Paint(dest geom.Box)
}

// PainterFunc adapts a function to the Painter interface.
type PainterFunc func(dest geom.Box)

// Paint calls f(dest).
func (f PainterFunc) Paint(dest geom.Box) { f(dest) }

// State is a read-only snapshot of the engine.
type State struct {
	Ready     bool      // image size known and fit applied
	Surface   geom.Size // surface size
	Image     geom.Size // natural image size, zero until ready
	ZoomDelta float64   // signed zoom parameter, in surface pixels
	Zoom      float64   // derived zoom factor
	Offset    geom.Point
	Frame     Frame // layout of the current state, before anchoring
	Painted   Frame // last painted frame
	Pending   bool  // a paint is scheduled
}

// Engine maintains the mapping between image space and surface space.
type Engine struct {
	surface geom.Size
	image   geom.Size
	src     ImageSource
	painter Painter
	sched   Scheduler
	opts    options

	ready     bool
	zoomDelta float64
	offset    geom.Point
	prev      Frame // last painted frame, or the fitted baseline

	redrawQueued bool
}

// New creates an engine for a surface of the given size. The image is fitted
// as soon as src reports its size, either right away or on a later tick of
// sched; until then the engine neither paints nor accepts commands.
func New(surface geom.Size, src ImageSource, painter Painter, sched Scheduler, opts ...Option) (*Engine, error) {
	if !surface.Valid() {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSurface, surface)
	}

	o := options{fit: FitCover, stepFraction: defaultStepFraction}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		surface: surface,
		src:     src,
		painter: painter,
		sched:   sched,
		opts:    o,
	}
	e.awaitImage()
	return e, nil
}

// awaitImage fits the image if its size is known, and otherwise checks again
// on the next tick.
func (e *Engine) awaitImage() {
	size, ok := e.src.Size()
	if !ok {
		e.sched.Schedule(e.awaitImage)
		return
	}
	if !size.Valid() {
		log.Printf("WARNING: ignoring image with degenerate size %v", size)
		return // stay inert
	}

	e.image = size
	e.fit()
	e.ready = true
	e.requestRedraw()
}

// fit centers the image on the surface at its initial zoom, and records the
// result as the baseline frame so the first paint applies no anchoring.
func (e *Engine) fit() {
	e.zoomDelta = fitZoomDelta(e.opts.fit, e.surface, e.image)
	f := layout(e.surface, e.image, geom.Point{}, e.zoom())
	e.offset = e.surface.Center().Sub(geom.MakePoint(f.Dest.W/2, f.Dest.H/2))
	e.prev = e.frame()

	viewportLogger.Printf("fitted %v image to %v surface (%s): zoom=%.4f dest=%+v",
		e.image, e.surface, e.opts.fit, e.prev.Zoom, e.prev.Dest)
}

func (e *Engine) zoom() float64 { return zoomFor(e.surface, e.zoomDelta) }

func (e *Engine) frame() Frame {
	return layout(e.surface, e.image, e.offset, e.zoom())
}

// accept reports whether a command can be applied. Commands are dropped
// until the image has been fitted, and non-finite arguments are ignored.
func (e *Engine) accept(cmd string, args ...float64) bool {
	if !e.ready {
		viewportLogger.Printf("dropping %s: image not ready", cmd)
		return false
	}
	for _, a := range args {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			viewportLogger.Printf("dropping %s: non-finite argument %v", cmd, args)
			return false
		}
	}
	return true
}

// MoveBy nudges the image. Positive dx moves the viewpoint right, so the
// image is translated left; dy is applied as is.
func (e *Engine) MoveBy(dx, dy float64) {
	if !e.accept("move", dx, dy) {
		return
	}
	e.offset.X -= dx
	e.offset.Y += dy
	e.requestRedraw()
}

// PanBy translates the image by d, as when dragging it.
func (e *Engine) PanBy(d geom.Point) {
	if !e.accept("pan", d.X, d.Y) {
		return
	}
	e.offset = e.offset.Add(d)
	e.requestRedraw()
}

// ZoomBy adds px to the zoom delta. Positive values zoom out. A change that
// would bring the delta to or past -Ws is refused.
func (e *Engine) ZoomBy(px float64) {
	if !e.accept("zoom", px) {
		return
	}
	if px < 0 && e.zoomDelta+px <= -e.surface.W {
		viewportLogger.Printf("refusing zoom by %g: delta %g at limit", px, e.zoomDelta)
		return
	}
	e.zoomDelta += px
	e.requestRedraw()
}

// ZoomByStep snaps the zoom delta to the step grid and advances it by steps.
// Positive steps zoom out. A result at or past -Ws is pinned one pixel
// inside the limit.
func (e *Engine) ZoomByStep(steps int) {
	if !e.accept("zoom step") {
		return
	}
	step := e.surface.W * e.opts.stepFraction
	n := roundHalfUp(e.zoomDelta / step)
	e.zoomDelta = step * (n + float64(steps))
	if e.zoomDelta <= -e.surface.W {
		e.zoomDelta = -e.surface.W + 1
	}
	e.requestRedraw()
}

// Redraw schedules a paint of the current state without changing it, e.g.
// after the host lost its framebuffer contents.
func (e *Engine) Redraw() {
	if !e.accept("redraw") {
		return
	}
	e.requestRedraw()
}

// requestRedraw schedules a paint unless one is already pending. The flag is
// cleared as the paint starts, so commands issued by the painter itself land
// on the next tick.
func (e *Engine) requestRedraw() {
	if e.redrawQueued {
		return
	}
	e.redrawQueued = true
	e.sched.Schedule(func() {
		e.redrawQueued = false
		e.paint()
	})
}

// paint recomputes the frame from the current state, anchoring it to the
// surface center if the zoom changed since the last paint, and hands it to
// the painter. Pans made since the last paint are applied to the previous
// frame before anchoring, so a pan and a zoom in the same tick both show.
func (e *Engine) paint() {
	panned := Frame{
		Dest: e.prev.Dest.Translate(e.offset.Sub(e.prev.Dest.Origin())),
		Zoom: e.prev.Zoom,
	}
	cur := Anchor(panned, e.frame(), e.surface)
	e.offset = cur.Dest.Origin()

	if viewportLogger.Writer() != io.Discard {
		c := cur.CenterOffset(e.surface, e.image)
		viewportLogger.Printf("paint: zoom=%.4f dest=%+v center=(%.4f, %.4f)", cur.Zoom, cur.Dest, c.X, c.Y)
	}

	e.painter.Paint(cur.Dest)
	e.prev = cur
}

// CenterOffset returns the normalized image position at the surface center
// for the last painted frame. See Frame.CenterOffset.
func (e *Engine) CenterOffset() geom.Point {
	if !e.ready {
		return geom.Point{}
	}
	return e.prev.CenterOffset(e.surface, e.image)
}

// State returns a snapshot of the engine's state.
func (e *Engine) State() State {
	s := State{
		Ready:     e.ready,
		Surface:   e.surface,
		Image:     e.image,
		ZoomDelta: e.zoomDelta,
		Zoom:      e.zoom(),
		Offset:    e.offset,
		Painted:   e.prev,
		Pending:   e.redrawQueued,
	}
	if e.ready {
		s.Frame = e.frame()
	}
	return s
}
