// Package input translates raw device events into viewport commands.
//
// The adapter is independent of any windowing toolkit: the host forwards key
// presses, wheel deltas and pointer events, and the adapter turns them into
// unit-less nudges, pans and zoom steps. The only state it keeps is the drag
// gesture in progress.
package input

import (
	"github.com/irfansharif/cropview/internal/geom"
)

// Commands is the command surface of the viewport engine.
type Commands interface {
	MoveBy(dx, dy float64)
	PanBy(d geom.Point)
	ZoomBy(px float64)
	ZoomByStep(steps int)
}

// Host is told when a drag starts or ends. Selection is suppressed for the
// duration of every drag; the "move" cursor only if cursor changes are
// enabled.
type Host interface {
	SetSelectionEnabled(enabled bool)
	SetMoveCursor(on bool)
}

// Key identifies the keys the adapter reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyRightShift   // zoom in by a pixel
	KeyRightControl // zoom out by a pixel
)

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

const (
	nudgePx     = 1.0 // arrow key move distance
	fineZoomPx  = 1.0 // modifier key zoom distance
	wheelStepUp = -1  // one wheel notch up zooms in by a step
)

// Adapter maps device events onto Commands.
type Adapter struct {
	cmds         Commands
	host         Host
	changeCursor bool

	dragging bool
	last     geom.Point // pointer position at the previous drag event
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithChangeCursor controls whether the host's cursor is switched to "move"
// while dragging. It is on by default.
func WithChangeCursor(on bool) Option {
	return func(a *Adapter) { a.changeCursor = on }
}

// NewAdapter creates an adapter sending commands to cmds. host may be nil.
func NewAdapter(cmds Commands, host Host, opts ...Option) *Adapter {
	a := &Adapter{cmds: cmds, host: host, changeCursor: true}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key handles a key press (or auto-repeat) and reports whether the key was
// consumed.
func (a *Adapter) Key(k Key) bool {
	switch k {
	case KeyLeft:
		a.cmds.MoveBy(nudgePx, 0)
	case KeyRight:
		a.cmds.MoveBy(-nudgePx, 0)
	case KeyUp:
		a.cmds.MoveBy(0, -nudgePx)
	case KeyDown:
		a.cmds.MoveBy(0, nudgePx)
	case KeyRightShift:
		a.cmds.ZoomBy(-fineZoomPx)
	case KeyRightControl:
		a.cmds.ZoomBy(fineZoomPx)
	default:
		return false
	}
	return true
}

// Scroll handles a vertical wheel movement; positive dy is a notch up (away
// from the user). Each event is one zoom step regardless of magnitude.
func (a *Adapter) Scroll(dy float64) {
	switch {
	case dy > 0:
		a.cmds.ZoomByStep(wheelStepUp)
	case dy < 0:
		a.cmds.ZoomByStep(-wheelStepUp)
	}
}

// PointerDown starts a drag if the primary button was pressed.
func (a *Adapter) PointerDown(b Button, pos geom.Point) {
	if b != ButtonPrimary {
		return
	}
	a.dragging = true
	a.last = pos
	a.notify(true)
}

// PointerMove pans the image by the distance moved since the previous event
// of the current drag.
func (a *Adapter) PointerMove(pos geom.Point) {
	if !a.dragging {
		return
	}
	a.cmds.PanBy(pos.Sub(a.last))
	a.last = pos
}

// PointerUp ends the current drag. Any release ends it, wherever it happens.
func (a *Adapter) PointerUp() {
	if !a.dragging {
		return
	}
	a.dragging = false
	a.last = geom.Point{}
	a.notify(false)
}

// Dragging reports whether a drag is in progress.
func (a *Adapter) Dragging() bool { return a.dragging }

func (a *Adapter) notify(dragging bool) {
	if a.host == nil {
		return
	}
	a.host.SetSelectionEnabled(!dragging)
	if a.changeCursor {
		a.host.SetMoveCursor(dragging)
	}
}
