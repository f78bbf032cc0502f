package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/cropview/internal/app"
	"github.com/irfansharif/cropview/internal/geom"
	"github.com/irfansharif/cropview/internal/input"
)

// EventHandlers manages all event handling for the application. It forwards
// GLFW callbacks to the input adapter and acts as the adapter's host.
type EventHandlers struct {
	application *app.App
	adapter     *input.Adapter

	moveCursor *glfw.Cursor // created on first drag
}

var _ input.Host = (*EventHandlers)(nil)

// NewEventHandlers creates a new event handlers manager.
func NewEventHandlers(application *app.App, changeCursor bool) *EventHandlers {
	eh := &EventHandlers{application: application}
	eh.adapter = input.NewAdapter(application.Engine, eh, input.WithChangeCursor(changeCursor))
	eh.SetupCallbacks(application.Window)
	return eh
}

// SetupCallbacks configures all GLFW event callbacks.
func (eh *EventHandlers) SetupCallbacks(window *glfw.Window) {
	window.SetKeyCallback(func(wnd *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		eh.handleKey(key, action) // for nudging and fine zoom
	})
	window.SetMouseButtonCallback(func(wnd *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		eh.handleMouseButton(button, action) // for dragging
	})
	window.SetCursorPosCallback(func(wnd *glfw.Window, xpos, ypos float64) {
		eh.adapter.PointerMove(eh.framebufferPos(xpos, ypos))
	})
	window.SetScrollCallback(func(wnd *glfw.Window, _, yoff float64) {
		eh.adapter.Scroll(yoff) // for zoom steps
	})
	window.SetRefreshCallback(func(wnd *glfw.Window) {
		eh.application.Engine.Redraw() // contents damaged, e.g. after being uncovered
	})
}

// handleKey handles keyboard input events. Held keys keep acting through the
// platform's auto-repeat.
func (eh *EventHandlers) handleKey(key glfw.Key, action glfw.Action) {
	if action == glfw.Release {
		return
	}
	if key == glfw.KeyEscape {
		eh.application.Window.SetShouldClose(true)
		return
	}
	eh.adapter.Key(translateKey(key))
}

// handleMouseButton handles mouse button events. Only the primary button
// starts a drag, but any release ends it.
func (eh *EventHandlers) handleMouseButton(button glfw.MouseButton, action glfw.Action) {
	switch action {
	case glfw.Press:
		xpos, ypos := eh.application.Window.GetCursorPos()
		eh.adapter.PointerDown(translateButton(button), eh.framebufferPos(xpos, ypos))
	case glfw.Release:
		eh.adapter.PointerUp()
	}
}

// framebufferPos converts a cursor position in screen coordinates to
// framebuffer pixels, which is the space the viewport works in.
func (eh *EventHandlers) framebufferPos(xpos, ypos float64) geom.Point {
	scaleX, scaleY := eh.application.Window.GetContentScale()
	return geom.MakePoint(xpos*float64(scaleX), ypos*float64(scaleY))
}

// SetSelectionEnabled is a no-op: a GLFW window has no selectable content.
func (eh *EventHandlers) SetSelectionEnabled(bool) {}

// SetMoveCursor switches between the hand cursor and the default one.
func (eh *EventHandlers) SetMoveCursor(on bool) {
	if !on {
		eh.application.Window.SetCursor(nil)
		return
	}
	if eh.moveCursor == nil {
		eh.moveCursor = glfw.CreateStandardCursor(glfw.HandCursor)
	}
	eh.application.Window.SetCursor(eh.moveCursor)
}

// Release frees the cursor, if one was created.
func (eh *EventHandlers) Release() {
	if eh.moveCursor != nil {
		eh.moveCursor.Destroy()
		eh.moveCursor = nil
	}
}

func translateKey(key glfw.Key) input.Key {
	switch key {
	case glfw.KeyLeft:
		return input.KeyLeft
	case glfw.KeyRight:
		return input.KeyRight
	case glfw.KeyUp:
		return input.KeyUp
	case glfw.KeyDown:
		return input.KeyDown
	case glfw.KeyRightShift:
		return input.KeyRightShift
	case glfw.KeyRightControl:
		return input.KeyRightControl
	}
	return input.KeyUnknown
}

func translateButton(button glfw.MouseButton) input.Button {
	switch button {
	case glfw.MouseButtonLeft:
		return input.ButtonPrimary
	case glfw.MouseButtonRight:
		return input.ButtonSecondary
	case glfw.MouseButtonMiddle:
		return input.ButtonMiddle
	}
	return input.Button(-1)
}
