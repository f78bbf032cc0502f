package viewport

import (
	"math"

	"github.com/irfansharif/cropview/internal/geom"
)

// Frame is the destination rectangle the image is drawn into, along with the
// zoom it was computed at. The engine keeps the last painted frame around to
// tell zooms apart from pans on the next paint.
type Frame struct {
	Dest geom.Box
	Zoom float64
}

// zoomFor derives the zoom factor from a zoom delta. A zero delta maps the
// image's natural width onto the surface width.
func zoomFor(surface geom.Size, zoomDelta float64) float64 {
	return surface.W / (surface.W + zoomDelta)
}

// layout computes the frame for an offset and zoom. Both dimensions derive
// from the surface width so the image's aspect ratio is always kept.
func layout(surface, img geom.Size, offset geom.Point, zoom float64) Frame {
	w := surface.W * zoom
	return Frame{
		Dest: geom.MakeBox(offset.X, offset.Y, w, w*img.H/img.W),
		Zoom: zoom,
	}
}

// fitZoomDelta returns the initial zoom delta for the fit mode. Under
// FitCover an image wider than the surface is scaled so its height exactly
// covers the surface height.
func fitZoomDelta(mode FitMode, surface, img geom.Size) float64 {
	if mode == FitCover && img.Aspect() > surface.Aspect() {
		return -(surface.H - surface.W*img.H/img.W) * (surface.W / surface.H)
	}
	return 0
}

// Anchor re-derives the origin of cur so that the surface-space point sitting
// at the surface center in prev is still at the surface center in cur. Frames
// with an unchanged zoom are pans and are returned untouched.
func Anchor(prev, cur Frame, surface geom.Size) Frame {
	if cur.Zoom == prev.Zoom {
		return cur
	}
	cur.Dest.X = anchorAxis(surface.W, prev.Dest.W, prev.Dest.X, prev.Zoom, cur.Dest.W, cur.Zoom)
	cur.Dest.Y = anchorAxis(surface.H, prev.Dest.H, prev.Dest.Y, prev.Zoom, cur.Dest.H, cur.Zoom)
	return cur
}

// anchorAxis solves the center anchor along one axis of length size.
func anchorAxis(size, oldDest, oldOffset, oldZoom, newDest, newZoom float64) float64 {
	return size / 2 * newZoom * ((oldDest/size+2*oldOffset/size-1)/oldZoom + (1-newDest/size)/newZoom)
}

// CenterOffset returns where the image center sits relative to the surface
// center, normalized to image half-extents:
//
//	( 0,  0) - the image's center
//	( 1,  1) - the image's upper left corner
//	(-1,  1) - the image's upper right corner
//	( 1, -1) - the image's bottom left corner
//	(-1, -1) - the image's bottom right corner
//
// ...is at the surface center. Zooming leaves it unchanged.
func (f Frame) CenterOffset(surface, img geom.Size) geom.Point {
	k := (img.H / img.W) * (surface.W / surface.H) // vertical aspect correction
	c := f.Dest.Center()
	return geom.Point{
		X: (c.X/surface.W*2 - 1) / f.Zoom,
		Y: (c.Y/surface.H*2 - 1) / f.Zoom / k,
	}
}

// roundHalfUp rounds to the nearest integer with ties going towards +Inf, so
// -0.5 steps snaps to 0 rather than -1.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
