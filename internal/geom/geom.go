// Package geom provides the 2D primitives shared by the viewport engine and
// the renderer:
// - Points/vectors in surface space
// - Sizes of surfaces and images
// - Axis-aligned boxes (the drawn destination rectangle)
// - Affine transforms (surface space to clip space)
package geom

import (
	"fmt"
	"math"
)

// Point represents a 2D point or vector in Cartesian coordinates.
type Point struct {
	X float64
	Y float64
}

// Size represents the pixel dimensions of a surface or an image.
type Size struct {
	W float64
	H float64
}

// Box represents an axis-aligned rectangle.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// Affine represents a 2D affine transform in row-major form:
// [ a b c ]
// [ d e f ]
// where (x', y') = (a*x + b*y + c, d*x + e*y + f)
type Affine struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

func MakePoint(x, y float64) Point               { return Point{X: x, Y: y} }
func MakeSize(w, h float64) Size                 { return Size{W: w, H: h} }
func MakeBox(x, y, w, h float64) Box             { return Box{X: x, Y: y, W: w, H: h} }
func MakeAffine(a, b, c, d, e, f float64) Affine { return Affine{A: a, B: b, C: c, D: d, E: e, F: f} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Valid reports whether both dimensions are strictly positive and finite.
func (s Size) Valid() bool {
	return s.W > 0 && s.H > 0 && !math.IsInf(s.W, 0) && !math.IsInf(s.H, 0)
}

// Aspect returns the width-to-height ratio.
func (s Size) Aspect() float64 { return s.W / s.H }

// Center returns the midpoint of a surface of this size.
func (s Size) Center() Point { return Point{s.W / 2, s.H / 2} }

func (s Size) String() string { return fmt.Sprintf("%gx%g", s.W, s.H) }

// Origin returns the top-left corner of the box.
func (b Box) Origin() Point { return Point{b.X, b.Y} }

// Center returns the midpoint of the box.
func (b Box) Center() Point { return Point{b.X + b.W/2, b.Y + b.H/2} }

// Translate returns the box moved by d.
func (b Box) Translate(d Point) Box { return Box{b.X + d.X, b.Y + d.Y, b.W, b.H} }

// Corners returns the box's corners in clockwise order starting at the
// top-left.
func (b Box) Corners() [4]Point {
	return [4]Point{
		{b.X, b.Y},
		{b.X + b.W, b.Y},
		{b.X + b.W, b.Y + b.H},
		{b.X, b.Y + b.H},
	}
}

// MulPoint applies the affine transform to a point.
func (t Affine) MulPoint(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// SurfaceToNDC maps surface pixel coordinates (origin top-left, y down) to
// OpenGL normalized device coordinates (origin center, y up).
func SurfaceToNDC(s Size) Affine {
	return MakeAffine(
		2.0/s.W, 0, -1,
		0, -2.0/s.H, 1,
	)
}

// BoxToUnit maps the box onto the unit square, used to derive texture
// coordinates for points inside the drawn image.
func BoxToUnit(b Box) Affine {
	return MakeAffine(
		1/b.W, 0, -b.X/b.W,
		0, 1/b.H, -b.Y/b.H,
	)
}
