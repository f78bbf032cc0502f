package viewport

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfansharif/cropview/internal/geom"
)

const eps = 1e-9

// fakeSource is an ImageSource whose readiness is toggled by the test.
type fakeSource struct {
	size  geom.Size
	ready bool
}

func (s *fakeSource) Size() (geom.Size, bool) { return s.size, s.ready }

func readySource(w, h float64) *fakeSource {
	return &fakeSource{size: geom.MakeSize(w, h), ready: true}
}

// recorder is a Painter remembering every destination it was asked to draw.
type recorder struct {
	paints []geom.Box
}

func (r *recorder) Paint(dest geom.Box) { r.paints = append(r.paints, dest) }

func (r *recorder) last(t *testing.T) geom.Box {
	t.Helper()
	require.NotEmpty(t, r.paints, "nothing painted")
	return r.paints[len(r.paints)-1]
}

type harness struct {
	engine *Engine
	sched  *FrameScheduler
	rec    *recorder
}

func newHarness(t *testing.T, surface geom.Size, src ImageSource, opts ...Option) *harness {
	t.Helper()
	h := &harness{sched: NewFrameScheduler(), rec: &recorder{}}
	e, err := New(surface, src, h.rec, h.sched, opts...)
	require.NoError(t, err)
	h.engine = e
	return h
}

// fitted returns an 800x600 surface showing a fitted 1600x900 image, with the
// initial paint already done.
func fitted(t *testing.T, mode FitMode) *harness {
	t.Helper()
	h := newHarness(t, geom.MakeSize(800, 600), readySource(1600, 900), WithFit(mode))
	require.Equal(t, 1, h.sched.Tick())
	require.Len(t, h.rec.paints, 1)
	return h
}

func assertBox(t *testing.T, want, got geom.Box) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-6, "y")
	assert.InDelta(t, want.W, got.W, 1e-6, "w")
	assert.InDelta(t, want.H, got.H, 1e-6, "h")
}

func TestNew_InvalidSurface(t *testing.T) {
	for _, s := range []geom.Size{{W: 0, H: 600}, {W: 800, H: 0}, {W: -1, H: -1}} {
		_, err := New(s, readySource(10, 10), &recorder{}, NewFrameScheduler())
		assert.ErrorIs(t, err, ErrInvalidSurface, "surface %v", s)
	}
}

func TestFit_Width(t *testing.T) {
	h := fitted(t, FitWidth)

	assertBox(t, geom.MakeBox(0, 75, 800, 450), h.rec.last(t))
	st := h.engine.State()
	assert.True(t, st.Ready)
	assert.Equal(t, 0.0, st.ZoomDelta)
	assert.Equal(t, 1.0, st.Zoom)
	assert.False(t, st.Pending)
}

func TestFit_CoverWiderImage(t *testing.T) {
	h := fitted(t, FitCover)

	st := h.engine.State()
	assert.InDelta(t, -200, st.ZoomDelta, eps)
	assert.InDelta(t, 800.0/600.0, st.Zoom, eps)

	// Height covers the surface exactly, width overflows evenly on both sides.
	assertBox(t, geom.MakeBox(-400.0/3, 0, 3200.0/3, 600), h.rec.last(t))
}

func TestFit_CoverTallerImage(t *testing.T) {
	h := newHarness(t, geom.MakeSize(800, 600), readySource(600, 900))
	h.sched.Tick()

	st := h.engine.State()
	assert.Equal(t, 0.0, st.ZoomDelta)
	assertBox(t, geom.MakeBox(0, -300, 800, 1200), h.rec.last(t))
}

func TestFit_FirstFrameIsCentered(t *testing.T) {
	for _, mode := range []FitMode{FitCover, FitWidth} {
		h := fitted(t, mode)
		c := h.engine.CenterOffset()
		assert.InDelta(t, 0, c.X, eps, mode.String())
		assert.InDelta(t, 0, c.Y, eps, mode.String())
	}
}

func TestDeferredLoad(t *testing.T) {
	src := &fakeSource{size: geom.MakeSize(1600, 900)}
	h := newHarness(t, geom.MakeSize(800, 600), src, WithFit(FitWidth))

	for i := 0; i < 5; i++ {
		h.sched.Tick()
	}
	assert.Empty(t, h.rec.paints)
	assert.False(t, h.engine.State().Ready)

	// Commands issued before the image is ready are dropped.
	h.engine.MoveBy(10, 10)
	h.engine.ZoomByStep(-3)
	h.sched.Tick()
	assert.Empty(t, h.rec.paints)

	src.ready = true
	h.sched.Tick() // fit
	h.sched.Tick() // paint
	require.Len(t, h.rec.paints, 1)
	assertBox(t, geom.MakeBox(0, 75, 800, 450), h.rec.last(t))
	assert.Equal(t, 0.0, h.engine.State().ZoomDelta)
}

func TestNeverLoads(t *testing.T) {
	h := newHarness(t, geom.MakeSize(800, 600), &fakeSource{})
	for i := 0; i < 100; i++ {
		h.sched.Tick()
		assert.Equal(t, 1, h.sched.Pending())
	}
	assert.Empty(t, h.rec.paints)
	assert.Equal(t, geom.Point{}, h.engine.CenterOffset())
}

func TestDegenerateImageStaysInert(t *testing.T) {
	h := newHarness(t, geom.MakeSize(800, 600), readySource(0, 900))
	h.engine.ZoomBy(5)
	assert.Equal(t, 0, h.sched.Tick())
	assert.Empty(t, h.rec.paints)
	assert.False(t, h.engine.State().Ready)
}

func TestMoveBy(t *testing.T) {
	h := fitted(t, FitWidth)
	before := h.rec.last(t)

	h.engine.MoveBy(10, 0)
	h.sched.Tick()
	after := h.rec.last(t)
	assert.Equal(t, before.X-10, after.X)
	assert.Equal(t, before.Y, after.Y)
	assert.Equal(t, before.W, after.W)
	assert.Equal(t, 1.0, h.engine.State().Zoom)

	h.engine.MoveBy(0, 10)
	h.sched.Tick()
	assert.Equal(t, before.Y+10, h.rec.last(t).Y)
}

func TestPanBy(t *testing.T) {
	h := fitted(t, FitWidth)
	before := h.rec.last(t)

	h.engine.PanBy(geom.MakePoint(12, -7))
	h.sched.Tick()
	after := h.rec.last(t)
	assert.Equal(t, before.X+12, after.X)
	assert.Equal(t, before.Y-7, after.Y)
	assert.Equal(t, before.W, after.W)
	assert.Equal(t, before.H, after.H)
}

func TestPanNeverAnchors(t *testing.T) {
	h := fitted(t, FitCover)
	h.engine.ZoomByStep(-2)
	h.sched.Tick()
	zoomed := h.rec.last(t)

	h.engine.PanBy(geom.MakePoint(33, 44))
	h.engine.MoveBy(3, 4)
	h.sched.Tick()
	panned := h.rec.last(t)

	assert.Equal(t, zoomed.X+33-3, panned.X)
	assert.Equal(t, zoomed.Y+44+4, panned.Y)
	assert.Equal(t, zoomed.W, panned.W)
}

func TestZoomByStep_Scenario(t *testing.T) {
	h := fitted(t, FitWidth)
	before := h.engine.CenterOffset()

	h.engine.ZoomByStep(-1)
	st := h.engine.State()
	assert.Equal(t, -40.0, st.ZoomDelta)
	assert.InDelta(t, 800.0/760.0, st.Zoom, eps)

	h.sched.Tick()
	after := h.engine.CenterOffset()
	assert.InDelta(t, before.X, after.X, eps)
	assert.InDelta(t, before.Y, after.Y, eps)

	dest := h.rec.last(t)
	assert.InDelta(t, 800*800.0/760.0, dest.W, 1e-6)
	// The surface center stays on the image center.
	assert.InDelta(t, 400, dest.Center().X, 1e-6)
	assert.InDelta(t, 300, dest.Center().Y, 1e-6)
}

func TestZoomPreservesCenterOffsetAfterPan(t *testing.T) {
	h := fitted(t, FitCover)
	h.engine.PanBy(geom.MakePoint(-150, 90))
	h.sched.Tick()

	for _, steps := range []int{-3, 2, -7, 5, 1} {
		before := h.engine.CenterOffset()
		h.engine.ZoomByStep(steps)
		h.sched.Tick()
		after := h.engine.CenterOffset()
		assert.InDelta(t, before.X, after.X, 1e-9, "steps %d", steps)
		assert.InDelta(t, before.Y, after.Y, 1e-9, "steps %d", steps)
	}

	before := h.engine.CenterOffset()
	h.engine.ZoomBy(-17)
	h.sched.Tick()
	after := h.engine.CenterOffset()
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestPanAndZoomInSameTick(t *testing.T) {
	h := fitted(t, FitWidth)
	h.engine.PanBy(geom.MakePoint(100, 0))
	h.engine.ZoomByStep(-1)
	require.Equal(t, 1, h.sched.Tick())

	// The image point under the surface center after the pan, (300, 225) of
	// an 800x450 frame, stays there after the zoom.
	w := 800 * 800.0 / 760.0
	hgt := w * 900 / 1600
	assertBox(t, geom.MakeBox(400-0.375*w, 300-0.5*hgt, w, hgt), h.rec.last(t))
	assert.InDelta(t, 0.25, h.engine.CenterOffset().X, eps)

	// Same outcome as painting the pan and the zoom on separate ticks.
	split := fitted(t, FitWidth)
	split.engine.PanBy(geom.MakePoint(100, 0))
	split.sched.Tick()
	split.engine.ZoomByStep(-1)
	split.sched.Tick()
	assertBox(t, split.rec.last(t), h.rec.last(t))
}

func TestZoomBy_Guard(t *testing.T) {
	h := fitted(t, FitWidth)

	h.engine.ZoomBy(-800)
	assert.Equal(t, 0.0, h.engine.State().ZoomDelta)

	h.engine.ZoomBy(-799)
	assert.Equal(t, -799.0, h.engine.State().ZoomDelta)

	h.engine.ZoomBy(-1)
	assert.Equal(t, -799.0, h.engine.State().ZoomDelta)

	// Zooming out is never refused.
	h.engine.ZoomBy(5000)
	assert.Equal(t, 4201.0, h.engine.State().ZoomDelta)
}

func TestZoomByStep_PinsAtLimit(t *testing.T) {
	h := fitted(t, FitWidth)
	h.engine.ZoomByStep(-100)
	assert.Equal(t, -799.0, h.engine.State().ZoomDelta)

	h.engine.ZoomByStep(-1)
	assert.Equal(t, -799.0, h.engine.State().ZoomDelta)
}

func TestZoomByStep_Snapping(t *testing.T) {
	for _, tc := range []struct {
		name  string
		delta float64
		steps int
		want  float64
	}{
		{"on grid", 120, 1, 160},
		{"below half", 13, 1, 40},
		{"above half", 27, 0, 40},
		{"half rounds up", 20, 0, 40},
		{"negative half rounds up", -20, 0, 0},
		{"negative", -59, -1, -80},
		{"negative past half", -61, -1, -120},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := fitted(t, FitWidth)
			h.engine.ZoomBy(tc.delta)
			h.engine.ZoomByStep(tc.steps)
			assert.InDelta(t, tc.want, h.engine.State().ZoomDelta, eps)
		})
	}
}

func TestZoomByStep_RoundTrip(t *testing.T) {
	for _, mode := range []FitMode{FitWidth, FitCover} {
		h := fitted(t, mode)
		for _, n := range []int{1, 3, -2, -5, 10} {
			before := h.engine.State().ZoomDelta
			h.engine.ZoomByStep(n)
			h.engine.ZoomByStep(-n)
			assert.InDelta(t, before, h.engine.State().ZoomDelta, eps, "%s n=%d", mode, n)
		}
	}
}

func TestWithStepFraction(t *testing.T) {
	h := newHarness(t, geom.MakeSize(1000, 500), readySource(100, 100), WithStepFraction(0.1), WithFit(FitWidth))
	h.sched.Tick()
	h.engine.ZoomByStep(2)
	assert.Equal(t, 200.0, h.engine.State().ZoomDelta)
}

func TestRedrawCoalescing(t *testing.T) {
	h := fitted(t, FitWidth)

	h.engine.MoveBy(1, 0)
	h.engine.PanBy(geom.MakePoint(5, 5))
	h.engine.ZoomByStep(-1)
	h.engine.ZoomBy(3)
	h.engine.MoveBy(0, 2)
	assert.True(t, h.engine.State().Pending)
	assert.Equal(t, 1, h.sched.Pending())

	assert.Equal(t, 1, h.sched.Tick())
	assert.Len(t, h.rec.paints, 2)
	assert.False(t, h.engine.State().Pending)
	assert.Equal(t, h.engine.State().Painted.Dest, h.rec.last(t))

	// Nothing changed, nothing painted.
	assert.Equal(t, 0, h.sched.Tick())
	assert.Len(t, h.rec.paints, 2)
}

func TestRedraw(t *testing.T) {
	h := fitted(t, FitCover)
	before := h.rec.last(t)

	h.engine.Redraw()
	h.engine.Redraw()
	assert.Equal(t, 1, h.sched.Tick())
	require.Len(t, h.rec.paints, 2)
	assert.Equal(t, before, h.rec.last(t))
}

func TestCommandFromPainterLandsOnNextTick(t *testing.T) {
	sched := NewFrameScheduler()
	var e *Engine
	var paints int
	painter := PainterFunc(func(geom.Box) {
		paints++
		if paints == 1 {
			e.MoveBy(1, 0)
		}
	})
	e, err := New(geom.MakeSize(800, 600), readySource(1600, 900), painter, sched)
	require.NoError(t, err)

	sched.Tick()
	assert.Equal(t, 1, paints)
	assert.True(t, e.State().Pending)
	sched.Tick()
	assert.Equal(t, 2, paints)
}

func TestInvariantsUnderRandomCommands(t *testing.T) {
	h := fitted(t, FitCover)
	r := rand.New(rand.NewSource(42))
	aspect := 900.0 / 1600.0

	for i := 0; i < 2000; i++ {
		switch r.Intn(5) {
		case 0:
			h.engine.ZoomBy(r.Float64()*2000 - 1200)
		case 1:
			h.engine.ZoomByStep(r.Intn(41) - 25)
		case 2:
			h.engine.MoveBy(r.Float64()*40-20, r.Float64()*40-20)
		case 3:
			h.engine.PanBy(geom.MakePoint(r.Float64()*40-20, r.Float64()*40-20))
		case 4:
			h.sched.Tick()
		}

		st := h.engine.State()
		require.Greater(t, st.ZoomDelta, -st.Surface.W, "step %d", i)
		require.Greater(t, st.Zoom, 0.0, "step %d", i)
		assert.InDelta(t, aspect, st.Frame.Dest.H/st.Frame.Dest.W, 1e-9)
	}
	h.sched.Tick()
	for _, p := range h.rec.paints {
		assert.InDelta(t, aspect, p.H/p.W, 1e-9)
	}
}

func TestIndependentEngines(t *testing.T) {
	sched := NewFrameScheduler()
	a, b := &recorder{}, &recorder{}
	ea, err := New(geom.MakeSize(800, 600), readySource(1600, 900), a, sched, WithFit(FitWidth))
	require.NoError(t, err)
	eb, err := New(geom.MakeSize(800, 600), readySource(1600, 900), b, sched, WithFit(FitWidth))
	require.NoError(t, err)
	sched.Tick()

	ea.ZoomByStep(-3)
	ea.MoveBy(50, 50)
	sched.Tick()

	assert.Len(t, a.paints, 2)
	assert.Len(t, b.paints, 1)
	assert.Equal(t, 0.0, eb.State().ZoomDelta)
	assert.Equal(t, geom.MakePoint(0, 75), eb.State().Offset)
}
