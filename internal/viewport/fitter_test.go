package viewport

import (
	"errors"
	"testing"
)

// fakeSurface is a mutable surface size.
type fakeSurface struct {
	size Size
}

func (s *fakeSurface) Size() Size { return s.size }

// recordingSink remembers every rect it receives.
type recordingSink struct {
	rects []Rect
}

func (s *recordingSink) SetViewport(r Rect) { s.rects = append(s.rects, r) }

func (s *recordingSink) last() Rect { return s.rects[len(s.rects)-1] }

func newTestFitter(t *testing.T, size Size, target AspectRatio, opts ...Option) (*Fitter, *fakeSurface, *recordingSink) {
	t.Helper()
	surface := &fakeSurface{size: size}
	sink := &recordingSink{}
	f, err := New(target, surface, sink, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return f, surface, sink
}

func TestNewRejectsInvalidTarget(t *testing.T) {
	_, err := New(AspectRatio{0, 16}, &fakeSurface{}, &recordingSink{})
	if !errors.Is(err, ErrInvalidAspectRatio) {
		t.Errorf("New() error = %v, expected ErrInvalidAspectRatio", err)
	}

	if _, err := New(AspectRatio{9, 16}, nil, &recordingSink{}); err == nil {
		t.Error("New() should require a surface")
	}
}

func TestFitterInitAlwaysRecomputes(t *testing.T) {
	f, _, sink := newTestFitter(t, Size{1080, 1920}, AspectRatio{9, 16})

	if f.Initialized() {
		t.Fatal("fitter should start uninitialized")
	}
	f.Init()

	if !f.Initialized() {
		t.Error("Init should mark fitter initialized")
	}
	if len(sink.rects) != 1 {
		t.Fatalf("Init should write exactly one rect, got %d", len(sink.rects))
	}
	if !sink.last().IsFull() {
		t.Errorf("matching ratio should produce full rect, got %+v", sink.last())
	}
	if f.LastSize() != (Size{1080, 1920}) {
		t.Errorf("LastSize() = %+v, expected 1080x1920", f.LastSize())
	}
}

func TestFitterFirstTickInitializes(t *testing.T) {
	f, _, sink := newTestFitter(t, Size{800, 600}, AspectRatio{16, 9})

	if !f.Tick() {
		t.Error("first Tick should recompute")
	}
	if !f.Initialized() || len(sink.rects) != 1 {
		t.Errorf("first Tick should initialize, rects written = %d", len(sink.rects))
	}
	if r := f.Rect(); !near(r.H, 0.75) || !near(r.Y, 0.125) {
		t.Errorf("Rect() = %+v, expected letterbox H=0.75 Y=0.125", r)
	}
}

func TestFitterTickChangeDetection(t *testing.T) {
	f, surface, sink := newTestFitter(t, Size{1920, 1080}, AspectRatio{9, 16})
	f.Init()

	// Unchanged size is a no-op.
	for i := 0; i < 5; i++ {
		if f.Tick() {
			t.Fatalf("tick %d: unchanged surface should not recompute", i)
		}
	}

	// Jitter below epsilon is ignored.
	surface.size = Size{1920 + Epsilon/2, 1080 - Epsilon/2}
	if f.Tick() {
		t.Error("sub-epsilon change should not recompute")
	}

	// A real resize is picked up.
	surface.size = Size{1080, 1920}
	if !f.Tick() {
		t.Error("resize should recompute")
	}
	if len(sink.rects) != 2 {
		t.Fatalf("expected 2 rects written, got %d", len(sink.rects))
	}
	if !sink.last().IsFull() {
		t.Errorf("after resize to matching ratio, rect = %+v", sink.last())
	}

	// Height-only change beyond epsilon also triggers.
	surface.size = Size{1080, 1920 + 10*Epsilon}
	if !f.Tick() {
		t.Error("height change above epsilon should recompute")
	}
}

func TestFitterCustomEpsilon(t *testing.T) {
	f, surface, _ := newTestFitter(t, Size{100, 100}, AspectRatio{1, 1}, WithEpsilon(0.5))
	f.Init()

	surface.size = Size{100.4, 100}
	if f.Tick() {
		t.Error("change within custom epsilon should not recompute")
	}
	surface.size = Size{101, 100}
	if !f.Tick() {
		t.Error("change beyond custom epsilon should recompute")
	}

	g, _, _ := newTestFitter(t, Size{100, 100}, AspectRatio{1, 1}, WithEpsilon(-1))
	if g.eps != Epsilon {
		t.Errorf("non-positive epsilon should be ignored, got %v", g.eps)
	}
}

func TestFitterKeepsRectOnInvalidSurface(t *testing.T) {
	f, surface, sink := newTestFitter(t, Size{800, 600}, AspectRatio{16, 9})
	f.Init()
	before := f.Rect()

	surface.size = Size{0, 600}
	if f.Tick() {
		t.Error("invalid surface should not count as a recompute")
	}
	if f.Rect() != before {
		t.Errorf("rect changed on invalid surface: %+v -> %+v", before, f.Rect())
	}
	if len(sink.rects) != 1 {
		t.Errorf("invalid surface should not reach the sink, got %d writes", len(sink.rects))
	}
	if f.LastSize() != (Size{800, 600}) {
		t.Errorf("LastSize() should be retained, got %+v", f.LastSize())
	}

	// Recovery once the surface is valid again.
	surface.size = Size{1600, 900}
	if !f.Tick() {
		t.Error("valid surface after invalid one should recompute")
	}
	if !f.Rect().IsFull() {
		t.Errorf("16:9 surface should be full, got %+v", f.Rect())
	}
}

func TestFitterInvalidBeforeInit(t *testing.T) {
	f, _, sink := newTestFitter(t, Size{-1, 0}, AspectRatio{9, 16})
	f.Init()

	if len(sink.rects) != 0 {
		t.Errorf("invalid initial surface should not write, got %d", len(sink.rects))
	}
	if !f.Rect().IsFull() {
		t.Errorf("Rect() before any valid compute should be full, got %+v", f.Rect())
	}
}

func TestFitterRecomputeIsIdempotent(t *testing.T) {
	f, _, sink := newTestFitter(t, Size{1366, 768}, AspectRatio{9, 16})
	f.Recompute()
	f.Recompute()

	if len(sink.rects) != 2 || sink.rects[0] != sink.rects[1] {
		t.Errorf("repeated Recompute should yield identical rects, got %+v", sink.rects)
	}
	if f.Recomputes() != 2 {
		t.Errorf("Recomputes() = %d, expected 2", f.Recomputes())
	}
}

func TestFuncAdapters(t *testing.T) {
	var got Rect
	f, err := New(AspectRatio{16, 9},
		SurfaceFunc(func() Size { return Size{800, 600} }),
		SinkFunc(func(r Rect) { got = r }),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	f.Init()

	if !near(got.H, 0.75) {
		t.Errorf("SinkFunc received %+v, expected letterbox H=0.75", got)
	}
}
