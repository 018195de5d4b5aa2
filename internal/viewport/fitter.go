package viewport

import (
	"errors"
	"io"
	"math"

	"github.com/charmbracelet/log"
)

// ErrInvalidAspectRatio is returned when a target aspect ratio has a
// non-positive or non-finite component.
var ErrInvalidAspectRatio = errors.New("viewport: aspect ratio must be positive")

// Surface reports the current size of the render surface.
type Surface interface {
	Size() Size
}

// Sink receives the fitted rectangle. The fitter never reads it back.
type Sink interface {
	SetViewport(Rect)
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func() Size

// Size calls f.
func (f SurfaceFunc) Size() Size { return f() }

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Rect)

// SetViewport calls f.
func (f SinkFunc) SetViewport(r Rect) { f(r) }

// Fitter keeps a sink's rectangle consistent with a fixed aspect ratio.
// It is driven by the host: Init once, then Tick once per frame.
// A Fitter is not safe for concurrent use; each view owns its own.
type Fitter struct {
	target  AspectRatio
	surface Surface
	sink    Sink
	eps     float64
	logger  *log.Logger

	last        Size
	rect        Rect
	initialized bool
	recomputes  int
}

// Option configures a Fitter.
type Option func(*Fitter)

// WithEpsilon sets the comparison tolerance. Non-positive values are ignored.
func WithEpsilon(eps float64) Option {
	return func(f *Fitter) {
		if eps > 0 && !math.IsInf(eps, 0) {
			f.eps = eps
		}
	}
}

// WithLogger makes the fitter log every recompute at debug level.
func WithLogger(l *log.Logger) Option {
	return func(f *Fitter) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Fitter for the given target ratio, surface and sink.
func New(target AspectRatio, surface Surface, sink Sink, opts ...Option) (*Fitter, error) {
	if !target.Valid() {
		return nil, ErrInvalidAspectRatio
	}
	if surface == nil || sink == nil {
		return nil, errors.New("viewport: surface and sink are required")
	}

	f := &Fitter{
		target:  target,
		surface: surface,
		sink:    sink,
		eps:     Epsilon,
		logger:  log.New(io.Discard),
		rect:    FullRect(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Init performs the initial recompute regardless of any size change.
func (f *Fitter) Init() {
	f.initialized = true
	f.Recompute()
}

// Tick is called once per frame. It recomputes only when the surface size
// moved by more than epsilon in either dimension and reports whether it did.
// A Tick before Init behaves like Init.
func (f *Fitter) Tick() bool {
	if !f.initialized {
		f.Init()
		return true
	}

	s := f.surface.Size()
	if math.Abs(s.W-f.last.W) <= f.eps && math.Abs(s.H-f.last.H) <= f.eps {
		return false
	}
	return f.Recompute()
}

// Recompute reads the surface, writes the fitted rect to the sink and
// remembers the surface size. Invalid surface sizes are skipped and the
// previous rect is kept; Recompute then returns false.
func (f *Fitter) Recompute() bool {
	s := f.surface.Size()

	r, ok := Compute(s, f.target, f.eps)
	if !ok {
		f.logger.Debug("skipping viewport recompute", "width", s.W, "height", s.H)
		return false
	}

	f.rect = r
	f.last = s
	f.recomputes++
	f.sink.SetViewport(r)

	f.logger.Debug("viewport fitted",
		"surface", s,
		"target", f.target,
		"x", r.X, "y", r.Y, "w", r.W, "h", r.H,
	)
	return true
}

// Rect returns the last rectangle written to the sink, or the full rect
// before the first successful recompute.
func (f *Fitter) Rect() Rect {
	return f.rect
}

// Target returns the configured aspect ratio.
func (f *Fitter) Target() AspectRatio {
	return f.target
}

// LastSize returns the surface size of the last successful recompute.
func (f *Fitter) LastSize() Size {
	return f.last
}

// Initialized reports whether Init has run.
func (f *Fitter) Initialized() bool {
	return f.initialized
}

// Recomputes returns how many times a rect has been written to the sink.
func (f *Fitter) Recomputes() int {
	return f.recomputes
}
