// Package viewport keeps a view constrained to a fixed design aspect ratio.
//
// A Fitter polls a Surface once per frame and, when its size changes,
// computes a normalized sub-rectangle of that surface with the target
// aspect ratio. The rectangle is centered and padded with letterbox bars
// (top and bottom) or pillarbox bars (left and right) and written to a Sink.
package viewport

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Epsilon is the default tolerance for ratio and surface-size comparisons.
const Epsilon = 1e-5

// AspectRatio is the designed width:height ratio, e.g. 9:16.
type AspectRatio struct {
	W float64 `yaml:"width"`
	H float64 `yaml:"height"`
}

// Valid reports whether both components are positive and finite.
func (a AspectRatio) Valid() bool {
	return positive(a.W) && positive(a.H)
}

// Ratio returns W/H.
func (a AspectRatio) Ratio() float64 {
	return a.W / a.H
}

// String formats the ratio as "W:H".
func (a AspectRatio) String() string {
	return strconv.FormatFloat(a.W, 'g', -1, 64) + ":" + strconv.FormatFloat(a.H, 'g', -1, 64)
}

// ParseAspectRatio parses "W:H" (or "WxH"), e.g. "9:16" or "4x3".
func ParseAspectRatio(s string) (AspectRatio, error) {
	w, h, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		w, h, ok = strings.Cut(strings.TrimSpace(s), "x")
	}
	if !ok {
		return AspectRatio{}, fmt.Errorf("%w: %q is not W:H", ErrInvalidAspectRatio, s)
	}
	fw, errW := strconv.ParseFloat(strings.TrimSpace(w), 64)
	fh, errH := strconv.ParseFloat(strings.TrimSpace(h), 64)
	a := AspectRatio{W: fw, H: fh}
	if errW != nil || errH != nil || !a.Valid() {
		return AspectRatio{}, fmt.Errorf("%w: %q", ErrInvalidAspectRatio, s)
	}
	return a, nil
}

// Size is a surface size in pixels or pixel equivalents.
type Size struct {
	W, H float64
}

// Valid reports whether both dimensions are positive and finite.
func (s Size) Valid() bool {
	return positive(s.W) && positive(s.H)
}

// Rect is a rectangle normalized to the [0,1] space of the full surface.
type Rect struct {
	X, Y, W, H float64
}

// FullRect returns the rectangle covering the entire surface.
func FullRect() Rect {
	return Rect{X: 0, Y: 0, W: 1, H: 1}
}

// IsFull reports whether the rectangle covers the whole surface (no bars).
func (r Rect) IsFull() bool {
	return r == FullRect()
}

// Letterboxed reports whether the rectangle has bars above and below.
func (r Rect) Letterboxed() bool {
	return r.H < 1
}

// Pillarboxed reports whether the rectangle has bars left and right.
func (r Rect) Pillarboxed() bool {
	return r.W < 1
}

// Pixels scales the rectangle to a surface of the given size.
func (r Rect) Pixels(s Size) (x, y, w, h float64) {
	return r.X * s.W, r.Y * s.H, r.W * s.W, r.H * s.H
}

// Cells maps the rectangle onto a character grid of cols x rows.
// Edges are rounded independently so adjacent bars and the view tile the
// grid exactly; a non-empty grid always yields at least one cell.
func (r Rect) Cells(cols, rows int) core.Rect {
	if cols <= 0 || rows <= 0 {
		return core.Rect{}
	}
	x0, x1 := span(r.X, r.W, cols)
	y0, y1 := span(r.Y, r.H, rows)
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

func span(start, length float64, n int) (int, int) {
	a := int(math.Round(start * float64(n)))
	b := int(math.Round((start + length) * float64(n)))
	a = core.Clamp(a, 0, n-1)
	b = core.Clamp(b, a+1, n)
	return a, b
}

// Compute returns the normalized view rectangle that fits target into a
// surface of the given size. ok is false when either size has a
// non-positive or non-finite dimension; the returned rect is then zero.
func Compute(surface Size, target AspectRatio, eps float64) (Rect, bool) {
	if !surface.Valid() || !target.Valid() {
		return Rect{}, false
	}

	current := surface.W / surface.H
	scaledHeight := current / target.Ratio()

	if approxEqual(scaledHeight, 1, eps) {
		return FullRect(), true
	}

	if scaledHeight < 1 {
		// Surface is taller than the design: bars top and bottom.
		return Rect{
			X: 0,
			Y: (1 - scaledHeight) / 2,
			W: 1,
			H: scaledHeight,
		}, true
	}

	// Surface is wider than the design: bars left and right.
	scaledWidth := 1 / scaledHeight
	return Rect{
		X: (1 - scaledWidth) / 2,
		Y: 0,
		W: scaledWidth,
		H: 1,
	}, true
}

// approxEqual compares a and b with a tolerance relative to their magnitude.
func approxEqual(a, b, eps float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= eps*scale
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
