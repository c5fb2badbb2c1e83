package corona

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent is fully transparent black.
var ColorTransparent = Color{}

// RGBA converts c to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// NRGBA converts c to a straight-alpha color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// ColorFromNRGBA converts a straight-alpha 8-bit color to a Color.
func ColorFromNRGBA(c color.NRGBA) Color {
	const inv = 1.0 / 255.0
	return Color{float64(c.R) * inv, float64(c.G) * inv, float64(c.B) * inv, float64(c.A) * inv}
}

// Vec2 is a 2D vector used for positions and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in min/max form. The coordinate system has
// its origin at the top-left, with Y increasing downward.
type Rect struct {
	XMin, YMin, XMax, YMax float64
}

// NewRect returns the rectangle with the given origin and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{XMin: x, YMin: y, XMax: x + w, YMax: y + h}
}

// Width returns XMax - XMin.
func (r Rect) Width() float64 { return r.XMax - r.XMin }

// Height returns YMax - YMin.
func (r Rect) Height() float64 { return r.YMax - r.YMin }

// IsEmpty reports whether the rectangle encloses no area.
func (r Rect) IsEmpty() bool {
	return r.XMin >= r.XMax || r.YMin >= r.YMax
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.XMin && x <= r.XMax && y >= r.YMin && y <= r.YMax
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.XMin <= other.XMax && r.XMax >= other.XMin &&
		r.YMin <= other.YMax && r.YMax >= other.YMin
}

// Intersect returns the overlap of r and other. Disjoint rectangles produce an
// empty rectangle collapsed onto r's nearest edge.
func (r Rect) Intersect(other Rect) Rect {
	out := Rect{
		XMin: math.Max(r.XMin, other.XMin),
		YMin: math.Max(r.YMin, other.YMin),
		XMax: math.Min(r.XMax, other.XMax),
		YMax: math.Min(r.YMax, other.YMax),
	}
	if out.XMax < out.XMin {
		out.XMax = out.XMin
	}
	if out.YMax < out.YMin {
		out.YMax = out.YMin
	}
	return out
}

// Union returns the smallest Rect containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		XMin: math.Min(r.XMin, other.XMin),
		YMin: math.Min(r.YMin, other.YMin),
		XMax: math.Max(r.XMax, other.XMax),
		YMax: math.Max(r.YMax, other.YMax),
	}
}

// Normalized swaps inverted edges so that XMin <= XMax and YMin <= YMax.
func (r Rect) Normalized() Rect {
	if r.XMin > r.XMax {
		r.XMin, r.XMax = r.XMax, r.XMin
	}
	if r.YMin > r.YMax {
		r.YMin, r.YMax = r.YMax, r.YMin
	}
	return r
}

// Errors returned across the package boundary.
var (
	ErrNotInitialized    = errors.New("corona: display not initialized")
	ErrNilObject         = errors.New("corona: nil display object")
	ErrNoSurface         = errors.New("corona: display has no surface")
	ErrDegenerateBounds  = errors.New("corona: degenerate capture bounds")
	ErrMissingFrames     = errors.New("corona: sequence data missing 'start'/'count' or 'frames'")
	ErrInvalidFrameCount = errors.New("corona: sequence frame count must be positive")
	ErrUnknownDefault    = errors.New("corona: unknown display default")
	ErrUnsupportedImage  = errors.New("corona: unsupported image format")
	ErrMissingFilename   = errors.New("corona: filename is required")
	ErrCaptureFailed     = errors.New("corona: unable to capture screen; the platform or device might not be supported")
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
