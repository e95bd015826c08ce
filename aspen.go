package aspen

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// The zero value is fully transparent and is the default for color, tone and
// flash state on a new renderable.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorTransparent = Color{}
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
)

// RGBA builds a Color from 8-bit channel values.
func RGBA(r, g, b, a uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, float64(a) / 255}
}

// Vec4 returns the color as a shader uniform value.
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// IsTransparent reports whether the alpha channel is zero.
func (c Color) IsTransparent() bool {
	return c.A <= 0
}

// toRGBA converts to a premultiplied color.RGBA for image fills.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// Tone shifts the red, green and blue channels and desaturates by Gray.
// All components are in [-1, 1] except Gray which is in [0, 1].
type Tone struct {
	R, G, B, Gray float64
}

// Vec4 returns the tone as a shader uniform value.
func (t Tone) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{float32(t.R), float32(t.G), float32(t.B), float32(t.Gray)}
}

// Vec2 is a 2D vector used for velocities and accelerations.
type Vec2 struct {
	X, Y float64
}

// Point is an integer pixel location.
type Point struct {
	X, Y int
}

// Size is an integer pixel extent.
type Size struct {
	Width, Height int
}

// Rect is an axis-aligned integer rectangle. The coordinate system has its
// origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height int
}

// NewRect builds a Rect from a location and a size.
func NewRect(p Point, s Size) Rect {
	return Rect{p.X, p.Y, s.Width, s.Height}
}

// Location returns the rectangle's top-left corner.
func (r Rect) Location() Point { return Point{r.X, r.Y} }

// Size returns the rectangle's extent.
func (r Rect) Size() Size { return Size{r.Width, r.Height} }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the right and bottom edges are outside.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersects reports whether r and other overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Range is a general-purpose min/max range used by EmitterConfig.
type Range struct {
	Min, Max float64
}

// Flip mirrors a renderable's texture coordinates. Values combine with
// bitwise OR.
type Flip uint8

const (
	FlipNone Flip = 0             // no mirroring
	FlipX    Flip = 1             // mirror horizontally
	FlipY    Flip = 2             // mirror vertically
	FlipBoth Flip = FlipX | FlipY // mirror both ways
)

// Kind identifies one of the closed set of renderable variants.
type Kind uint8

const (
	KindSprite   Kind = iota // textured quad from a source rectangle
	KindPlane                // tiled, scrollable textured quad
	KindViewport             // off-screen composited subtree
	KindEmitter              // CPU particle system
)

func (k Kind) String() string {
	switch k {
	case KindSprite:
		return "sprite"
	case KindPlane:
		return "plane"
	case KindViewport:
		return "viewport"
	case KindEmitter:
		return "emitter"
	default:
		return "unknown"
	}
}

// WrapMode selects how texture coordinates outside [0, 1] are sampled.
type WrapMode uint8

const (
	WrapClamp  WrapMode = iota // clamp to edge
	WrapRepeat                 // tile
)

// epsilon below which opacity counts as invisible.
const epsilon = 1e-6

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// roundi rounds half away from zero.
func roundi(v float32) int {
	return int(math.Round(float64(v)))
}
