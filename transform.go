package aspen

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform holds an object's placement and the model matrix derived from it.
// Position, velocity, scale, pivot and size are 3-vectors whose z component
// is unused. Depth orders drawing inside a Batch and never enters the matrix.
//
// The model matrix is recomputed only by Update:
//
//	Translate(pivot+position) -> RotateZ(angle) -> Translate(-(pivot+position)) -> Translate(position) -> Scale(scale*size)
//
// applied right to left to the unit quad.
type Transform struct {
	model    mgl32.Mat4
	position mgl32.Vec3
	velocity mgl32.Vec3
	scale    mgl32.Vec3
	pivot    mgl32.Vec3
	size     mgl32.Vec3
	angle    float32 // radians
	depth    int
}

// NewTransform returns an identity transform with unit scale.
func NewTransform() Transform {
	return Transform{
		model: mgl32.Ident4(),
		scale: mgl32.Vec3{1, 1, 1},
	}
}

// Update advances position by velocity*dt and recomputes the model matrix.
func (t *Transform) Update(dt float64) {
	t.position = t.position.Add(t.velocity.Mul(float32(dt)))
	t.model = t.compose()
}

func (t *Transform) compose() mgl32.Mat4 {
	pv := t.pivot.Add(t.position)
	m := mgl32.Translate3D(pv.X(), pv.Y(), 0)
	m = m.Mul4(mgl32.HomogRotate3DZ(t.angle))
	m = m.Mul4(mgl32.Translate3D(-pv.X(), -pv.Y(), 0))
	m = m.Mul4(mgl32.Translate3D(t.position.X(), t.position.Y(), 0))
	return m.Mul4(mgl32.Scale3D(t.scale.X()*t.size.X(), t.scale.Y()*t.size.Y(), 1))
}

// Model returns the matrix computed by the last Update or set by SetModel.
func (t *Transform) Model() mgl32.Mat4 { return t.model }

// SetModel overrides the model matrix until the next Update.
func (t *Transform) SetModel(m mgl32.Mat4) { t.model = m }

// X returns the rounded horizontal position.
func (t *Transform) X() int { return roundi(t.position.X()) }

// Y returns the rounded vertical position.
func (t *Transform) Y() int { return roundi(t.position.Y()) }

// Z returns the draw depth. It is an alias for Depth.
func (t *Transform) Z() int { return t.depth }

// Depth returns the draw depth.
func (t *Transform) Depth() int { return t.depth }

// SetX sets the horizontal position.
func (t *Transform) SetX(x float64) { t.position[0] = float32(x) }

// SetY sets the vertical position.
func (t *Transform) SetY(y float64) { t.position[1] = float32(y) }

// Position returns the unrounded position.
func (t *Transform) Position() (x, y float64) {
	return float64(t.position.X()), float64(t.position.Y())
}

// SetPosition sets both position components.
func (t *Transform) SetPosition(x, y float64) {
	t.position[0], t.position[1] = float32(x), float32(y)
}

// Location returns the rounded position.
func (t *Transform) Location() Point { return Point{t.X(), t.Y()} }

// SetLocation moves the transform to p.
func (t *Transform) SetLocation(p Point) { t.SetPosition(float64(p.X), float64(p.Y)) }

// Velocity returns the per-second displacement applied by Update.
func (t *Transform) Velocity() (x, y float64) {
	return float64(t.velocity.X()), float64(t.velocity.Y())
}

// SetVelocity sets the per-second displacement applied by Update.
func (t *Transform) SetVelocity(x, y float64) {
	t.velocity[0], t.velocity[1] = float32(x), float32(y)
}

// Scale returns the scale factors.
func (t *Transform) Scale() (x, y float64) {
	return float64(t.scale.X()), float64(t.scale.Y())
}

// SetScale sets the scale factors.
func (t *Transform) SetScale(x, y float64) {
	t.scale[0], t.scale[1] = float32(x), float32(y)
}

// Pivot returns the rotation pivot, relative to the position.
func (t *Transform) Pivot() (x, y float64) {
	return float64(t.pivot.X()), float64(t.pivot.Y())
}

// SetPivot sets the rotation pivot, relative to the position.
func (t *Transform) SetPivot(x, y float64) {
	t.pivot[0], t.pivot[1] = float32(x), float32(y)
}

// Angle returns the rotation in degrees.
func (t *Transform) Angle() float64 {
	return float64(mgl32.RadToDeg(t.angle))
}

// SetAngle sets the rotation in degrees without touching the pivot.
func (t *Transform) SetAngle(degrees float64) {
	t.angle = mgl32.DegToRad(float32(degrees))
}

// Rotate sets the rotation in degrees and moves the pivot to the centre of
// the object's size.
func (t *Transform) Rotate(degrees float64) {
	t.SetAngle(degrees)
	t.pivot = mgl32.Vec3{t.size.X() / 2, t.size.Y() / 2, 0}
}

// RotateAbout sets the rotation in degrees around the given pivot.
func (t *Transform) RotateAbout(degrees, pivotX, pivotY float64) {
	t.SetAngle(degrees)
	t.SetPivot(pivotX, pivotY)
}

// Size returns the rounded extent.
func (t *Transform) Size() Size {
	return Size{roundi(t.size.X()), roundi(t.size.Y())}
}

// Width returns the rounded width.
func (t *Transform) Width() int { return roundi(t.size.X()) }

// Height returns the rounded height.
func (t *Transform) Height() int { return roundi(t.size.Y()) }

// Bounds returns the rounded position and size.
func (t *Transform) Bounds() Rect {
	return Rect{t.X(), t.Y(), t.Width(), t.Height()}
}

// resize sets the extent. Variants own their size, so this is not exported;
// callers go through RenderableCore.setSize, which fires GeometryChanged.
func (t *Transform) resize(w, h float64) {
	t.size[0], t.size[1] = float32(w), float32(h)
}

// normalizeDegrees maps any angle into [0, 360).
func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
