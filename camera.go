package aspen

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera moves the view of a batch: the screen batch when set with
// Context.SetCamera, or a viewport's batch when set with Viewport.SetCamera.
// The view matrix is applied after the owner's projection, so renderables
// keep their own coordinates.
type Camera struct {
	// X and Y are the world position shown at the centre of the target.
	X, Y float64
	// Zoom is the scale factor (1 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the view rotation in degrees.
	Rotation float64

	width, height int // target size, set when the camera is attached

	follow        ObjectID
	ctx           *Context
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	boundsEnabled bool
	bounds        Rect

	scroll *scrollAnim
}

// NewCamera returns a camera centred on a target of the given size, so its
// view starts as the identity.
func NewCamera(width, height int) *Camera {
	return &Camera{
		X:      float64(width) / 2,
		Y:      float64(height) / 2,
		Zoom:   1,
		width:  width,
		height: height,
	}
}

// Follow makes the camera track r's position plus the given offset. A lerp
// of 1 snaps immediately; lower values ease towards the target. Following
// stops when r is disposed.
func (c *Camera) Follow(r Renderable, offsetX, offsetY, lerp float64) {
	if r == nil {
		c.Unfollow()
		return
	}
	c.follow = r.ID()
	c.ctx = r.core().ctx
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	c.followLerp = lerp
}

// Unfollow stops tracking.
func (c *Camera) Unfollow() {
	c.follow = 0
	c.ctx = nil
}

// ScrollTo animates the camera to (x, y) over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, fn ease.TweenFunc) {
	c.scroll = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, fn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, fn),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *Camera) Scrolling() bool { return c.scroll != nil }

// SetBounds keeps the visible area inside r.
func (c *Camera) SetBounds(r Rect) {
	c.boundsEnabled = true
	c.bounds = r
}

// ClearBounds disables bounds clamping.
func (c *Camera) ClearBounds() { c.boundsEnabled = false }

// ClampToBounds applies bounds clamping now instead of at the next update.
func (c *Camera) ClampToBounds() {
	if c.boundsEnabled {
		c.clampToBounds()
	}
}

// Update advances follow, scroll and bounds clamping by dt seconds. The
// owning Context or Viewport calls it.
func (c *Camera) Update(dt float64) {
	if c.follow != 0 && c.ctx != nil {
		if r, ok := c.ctx.Lookup(c.follow); ok {
			x, y := r.core().Position()
			c.X += (x + c.followOffsetX - c.X) * c.followLerp
			c.Y += (y + c.followOffsetY - c.Y) * c.followLerp
		} else {
			c.Unfollow()
		}
	}

	if s := c.scroll; s != nil {
		if !s.doneX {
			v, done := s.tweenX.Update(float32(dt))
			c.X, s.doneX = float64(v), done
		}
		if !s.doneY {
			v, done := s.tweenY.Update(float32(dt))
			c.Y, s.doneY = float64(v), done
		}
		if s.doneX && s.doneY {
			c.scroll = nil
		}
	}

	if c.boundsEnabled {
		c.clampToBounds()
	}
}

func (c *Camera) zoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

func (c *Camera) clampToBounds() {
	z := c.zoom()
	halfW := float64(c.width) / (2 * z)
	halfH := float64(c.height) / (2 * z)
	b := c.bounds

	minX, maxX := float64(b.X)+halfW, float64(b.X+b.Width)-halfW
	minY, maxY := float64(b.Y)+halfH, float64(b.Y+b.Height)-halfH

	// Bounds smaller than the visible area centre the camera.
	if minX > maxX {
		c.X = float64(b.X) + float64(b.Width)/2
	} else {
		c.X = math.Max(minX, math.Min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = float64(b.Y) + float64(b.Height)/2
	} else {
		c.Y = math.Max(minY, math.Min(c.Y, maxY))
	}
}

// View returns Translate(centre) * Scale(zoom) * RotateZ(-rotation) * Translate(-X, -Y).
func (c *Camera) View() mgl32.Mat4 {
	z := float32(c.zoom())
	m := mgl32.Translate3D(float32(c.width)/2, float32(c.height)/2, 0)
	m = m.Mul4(mgl32.Scale3D(z, z, 1))
	m = m.Mul4(mgl32.HomogRotate3DZ(-mgl32.DegToRad(float32(c.Rotation))))
	return m.Mul4(mgl32.Translate3D(float32(-c.X), float32(-c.Y), 0))
}

// WorldToScreen maps a world point to target pixels.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	v := c.View().Mul4x1(mgl32.Vec4{float32(wx), float32(wy), 0, 1})
	return float64(v.X()), float64(v.Y())
}

// ScreenToWorld maps target pixels to a world point.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	v := c.View().Inv().Mul4x1(mgl32.Vec4{float32(sx), float32(sy), 0, 1})
	return float64(v.X()), float64(v.Y())
}

// VisibleBounds returns the world-space bounding box of the target area,
// rounded outwards to whole pixels.
func (c *Camera) VisibleBounds() Rect {
	w, h := float64(c.width), float64(c.height)
	x0, y0 := c.ScreenToWorld(0, 0)
	x1, y1 := c.ScreenToWorld(w, 0)
	x2, y2 := c.ScreenToWorld(w, h)
	x3, y3 := c.ScreenToWorld(0, h)

	// The slack absorbs float32 error from the inverse.
	const slack = 1e-3
	minX := math.Floor(math.Min(math.Min(x0, x1), math.Min(x2, x3)) + slack)
	minY := math.Floor(math.Min(math.Min(y0, y1), math.Min(y2, y3)) + slack)
	maxX := math.Ceil(math.Max(math.Max(x0, x1), math.Max(x2, x3)) - slack)
	maxY := math.Ceil(math.Max(math.Max(y0, y1), math.Max(y2, y3)) - slack)
	return Rect{int(minX), int(minY), int(maxX - minX), int(maxY - minY)}
}

// attach sizes the camera to its target.
func (c *Camera) attach(width, height int) {
	c.width, c.height = width, height
}
