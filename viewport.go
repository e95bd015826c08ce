package aspen

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// Viewport renders its own batch into an off-screen texture and then draws
// that texture as a quad, so effects such as opacity, tone, flash, hue and
// blend apply to the composited image as a whole.
//
// A Viewport can be a member of another viewport's batch, which nests the
// off-screen passes. It cannot be created with another Viewport as its
// parent.
type Viewport struct {
	RenderableCore
	rect        Rect
	contents    *Batch
	texture     *Texture
	framebuffer resource
	projection  mgl32.Mat4
	backColor   Color
	camera      *Camera
}

// NewViewport creates a viewport attached to parent (nil for the screen
// batch). WithRect, WithBounds or WithLocation place it; without them it
// covers the internal resolution. WithBackColor sets the color the texture
// is cleared to before every pass.
func NewViewport(ctx *Context, parent Parent, opts ...Option) (*Viewport, error) {
	if ctx == nil {
		return nil, invalidArgument("nil context")
	}
	o := buildOptions(opts)
	rect := Rect{Width: ctx.cfg.Width, Height: ctx.cfg.Height}
	if o.rect != nil {
		rect = *o.rect
	}
	if rect.Empty() {
		return nil, invalidArgument("viewport rect %dx%d has no area", rect.Width, rect.Height)
	}

	v := &Viewport{
		rect:       rect,
		backColor:  o.backColor,
		projection: mgl32.Ortho(0, float32(rect.Width), 0, float32(rect.Height), -1, 1),
	}
	if err := v.init(ctx, v, KindViewport, parent, o); err != nil {
		return nil, err
	}

	tex, err := NewTexture(ctx, rect.Width, rect.Height)
	if err != nil {
		v.RenderableCore.Dispose()
		return nil, err
	}
	fb, err := ctx.dev.GenFramebuffer(tex.ID())
	if err != nil {
		tex.Dispose()
		v.RenderableCore.Dispose()
		return nil, err
	}
	v.texture = tex
	v.framebuffer = newResource(fb, ctx.dev.DeleteFramebuffer)
	v.contents = ctx.NewBatch()
	v.contents.owner = v.id

	v.SetLocation(rect.Location())
	v.setSize(float64(rect.Width), float64(rect.Height))
	return v, nil
}

// Rect returns the rectangle the viewport was created with.
func (v *Viewport) Rect() Rect { return v.rect }

// Contents returns the batch the viewport composites.
func (v *Viewport) Contents() *Batch { return v.contents }

// Add attaches r to the viewport's batch.
func (v *Viewport) Add(r Renderable) error {
	if v.Disposed() {
		return disposedError("viewport")
	}
	return v.contents.Add(r)
}

// Texture returns the composited texture.
func (v *Viewport) Texture() *Texture { return v.texture }

// Framebuffer returns the backend framebuffer handle, or 0 once disposed.
func (v *Viewport) Framebuffer() uint32 { return v.framebuffer.ID() }

// Projection returns the viewport's orthographic projection.
func (v *Viewport) Projection() mgl32.Mat4 { return v.projection }

// BackColor returns the clear color of the off-screen pass.
func (v *Viewport) BackColor() Color { return v.backColor }

// SetBackColor sets the clear color of the off-screen pass.
func (v *Viewport) SetBackColor(c Color) { v.backColor = c }

// Camera returns the camera moving the viewport's batch, or nil.
func (v *Viewport) Camera() *Camera { return v.camera }

// SetCamera moves the view of the viewport's batch. nil removes the camera.
func (v *Viewport) SetCamera(cam *Camera) {
	if cam != nil {
		cam.attach(v.rect.Width, v.rect.Height)
	}
	v.camera = cam
}

// GeometryChanged applies flip to the full-texture quad.
func (v *Viewport) GeometryChanged() {
	v.setUV(0, 0, 1, 1)
}

// Update advances the viewport and every member of its batch.
func (v *Viewport) Update(ctx *Context, dt float64) {
	v.RenderableCore.Update(ctx, dt)
	if v.camera != nil {
		v.camera.Update(dt)
	}
	if v.contents != nil {
		v.contents.Update(dt)
	}
}

// Render composites the batch into the texture, restores the global render
// state, and draws the texture.
func (v *Viewport) Render(ctx *Context, alpha float64) error {
	if v.Disposed() {
		return disposedError("viewport")
	}
	if !v.visible || v.opacity < epsilon {
		return nil
	}
	if v.framebuffer.Released() || v.texture == nil || v.texture.Disposed() {
		return disposedError("viewport framebuffer")
	}
	if err := v.composite(ctx, alpha); err != nil {
		return err
	}
	ok, err := v.begin(ctx, v.texture)
	if err != nil || !ok {
		return err
	}
	if err := v.texture.bind(ctx, WrapClamp); err != nil {
		return err
	}
	v.draw(ctx)
	return nil
}

// composite runs the off-screen pass. The framebuffer, viewport rectangle,
// projection and clear color are restored on every return path.
func (v *Viewport) composite(ctx *Context, alpha float64) error {
	saved := ctx.saveState()
	defer ctx.restoreState(saved)

	ctx.bindFramebuffer(v.framebuffer.ID())
	ctx.setViewport(Rect{Width: v.rect.Width, Height: v.rect.Height})
	ctx.setClearColor(v.backColor)
	ctx.dev.Clear()
	proj := v.projection
	if v.camera != nil {
		proj = proj.Mul4(v.camera.View())
	}
	ctx.setProjection(proj)

	if ctx.debug {
		ctx.stats.viewportPasses++
		Logger().Debug("viewport pass",
			slog.Uint64("viewport", uint64(v.id)),
			slog.Int("members", v.contents.Len()))
	}
	return v.contents.Render(alpha)
}

// Dispose releases the framebuffer and texture along with the quad buffers
// and drops the viewport's batch. Members of that batch are detached, not
// disposed. Calling it again is a no-op.
func (v *Viewport) Dispose() {
	if v.Disposed() {
		return
	}
	v.RenderableCore.Dispose()
	v.framebuffer.Release()
	if v.texture != nil {
		v.texture.Dispose()
	}
	if v.contents != nil {
		v.contents.Dispose()
	}
}

// attachTarget makes *Viewport usable as a constructor parent.
func (v *Viewport) attachTarget(ctx *Context, kind Kind) (*Batch, error) {
	if v == nil {
		return nil, invalidArgument("nil viewport parent")
	}
	if kind == KindViewport {
		return nil, invalidHierarchy("a viewport cannot be the parent of another viewport")
	}
	if v.ctx != ctx {
		return nil, invalidArgument("viewport %d belongs to another context", v.id)
	}
	if v.Disposed() {
		return nil, disposedError("viewport")
	}
	return v.contents, nil
}
