package aspen

import "slices"

// Renderable is implemented by the closed set of drawable variants: *Sprite,
// *AtlasSprite, *Plane, *Viewport and *Emitter. Each embeds RenderableCore.
type Renderable interface {
	ID() ObjectID
	Kind() Kind
	Depth() int
	Update(ctx *Context, dt float64)
	Render(ctx *Context, alpha float64) error
	Dispose()
	Disposed() bool
	// GeometryChanged regenerates vertex data after a size or flip change.
	// Variants without texture coordinates of their own leave it a no-op.
	GeometryChanged()

	core() *RenderableCore
}

// Parent is where a new renderable is attached: a *Batch, or a *Viewport
// (meaning the viewport's own batch). A nil Parent means the context's
// default screen batch.
type Parent interface {
	attachTarget(ctx *Context, kind Kind) (*Batch, error)
}

// defaultIndices draws the quad as two triangles.
var defaultIndices = [quadIndices]uint8{0, 1, 2, 0, 3, 1}

// quadVertices lays out the unit quad with the given texture coordinates.
// Corner order is bottom-left, top-right, top-left, bottom-right.
func quadVertices(l, t, r, b float32) [quadFloats]float32 {
	return [quadFloats]float32{
		0, 1, l, b,
		1, 0, r, t,
		0, 0, l, t,
		1, 1, r, b,
	}
}

// flipUV mirrors texture coordinates according to f.
func flipUV(f Flip, l, t, r, b float32) (float32, float32, float32, float32) {
	if f&FlipX != 0 {
		l, r = r, l
	}
	if f&FlipY != 0 {
		t, b = b, t
	}
	return l, t, r, b
}

// RenderableCore is the state shared by every variant: a Transform, the
// quad's GPU buffers, and the effect uniforms. It carries a weak handle to
// the batch that draws it.
type RenderableCore struct {
	Transform

	ctx   *Context
	self  Renderable
	id    ObjectID
	kind  Kind
	batch BatchID

	vao, vbo, ebo resource
	vertices      [quadFloats]float32
	indices       [quadIndices]uint8

	opacity       float64
	color         Color
	tone          Tone
	flashColor    Color
	flashDuration int
	hue           float64
	visible       bool
	blend         Blend
	flip          Flip
}

// init resolves parent, allocates GPU buffers, registers self in the arena
// and attaches it to the resolved batch. On error nothing is left allocated.
func (r *RenderableCore) init(ctx *Context, self Renderable, kind Kind, parent Parent, o options) error {
	if ctx == nil {
		return invalidArgument("nil context")
	}
	if ctx.disposed {
		return disposedError("context")
	}
	target := ctx.screen
	if parent != nil {
		b, err := parent.attachTarget(ctx, kind)
		if err != nil {
			return err
		}
		target = b
	}

	r.Transform = NewTransform()
	r.Transform.depth = o.depth
	r.ctx = ctx
	r.self = self
	r.kind = kind
	r.opacity = 1
	r.visible = true
	r.blend = o.blend
	r.flashDuration = -1

	dev := ctx.dev
	r.vao = newResource(dev.GenVertexArray(), dev.DeleteVertexArray)
	r.vbo = newResource(dev.GenBuffer(), dev.DeleteBuffer)
	r.ebo = newResource(dev.GenBuffer(), dev.DeleteBuffer)
	r.vertices = quadVertices(0, 0, 1, 1)
	r.indices = defaultIndices
	dev.SetupVertexArray(r.vao.ID(), r.vbo.ID(), r.ebo.ID(), r.vertices[:], r.indices[:])

	r.id = ctx.register(self)
	if err := target.Add(self); err != nil {
		r.release()
		return err
	}
	return nil
}

// ID returns the arena ID.
func (r *RenderableCore) ID() ObjectID { return r.id }

// Kind returns the variant tag.
func (r *RenderableCore) Kind() Kind { return r.kind }

// Context returns the context the renderable was created in.
func (r *RenderableCore) Context() *Context { return r.ctx }

// Batch returns the batch that draws this renderable, or nil when it is
// detached or disposed.
func (r *RenderableCore) Batch() *Batch {
	if r.batch == 0 || r.ctx == nil {
		return nil
	}
	b, ok := r.ctx.batches[r.batch]
	if !ok {
		return nil
	}
	return b
}

func (r *RenderableCore) core() *RenderableCore { return r }

// GeometryChanged is the default no-op hook.
func (r *RenderableCore) GeometryChanged() {}

// Disposed reports whether the GPU buffers were released.
func (r *RenderableCore) Disposed() bool { return r.vao.Released() }

// Dispose detaches the renderable from its batch and releases its GPU
// buffers. Calling it again is a no-op.
func (r *RenderableCore) Dispose() {
	if r.Disposed() {
		return
	}
	if b := r.Batch(); b != nil {
		b.Remove(r.self)
	}
	r.release()
}

func (r *RenderableCore) release() {
	r.batch = 0
	r.vao.Release()
	r.vbo.Release()
	r.ebo.Release()
	if r.ctx != nil {
		r.ctx.unregister(r.id)
	}
}

// Update advances the transform and counts down an active flash. A flash
// started with n ticks clears after exactly n updates; a flash with -1
// ticks is never cleared here.
func (r *RenderableCore) Update(_ *Context, dt float64) {
	r.Transform.Update(dt)
	if r.flashDuration > -1 {
		r.flashDuration--
		if r.flashDuration <= 0 {
			r.flashDuration = -1
			r.flashColor = ColorTransparent
		}
	}
}

// begin uploads the shared uniform state and reports whether the caller
// should go on to bind tex and draw. A disposed renderable or texture fails
// before any device call.
func (r *RenderableCore) begin(ctx *Context, tex *Texture) (bool, error) {
	if r.Disposed() {
		return false, disposedError(r.kind.String())
	}
	if tex != nil && tex.Disposed() {
		return false, disposedError("texture")
	}
	if !r.visible || r.opacity < epsilon {
		if ctx.debug {
			ctx.stats.skipped++
		}
		return false, nil
	}
	dev := ctx.dev
	sh := ctx.shader
	dev.BlendFunc(r.blend)
	dev.UniformMatrix4(sh.model, r.model)
	dev.Uniform4(sh.color, r.color.Vec4())
	dev.Uniform4(sh.tone, r.tone.Vec4())
	dev.Uniform4(sh.flash, r.flashColor.Vec4())
	dev.Uniform1(sh.hue, float32(r.hue))
	dev.Uniform1(sh.opacity, float32(r.opacity))
	return true, nil
}

// draw issues the quad's draw call.
func (r *RenderableCore) draw(ctx *Context) {
	ctx.dev.DrawElements(r.vao.ID(), quadIndices)
	if ctx.debug {
		ctx.stats.drawCalls++
	}
}

// --- effects ---

// Opacity returns the opacity in [0, 1].
func (r *RenderableCore) Opacity() float64 { return r.opacity }

// SetOpacity sets the opacity, clamped to [0, 1].
func (r *RenderableCore) SetOpacity(v float64) { r.opacity = clamp01(v) }

// Color returns the color blended over the texture by its alpha.
func (r *RenderableCore) Color() Color { return r.color }

// SetColor sets the color blended over the texture by its alpha.
func (r *RenderableCore) SetColor(c Color) { r.color = c }

// Tone returns the color shift.
func (r *RenderableCore) Tone() Tone { return r.tone }

// SetTone sets the color shift.
func (r *RenderableCore) SetTone(t Tone) { r.tone = t }

// Hue returns the hue rotation in degrees, in [0, 360).
func (r *RenderableCore) Hue() float64 { return r.hue }

// SetHue sets the hue rotation. Any angle is accepted and normalized into
// [0, 360).
func (r *RenderableCore) SetHue(degrees float64) { r.hue = normalizeDegrees(degrees) }

// Visible reports whether the renderable is drawn.
func (r *RenderableCore) Visible() bool { return r.visible }

// SetVisible shows or hides the renderable.
func (r *RenderableCore) SetVisible(v bool) { r.visible = v }

// Blend returns the blend.
func (r *RenderableCore) Blend() Blend { return r.blend }

// SetBlend sets the blend.
func (r *RenderableCore) SetBlend(b Blend) { r.blend = b }

// Flip returns the texture mirroring.
func (r *RenderableCore) Flip() Flip { return r.flip }

// SetFlip sets the texture mirroring and regenerates geometry.
func (r *RenderableCore) SetFlip(f Flip) {
	if r.flip == f {
		return
	}
	r.flip = f
	r.self.GeometryChanged()
}

// Flash overlays c for the given number of updates. ticks of -1 keeps the
// overlay until StopFlash; values below -1 are treated as -1.
func (r *RenderableCore) Flash(c Color, ticks int) {
	r.flashColor = c
	r.flashDuration = max(ticks, -1)
}

// StopFlash clears the flash overlay immediately.
func (r *RenderableCore) StopFlash() {
	r.flashColor = ColorTransparent
	r.flashDuration = -1
}

// Flashing reports whether a timed flash is counting down.
func (r *RenderableCore) Flashing() bool { return r.flashDuration > -1 }

// FlashColor returns the current flash overlay.
func (r *RenderableCore) FlashColor() Color { return r.flashColor }

// FlashDuration returns the remaining flash ticks, or -1.
func (r *RenderableCore) FlashDuration() int { return r.flashDuration }

// SetDepth sets the draw depth and marks the owning batch for resorting.
func (r *RenderableCore) SetDepth(z int) {
	if r.depth == z {
		return
	}
	r.depth = z
	if b := r.Batch(); b != nil {
		b.Invalidate()
	}
}

// SetZ is an alias for SetDepth.
func (r *RenderableCore) SetZ(z int) { r.SetDepth(z) }

// --- geometry ---

// Vertices returns a copy of the current vertex data.
func (r *RenderableCore) Vertices() []float32 {
	return slices.Clone(r.vertices[:])
}

// Indices returns a copy of the current index data.
func (r *RenderableCore) Indices() []uint8 {
	return slices.Clone(r.indices[:])
}

// SetGeometry replaces both vertex and index data. vertices must hold
// four {x, y, u, v} corners and indices six entries.
func (r *RenderableCore) SetGeometry(vertices []float32, indices []uint8) error {
	if r.Disposed() {
		return disposedError(r.kind.String())
	}
	if len(vertices) != quadFloats {
		return invalidArgument("vertex data has %d floats, want %d", len(vertices), quadFloats)
	}
	if len(indices) != quadIndices {
		return invalidArgument("index data has %d entries, want %d", len(indices), quadIndices)
	}
	copy(r.vertices[:], vertices)
	copy(r.indices[:], indices)
	r.ctx.dev.SetupVertexArray(r.vao.ID(), r.vbo.ID(), r.ebo.ID(), r.vertices[:], r.indices[:])
	return nil
}

// UpdateBuffer replaces the vertex data and keeps the indices.
func (r *RenderableCore) UpdateBuffer(vertices []float32) error {
	if r.Disposed() {
		return disposedError(r.kind.String())
	}
	if len(vertices) != quadFloats {
		return invalidArgument("vertex data has %d floats, want %d", len(vertices), quadFloats)
	}
	copy(r.vertices[:], vertices)
	r.ctx.dev.UpdateVertices(r.vbo.ID(), r.vertices[:])
	return nil
}

// setUV regenerates the quad with the given texture coordinates after
// applying flip.
func (r *RenderableCore) setUV(l, t, rt, b float32) {
	if r.Disposed() {
		return
	}
	l, t, rt, b = flipUV(r.flip, l, t, rt, b)
	v := quadVertices(l, t, rt, b)
	_ = r.UpdateBuffer(v[:])
}

// setSize resizes the transform and fires GeometryChanged.
func (r *RenderableCore) setSize(w, h float64) {
	r.Transform.resize(w, h)
	r.self.GeometryChanged()
}
