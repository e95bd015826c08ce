package aspen

// Plane tiles its texture across its rectangle. Scroll moves the tiling
// origin every update; zoom magnifies the texture.
type Plane struct {
	RenderableCore
	texture *Texture
	zoomX   float64
	zoomY   float64
	scrollX float64 // pixels per second
	scrollY float64
	originX float64
	originY float64
}

// NewPlane creates a plane attached to parent (nil for the screen batch).
// WithRect places and sizes it; by default it covers the parent viewport,
// or the internal resolution.
func NewPlane(ctx *Context, parent Parent, opts ...Option) (*Plane, error) {
	o := buildOptions(opts)
	if o.texture != nil && o.texture.Disposed() {
		return nil, disposedError("texture")
	}
	p := &Plane{texture: o.texture, zoomX: 1, zoomY: 1}
	if err := p.init(ctx, p, KindPlane, parent, o); err != nil {
		return nil, err
	}
	r := Rect{Width: ctx.cfg.Width, Height: ctx.cfg.Height}
	if v, ok := parent.(*Viewport); ok && v != nil {
		r = Rect{Width: v.rect.Width, Height: v.rect.Height}
	}
	if o.rect != nil {
		r = *o.rect
	}
	p.SetLocation(r.Location())
	p.SetSize(r.Size())
	return p, nil
}

// Texture returns the tiled texture, or nil.
func (p *Plane) Texture() *Texture { return p.texture }

// SetTexture replaces the tiled texture.
func (p *Plane) SetTexture(t *Texture) {
	p.texture = t
	p.GeometryChanged()
}

// SetSize resizes the plane.
func (p *Plane) SetSize(s Size) {
	p.setSize(float64(s.Width), float64(s.Height))
}

// Zoom returns the magnification.
func (p *Plane) Zoom() (x, y float64) { return p.zoomX, p.zoomY }

// SetZoom sets the magnification. Non-positive factors are ignored.
func (p *Plane) SetZoom(x, y float64) {
	if x <= 0 || y <= 0 {
		return
	}
	p.zoomX, p.zoomY = x, y
	p.GeometryChanged()
}

// Scroll returns the origin velocity in pixels per second.
func (p *Plane) Scroll() (x, y float64) { return p.scrollX, p.scrollY }

// SetScroll sets the origin velocity in pixels per second.
func (p *Plane) SetScroll(x, y float64) { p.scrollX, p.scrollY = x, y }

// Origin returns the tiling offset in screen pixels.
func (p *Plane) Origin() (x, y float64) { return p.originX, p.originY }

// SetOrigin sets the tiling offset in screen pixels.
func (p *Plane) SetOrigin(x, y float64) {
	p.originX, p.originY = x, y
	p.GeometryChanged()
}

// Update advances the transform, the flash and the scroll origin.
func (p *Plane) Update(ctx *Context, dt float64) {
	p.RenderableCore.Update(ctx, dt)
	if p.scrollX == 0 && p.scrollY == 0 {
		return
	}
	p.originX += p.scrollX * dt
	p.originY += p.scrollY * dt
	p.GeometryChanged()
}

// GeometryChanged recomputes the repeating texture coordinates.
func (p *Plane) GeometryChanged() {
	if p.texture == nil || p.texture.width == 0 || p.texture.height == 0 {
		return
	}
	tw := float64(p.texture.width) * p.zoomX
	th := float64(p.texture.height) * p.zoomY
	l := p.originX / tw
	t := p.originY / th
	r := l + float64(p.Width())/tw
	b := t + float64(p.Height())/th
	p.setUV(float32(l), float32(t), float32(r), float32(b))
}

// Render draws the tiled texture with repeat addressing.
func (p *Plane) Render(ctx *Context, _ float64) error {
	if p.texture == nil {
		return nil
	}
	ok, err := p.begin(ctx, p.texture)
	if err != nil || !ok {
		return err
	}
	if err := p.texture.bind(ctx, WrapRepeat); err != nil {
		return err
	}
	p.draw(ctx)
	return nil
}
