package aspen

// Sprite draws a rectangle of a texture. Its size follows the source
// rectangle, which defaults to the whole texture.
type Sprite struct {
	RenderableCore
	texture *Texture
	source  Rect
}

// NewSprite creates a sprite attached to parent (nil for the screen batch).
// Recognized options: WithTexture, WithSource, WithDepth, WithBlend.
func NewSprite(ctx *Context, parent Parent, opts ...Option) (*Sprite, error) {
	s := &Sprite{}
	if err := s.setup(ctx, s, parent, buildOptions(opts)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sprite) setup(ctx *Context, self Renderable, parent Parent, o options) error {
	if o.texture != nil && o.texture.Disposed() {
		return disposedError("texture")
	}
	if err := s.init(ctx, self, KindSprite, parent, o); err != nil {
		return err
	}
	s.texture = o.texture
	switch {
	case o.source != nil:
		s.SetSource(*o.source)
	case o.texture != nil:
		s.SetSource(o.texture.Rect())
	}
	return nil
}

// Texture returns the sampled texture, or nil.
func (s *Sprite) Texture() *Texture { return s.texture }

// SetTexture replaces the texture and resets the source rectangle to cover
// it. A nil texture hides the sprite.
func (s *Sprite) SetTexture(t *Texture) {
	s.texture = t
	if t == nil {
		s.SetSource(Rect{})
		return
	}
	s.SetSource(t.Rect())
}

// Source returns the source rectangle in texture pixels.
func (s *Sprite) Source() Rect { return s.source }

// SetSource selects the part of the texture to draw and resizes the sprite
// to match.
func (s *Sprite) SetSource(r Rect) {
	s.source = r
	s.setSize(float64(r.Width), float64(r.Height))
}

// GeometryChanged recomputes texture coordinates from the source rectangle.
func (s *Sprite) GeometryChanged() {
	if s.texture == nil || s.texture.width == 0 || s.texture.height == 0 {
		return
	}
	tw, th := float32(s.texture.width), float32(s.texture.height)
	l := float32(s.source.X) / tw
	t := float32(s.source.Y) / th
	r := l + float32(s.source.Width)/tw
	b := t + float32(s.source.Height)/th
	s.setUV(l, t, r, b)
}

// Render draws the source rectangle through the effect shader.
func (s *Sprite) Render(ctx *Context, _ float64) error {
	if s.texture == nil {
		return nil
	}
	ok, err := s.begin(ctx, s.texture)
	if err != nil || !ok {
		return err
	}
	if err := s.texture.bind(ctx, WrapClamp); err != nil {
		return err
	}
	s.draw(ctx)
	return nil
}

// AtlasSprite is a Sprite that shows one cell of a grid laid over a region
// of its texture.
type AtlasSprite struct {
	Sprite
	region  Rect
	columns int
	rows    int
	cx, cy  int
}

// NewAtlasSprite creates an atlas sprite. WithCells sets the grid (1x1 by
// default) and WithSource the region it covers (the whole texture by
// default).
func NewAtlasSprite(ctx *Context, parent Parent, opts ...Option) (*AtlasSprite, error) {
	o := buildOptions(opts)
	if o.cells.Width < 0 || o.cells.Height < 0 {
		return nil, invalidArgument("atlas grid %dx%d", o.cells.Width, o.cells.Height)
	}
	a := &AtlasSprite{columns: max(o.cells.Width, 1), rows: max(o.cells.Height, 1)}
	if o.source != nil {
		a.region = *o.source
	} else if o.texture != nil {
		a.region = o.texture.Rect()
	}
	o.source = nil
	if err := a.setup(ctx, a, parent, o); err != nil {
		return nil, err
	}
	a.updateSource()
	return a, nil
}

// Columns returns the number of grid columns.
func (a *AtlasSprite) Columns() int { return a.columns }

// Rows returns the number of grid rows.
func (a *AtlasSprite) Rows() int { return a.rows }

// Cell returns the selected column and row.
func (a *AtlasSprite) Cell() (cx, cy int) { return a.cx, a.cy }

// Region returns the part of the texture the grid covers.
func (a *AtlasSprite) Region() Rect { return a.region }

// SetRegion changes the part of the texture the grid covers.
func (a *AtlasSprite) SetRegion(r Rect) {
	a.region = r
	a.updateSource()
}

// SetTexture replaces the texture and resets the region to cover it.
func (a *AtlasSprite) SetTexture(t *Texture) {
	a.texture = t
	if t == nil {
		a.region = Rect{}
	} else {
		a.region = t.Rect()
	}
	a.updateSource()
}

// Select shows the cell at column cx and row cy. Indices wrap around the
// grid.
func (a *AtlasSprite) Select(cx, cy int) {
	a.cx = wrapIndex(cx, a.columns)
	a.cy = wrapIndex(cy, a.rows)
	a.updateSource()
}

func (a *AtlasSprite) updateSource() {
	if a.texture == nil {
		a.SetSource(Rect{})
		return
	}
	var cw, ch int
	if a.columns > 0 {
		cw = a.region.Width / a.columns
	}
	if a.rows > 0 {
		ch = a.region.Height / a.rows
	}
	a.SetSource(Rect{
		X:      a.region.X + a.cx*cw,
		Y:      a.region.Y + a.cy*ch,
		Width:  cw,
		Height: ch,
	})
}

// wrapIndex maps i into [0, n), or 0 when n is 0.
func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
