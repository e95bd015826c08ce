package aspen

// Option configures a renderable at construction.
type Option func(*options)

type options struct {
	texture   *Texture
	rect      *Rect
	source    *Rect
	depth     int
	blend     Blend
	backColor Color
	emitter   *EmitterConfig
	cells     Size
}

func defaultOptions() options {
	return options{blend: DefaultBlend}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithTexture sets the texture of a Sprite, AtlasSprite, Plane or Emitter.
func WithTexture(t *Texture) Option {
	return func(o *options) { o.texture = t }
}

// WithRect sets a Viewport's or Plane's rectangle.
func WithRect(r Rect) Option {
	return func(o *options) { o.rect = &r }
}

// WithBounds is WithRect from four integers.
func WithBounds(x, y, width, height int) Option {
	return WithRect(Rect{x, y, width, height})
}

// WithLocation is WithRect from a location and a size.
func WithLocation(p Point, s Size) Option {
	return WithRect(NewRect(p, s))
}

// WithSource sets a Sprite's source rectangle within its texture.
func WithSource(r Rect) Option {
	return func(o *options) { o.source = &r }
}

// WithDepth sets the initial draw depth.
func WithDepth(z int) Option {
	return func(o *options) { o.depth = z }
}

// WithBlend sets the initial blend.
func WithBlend(b Blend) Option {
	return func(o *options) { o.blend = b }
}

// WithBackColor sets the color a Viewport clears to before drawing its batch.
func WithBackColor(c Color) Option {
	return func(o *options) { o.backColor = c }
}

// WithEmitterConfig sets an Emitter's simulation parameters.
func WithEmitterConfig(cfg EmitterConfig) Option {
	return func(o *options) { o.emitter = &cfg }
}

// WithCells sets an AtlasSprite's grid as columns by rows.
func WithCells(columns, rows int) Option {
	return func(o *options) { o.cells = Size{columns, rows} }
}
