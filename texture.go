package aspen

import (
	"image"
	"image/draw"
)

// Texture is a GPU color image. ID is 0 once the texture is disposed.
type Texture struct {
	ctx    *Context
	res    resource
	width  int
	height int
}

// NewTexture allocates a transparent texture.
func NewTexture(ctx *Context, width, height int) (*Texture, error) {
	return newTexture(ctx, width, height, nil)
}

// NewTextureFromImage uploads img. Any image.Image is accepted; it is
// converted to non-premultiplied RGBA first.
func NewTextureFromImage(ctx *Context, img image.Image) (*Texture, error) {
	if img == nil {
		return nil, invalidArgument("nil image")
	}
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	return newTexture(ctx, b.Dx(), b.Dy(), nrgba.Pix)
}

func newTexture(ctx *Context, width, height int, pixels []byte) (*Texture, error) {
	if ctx == nil {
		return nil, invalidArgument("nil context")
	}
	if width <= 0 || height <= 0 {
		return nil, invalidArgument("texture size %dx%d", width, height)
	}
	id := ctx.dev.GenTexture(width, height, pixels)
	return &Texture{
		ctx:    ctx,
		res:    newResource(id, ctx.dev.DeleteTexture),
		width:  width,
		height: height,
	}, nil
}

// ID returns the backend handle, or 0 once disposed.
func (t *Texture) ID() uint32 { return t.res.ID() }

// Width returns the width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the height in pixels.
func (t *Texture) Height() int { return t.height }

// Size returns the extent in pixels.
func (t *Texture) Size() Size { return Size{t.width, t.height} }

// Rect returns the full texture rectangle.
func (t *Texture) Rect() Rect { return Rect{0, 0, t.width, t.height} }

// Disposed reports whether the texture was released.
func (t *Texture) Disposed() bool { return t.res.Released() }

// Dispose releases the texture. Calling it again is a no-op.
func (t *Texture) Dispose() { t.res.Release() }

// bind makes t the sampled texture.
func (t *Texture) bind(ctx *Context, wrap WrapMode) error {
	if t.Disposed() {
		return disposedError("texture")
	}
	ctx.dev.BindTexture(t.ID(), wrap)
	return nil
}
