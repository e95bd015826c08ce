package aspen

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// fakeDraw is one DrawElements call as seen by fakeDevice.
type fakeDraw struct {
	vao         uint32
	framebuffer uint32
	texture     uint32
	wrap        WrapMode
	viewport    Rect
	projection  mgl32.Mat4
	model       mgl32.Mat4
	blend       Blend
	color       mgl32.Vec4
	tone        mgl32.Vec4
	flash       mgl32.Vec4
	hue         float32
	opacity     float32
}

type fakeClear struct {
	framebuffer uint32
	viewport    Rect
	color       Color
}

// fakeDevice records every call so tests can assert on GPU-visible state
// without a GPU.
type fakeDevice struct {
	next     uint32
	live     map[uint32]string
	released map[uint32]int
	vertices map[uint32][]float32
	indices  map[uint32][]uint8
	vaoVBO   map[uint32]uint32
	fbTex    map[uint32]uint32

	framebuffer uint32
	viewport    Rect
	clearColor  Color
	projection  mgl32.Mat4
	blend       Blend
	program     uint32
	texture     uint32
	wrap        WrapMode

	model   mgl32.Mat4
	color   mgl32.Vec4
	tone    mgl32.Vec4
	flash   mgl32.Vec4
	hue     float32
	opacity float32

	draws  []fakeDraw
	clears []fakeClear
	ops    []string

	compileErr     error
	framebufferErr error
}

var fakeUniforms = map[string]int32{
	UniformModel:   0,
	UniformColor:   1,
	UniformTone:    2,
	UniformFlash:   3,
	UniformHue:     4,
	UniformOpacity: 5,
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		live:       make(map[uint32]string),
		released:   make(map[uint32]int),
		vertices:   make(map[uint32][]float32),
		indices:    make(map[uint32][]uint8),
		vaoVBO:     make(map[uint32]uint32),
		fbTex:      make(map[uint32]uint32),
		projection: mgl32.Ident4(),
		model:      mgl32.Ident4(),
	}
}

func (d *fakeDevice) gen(kind string) uint32 {
	d.next++
	d.live[d.next] = kind
	return d.next
}

func (d *fakeDevice) del(id uint32) {
	d.released[id]++
	delete(d.live, id)
}

func (d *fakeDevice) liveCount(kind string) int {
	n := 0
	for _, k := range d.live {
		if k == kind {
			n++
		}
	}
	return n
}

func (d *fakeDevice) GenVertexArray() uint32      { return d.gen("vao") }
func (d *fakeDevice) DeleteVertexArray(id uint32) { d.del(id) }
func (d *fakeDevice) GenBuffer() uint32           { return d.gen("buffer") }
func (d *fakeDevice) DeleteBuffer(id uint32)      { d.del(id) }
func (d *fakeDevice) DeleteTexture(id uint32)     { d.del(id) }
func (d *fakeDevice) DeleteFramebuffer(id uint32) { d.del(id) }
func (d *fakeDevice) DeleteProgram(id uint32)     { d.del(id) }
func (d *fakeDevice) UseProgram(id uint32)        { d.program = id }
func (d *fakeDevice) Projection(m mgl32.Mat4)     { d.projection = m }
func (d *fakeDevice) BlendFunc(b Blend)           { d.blend = b }
func (d *fakeDevice) DefaultShaderSource() ShaderSource {
	return ShaderSource{Vertex: "vertex", Fragment: "fragment"}
}

func (d *fakeDevice) SetupVertexArray(vao, vbo, ebo uint32, vertices []float32, indices []uint8) {
	d.vaoVBO[vao] = vbo
	d.vertices[vbo] = append([]float32(nil), vertices...)
	d.indices[ebo] = append([]uint8(nil), indices...)
}

func (d *fakeDevice) UpdateVertices(vbo uint32, vertices []float32) {
	d.vertices[vbo] = append([]float32(nil), vertices...)
}

func (d *fakeDevice) DrawElements(vao uint32, count int) {
	d.ops = append(d.ops, "draw")
	d.draws = append(d.draws, fakeDraw{
		vao:         vao,
		framebuffer: d.framebuffer,
		texture:     d.texture,
		wrap:        d.wrap,
		viewport:    d.viewport,
		projection:  d.projection,
		model:       d.model,
		blend:       d.blend,
		color:       d.color,
		tone:        d.tone,
		flash:       d.flash,
		hue:         d.hue,
		opacity:     d.opacity,
	})
}

func (d *fakeDevice) GenTexture(width, height int, pixels []byte) uint32 {
	return d.gen("texture")
}

func (d *fakeDevice) BindTexture(id uint32, wrap WrapMode) {
	d.texture = id
	d.wrap = wrap
}

func (d *fakeDevice) GenFramebuffer(texture uint32) (uint32, error) {
	if d.framebufferErr != nil {
		return 0, d.framebufferErr
	}
	id := d.gen("framebuffer")
	d.fbTex[id] = texture
	return id, nil
}

func (d *fakeDevice) BindFramebuffer(id uint32) {
	d.ops = append(d.ops, "bind")
	d.framebuffer = id
}

func (d *fakeDevice) Viewport(r Rect)    { d.viewport = r }
func (d *fakeDevice) ClearColor(c Color) { d.clearColor = c }

func (d *fakeDevice) Clear() {
	d.ops = append(d.ops, "clear")
	d.clears = append(d.clears, fakeClear{framebuffer: d.framebuffer, viewport: d.viewport, color: d.clearColor})
}

func (d *fakeDevice) CompileProgram(src ShaderSource) (uint32, error) {
	if d.compileErr != nil {
		return 0, d.compileErr
	}
	return d.gen("program"), nil
}

func (d *fakeDevice) UniformLocation(program uint32, name string) int32 {
	if loc, ok := fakeUniforms[name]; ok {
		return loc
	}
	return -1
}

func (d *fakeDevice) UniformMatrix4(loc int32, m mgl32.Mat4) {
	if loc == 0 {
		d.model = m
	}
}

func (d *fakeDevice) Uniform4(loc int32, v mgl32.Vec4) {
	switch loc {
	case 1:
		d.color = v
	case 2:
		d.tone = v
	case 3:
		d.flash = v
	}
}

func (d *fakeDevice) Uniform1(loc int32, v float32) {
	switch loc {
	case 4:
		d.hue = v
	case 5:
		d.opacity = v
	}
}

// --- helpers ---

func newTestContext(t testing.TB) (*Context, *fakeDevice) {
	t.Helper()
	dev := newFakeDevice()
	cfg := DefaultConfig()
	ctx, err := NewContext(dev, cfg)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx, dev
}

func newTestTexture(t testing.TB, ctx *Context, w, h int) *Texture {
	t.Helper()
	tex, err := NewTexture(ctx, w, h)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	return tex
}

func newTestSprite(t testing.TB, ctx *Context, parent Parent, opts ...Option) *Sprite {
	t.Helper()
	if len(opts) == 0 {
		opts = []Option{WithTexture(newTestTexture(t, ctx, 8, 8))}
	}
	s, err := NewSprite(ctx, parent, opts...)
	if err != nil {
		t.Fatalf("NewSprite: %v", err)
	}
	return s
}

func mustRender(t *testing.T, ctx *Context) {
	t.Helper()
	if err := ctx.Render(1); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func assertErrorIs(t *testing.T, name string, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("%s: err = %v, want %v", name, err, target)
	}
}

// drawnVAOs returns the vertex arrays drawn into framebuffer fb, in order.
func (d *fakeDevice) drawnVAOs(fb uint32) []uint32 {
	var out []uint32
	for _, dr := range d.draws {
		if dr.framebuffer == fb {
			out = append(out, dr.vao)
		}
	}
	return out
}

// effectState returns the blend, bound texture and uniform values the next
// draw would use.
func (d *fakeDevice) effectState() fakeDraw {
	return fakeDraw{
		framebuffer: d.framebuffer,
		texture:     d.texture,
		wrap:        d.wrap,
		viewport:    d.viewport,
		projection:  d.projection,
		model:       d.model,
		blend:       d.blend,
		color:       d.color,
		tone:        d.tone,
		flash:       d.flash,
		hue:         d.hue,
		opacity:     d.opacity,
	}
}

func (d *fakeDevice) reset() {
	d.draws = nil
	d.clears = nil
	d.ops = nil
}

var _ Device = (*fakeDevice)(nil)
var _ Device = (*EbitenDevice)(nil)
