package aspen

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// spriteKage is the ebiten version of the effect shader. Vertex colors are
// unused; the model-view-projection transform runs on the CPU. The output is
// straight alpha so the GL-style blend factors apply unchanged.
const spriteKage = `//kage:unit pixels
package main

var Color vec4
var Tone vec4
var Flash vec4
var Hue float
var Opacity float
var Wrap float

func sample(pos vec2) vec4 {
	if Wrap > 0 {
		origin := imageSrc0Origin()
		return imageSrc0At(origin + mod(pos-origin, imageSrc0Size()))
	}
	return imageSrc0At(pos)
}

func rotateHue(c vec3, deg float) vec3 {
	rad := deg * 3.14159265 / 180.0
	s := sin(rad) * 0.57735027
	cs := cos(rad)
	w := (1.0 - cs) / 3.0
	return vec3(
		c.r*(cs+w)+c.g*(w-s)+c.b*(w+s),
		c.r*(w+s)+c.g*(cs+w)+c.b*(w-s),
		c.r*(w-s)+c.g*(w+s)+c.b*(cs+w),
	)
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	c := sample(srcPos)
	if c.a <= 0.0 {
		return vec4(0)
	}
	rgb := c.rgb / c.a
	if Hue != 0.0 {
		rgb = rotateHue(rgb, Hue)
	}
	rgb = clamp(rgb+Tone.rgb, 0.0, 1.0)
	gray := dot(rgb, vec3(0.299, 0.587, 0.114))
	rgb = mix(rgb, vec3(gray), Tone.a)
	rgb = mix(rgb, Color.rgb, Color.a)
	rgb = mix(rgb, Flash.rgb, Flash.a)
	return vec4(rgb, c.a*Opacity)
}
`

// Uniform locations handed out by EbitenDevice. The model matrix is kept on
// the CPU; the rest are forwarded to Kage.
const (
	ebitenUniformModel int32 = iota
	ebitenUniformColor
	ebitenUniformTone
	ebitenUniformFlash
	ebitenUniformHue
	ebitenUniformOpacity
)

var ebitenUniformNames = map[string]int32{
	UniformModel:   ebitenUniformModel,
	UniformColor:   ebitenUniformColor,
	UniformTone:    ebitenUniformTone,
	UniformFlash:   ebitenUniformFlash,
	UniformHue:     ebitenUniformHue,
	UniformOpacity: ebitenUniformOpacity,
}

type ebitenVertexArray struct {
	vbo, ebo uint32
}

type ebitenBuffer struct {
	vertices []float32
	indices  []uint8
}

type ebitenTexture struct {
	image *ebiten.Image
}

// EbitenDevice implements Device on top of ebiten. Textures and framebuffers
// are *ebiten.Image values; draws become DrawTrianglesShader calls with the
// Kage effect shader. Framebuffer 0 draws to the image set by SetScreen.
type EbitenDevice struct {
	screen *ebiten.Image

	vaos         map[uint32]*ebitenVertexArray
	buffers      map[uint32]*ebitenBuffer
	textures     map[uint32]*ebitenTexture
	framebuffers map[uint32]uint32 // framebuffer -> texture
	programs     map[uint32]*ebiten.Shader
	next         uint32

	framebuffer uint32
	viewport    Rect
	clearColor  Color
	projection  mgl32.Mat4
	blend       ebiten.Blend
	program     uint32
	texture     uint32
	wrap        WrapMode

	model    mgl32.Mat4
	uniforms map[string]any
	warned   map[Blend]bool

	verts   []ebiten.Vertex
	indices []uint16
	draws   int
}

// NewEbitenDevice returns an ebiten-backed device with no screen image.
func NewEbitenDevice() *EbitenDevice {
	return &EbitenDevice{
		vaos:         make(map[uint32]*ebitenVertexArray),
		buffers:      make(map[uint32]*ebitenBuffer),
		textures:     make(map[uint32]*ebitenTexture),
		framebuffers: make(map[uint32]uint32),
		programs:     make(map[uint32]*ebiten.Shader),
		projection:   mgl32.Ident4(),
		model:        mgl32.Ident4(),
		blend:        ebiten.BlendSourceOver,
		uniforms: map[string]any{
			"Color":   []float32{0, 0, 0, 0},
			"Tone":    []float32{0, 0, 0, 0},
			"Flash":   []float32{0, 0, 0, 0},
			"Hue":     float32(0),
			"Opacity": float32(1),
			"Wrap":    float32(0),
		},
		warned: make(map[Blend]bool),
	}
}

// SetScreen sets the image framebuffer 0 draws to. Run calls it with the
// screen image every frame.
func (d *EbitenDevice) SetScreen(img *ebiten.Image) { d.screen = img }

// DrawCount returns the number of draw calls issued since creation.
func (d *EbitenDevice) DrawCount() int { return d.draws }

// TextureImage returns the image behind a texture handle, or nil.
func (d *EbitenDevice) TextureImage(id uint32) *ebiten.Image {
	if t, ok := d.textures[id]; ok {
		return t.image
	}
	return nil
}

func (d *EbitenDevice) gen() uint32 {
	d.next++
	return d.next
}

// --- geometry ---

func (d *EbitenDevice) GenVertexArray() uint32 {
	id := d.gen()
	d.vaos[id] = &ebitenVertexArray{}
	return id
}

func (d *EbitenDevice) DeleteVertexArray(id uint32) { delete(d.vaos, id) }

func (d *EbitenDevice) GenBuffer() uint32 {
	id := d.gen()
	d.buffers[id] = &ebitenBuffer{}
	return id
}

func (d *EbitenDevice) DeleteBuffer(id uint32) { delete(d.buffers, id) }

func (d *EbitenDevice) SetupVertexArray(vao, vbo, ebo uint32, vertices []float32, indices []uint8) {
	va, ok := d.vaos[vao]
	if !ok {
		return
	}
	va.vbo, va.ebo = vbo, ebo
	if b, ok := d.buffers[vbo]; ok {
		b.vertices = append(b.vertices[:0], vertices...)
	}
	if b, ok := d.buffers[ebo]; ok {
		b.indices = append(b.indices[:0], indices...)
	}
}

func (d *EbitenDevice) UpdateVertices(vbo uint32, vertices []float32) {
	if b, ok := d.buffers[vbo]; ok {
		b.vertices = append(b.vertices[:0], vertices...)
	}
}

// DrawElements transforms the bound quad on the CPU and draws it into the
// bound framebuffer, clipped to the viewport rectangle.
func (d *EbitenDevice) DrawElements(vao uint32, count int) {
	va, ok := d.vaos[vao]
	if !ok {
		return
	}
	vb, eb := d.buffers[va.vbo], d.buffers[va.ebo]
	tex, ok := d.textures[d.texture]
	shader := d.programs[d.program]
	dst := d.target()
	if vb == nil || eb == nil || !ok || shader == nil || dst == nil {
		return
	}

	mvp := d.projection.Mul4(d.model)
	src := tex.image.Bounds()
	sw, sh := float32(src.Dx()), float32(src.Dy())
	d.verts = d.verts[:0]
	for i := 0; i+floatStride <= len(vb.vertices); i += floatStride {
		v := vb.vertices[i : i+floatStride]
		clip := mvp.Mul4x1(mgl32.Vec4{v[0], v[1], 0, 1})
		px, py := d.toPixels(clip.X()/clip.W(), clip.Y()/clip.W())
		d.verts = append(d.verts, ebiten.Vertex{
			DstX:   px,
			DstY:   py,
			SrcX:   float32(src.Min.X) + v[2]*sw,
			SrcY:   float32(src.Min.Y) + v[3]*sh,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		})
	}
	d.indices = d.indices[:0]
	for i := 0; i < count && i < len(eb.indices); i++ {
		d.indices = append(d.indices, uint16(eb.indices[i]))
	}

	if d.wrap == WrapRepeat {
		d.uniforms["Wrap"] = float32(1)
	} else {
		d.uniforms["Wrap"] = float32(0)
	}
	var op ebiten.DrawTrianglesShaderOptions
	op.Images[0] = tex.image
	op.Uniforms = d.uniforms
	op.Blend = d.blend
	dst.DrawTrianglesShader(d.verts, d.indices, shader, &op)
	d.draws++
}

// toPixels maps normalized device coordinates into the bound target. The
// screen puts NDC +1 on its top row; off-screen targets put NDC -1 on row 0
// so their rows match the texture coordinates they are later sampled with.
func (d *EbitenDevice) toPixels(nx, ny float32) (float32, float32) {
	vp := d.viewport
	x := float32(vp.X) + (nx+1)/2*float32(vp.Width)
	if d.framebuffer == 0 {
		return x, float32(vp.Y) + (1-ny)/2*float32(vp.Height)
	}
	return x, float32(vp.Y) + (ny+1)/2*float32(vp.Height)
}

// target returns the bound framebuffer's image clipped to the viewport.
func (d *EbitenDevice) target() *ebiten.Image {
	var img *ebiten.Image
	if d.framebuffer == 0 {
		img = d.screen
	} else if tex, ok := d.textures[d.framebuffers[d.framebuffer]]; ok {
		img = tex.image
	}
	if img == nil {
		return nil
	}
	r := image.Rect(d.viewport.X, d.viewport.Y, d.viewport.X+d.viewport.Width, d.viewport.Y+d.viewport.Height)
	return img.SubImage(r.Intersect(img.Bounds())).(*ebiten.Image)
}

// --- textures ---

func (d *EbitenDevice) GenTexture(width, height int, pixels []byte) uint32 {
	var img *ebiten.Image
	if pixels != nil {
		src := &image.NRGBA{Pix: pixels, Stride: 4 * width, Rect: image.Rect(0, 0, width, height)}
		img = ebiten.NewImageFromImage(src)
	} else {
		img = ebiten.NewImage(width, height)
	}
	id := d.gen()
	d.textures[id] = &ebitenTexture{image: img}
	return id
}

func (d *EbitenDevice) DeleteTexture(id uint32) {
	if t, ok := d.textures[id]; ok {
		t.image.Deallocate()
		delete(d.textures, id)
	}
}

func (d *EbitenDevice) BindTexture(id uint32, wrap WrapMode) {
	d.texture = id
	d.wrap = wrap
}

// --- framebuffers ---

func (d *EbitenDevice) GenFramebuffer(texture uint32) (uint32, error) {
	if _, ok := d.textures[texture]; !ok {
		return 0, invalidArgument("framebuffer attachment %d is not a texture", texture)
	}
	id := d.gen()
	d.framebuffers[id] = texture
	return id, nil
}

func (d *EbitenDevice) DeleteFramebuffer(id uint32) { delete(d.framebuffers, id) }

func (d *EbitenDevice) BindFramebuffer(id uint32) { d.framebuffer = id }

// --- global state ---

func (d *EbitenDevice) Viewport(r Rect) { d.viewport = r }

func (d *EbitenDevice) ClearColor(c Color) { d.clearColor = c }

func (d *EbitenDevice) Clear() {
	if dst := d.target(); dst != nil {
		dst.Fill(d.clearColor.toRGBA())
	}
}

func (d *EbitenDevice) Projection(m mgl32.Mat4) { d.projection = m }

func (d *EbitenDevice) BlendFunc(b Blend) {
	eb, ok := b.EbitenBlend()
	if !ok && !d.warned[b] {
		d.warned[b] = true
		Logger().Warn("blend not supported by ebiten, using source-over",
			slog.String("blend", fmt.Sprintf("%#x/%#x/%#x", uint32(b.Op), uint32(b.Src), uint32(b.Dst))))
	}
	d.blend = eb
}

// --- programs ---

func (d *EbitenDevice) DefaultShaderSource() ShaderSource {
	return ShaderSource{Fragment: spriteKage}
}

func (d *EbitenDevice) CompileProgram(src ShaderSource) (uint32, error) {
	s, err := ebiten.NewShader([]byte(src.Fragment))
	if err != nil {
		return 0, &CompileError{Stage: "kage", Log: err.Error()}
	}
	id := d.gen()
	d.programs[id] = s
	return id, nil
}

func (d *EbitenDevice) DeleteProgram(id uint32) {
	if s, ok := d.programs[id]; ok {
		s.Deallocate()
		delete(d.programs, id)
	}
}

func (d *EbitenDevice) UseProgram(id uint32) { d.program = id }

func (d *EbitenDevice) UniformLocation(program uint32, name string) int32 {
	if _, ok := d.programs[program]; !ok {
		return -1
	}
	if loc, ok := ebitenUniformNames[name]; ok {
		return loc
	}
	return -1
}

func (d *EbitenDevice) UniformMatrix4(loc int32, m mgl32.Mat4) {
	if loc == ebitenUniformModel {
		d.model = m
	}
}

func (d *EbitenDevice) Uniform4(loc int32, v mgl32.Vec4) {
	var name string
	switch loc {
	case ebitenUniformColor:
		name = "Color"
	case ebitenUniformTone:
		name = "Tone"
	case ebitenUniformFlash:
		name = "Flash"
	default:
		return
	}
	d.uniforms[name] = []float32{v[0], v[1], v[2], v[3]}
}

func (d *EbitenDevice) Uniform1(loc int32, v float32) {
	switch loc {
	case ebitenUniformHue:
		d.uniforms["Hue"] = v
	case ebitenUniformOpacity:
		d.uniforms["Opacity"] = v
	}
}
