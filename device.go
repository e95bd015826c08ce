package aspen

import "github.com/go-gl/mathgl/mgl32"

// Vertex layout shared by every quad: four corners of {x, y, u, v}.
const (
	quadFloats  = 16
	quadIndices = 6
	floatStride = 4
)

// ShaderSource is backend-specific program source. OpenGL backends use both
// stages; the ebiten backend reads a Kage program from Fragment.
type ShaderSource struct {
	Vertex   string
	Fragment string
}

// Device is the GPU backend the scene graph draws through. Its shape follows
// OpenGL: integer handles, a bound framebuffer, a viewport rectangle, one
// projection matrix shared by every program, and blend state. Handle 0 is
// never a valid object; framebuffer 0 is the screen.
//
// Implementations: EbitenDevice in this package and glbackend.Device.
// Device methods are called only from the goroutine that owns the GPU
// context.
type Device interface {
	// Geometry.
	GenVertexArray() uint32
	DeleteVertexArray(id uint32)
	GenBuffer() uint32
	DeleteBuffer(id uint32)
	// SetupVertexArray uploads vertices (quadFloats values, {x,y,u,v} per
	// corner) and indices into vbo/ebo and records the layout in vao.
	SetupVertexArray(vao, vbo, ebo uint32, vertices []float32, indices []uint8)
	UpdateVertices(vbo uint32, vertices []float32)
	DrawElements(vao uint32, count int)

	// Textures. pixels is tightly packed non-premultiplied RGBA8 or nil for
	// a transparent texture.
	GenTexture(width, height int, pixels []byte) uint32
	DeleteTexture(id uint32)
	BindTexture(id uint32, wrap WrapMode)

	// Framebuffers. GenFramebuffer attaches texture as the color target.
	GenFramebuffer(texture uint32) (uint32, error)
	DeleteFramebuffer(id uint32)
	BindFramebuffer(id uint32)

	// Global state.
	Viewport(r Rect)
	ClearColor(c Color)
	Clear()
	Projection(m mgl32.Mat4)
	BlendFunc(b Blend)

	// Programs.
	DefaultShaderSource() ShaderSource
	CompileProgram(src ShaderSource) (uint32, error)
	DeleteProgram(id uint32)
	UseProgram(id uint32)
	UniformLocation(program uint32, name string) int32
	UniformMatrix4(loc int32, m mgl32.Mat4)
	Uniform4(loc int32, v mgl32.Vec4)
	Uniform1(loc int32, v float32)
}
