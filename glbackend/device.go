// Package glbackend implements aspen.Device with OpenGL 4.1 core.
//
// The caller owns the window and GL context (see examples/glfw); create the
// Device after the context is current and call every method from that
// goroutine.
package glbackend

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/phanxgames/aspen"
)

// projectionBinding is the uniform block binding shared by every program.
const projectionBinding = 0

// Device is an OpenGL implementation of aspen.Device. The projection matrix
// lives in a uniform buffer bound to every program at link time, so
// swapping it affects all programs at once.
type Device struct {
	ubo         uint32
	samplers    [2]uint32 // indexed by aspen.WrapMode
	framebuffer uint32
	screenW     int
	screenH     int
}

// New loads the GL function pointers and creates the shared projection
// buffer and samplers. width and height are the window's framebuffer size.
func New(width, height int) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glbackend: init: %w", err)
	}
	d := &Device{screenW: width, screenH: height}

	gl.GenBuffers(1, &d.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, d.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, 16*4, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, projectionBinding, d.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	gl.GenSamplers(2, &d.samplers[0])
	for i, wrap := range [2]int32{gl.CLAMP_TO_EDGE, gl.REPEAT} {
		s := d.samplers[i]
		gl.SamplerParameteri(s, gl.TEXTURE_WRAP_S, wrap)
		gl.SamplerParameteri(s, gl.TEXTURE_WRAP_T, wrap)
		gl.SamplerParameteri(s, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.SamplerParameteri(s, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	}

	gl.Enable(gl.BLEND)
	gl.Enable(gl.SCISSOR_TEST)
	gl.Disable(gl.DEPTH_TEST)

	aspen.Logger().Info("OpenGL backend",
		slog.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		slog.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return d, nil
}

// SetScreenSize records the window framebuffer size. Screen viewports are
// given top-left origin and flipped against this height.
func (d *Device) SetScreenSize(width, height int) {
	d.screenW, d.screenH = width, height
}

// Dispose deletes the projection buffer and samplers.
func (d *Device) Dispose() {
	gl.DeleteBuffers(1, &d.ubo)
	gl.DeleteSamplers(2, &d.samplers[0])
	d.ubo = 0
}

// --- geometry ---

func (d *Device) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (d *Device) DeleteVertexArray(id uint32) { gl.DeleteVertexArrays(1, &id) }

func (d *Device) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (d *Device) DeleteBuffer(id uint32) { gl.DeleteBuffers(1, &id) }

func (d *Device) SetupVertexArray(vao, vbo, ebo uint32, vertices []float32, indices []uint8) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices), gl.Ptr(indices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (d *Device) UpdateVertices(vbo uint32, vertices []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (d *Device) DrawElements(vao uint32, count int) {
	gl.BindVertexArray(vao)
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_BYTE, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

// --- textures ---

func (d *Device) GenTexture(width, height int, pixels []byte) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	var ptr unsafe.Pointer
	if pixels != nil {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

func (d *Device) DeleteTexture(id uint32) { gl.DeleteTextures(1, &id) }

func (d *Device) BindTexture(id uint32, wrap aspen.WrapMode) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.BindSampler(0, d.samplers[wrap&1])
}

// --- framebuffers ---

func (d *Device) GenFramebuffer(texture uint32) (uint32, error) {
	var id uint32
	gl.GenFramebuffers(1, &id)
	gl.BindFramebuffer(gl.FRAMEBUFFER, id)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, texture, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.framebuffer)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &id)
		return 0, fmt.Errorf("%w: framebuffer incomplete (status %#x)", aspen.ErrInvalidArgument, status)
	}
	return id, nil
}

func (d *Device) DeleteFramebuffer(id uint32) { gl.DeleteFramebuffers(1, &id) }

func (d *Device) BindFramebuffer(id uint32) {
	d.framebuffer = id
	gl.BindFramebuffer(gl.FRAMEBUFFER, id)
}

// --- global state ---

// Viewport sets both the viewport and the scissor box. Screen rectangles
// have a top-left origin; off-screen rectangles are in texture rows.
func (d *Device) Viewport(r aspen.Rect) {
	y := r.Y
	if d.framebuffer == 0 {
		y = d.screenH - r.Y - r.Height
	}
	gl.Viewport(int32(r.X), int32(y), int32(r.Width), int32(r.Height))
	gl.Scissor(int32(r.X), int32(y), int32(r.Width), int32(r.Height))
}

func (d *Device) ClearColor(c aspen.Color) {
	gl.ClearColor(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
}

func (d *Device) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT) }

func (d *Device) Projection(m mgl32.Mat4) {
	gl.BindBuffer(gl.UNIFORM_BUFFER, d.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, 16*4, gl.Ptr(&m[0]))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

func (d *Device) BlendFunc(b aspen.Blend) {
	gl.BlendEquation(uint32(b.Op))
	gl.BlendFunc(uint32(b.Src), uint32(b.Dst))
}

// --- programs ---

func (d *Device) DefaultShaderSource() aspen.ShaderSource {
	return aspen.ShaderSource{Vertex: spriteVertex, Fragment: spriteFragment}
}

// CompileProgram compiles and links src and binds its "ubo" block to the
// shared projection buffer. Failures are *aspen.CompileError with the
// driver's info log.
func (d *Device) CompileProgram(src aspen.ShaderSource) (uint32, error) {
	vs, err := compileShader(src.Vertex, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(src.Fragment, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, &aspen.CompileError{Stage: "link", Log: strings.TrimRight(log, "\x00")}
	}

	if idx := gl.GetUniformBlockIndex(program, gl.Str("ubo\x00")); idx != gl.INVALID_INDEX {
		gl.UniformBlockBinding(program, idx, projectionBinding)
	}
	gl.UseProgram(program)
	if loc := gl.GetUniformLocation(program, gl.Str("image\x00")); loc >= 0 {
		gl.Uniform1i(loc, 0)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32, stage string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &aspen.CompileError{Stage: stage, Log: strings.TrimRight(log, "\x00")}
	}
	return shader, nil
}

func (d *Device) DeleteProgram(id uint32) { gl.DeleteProgram(id) }

func (d *Device) UseProgram(id uint32) { gl.UseProgram(id) }

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (d *Device) Uniform4(loc int32, v mgl32.Vec4) {
	gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
}

func (d *Device) Uniform1(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

var _ aspen.Device = (*Device)(nil)
