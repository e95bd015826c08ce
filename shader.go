package aspen

import (
	"errors"
	"fmt"
)

// Uniform names every sprite program must declare.
const (
	UniformModel   = "model"
	UniformColor   = "color"
	UniformTone    = "tone"
	UniformFlash   = "flash"
	UniformHue     = "hue"
	UniformOpacity = "opacity"
)

// Shader is a compiled program with the locations of the per-object
// uniform set cached.
type Shader struct {
	ctx     *Context
	program resource

	model   int32
	color   int32
	tone    int32
	flash   int32
	hue     int32
	opacity int32
}

// NewShader compiles src with the context's device. Compile and link
// failures are returned as *CompileError.
func NewShader(ctx *Context, src ShaderSource) (*Shader, error) {
	id, err := ctx.dev.CompileProgram(src)
	if err != nil {
		var ce *CompileError
		if !errors.As(err, &ce) {
			err = &CompileError{Stage: "link", Log: err.Error()}
		}
		return nil, err
	}
	if id == 0 {
		return nil, &CompileError{Stage: "link", Log: "backend returned no program"}
	}
	s := &Shader{ctx: ctx, program: newResource(id, ctx.dev.DeleteProgram)}
	s.model = s.Locate(UniformModel)
	s.color = s.Locate(UniformColor)
	s.tone = s.Locate(UniformTone)
	s.flash = s.Locate(UniformFlash)
	s.hue = s.Locate(UniformHue)
	s.opacity = s.Locate(UniformOpacity)
	return s, nil
}

// Program returns the backend program handle, or 0 once disposed.
func (s *Shader) Program() uint32 { return s.program.ID() }

// Locate returns a uniform's location, or -1 if the program has none.
func (s *Shader) Locate(name string) int32 {
	return s.ctx.dev.UniformLocation(s.program.ID(), name)
}

// Use binds the program.
func (s *Shader) Use() error {
	if s.program.Released() {
		return disposedError("shader")
	}
	s.ctx.dev.UseProgram(s.program.ID())
	return nil
}

// Disposed reports whether the program was deleted.
func (s *Shader) Disposed() bool { return s.program.Released() }

// Dispose deletes the program. Calling it again is a no-op.
func (s *Shader) Dispose() { s.program.Release() }

func (s *Shader) String() string {
	return fmt.Sprintf("Shader(%d)", s.program.ID())
}
