package aspen

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by aspen operations. Match them with
// errors.Is.
var (
	// ErrDisposedResource is returned when an operation touches a renderable,
	// texture, framebuffer or batch whose GPU resources were already released.
	ErrDisposedResource = errors.New("aspen: disposed resource")

	// ErrInvalidArgument is returned for malformed construction options,
	// zero-area rectangles, and geometry of the wrong size.
	ErrInvalidArgument = errors.New("aspen: invalid argument")

	// ErrInvalidHierarchy is returned when attaching a renderable would nest
	// viewports in a way the pipeline cannot render.
	ErrInvalidHierarchy = errors.New("aspen: invalid hierarchy")

	// ErrCompilationFailure is returned when a shader program fails to
	// compile or link. The concrete error is a *CompileError.
	ErrCompilationFailure = errors.New("aspen: shader compilation failure")
)

// CompileError carries the backend's compiler or linker log.
type CompileError struct {
	Stage string // "vertex", "fragment", "link" or "kage"
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("aspen: %s shader: %s", e.Stage, e.Log)
}

// Unwrap lets errors.Is(err, ErrCompilationFailure) match.
func (e *CompileError) Unwrap() error { return ErrCompilationFailure }

func disposedError(what string) error {
	return fmt.Errorf("%w: %s", ErrDisposedResource, what)
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func invalidHierarchy(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidHierarchy, fmt.Sprintf(format, args...))
}
