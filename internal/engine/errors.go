package engine

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrSurfaceUnavailable indicates the host did not provide a drawing
	// surface. Rendering does not start and is not retried.
	ErrSurfaceUnavailable = errors.New("engine: drawing surface unavailable")

	// ErrClosed indicates a frame was requested after Close.
	ErrClosed = errors.New("engine: closed")
)

// FrameError wraps a drawing failure with the frame it happened on.
type FrameError struct {
	Frame   uint64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("engine: frame %d: %v", e.Frame, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
