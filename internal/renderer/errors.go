package renderer

import "fmt"

// RenderError reports a frame that could not be pushed to the backend.
type RenderError struct {
	// Frame is the sequence number of the failed frame, starting at 1.
	Frame uint64
	// Err is the backend's error.
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render frame %d: %v", e.Frame, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
