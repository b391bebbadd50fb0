// Package renderer drives a pool of tracers to produce a frame.
package renderer

import "context"

type Renderer interface {
	// Render frame. Cancelling ctx aborts the frame with ErrInterrupted.
	Render(ctx context.Context) error

	// Get the last rendered frame.
	Frame() *Frame

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
