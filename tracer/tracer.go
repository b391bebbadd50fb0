// Package tracer defines the contract between the renderer and the workers
// that trace blocks of the frame.
package tracer

import (
	"context"
	"time"
)

type UpdateType uint8

const (
	// Replace the geometry the tracer intersects rays with. The payload
	// is a scene.Primitive.
	UpdateWorld UpdateType = iota

	// Replace the camera. The payload is a *scene.Camera.
	UpdateCamera
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Cancels the block; tracers check it once per pixel.
	Context context.Context

	// Block start row (0 is the top row of the frame) and height.
	BlockY uint32
	BlockH uint32

	// The number of emitted rays per traced pixel.
	SamplesPerPixel uint32

	// A random seed value for the tracer's random number generator.
	Seed int64

	// Frame counter. Tracers reset their statistics whenever it changes.
	FrameCount uint32

	// A channel to signal on block completion.
	DoneChan chan<- BlockResult

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Sent by a tracer when it completes a block.
type BlockResult struct {
	TracerId string
	BlockY   uint32
	BlockH   uint32

	// Rays traced for this block.
	RayCount uint64
}

// Tracer statistics for the current frame.
type Stats struct {
	// Number of blocks and rows rendered.
	Blocks uint32
	BlockH uint32

	// Number of rays submitted to the scene.
	RayCount uint64

	// Time spent rendering blocks.
	RenderTime time.Duration

	// Time spent applying pending updates.
	UpdateTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Initialize the tracer for rendering into frameBuffer which holds
	// frameW * frameH RGB pixels.
	Init(frameW, frameH uint32, frameBuffer []uint8) error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Queue an update that is applied before the next block is rendered.
	// Later updates of the same type replace earlier ones.
	Update(UpdateType, interface{})

	// Retrieve current frame statistics. Only safe to call while the
	// tracer has no pending block requests.
	Stats() *Stats
}
