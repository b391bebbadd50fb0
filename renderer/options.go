package renderer

import (
	"fmt"

	"github.com/TurboCartPig/pathtracer/tracer/cpu"
)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of samples.
	SamplesPerPixel uint32

	// Max number of scatter events per path.
	NumBounces uint32

	// Display gamma.
	Gamma float32

	// Number of cpu tracers; 0 uses one tracer per CPU.
	NumTracers uint32

	// Rows per scheduled block; 0 lets the scheduler balance blocks
	// between tracers.
	BlockH uint32

	// Seed for the per-block random number generators. 0 draws a random
	// seed for every block.
	Seed int64

	// Render debug visualizations instead of radiance.
	Debug cpu.DebugFlag
}

// Get the default render options.
func DefaultOptions() Options {
	return Options{
		FrameW:          1280,
		FrameH:          720,
		SamplesPerPixel: 12,
		NumBounces:      8,
		Gamma:           2.2,
		BlockH:          1,
	}
}

// Check the options for values that cannot produce a frame.
func (opts Options) Validate() error {
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return fmt.Errorf("%w: frame dimensions must be non-zero; got %dx%d", ErrInvalidOptions, opts.FrameW, opts.FrameH)
	}
	if opts.SamplesPerPixel == 0 {
		return fmt.Errorf("%w: samples per pixel must be non-zero", ErrInvalidOptions)
	}
	if !(opts.Gamma > 0) {
		return fmt.Errorf("%w: gamma must be positive; got %f", ErrInvalidOptions, opts.Gamma)
	}
	if opts.BlockH > opts.FrameH {
		return fmt.Errorf("%w: block height %d exceeds frame height %d", ErrInvalidOptions, opts.BlockH, opts.FrameH)
	}
	return nil
}
