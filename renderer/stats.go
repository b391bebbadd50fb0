package renderer

import "time"

type TracerStat struct {
	// The tracer id.
	Id string

	// The number of blocks and rows rendered and the percentage of total
	// frame area they represent.
	Blocks       uint32
	BlockH       uint32
	FramePercent float32

	// Number of rays traced.
	RayCount uint64

	// Render time for assigned blocks
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Total number of rays traced by all tracers.
	RayCount uint64

	// Total render time for entire frame.
	RenderTime time.Duration
}

// Get the frame throughput in rays per second.
func (fs FrameStats) RaysPerSecond() float64 {
	if fs.RenderTime <= 0 {
		return 0
	}
	return float64(fs.RayCount) / fs.RenderTime.Seconds()
}
