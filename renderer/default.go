package renderer

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/TurboCartPig/pathtracer/log"
	"github.com/TurboCartPig/pathtracer/scene"
	"github.com/TurboCartPig/pathtracer/scene/bvh"
	"github.com/TurboCartPig/pathtracer/tracer"
	"github.com/TurboCartPig/pathtracer/tracer/cpu"
)

// A renderer that splits each frame into blocks and hands them out to a
// pool of cpu tracers as they become idle.
type defaultRenderer struct {
	logger log.Logger

	// Render options.
	options Options

	// The block scheduler.
	scheduler tracer.BlockScheduler

	// The list of attached tracers, indexed by id.
	tracers     []tracer.Tracer
	tracerIndex map[string]int

	// Stages applied to each completed frame.
	postProcess []PostProcessStage

	// The rendered frame.
	frame      *Frame
	frameCount uint32

	// Render statistics
	stats FrameStats
}

// Create a new renderer for the scene. The scene instances are compiled
// into a BVH shared by all tracers. If scheduler is nil, blocks of
// opts.BlockH rows are used. If pipeline is nil, the default monte carlo
// pipeline is used.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, pipeline *cpu.Pipeline, opts Options, postProcess ...PostProcessStage) (Renderer, error) {
	if sc == nil || len(sc.Instances) == 0 {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	numTracers := opts.NumTracers
	if numTracers == 0 {
		numTracers = uint32(runtime.NumCPU())
	}
	if scheduler == nil {
		if opts.BlockH == 0 {
			scheduler = tracer.NewBalancedScheduler(numTracers, 4)
		} else {
			scheduler = tracer.NewFixedScheduler(opts.BlockH)
		}
	}
	if pipeline == nil {
		pipeline = cpu.DefaultPipeline(opts.Debug, opts.NumBounces, opts.Gamma)
	}

	r := &defaultRenderer{
		logger:      log.New("renderer"),
		options:     opts,
		scheduler:   scheduler,
		tracers:     make([]tracer.Tracer, 0, numTracers),
		tracerIndex: make(map[string]int),
		postProcess: postProcess,
		frame:       NewFrame(opts.FrameW, opts.FrameH),
	}

	world := bvh.Build(sc.Instances)
	bvhStats := world.Stats()
	r.logger.Infof("compiled %d instances into a BVH with %d nodes in %s", bvhStats.Items, bvhStats.Nodes, bvhStats.BuildTime)

	sc.Camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	for i := uint32(0); i < numTracers; i++ {
		tr, err := cpu.NewTracer(fmt.Sprintf("cpu-%d", i), pipeline)
		if err != nil {
			r.Close()
			return nil, err
		}
		if err = tr.Init(opts.FrameW, opts.FrameH, r.frame.Pix); err != nil {
			tr.Close()
			r.Close()
			return nil, err
		}

		tr.Update(tracer.UpdateWorld, world)
		tr.Update(tracer.UpdateCamera, sc.Camera)

		r.tracerIndex[tr.Id()] = len(r.tracers)
		r.tracers = append(r.tracers, tr)
	}

	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	r.logger.Noticef("using %d cpu tracer(s)", len(r.tracers))
	return r, nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
	r.tracerIndex = nil
}

// Get the last rendered frame.
func (r *defaultRenderer) Frame() *Frame {
	return r.frame
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Render frame and run the post-process stages.
func (r *defaultRenderer) Render(ctx context.Context) error {
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	err := r.renderFrame(ctx)
	if err != nil {
		return err
	}

	for _, stage := range r.postProcess {
		if err = stage(ctx, r.frame); err != nil {
			return err
		}
	}

	return nil
}

// Dispatch all frame blocks. Every tracer is primed with one block and
// receives the next pending block whenever it reports completion.
func (r *defaultRenderer) renderFrame(ctx context.Context) error {
	start := time.Now()
	r.frameCount++

	blocks := r.scheduler.Schedule(r.options.FrameH)
	doneChan := make(chan tracer.BlockResult, len(r.tracers))
	errChan := make(chan error, len(r.tracers)+1)

	var (
		nextBlock int
		pending   int
		firstErr  error
		assigned  = make([]uint32, len(r.tracers))
	)

	enqueue := func(trIndex int) error {
		seed, err := r.blockSeed(nextBlock)
		if err != nil {
			return err
		}

		block := blocks[nextBlock]
		nextBlock++
		pending++
		assigned[trIndex]++
		r.tracers[trIndex].Enqueue(tracer.BlockRequest{
			Context:         ctx,
			BlockY:          block.Y,
			BlockH:          block.H,
			SamplesPerPixel: r.options.SamplesPerPixel,
			Seed:            seed,
			FrameCount:      r.frameCount,
			DoneChan:        doneChan,
			ErrChan:         errChan,
		})
		return nil
	}

	for trIndex := range r.tracers {
		if nextBlock == len(blocks) {
			break
		}
		if firstErr = enqueue(trIndex); firstErr != nil {
			break
		}
	}

	for ; pending > 0; pending-- {
		select {
		case res := <-doneChan:
			if firstErr != nil || nextBlock == len(blocks) {
				continue
			}
			firstErr = enqueue(r.tracerIndex[res.TracerId])
		case err := <-errChan:
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		if ctx.Err() != nil || errors.Is(firstErr, context.Canceled) || errors.Is(firstErr, context.DeadlineExceeded) {
			r.logger.Warningf("frame %d interrupted", r.frameCount)
			return ErrInterrupted
		}
		return firstErr
	}

	r.collectStats(assigned, time.Since(start))
	r.logger.Infof(
		"frame %d: %d blocks, %d rays in %s (%.2f Mrays/s)",
		r.frameCount, len(blocks), r.stats.RayCount, r.stats.RenderTime, r.stats.RaysPerSecond()/1e6,
	)
	return nil
}

// Get the random seed for a block. Seeded renders derive block seeds from
// the block index so the output does not depend on the tracer count.
func (r *defaultRenderer) blockSeed(blockIndex int) (int64, error) {
	if r.options.Seed != 0 {
		return r.options.Seed + int64(blockIndex), nil
	}

	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

// Sum the per-tracer partial statistics. Only called after all blocks
// have been acknowledged.
func (r *defaultRenderer) collectStats(assigned []uint32, renderTime time.Duration) {
	r.stats = FrameStats{
		Tracers:    make([]TracerStat, len(r.tracers)),
		RenderTime: renderTime,
	}

	for index, tr := range r.tracers {
		stat := TracerStat{Id: tr.Id()}

		// Tracers that received no blocks this frame still hold the
		// previous frame's numbers.
		if assigned[index] != 0 {
			stats := tr.Stats()
			stat.Blocks = stats.Blocks
			stat.BlockH = stats.BlockH
			stat.FramePercent = 100 * float32(stats.BlockH) / float32(r.options.FrameH)
			stat.RayCount = stats.RayCount
			stat.RenderTime = stats.RenderTime
		}

		r.stats.Tracers[index] = stat
		r.stats.RayCount += stat.RayCount
	}
}
