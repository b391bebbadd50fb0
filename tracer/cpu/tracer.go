// Package cpu implements a tracer that renders blocks on the host CPU.
package cpu

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/TurboCartPig/pathtracer/log"
	"github.com/TurboCartPig/pathtracer/scene"
	"github.com/TurboCartPig/pathtracer/tracer"
	"github.com/TurboCartPig/pathtracer/types"
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// Frame dims and the shared RGB frame buffer. Each block only writes
	// its own rows.
	frameW, frameH uint32
	frameBuffer    []uint8

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateBuffer map[tracer.UpdateType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for the current frame.
	stats     *tracer.Stats
	lastFrame uint32

	pipeline *Pipeline

	// The geometry and camera used for rendering.
	world  scene.Primitive
	camera *scene.Camera
}

// Create a new cpu tracer.
func NewTracer(id string, pipeline *Pipeline) (tracer.Tracer, error) {
	if pipeline == nil || pipeline.Integrator == nil || pipeline.Tonemap == nil {
		return nil, fmt.Errorf("cpu tracer: incomplete pipeline")
	}

	tr := &cpuTracer{
		logger: log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:     id,
		// At most one request is outstanding per tracer; the buffer
		// lets the renderer enqueue before the worker loops back.
		blockReqChan: make(chan tracer.BlockRequest, 1),
		updateBuffer: make(map[tracer.UpdateType]interface{}),
		stats:        &tracer.Stats{},
		pipeline:     pipeline,
	}

	return tr, nil
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Initialize tracer
func (tr *cpuTracer) Init(frameW, frameH uint32, frameBuffer []uint8) error {
	tr.Lock()
	defer tr.Unlock()

	if len(frameBuffer) != int(frameW*frameH*3) {
		return ErrFrameBufferSize
	}

	tr.frameW = frameW
	tr.frameH = frameH
	tr.frameBuffer = frameBuffer

	// Start worker
	if tr.closeChan == nil {
		tr.startWorker()
	}

	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	tr.cleanup()
}

// Cleanup tracer. This method is meant to be called while holding tr.Lock()
func (tr *cpuTracer) cleanup() {
	// If the worker is running shut it down
	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-tr.closeChan
		close(tr.closeChan)
		tr.closeChan = nil
		tr.wg.Wait()
	}

	tr.world = nil
	tr.camera = nil
	tr.frameBuffer = nil
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		// drop the request if worker is not listening
		tr.logger.Error("request processor did not receive block request")
		blockReq.ErrChan <- ErrRequestDropped
	}
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) Update(updateType tracer.UpdateType, data interface{}) {
	tr.Lock()
	defer tr.Unlock()

	tr.updateBuffer[updateType] = data
}

// Retrieve current frame statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Commit queued changes.
func (tr *cpuTracer) commitUpdates() error {
	tr.Lock()
	defer tr.Unlock()

	for updateType, data := range tr.updateBuffer {
		switch updateType {
		case tracer.UpdateWorld:
			world, ok := data.(scene.Primitive)
			if !ok || world == nil {
				return ErrUnsupportedValue
			}
			tr.world = world
		case tracer.UpdateCamera:
			camera, ok := data.(*scene.Camera)
			if !ok || camera == nil {
				return ErrUnsupportedValue
			}
			tr.camera = camera
		default:
			return fmt.Errorf("cpu tracer: unsupported update type %d", updateType)
		}
	}

	tr.updateBuffer = make(map[tracer.UpdateType]interface{})
	return nil
}

func (tr *cpuTracer) hasPendingUpdates() bool {
	tr.Lock()
	defer tr.Unlock()
	return len(tr.updateBuffer) != 0
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	// Worker already running
	if tr.closeChan != nil {
		return
	}

	tr.closeChan = make(chan struct{})
	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var startTime time.Time
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				if blockReq.FrameCount != tr.lastFrame {
					tr.lastFrame = blockReq.FrameCount
					*tr.stats = tracer.Stats{}
				}

				// Apply any pending changes
				if tr.hasPendingUpdates() {
					startTime = time.Now()
					err = tr.commitUpdates()
					if err != nil {
						blockReq.ErrChan <- err
						continue
					}
					tr.stats.UpdateTime += time.Since(startTime)
				}

				// Render block and reply with our completion status
				startTime = time.Now()
				rays, err := tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.Blocks++
				tr.stats.BlockH += blockReq.BlockH
				tr.stats.RayCount += rays
				tr.stats.RenderTime += time.Since(startTime)

				blockReq.DoneChan <- tracer.BlockResult{
					TracerId: tr.id,
					BlockY:   blockReq.BlockY,
					BlockH:   blockReq.BlockH,
					RayCount: rays,
				}
			case <-tr.closeChan:
				// Ack close
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block. Storage row r holds image plane row frameH-1-r so the top
// of the image is stored first.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) (uint64, error) {
	if tr.frameBuffer == nil {
		return 0, ErrNotInitialized
	}
	if tr.world == nil {
		return 0, ErrNoWorld
	}
	if tr.camera == nil {
		return 0, ErrNoCamera
	}
	if blockReq.BlockY+blockReq.BlockH > tr.frameH {
		return 0, ErrInvalidBlock
	}

	rng := rand.New(rand.NewSource(blockReq.Seed))
	spp := blockReq.SamplesPerPixel
	if spp == 0 {
		spp = 1
	}
	invSpp := 1.0 / float32(spp)
	fw, fh := float32(tr.frameW), float32(tr.frameH)

	var rays uint64
	for row := blockReq.BlockY; row < blockReq.BlockY+blockReq.BlockH; row++ {
		j := float32(tr.frameH - 1 - row)
		offset := row * tr.frameW * 3
		for i := uint32(0); i < tr.frameW; i++ {
			if blockReq.Context != nil {
				if err := blockReq.Context.Err(); err != nil {
					return rays, err
				}
			}

			var sum types.Vec3
			for s := uint32(0); s < spp; s++ {
				u := (float32(i) + rng.Float32()) / fw
				v := (j + rng.Float32()) / fh
				color, n := tr.pipeline.Integrator(tr.camera.Ray(u, v, rng), tr.world, rng)
				sum = sum.Add(color)
				rays += n
			}

			rgb := tr.pipeline.Tonemap(sum.Mul(invSpp))
			copy(tr.frameBuffer[offset+i*3:offset+i*3+3], rgb[:])
		}
	}

	return rays, nil
}
