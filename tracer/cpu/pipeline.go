package cpu

import (
	"math"
	"math/rand"

	"github.com/TurboCartPig/pathtracer/scene"
	"github.com/TurboCartPig/pathtracer/types"
)

// Debug flags.
type DebugFlag uint16

const (
	Off                           DebugFlag = 0
	PrimaryRayIntersectionDepth   DebugFlag = 1 << iota
	PrimaryRayIntersectionNormals
)

// Estimates the radiance along a primary ray. The second return value is
// the number of rays submitted to world.
type Integrator func(ray types.Ray, world scene.Primitive, rng *rand.Rand) (types.Vec3, uint64)

// Maps an averaged pixel radiance to 8-bit RGB.
type Tonemapper func(types.Vec3) [3]uint8

// The pluggable stages used to render a block.
type Pipeline struct {
	// Traces each camera sample.
	Integrator Integrator

	// Converts the averaged samples of a pixel into frame buffer values.
	Tonemap Tonemapper
}

func DefaultPipeline(debugFlags DebugFlag, numBounces uint32, gamma float32) *Pipeline {
	pipeline := &Pipeline{
		Integrator: MonteCarloIntegrator(numBounces),
		Tonemap:    GammaCorrect(gamma),
	}

	switch {
	case debugFlags&PrimaryRayIntersectionNormals == PrimaryRayIntersectionNormals:
		pipeline.Integrator = DebugPrimaryRayIntersectionNormals()
	case debugFlags&PrimaryRayIntersectionDepth == PrimaryRayIntersectionDepth:
		pipeline.Integrator = DebugPrimaryRayIntersectionDepth()
	}

	return pipeline
}

// Use a montecarlo pathtracer implementation.
func MonteCarloIntegrator(numBounces uint32) Integrator {
	return func(ray types.Ray, world scene.Primitive, rng *rand.Rand) (types.Vec3, uint64) {
		return Trace(ray, 0, world, rng, numBounces)
	}
}

// Visualize the surface normals of the primary hits.
func DebugPrimaryRayIntersectionNormals() Integrator {
	return func(ray types.Ray, world scene.Primitive, _ *rand.Rand) (types.Vec3, uint64) {
		hit, ok := world.Intersection(ray, minRayDist, maxRayDist)
		if !ok {
			return types.Vec3{}, 1
		}
		return hit.Normal.Add(white).Mul(0.5), 1
	}
}

// Visualize the distance to the primary hits; closer surfaces are brighter.
func DebugPrimaryRayIntersectionDepth() Integrator {
	return func(ray types.Ray, world scene.Primitive, _ *rand.Rand) (types.Vec3, uint64) {
		hit, ok := world.Intersection(ray, minRayDist, maxRayDist)
		if !ok {
			return types.Vec3{}, 1
		}
		depth := hit.T * ray.Dir.Len()
		return types.Splat(1 / (1 + depth)), 1
	}
}

// Apply c^(1/gamma) to each channel and quantize to [0, 255].
func GammaCorrect(gamma float32) Tonemapper {
	invGamma := 1.0 / float64(gamma)
	return func(c types.Vec3) [3]uint8 {
		var out [3]uint8
		for i := 0; i < 3; i++ {
			out[i] = quantize(float32(math.Pow(float64(c[i]), invGamma)))
		}
		return out
	}
}

// Clamp c to [0, 1] and scale to a byte. NaN maps to 0.
func quantize(c float32) uint8 {
	if !(c > 0) {
		return 0
	}
	if c > 1 {
		c = 1
	}
	return uint8(c * 255.99)
}
