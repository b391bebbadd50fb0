package cpu

import (
	"math/rand"

	"github.com/TurboCartPig/pathtracer/scene"
	"github.com/TurboCartPig/pathtracer/types"
)

const (
	// Minimum hit distance; avoids self-intersection of scattered rays.
	minRayDist float32 = 0.0001

	maxRayDist float32 = 10000000
)

var (
	white   = types.XYZ(1, 1, 1)
	skyBlue = types.XYZ(0.5, 0.7, 1.0)
)

// Get the sky color seen along dir: a vertical white to blue gradient.
func Background(dir types.Vec3) types.Vec3 {
	t := 0.5 * (dir.Normalize()[1] + 1.0)
	return white.Mul(1 - t).Add(skyBlue.Mul(t))
}

// Estimate the radiance arriving along ray. The path is followed until it
// escapes to the background, is absorbed, or hits a surface after
// maxBounces scatter events; the latter two contribute black.
//
// The second return value is the number of rays submitted to world.
func Trace(ray types.Ray, bounce uint32, world scene.Primitive, rng *rand.Rand, maxBounces uint32) (types.Vec3, uint64) {
	var rays uint64
	attenuation := white

	for {
		rays++
		hit, ok := world.Intersection(ray, minRayDist, maxRayDist)
		if !ok {
			return attenuation.MulVec(Background(ray.Dir)), rays
		}

		if bounce >= maxBounces {
			return types.Vec3{}, rays
		}

		scattered, ok := hit.Material.Scatter(ray, &hit, rng)
		if !ok {
			return types.Vec3{}, rays
		}

		attenuation = attenuation.MulVec(scattered.Attenuation)
		ray = scattered.Scattered
		bounce++
	}
}
