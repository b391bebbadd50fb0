// Package material implements the surface scattering models used by the
// integrator.
package material

import (
	"math"
	"math/rand"

	"github.com/TurboCartPig/pathtracer/types"
)

// A Material decides how an incoming ray scatters off a surface. Returning
// false means the ray was absorbed.
//
// Materials are shared between instances and read concurrently by all
// tracers; implementations must not mutate their state in Scatter.
type Material interface {
	Scatter(rayIn types.Ray, hit *Hit, rng *rand.Rand) (ScatterResult, bool)
}

// The outcome of a successful scatter event.
type ScatterResult struct {
	Scattered   types.Ray
	Attenuation types.Vec3
}

// A ray-surface intersection. Normal is the outward facing surface normal
// in world space.
type Hit struct {
	T        float32
	Point    types.Vec3
	Normal   types.Vec3
	Material Material
}

// Reflect v around normal n.
func Reflect(v, n types.Vec3) types.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// Refract v through a surface with normal n. The second return value is
// false when there is no solution (total internal reflection).
func Refract(v, n types.Vec3, niOverNt float32) (types.Vec3, bool) {
	uv := v.Normalize()
	dt := uv.Dot(n)
	discriminant := 1.0 - niOverNt*niOverNt*(1.0-dt*dt)
	if discriminant < 0 {
		return types.Vec3{}, false
	}

	return uv.Sub(n.Mul(dt)).Mul(niOverNt).Sub(n.Mul(float32(math.Sqrt(float64(discriminant))))), true
}

// Schlick's approximation of the Fresnel reflectance.
func Schlick(cosine, ior float32) float32 {
	r0 := (1 - ior) / (1 + ior)
	r0 = r0 * r0
	return r0 + (1-r0)*float32(math.Pow(float64(1-cosine), 5))
}

// Sample a random point inside the unit sphere.
func RandomInUnitSphere(rng *rand.Rand) types.Vec3 {
	for {
		p := types.XYZ(2*rng.Float32()-1, 2*rng.Float32()-1, 2*rng.Float32()-1)
		if p.LenSq() < 1.0 {
			return p
		}
	}
}

// Sample a random point inside the unit disk on the XY plane.
func RandomInUnitDisk(rng *rand.Rand) types.Vec3 {
	for {
		p := types.XYZ(2*rng.Float32()-1, 2*rng.Float32()-1, 0)
		if p.LenSq() < 1.0 {
			return p
		}
	}
}
