package material

import (
	"math/rand"

	"github.com/TurboCartPig/pathtracer/types"
)

// A specular surface; Fuzz perturbs the mirror direction.
type Metal struct {
	Albedo types.Vec3
	Fuzz   float32
}

func NewMetal(albedo types.Vec3, fuzz float32) *Metal {
	return &Metal{Albedo: albedo, Fuzz: fuzz}
}

// Scatter around the mirror direction. Rays perturbed below the surface are
// absorbed.
func (m *Metal) Scatter(rayIn types.Ray, hit *Hit, rng *rand.Rand) (ScatterResult, bool) {
	reflected := Reflect(rayIn.Dir.Normalize(), hit.Normal)
	dir := reflected.Add(RandomInUnitSphere(rng).Mul(m.Fuzz))

	if dir.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   types.NewRay(hit.Point, dir),
		Attenuation: m.Albedo,
	}, true
}
