package material

import (
	"math/rand"

	"github.com/TurboCartPig/pathtracer/types"
)

// A perfectly diffuse surface.
type Lambertian struct {
	Albedo types.Vec3
}

func NewLambertian(albedo types.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter towards normal + a random point in the unit sphere. Lambertian
// surfaces never absorb.
func (l *Lambertian) Scatter(_ types.Ray, hit *Hit, rng *rand.Rand) (ScatterResult, bool) {
	dir := hit.Normal.Add(RandomInUnitSphere(rng))

	// The sample can cancel the normal out; fall back to the normal so the
	// scattered ray keeps a usable direction.
	if dir.LenSq() < 1e-12 {
		dir = hit.Normal
	}

	return ScatterResult{
		Scattered:   types.NewRay(hit.Point, dir),
		Attenuation: l.Albedo,
	}, true
}
