package material

import (
	"math/rand"

	"github.com/TurboCartPig/pathtracer/types"
)

// Attenuation applied by every dielectric scatter event.
var dielectricAttenuation = types.XYZ(0.9, 0.9, 0.9)

// A transparent surface (glass, water) that reflects or refracts.
type Dielectric struct {
	IOR float32
}

func NewDielectric(ior float32) *Dielectric {
	return &Dielectric{IOR: ior}
}

// Reflect with the Schlick probability or refract otherwise. Total internal
// reflection always reflects.
func (d *Dielectric) Scatter(rayIn types.Ray, hit *Hit, rng *rand.Rand) (ScatterResult, bool) {
	var (
		outwardNormal types.Vec3
		niOverNt      float32
		cosine        float32
	)

	dn := rayIn.Dir.Dot(hit.Normal)
	if dn > 0 {
		// Leaving the medium
		outwardNormal = hit.Normal.Neg()
		niOverNt = d.IOR
		cosine = d.IOR * dn / rayIn.Dir.Len()
	} else {
		outwardNormal = hit.Normal
		niOverNt = 1.0 / d.IOR
		cosine = -dn / rayIn.Dir.Len()
	}

	reflectProb := float32(1.0)
	refracted, ok := Refract(rayIn.Dir, outwardNormal, niOverNt)
	if ok {
		reflectProb = Schlick(cosine, d.IOR)
	}

	dir := refracted
	if rng.Float32() < reflectProb {
		dir = Reflect(rayIn.Dir, hit.Normal)
	}

	return ScatterResult{
		Scattered:   types.NewRay(hit.Point, dir),
		Attenuation: dielectricAttenuation,
	}, true
}
