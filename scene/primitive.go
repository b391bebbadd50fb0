package scene

import (
	"math"

	"github.com/TurboCartPig/pathtracer/scene/material"
	"github.com/TurboCartPig/pathtracer/types"
)

// A Primitive is anything a ray can be intersected with. Implementations
// must be safe for concurrent use by multiple tracers.
type Primitive interface {
	// Find the closest intersection with t strictly inside (tMin, tMax).
	Intersection(ray types.Ray, tMin, tMax float32) (material.Hit, bool)

	// Report whether any intersection exists inside (tMin, tMax).
	HasIntersection(ray types.Ray, tMin, tMax float32) bool

	// Get the world-space bounds. Primitives without finite bounds return
	// false.
	Bounds() (types.AABB, bool)
}

// A sphere primitive.
type Sphere struct {
	Center types.Vec3
	Radius float32
}

// Create new sphere primitive.
func NewSphere(center types.Vec3, radius float32) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

func (s *Sphere) Intersection(ray types.Ray, tMin, tMax float32) (material.Hit, bool) {
	t, ok := s.nearestRoot(ray, tMin, tMax)
	if !ok {
		return material.Hit{}, false
	}

	p := ray.At(t)
	return material.Hit{
		T:      t,
		Point:  p,
		Normal: p.Sub(s.Center).Mul(1 / s.Radius),
	}, true
}

func (s *Sphere) HasIntersection(ray types.Ray, tMin, tMax float32) bool {
	_, ok := s.nearestRoot(ray, tMin, tMax)
	return ok
}

func (s *Sphere) Bounds() (types.AABB, bool) {
	r := types.Splat(float32(math.Abs(float64(s.Radius))))
	return types.NewAABB(s.Center.Sub(r), s.Center.Add(r)), true
}

// Solve the ray-sphere quadratic and return the smallest root inside the
// open interval.
func (s *Sphere) nearestRoot(ray types.Ray, tMin, tMax float32) (float32, bool) {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Dir.Dot(ray.Dir)
	b := oc.Dot(ray.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - a*c
	if discriminant <= 0 || a == 0 {
		return 0, false
	}

	sqrtD := float32(math.Sqrt(float64(discriminant)))
	if t := (-b - sqrtD) / a; t > tMin && t < tMax {
		return t, true
	}
	if t := (-b + sqrtD) / a; t > tMin && t < tMax {
		return t, true
	}
	return 0, false
}
