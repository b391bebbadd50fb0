package scene

import (
	"github.com/TurboCartPig/pathtracer/scene/material"
	"github.com/TurboCartPig/pathtracer/types"
)

// An Instance places a primitive in the world with a transform and assigns
// it a material. Instances may share primitives and materials.
type Instance struct {
	Primitive Primitive
	Material  material.Material
	Transform types.Transform

	affine types.Affine
}

// Create a new instance. The transform is compiled once here; changing
// Transform afterwards has no effect.
func NewInstance(prim Primitive, mat material.Material, xform types.Transform) *Instance {
	return &Instance{
		Primitive: prim,
		Material:  mat,
		Transform: xform,
		affine:    xform.Compile(),
	}
}

// Intersect in object space and move the hit back into world space. t is
// the same in both spaces because the local ray direction is not
// renormalized.
func (in *Instance) Intersection(ray types.Ray, tMin, tMax float32) (material.Hit, bool) {
	hit, ok := in.Primitive.Intersection(in.affine.RayToLocal(ray), tMin, tMax)
	if !ok {
		return hit, false
	}

	hit.Point = in.affine.PointToWorld(hit.Point)
	hit.Normal = in.affine.NormalToWorld(hit.Normal)
	hit.Material = in.Material
	return hit, true
}

func (in *Instance) HasIntersection(ray types.Ray, tMin, tMax float32) bool {
	return in.Primitive.HasIntersection(in.affine.RayToLocal(ray), tMin, tMax)
}

func (in *Instance) Bounds() (types.AABB, bool) {
	b, ok := in.Primitive.Bounds()
	if !ok {
		return b, false
	}
	return in.affine.BoundsToWorld(b), true
}
