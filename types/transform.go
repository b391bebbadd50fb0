package types

import "github.com/go-gl/mathgl/mgl32"

// An affine transform composed as translation * rotation * scale. The zero
// value is the identity transform: a zero scale is treated as unit scale and
// a zero quaternion as no rotation.
type Transform struct {
	Translation Vec3
	Rotation    mgl32.Quat
	Scale       Vec3
}

// Get the identity transform.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    Splat(1),
	}
}

// Create a transform that only translates.
func Translate(offset Vec3) Transform {
	t := IdentityTransform()
	t.Translation = offset
	return t
}

// Rotate by angle radians around axis.
func (t Transform) Rotate(angle float32, axis Vec3) Transform {
	t.Rotation = mgl32.QuatRotate(angle, mgl32.Vec3(axis).Normalize()).Mul(t.rotation())
	return t
}

// Replace the scale factors.
func (t Transform) Scaled(scale Vec3) Transform {
	t.Scale = scale
	return t
}

func (t Transform) rotation() mgl32.Quat {
	if t.Rotation.W == 0 && t.Rotation.V == (mgl32.Vec3{}) {
		return mgl32.QuatIdent()
	}
	return t.Rotation.Normalize()
}

func (t Transform) scale() Vec3 {
	if t.Scale == (Vec3{}) {
		return Splat(1)
	}
	return t.Scale
}

// Get the object-to-world matrix.
func (t Transform) Matrix() mgl32.Mat4 {
	s := t.scale()
	return mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2]).
		Mul4(t.rotation().Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// Precompute the matrices needed for moving rays and hits between object
// and world space.
func (t Transform) Compile() Affine {
	m := t.Matrix()
	inv := m.Inv()
	return Affine{
		toWorld:   m,
		toLocal:   inv,
		normalMat: inv.Mat3().Transpose(),
	}
}

// A compiled affine transform.
type Affine struct {
	toWorld   mgl32.Mat4
	toLocal   mgl32.Mat4
	normalMat mgl32.Mat3
}

// Move a world-space ray into object space. The direction is not
// renormalized so distances along the ray are identical in both spaces.
func (a Affine) RayToLocal(ray Ray) Ray {
	origin := mgl32.TransformCoordinate(mgl32.Vec3(ray.Origin), a.toLocal)
	dir := mgl32.TransformNormal(mgl32.Vec3(ray.Dir), a.toLocal)
	return NewRay(Vec3(origin), Vec3(dir))
}

// Move an object-space point into world space.
func (a Affine) PointToWorld(p Vec3) Vec3 {
	return Vec3(mgl32.TransformCoordinate(mgl32.Vec3(p), a.toWorld))
}

// Move an object-space normal into world space using the inverse-transpose
// of the linear part. The result is normalized.
func (a Affine) NormalToWorld(n Vec3) Vec3 {
	return Vec3(a.normalMat.Mul3x1(mgl32.Vec3(n))).Normalize()
}

// Get the world-space box enclosing the transformed corners of an
// object-space box.
func (a Affine) BoundsToWorld(b AABB) AABB {
	if b.IsEmpty() {
		return b
	}

	out := EmptyAABB()
	for corner := 0; corner < 8; corner++ {
		p := b.Min
		if corner&1 != 0 {
			p[0] = b.Max[0]
		}
		if corner&2 != 0 {
			p[1] = b.Max[1]
		}
		if corner&4 != 0 {
			p[2] = b.Max[2]
		}
		out = out.PointUnion(a.PointToWorld(p))
	}
	return out
}
