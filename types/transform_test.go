package types

import (
	"math"
	"testing"
)

func TestZeroTransformIsIdentity(t *testing.T) {
	a := Transform{}.Compile()
	p := XYZ(1, -2, 3)

	if got := a.PointToWorld(p); !ApproxEqual(got, p, 1e-6) {
		t.Fatalf("expected zero transform to keep point %v; got %v", p, got)
	}

	ray := NewRay(XYZ(0, 1, 2), XYZ(0, 0, -1))
	local := a.RayToLocal(ray)
	if !ApproxEqual(local.Origin, ray.Origin, 1e-6) || !ApproxEqual(local.Dir, ray.Dir, 1e-6) {
		t.Fatalf("expected zero transform to keep ray %v; got %v", ray, local)
	}
}

func TestRayRoundTrip(t *testing.T) {
	tr := Translate(XYZ(1, 2, 3)).
		Rotate(float32(math.Pi/3), XYZ(0, 1, 1)).
		Scaled(XYZ(2, 0.5, 3))
	a := tr.Compile()

	ray := NewRay(XYZ(4, -1, 2), XYZ(-1, 0.5, 0.25))
	local := a.RayToLocal(ray)

	// Points along the ray must map to the same distances in both spaces.
	for _, dist := range []float32{0, 0.5, 1, 7.25} {
		world := ray.At(dist)
		back := a.PointToWorld(local.At(dist))
		if !ApproxEqual(world, back, 1e-4) {
			t.Fatalf("expected local point at t=%f to map back to %v; got %v", dist, world, back)
		}
	}
}

func TestNormalUnderNonUniformScale(t *testing.T) {
	// A plane x + y = 0 has normal (1, 1, 0)/sqrt2. Scaling x by 2 gives the
	// plane x/2 + y = 0 whose normal is (1, 2, 0) normalized.
	a := IdentityTransform().Scaled(XYZ(2, 1, 1)).Compile()

	n := XYZ(1, 1, 0).Normalize()
	got := a.NormalToWorld(n)
	exp := XYZ(1, 2, 0).Normalize()
	if !ApproxEqual(got, exp, 1e-5) {
		t.Fatalf("expected transformed normal %v; got %v", exp, got)
	}
}

func TestBoundsToWorld(t *testing.T) {
	a := Translate(XYZ(10, 0, 0)).Scaled(XYZ(1, 2, 3)).Compile()
	box := NewAABB(XYZ(-1, -1, -1), XYZ(1, 1, 1))

	got := a.BoundsToWorld(box)
	exp := NewAABB(XYZ(9, -2, -3), XYZ(11, 2, 3))
	if !ApproxEqual(got.Min, exp.Min, 1e-5) || !ApproxEqual(got.Max, exp.Max, 1e-5) {
		t.Fatalf("expected world bounds %v; got %v", exp, got)
	}

	// A 45 degree rotation around Z grows the XY extent to sqrt(2).
	rot := IdentityTransform().Rotate(float32(math.Pi/4), XYZ(0, 0, 1)).Compile()
	got = rot.BoundsToWorld(box)
	s := float32(math.Sqrt2)
	if !ApproxEqual(got.Max, XYZ(s, s, 1), 1e-5) {
		t.Fatalf("expected rotated bounds max %v; got %v", XYZ(s, s, 1), got.Max)
	}
}
