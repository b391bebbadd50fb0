package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/TurboCartPig/pathtracer/scene/material"
	"github.com/TurboCartPig/pathtracer/types"
)

func TestSphereIntersection(t *testing.T) {
	s := NewSphere(types.XYZ(0, 0, -1), 0.5)
	ray := types.NewRay(types.Vec3{}, types.XYZ(0, 0, -1))

	hit, ok := s.Intersection(ray, 0, math.MaxFloat32)
	if !ok {
		t.Fatal("expected ray to hit sphere")
	}
	if hit.T != 0.5 {
		t.Fatalf("expected t = 0.5; got %f", hit.T)
	}
	if hit.Normal != types.XYZ(0, 0, 1) {
		t.Fatalf("expected outward normal (0, 0, 1); got %v", hit.Normal)
	}

	// The near root is outside the interval so the far root is returned
	if hit, ok = s.Intersection(ray, 0.5, math.MaxFloat32); !ok || hit.T != 1.5 {
		t.Fatalf("expected far root t = 1.5; got %f (hit: %t)", hit.T, ok)
	}
	if hit.Normal != types.XYZ(0, 0, -1) {
		t.Fatalf("expected outward normal (0, 0, -1) at far root; got %v", hit.Normal)
	}

	// Interval bounds are exclusive
	if s.HasIntersection(ray, 0, 0.5) {
		t.Fatal("expected hit exactly at tMax to be rejected")
	}
	if s.HasIntersection(types.NewRay(types.Vec3{}, types.XYZ(0, 1, 0)), 0, math.MaxFloat32) {
		t.Fatal("expected ray pointing away to miss")
	}

	b, ok := s.Bounds()
	if !ok || b.Min != types.XYZ(-0.5, -0.5, -1.5) || b.Max != types.XYZ(0.5, 0.5, -0.5) {
		t.Fatalf("unexpected sphere bounds %v", b)
	}
}

func TestInstanceTranslateAndScale(t *testing.T) {
	mat := material.NewLambertian(types.Splat(0.5))
	xform := types.Translate(types.XYZ(0, 0, -5)).Scaled(types.Splat(2))
	inst := NewInstance(NewSphere(types.Vec3{}, 1), mat, xform)

	hit, ok := inst.Intersection(types.NewRay(types.Vec3{}, types.XYZ(0, 0, -1)), 0, math.MaxFloat32)
	if !ok {
		t.Fatal("expected ray to hit instance")
	}
	if math.Abs(float64(hit.T-3)) > 1e-5 {
		t.Fatalf("expected world-space t = 3; got %f", hit.T)
	}
	if !types.ApproxEqual(hit.Point, types.XYZ(0, 0, -3), 1e-5) {
		t.Fatalf("expected hit point (0, 0, -3); got %v", hit.Point)
	}
	if !types.ApproxEqual(hit.Normal, types.XYZ(0, 0, 1), 1e-5) {
		t.Fatalf("expected normal (0, 0, 1); got %v", hit.Normal)
	}
	if hit.Material != material.Material(mat) {
		t.Fatal("expected instance material to be attached to the hit")
	}

	b, ok := inst.Bounds()
	if !ok {
		t.Fatal("expected instance to be bounded")
	}
	if !types.ApproxEqual(b.Min, types.XYZ(-2, -2, -7), 1e-5) || !types.ApproxEqual(b.Max, types.XYZ(2, 2, -3), 1e-5) {
		t.Fatalf("unexpected instance bounds %v", b)
	}
}

func TestInstanceNonUniformScaleNormal(t *testing.T) {
	inst := NewInstance(
		NewSphere(types.Vec3{}, 1),
		material.NewLambertian(types.Splat(0.5)),
		types.IdentityTransform().Scaled(types.XYZ(2, 1, 1)),
	)

	// Ellipsoid x^2/4 + y^2 = 1 hit at x = 1 from above
	hit, ok := inst.Intersection(types.NewRay(types.XYZ(1, 5, 0), types.XYZ(0, -1, 0)), 0, math.MaxFloat32)
	if !ok {
		t.Fatal("expected ray to hit ellipsoid")
	}

	y := float32(math.Sqrt(0.75))
	if math.Abs(float64(hit.T-(5-y))) > 1e-4 {
		t.Fatalf("expected t = %f; got %f", 5-y, hit.T)
	}
	expNormal := types.XYZ(0.25, y, 0).Normalize()
	if !types.ApproxEqual(hit.Normal, expNormal, 1e-4) {
		t.Fatalf("expected normal %v; got %v", expNormal, hit.Normal)
	}
	if math.Abs(float64(hit.Normal.Len()-1)) > 1e-5 {
		t.Fatalf("expected unit normal; got length %f", hit.Normal.Len())
	}
}

func TestCameraRays(t *testing.T) {
	cam := NewCamera(types.Vec3{}, types.XYZ(0, 0, -1), types.XYZ(0, 1, 0), 90, 1, 0)
	rng := rand.New(rand.NewSource(1))

	specs := []struct {
		s, t float32
		dir  types.Vec3
	}{
		{0.5, 0.5, types.XYZ(0, 0, -1)},
		{0, 0, types.XYZ(-1, -1, -1)},
		{1, 1, types.XYZ(1, 1, -1)},
		{0, 1, types.XYZ(-1, 1, -1)},
	}

	for specIndex, spec := range specs {
		ray := cam.Ray(spec.s, spec.t, rng)
		if ray.Origin != (types.Vec3{}) {
			t.Errorf("[spec %d] expected pinhole ray origin at camera position; got %v", specIndex, ray.Origin)
		}
		if !types.ApproxEqual(ray.Dir, spec.dir, 1e-5) {
			t.Errorf("[spec %d] expected ray dir %v; got %v", specIndex, spec.dir, ray.Dir)
		}
	}
}

func TestCameraLensOffset(t *testing.T) {
	cam := NewCamera(types.Vec3{}, types.XYZ(0, 0, -2), types.XYZ(0, 1, 0), 60, 1.5, 0.5)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		ray := cam.Ray(0.5, 0.5, rng)
		if ray.Origin[2] != 0 || ray.Origin.Len() >= 0.25 {
			t.Fatalf("[iter %d] expected ray origin on the lens disk; got %v", i, ray.Origin)
		}

		// Every ray through the image center converges on the focal point
		p := ray.At(1)
		if !types.ApproxEqual(p, types.XYZ(0, 0, -2), 1e-5) {
			t.Fatalf("[iter %d] expected ray to pass through focal point; got %v", i, p)
		}
	}
}

func TestGenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	sc, err := Generate(RandomSceneName, 16.0/9.0, rng)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Camera == nil {
		t.Fatal("expected scene camera to be set")
	}
	// Ground + three big spheres + most of the 24x24 grid
	if len(sc.Instances) < 4+500 {
		t.Fatalf("expected at least 504 instances; got %d", len(sc.Instances))
	}
	for index, inst := range sc.Instances {
		if _, ok := inst.Bounds(); !ok {
			t.Fatalf("expected instance %d to be bounded", index)
		}
	}

	sc, err = Generate(SingleSceneName, 1, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Instances) != 2 {
		t.Fatalf("expected 2 instances; got %d", len(sc.Instances))
	}

	if _, err = Generate("cornell", 1, rng); err == nil {
		t.Fatal("expected an error for an unknown scene")
	}
}

func TestAddInstance(t *testing.T) {
	sc := NewScene()
	if _, err := sc.AddInstance(NewSphere(types.Vec3{}, 1), nil, types.IdentityTransform()); err == nil {
		t.Fatal("expected error when adding an instance without material")
	}
	if _, err := sc.AddInstance(nil, material.NewDielectric(1.5), types.IdentityTransform()); err == nil {
		t.Fatal("expected error when adding an instance without primitive")
	}
	if len(sc.Instances) != 0 {
		t.Fatalf("expected no instances; got %d", len(sc.Instances))
	}
}
