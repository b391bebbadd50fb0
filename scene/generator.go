package scene

import (
	"fmt"
	"math/rand"

	"github.com/TurboCartPig/pathtracer/scene/material"
	"github.com/TurboCartPig/pathtracer/types"
)

// Names of the built-in scenes.
const (
	RandomSceneName = "random"
	SingleSceneName = "single"
)

// Generate one of the built-in scenes by name.
func Generate(name string, aspect float32, rng *rand.Rand) (*Scene, error) {
	switch name {
	case RandomSceneName:
		return RandomScene(aspect, rng), nil
	case SingleSceneName:
		return SingleSphereScene(aspect), nil
	default:
		return nil, fmt.Errorf("scene: unknown scene %q", name)
	}
}

// A large grid of small randomly placed spheres with random materials
// surrounding three big spheres, on top of a huge ground sphere.
func RandomScene(aspect float32, rng *rand.Rand) *Scene {
	sc := NewScene()
	sc.SetCamera(NewCamera(
		types.XYZ(13, 2, 3),
		types.XYZ(4, 1, 0),
		types.XYZ(0, 1, 0),
		20,
		aspect,
		0.1,
	))

	ident := types.IdentityTransform()

	// Ground
	sc.AddInstance(NewSphere(types.XYZ(0, -1000, 0), 1000), material.NewLambertian(types.Splat(0.5)), ident)

	// All small spheres share the same primitive and are moved into place
	// by their instance transform.
	small := NewSphere(types.Vec3{}, 0.2)
	for a := -12; a < 12; a++ {
		for b := -12; b < 12; b++ {
			choice := rng.Float32()
			center := types.XYZ(float32(a)+0.9*rng.Float32(), 0.2, float32(b)+0.9*rng.Float32())
			if center.Sub(types.XYZ(4, 0.2, 0)).Len() <= 0.9 {
				continue
			}

			color := types.XYZ(
				rng.Float32()*rng.Float32(),
				rng.Float32()*rng.Float32(),
				rng.Float32()*rng.Float32(),
			)

			var mat material.Material
			switch {
			case choice < 0.5:
				mat = material.NewLambertian(color)
			case choice < 0.75:
				mat = material.NewMetal(color, rng.Float32())
			default:
				mat = material.NewDielectric(1.5)
			}
			sc.AddInstance(small, mat, types.Translate(center))
		}
	}

	sc.AddInstance(NewSphere(types.XYZ(-4, 1, 0), 1), material.NewLambertian(types.XYZ(0.6, 0.2, 0.9)), ident)
	sc.AddInstance(NewSphere(types.XYZ(0, 1, 0), 1), material.NewDielectric(1.5), ident)
	sc.AddInstance(NewSphere(types.XYZ(4, 1, 0), 1), material.NewMetal(types.XYZ(0.7, 0.6, 0.5), 0), ident)

	return sc
}

// A single diffuse sphere in front of the camera resting on a ground
// sphere.
func SingleSphereScene(aspect float32) *Scene {
	sc := NewScene()
	sc.SetCamera(NewCamera(
		types.Vec3{},
		types.XYZ(0, 0, -1),
		types.XYZ(0, 1, 0),
		90,
		aspect,
		0,
	))

	ident := types.IdentityTransform()
	sc.AddInstance(NewSphere(types.XYZ(0, 0, -1), 0.5), material.NewLambertian(types.XYZ(0.7, 0.3, 0.3)), ident)
	sc.AddInstance(NewSphere(types.XYZ(0, -100.5, -1), 100), material.NewLambertian(types.XYZ(0.8, 0.8, 0)), ident)
	return sc
}
