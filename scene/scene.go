package scene

import (
	"fmt"

	"github.com/TurboCartPig/pathtracer/scene/material"
	"github.com/TurboCartPig/pathtracer/types"
)

// A Scene holds the camera and the instances to render.
type Scene struct {
	Camera    *Camera
	Instances []*Instance
}

func NewScene() *Scene {
	return &Scene{
		Instances: make([]*Instance, 0),
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a primitive to the scene with the given material and transform.
func (s *Scene) AddInstance(prim Primitive, mat material.Material, xform types.Transform) (*Instance, error) {
	if prim == nil {
		return nil, fmt.Errorf("scene: no primitive specified")
	}
	if mat == nil {
		return nil, fmt.Errorf("scene: no material assigned to primitive")
	}

	inst := NewInstance(prim, mat, xform)
	s.Instances = append(s.Instances, inst)
	return inst, nil
}
