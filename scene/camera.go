package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/TurboCartPig/pathtracer/scene/material"
	"github.com/TurboCartPig/pathtracer/types"
)

// The camera type generates primary rays using a thin lens model. The focal
// plane passes through LookAt.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Vertical field of view in degrees
	FOV float32

	// Lens diameter; zero gives a pinhole camera
	Aperture float32

	lensRadius float32
	lowerLeft  types.Vec3
	horizontal types.Vec3
	vertical   types.Vec3
	u, v, w    types.Vec3
}

func NewCamera(position, lookAt, up types.Vec3, fov, aspect, aperture float32) *Camera {
	c := &Camera{
		Position: position,
		LookAt:   lookAt,
		Up:       up,
		FOV:      fov,
		Aperture: aperture,
	}
	c.SetupProjection(aspect)
	return c
}

// Recalculate the image plane for the given aspect ratio.
func (c *Camera) SetupProjection(aspect float32) {
	focusDist := c.Position.Sub(c.LookAt).Len()
	theta := float64(c.FOV) * math.Pi / 180
	halfHeight := float32(math.Tan(theta / 2))
	halfWidth := aspect * halfHeight

	c.lensRadius = c.Aperture / 2
	c.w = c.Position.Sub(c.LookAt).Normalize()
	c.u = c.Up.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	c.lowerLeft = c.Position.
		Sub(c.u.Mul(halfWidth * focusDist)).
		Sub(c.v.Mul(halfHeight * focusDist)).
		Sub(c.w.Mul(focusDist))
	c.horizontal = c.u.Mul(2 * halfWidth * focusDist)
	c.vertical = c.v.Mul(2 * halfHeight * focusDist)
}

// Generate a ray through normalized image coordinates (s, t) where (0, 0)
// is the bottom-left corner of the image plane.
func (c *Camera) Ray(s, t float32, rng *rand.Rand) types.Ray {
	var offset types.Vec3
	if c.lensRadius > 0 {
		rd := material.RandomInUnitDisk(rng).Mul(c.lensRadius)
		offset = c.u.Mul(rd[0]).Add(c.v.Mul(rd[1]))
	}

	origin := c.Position.Add(offset)
	dir := c.lowerLeft.
		Add(c.horizontal.Mul(s)).
		Add(c.vertical.Mul(t)).
		Sub(origin)
	return types.NewRay(origin, dir)
}

func (c *Camera) String() string {
	return fmt.Sprintf(
		"Camera: pos (%3.3f, %3.3f, %3.3f) lookAt (%3.3f, %3.3f, %3.3f) fov %3.1f aperture %3.3f",
		c.Position[0], c.Position[1], c.Position[2],
		c.LookAt[0], c.LookAt[1], c.LookAt[2],
		c.FOV, c.Aperture,
	)
}
