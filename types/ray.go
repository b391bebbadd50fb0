package types

// A ray with a precomputed inverse direction. The inverse direction is
// shared by every box test along the ray; zero direction components
// produce infinities that the slab test relies on.
type Ray struct {
	Origin Vec3
	Dir    Vec3
	InvDir Vec3
}

// Create a new ray.
func NewRay(origin, dir Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		InvDir: dir.Inv(),
	}
}

// Get the point at distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
