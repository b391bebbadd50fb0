package types

import "math"

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// An axis-aligned bounding box. AABB values are never mutated in place;
// Union and PointUnion return new boxes.
type AABB struct {
	Min Vec3
	Max Vec3
}

// Create a box from two corners.
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Get the empty box. It is the identity element for Union and PointUnion.
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Check whether the box contains no points.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Get the smallest box containing both b and other.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: MinVec3(b.Min, other.Min),
		Max: MaxVec3(b.Max, other.Max),
	}
}

// Grow the box so that it contains p.
func (b AABB) PointUnion(p Vec3) AABB {
	return AABB{
		Min: MinVec3(b.Min, p),
		Max: MaxVec3(b.Max, p),
	}
}

// Check whether p lies inside the box (boundary included).
func (b AABB) Contains(p Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Get the box center.
func (b AABB) Centroid() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get the axis with the largest extent. X wins ties with Y and Z; Y wins
// a tie with Z.
func (b AABB) MaxExtent() Axis {
	side := b.Max.Sub(b.Min)
	switch {
	case side[0] >= side[1] && side[0] >= side[2]:
		return XAxis
	case side[1] >= side[2]:
		return YAxis
	default:
		return ZAxis
	}
}

// Get the box surface area. The empty box has zero area.
func (b AABB) SurfaceArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	d := b.Max.Sub(b.Min)
	return 2.0 * (d[0]*d[1] + d[0]*d[2] + d[1]*d[2])
}

// Slab test against the ray's precomputed inverse direction.
//
// The per-axis entry/exit distances are ordered with a compare rather than a
// branch on the direction sign, so negative directions need no special
// casing. Axis-aligned rays produce infinite distances which compare
// normally; a ray lying exactly on a slab plane produces NaN (0 * Inf) which
// the folding comparisons below ignore.
func (b AABB) HasIntersection(ray Ray, tMin, tMax float32) bool {
	for axis := 0; axis < 3; axis++ {
		t1 := (b.Min[axis] - ray.Origin[axis]) * ray.InvDir[axis]
		t2 := (b.Max[axis] - ray.Origin[axis]) * ray.InvDir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
	}

	if tMin < 0 {
		tMin = 0
	}
	return tMax >= tMin
}
