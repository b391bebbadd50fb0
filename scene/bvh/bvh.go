// Package bvh implements a bounding volume hierarchy over scene instances.
package bvh

import (
	"github.com/TurboCartPig/pathtracer/scene"
	"github.com/TurboCartPig/pathtracer/scene/material"
	"github.com/TurboCartPig/pathtracer/types"
)

// Traversal stack depth that avoids heap allocation for typical trees.
const stackSize = 64

// An immutable, flattened BVH. It implements scene.Primitive and is safe
// for concurrent use.
type BVH struct {
	nodes []Node

	// Instances in leaf order.
	geometry []*scene.Instance

	// perm[i] is the builder input index of geometry[i].
	perm []int

	stats Stats
}

// Get the flattened nodes in pre-order. The returned slice must not be
// modified.
func (b *BVH) Nodes() []Node {
	return b.nodes
}

// Get the permutation mapping leaf order to input order.
func (b *BVH) Permutation() []int {
	return b.perm
}

// Get the build statistics.
func (b *BVH) Stats() Stats {
	return b.stats
}

func (b *BVH) Bounds() (types.AABB, bool) {
	return b.nodes[0].Bounds, true
}

// Find the closest hit inside (tMin, tMax). Children are visited
// nearest-first along the split axis and the upper bound shrinks to the
// closest hit found so far.
func (b *BVH) Intersection(ray types.Ray, tMin, tMax float32) (material.Hit, bool) {
	var (
		closest  material.Hit
		found    bool
		stackBuf [stackSize]uint32
	)

	stack := append(stackBuf[:0], 0)
	for len(stack) > 0 {
		node := &b.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		if !node.Bounds.HasIntersection(ray, tMin, tMax) {
			continue
		}

		if node.IsLeaf() {
			for _, inst := range b.geometry[node.Offset : node.Offset+node.Count] {
				if hit, ok := inst.Intersection(ray, tMin, tMax); ok {
					closest = hit
					found = true
					tMax = hit.T
				}
			}
			continue
		}

		// Push the far child first so the near one is popped next
		if ray.Dir[node.Axis] < 0 {
			stack = append(stack, node.Left, node.Right)
		} else {
			stack = append(stack, node.Right, node.Left)
		}
	}

	return closest, found
}

// Report whether any instance is hit inside (tMin, tMax).
func (b *BVH) HasIntersection(ray types.Ray, tMin, tMax float32) bool {
	var stackBuf [stackSize]uint32

	stack := append(stackBuf[:0], 0)
	for len(stack) > 0 {
		node := &b.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		if !node.Bounds.HasIntersection(ray, tMin, tMax) {
			continue
		}

		if node.IsLeaf() {
			for _, inst := range b.geometry[node.Offset : node.Offset+node.Count] {
				if inst.HasIntersection(ray, tMin, tMax) {
					return true
				}
			}
			continue
		}

		stack = append(stack, node.Left, node.Right)
	}

	return false
}
