package bvh

import "github.com/TurboCartPig/pathtracer/types"

// A flattened BVH node. Interior nodes reference their children by index;
// leaves reference a range of the permuted geometry list.
type Node struct {
	Bounds types.AABB

	// Split axis of interior nodes.
	Axis types.Axis

	Left, Right uint32

	// Leaf geometry range; Count is zero for interior nodes.
	Offset, Count uint32
}

func (n *Node) IsLeaf() bool {
	return n.Count > 0
}

// Set the child node indices of an interior node.
func (n *Node) SetChildNodes(left, right uint32) {
	n.Left = left
	n.Right = right
}

// Append the subtree rooted at n to nodes in pre-order and return the index
// of n. Child indices are only known after both subtrees are written.
func flatten(n *buildNode, nodes *[]Node) uint32 {
	index := uint32(len(*nodes))
	*nodes = append(*nodes, Node{
		Bounds: n.bounds,
		Axis:   n.axis,
	})

	if n.left == nil {
		(*nodes)[index].Offset = uint32(n.offset)
		(*nodes)[index].Count = uint32(n.count)
		return index
	}

	left := flatten(n.left, nodes)
	right := flatten(n.right, nodes)
	(*nodes)[index].SetChildNodes(left, right)
	return index
}
