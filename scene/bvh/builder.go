package bvh

import (
	"errors"
	"sort"
	"time"

	"github.com/TurboCartPig/pathtracer/log"
	"github.com/TurboCartPig/pathtracer/scene"
	"github.com/TurboCartPig/pathtracer/types"
)

const (
	// Number of buckets used for evaluating SAH split candidates.
	numBuckets = 12

	// Relative cost of visiting an interior node compared to intersecting
	// a single primitive.
	traversalCost float32 = 0.125

	// Windows larger than this are always split even if the SAH prefers
	// a leaf.
	maxLeafItems = 64
)

var (
	ErrEmptyGeometry     = errors.New("bvh: no geometry to partition")
	ErrUnboundedGeometry = errors.New("bvh: geometry without finite bounds cannot be partitioned")
)

// Build statistics.
type Stats struct {
	Items       int
	Nodes       int
	Leaves      int
	MaxDepth    int
	MaxLeafSize int
	BuildTime   time.Duration
}

// Per-item build data. Index refers to the position of the item in the
// builder input.
type geometryInfo struct {
	index    int
	bounds   types.AABB
	centroid types.Vec3
}

// An ephemeral tree node; leaves have a nil left child.
type buildNode struct {
	bounds      types.AABB
	axis        types.Axis
	left, right *buildNode

	// Range into the permutation list
	offset, count int
}

type bucket struct {
	count  int
	bounds types.AABB
}

type builder struct {
	logger log.Logger

	// Original item indices in leaf order.
	perm []int

	stats Stats
}

// Construct a BVH over a set of instances using the surface area
// heuristic. Build panics with ErrEmptyGeometry if no instances are
// specified and with ErrUnboundedGeometry if an instance reports no
// bounds.
func Build(instances []*scene.Instance) *BVH {
	if len(instances) == 0 {
		panic(ErrEmptyGeometry)
	}

	workList := make([]geometryInfo, len(instances))
	for index, inst := range instances {
		bounds, ok := inst.Bounds()
		if !ok {
			panic(ErrUnboundedGeometry)
		}
		workList[index] = geometryInfo{
			index:    index,
			bounds:   bounds,
			centroid: bounds.Centroid(),
		}
	}

	b := &builder{
		logger: log.New("bvh"),
		perm:   make([]int, 0, len(instances)),
		stats: Stats{
			Items: len(instances),
		},
	}

	start := time.Now()
	root := b.partition(workList, 0)

	nodes := make([]Node, 0, b.stats.Nodes)
	flatten(root, &nodes)

	geometry := make([]*scene.Instance, len(b.perm))
	for i, origIndex := range b.perm {
		geometry[i] = instances[origIndex]
	}

	b.stats.BuildTime = time.Since(start)
	b.logger.Debugf(
		"BVH tree build time: %d ms, items: %d, maxDepth: %d, nodes: %d, leafs: %d, maxLeafSize: %d",
		b.stats.BuildTime.Nanoseconds()/1e6,
		b.stats.Items, b.stats.MaxDepth, b.stats.Nodes, b.stats.Leaves, b.stats.MaxLeafSize,
	)

	return &BVH{
		nodes:    nodes,
		geometry: geometry,
		perm:     b.perm,
		stats:    b.stats,
	}
}

// Partition the window and return the subtree root. The window is
// reordered in place.
func (b *builder) partition(workList []geometryInfo, depth int) *buildNode {
	b.stats.Nodes++
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	node := &buildNode{bounds: types.EmptyAABB()}
	centroidBounds := types.EmptyAABB()
	for _, item := range workList {
		node.bounds = node.bounds.Union(item.bounds)
		centroidBounds = centroidBounds.PointUnion(item.centroid)
	}

	if len(workList) == 1 {
		return b.createLeaf(node, workList)
	}

	axis := node.bounds.MaxExtent()
	node.axis = axis

	// Centroids coincide along the split axis; buckets cannot separate them.
	if !(centroidBounds.Max[axis] > centroidBounds.Min[axis]) {
		if len(workList) <= maxLeafItems {
			return b.createLeaf(node, workList)
		}
		return b.split(node, workList, medianSplit(workList, axis), depth)
	}

	// Bin items by centroid
	var buckets [numBuckets]bucket
	for i := range buckets {
		buckets[i].bounds = types.EmptyAABB()
	}
	for _, item := range workList {
		bi := bucketIndex(item.centroid, centroidBounds, axis)
		buckets[bi].count++
		buckets[bi].bounds = buckets[bi].bounds.Union(item.bounds)
	}

	// Evaluate the cost of splitting after each bucket and pick the first
	// minimum.
	parentArea := node.bounds.SurfaceArea()
	bestSplit := -1
	var bestCost float32
	for splitAt := 0; splitAt < numBuckets-1; splitAt++ {
		left, right := types.EmptyAABB(), types.EmptyAABB()
		leftCount, rightCount := 0, 0
		for i := 0; i <= splitAt; i++ {
			left = left.Union(buckets[i].bounds)
			leftCount += buckets[i].count
		}
		for i := splitAt + 1; i < numBuckets; i++ {
			right = right.Union(buckets[i].bounds)
			rightCount += buckets[i].count
		}

		cost := traversalCost
		if parentArea > 0 {
			cost += (float32(leftCount)*left.SurfaceArea() + float32(rightCount)*right.SurfaceArea()) / parentArea
		} else {
			cost += float32(len(workList))
		}

		if bestSplit == -1 || cost < bestCost {
			bestSplit = splitAt
			bestCost = cost
		}
	}

	// Splitting must beat one leaf holding the whole window unless the
	// window is too large for a leaf.
	leafCost := float32(len(workList))
	if len(workList) <= maxLeafItems && !(bestCost < leafCost) {
		return b.createLeaf(node, workList)
	}

	// Partition in place by bucket assignment. The lowest centroid maps to
	// the first bucket and the highest to the last so neither side is
	// empty.
	mid := 0
	for i := range workList {
		if bucketIndex(workList[i].centroid, centroidBounds, axis) <= bestSplit {
			workList[i], workList[mid] = workList[mid], workList[i]
			mid++
		}
	}

	return b.split(node, workList, mid, depth)
}

// Recurse into both halves of a partitioned window.
func (b *builder) split(node *buildNode, workList []geometryInfo, mid, depth int) *buildNode {
	node.left = b.partition(workList[:mid], depth+1)
	node.right = b.partition(workList[mid:], depth+1)
	node.bounds = node.left.bounds.Union(node.right.bounds)
	return node
}

// Setup the given node as a leaf containing all items in the work list.
func (b *builder) createLeaf(node *buildNode, workList []geometryInfo) *buildNode {
	node.offset = len(b.perm)
	node.count = len(workList)
	for _, item := range workList {
		b.perm = append(b.perm, item.index)
	}

	b.stats.Leaves++
	if len(workList) > b.stats.MaxLeafSize {
		b.stats.MaxLeafSize = len(workList)
	}
	return node
}

// Map a centroid to one of the buckets spanning the centroid bounds.
func bucketIndex(centroid types.Vec3, centroidBounds types.AABB, axis types.Axis) int {
	extent := centroidBounds.Max[axis] - centroidBounds.Min[axis]
	bi := int(numBuckets * ((centroid[axis] - centroidBounds.Min[axis]) / extent))
	if bi >= numBuckets {
		bi = numBuckets - 1
	}
	if bi < 0 {
		bi = 0
	}
	return bi
}

// Sort the window by centroid along axis and return the split position.
func medianSplit(workList []geometryInfo, axis types.Axis) int {
	sort.Slice(workList, func(i, j int) bool {
		return workList[i].centroid[axis] < workList[j].centroid[axis]
	})
	return len(workList) / 2
}
