package geometry

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// SplitMethod selects how the BVH builder partitions primitives
type SplitMethod int

const (
	// SplitMidpoint splits the centroid-sorted primitives in half
	SplitMidpoint SplitMethod = iota
	// SplitSAH picks the cheapest of a fixed set of candidates under the surface area heuristic
	SplitSAH
)

const (
	// Number of evenly spaced split candidates evaluated by the SAH builder
	sahCandidates = 20
	// Cost of traversing one internal node relative to one primitive test
	sahTraversalCost = 0.25
	sahIntersectCost = 1.0

	maxLeafSizeLimit = 255

	// Relative size below which centroid bounds count as collapsed
	degenerateEpsilon = 1e-9
)

// String returns the name accepted by ParseSplitMethod
func (m SplitMethod) String() string {
	switch m {
	case SplitMidpoint:
		return "midpoint"
	case SplitSAH:
		return "sah"
	default:
		return fmt.Sprintf("SplitMethod(%d)", int(m))
	}
}

// ParseSplitMethod converts "midpoint" or "sah" (case-insensitive) to a SplitMethod
func ParseSplitMethod(name string) (SplitMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "midpoint", "naive", "middle":
		return SplitMidpoint, nil
	case "sah":
		return SplitSAH, nil
	}
	return SplitMidpoint, fmt.Errorf("geometry: unknown split method %q", name)
}

// bvhNode is either a leaf (primitive >= 0) or an internal node with two children
type bvhNode struct {
	bounds      core.Bounds3
	left, right int32
	primitive   int32
}

func (n *bvhNode) isLeaf() bool {
	return n.primitive >= 0
}

// BVHStats describes the shape of a built hierarchy
type BVHStats struct {
	Primitives int
	Nodes      int
	Leaves     int
	MaxDepth   int
	Split      SplitMethod
	BuildTime  time.Duration
}

// BVH is a bounding volume hierarchy stored as a flat arena of nodes.
// Every leaf holds exactly one primitive. It is read-only after NewBVH returns
// and safe for concurrent queries.
type BVH struct {
	nodes       []bvhNode
	primitives  []Primitive // build-ordered copy, leaves index into it
	root        int32
	maxLeafSize int
	split       SplitMethod
	stats       BVHStats
}

// NewBVH builds a hierarchy over prims. The caller's slice is not reordered.
// maxLeafSize is clamped to [1, 255] and recorded only.
func NewBVH(prims []Primitive, maxLeafSize int, split SplitMethod) *BVH {
	start := time.Now()

	if maxLeafSize < 1 {
		maxLeafSize = 1
	}
	if maxLeafSize > maxLeafSizeLimit {
		maxLeafSize = maxLeafSizeLimit
	}

	bvh := &BVH{
		root:        -1,
		maxLeafSize: maxLeafSize,
		split:       split,
		primitives:  make([]Primitive, len(prims)),
	}
	copy(bvh.primitives, prims)

	if len(prims) > 0 {
		bvh.nodes = make([]bvhNode, 0, 2*len(prims)-1)
		bvh.root = bvh.build(0, len(prims), 1)
	}

	bvh.stats.Primitives = len(prims)
	bvh.stats.Nodes = len(bvh.nodes)
	bvh.stats.Split = split
	bvh.stats.BuildTime = time.Since(start)
	return bvh
}

// build constructs the subtree over primitives[start:end] and returns its node index
func (b *BVH) build(start, end, depth int) int32 {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	prims := b.primitives[start:end]

	if len(prims) == 1 {
		return b.addLeaf(start)
	}

	var left, right int32
	if len(prims) == 2 {
		left = b.addLeaf(start)
		right = b.addLeaf(start + 1)
	} else {
		centroids := core.EmptyBounds()
		for _, p := range prims {
			centroids = centroids.UnionPoint(p.Bounds().Centroid())
		}

		axis := centroids.MaxExtent()
		sort.SliceStable(prims, func(i, j int) bool {
			return prims[i].Bounds().Centroid().Axis(axis) < prims[j].Bounds().Centroid().Axis(axis)
		})

		mid := len(prims) / 2
		if b.split == SplitSAH {
			if idx, ok := sahSplit(prims, centroids); ok {
				mid = idx
			}
		}

		left = b.build(start, start+mid, depth+1)
		right = b.build(start+mid, end, depth+1)
	}

	b.nodes = append(b.nodes, bvhNode{
		bounds:    b.nodes[left].bounds.Union(b.nodes[right].bounds),
		left:      left,
		right:     right,
		primitive: -1,
	})
	return int32(len(b.nodes) - 1)
}

func (b *BVH) addLeaf(index int) int32 {
	b.nodes = append(b.nodes, bvhNode{
		bounds:    b.primitives[index].Bounds(),
		left:      -1,
		right:     -1,
		primitive: int32(index),
	})
	b.stats.Leaves++
	return int32(len(b.nodes) - 1)
}

// sahCosts returns the cost of each candidate split of centroid-sorted prims.
// Candidate i (1-based) splits at len(prims)*i/sahCandidates; candidates that
// leave a side empty cost +Inf.
func sahCosts(prims []Primitive, centroids core.Bounds3) []float64 {
	n := len(prims)
	totalSA := centroids.SurfaceArea()

	// prefix[k] bounds the centroids of prims[:k], suffix[k] those of prims[k:]
	prefix := make([]core.Bounds3, n+1)
	suffix := make([]core.Bounds3, n+1)
	prefix[0] = core.EmptyBounds()
	suffix[n] = core.EmptyBounds()
	for k := 0; k < n; k++ {
		prefix[k+1] = prefix[k].UnionPoint(prims[k].Bounds().Centroid())
	}
	for k := n - 1; k >= 0; k-- {
		suffix[k] = suffix[k+1].UnionPoint(prims[k].Bounds().Centroid())
	}

	costs := make([]float64, sahCandidates)
	for i := 1; i <= sahCandidates; i++ {
		split := n * i / sahCandidates
		if split <= 0 || split >= n {
			costs[i-1] = math.Inf(1)
			continue
		}

		leftCount := float64(split)
		rightCount := float64(n - split)
		costs[i-1] = sahTraversalCost +
			prefix[split].SurfaceArea()/totalSA*leftCount*sahIntersectCost +
			suffix[split].SurfaceArea()/totalSA*rightCount*sahIntersectCost
	}
	return costs
}

// sahSplit returns the split index of the cheapest candidate (first strict
// minimum), or false when the heuristic cannot decide and midpoint should be used.
func sahSplit(prims []Primitive, centroids core.Bounds3) (int, bool) {
	if degenerateCentroids(centroids) {
		return 0, false
	}

	best := -1
	bestCost := math.Inf(1)
	for i, cost := range sahCosts(prims, centroids) {
		if cost < bestCost {
			bestCost = cost
			best = i + 1
		}
	}

	if best < 0 {
		return 0, false
	}
	return len(prims) * best / sahCandidates, true
}

// degenerateCentroids reports whether the centroid bounds are too flat for the
// surface area heuristic: a point (up to rounding noise relative to the
// coordinates' magnitude) or a line, where every candidate's area is zero.
func degenerateCentroids(centroids core.Bounds3) bool {
	if centroids.IsEmpty() {
		return true
	}
	diag := centroids.Diagonal()
	extent := math.Max(diag.X, math.Max(diag.Y, diag.Z))

	scale := 1.0
	for axis := 0; axis < 3; axis++ {
		scale = math.Max(scale, math.Max(math.Abs(centroids.Min.Axis(axis)), math.Abs(centroids.Max.Axis(axis))))
	}
	if extent <= degenerateEpsilon*scale {
		return true
	}
	return centroids.SurfaceArea() <= degenerateEpsilon*extent*extent
}

// Intersect returns the nearest intersection of the ray with any primitive
func (b *BVH) Intersect(ray core.Ray) Intersection {
	if b == nil || b.root < 0 {
		return NoHit()
	}
	return b.intersectNode(b.root, ray)
}

func (b *BVH) intersectNode(index int32, ray core.Ray) Intersection {
	node := &b.nodes[index]
	if !node.bounds.IntersectP(ray) {
		return NoHit()
	}

	if node.isLeaf() {
		return b.primitives[node.primitive].Intersect(ray)
	}

	left := b.intersectNode(node.left, ray)
	right := b.intersectNode(node.right, ray)
	return Closer(left, right)
}

// Bounds returns the bounds of the whole hierarchy (empty for an empty BVH)
func (b *BVH) Bounds() core.Bounds3 {
	if b.root < 0 {
		return core.EmptyBounds()
	}
	return b.nodes[b.root].bounds
}

// Stats returns statistics gathered while building
func (b *BVH) Stats() BVHStats {
	return b.stats
}

// MaxLeafSize returns the configured leaf size
func (b *BVH) MaxLeafSize() int {
	return b.maxLeafSize
}

// SplitMethod returns the split method the hierarchy was built with
func (b *BVH) SplitMethod() SplitMethod {
	return b.split
}

// Len returns the number of primitives in the hierarchy
func (b *BVH) Len() int {
	return len(b.primitives)
}
