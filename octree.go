package atomcast

import "github.com/chewxy/math32"

// AABB is an axis-aligned bounding box. Invariant: Min <= Max per component.
type AABB struct {
	Min Vec3
	Max Vec3
}

// ExpandPoint returns the box grown to contain point p.
func (b AABB) ExpandPoint(p Vec3) AABB {
	return AABB{
		Min: Vec3{
			X: math32.Min(b.Min.X, p.X),
			Y: math32.Min(b.Min.Y, p.Y),
			Z: math32.Min(b.Min.Z, p.Z),
		},
		Max: Vec3{
			X: math32.Max(b.Max.X, p.X),
			Y: math32.Max(b.Max.Y, p.Y),
			Z: math32.Max(b.Max.Z, p.Z),
		},
	}
}

// Inflate returns the box grown by margin on every side.
func (b AABB) Inflate(margin float32) AABB {
	m := Vec3{X: margin, Y: margin, Z: margin}
	return AABB{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

// ContainsPoint reports whether p lies inside the box (inclusive).
func (b AABB) ContainsPoint(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectsSphere reports whether a sphere overlaps the box, by comparing
// the sphere radius against the distance to the closest point of the box.
func (b AABB) IntersectsSphere(center Vec3, radius float32) bool {
	closest := Vec3{
		X: clampf(center.X, b.Min.X, b.Max.X),
		Y: clampf(center.Y, b.Min.Y, b.Max.Y),
		Z: clampf(center.Z, b.Min.Z, b.Max.Z),
	}
	return center.Sub(closest).LengthSq() <= radius*radius
}

// IntersectsFrustum reports whether the box overlaps the view frustum using
// the positive-vertex test: for each plane, only the box corner farthest
// along the plane normal is checked. If that corner is outside any plane
// the whole box is outside. The test is conservative; boxes straddling a
// frustum corner can pass all six plane tests without truly intersecting,
// which downstream per-atom projection resolves exactly.
func (b AABB) IntersectsFrustum(f Frustum) bool {
	for _, plane := range f {
		p := Vec3{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}
		if plane.A >= 0 {
			p.X = b.Max.X
		}
		if plane.B >= 0 {
			p.Y = b.Max.Y
		}
		if plane.C >= 0 {
			p.Z = b.Max.Z
		}
		if plane.DistanceTo(p) < 0 {
			return false
		}
	}
	return true
}

// Center returns the geometric center of the box.
func (b AABB) Center() Vec3 {
	return Vec3{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// MaxExtent returns the largest of the three box dimensions.
func (b AABB) MaxExtent() float32 {
	d := b.Max.Sub(b.Min)
	return math32.Max(d.X, math32.Max(d.Y, d.Z))
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// octreeNode is one cell of the spatial partition. A leaf holds atom
// indices; an internal node holds exactly 8 children and no indices.
// Children are exclusively owned by their parent; queries traverse
// root-to-leaf so no back-references exist.
type octreeNode struct {
	bounds   AABB
	depth    int
	atoms    []int
	children *[8]octreeNode
}

func (n *octreeNode) isLeaf() bool {
	return n.children == nil
}

// subdivide splits the node into 8 octants about its center, routing each
// atom by the sign of (coordinate - center) per axis, and recurses. It
// stops at maxDepth or when the node holds no more atoms than maxLeafAtoms.
// A crowded cluster can bottom out at maxDepth with an oversized leaf;
// that is a tolerated worst case, not an error.
func (n *octreeNode) subdivide(atoms *AtomSet, maxDepth, maxLeafAtoms int) {
	if n.depth >= maxDepth || len(n.atoms) <= maxLeafAtoms {
		return
	}

	center := n.bounds.Center()
	var buckets [8][]int

	for _, idx := range n.atoms {
		child := 0
		if atoms.X[idx] > center.X {
			child |= 4
		}
		if atoms.Y[idx] > center.Y {
			child |= 2
		}
		if atoms.Z[idx] > center.Z {
			child |= 1
		}
		buckets[child] = append(buckets[child], idx)
	}

	children := new([8]octreeNode)
	for i := 0; i < 8; i++ {
		min := n.bounds.Min
		max := center
		if i&4 != 0 {
			min.X, max.X = center.X, n.bounds.Max.X
		}
		if i&2 != 0 {
			min.Y, max.Y = center.Y, n.bounds.Max.Y
		}
		if i&1 != 0 {
			min.Z, max.Z = center.Z, n.bounds.Max.Z
		}

		children[i] = octreeNode{
			bounds: AABB{Min: min, Max: max},
			depth:  n.depth + 1,
			atoms:  buckets[i],
		}
		children[i].subdivide(atoms, maxDepth, maxLeafAtoms)
	}

	n.children = children
	n.atoms = nil
}

// queryFrustum collects the indices of all leaves whose bounds survive the
// six half-space tests. Subtrees that fail any plane are skipped wholesale.
func (n *octreeNode) queryFrustum(f Frustum, result *[]int) {
	if !n.bounds.IntersectsFrustum(f) {
		return
	}
	if n.isLeaf() {
		*result = append(*result, n.atoms...)
		return
	}
	for i := range n.children {
		n.children[i].queryFrustum(f, result)
	}
}

// querySphere collects the indices of all leaves whose bounds overlap the
// given sphere.
func (n *octreeNode) querySphere(center Vec3, radius float32, result *[]int) {
	if !n.bounds.IntersectsSphere(center, radius) {
		return
	}
	if n.isLeaf() {
		*result = append(*result, n.atoms...)
		return
	}
	for i := range n.children {
		n.children[i].querySphere(center, radius, result)
	}
}

func (n *octreeNode) countNodes() int {
	if n.isLeaf() {
		return 1
	}
	count := 1
	for i := range n.children {
		count += n.children[i].countNodes()
	}
	return count
}

func (n *octreeNode) maxDepth() int {
	if n.isLeaf() {
		return n.depth
	}
	deepest := n.depth
	for i := range n.children {
		if d := n.children[i].maxDepth(); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// Octree is a bounded 8-ary spatial partition of atom positions, answering
// frustum and proximity queries for the render pipeline.
//
// The tree is immutable after BuildOctree: there is no insert or remove,
// and a structural change to the underlying positions requires a full
// rebuild. Across all leaves of one tree the atom indices partition
// 0..N exactly: no duplicates, no omissions. Querying against a position
// set that no longer matches what the tree was built from is caller error,
// not a checked failure.
type Octree struct {
	root      octreeNode
	atomCount int
}

// OctreeStats summarizes the shape of a built tree.
type OctreeStats struct {
	TotalNodes int
	TotalAtoms int
	MaxDepth   int
}

// BuildOctree constructs the spatial index for an atom set. The root bounds
// are the point cloud's bounding box inflated by a small margin; nodes split
// recursively until they reach maxDepth or hold at most maxLeafAtoms atoms.
func BuildOctree(atoms *AtomSet, maxDepth, maxLeafAtoms int) *Octree {
	bounds, ok := atoms.Bounds()
	if ok {
		bounds = bounds.Inflate(0.1)
	}

	indices := make([]int, atoms.Len())
	for i := range indices {
		indices[i] = i
	}

	tree := &Octree{
		root: octreeNode{
			bounds: bounds,
			atoms:  indices,
		},
		atomCount: atoms.Len(),
	}
	tree.root.subdivide(atoms, maxDepth, maxLeafAtoms)
	return tree
}

// QueryVisible returns the indices of atoms in leaves intersecting the view
// frustum. The result is a conservative superset of the exactly visible
// set: it never omits a truly visible atom, and per-atom projection does
// the exact rejection downstream.
func (t *Octree) QueryVisible(f Frustum) []int {
	result := make([]int, 0, t.atomCount)
	t.root.queryFrustum(f, &result)
	return result
}

// QueryNear returns the indices of atoms in leaves within radius of center.
func (t *Octree) QueryNear(center Vec3, radius float32) []int {
	var result []int
	t.root.querySphere(center, radius, &result)
	return result
}

// Len returns the number of atoms the tree was built from.
func (t *Octree) Len() int {
	return t.atomCount
}

// Stats returns node and depth statistics for diagnostics.
func (t *Octree) Stats() OctreeStats {
	return OctreeStats{
		TotalNodes: t.root.countNodes(),
		TotalAtoms: t.atomCount,
		MaxDepth:   t.root.maxDepth(),
	}
}
