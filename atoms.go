package atomcast

// AtomSet holds an atomic point cloud in structure-of-arrays layout:
// one slice per property, indexed by atom. Positions are world-space
// Angstroms; Elements holds atomic numbers (1 = H, 6 = C, 8 = O, ...).
//
// The layout keeps the render hot loops cache-friendly: projection touches
// only X/Y/Z/Elements and never pulls optional metadata into cache.
// len(X) is the source of truth for the atom count; all other per-atom
// slices must either be empty or have the same length.
//
// The renderer treats an AtomSet as a read-only view. Parsers and editors
// own mutation; after changing positions in place, callers should invalidate
// the renderer's spatial index (see [Renderer.InvalidateIndex]).
type AtomSet struct {
	X        []float32
	Y        []float32
	Z        []float32
	Elements []uint8

	// Optional metadata, irrelevant to rendering but carried for hosts
	// that round-trip structures through the renderer's data model.
	Charges     []float32
	MoleculeIDs []uint32
}

// NewAtomSet creates an empty atom set.
func NewAtomSet() *AtomSet {
	return &AtomSet{}
}

// NewAtomSetCapacity creates an empty atom set with preallocated capacity.
func NewAtomSetCapacity(capacity int) *AtomSet {
	return &AtomSet{
		X:        make([]float32, 0, capacity),
		Y:        make([]float32, 0, capacity),
		Z:        make([]float32, 0, capacity),
		Elements: make([]uint8, 0, capacity),
	}
}

// Len returns the number of atoms.
func (s *AtomSet) Len() int {
	return len(s.X)
}

// Append adds one atom to the set.
func (s *AtomSet) Append(x, y, z float32, element uint8) {
	s.X = append(s.X, x)
	s.Y = append(s.Y, y)
	s.Z = append(s.Z, z)
	s.Elements = append(s.Elements, element)
}

// Position returns the world-space position of atom i.
func (s *AtomSet) Position(i int) Vec3 {
	return Vec3{X: s.X[i], Y: s.Y[i], Z: s.Z[i]}
}

// Bounds returns the axis-aligned bounding box of all atom centers.
// The second return value is false for an empty set.
func (s *AtomSet) Bounds() (AABB, bool) {
	if s.Len() == 0 {
		return AABB{}, false
	}
	box := AABB{Min: s.Position(0), Max: s.Position(0)}
	for i := 1; i < s.Len(); i++ {
		box = box.ExpandPoint(s.Position(i))
	}
	return box, true
}

// BondSet holds bonds as parallel arrays of endpoint atom indices.
// Bond geometry (distance-threshold detection) is computed externally;
// the renderer only consumes the index pairs for overlay drawing.
type BondSet struct {
	A []uint32
	B []uint32
}

// NewBondSet creates an empty bond set.
func NewBondSet() *BondSet {
	return &BondSet{}
}

// Len returns the number of bonds.
func (b *BondSet) Len() int {
	return len(b.A)
}

// Append adds one bond between atoms i and j.
func (b *BondSet) Append(i, j uint32) {
	b.A = append(b.A, i)
	b.B = append(b.B, j)
}
