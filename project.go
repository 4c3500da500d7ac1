package atomcast

import (
	"sort"

	"github.com/chewxy/math32"
)

// projectedAtom is the frame-scoped record produced for each atom that
// survives projection. Created fresh per render call and discarded after
// rasterization.
type projectedAtom struct {
	index       int // original atom index
	screenX     float32
	screenY     float32
	depth       float32 // clip-space depth, used for painter's ordering
	radiusPx    float32
	color       RGBA
	worldPos    Vec3
	worldRadius float32 // render radius after LOD scaling
	aoFactor    float32 // 1 = fully lit, smaller = darker
	level       DetailLevel
}

// projectAtoms transforms the candidate atoms into screen space at the
// working resolution, applying the LOD policy and the small-footprint cull.
// The compute phase is data-parallel per atom; each worker writes only its
// own slot. The compaction afterwards is sequential and preserves candidate
// order, keeping the pipeline deterministic.
//
// Atoms are dropped, never failed, on degenerate numeric conditions:
// near-zero homogeneous w, NDC depth outside [-1, 1], or a position behind
// the camera.
func (r *Renderer) projectAtoms(atoms *AtomSet, candidates []int, view, proj Mat4, width, height int) []projectedAtom {
	w := float32(width)
	h := float32(height)
	focalLength := (1 / math32.Tan(cameraFovY/2)) * h / 2

	results := make([]projectedAtom, len(candidates))
	ok := make([]bool, len(candidates))

	r.pool.ForEach(len(candidates), func(slot int) {
		i := candidates[slot]
		worldPos := atoms.Position(i)

		viewPos := view.Transform(worldPos)
		clip := proj.Transform(Vec3{X: viewPos.X, Y: viewPos.Y, Z: viewPos.Z})

		if math32.Abs(clip.W) < 1e-6 {
			return
		}
		ndcX := clip.X / clip.W
		ndcY := clip.Y / clip.W
		ndcZ := clip.Z / clip.W
		if ndcZ < -1 || ndcZ > 1 {
			return
		}

		screenX := (ndcX + 1) * 0.5 * w
		screenY := (1 - ndcY) * 0.5 * h // flip Y: NDC up, pixels down

		element := atoms.Elements[i]
		worldRadius := BallStickRadius(element)

		distance := r.camera.Position.Distance(worldPos)
		level := DetailHigh
		if r.config.EnableLOD {
			level = r.config.LOD.Level(distance)
		}
		worldRadius *= level.RadiusMultiplier()

		// View-space Z is negative in front of the camera.
		viewDepth := -viewPos.Z
		var radiusPx float32
		if viewDepth > 0 {
			radiusPx = worldRadius * focalLength / viewDepth
		}

		// Sub-pixel footprints contribute nothing worth shading.
		if radiusPx < 0.5 && r.config.EnableLOD {
			return
		}

		results[slot] = projectedAtom{
			index:       i,
			screenX:     screenX,
			screenY:     screenY,
			depth:       clip.Z,
			radiusPx:    radiusPx,
			color:       ElementColor(element),
			worldPos:    worldPos,
			worldRadius: worldRadius,
			aoFactor:    1,
			level:       level,
		}
		ok[slot] = true
	})

	projected := make([]projectedAtom, 0, len(candidates))
	for slot := range results {
		if ok[slot] {
			projected = append(projected, results[slot])
		}
	}
	return projected
}

// applyOcclusion darkens each projected atom by the number of neighbors
// within the AO radius (accounting for both sphere radii). The scan is
// O(k^2) over the visible set and dominates AO-enabled renders at high atom
// counts; that scaling is an accepted property of the exact neighbor count,
// not something to approximate away silently. The sample budget caps the
// per-atom scan: counting stops early once the budget is reached.
//
// Each worker reads the whole slice but writes only its own aoFactor, so
// the phase is race-free without locks.
func (r *Renderer) applyOcclusion(projected []projectedAtom) {
	aoRadius := r.config.AORadius
	strength := r.config.AOStrength
	budget := r.config.AOSampleBudget

	r.pool.ForEach(len(projected), func(i int) {
		self := &projected[i]
		neighbors := 0
		for j := range projected {
			if j == i {
				continue
			}
			other := &projected[j]
			reach := aoRadius + self.worldRadius + other.worldRadius
			if self.worldPos.Sub(other.worldPos).LengthSq() < reach*reach {
				neighbors++
				if budget > 0 && neighbors >= budget {
					break
				}
			}
		}

		occlusion := math32.Min(float32(neighbors)/10, 1)
		self.aoFactor = 1 - occlusion*strength
	})
}

// sortBackToFront orders atoms by descending clip depth for the painter's
// algorithm. The sort is stable so equal depths keep their traversal order
// and repeated renders stay byte-identical.
func sortBackToFront(projected []projectedAtom) {
	sort.SliceStable(projected, func(i, j int) bool {
		return projected[i].depth > projected[j].depth
	})
}
