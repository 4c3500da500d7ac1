package atomcast

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"time"

	"github.com/chewxy/math32"

	"github.com/atomcast/atomcast/internal/parallel"
)

// Config holds the render options for a Renderer. It is read-only for the
// duration of a render call; the working resolution during supersampling is
// derived from Width, Height and SSAAFactor without mutating the struct.
type Config struct {
	// Width and Height are the output resolution in pixels.
	// Both must be positive.
	Width  int
	Height int

	// SSAAFactor is the supersampling factor: the frame is rendered at
	// Width*f x Height*f and downsampled. 1 disables anti-aliasing.
	SSAAFactor int

	// SpecularEnabled toggles Blinn-Phong highlights; SpecularPower is the
	// shininess exponent.
	SpecularEnabled bool
	SpecularPower   float32

	// Background is the clear color, including alpha for transparent
	// backgrounds.
	Background RGBA

	// Ambient occlusion: neighbor-count darkening of crowded atoms.
	// AOSampleBudget caps the per-atom neighbor scan (0 = unlimited),
	// AORadius is the world-space sampling radius, AOStrength the
	// darkening amount in [0, 1].
	AOEnabled      bool
	AOSampleBudget int
	AORadius       float32
	AOStrength     float32

	// EnableFrustumCulling skips atoms outside the view volume via the
	// spatial index before per-atom projection.
	EnableFrustumCulling bool

	// EnableLOD activates the distance-based detail policy in LOD.
	EnableLOD bool
	LOD       LODConfig

	// EnableOctree activates the spatial index; OctreeMaxDepth and
	// OctreeMaxLeafAtoms bound its subdivision.
	EnableOctree       bool
	OctreeMaxDepth     int
	OctreeMaxLeafAtoms int
}

// DefaultConfig returns the renderer defaults: full HD output, 2x2 SSAA,
// specular highlights on, black background, AO off, culling, LOD and the
// octree enabled.
func DefaultConfig() Config {
	return Config{
		Width:                1920,
		Height:               1080,
		SSAAFactor:           2,
		SpecularEnabled:      true,
		SpecularPower:        50,
		Background:           Black,
		AOEnabled:            false,
		AOSampleBudget:       16,
		AORadius:             2,
		AOStrength:           0.5,
		EnableFrustumCulling: true,
		EnableLOD:            true,
		LOD:                  DefaultLODConfig(),
		EnableOctree:         true,
		OctreeMaxDepth:       8,
		OctreeMaxLeafAtoms:   32,
	}
}

// validate rejects configurations that cannot produce an image.
func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	return nil
}

// Option configures a Renderer during creation.
type Option func(*rendererOptions)

type rendererOptions struct {
	workers int
}

// WithWorkers sets the number of goroutines used for the data-parallel
// projection and shading phases. Zero or negative selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *rendererOptions) {
		o.workers = n
	}
}

// Renderer is the CPU rendering pipeline. It owns mutable camera state, a
// lazily rebuilt octree cache and rolling performance telemetry, and is
// therefore not safe for concurrent use by multiple callers.
type Renderer struct {
	config Config
	camera Camera
	pool   *parallel.Pool
	perf   *PerfTracker

	// Spatial index cache. Rebuilt before use when the positional
	// fingerprint no longer matches the atom set.
	octree      *Octree
	fingerprint uint64
}

// NewRenderer creates a renderer for the given configuration.
// It returns ErrInvalidConfig for a non-positive output resolution, before
// any buffer is allocated.
func NewRenderer(cfg Config, opts ...Option) (*Renderer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.SSAAFactor < 1 {
		cfg.SSAAFactor = 1
	}

	var o rendererOptions
	for _, opt := range opts {
		opt(&o)
	}

	return &Renderer{
		config: cfg,
		camera: defaultCamera(),
		pool:   parallel.NewPool(o.workers),
		perf:   NewPerfTracker(60),
	}, nil
}

// Close releases the worker pool. The renderer must not be used afterwards.
func (r *Renderer) Close() {
	r.pool.Close()
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config {
	return r.config
}

// SetCamera places the camera explicitly.
func (r *Renderer) SetCamera(position, target, up Vec3) {
	r.camera = Camera{Position: position, Target: target, Up: up}
}

// ResetCamera restores the default camera placement.
func (r *Renderer) ResetCamera() {
	r.camera = defaultCamera()
}

// Camera returns the current camera state.
func (r *Renderer) Camera() Camera {
	return r.camera
}

// AutoFrame positions the camera along +Z so that every atom, expanded by
// its render radius, fits inside both the vertical and horizontal field of
// view. marginFactor of 1.0 means no padding; 1.3 leaves 30% around the
// content. The larger of the two required distances wins so neither axis
// clips, the target recenters on the bounding-box center and the up vector
// resets to world up. An empty atom set resets the camera instead.
func (r *Renderer) AutoFrame(atoms *AtomSet, marginFactor float32) {
	if atoms == nil || atoms.Len() == 0 {
		r.ResetCamera()
		return
	}

	first := atoms.Position(0)
	radius := BallStickRadius(atoms.Elements[0])
	box := AABB{Min: first, Max: first}.Inflate(radius)
	for i := 1; i < atoms.Len(); i++ {
		radius = BallStickRadius(atoms.Elements[i])
		p := atoms.Position(i)
		box = box.ExpandPoint(Vec3{X: p.X - radius, Y: p.Y - radius, Z: p.Z - radius})
		box = box.ExpandPoint(Vec3{X: p.X + radius, Y: p.Y + radius, Z: p.Z + radius})
	}

	center := box.Center()
	maxSize := box.MaxExtent()
	aspect := float32(r.config.Width) / float32(r.config.Height)

	// Visible height at distance d is 2*d*tan(fovY/2); solve for the
	// distance that makes it maxSize*marginFactor, per axis.
	distVertical := (maxSize * marginFactor) / (2 * math32.Tan(cameraFovY/2))
	fovX := 2 * math32.Atan(aspect*math32.Tan(cameraFovY/2))
	distHorizontal := (maxSize * marginFactor) / (2 * math32.Tan(fovX/2))
	distance := math32.Max(distVertical, distHorizontal)

	r.camera = Camera{
		Position: Vec3{X: center.X, Y: center.Y, Z: center.Z + distance},
		Target:   center,
		Up:       worldUp,
	}

	Logger().Info("auto-frame",
		"center", center,
		"extent", maxSize,
		"distance", distance,
		"atoms", atoms.Len())
}

// InvalidateIndex forces a rebuild of the spatial index on the next render.
// The cache fingerprint only samples the atom count and the first and last
// coordinates, so callers that edit interior atoms in place must invalidate
// explicitly.
func (r *Renderer) InvalidateIndex() {
	r.octree = nil
	r.fingerprint = 0
}

// OctreeStats returns statistics for the cached spatial index, or false
// when no index has been built.
func (r *Renderer) OctreeStats() (OctreeStats, bool) {
	if r.octree == nil {
		return OctreeStats{}, false
	}
	return r.octree.Stats(), true
}

// PerfSummary returns the rolling performance summary.
func (r *Renderer) PerfSummary() PerfSummary {
	return r.perf.Summary()
}

// LatestFrame returns the metrics of the most recent render.
func (r *Renderer) LatestFrame() (FrameMetrics, bool) {
	return r.perf.Latest()
}

// ResetMetrics discards accumulated telemetry.
func (r *Renderer) ResetMetrics() {
	r.perf.Reset()
}

// Render draws the atom set and returns the encoded PNG bytes.
func (r *Renderer) Render(atoms *AtomSet) ([]byte, error) {
	return r.renderFrame(atoms, nil)
}

// RenderWithBonds draws the atom set with a bond overlay and returns the
// encoded PNG bytes. Bonds are painted before atoms so atom spheres occlude
// the bond stubs at their surfaces.
func (r *Renderer) RenderWithBonds(atoms *AtomSet, bonds *BondSet) ([]byte, error) {
	return r.renderFrame(atoms, bonds)
}

// SaveImage renders the atom set and writes the PNG to path.
func (r *Renderer) SaveImage(atoms *AtomSet, path string) error {
	data, err := r.Render(atoms)
	if err != nil {
		return err
	}
	return writeImage(path, data)
}

// SaveImageWithBonds renders the atom set with a bond overlay and writes
// the PNG to path.
func (r *Renderer) SaveImageWithBonds(atoms *AtomSet, bonds *BondSet, path string) error {
	data, err := r.RenderWithBonds(atoms, bonds)
	if err != nil {
		return err
	}
	return writeImage(path, data)
}

// renderFrame is the single pipeline behind Render and RenderWithBonds;
// the bond overlay is an optional step between background clear and atom
// rasterization, not a duplicated path.
func (r *Renderer) renderFrame(atoms *AtomSet, bonds *BondSet) ([]byte, error) {
	if err := r.config.validate(); err != nil {
		return nil, err
	}

	frameStart := time.Now()
	width := r.config.Width
	height := r.config.Height
	ssaa := r.config.SSAAFactor
	workW := width * ssaa
	workH := height * ssaa

	canvas := NewPixmap(workW, workH)
	canvas.Clear(r.config.Background)

	total := 0
	if atoms != nil {
		total = atoms.Len()
	}

	var projected []projectedAtom
	renderStart := time.Now()

	if total > 0 {
		view := r.camera.ViewMatrix()
		proj := Perspective(cameraFovY, float32(workW)/float32(workH), cameraNear, cameraFar)
		frustum := FrustumFromMatrix(proj.Mul(view))

		candidates := r.candidateIndices(atoms, frustum)
		projected = r.projectAtoms(atoms, candidates, view, proj, workW, workH)
		if r.config.AOEnabled {
			r.applyOcclusion(projected)
		}
		sortBackToFront(projected)

		if bonds != nil && bonds.Len() > 0 {
			r.drawBondOverlay(canvas, projected, bonds, ssaa)
		}

		r.rasterizeAtoms(canvas, projected)

		Logger().Debug("frame projected",
			"atoms", total,
			"candidates", len(candidates),
			"projected", len(projected))
	}
	renderDuration := time.Since(renderStart)

	out := canvas
	if ssaa > 1 {
		out = canvas.Downsample(width, height)
	}
	data, err := out.EncodePNG()
	if err != nil {
		return nil, err
	}

	metrics := FrameMetrics{
		FrameDuration:  time.Since(frameStart),
		RenderDuration: renderDuration,
		AtomsTotal:     total,
		AtomsRendered:  len(projected),
		AtomsCulled:    total - len(projected),
	}
	for i := range projected {
		switch projected[i].level {
		case DetailHigh:
			metrics.LODHigh++
		case DetailMedium:
			metrics.LODMedium++
		case DetailLow:
			metrics.LODLow++
		default:
			metrics.LODMinimal++
		}
	}
	r.perf.Record(metrics)

	return data, nil
}

// candidateIndices selects the atoms worth projecting. With the octree and
// frustum culling enabled this is the index's conservative visible superset;
// otherwise every atom is a candidate and per-atom projection culls exactly.
func (r *Renderer) candidateIndices(atoms *AtomSet, frustum Frustum) []int {
	if r.config.EnableOctree && r.config.EnableFrustumCulling {
		return r.spatialIndex(atoms).QueryVisible(frustum)
	}

	indices := make([]int, atoms.Len())
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// spatialIndex returns the cached octree, rebuilding it when the positional
// fingerprint of the atom set no longer matches. The fingerprint samples
// only the atom count and the first and last coordinates; edits that leave
// those unchanged require InvalidateIndex.
func (r *Renderer) spatialIndex(atoms *AtomSet) *Octree {
	fp := atomFingerprint(atoms)
	if r.octree == nil || r.fingerprint != fp {
		r.octree = BuildOctree(atoms, r.config.OctreeMaxDepth, r.config.OctreeMaxLeafAtoms)
		r.fingerprint = fp
		Logger().Debug("octree rebuilt",
			"atoms", atoms.Len(),
			"maxDepth", r.config.OctreeMaxDepth,
			"maxLeafAtoms", r.config.OctreeMaxLeafAtoms)
	}
	return r.octree
}

// rasterizeAtoms shades every projected atom in parallel, then writes the
// pixel runs back sequentially in the established back-to-front order.
// The merge must stay sequential: overlapping footprints rely on
// deterministic overwrite for the painter's algorithm to hold.
func (r *Renderer) rasterizeAtoms(canvas *Pixmap, projected []projectedAtom) {
	runs := make([][]pixelWrite, len(projected))
	cameraPos := r.camera.Position
	specular := r.config.SpecularEnabled
	power := r.config.SpecularPower
	w := canvas.Width()
	h := canvas.Height()

	r.pool.ForEach(len(projected), func(i int) {
		runs[i] = shadeAtom(&projected[i], cameraPos, specular, power, w, h)
	})

	for _, run := range runs {
		for _, px := range run {
			canvas.setRGB8(int(px.x), int(px.y), px.r, px.g, px.b)
		}
	}
}

// bondColor is the overlay line color: a light gray that reads under any
// CPK atom color.
var bondColor = RGB(180.0/255, 180.0/255, 180.0/255)

// drawBondOverlay paints each bond as a thick line between its endpoint
// atoms' screen positions. Endpoints are looked up by original atom index;
// bonds with a culled endpoint are skipped.
func (r *Renderer) drawBondOverlay(canvas *Pixmap, projected []projectedAtom, bonds *BondSet, ssaa int) {
	screen := make(map[int][2]float32, len(projected))
	for i := range projected {
		screen[projected[i].index] = [2]float32{projected[i].screenX, projected[i].screenY}
	}

	thickness := 2 * ssaa
	for i := 0; i < bonds.Len(); i++ {
		a, okA := screen[int(bonds.A[i])]
		b, okB := screen[int(bonds.B[i])]
		if !okA || !okB {
			continue
		}
		drawThickLine(canvas,
			int(a[0]), int(a[1]),
			int(b[0]), int(b[1]),
			bondColor, thickness)
	}
}

// atomFingerprint produces the cheap positional fingerprint used for octree
// cache invalidation: atom count plus the first and last coordinates.
func atomFingerprint(atoms *AtomSet) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(atoms.Len()))
	h.Write(buf[:])

	writeCoord := func(i int) {
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(atoms.X[i]))
		h.Write(buf[:4])
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(atoms.Y[i]))
		h.Write(buf[:4])
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(atoms.Z[i]))
		h.Write(buf[:4])
	}
	if atoms.Len() > 0 {
		writeCoord(0)
		if atoms.Len() > 1 {
			writeCoord(atoms.Len() - 1)
		}
	}
	return h.Sum64()
}

// writeImage writes encoded image bytes to path, wrapping failures in
// ErrResourceWrite.
func writeImage(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrResourceWrite, err)
	}
	return nil
}
