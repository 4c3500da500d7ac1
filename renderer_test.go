package atomcast

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a small, deterministic configuration for render tests.
func testConfig(width, height int) Config {
	cfg := DefaultConfig()
	cfg.Width = width
	cfg.Height = height
	cfg.SSAAFactor = 1
	return cfg
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func pixelAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestNewRenderer_InvalidConfig(t *testing.T) {
	for _, dims := range [][2]int{{0, 100}, {100, 0}, {-1, 100}, {0, 0}} {
		cfg := DefaultConfig()
		cfg.Width = dims[0]
		cfg.Height = dims[1]

		_, err := NewRenderer(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig, "resolution %dx%d", dims[0], dims[1])
	}
}

func TestRender_EmptyAtomSet(t *testing.T) {
	cfg := testConfig(32, 32)
	cfg.Background = RGB(0.2, 0.4, 0.6)
	r, err := NewRenderer(cfg)
	require.NoError(t, err)
	defer r.Close()

	data, err := r.Render(NewAtomSet())
	require.NoError(t, err)

	img := decodePNG(t, data)
	want := pixelAt(img, 0, 0)
	bounds := img.Bounds()
	assert.Equal(t, 32, bounds.Dx())
	assert.Equal(t, 32, bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if pixelAt(img, x, y) != want {
				t.Fatalf("pixel (%d,%d) = %v differs from background %v", x, y, pixelAt(img, x, y), want)
			}
		}
	}

	// Telemetry records the empty frame as a success.
	frame, ok := r.LatestFrame()
	require.True(t, ok)
	assert.Zero(t, frame.AtomsTotal)
	assert.Zero(t, frame.AtomsRendered)
}

func TestRender_NilAtomSet(t *testing.T) {
	r, err := NewRenderer(testConfig(16, 16))
	require.NoError(t, err)
	defer r.Close()

	data, err := r.Render(nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

// waterAtoms is the reference scenario: one oxygen at the origin with two
// hydrogens.
func waterAtoms() *AtomSet {
	atoms := NewAtomSet()
	atoms.Append(0, 0, 0, 8)
	atoms.Append(0.96, 0, 0, 1)
	atoms.Append(-0.24, 0.93, 0, 1)
	return atoms
}

func TestRender_WaterMolecule(t *testing.T) {
	cfg := testConfig(64, 64)
	cfg.EnableLOD = false // keep sub-pixel hydrogens at this distance
	r, err := NewRenderer(cfg)
	require.NoError(t, err)
	defer r.Close()

	// Default camera: position (0,0,50) looking at the origin.
	data, err := r.Render(waterAtoms())
	require.NoError(t, err)

	frame, ok := r.LatestFrame()
	require.True(t, ok)
	assert.Equal(t, 3, frame.AtomsTotal)
	assert.Equal(t, 3, frame.AtomsRendered, "all three atoms are in view")

	stats, ok := r.OctreeStats()
	require.True(t, ok, "octree must be built when enabled")
	assert.Equal(t, 3, stats.TotalAtoms)

	img := decodePNG(t, data)
	bounds := img.Bounds()

	var sawOxygen, sawHydrogen, nonBlank bool
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := pixelAt(img, x, y)
			if px.R == 0 && px.G == 0 && px.B == 0 {
				continue
			}
			nonBlank = true
			// Oxygen is CPK red: strong red channel, weak green/blue.
			if px.R > 120 && px.G < 80 && px.B < 80 {
				sawOxygen = true
			}
			// Hydrogen is CPK white: all channels bright and equal.
			if px.R > 120 && px.G > 120 && px.B > 120 && px.R == px.G && px.G == px.B {
				sawHydrogen = true
			}
		}
	}
	assert.True(t, nonBlank, "image must not be blank")
	assert.True(t, sawOxygen, "expected an oxygen-colored sphere")
	assert.True(t, sawHydrogen, "expected hydrogen-colored spheres")
}

func TestRender_Deterministic(t *testing.T) {
	cfg := testConfig(96, 64)
	cfg.SSAAFactor = 2
	cfg.AOEnabled = true
	r, err := NewRenderer(cfg, WithWorkers(4))
	require.NoError(t, err)
	defer r.Close()

	atoms := randomCube(500, 40)
	r.AutoFrame(atoms, 1.3)

	first, err := r.Render(atoms)
	require.NoError(t, err)
	second, err := r.Render(atoms)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second), "identical inputs must produce byte-identical images")
}

func TestRenderWithBonds_Deterministic(t *testing.T) {
	r, err := NewRenderer(testConfig(64, 64))
	require.NoError(t, err)
	defer r.Close()

	atoms := waterAtoms()
	bonds := NewBondSet()
	bonds.Append(0, 1)
	bonds.Append(0, 2)

	first, err := r.RenderWithBonds(atoms, bonds)
	require.NoError(t, err)
	second, err := r.RenderWithBonds(atoms, bonds)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))
}

func TestRenderWithBonds_OverlayVisible(t *testing.T) {
	cfg := testConfig(64, 64)
	cfg.EnableLOD = false
	r, err := NewRenderer(cfg)
	require.NoError(t, err)
	defer r.Close()

	bonds := NewBondSet()
	bonds.Append(0, 1)
	bonds.Append(0, 2)

	data, err := r.RenderWithBonds(waterAtoms(), bonds)
	require.NoError(t, err)

	// Bond lines are a neutral gray; at least one gray pixel must survive
	// outside the tiny atom footprints.
	img := decodePNG(t, data)
	bounds := img.Bounds()
	var sawBond bool
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := pixelAt(img, x, y)
			if px.R == px.G && px.G == px.B && px.R > 160 && px.R < 200 {
				sawBond = true
			}
		}
	}
	assert.True(t, sawBond, "expected gray bond overlay pixels")
}

func TestRender_SSAADownsamplesToOutputSize(t *testing.T) {
	cfg := testConfig(40, 30)
	cfg.SSAAFactor = 3
	r, err := NewRenderer(cfg)
	require.NoError(t, err)
	defer r.Close()

	data, err := r.Render(waterAtoms())
	require.NoError(t, err)

	img := decodePNG(t, data)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestAutoFrame_Containment(t *testing.T) {
	cfg := testConfig(128, 128)
	cfg.EnableLOD = false
	r, err := NewRenderer(cfg)
	require.NoError(t, err)
	defer r.Close()

	// Synthetic cubic lattice: 4x4x4 carbons at 2-unit spacing.
	atoms := NewAtomSet()
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			for z := 0; z < 4; z++ {
				atoms.Append(float32(x)*2, float32(y)*2, float32(z)*2, 6)
			}
		}
	}

	r.AutoFrame(atoms, 2.0)

	_, err = r.Render(atoms)
	require.NoError(t, err)
	frame, ok := r.LatestFrame()
	require.True(t, ok)
	assert.Equal(t, 64, frame.AtomsRendered, "no atom may be culled after auto-framing")

	// Every projected footprint must lie fully within the viewport.
	cam := r.Camera()
	view := cam.ViewMatrix()
	proj := Perspective(cameraFovY, 1, cameraNear, cameraFar)
	focal := (1 / math32.Tan(cameraFovY/2)) * 128 / 2

	for i := 0; i < atoms.Len(); i++ {
		world := atoms.Position(i)
		viewPos := view.Transform(world)
		clip := proj.Transform(Vec3{X: viewPos.X, Y: viewPos.Y, Z: viewPos.Z})
		require.Greater(t, math32.Abs(clip.W), float32(1e-6))

		screenX := (clip.X/clip.W + 1) * 0.5 * 128
		screenY := (1 - clip.Y/clip.W) * 0.5 * 128
		radiusPx := BallStickRadius(atoms.Elements[i]) * focal / -viewPos.Z

		assert.GreaterOrEqual(t, screenX-radiusPx, float32(0), "atom %d leaks off the left edge", i)
		assert.LessOrEqual(t, screenX+radiusPx, float32(128), "atom %d leaks off the right edge", i)
		assert.GreaterOrEqual(t, screenY-radiusPx, float32(0), "atom %d leaks off the top edge", i)
		assert.LessOrEqual(t, screenY+radiusPx, float32(128), "atom %d leaks off the bottom edge", i)
	}
}

func TestAutoFrame_EmptySetResetsCamera(t *testing.T) {
	r, err := NewRenderer(testConfig(32, 32))
	require.NoError(t, err)
	defer r.Close()

	r.SetCamera(V3(9, 9, 9), V3(1, 1, 1), V3(1, 0, 0))
	r.AutoFrame(NewAtomSet(), 1.5)
	assert.Equal(t, defaultCamera(), r.Camera())
}

func TestCameraControls(t *testing.T) {
	r, err := NewRenderer(testConfig(32, 32))
	require.NoError(t, err)
	defer r.Close()

	r.SetCamera(V3(10, 20, 30), V3(0, 0, 0), V3(0, 1, 0))
	assert.Equal(t, V3(10, 20, 30), r.Camera().Position)

	r.ResetCamera()
	assert.Equal(t, V3(0, 0, 50), r.Camera().Position)
	assert.Equal(t, worldUp, r.Camera().Up)
}

func TestApplyOcclusion(t *testing.T) {
	cfg := testConfig(32, 32)
	cfg.AOEnabled = true
	cfg.AORadius = 2
	cfg.AOStrength = 0.5
	cfg.AOSampleBudget = 16
	r, err := NewRenderer(cfg)
	require.NoError(t, err)
	defer r.Close()

	projected := []projectedAtom{
		{worldPos: V3(0, 0, 0), worldRadius: 1, aoFactor: 1},
		{worldPos: V3(0.5, 0, 0), worldRadius: 1, aoFactor: 1},
		{worldPos: V3(100, 0, 0), worldRadius: 1, aoFactor: 1},
	}
	r.applyOcclusion(projected)

	// One close neighbor darkens by strength * 1/10.
	assert.InDelta(t, 0.95, projected[0].aoFactor, 1e-5)
	assert.InDelta(t, 0.95, projected[1].aoFactor, 1e-5)
	// The isolated atom stays fully lit.
	assert.InDelta(t, 1.0, projected[2].aoFactor, 1e-5)
}

func TestApplyOcclusion_SampleBudget(t *testing.T) {
	cfg := testConfig(32, 32)
	cfg.AOEnabled = true
	cfg.AORadius = 2
	cfg.AOStrength = 0.5
	r, err := NewRenderer(cfg)
	require.NoError(t, err)
	defer r.Close()

	cluster := []projectedAtom{
		{worldPos: V3(0, 0, 0), worldRadius: 1, aoFactor: 1},
		{worldPos: V3(0.5, 0, 0), worldRadius: 1, aoFactor: 1},
		{worldPos: V3(0, 0.5, 0), worldRadius: 1, aoFactor: 1},
	}

	// Unlimited budget counts both neighbors.
	r.config.AOSampleBudget = 0
	r.applyOcclusion(cluster)
	assert.InDelta(t, 0.9, cluster[0].aoFactor, 1e-5)

	// A budget of one stops the scan after the first neighbor.
	for i := range cluster {
		cluster[i].aoFactor = 1
	}
	r.config.AOSampleBudget = 1
	r.applyOcclusion(cluster)
	assert.InDelta(t, 0.95, cluster[0].aoFactor, 1e-5)
}

func TestSaveImage(t *testing.T) {
	r, err := NewRenderer(testConfig(16, 16))
	require.NoError(t, err)
	defer r.Close()

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, r.SaveImage(waterAtoms(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestSaveImage_WriteFailure(t *testing.T) {
	r, err := NewRenderer(testConfig(16, 16))
	require.NoError(t, err)
	defer r.Close()

	err = r.SaveImage(waterAtoms(), filepath.Join(t.TempDir(), "missing", "out.png"))
	assert.True(t, errors.Is(err, ErrResourceWrite))
}

func TestSpatialIndexCache(t *testing.T) {
	r, err := NewRenderer(testConfig(32, 32))
	require.NoError(t, err)
	defer r.Close()

	atoms := randomCube(200, 50)
	_, err = r.Render(atoms)
	require.NoError(t, err)

	first, ok := r.OctreeStats()
	require.True(t, ok)
	tree := r.octree

	// An unchanged set reuses the cached tree.
	_, err = r.Render(atoms)
	require.NoError(t, err)
	assert.Same(t, tree, r.octree)

	// Appending an atom changes the fingerprint and forces a rebuild.
	atoms.Append(1, 2, 3, 6)
	_, err = r.Render(atoms)
	require.NoError(t, err)
	second, ok := r.OctreeStats()
	require.True(t, ok)
	assert.NotSame(t, tree, r.octree)
	assert.Equal(t, first.TotalAtoms+1, second.TotalAtoms)

	// InvalidateIndex forces a rebuild even with a matching fingerprint.
	tree = r.octree
	r.InvalidateIndex()
	_, err = r.Render(atoms)
	require.NoError(t, err)
	assert.NotSame(t, tree, r.octree)
}

func TestRender_CullsAtomsBehindCamera(t *testing.T) {
	cfg := testConfig(32, 32)
	cfg.EnableLOD = false
	r, err := NewRenderer(cfg)
	require.NoError(t, err)
	defer r.Close()

	atoms := NewAtomSet()
	atoms.Append(0, 0, 0, 6)   // in front of the camera
	atoms.Append(0, 0, 100, 6) // behind the camera at (0,0,50)

	_, err = r.Render(atoms)
	require.NoError(t, err)

	frame, ok := r.LatestFrame()
	require.True(t, ok)
	assert.Equal(t, 2, frame.AtomsTotal)
	assert.Equal(t, 1, frame.AtomsRendered)
	assert.Equal(t, 1, frame.AtomsCulled)
}
