// Command atomcast renders a demo molecular scene to a PNG file.
//
// It is a minimal host layer around the atomcast package: it owns the
// flags, config file and file paths, builds a synthetic structure, and
// leaves all rendering to the library.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/atomcast/atomcast"
)

// fileConfig mirrors the recognized renderer options in TOML form.
// Zero values fall back to the library defaults.
type fileConfig struct {
	Width         int     `toml:"width"`
	Height        int     `toml:"height"`
	SSAA          int     `toml:"ssaa"`
	Specular      *bool   `toml:"specular"`
	SpecularPower float64 `toml:"specular_power"`
	Background    string  `toml:"background"`

	AOEnabled      bool    `toml:"ao_enabled"`
	AOSampleBudget int     `toml:"ao_sample_budget"`
	AORadius       float64 `toml:"ao_radius"`
	AOStrength     float64 `toml:"ao_strength"`

	FrustumCulling *bool `toml:"frustum_culling"`
	LOD            *bool `toml:"lod"`
	Octree         *bool `toml:"octree"`
	OctreeMaxDepth int   `toml:"octree_max_depth"`
	OctreeMaxLeaf  int   `toml:"octree_max_leaf_atoms"`
}

func (fc *fileConfig) apply(cfg *atomcast.Config) {
	if fc.Width > 0 {
		cfg.Width = fc.Width
	}
	if fc.Height > 0 {
		cfg.Height = fc.Height
	}
	if fc.SSAA > 0 {
		cfg.SSAAFactor = fc.SSAA
	}
	if fc.Specular != nil {
		cfg.SpecularEnabled = *fc.Specular
	}
	if fc.SpecularPower > 0 {
		cfg.SpecularPower = float32(fc.SpecularPower)
	}
	switch fc.Background {
	case "", "black":
		cfg.Background = atomcast.Black
	case "white":
		cfg.Background = atomcast.White
	case "transparent":
		cfg.Background = atomcast.Transparent
	}

	cfg.AOEnabled = fc.AOEnabled
	if fc.AOSampleBudget > 0 {
		cfg.AOSampleBudget = fc.AOSampleBudget
	}
	if fc.AORadius > 0 {
		cfg.AORadius = float32(fc.AORadius)
	}
	if fc.AOStrength > 0 {
		cfg.AOStrength = float32(fc.AOStrength)
	}

	if fc.FrustumCulling != nil {
		cfg.EnableFrustumCulling = *fc.FrustumCulling
	}
	if fc.LOD != nil {
		cfg.EnableLOD = *fc.LOD
	}
	if fc.Octree != nil {
		cfg.EnableOctree = *fc.Octree
	}
	if fc.OctreeMaxDepth > 0 {
		cfg.OctreeMaxDepth = fc.OctreeMaxDepth
	}
	if fc.OctreeMaxLeaf > 0 {
		cfg.OctreeMaxLeafAtoms = fc.OctreeMaxLeaf
	}
}

func main() {
	var (
		configPath = flag.String("config", "", "optional TOML config file")
		output     = flag.String("out", "atomcast.png", "output PNG path")
		scene      = flag.String("scene", "water", "demo scene: water or lattice")
		xyzPath    = flag.String("xyz", "", "render an XYZ structure file instead of a demo scene")
		count      = flag.Int("atoms", 1000, "atom count for the lattice scene")
		margin     = flag.Float64("margin", 1.3, "auto-frame margin factor")
		width      = flag.Int("width", 0, "output width override")
		height     = flag.Int("height", 0, "output height override")
		verbose    = flag.Bool("v", false, "enable debug logging to stderr")
	)
	flag.Parse()

	if *verbose {
		atomcast.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := atomcast.DefaultConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("read config: %v", err)
		}
		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			log.Fatalf("parse config: %v", err)
		}
		fc.apply(&cfg)
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}

	r, err := atomcast.NewRenderer(cfg)
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}
	defer r.Close()

	var atoms *atomcast.AtomSet
	var bonds *atomcast.BondSet
	if *xyzPath != "" {
		atoms, err = loadXYZ(*xyzPath)
		if err != nil {
			log.Fatalf("load xyz: %v", err)
		}
	} else {
		atoms, bonds = buildScene(*scene, *count)
	}
	r.AutoFrame(atoms, float32(*margin))

	if bonds != nil {
		err = r.SaveImageWithBonds(atoms, bonds, *output)
	} else {
		err = r.SaveImage(atoms, *output)
	}
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	summary := r.PerfSummary()
	fmt.Printf("wrote %s (%dx%d): %d atoms, %d rendered, %d culled, %.1f ms\n",
		*output, cfg.Width, cfg.Height,
		summary.AtomsTotal, summary.AtomsRendered, summary.AtomsCulled,
		summary.AvgRenderMillis)
}

// buildScene creates one of the built-in demo structures.
func buildScene(name string, count int) (*atomcast.AtomSet, *atomcast.BondSet) {
	switch name {
	case "lattice":
		return randomLattice(count), nil
	default:
		return waterMolecule()
	}
}

// waterMolecule returns a single H2O with its two O-H bonds.
func waterMolecule() (*atomcast.AtomSet, *atomcast.BondSet) {
	atoms := atomcast.NewAtomSet()
	atoms.Append(0, 0, 0, 8)        // O
	atoms.Append(0.96, 0, 0, 1)     // H
	atoms.Append(-0.24, 0.93, 0, 1) // H

	bonds := atomcast.NewBondSet()
	bonds.Append(0, 1)
	bonds.Append(0, 2)
	return atoms, bonds
}

// atomicNumbers maps XYZ element symbols to atomic numbers, covering the
// elements the renderer has visuals for. Unknown symbols fall back to 0 and
// render with the fallback color and radius.
var atomicNumbers = map[string]uint8{
	"H": 1, "C": 6, "N": 7, "O": 8, "F": 9,
	"Na": 11, "Mg": 12, "P": 15, "S": 16, "Cl": 17,
	"K": 19, "Ca": 20, "Fe": 26, "Cu": 29, "Zn": 30,
	"Br": 35, "I": 53,
}

// loadXYZ reads a minimal XYZ structure file: an atom count line, a comment
// line, then one "Symbol x y z" line per atom. Extra trailing lines are
// ignored so multi-frame files render their first frame.
func loadXYZ(path string) (*atomcast.AtomSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%s: bad atom count %q", path, scanner.Text())
	}
	scanner.Scan() // comment line

	atoms := atomcast.NewAtomSetCapacity(count)
	for i := 0; i < count; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("%s: expected %d atoms, got %d", path, count, i)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			return nil, fmt.Errorf("%s: malformed atom line %d: %q", path, i+3, scanner.Text())
		}
		x, errX := strconv.ParseFloat(fields[1], 32)
		y, errY := strconv.ParseFloat(fields[2], 32)
		z, errZ := strconv.ParseFloat(fields[3], 32)
		if errX != nil || errY != nil || errZ != nil {
			return nil, fmt.Errorf("%s: bad coordinates on line %d", path, i+3)
		}
		atoms.Append(float32(x), float32(y), float32(z), atomicNumbers[fields[0]])
	}
	return atoms, scanner.Err()
}

// randomLattice fills a 200-unit cube with uniformly distributed carbons.
// A fixed seed keeps repeated runs comparable.
func randomLattice(count int) *atomcast.AtomSet {
	rng := rand.New(rand.NewSource(42))
	atoms := atomcast.NewAtomSetCapacity(count)
	for i := 0; i < count; i++ {
		atoms.Append(
			rng.Float32()*200-100,
			rng.Float32()*200-100,
			rng.Float32()*200-100,
			6,
		)
	}
	return atoms
}
