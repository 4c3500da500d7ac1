package atomcast

// DetailLevel is a quality tier assigned to an atom from its distance to
// the camera. Higher tiers render larger, more detailed spheres; lower
// tiers shrink the on-screen footprint of distant atoms.
type DetailLevel int

// Detail tiers, ordered from most to least detailed.
const (
	DetailHigh DetailLevel = iota
	DetailMedium
	DetailLow
	DetailMinimal
)

// String returns the tier name.
func (l DetailLevel) String() string {
	switch l {
	case DetailHigh:
		return "high"
	case DetailMedium:
		return "medium"
	case DetailLow:
		return "low"
	default:
		return "minimal"
	}
}

// QualityFactor returns the relative quality (0, 1] of the tier.
func (l DetailLevel) QualityFactor() float32 {
	switch l {
	case DetailHigh:
		return 1.0
	case DetailMedium:
		return 0.6
	case DetailLow:
		return 0.3
	default:
		return 0.1
	}
}

// RadiusMultiplier returns the factor applied to the rendered sphere radius
// for the tier. It scales only the visualization radius, never the
// chemistry-facing van der Waals radius.
func (l DetailLevel) RadiusMultiplier() float32 {
	switch l {
	case DetailHigh:
		return 1.0
	case DetailMedium:
		return 0.85
	case DetailLow:
		return 0.6
	default:
		return 0.3
	}
}

// LODConfig maps camera distance to a detail tier through three ascending
// thresholds. Distances below HighThreshold map to DetailHigh, below
// MediumThreshold to DetailMedium, below LowThreshold to DetailLow, and
// everything beyond to DetailMinimal.
type LODConfig struct {
	Enabled         bool
	HighThreshold   float32
	MediumThreshold float32
	LowThreshold    float32
}

// DefaultLODConfig returns the default distance thresholds: full detail
// within 30 world units, minimal detail beyond 100.
func DefaultLODConfig() LODConfig {
	return LODConfig{
		Enabled:         true,
		HighThreshold:   30,
		MediumThreshold: 60,
		LowThreshold:    100,
	}
}

// Level returns the detail tier for a camera distance. With the policy
// disabled every distance maps to DetailHigh. The mapping is monotonic:
// a larger distance never yields a more detailed tier.
func (c LODConfig) Level(distance float32) DetailLevel {
	if !c.Enabled {
		return DetailHigh
	}
	switch {
	case distance < c.HighThreshold:
		return DetailHigh
	case distance < c.MediumThreshold:
		return DetailMedium
	case distance < c.LowThreshold:
		return DetailLow
	default:
		return DetailMinimal
	}
}
