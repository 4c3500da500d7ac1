package atomcast

// Element visuals for ball-and-stick rendering. Colors follow the CPK
// (Corey-Pauling-Koltun) convention and radii are van der Waals values in
// Angstroms. These are visualization heuristics, not physical constants.

// ElementColor returns the CPK display color for an atomic number.
// Unknown elements get a light pink fallback.
func ElementColor(atomicNumber uint8) RGBA {
	switch atomicNumber {
	case 1:
		return RGB(1.0, 1.0, 1.0) // H - white
	case 6:
		return RGB(0.5, 0.5, 0.5) // C - gray
	case 7:
		return RGB(0.2, 0.2, 1.0) // N - blue
	case 8:
		return RGB(1.0, 0.0, 0.0) // O - red
	case 9:
		return RGB(0.7, 1.0, 1.0) // F - light cyan
	case 15:
		return RGB(1.0, 0.5, 0.0) // P - orange
	case 16:
		return RGB(1.0, 1.0, 0.0) // S - yellow
	case 17:
		return RGB(0.0, 1.0, 0.0) // Cl - green
	case 35:
		return RGB(0.6, 0.1, 0.1) // Br - dark red
	case 53:
		return RGB(0.5, 0.0, 0.5) // I - purple

	case 11:
		return RGB(0.0, 0.0, 1.0) // Na - blue
	case 12:
		return RGB(0.0, 0.5, 0.0) // Mg - dark green
	case 19:
		return RGB(0.5, 0.0, 0.5) // K - purple
	case 20:
		return RGB(0.5, 0.5, 0.5) // Ca - gray
	case 26:
		return RGB(0.9, 0.4, 0.0) // Fe - orange
	case 29:
		return RGB(0.8, 0.5, 0.2) // Cu - copper
	case 30:
		return RGB(0.5, 0.5, 0.7) // Zn - light gray-blue

	default:
		return RGB(1.0, 0.7, 0.8)
	}
}

// VDWRadius returns the van der Waals radius for an atomic number, in
// Angstroms. Unknown elements default to 1.5.
func VDWRadius(atomicNumber uint8) float32 {
	switch atomicNumber {
	case 1:
		return 1.20
	case 6:
		return 1.70
	case 7:
		return 1.55
	case 8:
		return 1.52
	case 9:
		return 1.47
	case 15:
		return 1.80
	case 16:
		return 1.80
	case 17:
		return 1.75
	case 35:
		return 1.85
	case 53:
		return 1.98

	case 11:
		return 2.27
	case 12:
		return 1.73
	case 19:
		return 2.75
	case 20:
		return 2.31
	case 26:
		return 2.04
	case 29:
		return 1.40
	case 30:
		return 1.39

	default:
		return 1.50
	}
}

// BallStickRadius returns the render radius used for ball-and-stick
// representation: 30% of the van der Waals radius.
func BallStickRadius(atomicNumber uint8) float32 {
	return VDWRadius(atomicNumber) * 0.3
}
