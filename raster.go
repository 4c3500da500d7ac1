package atomcast

import "github.com/chewxy/math32"

// lightDir is the single fixed directional light, from top-right-front.
// Normalized once at package init.
var lightDir = Vec3{X: 0.5, Y: 0.5, Z: 1}.Normalize()

// Shading weights for the sphere surface model.
const (
	shadeAmbient  = 0.2
	shadeDiffuse  = 0.6
	shadeSpecular = 0.4
)

// pixelWrite is one shaded pixel produced by the parallel compute phase.
// Coordinates are guaranteed in-bounds by the clipped bounding box.
type pixelWrite struct {
	x, y    int32
	r, g, b uint8
}

// shadeAtom rasterizes one projected atom as a filled screen-space circle,
// restricted to its bounding box clipped to the canvas, and returns the
// shaded pixels. It mutates nothing, so atoms can be shaded in parallel;
// the caller writes the returned pixels back sequentially in paint order.
//
// For each covered pixel the unit sphere normal is reconstructed from the
// local offset and a synthesized z = sqrt(r^2 - d^2), then lit with
// ambient + Lambertian diffuse + optional Blinn-Phong specular against the
// fixed light, scaled by the precomputed AO factor.
func shadeAtom(atom *projectedAtom, cameraPos Vec3, specularEnabled bool, specularPower float32, width, height int) []pixelWrite {
	minX := int32(math32.Max(math32.Floor(atom.screenX-atom.radiusPx), 0))
	maxX := int32(math32.Min(math32.Ceil(atom.screenX+atom.radiusPx), float32(width)))
	minY := int32(math32.Max(math32.Floor(atom.screenY-atom.radiusPx), 0))
	maxY := int32(math32.Min(math32.Ceil(atom.screenY+atom.radiusPx), float32(height)))
	if minX >= maxX || minY >= maxY {
		return nil
	}

	radius := atom.radiusPx
	radiusSq := radius * radius

	// View direction is constant across the atom's footprint: from the
	// sphere center toward the camera.
	var viewDir Vec3
	if specularEnabled {
		viewDir = cameraPos.Sub(atom.worldPos).Normalize()
	}

	pixels := make([]pixelWrite, 0, int(maxX-minX)*int(maxY-minY))

	for y := minY; y < maxY; y++ {
		dy := float32(y) - atom.screenY
		for x := minX; x < maxX; x++ {
			dx := float32(x) - atom.screenX
			distSq := dx*dx + dy*dy
			if distSq > radiusSq {
				continue
			}

			z := math32.Sqrt(radiusSq - distSq)
			normal := Vec3{X: dx / radius, Y: dy / radius, Z: z / radius}.Normalize()

			nDotL := math32.Max(normal.Dot(lightDir), 0)
			intensity := math32.Min(shadeAmbient+shadeDiffuse*nDotL, 1) * atom.aoFactor

			var specular float32
			if specularEnabled && nDotL > 0 {
				half := lightDir.Add(viewDir).Normalize()
				nDotH := math32.Max(normal.Dot(half), 0)
				specular = shadeSpecular * math32.Pow(nDotH, specularPower)
			}

			pixels = append(pixels, pixelWrite{
				x: x,
				y: y,
				r: uint8(math32.Min((atom.color.R*intensity+specular)*255, 255)),
				g: uint8(math32.Min((atom.color.G*intensity+specular)*255, 255)),
				b: uint8(math32.Min((atom.color.B*intensity+specular)*255, 255)),
			})
		}
	}
	return pixels
}

// drawThickLine draws a line between two pixel positions using Bresenham
// stepping with a circular pen stamp of the given radius. Used for bond
// overlays, which are painted before atoms so atom spheres occlude the
// bond stubs at their surface.
func drawThickLine(pm *Pixmap, x0, y0, x1, y1 int, c RGBA, thickness int) {
	r8, g8, b8, _ := c.bytes()
	width := pm.Width()
	height := pm.Height()

	stamp := func(cx, cy int) {
		for dy := -thickness; dy <= thickness; dy++ {
			for dx := -thickness; dx <= thickness; dx++ {
				if dx*dx+dy*dy > thickness*thickness {
					continue
				}
				px := cx + dx
				py := cy + dy
				if px >= 0 && px < width && py >= 0 && py < height {
					pm.setRGB8(px, py, r8, g8, b8)
				}
			}
		}
	}

	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx - dy
	x, y := x0, y0

	for {
		stamp(x, y)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
