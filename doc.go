// Package atomcast renders point-cloud atomic structures into shaded raster
// images on the CPU, with no GPU dependency.
//
// The pipeline projects atoms through a look-at view and perspective
// projection, culls against the view frustum with an octree spatial index,
// applies a distance-based level-of-detail policy, shades each atom as a
// lit sphere (ambient + Lambertian diffuse + optional Blinn-Phong specular,
// darkened by a neighbor-count ambient occlusion factor), and composites
// back-to-front with the painter's algorithm. Supersampled frames are
// downsampled to the output resolution with a Catmull-Rom filter.
//
// Basic usage:
//
//	r, err := atomcast.NewRenderer(atomcast.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	r.AutoFrame(atoms, 1.3)
//	png, err := r.Render(atoms)
//
// A Renderer is not safe for concurrent use: camera state and the spatial
// index cache are mutated in place and assume a single caller.
package atomcast
