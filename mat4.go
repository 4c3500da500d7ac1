package atomcast

import "github.com/chewxy/math32"

// Mat4 represents a 4x4 transformation matrix in column-major order:
// m[col][row], matching the OpenGL convention used by the projection math.
type Mat4 [4][4]float32

// Mul composes two transforms such that applying the result equals applying
// other first, then m: m.Mul(other).Transform(p) == m.Transform of
// other.Transform(p). In the column-major storage this accumulates
// other[i][k] * m[k][j].
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += other[i][k] * m[k][j]
			}
			result[i][j] = sum
		}
	}
	return result
}

// Transform applies the matrix to a position, returning the homogeneous
// result. The input is treated as a point (w = 1).
func (m Mat4) Transform(p Vec3) Vec4 {
	return Vec4{
		X: m[0][0]*p.X + m[1][0]*p.Y + m[2][0]*p.Z + m[3][0],
		Y: m[0][1]*p.X + m[1][1]*p.Y + m[2][1]*p.Z + m[3][1],
		Z: m[0][2]*p.X + m[1][2]*p.Y + m[2][2]*p.Z + m[3][2],
		W: m[0][3]*p.X + m[1][3]*p.Y + m[2][3]*p.Z + m[3][3],
	}
}

// LookAt builds a view matrix from camera position, target and up vector
// using Gram-Schmidt orthonormalization: forward toward the target, right
// from forward x up, true up from right x forward.
//
// A degenerate input (position equal to target, or up parallel to forward)
// yields a singular matrix; atoms transformed through it are rejected later
// by the per-atom homogeneous checks rather than failing the render.
func LookAt(position, target, up Vec3) Mat4 {
	f := target.Sub(position).Normalize()
	r := f.Cross(up).Normalize()
	u := r.Cross(f)

	return Mat4{
		{r.X, u.X, -f.X, 0},
		{r.Y, u.Y, -f.Y, 0},
		{r.Z, u.Z, -f.Z, 0},
		{
			-r.Dot(position),
			-u.Dot(position),
			f.Dot(position),
			1,
		},
	}
}

// Perspective builds a perspective projection matrix for a vertical field
// of view fovY (radians), the given aspect ratio, and near/far clip planes.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)

	return Mat4{
		{f / aspect, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, (far + near) / (near - far), -1},
		{0, 0, (2 * far * near) / (near - far), 0},
	}
}

// Plane represents a half-space in the form Ax + By + Cz + D = 0.
// Points with a non-negative signed distance lie on the inside.
type Plane struct {
	A, B, C, D float32
}

// DistanceTo returns the signed distance from the plane to a point.
func (p Plane) DistanceTo(v Vec3) float32 {
	return p.A*v.X + p.B*v.Y + p.C*v.Z + p.D
}

// Frustum holds the 6 bounding planes of a view volume, in the order
// left, right, bottom, top, near, far.
type Frustum [6]Plane

// FrustumFromMatrix extracts the 6 frustum planes from a combined
// view-projection matrix using the Gribb-Hartmann construction: each plane
// is the w row of the matrix plus or minus one of the x/y/z rows, so that a
// point passing all six half-space tests is exactly the point whose clip
// coordinates satisfy -w <= x,y,z <= w. Each plane is normalized to unit
// normal length so signed distances are comparable across planes.
func FrustumFromMatrix(vp Mat4) Frustum {
	// axisPlane builds the plane w + sign*axisRow; in the column-major
	// storage, row r of the classic matrix is vp[c][r] across columns c.
	axisPlane := func(axis int, sign float32) Plane {
		return Plane{
			A: vp[0][3] + sign*vp[0][axis],
			B: vp[1][3] + sign*vp[1][axis],
			C: vp[2][3] + sign*vp[2][axis],
			D: vp[3][3] + sign*vp[3][axis],
		}
	}

	planes := Frustum{
		axisPlane(0, 1),  // left: w + x
		axisPlane(0, -1), // right: w - x
		axisPlane(1, 1),  // bottom: w + y
		axisPlane(1, -1), // top: w - y
		axisPlane(2, 1),  // near: w + z
		axisPlane(2, -1), // far: w - z
	}

	for i := range planes {
		p := &planes[i]
		length := math32.Sqrt(p.A*p.A + p.B*p.B + p.C*p.C)
		if length > 1e-6 {
			p.A /= length
			p.B /= length
			p.C /= length
			p.D /= length
		}
	}

	return planes
}
