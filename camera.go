package atomcast

// Camera field-of-view and clip-plane constants shared by the projection
// and auto-framing math. The vertical field of view is fixed at 45 degrees.
const (
	cameraFovY = 45.0 * (3.14159265358979 / 180.0)
	cameraNear = 0.1
	cameraFar  = 1000.0
)

// worldUp is the fixed up direction restored by ResetCamera and AutoFrame.
var worldUp = Vec3{X: 0, Y: 1, Z: 0}

// Camera describes the viewpoint for a render: its position, the point it
// looks at, and its up direction. Camera state is read once per render call.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
}

// defaultCamera returns the camera used before any explicit placement:
// 50 world units up the +Z axis, looking at the origin.
func defaultCamera() Camera {
	return Camera{
		Position: Vec3{X: 0, Y: 0, Z: 50},
		Target:   Vec3{},
		Up:       worldUp,
	}
}

// ViewMatrix builds the look-at view matrix for the camera.
func (c Camera) ViewMatrix() Mat4 {
	return LookAt(c.Position, c.Target, c.Up)
}
