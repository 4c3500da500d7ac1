package atomcast

import "errors"

// Errors returned by the render pipeline. All are terminal for the call in
// progress: no partial or degraded image is ever returned alongside an error.
// Degenerate per-atom conditions (atoms behind the camera, near-zero
// homogeneous coordinates) are not errors; the affected atom is silently
// excluded from the frame instead.
var (
	// ErrInvalidConfig reports a render configuration that cannot produce
	// an image, such as a non-positive width or height.
	ErrInvalidConfig = errors.New("atomcast: invalid render config")

	// ErrEncodingFailure reports that image serialization failed.
	ErrEncodingFailure = errors.New("atomcast: image encoding failed")

	// ErrResourceWrite reports that writing the encoded image failed.
	ErrResourceWrite = errors.New("atomcast: output write failed")
)
