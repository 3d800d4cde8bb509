// Package camera provides the fixed camera the square is viewed through.
package camera

import "github.com/AlexStampfl/3D-Square/pkg/math"

// Clip planes.
const (
	ZNear float32 = 0.1
	ZFar  float32 = 100.0
)

// FixedCamera looks down -Z at an object placed Distance units away.
type FixedCamera struct {
	FieldOfView float32 // vertical, degrees
	Distance    float32
}

// NewFixedCamera creates a camera with a 45 degree field of view, six units
// from the object.
func NewFixedCamera() FixedCamera {
	return FixedCamera{FieldOfView: 45, Distance: 6}
}

// Projection returns the perspective matrix for a viewport. A degenerate
// height is treated as square.
func (c FixedCamera) Projection(width, height int) math.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return math.Perspective(math.Radians(c.FieldOfView), aspect, ZNear, ZFar)
}

// ModelView places the object in front of the camera, turned by angle
// radians around the view axis.
func (c FixedCamera) ModelView(angle float32) math.Mat4 {
	return math.Translate(0, 0, -c.Distance).Mul(math.RotateZ(angle))
}
