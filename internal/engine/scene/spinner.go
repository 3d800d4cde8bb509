// Package scene holds the per-frame state of the square.
package scene

import "math"

// Spinner advances a rotation angle with frame time.
type Spinner struct {
	Speed   float32 // radians per second
	Animate bool
	angle   float32
}

// NewSpinner creates a spinner at angle zero.
func NewSpinner(speed float32, animate bool) *Spinner {
	return &Spinner{Speed: speed, Animate: animate}
}

// Angle returns the current angle in [0, 2π).
func (s *Spinner) Angle() float32 {
	return s.angle
}

// Advance moves the angle forward by Speed*dt when animating.
func (s *Spinner) Advance(dt float64) {
	if !s.Animate || dt <= 0 {
		return
	}
	a := math.Mod(float64(s.angle)+float64(s.Speed)*dt, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	s.angle = float32(a)
}

// Toggle pauses or resumes the animation.
func (s *Spinner) Toggle() {
	s.Animate = !s.Animate
}
