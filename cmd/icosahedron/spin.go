package main

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/icosahedron/pkg/math3d"
)

// spinAxis is one rotation angle whose angular velocity eases back to zero
// on a critically damped spring.
type spinAxis struct {
	Angle    float64
	Velocity float64

	spring harmonica.Spring
	accel  float64
}

func newSpinAxis(fps float64) spinAxis {
	return spinAxis{
		// Frequency 4 settles in about a second without overshoot.
		spring: harmonica.NewSpring(harmonica.FPS(int(math.Round(fps))), 4.0, 1.0),
	}
}

func (a *spinAxis) step(damping bool) {
	a.Angle += a.Velocity
	if damping {
		a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
	}
}

// Spin holds the pitch, yaw and roll of the viewed mesh.
type Spin struct {
	Pitch, Yaw, Roll spinAxis
	fps              float64
}

// NewSpin creates a resting spin stepped fps times per second.
func NewSpin(fps float64) *Spin {
	s := &Spin{fps: fps}
	s.Reset()
	return s
}

// Step advances every axis by one frame. Without damping the current
// velocities are kept, which is the auto-spin mode.
func (s *Spin) Step(damping bool) {
	s.Pitch.step(damping)
	s.Yaw.step(damping)
	s.Roll.step(damping)
}

// Push adds angular velocity in radians per frame.
func (s *Spin) Push(pitch, yaw, roll float64) {
	s.Pitch.Velocity += pitch
	s.Yaw.Velocity += yaw
	s.Roll.Velocity += roll
}

// Reset stops and re-centers all axes.
func (s *Spin) Reset() {
	s.Pitch = newSpinAxis(s.fps)
	s.Yaw = newSpinAxis(s.fps)
	s.Roll = newSpinAxis(s.fps)
}

// Matrix is RotateX(pitch) * RotateY(yaw) * RotateZ(roll).
func (s *Spin) Matrix() math3d.Mat4 {
	return math3d.RotateX(s.Pitch.Angle).
		Mul(math3d.RotateY(s.Yaw.Angle)).
		Mul(math3d.RotateZ(s.Roll.Angle))
}
