package render

import (
	"math"

	"github.com/taigrr/icosahedron/pkg/math3d"
)

// Camera is a perspective camera looking at a target point.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3

	FOV    float64 // vertical field of view in radians
	Aspect float64
	Near   float64
	Far    float64
}

// NewCamera returns a camera at (0,0,5) looking at the origin with a 60°
// field of view.
func NewCamera() *Camera {
	return &Camera{
		Position: math3d.V3(0, 0, 5),
		Up:       math3d.V3(0, 1, 0),
		FOV:      math.Pi / 3,
		Aspect:   1,
		Near:     0.1,
		Far:      100,
	}
}

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(aspect float64) { c.Aspect = aspect }

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) { c.FOV = fov }

// SetClipPlanes sets the near and far clip distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near, c.Far = near, far
}

// SetPosition moves the camera without changing its target.
func (c *Camera) SetPosition(p math3d.Vec3) { c.Position = p }

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) { c.Target = target }

// ViewMatrix returns the world to eye transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAt(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the eye to clip transform.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	return math3d.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}
