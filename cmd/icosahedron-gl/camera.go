package main

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	fovDegrees = 60
	nearPlane  = 0.1
	farPlane   = 1000

	// zoomPerPixel is the camera travel per pixel of right drag, in radii.
	zoomPerPixel = 0.02
	minDistance  = 2 * nearPlane
)

// dragButton is the mouse button driving the orbit camera.
type dragButton int

const (
	dragNone dragButton = iota
	dragRotate
	dragZoom
)

// orbitCamera looks at the origin from distance along +Z, pitched by
// angleX and turned by angleY (both in degrees).
type orbitCamera struct {
	angleX, angleY float32
	distance       float32
	zoomScale      float32

	rotating, zooming bool
	mouseX, mouseY    int
}

func newOrbitCamera(distance, zoomScale float32) *orbitCamera {
	return &orbitCamera{distance: distance, zoomScale: zoomScale}
}

func (c *orbitCamera) press(b dragButton, x, y int) {
	c.mouseX, c.mouseY = x, y
	switch b {
	case dragRotate:
		c.rotating = true
	case dragZoom:
		c.zooming = true
	}
}

func (c *orbitCamera) release(b dragButton, x, y int) {
	c.mouseX, c.mouseY = x, y
	switch b {
	case dragRotate:
		c.rotating = false
	case dragZoom:
		c.zooming = false
	}
}

// move rotates one degree per pixel on a left drag and dollies on a right
// drag; dragging down pulls the camera closer.
func (c *orbitCamera) move(x, y int) {
	dx, dy := float32(x-c.mouseX), float32(y-c.mouseY)
	if c.rotating {
		c.angleY += dx
		c.angleX += dy
	}
	if c.zooming {
		c.distance = max(minDistance, c.distance-dy*zoomPerPixel*c.zoomScale)
	}
	c.mouseX, c.mouseY = x, y
}

func (c *orbitCamera) rotation() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(mgl32.DegToRad(c.angleX)).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(c.angleY)))
}

func (c *orbitCamera) view() mgl32.Mat4 {
	return mgl32.Translate3D(0, 0, -c.distance).Mul4(c.rotation())
}

// headlight is the world space direction of a light fixed to the camera,
// shining along the view axis.
func (c *orbitCamera) headlight() mgl32.Vec3 {
	return c.rotation().Transpose().Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
}

func projection(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(fovDegrees), aspect, nearPlane, farPlane)
}

// modelMatrix stands the z-up icosahedron upright, north pole at the top.
func modelMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(mgl32.DegToRad(-90))
}

// drawMode is the polygon rasterization mode cycled with the d key.
type drawMode int

const (
	drawFill drawMode = iota
	drawWireframe
	drawPoints
)

func (m drawMode) next() drawMode {
	return (m + 1) % 3
}

func (m drawMode) String() string {
	switch m {
	case drawFill:
		return "fill"
	case drawWireframe:
		return "wireframe"
	case drawPoints:
		return "points"
	}
	return "unknown"
}
