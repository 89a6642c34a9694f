package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/taigrr/icosahedron/internal/config"
	"github.com/taigrr/icosahedron/internal/logger"
	"github.com/taigrr/icosahedron/pkg/math3d"
	"github.com/taigrr/icosahedron/pkg/render"
	"github.com/taigrr/icosahedron/pkg/shapes"
)

// RenderMode controls how the mesh is drawn.
type RenderMode int

const (
	RenderModeTextured  RenderMode = iota // Texture modulated by lighting
	RenderModeFlat                        // Solid color, one shade per face
	RenderModeWireframe                   // Edges only (x-ray)
)

var (
	solidColor = render.RGB(200, 200, 200)
	wireColor  = render.RGB(0, 255, 128)
)

// scene draws an icosahedron through the software rasterizer. The mesh view
// aliases the icosahedron buffers.
type scene struct {
	ico     *shapes.Icosahedron
	mesh    *render.InterleavedMesh
	camera  *render.Camera
	fb      *render.Framebuffer
	rast    *render.Rasterizer
	texture *render.Texture

	// zoom is the camera distance in multiples of the radius.
	zoom float64
}

func newScene(ico *shapes.Icosahedron, width, height int, viewer config.ViewerConfig, tex config.TextureConfig) (*scene, error) {
	fb := render.NewFramebuffer(width, height)
	if viewer.Background != "" {
		bg, err := parseColor(viewer.Background)
		if err != nil {
			return nil, err
		}
		fb.BG = bg
		fb.Clear()
	}

	camera := render.NewCamera()
	camera.SetAspectRatio(float64(width) / float64(height))
	camera.SetFOV(math.Pi / 3)
	camera.SetClipPlanes(0.01, 1000)
	camera.LookAt(math3d.Zero3())

	s := &scene{
		ico:    ico,
		mesh:   render.NewInterleavedMesh(ico.InterleavedVertices(), ico.Indices(), ico.LineIndices()),
		camera: camera,
		fb:     fb,
		rast:   render.NewRasterizer(camera, fb),
		zoom:   viewer.CameraDistance,
	}

	if tex.Path != "" {
		t, err := render.LoadTexture(tex.Path)
		if err != nil {
			return nil, err
		}
		if !tex.Wrap {
			t.WrapU, t.WrapV = render.WrapClamp, render.WrapClamp
		}
		logger.Debug("loaded texture", zap.String("path", tex.Path), zap.Int("width", t.Width), zap.Int("height", t.Height))
		s.texture = t
	}

	s.updateCamera()
	return s, nil
}

// updateCamera keeps the camera zoom radii away from the center.
func (s *scene) updateCamera() {
	r := math.Abs(s.ico.Radius())
	if r < 1e-6 {
		r = 1
	}
	s.camera.SetPosition(math3d.V3(0, 0, s.zoom*r))
}

// refresh re-reads the icosahedron buffers, which a rebuild replaces.
func (s *scene) refresh() {
	s.mesh = render.NewInterleavedMesh(s.ico.InterleavedVertices(), s.ico.Indices(), s.ico.LineIndices())
	s.updateCamera()
}

func (s *scene) resize(width, height int) {
	s.fb.Resize(width, height)
	s.camera.SetAspectRatio(float64(width) / float64(height))
}

// draw clears the framebuffer and draws one frame.
func (s *scene) draw(transform math3d.Mat4, mode RenderMode, lightDir math3d.Vec3, overlay bool) {
	s.fb.Clear()
	s.rast.ClearDepth()

	switch mode {
	case RenderModeWireframe:
		s.rast.DrawMeshWireframe(s.mesh, transform, wireColor)
		return
	case RenderModeTextured:
		if s.texture != nil {
			s.rast.DrawMeshTextured(s.mesh, transform, s.texture, lightDir)
			break
		}
		fallthrough
	default:
		s.rast.DrawMeshGouraud(s.mesh, transform, solidColor, lightDir)
	}

	if overlay {
		s.rast.DrawMeshWireframe(s.mesh, transform, wireColor)
	}
}

// parseColor accepts "R,G,B" or "#rrggbb".
func parseColor(s string) (color.RGBA, error) {
	c := color.RGBA{A: 255}
	var err error
	if strings.HasPrefix(s, "#") {
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	} else {
		_, err = fmt.Sscanf(s, "%d,%d,%d", &c.R, &c.G, &c.B)
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q (use R,G,B or #rrggbb): %w", s, err)
	}
	return c, nil
}
