package main

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/taigrr/icosahedron/internal/config"
	"github.com/taigrr/icosahedron/internal/logger"
	"github.com/taigrr/icosahedron/internal/window"
	"github.com/taigrr/icosahedron/pkg/gpu"
	"github.com/taigrr/icosahedron/pkg/render"
	"github.com/taigrr/icosahedron/pkg/shapes"
)

const (
	radiusStep = 1.1
	ambient    = 0.2
	pointSize  = 4
)

var lineColor = mgl32.Vec4{1, 0.5, 0, 1}

type uniforms struct {
	model, viewProj, lightDir, color   int32
	ambient, useTexture, unlit, sample int32
}

// demo owns the window, the GL objects and the camera of the OpenGL viewer.
type demo struct {
	win   *window.Window
	input *window.Input
	title string

	ico     *shapes.Icosahedron
	mesh    *gpu.MeshBuffer
	program uint32
	texture uint32
	u       uniforms

	camera  *orbitCamera
	mode    drawMode
	overlay bool
	width   int
	height  int
}

func newDemo(cfg *config.Config, ico *shapes.Icosahedron, out io.Writer) (*demo, error) {
	win, err := window.New(window.Config{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return nil, err
	}
	d := &demo{win: win, input: window.NewInput(), title: cfg.Window.Title, ico: ico}

	caps, err := gpu.Init()
	if err != nil {
		d.Close()
		return nil, err
	}
	if err := caps.Describe(out); err != nil {
		d.Close()
		return nil, err
	}
	if !caps.VBOSupported() {
		d.Close()
		return nil, fmt.Errorf("vertex buffer objects not supported by %s", caps.Renderer)
	}
	logger.Info("OpenGL ready", zap.String("renderer", caps.Renderer), zap.String("version", caps.Version))

	if d.mesh, err = gpu.NewIcosahedronBuffer(ico); err != nil {
		d.Close()
		return nil, err
	}
	if d.program, err = gpu.CompileProgram(gpu.MeshVertexShader, gpu.MeshFragmentShader); err != nil {
		d.Close()
		return nil, err
	}
	d.u = uniforms{
		model:      gpu.Uniform(d.program, "uModel"),
		viewProj:   gpu.Uniform(d.program, "uViewProj"),
		lightDir:   gpu.Uniform(d.program, "uLightDir"),
		color:      gpu.Uniform(d.program, "uColor"),
		ambient:    gpu.Uniform(d.program, "uAmbient"),
		useTexture: gpu.Uniform(d.program, "uUseTexture"),
		unlit:      gpu.Uniform(d.program, "uUnlit"),
		sample:     gpu.Uniform(d.program, "uTexture"),
	}

	img, err := loadTextureImage(cfg.Texture)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.texture = gpu.UploadTexture(img, cfg.Texture.Wrap)

	r := float32(math.Abs(ico.Radius()))
	if r == 0 {
		r = 1
	}
	d.camera = newOrbitCamera(float32(cfg.Viewer.CameraDistance)*r, r)

	gl.ClearColor(0, 0, 0, 1)
	gl.PointSize(pointSize)
	gl.PolygonOffset(1, 1)
	d.applyMode()
	d.resize()
	d.updateTitle()
	return d, nil
}

// loadTextureImage decodes the configured texture, or draws a checkerboard
// when none is set.
func loadTextureImage(cfg config.TextureConfig) (image.Image, error) {
	if cfg.Path == "" {
		return render.NewCheckerTexture(256, 256, 32, render.RGB(255, 255, 255), render.RGB(96, 96, 96)).ToImage(), nil
	}
	tex, err := render.LoadTexture(cfg.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded texture", zap.String("path", cfg.Path), zap.Int("width", tex.Width), zap.Int("height", tex.Height))
	return tex.ToImage(), nil
}

// Run draws frames until the window closes or Esc is pressed.
func (d *demo) Run() {
	for {
		if d.input.Update() {
			return
		}
		for _, e := range d.input.Events() {
			if !d.handle(e) {
				return
			}
		}
		d.draw()
		d.win.SwapBuffers()
	}
}

// handle applies one event. It returns false to quit.
func (d *demo) handle(e window.Event) bool {
	switch e.Type {
	case window.EventKeyDown:
		switch e.Key {
		case sdl.K_ESCAPE:
			return false
		case sdl.K_d:
			d.mode = d.mode.next()
			d.applyMode()
			logger.Debug("draw mode", zap.Stringer("mode", d.mode))
		case sdl.K_w:
			d.overlay = !d.overlay
		case sdl.K_PLUS, sdl.K_EQUALS, sdl.K_KP_PLUS:
			d.rescale(radiusStep)
		case sdl.K_MINUS, sdl.K_KP_MINUS:
			d.rescale(1 / radiusStep)
		}
	case window.EventMouseDown:
		d.camera.press(toDragButton(e.Button), e.MouseX, e.MouseY)
	case window.EventMouseUp:
		d.camera.release(toDragButton(e.Button), e.MouseX, e.MouseY)
	case window.EventMouseMove:
		d.camera.move(e.MouseX, e.MouseY)
	case window.EventWindowResize:
		d.resize()
	}
	return true
}

func toDragButton(b uint8) dragButton {
	switch b {
	case sdl.BUTTON_LEFT:
		return dragRotate
	case sdl.BUTTON_RIGHT:
		return dragZoom
	}
	return dragNone
}

// applyMode sets the GL state for the draw mode. Only filled faces are
// depth tested and culled, so the wireframe and points show the far side.
func (d *demo) applyMode() {
	switch d.mode {
	case drawFill:
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		gl.Enable(gl.DEPTH_TEST)
		gl.Enable(gl.CULL_FACE)
		gl.Enable(gl.POLYGON_OFFSET_FILL)
	case drawWireframe:
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		gl.Disable(gl.DEPTH_TEST)
		gl.Disable(gl.CULL_FACE)
	case drawPoints:
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.POINT)
		gl.Disable(gl.DEPTH_TEST)
		gl.Disable(gl.CULL_FACE)
	}
}

// rescale resizes the icosahedron in place and rewrites the vertex buffer.
func (d *demo) rescale(factor float64) {
	d.ico.SetRadius(d.ico.Radius() * factor)
	if err := d.mesh.Update(d.ico.InterleavedVertices()); err != nil {
		logger.Error("update vertex buffer", zap.Error(err))
		return
	}
	logger.Debug("rescaled", zap.Float64("radius", d.ico.Radius()), zap.Float64("edge_length", d.ico.EdgeLength()))
	d.updateTitle()
}

func (d *demo) updateTitle() {
	d.win.SetTitle(fmt.Sprintf("%s - radius %.3g, edge %.3g", d.title, d.ico.Radius(), d.ico.EdgeLength()))
}

func (d *demo) resize() {
	d.width, d.height = d.win.GetSize()
	gl.Viewport(0, 0, int32(d.width), int32(d.height))
}

func (d *demo) draw() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(d.program)

	model := modelMatrix()
	viewProj := projection(d.width, d.height).Mul4(d.camera.view())
	light := d.camera.headlight()
	gl.UniformMatrix4fv(d.u.model, 1, false, &model[0])
	gl.UniformMatrix4fv(d.u.viewProj, 1, false, &viewProj[0])
	gl.Uniform3f(d.u.lightDir, light.X(), light.Y(), light.Z())
	gl.Uniform1f(d.u.ambient, ambient)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, d.texture)
	gl.Uniform1i(d.u.sample, 0)
	gl.Uniform1i(d.u.useTexture, 1)
	gl.Uniform1i(d.u.unlit, 0)
	gl.Uniform4f(d.u.color, 1, 1, 1, 1)

	if d.mode == drawPoints {
		d.mesh.Draw(gl.POINTS)
	} else {
		d.mesh.Draw(gl.TRIANGLES)
	}

	if d.overlay {
		gl.Uniform1i(d.u.useTexture, 0)
		gl.Uniform1i(d.u.unlit, 1)
		gl.Uniform4fv(d.u.color, 1, &lineColor[0])
		d.mesh.DrawLines()
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Close releases the GL objects and the window.
func (d *demo) Close() {
	if d.mesh != nil {
		d.mesh.Delete()
	}
	if d.program != 0 {
		gl.DeleteProgram(d.program)
	}
	if d.texture != 0 {
		gpu.DeleteTexture(d.texture)
	}
	d.win.Close()
}
