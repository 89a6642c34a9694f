package main

import (
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/taigrr/icosahedron/internal/config"
	"github.com/taigrr/icosahedron/pkg/render"
	"github.com/taigrr/icosahedron/pkg/shapes"
)

func newTestViewer(t *testing.T) *viewer {
	t.Helper()
	cfg := config.Default()
	s, err := newScene(shapes.NewIcosahedron(1), 48, 48, cfg.Viewer, cfg.Texture)
	if err != nil {
		t.Fatalf("newScene: %v", err)
	}
	return newViewer(s, cfg.Viewer.FPS, false, false)
}

func litPixels(fb *render.Framebuffer) int {
	n := 0
	bg := render.ColorFromRGBA(fb.BG)
	for _, c := range fb.Pixels {
		if c != bg {
			n++
		}
	}
	return n
}

func TestViewerToggles(t *testing.T) {
	v := newTestViewer(t)

	tests := []struct {
		key   byte
		check func() bool
	}{
		{'x', func() bool { return v.state.RenderMode == RenderModeWireframe }},
		{'X', func() bool { return v.state.RenderMode == RenderModeTextured }},
		{'f', func() bool { return v.state.mode() == RenderModeFlat }},
		{'f', func() bool { return v.state.mode() == RenderModeTextured }},
		{'t', func() bool { return v.state.mode() == RenderModeFlat }},
		{'T', func() bool { return v.state.mode() == RenderModeTextured }},
		{'o', func() bool { return v.state.Overlay }},
		{'b', func() bool { return !v.state.BackfaceCull }},
		{'?', func() bool { return v.state.ShowHUD }},
		{' ', func() bool { return v.state.SpinMode && v.spin.Yaw.Velocity == 0.02 }},
		{'r', func() bool { return !v.state.SpinMode && v.spin.Yaw.Velocity == 0 }},
	}
	for i, tt := range tests {
		if !v.handleKey(tt.key) {
			t.Fatalf("step %d: key %q quit the viewer", i, tt.key)
		}
		if !tt.check() {
			t.Errorf("step %d: key %q did not apply", i, tt.key)
		}
	}
}

func TestViewerQuitKeys(t *testing.T) {
	v := newTestViewer(t)

	v.handleKey('l')
	if !v.state.LightMode {
		t.Fatal("l did not enter light mode")
	}
	if !v.handleKey(27) {
		t.Error("Esc in light mode should only leave light mode")
	}
	if v.state.LightMode {
		t.Error("Esc did not leave light mode")
	}

	for _, key := range []byte{27, 3, 4} {
		if v.handleKey(key) {
			t.Errorf("key %d did not quit", key)
		}
	}
}

func TestViewerZoomClamp(t *testing.T) {
	v := newTestViewer(t)
	for range 100 {
		v.handleKey('+')
	}
	if v.scene.zoom != minZoom {
		t.Errorf("zoom = %f, want %f", v.scene.zoom, minZoom)
	}
	if z := v.scene.camera.Position.Z; math.Abs(z-minZoom) > 1e-9 {
		t.Errorf("camera z = %f, want %f", z, minZoom)
	}
	for range 100 {
		v.handleKey('-')
	}
	if v.scene.zoom != maxZoom {
		t.Errorf("zoom = %f, want %f", v.scene.zoom, maxZoom)
	}
}

func TestViewerRescale(t *testing.T) {
	v := newTestViewer(t)
	ico := v.scene.ico

	v.handleKey(']')
	if math.Abs(ico.Radius()-radiusStep) > 1e-12 {
		t.Errorf("radius = %f, want %f", ico.Radius(), radiusStep)
	}
	if math.Abs(ico.EdgeLength()-ico.Radius()/math.Sin(2*math.Pi/5)) > 1e-12 {
		t.Errorf("edge length %f does not follow radius %f", ico.EdgeLength(), ico.Radius())
	}
	pos, _, _ := v.scene.mesh.GetVertex(0)
	if math.Abs(pos.Z-radiusStep) > 1e-6 {
		t.Errorf("north pole z = %f, want %f", pos.Z, radiusStep)
	}
	if z := v.scene.camera.Position.Z; math.Abs(z-v.scene.zoom*radiusStep) > 1e-9 {
		t.Errorf("camera did not follow the radius: z = %f", z)
	}

	v.handleKey('[')
	if math.Abs(ico.Radius()-1) > 1e-12 {
		t.Errorf("radius after shrink = %f, want 1", ico.Radius())
	}
}

func TestViewerStep(t *testing.T) {
	v := newTestViewer(t)
	v.step(1.0 / 30)
	if litPixels(v.scene.fb) == 0 {
		t.Fatal("frame drew nothing")
	}
	solid := append([]render.Color(nil), v.scene.fb.Pixels...)

	v.handleKey('x')
	v.step(1.0 / 30)
	if litPixels(v.scene.fb) == 0 {
		t.Fatal("wireframe frame drew nothing")
	}
	if slices.Equal(solid, v.scene.fb.Pixels) {
		t.Error("wireframe frame equals the solid frame")
	}
}

func TestSpinDamping(t *testing.T) {
	s := NewSpin(30)
	s.Push(0, 0.1, 0)
	for range 120 {
		s.Step(true)
	}
	if math.Abs(s.Yaw.Velocity) > 1e-3 {
		t.Errorf("velocity after damping = %f", s.Yaw.Velocity)
	}
	if s.Yaw.Angle <= 0 {
		t.Errorf("angle = %f, want positive", s.Yaw.Angle)
	}

	s.Reset()
	s.Push(0.05, 0, 0)
	for range 10 {
		s.Step(false)
	}
	if s.Pitch.Velocity != 0.05 {
		t.Errorf("undamped velocity changed to %f", s.Pitch.Velocity)
	}
	if math.Abs(s.Pitch.Angle-0.5) > 1e-9 {
		t.Errorf("angle = %f, want 0.5", s.Pitch.Angle)
	}
}

func TestScreenToLightDir(t *testing.T) {
	v := NewViewState()
	center := v.ScreenToLightDir(50, 50, 100, 100)
	if math.Abs(center.Z-1) > 1e-9 {
		t.Errorf("center maps to %v, want +Z", center)
	}
	top := v.ScreenToLightDir(50, 0, 100, 100)
	if top.Y <= 0.99 {
		t.Errorf("top edge maps to %v, want +Y", top)
	}
	corner := v.ScreenToLightDir(0, 0, 100, 100)
	if math.Abs(corner.Len()-1) > 1e-9 {
		t.Errorf("corner direction %v is not unit", corner)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "10,20,30", want: color.RGBA{10, 20, 30, 255}},
		{in: "#ff8000", want: color.RGBA{255, 128, 0, 255}},
		{in: "#FF8000", want: color.RGBA{255, 128, 0, 255}},
		{in: "red", wantErr: true},
		{in: "1,2", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseColor(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
