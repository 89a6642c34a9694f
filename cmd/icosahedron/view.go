package main

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"fortio.org/terminal/ansipixels"
	"fortio.org/terminal/ansipixels/tcolor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/icosahedron/internal/logger"
	"github.com/taigrr/icosahedron/pkg/math3d"
)

const (
	torqueStrength = 3.0
	minZoom        = 1.2
	maxZoom        = 20.0
	radiusStep     = 1.1
)

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Interactive terminal viewer",
		Long: `Show the icosahedron in the terminal.

Controls:
  Mouse drag  - Rotate
  Scroll      - Zoom in/out
  W/S/A/D     - Pitch and yaw
  Q/E         - Roll left/right
  Space       - Toggle auto-spin
  R           - Reset view
  T           - Toggle texture
  F           - Toggle flat shading
  X           - Toggle wireframe (x-ray)
  O           - Toggle edge overlay
  B           - Toggle backface culling
  [ ]         - Shrink/grow the radius
  L           - Position light (mouse to aim, click to set)
  ?           - Toggle HUD overlay
  +/-         - Zoom
  Esc         - Quit`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.runView()
		},
	}
}

// ViewState holds the viewer UI settings.
type ViewState struct {
	TextureEnabled bool
	RenderMode     RenderMode
	Overlay        bool
	LightMode      bool
	LightDir       math3d.Vec3
	PendingLight   math3d.Vec3
	ShowHUD        bool
	SpinMode       bool
	BackfaceCull   bool
}

// NewViewState creates the default view state.
func NewViewState() *ViewState {
	return &ViewState{
		TextureEnabled: true,
		RenderMode:     RenderModeTextured,
		LightDir:       math3d.V3(0.5, 1, 0.3).Normalize(),
		BackfaceCull:   true,
	}
}

// ScreenToLightDir maps a screen position onto the hemisphere facing the
// viewer and returns it as a light direction.
func (v *ViewState) ScreenToLightDir(screenX, screenY, width, height int) math3d.Vec3 {
	nx := (float64(screenX)/float64(width))*2 - 1
	ny := (float64(screenY)/float64(height))*2 - 1

	lenSq := nx*nx + ny*ny
	if lenSq > 1 {
		length := math.Sqrt(lenSq)
		nx /= length
		ny /= length
		lenSq = 1
	}
	nz := math.Sqrt(1 - lenSq)

	return math3d.V3(nx, -ny, nz).Normalize()
}

// mode is the effective render mode after the texture toggle.
func (v *ViewState) mode() RenderMode {
	if v.RenderMode == RenderModeTextured && !v.TextureEnabled {
		return RenderModeFlat
	}
	return v.RenderMode
}

// viewer is the terminal independent part of the view command: key
// handling, spin physics and drawing.
type viewer struct {
	scene  *scene
	spin   *Spin
	state  *ViewState
	torque struct{ pitch, yaw, roll float64 }
}

func newViewer(s *scene, fps float64, spinning, wireframe bool) *viewer {
	v := &viewer{scene: s, spin: NewSpin(fps), state: NewViewState()}
	if wireframe {
		v.state.RenderMode = RenderModeWireframe
	}
	if spinning {
		v.state.SpinMode = true
		v.spin.Yaw.Velocity = 0.02
	}
	return v
}

// handleKey applies one key press. It returns false to quit.
func (v *viewer) handleKey(b byte) bool {
	st := v.state
	switch b {
	case 'q', 'Q':
		v.torque.roll = -torqueStrength
	case 'e', 'E':
		v.torque.roll = torqueStrength
	case 'w', 'W':
		v.torque.pitch = -torqueStrength
	case 's', 'S':
		v.torque.pitch = torqueStrength
	case 'a', 'A':
		v.torque.yaw = -torqueStrength
	case 'd', 'D':
		v.torque.yaw = torqueStrength
	case 'r', 'R':
		v.spin.Reset()
		v.torque = struct{ pitch, yaw, roll float64 }{}
		st.SpinMode = false
	case 't', 'T':
		st.TextureEnabled = !st.TextureEnabled
	case 'f', 'F':
		if st.RenderMode == RenderModeFlat {
			st.RenderMode = RenderModeTextured
		} else {
			st.RenderMode = RenderModeFlat
		}
	case 'x', 'X':
		if st.RenderMode == RenderModeWireframe {
			st.RenderMode = RenderModeTextured
		} else {
			st.RenderMode = RenderModeWireframe
		}
	case 'o', 'O':
		st.Overlay = !st.Overlay
	case 'b', 'B':
		st.BackfaceCull = !st.BackfaceCull
	case 'l', 'L':
		st.LightMode = true
		st.PendingLight = st.LightDir
	case '?':
		st.ShowHUD = !st.ShowHUD
	case '+', '=':
		v.zoom(-0.25)
	case '-', '_':
		v.zoom(0.25)
	case '[':
		v.rescale(1 / radiusStep)
	case ']':
		v.rescale(radiusStep)
	case ' ':
		st.SpinMode = !st.SpinMode
		if st.SpinMode {
			v.spin.Yaw.Velocity = 0.02
		}
	case 27: // Escape
		if st.LightMode {
			st.LightMode = false
			return true
		}
		return false
	case 3, 4: // Ctrl-C, Ctrl-D
		return false
	}
	return true
}

func (v *viewer) zoom(delta float64) {
	v.scene.zoom = min(maxZoom, max(minZoom, v.scene.zoom+delta))
	v.scene.updateCamera()
}

// rescale resizes the icosahedron in place. The camera follows the radius,
// so the mesh keeps its apparent size while the HUD reports the new values.
func (v *viewer) rescale(factor float64) {
	ico := v.scene.ico
	ico.SetRadius(ico.Radius() * factor)
	v.scene.refresh()
	logger.Debug("rescaled", zap.Float64("radius", ico.Radius()), zap.Float64("edge_length", ico.EdgeLength()))
}

// step advances the physics by dt seconds and draws a frame.
func (v *viewer) step(dt float64) {
	dt = min(dt, 0.1)
	v.spin.Push(v.torque.pitch*dt, v.torque.yaw*dt, v.torque.roll*dt)
	v.torque.pitch *= 0.9
	v.torque.yaw *= 0.9
	v.torque.roll *= 0.9
	v.spin.Step(!v.state.SpinMode)

	light := v.state.LightDir
	if v.state.LightMode {
		light = v.state.PendingLight
	}
	v.scene.rast.DisableBackfaceCulling = !v.state.BackfaceCull
	v.scene.draw(v.spin.Matrix(), v.state.mode(), light, v.state.Overlay)
}

// HUD renders an overlay with mesh info and mode status.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	v         *viewer
}

// NewHUD creates a HUD for v.
func NewHUD(v *viewer) *HUD {
	return &HUD{fpsTime: time.Now(), v: v}
}

// UpdateFPS counts a frame.
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Draw writes the overlay over the last image.
func (h *HUD) Draw(ap *ansipixels.AnsiPixels) {
	st := h.v.state
	if st.LightMode {
		ap.WriteCentered(ap.H-1, "%s◉ LIGHT MODE - Move mouse to position, click to set, Esc to cancel%s",
			tcolor.BrightYellow.Foreground(), tcolor.Reset)
		return
	}
	if !st.ShowHUD {
		return
	}

	ico := h.v.scene.ico
	ap.WriteAt(0, 0, tcolor.Green.Foreground()+"%.0f FPS "+tcolor.Reset, h.fps)
	ap.WriteCentered(0, "r=%.3g edge=%.3g", ico.Radius(), ico.EdgeLength())
	ap.WriteRight(0, tcolor.Cyan.Foreground()+"%d tris"+tcolor.Reset, ico.TriangleCount())

	mode := st.mode()
	ap.WriteAt(0, ap.H-1, "%s Texture  %s Flat  %s X-Ray  %s Edges  %s Cull",
		check(mode == RenderModeTextured), check(mode == RenderModeFlat),
		check(mode == RenderModeWireframe), check(st.Overlay), check(st.BackfaceCull))
	ap.WriteRight(ap.H-1, "%s[ ] radius  L: light%s", tcolor.Yellow.Foreground(), tcolor.Reset)
}

func check(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

func (a *app) runView() error {
	cfg := a.cfg.Viewer

	ap := ansipixels.NewAnsiPixels(cfg.FPS)
	if err := ap.Open(); err != nil {
		return fmt.Errorf("open ansipixels: %w", err)
	}
	defer func() {
		ap.ShowCursor()
		ap.MouseTrackingOff()
		ap.Out.Flush()
		ap.Restore()
	}()
	ap.SyncBackgroundColor()
	ap.MouseTrackingOn()
	ap.HideCursor()

	// Half-block characters give two pixels per cell vertically.
	s, err := newScene(a.icosahedron(), ap.W, ap.H*2, cfg, a.cfg.Texture)
	if err != nil {
		return err
	}
	if cfg.Background == "" {
		s.fb.BG = color.RGBA{ap.Background.R, ap.Background.G, ap.Background.B, 255}
	}

	v := newViewer(s, cfg.FPS, cfg.Spin, cfg.Wireframe)
	hud := NewHUD(v)
	logger.Info("viewer started", zap.Int("width", ap.W), zap.Int("height", ap.H), zap.Float64("fps", cfg.FPS))

	lastMouseX, lastMouseY := 0, 0
	ap.OnMouse = func() {
		switch {
		case ap.MouseWheelUp():
			v.zoom(-0.25)
		case ap.MouseWheelDown():
			v.zoom(0.25)
		case ap.LeftDrag():
			dx := ap.Mx - lastMouseX
			dy := ap.My - lastMouseY
			v.spin.Push(float64(dy)*0.03, float64(dx)*0.03, 0)
		}
		if v.state.LightMode {
			v.state.PendingLight = v.state.ScreenToLightDir(ap.Mx, ap.My, ap.W, ap.H)
			if ap.MouseRelease() {
				v.state.LightDir = v.state.PendingLight
				v.state.LightMode = false
			}
		}
		lastMouseX, lastMouseY = ap.Mx, ap.My
	}
	ap.OnResize = func() error {
		s.resize(ap.W, ap.H*2)
		return nil
	}

	lastFrame := time.Now()
	err = ap.FPSTicks(func() bool {
		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		for _, b := range ap.Data {
			if !v.handleKey(b) {
				return false
			}
		}

		v.step(dt)

		ap.ClearScreen()
		if err := ap.ShowScaledImage(s.fb.ToImage()); err != nil {
			logger.Error("show image", zap.Error(err))
			return false
		}
		hud.UpdateFPS()
		hud.Draw(ap)
		return true
	})
	if err != nil {
		return fmt.Errorf("main loop: %w", err)
	}
	return nil
}
