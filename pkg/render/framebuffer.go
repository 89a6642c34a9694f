package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Framebuffer is a color buffer with a matching depth buffer.
// Row 0 is the top of the image.
type Framebuffer struct {
	Width, Height int
	Pixels        []Color
	Depth         []float64

	// BG is the color Clear fills with.
	BG color.RGBA
}

// NewFramebuffer allocates a cleared framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{BG: color.RGBA{A: 255}}
	fb.Resize(width, height)
	return fb
}

// Resize reallocates the buffers and clears them.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width = max(width, 0)
	fb.Height = max(height, 0)
	fb.Pixels = make([]Color, fb.Width*fb.Height)
	fb.Depth = make([]float64, fb.Width*fb.Height)
	fb.Clear()
}

// Clear fills the color buffer with BG and resets depth.
func (fb *Framebuffer) Clear() {
	bg := ColorFromRGBA(fb.BG)
	for i := range fb.Pixels {
		fb.Pixels[i] = bg
	}
	fb.ClearDepth()
}

// ClearDepth resets every depth sample to the far plane.
func (fb *Framebuffer) ClearDepth() {
	for i := range fb.Depth {
		fb.Depth[i] = math.Inf(1)
	}
}

func (fb *Framebuffer) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < fb.Width && y < fb.Height
}

// SetPixel writes a color, ignoring out of range coordinates.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if fb.inside(x, y) {
		fb.Pixels[y*fb.Width+x] = c
	}
}

// GetPixel reads a color; out of range coordinates return black.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if !fb.inside(x, y) {
		return ColorBlack
	}
	return fb.Pixels[y*fb.Width+x]
}

// DepthTest reports whether z is closer than the stored depth at (x, y) and
// stores it if so.
func (fb *Framebuffer) DepthTest(x, y int, z float64) bool {
	if !fb.inside(x, y) {
		return false
	}
	i := y*fb.Width + x
	if z >= fb.Depth[i] {
		return false
	}
	fb.Depth[i] = z
	return true
}

// ToImage copies the color buffer into an RGBA image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, c := range fb.Pixels {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = 255
	}
	return img
}

// SavePNG writes the color buffer to a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// Save writes the color buffer as PNG, or as BMP when path ends in ".bmp".
func (fb *Framebuffer) Save(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".bmp") {
		return fb.SavePNG(path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bmp: %w", err)
	}
	if err := bmp.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode bmp: %w", err)
	}
	return f.Close()
}
