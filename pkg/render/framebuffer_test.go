package render

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func TestFramebufferSavePNG(t *testing.T) {
	// Create a small framebuffer with a gradient
	fb := NewFramebuffer(100, 100)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			fb.SetPixel(x, y, RGB(uint8(x*2), uint8(y*2), 128))
		}
	}

	// Save to temp file
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.png")

	err := fb.SavePNG(path)
	if err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	// Verify file exists and has content
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("File not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("File is empty")
	}
}

func TestFramebufferSave(t *testing.T) {
	fb := NewFramebuffer(6, 4)
	fb.SetPixel(2, 1, ColorBlue)
	dir := t.TempDir()

	for _, name := range []string{"atlas.png", "atlas.bmp", "atlas.BMP"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := fb.Save(path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			tex, err := LoadTexture(path)
			if err != nil {
				t.Fatalf("reload: %v", err)
			}
			if tex.Width != 6 || tex.Height != 4 {
				t.Fatalf("reloaded size %dx%d", tex.Width, tex.Height)
			}
			if c := tex.GetPixel(2, 1); c != ColorBlue {
				t.Errorf("pixel (2,1) = %v, want blue", c)
			}
		})
	}

	f, err := os.Open(filepath.Join(dir, "atlas.bmp"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := bmp.DecodeConfig(f); err != nil {
		t.Errorf("bmp output is not a BMP: %v", err)
	}
}

func TestFramebufferToImage(t *testing.T) {
	fb := NewFramebuffer(50, 50)
	fb.SetPixel(10, 20, ColorRed)
	fb.SetPixel(30, 40, ColorGreen)

	img := fb.ToImage()

	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 50 {
		t.Errorf("Image dimensions wrong: got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// Check specific pixels
	r, g, b, a := img.At(10, 20).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("Red pixel wrong: got %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}

	r, g, b, a = img.At(30, 40).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("Green pixel wrong: got %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestFramebufferClearAndResize(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.BG = color.RGBA{R: 10, G: 20, B: 30, A: 255}
	fb.SetPixel(1, 1, ColorWhite)
	fb.Clear()
	if c := fb.GetPixel(1, 1); c != RGB(10, 20, 30) {
		t.Errorf("pixel after Clear = %v, want background", c)
	}

	fb.Resize(8, 2)
	if fb.Width != 8 || fb.Height != 2 || len(fb.Pixels) != 16 || len(fb.Depth) != 16 {
		t.Errorf("Resize gave %dx%d with %d pixels", fb.Width, fb.Height, len(fb.Pixels))
	}
	if c := fb.GetPixel(7, 1); c != RGB(10, 20, 30) {
		t.Errorf("pixel after Resize = %v, want background", c)
	}

	// Out of range access is ignored
	fb.SetPixel(-1, 0, ColorRed)
	fb.SetPixel(8, 0, ColorRed)
	if c := fb.GetPixel(100, 100); c != ColorBlack {
		t.Errorf("out of range GetPixel = %v, want black", c)
	}
}

func TestFramebufferDepthTest(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	if !fb.DepthTest(0, 0, 0.5) {
		t.Error("first sample should pass")
	}
	if fb.DepthTest(0, 0, 0.7) {
		t.Error("farther sample should fail")
	}
	if !fb.DepthTest(0, 0, 0.2) {
		t.Error("closer sample should pass")
	}
	if fb.DepthTest(5, 5, 0) {
		t.Error("out of range sample should fail")
	}

	fb.ClearDepth()
	if !fb.DepthTest(0, 0, 0.9) {
		t.Error("sample after ClearDepth should pass")
	}
}
