package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
)

// FilterMode selects how texels are combined when sampling.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterBilinear
)

// WrapMode selects how coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// Texture is an RGB image sampled with top-left origin texture coordinates:
// (0,0) is the first pixel of the first row.
type Texture struct {
	Width, Height int
	Pixels        []Color

	FilterMode FilterMode
	WrapU      WrapMode
	WrapV      WrapMode
}

// NewTexture creates a black texture.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:      width,
		Height:     height,
		Pixels:     make([]Color, width*height),
		FilterMode: FilterBilinear,
	}
}

// NewCheckerTexture creates a checkerboard of size x size cells, starting
// with c1 in the top-left corner.
func NewCheckerTexture(width, height, size int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	tex.FilterMode = FilterNearest
	for y := range height {
		for x := range width {
			c := c1
			if (x/size+y/size)%2 == 1 {
				c = c2
			}
			tex.Pixels[y*width+x] = c
		}
	}
	return tex
}

// TextureFromImage copies any image into a texture.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	tex := NewTexture(b.Dx(), b.Dy())
	for y := range tex.Height {
		for x := range tex.Width {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			tex.Pixels[y*tex.Width+x] = RGB(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		}
	}
	return tex
}

// LoadTexture decodes a PNG, JPEG or BMP file.
func LoadTexture(path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read texture: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// GetPixel returns the texel at (x, y), clamped to the texture.
func (t *Texture) GetPixel(x, y int) Color {
	x = min(max(x, 0), t.Width-1)
	y = min(max(y, 0), t.Height-1)
	return t.Pixels[y*t.Width+x]
}

// SetPixel writes the texel at (x, y); out of range writes are dropped.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// ToImage copies the texels into an opaque RGBA image, for uploading to
// a GPU texture.
func (t *Texture) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	for i, c := range t.Pixels {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = 255
	}
	return img
}

func wrap(v float64, mode WrapMode) float64 {
	if mode == WrapClamp {
		return math.Min(math.Max(v, 0), 1)
	}
	return v - math.Floor(v)
}

// Sample returns the color at texture coordinate (u, v).
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return ColorWhite
	}
	u = wrap(u, t.WrapU)
	v = wrap(v, t.WrapV)

	if t.FilterMode == FilterNearest {
		x := min(int(u*float64(t.Width)), t.Width-1)
		y := min(int(v*float64(t.Height)), t.Height-1)
		return t.Pixels[y*t.Width+x]
	}

	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)

	top := lerpColor(t.texel(x0, y0), t.texel(x0+1, y0), tx)
	bottom := lerpColor(t.texel(x0, y0+1), t.texel(x0+1, y0+1), tx)
	return lerpColor(top, bottom, ty)
}

// texel fetches a neighbor for bilinear filtering, honoring the wrap modes.
func (t *Texture) texel(x, y int) Color {
	if t.WrapU == WrapRepeat {
		x = ((x % t.Width) + t.Width) % t.Width
	}
	if t.WrapV == WrapRepeat {
		y = ((y % t.Height) + t.Height) % t.Height
	}
	return t.GetPixel(x, y)
}
