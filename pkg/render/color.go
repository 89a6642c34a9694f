// Package render is a small software rasterizer that draws interleaved
// position/normal/texcoord meshes into a color and depth framebuffer.
package render

import (
	"image/color"
	"math"
)

// Color is an opaque 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// RGB creates a color from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Common colors.
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
)

// RGBA converts to the standard library color type.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// ColorFromRGBA drops the alpha channel of c.
func ColorFromRGBA(c color.RGBA) Color {
	return Color{R: c.R, G: c.G, B: c.B}
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// MultiplyColor scales every channel by f, rounding and clamping to 255.
func MultiplyColor(c Color, f float64) Color {
	return Color{
		R: clampByte(math.Round(float64(c.R) * f)),
		G: clampByte(math.Round(float64(c.G) * f)),
		B: clampByte(math.Round(float64(c.B) * f)),
	}
}

// ModulateColor multiplies two colors channel by channel.
func ModulateColor(a, b Color) Color {
	return Color{
		R: uint8(int(a.R) * int(b.R) / 255),
		G: uint8(int(a.G) * int(b.G) / 255),
		B: uint8(int(a.B) * int(b.B) / 255),
	}
}

// lerpColor interpolates from a to b.
func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: clampByte(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: clampByte(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: clampByte(float64(a.B) + (float64(b.B)-float64(a.B))*t),
	}
}
