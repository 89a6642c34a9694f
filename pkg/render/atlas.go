package render

import "math"

// AtlasStyle picks the colors of an unwrapping template.
type AtlasStyle struct {
	Background Color
	Outline    Color
	Edge       Color
	// Fills cycles per group of GroupSize triangles; empty leaves faces unfilled.
	Fills     []Color
	GroupSize int
}

// DefaultAtlasStyle paints each group of 4 triangles (one icosahedron
// sector) in its own pastel color on white, with black outlines and the
// drawn wireframe edges in red.
func DefaultAtlasStyle() AtlasStyle {
	return AtlasStyle{
		Background: ColorWhite,
		Outline:    ColorBlack,
		Edge:       ColorRed,
		Fills: []Color{
			RGB(255, 223, 186),
			RGB(186, 255, 201),
			RGB(186, 225, 255),
			RGB(255, 186, 243),
			RGB(255, 255, 186),
		},
		GroupSize: 4,
	}
}

// DrawAtlas renders the texture-space layout of a mesh: every triangle of
// indices is drawn at its texture coordinates (2 floats per vertex, top-left
// origin), then lineIndices are traced on top. The result is a template to
// paint a texture on.
func DrawAtlas(width, height int, texCoords []float32, indices, lineIndices []uint32, style AtlasStyle) *Framebuffer {
	fb := NewFramebuffer(width, height)
	fb.BG = style.Background.RGBA()
	fb.Clear()

	point := func(i uint32) (float64, float64) {
		return float64(texCoords[i*2]) * float64(width), float64(texCoords[i*2+1]) * float64(height)
	}

	if len(style.Fills) > 0 {
		group := max(style.GroupSize, 1)
		for t := 0; t+2 < len(indices); t += 3 {
			fill := style.Fills[(t/3/group)%len(style.Fills)]
			ax, ay := point(indices[t])
			bx, by := point(indices[t+1])
			cx, cy := point(indices[t+2])
			fillTriangle2D(fb, ax, ay, bx, by, cx, cy, fill)
		}
	}

	for t := 0; t+2 < len(indices); t += 3 {
		for k := range 3 {
			ax, ay := point(indices[t+k])
			bx, by := point(indices[t+(k+1)%3])
			drawSegment2D(fb, ax, ay, bx, by, style.Outline)
		}
	}

	for l := 0; l+1 < len(lineIndices); l += 2 {
		ax, ay := point(lineIndices[l])
		bx, by := point(lineIndices[l+1])
		drawSegment2D(fb, ax, ay, bx, by, style.Edge)
	}

	return fb
}

// drawSegment2D draws between two continuous pixel positions, keeping lines
// on the right and bottom border inside the image.
func drawSegment2D(fb *Framebuffer, ax, ay, bx, by float64, color Color) {
	px := func(v float64, limit int) int {
		return min(int(math.Floor(v)), limit-1)
	}
	drawLine2D(fb, px(ax, fb.Width), px(ay, fb.Height), px(bx, fb.Width), px(by, fb.Height), color)
}

// fillTriangle2D fills a screen-space triangle of either winding.
func fillTriangle2D(fb *Framebuffer, ax, ay, bx, by, cx, cy float64, color Color) {
	a := screenVertex{x: ax, y: ay}
	b := screenVertex{x: bx, y: by}
	c := screenVertex{x: cx, y: cy}
	area := edgeFunction(a, b, c.x, c.y)
	if area == 0 {
		return
	}

	minX := max(0, int(math.Floor(min(ax, bx, cx))))
	maxX := min(fb.Width-1, int(math.Ceil(max(ax, bx, cx))))
	minY := max(0, int(math.Floor(min(ay, by, cy))))
	maxY := min(fb.Height-1, int(math.Ceil(max(ay, by, cy))))

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			if edgeFunction(b, c, px, py)/area < 0 ||
				edgeFunction(c, a, px, py)/area < 0 ||
				edgeFunction(a, b, px, py)/area < 0 {
				continue
			}
			fb.Pixels[y*fb.Width+x] = color
		}
	}
}
