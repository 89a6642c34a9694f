package render

import (
	"path/filepath"
	"testing"

	"github.com/taigrr/icosahedron/pkg/shapes"
)

// atlasPoint converts a texture coordinate to the pixel it falls in.
func atlasPoint(s, t float64, width, height int) (int, int) {
	return int(s * float64(width)), int(t * float64(height))
}

func TestDrawAtlas(t *testing.T) {
	ico := shapes.NewIcosahedron(1)
	style := DefaultAtlasStyle()
	fb := DrawAtlas(256, 128, ico.TexCoords(), ico.Indices(), ico.LineIndices(), style)

	if fb.Width != 256 || fb.Height != 128 {
		t.Fatalf("atlas is %dx%d, want 256x128", fb.Width, fb.Height)
	}

	// Centroid of the first sector's top triangle: (S, 2T/3)
	x, y := atlasPoint(shapes.TexStepS, shapes.TexStepT*2/3, 256, 128)
	if c := fb.GetPixel(x, y); c != style.Fills[0] {
		t.Errorf("pixel (%d,%d) = %v, want first sector fill %v", x, y, c, style.Fills[0])
	}

	// Top right corner lies outside the net
	if c := fb.GetPixel(250, 5); c != style.Background {
		t.Errorf("pixel (250,5) = %v, want background", c)
	}

	// North pole of sector 1 sits on the top row and is outlined
	if c := fb.GetPixel(x, 0); c == style.Background {
		t.Errorf("pixel (%d,0) is background, want an outline", x)
	}

	path := filepath.Join(t.TempDir(), "atlas.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	tex, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.GetPixel(x, y) != style.Fills[0] {
		t.Error("saved atlas does not round trip through LoadTexture")
	}
}

func TestDrawAtlasNoFill(t *testing.T) {
	ico := shapes.NewIcosahedron(1)
	style := DefaultAtlasStyle()
	style.Fills = nil
	fb := DrawAtlas(256, 128, ico.TexCoords(), ico.Indices(), nil, style)

	x, y := atlasPoint(shapes.TexStepS, shapes.TexStepT*2/3, 256, 128)
	if c := fb.GetPixel(x, y); c != style.Background {
		t.Errorf("unfilled interior = %v, want background", c)
	}
	for _, c := range fb.Pixels {
		if c == style.Edge {
			t.Fatal("edge color drawn without line indices")
		}
	}
}

func TestAtlasPoint(t *testing.T) {
	tests := []struct {
		s, t   float64
		w, h   int
		wx, wy int
	}{
		{0, 0, 256, 128, 0, 0},
		{shapes.TexStepS, shapes.TexStepT * 2 / 3, 256, 128, 23, 26},
		{shapes.TexStepS * 2, shapes.TexStepT * 3, 2048, 1024, 372, 966},
	}
	for _, tt := range tests {
		if x, y := atlasPoint(tt.s, tt.t, tt.w, tt.h); x != tt.wx || y != tt.wy {
			t.Errorf("atlasPoint(%v, %v) = (%d, %d), want (%d, %d)", tt.s, tt.t, x, y, tt.wx, tt.wy)
		}
	}
}
