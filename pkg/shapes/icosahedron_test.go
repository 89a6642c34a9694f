package shapes

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/taigrr/icosahedron/pkg/math3d"
)

const eps = 1e-5

func vertexAt(buf []float32, i int) math3d.Vec3 {
	return math3d.V3FromFloat32(buf[i*3 : i*3+3])
}

func TestBaseVertices(t *testing.T) {
	ico := NewIcosahedron(2)
	base := ico.BaseVertices()

	for i, v := range base {
		if math.Abs(v.Len()-2) > 1e-12 {
			t.Errorf("base vertex %d at distance %v, want 2", i, v.Len())
		}
	}
	if base[0] != math3d.V3(0, 0, 2) {
		t.Errorf("north pole = %v, want (0,0,2)", base[0])
	}
	if base[11] != math3d.V3(0, 0, -2) {
		t.Errorf("south pole = %v, want (0,0,-2)", base[11])
	}

	ringZ := 2 * math.Sin(math.Atan(0.5))
	for i := 1; i <= 5; i++ {
		if math.Abs(base[i].Z-ringZ) > 1e-12 {
			t.Errorf("upper ring vertex %d z = %v, want %v", i, base[i].Z, ringZ)
		}
		if math.Abs(base[i+5].Z+ringZ) > 1e-12 {
			t.Errorf("lower ring vertex %d z = %v, want %v", i+5, base[i+5].Z, -ringZ)
		}
	}

	// Lower ring starts straight down the -Y axis
	if !base[6].ApproxEqual(math3d.V3(0, -2*math.Cos(math.Atan(0.5)), -ringZ), 1e-12) {
		t.Errorf("first lower ring vertex = %v", base[6])
	}
}

func TestEdgeLengthRadiusRelation(t *testing.T) {
	tests := []struct {
		radius float64
		edge   float64
	}{
		{1, 1.0514622242382672},
		{2, 2.1029244484765344},
		{0, 0},
	}
	for _, tt := range tests {
		ico := NewIcosahedron(tt.radius)
		if math.Abs(ico.EdgeLength()-tt.edge) > 1e-12 {
			t.Errorf("radius %v: EdgeLength = %v, want %v", tt.radius, ico.EdgeLength(), tt.edge)
		}

		ico.SetEdgeLength(ico.EdgeLength())
		if math.Abs(ico.Radius()-tt.radius) > 1e-12 {
			t.Errorf("radius %v: round trip through SetEdgeLength gave %v", tt.radius, ico.Radius())
		}
	}
}

func TestCounts(t *testing.T) {
	ico := NewIcosahedron(1)

	counts := []struct {
		name string
		got  int
		want int
	}{
		{"VertexCount", ico.VertexCount(), 60},
		{"NormalCount", ico.NormalCount(), 60},
		{"TexCoordCount", ico.TexCoordCount(), 60},
		{"IndexCount", ico.IndexCount(), 60},
		{"LineIndexCount", ico.LineIndexCount(), 60},
		{"TriangleCount", ico.TriangleCount(), 20},
		{"InterleavedVertexCount", ico.InterleavedVertexCount(), 60},
		{"InterleavedStride", ico.InterleavedStride(), 32},
		{"VertexSize", ico.VertexSize(), 720},
		{"NormalSize", ico.NormalSize(), 720},
		{"TexCoordSize", ico.TexCoordSize(), 480},
		{"IndexSize", ico.IndexSize(), 240},
		{"LineIndexSize", ico.LineIndexSize(), 240},
		{"InterleavedVertexSize", ico.InterleavedVertexSize(), 1920},
	}
	for _, c := range counts {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
}

func TestZeroValueIsEmpty(t *testing.T) {
	var ico Icosahedron
	if ico.VertexCount() != 0 || ico.IndexCount() != 0 || len(ico.InterleavedVertices()) != 0 {
		t.Fatal("zero value Icosahedron is not empty")
	}

	ico.SetEdgeLength(1)
	if ico.VertexCount() != 60 {
		t.Errorf("VertexCount after SetEdgeLength = %d, want 60", ico.VertexCount())
	}
	if want := math.Sin(2 * math.Pi / 5); math.Abs(ico.Radius()-want) > 1e-12 {
		t.Errorf("Radius = %v, want %v", ico.Radius(), want)
	}
}

func TestPolesAndRings(t *testing.T) {
	ico := NewIcosahedron(1)
	v := ico.Vertices()

	// Vertex 0 is the north pole of the first triangle; vertex 10 is the
	// south pole of the first sector's last triangle.
	if got := vertexAt(v, 0); !got.ApproxEqual(math3d.V3(0, 0, 1), eps) {
		t.Errorf("vertex 0 = %v, want north pole", got)
	}
	if got := vertexAt(v, 10); !got.ApproxEqual(math3d.V3(0, 0, -1), eps) {
		t.Errorf("vertex 10 = %v, want south pole", got)
	}
	if got := vertexAt(v, 1); math.Abs(got.Z-0.4472136) > eps {
		t.Errorf("vertex 1 z = %v, want 0.4472136", got.Z)
	}
	if got := vertexAt(v, 4); math.Abs(got.Z+0.4472136) > eps {
		t.Errorf("vertex 4 z = %v, want -0.4472136", got.Z)
	}
}

func TestIndicesAreSequential(t *testing.T) {
	ico := NewIcosahedron(1)
	for i, idx := range ico.Indices() {
		if idx != uint32(i) {
			t.Fatalf("index %d = %d, want %d", i, idx, i)
		}
	}
}

func TestNormalsUnitAndOutward(t *testing.T) {
	ico := NewIcosahedron(1.5)
	v, n := ico.Vertices(), ico.Normals()

	for tri := range ico.TriangleCount() {
		a, b, c := vertexAt(v, tri*3), vertexAt(v, tri*3+1), vertexAt(v, tri*3+2)
		normal := vertexAt(n, tri*3)
		if math.Abs(normal.Len()-1) > eps {
			t.Errorf("triangle %d normal length = %v", tri, normal.Len())
		}
		for k := 1; k < 3; k++ {
			if vertexAt(n, tri*3+k) != normal {
				t.Errorf("triangle %d vertex %d normal differs from the face normal", tri, k)
			}
		}

		centroid := a.Add(b).Add(c).Scale(1.0 / 3)
		if normal.Dot(centroid) <= 0 {
			t.Errorf("triangle %d normal %v points inward", tri, normal)
		}
		// Counter-clockwise seen from outside
		if b.Sub(a).Cross(c.Sub(a)).Dot(normal) <= 0 {
			t.Errorf("triangle %d is wound clockwise", tri)
		}
	}
}

func TestEdgesHaveEqualLength(t *testing.T) {
	ico := NewIcosahedron(1)
	v := ico.Vertices()
	for tri := range ico.TriangleCount() {
		for k := range 3 {
			a, b := vertexAt(v, tri*3+k), vertexAt(v, tri*3+(k+1)%3)
			if d := a.Sub(b).Len(); math.Abs(d-ico.EdgeLength()) > eps {
				t.Errorf("triangle %d edge %d length = %v, want %v", tri, k, d, ico.EdgeLength())
			}
		}
	}
}

func TestTexCoords(t *testing.T) {
	ico := NewIcosahedron(1)
	tc := ico.TexCoords()
	uv := func(i int) [2]float32 { return [2]float32{tc[i*2], tc[i*2+1]} }
	f := func(x float64) float32 { return float32(x) }

	// Sector 1 top, upper left, upper right and bottom; sector 2 top; the
	// last lower right corner.
	tests := []struct {
		vertex int
		want   [2]float32
	}{
		{0, [2]float32{f(TexStepS), 0}},
		{1, [2]float32{0, f(TexStepT)}},
		{2, [2]float32{f(2 * TexStepS), f(TexStepT)}},
		{10, [2]float32{f(2 * TexStepS), f(3 * TexStepT)}},
		{12, [2]float32{f(3 * TexStepS), 0}},
		{59, [2]float32{f(11 * TexStepS), f(2 * TexStepT)}},
	}
	for _, tt := range tests {
		if got := uv(tt.vertex); got != tt.want {
			t.Errorf("texcoord %d = %v, want %v", tt.vertex, got, tt.want)
		}
	}

	for i := range ico.TexCoordCount() {
		c := uv(i)
		if c[0] < 0 || c[0] > 1.01 || c[1] < 0 || c[1] > 1 {
			t.Errorf("texcoord %d = %v is outside the atlas", i, c)
		}
	}
}

func TestLineIndices(t *testing.T) {
	ico := NewIcosahedron(1)
	lines := ico.LineIndices()
	v := ico.Vertices()

	type key [6]float32
	round := func(p math3d.Vec3) [3]float32 {
		r := func(x float64) float32 { return float32(math.Round(x*1e4) / 1e4) }
		return [3]float32{r(p.X), r(p.Y), r(p.Z)}
	}

	unique := make(map[key]bool)
	for i := 0; i < len(lines); i += 2 {
		a, b := vertexAt(v, int(lines[i])), vertexAt(v, int(lines[i+1]))
		if d := a.Sub(b).Len(); math.Abs(d-ico.EdgeLength()) > eps {
			t.Errorf("line %d spans %v, want an edge of length %v", i/2, d, ico.EdgeLength())
		}
		ra, rb := round(a), round(b)
		if slices.Compare(ra[:], rb[:]) > 0 {
			ra, rb = rb, ra
		}
		unique[key{ra[0], ra[1], ra[2], rb[0], rb[1], rb[2]}] = true
	}
	if len(unique) != EdgeCount {
		t.Errorf("line indices cover %d distinct edges, want %d", len(unique), EdgeCount)
	}

	want := []uint32{0, 1, 3, 4, 3, 5, 4, 5, 9, 10, 9, 11}
	if !slices.Equal(lines[:12], want) {
		t.Errorf("first sector lines = %v, want %v", lines[:12], want)
	}
}

func TestInterleavedMatchesSeparateBuffers(t *testing.T) {
	ico := NewIcosahedron(1)
	ico.SetRadius(3)

	buf := ico.InterleavedVertices()
	v, n, tc := ico.Vertices(), ico.Normals(), ico.TexCoords()
	for i := range ico.VertexCount() {
		rec := buf[i*8 : i*8+8]
		if !slices.Equal(rec[0:3], v[i*3:i*3+3]) {
			t.Errorf("vertex %d position %v != %v", i, rec[0:3], v[i*3:i*3+3])
		}
		if !slices.Equal(rec[3:6], n[i*3:i*3+3]) {
			t.Errorf("vertex %d normal %v != %v", i, rec[3:6], n[i*3:i*3+3])
		}
		if !slices.Equal(rec[6:8], tc[i*2:i*2+2]) {
			t.Errorf("vertex %d texcoord %v != %v", i, rec[6:8], tc[i*2:i*2+2])
		}
	}
}

func TestRescaleKeepsNormalsAndTexCoords(t *testing.T) {
	ico := NewIcosahedron(1)
	before := slices.Clone(ico.Vertices())
	normals := slices.Clone(ico.Normals())
	texCoords := slices.Clone(ico.TexCoords())
	indices := slices.Clone(ico.Indices())

	ico.SetRadius(2)
	for i, x := range ico.Vertices() {
		if math.Abs(float64(x)-2*float64(before[i])) > eps {
			t.Fatalf("position component %d = %v, want %v", i, x, 2*before[i])
		}
	}
	if !slices.Equal(ico.Normals(), normals) {
		t.Error("normals changed on rescale")
	}
	if !slices.Equal(ico.TexCoords(), texCoords) {
		t.Error("texcoords changed on rescale")
	}
	if !slices.Equal(ico.Indices(), indices) {
		t.Error("indices changed on rescale")
	}

	ico.SetEdgeLength(1)
	if math.Abs(ico.EdgeLength()-1) > 1e-12 {
		t.Errorf("EdgeLength = %v, want 1", ico.EdgeLength())
	}
	if got := vertexAt(ico.Vertices(), 0); math.Abs(got.Z-ico.Radius()) > eps {
		t.Errorf("north pole z = %v, want %v", got.Z, ico.Radius())
	}
}

func TestZeroRadius(t *testing.T) {
	ico := NewIcosahedron(0)
	if ico.VertexCount() != 60 {
		t.Fatalf("VertexCount = %d, want 60", ico.VertexCount())
	}
	for i, x := range ico.Vertices() {
		if x != 0 {
			t.Fatalf("position component %d = %v, want 0", i, x)
		}
	}
	for i, x := range ico.Normals() {
		if x != 0 {
			t.Fatalf("normal component %d = %v, want 0", i, x)
		}
	}

	// A radius still too small for normals rescales in place
	before := &ico.InterleavedVertices()[0]
	ico.SetRadius(1e-5)
	if &ico.InterleavedVertices()[0] != before {
		t.Error("tiny radius rebuilt the buffers, want an in-place rescale")
	}
	if got := vertexAt(ico.Vertices(), 0); math.Abs(got.Z-1e-5) > 1e-9 {
		t.Errorf("north pole at tiny radius = %v", got)
	}
	for i, x := range ico.Normals() {
		if x != 0 {
			t.Fatalf("normal component %d = %v at tiny radius, want 0", i, x)
		}
	}

	// Growing out of a collapsed mesh yields proper normals again
	ico.SetRadius(2)
	for tri := range ico.TriangleCount() {
		if n := vertexAt(ico.Normals(), tri*3); math.Abs(n.Len()-1) > eps {
			t.Errorf("triangle %d normal length after regrow = %v", tri, n.Len())
		}
	}
	if got := vertexAt(ico.Vertices(), 0); !got.ApproxEqual(math3d.V3(0, 0, 2), eps) {
		t.Errorf("north pole after regrow = %v", got)
	}
}

func TestNegativeRadiusMirrors(t *testing.T) {
	pos := NewIcosahedron(1)
	neg := NewIcosahedron(-1)
	for i, x := range neg.Vertices() {
		if x != -pos.Vertices()[i] {
			t.Fatalf("position component %d = %v, want %v", i, x, -pos.Vertices()[i])
		}
	}
	if neg.EdgeLength() >= 0 {
		t.Errorf("EdgeLength = %v, want negative", neg.EdgeLength())
	}
}

func TestFaceNormal(t *testing.T) {
	tests := []struct {
		name       string
		v1, v2, v3 math3d.Vec3
		want       math3d.Vec3
	}{
		{"xy plane", math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)},
		{"reversed", math3d.V3(0, 0, 0), math3d.V3(0, 1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, -1)},
		{"scaled", math3d.V3(0, 0, 0), math3d.V3(0, 5, 0), math3d.V3(0, 0, 5), math3d.V3(1, 0, 0)},
		{"collinear", math3d.V3(0, 0, 0), math3d.V3(1, 1, 1), math3d.V3(2, 2, 2), math3d.Zero3()},
		{"coincident", math3d.V3(1, 2, 3), math3d.V3(1, 2, 3), math3d.V3(1, 2, 3), math3d.Zero3()},
		{"tiny", math3d.V3(0, 0, 0), math3d.V3(1e-4, 0, 0), math3d.V3(0, 1e-4, 0), math3d.Zero3()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FaceNormal(tt.v1, tt.v2, tt.v3); !got.ApproxEqual(tt.want, 1e-12) {
				t.Errorf("FaceNormal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	out := NewIcosahedron(1).String()
	for _, want := range []string{
		"===== Icosahedron =====",
		"Radius: 1\n",
		"Triangle Count: 20\n",
		"Vertex Count: 60\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Describe output missing %q:\n%s", want, out)
		}
	}
}

func TestMesh(t *testing.T) {
	ico := NewIcosahedron(1)
	mesh := ico.Mesh("ico")

	if mesh.VertexCount() != 60 || mesh.TriangleCount() != 20 || mesh.EdgeCount() != 30 {
		t.Fatalf("mesh counts = %d/%d/%d, want 60/20/30",
			mesh.VertexCount(), mesh.TriangleCount(), mesh.EdgeCount())
	}
	if math.Abs(mesh.BoundsMax.Z-1) > eps {
		t.Errorf("BoundsMax.Z = %v, want 1", mesh.BoundsMax.Z)
	}

	vertices, indices, lines := mesh.Interleaved()
	if !slices.Equal(vertices, ico.InterleavedVertices()) {
		t.Error("mesh interleaving differs from the icosahedron buffer")
	}
	if !slices.Equal(indices, ico.Indices()) {
		t.Error("mesh indices differ")
	}
	if !slices.Equal(lines, ico.LineIndices()) {
		t.Error("mesh line indices differ")
	}
}
