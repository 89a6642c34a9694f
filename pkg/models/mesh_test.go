package models

import (
	"math"
	"testing"

	"github.com/taigrr/icosahedron/pkg/math3d"
)

// testTetrahedron returns a flat-shaded tetrahedron: 4 faces with their own
// 3 vertices each, outward normals, distinct UVs and the 6 unique edges.
func testTetrahedron() *Mesh {
	corners := []math3d.Vec3{
		math3d.V3(1, 1, 1),
		math3d.V3(-1, -1, 1),
		math3d.V3(-1, 1, -1),
		math3d.V3(1, -1, -1),
	}
	faces := [][3]int{{0, 1, 3}, {0, 2, 1}, {0, 3, 2}, {1, 2, 3}}

	mesh := NewMesh("tetrahedron")
	posVertex := make(map[int]int)
	for fi, f := range faces {
		a, b, c := corners[f[0]], corners[f[1]], corners[f[2]]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		var face Face
		face.Material = -1
		for k, ci := range f {
			idx := len(mesh.Vertices)
			mesh.Vertices = append(mesh.Vertices, MeshVertex{
				Position: corners[ci],
				Normal:   n,
				UV:       math3d.V2(float64(fi)/4+float64(k)/16, float64(k)/4),
			})
			face.V[k] = idx
			if _, ok := posVertex[ci]; !ok {
				posVertex[ci] = idx
			}
		}
		mesh.Faces = append(mesh.Faces, face)
	}
	for a := range 4 {
		for b := a + 1; b < 4; b++ {
			mesh.Edges = append(mesh.Edges, Edge{posVertex[a], posVertex[b]})
		}
	}
	mesh.CalculateBounds()
	return mesh
}

func assertVertexNear(t *testing.T, i int, got, want MeshVertex) {
	t.Helper()
	const eps = 1e-5
	if !got.Position.ApproxEqual(want.Position, eps) {
		t.Errorf("vertex %d position = %v, want %v", i, got.Position, want.Position)
	}
	if !got.Normal.ApproxEqual(want.Normal, eps) {
		t.Errorf("vertex %d normal = %v, want %v", i, got.Normal, want.Normal)
	}
	if got.UV.Sub(want.UV).Len() > eps {
		t.Errorf("vertex %d uv = %v, want %v", i, got.UV, want.UV)
	}
}

func TestTetrahedronNormalsPointOutward(t *testing.T) {
	mesh := testTetrahedron()
	for i, f := range mesh.Faces {
		v := mesh.Vertices[f.V[0]]
		if v.Normal.Dot(v.Position) <= 0 {
			t.Errorf("face %d normal %v points inward", i, v.Normal)
		}
	}
}

func TestMeshBounds(t *testing.T) {
	mesh := testTetrahedron()
	if mesh.BoundsMin != math3d.V3(-1, -1, -1) {
		t.Errorf("BoundsMin = %v, want (-1,-1,-1)", mesh.BoundsMin)
	}
	if mesh.BoundsMax != math3d.V3(1, 1, 1) {
		t.Errorf("BoundsMax = %v, want (1,1,1)", mesh.BoundsMax)
	}
	if c := mesh.Center(); c != math3d.Zero3() {
		t.Errorf("Center = %v, want origin", c)
	}
	if s := mesh.Size(); s != math3d.V3(2, 2, 2) {
		t.Errorf("Size = %v, want (2,2,2)", s)
	}
}

func TestFaceEdges(t *testing.T) {
	mesh := NewMesh("quad")
	for _, p := range []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0)} {
		mesh.Vertices = append(mesh.Vertices, MeshVertex{Position: p})
	}
	mesh.Faces = append(mesh.Faces, Face{V: [3]int{0, 1, 2}}, Face{V: [3]int{0, 2, 3}})

	edges := mesh.FaceEdges()
	// The shared diagonal is reported once
	if len(edges) != 5 {
		t.Fatalf("got %d edges, want 5: %v", len(edges), edges)
	}
	for _, e := range edges {
		if e[0] > e[1] {
			t.Errorf("edge %v is not canonical", e)
		}
	}
}

func TestCalculateNormals(t *testing.T) {
	mesh := testTetrahedron()
	want := make([]math3d.Vec3, len(mesh.Vertices))
	for i := range mesh.Vertices {
		want[i] = mesh.Vertices[i].Normal
		mesh.Vertices[i].Normal = math3d.Zero3()
	}

	mesh.CalculateNormals()
	for i, v := range mesh.Vertices {
		if !v.Normal.ApproxEqual(want[i], 1e-12) {
			t.Errorf("vertex %d normal = %v, want %v", i, v.Normal, want[i])
		}
	}
}

func TestMeshTransform(t *testing.T) {
	mesh := testTetrahedron()
	mesh.Transform(math3d.RotateZ(math.Pi / 2))

	// (1,1,1) rotated a quarter turn about Z
	if !mesh.Vertices[0].Position.ApproxEqual(math3d.V3(-1, 1, 1), 1e-12) {
		t.Errorf("rotated position = %v, want (-1,1,1)", mesh.Vertices[0].Position)
	}
	for i, v := range mesh.Vertices {
		if math.Abs(v.Normal.Len()-1) > 1e-9 {
			t.Errorf("vertex %d normal not unit after transform: %v", i, v.Normal)
		}
	}
}

func TestMeshInterleaved(t *testing.T) {
	mesh := testTetrahedron()
	vertices, indices, lines := mesh.Interleaved()

	if len(vertices) != mesh.VertexCount()*8 {
		t.Fatalf("len(vertices) = %d, want %d", len(vertices), mesh.VertexCount()*8)
	}
	if len(indices) != mesh.TriangleCount()*3 {
		t.Errorf("len(indices) = %d, want %d", len(indices), mesh.TriangleCount()*3)
	}
	if len(lines) != mesh.EdgeCount()*2 {
		t.Errorf("len(lines) = %d, want %d", len(lines), mesh.EdgeCount()*2)
	}

	for i, v := range mesh.Vertices {
		rec := vertices[i*8 : i*8+8]
		if got := math3d.V3FromFloat32(rec[0:3]); !got.ApproxEqual(v.Position, 1e-6) {
			t.Errorf("vertex %d position = %v, want %v", i, got, v.Position)
		}
		if got := math3d.V3FromFloat32(rec[3:6]); !got.ApproxEqual(v.Normal, 1e-6) {
			t.Errorf("vertex %d normal = %v, want %v", i, got, v.Normal)
		}
		if uv := v.UV.Float32(); rec[6] != uv[0] || rec[7] != uv[1] {
			t.Errorf("vertex %d uv = (%v,%v), want %v", i, rec[6], rec[7], uv)
		}
	}
}
