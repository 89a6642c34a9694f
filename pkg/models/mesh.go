// Package models provides the generic mesh representation and the file
// formats meshes are exported to and loaded from.
package models

import (
	"github.com/taigrr/icosahedron/pkg/math3d"
)

// Mesh represents a 3D mesh with vertices, triangle faces and wireframe edges.
// Faces wind counter-clockwise when seen from outside. UVs use a top-left
// origin (v grows downward through the texture image), as glTF does.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Edges     []Edge
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face represents a triangle face with vertex indices and material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Edge is a wireframe line between two vertices.
type Edge [2]int

// Material is the subset of PBR material data the exporters round-trip.
type Material struct {
	Name       string
	BaseColor  [4]float64 // RGBA in 0-1 range
	TextureURI string     // Base color texture, relative to the model file
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// EdgeCount returns the number of wireframe edges.
func (m *Mesh) EdgeCount() int {
	return len(m.Edges)
}

// CalculateNormals assigns each face's normal to its vertices (flat shading).
// Vertices shared between faces keep the normal of the last face.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

		m.Vertices[f.V[0]].Normal = normal
		m.Vertices[f.V[1]].Normal = normal
		m.Vertices[f.V[2]].Normal = normal
	}
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		// Rotation/uniform scale only; non-uniform scale would need the inverse transpose.
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Edges:     make([]Edge, len(m.Edges)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Edges, m.Edges)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetVertex returns the position, normal, and UV for vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for face i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetEdge returns the vertex indices for edge i.
func (m *Mesh) GetEdge(i int) [2]int {
	return m.Edges[i]
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// edgeKey creates a canonical key for an edge by ordering its endpoints.
func edgeKey(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

// FaceEdges derives the unique edges of all faces, in first-seen order.
// Loaders use it for formats that carry no explicit line data.
func (m *Mesh) FaceEdges() []Edge {
	seen := make(map[Edge]bool)
	edges := make([]Edge, 0, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		for k := range 3 {
			key := edgeKey(f.V[k], f.V[(k+1)%3])
			if !seen[key] {
				seen[key] = true
				edges = append(edges, key)
			}
		}
	}
	return edges
}

// Interleaved packs the mesh into the GPU layout used throughout the repo:
// position(3) + normal(3) + uv(2) float32 per vertex, plus triangle and line
// index buffers.
func (m *Mesh) Interleaved() (vertices []float32, indices, lineIndices []uint32) {
	vertices = make([]float32, 0, len(m.Vertices)*8)
	for _, v := range m.Vertices {
		p, n, t := v.Position.Float32(), v.Normal.Float32(), v.UV.Float32()
		vertices = append(vertices, p[:]...)
		vertices = append(vertices, n[:]...)
		vertices = append(vertices, t[:]...)
	}

	indices = make([]uint32, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		indices = append(indices, uint32(f.V[0]), uint32(f.V[1]), uint32(f.V[2]))
	}

	lineIndices = make([]uint32, 0, len(m.Edges)*2)
	for _, e := range m.Edges {
		lineIndices = append(lineIndices, uint32(e[0]), uint32(e[1]))
	}
	return vertices, indices, lineIndices
}
