package render

import (
	"github.com/taigrr/icosahedron/pkg/math3d"
	"github.com/taigrr/icosahedron/pkg/shapes"
)

// Float offsets into one interleaved vertex record, derived from the byte
// layout shared with the GPU upload.
const (
	floatSize         = 4
	interleavedFloats = shapes.InterleavedStride / floatSize
	positionField     = shapes.PositionOffset / floatSize
	normalField       = shapes.NormalOffset / floatSize
	texCoordField     = shapes.TexCoordOffset / floatSize
)

// InterleavedMesh draws straight from GPU-style buffers without converting
// them to a models.Mesh first.
type InterleavedMesh struct {
	Vertices    []float32
	Indices     []uint32
	LineIndices []uint32
}

// NewInterleavedMesh wraps the buffers; they are not copied.
func NewInterleavedMesh(vertices []float32, indices, lineIndices []uint32) *InterleavedMesh {
	return &InterleavedMesh{Vertices: vertices, Indices: indices, LineIndices: lineIndices}
}

// VertexCount returns the number of vertex records.
func (m *InterleavedMesh) VertexCount() int { return len(m.Vertices) / interleavedFloats }

// TriangleCount returns the number of triangles in the index buffer.
func (m *InterleavedMesh) TriangleCount() int { return len(m.Indices) / 3 }

// EdgeCount returns the number of line segments in the line index buffer.
func (m *InterleavedMesh) EdgeCount() int { return len(m.LineIndices) / 2 }

// GetFace returns the vertex indices of triangle i.
func (m *InterleavedMesh) GetFace(i int) [3]int {
	return [3]int{int(m.Indices[i*3]), int(m.Indices[i*3+1]), int(m.Indices[i*3+2])}
}

// GetEdge returns the vertex indices of line segment i.
func (m *InterleavedMesh) GetEdge(i int) [2]int {
	return [2]int{int(m.LineIndices[i*2]), int(m.LineIndices[i*2+1])}
}

// GetVertex returns the position, normal, and UV of vertex i.
func (m *InterleavedMesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	rec := m.Vertices[i*interleavedFloats : (i+1)*interleavedFloats]
	return math3d.V3FromFloat32(rec[positionField : positionField+3]),
		math3d.V3FromFloat32(rec[normalField : normalField+3]),
		math3d.V2(float64(rec[texCoordField]), float64(rec[texCoordField+1]))
}
