// Package shapes generates procedural meshes ready for GPU upload.
//
// The Icosahedron is built flat-shaded: each of its 20 triangles owns three
// vertices, so the mesh has 60 vertices rather than the 12 unique corners.
// Texture coordinates follow a paper-model unwrapping laid out on a
// 2048x1024 atlas:
//
//	(S,0)  3S  5S  7S  9S
//	   /\  /\  /\  /\  /\      row 1: 5 triangles
//	  /__\/__\/__\/__\/__\
//	T \  /\  /\  /\  /\  /\    row 2: 10 triangles
//	   \/__\/__\/__\/__\/__\
//	2T  \  /\  /\  /\  /\  /   row 3: 5 triangles
//	     \/  \/  \/  \/  \/
//	     2S  4S  6S  8S  (10S,3T)
//
// with S = 186/2048 and T = 322/1024. The t axis grows downward from the
// top row of the atlas image.
package shapes

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/taigrr/icosahedron/pkg/math3d"
)

// Interleaved vertex layout: position(3) + normal(3) + texcoord(2) float32.
const (
	InterleavedStride = 32 // bytes between consecutive vertices
	PositionOffset    = 0  // byte offset of the position inside a vertex
	NormalOffset      = 12 // byte offset of the normal inside a vertex
	TexCoordOffset    = 24 // byte offset of the texcoord inside a vertex

	interleavedFloats = InterleavedStride / bytesPerElement
	bytesPerElement   = 4
)

// Fixed topology of the icosahedron.
const (
	BaseVertexCount = 12
	TriangleCount   = 20
	EdgeCount       = 30
	SectorCount     = 5
)

// Texture atlas steps for a 2048x1024 image.
const (
	TexStepS = 186.0 / 2048.0
	TexStepT = 322.0 / 1024.0
)

// faceNormalEpsilon is the cross product length below which a triangle is
// treated as having no surface.
const faceNormalEpsilon = 1e-6

// edgeRatio is sin(2π/5): radius = edgeLength * edgeRatio.
var edgeRatio = math.Sin(2 * math.Pi / 5)

// Icosahedron owns the scalar dimensions and every derived vertex buffer of a
// flat-shaded icosahedron. The zero value is an empty mesh; the first
// SetRadius or SetEdgeLength builds it.
//
// Slices returned by the accessors are views into the mesh's own storage.
// Callers must not modify them, and they are invalidated by the next
// SetRadius or SetEdgeLength.
//
// An Icosahedron is not safe for concurrent use.
type Icosahedron struct {
	radius     float64
	edgeLength float64

	vertices    []float32 // 3 per vertex
	normals     []float32 // 3 per vertex
	texCoords   []float32 // 2 per vertex
	indices     []uint32  // 3 per triangle
	lineIndices []uint32  // 2 per edge
	interleaved []float32 // 8 per vertex

	// unit holds the expanded positions at radius 1 so rescaling never has
	// to divide by a previous, possibly zero, radius.
	unit []math3d.Vec3

	// degenerate is set when the last build produced zero normals.
	degenerate bool
}

// NewIcosahedron creates and builds an icosahedron with the given
// circumscribed radius.
func NewIcosahedron(radius float64) *Icosahedron {
	ico := &Icosahedron{}
	ico.SetRadius(radius)
	return ico
}

// Radius returns the circumscribed sphere radius.
func (ico *Icosahedron) Radius() float64 {
	return ico.radius
}

// EdgeLength returns the length of every edge.
func (ico *Icosahedron) EdgeLength() float64 {
	return ico.edgeLength
}

// SetRadius sets the circumscribed radius and derives the edge length.
// The first call builds the mesh; later calls only rescale positions.
// Non-positive radii are accepted and yield degenerate geometry.
func (ico *Icosahedron) SetRadius(radius float64) {
	ico.radius = radius
	ico.edgeLength = radius / edgeRatio
	if len(ico.vertices) == 0 {
		ico.build()
		return
	}
	ico.rescale()
}

// SetEdgeLength sets the edge length and derives the radius, then rescales
// the mesh. An unbuilt mesh is built first.
func (ico *Icosahedron) SetEdgeLength(edge float64) {
	ico.edgeLength = edge
	ico.radius = edge * edgeRatio
	if len(ico.vertices) == 0 {
		ico.build()
		return
	}
	ico.rescale()
}

// Vertices returns the expanded positions, 3 floats per vertex.
func (ico *Icosahedron) Vertices() []float32 { return ico.vertices }

// Normals returns the face normals replicated per vertex, 3 floats per vertex.
func (ico *Icosahedron) Normals() []float32 { return ico.normals }

// TexCoords returns the atlas coordinates, 2 floats per vertex.
func (ico *Icosahedron) TexCoords() []float32 { return ico.texCoords }

// Indices returns the triangle indices, 3 per triangle.
func (ico *Icosahedron) Indices() []uint32 { return ico.indices }

// LineIndices returns the wireframe edge indices, 2 per edge.
func (ico *Icosahedron) LineIndices() []uint32 { return ico.lineIndices }

// InterleavedVertices returns the V/N/T interleaved buffer.
func (ico *Icosahedron) InterleavedVertices() []float32 { return ico.interleaved }

// InterleavedStride returns the byte distance between interleaved vertices.
func (ico *Icosahedron) InterleavedStride() int { return InterleavedStride }

// VertexCount returns the number of expanded vertices.
func (ico *Icosahedron) VertexCount() int { return len(ico.vertices) / 3 }

// NormalCount returns the number of normals.
func (ico *Icosahedron) NormalCount() int { return len(ico.normals) / 3 }

// TexCoordCount returns the number of texture coordinates.
func (ico *Icosahedron) TexCoordCount() int { return len(ico.texCoords) / 2 }

// IndexCount returns the number of triangle indices.
func (ico *Icosahedron) IndexCount() int { return len(ico.indices) }

// LineIndexCount returns the number of line indices.
func (ico *Icosahedron) LineIndexCount() int { return len(ico.lineIndices) }

// TriangleCount returns the number of triangles.
func (ico *Icosahedron) TriangleCount() int { return ico.IndexCount() / 3 }

// InterleavedVertexCount returns the number of interleaved records.
func (ico *Icosahedron) InterleavedVertexCount() int { return ico.VertexCount() }

// VertexSize returns the size of the position buffer in bytes.
func (ico *Icosahedron) VertexSize() int { return len(ico.vertices) * bytesPerElement }

// NormalSize returns the size of the normal buffer in bytes.
func (ico *Icosahedron) NormalSize() int { return len(ico.normals) * bytesPerElement }

// TexCoordSize returns the size of the texcoord buffer in bytes.
func (ico *Icosahedron) TexCoordSize() int { return len(ico.texCoords) * bytesPerElement }

// IndexSize returns the size of the triangle index buffer in bytes.
func (ico *Icosahedron) IndexSize() int { return len(ico.indices) * bytesPerElement }

// LineIndexSize returns the size of the line index buffer in bytes.
func (ico *Icosahedron) LineIndexSize() int { return len(ico.lineIndices) * bytesPerElement }

// InterleavedVertexSize returns the size of the interleaved buffer in bytes.
func (ico *Icosahedron) InterleavedVertexSize() int {
	return len(ico.interleaved) * bytesPerElement
}

// BaseVertices returns the 12 unique corners at the current radius:
// index 0 is the north pole, 1-5 the upper ring, 6-10 the lower ring and
// 11 the south pole.
func (ico *Icosahedron) BaseVertices() [BaseVertexCount]math3d.Vec3 {
	base := unitBaseVertices()
	for i := range base {
		base[i] = base[i].Scale(ico.radius)
	}
	return base
}

// Describe writes a human-readable summary of the mesh to w.
func (ico *Icosahedron) Describe(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"===== Icosahedron =====\n"+
			"        Radius: %g\n"+
			"   Edge Length: %g\n"+
			"Triangle Count: %d\n"+
			"   Index Count: %d\n"+
			"  Vertex Count: %d\n"+
			"  Normal Count: %d\n"+
			"TexCoord Count: %d\n",
		ico.radius, ico.edgeLength, ico.TriangleCount(), ico.IndexCount(),
		ico.VertexCount(), ico.NormalCount(), ico.TexCoordCount())
	return err
}

// String implements fmt.Stringer using Describe.
func (ico *Icosahedron) String() string {
	var sb strings.Builder
	_ = ico.Describe(&sb)
	return sb.String()
}

// FaceNormal returns the unit normal of triangle v1-v2-v3 using the right
// hand rule on (v2-v1) x (v3-v1). Triangles without surface (collinear or
// coincident vertices) get the zero vector.
func FaceNormal(v1, v2, v3 math3d.Vec3) math3d.Vec3 {
	n := v2.Sub(v1).Cross(v3.Sub(v1))
	l := n.Len()
	if l <= faceNormalEpsilon {
		return math3d.Zero3()
	}
	return n.Scale(1 / l)
}

// unitBaseVertices computes the 12 corners on the unit sphere. The rings sit
// at elevation ±atan(1/2); the upper ring starts at -126° and the lower ring
// at -90°, both stepping 72°.
func unitBaseVertices() [BaseVertexCount]math3d.Vec3 {
	const hAngle = 2 * math.Pi / SectorCount
	vAngle := math.Atan(0.5)

	var v [BaseVertexCount]math3d.Vec3
	v[0] = math3d.V3(0, 0, 1)

	z := math.Sin(vAngle)
	xy := math.Cos(vAngle)
	h1 := -math.Pi/2 - hAngle/2
	h2 := -math.Pi / 2
	for i := 1; i <= SectorCount; i++ {
		v[i] = math3d.V3(xy*math.Cos(h1), xy*math.Sin(h1), z)
		v[i+SectorCount] = math3d.V3(xy*math.Cos(h2), xy*math.Sin(h2), -z)
		h1 += hAngle
		h2 += hAngle
	}

	v[BaseVertexCount-1] = math3d.V3(0, 0, -1)
	return v
}
