package gpu

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/taigrr/icosahedron/pkg/shapes"
)

// MeshBuffer holds one interleaved mesh on the GPU: a vertex array, the
// interleaved vertex buffer, and separate element buffers for triangles and
// lines.
type MeshBuffer struct {
	vao        uint32
	vbo        uint32
	triangles  uint32
	lines      uint32
	indexCount int32
	lineCount  int32
	floatCount int
}

// NewMeshBuffer uploads interleaved vertices laid out as position, normal,
// texcoord (shapes.InterleavedStride bytes each) with their triangle and
// line indices.
func NewMeshBuffer(vertices []float32, indices, lineIndices []uint32) (*MeshBuffer, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, errors.New("gpu: empty mesh")
	}

	b := &MeshBuffer{
		indexCount: int32(len(indices)),
		lineCount:  int32(len(lineIndices)),
		floatCount: len(vertices),
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)

	gl.EnableVertexAttribArray(PositionLocation)
	gl.VertexAttribPointerWithOffset(PositionLocation, 3, gl.FLOAT, false, shapes.InterleavedStride, shapes.PositionOffset)
	gl.EnableVertexAttribArray(NormalLocation)
	gl.VertexAttribPointerWithOffset(NormalLocation, 3, gl.FLOAT, false, shapes.InterleavedStride, shapes.NormalOffset)
	gl.EnableVertexAttribArray(TexCoordLocation)
	gl.VertexAttribPointerWithOffset(TexCoordLocation, 2, gl.FLOAT, false, shapes.InterleavedStride, shapes.TexCoordOffset)

	gl.GenBuffers(1, &b.triangles)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.triangles)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	if len(lineIndices) > 0 {
		gl.GenBuffers(1, &b.lines)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.lines)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(lineIndices)*4, unsafe.Pointer(&lineIndices[0]), gl.STATIC_DRAW)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.triangles)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b, nil
}

// NewIcosahedronBuffer uploads the interleaved buffers of ico.
func NewIcosahedronBuffer(ico *shapes.Icosahedron) (*MeshBuffer, error) {
	return NewMeshBuffer(ico.InterleavedVertices(), ico.Indices(), ico.LineIndices())
}

// Update overwrites the vertex buffer in place. The vertex count must match
// the uploaded one, which holds after a rescale.
func (b *MeshBuffer) Update(vertices []float32) error {
	if len(vertices) != b.floatCount {
		return errors.New("gpu: vertex count changed")
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, unsafe.Pointer(&vertices[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

// Draw draws the triangles with the given primitive mode (gl.TRIANGLES,
// or gl.POINTS to show only the vertices). Polygon mode is left to the caller.
func (b *MeshBuffer) Draw(mode uint32) {
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.triangles)
	gl.DrawElements(mode, b.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawLines draws the edge list as gl.LINES.
func (b *MeshBuffer) DrawLines() {
	if b.lines == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.lines)
	gl.DrawElements(gl.LINES, b.lineCount, gl.UNSIGNED_INT, nil)
	// Restore the triangle buffer recorded in the vertex array.
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.triangles)
	gl.BindVertexArray(0)
}

// Delete frees the GPU objects.
func (b *MeshBuffer) Delete() {
	if b.lines != 0 {
		gl.DeleteBuffers(1, &b.lines)
	}
	gl.DeleteBuffers(1, &b.triangles)
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
	*b = MeshBuffer{}
}
