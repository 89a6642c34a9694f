package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/icosahedron/pkg/math3d"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50 // normal + 3 vertices (12 float32) + 2-byte attribute
)

// STLLoader loads STL (stereolithography) files in both ASCII and binary formats.
type STLLoader struct {
	// Options
	NoDedupe bool // If true, don't merge vertices (each triangle keeps its own three)
}

// NewSTLLoader creates a new STL loader with default settings.
func NewSTLLoader() *STLLoader {
	return &STLLoader{}
}

// LoadFile loads an STL file from disk.
func (l *STLLoader) LoadFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL file: %w", err)
	}

	return l.LoadBytes(data, path)
}

// Load parses STL from a reader.
// Note: This reads the entire content into memory to detect format.
func (l *STLLoader) Load(r io.Reader, name string) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}
	return l.LoadBytes(data, name)
}

// LoadBytes parses STL from a byte slice.
func (l *STLLoader) LoadBytes(data []byte, name string) (*Mesh, error) {
	var mesh *Mesh
	var err error
	if isBinarySTL(data) {
		mesh, err = l.loadBinary(data, name)
	} else {
		mesh, err = l.loadASCII(data, name)
	}
	if err != nil {
		return nil, err
	}
	mesh.Edges = mesh.FaceEdges()
	mesh.CalculateBounds()
	return mesh, nil
}

// isBinarySTL detects if the data is binary STL format.
// ASCII STL starts with "solid", but some binary headers do too, so the
// triangle count is checked against the file size.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("solid")) {
		triCount := binary.LittleEndian.Uint32(data[stlHeaderSize:])
		return uint64(len(data)) == stlHeaderSize+4+uint64(triCount)*stlTriangleSize
	}

	return true
}

// facetBuilder accumulates vertices, merging identical positions unless
// deduplication is disabled.
type facetBuilder struct {
	mesh      *Mesh
	noDedupe  bool
	vertexMap map[math3d.Vec3]int
}

func newFacetBuilder(mesh *Mesh, noDedupe bool) *facetBuilder {
	return &facetBuilder{mesh: mesh, noDedupe: noDedupe, vertexMap: make(map[math3d.Vec3]int)}
}

func (b *facetBuilder) vertex(pos, normal math3d.Vec3) int {
	if !b.noDedupe {
		if idx, ok := b.vertexMap[pos]; ok {
			return idx
		}
	}
	idx := len(b.mesh.Vertices)
	b.mesh.Vertices = append(b.mesh.Vertices, MeshVertex{Position: pos, Normal: normal})
	b.vertexMap[pos] = idx
	return idx
}

func (b *facetBuilder) facet(verts [3]math3d.Vec3, normal math3d.Vec3) {
	var face Face
	face.Material = -1
	for i, v := range verts {
		face.V[i] = b.vertex(v, normal)
	}
	b.mesh.Faces = append(b.mesh.Faces, face)
}

// loadBinary parses binary STL format.
func (l *STLLoader) loadBinary(data []byte, name string) (*Mesh, error) {
	triCount := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	expectedSize := uint64(stlHeaderSize+4) + uint64(triCount)*stlTriangleSize
	if uint64(len(data)) < expectedSize {
		return nil, fmt.Errorf("binary STL truncated: expected %d bytes, got %d", expectedSize, len(data))
	}

	mesh := NewMesh(name)
	b := newFacetBuilder(mesh, l.NoDedupe)

	offset := stlHeaderSize + 4
	for range triCount {
		normal := readVec3LE(data[offset:]).Normalize()
		var verts [3]math3d.Vec3
		for v := range 3 {
			verts[v] = readVec3LE(data[offset+12+v*12:])
		}
		b.facet(verts, normal)
		offset += stlTriangleSize
	}

	return mesh, nil
}

// readVec3LE reads three little-endian float32 values.
func readVec3LE(data []byte) math3d.Vec3 {
	return math3d.V3(
		float64(math.Float32frombits(binary.LittleEndian.Uint32(data[0:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(data[4:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(data[8:]))),
	)
}

// loadASCII parses ASCII STL format.
func (l *STLLoader) loadASCII(data []byte, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	b := newFacetBuilder(mesh, l.NoDedupe)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0

	var normal math3d.Vec3
	var verts []math3d.Vec3
	inFacet := false

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}

		case "facet":
			if len(fields) >= 5 && strings.EqualFold(fields[1], "normal") {
				n, err := parseFloats(fields[2:], 3)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid normal: %w", lineNum, err)
				}
				normal = math3d.V3(n[0], n[1], n[2]).Normalize()
			}
			inFacet = true
			verts = verts[:0]

		case "vertex":
			if !inFacet {
				return nil, fmt.Errorf("line %d: vertex outside facet", lineNum)
			}
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex: %w", lineNum, err)
			}
			verts = append(verts, math3d.V3(v[0], v[1], v[2]))

		case "endfacet":
			if len(verts) >= 3 {
				b.facet([3]math3d.Vec3{verts[0], verts[1], verts[2]}, normal)
			}
			inFacet = false

		default:
			// outer loop, endloop, endsolid
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return mesh, nil
}

// LoadSTL is a convenience function to load an STL file with default settings.
func LoadSTL(path string) (*Mesh, error) {
	return NewSTLLoader().LoadFile(path)
}

// faceNormal returns the geometric normal of a face, falling back to the
// first vertex's stored normal for faces without surface.
func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0, v1, v2 := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
	n := v1.Position.Sub(v0.Position).Cross(v2.Position.Sub(v0.Position))
	if n.LenSq() == 0 {
		return v0.Normal
	}
	return n.Normalize()
}

// WriteBinarySTL writes the mesh's triangles as binary STL.
func WriteBinarySTL(w io.Writer, m *Mesh) error {
	header := make([]byte, stlHeaderSize)
	copy(header, "binary STL: "+m.Name)

	buf := bytes.NewBuffer(make([]byte, 0, stlHeaderSize+4+len(m.Faces)*stlTriangleSize))
	buf.Write(header)
	binary.Write(buf, binary.LittleEndian, uint32(len(m.Faces)))

	for _, f := range m.Faces {
		n := m.faceNormal(f).Float32()
		binary.Write(buf, binary.LittleEndian, n)
		for _, idx := range f.V {
			binary.Write(buf, binary.LittleEndian, m.Vertices[idx].Position.Float32())
		}
		binary.Write(buf, binary.LittleEndian, uint16(0))
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write binary STL: %w", err)
	}
	return nil
}

// WriteASCIISTL writes the mesh's triangles as ASCII STL.
func WriteASCIISTL(w io.Writer, m *Mesh) error {
	name := m.Name
	if name == "" {
		name = "mesh"
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "solid %s\n", name)
	for _, f := range m.Faces {
		n := m.faceNormal(f)
		fmt.Fprintf(bw, "  facet normal %s %s %s\n", fmtSTL(n.X), fmtSTL(n.Y), fmtSTL(n.Z))
		fmt.Fprintln(bw, "    outer loop")
		for _, idx := range f.V {
			p := m.Vertices[idx].Position
			fmt.Fprintf(bw, "      vertex %s %s %s\n", fmtSTL(p.X), fmtSTL(p.Y), fmtSTL(p.Z))
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)

	return bw.Flush()
}

// fmtSTL formats a coordinate in the exponent notation STL tools expect.
func fmtSTL(f float64) string {
	return strconv.FormatFloat(f, 'e', 6, 32)
}

// SaveSTL writes the mesh to an STL file, binary unless ascii is set.
func SaveSTL(path string, m *Mesh, ascii bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create STL file: %w", err)
	}
	if ascii {
		err = WriteASCIISTL(f, m)
	} else {
		err = WriteBinarySTL(f, m)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
