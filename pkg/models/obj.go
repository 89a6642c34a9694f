package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/icosahedron/pkg/math3d"
)

// OBJLoader loads Wavefront OBJ files.
type OBJLoader struct {
	// Options
	CalculateNormals bool // If true, calculate flat normals if none are provided
}

// NewOBJLoader creates a new OBJ loader with default settings.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		CalculateNormals: true,
	}
}

// LoadFile loads an OBJ file from disk.
func (l *OBJLoader) LoadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	return l.Load(f, path)
}

// Load parses an OBJ from a reader. Faces keep the file's winding; polygons
// are fan-triangulated. Line elements ("l") become mesh edges.
func (l *OBJLoader) Load(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	// OBJ data is 1-indexed and stored per attribute
	var positions []math3d.Vec3
	var normals []math3d.Vec3
	var uvs []math3d.Vec2

	// A mesh vertex is one unique pos/uv/normal combination
	type vertexKey struct {
		pos, uv, normal int
	}
	vertexMap := make(map[vertexKey]int)
	// First mesh vertex created for each position, used by line elements
	posVertex := make(map[int]int)

	vertexFor := func(field string) (int, error) {
		posIdx, uvIdx, normalIdx, err := parseFaceVertex(field)
		if err != nil {
			return 0, err
		}
		posIdx = resolveIndex(posIdx, len(positions))
		uvIdx = resolveIndex(uvIdx, len(uvs))
		normalIdx = resolveIndex(normalIdx, len(normals))
		if posIdx < 0 || posIdx >= len(positions) {
			return 0, fmt.Errorf("position index %d out of range", posIdx+1)
		}

		key := vertexKey{posIdx, uvIdx, normalIdx}
		if idx, ok := vertexMap[key]; ok {
			return idx, nil
		}
		vert := MeshVertex{Position: positions[posIdx]}
		if uvIdx >= 0 && uvIdx < len(uvs) {
			vert.UV = uvs[uvIdx]
		}
		if normalIdx >= 0 && normalIdx < len(normals) {
			vert.Normal = normals[normalIdx]
		}
		idx := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, vert)
		vertexMap[key] = idx
		if _, ok := posVertex[posIdx]; !ok {
			posVertex[posIdx] = idx
		}
		return idx, nil
	}

	// Lines attach to the vertex already used by a face at that position.
	lineVertexFor := func(field string) (int, error) {
		posIdx, _, _, err := parseFaceVertex(field)
		if err != nil {
			return 0, err
		}
		if idx, ok := posVertex[resolveIndex(posIdx, len(positions))]; ok {
			return idx, nil
		}
		return vertexFor(field)
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex: %w", lineNum, err)
			}
			positions = append(positions, math3d.V3(v[0], v[1], v[2]))

		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid texture coord: %w", lineNum, err)
			}
			// OBJ has a bottom-left UV origin
			uvs = append(uvs, math3d.V2(v[0], 1-v[1]))

		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid normal: %w", lineNum, err)
			}
			normals = append(normals, math3d.V3(v[0], v[1], v[2]).Normalize())

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}
			faceVerts := make([]int, 0, len(fields)-1)
			for _, field := range fields[1:] {
				idx, err := vertexFor(field)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				faceVerts = append(faceVerts, idx)
			}
			for i := 1; i < len(faceVerts)-1; i++ {
				mesh.Faces = append(mesh.Faces, Face{
					V:        [3]int{faceVerts[0], faceVerts[i], faceVerts[i+1]},
					Material: -1,
				})
			}

		case "l":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: line element needs at least 2 vertices", lineNum)
			}
			prev := -1
			for _, field := range fields[1:] {
				idx, err := lineVertexFor(field)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				if prev >= 0 {
					mesh.Edges = append(mesh.Edges, Edge{prev, idx})
				}
				prev = idx
			}

		case "o", "g":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}

		default:
			// mtllib, usemtl, s and unknown directives are ignored
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}

	mesh.CalculateBounds()

	if l.CalculateNormals && len(normals) == 0 {
		mesh.CalculateNormals()
	}

	return mesh, nil
}

// parseFloats parses exactly the first n fields as floats.
func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("need %d components, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// parseFaceVertex parses a face vertex in format: v, v/vt, v/vt/vn, or v//vn
// Returns 1-indexed values (0 means not specified)
func parseFaceVertex(s string) (pos, uv, normal int, err error) {
	parts := strings.Split(s, "/")

	pos, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid vertex index: %s", parts[0])
	}

	if len(parts) > 1 && parts[1] != "" {
		uv, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid texture index: %s", parts[1])
		}
	}

	if len(parts) > 2 && parts[2] != "" {
		normal, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid normal index: %s", parts[2])
		}
	}

	return pos, uv, normal, nil
}

// resolveIndex converts OBJ 1-indexed (or negative) index to 0-indexed.
// Returns -1 if index was 0 (not specified).
func resolveIndex(idx, count int) int {
	if idx == 0 {
		return -1
	}
	if idx < 0 {
		return count + idx
	}
	return idx - 1
}

// LoadOBJ is a convenience function to load an OBJ file with default settings.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().LoadFile(path)
}

// WriteOBJ writes the mesh as Wavefront OBJ. Every mesh vertex becomes one
// v/vt/vn triple so flat-shaded meshes survive a round trip unchanged.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %d vertices, %d triangles, %d edges\n", m.VertexCount(), m.TriangleCount(), m.EdgeCount())
	if m.Name != "" {
		fmt.Fprintf(bw, "o %s\n", m.Name)
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.Position.X, v.Position.Y, v.Position.Z)
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "vt %g %g\n", v.UV.X, 1-v.UV.Y)
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal.X, v.Normal.Y, v.Normal.Z)
	}
	for _, f := range m.Faces {
		a, b, c := f.V[0]+1, f.V[1]+1, f.V[2]+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}
	for _, e := range m.Edges {
		fmt.Fprintf(bw, "l %d %d\n", e[0]+1, e[1]+1)
	}

	return bw.Flush()
}

// SaveOBJ writes the mesh to an OBJ file on disk.
func SaveOBJ(path string, m *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create OBJ file: %w", err)
	}
	if err := WriteOBJ(f, m); err != nil {
		f.Close()
		return fmt.Errorf("write OBJ: %w", err)
	}
	return f.Close()
}
