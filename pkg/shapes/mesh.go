package shapes

import (
	"github.com/taigrr/icosahedron/pkg/math3d"
	"github.com/taigrr/icosahedron/pkg/models"
)

// Mesh converts the icosahedron into a generic mesh for the exporters and
// the software renderer. Faces come from the triangle indices and edges from
// the line indices, so the mesh keeps the 60-vertex flat-shaded layout.
func (ico *Icosahedron) Mesh(name string) *models.Mesh {
	mesh := models.NewMesh(name)
	count := ico.VertexCount()

	mesh.Vertices = make([]models.MeshVertex, count)
	for i := range count {
		mesh.Vertices[i] = models.MeshVertex{
			Position: math3d.V3FromFloat32(ico.vertices[i*3 : i*3+3]),
			Normal:   math3d.V3FromFloat32(ico.normals[i*3 : i*3+3]),
			UV:       math3d.V2(float64(ico.texCoords[i*2]), float64(ico.texCoords[i*2+1])),
		}
	}

	mesh.Faces = make([]models.Face, 0, ico.TriangleCount())
	for i := 0; i+2 < len(ico.indices); i += 3 {
		mesh.Faces = append(mesh.Faces, models.Face{
			V:        [3]int{int(ico.indices[i]), int(ico.indices[i+1]), int(ico.indices[i+2])},
			Material: -1,
		})
	}

	mesh.Edges = make([]models.Edge, 0, len(ico.lineIndices)/2)
	for i := 0; i+1 < len(ico.lineIndices); i += 2 {
		mesh.Edges = append(mesh.Edges, models.Edge{int(ico.lineIndices[i]), int(ico.lineIndices[i+1])})
	}

	mesh.CalculateBounds()
	return mesh
}
