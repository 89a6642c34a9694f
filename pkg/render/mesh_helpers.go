package render

import "github.com/taigrr/icosahedron/pkg/math3d"

func buildTexturedTriangle(mesh MeshRenderer, face [3]int, transform math3d.Mat4) Triangle {
	return buildTriangle(mesh, face, transform, ColorWhite)
}

func buildGouraudTriangle(mesh MeshRenderer, face [3]int, transform math3d.Mat4, color Color) Triangle {
	return buildTriangle(mesh, face, transform, color)
}

// buildTriangle moves a face into world space. Normals use the direction part
// of transform, which is exact for rotations and uniform scales.
func buildTriangle(mesh MeshRenderer, face [3]int, transform math3d.Mat4, color Color) Triangle {
	var tri Triangle
	for k, idx := range face {
		p, n, uv := mesh.GetVertex(idx)
		tri.V[k] = Vertex{
			Position: transform.MulVec3(p),
			Normal:   transform.MulVec3Dir(n).Normalize(),
			UV:       uv,
			Color:    color,
		}
	}
	return tri
}
