package render

import "github.com/taigrr/icosahedron/pkg/math3d"

// cubeEdges pairs the corners returned by cubeVertices.
var cubeEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func cubeVertices(center math3d.Vec3, half math3d.Vec3) [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: center.X - half.X, Y: center.Y - half.Y, Z: center.Z - half.Z},
		{X: center.X + half.X, Y: center.Y - half.Y, Z: center.Z - half.Z},
		{X: center.X + half.X, Y: center.Y + half.Y, Z: center.Z - half.Z},
		{X: center.X - half.X, Y: center.Y + half.Y, Z: center.Z - half.Z},
		{X: center.X - half.X, Y: center.Y - half.Y, Z: center.Z + half.Z},
		{X: center.X + half.X, Y: center.Y - half.Y, Z: center.Z + half.Z},
		{X: center.X + half.X, Y: center.Y + half.Y, Z: center.Z + half.Z},
		{X: center.X - half.X, Y: center.Y + half.Y, Z: center.Z + half.Z},
	}
}
