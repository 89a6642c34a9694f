package shapes

import "github.com/taigrr/icosahedron/pkg/math3d"

const expandedVertexCount = TriangleCount * 3

// build regenerates every buffer from scratch at the current radius.
func (ico *Icosahedron) build() {
	unitBase := unitBaseVertices()
	var base [BaseVertexCount]math3d.Vec3
	for i, v := range unitBase {
		base[i] = v.Scale(ico.radius)
	}

	ico.vertices = make([]float32, 0, expandedVertexCount*3)
	ico.normals = make([]float32, 0, expandedVertexCount*3)
	ico.texCoords = make([]float32, 0, expandedVertexCount*2)
	ico.indices = make([]uint32, 0, expandedVertexCount)
	ico.lineIndices = make([]uint32, 0, EdgeCount*2)
	ico.unit = make([]math3d.Vec3, 0, expandedVertexCount)
	ico.degenerate = false

	const north, south = 0, BaseVertexCount - 1
	for i := 1; i <= SectorCount; i++ {
		// Corners of this sector; the last sector wraps to the first.
		u1, l1 := i, i+SectorCount
		u2, l2 := i+1, i+SectorCount+1
		if i == SectorCount {
			u2, l2 = 1, SectorCount+1
		}

		anchors := sectorTexCoords(i)
		first := uint32(len(ico.indices))

		ico.addTriangle(&base, &unitBase, [3]int{north, u1, u2},
			[3]math3d.Vec2{anchors.top, anchors.upperLeft, anchors.upperRight})
		ico.addTriangle(&base, &unitBase, [3]int{u1, l1, u2},
			[3]math3d.Vec2{anchors.upperLeft, anchors.lowerLeft, anchors.upperRight})
		ico.addTriangle(&base, &unitBase, [3]int{u2, l1, l2},
			[3]math3d.Vec2{anchors.upperRight, anchors.lowerLeft, anchors.lowerRight})
		ico.addTriangle(&base, &unitBase, [3]int{l1, south, l2},
			[3]math3d.Vec2{anchors.lowerLeft, anchors.bottom, anchors.lowerRight})

		ico.addLineIndices(first)
	}

	ico.buildInterleaved()
}

// rescale moves every position to the current radius without touching
// normals, texture coordinates or indices.
func (ico *Icosahedron) rescale() {
	if ico.degenerate && !collapsed(ico.radius) {
		// Normals from a collapsed build are all zero; start over.
		ico.build()
		return
	}

	for i, u := range ico.unit {
		p := u.Scale(ico.radius).Float32()
		copy(ico.vertices[i*3:i*3+3], p[:])
		copy(ico.interleaved[i*interleavedFloats:i*interleavedFloats+3], p[:])
	}
}

// collapsed reports whether faces at radius r are too small to have a
// normal. All faces are congruent, so the first one decides.
func collapsed(r float64) bool {
	b := unitBaseVertices()
	return FaceNormal(b[0].Scale(r), b[1].Scale(r), b[2].Scale(r)) == math3d.Vec3{}
}

// addTriangle appends one flat-shaded triangle: positions, a replicated face
// normal, texture coordinates and three fresh indices.
func (ico *Icosahedron) addTriangle(base, unitBase *[BaseVertexCount]math3d.Vec3, corners [3]int, uvs [3]math3d.Vec2) {
	n := FaceNormal(base[corners[0]], base[corners[1]], base[corners[2]])
	if n == (math3d.Vec3{}) {
		ico.degenerate = true
	}
	nf := n.Float32()

	for k, c := range corners {
		p := base[c].Float32()
		t := uvs[k].Float32()
		ico.vertices = append(ico.vertices, p[:]...)
		ico.normals = append(ico.normals, nf[:]...)
		ico.texCoords = append(ico.texCoords, t[:]...)
		ico.indices = append(ico.indices, uint32(len(ico.unit)))
		ico.unit = append(ico.unit, unitBase[c])
	}
}

// addLineIndices appends the 6 edges drawn for one sector, starting at the
// sector's first vertex k:
//
//	(k, k+1)                          left edge of the top triangle
//	(k+3, k+4) (k+3, k+5) (k+4, k+5)  the upper triangle of the middle row
//	(k+9, k+10) (k+9, k+11)           both edges meeting the south pole
func (ico *Icosahedron) addLineIndices(k uint32) {
	ico.lineIndices = append(ico.lineIndices,
		k, k+1,
		k+3, k+4,
		k+3, k+5,
		k+4, k+5,
		k+9, k+10,
		k+9, k+11,
	)
}

// buildInterleaved zips positions, normals and texcoords into one buffer.
func (ico *Icosahedron) buildInterleaved() {
	count := ico.VertexCount()
	ico.interleaved = make([]float32, 0, count*interleavedFloats)
	for i := range count {
		ico.interleaved = append(ico.interleaved, ico.vertices[i*3:i*3+3]...)
		ico.interleaved = append(ico.interleaved, ico.normals[i*3:i*3+3]...)
		ico.interleaved = append(ico.interleaved, ico.texCoords[i*2:i*2+2]...)
	}
}

// sectorAnchors are the six atlas points used by one sector's triangles.
type sectorAnchors struct {
	top, upperLeft, upperRight, lowerLeft, lowerRight, bottom math3d.Vec2
}

// sectorTexCoords returns the atlas anchors for sector i (1-based).
func sectorTexCoords(i int) sectorAnchors {
	s := func(n int) float64 { return float64(n) * TexStepS }
	return sectorAnchors{
		top:        math3d.V2(s(2*i-1), 0),
		upperLeft:  math3d.V2(s(2*i-2), TexStepT),
		upperRight: math3d.V2(s(2*i), TexStepT),
		lowerLeft:  math3d.V2(s(2*i-1), TexStepT*2),
		lowerRight: math3d.V2(s(2*i+1), TexStepT*2),
		bottom:     math3d.V2(s(2*i), TexStepT*3),
	}
}
