package render

import (
	"math"

	"github.com/taigrr/icosahedron/pkg/math3d"
)

// MeshRenderer is the triangle source the rasterizer draws.
type MeshRenderer interface {
	TriangleCount() int
	GetFace(i int) [3]int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
}

// EdgeRenderer is the line source for wireframe drawing.
type EdgeRenderer interface {
	EdgeCount() int
	GetEdge(i int) [2]int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
}

// Vertex is a world-space vertex ready for rasterization.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
	Color    Color
}

// Triangle is three world-space vertices.
type Triangle struct {
	V [3]Vertex
}

// Rasterizer draws triangles and lines into a framebuffer through a camera.
// Front faces wind counter-clockwise.
type Rasterizer struct {
	Camera *Camera
	FB     *Framebuffer

	// DisableBackfaceCulling draws clockwise triangles too.
	DisableBackfaceCulling bool
	// Ambient is the light level of surfaces facing away from the light.
	Ambient float64

	viewProj math3d.Mat4
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	return &Rasterizer{Camera: camera, FB: fb, Ambient: 0.25}
}

// ClearDepth resets the depth buffer.
func (r *Rasterizer) ClearDepth() {
	r.FB.ClearDepth()
}

// screenVertex is a projected vertex. Attributes divided by w are kept so
// they can be interpolated perspective-correctly.
type screenVertex struct {
	x, y, z   float64
	invW      float64
	uOverW    float64
	vOverW    float64
	intensity float64
	color     Color
}

// project maps a world position to the framebuffer. Points at or behind the
// camera are rejected.
func (r *Rasterizer) project(p math3d.Vec3) (screenVertex, bool) {
	clip := r.viewProj.MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 1e-6 {
		return screenVertex{}, false
	}
	ndc := clip.PerspectiveDivide()
	return screenVertex{
		x:    (ndc.X + 1) * 0.5 * float64(r.FB.Width),
		y:    (1 - ndc.Y) * 0.5 * float64(r.FB.Height),
		z:    ndc.Z,
		invW: 1 / clip.W,
	}, true
}

func (r *Rasterizer) lightLevel(n, lightDir math3d.Vec3) float64 {
	diffuse := math.Max(0, n.Dot(lightDir))
	return r.Ambient + (1-r.Ambient)*diffuse
}

// DrawMeshTextured draws every face with tex modulated by diffuse lighting.
// lightDir points from the surface toward the light.
func (r *Rasterizer) DrawMeshTextured(mesh MeshRenderer, transform math3d.Mat4, tex *Texture, lightDir math3d.Vec3) {
	r.viewProj = r.Camera.ViewProjection()
	light := lightDir.Normalize()
	for i := range mesh.TriangleCount() {
		r.drawTriangle(buildTexturedTriangle(mesh, mesh.GetFace(i), transform), tex, light)
	}
}

// DrawMeshGouraud draws every face in a solid color with per-vertex lighting.
func (r *Rasterizer) DrawMeshGouraud(mesh MeshRenderer, transform math3d.Mat4, color Color, lightDir math3d.Vec3) {
	r.viewProj = r.Camera.ViewProjection()
	light := lightDir.Normalize()
	for i := range mesh.TriangleCount() {
		r.drawTriangle(buildGouraudTriangle(mesh, mesh.GetFace(i), transform, color), nil, light)
	}
}

// DrawMeshWireframe draws every edge without depth testing (x-ray).
func (r *Rasterizer) DrawMeshWireframe(mesh EdgeRenderer, transform math3d.Mat4, color Color) {
	r.viewProj = r.Camera.ViewProjection()
	for i := range mesh.EdgeCount() {
		e := mesh.GetEdge(i)
		a, _, _ := mesh.GetVertex(e[0])
		b, _, _ := mesh.GetVertex(e[1])
		r.drawLine(transform.MulVec3(a), transform.MulVec3(b), color)
	}
}

// DrawBox draws the outline of an axis-aligned box given by its center and
// half extents in model space.
func (r *Rasterizer) DrawBox(center, half math3d.Vec3, transform math3d.Mat4, color Color) {
	r.viewProj = r.Camera.ViewProjection()
	corners := cubeVertices(center, half)
	for _, e := range cubeEdges {
		r.drawLine(transform.MulVec3(corners[e[0]]), transform.MulVec3(corners[e[1]]), color)
	}
}

// DrawLine3D draws a world-space segment.
func (r *Rasterizer) DrawLine3D(a, b math3d.Vec3, color Color) {
	r.viewProj = r.Camera.ViewProjection()
	r.drawLine(a, b, color)
}

func (r *Rasterizer) drawTriangle(tri Triangle, tex *Texture, light math3d.Vec3) {
	var sv [3]screenVertex
	for k, v := range tri.V {
		s, ok := r.project(v.Position)
		if !ok {
			return
		}
		s.uOverW = v.UV.X * s.invW
		s.vOverW = v.UV.Y * s.invW
		s.intensity = r.lightLevel(v.Normal, light)
		s.color = v.Color
		sv[k] = s
	}

	// Screen y points down, so counter-clockwise faces have negative area.
	area := edgeFunction(sv[0], sv[1], sv[2].x, sv[2].y)
	if area == 0 || (area > 0 && !r.DisableBackfaceCulling) {
		return
	}

	fb := r.FB
	minX := max(0, int(math.Floor(min(sv[0].x, sv[1].x, sv[2].x))))
	maxX := min(fb.Width-1, int(math.Ceil(max(sv[0].x, sv[1].x, sv[2].x))))
	minY := max(0, int(math.Floor(min(sv[0].y, sv[1].y, sv[2].y))))
	maxY := min(fb.Height-1, int(math.Ceil(max(sv[0].y, sv[1].y, sv[2].y))))

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := edgeFunction(sv[1], sv[2], px, py) / area
			w1 := edgeFunction(sv[2], sv[0], px, py) / area
			w2 := edgeFunction(sv[0], sv[1], px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*sv[0].z + w1*sv[1].z + w2*sv[2].z
			if z < -1 || z > 1 || !fb.DepthTest(x, y, z) {
				continue
			}

			light := w0*sv[0].intensity + w1*sv[1].intensity + w2*sv[2].intensity
			c := sv[0].color
			if tex != nil {
				invW := w0*sv[0].invW + w1*sv[1].invW + w2*sv[2].invW
				u := (w0*sv[0].uOverW + w1*sv[1].uOverW + w2*sv[2].uOverW) / invW
				v := (w0*sv[0].vOverW + w1*sv[1].vOverW + w2*sv[2].vOverW) / invW
				c = ModulateColor(tex.Sample(u, v), c)
			}
			fb.Pixels[y*fb.Width+x] = MultiplyColor(c, light)
		}
	}
}

// edgeFunction is twice the signed area of (a, b, p).
func edgeFunction(a, b screenVertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// drawLine rasterizes a world-space segment with Bresenham's algorithm.
func (r *Rasterizer) drawLine(a, b math3d.Vec3, color Color) {
	sa, okA := r.project(a)
	sb, okB := r.project(b)
	if !okA || !okB {
		return
	}
	drawLine2D(r.FB, int(math.Floor(sa.x)), int(math.Floor(sa.y)), int(math.Floor(sb.x)), int(math.Floor(sb.y)), color)
}

// drawLine2D draws a pixel line between two framebuffer coordinates.
func drawLine2D(fb *Framebuffer, x0, y0, x1, y1 int, color Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	// Lines far off screen would take forever to walk.
	limit := 4 * (fb.Width + fb.Height)
	errTerm := dx + dy
	for range limit {
		fb.SetPixel(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * errTerm
		if e2 >= dy {
			errTerm += dy
			x0 += sx
		}
		if e2 <= dx {
			errTerm += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
