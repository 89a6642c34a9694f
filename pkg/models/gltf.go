package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/icosahedron/pkg/math3d"
)

// GLTFOptions controls what NewGLTFDocument emits besides geometry.
type GLTFOptions struct {
	// TextureURI, when set, is referenced as the base color texture.
	TextureURI string
	// ClampTexture selects clamp-to-edge instead of repeat wrapping.
	ClampTexture bool
	// NoLines skips the wireframe primitive.
	NoLines bool
}

// NewGLTFDocument builds a glTF document holding the mesh as one node with a
// triangles primitive and, when the mesh has edges, a lines primitive sharing
// the same vertex accessors.
func NewGLTFDocument(m *Mesh, opts GLTFOptions) *gltf.Document {
	doc := gltf.NewDocument()

	positions := make([][3]float32, len(m.Vertices))
	normals := make([][3]float32, len(m.Vertices))
	uvs := make([][2]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = v.Position.Float32()
		normals[i] = v.Normal.Float32()
		uvs[i] = v.UV.Float32()
	}
	_, indices, lineIndices := m.Interleaved()

	posAcr := modeler.WritePosition(doc, positions)
	attrs := map[string]int{
		gltf.POSITION:   posAcr,
		gltf.NORMAL:     modeler.WriteNormal(doc, normals),
		gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
	}

	doc.Materials = append(doc.Materials, newGLTFMaterial(doc, m, opts))

	prims := []*gltf.Primitive{{
		Mode:       gltf.PrimitiveTriangles,
		Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
		Attributes: attrs,
		Material:   gltf.Index(0),
	}}
	if len(lineIndices) > 0 && !opts.NoLines {
		prims = append(prims, &gltf.Primitive{
			Mode:       gltf.PrimitiveLines,
			Indices:    gltf.Index(modeler.WriteIndices(doc, lineIndices)),
			Attributes: map[string]int{gltf.POSITION: posAcr},
		})
	}

	name := m.Name
	if name == "" {
		name = "mesh"
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: prims})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	return doc
}

// newGLTFMaterial converts the mesh's first material (or a white default)
// and attaches the optional texture.
func newGLTFMaterial(doc *gltf.Document, m *Mesh, opts GLTFOptions) *gltf.Material {
	src := Material{Name: "default", BaseColor: [4]float64{1, 1, 1, 1}}
	if len(m.Materials) > 0 {
		src = m.Materials[0]
	}
	uri := opts.TextureURI
	if uri == "" {
		uri = src.TextureURI
	}

	color := src.BaseColor
	mat := &gltf.Material{
		Name: src.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &color,
		},
	}

	if uri != "" {
		wrap := gltf.WrapRepeat
		if opts.ClampTexture {
			wrap = gltf.WrapClampToEdge
		}
		doc.Samplers = append(doc.Samplers, &gltf.Sampler{WrapS: wrap, WrapT: wrap})
		doc.Images = append(doc.Images, &gltf.Image{URI: uri})
		doc.Textures = append(doc.Textures, &gltf.Texture{
			Sampler: gltf.Index(len(doc.Samplers) - 1),
			Source:  gltf.Index(len(doc.Images) - 1),
		})
		mat.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: len(doc.Textures) - 1}
	}

	return mat
}

// SaveGLTF writes the mesh to path. A ".glb" extension selects the binary
// container; anything else writes JSON with the buffer embedded as a data URI.
func SaveGLTF(path string, m *Mesh, opts GLTFOptions) error {
	doc := NewGLTFDocument(m, opts)

	if strings.EqualFold(filepath.Ext(path), ".glb") {
		if err := gltf.SaveBinary(doc, path); err != nil {
			return fmt.Errorf("save glb: %w", err)
		}
		return nil
	}

	doc.Buffers[0].EmbeddedResource()
	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("save gltf: %w", err)
	}
	return nil
}

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Options
	CalculateNormals bool // If true, calculate flat normals if none are provided
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
	}
}

// LoadGLTF loads a .gltf or .glb file with default settings.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh. Triangle primitives
// become faces and line primitives become edges.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	mesh.Materials = extractMaterials(doc)

	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = int(*doc.Scene)
		}
		for _, nodeIdx := range doc.Scenes[sceneIdx].Nodes {
			if err := l.processNode(doc, int(nodeIdx), math3d.Identity(), mesh); err != nil {
				return nil, err
			}
		}
	} else {
		for i := range doc.Meshes {
			if err := l.processMesh(doc, doc.Meshes[i], math3d.Identity(), mesh); err != nil {
				return nil, err
			}
		}
	}

	hasNormals := false
	for _, v := range mesh.Vertices {
		if v.Normal.Len() > 0.001 {
			hasNormals = true
			break
		}
	}
	if l.CalculateNormals && !hasNormals {
		mesh.CalculateNormals()
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// processNode recursively processes a node and its children, accumulating transforms.
func (l *GLTFLoader) processNode(doc *gltf.Document, nodeIdx int, parent math3d.Mat4, mesh *Mesh) error {
	node := doc.Nodes[nodeIdx]

	local := math3d.Identity()
	if node.Translation != [3]float64{0, 0, 0} {
		local = local.Mul(math3d.Translate(math3d.V3(node.Translation[0], node.Translation[1], node.Translation[2])))
	}
	if node.Rotation != [4]float64{0, 0, 0, 1} {
		local = local.Mul(math3d.QuatToMat4(node.Rotation[0], node.Rotation[1], node.Rotation[2], node.Rotation[3]))
	}
	if node.Scale != [3]float64{1, 1, 1} && node.Scale != [3]float64{0, 0, 0} {
		local = local.Mul(math3d.Scale(math3d.V3(node.Scale[0], node.Scale[1], node.Scale[2])))
	}
	if node.Matrix != [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1} {
		local = math3d.Mat4FromSlice(node.Matrix[:])
	}
	world := parent.Mul(local)

	if node.Mesh != nil {
		if err := l.processMesh(doc, doc.Meshes[*node.Mesh], world, mesh); err != nil {
			return err
		}
	}
	for _, child := range node.Children {
		if err := l.processNode(doc, int(child), world, mesh); err != nil {
			return err
		}
	}
	return nil
}

// processMesh appends one glTF mesh. Primitives sharing a POSITION accessor
// share mesh vertices, so a lines primitive indexes the same vertices as the
// triangles it outlines.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, transform math3d.Mat4, mesh *Mesh) error {
	baseByAccessor := make(map[int]int)

	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != gltf.PrimitiveLines {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		base, seen := baseByAccessor[posIdx]
		count := doc.Accessors[posIdx].Count
		if !seen {
			base = len(mesh.Vertices)
			if err := appendVertices(doc, prim, transform, mesh); err != nil {
				return err
			}
			baseByAccessor[posIdx] = base
		}

		var indices []uint32
		if prim.Indices != nil {
			var err error
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, count)
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		if prim.Mode == gltf.PrimitiveLines {
			for i := 0; i+1 < len(indices); i += 2 {
				mesh.Edges = append(mesh.Edges, Edge{base + int(indices[i]), base + int(indices[i+1])})
			}
			continue
		}

		materialIdx := -1
		if prim.Material != nil {
			materialIdx = int(*prim.Material)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, Face{
				V: [3]int{
					base + int(indices[i]),
					base + int(indices[i+1]),
					base + int(indices[i+2]),
				},
				Material: materialIdx,
			})
		}
	}

	return nil
}

// appendVertices reads a primitive's vertex attributes into the mesh.
func appendVertices(doc *gltf.Document, prim *gltf.Primitive, transform math3d.Mat4, mesh *Mesh) error {
	positions, err := modeler.ReadPosition(doc, doc.Accessors[prim.Attributes[gltf.POSITION]], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("read uvs: %w", err)
		}
	}

	for i, p := range positions {
		v := MeshVertex{Position: transform.MulVec3(math3d.V3FromFloat32(p[:]))}
		if i < len(normals) {
			v.Normal = transform.MulVec3Dir(math3d.V3FromFloat32(normals[i][:])).Normalize()
		}
		if i < len(uvs) {
			v.UV = math3d.V2(float64(uvs[i][0]), float64(uvs[i][1]))
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}
	return nil
}

// extractMaterials extracts all materials from a GLTF document.
func extractMaterials(doc *gltf.Document) []Material {
	materials := make([]Material, len(doc.Materials))

	for i, mat := range doc.Materials {
		m := Material{
			Name:      mat.Name,
			BaseColor: [4]float64{1, 1, 1, 1},
		}

		if pbr := mat.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				m.BaseColor = *pbr.BaseColorFactor
			}
			if pbr.BaseColorTexture != nil && int(pbr.BaseColorTexture.Index) < len(doc.Textures) {
				tex := doc.Textures[pbr.BaseColorTexture.Index]
				if tex.Source != nil && int(*tex.Source) < len(doc.Images) {
					m.TextureURI = doc.Images[*tex.Source].URI
				}
			}
		}

		materials[i] = m
	}

	return materials
}
