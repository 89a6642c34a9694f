package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taigrr/icosahedron/pkg/models"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info [model.obj|model.stl|model.gltf|model.glb]",
		Short: "Display mesh information",
		Long: `Without arguments, describe the generated icosahedron: radius, edge length,
element counts and bounding box. With a file, load it and report its format,
vertex, triangle and edge counts and bounding box.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				ico := a.icosahedron()
				if err := ico.Describe(out); err != nil {
					return err
				}
				fmt.Fprintln(out)
				printMeshInfo(out, ico.Mesh("icosahedron"))
				return nil
			}
			return runInfo(out, args[0])
		},
	}
}

// loadModel picks a loader from the file extension.
func loadModel(path string) (*models.Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		return models.LoadGLTF(path)
	case ".obj":
		return models.LoadOBJ(path)
	case ".stl":
		return models.LoadSTL(path)
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .obj, .stl, .gltf or .glb)", ext)
	}
}

func runInfo(out io.Writer, modelPath string) error {
	info, err := os.Stat(modelPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	mesh, err := loadModel(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	ext := filepath.Ext(modelPath)
	fmt.Fprintf(out, "File:       %s\n", filepath.Base(modelPath))
	fmt.Fprintf(out, "Format:     %s\n", strings.ToUpper(strings.TrimPrefix(ext, ".")))
	fmt.Fprintf(out, "Size:       %.2f KB\n", float64(info.Size())/1024)
	fmt.Fprintln(out)
	printMeshInfo(out, mesh)

	for _, mat := range mesh.Materials {
		if mat.TextureURI != "" {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Texture:    %s\n", mat.TextureURI)
			break
		}
	}
	return nil
}

func printMeshInfo(out io.Writer, mesh *models.Mesh) {
	mesh.CalculateBounds()
	size := mesh.Size()
	center := mesh.Center()

	fmt.Fprintf(out, "Vertices:   %d\n", mesh.VertexCount())
	fmt.Fprintf(out, "Triangles:  %d\n", mesh.TriangleCount())
	fmt.Fprintf(out, "Edges:      %d\n", mesh.EdgeCount())
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Bounds Min: (%.3f, %.3f, %.3f)\n", mesh.BoundsMin.X, mesh.BoundsMin.Y, mesh.BoundsMin.Z)
	fmt.Fprintf(out, "Bounds Max: (%.3f, %.3f, %.3f)\n", mesh.BoundsMax.X, mesh.BoundsMax.Y, mesh.BoundsMax.Z)
	fmt.Fprintf(out, "Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(out, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
}
