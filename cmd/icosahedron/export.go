package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/icosahedron/internal/config"
	"github.com/taigrr/icosahedron/internal/logger"
	"github.com/taigrr/icosahedron/pkg/models"
)

// formatExt maps each export format to its file extension.
var formatExt = map[string]string{
	"obj":       ".obj",
	"stl":       ".stl",
	"stl-ascii": ".stl",
	"gltf":      ".gltf",
	"glb":       ".glb",
}

func newExportCmd(a *app) *cobra.Command {
	var (
		output  string
		format  string
		texture string
		noLines bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the icosahedron to a model file",
		Long: `Write the icosahedron as OBJ, binary or ASCII STL, glTF or GLB.

Without --format the format follows the extension of --output. Without
--output the configured output name is used with the extension of the format.
OBJ and glTF keep the wireframe edges (OBJ "l" elements, a glTF lines
primitive); STL keeps triangles only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			path, fmtName, err := resolveExport(a.cfg.Export,
				output, flags.Changed("output"), format, flags.Changed("format"))
			if err != nil {
				return err
			}
			if !flags.Changed("texture") {
				texture = a.cfg.Texture.Path
			}

			mesh := a.icosahedron().Mesh("icosahedron")
			if err := writeMesh(path, fmtName, mesh, models.GLTFOptions{
				TextureURI:   texture,
				ClampTexture: !a.cfg.Texture.Wrap,
				NoLines:      noLines,
			}); err != nil {
				return err
			}

			logger.Debug("exported mesh", zap.String("path", path), zap.String("format", fmtName))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d triangles)\n", path, fmtName, mesh.TriangleCount())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	cmd.Flags().StringVar(&format, "format", "", "Format: "+strings.Join(config.ExportFormats, ", "))
	cmd.Flags().StringVar(&texture, "texture", "", "Base color texture URI to reference (glTF/GLB)")
	cmd.Flags().BoolVar(&noLines, "no-lines", false, "Skip the wireframe primitive (glTF/GLB)")
	return cmd
}

// resolveExport settles the output path and format from the flags and the
// configured defaults. An explicit format and output must agree.
func resolveExport(cfg config.ExportConfig, output string, outputSet bool, format string, formatSet bool) (string, string, error) {
	if formatSet && !config.ValidExportFormat(format) {
		return "", "", fmt.Errorf("unknown format %q: want one of %s", format, strings.Join(config.ExportFormats, ", "))
	}

	switch {
	case outputSet && formatSet:
	case outputSet:
		format = formatFromPath(output)
		if format == "" {
			return "", "", fmt.Errorf("cannot infer format from %q: use --format", output)
		}
	case formatSet:
		output = strings.TrimSuffix(cfg.Output, filepath.Ext(cfg.Output)) + formatExt[format]
	default:
		output, format = cfg.Output, cfg.Format
	}

	if !strings.EqualFold(filepath.Ext(output), formatExt[format]) {
		return "", "", fmt.Errorf("output %q does not match format %s (want %s extension)", output, format, formatExt[format])
	}
	return output, format, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return "obj"
	case ".stl":
		return "stl"
	case ".gltf":
		return "gltf"
	case ".glb":
		return "glb"
	}
	return ""
}

func writeMesh(path, format string, mesh *models.Mesh, opts models.GLTFOptions) error {
	switch format {
	case "obj":
		return models.SaveOBJ(path, mesh)
	case "stl":
		return models.SaveSTL(path, mesh, false)
	case "stl-ascii":
		return models.SaveSTL(path, mesh, true)
	case "gltf", "glb":
		return models.SaveGLTF(path, mesh, opts)
	}
	return fmt.Errorf("unknown format %q", format)
}
