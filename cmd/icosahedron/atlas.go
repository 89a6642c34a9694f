package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/icosahedron/internal/logger"
	"github.com/taigrr/icosahedron/pkg/render"
)

func newAtlasCmd(a *app) *cobra.Command {
	var (
		output        string
		width, height int
		noFill        bool
	)

	cmd := &cobra.Command{
		Use:   "atlas",
		Short: "Draw the texture unwrapping template",
		Long: `Draw the texture-space layout of the icosahedron: every triangle at its
texture coordinates with the wireframe edges on top. Paint over the result to
make a texture that lines up with the faces. The output is PNG, or BMP when
the file name ends in .bmp.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid atlas size %dx%d", width, height)
			}

			ico := a.icosahedron()
			style := render.DefaultAtlasStyle()
			if noFill {
				style.Fills = nil
			}
			fb := render.DrawAtlas(width, height, ico.TexCoords(), ico.Indices(), ico.LineIndices(), style)
			if err := fb.Save(output); err != nil {
				return err
			}

			logger.Debug("wrote atlas", zap.String("path", output), zap.Int("width", width), zap.Int("height", height))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d)\n", output, width, height)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "icosahedron_template.png", "Output image (.png or .bmp)")
	cmd.Flags().IntVar(&width, "width", 2048, "Image width")
	cmd.Flags().IntVar(&height, "height", 1024, "Image height")
	cmd.Flags().BoolVar(&noFill, "no-fill", false, "Draw outlines only")
	return cmd
}
