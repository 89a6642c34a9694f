package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/icosahedron/internal/logger"
	"github.com/taigrr/icosahedron/pkg/math3d"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		output        string
		width, height int
		yaw, pitch    float64
		wireframe     bool
		overlay       bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a snapshot image",
		Long: `Render the icosahedron with the software rasterizer and save the image.
The configured texture is used when set; otherwise faces are solid gray.
Angles are in degrees.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid image size %dx%d", width, height)
			}

			s, err := newScene(a.icosahedron(), width, height, a.cfg.Viewer, a.cfg.Texture)
			if err != nil {
				return err
			}

			mode := RenderModeTextured
			if wireframe || a.cfg.Viewer.Wireframe {
				mode = RenderModeWireframe
			}
			transform := math3d.RotateX(pitch * math.Pi / 180).Mul(math3d.RotateY(yaw * math.Pi / 180))
			s.draw(transform, mode, math3d.V3(0.5, 1, 0.3), overlay)

			if err := s.fb.Save(output); err != nil {
				return err
			}
			logger.Debug("rendered snapshot", zap.String("path", output), zap.Float64("yaw", yaw), zap.Float64("pitch", pitch))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d)\n", output, width, height)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "icosahedron.png", "Output image (.png or .bmp)")
	cmd.Flags().IntVar(&width, "width", 512, "Image width")
	cmd.Flags().IntVar(&height, "height", 512, "Image height")
	cmd.Flags().Float64Var(&yaw, "yaw", 30, "Rotation about the vertical axis")
	cmd.Flags().Float64Var(&pitch, "pitch", -20, "Rotation about the horizontal axis")
	cmd.Flags().BoolVar(&wireframe, "wireframe", false, "Draw edges only")
	cmd.Flags().BoolVar(&overlay, "overlay", false, "Draw edges on top of the faces")
	return cmd
}
