// icosahedron-gl - OpenGL icosahedron viewer
// Uploads the interleaved icosahedron to a vertex buffer and draws it in an
// SDL2 window.
//
// Controls:
//
//	Left drag   - Rotate
//	Right drag  - Zoom
//	D           - Cycle fill, wireframe and points
//	W           - Toggle edge overlay
//	+/-         - Grow/shrink the radius
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/icosahedron/internal/config"
	"github.com/taigrr/icosahedron/internal/logger"
	"github.com/taigrr/icosahedron/pkg/shapes"
)

var version = "dev"

type options struct {
	configPath string
	radius     float64
	edge       float64
	texture    string
	logLevel   string
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "icosahedron-gl",
		Short:         "OpenGL icosahedron viewer",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()
			return run(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.configPath, "config", "", "Path to a YAML config file")
	flags.Float64Var(&o.radius, "radius", 1.0, "Circumscribed sphere radius")
	flags.Float64Var(&o.edge, "edge", 0, "Edge length (overrides --radius)")
	flags.StringVar(&o.texture, "texture", "", "Texture image (BMP, PNG or JPEG)")
	flags.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	return cmd
}

// load resolves the config with the flags that were set on top.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	var ov config.Overrides
	flags := cmd.Flags()
	if flags.Changed("radius") {
		ov.Radius = &o.radius
	}
	if flags.Changed("edge") {
		ov.EdgeLength = &o.edge
	}
	if flags.Changed("log-level") {
		ov.LogLevel = &o.logLevel
	}
	cfg.Apply(ov)
	if flags.Changed("texture") {
		cfg.Texture.Path = o.texture
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	ico := shapes.NewIcosahedron(cfg.Mesh.Radius)
	if cfg.Mesh.EdgeLength != 0 {
		ico.SetEdgeLength(cfg.Mesh.EdgeLength)
	}
	logger.Debug("built icosahedron",
		zap.Float64("radius", ico.Radius()),
		zap.Float64("edge_length", ico.EdgeLength()),
		zap.Int("vertices", ico.VertexCount()),
	)

	d, err := newDemo(cfg, ico, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer d.Close()

	d.Run()
	return nil
}
