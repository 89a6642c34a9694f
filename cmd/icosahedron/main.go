// icosahedron - flat shaded icosahedron generator
// Builds the 20-face mesh, exports it, draws its texture template and shows
// it in the terminal.
//
// Commands:
//
//	info [file]  - Describe the generated mesh or a model file
//	export       - Write OBJ, STL, glTF or GLB
//	atlas        - Draw the UV unwrapping template
//	render       - Software render a PNG snapshot
//	view         - Interactive terminal viewer
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

// app carries the resolved configuration between the root command and its
// subcommands.
type app struct {
	configPath string
	radius     float64
	edge       float64
	logLevel   string
	logFile    string

	cfg *config.Config
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "icosahedron",
		Short: "Flat shaded icosahedron generator",
		Long: `icosahedron - flat shaded icosahedron generator

Builds the 60-vertex, 20-triangle icosahedron with per-face normals and
texture atlas coordinates, then exports, renders or displays it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	flags.Float64Var(&a.radius, "radius", 1.0, "Circumscribed sphere radius")
	flags.Float64Var(&a.edge, "edge", 0, "Edge length (overrides --radius)")
	flags.StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFile, "log-file", "", "Also log to this file (rotated)")

	cmd.AddCommand(
		newInfoCmd(a),
		newExportCmd(a),
		newAtlasCmd(a),
		newRenderCmd(a),
		newViewCmd(a),
	)
	return cmd
}

// setup loads the config, applies the flags that were set and starts the
// logger. The terminal viewer owns the screen, so it only logs to a file.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("radius") {
		o.Radius = &a.radius
	}
	if flags.Changed("edge") {
		o.EdgeLength = &a.edge
	}
	if flags.Changed("log-level") {
		o.LogLevel = &a.logLevel
	}
	if flags.Changed("log-file") {
		o.LogFile = &a.logFile
	}
	cfg.Apply(o)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	console := cmd.Name() != "view"
	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, console); err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}

// icosahedron builds the mesh sized by the config. A non-zero edge length
// takes precedence over the radius.
func (a *app) icosahedron() *shapes.Icosahedron {
	ico := shapes.NewIcosahedron(a.cfg.Mesh.Radius)
	if a.cfg.Mesh.EdgeLength != 0 {
		ico.SetEdgeLength(a.cfg.Mesh.EdgeLength)
	}
	logger.Debug("built icosahedron",
		zap.Float64("radius", ico.Radius()),
		zap.Float64("edge_length", ico.EdgeLength()),
		zap.Int("triangles", ico.TriangleCount()),
	)
	return ico
}
