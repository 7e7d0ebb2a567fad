// Command wadmesh decodes one level of a WAD archive, reports what it found
// and optionally exports the synthesized geometry.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	wad "github.com/stuarthighley/wadmesh"
	"github.com/stuarthighley/wadmesh/internal/config"
	"github.com/stuarthighley/wadmesh/internal/logger"
	"github.com/stuarthighley/wadmesh/internal/source"
	"github.com/stuarthighley/wadmesh/mesh"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Load(flags.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	flags.Apply(cfg)

	log := newLogger(cfg)
	defer log.Sync()

	// Set library loggers
	wad.SetLogger(log.Named("wad"))
	mesh.SetLogger(log.Named("mesh"))

	if err := run(cfg, os.Stdout, log); err != nil {
		log.Error("wadmesh failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.Logging.LogFile == "" {
		return logger.NewConsole(cfg.Logging.Level)
	}
	return logger.New(cfg.Logging.Level, os.Stderr, logger.DefaultFileConfig(cfg.Logging.LogFile))
}

func run(cfg *config.Config, out io.Writer, log *zap.Logger) error {
	src, err := source.Open(cfg.WAD.Path)
	if err != nil {
		return err
	}

	w, err := wad.Open(src)
	if err != nil {
		return err
	}
	log.Info("Opened WAD",
		zap.String("path", cfg.WAD.Path),
		zap.String("type", w.Header().Type),
		zap.Strings("levels", w.LevelNames()))

	level, err := w.ReadLevel(cfg.WAD.Map)
	if err != nil {
		return err
	}
	for _, warning := range level.Warnings {
		log.Warn("Inconsistent subsector", zap.Error(warning))
	}

	geometry, err := mesh.Synthesize(level)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %d walls (%d vertices), %d floors (%d vertices)\n",
		level.Name, len(geometry.Walls), len(geometry.WallVertices),
		len(geometry.Floors), len(geometry.FloorVertices))
	if spawn, ok := mesh.PlayerStart(level); ok {
		fmt.Fprintf(out, "player start: %v facing %v\n", spawn.Position, spawn.Facing)
	} else {
		fmt.Fprintln(out, "player start: none")
	}

	if cfg.Output.PrintTree {
		if err := wad.PrintTree(out, level.RootNode); err != nil {
			return err
		}
	}

	if cfg.Output.OBJPath != "" {
		if err := writeOBJ(cfg.Output.OBJPath, geometry); err != nil {
			return err
		}
		log.Info("Wrote OBJ", zap.String("path", cfg.Output.OBJPath))
	}
	return nil
}

func writeOBJ(path string, g *mesh.Geometry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mesh.WriteOBJ(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
