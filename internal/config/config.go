// Package config handles configuration of the wadmesh tool.
package config

import (
	"flag"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all tool settings.
type Config struct {
	WAD     WADConfig     `yaml:"wad"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// WADConfig selects the archive and level to decode.
type WADConfig struct {
	Path string `yaml:"path"` // .wad, .wad.gz or .wad.zst
	Map  string `yaml:"map"`
}

// OutputConfig selects what the tool writes.
type OutputConfig struct {
	OBJPath   string `yaml:"obj_path"`   // Wavefront OBJ export, empty to skip
	PrintTree bool   `yaml:"print_tree"` // Dump the BSP tree to stdout
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		WAD: WADConfig{
			Path: "DOOM1.WAD",
			Map:  "E1M1",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Flags holds command line overrides. Zero values leave the config unchanged.
type Flags struct {
	Config    string
	WAD       string
	Map       string
	OBJ       string
	PrintTree bool
	Debug     bool
	LogFile   string
}

// RegisterFlags defines the tool's flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to YAML config file")
	fs.StringVar(&f.WAD, "wad", "", "Path to WAD archive (.wad, .wad.gz, .wad.zst)")
	fs.StringVar(&f.Map, "map", "", "Level to decode, e.g. E1M1 or MAP01")
	fs.StringVar(&f.OBJ, "obj", "", "Write geometry as Wavefront OBJ to this path")
	fs.BoolVar(&f.PrintTree, "tree", false, "Print the BSP tree")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log", "", "Also log to this file")
	return f
}

// Apply applies flag overrides to cfg.
func (f *Flags) Apply(cfg *Config) {
	if f.WAD != "" {
		cfg.WAD.Path = f.WAD
	}
	if f.Map != "" {
		cfg.WAD.Map = f.Map
	}
	if f.OBJ != "" {
		cfg.Output.OBJPath = f.OBJ
	}
	if f.PrintTree {
		cfg.Output.PrintTree = true
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
