// nmsimport is a CLI for inspecting No Man's Sky scene, geometry and material assets.
package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/nmsimport/internal/config"
	"github.com/Faultbox/nmsimport/internal/engine"
	"github.com/Faultbox/nmsimport/internal/importer"
	"github.com/Faultbox/nmsimport/internal/logger"
	"github.com/Faultbox/nmsimport/internal/template"
	"github.com/Faultbox/nmsimport/internal/vfs"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "scene":
		run(cmdScene, args)
	case "geometry", "geom":
		run(cmdGeometry, args)
	case "material", "mat":
		run(cmdMaterial, args)
	case "list", "ls":
		run(cmdList, args)
	case "config":
		run(cmdConfig, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`nmsimport - No Man's Sky scene importer

Usage:
  nmsimport [flags] <command> [options]

Commands:
  scene <path> [-depth N]     Import a scene template and print the node tree
  geometry <path>             Decode a geometry file and print its layout and slices
  material <path>             Build a material and print flags, samplers and uniforms
  list [pattern]              List data files (glob on upper-cased logical paths)
  config [-save | -o file]    Print the effective config, or write it to a file

Flags:
  --config <file>             Config file (default ./config.yaml)
  --data <dir,dir>            Data roots, later roots win
  --palette <file>            Palette file for procedural textures
  --no-mix                    Do not generate procedural textures
  --debug                     Debug logging

Examples:
  nmsimport --data ./PCBANKS scene MODELS/PLANETS/BIOMES/COMMON/ROCKS/ROCK.SCENE.MBIN
  nmsimport --data ./PCBANKS geometry MODELS/COMMON/SPACECRAFT/FIGHTERS/FIGHTER.GEOMETRY.MBIN
  nmsimport --data ./PCBANKS list "MODELS/COMMON/*"`)
}

// app holds the collaborators every command needs.
type app struct {
	out      io.Writer
	cfg      *config.Config
	fs       *vfs.Manager
	catalog  *engine.Catalog
	importer *importer.Importer
}

func run(cmd func(*app, []string) error, args []string) {
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	err = cmd(a, args)
	a.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
		fileCfg.MaxSizeMB = cfg.Logging.MaxSizeMB
		fileCfg.MaxBackups = cfg.Logging.MaxBackups
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	fs := vfs.NewManager()
	for _, root := range cfg.Data.Roots {
		if err := fs.AddDir(root); err != nil {
			fs.Close()
			return nil, err
		}
	}

	vertex, fragment, err := cfg.Import.ShaderSources()
	if err != nil {
		fs.Close()
		return nil, err
	}
	palette, err := importer.LoadPalette(cfg.Import.Palette)
	if err != nil {
		fs.Close()
		return nil, err
	}
	opts := importer.Options{
		VertexShader:   vertex,
		FragmentShader: fragment,
		Palette:        palette,
	}
	if cfg.Import.MixTextures {
		opts.Mixer = &importer.SolidMixer{
			Palette: cfg.Import.PaletteName,
			Colour:  cfg.Import.PaletteColour,
			Size:    cfg.Import.MixSize,
		}
	}

	catalog := engine.NewCatalog()
	logger.Debug("importer ready", zap.Strings("roots", cfg.Data.Roots), zap.Bool("mix", cfg.Import.MixTextures))
	return &app{
		out:      os.Stdout,
		cfg:      cfg,
		fs:       fs,
		catalog:  catalog,
		importer: importer.New(fs, template.NewYAMLLoader(fs), catalog, opts),
	}, nil
}

func (a *app) close() {
	a.fs.Close()
	logger.Sync()
}
