package config

import (
	"flag"
	"strings"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagData    = flag.String("data", "", "Comma-separated data roots, replacing the configured ones")
	flagPalette = flag.String("palette", "", "Palette file for procedural textures")
	flagNoMix   = flag.Bool("no-mix", false, "Do not generate procedural textures")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagData != "" {
		cfg.Data.Roots = nil
		for _, root := range strings.Split(*flagData, ",") {
			if root = strings.TrimSpace(root); root != "" {
				cfg.Data.Roots = append(cfg.Data.Roots, root)
			}
		}
	}
	if *flagPalette != "" {
		cfg.Import.Palette = *flagPalette
	}
	if *flagNoMix {
		cfg.Import.MixTextures = false
	}
}
