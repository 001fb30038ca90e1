// Package config handles importer configuration loading and management.
package config

// Config holds all importer settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Import  ImportConfig  `yaml:"import"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds the unpacked game data locations.
type DataConfig struct {
	Roots []string `yaml:"roots"` // Directories layered in order, later roots win
}

// ImportConfig holds scene import settings.
type ImportConfig struct {
	VertexShader   string `yaml:"vertex_shader"`   // GLSL source file, built-in when empty
	FragmentShader string `yaml:"fragment_shader"` // GLSL source file, built-in when empty

	Palette       string `yaml:"palette"` // Palette YAML file for procedural textures
	PaletteName   string `yaml:"palette_name"`
	PaletteColour string `yaml:"palette_colour"`

	MixTextures bool   `yaml:"mix_textures"` // Generate textures for procedural diffuse maps
	MixSize     uint32 `yaml:"mix_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Roots: []string{"."},
		},
		Import: ImportConfig{
			PaletteName:   "Rock",
			PaletteColour: "Primary",
			MixTextures:   true,
			MixSize:       4,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  20,
			MaxBackups: 5,
		},
	}
}
