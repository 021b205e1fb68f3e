package rlebits

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the converter's file locations and reporting knobs. Frame
// geometry is not configurable.
type Config struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Progress int    `yaml:"progress"`  // log every N frames, 0 disables
	MaxBytes int    `yaml:"max_bytes"` // warn above this output size, 0 disables
}

// DefaultConfig matches the layout the player expects: the text source and
// the packed file live side by side under bin/, and the player reads at most
// 1400000 bytes.
func DefaultConfig() Config {
	return Config{
		Input:    "bin/badapplebit.txt",
		Output:   "bin/badapplebit.bin",
		Progress: 100,
		MaxBytes: 1400000,
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// MaxFrames is the number of frames that fit in MaxBytes.
func (c Config) MaxFrames() int {
	return c.MaxBytes / FrameBytes
}
