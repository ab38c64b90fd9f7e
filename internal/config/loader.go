package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file name in the search directories.
const FileName = "shapesynth.yaml"

// Load loads the configuration.
// Search order: customPath -> ~/.shapesynth/config.yaml -> ./configs/shapesynth.yaml -> embedded default
//
// Files are decoded over the defaults, so they only need the keys they change.
// A custom path that cannot be read or parsed is an error; the other
// locations are skipped when missing or broken.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return Config{}, err
		}
		return cfg, cfg.Validate()
	}

	var candidates []string
	if p := UserConfigPath(); p != "" {
		candidates = append(candidates, p)
	}
	candidates = append(candidates, filepath.Join("configs", FileName))

	return loadFirst(candidates), nil
}

// loadFirst returns the first candidate that loads and validates, falling
// back to the embedded default.
func loadFirst(candidates []string) Config {
	for _, path := range candidates {
		cfg, err := loadFile(path)
		if err != nil {
			continue
		}
		if cfg.Validate() == nil {
			return cfg
		}
	}
	return Embedded()
}

// Embedded returns the embedded default YAML decoded over DefaultConfig.
func Embedded() Config {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil || cfg.Validate() != nil {
		return DefaultConfig() // Fallback to hardcoded if embed fails
	}
	return cfg
}

// DefaultYAML returns the embedded default file, e.g. for `config init`.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)
	return out
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// UserDir returns ~/.shapesynth, or empty if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".shapesynth")
}

// UserConfigPath returns the path to the user config file, or empty if home
// is unavailable.
func UserConfigPath() string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultDBPath returns the score database path used when none is configured.
func DefaultDBPath() string {
	dir := UserDir()
	if dir == "" {
		return "shapesynth.db"
	}
	return filepath.Join(dir, "scores.db")
}
