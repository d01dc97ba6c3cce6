// Package config loads langid command defaults from a TOML file, or a YAML
// file when the name ends in .yaml or .yml.
//
//	model     = "~/models/langid.model.lzma"
//	languages = ["en", "de", "fr"]
//	max_bytes = 2048
//	workers   = 8
//	normalize = true
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the user config directory.
const FileName = "config.toml"

// Config holds defaults that command-line flags override.
type Config struct {
	Model     string   `toml:"model" yaml:"model"`
	Languages []string `toml:"languages" yaml:"languages"`
	MaxBytes  int      `toml:"max_bytes" yaml:"max_bytes"`
	Workers   int      `toml:"workers" yaml:"workers"`
	Normalize bool     `toml:"normalize" yaml:"normalize"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{Normalize: true}
}

// Path returns the default config file location.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "langid", FileName)
}

// Load reads path on top of Default. A missing file is not an error when
// required is false.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	decode := decodeTOML
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		decode = decodeYAML
	}
	if err := decode(path, &cfg); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}
	if cfg.MaxBytes < 0 {
		return Config{}, fmt.Errorf("%s: max_bytes must not be negative", path)
	}
	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("%s: workers must not be negative", path)
	}
	if len(cfg.Languages) == 1 {
		return Config{}, fmt.Errorf("%s: languages needs at least two entries", path)
	}
	cfg.Model = expandHome(strings.TrimSpace(cfg.Model))
	return cfg, nil
}

func decodeTOML(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func decodeYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	return nil
}

func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~/")
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}
