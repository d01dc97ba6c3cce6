package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	return writeNamed(t, FileName, body)
}

func writeNamed(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
model     = "/models/langid.json"
languages = ["en", "de"]
max_bytes = 2048
workers   = 4
normalize = false
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Model:     "/models/langid.json",
		Languages: []string{"en", "de"},
		MaxBytes:  2048,
		Workers:   4,
		Normalize: false,
	}, cfg)
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `workers = 2`), true)
	require.NoError(t, err)
	assert.True(t, cfg.Normalize)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoadMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, true)
	assert.Error(t, err)

	cfg, err = Load("", true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", `model = `, "failed to parse TOML"},
		{"unknown key", `modle = "x"`, "unknown key"},
		{"negative bytes", `max_bytes = -1`, "max_bytes"},
		{"negative workers", `workers = -3`, "workers"},
		{"one language", `languages = ["en"]`, "at least two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), true)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeNamed(t, "config.yaml", `
model: /models/langid.msgpack
languages: [pl, cs, sk]
workers: 3
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Model:     "/models/langid.msgpack",
		Languages: []string{"pl", "cs", "sk"},
		Workers:   3,
		Normalize: true,
	}, cfg)

	cfg, err = Load(writeNamed(t, "empty.yml", ""), true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(writeNamed(t, "bad.yml", "modle: x\n"), true)
	assert.ErrorContains(t, err, "failed to parse YAML")

	_, err = Load(writeNamed(t, "neg.yaml", "max_bytes: -5\n"), true)
	assert.ErrorContains(t, err, "max_bytes")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "m.json"), expandHome("~/m.json"))
	assert.Equal(t, "/abs/m.json", expandHome("/abs/m.json"))
}
