package fsentry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Name    string   `json:"name" yaml:"name" toml:"name"`
	Port    int      `json:"port" yaml:"port" toml:"port"`
	Tags    []string `json:"tags" yaml:"tags" toml:"tags"`
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
}

// TestJSONContent tests decoding hand-written JSON and the error paths
func TestJSONContent(t *testing.T) {
	dir := t.TempDir()
	e, err := New(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	writeFile(t, e.OriginalPath(), `{"name":"svc","port":8080,"tags":["a","b"],"enabled":true}`)

	var cfg sampleConfig
	require.NoError(t, e.ReadJSON(&cfg))
	assert.Equal(t, "svc", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"a", "b"}, cfg.Tags)
	assert.True(t, cfg.Enabled)

	out, err := New(filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	require.NoError(t, out.WriteJSON(cfg))
	text, err := out.IsText()
	require.NoError(t, err)
	assert.True(t, text)

	writeFile(t, e.OriginalPath(), "{not json")
	assert.Error(t, e.ReadJSON(&cfg))
}

// TestYAMLContent tests decoding hand-written YAML
func TestYAMLContent(t *testing.T) {
	dir := t.TempDir()
	e, err := New(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	writeFile(t, e.OriginalPath(), "name: svc\nport: 9090\ntags:\n  - x\nenabled: false\n")

	var cfg sampleConfig
	require.NoError(t, e.ReadYAML(&cfg))
	assert.Equal(t, "svc", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"x"}, cfg.Tags)

	out, err := New(filepath.Join(dir, "out.yaml"))
	require.NoError(t, err)
	require.NoError(t, out.WriteYAML(cfg))
	var back sampleConfig
	require.NoError(t, out.ReadYAML(&back))
	assert.Equal(t, cfg, back)
}

// TestTOMLContent tests decoding hand-written TOML
func TestTOMLContent(t *testing.T) {
	dir := t.TempDir()
	e, err := New(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	writeFile(t, e.OriginalPath(), "name = \"svc\"\nport = 7070\ntags = [\"t\"]\nenabled = true\n")

	var cfg sampleConfig
	require.NoError(t, e.ReadTOML(&cfg))
	assert.Equal(t, "svc", cfg.Name)
	assert.Equal(t, 7070, cfg.Port)

	out, err := New(filepath.Join(dir, "out.toml"))
	require.NoError(t, err)
	require.NoError(t, out.WriteTOML(cfg))
	var back sampleConfig
	require.NoError(t, out.ReadTOML(&back))
	assert.Equal(t, cfg, back)
}

// TestCSVContent tests record parsing and rendering
func TestCSVContent(t *testing.T) {
	dir := t.TempDir()
	e, err := New(filepath.Join(dir, "data.csv"))
	require.NoError(t, err)
	writeFile(t, e.OriginalPath(), "id,name\n1,alice\n2,\"bob, jr\"\n")

	records, err := e.ReadCSV()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "name"}, records[0])
	assert.Equal(t, []string{"2", "bob, jr"}, records[2])

	out, err := New(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	require.NoError(t, out.WriteCSV(records))
	back, err := out.ReadCSV()
	require.NoError(t, err)
	assert.Equal(t, records, back)
}
