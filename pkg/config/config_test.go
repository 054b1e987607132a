package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pulse.yaml")
	contents := `
host: 127.0.0.1
port: 9090
logLevel: debug
logJSON: true
partitions:
  - name: solo
    totalNodes: 1
    totalCPUs: 8
    totalGPUs: 0
    totalMemoryGB: 32
    maxTimeMinutes: 60
    defaultTimeMinutes: 15
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
	require.Len(t, cfg.Partitions, 1)
	assert.Equal(t, "solo", cfg.Partitions[0].Name)
}

func TestLoadMalformedYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestAddrFormatsHostAndPort(t *testing.T) {
	cfg := Config{Host: "0.0.0.0", Port: 8083}
	assert.Equal(t, "0.0.0.0:8083", cfg.Addr())
}

func TestToPartitionsConvertsOverrides(t *testing.T) {
	cfg := Config{
		Partitions: []PartitionConfig{
			{Name: "solo", TotalNodes: 1, TotalCPUs: 8, TotalMemoryGB: 32, MaxTimeMinutes: 60, DefaultTimeMinutes: 15},
		},
	}
	parts := cfg.ToPartitions()
	require.Len(t, parts, 1)
	assert.Equal(t, "solo", parts[0].Name)
	assert.Equal(t, 8, parts[0].TotalCPUs)
}
