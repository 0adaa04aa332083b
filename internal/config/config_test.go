package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Ignores.Endpoints)
	assert.Empty(t, cfg.Ignores.Folders)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	content := `ignores:
  endpoints:
    - GET /internal/health
  folders:
    - generated
    - docs
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".epcheck.config"), []byte(content), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /internal/health"}, cfg.Ignores.Endpoints)
	assert.Equal(t, []string{"generated", "docs"}, cfg.Ignores.Folders)
}

func TestLoadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".epcheck.config"), []byte("ignores: [::"), 0644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
