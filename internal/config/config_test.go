package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: Example\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Example", cfg.Title)
	assert.Equal(t, DefaultTemplatesDir, cfg.Paths.Templates)
	assert.Equal(t, DefaultPagesDir, cfg.Paths.Pages)
	assert.Equal(t, DefaultImagesDir, cfg.Paths.Images)
	assert.Equal(t, DefaultStylesDir, cfg.Paths.Styles)
	assert.Equal(t, DefaultOutputDir, cfg.Paths.Output)
	assert.Equal(t, ModeProduction, cfg.Build.Mode)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ExplicitValuesKept(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitegen.yaml")
	content := "paths:\n  output: public\nbuild:\n  mode: development\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "public", cfg.Paths.Output)
	assert.Equal(t, ModeDevelopment, cfg.Build.Mode)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: Example\n"), 0o644))

	t.Setenv("SITEGEN_OUTPUT", "/srv/www")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/www", cfg.Paths.Output)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "sitegen.yaml")

	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, cfg.Paths.Output)

	for _, sub := range []string{DefaultTemplatesDir, DefaultPagesDir, DefaultImagesDir, DefaultStylesDir} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err, "expected scaffolded directory %s", sub)
		assert.True(t, info.IsDir())
	}

	// Refuses to overwrite without force.
	assert.Error(t, Init(path, false))
	assert.NoError(t, Init(path, true))
}
