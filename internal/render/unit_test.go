package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContent(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeContent(t, "about.md", "---\ntemplate: default\ntitle: About\n---\n# About us\n")

	unit, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "about", unit.BaseName)
	assert.Equal(t, ".md", unit.Ext)
	assert.Equal(t, "default", unit.TemplateName())
	assert.Equal(t, "About", unit.Meta["title"])
	assert.Equal(t, "# About us\n", string(unit.Body))
}

func TestLoad_NoFrontmatter(t *testing.T) {
	path := writeContent(t, "plain.markdown", "just a body\n")

	unit, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, unit.Meta)
	assert.Equal(t, "", unit.TemplateName())
	assert.Equal(t, "just a body\n", string(unit.Body))
}

func TestLoad_MalformedFrontmatter(t *testing.T) {
	path := writeContent(t, "broken.md", "---\ntemplate: default\nnever closed")

	unit, err := Load(path)
	assert.ErrorIs(t, err, ErrMalformedContent)
	require.NotNil(t, unit)
	assert.Empty(t, unit.Meta, "malformed metadata degrades to empty")
	assert.Empty(t, unit.Body, "malformed metadata degrades to empty body")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeContent(t, "badyaml.md", "---\na:\n\tb: tabs\n---\nbody\n")

	unit, err := Load(path)
	assert.ErrorIs(t, err, ErrMalformedContent)
	require.NotNil(t, unit)
	assert.Empty(t, unit.Meta)
	assert.Empty(t, unit.Body)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.md"))
	assert.Error(t, err)
}

func TestIsMarkdown(t *testing.T) {
	assert.True(t, IsMarkdown("page.md"))
	assert.True(t, IsMarkdown("page.markdown"))
	assert.False(t, IsMarkdown("style.css"))
	assert.False(t, IsMarkdown("notes.txt"))
}
