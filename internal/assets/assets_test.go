package assets

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/staging"
)

func newArea(t *testing.T) *staging.Area {
	t.Helper()
	area := staging.NewArea(t.TempDir())
	require.NoError(t, area.Create())
	t.Cleanup(func() { _ = area.Destroy() })
	return area
}

func TestLoadTemplates(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "default.html"), []byte("<html>{{.Content}}</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "post.html"), []byte("<article>{{.Content}}</article>"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(src, "partials"), 0o755)) // subdirectories are not staged

	area := newArea(t)
	require.NoError(t, LoadTemplates(src, area))

	staged, err := area.Resolve(TemplatesSubdir)
	require.NoError(t, err)
	entries, err := os.ReadDir(staged)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLoadTemplates_MissingDirIsFatal(t *testing.T) {
	area := newArea(t)
	err := LoadTemplates(filepath.Join(t.TempDir(), "nope"), area)
	assert.ErrorIs(t, err, ErrMissingTemplatesDir)
}

func TestLoadImages_MissingDirReturnsEmptyRegistry(t *testing.T) {
	registry, err := LoadImages(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrAssetsUnavailable)
	assert.NotNil(t, registry)
	assert.Empty(t, registry)
}

func TestLoadAndStageImages(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "logo.png"), []byte("png"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "icons"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "icons", "home.svg"), []byte("svg"), 0o644))

	registry, err := LoadImages(src)
	require.NoError(t, err)
	assert.Equal(t, "images/logo.png", registry["logo.png"])
	assert.Equal(t, "images/home.svg", registry["home.svg"])

	area := newArea(t)
	require.NoError(t, StageImages(src, registry, area))

	staged, err := area.Resolve(ImagesSubdir)
	require.NoError(t, err)
	for _, name := range []string{"logo.png", "home.svg"} {
		_, err := os.Stat(filepath.Join(staged, name))
		assert.NoError(t, err, "expected staged image %s", name)
	}
}

func TestLoadImages_DuplicateBasenameWarnsAndShadows(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "logo.png"), []byte("first"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b", "logo.png"), []byte("second"), 0o644))

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	registry, err := LoadImages(src)
	require.NoError(t, err)
	assert.Len(t, registry, 1)
	assert.Equal(t, "images/logo.png", registry["logo.png"])
	assert.Contains(t, buf.String(), "collision")
	assert.Contains(t, buf.String(), "logo.png")
}

func TestStageImages_EmptyRegistryIsNoop(t *testing.T) {
	area := newArea(t)
	require.NoError(t, StageImages(t.TempDir(), ImageRegistry{}, area))

	staged, err := area.Resolve(ImagesSubdir)
	require.NoError(t, err)
	_, statErr := os.Stat(staged)
	assert.True(t, os.IsNotExist(statErr), "images dir should not be created for empty registry")
}
