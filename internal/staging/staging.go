// Package staging manages the isolated working directory a build writes
// all outputs into before anything reaches the live site.
//
// Each build gets a uniquely named directory derived from a random
// identifier rather than a timestamp, so builds started within the same
// clock tick never collide.
package staging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// ErrStagingCreate indicates the staging directory could not be allocated.
var ErrStagingCreate = errors.New("staging directory create failed")

// ErrPathEscapesStaging indicates a relative path resolved outside the staging root.
var ErrPathEscapesStaging = errors.New("path escapes staging directory")

// Area owns the lifecycle of one build's staging directory.
type Area struct {
	baseDir string
	dir     string
}

// NewArea returns an Area that will allocate its directory under baseDir.
// An empty baseDir means the current directory.
func NewArea(baseDir string) *Area {
	if baseDir == "" {
		baseDir = "."
	}
	return &Area{baseDir: baseDir}
}

// Create allocates a fresh staging directory. The name embeds a random
// uuid, so concurrently started builds receive distinct paths.
func (a *Area) Create() error {
	dir := filepath.Join(a.baseDir, fmt.Sprintf("sitegen-%s", uuid.NewString()))
	if err := os.Mkdir(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrStagingCreate, err)
	}
	a.dir = dir
	slog.Debug("Created staging directory", logfields.Staging(dir))
	return nil
}

// Path returns the staging directory path, empty until Create succeeds.
func (a *Area) Path() string {
	return a.dir
}

// Resolve returns the absolute path of rel inside the staging directory.
// Paths that escape the staging root (parent segments, absolute paths)
// are rejected.
func (a *Area) Resolve(rel string) (string, error) {
	if a.dir == "" {
		return "", errors.New("staging area not created")
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapesStaging, rel)
	}
	cleaned := filepath.Clean(rel)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapesStaging, rel)
	}
	abs, err := filepath.Abs(filepath.Join(a.dir, cleaned))
	if err != nil {
		return "", err
	}
	return abs, nil
}

// Mkdir creates a subdirectory inside the staging directory.
func (a *Area) Mkdir(rel string) (string, error) {
	path, err := a.Resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create staging subdirectory %s: %w", rel, err)
	}
	return path, nil
}

// Destroy removes the staging directory recursively. It is idempotent:
// destroying an already-removed area is not an error.
func (a *Area) Destroy() error {
	if a.dir == "" {
		return nil
	}
	dir := a.dir
	a.dir = "" // prevent double cleanup
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to destroy staging directory: %w", err)
	}
	slog.Debug("Removed staging directory", logfields.Staging(dir))
	return nil
}
