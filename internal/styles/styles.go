// Package styles produces the final stylesheet set in staging: plain
// CSS files copied as-is, preprocessor stylesheets compiled through the
// Compiler collaborator.
package styles

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/staging"
)

var (
	// ErrMissingStylesDir indicates the styles source directory does not exist.
	// Style output is mandatory, so this aborts the build.
	ErrMissingStylesDir = errors.New("styles directory not found")
	// ErrStyleCompile indicates the stylesheet compiler reported a failure.
	ErrStyleCompile = errors.New("stylesheet compilation failed")
)

// StylesSubdir is the staged subdirectory receiving final CSS.
const StylesSubdir = "styles"

// Stage builds the staged styles directory from sourceDir.
//
// Compilation runs first and plain .css files are copied last, so on a
// name collision the plain file wins: CSS overrules Sass.
func Stage(sourceDir string, compiler Compiler, area *staging.Area) error {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissingStylesDir, sourceDir)
		}
		return fmt.Errorf("failed to read styles directory: %w", err)
	}

	dst, err := area.Mkdir(StylesSubdir)
	if err != nil {
		return err
	}

	if hasPreprocessorSources(entries) {
		slog.Debug("Compiling preprocessor stylesheets", logfields.Path(sourceDir))
		if err := compiler.Compile(sourceDir, dst); err != nil {
			return fmt.Errorf("%w: %w", ErrStyleCompile, err)
		}
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".css") {
			continue
		}
		if err := copyFile(filepath.Join(sourceDir, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return fmt.Errorf("failed to stage stylesheet %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func hasPreprocessorSources(entries []os.DirEntry) bool {
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".sass") || strings.HasSuffix(entry.Name(), ".scss") {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
