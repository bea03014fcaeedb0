// Package assets populates the staging area with the templates and
// static images a build needs before any page is rendered.
package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/staging"
)

var (
	// ErrMissingTemplatesDir indicates the templates source directory does not exist.
	// A build cannot proceed without templates.
	ErrMissingTemplatesDir = errors.New("templates directory not found")
	// ErrAssetsUnavailable indicates the static images directory is absent.
	// Images are optional, so callers treat this as a warning.
	ErrAssetsUnavailable = errors.New("static images directory unavailable")
)

// Staged subdirectory names.
const (
	TemplatesSubdir = "templates"
	ImagesSubdir    = "images"
)

// ImageRegistry maps an image filename to its staged relative path.
// Populated once before rendering; read-only thereafter.
type ImageRegistry map[string]string

// LoadTemplates copies every regular file from the templates source
// directory into the templates subfolder of staging.
func LoadTemplates(sourceDir string, area *staging.Area) error {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissingTemplatesDir, sourceDir)
		}
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	dst, err := area.Mkdir(TemplatesSubdir)
	if err != nil {
		return err
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(sourceDir, entry.Name())
		if err := copyFile(src, filepath.Join(dst, entry.Name())); err != nil {
			return fmt.Errorf("failed to stage template %s: %w", entry.Name(), err)
		}
		count++
	}
	slog.Debug("Staged templates", logfields.Path(sourceDir), "count", count)
	return nil
}

// LoadImages enumerates image files recursively under the static images
// source directory and returns the registry mapping each filename to its
// staged relative path. An absent source directory yields an empty
// registry and ErrAssetsUnavailable.
func LoadImages(sourceDir string) (ImageRegistry, error) {
	registry := ImageRegistry{}

	if _, err := os.Stat(sourceDir); err != nil {
		if os.IsNotExist(err) {
			return registry, fmt.Errorf("%w: %s", ErrAssetsUnavailable, sourceDir)
		}
		return registry, fmt.Errorf("failed to stat images directory: %w", err)
	}

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		// Staging flattens nested images by base name, so a repeated
		// filename in another subdirectory shadows the earlier one.
		if _, seen := registry[d.Name()]; seen {
			slog.Warn("Image filename collision, later file shadows earlier one",
				logfields.Path(path), "image", d.Name())
		}
		registry[d.Name()] = filepath.ToSlash(filepath.Join(ImagesSubdir, d.Name()))
		return nil
	})
	if err != nil {
		return registry, fmt.Errorf("failed to enumerate images: %w", err)
	}

	slog.Debug("Loaded image registry", logfields.Path(sourceDir), "count", len(registry))
	return registry, nil
}

// StageImages copies every registered image into the images subfolder of staging.
func StageImages(sourceDir string, registry ImageRegistry, area *staging.Area) error {
	if len(registry) == 0 {
		return nil
	}

	dst, err := area.Mkdir(ImagesSubdir)
	if err != nil {
		return err
	}

	// Walk again rather than trusting registry keys as paths: nested
	// images are staged flat under images/ keyed by base name.
	return filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := registry[d.Name()]; !ok {
			return nil
		}
		if err := copyFile(path, filepath.Join(dst, d.Name())); err != nil {
			return fmt.Errorf("failed to stage image %s: %w", d.Name(), err)
		}
		return nil
	})
}

// copyFile copies a single regular file, preserving nothing but content.
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
