package pipeline

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

// ErrPublishConflict indicates another publish against the same live
// directory is already in progress.
var ErrPublishConflict = errors.New("publish already in progress")

// nextSuffix names the transit directory the staged tree is copied into
// before the swap.
const nextSuffix = ".next"

// publishMarker flags a next directory as belonging to an active
// publish. A next directory without the marker is a leftover from an
// interrupted run and is safe to discard.
const publishMarker = ".sitegen-publish"

// publish atomically replaces liveDir with the staged tree.
//
// The staged tree is first copied into <liveDir>.next, then the swap is
// performed as a delete-old/rename-new pair. An observer of liveDir sees
// either the previous complete site or the new complete site, never a
// mixture. If the process dies between delete and rename, the recovery
// copy from staging completes the publish on the next attempt.
//
// The marker-file existence check is the conflict guard. The
// check-then-act gap means it is not safe under true concurrency; an
// atomic lock (lock file or directory rename) would close the window.
func publish(area *staging.Area, liveDir string) (string, error) {
	next := liveDir + nextSuffix
	marker := filepath.Join(next, publishMarker)

	if _, err := os.Stat(next); err == nil {
		if _, err := os.Stat(marker); err == nil {
			return "", fmt.Errorf("%w: %s exists", ErrPublishConflict, next)
		}
		// Leftover from an interrupted run: discard and rebuild it.
		slog.Warn("Discarding leftover publish directory", logfields.Path(next))
		if err := os.RemoveAll(next); err != nil {
			return "", fmt.Errorf("failed to clear leftover publish directory: %w", err)
		}
	}

	if err := os.MkdirAll(next, 0o755); err != nil {
		return "", fmt.Errorf("failed to create publish directory: %w", err)
	}
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		return "", fmt.Errorf("failed to mark publish in progress: %w", err)
	}

	// Until the swap begins, any failure is local to this process, so
	// the next directory is torn down rather than left to trip the
	// conflict guard on the following run.
	if err := copyTree(area.Path(), next); err != nil {
		_ = os.RemoveAll(next)
		return "", fmt.Errorf("failed to copy staged site: %w", err)
	}
	if err := os.Remove(marker); err != nil {
		_ = os.RemoveAll(next)
		return "", fmt.Errorf("failed to clear publish marker: %w", err)
	}

	if err := os.RemoveAll(liveDir); err != nil {
		return "", fmt.Errorf("failed to remove previous site: %w", err)
	}
	if err := os.Rename(next, liveDir); err != nil {
		// Recovery path: the old site is already gone, so a repeatable
		// copy from staging still completes the publish.
		slog.Warn("Rename failed, recovering via direct copy", logfields.Error(err))
		if err := os.MkdirAll(liveDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to recreate site directory: %w", err)
		}
		if err := copyTree(area.Path(), liveDir); err != nil {
			return "", fmt.Errorf("failed to recover publish: %w", err)
		}
		_ = os.RemoveAll(next)
	}

	slog.Info("Published site", logfields.Output(liveDir))
	return liveDir, nil
}

// copyTree copies the directory tree rooted at src into dst, which must
// already exist or be creatable.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return os.MkdirAll(dst, 0o755)
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

// copyFile copies one regular file.
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
