package styles

import (
	"bytes"
	"fmt"
	"log/slog"
	"os/exec"
)

// Compiler abstracts how preprocessor stylesheets are compiled into CSS.
// This allows swapping the external sass binary (BinaryCompiler) with
// alternative strategies (e.g., no-op for tests) without changing stage
// orchestration.
type Compiler interface {
	// Compile compiles every preprocessor stylesheet under srcDir into dstDir.
	Compile(srcDir, dstDir string) error
}

// BinaryCompiler invokes the `sass` binary present on PATH in directory
// mode (src:dst), compiling the whole source directory at once.
type BinaryCompiler struct{}

func (b *BinaryCompiler) Compile(srcDir, dstDir string) error {
	if _, err := exec.LookPath("sass"); err != nil {
		return fmt.Errorf("sass binary not found: %w", err)
	}

	cmd := exec.Command("sass", "--no-source-map", srcDir+":"+dstDir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	slog.Debug("BinaryCompiler invoking sass", "src", srcDir, "dst", dstDir)

	if err := cmd.Run(); err != nil {
		if out := stderr.String(); out != "" {
			return fmt.Errorf("sass execution failed: %w: %s", err, out)
		}
		return fmt.Errorf("sass execution failed: %w", err)
	}
	return nil
}

// NoopCompiler performs no compilation; useful in tests or for projects
// with plain CSS only.
type NoopCompiler struct{}

func (n *NoopCompiler) Compile(srcDir, dstDir string) error {
	slog.Debug("NoopCompiler skipping compile", "src", srcDir)
	return nil
}
