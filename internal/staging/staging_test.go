package staging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestArea_CreateAndDestroy(t *testing.T) {
	base := t.TempDir()
	area := NewArea(base)

	if err := area.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	dir := area.Path()
	if dir == "" {
		t.Fatal("Path() returned empty string")
	}
	if !strings.HasPrefix(filepath.Base(dir), "sitegen-") {
		t.Errorf("Expected sitegen- prefixed directory, got: %s", dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("Staging directory does not exist: %v", err)
	}

	if err := area.Destroy(); err != nil {
		t.Fatalf("Destroy() failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("Staging directory still exists after destroy: %s", dir)
	}

	// Destroy is idempotent.
	if err := area.Destroy(); err != nil {
		t.Errorf("Second Destroy() returned error: %v", err)
	}
}

func TestArea_RapidCreatesNeverCollide(t *testing.T) {
	base := t.TempDir()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		area := NewArea(base)
		if err := area.Create(); err != nil {
			t.Fatalf("Create() %d failed: %v", i, err)
		}
		if seen[area.Path()] {
			t.Fatalf("Staging path collided: %s", area.Path())
		}
		seen[area.Path()] = true
	}
}

func TestArea_ResolveRejectsTraversal(t *testing.T) {
	area := NewArea(t.TempDir())
	if err := area.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	defer area.Destroy()

	cases := []string{"..", "../evil", "a/../../evil", "/etc/passwd"}
	for _, rel := range cases {
		if _, err := area.Resolve(rel); !errors.Is(err, ErrPathEscapesStaging) {
			t.Errorf("Resolve(%q) = %v, want ErrPathEscapesStaging", rel, err)
		}
	}

	path, err := area.Resolve("images/logo.png")
	if err != nil {
		t.Fatalf("Resolve(images/logo.png) failed: %v", err)
	}
	if !strings.HasPrefix(path, area.Path()) {
		t.Errorf("Resolved path %s is not inside staging %s", path, area.Path())
	}
}

func TestArea_ResolveBeforeCreate(t *testing.T) {
	area := NewArea(t.TempDir())
	if _, err := area.Resolve("x"); err == nil {
		t.Error("Resolve() before Create() should error")
	}
}

func TestArea_CreateFailsOnMissingBase(t *testing.T) {
	area := NewArea(filepath.Join(t.TempDir(), "does", "not", "exist"))
	if err := area.Create(); !errors.Is(err, ErrStagingCreate) {
		t.Errorf("Create() = %v, want ErrStagingCreate", err)
	}
}
