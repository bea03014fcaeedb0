package preview

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_NoDirsToWatch(t *testing.T) {
	calls := 0
	w := NewWatcher([]string{filepath.Join(t.TempDir(), "missing")}, func() error {
		calls++
		return nil
	})

	err := w.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "initial build runs before watching starts")
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	calls := 0
	w := NewWatcher([]string{t.TempDir()}, func() error {
		calls++
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, w.Run(ctx))
	assert.Equal(t, 1, calls)
}
