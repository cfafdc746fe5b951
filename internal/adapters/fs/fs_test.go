package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genopipe/internal/adapters/fs"
)

func TestFreshCreatesMissingDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "job1")
	require.NoError(t, fs.Fresh(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFreshRemovesFrozenLeftovers(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "job1")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "output"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "output", "result.txt"), []byte("stale"), 0o644))
	require.NoError(t, fs.Freeze(dir))

	require.NoError(t, fs.Fresh(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFreezeMakesTreeReadOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "output")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	file := filepath.Join(sub, "result.txt")
	require.NoError(t, os.WriteFile(file, []byte("ok"), 0o644))

	require.NoError(t, fs.Freeze(dir))
	t.Cleanup(func() { _ = fs.Thaw(dir) })

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o400), info.Mode().Perm())

	info, err = os.Stat(sub)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o500), info.Mode().Perm())

	// Contents remain readable.
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestTail(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stderr")
	require.NoError(t, os.WriteFile(path, []byte("first\nsecond\nthird\n"), 0o644))

	t.Run("whole file when small enough", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "first\nsecond\nthird", fs.Tail(path, 1024))
	})

	t.Run("trims to whole lines", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "third", fs.Tail(path, 8))
	})

	t.Run("missing file reads empty", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, fs.Tail(filepath.Join(t.TempDir(), "absent"), 64))
	})
}
