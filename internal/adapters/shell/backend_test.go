package shell_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genopipe/internal/adapters/fs"
	"genopipe/internal/adapters/logger"
	"genopipe/internal/adapters/shell"
	"genopipe/internal/core/domain"
	"genopipe/internal/core/ports"
)

func newBackend(t *testing.T) *shell.Backend {
	t.Helper()
	return shell.New(t.TempDir(), logger.NewWithWriter(io.Discard))
}

// thawAll restores write permission on frozen job trees so TempDir cleanup
// can remove them.
func thawAll(t *testing.T, b *shell.Backend, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, fs.Thaw(b.Directory(domain.WorkJob, id)))
	}
}

func TestDirectoryIsStable(t *testing.T) {
	t.Parallel()
	b := shell.New("/data/cache", logger.NewWithWriter(io.Discard))

	assert.Equal(t, "/data/cache/jobs/job7", b.Directory(domain.WorkJob, 7))
	assert.Equal(t, "/data/cache/jobs/call12", b.Directory(domain.WorkCall, 12))
}

func TestExecuteCapturesStreamsAndRunsInOutputDir(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	spec := &ports.JobSpec{
		ID:         1,
		Name:       "align",
		Executable: "/bin/sh",
		Args:       []string{"-c", "pwd > loc.txt && echo aligned && echo warn >&2"},
	}
	require.NoError(t, b.Execute(t.Context(), spec))

	dir := b.Directory(domain.WorkJob, 1)
	t.Cleanup(func() { thawAll(t, b, 1) })

	stdout, err := os.ReadFile(filepath.Join(dir, "stdout"))
	require.NoError(t, err)
	assert.Equal(t, "aligned\n", string(stdout))

	stderr, err := os.ReadFile(filepath.Join(dir, "stderr"))
	require.NoError(t, err)
	assert.Equal(t, "warn\n", string(stderr))

	loc, err := os.ReadFile(filepath.Join(dir, "output", "loc.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "output"), strings.TrimSpace(string(loc)))
}

func TestExecuteFreezesDirectoryOnBothOutcomes(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	require.NoError(t, b.Execute(t.Context(), &ports.JobSpec{
		ID: 1, Name: "ok", Executable: "/bin/true",
	}))
	require.Error(t, b.Execute(t.Context(), &ports.JobSpec{
		ID: 2, Name: "bad", Executable: "/bin/false",
	}))
	t.Cleanup(func() { thawAll(t, b, 1, 2) })

	for _, id := range []int64{1, 2} {
		info, err := os.Stat(b.Directory(domain.WorkJob, id))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o500), info.Mode().Perm())
	}
}

func TestExecuteReplacesFrozenLeftovers(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	spec := &ports.JobSpec{
		ID: 1, Name: "retry", Executable: "/bin/sh",
		Args: []string{"-c", "echo attempt > marker.txt"},
	}

	require.NoError(t, b.Execute(t.Context(), spec))
	require.NoError(t, b.Execute(t.Context(), spec))
	t.Cleanup(func() { thawAll(t, b, 1) })

	_, err := os.Stat(filepath.Join(b.Directory(domain.WorkJob, 1), "output", "marker.txt"))
	assert.NoError(t, err)
}

func TestExecuteReportsExitCodeWithStderrTail(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	err := b.Execute(t.Context(), &ports.JobSpec{
		ID: 1, Name: "broken", Executable: "/bin/sh",
		Args: []string{"-c", "echo no such reference >&2; exit 3"},
	})
	t.Cleanup(func() { thawAll(t, b, 1) })

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExitCode))
	assert.Contains(t, err.Error(), "no such reference")
}

func TestExecuteRejectsNativeArgs(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	err := b.Execute(t.Context(), &ports.JobSpec{
		ID: 1, Name: "align", Executable: "/bin/true", NativeArgs: "-q long",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation))
}

func TestExecuteKillsProcessGroupOnCancellation(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	ctx, cancel := context.WithCancel(t.Context())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := b.Execute(ctx, &ports.JobSpec{
		ID: 1, Name: "slow", Executable: "/bin/sh",
		Args: []string{"-c", "sleep 60"},
	})
	t.Cleanup(func() { thawAll(t, b, 1) })

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestExecuteMirrorsStreams(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	var out, errBuf strings.Builder
	require.NoError(t, b.Execute(t.Context(), &ports.JobSpec{
		ID: 1, Name: "align", Executable: "/bin/sh",
		Args:   []string{"-c", "echo live && echo trouble >&2"},
		Stdout: &out, Stderr: &errBuf,
	}))
	t.Cleanup(func() { thawAll(t, b, 1) })

	assert.Equal(t, "live\n", out.String())
	assert.Equal(t, "trouble\n", errBuf.String())
}
