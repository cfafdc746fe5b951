package app_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"genopipe/internal/adapters/fs"
	"genopipe/internal/adapters/logger"
	"genopipe/internal/app"
	"genopipe/internal/core/domain"
	"genopipe/internal/core/ports"
	"genopipe/internal/core/ports/mocks"
)

func newApp(t *testing.T, cfg *domain.Config) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(cfg, nil).AnyTimes()
	return app.New(loader, logger.NewWithWriter(io.Discard))
}

func TestRunWithoutJobs(t *testing.T) {
	a := newApp(t, &domain.Config{
		CacheDir: t.TempDir(),
		Backend:  domain.BackendLocal,
		Progress: domain.ProgressPlain,
	})

	err := a.Run(t.Context(), nil, app.RunOptions{})
	assert.True(t, errors.Is(err, domain.ErrNoTasks))
}

func TestRunConfigLoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(nil, errors.New("yaml exploded"))
	a := app.New(loader, logger.NewWithWriter(io.Discard))

	err := a.Run(t.Context(), nil, app.RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml exploded")
}

func TestDrmaaBackendNeedsSessionBinding(t *testing.T) {
	a := newApp(t, &domain.Config{
		CacheDir: t.TempDir(),
		Backend:  domain.BackendDRMAA,
		Progress: domain.ProgressPlain,
		Jobs: map[string]domain.JobConfig{
			"align": {Cmd: []string{"/bin/true"}},
		},
	})

	err := a.Run(t.Context(), nil, app.RunOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation))
}

func TestDrmaaBackendRunsThroughSession(t *testing.T) {
	cacheDir := t.TempDir()
	t.Cleanup(func() { _ = fs.Thaw(filepath.Join(cacheDir, "jobs")) })

	ctrl := gomock.NewController(t)
	session := mocks.NewMockSession(ctrl)
	session.EXPECT().RunJob(gomock.Any(), gomock.Any()).Return("q-1", nil)
	session.EXPECT().Wait(gomock.Any(), "q-1").Return(&ports.JobResult{
		HasExited: true, ExitStatus: 0,
	}, nil)
	session.EXPECT().Synchronize(gomock.Any()).Return(nil)
	session.EXPECT().Exit().Return(nil)

	a := newApp(t, &domain.Config{
		CacheDir: cacheDir,
		Backend:  domain.BackendDRMAA,
		Progress: domain.ProgressPlain,
		Jobs: map[string]domain.JobConfig{
			"align": {Cmd: []string{"/bin/true"}, NativeArgs: "-q long"},
		},
	})
	a.SetSessionFactory(func() (ports.Session, error) {
		return session, nil
	})

	require.NoError(t, a.Run(t.Context(), nil, app.RunOptions{}))
}

func TestRunTargetsSubsetOfGraph(t *testing.T) {
	cacheDir := t.TempDir()
	t.Cleanup(func() { _ = fs.Thaw(filepath.Join(cacheDir, "jobs")) })

	a := newApp(t, &domain.Config{
		CacheDir: cacheDir,
		Backend:  domain.BackendLocal,
		Progress: domain.ProgressPlain,
		Jobs: map[string]domain.JobConfig{
			"align":  {Cmd: []string{"/bin/sh", "-c", "touch align.done"}},
			"others": {Cmd: []string{"/bin/sh", "-c", "touch others.done"}},
		},
	})

	require.NoError(t, a.Run(t.Context(), []string{"align"}, app.RunOptions{}))

	// Only the requested target ran: the sibling's directory was never
	// created.
	assert.FileExists(t, filepath.Join(cacheDir, "jobs", "job1", "output", "align.done"))
	assert.NoDirExists(t, filepath.Join(cacheDir, "jobs", "job2"))
}

func TestRunPropagatesCancellation(t *testing.T) {
	cacheDir := t.TempDir()
	t.Cleanup(func() { _ = fs.Thaw(filepath.Join(cacheDir, "jobs")) })

	a := newApp(t, &domain.Config{
		CacheDir: cacheDir,
		Backend:  domain.BackendLocal,
		Progress: domain.ProgressPlain,
		Jobs: map[string]domain.JobConfig{
			"slow": {Cmd: []string{"/bin/sh", "-c", "sleep 60"}},
		},
	})

	ctx, cancel := context.WithCancel(t.Context())
	go cancel()

	err := a.Run(ctx, nil, app.RunOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
