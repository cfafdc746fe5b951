// Package app implements the application layer for genopipe.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"

	"genopipe/internal/adapters/drmaa"
	"genopipe/internal/adapters/fs"
	"genopipe/internal/adapters/ledger"
	"genopipe/internal/adapters/shell"
	"genopipe/internal/adapters/telemetry"
	"genopipe/internal/core/domain"
	"genopipe/internal/core/ports"
	"genopipe/internal/engine/pipeline"
	"genopipe/internal/engine/scheduler"
)

// ledgerFilename is the database file under the cache directory.
const ledgerFilename = "ledger.db"

// SessionFactory opens a batch-queue session. Required for the drmaa
// backend; the binding is injected by the embedder since it depends on the
// site's queue installation.
type SessionFactory func() (ports.Session, error)

// App represents the main application logic. The ledger, backend and
// pipeline are built per run from the loaded configuration.
type App struct {
	loader  ports.ConfigLoader
	logger  ports.Logger
	session SessionFactory
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, logger ports.Logger) *App {
	return &App{
		loader: loader,
		logger: logger,
	}
}

// SetSessionFactory installs the batch-queue session binding.
func (a *App) SetSessionFactory(f SessionFactory) {
	a.session = f
}

// RunOptions adjusts one run.
type RunOptions struct {
	// Dir is the working directory holding the pipeline file. Empty means
	// the current directory.
	Dir string

	// Cores overrides the configured core budget when positive.
	Cores int

	// Debug enables debug-level logging.
	Debug bool
}

// Run loads the pipeline declaration, builds the task graph and runs the
// target tasks. With no targets given, every terminal task runs. Partial
// progress persists in the ledger whatever the outcome.
func (a *App) Run(ctx context.Context, targets []string, opts RunOptions) error {
	if opts.Debug {
		if dl, ok := a.logger.(interface{ SetDebug(bool) }); ok {
			dl.SetDebug(true)
		}
	}

	cfg, err := a.loadConfig(opts.Dir)
	if err != nil {
		return err
	}
	if len(cfg.Jobs) == 0 {
		return domain.ErrNoTasks
	}

	store, err := ledger.Open(filepath.Join(cfg.CacheDir, ledgerFilename))
	if err != nil {
		return err
	}
	defer store.Close()

	backend, dispose, err := a.buildBackend(cfg)
	if err != nil {
		return err
	}
	defer dispose()

	tel := telemetry.ForKind(cfg.Progress)
	defer tel.Close()

	cores := cfg.MaxCores
	if opts.Cores > 0 {
		cores = opts.Cores
	}
	pool := scheduler.NewCorePool(cores)

	pipe := pipeline.New(store, backend, pool, a.logger, tel)
	if err := buildGraph(ctx, pipe, cfg); err != nil {
		return err
	}

	tasks, err := resolveTargets(pipe, targets)
	if err != nil {
		return err
	}

	err = gather(ctx, tasks)
	// On cancellation gather returns before the backends finished killing
	// their processes; the process must not exit while children live.
	pipe.Drain()
	return err
}

// CleanOptions selects what Clean removes.
type CleanOptions struct {
	// Dir is the working directory holding the pipeline file.
	Dir string

	// All removes the entire cache directory, ledger included.
	All bool
}

// Clean removes ledger entries and their work directories, forcing the named
// jobs to run again. This is the only way a finished task becomes unfinished.
func (a *App) Clean(ctx context.Context, names []string, opts CleanOptions) error {
	cfg, err := a.loadConfig(opts.Dir)
	if err != nil {
		return err
	}

	if opts.All {
		a.logger.Info("removing cache directory", "dir", cfg.CacheDir)
		if err := fs.Thaw(cfg.CacheDir); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.RemoveAll(cfg.CacheDir); err != nil {
			return zerr.Wrap(err, "failed to remove cache directory")
		}
		return nil
	}

	if len(names) == 0 {
		return zerr.Wrap(domain.ErrInvalidOperation, "clean needs job names or --all")
	}

	store, err := ledger.Open(filepath.Join(cfg.CacheDir, ledgerFilename))
	if err != nil {
		return err
	}
	defer store.Close()

	backend := shell.New(cfg.CacheDir, a.logger)
	for _, name := range names {
		// A versioned job lives under its versioned ledger key.
		version := 0
		if jc, ok := cfg.Jobs[name]; ok {
			version = jc.Version
		}
		ledgerName := domain.VersionedName(name, version)

		rec, err := store.FindJob(ctx, ledgerName)
		if errors.Is(err, domain.ErrTaskNotFound) {
			a.logger.Info("no ledger entry for job", "task", name)
			continue
		}
		if err != nil {
			return err
		}
		dir := backend.Directory(domain.WorkJob, rec.ID)
		if _, err := os.Lstat(dir); err == nil {
			if err := fs.Thaw(dir); err != nil {
				return err
			}
			if err := os.RemoveAll(dir); err != nil {
				return zerr.Wrap(err, "failed to remove job directory")
			}
		}
		if err := store.DeleteJob(ctx, ledgerName); err != nil {
			return err
		}
		a.logger.Info("job entry removed", "task", name, "id", rec.ID)
	}
	return nil
}

func (a *App) loadConfig(dir string) (*domain.Config, error) {
	if dir == "" {
		dir = "."
	}
	cfg, err := a.loader.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load pipeline configuration")
	}
	return cfg, nil
}

func (a *App) buildBackend(cfg *domain.Config) (ports.Backend, func(), error) {
	switch cfg.Backend {
	case domain.BackendDRMAA:
		if a.session == nil {
			return nil, nil, zerr.Wrap(domain.ErrInvalidOperation,
				"the drmaa backend needs a session binding for the local queue installation")
		}
		session, err := a.session()
		if err != nil {
			return nil, nil, zerr.Wrap(err, "failed to open batch-queue session")
		}
		backend, err := drmaa.New(cfg.CacheDir, session, a.logger)
		if err != nil {
			return nil, nil, err
		}
		return backend, func() { _ = backend.Dispose() }, nil
	default:
		return shell.New(cfg.CacheDir, a.logger), func() {}, nil
	}
}

// buildGraph declares every configured job, then adds the edges. Names are
// processed in sorted order so ledger ids are deterministic for a given
// pipeline file.
func buildGraph(ctx context.Context, pipe *pipeline.Pipeline, cfg *domain.Config) error {
	names := make([]string, 0, len(cfg.Jobs))
	for name := range cfg.Jobs {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		jc := cfg.Jobs[name]
		var opts []pipeline.Option
		if jc.Cores > 0 {
			opts = append(opts, pipeline.WithCores(jc.Cores))
		}
		if jc.Version > 0 {
			opts = append(opts, pipeline.WithVersion(jc.Version))
		}
		if jc.NativeArgs != "" {
			opts = append(opts, pipeline.WithNativeArgs(jc.NativeArgs))
		}
		if _, err := pipe.NewJob(ctx, name, jc.Cmd, opts...); err != nil {
			return err
		}
	}

	for _, name := range names {
		task, _ := pipe.Lookup(name)
		for _, dep := range cfg.Jobs[name].DependsOn {
			depTask, ok := pipe.Lookup(dep)
			if !ok {
				return zerr.With(domain.ErrTaskNotFound, "name", dep)
			}
			if err := task.AddDependency(depTask); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolveTargets(pipe *pipeline.Pipeline, targets []string) ([]*pipeline.Task, error) {
	if len(targets) == 0 {
		return pipe.Terminals(), nil
	}
	tasks := make([]*pipeline.Task, 0, len(targets))
	for _, name := range targets {
		task, ok := pipe.Lookup(name)
		if !ok {
			return nil, zerr.With(domain.ErrTaskNotFound, "name", name)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// gather runs all target tasks concurrently and waits for every one to
// settle. The first failure is reported only after all of them did;
// cancellation propagates immediately.
func gather(ctx context.Context, tasks []*pipeline.Task) error {
	handles := make([]*pipeline.Handle, len(tasks))
	for i, task := range tasks {
		handles[i] = task.Run(ctx)
	}

	var firstErr error
	for _, h := range handles {
		err := h.Wait(ctx)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
