package pipeline

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/zerr"

	"genopipe/internal/core/domain"
	"genopipe/internal/core/ports"
)

// Task is one named unit of work in the graph: either a job backed by an
// executable command or an in-process function body. Its identity and
// finished state live in the ledger, keyed by the versioned name.
type Task struct {
	p          *Pipeline
	name       string
	ledgerName string
	id         int64
	cores      int

	executable string
	args       []string
	nativeArgs string
	fn         func(context.Context) error

	// deps is guarded by p.mu together with the rest of the graph.
	deps []*Task

	mu       sync.Mutex
	handle   *Handle
	finished bool
}

type options struct {
	version    int
	cores      int
	nativeArgs string
}

// Option configures a task at construction.
type Option func(*options)

// WithVersion tags the task's ledger key with a version. Bumping the version
// forces recomputation while prior versions' rows stay intact.
func WithVersion(n int) Option {
	return func(o *options) { o.version = n }
}

// WithCores sets the number of cores the task reserves while running.
func WithCores(n int) Option {
	return func(o *options) { o.cores = n }
}

// WithNativeArgs passes scheduler-specific submission options through to a
// batch-queue backend.
func WithNativeArgs(s string) Option {
	return func(o *options) { o.nativeArgs = s }
}

// NewJob declares a named job running the given command, program first. The
// ledger row is ensured immediately; a job finished in a previous run adopts
// that state and will not run again.
func (p *Pipeline) NewJob(ctx context.Context, name string, command []string, opts ...Option) (*Task, error) {
	o := buildOptions(opts)
	if err := p.validateTask(name, o); err != nil {
		return nil, err
	}
	if len(command) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidOperation, "job has an empty command"), "name", name)
	}

	executable, err := resolveExecutable(command[0])
	if err != nil {
		return nil, zerr.With(err, "name", name)
	}

	t := &Task{
		p:          p,
		name:       name,
		ledgerName: domain.VersionedName(name, o.version),
		cores:      o.cores,
		executable: executable,
		args:       command[1:],
		nativeArgs: o.nativeArgs,
	}
	return p.adopt(ctx, t)
}

// NewTask declares a named task running an in-process function body. Same
// registry, ledger and identity rules as NewJob; the body only runs when the
// ledger does not already record it as finished.
func (p *Pipeline) NewTask(ctx context.Context, name string, fn func(context.Context) error, opts ...Option) (*Task, error) {
	o := buildOptions(opts)
	if err := p.validateTask(name, o); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidOperation, "task has no body"), "name", name)
	}
	if o.nativeArgs != "" {
		return nil, zerr.With(
			zerr.Wrap(domain.ErrInvalidOperation, "an in-process task cannot take scheduler arguments"),
			"name", name,
		)
	}

	t := &Task{
		p:          p,
		name:       name,
		ledgerName: domain.VersionedName(name, o.version),
		cores:      o.cores,
		fn:         fn,
	}
	return p.adopt(ctx, t)
}

func buildOptions(opts []Option) *options {
	o := &options{cores: 1}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (p *Pipeline) validateTask(name string, o *options) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	if o.cores > p.pool.Total() {
		err := zerr.Wrap(domain.ErrInvalidOperation, "task requests more cores than the budget holds")
		return zerr.With(zerr.With(zerr.With(err, "name", name), "cores", o.cores), "budget", p.pool.Total())
	}
	return nil
}

// adopt claims the name in the registry and binds the task to its ledger
// row, taking over the finished state recorded there.
func (p *Pipeline) adopt(ctx context.Context, t *Task) (*Task, error) {
	if err := p.register(t.name, t); err != nil {
		return nil, err
	}
	rec, err := p.ledger.EnsureJob(ctx, t.ledgerName)
	if err != nil {
		p.unregister(t.name)
		return nil, err
	}
	t.id = rec.ID
	t.finished = rec.Finished
	return t, nil
}

func resolveExecutable(program string) (string, error) {
	if filepath.IsAbs(program) {
		return program, nil
	}
	path, err := exec.LookPath(program)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve executable")
	}
	return path, nil
}

// Name returns the task's name.
func (t *Task) Name() string { return t.name }

// ID returns the task's ledger row id.
func (t *Task) ID() int64 { return t.id }

// Finished reports whether the ledger records the task as finished.
func (t *Task) Finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished
}

// Dependencies returns the task's current dependencies.
func (t *Task) Dependencies() []*Task {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	out := make([]*Task, len(t.deps))
	copy(out, t.deps)
	return out
}

// AddDependency adds an edge: t only starts once dep finished. An edge that
// would close a cycle is rejected and the dependency set stays unchanged.
func (t *Task) AddDependency(dep *Task) error {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()

	if path := pathBetween(dep, t); path != nil {
		names := make([]string, 0, len(path)+1)
		names = append(names, t.name)
		for _, step := range path {
			names = append(names, step.name)
		}
		return zerr.With(
			zerr.With(domain.ErrCycleDetected, "task", t.name),
			"cycle", strings.Join(names, " -> "),
		)
	}
	t.deps = append(t.deps, dep)
	return nil
}

// pathBetween returns a dependency path from from to to, or nil. Caller
// holds p.mu.
func pathBetween(from, to *Task) []*Task {
	if from == to {
		return []*Task{from}
	}
	for _, dep := range from.deps {
		if path := pathBetween(dep, to); path != nil {
			return append([]*Task{from}, path...)
		}
	}
	return nil
}

// Run starts the task and returns its handle. Idempotent: every call yields
// the same handle, and a task already finished in the ledger yields a
// settled one without running anything.
func (t *Task) Run(ctx context.Context) *Handle {
	t.mu.Lock()
	if t.handle != nil {
		h := t.handle
		t.mu.Unlock()
		return h
	}
	if t.finished {
		t.handle = settledHandle(nil)
		h := t.handle
		t.mu.Unlock()

		t.p.logger.Info("task already finished, skipping", "task", t.name, "id", t.id)
		_, v := t.p.telemetry.Record(ctx, t.name)
		v.Cached()
		v.Complete(nil)
		return h
	}
	h := newHandle()
	t.handle = h
	t.mu.Unlock()

	t.p.running.Add(1)
	go func() {
		defer t.p.running.Done()
		h.settle(t.execute(ctx))
	}()
	return h
}

func (t *Task) execute(ctx context.Context) error {
	if err := t.awaitDependencies(ctx); err != nil {
		return err
	}

	release, err := t.p.pool.Reserve(ctx, t.cores)
	if err != nil {
		if cancelled(ctx, err) {
			t.p.logger.Info("task cancelled", "task", t.name, "id", t.id)
			return err
		}
		return t.fail(err)
	}
	defer release()

	// The vertex opens only now; a task queued behind the core budget has
	// not started.
	_, v := t.p.telemetry.Record(ctx, t.name)
	t.p.logger.Info("task started", "task", t.name, "id", t.id, "cores", t.cores)

	var runErr error
	if t.fn != nil {
		runErr = t.fn(ctx)
	} else {
		runErr = t.p.backend.Execute(ctx, &ports.JobSpec{
			ID:         t.id,
			Name:       t.ledgerName,
			Executable: t.executable,
			Args:       t.args,
			NativeArgs: t.nativeArgs,
			Stdout:     v.Stdout(),
			Stderr:     v.Stderr(),
		})
	}
	if runErr != nil {
		v.Complete(runErr)
		if cancelled(ctx, runErr) {
			t.p.logger.Info("task cancelled", "task", t.name, "id", t.id)
			return runErr
		}
		t.p.logger.Error(runErr, "task", t.name, "id", t.id)
		return t.fail(runErr)
	}

	// The ledger commit comes first; only a durably recorded task counts as
	// finished.
	if err := t.p.ledger.FinishJob(context.WithoutCancel(ctx), t.id); err != nil {
		v.Complete(err)
		return t.fail(err)
	}
	t.mu.Lock()
	t.finished = true
	t.mu.Unlock()

	t.p.logger.Info("task finished", "task", t.name, "id", t.id)
	v.Complete(nil)
	return nil
}

// awaitDependencies runs all dependencies concurrently and waits for every
// one of them to settle, so sibling work is never torn down by an early
// failure. The first failure observed is reported afterwards; cancellation
// propagates immediately.
func (t *Task) awaitDependencies(ctx context.Context) error {
	deps := t.Dependencies()
	if len(deps) == 0 {
		return nil
	}

	handles := make([]*Handle, len(deps))
	for i, dep := range deps {
		handles[i] = dep.Run(ctx)
	}

	var failed *Task
	var depErr error
	for i, h := range handles {
		err := h.Wait(ctx)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			t.p.logger.Info("task cancelled", "task", t.name, "id", t.id)
			return ctx.Err()
		}
		if depErr == nil {
			failed = deps[i]
			depErr = err
		}
	}
	if depErr != nil {
		t.p.logger.Info("task failed", "task", t.name, "id", t.id, "failed_dependency", failed.name)
		err := errors.Join(domain.ErrTaskFailed, depErr)
		return zerr.With(zerr.With(err, "task", t.name), "failed_dependency", failed.name)
	}
	return nil
}

func (t *Task) fail(cause error) error {
	return zerr.With(errors.Join(domain.ErrTaskFailed, cause), "task", t.name)
}

func cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil && errors.Is(err, ctx.Err())
}
