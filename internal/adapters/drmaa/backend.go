// Package drmaa provides the batch-queue execution backend on top of a
// DRMAA-shaped session.
package drmaa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.trai.ch/zerr"

	"genopipe/internal/adapters/fs"
	"genopipe/internal/core/domain"
	"genopipe/internal/core/ports"
)

// tailBytes bounds the stream excerpt attached to exit errors.
const tailBytes = 4096

// DRMAA implementations tolerate a single job session per process, so a
// second live backend is refused until the first is disposed.
var live atomic.Bool

// Backend implements ports.Backend by submitting jobs to a batch queue.
type Backend struct {
	root    string
	session ports.Session
	logger  ports.Logger
	dispose sync.Once
}

// New creates a batch-queue backend keeping job directories under cacheDir.
// At most one live backend exists per process; returns
// domain.ErrInvalidOperation while a previous one is not yet disposed.
func New(cacheDir string, session ports.Session, logger ports.Logger) (*Backend, error) {
	if !live.CompareAndSwap(false, true) {
		return nil, zerr.Wrap(domain.ErrInvalidOperation, "a batch-queue backend is already live in this process")
	}
	return &Backend{
		root:    cacheDir,
		session: session,
		logger:  logger,
	}, nil
}

// Dispose drains the session and tears it down, freeing the process-wide
// slot. Safe to call more than once.
func (b *Backend) Dispose() error {
	var err error
	b.dispose.Do(func() {
		if serr := b.session.Synchronize(context.Background()); serr != nil {
			b.logger.Warn("failed to synchronize session", "error", serr)
		}
		err = b.session.Exit()
		live.Store(false)
	})
	return err
}

// Directory returns the work directory for the given ledger row. The path
// only depends on the row, so it is stable across restarts and visible on
// the shared filesystem the queue nodes mount.
func (b *Backend) Directory(kind domain.WorkKind, id int64) string {
	return filepath.Join(b.root, "jobs", fmt.Sprintf("%s%d", kind, id))
}

// Execute submits the command to the queue and waits for it to leave. The
// job directory is frozen read-only afterwards whether the job succeeded or
// not. On cancellation the job is terminated through the queue and Execute
// only returns once it is dead.
func (b *Backend) Execute(ctx context.Context, spec *ports.JobSpec) (retErr error) {
	dir := b.Directory(domain.WorkJob, spec.ID)
	if err := fs.Fresh(dir); err != nil {
		return err
	}
	defer func() {
		if err := fs.Freeze(dir); err != nil && retErr == nil {
			retErr = err
		}
	}()

	outputDir := filepath.Join(dir, "output")
	if err := os.Mkdir(outputDir, 0o755); err != nil {
		return zerr.Wrap(err, "failed to create output directory")
	}
	stdoutPath := filepath.Join(dir, "stdout")
	stderrPath := filepath.Join(dir, "stderr")

	tmpl := &ports.JobTemplate{
		JobName:             "gp-" + domain.ShortID(spec.Name),
		RemoteCommand:       spec.Executable,
		Args:                spec.Args,
		WorkingDirectory:    outputDir,
		OutputPath:          ":" + stdoutPath,
		ErrorPath:           ":" + stderrPath,
		NativeSpecification: spec.NativeArgs,
	}

	jobID, err := b.session.RunJob(ctx, tmpl)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to submit job"), "task", spec.Name)
	}
	b.logger.Info("job submitted", "task", spec.Name, "job_id", jobID)

	// Wait must survive cancellation: on cancel the job is terminated via
	// Control and the same Wait call observes the actual death.
	waitCtx := context.WithoutCancel(ctx)
	resCh := make(chan waitResult, 1)
	go func() {
		res, err := b.session.Wait(waitCtx, jobID)
		resCh <- waitResult{res, err}
	}()

	var wr waitResult
	select {
	case wr = <-resCh:
	case <-ctx.Done():
		b.logger.Info("terminating job", "task", spec.Name, "job_id", jobID)
		if err := b.session.Control(waitCtx, jobID, ports.ControlTerminate); err != nil &&
			!errors.Is(err, domain.ErrUnknownJob) {
			b.logger.Warn("failed to terminate job", "task", spec.Name, "job_id", jobID, "error", err)
		}
		<-resCh
		return ctx.Err()
	}
	if wr.err != nil {
		return zerr.With(zerr.Wrap(wr.err, "failed to wait for job"), "task", spec.Name)
	}

	mirrorFile(stdoutPath, spec.Stdout)
	mirrorFile(stderrPath, spec.Stderr)

	return b.classify(spec, wr.res, stdoutPath, stderrPath)
}

type waitResult struct {
	res *ports.JobResult
	err error
}

// classify turns the queue's exit report into the task outcome.
func (b *Backend) classify(spec *ports.JobSpec, res *ports.JobResult, stdoutPath, stderrPath string) error {
	if len(res.ResourceUsage) > 0 {
		b.logger.Debug("job resource usage", "task", spec.Name, "usage", res.ResourceUsage)
	}

	switch {
	case res.WasAborted:
		return zerr.With(domain.ErrJobAborted, "task", spec.Name)
	case res.HasSignal:
		err := zerr.With(domain.ErrJobSignalled, "task", spec.Name)
		return zerr.With(err, "signal", res.TerminatedSignal)
	case !res.HasExited:
		return zerr.With(domain.ErrJobNoExit, "task", spec.Name)
	case res.ExitStatus != 0:
		command := append([]string{spec.Executable}, spec.Args...)
		return domain.ExitError(
			spec.Name, command, res.ExitStatus,
			fs.Tail(stdoutPath, tailBytes), fs.Tail(stderrPath, tailBytes),
		)
	}
	return nil
}

func mirrorFile(path string, w io.Writer) {
	if w == nil {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = io.Copy(w, f)
}
