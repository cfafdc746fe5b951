// Package shell provides the local subprocess execution backend.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"go.trai.ch/zerr"

	"genopipe/internal/adapters/fs"
	"genopipe/internal/core/domain"
	"genopipe/internal/core/ports"
)

const (
	// tailBytes bounds the stream excerpt attached to exit errors.
	tailBytes = 4096

	defaultGrace = 10 * time.Second
)

// Backend implements ports.Backend by running commands as local
// subprocesses.
type Backend struct {
	root   string
	logger ports.Logger
	grace  time.Duration
}

// New creates a local backend keeping job directories under cacheDir.
func New(cacheDir string, logger ports.Logger) *Backend {
	return &Backend{
		root:   cacheDir,
		logger: logger,
		grace:  defaultGrace,
	}
}

// Directory returns the work directory for the given ledger row. The path
// only depends on the row, so it is stable across restarts.
func (b *Backend) Directory(kind domain.WorkKind, id int64) string {
	return filepath.Join(b.root, "jobs", fmt.Sprintf("%s%d", kind, id))
}

// Execute runs the command in a fresh job directory and waits for it to
// finish. The directory is frozen read-only afterwards whether the command
// succeeded or not. On cancellation the whole process group is terminated
// and Execute only returns once it is dead.
func (b *Backend) Execute(ctx context.Context, spec *ports.JobSpec) (retErr error) {
	if spec.NativeArgs != "" {
		return zerr.With(
			zerr.Wrap(domain.ErrInvalidOperation, "local backend does not accept native scheduler arguments"),
			"task", spec.Name,
		)
	}

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
	stdoutFile, err := os.Create(stdoutPath)
	if err != nil {
		return zerr.Wrap(err, "failed to create stdout file")
	}
	defer stdoutFile.Close()
	stderrFile, err := os.Create(stderrPath)
	if err != nil {
		return zerr.Wrap(err, "failed to create stderr file")
	}
	defer stderrFile.Close()

	cmd := exec.Command(spec.Executable, spec.Args...) //nolint:gosec // user provided command
	cmd.Dir = outputDir
	cmd.Stdout = mirror(stdoutFile, spec.Stdout)
	cmd.Stderr = mirror(stderrFile, spec.Stderr)
	// Own process group, so cancellation can take out the command's
	// descendants as well.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to start command"), "task", spec.Name)
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case err = <-waitCh:
	case <-ctx.Done():
		b.kill(cmd.Process.Pid, spec.Name, waitCh)
		return ctx.Err()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.Exited() {
			command := append([]string{spec.Executable}, spec.Args...)
			return domain.ExitError(
				spec.Name, command, exitErr.ExitCode(),
				fs.Tail(stdoutPath, tailBytes), fs.Tail(stderrPath, tailBytes),
			)
		}
		return zerr.With(zerr.Wrap(err, "command did not exit normally"), "task", spec.Name)
	}
	return nil
}

// kill terminates the command's process group: TERM first, KILL after the
// grace period. Only returns once the command has been reaped.
func (b *Backend) kill(pgid int, name string, waitCh <-chan error) {
	b.logger.Info("terminating command", "task", name, "pgid", pgid)
	_ = syscall.Kill(-pgid, syscall.SIGTERM)

	select {
	case <-waitCh:
	case <-time.After(b.grace):
		b.logger.Warn("command survived the grace period, killing", "task", name, "pgid", pgid)
		_ = syscall.Kill(-pgid, syscall.SIGKILL)
		<-waitCh
	}
}

func mirror(file io.Writer, extra io.Writer) io.Writer {
	if extra == nil {
		return file
	}
	return io.MultiWriter(file, extra)
}
