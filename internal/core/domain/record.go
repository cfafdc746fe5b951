package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// WorkKind distinguishes the two families of ledger rows and working
// directories.
type WorkKind string

const (
	// WorkJob is a named task backed by an executable command.
	WorkJob WorkKind = "job"
	// WorkCall is a memoized in-process call.
	WorkCall WorkKind = "call"
)

// JobRecord is a row of the jobs ledger table.
type JobRecord struct {
	ID       int64
	Name     string
	Finished bool
}

// CallRecord is a row of the calls ledger table. Result holds the serialized
// return value once the call finished.
type CallRecord struct {
	ID       int64
	Name     string
	Finished bool
	Result   []byte
}

// ExitError builds the error for a command that exited with a non-zero exit
// code. The tails of both output streams are attached so the failure is
// diagnosable from the error alone, without digging up the job directory.
func ExitError(name string, command []string, code int, stdout, stderr string) error {
	err := zerr.With(ErrExitCode, "task", name)
	err = zerr.With(err, "command", strings.Join(command, " "))
	err = zerr.With(err, "exit_code", code)
	if stdout != "" {
		err = zerr.With(err, "stdout", stdout)
	}
	if stderr != "" {
		err = zerr.With(err, "stderr", stderr)
	}
	return err
}
