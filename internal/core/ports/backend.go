package ports

import (
	"context"
	"io"

	"genopipe/internal/core/domain"
)

// JobSpec describes one job execution request handed to a Backend.
type JobSpec struct {
	// ID is the job's ledger row id. It determines the job directory.
	ID int64

	// Name is the job's versioned ledger name, used for labels and log lines.
	Name string

	// Executable is the absolute path of the program to run.
	Executable string

	// Args are the program arguments, excluding the program itself.
	Args []string

	// NativeArgs are scheduler-specific submission options. Only batch-queue
	// backends accept them.
	NativeArgs string

	// Stdout and Stderr, when set, receive a live copy of the job's output
	// streams in addition to the files in the job directory.
	Stdout io.Writer
	Stderr io.Writer
}

// Backend defines the interface for running a job to completion somewhere.
//
// Execute prepares a fresh job directory, runs the command with the
// directory's output/ subdirectory as working directory, and freezes the
// directory afterwards whether the command succeeded or not. Cancelling ctx
// must kill the job and only return once it is dead.
//
//go:generate go run go.uber.org/mock/mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks
type Backend interface {
	// Directory returns the work directory path for the given ledger row.
	Directory(kind domain.WorkKind, id int64) string

	// Execute runs the job and waits for it to finish.
	Execute(ctx context.Context, spec *JobSpec) error
}
