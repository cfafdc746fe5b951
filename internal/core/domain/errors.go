package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidName is returned when a task name fails validation.
	ErrInvalidName = zerr.New("invalid task name")

	// ErrDuplicateName is returned when a task name is already registered
	// with the pipeline.
	ErrDuplicateName = zerr.New("task name already in use")

	// ErrCycleDetected is returned when adding a dependency edge would close
	// a cycle in the task graph.
	ErrCycleDetected = zerr.New("cyclic dependency")

	// ErrTaskFailed is returned when a task's command or one of its
	// dependencies failed.
	ErrTaskFailed = zerr.New("task failed")

	// ErrExitCode is returned when a command exits with a non-zero exit code.
	ErrExitCode = zerr.New("command exited with non-zero exit code")

	// ErrInvalidOperation is returned on programmer misuse, e.g.
	// instantiating a second live batch-queue backend.
	ErrInvalidOperation = zerr.New("invalid operation")

	// ErrJobAborted is returned when a batch-queue job was aborted before it
	// ever started running.
	ErrJobAborted = zerr.New("job was aborted before it started running")

	// ErrJobSignalled is returned when a batch-queue job was killed by a
	// signal.
	ErrJobSignalled = zerr.New("job was killed by a signal")

	// ErrJobNoExit is returned when a batch-queue job did not exit normally.
	ErrJobNoExit = zerr.New("job did not exit normally")

	// ErrUnknownJob is returned by a Session when it no longer tracks the
	// given job id, e.g. because the job already left the queue.
	ErrUnknownJob = zerr.New("unknown job id")

	// ErrNoTasks is returned when a run is requested on a pipeline that
	// declares no tasks.
	ErrNoTasks = zerr.New("no tasks declared")

	// ErrTaskNotFound is returned when a requested target task does not
	// exist in the pipeline.
	ErrTaskNotFound = zerr.New("task not found")
)
