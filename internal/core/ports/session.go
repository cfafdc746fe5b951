package ports

import "context"

// JobTemplate describes a job submission to a batch queue.
type JobTemplate struct {
	// JobName labels the job in queue listings. Queues restrict its length
	// and charset, so callers pass a short digest rather than the full name.
	JobName string

	// RemoteCommand is the absolute path of the program to run.
	RemoteCommand string

	// Args are the program arguments.
	Args []string

	// WorkingDirectory is the directory the job starts in.
	WorkingDirectory string

	// OutputPath and ErrorPath name the files receiving the job's stdout and
	// stderr, in the queue's "[host]:path" notation.
	OutputPath string
	ErrorPath  string

	// NativeSpecification carries scheduler-specific submission options
	// verbatim, e.g. "-l nodes=1:ppn=8 -q long".
	NativeSpecification string
}

// JobResult reports how a batch-queue job ended.
type JobResult struct {
	// WasAborted reports whether the job was dropped before it ever ran.
	WasAborted bool

	// HasExited reports whether the job exited normally; ExitStatus is only
	// meaningful when it did.
	HasExited  bool
	ExitStatus int

	// HasSignal reports whether a signal killed the job; TerminatedSignal
	// names it.
	HasSignal        bool
	TerminatedSignal string

	// ResourceUsage holds the queue's accounting data, e.g. cpu and vmem.
	ResourceUsage map[string]string
}

// ControlAction selects a Session.Control operation.
type ControlAction int

const (
	// ControlTerminate asks the queue to kill the job.
	ControlTerminate ControlAction = iota
)

// Session defines the interface to a batch-queue scheduler, shaped after the
// DRMAA v1 job session.
//
// Implementations block the calling goroutine on Wait; callers that need
// cancellation run Wait on its own goroutine and issue Control from outside.
//
//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=mocks/mock_session.go -package=mocks
type Session interface {
	// RunJob submits the job described by the template and returns the
	// queue's job id.
	RunJob(ctx context.Context, tmpl *JobTemplate) (string, error)

	// Wait blocks until the job leaves the queue and reports how it ended.
	Wait(ctx context.Context, jobID string) (*JobResult, error)

	// Control applies the action to the job. Returns domain.ErrUnknownJob
	// when the queue no longer tracks the job id.
	Control(ctx context.Context, jobID string, action ControlAction) error

	// Synchronize blocks until every job submitted through this session has
	// left the queue.
	Synchronize(ctx context.Context) error

	// Exit tears down the session. Jobs still in the queue keep running.
	Exit() error
}
