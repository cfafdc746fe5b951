package domain

// BackendKind selects where job commands run.
type BackendKind string

const (
	// BackendLocal runs jobs as local subprocesses.
	BackendLocal BackendKind = "local"
	// BackendDRMAA submits jobs to a DRMAA batch queue.
	BackendDRMAA BackendKind = "drmaa"
)

// ProgressKind selects the progress display.
type ProgressKind string

const (
	// ProgressFancy renders a live progress tape.
	ProgressFancy ProgressKind = "fancy"
	// ProgressPlain disables the progress display; log lines only.
	ProgressPlain ProgressKind = "plain"
)

// Config is the validated pipeline declaration loaded from genopipe.yaml.
type Config struct {
	// CacheDir is the root under which the ledger database and all job and
	// call directories live.
	CacheDir string

	// MaxCores is the run's core budget. Zero means one per available CPU.
	MaxCores int

	// Backend selects the execution backend.
	Backend BackendKind

	// Progress selects the progress display.
	Progress ProgressKind

	// Jobs maps job names to their declarations.
	Jobs map[string]JobConfig
}

// JobConfig declares one named job of the pipeline.
type JobConfig struct {
	// Cmd is the command to run, program first.
	Cmd []string

	// DependsOn names the jobs that must finish before this one starts.
	DependsOn []string

	// Cores is the number of cores the job reserves. Zero means one.
	Cores int

	// Version forces recomputation when bumped. Zero means one.
	Version int

	// NativeArgs are scheduler-specific submission options, batch queues
	// only.
	NativeArgs string
}
