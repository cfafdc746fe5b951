package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry is the entry point for reporting task progress.
type Telemetry interface {
	// Record opens a vertex for a unit of work.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes and stops the progress display.
	Close() error
}

// Vertex represents one unit of work on the progress display.
type Vertex interface {
	// Stdout returns the writer mirroring the work's standard output.
	Stdout() io.Writer

	// Stderr returns the writer mirroring the work's standard error.
	Stderr() io.Writer

	// Cached marks the vertex as satisfied from the ledger without running.
	Cached()

	// Complete finishes the vertex, recording err when the work failed.
	Complete(err error)
}
