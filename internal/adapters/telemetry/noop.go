// Package telemetry provides progress-reporting adapters.
package telemetry

import (
	"context"
	"io"

	"genopipe/internal/core/ports"
)

// NoOp is a no-op implementation of ports.Telemetry, used when the progress
// display is disabled.
type NoOp struct{}

// NewNoOp creates a new NoOp telemetry.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns a no-op vertex.
func (t *NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, &NoOpVertex{}
}

// Close does nothing.
func (t *NoOp) Close() error { return nil }

// NoOpVertex is a no-op implementation of ports.Vertex.
type NoOpVertex struct{}

// Stdout discards everything written to it.
func (v *NoOpVertex) Stdout() io.Writer { return io.Discard }

// Stderr discards everything written to it.
func (v *NoOpVertex) Stderr() io.Writer { return io.Discard }

// Cached does nothing.
func (v *NoOpVertex) Cached() {}

// Complete does nothing.
func (v *NoOpVertex) Complete(_ error) {}
