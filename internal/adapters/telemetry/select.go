package telemetry

import (
	"genopipe/internal/adapters/telemetry/progrock"
	"genopipe/internal/core/domain"
	"genopipe/internal/core/ports"
)

// ForKind returns the telemetry implementation for the configured progress
// display.
func ForKind(kind domain.ProgressKind) ports.Telemetry {
	if kind == domain.ProgressFancy {
		return progrock.New()
	}
	return NewNoOp()
}
