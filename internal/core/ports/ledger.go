// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"genopipe/internal/core/domain"
)

// Ledger defines the interface for the durable record of finished work.
//
// Rows are keyed by name. Ensure* inserts a row on first sight and returns
// the existing row otherwise; Finish* flips a row to finished. A row never
// moves back from finished.
//
//go:generate go run go.uber.org/mock/mockgen -source=ledger.go -destination=mocks/mock_ledger.go -package=mocks
type Ledger interface {
	// EnsureJob returns the job row for name, inserting an unfinished row if
	// none exists yet.
	EnsureJob(ctx context.Context, name string) (*domain.JobRecord, error)

	// FindJob returns the job row for name without inserting one. Returns
	// domain.ErrTaskNotFound when no row exists.
	FindJob(ctx context.Context, name string) (*domain.JobRecord, error)

	// FinishJob marks the job row as finished.
	FinishJob(ctx context.Context, id int64) error

	// EnsureCall returns the call row for the given call key, inserting an
	// unfinished row if none exists yet.
	EnsureCall(ctx context.Context, name string) (*domain.CallRecord, error)

	// FinishCall marks the call row as finished and stores its serialized
	// return value.
	FinishCall(ctx context.Context, id int64, result []byte) error

	// DeleteJob removes the job row for name. Deleting an absent row is not
	// an error.
	DeleteJob(ctx context.Context, name string) error

	// DeleteCall removes the call row for the given call key.
	DeleteCall(ctx context.Context, name string) error

	// Close releases the underlying database handle.
	Close() error
}
