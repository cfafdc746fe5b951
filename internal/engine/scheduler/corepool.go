// Package scheduler provides the shared core budget for concurrently
// running jobs.
package scheduler

import (
	"context"
	"runtime"
	"sync"

	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"

	"genopipe/internal/core/domain"
)

// CorePool bounds the number of cores reserved by running jobs. Waiters are
// served in FIFO order, so a wide job cannot be starved by a stream of
// narrow ones.
type CorePool struct {
	total int64
	sem   *semaphore.Weighted
}

// NewCorePool creates a pool with the given budget. A budget of zero or
// less means one core per available CPU.
func NewCorePool(cores int) *CorePool {
	if cores <= 0 {
		cores = runtime.NumCPU()
	}
	return &CorePool{
		total: int64(cores),
		sem:   semaphore.NewWeighted(int64(cores)),
	}
}

// Total returns the pool's budget.
func (p *CorePool) Total() int {
	return int(p.total)
}

// Reserve blocks until cores can be taken from the budget and returns the
// release function. Cancellation while queued returns ctx.Err() and leaves
// the budget untouched. Release is idempotent.
func (p *CorePool) Reserve(ctx context.Context, cores int) (func(), error) {
	if cores < 1 {
		cores = 1
	}
	if int64(cores) > p.total {
		err := zerr.Wrap(domain.ErrInvalidOperation, "reservation exceeds the core budget")
		return nil, zerr.With(zerr.With(err, "cores", cores), "budget", p.total)
	}
	if err := p.sem.Acquire(ctx, int64(cores)); err != nil {
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() { p.sem.Release(int64(cores)) })
	}, nil
}
