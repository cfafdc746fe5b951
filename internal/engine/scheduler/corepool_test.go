package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genopipe/internal/core/domain"
	"genopipe/internal/engine/scheduler"
)

func TestTotalDefaultsToCPUCount(t *testing.T) {
	t.Parallel()

	assert.Positive(t, scheduler.NewCorePool(0).Total())
	assert.Equal(t, 4, scheduler.NewCorePool(4).Total())
}

func TestReserveRejectsOverBudget(t *testing.T) {
	t.Parallel()

	pool := scheduler.NewCorePool(2)
	_, err := pool.Reserve(t.Context(), 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation))
}

func TestReserveNeverExceedsBudget(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		pool := scheduler.NewCorePool(3)

		var wg sync.WaitGroup
		var inUse, peak atomic.Int64
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := pool.Reserve(t.Context(), 2)
				require.NoError(t, err)
				now := inUse.Add(2)
				for {
					p := peak.Load()
					if now <= p || peak.CompareAndSwap(p, now) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inUse.Add(-2)
				release()
			}()
		}
		wg.Wait()

		assert.LessOrEqual(t, peak.Load(), int64(3))
	})
}

func TestReserveBlocksUntilRelease(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		pool := scheduler.NewCorePool(2)

		release, err := pool.Reserve(t.Context(), 2)
		require.NoError(t, err)

		acquired := make(chan struct{})
		go func() {
			r, err := pool.Reserve(t.Context(), 1)
			require.NoError(t, err)
			defer r()
			close(acquired)
		}()

		synctest.Wait()
		select {
		case <-acquired:
			t.Fatal("reservation admitted over budget")
		default:
		}

		release()
		synctest.Wait()
		<-acquired
	})
}

func TestReserveCancelledWhileQueued(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		pool := scheduler.NewCorePool(1)

		release, err := pool.Reserve(t.Context(), 1)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		errCh := make(chan error, 1)
		go func() {
			_, err := pool.Reserve(ctx, 1)
			errCh <- err
		}()

		synctest.Wait()
		cancel()

		err = <-errCh
		assert.True(t, errors.Is(err, context.Canceled))

		// The failed reservation left the budget untouched.
		release()
		r, err := pool.Reserve(t.Context(), 1)
		require.NoError(t, err)
		r()
	})
}

func TestReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	pool := scheduler.NewCorePool(1)
	release, err := pool.Reserve(t.Context(), 1)
	require.NoError(t, err)
	release()
	release()

	r, err := pool.Reserve(t.Context(), 1)
	require.NoError(t, err)
	r()
}
