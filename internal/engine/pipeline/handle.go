package pipeline

import "context"

// Handle tracks one task's lifetime. A task has exactly one handle: repeated
// Run calls return the same one.
type Handle struct {
	done chan struct{}
	err  error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

func settledHandle(err error) *Handle {
	h := newHandle()
	h.settle(err)
	return h
}

// settle records the outcome and releases waiters. Called exactly once.
func (h *Handle) settle(err error) {
	h.err = err
	close(h.done)
}

// Done returns a channel closed when the task settled.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the task's outcome. Only valid after Done is closed.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Wait blocks until the task settled or ctx is cancelled.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
