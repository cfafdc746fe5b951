package pipeline

import (
	"context"
	"encoding/json"
	"sync"

	"go.trai.ch/zerr"

	"genopipe/internal/adapters/fs"
	"genopipe/internal/core/domain"
)

// Call is a memoized computation keyed in the ledger. The first successful
// run stores the JSON-encoded result; later runs, in this process or any
// other sharing the ledger, return it without side effects. A failed or
// cancelled run leaves the row unfinished so the call can be retried.
type Call[T any] struct {
	p     *Pipeline
	key   string
	fn    func(context.Context) (T, error)
	fnDir func(context.Context, string) (T, error)

	mu     sync.Mutex
	flight *flight[T]
}

type flight[T any] struct {
	done   chan struct{}
	result T
	err    error
}

// CallOption configures a memoized call at construction.
type CallOption func(*callOptions)

type callOptions struct {
	version int
}

// WithCallVersion tags the call's ledger key with a version. Bumping the
// version forces recomputation.
func WithCallVersion(n int) CallOption {
	return func(o *callOptions) { o.version = n }
}

// Memoize declares a memoized call. Callers build key with
// domain.FormatCall from the function's qualified name and its effective
// arguments.
func Memoize[T any](p *Pipeline, key string, fn func(context.Context) (T, error), opts ...CallOption) (*Call[T], error) {
	key, err := callKey(key, opts)
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidOperation, "call has no body"), "call", key)
	}
	return &Call[T]{p: p, key: key, fn: fn}, nil
}

// MemoizeDir declares a memoized call whose body receives a fresh scratch
// directory. The directory is frozen read-only after the attempt, so a
// stored result can keep referring to files in it.
func MemoizeDir[T any](p *Pipeline, key string, fn func(context.Context, string) (T, error), opts ...CallOption) (*Call[T], error) {
	key, err := callKey(key, opts)
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidOperation, "call has no body"), "call", key)
	}
	return &Call[T]{p: p, key: key, fnDir: fn}, nil
}

func callKey(key string, opts []CallOption) (string, error) {
	o := &callOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if err := domain.ValidateCallKey(key); err != nil {
		return "", err
	}
	return domain.VersionedName(key, o.version), nil
}

// Key returns the call's ledger key.
func (c *Call[T]) Key() string { return c.key }

// Run returns the memoized result, computing it on first use. Concurrent
// callers in the same process share a single attempt; callers that arrive
// while it is in flight wait for it.
func (c *Call[T]) Run(ctx context.Context) (T, error) {
	c.mu.Lock()
	if f := c.flight; f != nil {
		c.mu.Unlock()
		select {
		case <-f.done:
			return f.result, f.err
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
	f := &flight[T]{done: make(chan struct{})}
	c.flight = f
	c.mu.Unlock()

	f.result, f.err = c.attempt(ctx)
	if f.err != nil {
		// Drop the flight so a later Run retries against the unfinished row.
		c.mu.Lock()
		c.flight = nil
		c.mu.Unlock()
	}
	close(f.done)
	return f.result, f.err
}

func (c *Call[T]) attempt(ctx context.Context) (T, error) {
	var zero T

	rec, err := c.p.ledger.EnsureCall(ctx, c.key)
	if err != nil {
		return zero, err
	}

	if rec.Finished {
		var result T
		if err := json.Unmarshal(rec.Result, &result); err != nil {
			return zero, zerr.With(zerr.Wrap(err, "failed to decode stored call result"), "call", c.key)
		}
		c.p.logger.Info("call cached", "call", c.key, "id", rec.ID)
		_, v := c.p.telemetry.Record(ctx, c.key)
		v.Cached()
		v.Complete(nil)
		return result, nil
	}

	_, v := c.p.telemetry.Record(ctx, c.key)
	c.p.logger.Info("call started", "call", c.key, "id", rec.ID)

	result, runErr := c.invoke(ctx, rec.ID)
	if runErr != nil {
		v.Complete(runErr)
		if cancelled(ctx, runErr) {
			c.p.logger.Info("call cancelled", "call", c.key, "id", rec.ID)
			return zero, runErr
		}
		c.p.logger.Error(runErr, "call", c.key, "id", rec.ID)
		return zero, zerr.With(runErr, "call", c.key)
	}

	data, err := json.Marshal(result)
	if err != nil {
		v.Complete(err)
		return zero, zerr.With(zerr.Wrap(err, "failed to encode call result"), "call", c.key)
	}
	if err := c.p.ledger.FinishCall(context.WithoutCancel(ctx), rec.ID, data); err != nil {
		v.Complete(err)
		return zero, err
	}

	c.p.logger.Info("call finished", "call", c.key, "id", rec.ID)
	v.Complete(nil)
	return result, nil
}

func (c *Call[T]) invoke(ctx context.Context, id int64) (result T, retErr error) {
	if c.fnDir == nil {
		return c.fn(ctx)
	}

	dir := c.p.backend.Directory(domain.WorkCall, id)
	if err := fs.Fresh(dir); err != nil {
		var zero T
		return zero, err
	}
	defer func() {
		if err := fs.Freeze(dir); err != nil && retErr == nil {
			retErr = err
		}
	}()
	return c.fnDir(ctx, dir)
}
