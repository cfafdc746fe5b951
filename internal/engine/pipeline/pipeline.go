// Package pipeline implements the task graph and its execution: named
// persistent jobs, in-process tasks and memoized calls, all backed by the
// durable ledger.
package pipeline

import (
	"sync"

	"go.trai.ch/zerr"

	"genopipe/internal/core/domain"
	"genopipe/internal/core/ports"
	"genopipe/internal/engine/scheduler"
)

// Pipeline owns the resources shared by all tasks of a run: the ledger, the
// execution backend, the core budget and the registry of live task names.
// Built once per run and passed by reference.
type Pipeline struct {
	ledger    ports.Ledger
	backend   ports.Backend
	pool      *scheduler.CorePool
	logger    ports.Logger
	telemetry ports.Telemetry

	mu    sync.Mutex
	tasks map[string]*Task

	// running counts task goroutines still inside execute.
	running sync.WaitGroup
}

// New creates an empty pipeline.
func New(
	ledger ports.Ledger,
	backend ports.Backend,
	pool *scheduler.CorePool,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *Pipeline {
	return &Pipeline{
		ledger:    ledger,
		backend:   backend,
		pool:      pool,
		logger:    logger,
		telemetry: telemetry,
		tasks:     make(map[string]*Task),
	}
}

// Lookup returns the task registered under name.
func (p *Pipeline) Lookup(name string) (*Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tasks[name]
	return t, ok
}

// Tasks returns all registered tasks.
func (p *Pipeline) Tasks() []*Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Task, 0, len(p.tasks))
	for _, t := range p.tasks {
		out = append(out, t)
	}
	return out
}

// Terminals returns the tasks no other task depends on. These are the
// default run targets.
func (p *Pipeline) Terminals() []*Task {
	p.mu.Lock()
	defer p.mu.Unlock()

	depended := make(map[*Task]bool)
	for _, t := range p.tasks {
		for _, dep := range t.deps {
			depended[dep] = true
		}
	}
	out := make([]*Task, 0, len(p.tasks))
	for _, t := range p.tasks {
		if !depended[t] {
			out = append(out, t)
		}
	}
	return out
}

// Drain blocks until every task goroutine has returned. Handles settle
// before their backend finished killing a cancelled process, so a caller
// about to exit must drain the pipeline or it orphans live children.
func (p *Pipeline) Drain() {
	p.running.Wait()
}

// register claims name in the in-process registry.
func (p *Pipeline) register(name string, t *Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, taken := p.tasks[name]; taken {
		return zerr.With(domain.ErrDuplicateName, "name", name)
	}
	p.tasks[name] = t
	return nil
}

func (p *Pipeline) unregister(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.tasks, name)
}
