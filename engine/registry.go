package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"riascript/builtin"
)

// Handle identifies one engine instance in a Registry, matching spec
// §5's "process-wide registry indexes them by handle."
type Handle int

// Registry is the process-wide engine index (spec §5): "A coarse-grained
// lock around the registry serialises create/destroy/lookup." A
// semaphore.Weighted(1) plays that coarse lock's role — chosen over a
// plain sync.Mutex because Acquire takes a context, letting a future
// caller bound how long it will wait on a contended registry rather than
// blocking forever, which a bare Mutex.Lock cannot express.
type Registry struct {
	sem     *semaphore.Weighted
	mu      sync.Mutex
	engines map[Handle]*Engine
	next    Handle
}

func NewRegistry() *Registry {
	return &Registry{sem: semaphore.NewWeighted(1), engines: make(map[Handle]*Engine)}
}

func (r *Registry) withLock(fn func()) error {
	if err := r.sem.Acquire(context.Background(), 1); err != nil {
		return err
	}
	defer r.sem.Release(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
	return nil
}

// Init creates a new engine with the given config and collaborators and
// returns its handle (spec §6 "init(tempdir) -> handle").
func (r *Registry) Init(cfg Config, deps builtin.Deps) (Handle, error) {
	var h Handle
	err := r.withLock(func() {
		r.next++
		h = r.next
		r.engines[h] = New(cfg, deps)
	})
	return h, err
}

// Get looks up an engine by handle.
func (r *Registry) Get(h Handle) (*Engine, bool) {
	var (
		eng *Engine
		ok  bool
	)
	_ = r.withLock(func() { eng, ok = r.engines[h] })
	return eng, ok
}

// Shutdown destroys an engine (spec §6 "shutdown(handle) -> bool").
// Destroying an engine while it is pending is disallowed (spec §5):
// "Destroying an engine while it is in pending state is disallowed
// (rejected with unexpected call)."
func (r *Registry) Shutdown(h Handle) error {
	var result error
	err := r.withLock(func() {
		eng, ok := r.engines[h]
		if !ok {
			result = apiErrorf(CodeBadObject, "no engine for handle %d", h)
			return
		}
		if eng.IsPending() {
			result = apiErrorf(CodeUnexpectedCall, "engine %d is pending", h)
			return
		}
		delete(r.engines, h)
	})
	if err != nil {
		return err
	}
	return result
}
