package flowz

import (
	"log/slog"
	"slices"
	"sync"
)

// RuntimeRegistry tracks live runtime instances by node id so that model-level
// bulk commands can reach running code. Registration happens automatically in
// the base lifecycle's start and exit paths; application code only uses the
// bulk operations and Count.
//
// A registry is scoped to one flow graph instance, never process-wide.
type RuntimeRegistry struct {
	log *slog.Logger

	mu       sync.RWMutex
	runtimes map[string]*NodeRuntime
}

// NewRuntimeRegistry creates an empty registry. A nil logger discards output.
func NewRuntimeRegistry(log *slog.Logger) *RuntimeRegistry {
	if log == nil {
		log = NullLogger()
	}
	return &RuntimeRegistry{
		log:      log,
		runtimes: map[string]*NodeRuntime{},
	}
}

func (r *RuntimeRegistry) register(rt *NodeRuntime) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.runtimes[rt.ID()]; ok && prev != rt {
		r.log.Warn("replacing registered runtime", "id", rt.ID(), "node", rt.Name())
	}
	r.runtimes[rt.ID()] = rt
}

func (r *RuntimeRegistry) unregister(rt *NodeRuntime) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Only remove the exact instance; a restart may already have re-registered.
	if current, ok := r.runtimes[rt.ID()]; ok && current == rt {
		delete(r.runtimes, rt.ID())
	}
}

// Count returns the number of currently registered instances.
func (r *RuntimeRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runtimes)
}

// snapshot returns the registered instances sorted by id, so bulk operations
// iterate a stable copy while register/unregister keep mutating the map.
func (r *RuntimeRegistry) snapshot() []*NodeRuntime {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*NodeRuntime, 0, len(r.runtimes))
	for _, rt := range r.runtimes {
		out = append(out, rt)
	}
	slices.SortFunc(out, func(a, b *NodeRuntime) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return out
}

// PauseAll pauses every registered instance that does not opt out via
// IndependentControl.
func (r *RuntimeRegistry) PauseAll() {
	for _, rt := range r.snapshot() {
		if rt.Control().IndependentControl {
			continue
		}
		rt.Pause()
	}
	r.log.Info("paused all runtimes", "count", r.Count())
}

// ResumeAll resumes every registered instance that does not opt out via
// IndependentControl.
func (r *RuntimeRegistry) ResumeAll() {
	for _, rt := range r.snapshot() {
		if rt.Control().IndependentControl {
			continue
		}
		rt.Resume()
	}
	r.log.Info("resumed all runtimes", "count", r.Count())
}

// StopAll stops every registered instance that does not opt out via
// IndependentControl, then clears the stopped entries. Stop waits for each
// loop to unwind, so the instances have already unregistered themselves by
// the time this returns; the sweep below only catches instances that were
// never able to exit cleanly.
func (r *RuntimeRegistry) StopAll() {
	for _, rt := range r.snapshot() {
		if rt.Control().IndependentControl {
			continue
		}
		rt.Stop()
	}

	r.mu.Lock()
	for id, rt := range r.runtimes {
		if !rt.Control().IndependentControl {
			delete(r.runtimes, id)
		}
	}
	r.mu.Unlock()

	r.log.Info("stopped all runtimes", "remaining", r.Count())
}
