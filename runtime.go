package flowz

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ErrDone is returned by a processing function to end its loop gracefully.
// The runtime treats it like end-of-stream: the loop exits, owned output
// channels are closed and the state settles at IDLE.
var ErrDone = errors.New("processing done")

// ErrInputNotWired is returned by Start when an input channel has not been
// wired to an upstream output.
var ErrInputNotWired = errors.New("input channel not wired")

// NodeRuntime is the non-generic lifecycle core shared by every typed
// runtime. It owns the state machine and the scheduled task; typed channel
// endpoints live on the concrete variants, never here.
type NodeRuntime struct {
	id          string
	name        string
	description string
	control     ControlConfig
	log         *slog.Logger
	clock       clockwork.Clock
	registry    *RuntimeRegistry
	pausePoll   time.Duration
	outputCaps  []int

	mu      sync.Mutex
	state   ExecutionState
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	err     error
}

func newNodeRuntime(name string, opts ...RuntimeOption) *NodeRuntime {
	r := &NodeRuntime{
		id:        uuid.NewString(),
		name:      name,
		log:       NullLogger(),
		clock:     clockwork.NewRealClock(),
		pausePoll: DefaultPausePollInterval,
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With("node", name)
	return r
}

// ID returns the runtime's node id
func (r *NodeRuntime) ID() string { return r.id }

// Name returns the runtime's node name
func (r *NodeRuntime) Name() string { return r.name }

// Description returns the optional human-readable description
func (r *NodeRuntime) Description() string { return r.description }

// Control returns the runtime's control configuration
func (r *NodeRuntime) Control() ControlConfig { return r.control }

// Clock returns the runtime's clock. Timer-driven processing functions should
// use it so tests can drive them with a fake clock.
func (r *NodeRuntime) Clock() clockwork.Clock { return r.clock }

// State returns the live execution state
func (r *NodeRuntime) State() ExecutionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *NodeRuntime) IsRunning() bool { return r.State() == StateRunning }
func (r *NodeRuntime) IsPaused() bool  { return r.State() == StatePaused }
func (r *NodeRuntime) IsIdle() bool    { return r.State() == StateIdle }

// Err returns the error that drove the runtime into ERROR, if any
func (r *NodeRuntime) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Pause transitions RUNNING -> PAUSED. Any other state is a silent no-op so
// bulk operations stay robust across mixed states.
func (r *NodeRuntime) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRunning {
		r.changeState(StatePaused)
	}
}

// Resume transitions PAUSED -> RUNNING. Any other state is a silent no-op.
func (r *NodeRuntime) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StatePaused {
		r.changeState(StateRunning)
	}
}

// Stop cancels the scheduled task, waits for the processing loop to unwind,
// and settles the state at IDLE. Calling it while already IDLE is a no-op.
// Stopping from PAUSED goes directly to IDLE without an intermediate resume.
func (r *NodeRuntime) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	r.cancel = nil
	if r.state != StateIdle {
		r.changeState(StateIdle)
	}
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Wait blocks until the current processing loop exits. It returns immediately
// if the runtime was never started.
func (r *NodeRuntime) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

// changeState must be called with the mutex held
func (r *NodeRuntime) changeState(newState ExecutionState) {
	r.log.Debug("change state", "from", r.state, "to", newState)
	r.state = newState
}

// begin schedules the processing loop. Any previously scheduled task has
// already been stopped by the caller. closeOutputs runs on loop exit, after
// unregistering, so downstream consumers observe end-of-stream.
func (r *NodeRuntime) begin(ctx context.Context, step func(context.Context) error, closeOutputs func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	r.mu.Lock()
	r.cancel = cancel
	r.done = done
	r.err = nil
	r.changeState(StateRunning)
	r.mu.Unlock()

	if r.registry != nil {
		r.registry.register(r)
	}
	r.log.Info("runtime started", "id", r.id)

	go r.run(ctx, done, step, closeOutputs)
}

func (r *NodeRuntime) run(ctx context.Context, done chan struct{}, step func(context.Context) error, closeOutputs func()) {
	defer close(done)
	defer func() {
		if closeOutputs != nil {
			closeOutputs()
		}
		if r.registry != nil {
			r.registry.unregister(r)
		}
		r.log.Info("runtime stopped", "id", r.id, "state", r.State())
	}()

	for {
		if !r.awaitRunning(ctx) {
			r.settle()
			return
		}

		if err := step(ctx); err != nil {
			switch {
			case errors.Is(err, ErrDone), errors.Is(err, errChannelClosed), errors.Is(err, errStopped):
				// Graceful end-of-stream, not an application error.
				r.settle()
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				r.settle()
			default:
				r.fail(err)
			}
			return
		}
	}
}

// awaitRunning blocks while the runtime is PAUSED, polling on the configured
// interval. It returns true when processing may proceed and false when the
// loop should exit.
func (r *NodeRuntime) awaitRunning(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		switch r.State() {
		case StateRunning:
			return true
		case StatePaused:
			select {
			case <-ctx.Done():
				return false
			case <-r.clock.After(r.pausePoll):
			}
		default:
			return false
		}
	}
}

// settle moves a finished loop to IDLE unless an error state was already
// recorded.
func (r *NodeRuntime) settle() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateIdle && r.state != StateError {
		r.changeState(StateIdle)
	}
}

func (r *NodeRuntime) fail(err error) {
	r.mu.Lock()
	r.err = err
	r.changeState(StateError)
	r.mu.Unlock()
	r.log.Error("processing failed", "id", r.id, "error", err)
}

// refreshChannels invokes remake on every start after the first, so a
// stopped-then-restarted instance gets fresh channels instead of reusing
// closed ones. Downstream wiring must be redone before a restart.
func (r *NodeRuntime) refreshChannels(remake func()) {
	r.mu.Lock()
	first := !r.started
	r.started = true
	r.mu.Unlock()
	if !first {
		remake()
	}
}

// outputCap resolves the capacity for output slot i.
func (r *NodeRuntime) outputCap(i int) int {
	capacity := DefaultChannelCapacity
	if i < len(r.outputCaps) {
		capacity = r.outputCaps[i]
	}
	if capacity < 0 {
		capacity = UnboundedChannelCapacity
	}
	return capacity
}
