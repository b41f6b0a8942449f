package flowz

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultChannelCapacity is the buffer size used for output channels when no
// per-output capacity is configured. It is a tunable, not a correctness
// requirement.
var DefaultChannelCapacity = 16

// UnboundedChannelCapacity is the buffer size substituted when a capacity of
// -1 (unbounded in the model) is requested. Go channels are always bounded,
// so "unbounded" is clamped to a buffer large enough to never backpressure a
// well-behaved graph.
var UnboundedChannelCapacity = 1 << 16

// DefaultPausePollInterval is how often a paused processing loop re-checks
// its state. Pause latency is bounded by this interval.
var DefaultPausePollInterval = 10 * time.Millisecond

// RuntimeOption configures a NodeRuntime
type RuntimeOption func(*NodeRuntime)

// WithLogger sets the logger for the runtime
var WithLogger = func(log *slog.Logger) RuntimeOption {
	return func(r *NodeRuntime) {
		r.log = log
	}
}

// WithRegistry attaches the runtime to a registry. The runtime registers
// itself on start and unregisters on loop exit.
var WithRegistry = func(registry *RuntimeRegistry) RuntimeOption {
	return func(r *NodeRuntime) {
		r.registry = registry
	}
}

// WithClock sets the clock used for pause polling and timer-driven
// processing functions. Tests inject a fake clock.
var WithClock = func(clock clockwork.Clock) RuntimeOption {
	return func(r *NodeRuntime) {
		r.clock = clock
	}
}

// WithDescription sets a human-readable description
var WithDescription = func(description string) RuntimeOption {
	return func(r *NodeRuntime) {
		r.description = description
	}
}

// WithNodeID pins the runtime to a model node id instead of a generated one
var WithNodeID = func(id string) RuntimeOption {
	return func(r *NodeRuntime) {
		r.id = id
	}
}

// WithControlConfig sets the runtime's control configuration
var WithControlConfig = func(control ControlConfig) RuntimeOption {
	return func(r *NodeRuntime) {
		r.control = control
	}
}

// WithIndependentControl excludes the runtime from bulk registry operations;
// it then only responds to direct lifecycle calls.
var WithIndependentControl = func() RuntimeOption {
	return func(r *NodeRuntime) {
		r.control.IndependentControl = true
	}
}

// WithOutputCapacities sets per-output channel capacities, in output order.
// 0 means rendezvous, -1 means unbounded (clamped). Outputs without an entry
// use DefaultChannelCapacity.
var WithOutputCapacities = func(capacities ...int) RuntimeOption {
	return func(r *NodeRuntime) {
		r.outputCaps = capacities
	}
}

// WithPausePollInterval overrides DefaultPausePollInterval for this runtime
var WithPausePollInterval = func(interval time.Duration) RuntimeOption {
	return func(r *NodeRuntime) {
		r.pausePoll = interval
	}
}

// NullWriter is a writer that discards all data
type NullWriter struct{}

func (NullWriter) Write([]byte) (int, error) { return 0, nil }

// NullLogger creates a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(NullWriter{}, nil))
}
