package flowz

import (
	"log/slog"
	"sync"
)

// RootControlNode couples the two halves of bulk control: it rewrites the
// model-level resting states through the node tree, and forwards the same
// command to the registry so live instances follow. The model update happens
// even with no registry attached, so the graph value stays a faithful,
// serializable snapshot of intended state before execution ever starts.
type RootControlNode struct {
	log      *slog.Logger
	registry *RuntimeRegistry

	mu    sync.Mutex
	graph FlowGraph
}

// NewRootControlNode wraps a graph and an optional registry. A nil registry
// means bulk commands update the model only.
func NewRootControlNode(graph FlowGraph, registry *RuntimeRegistry, log *slog.Logger) *RootControlNode {
	if log == nil {
		log = NullLogger()
	}
	return &RootControlNode{log: log, registry: registry, graph: graph}
}

// Graph returns the current model snapshot.
func (c *RootControlNode) Graph() FlowGraph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph
}

// StartAll marks every controllable node RUNNING in the model. A registry
// only tracks instances that are already scheduled, so there is nothing to
// forward; hosts start runtimes individually (or via Run).
func (c *RootControlNode) StartAll() FlowGraph {
	return c.apply(StateRunning, nil)
}

// PauseAll marks every controllable node PAUSED and pauses the live instances.
func (c *RootControlNode) PauseAll() FlowGraph {
	var forward func()
	if c.registry != nil {
		forward = c.registry.PauseAll
	}
	return c.apply(StatePaused, forward)
}

// ResumeAll marks every controllable node RUNNING and resumes the live
// instances.
func (c *RootControlNode) ResumeAll() FlowGraph {
	var forward func()
	if c.registry != nil {
		forward = c.registry.ResumeAll
	}
	return c.apply(StateRunning, forward)
}

// StopAll marks every controllable node IDLE and stops the live instances.
func (c *RootControlNode) StopAll() FlowGraph {
	var forward func()
	if c.registry != nil {
		forward = c.registry.StopAll
	}
	return c.apply(StateIdle, forward)
}

func (c *RootControlNode) apply(target ExecutionState, forward func()) FlowGraph {
	c.mu.Lock()
	updated := c.graph
	updated.RootNodes = propagateState(c.graph.RootNodes, target)
	c.graph = updated
	c.mu.Unlock()

	c.log.Info("bulk control", "graph", updated.Name, "target", target)

	if forward != nil {
		forward()
	}
	return updated
}

// propagateState rewrites the resting state through a node list. A node with
// IndependentControl set ignores the propagated command entirely; for a
// composite that means its whole subtree is left untouched.
func propagateState(nodes []Node, target ExecutionState) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if n.Control().IndependentControl {
			out[i] = n
			continue
		}
		switch node := n.(type) {
		case CodeNode:
			out[i] = node.WithState(target)
		case GraphNode:
			node.ChildNodes = propagateState(node.ChildNodes, target)
			out[i] = node.WithState(target)
		default:
			out[i] = n
		}
	}
	return out
}
