package flowz

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ExecutionState is the lifecycle state of a node. It appears twice: as the
// resting state stored on the model value, and as the live state owned by a
// running NodeRuntime. The two are intentionally decoupled; a running runtime
// never writes back into the model.
type ExecutionState string

const (
	StateIdle    ExecutionState = "IDLE"
	StateRunning ExecutionState = "RUNNING"
	StatePaused  ExecutionState = "PAUSED"
	StateError   ExecutionState = "ERROR"
)

// PortDirection represents the direction of a port
type PortDirection int

const (
	DirectionIn PortDirection = iota
	DirectionOut
)

func (d PortDirection) String() string {
	if d == DirectionIn {
		return "IN"
	}
	return "OUT"
}

// Port is a typed endpoint on a node. Direction is fixed at creation.
type Port struct {
	ID           string        `validate:"required"`
	Name         string        `validate:"required"`
	Direction    PortDirection
	DataType     string
	Required     bool
	OwningNodeID string
}

// Connection is a point-to-point edge between an OUT port and an IN port.
// Fan-out and fan-in are expressed with multiple connections.
//
// ChannelCapacity: 0 = rendezvous handoff, >0 = bounded buffer, -1 = unbounded
// (clamped by the in-process runtime, see UnboundedChannelCapacity).
type Connection struct {
	ID              string `validate:"required"`
	SourceNodeID    string `validate:"required"`
	SourcePortID    string `validate:"required"`
	TargetNodeID    string `validate:"required"`
	TargetPortID    string `validate:"required"`
	ChannelCapacity int    `validate:"gte=-1"`
	TypeTag         string
}

// ControlConfig configures how a node responds to control commands.
// IndependentControl excludes the node (and, for composites, its subtree)
// from bulk operations propagated by an ancestor or a registry; the node then
// only responds to direct calls on itself.
type ControlConfig struct {
	IndependentControl bool
	PauseBufferSize    int
	SpeedAttenuation   time.Duration
}

// Node is the closed sum of CodeNode and GraphNode. Traversal and state
// propagation switch exhaustively over the two variants.
type Node interface {
	NodeID() string
	NodeName() string
	Control() ControlConfig
	State() ExecutionState
	// WithState returns a copy with the resting execution state replaced.
	WithState(ExecutionState) Node

	isNode()
}

// CodeNode is a leaf processing unit with typed ports.
type CodeNode struct {
	ID            string `validate:"required"`
	Name          string `validate:"required"`
	InputPorts    []Port
	OutputPorts   []Port
	ControlConfig ControlConfig
	// ExecutionState is the resting state, used before execution starts or
	// after it fully stops.
	ExecutionState ExecutionState
	Configuration  map[string]string
}

// NewCodeNode creates a leaf node with a generated id and an IDLE resting state.
func NewCodeNode(name string) CodeNode {
	return CodeNode{
		ID:             uuid.NewString(),
		Name:           name,
		ExecutionState: StateIdle,
		Configuration:  map[string]string{},
	}
}

func (n CodeNode) NodeID() string         { return n.ID }
func (n CodeNode) NodeName() string       { return n.Name }
func (n CodeNode) Control() ControlConfig { return n.ControlConfig }
func (n CodeNode) State() ExecutionState  { return n.ExecutionState }
func (n CodeNode) isNode()                {}

func (n CodeNode) WithState(s ExecutionState) Node {
	n.ExecutionState = s
	return n
}

// WithConfiguration returns a copy with one configuration entry replaced.
func (n CodeNode) WithConfiguration(key, value string) CodeNode {
	cfg := maps.Clone(n.Configuration)
	if cfg == nil {
		cfg = map[string]string{}
	}
	cfg[key] = value
	n.Configuration = cfg
	return n
}

// WithPorts returns a copy with the port lists replaced. Each port's
// OwningNodeID is stamped with the node's id.
func (n CodeNode) WithPorts(inputs, outputs []Port) CodeNode {
	n.InputPorts = stampPorts(n.ID, DirectionIn, inputs)
	n.OutputPorts = stampPorts(n.ID, DirectionOut, outputs)
	return n
}

// PortMapping binds an exposed port of a GraphNode to a port on one of its
// child nodes (pass-through).
type PortMapping struct {
	ChildNodeID   string `validate:"required"`
	ChildPortName string `validate:"required"`
}

// GraphNode is a composite node: child nodes, internal wiring, and exposed
// ports that map to child ports. Nesting depth is unbounded.
type GraphNode struct {
	ID                  string `validate:"required"`
	Name                string `validate:"required"`
	ChildNodes          []Node
	InternalConnections []Connection
	InputPorts          []Port
	OutputPorts         []Port
	// PortMappings maps an exposed port name to the child port it passes
	// through to.
	PortMappings   map[string]PortMapping
	ControlConfig  ControlConfig
	ExecutionState ExecutionState
}

// NewGraphNode creates an empty composite node with a generated id.
func NewGraphNode(name string) GraphNode {
	return GraphNode{
		ID:             uuid.NewString(),
		Name:           name,
		ExecutionState: StateIdle,
		PortMappings:   map[string]PortMapping{},
	}
}

func (n GraphNode) NodeID() string         { return n.ID }
func (n GraphNode) NodeName() string       { return n.Name }
func (n GraphNode) Control() ControlConfig { return n.ControlConfig }
func (n GraphNode) State() ExecutionState  { return n.ExecutionState }
func (n GraphNode) isNode()                {}

func (n GraphNode) WithState(s ExecutionState) Node {
	n.ExecutionState = s
	return n
}

// WithChildren returns a copy with the child node list replaced.
func (n GraphNode) WithChildren(children ...Node) GraphNode {
	n.ChildNodes = slices.Clone(children)
	return n
}

// FlowGraph is a complete authored graph: root nodes plus the connections
// wiring their ports together.
type FlowGraph struct {
	ID          string `validate:"required"`
	Name        string `validate:"required"`
	Version     string
	RootNodes   []Node
	Connections []Connection
	Metadata    map[string]string
}

// NewFlowGraph creates an empty graph with a generated id.
func NewFlowGraph(name string) FlowGraph {
	return FlowGraph{
		ID:       uuid.NewString(),
		Name:     name,
		Version:  "1",
		Metadata: map[string]string{},
	}
}

// WithRootNodes returns a copy with the root node list replaced.
func (g FlowGraph) WithRootNodes(nodes ...Node) FlowGraph {
	g.RootNodes = slices.Clone(nodes)
	return g
}

// WithConnections returns a copy with the connection list replaced.
func (g FlowGraph) WithConnections(conns ...Connection) FlowGraph {
	g.Connections = slices.Clone(conns)
	return g
}

// Walk visits every node in the graph, depth-first, composites before their
// children. Traversal stops early if visit returns false.
func (g FlowGraph) Walk(visit func(Node) bool) {
	walkNodes(g.RootNodes, visit)
}

func walkNodes(nodes []Node, visit func(Node) bool) bool {
	for _, n := range nodes {
		if !visit(n) {
			return false
		}
		if gn, ok := n.(GraphNode); ok {
			if !walkNodes(gn.ChildNodes, visit) {
				return false
			}
		}
	}
	return true
}

// FindNode looks a node up by id anywhere in the graph, including inside
// nested composites.
func (g FlowGraph) FindNode(id string) (Node, bool) {
	var found Node
	g.Walk(func(n Node) bool {
		if n.NodeID() == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return found, true
}

// NewPort creates a port with a generated id.
func NewPort(name string, direction PortDirection, dataType string) Port {
	return Port{
		ID:        uuid.NewString(),
		Name:      name,
		Direction: direction,
		DataType:  dataType,
	}
}

// NewConnection creates a point-to-point connection with a generated id.
func NewConnection(sourceNodeID, sourcePortID, targetNodeID, targetPortID string, capacity int) Connection {
	return Connection{
		ID:              uuid.NewString(),
		SourceNodeID:    sourceNodeID,
		SourcePortID:    sourcePortID,
		TargetNodeID:    targetNodeID,
		TargetPortID:    targetPortID,
		ChannelCapacity: capacity,
	}
}

func stampPorts(nodeID string, direction PortDirection, ports []Port) []Port {
	out := slices.Clone(ports)
	for i := range out {
		out[i].OwningNodeID = nodeID
		out[i].Direction = direction
	}
	return out
}
