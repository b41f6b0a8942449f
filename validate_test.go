package flowz

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"go.uber.org/multierr"
)

// twoNodeGraph wires producer.out -> consumer.in with the given capacity.
func twoNodeGraph(t *testing.T, capacity int) (FlowGraph, CodeNode, CodeNode) {
	t.Helper()

	producer := NewCodeNode("producer").WithPorts(nil, []Port{NewPort("out", DirectionOut, "int")})
	consumer := NewCodeNode("consumer").WithPorts([]Port{NewPort("in", DirectionIn, "int")}, nil)

	conn := NewConnection(producer.ID, producer.OutputPorts[0].ID, consumer.ID, consumer.InputPorts[0].ID, capacity)

	graph := NewFlowGraph("pipeline").
		WithRootNodes(producer, consumer).
		WithConnections(conn)

	return graph, producer, consumer
}

func TestFlowGraph_Validate(t *testing.T) {
	t.Run("valid graph passes", func(t *testing.T) {
		graph, _, _ := twoNodeGraph(t, 4)
		assert.NoError(t, graph.Validate())
	})

	t.Run("rendezvous and unbounded capacities are valid", func(t *testing.T) {
		for _, capacity := range []int{0, -1} {
			graph, _, _ := twoNodeGraph(t, capacity)
			assert.NoError(t, graph.Validate())
		}
	})

	t.Run("connection to unknown node", func(t *testing.T) {
		graph, _, _ := twoNodeGraph(t, 1)
		graph.Connections[0].TargetNodeID = "ghost"

		err := graph.Validate()
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrNodeNotFound))
	})

	t.Run("connection to unknown port", func(t *testing.T) {
		graph, _, _ := twoNodeGraph(t, 1)
		graph.Connections[0].SourcePortID = "ghost-port"

		err := graph.Validate()
		assert.True(t, errors.Is(err, ErrPortNotFound))
	})

	t.Run("direction mismatch is rejected", func(t *testing.T) {
		producer := NewCodeNode("producer").WithPorts(nil, []Port{NewPort("out", DirectionOut, "int")})
		other := NewCodeNode("other").WithPorts(nil, []Port{NewPort("also-out", DirectionOut, "int")})
		conn := NewConnection(producer.ID, producer.OutputPorts[0].ID, other.ID, other.OutputPorts[0].ID, 1)

		graph := NewFlowGraph("bad").WithRootNodes(producer, other).WithConnections(conn)

		err := graph.Validate()
		assert.True(t, errors.Is(err, ErrBadDirection))
	})

	t.Run("data type mismatch is rejected", func(t *testing.T) {
		producer := NewCodeNode("producer").WithPorts(nil, []Port{NewPort("out", DirectionOut, "string")})
		consumer := NewCodeNode("consumer").WithPorts([]Port{NewPort("in", DirectionIn, "int")}, nil)
		conn := NewConnection(producer.ID, producer.OutputPorts[0].ID, consumer.ID, consumer.InputPorts[0].ID, 1)

		graph := NewFlowGraph("bad").WithRootNodes(producer, consumer).WithConnections(conn)

		err := graph.Validate()
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("untyped port connects to anything", func(t *testing.T) {
		producer := NewCodeNode("producer").WithPorts(nil, []Port{NewPort("out", DirectionOut, "")})
		consumer := NewCodeNode("consumer").WithPorts([]Port{NewPort("in", DirectionIn, "int")}, nil)
		conn := NewConnection(producer.ID, producer.OutputPorts[0].ID, consumer.ID, consumer.InputPorts[0].ID, 1)

		graph := NewFlowGraph("ok").WithRootNodes(producer, consumer).WithConnections(conn)
		assert.NoError(t, graph.Validate())
	})

	t.Run("duplicate port ids within a node", func(t *testing.T) {
		port := NewPort("in", DirectionIn, "int")
		dup := port
		dup.Name = "in2"
		node := NewCodeNode("broken")
		node.InputPorts = []Port{port, dup}

		graph := NewFlowGraph("bad").WithRootNodes(node)

		err := graph.Validate()
		assert.True(t, errors.Is(err, ErrDuplicatePortID))
	})

	t.Run("leaf node without ports is rejected", func(t *testing.T) {
		graph := NewFlowGraph("bad").WithRootNodes(NewCodeNode("inert"))

		err := graph.Validate()
		assert.True(t, errors.Is(err, ErrNoPorts))
	})

	t.Run("all findings are aggregated", func(t *testing.T) {
		graph, _, _ := twoNodeGraph(t, 1)
		graph.Connections[0].SourceNodeID = "ghost-a"
		graph.Connections[0].TargetNodeID = "ghost-b"

		err := graph.Validate()
		assert.Error(t, err)
		assert.Equal(t, 2, len(multierr.Errors(err)))
	})
}

func TestGraphNode_PortMappings(t *testing.T) {
	child := NewCodeNode("child").WithPorts([]Port{NewPort("child-in", DirectionIn, "int")}, nil)

	t.Run("valid pass-through mapping", func(t *testing.T) {
		composite := NewGraphNode("composite").WithChildren(child)
		composite.InputPorts = stampPorts(composite.ID, DirectionIn, []Port{NewPort("exposed", DirectionIn, "int")})
		composite.PortMappings["exposed"] = PortMapping{ChildNodeID: child.ID, ChildPortName: "child-in"}

		graph := NewFlowGraph("ok").WithRootNodes(composite)
		assert.NoError(t, graph.Validate())
	})

	t.Run("mapping to unknown child", func(t *testing.T) {
		composite := NewGraphNode("composite").WithChildren(child)
		composite.InputPorts = stampPorts(composite.ID, DirectionIn, []Port{NewPort("exposed", DirectionIn, "int")})
		composite.PortMappings["exposed"] = PortMapping{ChildNodeID: "ghost", ChildPortName: "child-in"}

		graph := NewFlowGraph("bad").WithRootNodes(composite)
		err := graph.Validate()
		assert.True(t, errors.Is(err, ErrBadPortMapping))
	})

	t.Run("mapping to missing child port", func(t *testing.T) {
		composite := NewGraphNode("composite").WithChildren(child)
		composite.InputPorts = stampPorts(composite.ID, DirectionIn, []Port{NewPort("exposed", DirectionIn, "int")})
		composite.PortMappings["exposed"] = PortMapping{ChildNodeID: child.ID, ChildPortName: "ghost-port"}

		graph := NewFlowGraph("bad").WithRootNodes(composite)
		err := graph.Validate()
		assert.True(t, errors.Is(err, ErrBadPortMapping))
	})

	t.Run("mapping with wrong direction", func(t *testing.T) {
		outChild := NewCodeNode("out-child").WithPorts(nil, []Port{NewPort("child-out", DirectionOut, "int")})
		composite := NewGraphNode("composite").WithChildren(outChild)
		composite.InputPorts = stampPorts(composite.ID, DirectionIn, []Port{NewPort("exposed", DirectionIn, "int")})
		composite.PortMappings["exposed"] = PortMapping{ChildNodeID: outChild.ID, ChildPortName: "child-out"}

		graph := NewFlowGraph("bad").WithRootNodes(composite)
		err := graph.Validate()
		assert.True(t, errors.Is(err, ErrBadDirection))
	})

	t.Run("mapping name without exposed port", func(t *testing.T) {
		composite := NewGraphNode("composite").WithChildren(child)
		composite.PortMappings["phantom"] = PortMapping{ChildNodeID: child.ID, ChildPortName: "child-in"}

		graph := NewFlowGraph("bad").WithRootNodes(composite)
		err := graph.Validate()
		assert.True(t, errors.Is(err, ErrBadPortMapping))
	})

	t.Run("internal connections are validated", func(t *testing.T) {
		producer := NewCodeNode("inner-producer").WithPorts(nil, []Port{NewPort("out", DirectionOut, "int")})
		consumer := NewCodeNode("inner-consumer").WithPorts([]Port{NewPort("in", DirectionIn, "int")}, nil)
		composite := NewGraphNode("composite").WithChildren(producer, consumer)
		composite.InternalConnections = []Connection{
			NewConnection(producer.ID, producer.OutputPorts[0].ID, consumer.ID, "missing-port", 1),
		}

		graph := NewFlowGraph("bad").WithRootNodes(composite)
		err := graph.Validate()
		assert.True(t, errors.Is(err, ErrPortNotFound))
	})
}
