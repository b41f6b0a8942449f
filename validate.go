package flowz

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrPortNotFound    = errors.New("port not found")
	ErrDuplicateNodeID = errors.New("duplicate node id")
	ErrDuplicatePortID = errors.New("duplicate port id")
	ErrBadDirection    = errors.New("wrong port direction")
	ErrBadPortMapping  = errors.New("invalid port mapping")
	ErrTypeMismatch    = errors.New("incompatible port data types")
	ErrNoPorts         = errors.New("node has no ports")
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the whole graph: struct-level field constraints, node and
// port id uniqueness, port-mapping integrity of every composite, and
// resolution of every connection (top-level and internal, at any nesting
// depth). All findings are aggregated so the caller sees the full picture in
// one pass.
func (g FlowGraph) Validate() error {
	var err error

	if verr := structValidator.Struct(g); verr != nil {
		err = multierr.Append(err, verr)
	}

	index := map[string]Node{}
	g.Walk(func(n Node) bool {
		if _, dup := index[n.NodeID()]; dup {
			err = multierr.Append(err, fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.NodeID()))
			return true
		}
		index[n.NodeID()] = n
		return true
	})

	g.Walk(func(n Node) bool {
		err = multierr.Append(err, validateNode(n, index))
		return true
	})

	for _, conn := range g.Connections {
		err = multierr.Append(err, validateConnection(conn, index))
	}

	return err
}

func validateNode(n Node, index map[string]Node) error {
	var err error

	switch node := n.(type) {
	case CodeNode:
		if verr := structValidator.Struct(node); verr != nil {
			err = multierr.Append(err, verr)
		}
		// A leaf node with neither inputs nor outputs can never process
		// anything; composites may legitimately expose no ports.
		if len(node.InputPorts)+len(node.OutputPorts) == 0 {
			err = multierr.Append(err, fmt.Errorf("%w: node %s", ErrNoPorts, node.NodeID()))
		}
		err = multierr.Append(err, validatePorts(node.NodeID(), node.InputPorts, node.OutputPorts))

	case GraphNode:
		if verr := structValidator.Struct(node); verr != nil {
			err = multierr.Append(err, verr)
		}
		err = multierr.Append(err, validatePorts(node.NodeID(), node.InputPorts, node.OutputPorts))
		err = multierr.Append(err, validatePortMappings(node))
		for _, conn := range node.InternalConnections {
			err = multierr.Append(err, validateConnection(conn, index))
		}
	}

	return err
}

// validatePorts checks id uniqueness across both port lists and that each
// list carries the direction it is declared under.
func validatePorts(nodeID string, inputs, outputs []Port) error {
	var err error

	seen := map[string]bool{}
	check := func(ports []Port, want PortDirection) {
		for _, p := range ports {
			if seen[p.ID] {
				err = multierr.Append(err, fmt.Errorf("%w: node %s port %s", ErrDuplicatePortID, nodeID, p.ID))
			}
			seen[p.ID] = true
			if p.Direction != want {
				err = multierr.Append(err, fmt.Errorf("%w: node %s port %s declared %s, want %s",
					ErrBadDirection, nodeID, p.Name, p.Direction, want))
			}
		}
	}
	check(inputs, DirectionIn)
	check(outputs, DirectionOut)

	return err
}

// validatePortMappings checks that every exposed port of a composite maps to
// an existing child port of matching direction and compatible data type.
// Mapping names are checked in sorted order so aggregated errors are
// deterministic.
func validatePortMappings(node GraphNode) error {
	var err error

	names := make([]string, 0, len(node.PortMappings))
	for name := range node.PortMappings {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		mapping := node.PortMappings[name]

		exposed, ok := findPortByName(append(slices.Clone(node.InputPorts), node.OutputPorts...), name)
		if !ok {
			err = multierr.Append(err, fmt.Errorf("%w: composite %s exposes no port named %q",
				ErrBadPortMapping, node.ID, name))
			continue
		}

		child, ok := findChild(node.ChildNodes, mapping.ChildNodeID)
		if !ok {
			err = multierr.Append(err, fmt.Errorf("%w: composite %s maps %q to unknown child %s",
				ErrBadPortMapping, node.ID, name, mapping.ChildNodeID))
			continue
		}

		childPort, ok := findPortByName(nodePorts(child), mapping.ChildPortName)
		if !ok {
			err = multierr.Append(err, fmt.Errorf("%w: composite %s maps %q to missing child port %q",
				ErrBadPortMapping, node.ID, name, mapping.ChildPortName))
			continue
		}

		if childPort.Direction != exposed.Direction {
			err = multierr.Append(err, fmt.Errorf("%w: composite %s port %q is %s but child port %q is %s",
				ErrBadDirection, node.ID, name, exposed.Direction, mapping.ChildPortName, childPort.Direction))
		}
		if !typesCompatible(exposed.DataType, childPort.DataType) {
			err = multierr.Append(err, fmt.Errorf("%w: composite %s port %q (%s) vs child port %q (%s)",
				ErrTypeMismatch, node.ID, name, exposed.DataType, mapping.ChildPortName, childPort.DataType))
		}
	}

	return err
}

// validateConnection checks that both endpoints resolve and that the edge
// runs OUT -> IN with compatible data types.
func validateConnection(conn Connection, index map[string]Node) error {
	var err error

	source, ok := index[conn.SourceNodeID]
	if !ok {
		err = multierr.Append(err, fmt.Errorf("%w: connection %s source node %s", ErrNodeNotFound, conn.ID, conn.SourceNodeID))
	}
	target, ok := index[conn.TargetNodeID]
	if !ok {
		err = multierr.Append(err, fmt.Errorf("%w: connection %s target node %s", ErrNodeNotFound, conn.ID, conn.TargetNodeID))
	}
	if err != nil {
		return err
	}

	sourcePort, ok := findPortByID(nodePorts(source), conn.SourcePortID)
	if !ok {
		return fmt.Errorf("%w: connection %s source port %s on node %s", ErrPortNotFound, conn.ID, conn.SourcePortID, conn.SourceNodeID)
	}
	targetPort, ok := findPortByID(nodePorts(target), conn.TargetPortID)
	if !ok {
		return fmt.Errorf("%w: connection %s target port %s on node %s", ErrPortNotFound, conn.ID, conn.TargetPortID, conn.TargetNodeID)
	}

	if sourcePort.Direction != DirectionOut {
		err = multierr.Append(err, fmt.Errorf("%w: connection %s source port %s is %s, want OUT",
			ErrBadDirection, conn.ID, sourcePort.Name, sourcePort.Direction))
	}
	if targetPort.Direction != DirectionIn {
		err = multierr.Append(err, fmt.Errorf("%w: connection %s target port %s is %s, want IN",
			ErrBadDirection, conn.ID, targetPort.Name, targetPort.Direction))
	}
	if !typesCompatible(sourcePort.DataType, targetPort.DataType) {
		err = multierr.Append(err, fmt.Errorf("%w: connection %s: %s -> %s",
			ErrTypeMismatch, conn.ID, sourcePort.DataType, targetPort.DataType))
	}

	return err
}

// An empty data type is untyped and compatible with anything.
func typesCompatible(a, b string) bool {
	return a == "" || b == "" || a == b
}

func nodePorts(n Node) []Port {
	switch node := n.(type) {
	case CodeNode:
		return append(slices.Clone(node.InputPorts), node.OutputPorts...)
	case GraphNode:
		return append(slices.Clone(node.InputPorts), node.OutputPorts...)
	}
	return nil
}

func findPortByID(ports []Port, id string) (Port, bool) {
	for _, p := range ports {
		if p.ID == id {
			return p, true
		}
	}
	return Port{}, false
}

func findPortByName(ports []Port, name string) (Port, bool) {
	for _, p := range ports {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

func findChild(children []Node, id string) (Node, bool) {
	for _, c := range children {
		if c.NodeID() == id {
			return c, true
		}
	}
	return nil, false
}
