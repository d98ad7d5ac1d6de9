package circuit

import (
	"errors"
	"fmt"
)

// ErrUnknownGateType is returned when an operator token is not AND, OR or XOR
var ErrUnknownGateType = errors.New("unknown gate type")

// GateType represents the operator of a two-input gate
type GateType int

const (
	AND GateType = iota
	OR
	XOR
)

// String returns a string representation of the gate type
func (gt GateType) String() string {
	switch gt {
	case AND:
		return "AND"
	case OR:
		return "OR"
	case XOR:
		return "XOR"
	default:
		return "UNKNOWN"
	}
}

// ParseGateType converts an operator token into a GateType
func ParseGateType(token string) (GateType, error) {
	switch token {
	case "AND":
		return AND, nil
	case "OR":
		return OR, nil
	case "XOR":
		return XOR, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownGateType, token)
	}
}

// Apply computes the gate operator over two operand values
func (gt GateType) Apply(a, b bool) bool {
	switch gt {
	case AND:
		return a && b
	case OR:
		return a || b
	case XOR:
		return a != b
	default:
		panic(fmt.Sprintf("circuit: invalid gate type %d", int(gt)))
	}
}

// Gate drives exactly one output wire from two named operand wires
type Gate struct {
	Output string   // Wire defined by this gate
	A      string   // First operand wire
	B      string   // Second operand wire
	Type   GateType // Operator
}

// NewGate creates a new gate
func NewGate(a string, gateType GateType, b string, output string) *Gate {
	return &Gate{
		Output: output,
		A:      a,
		B:      b,
		Type:   gateType,
	}
}

// Operands returns the distinct operand wires of the gate
func (g *Gate) Operands() []string {
	if g.A == g.B {
		return []string{g.A}
	}
	return []string{g.A, g.B}
}

// Evaluate computes the gate output from known operand values.
// The second result is false if an operand has no value yet.
func (g *Gate) Evaluate(values Assignment) (bool, bool) {
	a, ok := values[g.A]
	if !ok {
		return false, false
	}
	b, ok := values[g.B]
	if !ok {
		return false, false
	}
	return g.Type.Apply(a, b), true
}

// String returns the gate in netlist form
func (g *Gate) String() string {
	return fmt.Sprintf("%s %s %s -> %s", g.A, g.Type, g.B, g.Output)
}
