package circuit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrDuplicateDriver is returned when a wire already has a defining gate
	ErrDuplicateDriver = errors.New("wire already driven by a gate")
	// ErrNotGateOutput is returned when a swap names a wire without a gate
	ErrNotGateOutput = errors.New("wire is not a gate output")
)

// Network is a name-indexed table of gates. Wires without a gate are primary inputs.
type Network struct {
	Name  string
	Gates map[string]*Gate // Output wire -> defining gate
}

// NewNetwork creates an empty network with the given name
func NewNetwork(name string) *Network {
	return &Network{
		Name:  name,
		Gates: make(map[string]*Gate),
	}
}

// AddGate adds a gate to the network
func (n *Network) AddGate(gate *Gate) error {
	if existing, ok := n.Gates[gate.Output]; ok {
		return fmt.Errorf("%w: %s (%s)", ErrDuplicateDriver, gate.Output, existing)
	}
	n.Gates[gate.Output] = gate
	return nil
}

// Gate returns the gate driving a wire, or nil for primary inputs
func (n *Network) Gate(wire string) *Gate {
	return n.Gates[wire]
}

// IsGateOutput reports whether a wire is driven by a gate
func (n *Network) IsGateOutput(wire string) bool {
	_, ok := n.Gates[wire]
	return ok
}

// GateOutputs returns all gate-driven wires in sorted order
func (n *Network) GateOutputs() []string {
	wires := make([]string, 0, len(n.Gates))
	for wire := range n.Gates {
		wires = append(wires, wire)
	}
	sort.Strings(wires)
	return wires
}

// Inputs returns the referenced wires that have no defining gate, sorted
func (n *Network) Inputs() []string {
	seen := make(map[string]bool)
	for _, gate := range n.Gates {
		for _, op := range gate.Operands() {
			if !n.IsGateOutput(op) {
				seen[op] = true
			}
		}
	}
	inputs := make([]string, 0, len(seen))
	for wire := range seen {
		inputs = append(inputs, wire)
	}
	sort.Strings(inputs)
	return inputs
}

// Outputs returns the gate-driven wires with the given prefix sorted by bit index
func (n *Network) Outputs(prefix string) []string {
	type indexed struct {
		wire string
		bit  int
	}
	var found []indexed
	for wire := range n.Gates {
		if bit, ok := BitIndex(wire, prefix); ok {
			found = append(found, indexed{wire, bit})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].bit < found[j].bit
	})
	wires := make([]string, len(found))
	for i, f := range found {
		wires[i] = f.wire
	}
	return wires
}

// Width returns the number of bits of the x input word (highest xNN index + 1)
func (n *Network) Width() int {
	width := 0
	for _, wire := range n.Inputs() {
		if bit, ok := BitIndex(wire, XPrefix); ok && bit+1 > width {
			width = bit + 1
		}
	}
	return width
}

// Swap exchanges the gate definitions of two gate-driven wires.
// References to the wires by name are unchanged, so each name now yields the
// other's formula. Applying the same swap twice restores the network.
func (n *Network) Swap(a, b string) error {
	if a == b {
		return fmt.Errorf("cannot swap wire %s with itself", a)
	}
	ga, ok := n.Gates[a]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotGateOutput, a)
	}
	gb, ok := n.Gates[b]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotGateOutput, b)
	}
	ga.Output, gb.Output = b, a
	n.Gates[a], n.Gates[b] = gb, ga
	return nil
}

// Clone returns a deep copy of the network
func (n *Network) Clone() *Network {
	c := &Network{
		Name:  n.Name,
		Gates: make(map[string]*Gate, len(n.Gates)),
	}
	for wire, gate := range n.Gates {
		g := *gate
		c.Gates[wire] = &g
	}
	return c
}

// String returns a string representation of the network
func (n *Network) String() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Network: %s\n", n.Name))
	builder.WriteString(fmt.Sprintf("Inputs: %s\n", strings.Join(n.Inputs(), " ")))
	builder.WriteString(fmt.Sprintf("Outputs: %s\n", strings.Join(n.Outputs(ZPrefix), " ")))
	builder.WriteString("Gates:\n")
	for _, wire := range n.GateOutputs() {
		builder.WriteString(fmt.Sprintf("  %s\n", n.Gates[wire]))
	}

	return builder.String()
}
