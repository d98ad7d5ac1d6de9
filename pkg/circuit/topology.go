package circuit

import (
	"sort"
)

// Dependencies returns the gate-driven wires that a wire transitively depends
// on, including the wire itself when it is driven by a gate. Primary inputs are
// not included. The walk follows operand references backward and tolerates cycles.
func Dependencies(n *Network, wire string) []string {
	visited := make(map[string]bool)
	stack := []string{wire}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		gate, ok := n.Gates[current]
		if !ok || visited[current] {
			continue
		}
		visited[current] = true
		stack = append(stack, gate.A, gate.B)
	}

	deps := make([]string, 0, len(visited))
	for w := range visited {
		deps = append(deps, w)
	}
	sort.Strings(deps)
	return deps
}

// Fanout returns, for every wire, the output wires of the gates consuming it
func Fanout(n *Network) map[string][]string {
	fanout := make(map[string][]string)
	for wire, gate := range n.Gates {
		for _, op := range gate.Operands() {
			fanout[op] = append(fanout[op], wire)
		}
	}
	for op := range fanout {
		sort.Strings(fanout[op])
	}
	return fanout
}

// Levels assigns a logic depth to each wire. Primary inputs are level 0 and a
// gate output is one more than its deepest operand. The second result is false
// if some gate cannot be levelled because it sits on a cycle.
func Levels(n *Network) (map[string]int, bool) {
	levels := make(map[string]int, len(n.Gates))
	for _, input := range n.Inputs() {
		levels[input] = 0
	}

	fanout := Fanout(n)
	outstanding := make(map[string]int, len(n.Gates))
	for wire, gate := range n.Gates {
		outstanding[wire] = len(gate.Operands())
	}

	queue := n.Inputs()
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, out := range fanout[current] {
			outstanding[out]--
			if outstanding[out] != 0 {
				continue
			}
			gate := n.Gates[out]
			level := levels[gate.A]
			if levels[gate.B] > level {
				level = levels[gate.B]
			}
			levels[out] = level + 1
			queue = append(queue, out)
		}
	}

	return levels, len(levels) == len(n.Inputs())+len(n.Gates)
}

// MaxLevel returns the deepest level in a level map
func MaxLevel(levels map[string]int) int {
	deepest := 0
	for _, l := range levels {
		if l > deepest {
			deepest = l
		}
	}
	return deepest
}
