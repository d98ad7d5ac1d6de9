package circuit

// pending is a wire whose value is known but not yet propagated
type pending struct {
	wire  string
	value bool
}

// Evaluate computes the value of every wire reachable from the initial assignment.
//
// Values are propagated forward through a worklist: each gate keeps a counter
// of operands still unknown and fires once the counter reaches zero. The
// second result is false if some gate never fired (a missing input or a cycle)
// or if a wire would receive a second value. The initial assignment is not
// modified.
func Evaluate(initial Assignment, n *Network) (Assignment, bool) {
	consumers := make(map[string][]*Gate)
	outstanding := make(map[string]int, len(n.Gates))
	for wire, gate := range n.Gates {
		ops := gate.Operands()
		for _, op := range ops {
			consumers[op] = append(consumers[op], gate)
		}
		outstanding[wire] = len(ops)
	}

	todo := make([]pending, 0, len(initial))
	for _, name := range initial.Names() {
		todo = append(todo, pending{name, initial[name]})
	}

	values := make(Assignment, len(initial)+len(n.Gates))
	fired := 0
	for len(todo) > 0 {
		p := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		if _, seen := values[p.wire]; seen {
			return nil, false
		}
		values[p.wire] = p.value

		for _, gate := range consumers[p.wire] {
			outstanding[gate.Output]--
			if outstanding[gate.Output] != 0 {
				continue
			}
			v, ok := gate.Evaluate(values)
			if !ok {
				return nil, false
			}
			fired++
			todo = append(todo, pending{gate.Output, v})
		}
	}

	if fired != len(n.Gates) {
		return nil, false
	}
	return values, true
}

// ReadOutput evaluates the network and reads the z word.
// The second result is false if evaluation is incomplete.
func ReadOutput(initial Assignment, n *Network) (uint64, bool) {
	values, ok := Evaluate(initial, n)
	if !ok {
		return 0, false
	}
	return values.ReadNumber(ZPrefix), true
}
