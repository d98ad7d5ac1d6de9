package circuit

import "fmt"

// RippleAdder builds a correct width-bit ripple-carry adder over xNN and yNN.
//
// Bit i uses five gates: sNN = x XOR y, aNN = x AND y, zNN = sNN XOR cNN-1,
// pNN = sNN AND cNN-1 and cNN = aNN OR pNN. Bit 0 is a half adder whose carry
// is aNN itself. The final carry is named z{width}.
func RippleAdder(width int) *Network {
	n := NewNetwork(fmt.Sprintf("ripple%d", width))
	if width <= 0 {
		return n
	}

	add := func(a string, t GateType, b string, out string) {
		// Names are generated uniquely below
		_ = n.AddGate(NewGate(a, t, b, out))
	}
	carryName := func(bit int) string {
		if bit == width-1 {
			return WireName(ZPrefix, width)
		}
		return WireName("c", bit)
	}

	x0, y0 := WireName(XPrefix, 0), WireName(YPrefix, 0)
	add(x0, XOR, y0, WireName(ZPrefix, 0))
	add(x0, AND, y0, carryName(0))

	for i := 1; i < width; i++ {
		x, y := WireName(XPrefix, i), WireName(YPrefix, i)
		s, a, p := WireName("s", i), WireName("a", i), WireName("p", i)
		carryIn := carryName(i - 1)

		add(x, XOR, y, s)
		add(x, AND, y, a)
		add(s, XOR, carryIn, WireName(ZPrefix, i))
		add(s, AND, carryIn, p)
		add(a, OR, p, carryName(i))
	}

	return n
}
