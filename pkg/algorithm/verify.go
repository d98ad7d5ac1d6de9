package algorithm

import (
	"math/rand/v2"

	"github.com/fyerfyer/adder-repair/pkg/circuit"
	"github.com/fyerfyer/adder-repair/pkg/utils"
)

// Observer receives search events. Implementations must be cheap; they are
// called for every evaluation.
type Observer interface {
	ObserveEvaluation(ok bool)
	ObserveCandidate()
	ObserveBacktrack()
}

type nopObserver struct{}

func (nopObserver) ObserveEvaluation(bool) {}
func (nopObserver) ObserveCandidate()      {}
func (nopObserver) ObserveBacktrack()      {}

// window returns the lowest input bit and the number of values per operand
// that can influence output bit n of a width-bit adder
func window(width, bit int) (shift int, span uint64) {
	switch {
	case bit == 0:
		return 0, 2
	case bit >= width:
		return width - 1, 2
	default:
		return bit - 1, 4
	}
}

// CheckBit reports whether output bit n of the network is a correct sum bit
// for every input combination that can influence it. Bit width is the carry out.
func CheckBit(n *circuit.Network, width, bit int) bool {
	v := NewVerifier(n, width, nil)
	return v.CheckBit(bit)
}

// Verifier checks the output bits of a candidate adder network
type Verifier struct {
	Network  *circuit.Network
	Width    int // Bits per input word
	Logger   *utils.Logger
	Observer Observer
	Evals    int // Evaluations performed
}

// NewVerifier creates a verifier. A non-positive width is taken from the network.
func NewVerifier(n *circuit.Network, width int, logger *utils.Logger) *Verifier {
	if width <= 0 {
		width = n.Width()
	}
	if logger == nil {
		logger = utils.Discard()
	}
	return &Verifier{
		Network:  n,
		Width:    width,
		Logger:   logger,
		Observer: nopObserver{},
	}
}

// CheckBit verifies output bit n over its 2-bit (or 1-bit at the edges) input window
func (v *Verifier) CheckBit(bit int) bool {
	if bit < 0 || bit > v.Width || v.Width == 0 {
		return false
	}
	shift, span := window(v.Width, bit)
	out := circuit.WireName(circuit.ZPrefix, bit)

	for xs := uint64(0); xs < span; xs++ {
		for ys := uint64(0); ys < span; ys++ {
			x, y := xs<<uint(shift), ys<<uint(shift)
			inputs := circuit.Merge(
				circuit.Word(circuit.XPrefix, v.Width, x),
				circuit.Word(circuit.YPrefix, v.Width, y),
			)

			values, ok := circuit.Evaluate(inputs, v.Network)
			v.Evals++
			v.Observer.ObserveEvaluation(ok)
			if !ok {
				v.Logger.Verify("bit %d: evaluation incomplete for x=%d y=%d", bit, x, y)
				return false
			}

			got, ok := values[out]
			want := (x+y)&(1<<uint(bit)) != 0
			if !ok || got != want {
				v.Logger.Verify("bit %d: x=%d y=%d gave %v, want %v", bit, x, y, got, want)
				return false
			}
		}
	}
	return true
}

// FirstBadBit returns the lowest bit in from..=Width that fails verification.
// The second result is false when every bit passes.
func (v *Verifier) FirstBadBit(from int) (int, bool) {
	for bit := from; bit <= v.Width; bit++ {
		if !v.CheckBit(bit) {
			return bit, true
		}
	}
	return 0, false
}

// CheckAll reports whether every output bit passes verification
func (v *Verifier) CheckAll() bool {
	_, bad := v.FirstBadBit(0)
	return !bad
}

// sumPairs returns the operand pairs used for full-width confirmation: carry
// chains of every length, alternating bit patterns and a fixed pseudo-random
// sample. Bit windows cannot see a carry that starts below the window.
func sumPairs(width int) [][2]uint64 {
	mask := uint64(1)<<uint(width) - 1
	if width >= 64 {
		mask = ^uint64(0)
	}

	var pairs [][2]uint64
	for k := 0; k <= width; k++ {
		chain := (uint64(1)<<uint(k) - 1) & mask
		pairs = append(pairs, [2]uint64{chain, 1}, [2]uint64{1, chain}, [2]uint64{chain, chain})
	}
	alt := uint64(0x5555555555555555) & mask
	pairs = append(pairs,
		[2]uint64{alt, ^alt & mask},
		[2]uint64{alt, alt},
		[2]uint64{^alt & mask, ^alt & mask},
	)

	rng := rand.New(rand.NewPCG(0x5eed, uint64(width)))
	for i := 0; i < 32; i++ {
		pairs = append(pairs, [2]uint64{rng.Uint64() & mask, rng.Uint64() & mask})
	}
	return pairs
}

// CheckSums evaluates the whole network on carry-propagating inputs and
// compares the z word with the arithmetic sum
func (v *Verifier) CheckSums() bool {
	if v.Width == 0 {
		return false
	}
	for _, pair := range sumPairs(v.Width) {
		x, y := pair[0], pair[1]
		inputs := circuit.Merge(
			circuit.Word(circuit.XPrefix, v.Width, x),
			circuit.Word(circuit.YPrefix, v.Width, y),
		)

		values, ok := circuit.Evaluate(inputs, v.Network)
		v.Evals++
		v.Observer.ObserveEvaluation(ok)
		if !ok {
			v.Logger.Evaluate("x=%d y=%d: evaluation incomplete", x, y)
			return false
		}
		if got, want := values.ReadNumber(circuit.ZPrefix), x+y; got != want {
			v.Logger.Evaluate("x=%d y=%d gave z=%d, want %d", x, y, got, want)
			return false
		}
	}
	return true
}
