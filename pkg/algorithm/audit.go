package algorithm

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/fyerfyer/adder-repair/pkg/circuit"
)

// BitReport is the verification outcome of one output bit
type BitReport struct {
	Bit     int
	Wire    string // Output wire of the bit
	Present bool   // Whether the network drives the wire
	Pass    bool
	Cone    int // Gate-driven wires the output depends on
}

// Audit checks every output bit 0..=width concurrently. The network is only
// read and must not be modified while the audit runs. A non-positive width is
// taken from the network; workers <= 0 means one goroutine per bit.
func Audit(ctx context.Context, n *circuit.Network, width, workers int) ([]BitReport, error) {
	if width <= 0 {
		width = n.Width()
	}
	reports := make([]BitReport, width+1)

	g, gCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for bit := 0; bit <= width; bit++ {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			wire := circuit.WireName(circuit.ZPrefix, bit)
			v := NewVerifier(n, width, nil)
			reports[bit] = BitReport{
				Bit:     bit,
				Wire:    wire,
				Present: n.IsGateOutput(wire),
				Pass:    v.CheckBit(bit),
				Cone:    len(circuit.Dependencies(n, wire)),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// FailingBits returns the bit indexes of reports that did not pass
func FailingBits(reports []BitReport) []int {
	var bad []int
	for _, r := range reports {
		if !r.Pass {
			bad = append(bad, r.Bit)
		}
	}
	return bad
}
