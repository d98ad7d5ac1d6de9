package algorithm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fyerfyer/adder-repair/pkg/circuit"
	"github.com/fyerfyer/adder-repair/pkg/utils"
)

// DefaultMaxSwaps is the swap budget of a well-formed adder puzzle
const DefaultMaxSwaps = 4

// ErrNoRepair is returned when no swap set within the budget fixes the adder
var ErrNoRepair = errors.New("no repair within swap budget")

// Stats contains statistics about a repair search
type Stats struct {
	Evaluations int           // Network evaluations performed
	Candidates  int           // Candidate swaps tried
	Backtracks  int           // Candidate swaps undone
	MaxDepth    int           // Deepest recursion level reached
	TotalTime   time.Duration // Total execution time
}

// Result is the outcome of a successful repair search
type Result struct {
	Swaps   [][2]string      // Swapped wire pairs in the order they were applied
	Wires   []string         // All swapped wires, sorted
	Network *circuit.Network // Network with the swaps applied
	Stats   Stats
}

// Joined returns the sorted swapped wires joined by commas
func (r *Result) Joined() string {
	return strings.Join(r.Wires, ",")
}

// Repairer searches for output-wire swaps that turn a network into a correct adder
type Repairer struct {
	MaxSwaps int
	Width    int // Bits per input word; 0 derives it from the network
	Logger   *utils.Logger
	Observer Observer

	verifier *Verifier
	stats    Stats
}

// NewRepairer creates a repairer with the default swap budget
func NewRepairer(logger *utils.Logger) *Repairer {
	if logger == nil {
		logger = utils.Discard()
	}
	return &Repairer{
		MaxSwaps: DefaultMaxSwaps,
		Logger:   logger,
		Observer: nopObserver{},
	}
}

// FindRepair returns the flat list of wires involved in a swap set of at most
// maxSwaps swaps that makes n a correct adder. The given network is not modified.
func FindRepair(n *circuit.Network, maxSwaps int) ([]string, bool) {
	r := NewRepairer(nil)
	r.MaxSwaps = maxSwaps
	result, err := r.Run(context.Background(), n)
	if err != nil {
		return nil, false
	}
	wires := make([]string, 0, 2*len(result.Swaps))
	for _, pair := range result.Swaps {
		wires = append(wires, pair[0], pair[1])
	}
	return wires, true
}

// Run searches a copy of n for a repair. ErrNoRepair is returned when the
// budget is exhausted; ctx is checked between candidate swaps.
func (r *Repairer) Run(ctx context.Context, n *circuit.Network) (*Result, error) {
	startTime := time.Now()
	r.stats = Stats{}
	if r.Logger == nil {
		r.Logger = utils.Discard()
	}
	if r.Observer == nil {
		r.Observer = nopObserver{}
	}

	work := n.Clone()
	r.verifier = NewVerifier(work, r.Width, r.Logger)
	r.verifier.Observer = r.Observer
	if r.verifier.Width == 0 {
		return nil, fmt.Errorf("network %s has no x inputs", n.Name)
	}

	r.Logger.Info("Starting repair of %s: width %d, %d gates, budget %d swaps",
		n.Name, r.verifier.Width, len(work.Gates), r.MaxSwaps)

	swaps, err := r.search(ctx, work, 0, work.GateOutputs(), 0)

	r.stats.Evaluations = r.verifier.Evals
	r.stats.TotalTime = time.Since(startTime)
	r.logStats()

	if err != nil {
		return nil, err
	}

	wires := make([]string, 0, 2*len(swaps))
	for _, pair := range swaps {
		wires = append(wires, pair[0], pair[1])
	}
	sort.Strings(wires)

	r.Logger.Info("Repair found: %s", strings.Join(wires, ","))
	return &Result{
		Swaps:   swaps,
		Wires:   wires,
		Network: work,
		Stats:   r.stats,
	}, nil
}

// search fixes the lowest failing bit at or above goodBits and recurses.
// The network is mutated in place; every tentative swap is undone unless the
// branch succeeds.
func (r *Repairer) search(ctx context.Context, n *circuit.Network, goodBits int, pool []string, used int) ([][2]string, error) {
	if used > r.stats.MaxDepth {
		r.stats.MaxDepth = used
	}

	badBit, found := r.verifier.FirstBadBit(goodBits)
	if !found {
		if !r.verifier.CheckSums() {
			r.Logger.Backtrack("Bit windows pass at depth %d but full-width sums disagree", used)
			return nil, ErrNoRepair
		}
		r.Logger.Search("All bits verified at depth %d", used)
		return nil, nil
	}
	if used >= r.MaxSwaps {
		r.Logger.Search("Bit %d fails with swap budget exhausted", badBit)
		return nil, ErrNoRepair
	}

	pool = prunePool(n, pool, badBit)
	r.Logger.Search("Bit %d fails, %d eligible wires at depth %d", badBit, len(pool), used)
	r.Logger.Indent()
	defer r.Logger.Outdent()

	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			a, b := pool[i], pool[j]

			if err := n.Swap(a, b); err != nil {
				return nil, err
			}
			r.stats.Candidates++
			r.Observer.ObserveCandidate()

			if r.verifier.CheckBit(badBit) {
				r.Logger.Search("Swap %s,%s fixes bit %d", a, b, badBit)
				rest, err := r.search(ctx, n, badBit, pool, used+1)
				if err == nil {
					return append([][2]string{{a, b}}, rest...), nil
				}
				if !errors.Is(err, ErrNoRepair) {
					return nil, err
				}
				r.Logger.Backtrack("Swap %s,%s leads nowhere", a, b)
			}

			// A swap is its own inverse
			if err := n.Swap(a, b); err != nil {
				return nil, err
			}
			r.stats.Backtracks++
			r.Observer.ObserveBacktrack()
		}
	}

	return nil, ErrNoRepair
}

// prunePool drops every wire that an output bit below badBit depends on.
// Those bits already verify, so their cones must stay untouched.
func prunePool(n *circuit.Network, pool []string, badBit int) []string {
	frozen := make(map[string]bool)
	for bit := 0; bit < badBit; bit++ {
		for _, wire := range circuit.Dependencies(n, circuit.WireName(circuit.ZPrefix, bit)) {
			frozen[wire] = true
		}
	}

	kept := make([]string, 0, len(pool))
	for _, wire := range pool {
		if !frozen[wire] {
			kept = append(kept, wire)
		}
	}
	return kept
}

// logStats logs the current statistics
func (r *Repairer) logStats() {
	r.Logger.Info("Repair statistics:")
	r.Logger.Info("- Evaluations performed: %d", r.stats.Evaluations)
	r.Logger.Info("- Candidate swaps tried: %d", r.stats.Candidates)
	r.Logger.Info("- Backtracks performed: %d", r.stats.Backtracks)
	r.Logger.Info("- Maximum depth: %d", r.stats.MaxDepth)
	r.Logger.Info("- Total time: %v", r.stats.TotalTime)
}
