package circuit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/adder-repair/pkg/circuit"
)

func inputsFor(width int, x, y uint64) circuit.Assignment {
	return circuit.Merge(
		circuit.Word(circuit.XPrefix, width, x),
		circuit.Word(circuit.YPrefix, width, y),
	)
}

// TestEvaluateFiveBitAdder adds 22 and 31 on a correct 5-bit adder
func TestEvaluateFiveBitAdder(t *testing.T) {
	n := circuit.RippleAdder(5)

	values, ok := circuit.Evaluate(inputsFor(5, 0b10110, 0b11111), n)
	require.True(t, ok)
	assert.Equal(t, uint64(0b110101), values.ReadNumber(circuit.ZPrefix))

	// Every wire is present in the result, not only the outputs
	assert.Len(t, values, 10+len(n.Gates))
}

func TestEvaluateAllSumsAgree(t *testing.T) {
	const width = 4
	n := circuit.RippleAdder(width)

	for x := uint64(0); x < 1<<width; x++ {
		for y := uint64(0); y < 1<<width; y++ {
			z, ok := circuit.ReadOutput(inputsFor(width, x, y), n)
			require.True(t, ok)
			require.Equal(t, x+y, z, "x=%d y=%d", x, y)
		}
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	n := circuit.RippleAdder(6)
	inputs := inputsFor(6, 45, 27)

	first, ok := circuit.Evaluate(inputs, n)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := circuit.Evaluate(inputs, n)
		require.True(t, ok)
		assert.True(t, first.Equal(again))
	}
}

func TestEvaluateDoesNotModifyInput(t *testing.T) {
	n := circuit.RippleAdder(2)
	inputs := inputsFor(2, 1, 2)

	_, ok := circuit.Evaluate(inputs, n)
	require.True(t, ok)
	assert.Len(t, inputs, 4)
}

// TestEvaluateDetectsCycle feeds a back into itself through b
func TestEvaluateDetectsCycle(t *testing.T) {
	n := circuit.NewNetwork("cycle")
	require.NoError(t, n.AddGate(circuit.NewGate("x00", circuit.AND, "b", "a")))
	require.NoError(t, n.AddGate(circuit.NewGate("a", circuit.OR, "x00", "b")))
	require.NoError(t, n.AddGate(circuit.NewGate("x00", circuit.XOR, "y00", "z00")))

	values, ok := circuit.Evaluate(circuit.Assignment{"x00": true, "y00": false}, n)
	assert.False(t, ok)
	assert.Nil(t, values)
}

func TestEvaluateDetectsSwapInducedCycle(t *testing.T) {
	n := circuit.RippleAdder(4)
	// c01 now computes s02 XOR c01
	require.NoError(t, n.Swap("z02", "c01"))

	_, ok := circuit.Evaluate(inputsFor(4, 3, 5), n)
	assert.False(t, ok)
}

func TestEvaluateMissingInput(t *testing.T) {
	n := circuit.RippleAdder(3)

	_, ok := circuit.Evaluate(circuit.Word(circuit.XPrefix, 3, 7), n)
	assert.False(t, ok)
}

func TestEvaluateSameOperandTwice(t *testing.T) {
	n := circuit.NewNetwork("self")
	require.NoError(t, n.AddGate(circuit.NewGate("x00", circuit.AND, "x00", "z00")))
	require.NoError(t, n.AddGate(circuit.NewGate("x00", circuit.XOR, "x00", "z01")))

	values, ok := circuit.Evaluate(circuit.Assignment{"x00": true}, n)
	require.True(t, ok)
	assert.True(t, values["z00"])
	assert.False(t, values["z01"])
}

func TestEvaluateRejectsValueForGateOutput(t *testing.T) {
	n := circuit.NewNetwork("conflict")
	require.NoError(t, n.AddGate(circuit.NewGate("x00", circuit.AND, "y00", "z00")))

	_, ok := circuit.Evaluate(circuit.Assignment{"x00": true, "y00": true, "z00": false}, n)
	assert.False(t, ok)
}

func TestEvaluateEmptyNetwork(t *testing.T) {
	values, ok := circuit.Evaluate(circuit.Assignment{"x00": true}, circuit.NewNetwork("empty"))
	require.True(t, ok)
	assert.True(t, values["x00"])
}
