package algorithm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/adder-repair/pkg/algorithm"
	"github.com/fyerfyer/adder-repair/pkg/circuit"
)

func TestAuditCorrectAdder(t *testing.T) {
	reports, err := algorithm.Audit(context.Background(), circuit.RippleAdder(6), 0, 3)
	require.NoError(t, err)
	require.Len(t, reports, 7)

	for i, r := range reports {
		assert.Equal(t, i, r.Bit)
		assert.Equal(t, circuit.WireName("z", i), r.Wire)
		assert.True(t, r.Present)
		assert.True(t, r.Pass, "bit %d", i)
	}
	assert.Empty(t, algorithm.FailingBits(reports))
	assert.Equal(t, 1, reports[0].Cone)
	assert.Equal(t, 3, reports[1].Cone)
}

func TestAuditBrokenAdder(t *testing.T) {
	n := brokenAdder(t, 5, [2]string{"s02", "a02"})

	reports, err := algorithm.Audit(context.Background(), n, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, algorithm.FailingBits(reports))
}

func TestAuditMissingOutput(t *testing.T) {
	n := circuit.RippleAdder(3)
	delete(n.Gates, "z01")

	reports, err := algorithm.Audit(context.Background(), n, 3, 2)
	require.NoError(t, err)
	assert.False(t, reports[1].Present)
	assert.False(t, reports[1].Pass)
	assert.Equal(t, 0, reports[1].Cone)
}

func TestAuditCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := algorithm.Audit(ctx, circuit.RippleAdder(4), 4, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
