package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/adder-repair/pkg/circuit"
	"github.com/fyerfyer/adder-repair/pkg/utils"
)

// run executes the root command with the given arguments and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(append(args, "--log-format", "text"))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEvalSample(t *testing.T) {
	out, err := run(t, "eval", filepath.Join("..", "pkg", "utils", "testdata", "sample.txt"))
	require.NoError(t, err)
	assert.Equal(t, "2024\n", out)
}

func TestEvalMissingFile(t *testing.T) {
	_, err := run(t, "eval", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestGenerateEvalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adder.txt")
	_, err := run(t, "generate", "--width", "5", "--x", "22", "--y", "31", "-o", path)
	require.NoError(t, err)

	out, err := run(t, "eval", path)
	require.NoError(t, err)
	assert.Equal(t, "53\n", out)
}

func TestGenerateToStdout(t *testing.T) {
	out, err := run(t, "generate", "--width", "1", "--x", "1", "--y", "1")
	require.NoError(t, err)
	assert.Equal(t, "x00: 1\ny00: 1\n\nx00 XOR y00 -> z00\nx00 AND y00 -> z01\n", out)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	_, err := run(t, "generate", "--width", "0")
	assert.Error(t, err)

	_, err = run(t, "generate", "--width", "4", "--swap", "z01")
	assert.Error(t, err)

	_, err = run(t, "generate", "--width", "4", "--swap", "x00,z01")
	assert.Error(t, err)
}

func TestRepairBrokenAdder(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.txt")
	fixed := filepath.Join(dir, "fixed.txt")
	metricsFile := filepath.Join(dir, "repair.prom")

	_, err := run(t, "generate", "--width", "5", "--x", "9", "--y", "12", "--swap", "s02,a02", "-o", broken)
	require.NoError(t, err)

	out, err := run(t, "repair", broken, "--max-swaps", "1", "-o", fixed, "--metrics-file", metricsFile)
	require.NoError(t, err)
	assert.Equal(t, "a02,s02\n", out)

	out, err = run(t, "eval", fixed)
	require.NoError(t, err)
	assert.Equal(t, "21\n", out)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "adder_repair_candidate_swaps_total")
}

func TestRepairNoSolution(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "broken.txt")
	_, err := run(t, "generate", "--width", "4", "--swap", "s02,a02", "-o", broken)
	require.NoError(t, err)

	_, err = run(t, "repair", broken, "--max-swaps", "0")
	assert.ErrorContains(t, err, "no repair")
}

func TestRepairUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.txt")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max_swaps: 0\nlog:\n  level: error\n"), 0644))

	_, err := run(t, "generate", "--width", "4", "--swap", "s02,a02", "-o", broken)
	require.NoError(t, err)

	_, err = run(t, "repair", broken, "--config", cfgPath)
	assert.ErrorContains(t, err, "no repair")

	// The flag wins over the file
	out, err := run(t, "repair", broken, "--config", cfgPath, "--max-swaps", "1")
	require.NoError(t, err)
	assert.Equal(t, "a02,s02\n", out)
}

func TestCheckReportsFailingBits(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "broken.txt")
	_, err := run(t, "generate", "--width", "5", "--swap", "s02,a02", "-o", broken)
	require.NoError(t, err)

	out, err := run(t, "check", broken, "--workers", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1+6+2)
	assert.Contains(t, lines[3], "FAIL")
	assert.Contains(t, lines[2], "ok")
	assert.Equal(t, "failing bits: 2,3", lines[len(lines)-1])
}

func TestCheckCorrectAdder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adder.txt")
	values := circuit.Merge(
		circuit.Word(circuit.XPrefix, 3, 5),
		circuit.Word(circuit.YPrefix, 3, 6),
	)
	require.NoError(t, utils.WriteNetlistFile(path, values, circuit.RippleAdder(3)))

	out, err := run(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "depth: ")
	assert.True(t, strings.HasSuffix(out, "all bits verified\n"))
}

func TestMetricsFileIsRepairOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adder.txt")
	_, err := run(t, "generate", "--width", "3", "-o", path)
	require.NoError(t, err)

	_, err = run(t, "check", path, "--metrics-file", filepath.Join(dir, "check.prom"))
	assert.ErrorContains(t, err, "unknown flag")

	_, err = run(t, "eval", path, "--metrics-file", filepath.Join(dir, "eval.prom"))
	assert.ErrorContains(t, err, "unknown flag")
}

func TestLogFileWrittenAndClosed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adder.txt")
	logFile := filepath.Join(dir, "run.log")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: info\n  file: "+logFile+"\n"), 0644))

	_, err := run(t, "generate", "--width", "3", "--x", "3", "--y", "4", "-o", path)
	require.NoError(t, err)

	out, err := run(t, "eval", path, "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Parsing netlist from")
}
