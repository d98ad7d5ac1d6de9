package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fyerfyer/adder-repair/pkg/circuit"
)

// Regular expressions for parsing the netlist format
var (
	valueRegex = regexp.MustCompile(`^(\w+)\s*:\s*([01])$`)
	gateRegex  = regexp.MustCompile(`^(\w+)\s+(\w+)\s+(\w+)\s*->\s*(\w+)$`)
)

// ParseNetlistFile reads a netlist file and returns its network and initial values
func ParseNetlistFile(filename string) (*circuit.Network, circuit.Assignment, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return ParseNetlist(name, file)
}

// ParseNetlist reads initial values ("x00: 1") followed by gate lines
// ("a AND b -> c"). Blank lines and # comments are ignored.
func ParseNetlist(name string, r io.Reader) (*circuit.Network, circuit.Assignment, error) {
	n := circuit.NewNetwork(name)
	values := make(circuit.Assignment)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if matches := valueRegex.FindStringSubmatch(line); matches != nil {
			if _, dup := values[matches[1]]; dup {
				return nil, nil, fmt.Errorf("line %d: duplicate value for %s", lineNo, matches[1])
			}
			values[matches[1]] = matches[2] == "1"
			continue
		}

		if matches := gateRegex.FindStringSubmatch(line); matches != nil {
			gateType, err := circuit.ParseGateType(matches[2])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			gate := circuit.NewGate(matches[1], gateType, matches[3], matches[4])
			if err := n.AddGate(gate); err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}

		return nil, nil, fmt.Errorf("line %d: cannot parse %q", lineNo, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading netlist: %w", err)
	}

	return n, values, nil
}

// WriteNetlist writes initial values and gates in the netlist format.
// Values and gates are sorted by wire name.
func WriteNetlist(w io.Writer, values circuit.Assignment, n *circuit.Network) error {
	writer := bufio.NewWriter(w)

	for _, name := range values.Names() {
		v := 0
		if values[name] {
			v = 1
		}
		fmt.Fprintf(writer, "%s: %d\n", name, v)
	}
	if len(values) > 0 {
		writer.WriteString("\n")
	}
	for _, wire := range n.GateOutputs() {
		writer.WriteString(n.Gates[wire].String())
		writer.WriteString("\n")
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write netlist: %w", err)
	}
	return nil
}

// WriteNetlistFile writes a netlist to a file
func WriteNetlistFile(filename string, values circuit.Assignment, n *circuit.Network) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return WriteNetlist(file, values, n)
}

// ParseSwap parses a swap pair written as "a,b"
func ParseSwap(s string) (string, string, error) {
	a, b, found := strings.Cut(s, ",")
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if !found || a == "" || b == "" {
		return "", "", fmt.Errorf("invalid swap format: %s (expected: a,b)", s)
	}
	return a, b, nil
}
