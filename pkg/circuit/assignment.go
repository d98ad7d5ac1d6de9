package circuit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Primary wire prefixes of an adder network
const (
	XPrefix = "x"
	YPrefix = "y"
	ZPrefix = "z"
)

// WireName returns the primary wire name for a prefix and bit index (e.g. x07)
func WireName(prefix string, bit int) string {
	return fmt.Sprintf("%s%02d", prefix, bit)
}

// BitIndex parses the bit index of a primary wire name.
// The second result is false if the name does not carry the prefix and a number.
func BitIndex(name, prefix string) (int, bool) {
	rest, found := strings.CutPrefix(name, prefix)
	if !found || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Assignment maps wire names to boolean values
type Assignment map[string]bool

// Word builds the assignment of a width-bit input word, least significant bit at index 0
func Word(prefix string, width int, value uint64) Assignment {
	a := make(Assignment, width)
	for i := 0; i < width; i++ {
		a[WireName(prefix, i)] = (value>>uint(i))&1 != 0
	}
	return a
}

// Merge returns a new assignment holding the values of all given assignments
func Merge(parts ...Assignment) Assignment {
	size := 0
	for _, p := range parts {
		size += len(p)
	}
	merged := make(Assignment, size)
	for _, p := range parts {
		for name, v := range p {
			merged[name] = v
		}
	}
	return merged
}

// ReadNumber reads all prefixNN wires as a little-endian unsigned integer.
// Wires with indexes of 64 or more are ignored.
func (a Assignment) ReadNumber(prefix string) uint64 {
	var n uint64
	for name, v := range a {
		bit, ok := BitIndex(name, prefix)
		if !ok || !v || bit >= 64 {
			continue
		}
		n |= 1 << uint(bit)
	}
	return n
}

// Names returns the assigned wire names in sorted order
func (a Assignment) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether two assignments hold the same wires with the same values
func (a Assignment) Equal(other Assignment) bool {
	if len(a) != len(other) {
		return false
	}
	for name, v := range a {
		ov, ok := other[name]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// String returns a sorted name=value listing
func (a Assignment) String() string {
	var builder strings.Builder
	for i, name := range a.Names() {
		if i > 0 {
			builder.WriteString(" ")
		}
		v := 0
		if a[name] {
			v = 1
		}
		builder.WriteString(fmt.Sprintf("%s=%d", name, v))
	}
	return builder.String()
}
