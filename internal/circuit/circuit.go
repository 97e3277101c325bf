// Package circuit holds the minimal gate-level sub-program representation
// the builder's lazy call mechanism accumulates before translation into a
// pulse schedule.
package circuit

import (
	"fmt"
)

// Gate is a named operation on an ordered tuple of physical qubits, with
// optional real parameters (rotation angles).
type Gate struct {
	Name   string
	Qubits []int
	Params []float64
}

// Circuit is an ordered gate list over a fixed number of physical qubits.
// Qubit indices are assumed to be physical device indices.
type Circuit struct {
	numQubits int
	gates     []Gate
}

// New creates an empty circuit on n physical qubits.
func New(n int) *Circuit {
	return &Circuit{numQubits: n}
}

// NumQubits returns the circuit width.
func (c *Circuit) NumQubits() int { return c.numQubits }

// Len returns the number of gates.
func (c *Circuit) Len() int { return len(c.gates) }

// Gates returns the gate list in order. The returned slice is a copy.
func (c *Circuit) Gates() []Gate {
	out := make([]Gate, len(c.gates))
	copy(out, c.gates)
	return out
}

// Append adds a gate, validating qubit indices.
func (c *Circuit) Append(g Gate) error {
	if len(g.Qubits) == 0 {
		return fmt.Errorf("circuit: gate %q addresses no qubits", g.Name)
	}
	for _, q := range g.Qubits {
		if q < 0 || q >= c.numQubits {
			return fmt.Errorf("circuit: gate %q addresses qubit %d outside width %d", g.Name, q, c.numQubits)
		}
	}
	c.gates = append(c.gates, g)
	return nil
}

// Extend appends every gate of other, which must not be wider than this
// circuit.
func (c *Circuit) Extend(other *Circuit) error {
	if other.numQubits > c.numQubits {
		return fmt.Errorf("circuit: cannot extend width %d with width %d", c.numQubits, other.numQubits)
	}
	for _, g := range other.gates {
		if err := c.Append(g); err != nil {
			return err
		}
	}
	return nil
}
