// Package compiler translates gate-level circuits into pulse schedules by
// resolving each gate through the device's instruction schedule map and
// packing the per-gate fragments. Translation is deterministic for fixed
// inputs; the builder's lazy-call mechanism relies on that.
package compiler

import (
	"fmt"
	"log/slog"

	"github.com/pulsekit/pulsekit/internal/backend"
	"github.com/pulsekit/pulsekit/internal/circuit"
	"github.com/pulsekit/pulsekit/internal/sched"
	"github.com/pulsekit/pulsekit/internal/transform"
)

// TranspileOptions controls the gate-level rewriting applied before pulse
// scheduling.
type TranspileOptions struct {
	// OptimizationLevel 0 and 1 leave the circuit unchanged; level 2 and
	// above cancel adjacent self-inverse gate pairs (x, cx) on identical
	// qubit tuples.
	OptimizationLevel int
}

// ScheduleOptions controls how gate fragments are packed in time.
type ScheduleOptions struct {
	// Method is "asap" (default: greedy left-pack, independent channels
	// in parallel) or "alap" (right-pack against the latest finish).
	Method string
}

// selfInverse lists gates that cancel with an identical neighbor.
var selfInverse = map[string]bool{
	"x":  true,
	"cx": true,
	"cz": true,
	"h":  true,
}

// Translate transpiles a circuit and schedules it into a pulse schedule on
// the given backend.
func Translate(c *circuit.Circuit, b *backend.Backend, topts TranspileOptions, sopts ScheduleOptions) (*sched.Schedule, error) {
	if b == nil {
		return nil, &sched.Error{
			Code:    sched.ErrCodeBackendUnconfigured,
			Message: "circuit translation requires a backend",
		}
	}
	gates := Transpile(c, topts)
	slog.Debug("translating circuit",
		"device", b.Name(), "gates", len(gates), "method", sopts.Method)

	fragments := make([]*sched.Schedule, 0, len(gates))
	for _, g := range gates {
		fragment, err := b.InstMap().Get(g.Name, g.Qubits, g.Params...)
		if err != nil {
			return nil, fmt.Errorf("compiler: %w", err)
		}
		fragments = append(fragments, fragment)
	}

	switch sopts.Method {
	case "", "asap":
		return transform.AlignLeft(fragments...)
	case "alap":
		return transform.AlignRight(fragments...)
	default:
		return nil, fmt.Errorf("compiler: unknown scheduling method %q", sopts.Method)
	}
}

// Transpile applies gate-level rewriting and returns the surviving gates
// in order. With OptimizationLevel >= 2, adjacent identical self-inverse
// gates on the same qubit tuple cancel pairwise.
func Transpile(c *circuit.Circuit, opts TranspileOptions) []circuit.Gate {
	gates := c.Gates()
	if opts.OptimizationLevel < 2 {
		return gates
	}
	var out []circuit.Gate
	for _, g := range gates {
		if n := len(out); n > 0 && cancels(out[n-1], g) {
			out = out[:n-1]
			continue
		}
		out = append(out, g)
	}
	return out
}

func cancels(a, b circuit.Gate) bool {
	if !selfInverse[a.Name] || a.Name != b.Name {
		return false
	}
	if len(a.Qubits) != len(b.Qubits) || len(a.Params) != 0 || len(b.Params) != 0 {
		return false
	}
	for i := range a.Qubits {
		if a.Qubits[i] != b.Qubits[i] {
			return false
		}
	}
	return true
}
