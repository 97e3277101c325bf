package builder

import (
	"fmt"

	"github.com/pulsekit/pulsekit/internal/circuit"
	"github.com/pulsekit/pulsekit/internal/compiler"
	"github.com/pulsekit/pulsekit/internal/sched"
)

// CallSchedule appends a previously built schedule as one fragment of the
// current scope.
func (b *Builder) CallSchedule(s *sched.Schedule) error {
	return b.appendFragment(s)
}

// CallGate buffers a single named gate on the given qubits into the
// pending sub-program. Consecutive gate calls are batched and translated
// together, so the translator sees whole sub-programs and can optimize
// across gate boundaries.
func (b *Builder) CallGate(name string, qubits []int, params ...float64) error {
	c := circuit.New(maxQubit(qubits) + 1)
	if err := c.Append(circuit.Gate{Name: name, Qubits: qubits, Params: params}); err != nil {
		return err
	}
	return b.CallCircuit(c)
}

// CallCircuit buffers a gate-level sub-program. Translation is deferred
// until an incompatible operation forces it or Flush is called.
func (b *Builder) CallCircuit(c *circuit.Circuit) error {
	if _, err := b.active(); err != nil {
		return err
	}
	if _, err := b.requireBackend(); err != nil {
		return err
	}
	if b.pending == nil || b.pending.NumQubits() < c.NumQubits() {
		width := c.NumQubits()
		if n := b.backend.NumQubits(); n > width {
			width = n
		}
		widened := circuit.New(width)
		if b.pending != nil {
			if err := widened.Extend(b.pending); err != nil {
				return err
			}
		}
		b.pending = widened
	}
	return b.pending.Extend(c)
}

// X buffers a pi rotation on a qubit.
func (b *Builder) X(q int) error { return b.CallGate("x", []int{q}) }

// CX buffers a controlled-X gate.
func (b *Builder) CX(control, target int) error {
	return b.CallGate("cx", []int{control, target})
}

// U1 buffers a virtual Z rotation by theta on a qubit.
func (b *Builder) U1(theta float64, q int) error {
	return b.CallGate("u1", []int{q}, theta)
}

// Flush forces translation of the pending sub-program into the current
// scope. A no-op when nothing is buffered.
func (b *Builder) Flush() error {
	if _, err := b.active(); err != nil {
		return err
	}
	return b.flush()
}

// flush translates and appends the pending sub-program, if any. Called at
// every buffering boundary: raw leaf appends, scope transitions, state
// reads, settings changes and program finish.
func (b *Builder) flush() error {
	if b.pending == nil || b.pending.Len() == 0 {
		b.pending = nil
		return nil
	}
	c := b.pending
	b.pending = nil

	frag, err := b.translate(c, b.backend, b.topts, b.sopts)
	if err != nil {
		return fmt.Errorf("builder: translating buffered circuit: %w", err)
	}
	b.log.Debug("buffered circuit translated",
		"gates", c.Len(),
		"duration", frag.Duration())
	fr, err := b.active()
	if err != nil {
		return err
	}
	return fr.append(frag)
}

// SetTranspileOptions changes the gate-level rewriting options for
// subsequent calls. Changing settings is a buffering boundary: the
// pending sub-program is translated under the old settings first.
func (b *Builder) SetTranspileOptions(opts compiler.TranspileOptions) error {
	if _, err := b.active(); err != nil {
		return err
	}
	if err := b.flush(); err != nil {
		return err
	}
	b.topts = opts
	return nil
}

// SetScheduleOptions changes the circuit scheduling options for subsequent
// calls, flushing the pending sub-program first.
func (b *Builder) SetScheduleOptions(opts compiler.ScheduleOptions) error {
	if _, err := b.active(); err != nil {
		return err
	}
	if err := b.flush(); err != nil {
		return err
	}
	b.sopts = opts
	return nil
}

// TranspileScope runs the body with temporary transpile options, restoring
// the previous options afterwards. Both transitions flush.
func (b *Builder) TranspileScope(opts compiler.TranspileOptions, body func() error) error {
	prev := b.topts
	if err := b.SetTranspileOptions(opts); err != nil {
		return err
	}
	bodyErr := body()
	if err := b.SetTranspileOptions(prev); err != nil {
		if bodyErr != nil {
			return bodyErr
		}
		return err
	}
	return bodyErr
}

func maxQubit(qubits []int) int {
	m := 0
	for _, q := range qubits {
		if q > m {
			m = q
		}
	}
	return m
}
