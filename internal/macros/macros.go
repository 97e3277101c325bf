// Package macros builds common multi-instruction schedules from device
// metadata: qubit measurement (stimulus plus acquisition, honoring the
// device's measurement grouping) and simultaneous qubit delays.
package macros

import (
	"fmt"
	"sort"

	"github.com/pulsekit/pulsekit/internal/backend"
	"github.com/pulsekit/pulsekit/internal/instr"
	"github.com/pulsekit/pulsekit/internal/sched"
	"github.com/pulsekit/pulsekit/internal/transform"
)

// Measure builds the measurement schedule for the given qubits. Because
// hardware constrains which qubits are measured together, every qubit in a
// measurement group containing a requested qubit is stimulated and
// acquired; only requested qubits get an entry in registers (defaulting to
// the memory slot with the qubit's index).
//
// registers may be nil; if supplied, it maps qubit index to the result
// register for that qubit.
func Measure(b *backend.Backend, qubits []int, registers map[int]sched.Channel) (*sched.Schedule, error) {
	if b == nil {
		return nil, &sched.Error{
			Code:    sched.ErrCodeBackendUnconfigured,
			Message: "measurement macro requires a backend",
		}
	}
	requested := make(map[int]bool, len(qubits))
	for _, q := range qubits {
		requested[q] = true
	}

	// Expand to whole measurement groups, deduplicated and ordered.
	measured := make(map[int]bool)
	for _, q := range qubits {
		group, err := b.MeasGroup(q)
		if err != nil {
			return nil, err
		}
		for _, member := range group {
			measured[member] = true
		}
	}
	ordered := make([]int, 0, len(measured))
	for q := range measured {
		ordered = append(ordered, q)
	}
	sort.Ints(ordered)

	var fragments []*sched.Schedule
	for _, q := range ordered {
		measureCh, err := b.Measure(q)
		if err != nil {
			return nil, err
		}
		stimulus, err := instr.Play(instr.Constant(b.MeasDuration(), 0.1), measureCh)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, stimulus)

		acquireCh, err := b.Acquire(q)
		if err != nil {
			return nil, err
		}
		register := sched.MemorySlot(q)
		if r, ok := registers[q]; ok && requested[q] {
			register = r
		}
		acquisition, err := instr.Acquire(b.MeasDuration(), acquireCh, register)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, acquisition)
	}
	return transform.AlignLeft(fragments...)
}

// DelayQubits delays every channel of the given qubits for the same
// duration, starting together.
func DelayQubits(b *backend.Backend, duration int64, qubits ...int) (*sched.Schedule, error) {
	if b == nil {
		return nil, &sched.Error{
			Code:    sched.ErrCodeBackendUnconfigured,
			Message: "qubit delay macro requires a backend",
		}
	}
	if len(qubits) == 0 {
		return nil, fmt.Errorf("macros: no qubits to delay")
	}
	seen := make(map[sched.Channel]bool)
	var fragments []*sched.Schedule
	for _, q := range qubits {
		channels, err := b.QubitChannels(q)
		if err != nil {
			return nil, err
		}
		for _, ch := range channels {
			if seen[ch] {
				continue
			}
			seen[ch] = true
			idle, err := instr.Delay(duration, ch)
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, idle)
		}
	}
	return transform.AlignLeft(fragments...)
}
