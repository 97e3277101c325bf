package builder

import (
	"github.com/pulsekit/pulsekit/internal/macros"
	"github.com/pulsekit/pulsekit/internal/sched"
)

// Qubit-addressed channel lookups. All of them require a backend and fail
// with a backend-unconfigured error otherwise.

// DriveChannel returns the drive channel of a qubit.
func (b *Builder) DriveChannel(q int) (sched.Channel, error) {
	bk, err := b.requireBackend()
	if err != nil {
		return sched.Channel{}, err
	}
	return bk.Drive(q)
}

// MeasureChannel returns the measurement stimulus channel of a qubit.
func (b *Builder) MeasureChannel(q int) (sched.Channel, error) {
	bk, err := b.requireBackend()
	if err != nil {
		return sched.Channel{}, err
	}
	return bk.Measure(q)
}

// AcquireChannel returns the acquisition channel of a qubit.
func (b *Builder) AcquireChannel(q int) (sched.Channel, error) {
	bk, err := b.requireBackend()
	if err != nil {
		return sched.Channel{}, err
	}
	return bk.Acquire(q)
}

// ControlChannels returns the control channels coupling an ordered qubit
// tuple.
func (b *Builder) ControlChannels(qubits ...int) ([]sched.Channel, error) {
	bk, err := b.requireBackend()
	if err != nil {
		return nil, err
	}
	return bk.Control(qubits...)
}

// Measure appends a full measurement of a qubit: stimulus pulse plus
// acquisition, expanded over the backend's measurement groups. The result
// lands in the qubit's default memory slot unless a register is given.
func (b *Builder) Measure(q int, register ...sched.Channel) (sched.Channel, error) {
	bk, err := b.requireBackend()
	if err != nil {
		return sched.Channel{}, err
	}
	registers := map[int]sched.Channel{}
	out := sched.MemorySlot(q)
	if len(register) > 0 {
		out = register[0]
		registers[q] = out
	}
	frag, err := macros.Measure(bk, []int{q}, registers)
	if err != nil {
		return sched.Channel{}, err
	}
	if err := b.appendFragment(frag); err != nil {
		return sched.Channel{}, err
	}
	return out, nil
}

// MeasureAll appends a simultaneous measurement of every qubit, returning
// the memory slots holding the results in qubit order.
func (b *Builder) MeasureAll() ([]sched.Channel, error) {
	bk, err := b.requireBackend()
	if err != nil {
		return nil, err
	}
	qubits := make([]int, bk.NumQubits())
	registers := make([]sched.Channel, bk.NumQubits())
	for q := range qubits {
		qubits[q] = q
		registers[q] = sched.MemorySlot(q)
	}
	frag, err := macros.Measure(bk, qubits, nil)
	if err != nil {
		return nil, err
	}
	if err := b.appendFragment(frag); err != nil {
		return nil, err
	}
	return registers, nil
}

// DelayQubits appends a simultaneous delay on every channel of the given
// qubits.
func (b *Builder) DelayQubits(duration int64, qubits ...int) error {
	bk, err := b.requireBackend()
	if err != nil {
		return err
	}
	frag, err := macros.DelayQubits(bk, duration, qubits...)
	if err != nil {
		return err
	}
	return b.appendFragment(frag)
}
