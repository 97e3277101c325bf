package builder

import (
	"github.com/pulsekit/pulsekit/internal/instr"
	"github.com/pulsekit/pulsekit/internal/sched"
)

// Play appends a pulse playback on a channel.
func (b *Builder) Play(w instr.Waveform, ch sched.Channel) error {
	leaf, err := instr.Play(w, ch)
	if err != nil {
		return err
	}
	return b.appendFragment(leaf)
}

// Delay appends idle time on a channel.
func (b *Builder) Delay(duration int64, ch sched.Channel) error {
	leaf, err := instr.Delay(duration, ch)
	if err != nil {
		return err
	}
	return b.appendFragment(leaf)
}

// Acquire appends a measurement acquisition routed into a memory or
// register slot.
func (b *Builder) Acquire(duration int64, acquire, register sched.Channel, opts ...instr.AcquireOption) error {
	leaf, err := instr.Acquire(duration, acquire, register, opts...)
	if err != nil {
		return err
	}
	return b.appendFragment(leaf)
}

// SetFrequency appends an instantaneous carrier frequency set.
func (b *Builder) SetFrequency(frequency float64, ch sched.Channel) error {
	leaf, err := instr.SetFrequency(frequency, ch)
	if err != nil {
		return err
	}
	return b.appendFragment(leaf)
}

// ShiftFrequency appends an instantaneous carrier frequency shift.
func (b *Builder) ShiftFrequency(frequency float64, ch sched.Channel) error {
	leaf, err := instr.ShiftFrequency(frequency, ch)
	if err != nil {
		return err
	}
	return b.appendFragment(leaf)
}

// SetPhase appends an instantaneous carrier phase set.
func (b *Builder) SetPhase(phase float64, ch sched.Channel) error {
	leaf, err := instr.SetPhase(phase, ch)
	if err != nil {
		return err
	}
	return b.appendFragment(leaf)
}

// ShiftPhase appends an instantaneous carrier phase shift.
func (b *Builder) ShiftPhase(phase float64, ch sched.Channel) error {
	leaf, err := instr.ShiftPhase(phase, ch)
	if err != nil {
		return err
	}
	return b.appendFragment(leaf)
}

// Snapshot appends a simulator snapshot request.
func (b *Builder) Snapshot(label, snapshotType string) error {
	leaf, err := instr.Snapshot(label, snapshotType)
	if err != nil {
		return err
	}
	return b.appendFragment(leaf)
}

// Barrier appends a relative barrier directive across the given channels.
// The directive constrains alignment within the current scope and is
// stripped from the finished program.
func (b *Builder) Barrier(channels ...sched.Channel) error {
	leaf, err := instr.Barrier(channels...)
	if err != nil {
		return err
	}
	return b.appendFragment(leaf)
}

// BarrierQubits appends a barrier across every channel of the given
// qubits. Requires a backend.
func (b *Builder) BarrierQubits(qubits ...int) error {
	bk, err := b.requireBackend()
	if err != nil {
		return err
	}
	var channels []sched.Channel
	seen := map[sched.Channel]bool{}
	for _, q := range qubits {
		chs, err := bk.QubitChannels(q)
		if err != nil {
			return err
		}
		for _, ch := range chs {
			if !seen[ch] {
				seen[ch] = true
				channels = append(channels, ch)
			}
		}
	}
	return b.Barrier(channels...)
}
