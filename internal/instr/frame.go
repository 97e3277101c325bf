package instr

import (
	"github.com/pulsekit/pulsekit/internal/sched"
)

// Frame-change instructions. All are instantaneous: they occupy their
// channel for a zero-width interval, so they compose freely at occupancy
// boundaries without consuming time.

// SetFrequencyOp sets a channel's carrier frequency in Hz.
type SetFrequencyOp struct {
	Frequency float64
}

// OpName implements sched.Payload.
func (SetFrequencyOp) OpName() string { return "set_frequency" }

// ShiftFrequencyOp shifts a channel's carrier frequency by an offset in Hz.
type ShiftFrequencyOp struct {
	Frequency float64
}

// OpName implements sched.Payload.
func (ShiftFrequencyOp) OpName() string { return "shift_frequency" }

// SetPhaseOp sets a channel's carrier phase in radians.
type SetPhaseOp struct {
	Phase float64
}

// OpName implements sched.Payload.
func (SetPhaseOp) OpName() string { return "set_phase" }

// ShiftPhaseOp shifts a channel's carrier phase by an offset in radians.
type ShiftPhaseOp struct {
	Phase float64
}

// OpName implements sched.Payload.
func (ShiftPhaseOp) OpName() string { return "shift_phase" }

func frameLeaf(op sched.Payload, ch sched.Channel) (*sched.Schedule, error) {
	inst, err := sched.NewInstruction(op, 0, ch)
	if err != nil {
		return nil, err
	}
	return sched.NewLeaf(inst), nil
}

// SetFrequency creates a leaf setting the carrier frequency of a channel.
func SetFrequency(frequency float64, ch sched.Channel) (*sched.Schedule, error) {
	return frameLeaf(SetFrequencyOp{Frequency: frequency}, ch)
}

// ShiftFrequency creates a leaf shifting the carrier frequency of a channel.
func ShiftFrequency(frequency float64, ch sched.Channel) (*sched.Schedule, error) {
	return frameLeaf(ShiftFrequencyOp{Frequency: frequency}, ch)
}

// SetPhase creates a leaf setting the carrier phase of a channel.
func SetPhase(phase float64, ch sched.Channel) (*sched.Schedule, error) {
	return frameLeaf(SetPhaseOp{Phase: phase}, ch)
}

// ShiftPhase creates a leaf shifting the carrier phase of a channel.
func ShiftPhase(phase float64, ch sched.Channel) (*sched.Schedule, error) {
	return frameLeaf(ShiftPhaseOp{Phase: phase}, ch)
}
