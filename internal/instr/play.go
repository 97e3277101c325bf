package instr

import (
	"github.com/pulsekit/pulsekit/internal/sched"
)

// PlayOp is the payload of a pulse playback instruction.
type PlayOp struct {
	Waveform Waveform
}

// OpName implements sched.Payload.
func (PlayOp) OpName() string { return "play" }

// Play creates a leaf that plays a waveform on a channel, occupying the
// channel for the waveform's duration.
func Play(w Waveform, ch sched.Channel) (*sched.Schedule, error) {
	inst, err := sched.NewInstruction(PlayOp{Waveform: w}, w.Duration(), ch)
	if err != nil {
		return nil, err
	}
	return sched.NewLeaf(inst), nil
}
