package instr

import (
	"github.com/pulsekit/pulsekit/internal/sched"
)

// DelayOp is the payload of an idle-time instruction. Delays occupy their
// channel like any other instruction; a padded channel therefore has no
// gaps later composition could fill.
type DelayOp struct{}

// OpName implements sched.Payload.
func (DelayOp) OpName() string { return "delay" }

// Delay creates a leaf occupying a channel for the given number of cycles
// without emitting a stimulus.
func Delay(duration int64, ch sched.Channel) (*sched.Schedule, error) {
	inst, err := sched.NewInstruction(DelayOp{}, duration, ch)
	if err != nil {
		return nil, err
	}
	return sched.NewLeaf(inst), nil
}
