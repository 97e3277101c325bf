package instr

import (
	"github.com/pulsekit/pulsekit/internal/sched"
)

// BarrierOp is a relative barrier directive across a set of channels. It
// constrains alignment transforms from reordering instructions across it
// and is stripped from the finished program.
type BarrierOp struct{}

// OpName implements sched.Payload.
func (BarrierOp) OpName() string { return "barrier" }

// IsDirective marks the barrier as a scheduling-only instruction.
func (BarrierOp) IsDirective() {}

// Barrier creates a zero-duration directive leaf spanning the given
// channels.
func Barrier(channels ...sched.Channel) (*sched.Schedule, error) {
	inst, err := sched.NewInstruction(BarrierOp{}, 0, channels...)
	if err != nil {
		return nil, err
	}
	return sched.NewLeaf(inst), nil
}
