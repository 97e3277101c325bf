package instr

import (
	"fmt"

	"github.com/pulsekit/pulsekit/internal/sched"
)

// AcquireOp is the payload of a measurement acquisition instruction.
// Kernel and Discriminator name the signal processing applied by the
// measurement unit; both are opaque to scheduling.
type AcquireOp struct {
	Register      sched.Channel
	Kernel        string
	Discriminator string
}

// OpName implements sched.Payload.
func (AcquireOp) OpName() string { return "acquire" }

// AcquireOption configures optional acquisition metadata.
type AcquireOption func(*AcquireOp)

// WithKernel sets the integration kernel name.
func WithKernel(name string) AcquireOption {
	return func(op *AcquireOp) { op.Kernel = name }
}

// WithDiscriminator sets the state discriminator name.
func WithDiscriminator(name string) AcquireOption {
	return func(op *AcquireOp) { op.Discriminator = name }
}

// Acquire creates a leaf that triggers data acquisition on an acquire
// channel for the given duration and routes the result into a memory or
// register slot. The slot is occupied for the acquisition duration.
//
// Supplying a register on any other channel kind fails with an
// unsupported register type error.
func Acquire(duration int64, acquire sched.Channel, register sched.Channel, opts ...AcquireOption) (*sched.Schedule, error) {
	if acquire.Kind != sched.ChannelAcquire {
		return nil, fmt.Errorf("instr: acquire requires an acquire channel, got %s", acquire)
	}
	if register.Kind != sched.ChannelMemorySlot && register.Kind != sched.ChannelRegisterSlot {
		return nil, &sched.Error{
			Code:    sched.ErrCodeUnsupportedRegisterType,
			Message: "acquisition result register must be a memory or register slot",
			Channel: &register,
		}
	}
	op := AcquireOp{Register: register}
	for _, opt := range opts {
		opt(&op)
	}
	inst, err := sched.NewInstruction(op, duration, acquire, register)
	if err != nil {
		return nil, err
	}
	return sched.NewLeaf(inst), nil
}
