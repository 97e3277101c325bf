package harness

import (
	"fmt"

	"github.com/pulsekit/pulsekit/internal/backend"
	"github.com/pulsekit/pulsekit/internal/builder"
	"github.com/pulsekit/pulsekit/internal/export"
	"github.com/pulsekit/pulsekit/internal/instr"
	"github.com/pulsekit/pulsekit/internal/sched"
)

// Result holds a scenario execution: the finished program and its
// flattened trace.
type Result struct {
	Program *sched.Schedule
	Events  []export.TraceEvent
}

// Run executes a scenario: resolves the backend, builds the program from
// the step list, and checks every assertion. The program name is fixed to
// the scenario name so traces are deterministic.
func Run(scenario *Scenario) (*Result, error) {
	bk, err := resolveBackend(scenario.Backend)
	if err != nil {
		return nil, err
	}

	opts := []builder.Option{
		builder.WithBackend(bk),
		builder.WithName(scenario.Name),
	}
	if scenario.Alignment != "" {
		opts = append(opts, builder.WithDefaultAlignment(scenario.Alignment))
	}

	program, err := builder.Build(func(b *builder.Builder) error {
		return runSteps(b, scenario.Steps)
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	events, err := export.Trace(program)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	result := &Result{Program: program, Events: events}

	for i, a := range scenario.Assertions {
		if err := checkAssertion(result, &a); err != nil {
			return result, fmt.Errorf("scenario %q: assertions[%d]: %w", scenario.Name, i, err)
		}
	}
	return result, nil
}

func resolveBackend(spec BackendSpec) (*backend.Backend, error) {
	if spec.Device != "" {
		return backend.LoadFile(spec.Device)
	}
	return backend.NewMock(spec.Mock), nil
}

func runSteps(b *builder.Builder, steps []Step) error {
	for i, step := range steps {
		if err := runStep(b, step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func runStep(b *builder.Builder, step Step) error {
	switch {
	case step.Play != nil:
		ch, err := sched.ParseChannel(step.Play.Channel)
		if err != nil {
			return err
		}
		amp := step.Play.Amp
		if amp == 0 {
			amp = 0.1
		}
		return b.Play(instr.Constant(step.Play.Duration, complex(amp, 0)), ch)

	case step.Delay != nil:
		ch, err := sched.ParseChannel(step.Delay.Channel)
		if err != nil {
			return err
		}
		return b.Delay(step.Delay.Duration, ch)

	case step.Acquire != nil:
		acq, err := sched.ParseChannel(step.Acquire.Channel)
		if err != nil {
			return err
		}
		reg, err := sched.ParseChannel(step.Acquire.Register)
		if err != nil {
			return err
		}
		return b.Acquire(step.Acquire.Duration, acq, reg)

	case step.SetFrequency != nil:
		ch, err := sched.ParseChannel(step.SetFrequency.Channel)
		if err != nil {
			return err
		}
		return b.SetFrequency(step.SetFrequency.Frequency, ch)

	case step.ShiftFrequency != nil:
		ch, err := sched.ParseChannel(step.ShiftFrequency.Channel)
		if err != nil {
			return err
		}
		return b.ShiftFrequency(step.ShiftFrequency.Frequency, ch)

	case step.SetPhase != nil:
		ch, err := sched.ParseChannel(step.SetPhase.Channel)
		if err != nil {
			return err
		}
		return b.SetPhase(step.SetPhase.Phase, ch)

	case step.ShiftPhase != nil:
		ch, err := sched.ParseChannel(step.ShiftPhase.Channel)
		if err != nil {
			return err
		}
		return b.ShiftPhase(step.ShiftPhase.Phase, ch)

	case step.Snapshot != nil:
		return b.Snapshot(step.Snapshot.Label, step.Snapshot.Type)

	case len(step.Barrier) > 0:
		channels := make([]sched.Channel, len(step.Barrier))
		for i, name := range step.Barrier {
			ch, err := sched.ParseChannel(name)
			if err != nil {
				return err
			}
			channels[i] = ch
		}
		return b.Barrier(channels...)

	case step.Gate != nil:
		return b.CallGate(step.Gate.Name, step.Gate.Qubits, step.Gate.Params...)

	case step.Measure != nil:
		_, err := b.Measure(step.Measure.Qubit)
		return err

	case step.Align != nil:
		return b.Align(step.Align.Policy, func() error {
			return runSteps(b, step.Align.Steps)
		})

	case step.Group != nil:
		return b.Group(func() error {
			return runSteps(b, step.Group.Steps)
		})

	case step.Pad != nil:
		channels := make([]sched.Channel, len(step.Pad.Channels))
		for i, name := range step.Pad.Channels {
			ch, err := sched.ParseChannel(name)
			if err != nil {
				return err
			}
			channels[i] = ch
		}
		return b.Pad(func() error {
			return runSteps(b, step.Pad.Steps)
		}, channels...)
	}
	return fmt.Errorf("empty step")
}
