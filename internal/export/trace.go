package export

import (
	"fmt"

	"github.com/pulsekit/pulsekit/internal/instr"
	"github.com/pulsekit/pulsekit/internal/sched"
)

// TraceEvent is one leaf of a flattened program: when it starts, how long
// it runs, what it does and where. Attrs carries the payload-specific
// detail (waveform name, frequency, target register).
type TraceEvent struct {
	Time     int64
	Duration int64
	Op       string
	Channels []string
	Attrs    Obj
}

// Trace flattens a schedule into its events in deterministic order:
// composition order with accumulated shifts applied.
func Trace(s *sched.Schedule) ([]TraceEvent, error) {
	var events []TraceEvent
	for t, inst := range s.All() {
		ev := TraceEvent{
			Time:     t,
			Duration: inst.Duration(),
			Op:       inst.Op().OpName(),
		}
		for _, ch := range inst.Channels() {
			ev.Channels = append(ev.Channels, ch.String())
		}
		attrs, err := payloadAttrs(inst.Op())
		if err != nil {
			return nil, fmt.Errorf("export: event at %d: %w", t, err)
		}
		ev.Attrs = attrs
		events = append(events, ev)
	}
	return events, nil
}

// payloadAttrs extracts the exportable detail of a payload. Unknown
// payload kinds export with no attrs rather than failing: downstream
// consumers ignore what they do not understand.
func payloadAttrs(p sched.Payload) (Obj, error) {
	switch op := p.(type) {
	case instr.PlayOp:
		return Obj{
			"waveform": Str(op.Waveform.Name),
			"samples":  Int(int64(len(op.Waveform.Samples))),
		}, nil
	case instr.DelayOp:
		return Obj{}, nil
	case instr.AcquireOp:
		attrs := Obj{"register": Str(op.Register.String())}
		if op.Kernel != "" {
			attrs["kernel"] = Str(op.Kernel)
		}
		if op.Discriminator != "" {
			attrs["discriminator"] = Str(op.Discriminator)
		}
		return attrs, nil
	case instr.SetFrequencyOp:
		return Obj{"frequency": Float(op.Frequency)}, nil
	case instr.ShiftFrequencyOp:
		return Obj{"frequency": Float(op.Frequency)}, nil
	case instr.SetPhaseOp:
		return Obj{"phase": Float(op.Phase)}, nil
	case instr.ShiftPhaseOp:
		return Obj{"phase": Float(op.Phase)}, nil
	case instr.SnapshotOp:
		return Obj{"label": Str(op.Label), "type": Str(op.SnapshotType)}, nil
	case instr.BarrierOp:
		return Obj{}, nil
	default:
		return Obj{}, nil
	}
}

// MarshalProgram renders a schedule as canonical JSON: program name,
// duration, and the flattened event list. The encoding is byte-stable for
// a fixed program, so it doubles as the golden-file format and the
// fingerprint input.
func MarshalProgram(s *sched.Schedule) ([]byte, error) {
	events, err := Trace(s)
	if err != nil {
		return nil, err
	}
	evs := make(Arr, len(events))
	for i, ev := range events {
		channels := make(Arr, len(ev.Channels))
		for j, ch := range ev.Channels {
			channels[j] = Str(ch)
		}
		evs[i] = Obj{
			"time":     Int(ev.Time),
			"duration": Int(ev.Duration),
			"op":       Str(ev.Op),
			"channels": channels,
			"attrs":    ev.Attrs,
		}
	}
	return MarshalCanonical(Obj{
		"name":     Str(s.Name()),
		"duration": Int(s.Duration()),
		"events":   evs,
	})
}
