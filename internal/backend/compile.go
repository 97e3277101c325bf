package backend

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/pulsekit/pulsekit/internal/instr"
	"github.com/pulsekit/pulsekit/internal/sched"
	"github.com/pulsekit/pulsekit/internal/transform"
)

// CompileError reports a problem in a CUE device spec with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	firstErr := errs[0]
	if positions := errors.Positions(firstErr); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}

// CompileDevice parses a CUE value into a Backend. The value should be the
// device struct itself:
//
//	device: {
//		name:          "example"
//		qubits:        2
//		dt:            1.0e-9
//		meas_duration: 1600
//		meas_map:      [[0, 1]]
//		controls:      [{qubits: [0, 1], index: 0}]
//		gates: [{
//			name:   "x"
//			qubits: [0]
//			pulses: [{channel: "d0", duration: 160, amp: 0.1}]
//		}]
//	}
func CompileDevice(v cue.Value) (*Backend, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	cfg := Config{}

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{Field: "name", Message: "name is required", Pos: v.Pos()}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	cfg.Name = name

	qubitsVal := v.LookupPath(cue.ParsePath("qubits"))
	if !qubitsVal.Exists() {
		return nil, &CompileError{Field: "qubits", Message: "qubits is required", Pos: v.Pos()}
	}
	qubits, err := qubitsVal.Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	cfg.NumQubits = int(qubits)

	dtVal := v.LookupPath(cue.ParsePath("dt"))
	if !dtVal.Exists() {
		return nil, &CompileError{Field: "dt", Message: "dt is required", Pos: v.Pos()}
	}
	dt, err := dtVal.Float64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	cfg.Dt = dt

	if md := v.LookupPath(cue.ParsePath("meas_duration")); md.Exists() {
		n, err := md.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		cfg.MeasDuration = n
	}

	if mm := v.LookupPath(cue.ParsePath("meas_map")); mm.Exists() {
		groups, err := parseIntGroups(mm)
		if err != nil {
			return nil, err
		}
		cfg.MeasMap = groups
	}

	if ctrls := v.LookupPath(cue.ParsePath("controls")); ctrls.Exists() {
		iter, err := ctrls.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			spec, err := parseControl(iter.Value())
			if err != nil {
				return nil, err
			}
			cfg.Controls = append(cfg.Controls, spec)
		}
	}

	b, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if gates := v.LookupPath(cue.ParsePath("gates")); gates.Exists() {
		iter, err := gates.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			if err := addGate(b, iter.Value()); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// LoadFile compiles a CUE device spec from disk. The spec must define a
// top-level "device" struct.
func LoadFile(path string) (*Backend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	device := v.LookupPath(cue.ParsePath("device"))
	if !device.Exists() {
		return nil, &CompileError{Field: "device", Message: "spec must define a top-level device struct", Pos: v.Pos()}
	}
	return CompileDevice(device)
}

func parseIntGroups(v cue.Value) ([][]int, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var groups [][]int
	for iter.Next() {
		group, err := parseInts(iter.Value())
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func parseInts(v cue.Value) ([]int, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []int
	for iter.Next() {
		n, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, int(n))
	}
	return out, nil
}

func parseControl(v cue.Value) (ControlSpec, error) {
	qubitsVal := v.LookupPath(cue.ParsePath("qubits"))
	if !qubitsVal.Exists() {
		return ControlSpec{}, &CompileError{Field: "controls.qubits", Message: "qubits is required", Pos: v.Pos()}
	}
	qubits, err := parseInts(qubitsVal)
	if err != nil {
		return ControlSpec{}, err
	}
	indexVal := v.LookupPath(cue.ParsePath("index"))
	if !indexVal.Exists() {
		return ControlSpec{}, &CompileError{Field: "controls.index", Message: "index is required", Pos: v.Pos()}
	}
	index, err := indexVal.Int64()
	if err != nil {
		return ControlSpec{}, formatCUEError(err)
	}
	return ControlSpec{Qubits: qubits, Index: int(index)}, nil
}

// gatePulse is one calibrated pulse of a gate definition.
type gatePulse struct {
	channel  sched.Channel
	duration int64
	amp      complex128
}

// addGate compiles one gate definition into a schedule map generator. The
// generator left-packs the gate's calibrated pulses.
func addGate(b *Backend, v cue.Value) error {
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return &CompileError{Field: "gates.name", Message: "name is required", Pos: v.Pos()}
	}
	name, err := nameVal.String()
	if err != nil {
		return formatCUEError(err)
	}
	qubitsVal := v.LookupPath(cue.ParsePath("qubits"))
	if !qubitsVal.Exists() {
		return &CompileError{Field: "gates.qubits", Message: "qubits is required", Pos: v.Pos()}
	}
	qubits, err := parseInts(qubitsVal)
	if err != nil {
		return err
	}
	pulsesVal := v.LookupPath(cue.ParsePath("pulses"))
	if !pulsesVal.Exists() {
		return &CompileError{Field: "gates.pulses", Message: "at least one pulse is required", Pos: v.Pos()}
	}
	iter, err := pulsesVal.List()
	if err != nil {
		return formatCUEError(err)
	}
	var pulses []gatePulse
	for iter.Next() {
		p, err := parsePulse(iter.Value())
		if err != nil {
			return err
		}
		pulses = append(pulses, p)
	}
	if len(pulses) == 0 {
		return &CompileError{Field: "gates.pulses", Message: "at least one pulse is required", Pos: v.Pos()}
	}

	b.instMap.Add(name, qubits, func(...float64) (*sched.Schedule, error) {
		components := make([]*sched.Schedule, len(pulses))
		for i, p := range pulses {
			leaf, err := instr.Play(instr.Constant(p.duration, p.amp), p.channel)
			if err != nil {
				return nil, err
			}
			components[i] = leaf
		}
		return transform.AlignLeft(components...)
	})
	return nil
}

func parsePulse(v cue.Value) (gatePulse, error) {
	chVal := v.LookupPath(cue.ParsePath("channel"))
	if !chVal.Exists() {
		return gatePulse{}, &CompileError{Field: "pulses.channel", Message: "channel is required", Pos: v.Pos()}
	}
	chName, err := chVal.String()
	if err != nil {
		return gatePulse{}, formatCUEError(err)
	}
	ch, err := sched.ParseChannel(chName)
	if err != nil {
		return gatePulse{}, &CompileError{Field: "pulses.channel", Message: err.Error(), Pos: chVal.Pos()}
	}
	durVal := v.LookupPath(cue.ParsePath("duration"))
	if !durVal.Exists() {
		return gatePulse{}, &CompileError{Field: "pulses.duration", Message: "duration is required", Pos: v.Pos()}
	}
	duration, err := durVal.Int64()
	if err != nil {
		return gatePulse{}, formatCUEError(err)
	}
	amp := 0.1
	if ampVal := v.LookupPath(cue.ParsePath("amp")); ampVal.Exists() {
		amp, err = ampVal.Float64()
		if err != nil {
			return gatePulse{}, formatCUEError(err)
		}
	}
	return gatePulse{channel: ch, duration: duration, amp: complex(amp, 0)}, nil
}
