package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a scheduling conformance scenario: which device to
// schedule against, the authoring steps to perform, and assertions on the
// finished program.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Backend selects the device. Exactly one field must be set.
	Backend BackendSpec `yaml:"backend"`

	// Alignment is the outermost scope's policy ("left" when empty).
	Alignment string `yaml:"alignment,omitempty"`

	// Steps is the authoring sequence, executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the finished program. May be empty when the
	// scenario is golden-only.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// BackendSpec selects a device: a generated mock with the given qubit
// count, or a CUE device file (path relative to the scenario file).
type BackendSpec struct {
	Mock   int    `yaml:"mock,omitempty"`
	Device string `yaml:"device,omitempty"`
}

// Step is one authoring action. Exactly one field must be set; scope
// steps nest further steps.
type Step struct {
	Play           *PlayStep      `yaml:"play,omitempty"`
	Delay          *DelayStep     `yaml:"delay,omitempty"`
	Acquire        *AcquireStep   `yaml:"acquire,omitempty"`
	SetFrequency   *FrequencyStep `yaml:"set_frequency,omitempty"`
	ShiftFrequency *FrequencyStep `yaml:"shift_frequency,omitempty"`
	SetPhase       *PhaseStep     `yaml:"set_phase,omitempty"`
	ShiftPhase     *PhaseStep     `yaml:"shift_phase,omitempty"`
	Snapshot       *SnapshotStep  `yaml:"snapshot,omitempty"`
	Barrier        []string       `yaml:"barrier,omitempty"`
	Gate           *GateStep      `yaml:"gate,omitempty"`
	Measure        *MeasureStep   `yaml:"measure,omitempty"`
	Align          *AlignStep     `yaml:"align,omitempty"`
	Group          *ScopeStep     `yaml:"group,omitempty"`
	Pad            *PadStep       `yaml:"pad,omitempty"`
}

// PlayStep plays a constant pulse of the given duration and amplitude.
type PlayStep struct {
	Channel  string  `yaml:"channel"`
	Duration int64   `yaml:"duration"`
	Amp      float64 `yaml:"amp,omitempty"`
}

// DelayStep idles a channel.
type DelayStep struct {
	Channel  string `yaml:"channel"`
	Duration int64  `yaml:"duration"`
}

// AcquireStep triggers acquisition into a memory or register slot.
type AcquireStep struct {
	Channel  string `yaml:"channel"`
	Register string `yaml:"register"`
	Duration int64  `yaml:"duration"`
}

// FrequencyStep carries a frequency in Hz.
type FrequencyStep struct {
	Channel   string  `yaml:"channel"`
	Frequency float64 `yaml:"frequency"`
}

// PhaseStep carries a phase in radians.
type PhaseStep struct {
	Channel string  `yaml:"channel"`
	Phase   float64 `yaml:"phase"`
}

// SnapshotStep requests a simulator snapshot.
type SnapshotStep struct {
	Label string `yaml:"label"`
	Type  string `yaml:"type,omitempty"`
}

// GateStep buffers a gate-level call, translated via the backend's
// instruction map.
type GateStep struct {
	Name   string    `yaml:"name"`
	Qubits []int     `yaml:"qubits"`
	Params []float64 `yaml:"params,omitempty"`
}

// MeasureStep measures a qubit into its default memory slot.
type MeasureStep struct {
	Qubit int `yaml:"qubit"`
}

// AlignStep opens a nested alignment scope.
type AlignStep struct {
	Policy string `yaml:"policy"`
	Steps  []Step `yaml:"steps"`
}

// ScopeStep opens a nested group scope.
type ScopeStep struct {
	Steps []Step `yaml:"steps"`
}

// PadStep opens a nested pad scope over the given channels (all scope
// channels when empty).
type PadStep struct {
	Channels []string `yaml:"channels,omitempty"`
	Steps    []Step   `yaml:"steps"`
}

// Assertion validates the finished program's timing.
type Assertion struct {
	// Type is one of "duration", "event_at", "event_count" or
	// "channel_stop".
	Type string `yaml:"type"`

	// Duration is the expected program duration (type "duration").
	Duration int64 `yaml:"duration,omitempty"`

	// Time and Op locate an expected event (type "event_at"); Channel
	// optionally narrows it to events occupying that channel.
	Time    int64  `yaml:"time,omitempty"`
	Op      string `yaml:"op,omitempty"`
	Channel string `yaml:"channel,omitempty"`

	// Count is the expected number of events with Op (type "event_count").
	Count int `yaml:"count,omitempty"`

	// Stop is the expected last occupied instant on Channel
	// (type "channel_stop").
	Stop int64 `yaml:"stop,omitempty"`
}

// Assertion type constants.
const (
	AssertDuration    = "duration"
	AssertEventAt     = "event_at"
	AssertEventCount  = "event_count"
	AssertChannelStop = "channel_stop"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly; device paths are resolved relative to
// the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Backend.Device != "" && !filepath.IsAbs(scenario.Backend.Device) {
		scenario.Backend.Device = filepath.Join(filepath.Dir(path), scenario.Backend.Device)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if (s.Backend.Mock > 0) == (s.Backend.Device != "") {
		return fmt.Errorf("backend requires exactly one of mock or device")
	}
	if s.Backend.Device != "" {
		if _, err := os.Stat(s.Backend.Device); os.IsNotExist(err) {
			return fmt.Errorf("device file not found: %s", s.Backend.Device)
		}
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if err := validateSteps("steps", s.Steps); err != nil {
		return err
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateSteps(path string, steps []Step) error {
	for i, step := range steps {
		at := fmt.Sprintf("%s[%d]", path, i)
		n := 0
		var nested []Step
		nestedAt := at
		if step.Play != nil {
			n++
		}
		if step.Delay != nil {
			n++
		}
		if step.Acquire != nil {
			n++
		}
		if step.SetFrequency != nil {
			n++
		}
		if step.ShiftFrequency != nil {
			n++
		}
		if step.SetPhase != nil {
			n++
		}
		if step.ShiftPhase != nil {
			n++
		}
		if step.Snapshot != nil {
			n++
		}
		if len(step.Barrier) > 0 {
			n++
		}
		if step.Gate != nil {
			n++
		}
		if step.Measure != nil {
			n++
		}
		if step.Align != nil {
			n++
			nested = step.Align.Steps
			nestedAt = at + ".align.steps"
			if step.Align.Policy == "" {
				return fmt.Errorf("%s.align: policy is required", at)
			}
		}
		if step.Group != nil {
			n++
			nested = step.Group.Steps
			nestedAt = at + ".group.steps"
		}
		if step.Pad != nil {
			n++
			nested = step.Pad.Steps
			nestedAt = at + ".pad.steps"
		}
		if n != 1 {
			return fmt.Errorf("%s: exactly one step kind must be set, got %d", at, n)
		}
		if nested != nil {
			if err := validateSteps(nestedAt, nested); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertDuration:
	case AssertEventAt:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for event_at", index)
		}
	case AssertEventCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for event_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertChannelStop:
		if a.Channel == "" {
			return fmt.Errorf("assertions[%d]: channel is required for channel_stop", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
