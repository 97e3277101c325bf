package backend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pulsekit/pulsekit/internal/sched"
)

// ControlSpec binds a control channel index to an ordered qubit tuple,
// typically (control, target).
type ControlSpec struct {
	Qubits []int
	Index  int
}

// Config describes a device. It is the compiled form of a CUE device spec
// and the input to New.
type Config struct {
	Name         string
	NumQubits    int
	Dt           float64 // seconds per device cycle
	MeasDuration int64   // default measurement stimulus/acquisition length, cycles
	MeasMap      [][]int // qubit groups that must be measured together
	Controls     []ControlSpec
}

// Backend is an immutable device directory. All lookups are pure; the
// instruction schedule map is the only mutable attachment and is owned by
// the caller that populates it.
type Backend struct {
	name         string
	numQubits    int
	dt           float64
	measDuration int64
	measMap      [][]int
	controls     map[string][]int // ordered qubit tuple key -> control indices
	instMap      *ScheduleMap
}

// New validates a config and builds a backend with an empty instruction
// schedule map.
func New(cfg Config) (*Backend, error) {
	if cfg.NumQubits <= 0 {
		return nil, fmt.Errorf("backend: device %q has no qubits", cfg.Name)
	}
	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("backend: device %q has non-positive dt %g", cfg.Name, cfg.Dt)
	}
	measMap := cfg.MeasMap
	if len(measMap) == 0 {
		// Default: every qubit measured independently.
		measMap = make([][]int, cfg.NumQubits)
		for q := 0; q < cfg.NumQubits; q++ {
			measMap[q] = []int{q}
		}
	}
	seen := make(map[int]bool)
	for _, group := range measMap {
		for _, q := range group {
			if q < 0 || q >= cfg.NumQubits {
				return nil, fmt.Errorf("backend: meas_map references qubit %d outside device %q", q, cfg.Name)
			}
			if seen[q] {
				return nil, fmt.Errorf("backend: qubit %d appears in multiple meas_map groups", q)
			}
			seen[q] = true
		}
	}
	controls := make(map[string][]int)
	for _, spec := range cfg.Controls {
		for _, q := range spec.Qubits {
			if q < 0 || q >= cfg.NumQubits {
				return nil, fmt.Errorf("backend: control references qubit %d outside device %q", q, cfg.Name)
			}
		}
		key := qubitsKey(spec.Qubits)
		controls[key] = append(controls[key], spec.Index)
	}
	measDuration := cfg.MeasDuration
	if measDuration == 0 {
		measDuration = 1600
	}
	return &Backend{
		name:         cfg.Name,
		numQubits:    cfg.NumQubits,
		dt:           cfg.Dt,
		measDuration: measDuration,
		measMap:      measMap,
		controls:     controls,
		instMap:      NewScheduleMap(),
	}, nil
}

// Name returns the device name.
func (b *Backend) Name() string { return b.name }

// NumQubits returns the number of qubits on the device.
func (b *Backend) NumQubits() int { return b.numQubits }

// Dt returns the duration of one device cycle in seconds.
func (b *Backend) Dt() float64 { return b.dt }

// MeasDuration returns the default measurement length in cycles.
func (b *Backend) MeasDuration() int64 { return b.measDuration }

// InstMap returns the device's instruction schedule map.
func (b *Backend) InstMap() *ScheduleMap { return b.instMap }

func (b *Backend) checkQubit(q int) error {
	if q < 0 || q >= b.numQubits {
		return fmt.Errorf("backend: qubit %d outside device %q (%d qubits)", q, b.name, b.numQubits)
	}
	return nil
}

// Drive returns the drive channel for a qubit.
func (b *Backend) Drive(q int) (sched.Channel, error) {
	if err := b.checkQubit(q); err != nil {
		return sched.Channel{}, err
	}
	return sched.DriveChannel(q), nil
}

// Measure returns the measurement stimulus channel for a qubit.
func (b *Backend) Measure(q int) (sched.Channel, error) {
	if err := b.checkQubit(q); err != nil {
		return sched.Channel{}, err
	}
	return sched.MeasureChannel(q), nil
}

// Acquire returns the acquisition channel for a qubit.
func (b *Backend) Acquire(q int) (sched.Channel, error) {
	if err := b.checkQubit(q); err != nil {
		return sched.Channel{}, err
	}
	return sched.AcquireChannel(q), nil
}

// Control returns the control channels for an ordered qubit tuple,
// typically (control, target) for a two-qubit interaction.
func (b *Backend) Control(qubits ...int) ([]sched.Channel, error) {
	for _, q := range qubits {
		if err := b.checkQubit(q); err != nil {
			return nil, err
		}
	}
	indices, ok := b.controls[qubitsKey(qubits)]
	if !ok {
		return nil, fmt.Errorf("backend: no control channel for qubits %v on device %q", qubits, b.name)
	}
	channels := make([]sched.Channel, len(indices))
	for i, index := range indices {
		channels[i] = sched.ControlChannel(index)
	}
	return channels, nil
}

// QubitChannels returns every channel associated with a qubit: drive,
// measure, acquire, and any control channels the qubit participates in.
func (b *Backend) QubitChannels(q int) ([]sched.Channel, error) {
	if err := b.checkQubit(q); err != nil {
		return nil, err
	}
	channels := []sched.Channel{
		sched.DriveChannel(q),
		sched.MeasureChannel(q),
		sched.AcquireChannel(q),
	}
	for key, indices := range b.controls {
		if !keyContainsQubit(key, q) {
			continue
		}
		for _, index := range indices {
			channels = append(channels, sched.ControlChannel(index))
		}
	}
	sort.Slice(channels, func(i, j int) bool {
		a, c := channels[i], channels[j]
		if a.Kind != c.Kind {
			return a.Kind < c.Kind
		}
		return a.Index < c.Index
	})
	return channels, nil
}

// MeasMap returns the measurement grouping: qubits in the same group must
// be measured together.
func (b *Backend) MeasMap() [][]int { return b.measMap }

// MeasGroup returns the measurement group containing a qubit.
func (b *Backend) MeasGroup(q int) ([]int, error) {
	if err := b.checkQubit(q); err != nil {
		return nil, err
	}
	for _, group := range b.measMap {
		for _, member := range group {
			if member == q {
				return group, nil
			}
		}
	}
	return []int{q}, nil
}

// qubitsKey renders an ordered qubit tuple as a map key, e.g. "0:1".
func qubitsKey(qubits []int) string {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = strconv.Itoa(q)
	}
	return strings.Join(parts, ":")
}

func keyContainsQubit(key string, q int) bool {
	want := strconv.Itoa(q)
	for _, part := range strings.Split(key, ":") {
		if part == want {
			return true
		}
	}
	return false
}
