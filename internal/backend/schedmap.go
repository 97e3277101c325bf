package backend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pulsekit/pulsekit/internal/sched"
)

// Generator produces the pulse schedule implementing a gate for a fixed
// qubit tuple. Generators must be deterministic for fixed parameters.
type Generator func(params ...float64) (*sched.Schedule, error)

// ScheduleMap binds (gate name, qubit tuple) pairs to schedule generators.
// It is the device's calibration directory: the circuit-to-schedule
// compiler resolves every gate through it.
type ScheduleMap struct {
	entries map[string]map[string]Generator
}

// NewScheduleMap creates an empty schedule map.
func NewScheduleMap() *ScheduleMap {
	return &ScheduleMap{entries: make(map[string]map[string]Generator)}
}

// Add registers a generator for a gate on an ordered qubit tuple,
// replacing any previous entry.
func (m *ScheduleMap) Add(gate string, qubits []int, gen Generator) {
	byQubits, ok := m.entries[gate]
	if !ok {
		byQubits = make(map[string]Generator)
		m.entries[gate] = byQubits
	}
	byQubits[qubitsKey(qubits)] = gen
}

// Has reports whether a gate is defined for the given qubit tuple.
func (m *ScheduleMap) Has(gate string, qubits []int) bool {
	_, ok := m.entries[gate][qubitsKey(qubits)]
	return ok
}

// Get resolves a gate on a qubit tuple to its schedule.
func (m *ScheduleMap) Get(gate string, qubits []int, params ...float64) (*sched.Schedule, error) {
	gen, ok := m.entries[gate][qubitsKey(qubits)]
	if !ok {
		return nil, fmt.Errorf("backend: gate %q is not defined for qubits %v", gate, qubits)
	}
	return gen(params...)
}

// Remove deletes the entry for a gate on a qubit tuple, if present.
func (m *ScheduleMap) Remove(gate string, qubits []int) {
	delete(m.entries[gate], qubitsKey(qubits))
	if len(m.entries[gate]) == 0 {
		delete(m.entries, gate)
	}
}

// Gates returns the defined gate names in sorted order.
func (m *ScheduleMap) Gates() []string {
	gates := make([]string, 0, len(m.entries))
	for gate := range m.entries {
		gates = append(gates, gate)
	}
	sort.Strings(gates)
	return gates
}

// QubitsWithGate returns every qubit tuple a gate is defined on, in a
// deterministic order.
func (m *ScheduleMap) QubitsWithGate(gate string) [][]int {
	byQubits := m.entries[gate]
	keys := make([]string, 0, len(byQubits))
	for key := range byQubits {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	tuples := make([][]int, 0, len(keys))
	for _, key := range keys {
		tuples = append(tuples, parseQubitsKey(key))
	}
	return tuples
}

func parseQubitsKey(key string) []int {
	if key == "" {
		return nil
	}
	parts := strings.Split(key, ":")
	qubits := make([]int, len(parts))
	for i, part := range parts {
		qubits[i], _ = strconv.Atoi(part)
	}
	return qubits
}
