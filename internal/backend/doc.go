// Package backend is the device directory: it resolves qubit indices to
// channel identifiers, exposes channel-grouping metadata (which qubits
// must be measured together), and carries the instruction schedule map
// binding named gates to parameterized pulse schedules.
//
// Device descriptions are authored in CUE and compiled with
// CompileDevice/LoadFile; NewMock builds a deterministic in-memory device
// for tests. The scheduling core treats a Backend as an opaque lookup and
// never interprets its internals.
package backend
