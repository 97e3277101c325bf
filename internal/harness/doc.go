// Package harness executes declarative scheduling scenarios. A scenario
// is a YAML file describing a device, a sequence of authoring steps, and
// assertions on the resulting program's timing. Scenarios double as
// conformance tests (via assertions) and regression anchors (via golden
// trace files).
package harness
