package instr

import (
	"github.com/pulsekit/pulsekit/internal/sched"
)

// SnapshotOp requests a simulator snapshot. It occupies the snapshot
// pseudo-channel for a zero-width interval.
type SnapshotOp struct {
	Label        string
	SnapshotType string
}

// OpName implements sched.Payload.
func (SnapshotOp) OpName() string { return "snapshot" }

// Snapshot creates a simulator snapshot leaf. snapshotType defaults to
// "statevector" when empty.
func Snapshot(label, snapshotType string) (*sched.Schedule, error) {
	if snapshotType == "" {
		snapshotType = "statevector"
	}
	inst, err := sched.NewInstruction(
		SnapshotOp{Label: label, SnapshotType: snapshotType}, 0, sched.SnapshotChannel())
	if err != nil {
		return nil, err
	}
	return sched.NewLeaf(inst), nil
}
