package sched

import "fmt"

// ChannelKind identifies the hardware resource class a channel addresses.
type ChannelKind uint8

const (
	// ChannelDrive is a qubit stimulus line.
	ChannelDrive ChannelKind = iota + 1

	// ChannelMeasure is a measurement stimulus line.
	ChannelMeasure

	// ChannelControl is a secondary drive line for multi-qubit interactions.
	ChannelControl

	// ChannelAcquire is a data acquisition trigger line.
	ChannelAcquire

	// ChannelMemorySlot is a classical memory slot receiving kerneled
	// measurement results.
	ChannelMemorySlot

	// ChannelRegisterSlot is a fast classical register slot used for
	// feedback within an execution.
	ChannelRegisterSlot

	// ChannelSnapshot is the simulator snapshot pseudo-channel.
	ChannelSnapshot
)

// prefixes follows the conventional short channel naming (d0, m1, u0, ...).
var prefixes = map[ChannelKind]string{
	ChannelDrive:        "d",
	ChannelMeasure:      "m",
	ChannelControl:      "u",
	ChannelAcquire:      "a",
	ChannelMemorySlot:   "mem",
	ChannelRegisterSlot: "reg",
	ChannelSnapshot:     "snap",
}

// Channel is an opaque resource identifier. A channel can hold at most one
// active operation at any time instant. Channels are compared by value:
// two channels are the same channel iff kind and index match. Channels are
// never owned by a schedule, only referenced.
type Channel struct {
	Kind  ChannelKind
	Index int
}

// DriveChannel returns the drive channel for the given index.
func DriveChannel(index int) Channel { return Channel{Kind: ChannelDrive, Index: index} }

// MeasureChannel returns the measurement stimulus channel for the given index.
func MeasureChannel(index int) Channel { return Channel{Kind: ChannelMeasure, Index: index} }

// ControlChannel returns the control channel for the given index.
func ControlChannel(index int) Channel { return Channel{Kind: ChannelControl, Index: index} }

// AcquireChannel returns the acquisition channel for the given index.
func AcquireChannel(index int) Channel { return Channel{Kind: ChannelAcquire, Index: index} }

// MemorySlot returns the classical memory slot channel for the given index.
func MemorySlot(index int) Channel { return Channel{Kind: ChannelMemorySlot, Index: index} }

// RegisterSlot returns the classical register slot channel for the given index.
func RegisterSlot(index int) Channel { return Channel{Kind: ChannelRegisterSlot, Index: index} }

// SnapshotChannel returns the simulator snapshot pseudo-channel.
func SnapshotChannel() Channel { return Channel{Kind: ChannelSnapshot, Index: 0} }

// String renders the conventional short name, e.g. "d0" or "mem2".
func (c Channel) String() string {
	prefix, ok := prefixes[c.Kind]
	if !ok {
		return fmt.Sprintf("ch(%d,%d)", c.Kind, c.Index)
	}
	return fmt.Sprintf("%s%d", prefix, c.Index)
}

// compareChannels orders channels by kind then index. Used wherever a
// deterministic channel iteration order is required.
func compareChannels(a, b Channel) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	switch {
	case a.Index < b.Index:
		return -1
	case a.Index > b.Index:
		return 1
	default:
		return 0
	}
}
