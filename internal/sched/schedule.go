package sched

import (
	"fmt"
	"iter"
	"slices"
)

// Payload is the opaque, kind-specific data carried by a leaf instruction.
// The scheduler only needs a leaf's duration and channel footprint; the
// payload travels through untouched for downstream consumers.
type Payload interface {
	// OpName returns the operation name, e.g. "play" or "delay".
	OpName() string
}

// Directive is implemented by payloads that exist only to constrain
// scheduling (e.g. barriers) and are stripped from a finished program.
type Directive interface {
	Payload
	IsDirective()
}

// Instruction is a leaf operation: a fixed duration, the set of channels it
// occupies for that duration, and an opaque payload. Instructions are the
// atoms of the IR and are immutable after construction.
type Instruction struct {
	op       Payload
	duration int64
	channels []Channel
}

// NewInstruction creates a leaf instruction occupying every listed channel
// for [0, duration). Duplicate channels and negative durations are
// programming errors and are rejected.
func NewInstruction(op Payload, duration int64, channels ...Channel) (*Instruction, error) {
	if duration < 0 {
		return nil, fmt.Errorf("sched: negative duration %d for %q", duration, op.OpName())
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("sched: instruction %q occupies no channels", op.OpName())
	}
	chs := slices.Clone(channels)
	slices.SortFunc(chs, compareChannels)
	for i := 1; i < len(chs); i++ {
		if chs[i-1] == chs[i] {
			return nil, fmt.Errorf("sched: instruction %q lists channel %s twice", op.OpName(), chs[i])
		}
	}
	return &Instruction{op: op, duration: duration, channels: chs}, nil
}

// Op returns the instruction payload.
func (in *Instruction) Op() Payload { return in.op }

// Duration returns the instruction duration in cycles.
func (in *Instruction) Duration() int64 { return in.duration }

// Channels returns the channels this instruction occupies, in
// deterministic order. The returned slice is a copy.
func (in *Instruction) Channels() []Channel { return slices.Clone(in.channels) }

// Schedule is an immutable node of the scheduling IR: either a leaf
// wrapping a single Instruction, or a composite owning an ordered list of
// child schedules plus one local time shift applied to all of them.
//
// All composition methods return new schedules; a Schedule is never
// modified after construction. Because composites only reference children
// created strictly before them, the tree is acyclic by construction.
type Schedule struct {
	name     string
	shift    int64
	children []*Schedule
	inst     *Instruction // non-nil iff leaf
	slots    TimeslotCollection
}

// New returns an empty composite schedule. An empty schedule has duration
// zero, occupies no channels, and is the identity for Union and Append.
func New() *Schedule {
	return &Schedule{}
}

// NewLeaf wraps an instruction as a leaf schedule. Its occupancy is
// [0, duration) on each of the instruction's channels.
func NewLeaf(inst *Instruction) *Schedule {
	timeslots := make([]Timeslot, len(inst.channels))
	for i, ch := range inst.channels {
		timeslots[i] = Timeslot{Interval: Interval{Start: 0, Stop: inst.duration}, Channel: ch}
	}
	slots, err := NewTimeslotCollection(timeslots...)
	if err != nil {
		// Channels are unique per NewInstruction, so a leaf cannot collide
		// with itself.
		panic(err)
	}
	return &Schedule{name: inst.op.OpName(), inst: inst, slots: slots}
}

// newComposite builds a composite from ordered children with a local shift
// applied to all of them, merging occupancy with collision checking.
func newComposite(name string, shift int64, children []*Schedule) (*Schedule, error) {
	var slots TimeslotCollection
	for _, child := range children {
		merged, err := slots.Merge(child.slots.Shift(shift))
		if err != nil {
			return nil, err
		}
		slots = merged
	}
	return &Schedule{
		name:     name,
		shift:    shift,
		children: slices.Clone(children),
		slots:    slots,
	}, nil
}

// Name returns the schedule name. Leaves are named after their operation;
// composites inherit the name of their first child.
func (s *Schedule) Name() string { return s.name }

// IsLeaf reports whether this schedule is a single instruction.
func (s *Schedule) IsLeaf() bool { return s.inst != nil }

// Instruction returns the wrapped instruction for a leaf, or nil for a
// composite.
func (s *Schedule) Instruction() *Instruction { return s.inst }

// Children returns the ordered child schedules of a composite. The
// returned slice is a copy.
func (s *Schedule) Children() []*Schedule { return slices.Clone(s.children) }

// Timeslots returns the schedule's occupancy collection.
func (s *Schedule) Timeslots() TimeslotCollection { return s.slots }

// Duration returns the schedule-frame duration (time zero to latest stop).
func (s *Schedule) Duration() int64 { return s.slots.Duration() }

// StartTime returns the earliest occupied instant, or 0 when empty.
func (s *Schedule) StartTime() int64 { return s.slots.StartTime() }

// StopTime returns the latest occupied instant, or 0 when empty.
func (s *Schedule) StopTime() int64 { return s.slots.StopTime() }

// Channels returns every channel this schedule occupies, in deterministic
// order.
func (s *Schedule) Channels() []Channel { return s.slots.Channels() }

// ChStart returns the earliest start over the given channels. Fails with
// an empty channel set error if none of them are occupied here.
func (s *Schedule) ChStart(channels ...Channel) (int64, error) {
	return s.slots.ChStart(channels...)
}

// ChStop returns the latest stop over the given channels. Fails with an
// empty channel set error if none of them are occupied here.
func (s *Schedule) ChStop(channels ...Channel) (int64, error) {
	return s.slots.ChStop(channels...)
}

// Rename returns a copy of the schedule with a new name. The tree
// structure and occupancy are shared; schedules stay immutable.
func Rename(s *Schedule, name string) *Schedule {
	out := *s
	out.name = name
	return &out
}

// TimedInstruction is a leaf paired with its absolute start time in the
// root schedule's frame.
type TimedInstruction struct {
	Time        int64
	Instruction *Instruction
}

// All returns a lazy in-order walk of the schedule's leaves as
// (absoluteTime, instruction) pairs. The order is deterministic: children
// are visited in composition order with accumulated shifts applied.
func (s *Schedule) All() iter.Seq2[int64, *Instruction] {
	return func(yield func(int64, *Instruction) bool) {
		s.walk(0, yield)
	}
}

func (s *Schedule) walk(at int64, yield func(int64, *Instruction) bool) bool {
	if s.inst != nil {
		return yield(at, s.inst)
	}
	for _, child := range s.children {
		if !child.walk(at+s.shift, yield) {
			return false
		}
	}
	return true
}

// Instructions returns the flattened leaves in deterministic order.
func (s *Schedule) Instructions() []TimedInstruction {
	var out []TimedInstruction
	for t, inst := range s.All() {
		out = append(out, TimedInstruction{Time: t, Instruction: inst})
	}
	return out
}

// String renders a compact summary for diagnostics.
func (s *Schedule) String() string {
	n := 0
	for range s.All() {
		n++
	}
	if s.name != "" {
		return fmt.Sprintf("Schedule(%s, duration=%d, instructions=%d)", s.name, s.Duration(), n)
	}
	return fmt.Sprintf("Schedule(duration=%d, instructions=%d)", s.Duration(), n)
}
