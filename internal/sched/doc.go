// Package sched implements the pulse scheduling intermediate representation.
//
// The IR is a tree of immutable Schedule values. A Schedule is either a
// leaf instruction (fixed duration, fixed channel set, opaque payload) or a
// composite holding an ordered list of child schedules plus a single local
// time shift applied to all of them. Every schedule carries a derived
// TimeslotCollection recording which channels it occupies and when.
//
// Composition is a small pure algebra: Union, Shift, Insert and Append all
// return new schedules and never mutate their inputs. The single structural
// invariant - no two occupied intervals on the same channel may overlap -
// is enforced when a composite is constructed and can never be violated
// afterwards.
//
// Time is measured in integer device cycles. All intervals are half-open,
// [start, stop).
package sched
