package sched

import (
	"slices"
)

// TimeslotCollection is the per-channel occupancy set of a schedule.
//
// Intervals for each channel are kept sorted by start time and never
// overlap - the constructor and Merge enforce this. Collections are
// immutable: every operation returns a new collection and leaves the
// receiver untouched.
type TimeslotCollection struct {
	slots map[Channel][]Interval
}

// NewTimeslotCollection builds a collection from individual timeslots,
// failing with a collision error if any two slots on the same channel
// overlap.
func NewTimeslotCollection(timeslots ...Timeslot) (TimeslotCollection, error) {
	slots := make(map[Channel][]Interval)
	for _, ts := range timeslots {
		slots[ts.Channel] = append(slots[ts.Channel], ts.Interval)
	}
	for ch, ivs := range slots {
		slices.SortFunc(ivs, compareIntervals)
		for i := 1; i < len(ivs); i++ {
			if ivs[i-1].Overlaps(ivs[i]) {
				return TimeslotCollection{}, NewCollisionError(ch, ivs[i-1], ivs[i])
			}
		}
	}
	return TimeslotCollection{slots: slots}, nil
}

func compareIntervals(a, b Interval) int {
	switch {
	case a.Start < b.Start:
		return -1
	case a.Start > b.Start:
		return 1
	case a.Stop < b.Stop:
		return -1
	case a.Stop > b.Stop:
		return 1
	default:
		return 0
	}
}

// Merge combines two collections, failing with a collision error if any
// channel has overlapping intervals between the two.
func (tc TimeslotCollection) Merge(other TimeslotCollection) (TimeslotCollection, error) {
	merged := make(map[Channel][]Interval, len(tc.slots)+len(other.slots))
	for ch, ivs := range tc.slots {
		merged[ch] = slices.Clone(ivs)
	}
	for ch, ivs := range other.slots {
		merged[ch] = append(merged[ch], ivs...)
	}
	for ch, ivs := range merged {
		slices.SortFunc(ivs, compareIntervals)
		for i := 1; i < len(ivs); i++ {
			if ivs[i-1].Overlaps(ivs[i]) {
				return TimeslotCollection{}, NewCollisionError(ch, ivs[i-1], ivs[i])
			}
		}
		merged[ch] = ivs
	}
	return TimeslotCollection{slots: merged}, nil
}

// Shift returns the collection with dt added to every interval. Shifting
// cannot introduce collisions, so it never fails.
func (tc TimeslotCollection) Shift(dt int64) TimeslotCollection {
	if dt == 0 {
		return tc
	}
	shifted := make(map[Channel][]Interval, len(tc.slots))
	for ch, ivs := range tc.slots {
		out := make([]Interval, len(ivs))
		for i, iv := range ivs {
			out[i] = iv.Shift(dt)
		}
		shifted[ch] = out
	}
	return TimeslotCollection{slots: shifted}
}

// ChStart returns the earliest start time over the given channels' intervals.
// Fails with an empty channel set error if none of the channels appear in
// the collection; callers must treat that as "no constraint", not zero.
func (tc TimeslotCollection) ChStart(channels ...Channel) (int64, error) {
	var start int64
	found := false
	for _, ch := range channels {
		ivs := tc.slots[ch]
		if len(ivs) == 0 {
			continue
		}
		if !found || ivs[0].Start < start {
			start = ivs[0].Start
		}
		found = true
	}
	if !found {
		return 0, NewEmptyChannelSetError()
	}
	return start, nil
}

// ChStop returns the latest stop time over the given channels' intervals.
// Fails with an empty channel set error if none of the channels appear in
// the collection.
func (tc TimeslotCollection) ChStop(channels ...Channel) (int64, error) {
	var stop int64
	found := false
	for _, ch := range channels {
		ivs := tc.slots[ch]
		if len(ivs) == 0 {
			continue
		}
		if last := ivs[len(ivs)-1].Stop; !found || last > stop {
			stop = last
		}
		found = true
	}
	if !found {
		return 0, NewEmptyChannelSetError()
	}
	return stop, nil
}

// StartTime returns the earliest start over all channels, or 0 if the
// collection is empty.
func (tc TimeslotCollection) StartTime() int64 {
	start, err := tc.ChStart(tc.Channels()...)
	if err != nil {
		return 0
	}
	return start
}

// StopTime returns the latest stop over all channels, or 0 if the
// collection is empty.
func (tc TimeslotCollection) StopTime() int64 {
	stop, err := tc.ChStop(tc.Channels()...)
	if err != nil {
		return 0
	}
	return stop
}

// Duration returns the schedule-frame duration, measured from time zero to
// the latest stop.
func (tc TimeslotCollection) Duration() int64 { return tc.StopTime() }

// Channels returns every channel with at least one interval, in a
// deterministic (kind, index) order.
func (tc TimeslotCollection) Channels() []Channel {
	channels := make([]Channel, 0, len(tc.slots))
	for ch, ivs := range tc.slots {
		if len(ivs) > 0 {
			channels = append(channels, ch)
		}
	}
	slices.SortFunc(channels, compareChannels)
	return channels
}

// Intervals returns the sorted occupied intervals of a single channel.
// The returned slice is a copy.
func (tc TimeslotCollection) Intervals(ch Channel) []Interval {
	return slices.Clone(tc.slots[ch])
}

// IsEmpty reports whether no channel has any occupied interval.
func (tc TimeslotCollection) IsEmpty() bool {
	for _, ivs := range tc.slots {
		if len(ivs) > 0 {
			return false
		}
	}
	return true
}

// Timeslots returns every (interval, channel) pair in deterministic order.
func (tc TimeslotCollection) Timeslots() []Timeslot {
	var out []Timeslot
	for _, ch := range tc.Channels() {
		for _, iv := range tc.slots[ch] {
			out = append(out, Timeslot{Interval: iv, Channel: ch})
		}
	}
	return out
}
