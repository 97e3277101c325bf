package sched

import "fmt"

// Interval is a half-open time range [Start, Stop) in device cycles.
// A zero-width interval (Start == Stop) occupies no time: it overlaps
// nothing at an occupied span's endpoints, and two zero-width intervals
// at the same instant do not overlap each other.
type Interval struct {
	Start int64
	Stop  int64
}

// NewInterval returns the interval [start, stop). It panics if stop < start;
// interval endpoints are always produced from non-negative durations, so a
// reversed interval is a programming error, not an input error.
func NewInterval(start, stop int64) Interval {
	if stop < start {
		panic(fmt.Sprintf("sched: reversed interval [%d, %d)", start, stop))
	}
	return Interval{Start: start, Stop: stop}
}

// Duration returns Stop - Start.
func (iv Interval) Duration() int64 { return iv.Stop - iv.Start }

// Shift returns the interval translated by dt.
func (iv Interval) Shift(dt int64) Interval {
	return Interval{Start: iv.Start + dt, Stop: iv.Stop + dt}
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints ([0,10) and [10,20)) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.Stop && other.Start < iv.Stop
}

// String renders the interval as "[start, stop)".
func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d)", iv.Start, iv.Stop)
}

// Timeslot records that a channel is occupied during an interval.
type Timeslot struct {
	Interval Interval
	Channel  Channel
}

// Shift returns the timeslot translated by dt on the same channel.
func (ts Timeslot) Shift(dt int64) Timeslot {
	return Timeslot{Interval: ts.Interval.Shift(dt), Channel: ts.Channel}
}

// String renders the timeslot as "d0[0, 10)".
func (ts Timeslot) String() string {
	return ts.Channel.String() + ts.Interval.String()
}
