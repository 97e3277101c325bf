package sched

// Composition algebra. All operators are pure: they construct new
// schedules from existing ones and fail with a collision error rather than
// ever producing an overlapping occupancy.

// Union builds a new composite whose children are the inputs in order.
// Child order is preserved so flattening stays deterministic. Fails if any
// pairwise channel occupancy overlaps.
func Union(components ...*Schedule) (*Schedule, error) {
	name := ""
	if len(components) > 0 {
		name = components[0].name
	}
	return newComposite(name, 0, components)
}

// Shift wraps a schedule in a new composite with a single child and local
// shift dt. With one child no collision is possible, so Shift never fails.
func Shift(s *Schedule, dt int64) *Schedule {
	out, err := newComposite(s.name, dt, []*Schedule{s})
	if err != nil {
		// A single child cannot overlap itself.
		panic(err)
	}
	return out
}

// Insert returns a new schedule with child inserted into parent at
// startTime (in parent's frame). Fails on channel collision.
func Insert(parent *Schedule, startTime int64, child *Schedule) (*Schedule, error) {
	return Union(parent, Shift(child, startTime))
}

// Append returns a new schedule with child placed after the last use of
// any channel shared between parent and child:
//
//	t = max(parent.ChStop(c) for c in parent.Channels() ∩ child.Channels())
//
// Schedules sharing no channels compose freely at time 0, not at parent's
// end.
func Append(parent *Schedule, child *Schedule) (*Schedule, error) {
	shared := intersectChannels(parent.Channels(), child.Channels())
	var insertionTime int64
	if len(shared) > 0 {
		t, err := parent.ChStop(shared...)
		if err != nil {
			// Shared channels are drawn from parent's own occupancy, so
			// the query cannot come up empty.
			panic(err)
		}
		insertionTime = t
	}
	return Insert(parent, insertionTime, child)
}

// Union returns the union of this schedule and others, preserving order.
func (s *Schedule) Union(others ...*Schedule) (*Schedule, error) {
	return Union(append([]*Schedule{s}, others...)...)
}

// Shift returns this schedule shifted forward by dt.
func (s *Schedule) Shift(dt int64) *Schedule {
	return Shift(s, dt)
}

// Insert returns this schedule with child inserted at startTime.
func (s *Schedule) Insert(startTime int64, child *Schedule) (*Schedule, error) {
	return Insert(s, startTime, child)
}

// Append returns this schedule with child appended after the last
// conflicting channel use.
func (s *Schedule) Append(child *Schedule) (*Schedule, error) {
	return Append(s, child)
}

// intersectChannels returns the channels present in both sorted slices,
// preserving deterministic order.
func intersectChannels(a, b []Channel) []Channel {
	set := make(map[Channel]struct{}, len(b))
	for _, ch := range b {
		set[ch] = struct{}{}
	}
	var out []Channel
	for _, ch := range a {
		if _, ok := set[ch]; ok {
			out = append(out, ch)
		}
	}
	return out
}
