package transform

import (
	"github.com/pulsekit/pulsekit/internal/sched"
)

// AlignLeft packs each fragment as early as possible without violating any
// per-channel ordering already committed. Fragments are processed in input
// order; independent channels proceed fully in parallel. Ties preserve
// input order (stable).
//
// For each fragment f the insertion time into the accumulator is
//
//	max over shared channels c of (acc.ChStop(c) - f.ChStart(c))
//
// or 0 when no channels are shared.
func AlignLeft(components ...*sched.Schedule) (*sched.Schedule, error) {
	acc := sched.New()
	for _, f := range components {
		t, err := packTime(acc, f)
		if err != nil {
			return nil, err
		}
		acc, err = sched.Insert(acc, t, f)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// packTime computes the left-pack insertion time of f into acc.
func packTime(acc, f *sched.Schedule) (int64, error) {
	shared := sharedChannels(acc, f)
	if len(shared) == 0 {
		return 0, nil
	}
	var insert int64
	first := true
	for _, ch := range shared {
		stop, err := acc.ChStop(ch)
		if err != nil {
			return 0, err
		}
		start, err := f.ChStart(ch)
		if err != nil {
			return 0, err
		}
		if t := stop - start; first || t > insert {
			insert = t
			first = false
		}
	}
	return insert, nil
}

// AlignRight packs fragments against the right edge: the latest-finishing
// channel's content is unchanged and every other channel's content is
// pushed right by its own slack. Computed from the left-packed
// intermediate rather than by mirroring the recursion.
func AlignRight(components ...*sched.Schedule) (*sched.Schedule, error) {
	leftPacked, err := AlignLeft(components...)
	if err != nil {
		return nil, err
	}

	// Per-channel packed span after left-packing.
	spans := make(map[sched.Channel]int64)
	var maxSpan int64
	for _, ch := range leftPacked.Channels() {
		stop, err := leftPacked.ChStop(ch)
		if err != nil {
			return nil, err
		}
		spans[ch] = stop
		if stop > maxSpan {
			maxSpan = stop
		}
	}

	acc := sched.New()
	for _, ti := range leftPacked.Instructions() {
		var leafSpan int64
		for _, ch := range ti.Instruction.Channels() {
			if spans[ch] > leafSpan {
				leafSpan = spans[ch]
			}
		}
		acc, err = sched.Insert(acc, ti.Time+maxSpan-leafSpan, sched.NewLeaf(ti.Instruction))
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// AlignSequential places each successive fragment at the cumulative total
// duration so far, so no two fragments ever occupy overlapping global time
// regardless of channel.
func AlignSequential(components ...*sched.Schedule) (*sched.Schedule, error) {
	acc := sched.New()
	var running int64
	for _, f := range components {
		next, err := sched.Insert(acc, running, f)
		if err != nil {
			return nil, err
		}
		acc = next
		running += f.Duration()
	}
	return acc, nil
}

// Group fixes the relative timing of a schedule's contents: the result is
// the schedule itself, to be inserted into a parent scope as one atomic
// unit rather than re-packed per fragment.
func Group(s *sched.Schedule) (*sched.Schedule, error) {
	return s, nil
}

// sharedChannels returns the channels occupied by both schedules in
// deterministic order.
func sharedChannels(a, b *sched.Schedule) []sched.Channel {
	inB := make(map[sched.Channel]struct{})
	for _, ch := range b.Channels() {
		inB[ch] = struct{}{}
	}
	var out []sched.Channel
	for _, ch := range a.Channels() {
		if _, ok := inB[ch]; ok {
			out = append(out, ch)
		}
	}
	return out
}
