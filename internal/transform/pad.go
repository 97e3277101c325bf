package transform

import (
	"github.com/pulsekit/pulsekit/internal/instr"
	"github.com/pulsekit/pulsekit/internal/sched"
)

// Pad fills every idle gap on the designated channels with delay
// instructions so the channel's occupied intervals tile [0, until) with no
// gaps. When no channels are given, every channel appearing in the
// schedule is padded. When until <= 0 the schedule's own duration is used.
//
// Padding gives barrier semantics: once a channel has no gaps, later
// composition cannot insert anything into its span.
func Pad(s *sched.Schedule, until int64, channels ...sched.Channel) (*sched.Schedule, error) {
	if until <= 0 {
		until = s.Duration()
	}
	if len(channels) == 0 {
		channels = s.Channels()
	}

	out := s
	slots := s.Timeslots()
	for _, ch := range channels {
		cursor := int64(0)
		for _, iv := range slots.Intervals(ch) {
			if iv.Start > cursor {
				next, err := padGap(out, ch, cursor, iv.Start)
				if err != nil {
					return nil, err
				}
				out = next
			}
			if iv.Stop > cursor {
				cursor = iv.Stop
			}
		}
		if cursor < until {
			next, err := padGap(out, ch, cursor, until)
			if err != nil {
				return nil, err
			}
			out = next
		}
	}
	return out, nil
}

// padGap inserts a delay covering [from, to) on ch.
func padGap(s *sched.Schedule, ch sched.Channel, from, to int64) (*sched.Schedule, error) {
	filler, err := instr.Delay(to-from, ch)
	if err != nil {
		return nil, err
	}
	return sched.Insert(s, from, filler)
}
