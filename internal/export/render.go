package export

import (
	"fmt"
	"strings"

	"github.com/pulsekit/pulsekit/internal/sched"
)

// RenderTimeline draws a program as a fixed-width ASCII timeline, one row
// per channel. Occupied spans render as the first letter of the operation
// ('p' for play, 'd' for delay); zero-width events render as '|'. Wide
// programs are scaled down to fit the width, so the rendering is a visual
// aid, not an exact readback.
func RenderTimeline(s *sched.Schedule, width int) string {
	if width <= 0 {
		width = 80
	}
	duration := s.Duration()
	channels := s.Channels()
	if len(channels) == 0 {
		return "(empty program)\n"
	}

	label := 0
	for _, ch := range channels {
		if n := len(ch.String()); n > label {
			label = n
		}
	}

	scale := 1.0
	if duration > int64(width) {
		scale = float64(width) / float64(duration)
	}
	cell := func(t int64) int {
		c := int(float64(t) * scale)
		if c >= width {
			c = width - 1
		}
		return c
	}

	rows := make(map[sched.Channel][]byte, len(channels))
	for _, ch := range channels {
		row := make([]byte, width)
		for i := range row {
			row[i] = '.'
		}
		rows[ch] = row
	}

	for t, inst := range s.All() {
		mark := byte('|')
		if name := inst.Op().OpName(); inst.Duration() > 0 && name != "" {
			mark = name[0]
		}
		for _, ch := range inst.Channels() {
			row := rows[ch]
			if inst.Duration() == 0 {
				row[cell(t)] = '|'
				continue
			}
			for c := cell(t); c <= cell(t+inst.Duration()-1); c++ {
				row[c] = mark
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  duration=%d\n", s.Name(), duration)
	for _, ch := range channels {
		fmt.Fprintf(&sb, "%-*s  %s\n", label, ch, rows[ch])
	}
	return sb.String()
}
