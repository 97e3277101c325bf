package harness

import (
	"fmt"
	"slices"

	"github.com/pulsekit/pulsekit/internal/sched"
)

// checkAssertion validates one assertion against an execution result.
func checkAssertion(result *Result, a *Assertion) error {
	switch a.Type {
	case AssertDuration:
		if got := result.Program.Duration(); got != a.Duration {
			return fmt.Errorf("duration: got %d, want %d", got, a.Duration)
		}
		return nil

	case AssertEventAt:
		for _, ev := range result.Events {
			if ev.Op != a.Op || ev.Time != a.Time {
				continue
			}
			if a.Channel == "" || slices.Contains(ev.Channels, a.Channel) {
				return nil
			}
		}
		if a.Channel != "" {
			return fmt.Errorf("event_at: no %q event at %d on %s", a.Op, a.Time, a.Channel)
		}
		return fmt.Errorf("event_at: no %q event at %d", a.Op, a.Time)

	case AssertEventCount:
		n := 0
		for _, ev := range result.Events {
			if ev.Op == a.Op {
				n++
			}
		}
		if n != a.Count {
			return fmt.Errorf("event_count: got %d %q events, want %d", n, a.Op, a.Count)
		}
		return nil

	case AssertChannelStop:
		ch, err := sched.ParseChannel(a.Channel)
		if err != nil {
			return err
		}
		stop, err := result.Program.ChStop(ch)
		if err != nil {
			return fmt.Errorf("channel_stop: %w", err)
		}
		if stop != a.Stop {
			return fmt.Errorf("channel_stop: %s stops at %d, want %d", a.Channel, stop, a.Stop)
		}
		return nil
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}
