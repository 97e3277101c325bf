package builder

import (
	"github.com/pulsekit/pulsekit/internal/sched"
	"github.com/pulsekit/pulsekit/internal/transform"
)

// Alignment policy names accepted by Build and Align.
const (
	AlignmentLeft       = "left"
	AlignmentRight      = "right"
	AlignmentSequential = "sequential"
)

// closer produces a frame's final fragment when its scope closes.
type closer func(fr *frame) (*sched.Schedule, error)

// frame is one entry of the builder's scope stack. It tracks both the
// arrival-order accumulation (for duration reads and group/pad scopes)
// and the raw fragment list (re-packed by alignment policies at close).
type frame struct {
	acc       *sched.Schedule
	fragments []*sched.Schedule
	close     closer
	label     string
}

func newFrame(label string, close closer) *frame {
	return &frame{acc: sched.New(), close: close, label: label}
}

// append adds a fragment in arrival order. The accumulator uses Append
// semantics: after the last conflicting use of any shared channel, at
// time 0 when no channels are shared.
func (fr *frame) append(f *sched.Schedule) error {
	next, err := sched.Append(fr.acc, f)
	if err != nil {
		return err
	}
	fr.acc = next
	fr.fragments = append(fr.fragments, f)
	return nil
}

// alignmentCloser resolves a policy name to a frame closer. Unknown names
// fail with an unsupported alignment error.
func alignmentCloser(name string) (closer, error) {
	switch name {
	case AlignmentLeft:
		return func(fr *frame) (*sched.Schedule, error) {
			return transform.AlignLeft(fr.fragments...)
		}, nil
	case AlignmentRight:
		return func(fr *frame) (*sched.Schedule, error) {
			return transform.AlignRight(fr.fragments...)
		}, nil
	case AlignmentSequential:
		return func(fr *frame) (*sched.Schedule, error) {
			return transform.AlignSequential(fr.fragments...)
		}, nil
	default:
		return nil, &sched.Error{
			Code:    sched.ErrCodeUnsupportedAlignment,
			Message: "alignment " + name + " is not supported",
		}
	}
}

// groupCloser fixes the frame's contents as accumulated: the result is
// appended to the parent as one atomic unit.
func groupCloser(fr *frame) (*sched.Schedule, error) {
	return transform.Group(fr.acc)
}

// padCloser pads the accumulated fragment's channels before handing it to
// the parent.
func padCloser(channels []sched.Channel) closer {
	return func(fr *frame) (*sched.Schedule, error) {
		return transform.Pad(fr.acc, 0, channels...)
	}
}
