package transform

import (
	"github.com/pulsekit/pulsekit/internal/sched"
)

// RemoveDirectives strips scheduling-only directive leaves (barriers) from
// a schedule, preserving the absolute time of every remaining instruction.
// The result is a flat composite.
func RemoveDirectives(s *sched.Schedule) (*sched.Schedule, error) {
	out := sched.New()
	for _, ti := range s.Instructions() {
		if _, ok := ti.Instruction.Op().(sched.Directive); ok {
			continue
		}
		next, err := sched.Insert(out, ti.Time, sched.NewLeaf(ti.Instruction))
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}
