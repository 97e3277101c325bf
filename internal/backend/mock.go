package backend

import (
	"fmt"

	"github.com/pulsekit/pulsekit/internal/instr"
	"github.com/pulsekit/pulsekit/internal/sched"
	"github.com/pulsekit/pulsekit/internal/transform"
)

// NewMock builds a deterministic in-memory device for tests and examples:
// n qubits measured as one group, a control channel u_i for each adjacent
// ordered pair (i, i+1), and a calibrated x / cx / u1 gate set.
func NewMock(n int) *Backend {
	controls := make([]ControlSpec, 0, n-1)
	for i := 0; i < n-1; i++ {
		controls = append(controls, ControlSpec{Qubits: []int{i, i + 1}, Index: i})
	}
	group := make([]int, n)
	for q := range group {
		group[q] = q
	}
	b, err := New(Config{
		Name:         fmt.Sprintf("mock%dq", n),
		NumQubits:    n,
		Dt:           1e-9,
		MeasDuration: 1600,
		MeasMap:      [][]int{group},
		Controls:     controls,
	})
	if err != nil {
		panic(err)
	}

	for q := 0; q < n; q++ {
		drive := sched.DriveChannel(q)
		b.instMap.Add("x", []int{q}, func(...float64) (*sched.Schedule, error) {
			return instr.Play(instr.Constant(160, 0.1), drive)
		})
		b.instMap.Add("u1", []int{q}, func(params ...float64) (*sched.Schedule, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("backend: u1 takes one parameter, got %d", len(params))
			}
			return instr.ShiftPhase(params[0], drive)
		})
	}
	for i := 0; i < n-1; i++ {
		ctrlDrive := sched.DriveChannel(i)
		ctrl := sched.ControlChannel(i)
		b.instMap.Add("cx", []int{i, i + 1}, func(...float64) (*sched.Schedule, error) {
			pre, err := instr.Play(instr.Constant(160, 0.1), ctrlDrive)
			if err != nil {
				return nil, err
			}
			cross, err := instr.Play(instr.Constant(320, 0.05), ctrl)
			if err != nil {
				return nil, err
			}
			return transform.AlignLeft(pre, cross)
		})
	}
	return b
}
