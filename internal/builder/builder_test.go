package builder

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsekit/pulsekit/internal/backend"
	"github.com/pulsekit/pulsekit/internal/circuit"
	"github.com/pulsekit/pulsekit/internal/compiler"
	"github.com/pulsekit/pulsekit/internal/instr"
	"github.com/pulsekit/pulsekit/internal/sched"
)

var (
	d0 = sched.DriveChannel(0)
	d1 = sched.DriveChannel(1)
)

func TestBuildEmptyProgram(t *testing.T) {
	s, err := Build(func(b *Builder) error { return nil },
		WithName("empty"))
	require.NoError(t, err)
	assert.Equal(t, "empty", s.Name())
	assert.Equal(t, int64(0), s.Duration())
}

func TestBuildGeneratesUniqueNames(t *testing.T) {
	program := func(b *Builder) error {
		return b.Play(instr.Constant(10, 0.1), d0)
	}
	a, err := Build(program)
	require.NoError(t, err)
	b, err := Build(program)
	require.NoError(t, err)

	assert.NotEqual(t, a.Name(), b.Name())
	assert.Contains(t, a.Name(), "program-")
}

func TestBuildDefaultLeftAlignment(t *testing.T) {
	s, err := Build(func(b *Builder) error {
		if err := b.Play(instr.Constant(100, 0.1), d0); err != nil {
			return err
		}
		return b.Play(instr.Constant(20, 0.1), d1)
	}, WithName("parallel"))
	require.NoError(t, err)

	start, err := s.ChStart(d1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), start, "independent channels pack to zero")
	assert.Equal(t, int64(100), s.Duration())
}

func TestBuildRightAlignment(t *testing.T) {
	s, err := Build(func(b *Builder) error {
		if err := b.Play(instr.Constant(100, 0.1), d0); err != nil {
			return err
		}
		return b.Play(instr.Constant(20, 0.1), d1)
	}, WithName("late"), WithDefaultAlignment(AlignmentRight))
	require.NoError(t, err)

	start, err := s.ChStart(d1)
	require.NoError(t, err)
	assert.Equal(t, int64(80), start)
}

func TestBuildUnknownAlignment(t *testing.T) {
	_, err := Build(func(b *Builder) error { return nil },
		WithDefaultAlignment("diagonal"))
	require.Error(t, err)
	assert.True(t, sched.IsUnsupportedAlignment(err))
}

func TestNestedScopes(t *testing.T) {
	s, err := Build(func(b *Builder) error {
		if err := b.Play(instr.Constant(100, 0.1), d0); err != nil {
			return err
		}
		return b.AlignSequential(func() error {
			if err := b.Play(instr.Constant(10, 0.1), d1); err != nil {
				return err
			}
			return b.Play(instr.Constant(10, 0.1), d1)
		})
	}, WithName("nested"))
	require.NoError(t, err)

	// The sequential pair is a single fragment of the outer left-packed
	// scope: it starts at 0 on d1.
	ivs := s.Timeslots().Intervals(d1)
	require.Len(t, ivs, 2)
	assert.Equal(t, sched.Interval{Start: 0, Stop: 10}, ivs[0])
	assert.Equal(t, sched.Interval{Start: 10, Stop: 20}, ivs[1])
}

func TestAlignByName(t *testing.T) {
	s, err := Build(func(b *Builder) error {
		return b.Align(AlignmentSequential, func() error {
			if err := b.Play(instr.Constant(10, 0.1), d0); err != nil {
				return err
			}
			return b.Play(instr.Constant(10, 0.1), d1)
		})
	}, WithName("seq"))
	require.NoError(t, err)
	assert.Equal(t, int64(20), s.Duration())

	ran := false
	_, got := Build(func(b *Builder) error {
		return b.Align("bogus", func() error { ran = true; return nil })
	})
	assert.True(t, sched.IsUnsupportedAlignment(got))
	assert.False(t, ran, "bad policy fails before running the body")
}

func TestGroupScopeStaysAtomic(t *testing.T) {
	// Inside a right-aligned program, a grouped (delay, play) pair on d1
	// must keep its internal offsets while moving as one unit.
	s, err := Build(func(b *Builder) error {
		if err := b.Play(instr.Constant(100, 0.1), d0); err != nil {
			return err
		}
		return b.Group(func() error {
			if err := b.Delay(5, d1); err != nil {
				return err
			}
			return b.Play(instr.Constant(15, 0.1), d1)
		})
	}, WithName("grouped"), WithDefaultAlignment(AlignmentRight))
	require.NoError(t, err)

	ivs := s.Timeslots().Intervals(d1)
	require.Len(t, ivs, 2)
	assert.Equal(t, sched.Interval{Start: 80, Stop: 85}, ivs[0])
	assert.Equal(t, sched.Interval{Start: 85, Stop: 100}, ivs[1])
}

func TestPadScope(t *testing.T) {
	s, err := Build(func(b *Builder) error {
		return b.Pad(func() error {
			if err := b.Play(instr.Constant(100, 0.1), d0); err != nil {
				return err
			}
			return b.Play(instr.Constant(20, 0.1), d1)
		})
	}, WithName("padded"))
	require.NoError(t, err)

	ivs := s.Timeslots().Intervals(d1)
	var total int64
	for _, iv := range ivs {
		total += iv.Duration()
	}
	assert.Equal(t, int64(100), total, "d1 fully occupied after padding")
}

func TestInlineDissolvesScope(t *testing.T) {
	// The same two pulses: grouped keeps the sequential layout, inlined
	// re-packs them under the parent's left alignment.
	grouped, err := Build(func(b *Builder) error {
		return b.AlignSequential(func() error {
			if err := b.Play(instr.Constant(10, 0.1), d0); err != nil {
				return err
			}
			return b.Play(instr.Constant(10, 0.1), d1)
		})
	}, WithName("g"))
	require.NoError(t, err)
	assert.Equal(t, int64(20), grouped.Duration())

	inlined, err := Build(func(b *Builder) error {
		return b.Inline(func() error {
			if err := b.Play(instr.Constant(10, 0.1), d0); err != nil {
				return err
			}
			return b.Play(instr.Constant(10, 0.1), d1)
		})
	}, WithName("i"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), inlined.Duration(), "inlined leaves pack in parallel")
}

func TestBodyErrorPropagates(t *testing.T) {
	sentinel := errors.New("boom")
	_, err := Build(func(b *Builder) error {
		return b.AlignLeft(func() error { return sentinel })
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestBuilderUnusableAfterBuild(t *testing.T) {
	var escaped *Builder
	_, err := Build(func(b *Builder) error {
		escaped = b
		return nil
	}, WithName("escape"))
	require.NoError(t, err)

	err = escaped.Play(instr.Constant(10, 0.1), d0)
	require.Error(t, err)
	assert.True(t, sched.IsNoActiveContext(err))

	_, err = escaped.Duration()
	assert.True(t, sched.IsNoActiveContext(err))
}

func TestBuilderReleasedOnError(t *testing.T) {
	var escaped *Builder
	_, err := Build(func(b *Builder) error {
		escaped = b
		return errors.New("abort")
	})
	require.Error(t, err)

	got := escaped.Delay(10, d0)
	assert.True(t, sched.IsNoActiveContext(got), "context released on abnormal exit too")
}

func TestDurationReadsCurrentScope(t *testing.T) {
	_, err := Build(func(b *Builder) error {
		if err := b.Play(instr.Constant(100, 0.1), d0); err != nil {
			return err
		}
		d, err := b.Duration()
		if err != nil {
			return err
		}
		assert.Equal(t, int64(100), d)

		return b.AlignSequential(func() error {
			d, err := b.Duration()
			if err != nil {
				return err
			}
			assert.Equal(t, int64(0), d, "fresh scope starts empty")
			return nil
		})
	}, WithName("durations"))
	require.NoError(t, err)
}

func TestBarrierSerializesIndependentChannels(t *testing.T) {
	s, err := Build(func(b *Builder) error {
		if err := b.Play(instr.Constant(100, 0.1), d0); err != nil {
			return err
		}
		if err := b.Barrier(d0, d1); err != nil {
			return err
		}
		return b.Play(instr.Constant(20, 0.1), d1)
	}, WithName("barriered"))
	require.NoError(t, err)

	start, err := s.ChStart(d1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), start)

	// The directive itself is stripped from the finished program.
	for _, inst := range s.All() {
		_, isDirective := inst.Op().(sched.Directive)
		assert.False(t, isDirective)
	}
}

func TestBarrierQubits(t *testing.T) {
	bk := backend.NewMock(2)
	s, err := Build(func(b *Builder) error {
		ch, err := b.DriveChannel(0)
		if err != nil {
			return err
		}
		if err := b.Play(instr.Constant(50, 0.1), ch); err != nil {
			return err
		}
		if err := b.BarrierQubits(0, 1); err != nil {
			return err
		}
		m, err := b.MeasureChannel(1)
		if err != nil {
			return err
		}
		return b.Play(instr.Constant(10, 0.1), m)
	}, WithBackend(bk), WithName("bq"))
	require.NoError(t, err)

	start, err := s.ChStart(sched.MeasureChannel(1))
	require.NoError(t, err)
	assert.Equal(t, int64(50), start)
}

func TestChannelLookupsRequireBackend(t *testing.T) {
	_, err := Build(func(b *Builder) error {
		_, err := b.DriveChannel(0)
		return err
	})
	require.Error(t, err)
	assert.True(t, sched.IsBackendUnconfigured(err))

	_, err = Build(func(b *Builder) error {
		_, err := b.MeasureAll()
		return err
	})
	assert.True(t, sched.IsBackendUnconfigured(err))
}

func TestPhaseOffsetBalances(t *testing.T) {
	s, err := Build(func(b *Builder) error {
		return b.PhaseOffset(1.5, []sched.Channel{d0}, func() error {
			return b.Play(instr.Constant(100, 0.1), d0)
		})
	}, WithName("phased"))
	require.NoError(t, err)

	var shifts []float64
	for _, inst := range s.All() {
		if op, ok := inst.Op().(instr.ShiftPhaseOp); ok {
			shifts = append(shifts, op.Phase)
		}
	}
	require.Equal(t, []float64{1.5, -1.5}, shifts)
}

func TestPhaseOffsetUndoesOnBodyError(t *testing.T) {
	sentinel := errors.New("body failed")
	var shifts []float64
	_, err := Build(func(b *Builder) error {
		offErr := b.PhaseOffset(0.7, []sched.Channel{d0}, func() error {
			return sentinel
		})
		// Inspect the open scope before propagating.
		d, derr := b.Duration()
		if derr != nil {
			return derr
		}
		assert.Equal(t, int64(0), d)
		fr, ferr := b.active()
		if ferr != nil {
			return ferr
		}
		for _, inst := range fr.acc.All() {
			if op, ok := inst.Op().(instr.ShiftPhaseOp); ok {
				shifts = append(shifts, op.Phase)
			}
		}
		return offErr
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, []float64{0.7, -0.7}, shifts, "undo emitted despite body error")
}

func TestFrequencyOffsetBalances(t *testing.T) {
	s, err := Build(func(b *Builder) error {
		return b.FrequencyOffset(2e6, []sched.Channel{d0}, func() error {
			return b.Play(instr.Constant(100, 0.1), d0)
		})
	}, WithName("detuned"))
	require.NoError(t, err)

	var freqs []float64
	for _, inst := range s.All() {
		if op, ok := inst.Op().(instr.ShiftFrequencyOp); ok {
			freqs = append(freqs, op.Frequency)
		}
	}
	assert.Equal(t, []float64{2e6, -2e6}, freqs)
}

func TestCompensatedFrequencyOffset(t *testing.T) {
	bk := backend.NewMock(1) // dt = 1ns
	const freq = 1e6
	const cycles = 100

	s, err := Build(func(b *Builder) error {
		return b.CompensatedFrequencyOffset(freq, []sched.Channel{d0}, func() error {
			return b.Play(instr.Constant(cycles, 0.1), d0)
		})
	}, WithBackend(bk), WithName("compensated"))
	require.NoError(t, err)

	var phases []float64
	for _, inst := range s.All() {
		if op, ok := inst.Op().(instr.ShiftPhaseOp); ok {
			phases = append(phases, op.Phase)
		}
	}
	require.Len(t, phases, 1)
	want := -math.Mod(cycles*1e-9*freq*2*math.Pi, 2*math.Pi)
	assert.InDelta(t, want, phases[0], 1e-12)
}

func TestCompensatedFrequencyOffsetRequiresBackend(t *testing.T) {
	_, err := Build(func(b *Builder) error {
		return b.CompensatedFrequencyOffset(1e6, []sched.Channel{d0}, func() error {
			return nil
		})
	})
	assert.True(t, sched.IsBackendUnconfigured(err))
}

func TestMeasureMacro(t *testing.T) {
	bk := backend.NewMock(2)
	s, err := Build(func(b *Builder) error {
		reg, err := b.Measure(0)
		if err != nil {
			return err
		}
		assert.Equal(t, sched.MemorySlot(0), reg)
		return nil
	}, WithBackend(bk), WithName("measured"))
	require.NoError(t, err)
	assert.Equal(t, int64(1600), s.Duration())
}

func TestMeasureAll(t *testing.T) {
	bk := backend.NewMock(3)
	_, err := Build(func(b *Builder) error {
		regs, err := b.MeasureAll()
		if err != nil {
			return err
		}
		assert.Equal(t, []sched.Channel{
			sched.MemorySlot(0), sched.MemorySlot(1), sched.MemorySlot(2),
		}, regs)
		return nil
	}, WithBackend(bk), WithName("all"))
	require.NoError(t, err)
}

func TestCallScheduleAppends(t *testing.T) {
	fragment, err := instr.Play(instr.Constant(40, 0.1), d0)
	require.NoError(t, err)

	s, err := Build(func(b *Builder) error {
		if err := b.CallSchedule(fragment); err != nil {
			return err
		}
		return b.CallSchedule(fragment)
	}, WithName("called"))
	require.NoError(t, err)
	assert.Equal(t, int64(80), s.Duration(), "same-channel fragments queue")
}

// countingTranslator wraps the real compiler and records each flush.
type countingTranslator struct {
	calls [][]circuit.Gate
}

func (ct *countingTranslator) translate(c *circuit.Circuit, b *backend.Backend, topts compiler.TranspileOptions, sopts compiler.ScheduleOptions) (*sched.Schedule, error) {
	ct.calls = append(ct.calls, c.Gates())
	return compiler.Translate(c, b, topts, sopts)
}

func TestLazyCallsBatchIntoOneTranslation(t *testing.T) {
	bk := backend.NewMock(2)
	ct := &countingTranslator{}

	s, err := Build(func(b *Builder) error {
		if err := b.X(0); err != nil {
			return err
		}
		if err := b.X(1); err != nil {
			return err
		}
		return b.CX(0, 1)
	}, WithBackend(bk), WithTranslator(ct.translate), WithName("batched"))
	require.NoError(t, err)

	require.Len(t, ct.calls, 1, "adjacent gate calls translate together")
	assert.Len(t, ct.calls[0], 3)
	assert.Equal(t, int64(480), s.Duration())
}

func TestLazyFlushOnRawLeaf(t *testing.T) {
	bk := backend.NewMock(1)
	ct := &countingTranslator{}

	_, err := Build(func(b *Builder) error {
		if err := b.X(0); err != nil {
			return err
		}
		// A raw pulse is incompatible with the buffered sub-program: the
		// buffer must be translated before the pulse lands.
		if err := b.Play(instr.Constant(10, 0.1), d0); err != nil {
			return err
		}
		return b.X(0)
	}, WithBackend(bk), WithTranslator(ct.translate), WithName("split"))
	require.NoError(t, err)

	require.Len(t, ct.calls, 2)
	assert.Len(t, ct.calls[0], 1)
	assert.Len(t, ct.calls[1], 1)
}

func TestLazyFlushOnScopeBoundary(t *testing.T) {
	bk := backend.NewMock(1)
	ct := &countingTranslator{}

	_, err := Build(func(b *Builder) error {
		if err := b.X(0); err != nil {
			return err
		}
		return b.AlignSequential(func() error {
			return b.X(0)
		})
	}, WithBackend(bk), WithTranslator(ct.translate), WithName("scoped"))
	require.NoError(t, err)

	assert.Len(t, ct.calls, 2, "scope entry and close are buffering boundaries")
}

func TestLazyFlushOnStateRead(t *testing.T) {
	bk := backend.NewMock(1)
	ct := &countingTranslator{}

	_, err := Build(func(b *Builder) error {
		if err := b.X(0); err != nil {
			return err
		}
		d, err := b.Duration()
		if err != nil {
			return err
		}
		assert.Equal(t, int64(160), d, "reading state observes the translated gates")
		return nil
	}, WithBackend(bk), WithTranslator(ct.translate), WithName("read"))
	require.NoError(t, err)
	assert.Len(t, ct.calls, 1)
}

func TestLazyFlushOnSettingsChange(t *testing.T) {
	bk := backend.NewMock(1)
	ct := &countingTranslator{}

	_, err := Build(func(b *Builder) error {
		if err := b.X(0); err != nil {
			return err
		}
		if err := b.X(0); err != nil {
			return err
		}
		// The pending pair translates under the old settings.
		if err := b.SetTranspileOptions(compiler.TranspileOptions{OptimizationLevel: 2}); err != nil {
			return err
		}
		if err := b.X(0); err != nil {
			return err
		}
		return b.X(0)
	}, WithBackend(bk), WithTranslator(ct.translate), WithName("settings"))
	require.NoError(t, err)

	require.Len(t, ct.calls, 2)
	assert.Len(t, ct.calls[0], 2)
	assert.Len(t, ct.calls[1], 2)
}

func TestExplicitFlush(t *testing.T) {
	bk := backend.NewMock(1)
	ct := &countingTranslator{}

	_, err := Build(func(b *Builder) error {
		if err := b.X(0); err != nil {
			return err
		}
		if err := b.Flush(); err != nil {
			return err
		}
		return b.X(0)
	}, WithBackend(bk), WithTranslator(ct.translate), WithName("flushed"))
	require.NoError(t, err)
	assert.Len(t, ct.calls, 2)
}

func TestTranspileScopeRestoresOptions(t *testing.T) {
	bk := backend.NewMock(1)

	s, err := Build(func(b *Builder) error {
		return b.TranspileScope(compiler.TranspileOptions{OptimizationLevel: 2}, func() error {
			if err := b.X(0); err != nil {
				return err
			}
			return b.X(0)
		})
	}, WithBackend(bk), WithName("optimized"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.Duration(), "adjacent x pair cancels at level 2")
}

func TestCallGateUnknownGateSurfaces(t *testing.T) {
	bk := backend.NewMock(1)
	_, err := Build(func(b *Builder) error {
		return b.CallGate("h", []int{0})
	}, WithBackend(bk))
	assert.Error(t, err, "unknown gate fails at the finishing flush")
}

func TestCallCircuitRequiresBackend(t *testing.T) {
	c := circuit.New(1)
	require.NoError(t, c.Append(circuit.Gate{Name: "x", Qubits: []int{0}}))

	_, err := Build(func(b *Builder) error {
		return b.CallCircuit(c)
	})
	assert.True(t, sched.IsBackendUnconfigured(err))
}

func TestU1UsesPhaseParameter(t *testing.T) {
	bk := backend.NewMock(1)
	s, err := Build(func(b *Builder) error {
		return b.U1(0.25, 0)
	}, WithBackend(bk), WithName("u1"))
	require.NoError(t, err)

	instructions := s.Instructions()
	require.Len(t, instructions, 1)
	op := instructions[0].Instruction.Op().(instr.ShiftPhaseOp)
	assert.Equal(t, 0.25, op.Phase)
}

func TestFixedGeneratorNames(t *testing.T) {
	s, err := Build(func(b *Builder) error {
		return b.Delay(10, d0)
	}, WithNameGenerator(FixedGenerator{Name: "pinned"}))
	require.NoError(t, err)
	assert.Equal(t, "pinned", s.Name())
}

func TestWithNameWinsOverGenerator(t *testing.T) {
	s, err := Build(func(b *Builder) error { return nil },
		WithName("explicit"), WithNameGenerator(FixedGenerator{Name: "pinned"}))
	require.NoError(t, err)
	assert.Equal(t, "explicit", s.Name())
}
