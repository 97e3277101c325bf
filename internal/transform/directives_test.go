package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsekit/pulsekit/internal/instr"
	"github.com/pulsekit/pulsekit/internal/sched"
)

func TestBarrierConstrainsLeftPacking(t *testing.T) {
	d0, d1 := sched.DriveChannel(0), sched.DriveChannel(1)

	barrier, err := instr.Barrier(d0, d1)
	require.NoError(t, err)

	// Without the barrier the d1 pulse packs to 0; the barrier spans both
	// channels at d0's stop, so the d1 pulse must start at 100.
	s, err := AlignLeft(pulse(t, 100, d0), barrier, pulse(t, 20, d1))
	require.NoError(t, err)

	start, err := s.ChStart(d1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), start)
}

func TestRemoveDirectivesStripsBarriers(t *testing.T) {
	d0, d1 := sched.DriveChannel(0), sched.DriveChannel(1)

	barrier, err := instr.Barrier(d0, d1)
	require.NoError(t, err)
	s, err := AlignLeft(pulse(t, 100, d0), barrier, pulse(t, 20, d1))
	require.NoError(t, err)

	stripped, err := RemoveDirectives(s)
	require.NoError(t, err)

	for _, inst := range stripped.All() {
		_, isDirective := inst.Op().(sched.Directive)
		assert.False(t, isDirective)
	}

	// Timing committed by the barrier survives its removal.
	start, err := stripped.ChStart(d1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), start)
	assert.Len(t, stripped.Instructions(), 2)
}

func TestRemoveDirectivesKeepsEverythingElse(t *testing.T) {
	d0 := sched.DriveChannel(0)
	s, err := AlignSequential(pulse(t, 10, d0), pulse(t, 5, d0))
	require.NoError(t, err)

	stripped, err := RemoveDirectives(s)
	require.NoError(t, err)
	assert.Equal(t, timings(s), timings(stripped))
}
