package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsekit/pulsekit/internal/instr"
	"github.com/pulsekit/pulsekit/internal/sched"
)

// tilesWithoutGaps checks that ch's occupied intervals cover [0, until)
// contiguously.
func tilesWithoutGaps(t *testing.T, s *sched.Schedule, ch sched.Channel, until int64) {
	t.Helper()
	ivs := s.Timeslots().Intervals(ch)
	require.NotEmpty(t, ivs)
	cursor := int64(0)
	for _, iv := range ivs {
		require.LessOrEqual(t, iv.Start, cursor, "gap before %s", iv)
		if iv.Stop > cursor {
			cursor = iv.Stop
		}
	}
	assert.Equal(t, until, cursor)
}

func TestPadFillsTrailingGap(t *testing.T) {
	d0, d1 := sched.DriveChannel(0), sched.DriveChannel(1)

	s, err := AlignLeft(pulse(t, 100, d0), pulse(t, 20, d1))
	require.NoError(t, err)

	padded, err := Pad(s, 0)
	require.NoError(t, err)

	tilesWithoutGaps(t, padded, d0, 100)
	tilesWithoutGaps(t, padded, d1, 100)
	assert.Equal(t, int64(100), padded.Duration(), "padding adds no time")
}

func TestPadFillsInteriorGap(t *testing.T) {
	d0 := sched.DriveChannel(0)

	withGap, err := sched.Insert(pulse(t, 10, d0), 50, pulse(t, 10, d0))
	require.NoError(t, err)

	padded, err := Pad(withGap, 0)
	require.NoError(t, err)
	tilesWithoutGaps(t, padded, d0, 60)

	// The filler is a delay covering exactly [10, 50).
	var found bool
	for at, inst := range padded.All() {
		if _, ok := inst.Op().(instr.DelayOp); ok && at == 10 {
			assert.Equal(t, int64(40), inst.Duration())
			found = true
		}
	}
	assert.True(t, found)
}

func TestPadSelectedChannelsOnly(t *testing.T) {
	d0, d1 := sched.DriveChannel(0), sched.DriveChannel(1)

	s, err := AlignLeft(pulse(t, 100, d0), pulse(t, 20, d1))
	require.NoError(t, err)

	padded, err := Pad(s, 0, d0)
	require.NoError(t, err)

	ivs := padded.Timeslots().Intervals(d1)
	require.Len(t, ivs, 1, "unselected channel keeps its gap")
	assert.Equal(t, sched.Interval{Start: 0, Stop: 20}, ivs[0])
}

func TestPadUntilExtends(t *testing.T) {
	d0 := sched.DriveChannel(0)

	padded, err := Pad(pulse(t, 10, d0), 50, d0)
	require.NoError(t, err)
	tilesWithoutGaps(t, padded, d0, 50)
	assert.Equal(t, int64(50), padded.Duration())
}

func TestPadAlreadyFullIsNoop(t *testing.T) {
	d0 := sched.DriveChannel(0)
	s := pulse(t, 30, d0)

	padded, err := Pad(s, 0)
	require.NoError(t, err)
	assert.Equal(t, timings(s), timings(padded))
}

func TestPaddedChannelBlocksLaterInsertion(t *testing.T) {
	d0 := sched.DriveChannel(0)

	withGap, err := sched.Insert(pulse(t, 10, d0), 50, pulse(t, 10, d0))
	require.NoError(t, err)
	padded, err := Pad(withGap, 0)
	require.NoError(t, err)

	// The gap was insertable before padding, not after.
	_, err = sched.Insert(withGap, 20, pulse(t, 10, d0))
	require.NoError(t, err)
	_, err = sched.Insert(padded, 20, pulse(t, 10, d0))
	assert.True(t, sched.IsCollision(err))
}
