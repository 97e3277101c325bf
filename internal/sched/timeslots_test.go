package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeslotCollectionDetectsCollision(t *testing.T) {
	d0 := DriveChannel(0)

	_, err := NewTimeslotCollection(
		Timeslot{Interval: Interval{0, 10}, Channel: d0},
		Timeslot{Interval: Interval{5, 15}, Channel: d0},
	)
	require.Error(t, err)
	assert.True(t, IsCollision(err))

	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.NotNil(t, serr.Channel)
	assert.Equal(t, d0, *serr.Channel)
	assert.Equal(t, Interval{0, 10}, serr.A)
	assert.Equal(t, Interval{5, 15}, serr.B)
}

func TestNewTimeslotCollectionAllowsTouchingAndOtherChannels(t *testing.T) {
	tc, err := NewTimeslotCollection(
		Timeslot{Interval: Interval{0, 10}, Channel: DriveChannel(0)},
		Timeslot{Interval: Interval{10, 20}, Channel: DriveChannel(0)},
		Timeslot{Interval: Interval{0, 20}, Channel: DriveChannel(1)},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(20), tc.Duration())
	assert.Len(t, tc.Channels(), 2)
}

func TestMergeCollision(t *testing.T) {
	d0 := DriveChannel(0)
	a, err := NewTimeslotCollection(Timeslot{Interval: Interval{0, 10}, Channel: d0})
	require.NoError(t, err)
	b, err := NewTimeslotCollection(Timeslot{Interval: Interval{5, 15}, Channel: d0})
	require.NoError(t, err)

	_, err = a.Merge(b)
	assert.True(t, IsCollision(err))

	// Merging must not mutate the receiver.
	assert.Equal(t, []Interval{{0, 10}}, a.Intervals(d0))
}

func TestMergeDisjoint(t *testing.T) {
	d0 := DriveChannel(0)
	a, err := NewTimeslotCollection(Timeslot{Interval: Interval{0, 10}, Channel: d0})
	require.NoError(t, err)
	b, err := NewTimeslotCollection(Timeslot{Interval: Interval{10, 25}, Channel: d0})
	require.NoError(t, err)

	merged, err := a.Merge(b)
	require.NoError(t, err)
	assert.Equal(t, []Interval{{0, 10}, {10, 25}}, merged.Intervals(d0))
	assert.Equal(t, int64(25), merged.Duration())
}

func TestChStartChStop(t *testing.T) {
	d0, d1, m0 := DriveChannel(0), DriveChannel(1), MeasureChannel(0)
	tc, err := NewTimeslotCollection(
		Timeslot{Interval: Interval{5, 10}, Channel: d0},
		Timeslot{Interval: Interval{20, 30}, Channel: d1},
	)
	require.NoError(t, err)

	start, err := tc.ChStart(d0, d1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), start)

	stop, err := tc.ChStop(d0, d1)
	require.NoError(t, err)
	assert.Equal(t, int64(30), stop)

	// Unoccupied channels mixed with occupied ones are ignored.
	stop, err = tc.ChStop(d0, m0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stop)

	// All-unoccupied queries are "no constraint", not zero.
	_, err = tc.ChStop(m0)
	assert.True(t, IsEmptyChannelSet(err))
	_, err = tc.ChStart(m0)
	assert.True(t, IsEmptyChannelSet(err))
}

func TestShiftCollection(t *testing.T) {
	d0 := DriveChannel(0)
	tc, err := NewTimeslotCollection(Timeslot{Interval: Interval{0, 10}, Channel: d0})
	require.NoError(t, err)

	shifted := tc.Shift(100)
	assert.Equal(t, []Interval{{100, 110}}, shifted.Intervals(d0))
	assert.Equal(t, []Interval{{0, 10}}, tc.Intervals(d0), "shift must not mutate")
	assert.Equal(t, int64(100), shifted.StartTime())
	assert.Equal(t, int64(110), shifted.StopTime())
}

func TestEmptyCollection(t *testing.T) {
	var tc TimeslotCollection
	assert.True(t, tc.IsEmpty())
	assert.Equal(t, int64(0), tc.StartTime())
	assert.Equal(t, int64(0), tc.StopTime())
	assert.Empty(t, tc.Channels())
}
