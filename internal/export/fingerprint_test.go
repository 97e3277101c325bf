package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsekit/pulsekit/internal/instr"
	"github.com/pulsekit/pulsekit/internal/sched"
)

func TestFingerprintIgnoresName(t *testing.T) {
	s := playThenDelay(t, "alpha")

	a, err := Fingerprint(s)
	require.NoError(t, err)
	b, err := Fingerprint(sched.Rename(s, "beta"))
	require.NoError(t, err)

	assert.Equal(t, a, b, "generated names must not perturb identity")
	assert.Len(t, a, 64)
}

func TestFingerprintSensitiveToContent(t *testing.T) {
	base, err := Fingerprint(playThenDelay(t, "p"))
	require.NoError(t, err)

	// Same shape, different pulse length.
	play, err := instr.Play(instr.Constant(101, 0.1), sched.DriveChannel(0))
	require.NoError(t, err)
	delay, err := instr.Delay(20, sched.DriveChannel(0))
	require.NoError(t, err)
	longer, err := sched.Append(play, delay)
	require.NoError(t, err)

	other, err := Fingerprint(longer)
	require.NoError(t, err)
	assert.NotEqual(t, base, other)
}

func TestFingerprintStable(t *testing.T) {
	s := playThenDelay(t, "stable")
	first, err := Fingerprint(s)
	require.NoError(t, err)
	for range 5 {
		again, err := Fingerprint(s)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFingerprintSharedAcrossTreeShapes(t *testing.T) {
	play, err := instr.Play(instr.Constant(100, 0.1), sched.DriveChannel(0))
	require.NoError(t, err)
	delay, err := instr.Delay(20, sched.DriveChannel(0))
	require.NoError(t, err)

	appended, err := sched.Append(play, delay)
	require.NoError(t, err)
	inserted, err := sched.Insert(play, 100, delay)
	require.NoError(t, err)

	a, err := Fingerprint(appended)
	require.NoError(t, err)
	b, err := Fingerprint(inserted)
	require.NoError(t, err)
	assert.Equal(t, a, b, "identity follows flattened events, not tree shape")
}
