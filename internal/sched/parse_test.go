package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannel(t *testing.T) {
	tests := []struct {
		name string
		want Channel
	}{
		{"d0", DriveChannel(0)},
		{"d12", DriveChannel(12)},
		{"m1", MeasureChannel(1)},
		{"u0", ControlChannel(0)},
		{"a2", AcquireChannel(2)},
		{"mem3", MemorySlot(3)},
		{"reg0", RegisterSlot(0)},
		{"snap0", SnapshotChannel()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, err := ParseChannel(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ch)
			assert.Equal(t, tt.name, ch.String(), "parse and String round-trip")
		})
	}
}

func TestParseChannelRejects(t *testing.T) {
	for _, name := range []string{"", "d", "x0", "d-1", "mem", "d1x", "D0"} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseChannel(name)
			assert.Error(t, err)
		})
	}
}
