package builder

import (
	"math"

	"github.com/pulsekit/pulsekit/internal/sched"
)

// PhaseOffset runs the body with the carrier phase of each channel shifted
// by phase, undoing the shift when the body returns. The undo is emitted
// even when the body fails, so a recovered builder is left with balanced
// frame state; the body's error wins.
func (b *Builder) PhaseOffset(phase float64, channels []sched.Channel, body func() error) error {
	if _, err := b.active(); err != nil {
		return err
	}
	for _, ch := range channels {
		if err := b.ShiftPhase(phase, ch); err != nil {
			return err
		}
	}
	bodyErr := body()
	for _, ch := range channels {
		if err := b.ShiftPhase(-phase, ch); err != nil {
			if bodyErr != nil {
				return bodyErr
			}
			return err
		}
	}
	return bodyErr
}

// FrequencyOffset runs the body with the carrier frequency of each channel
// shifted by frequency in Hz, undoing the shift afterwards. The phase
// accumulated while detuned is not compensated; see
// CompensatedFrequencyOffset.
func (b *Builder) FrequencyOffset(frequency float64, channels []sched.Channel, body func() error) error {
	return b.frequencyOffset(frequency, channels, body, false)
}

// CompensatedFrequencyOffset is FrequencyOffset with phase compensation:
// on exit each channel's phase is shifted back by the phase the detuned
// carrier accumulated, (elapsed cycles * dt * frequency) mod 2 pi, so the
// scope is phase-transparent to its surroundings. Requires a backend for
// the cycle time dt.
func (b *Builder) CompensatedFrequencyOffset(frequency float64, channels []sched.Channel, body func() error) error {
	if _, err := b.requireBackend(); err != nil {
		return err
	}
	return b.frequencyOffset(frequency, channels, body, true)
}

func (b *Builder) frequencyOffset(frequency float64, channels []sched.Channel, body func() error, compensate bool) error {
	if _, err := b.active(); err != nil {
		return err
	}
	// Elapsed time is measured in the current frame. Flush so buffered
	// gate calls land before the entry timestamp is taken.
	if err := b.flush(); err != nil {
		return err
	}
	fr, err := b.active()
	if err != nil {
		return err
	}
	t0 := fr.acc.Duration()

	for _, ch := range channels {
		if err := b.ShiftFrequency(frequency, ch); err != nil {
			return err
		}
	}
	bodyErr := body()

	var undo []func(ch sched.Channel) error
	if compensate && bodyErr == nil {
		if err := b.flush(); err != nil {
			return err
		}
		fr, err = b.active()
		if err != nil {
			return err
		}
		elapsed := fr.acc.Duration() - t0
		accumulated := math.Mod(float64(elapsed)*b.backend.Dt()*frequency*2*math.Pi, 2*math.Pi)
		undo = append(undo, func(ch sched.Channel) error {
			return b.ShiftPhase(-accumulated, ch)
		})
	}
	undo = append(undo, func(ch sched.Channel) error {
		return b.ShiftFrequency(-frequency, ch)
	})

	for _, step := range undo {
		for _, ch := range channels {
			if err := step(ch); err != nil {
				if bodyErr != nil {
					return bodyErr
				}
				return err
			}
		}
	}
	return bodyErr
}
