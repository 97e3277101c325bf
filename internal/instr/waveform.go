package instr

import "fmt"

// Waveform is a sampled pulse envelope. The duration of a played waveform
// is its sample count, one sample per device cycle.
type Waveform struct {
	Name    string
	Samples []complex128
}

// Duration returns the waveform length in cycles.
func (w Waveform) Duration() int64 { return int64(len(w.Samples)) }

// Constant returns a flat waveform of the given duration and amplitude.
func Constant(duration int64, amp complex128) Waveform {
	samples := make([]complex128, duration)
	for i := range samples {
		samples[i] = amp
	}
	return Waveform{
		Name:    fmt.Sprintf("const(%d)", duration),
		Samples: samples,
	}
}
