// Package tonegen renders ordered tone events into 44.1 kHz stereo PCM
// using a plain square-wave oscillator, in the spirit of a PC speaker.
package tonegen

import (
	"encoding/binary"
	"math"
	"time"
)

const (
	// SampleRate is the output sample rate in Hz.
	SampleRate = 44100

	amplitude = 0.6

	// rampSamples is the linear attack/release length applied to each tone
	// so event boundaries do not click.
	rampSamples = SampleRate / 200 // 5ms
)

// Event is a single tone in playback order. A frequency of 0 is a rest.
type Event struct {
	FreqHz   int
	PeriodMS int
}

// Sequence records tone events in the order they are emitted. It satisfies
// the parser's tone sink interface.
type Sequence struct {
	Events []Event
}

func (s *Sequence) Tone(freqHz, periodMS int) {
	s.Events = append(s.Events, Event{FreqHz: freqHz, PeriodMS: periodMS})
}

// Duration returns the total playback time of the events.
func Duration(events []Event) time.Duration {
	var ms int
	for _, ev := range events {
		ms += ev.PeriodMS
	}
	return time.Duration(ms) * time.Millisecond
}

// Render synthesizes the events into left and right channel samples at
// SampleRate. Pitched events render as a square wave with short ramps at
// both ends; rests render as silence.
func Render(events []Event) ([]float32, []float32) {
	total := 0
	for _, ev := range events {
		total += samplesFor(ev)
	}
	left := make([]float32, 0, total)
	right := make([]float32, 0, total)
	for _, ev := range events {
		n := samplesFor(ev)
		if n <= 0 {
			continue
		}
		if ev.FreqHz <= 0 {
			left = append(left, make([]float32, n)...)
			right = append(right, make([]float32, n)...)
			continue
		}
		halfPeriod := float64(SampleRate) / (2 * float64(ev.FreqHz))
		ramp := rampSamples
		if ramp > n/2 {
			ramp = n / 2
		}
		for i := 0; i < n; i++ {
			v := float32(amplitude)
			if math.Mod(float64(i)/halfPeriod, 2) >= 1 {
				v = -v
			}
			if ramp > 0 {
				if i < ramp {
					v *= float32(i) / float32(ramp)
				} else if rem := n - 1 - i; rem < ramp {
					v *= float32(rem) / float32(ramp)
				}
			}
			left = append(left, v)
			right = append(right, v)
		}
	}
	return left, right
}

func samplesFor(ev Event) int {
	return ev.PeriodMS * SampleRate / 1000
}

// MixPCM normalizes the provided samples and returns interleaved 16-bit
// stereo PCM data suitable for playback or WAV encoding.
func MixPCM(left, right []float32) []byte {
	var peak float32
	for i := range left {
		if v := float32(math.Abs(float64(left[i]))); v > peak {
			peak = v
		}
		if v := float32(math.Abs(float64(right[i]))); v > peak {
			peak = v
		}
	}
	if peak > 0 {
		g := float32(0.99) / peak
		if g != 1 {
			for i := range left {
				left[i] *= g
				right[i] *= g
			}
		}
	}

	pcm := make([]byte, len(left)*4)
	for i := range left {
		l := int16(left[i] * 32767)
		r := int16(right[i] * 32767)
		binary.LittleEndian.PutUint16(pcm[4*i:], uint16(l))
		binary.LittleEndian.PutUint16(pcm[4*i+2:], uint16(r))
	}
	return pcm
}
