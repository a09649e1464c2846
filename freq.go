package play

import "math"

// baseFreq is the A1 reference pitch in Hz.
const baseFreq = 55.0

// noteToFreq converts an upper-case natural note letter, an optional
// half-tone modifier ('#' or '+' for sharp, '-' for flat) and an octave to
// an equal-tempered frequency rounded to the nearest Hz. The half-step
// table is relative to the A1 reference; octave 1 is unscaled and octaves
// above it multiply the pitch by 2^octave.
func noteToFreq(note, halfTone byte, octave int) int {
	halfSteps := 0
	switch note {
	case 'C':
		halfSteps = -21
	case 'D':
		halfSteps = -19
	case 'E':
		halfSteps = -17
	case 'F':
		halfSteps = -16
	case 'G':
		halfSteps = -14
	case 'A':
		halfSteps = -12
	case 'B':
		halfSteps = -10
	}
	switch halfTone {
	case '#', '+':
		halfSteps++
	case '-':
		halfSteps--
	}
	freq := math.Pow(2, float64(halfSteps)/12) * baseFreq
	if octave > 1 {
		freq *= math.Pow(2, float64(octave))
	} else if octave < 1 {
		freq /= math.Pow(2, float64(-octave))
	}
	return int(math.Round(freq))
}
