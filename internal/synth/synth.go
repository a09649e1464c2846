// Package synth renders tone events through a General MIDI SoundFont.
package synth

import (
	"bytes"
	"errors"
	"math"
	"os"
	"sync"

	meltysynth "github.com/sinshu/go-meltysynth/meltysynth"

	"github.com/algodesigner/play/internal/tonegen"
)

const (
	sampleRate = tonegen.SampleRate
	// Fixed render block aligned with the synth's internal processing size.
	block = 1024

	// tailSamples extends the render so instrument releases can decay.
	tailSamples = sampleRate / 2

	// gatePercent is how much of each event actually sounds; the remainder
	// is the gap separating it from the next note.
	gatePercent = 90
)

// synthesizer abstracts the subset of meltysynth.Synthesizer used by Render.
type synthesizer interface {
	ProcessMidiMessage(channel int32, command int32, data1, data2 int32)
	NoteOn(channel, key, vel int32)
	NoteOff(channel, key int32)
	Render(left, right []float32)
}

// newSynthesizer constructs a meltysynth synthesizer. Tests may override
// this to inject a mock implementation.
var newSynthesizer = func(sf *meltysynth.SoundFont, settings *meltysynth.SynthesizerSettings) (synthesizer, error) {
	return meltysynth.NewSynthesizer(sf, settings)
}

// The SoundFont is loaded once per process and reused across renders.
var (
	sfOnce   sync.Once
	sfCached *meltysynth.SoundFont
	sfErr    error
)

func loadSoundFont(path string) (*meltysynth.SoundFont, error) {
	sfOnce.Do(func() {
		var data []byte
		data, sfErr = os.ReadFile(path)
		if sfErr != nil {
			return
		}
		sfCached, sfErr = meltysynth.NewSoundFont(bytes.NewReader(data))
	})
	return sfCached, sfErr
}

// Render renders the tone events through the SoundFont at sf2Path using the
// given General MIDI program and velocity, and returns the left and right
// channel samples. Each event's frequency maps to the nearest
// equal-tempered MIDI key; rests advance time silently.
func Render(sf2Path string, program, velocity int, events []tonegen.Event) ([]float32, []float32, error) {
	sf, err := loadSoundFont(sf2Path)
	if err != nil {
		return nil, nil, err
	}
	if sf == nil {
		return nil, nil, errors.New("soundfont not loaded")
	}

	settings := meltysynth.NewSynthesizerSettings(sampleRate)
	settings.BlockSize = block
	// Build a fresh synth per render to avoid sharing internal state.
	syn, err := newSynthesizer(sf, settings)
	if err != nil {
		return nil, nil, err
	}
	const ch = 0
	syn.ProcessMidiMessage(ch, 0xC0, int32(program), 0)

	type span struct {
		key        int
		start, end int
	}
	var spans []span
	cursor := 0
	for _, ev := range events {
		n := ev.PeriodMS * sampleRate / 1000
		if n <= 0 {
			continue
		}
		if ev.FreqHz > 0 {
			gate := n * gatePercent / 100
			if gate < 1 {
				gate = 1
			}
			spans = append(spans, span{key: KeyForFreq(ev.FreqHz), start: cursor, end: cursor + gate})
		}
		cursor += n
	}
	total := cursor + tailSamples

	leftAll := make([]float32, 0, total)
	rightAll := make([]float32, 0, total)
	active := map[int]bool{}

	trigger := func(start, count int) {
		end := start + count
		// Note-offs first so a retriggered key whose end and start land in
		// the same block fires correctly.
		for _, sp := range spans {
			if sp.end >= start && sp.end < end && active[sp.key] {
				syn.NoteOff(ch, int32(sp.key))
				active[sp.key] = false
			}
		}
		for _, sp := range spans {
			if sp.start >= start && sp.start < end && !active[sp.key] {
				syn.NoteOn(ch, int32(sp.key), int32(velocity))
				active[sp.key] = true
			}
		}
	}

	for pos := 0; pos < total; pos += block {
		n := block
		if pos+n > total {
			n = total - pos
		}
		trigger(pos, n)
		left := make([]float32, block)
		right := make([]float32, block)
		syn.Render(left, right)
		leftAll = append(leftAll, left[:n]...)
		rightAll = append(rightAll, right[:n]...)
	}

	return leftAll, rightAll, nil
}

// KeyForFreq returns the MIDI key nearest to the given frequency, clamped
// to the valid key range.
func KeyForFreq(freqHz int) int {
	key := int(math.Round(69 + 12*math.Log2(float64(freqHz)/440)))
	if key < 0 {
		key = 0
	} else if key > 127 {
		key = 127
	}
	return key
}
