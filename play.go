// Package play interprets a compact textual note-string language (for
// example "c4d#8o5e2") and emits one tone event per completed note to a
// caller-supplied sink. The scan is a single pass over the input with no
// lookahead beyond the current character.
package play

// ToneSink receives tone events in the order the parser flushes them. A
// frequency of 0 is a rest: silence for periodMS milliseconds.
type ToneSink interface {
	Tone(freqHz, periodMS int)
}

// ToneFunc adapts a plain function to the ToneSink interface.
type ToneFunc func(freqHz, periodMS int)

func (f ToneFunc) Tone(freqHz, periodMS int) { f(freqHz, periodMS) }

// Success is returned by Play when the entire string parsed without error.
const Success = -1

type parseState int

const (
	stateCommand parseState = iota
	stateOctaveNumber
)

// parser holds the state of one scan. The octave persists across notes until
// an octave command changes it; the remaining fields describe the note
// currently being accumulated.
type parser struct {
	sink  ToneSink
	state parseState

	octave int

	note            byte
	halfTone        byte
	duration        int
	pending         bool
	lengthSpecified bool
}

// Play scans the note string s and delivers one tone event per completed
// note to sink, left to right. It returns Success, or the zero-based index
// of the first character that does not fit the grammar. Events emitted
// before a failure are not rolled back.
//
// Note letters a-g, the rest marker r and the octave command o are case
// insensitive. '#' and '+' mark a pending note sharp, '-' marks it flat, a
// first digit sets its duration and a second digit extends the duration to
// two digits and completes the note. A note still being accumulated when
// the input ends is dropped unless its letter was the final character.
func Play(s string, sink ToneSink) int {
	p := parser{sink: sink, octave: 4}
	for pos := 0; pos < len(s); pos++ {
		var ok bool
		switch p.state {
		case stateCommand:
			ok = p.command(s[pos], pos == len(s)-1)
		case stateOctaveNumber:
			ok = p.octaveNumber(s[pos])
		}
		if !ok {
			return pos
		}
	}
	if p.state == stateOctaveNumber {
		// Ran out of input while the octave command was still waiting for
		// its digit.
		return len(s)
	}
	return Success
}

// command consumes one character in the COMMAND state. It reports false when
// the character cannot be parsed.
func (p *parser) command(c byte, last bool) bool {
	switch {
	case isNoteLetter(c):
		if p.pending {
			p.flush()
		}
		p.note = upper(c)
		p.halfTone = 0
		p.duration = 1
		p.pending = true
		p.lengthSpecified = false
		if last {
			p.flush()
		}
	case c == 'o' || c == 'O':
		if p.pending {
			p.flush()
			p.pending = false
			p.lengthSpecified = false
		}
		p.state = stateOctaveNumber
	case !p.pending:
		// Stray modifiers and digits outside a note are ignored.
	case !p.lengthSpecified:
		switch {
		case (c == '#' || c == '+' || c == '-') && p.note != 'R':
			p.halfTone = c
		case isDigit(c):
			p.duration = int(c - '0')
			p.lengthSpecified = true
		default:
			return false
		}
	default:
		// One duration digit consumed; only a second digit may follow
		// within the same note, and it completes the note.
		if !isDigit(c) {
			return false
		}
		p.duration = p.duration*10 + int(c-'0')
		p.flush()
		p.pending = false
		p.lengthSpecified = false
	}
	return true
}

// octaveNumber consumes the single digit following an octave command.
func (p *parser) octaveNumber(c byte) bool {
	if !isDigit(c) {
		return false
	}
	p.octave = int(c - '0')
	p.state = stateCommand
	return true
}

// flush finalizes the pending note into exactly one tone event. Rests emit
// frequency 0. A duration below 1 emits nothing.
func (p *parser) flush() {
	if p.duration < 1 {
		return
	}
	freq := 0
	if p.note != 'R' {
		freq = noteToFreq(p.note, p.halfTone, p.octave)
	}
	p.sink.Tone(freq, 1000/p.duration)
}

func isNoteLetter(c byte) bool {
	return (c >= 'a' && c <= 'g') || (c >= 'A' && c <= 'G') || c == 'r' || c == 'R'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
