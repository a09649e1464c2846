package play

import "testing"

func TestNoteToFreq(t *testing.T) {
	tests := []struct {
		note     byte
		halfTone byte
		octave   int
		want     int
	}{
		{'C', 0, 4, 262}, // middle C
		{'D', 0, 4, 294},
		{'E', 0, 4, 330},
		{'F', 0, 4, 349},
		{'G', 0, 4, 392},
		{'A', 0, 4, 440}, // concert pitch
		{'B', 0, 4, 494},
		{'C', '#', 4, 277},
		{'C', '+', 4, 277}, // '+' is the sharp alias
		{'B', '-', 4, 466},
		{'A', '+', 4, 466}, // A sharp meets B flat
		{'C', 0, 5, 523},
		{'D', 0, 5, 587},
		{'C', 0, 1, 16}, // octave 1 is unscaled
	}
	for _, tt := range tests {
		got := noteToFreq(tt.note, tt.halfTone, tt.octave)
		if got != tt.want {
			t.Errorf("noteToFreq(%q, %q, %d) = %d, want %d",
				tt.note, tt.halfTone, tt.octave, got, tt.want)
		}
	}
}

// TestNoteToFreqOctaveScale pins the literal octave scale factor: octaves
// above 1 multiply by 2^octave, so each octave step doubles the pitch while
// octaves 0 and 1 coincide.
func TestNoteToFreqOctaveScale(t *testing.T) {
	if a2, a3 := noteToFreq('A', 0, 2), noteToFreq('A', 0, 3); a3 != 2*a2 {
		t.Fatalf("octave step did not double: A2=%d A3=%d", a2, a3)
	}
	if o0, o1 := noteToFreq('C', 0, 0), noteToFreq('C', 0, 1); o0 != o1 {
		t.Fatalf("octave 0 = %d, octave 1 = %d; want equal", o0, o1)
	}
	if got := noteToFreq('A', 0, 2); got != 110 {
		t.Fatalf("A2 = %d, want 110", got)
	}
}
