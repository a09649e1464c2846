package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/algodesigner/play"
)

func TestParseNotesCollectsEvents(t *testing.T) {
	seq, res := parseNotes("c4d")
	if res != play.Success {
		t.Fatalf("parseNotes result = %d, want Success", res)
	}
	if len(seq.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(seq.Events))
	}
}

func TestParseNotesReportsPosition(t *testing.T) {
	seq, res := parseNotes("c#d!e")
	if res != 3 {
		t.Fatalf("parseNotes result = %d, want 3", res)
	}
	// The sharp C flushed before the failure is kept.
	if len(seq.Events) != 1 {
		t.Fatalf("expected 1 event before the failure, got %d", len(seq.Events))
	}
}

func TestScoreLines(t *testing.T) {
	data := "c4d\n\n; a comment\n  o5e2f  \n;\n"
	lines := scoreLines(data)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].no != 1 || lines[0].notes != "c4d" {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[1].no != 4 || lines[1].notes != "o5e2f" {
		t.Fatalf("unexpected second line: %+v", lines[1])
	}
}

func TestWriteWAVFile(t *testing.T) {
	seq, res := parseNotes("c4d")
	if res != play.Success {
		t.Fatalf("parseNotes result = %d, want Success", res)
	}
	pcm, err := renderPCM(seq.Events)
	if err != nil {
		t.Fatalf("renderPCM: %v", err)
	}
	name := filepath.Join(t.TempDir(), "out.wav")
	if err := writeWAVFile(name, pcm); err != nil {
		t.Fatalf("writeWAVFile: %v", err)
	}
	st, err := os.Stat(name)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() != int64(len(pcm)+44) {
		t.Fatalf("wav size = %d, want %d", st.Size(), len(pcm)+44)
	}
}
