// Command play interprets a compact note string (for example "c4d#8o5e2")
// and plays the resulting tones, writes them to a WAV file, or renders a
// whole score file line by line.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hako/durafmt"
	"github.com/remeh/sizedwaitgroup"

	"github.com/algodesigner/play"
	"github.com/algodesigner/play/internal/synth"
	"github.com/algodesigner/play/internal/tonegen"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

var (
	wavPath   string
	scorePath string
	sf2Path   string
	inst      int
	gain      float64
	doDebug   bool
)

func main() {
	flag.StringVar(&wavPath, "wav", "", "write the rendered audio to the given WAV file instead of playing it")
	flag.StringVar(&scorePath, "score", "", "render each line of the given score file to out-NNN.wav")
	flag.StringVar(&sf2Path, "sf2", "", "render through the given SoundFont instead of the square-wave generator")
	flag.IntVar(&inst, "inst", 0, "General MIDI program number for -sf2")
	flag.Float64Var(&gain, "gain", 0.8, "playback volume (0..1)")
	flag.BoolVar(&doDebug, "debug", false, "verbose/debug logging")
	flag.Parse()

	setupLogging(doDebug)

	if scorePath != "" {
		if err := renderScore(scorePath); err != nil {
			logError("render score: %v", err)
			os.Exit(1)
		}
		return
	}

	notes := strings.Join(flag.Args(), "")
	if notes == "" {
		fmt.Fprintln(os.Stderr, "usage: play [flags] \"notes\"")
		flag.PrintDefaults()
		os.Exit(2)
	}

	seq, errPos := parseNotes(notes)
	if errPos != play.Success {
		reportSyntaxError(notes, errPos)
	}
	// Events flushed before a failure still sound; nothing is rolled back.
	if len(seq.Events) > 0 {
		pcm, err := renderPCM(seq.Events)
		if err != nil {
			logError("%v", err)
			os.Exit(1)
		}
		if wavPath != "" {
			if err := writeWAVFile(wavPath, pcm); err != nil {
				logError("%v", err)
				os.Exit(1)
			}
		} else {
			playPCM(audio.NewContext(tonegen.SampleRate), pcm)
		}
		fmt.Printf("%d events, %s\n", len(seq.Events),
			durafmt.Parse(tonegen.Duration(seq.Events)).LimitFirstN(2).Format(shortUnits))
	}
	if errPos != play.Success {
		os.Exit(1)
	}
}

// parseNotes runs the interpreter over notes, collecting tone events in
// flush order. It returns the recorded sequence along with the parser's
// result value.
func parseNotes(notes string) (*tonegen.Sequence, int) {
	seq := &tonegen.Sequence{}
	res := play.Play(notes, seq)
	logDebug("parsed %q: %d events, result %d", notes, len(seq.Events), res)
	return seq, res
}

func reportSyntaxError(notes string, pos int) {
	logError("syntax error at column %d", pos+1)
	fmt.Fprintln(os.Stderr, notes)
	fmt.Fprintln(os.Stderr, strings.Repeat(" ", pos)+"^")
}

// renderPCM turns tone events into interleaved 16-bit stereo PCM, either
// with the square-wave generator or through a SoundFont when -sf2 is set.
func renderPCM(events []tonegen.Event) ([]byte, error) {
	var left, right []float32
	if sf2Path != "" {
		var err error
		left, right, err = synth.Render(sf2Path, inst, 110, events)
		if err != nil {
			return nil, fmt.Errorf("synth render: %v", err)
		}
	} else {
		left, right = tonegen.Render(events)
	}
	pcm := tonegen.MixPCM(left, right)
	logDebug("rendered %d events into %s of PCM", len(events), humanize.Bytes(uint64(len(pcm))))
	return pcm, nil
}

// playPCM plays the PCM through the audio context and blocks until playback
// has finished.
func playPCM(ctx *audio.Context, pcm []byte) {
	p := ctx.NewPlayerFromBytes(pcm)
	v := gain
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	p.SetVolume(v)
	p.Play()

	// Wait based on the rendered PCM duration, with a small grace period
	// for device buffering.
	totalFrames := len(pcm) / 4 // 2ch * 16-bit
	playDur := time.Second * time.Duration(totalFrames) / tonegen.SampleRate
	target := time.Now().Add(playDur + 100*time.Millisecond)
	for time.Now().Before(target) {
		if !p.IsPlaying() {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	_ = p.Close()
}

func writeWAVFile(name string, pcm []byte) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := tonegen.WriteWAV(f, pcm); err != nil {
		return fmt.Errorf("write %s: %v", name, err)
	}
	logDebug("wrote %s (%s)", name, humanize.Bytes(uint64(len(pcm)+44)))
	return nil
}

type scoreLine struct {
	no    int
	notes string
}

// scoreLines splits a score file into playable lines. Blank lines and ';'
// comment lines are skipped; line numbers are 1-based.
func scoreLines(data string) []scoreLine {
	var out []scoreLine
	for i, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		out = append(out, scoreLine{no: i + 1, notes: line})
	}
	return out
}

// renderScore renders every line of the score file concurrently, one WAV
// per line. A malformed line is reported and skipped without stopping the
// remaining lines.
func renderScore(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := scoreLines(string(data))
	if len(lines) == 0 {
		return fmt.Errorf("%s: no playable lines", path)
	}

	wg := sizedwaitgroup.New(runtime.NumCPU())
	for _, ln := range lines {
		wg.Add()
		go func(ln scoreLine) {
			defer wg.Done()
			seq, res := parseNotes(ln.notes)
			if res != play.Success {
				logError("line %d: syntax error at column %d", ln.no, res+1)
				return
			}
			if len(seq.Events) == 0 {
				logDebug("line %d: no tone events", ln.no)
				return
			}
			pcm, err := renderPCM(seq.Events)
			if err != nil {
				logError("line %d: %v", ln.no, err)
				return
			}
			name := fmt.Sprintf("out-%03d.wav", ln.no)
			if err := writeWAVFile(name, pcm); err != nil {
				logError("line %d: %v", ln.no, err)
				return
			}
			fmt.Printf("%s: %d events, %s\n", name, len(seq.Events),
				durafmt.Parse(tonegen.Duration(seq.Events)).LimitFirstN(2).Format(shortUnits))
		}(ln)
	}
	wg.Wait()
	return nil
}
