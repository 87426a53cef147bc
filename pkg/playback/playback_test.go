package playback

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/james-see/lyrictune/pkg/theory"
)

func q(pc theory.PitchClass) theory.Note {
	return theory.Note{Pitch: pc, Octave: theory.DefaultOctave, Duration: theory.Quarter}
}

func testArrangement(style Style) Arrangement {
	return Arrangement{
		Measures: []theory.Measure{
			{q(theory.C), q(theory.E), q(theory.G), q(theory.E)},
			{q(theory.D), q(theory.C)},
		},
		Chords: []theory.Chord{
			{Root: theory.C, Quality: theory.QualityMajor},
			{Root: theory.C, Quality: theory.QualityMajor},
		},
		Tempo: 120,
		Style: style,
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		input    string
		expected Style
		wantErr  bool
	}{
		{"Strumming", Strumming, false},
		{"arpeggio", Arpeggio, false},
		{"ARP", Arpeggio, false},
		{"", Strumming, false},
		{"fingerpicking", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStyle(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseStyle(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStyle(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseStyle(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestArrangementValidate(t *testing.T) {
	arr := testArrangement(Strumming)
	if err := arr.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	bad := arr
	bad.Chords = bad.Chords[:1]
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), ErrMisaligned.Error()) {
		t.Errorf("Validate() misaligned error = %v", err)
	}

	bad = arr
	bad.Tempo = 0
	if err := bad.Validate(); err == nil {
		t.Error("Validate() should reject zero tempo")
	}

	bad = arr
	bad.Style = Style(7)
	if err := bad.Validate(); err == nil {
		t.Error("Validate() should reject unknown style")
	}
}

func TestArpeggioBeats(t *testing.T) {
	chord := theory.Chord{Root: theory.A, Quality: theory.QualityMinor}
	full := theory.Measure{q(theory.A), q(theory.C), q(theory.E), q(theory.A)}

	got := ArpeggioBeats(full, chord)
	want := []theory.PitchClass{theory.A, theory.C, theory.E, theory.C}
	if len(got) != len(want) {
		t.Fatalf("ArpeggioBeats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ArpeggioBeats()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	short := theory.Measure{q(theory.A), {Pitch: theory.C, Octave: 4, Duration: theory.Eighth}}
	if n := len(ArpeggioBeats(short, chord)); n != 1 {
		t.Errorf("ArpeggioBeats(0.375 measure) returned %d beats, want 1", n)
	}
}

func TestTextPlayerStrumming(t *testing.T) {
	var buf bytes.Buffer
	p := NewTextPlayer(&buf)

	if err := p.Play(context.Background(), testArrangement(Strumming)); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	out := buf.String()
	if strings.Count(out, "Strumming chord: C major") != 2 {
		t.Errorf("expected two strummed chords, got:\n%s", out)
	}
	if strings.Count(out, "Playing note:") != 6 {
		t.Errorf("expected six played notes, got:\n%s", out)
	}
	if !strings.Contains(out, "Playing note: C4 for 0.5s") {
		t.Errorf("expected quarter note at 120 BPM to last 0.5s, got:\n%s", out)
	}
}

func TestTextPlayerArpeggio(t *testing.T) {
	var buf bytes.Buffer
	p := NewTextPlayer(&buf)

	if err := p.Play(context.Background(), testArrangement(Arpeggio)); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Arpeggiating chord: C major -> [C E G E]") {
		t.Errorf("missing full-measure arpeggio, got:\n%s", out)
	}
	if !strings.Contains(out, "Arpeggiating chord: C major -> [C E]") {
		t.Errorf("missing half-measure arpeggio, got:\n%s", out)
	}
}

func TestTextPlayerRealtimeCancel(t *testing.T) {
	var buf bytes.Buffer
	p := NewTextPlayer(&buf)
	p.Realtime = true

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	arr := testArrangement(Strumming)
	arr.Tempo = 1 // one measure lasts four minutes
	if err := p.Play(ctx, arr); err == nil {
		t.Fatal("Play() should stop when the context is done")
	}
	if !strings.Contains(buf.String(), "Playback stopped.") {
		t.Errorf("expected stop notice, got:\n%s", buf.String())
	}
}

func TestMIDIRoundTrip(t *testing.T) {
	r := NewMIDIRenderer()
	arr := testArrangement(Strumming)
	arr.Tempo = 90

	data, err := r.Render(arr)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(data[:4]) != "MThd" {
		t.Fatalf("Render() header = %q, want MThd", data[:4])
	}

	notes, tempo, err := ParseMIDI(data)
	if err != nil {
		t.Fatalf("ParseMIDI() error = %v", err)
	}
	if tempo < 89.9 || tempo > 90.1 {
		t.Errorf("tempo = %v, want 90", tempo)
	}

	var melody []NoteEvent
	var chords int
	for _, n := range notes {
		switch n.Channel {
		case melodyChannel:
			melody = append(melody, n)
		case accompanimentChannel:
			chords++
		}
	}

	wantKeys := []uint8{60, 64, 67, 64, 62, 60}
	if len(melody) != len(wantKeys) {
		t.Fatalf("melody has %d notes, want %d", len(melody), len(wantKeys))
	}
	for i, k := range wantKeys {
		if melody[i].Key != k {
			t.Errorf("melody[%d].Key = %d, want %d", i, melody[i].Key, k)
		}
		if melody[i].Start != uint32(i)*480 {
			t.Errorf("melody[%d].Start = %d, want %d", i, melody[i].Start, i*480)
		}
		if melody[i].Length != 480 {
			t.Errorf("melody[%d].Length = %d, want 480", i, melody[i].Length)
		}
	}

	// two strummed triads
	if chords != 6 {
		t.Errorf("accompaniment has %d notes, want 6", chords)
	}
}

func TestMIDIArpeggioTiming(t *testing.T) {
	data, err := NewMIDIRenderer().Render(testArrangement(Arpeggio))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	notes, _, err := ParseMIDI(data)
	if err != nil {
		t.Fatalf("ParseMIDI() error = %v", err)
	}

	var starts []uint32
	for _, n := range notes {
		if n.Channel == accompanimentChannel {
			starts = append(starts, n.Start)
			if n.Key < 48 || n.Key > 59 {
				t.Errorf("accompaniment key %d outside octave 3", n.Key)
			}
		}
	}

	want := []uint32{0, 480, 960, 1440, 1920, 2400}
	if len(starts) != len(want) {
		t.Fatalf("arpeggio has %d notes, want %d", len(starts), len(want))
	}
	for i := range want {
		if starts[i] != want[i] {
			t.Errorf("arpeggio[%d] starts at %d, want %d", i, starts[i], want[i])
		}
	}
}

func TestRenderRejectsMisaligned(t *testing.T) {
	arr := testArrangement(Strumming)
	arr.Chords = nil
	if _, err := NewMIDIRenderer().Render(arr); err == nil {
		t.Error("Render() should reject misaligned arrangement")
	}
}
