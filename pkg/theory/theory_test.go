package theory

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParsePitchClass(t *testing.T) {
	tests := []struct {
		name     string
		expected PitchClass
		wantErr  bool
	}{
		{"C", C, false},
		{"C#", CSharp, false},
		{"f#", FSharp, false},
		{" B ", B, false},
		{"A#", ASharp, false},
		{"H", 0, true},
		{"Db", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParsePitchClass(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedPitchClass) {
					t.Errorf("ParsePitchClass(%q) error = %v, want ErrMalformedPitchClass", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePitchClass(%q) error = %v", tt.name, err)
			}
			if result != tt.expected {
				t.Errorf("ParsePitchClass(%q) = %v, want %v", tt.name, result, tt.expected)
			}
		})
	}
}

func TestPitchClassTranspose(t *testing.T) {
	tests := []struct {
		from      PitchClass
		semitones int
		expected  PitchClass
	}{
		{C, 7, G},
		{A, 3, C},
		{B, 1, C},
		{C, -1, B},
		{E, 24, E},
		{D, -14, C},
	}

	for _, tt := range tests {
		if got := tt.from.Transpose(tt.semitones); got != tt.expected {
			t.Errorf("%v.Transpose(%d) = %v, want %v", tt.from, tt.semitones, got, tt.expected)
		}
	}
}

func TestScaleDegrees(t *testing.T) {
	tests := []struct {
		root     PitchClass
		mode     Mode
		expected [DegreeCount]PitchClass
	}{
		{C, Major, [DegreeCount]PitchClass{C, D, E, F, G, A, B}},
		{G, Major, [DegreeCount]PitchClass{G, A, B, C, D, E, FSharp}},
		{A, Minor, [DegreeCount]PitchClass{A, B, C, D, E, F, G}},
		{E, Minor, [DegreeCount]PitchClass{E, FSharp, G, A, B, C, D}},
	}

	for _, tt := range tests {
		scale, err := NewScale(tt.root, tt.mode)
		if err != nil {
			t.Fatalf("NewScale() error = %v", err)
		}
		if got := scale.Degrees(); got != tt.expected {
			t.Errorf("%v Degrees() = %v, want %v", scale, got, tt.expected)
		}
	}
}

func TestDiatonicChordsMatchDegrees(t *testing.T) {
	wantQualities := []Quality{
		QualityMajor, QualityMinor, QualityMinor, QualityMajor,
		QualityMajor, QualityMinor, QualityDiminished,
	}

	for _, root := range PitchClasses() {
		scale, _ := NewScale(root, Major)
		chords, err := scale.DiatonicChords()
		if err != nil {
			t.Fatalf("%v DiatonicChords() error = %v", scale, err)
		}
		if len(chords) != DegreeCount {
			t.Fatalf("%v DiatonicChords() returned %d chords, want %d", scale, len(chords), DegreeCount)
		}
		degrees := scale.Degrees()
		for i, chord := range chords {
			if chord.Root != degrees[i] {
				t.Errorf("%v chord %d root = %v, want %v", scale, i+1, chord.Root, degrees[i])
			}
			if chord.Quality != wantQualities[i] {
				t.Errorf("%v chord %d quality = %v, want %v", scale, i+1, chord.Quality, wantQualities[i])
			}
			for _, tone := range chord.Tones() {
				if !scale.Contains(tone) {
					t.Errorf("%v chord %v has non-diatonic tone %v", scale, chord, tone)
				}
			}
		}
	}
}

func TestDiatonicChordsMinorUnsupported(t *testing.T) {
	scale, _ := NewScale(A, Minor)
	if _, err := scale.DiatonicChords(); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("DiatonicChords() error = %v, want ErrUnsupportedMode", err)
	}
	if _, err := scale.ChordByDegree(1); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("ChordByDegree(1) error = %v, want ErrUnsupportedMode", err)
	}
}

func TestScaleNote(t *testing.T) {
	scale, _ := NewScale(D, Major)
	degrees := scale.Degrees()

	for degree := 1; degree <= DegreeCount; degree++ {
		got, err := scale.Note(degree)
		if err != nil {
			t.Fatalf("Note(%d) error = %v", degree, err)
		}
		if got != degrees[degree-1] {
			t.Errorf("Note(%d) = %v, want %v", degree, got, degrees[degree-1])
		}
	}

	for _, degree := range []int{-1, 0, 8, 14} {
		if _, err := scale.Note(degree); !errors.Is(err, ErrInvalidDegree) {
			t.Errorf("Note(%d) error = %v, want ErrInvalidDegree", degree, err)
		}
		if _, err := scale.ChordByDegree(degree); !errors.Is(err, ErrInvalidDegree) {
			t.Errorf("ChordByDegree(%d) error = %v, want ErrInvalidDegree", degree, err)
		}
	}
}

func TestChordTones(t *testing.T) {
	tests := []struct {
		chord    string
		quality  string
		expected []PitchClass
		symbol   string
	}{
		{"C", "major", []PitchClass{C, E, G}, "C"},
		{"A", "minor", []PitchClass{A, C, E}, "Am"},
		{"B", "diminished", []PitchClass{B, D, F}, "Bdim"},
		{"G", "dominant7th", []PitchClass{G, B, D, F}, "G7"},
		{"A#", "major", []PitchClass{ASharp, D, F}, "A#"},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			chord, err := BuildChord(tt.chord, tt.quality)
			if err != nil {
				t.Fatalf("BuildChord() error = %v", err)
			}
			tones := chord.Tones()
			if len(tones) != len(tt.expected) {
				t.Fatalf("Tones() = %v, want %v", tones, tt.expected)
			}
			seen := map[PitchClass]bool{}
			for i, tone := range tones {
				if tone != tt.expected[i] {
					t.Errorf("Tones()[%d] = %v, want %v", i, tone, tt.expected[i])
				}
				if seen[tone] {
					t.Errorf("Tones() has duplicate %v", tone)
				}
				seen[tone] = true
			}
			if chord.Symbol() != tt.symbol {
				t.Errorf("Symbol() = %q, want %q", chord.Symbol(), tt.symbol)
			}
		})
	}
}

func TestBuildRejectsUnknownTags(t *testing.T) {
	if _, err := BuildScale("C", "dorian"); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("BuildScale(dorian) error = %v, want ErrUnsupportedMode", err)
	}
	if _, err := BuildScale("X", "major"); !errors.Is(err, ErrMalformedPitchClass) {
		t.Errorf("BuildScale(X) error = %v, want ErrMalformedPitchClass", err)
	}
	if _, err := BuildChord("C", "sus4"); !errors.Is(err, ErrUnsupportedQuality) {
		t.Errorf("BuildChord(sus4) error = %v, want ErrUnsupportedQuality", err)
	}
	if _, err := NewScale(C, Mode(9)); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("NewScale(Mode(9)) error = %v, want ErrUnsupportedMode", err)
	}
}

func TestNewNote(t *testing.T) {
	n, err := NewNote(A, 4, Quarter)
	if err != nil {
		t.Fatalf("NewNote() error = %v", err)
	}
	if n.MIDIKey() != 69 {
		t.Errorf("A4 MIDIKey() = %d, want 69", n.MIDIKey())
	}
	if n.Index() != 9 {
		t.Errorf("A4 Index() = %d, want 9", n.Index())
	}

	if _, err := NewNote(C, 4, 0); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("NewNote(duration 0) error = %v, want ErrInvalidDuration", err)
	}
	if _, err := NewNote(PitchClass(12), 4, Quarter); !errors.Is(err, ErrMalformedPitchClass) {
		t.Errorf("NewNote(pitch 12) error = %v, want ErrMalformedPitchClass", err)
	}
}

func TestMeasure(t *testing.T) {
	m := Measure{
		{Pitch: C, Octave: 4, Duration: Quarter},
		{Pitch: E, Octave: 4, Duration: Eighth},
		{Pitch: C, Octave: 4, Duration: Eighth},
		{Pitch: G, Octave: 4, Duration: Half},
	}

	if m.Duration() != Whole {
		t.Errorf("Duration() = %v, want %v", m.Duration(), Whole)
	}

	pcs := m.PitchClasses()
	want := []PitchClass{C, E, G}
	if len(pcs) != len(want) {
		t.Fatalf("PitchClasses() = %v, want %v", pcs, want)
	}
	for i := range want {
		if pcs[i] != want[i] {
			t.Errorf("PitchClasses()[%d] = %v, want %v", i, pcs[i], want[i])
		}
	}

	flat := Flatten([]Measure{m, m[:1]})
	if len(flat) != 5 {
		t.Errorf("Flatten() returned %d notes, want 5", len(flat))
	}
}

func TestChordJSON(t *testing.T) {
	chord, _ := BuildChord("F#", "minor")
	data, err := json.Marshal(chord)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `{"root":"F#","quality":"minor"}` {
		t.Errorf("json.Marshal() = %s", data)
	}

	var decoded Chord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded != chord {
		t.Errorf("decoded = %v, want %v", decoded, chord)
	}
}
