// Package theory provides the music theory model: pitch classes, notes, chords and scales
package theory

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors returned by constructors and lookups
var (
	ErrInvalidDegree       = errors.New("scale degree out of range [1,7]")
	ErrUnsupportedMode     = errors.New("unsupported scale mode")
	ErrUnsupportedQuality  = errors.New("unsupported chord quality")
	ErrMalformedPitchClass = errors.New("malformed pitch class")
	ErrInvalidDuration     = errors.New("note duration must be positive")
)

// PitchClass is one of the 12 chromatic note names, octave-independent
type PitchClass int

const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

// pitchNames is indexed by PitchClass
var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClasses returns all 12 pitch classes starting at C
func PitchClasses() []PitchClass {
	pcs := make([]PitchClass, len(pitchNames))
	for i := range pcs {
		pcs[i] = PitchClass(i)
	}
	return pcs
}

// ParsePitchClass parses a canonical note name such as "C" or "F#"
func ParsePitchClass(name string) (PitchClass, error) {
	s := strings.TrimSpace(name)
	if s != "" {
		s = strings.ToUpper(s[:1]) + s[1:]
	}
	for i, n := range pitchNames {
		if n == s {
			return PitchClass(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrMalformedPitchClass, name)
}

// Index returns the chromatic index (0-11)
func (p PitchClass) Index() int {
	return int(p.Transpose(0))
}

// Transpose moves the pitch class by the given number of semitones, wrapping modulo 12
func (p PitchClass) Transpose(semitones int) PitchClass {
	return PitchClass(((int(p)+semitones)%12 + 12) % 12)
}

// Valid reports whether p is one of the 12 canonical pitch classes
func (p PitchClass) Valid() bool {
	return p >= C && p <= B
}

func (p PitchClass) String() string {
	if !p.Valid() {
		return fmt.Sprintf("PitchClass(%d)", int(p))
	}
	return pitchNames[p]
}

// MarshalText encodes the pitch class as its note name
func (p PitchClass) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrMalformedPitchClass, int(p))
	}
	return []byte(pitchNames[p]), nil
}

// UnmarshalText decodes a note name
func (p *PitchClass) UnmarshalText(text []byte) error {
	pc, err := ParsePitchClass(string(text))
	if err != nil {
		return err
	}
	*p = pc
	return nil
}

// Mode is the scale mode
type Mode int

const (
	Major Mode = iota
	Minor
)

// scaleIntervals holds semitone offsets from the root, indexed by Mode
var scaleIntervals = [...][7]int{
	Major: {0, 2, 4, 5, 7, 9, 11},
	Minor: {0, 2, 3, 5, 7, 8, 10},
}

// Modes returns the supported scale modes
func Modes() []Mode {
	return []Mode{Major, Minor}
}

// ParseMode parses "major" or "minor"
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "major", "maj", "ionian":
		return Major, nil
	case "minor", "min", "aeolian":
		return Minor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, name)
	}
}

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == Major || m == Minor
}

func (m Mode) String() string {
	switch m {
	case Major:
		return "major"
	case Minor:
		return "minor"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MarshalText encodes the mode name
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Quality is the chord quality
type Quality int

const (
	QualityMajor Quality = iota
	QualityMinor
	QualityDiminished
	QualityDominant7th
)

// chordIntervals holds semitone offsets from the chord root, indexed by Quality
var chordIntervals = [...][]int{
	QualityMajor:       {0, 4, 7},
	QualityMinor:       {0, 3, 7},
	QualityDiminished:  {0, 3, 6},
	QualityDominant7th: {0, 4, 7, 10},
}

var qualityNames = [...]string{
	QualityMajor:       "major",
	QualityMinor:       "minor",
	QualityDiminished:  "diminished",
	QualityDominant7th: "dominant7th",
}

// Qualities returns the supported chord qualities
func Qualities() []Quality {
	return []Quality{QualityMajor, QualityMinor, QualityDiminished, QualityDominant7th}
}

// ParseQuality parses a chord quality name
func ParseQuality(name string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "major", "maj":
		return QualityMajor, nil
	case "minor", "min", "m":
		return QualityMinor, nil
	case "diminished", "dim":
		return QualityDiminished, nil
	case "dominant7th", "dom7", "7":
		return QualityDominant7th, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedQuality, name)
	}
}

// Valid reports whether q is a known quality
func (q Quality) Valid() bool {
	return q >= QualityMajor && q <= QualityDominant7th
}

func (q Quality) String() string {
	if !q.Valid() {
		return fmt.Sprintf("Quality(%d)", int(q))
	}
	return qualityNames[q]
}

// MarshalText encodes the quality name
func (q Quality) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedQuality, int(q))
	}
	return []byte(qualityNames[q]), nil
}

// UnmarshalText decodes a quality name
func (q *Quality) UnmarshalText(text []byte) error {
	quality, err := ParseQuality(string(text))
	if err != nil {
		return err
	}
	*q = quality
	return nil
}
