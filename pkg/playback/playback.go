// Package playback renders a melody and its chord progression as text or as a Standard MIDI File
package playback

import (
	"errors"
	"fmt"
	"strings"

	"github.com/james-see/lyrictune/pkg/theory"
)

// DefaultTempo is the tempo in beats per minute used when none is given
const DefaultTempo = 120.0

// beatsPerMeasure assumes 4/4 with a quarter-note beat
const beatsPerMeasure = 4

var (
	ErrMisaligned       = errors.New("measures and chords must have the same length")
	ErrInvalidTempo     = errors.New("tempo must be positive")
	ErrUnsupportedStyle = errors.New("unsupported accompaniment style")
)

// Style is the accompaniment style
type Style int

const (
	Strumming Style = iota
	Arpeggio
)

// Styles returns the supported accompaniment styles
func Styles() []Style {
	return []Style{Strumming, Arpeggio}
}

// ParseStyle parses "strumming" or "arpeggio"
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strumming", "strum", "":
		return Strumming, nil
	case "arpeggio", "arp":
		return Arpeggio, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedStyle, name)
	}
}

func (s Style) String() string {
	switch s {
	case Strumming:
		return "Strumming"
	case Arpeggio:
		return "Arpeggio"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// MarshalText encodes the style name
func (s Style) MarshalText() ([]byte, error) {
	if s != Strumming && s != Arpeggio {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedStyle, int(s))
	}
	return []byte(strings.ToLower(s.String())), nil
}

// UnmarshalText decodes a style name
func (s *Style) UnmarshalText(text []byte) error {
	style, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = style
	return nil
}

// Arrangement is what a player consumes
type Arrangement struct {
	Measures []theory.Measure
	Chords   []theory.Chord
	Tempo    float64
	Style    Style
}

// Validate checks tempo, style and measure/chord alignment
func (a Arrangement) Validate() error {
	if a.Tempo <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTempo, a.Tempo)
	}
	if a.Style != Strumming && a.Style != Arpeggio {
		return fmt.Errorf("%w: %d", ErrUnsupportedStyle, int(a.Style))
	}
	if len(a.Measures) != len(a.Chords) {
		return fmt.Errorf("%w: %d measures, %d chords", ErrMisaligned, len(a.Measures), len(a.Chords))
	}
	return nil
}

// BeatSeconds returns the length of one beat in seconds
func (a Arrangement) BeatSeconds() float64 {
	return 60.0 / a.Tempo
}

// ArpeggioPattern returns the tone order used to arpeggiate chord
func ArpeggioPattern(chord theory.Chord) []theory.PitchClass {
	t := chord.Tones()
	if len(t) < 3 {
		return []theory.PitchClass{t[0], t[1], t[0], t[1]}
	}
	return []theory.PitchClass{t[0], t[1], t[2], t[1]}
}

// ArpeggioBeats returns the pitch classes played on each beat of a measure
func ArpeggioBeats(measure theory.Measure, chord theory.Chord) []theory.PitchClass {
	pattern := ArpeggioPattern(chord)
	beats := int(measure.Duration() / theory.Quarter)
	out := make([]theory.PitchClass, beats)
	for i := range out {
		out[i] = pattern[i%len(pattern)]
	}
	return out
}
