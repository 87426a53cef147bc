package theory

import "fmt"

// Duration is a note length expressed as a fraction of a whole measure
type Duration float64

// Common durations
const (
	Whole   Duration = 1.0
	Half    Duration = 0.5
	Quarter Duration = 0.25
	Eighth  Duration = 0.125
)

// DefaultOctave is the octave used when none is given
const DefaultOctave = 4

// Note is a pitched note with a duration
type Note struct {
	Pitch    PitchClass `json:"pitch"`
	Octave   int        `json:"octave"`
	Duration Duration   `json:"duration"`
}

// NewNote creates a note, rejecting invalid pitch classes and non-positive durations
func NewNote(pitch PitchClass, octave int, duration Duration) (Note, error) {
	if !pitch.Valid() {
		return Note{}, fmt.Errorf("%w: %d", ErrMalformedPitchClass, int(pitch))
	}
	if duration <= 0 {
		return Note{}, fmt.Errorf("%w: %v", ErrInvalidDuration, float64(duration))
	}
	return Note{Pitch: pitch, Octave: octave, Duration: duration}, nil
}

// Index returns the scale-independent chromatic index of the note's pitch class
func (n Note) Index() int {
	return n.Pitch.Index()
}

// MIDIKey returns the MIDI key number, with C4 = 60
func (n Note) MIDIKey() int {
	return (n.Octave+1)*12 + n.Pitch.Index()
}

func (n Note) String() string {
	return fmt.Sprintf("%s%d/%g", n.Pitch, n.Octave, float64(n.Duration))
}

// Measure is an ordered run of notes whose durations sum to at most one whole note
type Measure []Note

// Duration returns the summed duration of the measure's notes
func (m Measure) Duration() Duration {
	var total Duration
	for _, n := range m {
		total += n.Duration
	}
	return total
}

// PitchClasses returns the distinct pitch classes in the measure, in order of first appearance
func (m Measure) PitchClasses() []PitchClass {
	seen := make(map[PitchClass]bool, len(m))
	pcs := make([]PitchClass, 0, len(m))
	for _, n := range m {
		if !seen[n.Pitch] {
			seen[n.Pitch] = true
			pcs = append(pcs, n.Pitch)
		}
	}
	return pcs
}

// Flatten concatenates measures into a single note sequence
func Flatten(measures []Measure) []Note {
	notes := make([]Note, 0, len(measures)*4)
	for _, m := range measures {
		notes = append(notes, m...)
	}
	return notes
}
