package theory

import "fmt"

// DegreeCount is the number of degrees in a heptatonic scale
const DegreeCount = 7

// majorQualities is the diatonic chord quality for each degree of a major scale
var majorQualities = [DegreeCount]Quality{
	QualityMajor,
	QualityMinor,
	QualityMinor,
	QualityMajor,
	QualityMajor,
	QualityMinor,
	QualityDiminished,
}

// Scale is a root pitch class with a mode
type Scale struct {
	Root PitchClass `json:"root"`
	Mode Mode       `json:"mode"`
}

// NewScale creates a scale, validating root and mode
func NewScale(root PitchClass, mode Mode) (Scale, error) {
	if !root.Valid() {
		return Scale{}, fmt.Errorf("%w: %d", ErrMalformedPitchClass, int(root))
	}
	if !mode.Valid() {
		return Scale{}, fmt.Errorf("%w: %d", ErrUnsupportedMode, int(mode))
	}
	return Scale{Root: root, Mode: mode}, nil
}

// BuildScale creates a scale from a note name and a mode name
func BuildScale(rootName, modeName string) (Scale, error) {
	root, err := ParsePitchClass(rootName)
	if err != nil {
		return Scale{}, err
	}
	mode, err := ParseMode(modeName)
	if err != nil {
		return Scale{}, err
	}
	return NewScale(root, mode)
}

// Degrees returns the 7 scale-degree pitch classes; index 0 is the root
func (s Scale) Degrees() [DegreeCount]PitchClass {
	var degrees [DegreeCount]PitchClass
	for i, offset := range scaleIntervals[s.Mode] {
		degrees[i] = s.Root.Transpose(offset)
	}
	return degrees
}

// Contains reports whether p belongs to the scale
func (s Scale) Contains(p PitchClass) bool {
	for _, d := range s.Degrees() {
		if d == p {
			return true
		}
	}
	return false
}

// DiatonicChords returns the triad built on each degree. Only major scales are supported.
func (s Scale) DiatonicChords() ([]Chord, error) {
	if s.Mode != Major {
		return nil, fmt.Errorf("%w: diatonic chords for %s scales", ErrUnsupportedMode, s.Mode)
	}
	degrees := s.Degrees()
	chords := make([]Chord, DegreeCount)
	for i, root := range degrees {
		chords[i] = Chord{Root: root, Quality: majorQualities[i]}
	}
	return chords, nil
}

// Note returns the pitch class at a 1-based degree
func (s Scale) Note(degree int) (PitchClass, error) {
	if err := checkDegree(degree); err != nil {
		return 0, err
	}
	return s.Degrees()[degree-1], nil
}

// ChordByDegree returns the diatonic chord at a 1-based degree
func (s Scale) ChordByDegree(degree int) (Chord, error) {
	if err := checkDegree(degree); err != nil {
		return Chord{}, err
	}
	chords, err := s.DiatonicChords()
	if err != nil {
		return Chord{}, err
	}
	return chords[degree-1], nil
}

// Tonic returns the diatonic chord on the first degree
func (s Scale) Tonic() (Chord, error) {
	return s.ChordByDegree(1)
}

func (s Scale) String() string {
	return fmt.Sprintf("%s %s", s.Root, s.Mode)
}

func checkDegree(degree int) error {
	if degree < 1 || degree > DegreeCount {
		return fmt.Errorf("%w: %d", ErrInvalidDegree, degree)
	}
	return nil
}
