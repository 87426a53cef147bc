package theory

import "fmt"

// Chord is a root pitch class with a quality
type Chord struct {
	Root    PitchClass `json:"root"`
	Quality Quality    `json:"quality"`
}

// NewChord creates a chord, validating root and quality
func NewChord(root PitchClass, quality Quality) (Chord, error) {
	if !root.Valid() {
		return Chord{}, fmt.Errorf("%w: %d", ErrMalformedPitchClass, int(root))
	}
	if !quality.Valid() {
		return Chord{}, fmt.Errorf("%w: %d", ErrUnsupportedQuality, int(quality))
	}
	return Chord{Root: root, Quality: quality}, nil
}

// BuildChord creates a chord from a note name and a quality name
func BuildChord(rootName, qualityName string) (Chord, error) {
	root, err := ParsePitchClass(rootName)
	if err != nil {
		return Chord{}, err
	}
	quality, err := ParseQuality(qualityName)
	if err != nil {
		return Chord{}, err
	}
	return NewChord(root, quality)
}

// Tones returns the chord's constituent pitch classes, root first
func (c Chord) Tones() []PitchClass {
	intervals := chordIntervals[c.Quality]
	tones := make([]PitchClass, len(intervals))
	for i, offset := range intervals {
		tones[i] = c.Root.Transpose(offset)
	}
	return tones
}

// Contains reports whether p is one of the chord tones
func (c Chord) Contains(p PitchClass) bool {
	for _, t := range c.Tones() {
		if t == p {
			return true
		}
	}
	return false
}

// Symbol returns a lead-sheet style symbol such as "C", "Dm", "Bdim" or "G7"
func (c Chord) Symbol() string {
	switch c.Quality {
	case QualityMinor:
		return c.Root.String() + "m"
	case QualityDiminished:
		return c.Root.String() + "dim"
	case QualityDominant7th:
		return c.Root.String() + "7"
	default:
		return c.Root.String()
	}
}

func (c Chord) String() string {
	return fmt.Sprintf("%s %s", c.Root, c.Quality)
}
