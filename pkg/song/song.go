// Package song runs the full lyrics to melody to chords pipeline
package song

import (
	"errors"
	"fmt"
	"time"

	"github.com/james-see/lyrictune/pkg/harmony"
	"github.com/james-see/lyrictune/pkg/lyrics"
	"github.com/james-see/lyrictune/pkg/melody"
	"github.com/james-see/lyrictune/pkg/random"
	"github.com/james-see/lyrictune/pkg/theory"
)

// ErrMismatchedInput is returned when words and syllable counts differ in length
var ErrMismatchedInput = errors.New("words and syllable counts must have the same length")

// Options controls a composition
type Options struct {
	Root        theory.PitchClass
	Mode        theory.Mode
	Seed        *int64
	MotifLength int
}

// DefaultOptions returns C major with a time-based seed
func DefaultOptions() Options {
	return Options{Root: theory.C, Mode: theory.Major}
}

// Song is a complete composition
type Song struct {
	Words     []string         `json:"words"`
	Syllables []int            `json:"syllables"`
	Scale     theory.Scale     `json:"scale"`
	Seed      int64            `json:"seed"`
	Motif     []int            `json:"motif"`
	Template  []int            `json:"template"`
	Notes     []theory.Note    `json:"notes"`
	Measures  []theory.Measure `json:"measures"`
	Chords    []theory.Chord   `json:"chords"`
}

// Bar is one measure with the chord that accompanies it
type Bar struct {
	Index    int            `json:"index"`
	Notes    theory.Measure `json:"notes"`
	Duration float64        `json:"duration"`
	Chord    theory.Chord   `json:"chord"`
	Symbol   string         `json:"symbol"`
}

// Compose counts syllables in text and composes a song for them
func Compose(text string, opts Options) (*Song, error) {
	words, counts := lyrics.Process(text)
	return ComposeSyllables(words, counts, opts)
}

// ComposeSyllables composes a song for pre-counted words. Randomness is drawn
// in order: motif, start degree, rhythm, progression template.
func ComposeSyllables(words []string, counts []int, opts Options) (*Song, error) {
	if words != nil && len(words) != len(counts) {
		return nil, fmt.Errorf("%w: %d words, %d counts", ErrMismatchedInput, len(words), len(counts))
	}

	scale, err := theory.NewScale(opts.Root, opts.Mode)
	if err != nil {
		return nil, err
	}
	// fail before generating anything if the scale cannot be harmonized
	if _, err := scale.DiatonicChords(); err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	rng := random.New(seed)

	melodyOpts := []melody.Option{melody.WithRand(rng)}
	if opts.MotifLength > 0 {
		melodyOpts = append(melodyOpts, melody.WithMotifLength(opts.MotifLength))
	}
	mg, err := melody.New(scale, melodyOpts...)
	if err != nil {
		return nil, fmt.Errorf("melody generator: %w", err)
	}
	tune, err := mg.Generate(counts)
	if err != nil {
		return nil, fmt.Errorf("melody: %w", err)
	}

	hg, err := harmony.New(scale, harmony.WithRand(rng))
	if err != nil {
		return nil, fmt.Errorf("chord generator: %w", err)
	}

	if words == nil {
		words = []string{}
	}
	return &Song{
		Words:     words,
		Syllables: append([]int{}, counts...),
		Scale:     scale,
		Seed:      seed,
		Motif:     mg.Motif(),
		Template:  hg.Template(),
		Notes:     tune.Notes,
		Measures:  tune.Measures,
		Chords:    hg.Generate(tune.Measures),
	}, nil
}

// TotalSyllables sums the song's syllable counts
func (s *Song) TotalSyllables() int {
	return lyrics.Total(s.Syllables)
}

// Bars pairs each measure with its chord
func (s *Song) Bars() []Bar {
	bars := make([]Bar, len(s.Measures))
	for i, m := range s.Measures {
		bars[i] = Bar{
			Index:    i + 1,
			Notes:    m,
			Duration: float64(m.Duration()),
			Chord:    s.Chords[i],
			Symbol:   s.Chords[i].Symbol(),
		}
	}
	return bars
}

// TemplateSymbols renders the progression template as Roman numerals
func (s *Song) TemplateSymbols() []string {
	numerals := [theory.DegreeCount]string{"I", "ii", "iii", "IV", "V", "vi", "vii°"}
	out := make([]string, len(s.Template))
	for i, d := range s.Template {
		out[i] = numerals[d-1]
	}
	return out
}
