// Package harmony picks a chord per measure from a progression template and the melody it accompanies
package harmony

import (
	"errors"
	"fmt"
	"time"

	"github.com/james-see/lyrictune/pkg/random"
	"github.com/james-see/lyrictune/pkg/theory"
)

// Templates are the progression templates a generator chooses from, as 1-based scale degrees
var Templates = [][]int{
	{1, 5, 6, 4}, // I-V-vi-IV
	{1, 4, 5, 1}, // I-IV-V-I
	{1, 6, 4, 5}, // I-vi-IV-V
	{2, 5, 1, 4}, // ii-V-I-IV
}

// overrideMargin is how many more melody tones a competing chord must match to replace the template's
const overrideMargin = 1

// ErrEmptyTemplate is returned when a progression template has no degrees
var ErrEmptyTemplate = errors.New("progression template must not be empty")

// Generator harmonizes measures in a major scale
type Generator struct {
	scale    theory.Scale
	chords   []theory.Chord
	template []int
	rng      random.Source
}

// Option configures a Generator
type Option func(*Generator)

// WithRand sets the random source used to choose the template
func WithRand(r random.Source) Option {
	return func(g *Generator) {
		g.rng = r
	}
}

// WithSeed uses a deterministic source seeded with seed
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = random.New(seed)
	}
}

// WithTemplate fixes the progression template instead of drawing one
func WithTemplate(degrees []int) Option {
	return func(g *Generator) {
		g.template = append([]int{}, degrees...)
	}
}

// New creates a Generator for scale and chooses its progression template
func New(scale theory.Scale, opts ...Option) (*Generator, error) {
	chords, err := scale.DiatonicChords()
	if err != nil {
		return nil, err
	}

	g := &Generator{
		scale:  scale,
		chords: chords,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.template == nil {
		if g.rng == nil {
			g.rng = random.New(time.Now().UnixNano())
		}
		g.template = append([]int(nil), Templates[g.rng.IntN(len(Templates))]...)
	}
	if len(g.template) == 0 {
		return nil, ErrEmptyTemplate
	}
	for _, degree := range g.template {
		if degree < 1 || degree > theory.DegreeCount {
			return nil, fmt.Errorf("template %v: %w: %d", g.template, theory.ErrInvalidDegree, degree)
		}
	}

	return g, nil
}

// Template returns a copy of the progression template
func (g *Generator) Template() []int {
	return append([]int(nil), g.template...)
}

// Generate returns one chord per measure. The last measure always gets the tonic.
func (g *Generator) Generate(measures []theory.Measure) []theory.Chord {
	progression := make([]theory.Chord, 0, len(measures))

	for i, measure := range measures {
		if i == len(measures)-1 {
			progression = append(progression, g.chords[0])
			continue
		}

		degree := g.template[i%len(g.template)]
		suggested := g.chords[degree-1]
		progression = append(progression, g.BestChord(measure, suggested))
	}

	return progression
}

// BestChord keeps the suggested chord unless another diatonic chord matches
// more than overrideMargin additional melody tones.
func (g *Generator) BestChord(measure theory.Measure, suggested theory.Chord) theory.Chord {
	best := suggested
	bestScore := Score(measure, suggested)

	for _, chord := range g.chords {
		if chord == suggested {
			continue
		}
		if score := Score(measure, chord); score > bestScore+overrideMargin {
			best = chord
			bestScore = score
		}
	}

	return best
}

// Score counts the distinct pitch classes of measure that are tones of chord
func Score(measure theory.Measure, chord theory.Chord) int {
	score := 0
	for _, pc := range measure.PitchClasses() {
		if chord.Contains(pc) {
			score++
		}
	}
	return score
}

// Generate builds a generator for scale and harmonizes measures once
func Generate(scale theory.Scale, measures []theory.Measure, opts ...Option) ([]theory.Chord, error) {
	g, err := New(scale, opts...)
	if err != nil {
		return nil, err
	}
	return g.Generate(measures), nil
}
