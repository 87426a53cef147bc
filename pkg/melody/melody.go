// Package melody maps syllable timing onto scale degrees using a motif-driven contour
package melody

import (
	"errors"
	"fmt"
	"time"

	"github.com/james-see/lyrictune/pkg/random"
	"github.com/james-see/lyrictune/pkg/theory"
)

// Generator defaults
const (
	DefaultMotifLength = 3

	// MaxSyllables bounds the total syllables a single melody may carry
	MaxSyllables = 10000

	// quarterProbability is the chance a syllable gets one quarter note instead of two eighths
	quarterProbability = 0.8
)

// MotifSteps are the scale-step deltas a motif is drawn from
var MotifSteps = []int{-2, -1, 1, 2}

// startDegrees are the 0-based degrees a melody may open on (root or fifth)
var startDegrees = []int{0, 4}

var (
	ErrNegativeSyllables = errors.New("syllable count must not be negative")
	ErrTooManySyllables  = errors.New("too many syllables")
	ErrInvalidMotif      = errors.New("motif must contain at least one step")
)

// Melody is a generated tune. Notes is the flattening of Measures.
type Melody struct {
	Notes    []theory.Note    `json:"notes"`
	Measures []theory.Measure `json:"measures"`
}

// Generator produces melodies for a scale
type Generator struct {
	scale       theory.Scale
	rng         random.Source
	motif       []int
	motifLength int
}

// Option configures a Generator
type Option func(*Generator)

// WithRand sets the random source
func WithRand(r random.Source) Option {
	return func(g *Generator) {
		g.rng = r
	}
}

// WithSeed uses a deterministic PCG source seeded with seed
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = random.New(seed)
	}
}

// WithMotifLength sets how many steps a drawn motif has
func WithMotifLength(n int) Option {
	return func(g *Generator) {
		g.motifLength = n
	}
}

// WithMotif fixes the motif instead of drawing one
func WithMotif(steps []int) Option {
	return func(g *Generator) {
		g.motif = append([]int(nil), steps...)
	}
}

// New creates a Generator and draws its motif
func New(scale theory.Scale, opts ...Option) (*Generator, error) {
	if !scale.Root.Valid() || !scale.Mode.Valid() {
		return nil, fmt.Errorf("invalid scale %v: %w", scale, theory.ErrUnsupportedMode)
	}

	g := &Generator{
		scale:       scale,
		motifLength: DefaultMotifLength,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = random.New(time.Now().UnixNano())
	}

	if g.motif == nil {
		if g.motifLength < 1 {
			return nil, fmt.Errorf("%w: length %d", ErrInvalidMotif, g.motifLength)
		}
		g.motif = make([]int, g.motifLength)
		for i := range g.motif {
			g.motif[i] = MotifSteps[g.rng.IntN(len(MotifSteps))]
		}
	}
	if len(g.motif) == 0 {
		return nil, ErrInvalidMotif
	}

	return g, nil
}

// Scale returns the generator's scale
func (g *Generator) Scale() theory.Scale {
	return g.scale
}

// Motif returns a copy of the motif
func (g *Generator) Motif() []int {
	return append([]int(nil), g.motif...)
}

// Generate produces a melody with one rhythmic unit per syllable
func (g *Generator) Generate(syllableCounts []int) (Melody, error) {
	total := 0
	for i, n := range syllableCounts {
		if n < 0 {
			return Melody{}, fmt.Errorf("%w: index %d has %d", ErrNegativeSyllables, i, n)
		}
		if n > MaxSyllables-total {
			return Melody{}, fmt.Errorf("%w: limit is %d", ErrTooManySyllables, MaxSyllables)
		}
		total += n
	}

	melody := Melody{
		Notes:    []theory.Note{},
		Measures: []theory.Measure{},
	}
	if total == 0 {
		return melody, nil
	}

	degrees := g.scale.Degrees()
	degree := startDegrees[g.rng.IntN(len(startDegrees))]

	var current theory.Measure
	var running theory.Duration

	for i := 0; i < total; i++ {
		durations := []theory.Duration{theory.Quarter}
		if g.rng.Float64() >= quarterProbability {
			durations = []theory.Duration{theory.Eighth, theory.Eighth}
		}

		degree = wrapDegree(degree + g.motif[i%len(g.motif)])
		pitch := degrees[degree]

		for _, d := range durations {
			if running+d > theory.Whole {
				melody.Measures = append(melody.Measures, current)
				current = nil
				running = 0
			}
			current = append(current, theory.Note{Pitch: pitch, Octave: theory.DefaultOctave, Duration: d})
			running += d
		}
	}
	if len(current) > 0 {
		melody.Measures = append(melody.Measures, current)
	}

	g.applyCadence(melody.Measures)
	melody.Notes = theory.Flatten(melody.Measures)

	return melody, nil
}

// applyCadence makes the final note a tonic quarter. A full last measure gives
// up its final note to the tonic. Otherwise trailing notes are dropped until a
// quarter fits, so a measure ending q q q e loses its eighth. The last syllable
// can lose its notes this way; no measure ever exceeds a whole note.
func (g *Generator) applyCadence(measures []theory.Measure) {
	if len(measures) == 0 {
		return
	}

	last := measures[len(measures)-1]
	if last.Duration() >= theory.Whole {
		last = last[:len(last)-1]
	}
	for len(last) > 0 && last.Duration()+theory.Quarter > theory.Whole {
		last = last[:len(last)-1]
	}

	tonic := theory.Note{Pitch: g.scale.Root, Octave: theory.DefaultOctave, Duration: theory.Quarter}
	measures[len(measures)-1] = append(last, tonic)
}

// wrapDegree reduces a 0-based degree index into [0,7)
func wrapDegree(d int) int {
	return ((d % theory.DegreeCount) + theory.DegreeCount) % theory.DegreeCount
}

// Generate builds a generator for scale and runs it once over syllableCounts
func Generate(scale theory.Scale, syllableCounts []int, opts ...Option) (Melody, error) {
	g, err := New(scale, opts...)
	if err != nil {
		return Melody{}, err
	}
	return g.Generate(syllableCounts)
}
