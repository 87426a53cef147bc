package playback

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/james-see/lyrictune/pkg/theory"
)

// TextPlayer simulates playback by describing each measure. It stands in
// for an audio device.
type TextPlayer struct {
	out io.Writer

	// Realtime makes Play wait for each measure's musical length
	Realtime bool
}

// NewTextPlayer creates a TextPlayer writing to out
func NewTextPlayer(out io.Writer) *TextPlayer {
	return &TextPlayer{out: out}
}

// Play writes the arrangement measure by measure
func (p *TextPlayer) Play(ctx context.Context, arr Arrangement) error {
	if err := arr.Validate(); err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Playing music with '%s' accompaniment at %g BPM\n", arr.Style, arr.Tempo)

	for i, measure := range arr.Measures {
		chord := arr.Chords[i]
		fmt.Fprintf(p.out, "Measure %d:\n", i+1)

		switch arr.Style {
		case Arpeggio:
			fmt.Fprintf(p.out, "  (Arpeggiating chord: %s -> %s)\n", chord, joinPitches(ArpeggioBeats(measure, chord)))
		default:
			fmt.Fprintf(p.out, "  (Strumming chord: %s)\n", chord)
		}
		for _, note := range measure {
			fmt.Fprintf(p.out, "  (Playing note: %s%d for %gs)\n", note.Pitch, note.Octave, noteSeconds(arr, note.Duration))
		}

		if p.Realtime {
			if err := wait(ctx, measureLength(arr, measure)); err != nil {
				fmt.Fprintln(p.out, "Playback stopped.")
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}

func measureLength(arr Arrangement, m theory.Measure) time.Duration {
	return time.Duration(noteSeconds(arr, m.Duration()) * float64(time.Second))
}

// noteSeconds converts a duration in whole measures to seconds
func noteSeconds(arr Arrangement, d theory.Duration) float64 {
	return float64(d) * beatsPerMeasure * arr.BeatSeconds()
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func joinPitches(pcs []theory.PitchClass) string {
	names := make([]string, len(pcs))
	for i, pc := range pcs {
		names[i] = pc.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}
