package playback

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/james-see/lyrictune/pkg/theory"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDI channel and voice layout
const (
	melodyChannel         = 0
	accompanimentChannel  = 1
	accompanimentOctave   = 3
	melodyVelocity        = 100
	accompanimentVelocity = 72

	programPiano       = 0
	programNylonGuitar = 24
)

// MIDIRenderer writes arrangements as Standard MIDI Files
type MIDIRenderer struct {
	ticksPerQuarter uint16
}

// NewMIDIRenderer creates a renderer with 480 ticks per quarter note
func NewMIDIRenderer() *MIDIRenderer {
	return &MIDIRenderer{
		ticksPerQuarter: 480,
	}
}

// NoteEvent is a note read back from a MIDI file
type NoteEvent struct {
	Track    int    `json:"track"`
	Channel  uint8  `json:"channel"`
	Key      uint8  `json:"key"`
	Velocity uint8  `json:"velocity"`
	Start    uint32 `json:"start"`
	Length   uint32 `json:"length"`
}

// timedMessage is a message at an absolute tick
type timedMessage struct {
	tick uint32
	msg  []byte
	off  bool
}

// ticks converts a duration in whole measures to MIDI ticks
func (r *MIDIRenderer) ticks(d theory.Duration) uint32 {
	return uint32(float64(d) * beatsPerMeasure * float64(r.ticksPerQuarter))
}

// Render creates a two-track MIDI file: melody on channel 0, accompaniment on channel 1
func (r *MIDIRenderer) Render(arr Arrangement) ([]byte, error) {
	if err := arr.Validate(); err != nil {
		return nil, err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(r.ticksPerQuarter)

	var melodyEvents, accompEvents []timedMessage
	var measureStart uint32

	for i, measure := range arr.Measures {
		tick := measureStart
		for _, note := range measure {
			key := uint8(note.MIDIKey())
			length := r.ticks(note.Duration)
			melodyEvents = append(melodyEvents,
				timedMessage{tick: tick, msg: midi.NoteOn(melodyChannel, key, melodyVelocity)},
				timedMessage{tick: tick + length, msg: midi.NoteOff(melodyChannel, key), off: true},
			)
			tick += length
		}

		measureTicks := r.ticks(measure.Duration())
		chord := arr.Chords[i]

		switch arr.Style {
		case Arpeggio:
			beat := r.ticks(theory.Quarter)
			for j, pc := range ArpeggioBeats(measure, chord) {
				key := accompanimentKey(pc)
				on := measureStart + uint32(j)*beat
				accompEvents = append(accompEvents,
					timedMessage{tick: on, msg: midi.NoteOn(accompanimentChannel, key, accompanimentVelocity)},
					timedMessage{tick: on + beat, msg: midi.NoteOff(accompanimentChannel, key), off: true},
				)
			}
		default:
			for _, pc := range chord.Tones() {
				key := accompanimentKey(pc)
				accompEvents = append(accompEvents,
					timedMessage{tick: measureStart, msg: midi.NoteOn(accompanimentChannel, key, accompanimentVelocity)},
					timedMessage{tick: measureStart + measureTicks, msg: midi.NoteOff(accompanimentChannel, key), off: true},
				)
			}
		}

		measureStart += measureTicks
	}

	var melodyTrack smf.Track
	melodyTrack.Add(0, smf.MetaTrackSequenceName("Melody"))
	melodyTrack.Add(0, smf.MetaTempo(arr.Tempo))
	melodyTrack.Add(0, smf.MetaMeter(beatsPerMeasure, 4))
	melodyTrack.Add(0, midi.ProgramChange(melodyChannel, programPiano))
	addTimed(&melodyTrack, melodyEvents, measureStart)

	var accompTrack smf.Track
	accompTrack.Add(0, smf.MetaTrackSequenceName("Accompaniment "+arr.Style.String()))
	accompTrack.Add(0, midi.ProgramChange(accompanimentChannel, programNylonGuitar))
	addTimed(&accompTrack, accompEvents, measureStart)

	for _, track := range []smf.Track{melodyTrack, accompTrack} {
		if err := s.Add(track); err != nil {
			return nil, fmt.Errorf("failed to add track: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteMIDIFile renders arr and writes it to filename
func (r *MIDIRenderer) WriteMIDIFile(arr Arrangement, filename string) error {
	data, err := r.Render(arr)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// addTimed sorts events by tick, note-offs first, and closes the track at end
func addTimed(track *smf.Track, events []timedMessage, end uint32) {
	slices.SortStableFunc(events, func(a, b timedMessage) int {
		if a.tick != b.tick {
			if a.tick < b.tick {
				return -1
			}
			return 1
		}
		switch {
		case a.off && !b.off:
			return -1
		case !a.off && b.off:
			return 1
		}
		return 0
	})

	var current uint32
	for _, ev := range events {
		track.Add(ev.tick-current, ev.msg)
		current = ev.tick
	}
	var tail uint32
	if end > current {
		tail = end - current
	}
	track.Close(tail)
}

func accompanimentKey(pc theory.PitchClass) uint8 {
	return uint8((accompanimentOctave+1)*12 + pc.Index())
}

// ParseMIDI reads note events and the tempo from MIDI data
func ParseMIDI(data []byte) ([]NoteEvent, float64, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	tempo := DefaultTempo
	var notes []NoteEvent

	for trackIndex, track := range s.Tracks {
		// open notes keyed by channel<<8 | key
		open := map[uint16]int{}
		var currentTick uint32

		for _, ev := range track {
			currentTick += ev.Delta
			msg := ev.Message

			// Tempo meta message (FF 51 03 tt tt tt)
			if len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 {
				microsecondsPerBeat := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
				if microsecondsPerBeat > 0 {
					tempo = 60000000.0 / float64(microsecondsPerBeat)
				}
				continue
			}

			if len(msg) < 3 {
				continue
			}
			status := msg[0] & 0xF0
			channel := msg[0] & 0x0F
			key := msg[1]
			velocity := msg[2]
			id := uint16(channel)<<8 | uint16(key)

			switch {
			case status == 0x90 && velocity > 0:
				open[id] = len(notes)
				notes = append(notes, NoteEvent{
					Track:    trackIndex,
					Channel:  channel,
					Key:      key,
					Velocity: velocity,
					Start:    currentTick,
				})
			case status == 0x80 || (status == 0x90 && velocity == 0):
				if idx, ok := open[id]; ok {
					notes[idx].Length = currentTick - notes[idx].Start
					delete(open, id)
				}
			}
		}
	}

	if len(notes) == 0 {
		return nil, tempo, errors.New("no notes found in MIDI data")
	}
	return notes, tempo, nil
}
