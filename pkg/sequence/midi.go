package sequence

import (
	"bytes"
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/soundfold/cmajor/pkg/scale"
)

// DecodedNote is a sounded note recovered from a standard MIDI file.
type DecodedNote struct {
	Tick     int64
	Pitch    scale.Pitch
	Velocity uint8
}

// sharpsFor maps a major key root to its signed key signature count
// (positive = sharps, negative = flats). 7 is its own inverse mod 12.
func sharpsFor(root scale.PitchClass) int8 {
	s := (7 * int(root)) % 12
	if s > 6 {
		s -= 12
	}
	return int8(s)
}

// ToSMF renders the sequence as a single-track standard MIDI file at
// 480 ticks per quarter note.
func ToSMF(seq Sequence) ([]byte, error) {
	tempo := seq.TempoBPM
	if tempo <= 0 {
		tempo = 120
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(Quarter)

	var track smf.Track

	// Tempo meta event (FF 51 03)
	microsecondsPerBeat := uint32(60000000.0 / tempo)
	track.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))

	// Time signature 4/4 (FF 58 04)
	track.Add(0, smf.Message([]byte{0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08}))

	// Key signature, major (FF 59 02 sf mi)
	track.Add(0, smf.Message([]byte{0xFF, 0x59, 0x02, byte(sharpsFor(seq.Key)), 0x00}))

	track.Add(0, midi.ProgramChange(seq.Channel, seq.Program))

	// Flatten notes into absolute-tick on/off events, then emit deltas.
	// Note-offs sort before note-ons at the same tick so a chord ending
	// on a beat releases before the next chord sounds.
	type timedMsg struct {
		tick uint32
		off  bool
		msg  smf.Message
	}
	events := make([]timedMsg, 0, 2*len(seq.Notes))
	for _, n := range seq.Notes {
		if !n.Pitch.Valid() {
			return nil, fmt.Errorf("%w: note pitch %d outside MIDI domain", scale.ErrConfig, n.Pitch)
		}
		if n.Beat < 0 {
			return nil, fmt.Errorf("%w: note beat %d is negative", scale.ErrConfig, n.Beat)
		}
		velocity := n.Velocity
		if velocity == 0 {
			velocity = 100
		}
		duration := n.Duration
		if duration == 0 {
			duration = Quarter
		}
		start := uint32(n.Beat) * Quarter
		events = append(events,
			timedMsg{tick: start, msg: smf.Message(midi.NoteOn(seq.Channel, uint8(n.Pitch), velocity))},
			timedMsg{tick: start + duration, off: true, msg: smf.Message(midi.NoteOff(seq.Channel, uint8(n.Pitch)))},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var currentTick uint32
	for _, ev := range events {
		track.Add(ev.tick-currentTick, ev.msg)
		currentTick = ev.tick
	}

	track.Close(0)
	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses standard MIDI file data and returns every sounded note
// in file order. A note-on with velocity zero counts as a release, not
// a sounded note.
func Decode(data []byte) ([]DecodedNote, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	var notes []DecodedNote
	for _, track := range s.Tracks {
		var absTicks int64
		for _, ev := range track {
			absTicks += int64(ev.Delta)
			var channel, key, velocity uint8
			if ev.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0 {
				notes = append(notes, DecodedNote{
					Tick:     absTicks,
					Pitch:    scale.Pitch(key),
					Velocity: velocity,
				})
			}
		}
	}
	return notes, nil
}

// DecodedInScale reports whether every decoded note is allowed by the
// filter, returning the first offending note if not.
func DecodedInScale(notes []DecodedNote, f *scale.Filter) (bool, *DecodedNote) {
	for i := range notes {
		if !f.Allows(notes[i].Pitch) {
			return false, &notes[i]
		}
	}
	return true, nil
}
