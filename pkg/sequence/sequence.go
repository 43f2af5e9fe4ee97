// Package sequence assembles ordered musical event sequences and renders
// them to standard MIDI files for inspection or playback.
package sequence

import (
	"github.com/soundfold/cmajor/pkg/scale"
)

// Quarter is the tick duration of a quarter note at the package's fixed
// resolution of 480 ticks per quarter.
const Quarter uint32 = 480

// Note is a single sounded note. Beat positions the note start in
// quarter notes from the sequence start; Duration is in ticks.
type Note struct {
	Beat     int
	Pitch    scale.Pitch
	Velocity uint8
	Duration uint32
}

// Sequence is an ordered set of notes plus the header events (key
// signature, tempo, program assignment) that precede them.
type Sequence struct {
	Key      scale.PitchClass // key signature root, major
	TempoBPM float64
	Program  uint8 // General MIDI program, 0 = Acoustic Grand Piano
	Channel  uint8
	Notes    []Note
}

// Builder assembles a Sequence incrementally. The zero builder produces
// a C-major, 120 BPM, piano sequence.
type Builder struct {
	seq Sequence
}

// NewBuilder returns a Builder with the default header: C major key
// signature, 120 BPM, Acoustic Grand Piano on channel 0.
func NewBuilder() *Builder {
	return &Builder{seq: Sequence{
		Key:      0,
		TempoBPM: 120,
		Program:  0,
		Channel:  0,
	}}
}

// Key sets the key signature root (major).
func (b *Builder) Key(root scale.PitchClass) *Builder {
	b.seq.Key = root
	return b
}

// Tempo sets the tempo in beats per minute.
func (b *Builder) Tempo(bpm float64) *Builder {
	b.seq.TempoBPM = bpm
	return b
}

// Program sets the General MIDI program for the sequence's channel.
func (b *Builder) Program(p uint8) *Builder {
	b.seq.Program = p
	return b
}

// AddNote appends a single note starting at the given beat.
func (b *Builder) AddNote(beat int, pitch scale.Pitch, velocity uint8, duration uint32) *Builder {
	b.seq.Notes = append(b.seq.Notes, Note{Beat: beat, Pitch: pitch, Velocity: velocity, Duration: duration})
	return b
}

// AddChord appends one note per pitch, all starting at the same beat.
func (b *Builder) AddChord(beat int, pitches []scale.Pitch, velocity uint8, duration uint32) *Builder {
	for _, p := range pitches {
		b.AddNote(beat, p, velocity, duration)
	}
	return b
}

// Build returns the assembled sequence.
func (b *Builder) Build() Sequence {
	return b.seq
}

// CMajorDemo is the fixed demonstration sequence: a C - F - G - C chord
// progression of quarter notes on piano, one chord per beat.
func CMajorDemo() Sequence {
	progression := [][]scale.Pitch{
		{60, 64, 67}, // C major (C4 E4 G4)
		{65, 69, 72}, // F major (F4 A4 C5)
		{67, 71, 74}, // G major (G4 B4 D5)
		{60, 64, 67}, // C major again
	}
	b := NewBuilder()
	for beat, chord := range progression {
		b.AddChord(beat, chord, 80, Quarter)
	}
	return b.Build()
}

// VerifyScale is the fixed verification sequence: one octave of the C
// major scale ascending from C4 to C5.
func VerifyScale() Sequence {
	run := []scale.Pitch{60, 62, 64, 65, 67, 69, 71, 72}
	b := NewBuilder()
	for beat, p := range run {
		b.AddNote(beat, p, 64, Quarter)
	}
	return b.Build()
}

// InScale reports whether every note in the sequence is allowed by the
// filter, returning the first offending note if not.
func (s Sequence) InScale(f *scale.Filter) (bool, *Note) {
	for i := range s.Notes {
		if !f.Allows(s.Notes[i].Pitch) {
			return false, &s.Notes[i]
		}
	}
	return true, nil
}
