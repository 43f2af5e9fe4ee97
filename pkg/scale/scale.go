// Package scale implements pitch-class scale constraints for
// scale-constrained music generation.
package scale

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// PitchClass is a note identity independent of octave: 0=C, 1=C#, ... 11=B.
type PitchClass uint8

// Pitch is an absolute MIDI note number in [0, 127].
type Pitch uint8

const (
	// MaxPitch is the highest valid MIDI pitch.
	MaxPitch Pitch = 127

	// MaxPitchClass is the highest valid pitch class.
	MaxPitchClass PitchClass = 11

	classesPerOctave = 12
)

// ErrConfig indicates an invalid scale or range configuration. It is
// reported at construction time and never silently coerced.
var ErrConfig = errors.New("invalid configuration")

var noteNames = [classesPerOctave]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// Class returns the pitch class of p.
func (p Pitch) Class() PitchClass {
	return PitchClass(p % classesPerOctave)
}

// Valid reports whether p is a valid MIDI pitch.
func (p Pitch) Valid() bool {
	return p <= MaxPitch
}

// Name returns the note name with octave, e.g. "C4" for pitch 60.
// MIDI octave numbering puts middle C (60) in octave 4.
func (p Pitch) Name() string {
	return fmt.Sprintf("%s%d", noteNames[p.Class()], int(p)/classesPerOctave-1)
}

// Name returns the note name of the pitch class, e.g. "C#" for 1.
func (c PitchClass) Name() string {
	if c > MaxPitchClass {
		return fmt.Sprintf("?(%d)", c)
	}
	return noteNames[c]
}

// ParseClass parses a note name like "C", "F#" or "Bb" into a pitch class.
func ParseClass(name string) (PitchClass, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return 0, fmt.Errorf("%w: empty note name", ErrConfig)
	}
	base := strings.ToUpper(s[:1])
	var c int
	switch base {
	case "C":
		c = 0
	case "D":
		c = 2
	case "E":
		c = 4
	case "F":
		c = 5
	case "G":
		c = 7
	case "A":
		c = 9
	case "B":
		c = 11
	default:
		return 0, fmt.Errorf("%w: unknown note name %q", ErrConfig, name)
	}
	for _, mod := range s[1:] {
		switch mod {
		case '#', '♯':
			c++
		case 'b', '♭':
			c--
		default:
			return 0, fmt.Errorf("%w: unknown note name %q", ErrConfig, name)
		}
	}
	return PitchClass(((c % classesPerOctave) + classesPerOctave) % classesPerOctave), nil
}

// Scale is a validated, immutable set of permitted pitch classes.
type Scale struct {
	name    string
	member  [classesPerOctave]bool
	classes []PitchClass
}

// New creates a Scale from the given pitch classes. The set must be
// non-empty, with every class in [0, 11] and no duplicates.
func New(name string, classes ...PitchClass) (Scale, error) {
	if len(classes) == 0 {
		return Scale{}, fmt.Errorf("%w: scale %q has no pitch classes", ErrConfig, name)
	}
	var s Scale
	s.name = name
	for _, c := range classes {
		if c > MaxPitchClass {
			return Scale{}, fmt.Errorf("%w: pitch class %d out of range [0,11]", ErrConfig, c)
		}
		if s.member[c] {
			return Scale{}, fmt.Errorf("%w: duplicate pitch class %d in scale %q", ErrConfig, c, name)
		}
		s.member[c] = true
	}
	for c := PitchClass(0); c < classesPerOctave; c++ {
		if s.member[c] {
			s.classes = append(s.classes, c)
		}
	}
	return s, nil
}

// MustNew is like New but panics on invalid input. Intended for the
// package-level scale definitions below.
func MustNew(name string, classes ...PitchClass) Scale {
	s, err := New(name, classes...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the scale's display name.
func (s Scale) Name() string { return s.name }

// Contains reports whether the pitch class is in the scale.
func (s Scale) Contains(c PitchClass) bool {
	return c <= MaxPitchClass && s.member[c]
}

// Classes returns the scale's pitch classes in ascending order.
func (s Scale) Classes() []PitchClass {
	out := make([]PitchClass, len(s.classes))
	copy(out, s.classes)
	return out
}

// Len returns the number of pitch classes in the scale.
func (s Scale) Len() int { return len(s.classes) }

func (s Scale) String() string {
	names := make([]string, len(s.classes))
	for i, c := range s.classes {
		names[i] = c.Name()
	}
	return fmt.Sprintf("%s [%s]", s.name, strings.Join(names, " "))
}

// Interval patterns in semitones from the root.
var (
	majorIntervals      = []PitchClass{0, 2, 4, 5, 7, 9, 11}
	minorIntervals      = []PitchClass{0, 2, 3, 5, 7, 8, 10}
	pentatonicIntervals = []PitchClass{0, 2, 4, 7, 9}
	bluesIntervals      = []PitchClass{0, 3, 5, 6, 7, 10}
)

// CMajor is the default scale for generation: C D E F G A B.
var CMajor = MustNew("C major", majorIntervals...)

// Build constructs a scale from a root pitch class and interval pattern.
func Build(name string, root PitchClass, intervals []PitchClass) (Scale, error) {
	if root > MaxPitchClass {
		return Scale{}, fmt.Errorf("%w: root pitch class %d out of range [0,11]", ErrConfig, root)
	}
	classes := make([]PitchClass, len(intervals))
	for i, iv := range intervals {
		classes[i] = PitchClass((uint8(root) + uint8(iv)) % classesPerOctave)
	}
	return New(name, classes...)
}

// Major returns the major scale rooted at the given pitch class.
func Major(root PitchClass) (Scale, error) {
	return Build(root.Name()+" major", root, majorIntervals)
}

// NaturalMinor returns the natural minor scale rooted at the given pitch class.
func NaturalMinor(root PitchClass) (Scale, error) {
	return Build(root.Name()+" minor", root, minorIntervals)
}

// MajorPentatonic returns the major pentatonic scale rooted at the given
// pitch class.
func MajorPentatonic(root PitchClass) (Scale, error) {
	return Build(root.Name()+" major pentatonic", root, pentatonicIntervals)
}

// Blues returns the blues scale rooted at the given pitch class.
func Blues(root PitchClass) (Scale, error) {
	return Build(root.Name()+" blues", root, bluesIntervals)
}

// ByName looks up a scale by a name of the form "<root> <kind>", e.g.
// "C major", "A minor", "Eb blues". A bare root ("C") means major.
func ByName(name string) (Scale, error) {
	fields := strings.Fields(strings.TrimSpace(name))
	if len(fields) == 0 {
		return Scale{}, fmt.Errorf("%w: empty scale name", ErrConfig)
	}
	root, err := ParseClass(fields[0])
	if err != nil {
		return Scale{}, err
	}
	kind := "major"
	if len(fields) > 1 {
		kind = strings.ToLower(strings.Join(fields[1:], " "))
	}
	switch kind {
	case "major":
		return Major(root)
	case "minor", "natural minor":
		return NaturalMinor(root)
	case "major pentatonic", "pentatonic":
		return MajorPentatonic(root)
	case "blues":
		return Blues(root)
	default:
		return Scale{}, fmt.Errorf("%w: unknown scale kind %q", ErrConfig, kind)
	}
}

// KnownScaleNames lists the scale names ByName accepts, for one root,
// sorted for stable display.
func KnownScaleNames() []string {
	names := []string{"major", "minor", "major pentatonic", "blues"}
	sort.Strings(names)
	return names
}
