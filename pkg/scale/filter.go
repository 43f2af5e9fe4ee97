package scale

import "fmt"

// Range is an inclusive absolute-pitch window. It constrains which
// pitches are considered independent of pitch class.
type Range struct {
	Low  Pitch
	High Pitch
}

// RangeC2C7 spans C2..C7 (MIDI 24..96), a practical window for
// piano-centric generation.
var RangeC2C7 = Range{Low: 24, High: 96}

// Validate checks that the range bounds are ordered and within the MIDI
// pitch domain.
func (r Range) Validate() error {
	if !r.Low.Valid() || !r.High.Valid() {
		return fmt.Errorf("%w: range %d..%d outside MIDI pitch domain [0,127]", ErrConfig, r.Low, r.High)
	}
	if r.Low > r.High {
		return fmt.Errorf("%w: range low %d above high %d", ErrConfig, r.Low, r.High)
	}
	return nil
}

// Contains reports whether p falls inside the range.
func (r Range) Contains(p Pitch) bool {
	return p >= r.Low && p <= r.High
}

// Filter classifies pitches as in-scale or out-of-scale. It is an
// immutable value: construct once, then call Allows from any number of
// goroutines. A nil range means unbounded.
type Filter struct {
	scale Scale
	rng   *Range
}

// NewFilter creates a Filter for the given scale with no range constraint.
func NewFilter(s Scale) (*Filter, error) {
	return NewRangedFilter(s, nil)
}

// NewRangedFilter creates a Filter for the given scale, optionally
// constrained to an absolute pitch range. Malformed configuration is
// rejected here rather than surfacing as "nothing allowed" later.
func NewRangedFilter(s Scale, r *Range) (*Filter, error) {
	if s.Len() == 0 {
		return nil, fmt.Errorf("%w: empty scale", ErrConfig)
	}
	if r != nil {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		rc := *r
		return &Filter{scale: s, rng: &rc}, nil
	}
	return &Filter{scale: s}, nil
}

// Scale returns the filter's scale.
func (f *Filter) Scale() Scale { return f.scale }

// Range returns the filter's range and whether one is set.
func (f *Filter) Range() (Range, bool) {
	if f.rng == nil {
		return Range{}, false
	}
	return *f.rng, true
}

// Allows reports whether the pitch is permitted: its pitch class must be
// in the scale and, if a range is set, the pitch must fall inside it.
// Pure function, no side effects. The caller is responsible for p being
// a valid MIDI pitch.
func (f *Filter) Allows(p Pitch) bool {
	if !f.scale.Contains(p.Class()) {
		return false
	}
	if f.rng != nil && !f.rng.Contains(p) {
		return false
	}
	return true
}

// AllowedPitches enumerates every permitted pitch in the full MIDI
// domain, ascending.
func (f *Filter) AllowedPitches() []Pitch {
	var out []Pitch
	for p := 0; p <= int(MaxPitch); p++ {
		if f.Allows(Pitch(p)) {
			out = append(out, Pitch(p))
		}
	}
	return out
}

// ReductionRatio is the fraction of a vocabulary excluded by a filter:
// 1 - kept/total. Returns 0 for an empty vocabulary.
func ReductionRatio(total, kept int) float64 {
	if total <= 0 {
		return 0
	}
	return 1 - float64(kept)/float64(total)
}
