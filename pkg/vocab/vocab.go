// Package vocab models the pitch-token vocabulary exposed by a MIDI
// tokenizer: an ordered run of token identifiers where index i maps to
// MIDI pitch i. The vocabulary is an explicit value owned by the caller,
// not a process-wide singleton.
package vocab

import (
	"fmt"

	"github.com/soundfold/cmajor/pkg/scale"
)

// TokenID identifies a single token in a tokenizer's vocabulary.
type TokenID int

// Vocabulary is an ordered, gap-free block of pitch tokens. Token
// firstToken+i corresponds to pitch i; the conventional base pitch is 0,
// the lowest representable MIDI pitch. Read-only after construction.
type Vocabulary struct {
	firstToken TokenID
	size       int
}

// New creates a Vocabulary of size consecutive pitch tokens starting at
// firstToken. Size must be in [1, 128] so every index maps to a valid
// MIDI pitch.
func New(firstToken TokenID, size int) (*Vocabulary, error) {
	if firstToken < 0 {
		return nil, fmt.Errorf("%w: first token %d is negative", scale.ErrConfig, firstToken)
	}
	if size < 1 || size > int(scale.MaxPitch)+1 {
		return nil, fmt.Errorf("%w: vocabulary size %d outside [1,128]", scale.ErrConfig, size)
	}
	return &Vocabulary{firstToken: firstToken, size: size}, nil
}

// Full returns the conventional 128-token vocabulary covering the whole
// MIDI pitch domain, starting at firstToken.
func Full(firstToken TokenID) *Vocabulary {
	v, err := New(firstToken, int(scale.MaxPitch)+1)
	if err != nil {
		panic(err) // unreachable for a fixed valid size
	}
	return v
}

// Len returns the number of tokens in the vocabulary.
func (v *Vocabulary) Len() int { return v.size }

// Tokens returns all token IDs in vocabulary order (ascending pitch).
func (v *Vocabulary) Tokens() []TokenID {
	out := make([]TokenID, v.size)
	for i := range out {
		out[i] = v.firstToken + TokenID(i)
	}
	return out
}

// PitchFor maps a token back to its pitch. The second result is false if
// the token is outside the vocabulary.
func (v *Vocabulary) PitchFor(t TokenID) (scale.Pitch, bool) {
	i := int(t - v.firstToken)
	if i < 0 || i >= v.size {
		return 0, false
	}
	return scale.Pitch(i), true
}

// TokenFor maps a pitch to its token. The second result is false if the
// pitch is not representable in this vocabulary.
func (v *Vocabulary) TokenFor(p scale.Pitch) (TokenID, bool) {
	if int(p) >= v.size {
		return 0, false
	}
	return v.firstToken + TokenID(p), true
}

// Filter returns the tokens whose pitches the filter allows, preserving
// vocabulary order (ascending pitch). An empty result is a valid
// outcome, not an error: it means the constraint excludes every entry,
// and the sampling caller owns the fallback policy.
func (v *Vocabulary) Filter(f *scale.Filter) []TokenID {
	out := make([]TokenID, 0, v.size)
	for i := 0; i < v.size; i++ {
		if f.Allows(scale.Pitch(i)) {
			out = append(out, v.firstToken+TokenID(i))
		}
	}
	return out
}

// FilterPitches is Filter expressed in pitches rather than tokens,
// for display surfaces.
func (v *Vocabulary) FilterPitches(f *scale.Filter) []scale.Pitch {
	out := make([]scale.Pitch, 0, v.size)
	for i := 0; i < v.size; i++ {
		if f.Allows(scale.Pitch(i)) {
			out = append(out, scale.Pitch(i))
		}
	}
	return out
}
