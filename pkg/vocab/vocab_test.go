package vocab

import (
	"errors"
	"testing"

	"github.com/soundfold/cmajor/pkg/scale"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name       string
		firstToken TokenID
		size       int
		wantErr    bool
	}{
		{"full range", 0, 128, false},
		{"offset base", 3435, 128, false},
		{"single token", 0, 1, false},
		{"zero size", 0, 0, true},
		{"too large", 0, 129, true},
		{"negative base", -1, 128, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.firstToken, tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%d, %d) error = %v, wantErr %v", tt.firstToken, tt.size, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, scale.ErrConfig) {
				t.Errorf("New(%d, %d) error = %v, want ErrConfig", tt.firstToken, tt.size, err)
			}
		})
	}
}

func TestTokenPitchMapping(t *testing.T) {
	v := Full(100)

	if got := v.Len(); got != 128 {
		t.Fatalf("Len() = %d, want 128", got)
	}

	p, ok := v.PitchFor(160)
	if !ok || p != 60 {
		t.Errorf("PitchFor(160) = %d, %v, want 60, true", p, ok)
	}
	if _, ok := v.PitchFor(99); ok {
		t.Error("PitchFor(99) should be out of vocabulary")
	}
	if _, ok := v.PitchFor(228); ok {
		t.Error("PitchFor(228) should be out of vocabulary")
	}

	tok, ok := v.TokenFor(60)
	if !ok || tok != 160 {
		t.Errorf("TokenFor(60) = %d, %v, want 160, true", tok, ok)
	}

	small, err := New(0, 12)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := small.TokenFor(12); ok {
		t.Error("TokenFor(12) should not be representable in a 12-token vocabulary")
	}
}

func TestFilterSoundAndComplete(t *testing.T) {
	f, err := scale.NewFilter(scale.CMajor)
	if err != nil {
		t.Fatal(err)
	}
	v := Full(0)
	kept := v.Filter(f)

	// Soundness: every kept token maps to an allowed pitch.
	for _, tok := range kept {
		p, ok := v.PitchFor(tok)
		if !ok {
			t.Fatalf("filtered token %d not in vocabulary", tok)
		}
		if !f.Allows(p) {
			t.Errorf("filtered token %d (pitch %d) not allowed by filter", tok, p)
		}
	}

	// Completeness: every allowed pitch's token is kept.
	keptSet := make(map[TokenID]bool, len(kept))
	for _, tok := range kept {
		keptSet[tok] = true
	}
	for p := 0; p <= int(scale.MaxPitch); p++ {
		tok, _ := v.TokenFor(scale.Pitch(p))
		if f.Allows(scale.Pitch(p)) != keptSet[tok] {
			t.Errorf("pitch %d: Allows = %v but kept = %v", p, f.Allows(scale.Pitch(p)), keptSet[tok])
		}
	}

	if len(kept) != 75 {
		t.Errorf("len(kept) = %d, want 75 for C major over 128 pitches", len(kept))
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	f, err := scale.NewRangedFilter(scale.CMajor, &scale.RangeC2C7)
	if err != nil {
		t.Fatal(err)
	}
	v := Full(500)
	kept := v.Filter(f)

	if len(kept) == 0 {
		t.Fatal("expected non-empty filtered vocabulary")
	}
	for i := 1; i < len(kept); i++ {
		if kept[i] <= kept[i-1] {
			t.Fatalf("filtered tokens not strictly ascending at %d: %d then %d", i, kept[i-1], kept[i])
		}
	}
}

// Filtering the filtered set again with the same constraint changes nothing.
func TestFilterIdempotent(t *testing.T) {
	f, err := scale.NewRangedFilter(scale.CMajor, &scale.RangeC2C7)
	if err != nil {
		t.Fatal(err)
	}
	v := Full(0)
	once := v.Filter(f)

	var twice []TokenID
	for _, tok := range once {
		p, _ := v.PitchFor(tok)
		if f.Allows(p) {
			twice = append(twice, tok)
		}
	}

	if len(once) != len(twice) {
		t.Fatalf("second pass changed size: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("second pass changed token at %d: %d -> %d", i, once[i], twice[i])
		}
	}
}

func TestFilterEmptyResult(t *testing.T) {
	// A C#-only scale over a vocabulary holding only pitch 0 keeps nothing.
	csOnly, err := scale.New("C# only", 1)
	if err != nil {
		t.Fatal(err)
	}
	r := scale.Range{Low: 0, High: 0}
	f, err := scale.NewRangedFilter(csOnly, &r)
	if err != nil {
		t.Fatal(err)
	}
	v, err := New(0, 1)
	if err != nil {
		t.Fatal(err)
	}

	kept := v.Filter(f)
	if len(kept) != 0 {
		t.Errorf("Filter = %v, want empty result", kept)
	}
}

func TestReductionRatioOverVocabulary(t *testing.T) {
	f, err := scale.NewFilter(scale.CMajor)
	if err != nil {
		t.Fatal(err)
	}
	v := Full(0)
	kept := v.Filter(f)
	got := scale.ReductionRatio(v.Len(), len(kept))
	want := 1 - 75.0/128.0
	if got != want {
		t.Errorf("ReductionRatio = %v, want %v", got, want)
	}
}
