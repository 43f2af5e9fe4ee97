package scale

import (
	"errors"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		classes []PitchClass
		wantErr bool
	}{
		{"C major", []PitchClass{0, 2, 4, 5, 7, 9, 11}, false},
		{"single class", []PitchClass{1}, false},
		{"empty", nil, true},
		{"class out of range", []PitchClass{0, 12}, true},
		{"duplicate class", []PitchClass{0, 4, 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.name, tt.classes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%v) error = %v, wantErr %v", tt.classes, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrConfig) {
				t.Errorf("New(%v) error = %v, want ErrConfig", tt.classes, err)
			}
		})
	}
}

func TestCMajorClasses(t *testing.T) {
	want := []PitchClass{0, 2, 4, 5, 7, 9, 11}
	got := CMajor.Classes()
	if len(got) != len(want) {
		t.Fatalf("CMajor.Classes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CMajor.Classes()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestParseClass(t *testing.T) {
	tests := []struct {
		in      string
		want    PitchClass
		wantErr bool
	}{
		{"C", 0, false},
		{"c", 0, false},
		{"C#", 1, false},
		{"Db", 1, false},
		{"Bb", 10, false},
		{"Cb", 11, false},
		{"B#", 0, false},
		{"", 0, true},
		{"H", 0, true},
		{"Cx", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClass(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClass(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseClass(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestPitchName(t *testing.T) {
	tests := []struct {
		pitch Pitch
		want  string
	}{
		{0, "C-1"},
		{24, "C1"},
		{60, "C4"},
		{61, "C#4"},
		{96, "C7"},
		{127, "G9"},
	}

	for _, tt := range tests {
		if got := tt.pitch.Name(); got != tt.want {
			t.Errorf("Pitch(%d).Name() = %q, want %q", tt.pitch, got, tt.want)
		}
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		in      string
		want    []PitchClass
		wantErr bool
	}{
		{"C major", []PitchClass{0, 2, 4, 5, 7, 9, 11}, false},
		{"C", []PitchClass{0, 2, 4, 5, 7, 9, 11}, false},
		{"A minor", []PitchClass{0, 2, 4, 5, 7, 9, 11}, false}, // relative minor, same set
		{"Eb blues", nil, false},
		{"C dorian", nil, true},
		{"", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, err := ByName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ByName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil || tt.want == nil {
				return
			}
			got := s.Classes()
			if len(got) != len(tt.want) {
				t.Fatalf("ByName(%q).Classes() = %v, want %v", tt.in, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ByName(%q).Classes()[%d] = %d, want %d", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFilterAllows(t *testing.T) {
	unranged, err := NewFilter(CMajor)
	if err != nil {
		t.Fatalf("NewFilter(CMajor) error = %v", err)
	}
	r := RangeC2C7
	ranged, err := NewRangedFilter(CMajor, &r)
	if err != nil {
		t.Fatalf("NewRangedFilter(CMajor, 24..96) error = %v", err)
	}

	tests := []struct {
		name   string
		filter *Filter
		pitch  Pitch
		want   bool
	}{
		{"C4 in C major", unranged, 60, true},
		{"C#4 not in C major", unranged, 61, false},
		{"low C allowed unranged", unranged, 0, true},
		{"C7 at range ceiling", ranged, 96, true},
		{"C#7 out of scale and range", ranged, 97, false},
		{"D7 in scale but above range", ranged, 98, false},
		{"C0 in scale but below range", ranged, 12, false},
		{"C2 at range floor", ranged, 24, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Allows(tt.pitch); got != tt.want {
				t.Errorf("Allows(%d) = %v, want %v", tt.pitch, got, tt.want)
			}
		})
	}
}

// Pitch-class correctness: without a range, Allows must agree with plain
// mod-12 membership across the whole MIDI domain.
func TestFilterMatchesPitchClassMembership(t *testing.T) {
	f, err := NewFilter(CMajor)
	if err != nil {
		t.Fatal(err)
	}
	for p := 0; p <= int(MaxPitch); p++ {
		want := CMajor.Contains(PitchClass(p % 12))
		if got := f.Allows(Pitch(p)); got != want {
			t.Errorf("Allows(%d) = %v, want %v", p, got, want)
		}
	}
}

func TestAllowedPitchCount(t *testing.T) {
	f, err := NewFilter(CMajor)
	if err != nil {
		t.Fatal(err)
	}
	// Direct enumeration of pitches 0..127 with class in C major gives 75.
	if got := len(f.AllowedPitches()); got != 75 {
		t.Errorf("len(AllowedPitches()) = %d, want 75", got)
	}
}

func TestMalformedRange(t *testing.T) {
	r := Range{Low: 90, High: 80}
	_, err := NewRangedFilter(CMajor, &r)
	if err == nil {
		t.Fatal("NewRangedFilter with low > high should fail, got nil error")
	}
	if !errors.Is(err, ErrConfig) {
		t.Errorf("error = %v, want ErrConfig", err)
	}
}

func TestEmptyScaleFilter(t *testing.T) {
	if _, err := NewFilter(Scale{}); !errors.Is(err, ErrConfig) {
		t.Errorf("NewFilter(zero scale) error = %v, want ErrConfig", err)
	}
}

func TestReductionRatio(t *testing.T) {
	tests := []struct {
		total, kept int
		want        float64
	}{
		{128, 75, 1 - 75.0/128.0},
		{128, 0, 1},
		{128, 128, 0},
		{0, 0, 0},
	}

	for _, tt := range tests {
		if got := ReductionRatio(tt.total, tt.kept); got != tt.want {
			t.Errorf("ReductionRatio(%d, %d) = %v, want %v", tt.total, tt.kept, got, tt.want)
		}
	}
}
