package config

import (
	"slices"
	"testing"

	"github.com/matzehuels/framegrid/pkg/core/frameset"
	"github.com/matzehuels/framegrid/pkg/errors"
)

func TestParseLengths(t *testing.T) {
	tests := []struct {
		input string
		want  []frameset.Length
	}{
		{"", nil},
		{"   ", nil},
		{"100", []frameset.Length{frameset.Px(100)}},
		{"25%", []frameset.Length{frameset.Pct(25)}},
		{"*", []frameset.Length{frameset.Star(1)}},
		{"3*", []frameset.Length{frameset.Star(3)}},
		{"0*", []frameset.Length{frameset.Star(0)}},
		{"1073741824", []frameset.Length{frameset.Px(frameset.MaxLength)}},
		{"80, 25% ,*,2 *", []frameset.Length{frameset.Px(80), frameset.Pct(25), frameset.Star(1), frameset.Star(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLengths(tt.input)
			if err != nil {
				t.Fatalf("ParseLengths(%q) error: %v", tt.input, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseLengths(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLengthsInvalid(t *testing.T) {
	for _, input := range []string{"-5", "50,,*", "abc", "10px", "5.5%", "+3", "%", "*%", "1,", "1073741825", "4611686018427387904%", "99999999999999999999*"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseLengths(input)
			if !errors.Is(err, errors.ErrCodeInvalidTrack) {
				t.Errorf("ParseLengths(%q) error = %v, want INVALID_TRACK", input, err)
			}
		})
	}
}

func TestFormatLengthsRoundTrip(t *testing.T) {
	for _, input := range []string{"80,25%,*,2*", "100", "*,*,*"} {
		ls, err := ParseLengths(input)
		if err != nil {
			t.Fatal(err)
		}
		if got := FormatLengths(ls); got != input {
			t.Errorf("FormatLengths(ParseLengths(%q)) = %q", input, got)
		}
	}
}
