package config

import (
	"strconv"
	"strings"

	"github.com/matzehuels/framegrid/pkg/core/frameset"
	"github.com/matzehuels/framegrid/pkg/errors"
)

// ParseLengths parses a comma separated track list such as "80,25%,*,2*".
// Whitespace is ignored. An empty list yields nil, which lays out as a single
// track spanning the axis.
func ParseLengths(s string) ([]frameset.Length, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	items := strings.Split(s, ",")
	out := make([]frameset.Length, 0, len(items))
	for _, item := range items {
		l, err := parseLength(strings.Join(strings.Fields(item), ""))
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func parseLength(item string) (frameset.Length, error) {
	if item == "" {
		return frameset.Length{}, errors.New(errors.ErrCodeInvalidTrack, "empty track length")
	}

	kind := frameset.Fixed
	digits := item
	switch {
	case strings.HasSuffix(item, "%"):
		kind = frameset.Percent
		digits = strings.TrimSuffix(item, "%")
	case strings.HasSuffix(item, "*"):
		kind = frameset.Relative
		digits = strings.TrimSuffix(item, "*")
		if digits == "" {
			return frameset.Star(1), nil
		}
	}

	v, err := strconv.Atoi(digits)
	if err != nil || strings.HasPrefix(digits, "+") {
		return frameset.Length{}, errors.New(errors.ErrCodeInvalidTrack, "invalid track length %q", item)
	}
	if v < 0 {
		return frameset.Length{}, errors.New(errors.ErrCodeInvalidTrack, "negative track length %q", item)
	}
	if v > frameset.MaxLength {
		return frameset.Length{}, errors.New(errors.ErrCodeInvalidTrack, "track length %q exceeds %d", item, frameset.MaxLength)
	}
	return frameset.Length{Kind: kind, Value: v}, nil
}

// FormatLengths is the inverse of ParseLengths.
func FormatLengths(ls []frameset.Length) string {
	parts := make([]string, len(ls))
	for i, l := range ls {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}
