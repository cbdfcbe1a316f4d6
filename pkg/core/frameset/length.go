package frameset

import "strconv"

// LengthKind selects how a track length is resolved against the available space.
type LengthKind uint8

const (
	// Fixed tracks request an absolute number of pixels.
	Fixed LengthKind = iota
	// Percent tracks request a percentage of the available length.
	Percent
	// Relative tracks share whatever is left, weighted by their value.
	Relative
)

// String returns the lowercase name of the kind.
func (k LengthKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Percent:
		return "percent"
	case Relative:
		return "relative"
	default:
		return "unknown"
	}
}

// MaxLength bounds track values and available lengths. AllocateTracks clamps
// larger inputs so its intermediate products cannot overflow.
const MaxLength = 1 << 30

// Length is the specification of a single row or column track.
type Length struct {
	Kind  LengthKind
	Value int
}

// Px returns a Fixed track of v pixels.
func Px(v int) Length { return Length{Kind: Fixed, Value: v} }

// Pct returns a Percent track of v percent.
func Pct(v int) Length { return Length{Kind: Percent, Value: v} }

// Star returns a Relative track with weight v. Weights below 1 count as 1.
func Star(v int) Length { return Length{Kind: Relative, Value: v} }

// String formats the length using the frameset list syntax ("100", "25%", "2*").
func (l Length) String() string {
	switch l.Kind {
	case Percent:
		return strconv.Itoa(l.Value) + "%"
	case Relative:
		if l.Value <= 1 {
			return "*"
		}
		return strconv.Itoa(l.Value) + "*"
	default:
		return strconv.Itoa(l.Value)
	}
}

// weight is the effective share of a Relative track.
func (l Length) weight() int { return min(max(l.Value, 1), MaxLength) }

// trackCount is the number of tracks a spec list produces. An empty list
// still yields one implicit track spanning the whole axis.
func trackCount(specs []Length) int {
	return max(len(specs), 1)
}
