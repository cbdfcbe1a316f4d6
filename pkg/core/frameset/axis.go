package frameset

// Axis names one orientation of a container's grid.
type Axis uint8

const (
	// AxisRows is the vertical axis; its tracks are rows and its coordinates are y values.
	AxisRows Axis = iota
	// AxisCols is the horizontal axis; its tracks are columns and its coordinates are x values.
	AxisCols
)

// String returns "rows" or "cols".
func (a Axis) String() string {
	if a == AxisCols {
		return "cols"
	}
	return "rows"
}

// noSplit marks an axis that is not being resized.
const noSplit = -1

// GridAxis holds the layout state of one axis of a container: resolved track
// sizes, interactive resize deltas, and per-boundary permissions.
//
// For N tracks there are N+1 boundaries. Boundary i lies between track i-1 and
// track i; boundaries 0 and N are the outer edges.
type GridAxis struct {
	sizes         []int
	deltas        []int
	preventResize []bool
	allowBorder   []bool

	splitBeingResized int
	grabOffset        int
}

// NewGridAxis allocates an axis for n tracks.
func NewGridAxis(n int) *GridAxis {
	a := &GridAxis{splitBeingResized: noSplit}
	a.ensure(n)
	return a
}

// ensure reallocates the axis arrays when the track count changes. Deltas are
// zeroed on reallocation and otherwise left alone.
func (a *GridAxis) ensure(n int) {
	if n < 0 {
		n = 0
	}
	if len(a.sizes) == n && len(a.allowBorder) == n+1 {
		return
	}
	a.sizes = make([]int, n)
	a.deltas = make([]int, n)
	a.preventResize = make([]bool, n+1)
	a.allowBorder = make([]bool, n+1)
	for i := range a.allowBorder {
		a.allowBorder[i] = true
	}
	a.splitBeingResized = noSplit
	a.grabOffset = 0
}

// Len returns the number of tracks.
func (a *GridAxis) Len() int { return len(a.sizes) }

// Sizes returns a copy of the resolved track sizes.
func (a *GridAxis) Sizes() []int { return append([]int(nil), a.sizes...) }

// Deltas returns a copy of the accumulated resize deltas.
func (a *GridAxis) Deltas() []int { return append([]int(nil), a.deltas...) }

// Size returns the resolved size of track i.
func (a *GridAxis) Size(i int) int { return a.sizes[i] }

// PreventResize reports whether boundary i must not be dragged.
func (a *GridAxis) PreventResize(i int) bool { return a.preventResize[i] }

// AllowBorder reports whether a border may be painted on boundary i.
func (a *GridAxis) AllowBorder(i int) bool { return a.allowBorder[i] }

// Resizing returns the boundary being dragged and the grab offset, if any.
func (a *GridAxis) Resizing() (boundary, grabOffset int, ok bool) {
	if a.splitBeingResized == noSplit {
		return 0, 0, false
	}
	return a.splitBeingResized, a.grabOffset, true
}

// SetDeltas replaces the resize deltas. It returns false and leaves the axis
// untouched when the length does not match the track count or the deltas do
// not sum to zero.
func (a *GridAxis) SetDeltas(deltas []int) bool {
	if !ValidDeltas(deltas, len(a.deltas)) {
		return false
	}
	copy(a.deltas, deltas)
	return true
}

// clone returns a deep copy, used to hand out read-only views.
func (a *GridAxis) clone() *GridAxis {
	return &GridAxis{
		sizes:             append([]int(nil), a.sizes...),
		deltas:            append([]int(nil), a.deltas...),
		preventResize:     append([]bool(nil), a.preventResize...),
		allowBorder:       append([]bool(nil), a.allowBorder...),
		splitBeingResized: a.splitBeingResized,
		grabOffset:        a.grabOffset,
	}
}

// gap returns the space reserved on boundary i for a border of the given
// thickness. Only interior boundaries that allow a border take space.
func (a *GridAxis) gap(i, border int) int {
	if i <= 0 || i >= len(a.sizes) || !a.allowBorder[i] {
		return 0
	}
	return border
}

// interiorGaps returns the total border space reserved between tracks.
func (a *GridAxis) interiorGaps(border int) int {
	total := 0
	for i := 1; i < len(a.sizes); i++ {
		total += a.gap(i, border)
	}
	return total
}

// splitPosition returns the offset at which the border band of boundary
// split starts.
func (a *GridAxis) splitPosition(split, border int) int {
	pos := 0
	for i := 0; i < split && i < len(a.sizes); i++ {
		pos += a.sizes[i]
		if i+1 < split {
			pos += a.gap(i+1, border)
		}
	}
	return pos
}

// hitTestSplit returns the boundary whose border band contains coord.
func (a *GridAxis) hitTestSplit(coord, border int) (int, bool) {
	if border <= 0 || len(a.sizes) == 0 {
		return 0, false
	}
	pos := a.sizes[0]
	for i := 1; i < len(a.sizes); i++ {
		g := a.gap(i, border)
		if g > 0 && coord >= pos && coord < pos+g {
			return i, true
		}
		pos += g + a.sizes[i]
	}
	return 0, false
}

// ValidDeltas reports whether deltas fit an axis of n tracks. Resizing moves
// space between neighbouring tracks, so valid deltas always sum to zero.
func ValidDeltas(deltas []int, n int) bool {
	return len(deltas) == n && sum(deltas) == 0
}
