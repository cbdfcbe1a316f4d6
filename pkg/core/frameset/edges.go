package frameset

// Edge identifies one side of a frame.
type Edge uint8

// Sides of a frame.
const (
	EdgeTop Edge = iota
	EdgeLeft
	EdgeRight
	EdgeBottom
)

var edgeNames = [...]string{"top", "left", "right", "bottom"}

// String returns the lowercase side name.
func (e Edge) String() string {
	if int(e) < len(edgeNames) {
		return edgeNames[e]
	}
	return "unknown"
}

// Edges lists all four sides in declaration order.
var Edges = [...]Edge{EdgeTop, EdgeLeft, EdgeRight, EdgeBottom}

// EdgeFlags is the border and resize permission of one side.
type EdgeFlags struct {
	PreventResize bool
	AllowBorder   bool
}

// FrameEdgeInfo summarizes what a node exposes to the container that lays it
// out: for each side, whether the boundary there may be dragged and whether a
// border may be painted on it.
type FrameEdgeInfo struct {
	sides [4]EdgeFlags
}

// NewFrameEdgeInfo returns edge info with the same flags on all four sides.
func NewFrameEdgeInfo(preventResize, allowBorder bool) FrameEdgeInfo {
	var info FrameEdgeInfo
	for i := range info.sides {
		info.sides[i] = EdgeFlags{PreventResize: preventResize, AllowBorder: allowBorder}
	}
	return info
}

// Side returns the flags of one side.
func (f FrameEdgeInfo) Side(e Edge) EdgeFlags { return f.sides[e] }

// PreventResize reports whether the boundary on side e must not be dragged.
func (f FrameEdgeInfo) PreventResize(e Edge) bool { return f.sides[e].PreventResize }

// AllowBorder reports whether a border may be painted on side e.
func (f FrameEdgeInfo) AllowBorder(e Edge) bool { return f.sides[e].AllowBorder }

// SetPreventResize sets the resize flag of side e.
func (f *FrameEdgeInfo) SetPreventResize(e Edge, v bool) { f.sides[e].PreventResize = v }

// SetAllowBorder sets the border flag of side e.
func (f *FrameEdgeInfo) SetAllowBorder(e Edge, v bool) { f.sides[e].AllowBorder = v }

// resetEdges clears both axes of c to the container's own defaults before
// children are folded in.
func (c *container) resetEdges() {
	for _, a := range []*GridAxis{&c.rows, &c.cols} {
		for i := range a.preventResize {
			a.preventResize[i] = c.noResize
			a.allowBorder[i] = false
		}
	}
}

// fillFromEdgeInfo folds the edge info of the child at grid cell (r, c) into
// the boundaries around that cell. Folding only ever sets flags.
func (c *container) fillFromEdgeInfo(info FrameEdgeInfo, r, col int) {
	if info.AllowBorder(EdgeLeft) {
		c.cols.allowBorder[col] = true
	}
	if info.AllowBorder(EdgeRight) {
		c.cols.allowBorder[col+1] = true
	}
	if info.PreventResize(EdgeLeft) {
		c.cols.preventResize[col] = true
	}
	if info.PreventResize(EdgeRight) {
		c.cols.preventResize[col+1] = true
	}

	if info.AllowBorder(EdgeTop) {
		c.rows.allowBorder[r] = true
	}
	if info.AllowBorder(EdgeBottom) {
		c.rows.allowBorder[r+1] = true
	}
	if info.PreventResize(EdgeTop) {
		c.rows.preventResize[r] = true
	}
	if info.PreventResize(EdgeBottom) {
		c.rows.preventResize[r+1] = true
	}
}

// edgeInfo is what the container exposes upward: its own no-resize policy and
// border permission by default, overridden on each outer side by whatever its
// children folded into the outermost boundaries.
func (c *container) edgeInfo() FrameEdgeInfo {
	info := NewFrameEdgeInfo(c.noResize, true)
	rows, cols := c.rows.Len(), c.cols.Len()
	if rows == 0 || cols == 0 {
		return info
	}
	info.sides[EdgeLeft] = EdgeFlags{PreventResize: c.cols.preventResize[0], AllowBorder: c.cols.allowBorder[0]}
	info.sides[EdgeRight] = EdgeFlags{PreventResize: c.cols.preventResize[cols], AllowBorder: c.cols.allowBorder[cols]}
	info.sides[EdgeTop] = EdgeFlags{PreventResize: c.rows.preventResize[0], AllowBorder: c.rows.allowBorder[0]}
	info.sides[EdgeBottom] = EdgeFlags{PreventResize: c.rows.preventResize[rows], AllowBorder: c.rows.allowBorder[rows]}
	return info
}

// computeEdgeInfo rebuilds the boundary permissions of container id from its
// placed children. Child containers must already have been aggregated. It
// reports whether any interior border permission changed, since those
// boundaries reserve layout space.
func (t *Tree) computeEdgeInfo(id NodeID) bool {
	c := t.nodes[id].container
	before := interiorBorders(&c.rows, &c.cols)

	c.resetEdges()
	rows, cols := c.rows.Len(), c.cols.Len()
	children := c.children
	k := 0
	for r := 0; r < rows && k < len(children); r++ {
		for col := 0; col < cols && k < len(children); col++ {
			c.fillFromEdgeInfo(t.EdgeInfo(children[k]), r, col)
			k++
		}
	}

	after := interiorBorders(&c.rows, &c.cols)
	return before != after
}

// interiorBorders packs the interior border flags of both axes into a
// comparable string.
func interiorBorders(rows, cols *GridAxis) string {
	b := make([]byte, 0, len(rows.allowBorder)+len(cols.allowBorder))
	for _, a := range []*GridAxis{rows, cols} {
		for i := 1; i < len(a.allowBorder)-1; i++ {
			if a.allowBorder[i] {
				b = append(b, '1')
			} else {
				b = append(b, '0')
			}
		}
		b = append(b, '|')
	}
	return string(b)
}
