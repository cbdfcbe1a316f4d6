package frameset

import "github.com/matzehuels/framegrid/pkg/observability"

// Coordinates passed to the resize methods are in tree coordinates, the same
// space as Rect. Each method converts them to offsets inside the container.

func (t *Tree) local(id NodeID, a Axis, coord int) int {
	if a == AxisRows {
		return coord - t.nodes[id].rect.Y
	}
	return coord - t.nodes[id].rect.X
}

// resizable returns the container id if it is laid out and can take pointer
// input at all.
func (t *Tree) resizable(id NodeID) *container {
	if !t.valid(id) {
		return nil
	}
	n := &t.nodes[id]
	if n.container == nil || n.needsLayout || n.hidden {
		return nil
	}
	return n.container
}

// HitTestSplit returns the boundary of axis a whose border band contains
// coord. It fails for containers without a visible border, without tracks,
// or still waiting for layout.
func (t *Tree) HitTestSplit(id NodeID, a Axis, coord int) (int, bool) {
	c := t.resizable(id)
	if c == nil {
		return 0, false
	}
	return c.axis(a).hitTestSplit(t.local(id, a, coord), c.effectiveBorder())
}

// CanResize reports whether a drag starting at coord would grab a boundary.
// It does not change any state, so it is safe for cursor hints.
func (t *Tree) CanResize(id NodeID, a Axis, coord int) bool {
	b, ok := t.HitTestSplit(id, a, coord)
	return ok && !t.nodes[id].container.axis(a).preventResize[b]
}

// SplitPosition returns where the border band of boundary b starts, in tree
// coordinates.
func (t *Tree) SplitPosition(id NodeID, a Axis, b int) int {
	c := t.nodes[id].container
	if c == nil {
		return 0
	}
	origin := t.nodes[id].rect.Y
	if a == AxisCols {
		origin = t.nodes[id].rect.X
	}
	return origin + c.axis(a).splitPosition(b, c.effectiveBorder())
}

// StartResize grabs the boundary under coord on axis a. It reports whether a
// boundary was grabbed; boundaries with PreventResize are never grabbed.
func (t *Tree) StartResize(id NodeID, a Axis, coord int) bool {
	if !t.CanResize(id, a, coord) {
		return false
	}
	c := t.nodes[id].container
	ax := c.axis(a)
	b, _ := ax.hitTestSplit(t.local(id, a, coord), c.effectiveBorder())
	ax.splitBeingResized = b
	ax.grabOffset = t.local(id, a, coord) - ax.splitPosition(b, c.effectiveBorder())

	t.logger.Debug("resize started", "container", t.nodes[id].name, "axis", a, "boundary", b)
	observability.Interaction().OnResizeStart(int(id), t.nodes[id].name, a.String(), b)
	return true
}

// ContinueResize moves the grabbed boundary of axis a so that it follows
// coord, keeping the pointer at the same offset inside the band. The delta is
// added to the track before the boundary and taken from the track after it,
// so their sum is preserved. It reports whether the deltas changed and the
// container was marked for layout. Nothing happens while the container still
// waits for the previous move to be laid out.
func (t *Tree) ContinueResize(id NodeID, a Axis, coord int) bool {
	if !t.valid(id) || t.nodes[id].container == nil || t.nodes[id].needsLayout {
		return false
	}
	c := t.nodes[id].container
	ax := c.axis(a)
	b := ax.splitBeingResized
	if b == noSplit {
		return false
	}

	delta := (t.local(id, a, coord) - ax.grabOffset) - ax.splitPosition(b, c.effectiveBorder())
	if delta == 0 {
		return false
	}
	ax.deltas[b-1] += delta
	ax.deltas[b] -= delta
	t.MarkNeedsLayout(id)
	return true
}

// EndResize releases the boundary grabbed on axis a. Applied deltas stay.
func (t *Tree) EndResize(id NodeID, a Axis) {
	if !t.valid(id) || t.nodes[id].container == nil {
		return
	}
	ax := t.nodes[id].container.axis(a)
	b := ax.splitBeingResized
	if b == noSplit {
		return
	}
	ax.splitBeingResized = noSplit
	ax.grabOffset = 0

	t.logger.Debug("resize ended", "container", t.nodes[id].name, "axis", a, "boundary", b)
	observability.Interaction().OnResizeEnd(int(id), t.nodes[id].name, a.String(), b)
}

// Resizing reports whether any axis of container id has a grabbed boundary.
func (t *Tree) Resizing(id NodeID) bool {
	if !t.valid(id) || t.nodes[id].container == nil {
		return false
	}
	c := t.nodes[id].container
	return c.rows.splitBeingResized != noSplit || c.cols.splitBeingResized != noSplit
}
