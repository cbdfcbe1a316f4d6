package frameset

import "github.com/matzehuels/framegrid/pkg/observability"

// Layout lays out the whole tree inside a viewport of the given size.
//
// Layout runs in two phases. The layout pass walks top-down: each container
// resolves both axes and places its children before any child container is
// laid out. The edge aggregation pass then walks bottom-up so that every
// container folds in the edge info of children that are already final.
func (t *Tree) Layout(width, height int) {
	root := t.Root()
	t.nodes[root].rect = Rect{Width: max(width, 0), Height: max(height, 0)}
	t.settle([]NodeID{root})
}

// LayoutDirty lays out every container flagged by MarkNeedsLayout, keeping
// its current rectangle, and returns how many subtrees were laid out.
func (t *Tree) LayoutDirty() int {
	var dirty []NodeID
	t.Walk(t.Root(), func(id NodeID, _ int) bool {
		n := &t.nodes[id]
		if n.hidden || n.container == nil {
			return false
		}
		if n.needsLayout {
			dirty = append(dirty, id)
			return false
		}
		return true
	})
	if len(dirty) > 0 {
		t.settle(dirty)
	}
	return len(dirty)
}

// settle lays out the given subtrees, aggregates edges over the whole tree
// and lays out again any container whose interior border permissions moved.
// Edge info does not depend on sizes, so one extra round is enough.
func (t *Tree) settle(ids []NodeID) {
	for _, id := range ids {
		t.LayoutPass(id)
	}
	changed := t.EdgeAggregationPass(t.Root())
	if len(changed) == 0 {
		return
	}
	seen := make(map[NodeID]bool, len(changed))
	for _, id := range changed {
		seen[id] = true
	}
	for _, id := range changed {
		if t.hasAncestorIn(id, seen) {
			continue
		}
		t.LayoutPass(id)
	}
}

func (t *Tree) hasAncestorIn(id NodeID, set map[NodeID]bool) bool {
	for p := t.nodes[id].parent; p != NoNode; p = t.nodes[p].parent {
		if set[p] {
			return true
		}
	}
	return false
}

// LayoutPass resolves the axes of container id against its current
// rectangle, places its children, and then recurses into child containers.
func (t *Tree) LayoutPass(id NodeID) {
	n := &t.nodes[id]
	c := n.container
	if c == nil {
		n.needsLayout = false
		return
	}

	border := c.effectiveBorder()
	c.rows.ensure(trackCount(c.rowSpecs))
	c.cols.ensure(trackCount(c.colSpecs))

	if !c.rows.LayOut(c.rowSpecs, n.rect.Height-c.rows.interiorGaps(border)) {
		t.deltasRejected(id, AxisRows)
	}
	if !c.cols.LayOut(c.colSpecs, n.rect.Width-c.cols.interiorGaps(border)) {
		t.deltasRejected(id, AxisCols)
	}

	var placed []NodeID
	if c.flattening {
		placed = t.positionFramesWithFlattening(id)
	} else {
		placed = t.positionFrames(id)
	}
	n.needsLayout = false

	for _, child := range placed {
		t.LayoutPass(child)
	}
}

func (t *Tree) deltasRejected(id NodeID, a Axis) {
	t.logger.Debug("resize deltas rejected", "container", t.nodes[id].name, "id", id, "axis", a)
	observability.Interaction().OnDeltasRejected(int(id), t.nodes[id].name, a.String())
}

// EdgeAggregationPass recomputes boundary permissions bottom-up for id and
// every visible container below it. It returns the containers whose interior
// border permissions changed.
func (t *Tree) EdgeAggregationPass(id NodeID) []NodeID {
	var changed []NodeID
	t.aggregate(id, &changed)
	return changed
}

func (t *Tree) aggregate(id NodeID, changed *[]NodeID) {
	c := t.nodes[id].container
	if c == nil {
		return
	}
	for _, child := range c.children {
		if n := &t.nodes[child]; n.container != nil && !n.hidden {
			t.aggregate(child, changed)
		}
	}
	if t.computeEdgeInfo(id) {
		*changed = append(*changed, id)
	}
}
