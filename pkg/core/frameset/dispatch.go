package frameset

// Cursor is the pointer shape a host should show over a position.
type Cursor uint8

// Cursor shapes, named after their CSS cursor values by String.
const (
	CursorDefault    Cursor = iota // no boundary under the pointer
	CursorRowResize                // over a draggable row boundary
	CursorColResize                // over a draggable column boundary
	CursorBothResize               // over a crossing of both
)

// String returns the CSS cursor name.
func (c Cursor) String() string {
	switch c {
	case CursorRowResize:
		return "row-resize"
	case CursorColResize:
		return "col-resize"
	case CursorBothResize:
		return "move"
	default:
		return "default"
	}
}

// ResizeSession describes the drag in progress: the container that accepted
// the pointer-down and the boundary grabbed on each axis, or -1 when that
// axis is not being dragged.
type ResizeSession struct {
	Container   NodeID
	RowBoundary int
	ColBoundary int
}

// Axes returns the axes that have a grabbed boundary.
func (s ResizeSession) Axes() []Axis {
	var out []Axis
	if s.RowBoundary != noSplit {
		out = append(out, AxisRows)
	}
	if s.ColBoundary != noSplit {
		out = append(out, AxisCols)
	}
	return out
}

// Dispatcher routes pointer events to the containers of a tree and keeps the
// active resize session. Once a boundary is grabbed, moves and the final
// release go to the grabbing container even when the pointer has left its
// rectangle.
//
// A Dispatcher only updates deltas; the host lays out the tree (for example
// with Tree.LayoutDirty) after an event reports a change.
type Dispatcher struct {
	tree    *Tree
	session *ResizeSession
}

// NewDispatcher returns a dispatcher for t.
func NewDispatcher(t *Tree) *Dispatcher {
	return &Dispatcher{tree: t}
}

// Session returns the active resize session.
func (d *Dispatcher) Session() (ResizeSession, bool) {
	if d.session == nil {
		return ResizeSession{}, false
	}
	return *d.session, true
}

// PointerDown offers p to the innermost container under it and then to its
// ancestors until one grabs a boundary on either axis. It reports whether a
// resize session started.
func (d *Dispatcher) PointerDown(p Point) bool {
	if d.session != nil {
		d.Cancel()
	}
	t := d.tree
	for id := t.ContainerAt(p); id != NoNode; id = t.Parent(id) {
		if t.Flattening(id) {
			continue
		}
		s := ResizeSession{Container: id, RowBoundary: noSplit, ColBoundary: noSplit}
		if t.StartResize(id, AxisCols, p.X) {
			s.ColBoundary, _, _ = t.nodes[id].container.cols.Resizing()
		}
		if t.StartResize(id, AxisRows, p.Y) {
			s.RowBoundary, _, _ = t.nodes[id].container.rows.Resizing()
		}
		if len(s.Axes()) > 0 {
			d.session = &s
			return true
		}
	}
	return false
}

// PointerMove drags the grabbed boundaries towards p. It reports whether any
// delta changed.
func (d *Dispatcher) PointerMove(p Point) bool {
	if d.session == nil {
		return false
	}
	changed := false
	for _, a := range d.session.Axes() {
		if d.tree.ContinueResize(d.session.Container, a, coordOf(p, a)) {
			changed = true
		}
	}
	return changed
}

// PointerUp applies a last move to p and ends the session. It reports
// whether the final move changed any delta.
func (d *Dispatcher) PointerUp(p Point) bool {
	if d.session == nil {
		return false
	}
	changed := d.PointerMove(p)
	d.Cancel()
	return changed
}

// Nudge moves the grabbed boundaries by the given offset as if the pointer had
// moved that far from the grab point.
func (d *Dispatcher) Nudge(dx, dy int) bool {
	if d.session == nil {
		return false
	}
	t := d.tree
	id := d.session.Container
	changed := false
	for _, a := range d.session.Axes() {
		ax := t.nodes[id].container.axis(a)
		b, grab, ok := ax.Resizing()
		if !ok {
			continue
		}
		step := dy
		if a == AxisCols {
			step = dx
		}
		if t.ContinueResize(id, a, t.SplitPosition(id, a, b)+grab+step) {
			changed = true
		}
	}
	return changed
}

// Grab starts a session on boundary b of axis a without a pointer, as a
// keyboard-driven host would.
func (d *Dispatcher) Grab(id NodeID, a Axis, b int) bool {
	if d.session != nil {
		d.Cancel()
	}
	if d.tree.Flattening(id) || !d.tree.StartResize(id, a, d.tree.SplitPosition(id, a, b)) {
		return false
	}
	s := ResizeSession{Container: id, RowBoundary: noSplit, ColBoundary: noSplit}
	if a == AxisRows {
		s.RowBoundary = b
	} else {
		s.ColBoundary = b
	}
	d.session = &s
	return true
}

// Cancel ends the active session. Deltas already applied remain.
func (d *Dispatcher) Cancel() {
	if d.session == nil {
		return
	}
	for _, a := range d.session.Axes() {
		d.tree.EndResize(d.session.Container, a)
	}
	d.session = nil
}

// ChildIsResizing reports whether a container strictly below id owns the
// active session.
func (d *Dispatcher) ChildIsResizing(id NodeID) bool {
	if d.session == nil {
		return false
	}
	for p := d.tree.Parent(d.session.Container); p != NoNode; p = d.tree.Parent(p) {
		if p == id {
			return true
		}
	}
	return false
}

// Cursor returns the pointer shape for p: the shape of the active session if
// there is one, otherwise the shape for the first container from the
// innermost outwards that could start a drag at p.
func (d *Dispatcher) Cursor(p Point) Cursor {
	if d.session != nil {
		return cursorFor(d.session.RowBoundary != noSplit, d.session.ColBoundary != noSplit)
	}
	t := d.tree
	for id := t.ContainerAt(p); id != NoNode; id = t.Parent(id) {
		if t.Flattening(id) {
			continue
		}
		rows, cols := t.CanResize(id, AxisRows, p.Y), t.CanResize(id, AxisCols, p.X)
		if rows || cols {
			return cursorFor(rows, cols)
		}
	}
	return CursorDefault
}

func cursorFor(rows, cols bool) Cursor {
	switch {
	case rows && cols:
		return CursorBothResize
	case rows:
		return CursorRowResize
	case cols:
		return CursorColResize
	}
	return CursorDefault
}

func coordOf(p Point, a Axis) int {
	if a == AxisRows {
		return p.Y
	}
	return p.X
}
