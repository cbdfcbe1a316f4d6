package frameset

// positionFrames assigns each child the rectangle of its grid cell, walking
// cells in row-major order. Children beyond the grid capacity are hidden.
// It returns the children that received a cell.
func (t *Tree) positionFrames(id NodeID) []NodeID {
	n := &t.nodes[id]
	c := n.container
	border := c.effectiveBorder()
	origin := n.rect.Origin()

	changed := false
	k := 0
	y := 0
	for r := 0; r < c.rows.Len() && k < len(c.children); r++ {
		x := 0
		height := c.rows.sizes[r]
		for col := 0; col < c.cols.Len() && k < len(c.children); col++ {
			width := c.cols.sizes[col]
			if t.place(c.children[k], Rect{X: origin.X + x, Y: origin.Y + y, Width: width, Height: height}) {
				changed = true
			}
			x += width + c.cols.gap(col+1, border)
			k++
		}
		y += height + c.rows.gap(r+1, border)
	}

	t.hide(c.children[k:])
	if changed {
		t.repaint(n.rect)
	}
	return c.children[:k]
}

// positionFramesWithFlattening grows tracks to fit the natural size of their
// children instead of clipping them. The first pass measures and widens the
// tracks, the second assigns rectangles from the stabilized sizes. The
// container itself grows to the placed extent.
func (t *Tree) positionFramesWithFlattening(id NodeID) []NodeID {
	n := &t.nodes[id]
	c := n.container
	border := c.effectiveBorder()
	origin := n.rect.Origin()
	rows, cols := c.rows.Len(), c.cols.Len()
	placed := c.children[:min(len(c.children), rows*cols)]

	k := 0
	for r := 0; r < rows && k < len(placed); r++ {
		extra := 0
		height := c.rows.sizes[r]
		fixedHeight := isFixed(c.rowSpecs, r)
		for col := 0; col < cols && k < len(placed); col++ {
			width := c.cols.sizes[col]
			fixedWidth := isFixed(c.colSpecs, col)

			w, h := width, height
			if !fixedWidth {
				w = 0
				if width != 0 {
					w = width + shareOf(extra, cols-col)
				}
			}
			natW, natH := t.naturalSize(placed[k])
			if !fixedWidth {
				w = max(w, natW)
			}
			if !fixedHeight {
				h = max(h, natH)
			}

			c.rows.sizes[r] = max(c.rows.sizes[r], h)
			c.cols.sizes[col] = max(c.cols.sizes[col], w)

			// Growth lowers the share offered to the cells on the right. They
			// still keep at least their track size.
			extra += width - c.cols.sizes[col]
			k++
		}
	}

	changed := false
	k = 0
	y := 0
	for r := 0; r < rows && k < len(placed); r++ {
		x := 0
		for col := 0; col < cols && k < len(placed); col++ {
			rect := Rect{X: origin.X + x, Y: origin.Y + y, Width: c.cols.sizes[col], Height: c.rows.sizes[r]}
			if t.place(placed[k], rect) {
				changed = true
			}
			x += c.cols.sizes[col] + c.cols.gap(col+1, border)
			k++
		}
		y += c.rows.sizes[r] + c.rows.gap(r+1, border)
	}

	n.rect.Width = sum(c.cols.sizes) + c.cols.interiorGaps(border)
	n.rect.Height = sum(c.rows.sizes) + c.rows.interiorGaps(border)

	t.hide(c.children[len(placed):])
	if changed {
		t.repaint(n.rect)
	}
	return placed
}

// shareOf splits extra over the remaining cells of a row. No cells left
// means no share.
func shareOf(extra, cells int) int {
	if cells <= 0 {
		return 0
	}
	return extra / cells
}

func isFixed(specs []Length, i int) bool {
	return i < len(specs) && specs[i].Kind == Fixed
}

func sum(v []int) int {
	total := 0
	for _, x := range v {
		total += x
	}
	return total
}

// place assigns r to id and reports whether its rectangle changed.
func (t *Tree) place(id NodeID, r Rect) bool {
	n := &t.nodes[id]
	changed := n.rect != r || n.hidden
	if changed {
		n.needsLayout = true
	}
	n.rect = r
	n.hidden = false
	return changed
}

// hide collapses children that did not get a grid cell, along with their
// descendants, to empty rectangles and skips them in layout.
func (t *Tree) hide(ids []NodeID) {
	for _, id := range ids {
		t.Walk(id, func(d NodeID, _ int) bool {
			n := &t.nodes[d]
			n.rect = Rect{X: n.rect.X, Y: n.rect.Y}
			n.hidden = true
			n.needsLayout = false
			return true
		})
	}
}

func (t *Tree) naturalSize(id NodeID) (int, int) {
	if t.opts.Measurer != nil {
		return t.opts.Measurer.NaturalSize(id)
	}
	if l := t.nodes[id].leaf; l != nil {
		return l.naturalWidth, l.naturalHeight
	}
	return 0, 0
}

func (t *Tree) repaint(r Rect) {
	if t.opts.Repainter != nil {
		t.opts.Repainter.Repaint(r)
	}
}
