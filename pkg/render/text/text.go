// Package text rasterizes layout snapshots onto a terminal character grid.
//
// Each cell covers CellWidth x CellHeight pixels of the layout. Leaves are
// drawn as boxes with their label in the top-left corner, and container
// border bands as heavy lines (light lines when the boundary cannot be
// resized).
package text

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/framegrid/pkg/snapshot"
)

// Default cell size in layout pixels.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Render crops its grid to at most MaxColumns x MaxRows cells.
const (
	MaxColumns = 2048
	MaxRows    = 1024
)

// Marker highlights one boundary, typically the one being dragged.
type Marker struct {
	Container int
	Axis      string // "rows" or "cols"
	Boundary  int
}

// Options configures rendering.
type Options struct {
	CellWidth  int
	CellHeight int

	// Color styles the output with ANSI escapes via lipgloss.
	Color bool

	// Active is drawn with a double line. Nil means none.
	Active *Marker

	// Focus is drawn with highlighted label text. Zero means none, since
	// the root is always a container.
	Focus int
}

func (o Options) cellSize() (int, int) {
	w, h := o.CellWidth, o.CellHeight
	if w <= 0 {
		w = DefaultCellWidth
	}
	if h <= 0 {
		h = DefaultCellHeight
	}
	return w, h
}

// Size returns the grid size in cells needed to draw a layout of the given
// pixel size.
func Size(width, height int, opts Options) (cols, rows int) {
	cw, ch := opts.cellSize()
	return ceilDiv(width, cw), ceilDiv(height, ch)
}

// PixelSize is the layout size that fills a grid of cols x rows cells.
func PixelSize(cols, rows int, opts Options) (width, height int) {
	cw, ch := opts.cellSize()
	return cols * cw, rows * ch
}

var (
	leafStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c6c6c"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	focusStyle  = lipgloss.NewStyle().Bold(true).Reverse(true)
	fixedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4e4e4e"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaf00")).Bold(true)
)

const defaultBandColor = "#8a8a8a"

// Render draws s. Layouts larger than MaxColumns x MaxRows cells are cropped
// at the right and bottom.
func Render(s snapshot.Snapshot, opts Options) string {
	cw, ch := opts.cellSize()
	cols, rows := Size(s.Width, s.Height, opts)
	c := newCanvas(min(cols, MaxColumns), min(rows, MaxRows))

	leaf := c.addStyle(leafStyle)
	label := c.addStyle(labelStyle)
	focus := c.addStyle(focusStyle)
	fixed := c.addStyle(fixedStyle)
	active := c.addStyle(activeStyle)

	toCells := func(pos, size, unit int) (int, int) {
		return pos / unit, (pos + size - 1) / unit
	}

	for _, f := range s.Leaves() {
		if f.Width <= 0 || f.Height <= 0 {
			continue
		}
		x0, x1 := toCells(f.X, f.Width, cw)
		y0, y1 := toCells(f.Y, f.Height, ch)
		if x1 == x0 || y1 == y0 {
			c.fill(x0, y0, x1, y1, '·', leaf)
			continue
		}
		c.box(x0, y0, x1, y1, leaf)
		style := label
		if opts.Focus != 0 && f.ID == opts.Focus {
			style = focus
		}
		ly := y0 + 1
		if y1-y0 < 2 {
			ly = y0
		}
		c.text(x0+1, ly, x1-x0-1, f.Label(), style)
	}

	for _, f := range s.Visible() {
		if !f.IsContainer() {
			continue
		}
		color := f.Grid.BorderColor
		if len(color) == 0 || color[0] != '#' {
			color = defaultBandColor
		}
		band := c.addStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(color)))

		for _, b := range interiorBands(f.Grid.Rows.Boundaries) {
			y0, y1 := toCells(b.Position, b.Thickness, ch)
			x0, x1 := toCells(f.X, f.Width, cw)
			glyph, style := '━', band
			switch {
			case opts.Active.is(f.ID, "rows", b.Index):
				glyph, style = '═', active
			case b.PreventResize:
				glyph, style = '─', fixed
			}
			c.fill(x0, y0, x1, y1, glyph, style)
		}
		for _, b := range interiorBands(f.Grid.Cols.Boundaries) {
			x0, x1 := toCells(b.Position, b.Thickness, cw)
			y0, y1 := toCells(f.Y, f.Height, ch)
			glyph, style := '┃', band
			switch {
			case opts.Active.is(f.ID, "cols", b.Index):
				glyph, style = '║', active
			case b.PreventResize:
				glyph, style = '│', fixed
			}
			c.fill(x0, y0, x1, y1, glyph, style)
		}
	}

	return c.String(opts.Color)
}

func (m *Marker) is(container int, axis string, boundary int) bool {
	return m != nil && m.Container == container && m.Axis == axis && m.Boundary == boundary
}

func interiorBands(bs []snapshot.Boundary) []snapshot.Boundary {
	var out []snapshot.Boundary
	for i, b := range bs {
		if i > 0 && i < len(bs)-1 && b.Thickness > 0 {
			out = append(out, b)
		}
	}
	return out
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
