package text

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// cont marks the second cell of a double-width rune.
const cont rune = 0

type cell struct {
	ch    rune
	style int
}

// canvas is a fixed-size grid of cells. Style 0 is unstyled; other values
// index into styles.
type canvas struct {
	w, h   int
	cells  []cell
	styles []lipgloss.Style
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h), styles: []lipgloss.Style{lipgloss.NewStyle()}}
	for i := range c.cells {
		c.cells[i].ch = ' '
	}
	return c
}

func (c *canvas) addStyle(s lipgloss.Style) int {
	c.styles = append(c.styles, s)
	return len(c.styles) - 1
}

func (c *canvas) set(x, y int, ch rune, style int) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{ch: ch, style: style}
}

func (c *canvas) fill(x0, y0, x1, y1 int, ch rune, style int) {
	for y := max(y0, 0); y <= min(y1, c.h-1); y++ {
		for x := max(x0, 0); x <= min(x1, c.w-1); x++ {
			c.set(x, y, ch, style)
		}
	}
}

// box draws an outline with corners at (x0,y0) and (x1,y1).
func (c *canvas) box(x0, y0, x1, y1, style int) {
	for x := max(x0+1, 0); x < min(x1, c.w); x++ {
		c.set(x, y0, '─', style)
		c.set(x, y1, '─', style)
	}
	for y := max(y0+1, 0); y < min(y1, c.h); y++ {
		c.set(x0, y, '│', style)
		c.set(x1, y, '│', style)
	}
	c.set(x0, y0, '┌', style)
	c.set(x1, y0, '┐', style)
	c.set(x0, y1, '└', style)
	c.set(x1, y1, '┘', style)
}

// text writes s starting at (x, y), clipped to width cells.
func (c *canvas) text(x, y, width int, s string, style int) {
	s = runewidth.Truncate(s, width, "…")
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.set(x, y, r, style)
		if w == 2 {
			c.set(x+1, y, cont, style)
		}
		x += w
	}
}

// String joins the rows. Without color, styles are ignored and trailing
// blanks trimmed.
func (c *canvas) String(color bool) string {
	lines := make([]string, c.h)
	for y := range c.h {
		row := c.cells[y*c.w : (y+1)*c.w]
		var b strings.Builder
		var run strings.Builder
		cur := 0
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if color && cur != 0 {
				b.WriteString(c.styles[cur].Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.ch == cont {
				continue
			}
			if cl.style != cur {
				flush()
				cur = cl.style
			}
			run.WriteRune(cl.ch)
		}
		flush()
		line := b.String()
		if !color {
			line = strings.TrimRight(line, " ")
		}
		lines[y] = line
	}
	return strings.Join(lines, "\n")
}
