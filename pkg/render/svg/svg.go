// Package svg draws layout snapshots as SVG.
//
// Leaves become outlined rectangles, container border bands are filled with
// the container's border color, and boundaries that cannot be resized are
// marked with a hatch pattern.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/framegrid/pkg/snapshot"
)

// DefaultBorderColor fills border bands of containers without a color.
const DefaultBorderColor = "#c8c8c8"

const (
	leafFill    = "#ffffff"
	leafStroke  = "#333333"
	fontSizeMin = 8.0
	fontSizeMax = 16.0
)

const frameCSS = `
    .leaf { fill: ` + leafFill + `; stroke: ` + leafStroke + `; stroke-width: 1; }
    .leaf:hover { fill: #f2f6ff; }
    .label { font-family: sans-serif; fill: #222; dominant-baseline: middle; text-anchor: middle; pointer-events: none; }
    .band.rows { cursor: row-resize; }
    .band.cols { cursor: col-resize; }
    .band.fixed { cursor: default; }`

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	labels  bool
	hatch   bool
	palette []string
}

// WithLabels writes each leaf's label at its center.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithoutHatching draws fixed boundaries like resizable ones.
func WithoutHatching() Option { return func(r *renderer) { r.hatch = false } }

// WithPalette fills leaves with the given colors, cycling in frame order.
func WithPalette(colors ...string) Option {
	return func(r *renderer) { r.palette = colors }
}

// Render draws s.
func Render(s snapshot.Snapshot, opts ...Option) []byte {
	r := renderer{hatch: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	if s.Name != "" {
		buf.WriteString("  <title>")
		xml.EscapeText(&buf, []byte(s.Name))
		buf.WriteString("</title>\n")
	}
	r.renderDefs(&buf)

	leaf := 0
	for _, f := range s.Visible() {
		if f.IsContainer() {
			r.renderBands(&buf, f)
			continue
		}
		r.renderLeaf(&buf, f, leaf)
		leaf++
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <pattern id="fixed" width="4" height="4" patternUnits="userSpaceOnUse" patternTransform="rotate(45)">` + "\n")
	buf.WriteString(`      <line x1="0" y1="0" x2="0" y2="4" stroke="#000" stroke-opacity="0.35" stroke-width="2"/>` + "\n")
	buf.WriteString("    </pattern>\n")
	buf.WriteString("  </defs>\n")
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", frameCSS)
}

func (r *renderer) renderLeaf(buf *bytes.Buffer, f snapshot.Frame, n int) {
	if f.Width <= 0 || f.Height <= 0 {
		return
	}
	fill := ""
	if len(r.palette) > 0 {
		fill = fmt.Sprintf(` style="fill:%s"`, r.palette[n%len(r.palette)])
	}
	fmt.Fprintf(buf, `  <rect id="frame-%d" class="leaf" x="%d" y="%d" width="%d" height="%d"%s/>`+"\n",
		f.ID, f.X, f.Y, f.Width, f.Height, fill)

	if !r.labels {
		return
	}
	label := f.Label()
	size := fontSize(f.Width, f.Height, len([]rune(label)))
	if size < fontSizeMin {
		return
	}
	fmt.Fprintf(buf, `  <text class="label" x="%.1f" y="%.1f" font-size="%.1f">`,
		float64(f.X)+float64(f.Width)/2, float64(f.Y)+float64(f.Height)/2, size)
	xml.EscapeText(buf, []byte(label))
	buf.WriteString("</text>\n")
}

func (r *renderer) renderBands(buf *bytes.Buffer, f snapshot.Frame) {
	color := f.Grid.BorderColor
	if color == "" {
		color = DefaultBorderColor
	}
	for _, b := range interior(f.Grid.Rows.Boundaries) {
		r.band(buf, f, "rows", b, color, f.X, b.Position, f.Width, b.Thickness)
	}
	for _, b := range interior(f.Grid.Cols.Boundaries) {
		r.band(buf, f, "cols", b, color, b.Position, f.Y, b.Thickness, f.Height)
	}
}

func (r *renderer) band(buf *bytes.Buffer, f snapshot.Frame, axis string, b snapshot.Boundary, color string, x, y, w, h int) {
	classes := []string{"band", axis}
	if b.PreventResize {
		classes = append(classes, "fixed")
	}
	fmt.Fprintf(buf, `  <rect id="band-%d-%s-%d" class="%s" x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
		f.ID, axis, b.Index, strings.Join(classes, " "), x, y, w, h, color)
	if b.PreventResize && r.hatch {
		fmt.Fprintf(buf, `  <rect x="%d" y="%d" width="%d" height="%d" fill="url(#fixed)" pointer-events="none"/>`+"\n",
			x, y, w, h)
	}
}

// interior returns the boundaries between tracks that have a visible band.
func interior(bs []snapshot.Boundary) []snapshot.Boundary {
	if len(bs) < 3 {
		return nil
	}
	out := make([]snapshot.Boundary, 0, len(bs)-2)
	for _, b := range bs[1 : len(bs)-1] {
		if b.Thickness > 0 {
			out = append(out, b)
		}
	}
	return out
}

func fontSize(w, h, chars int) float64 {
	byHeight := float64(h) * 0.5
	byWidth := float64(w) * 0.85 / (float64(max(chars, 1)) * 0.55)
	return min(fontSizeMax, byHeight, byWidth)
}
