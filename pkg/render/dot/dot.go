// Package dot draws the container hierarchy of a snapshot as a Graphviz
// diagram: one node per frame, one edge per parent/child link labeled with
// the grid cell the child occupies.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/framegrid/pkg/snapshot"
)

// Options configures diagram output.
type Options struct {
	// Detailed adds track specs, sizes and rectangles to node labels.
	Detailed bool
}

// ToDOT converts s to Graphviz DOT source.
func ToDOT(s snapshot.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph frames {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10, arrowsize=0.6];\n")
	buf.WriteString("\n")

	cols := map[int]int{}
	for _, f := range s.Frames {
		if f.Grid != nil {
			cols[f.ID] = max(len(f.Grid.Cols.Sizes), 1)
		}
		fmt.Fprintf(&buf, "  f%d [%s];\n", f.ID, strings.Join(attrs(f, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	slot := map[int]int{}
	for _, f := range s.Frames {
		if f.Parent < 0 {
			continue
		}
		i := slot[f.Parent]
		slot[f.Parent]++
		n := cols[f.Parent]
		edge := []string{fmt.Sprintf("label=%q", fmt.Sprintf("r%d c%d", i/n, i%n))}
		if f.Hidden {
			edge = append(edge, "style=dashed")
		}
		fmt.Fprintf(&buf, "  f%d -> f%d [%s];\n", f.Parent, f.ID, strings.Join(edge, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func attrs(f snapshot.Frame, detailed bool) []string {
	out := []string{fmt.Sprintf("label=%q", label(f, detailed))}
	if f.IsContainer() {
		out = append(out, "shape=folder", "fillcolor=\"#eef2f7\"")
		if c := f.Grid.BorderColor; c != "" {
			out = append(out, fmt.Sprintf("color=%q", c))
		}
	}
	if f.Hidden {
		out = append(out, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=grey40")
	}
	return out
}

func label(f snapshot.Frame, detailed bool) string {
	name := f.Label()
	if !detailed {
		return name
	}
	parts := []string{name}
	if f.IsContainer() {
		parts = append(parts,
			"rows: "+strings.Join(f.Grid.Rows.Specs, ","),
			"cols: "+strings.Join(f.Grid.Cols.Specs, ","),
		)
	}
	if f.Hidden {
		parts = append(parts, "hidden")
	} else {
		parts = append(parts, fmt.Sprintf("%dx%d at %d,%d", f.Width, f.Height, f.X, f.Y))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG lays out DOT source with Graphviz and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based root element with one sized
// in user units, so the diagram scales like the other SVG output.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
