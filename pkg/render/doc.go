// Package render turns layout snapshots into pictures.
//
// Every renderer consumes a [snapshot.Snapshot], so a layout can be drawn
// straight after it is computed or later from a cached or saved copy:
//
//   - [svg] draws frames and border bands as SVG
//   - [text] rasterizes frames onto a terminal character grid
//   - [dot] shows the container hierarchy as a Graphviz diagram
//
// [ToPDF] and [ToPNG] convert SVG output with the external rsvg-convert tool.
//
//	out := svg.Render(snap, svg.WithLabels())
//	png, err := render.ToPNG(ctx, out, 2)
//
// [snapshot.Snapshot]: github.com/matzehuels/framegrid/pkg/snapshot.Snapshot
// [svg]: github.com/matzehuels/framegrid/pkg/render/svg
// [text]: github.com/matzehuels/framegrid/pkg/render/text
// [dot]: github.com/matzehuels/framegrid/pkg/render/dot
package render
