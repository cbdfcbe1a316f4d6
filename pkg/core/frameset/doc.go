// Package frameset lays out nested grids of frames and lets users resize them
// by dragging the borders between tracks.
//
// # Overview
//
// A frameset is a container that divides its rectangle into rows and columns.
// Each cell holds a child, which is either a leaf frame or another container.
// Track lengths are given as [Length] values:
//
//   - [Fixed] tracks request pixels ("100")
//   - [Percent] tracks request a share of the axis ("25%")
//   - [Relative] tracks split whatever is left by weight ("*", "2*")
//
// [AllocateTracks] turns a list of lengths into integer sizes that always sum
// to the available length, scaling down over-subscribed demand and spreading
// leftover space. See its documentation for the exact order of operations.
//
// # Borders and Edges
//
// Borders between tracks take layout space. Whether a boundary shows a border
// and whether it can be dragged is decided by the children on either side:
// each child exposes a [FrameEdgeInfo] and the container ORs the flags of its
// neighbors into each boundary. A container in turn exposes the flags of its
// own outer boundaries upward, so a leaf deep in the tree can decide whether
// an ancestor draws a border on its outer edge.
//
// # Layout Order
//
// [Tree.Layout] runs two separate walks. [Tree.LayoutPass] goes top-down:
// a container sizes both axes and places every child before any child
// container is laid out. [Tree.EdgeAggregationPass] goes bottom-up, folding
// in children whose edge info is already final.
//
// # Resizing
//
// Dragging a boundary stores a per-track delta on the axis: the track before
// the boundary grows by the drag distance and the track after it shrinks by
// the same amount. Deltas survive relayouts. If a delta would shrink a
// non-empty track to nothing, every delta of that axis is dropped.
//
// The [Dispatcher] turns pointer events into resize calls and tracks the
// single active [ResizeSession]:
//
//	d := frameset.NewDispatcher(tree)
//	if d.PointerDown(p) {
//	    d.PointerMove(q)
//	    tree.LayoutDirty()
//	    d.PointerUp(q)
//	}
//
// # Flattening
//
// Containers created with Flatten grow their tracks to fit the natural size
// of their children instead of clipping them. Such containers ignore pointer
// input.
package frameset
