// Package snapshot captures a laid out frameset tree in a serializable form.
//
// A [Snapshot] is what renderers, the HTTP API and the cache work with: it
// holds every frame's rectangle, each container's resolved axes and the
// border and resize permission of every boundary. Snapshots are plain data
// and do not reference the tree they were taken from.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/framegrid/pkg/core/frameset"
)

// Snapshot is a laid out frameset.
type Snapshot struct {
	Name   string  `json:"name,omitempty" bson:"name,omitempty"`
	Width  int     `json:"width" bson:"width"`
	Height int     `json:"height" bson:"height"`
	Frames []Frame `json:"frames" bson:"frames"`
}

// Frame is one node of the tree. Frames are listed in pre-order, so a
// container always precedes its children.
type Frame struct {
	ID     int    `json:"id" bson:"id"`
	Parent int    `json:"parent" bson:"parent"`
	Kind   string `json:"kind" bson:"kind"`
	Name   string `json:"name,omitempty" bson:"name,omitempty"`
	Path   string `json:"path,omitempty" bson:"path,omitempty"`
	Depth  int    `json:"depth" bson:"depth"`

	X      int  `json:"x" bson:"x"`
	Y      int  `json:"y" bson:"y"`
	Width  int  `json:"width" bson:"width"`
	Height int  `json:"height" bson:"height"`
	Hidden bool `json:"hidden,omitempty" bson:"hidden,omitempty"`

	Edges EdgeInfo `json:"edges" bson:"edges"`
	Grid  *Grid    `json:"grid,omitempty" bson:"grid,omitempty"`
}

// EdgeInfo is the permission a frame exposes on each of its sides.
type EdgeInfo struct {
	Top    Side `json:"top" bson:"top"`
	Left   Side `json:"left" bson:"left"`
	Right  Side `json:"right" bson:"right"`
	Bottom Side `json:"bottom" bson:"bottom"`
}

// Side is the permission of one side or boundary.
type Side struct {
	AllowBorder   bool `json:"allow_border" bson:"allow_border"`
	PreventResize bool `json:"prevent_resize" bson:"prevent_resize"`
}

// Grid is the resolved state of a container.
type Grid struct {
	Border      int    `json:"border" bson:"border"`
	BorderColor string `json:"border_color,omitempty" bson:"border_color,omitempty"`
	Flatten     bool   `json:"flatten,omitempty" bson:"flatten,omitempty"`
	Rows        Axis   `json:"rows" bson:"rows"`
	Cols        Axis   `json:"cols" bson:"cols"`
}

// Axis is one axis of a container.
type Axis struct {
	Specs      []string   `json:"specs,omitempty" bson:"specs,omitempty"`
	Sizes      []int      `json:"sizes" bson:"sizes"`
	Deltas     []int      `json:"deltas" bson:"deltas"`
	Boundaries []Boundary `json:"boundaries" bson:"boundaries"`
}

// Boundary is the line before track Index, or after the last track when
// Index equals the track count. Position is where its border band starts in
// tree coordinates and Thickness is the space the band takes.
type Boundary struct {
	Index     int `json:"index" bson:"index"`
	Position  int `json:"position" bson:"position"`
	Thickness int `json:"thickness" bson:"thickness"`
	Side      `bson:",inline"`
}

// Rect returns the frame's rectangle.
func (f *Frame) Rect() frameset.Rect {
	return frameset.Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
}

// IsContainer reports whether the frame is a grid container.
func (f *Frame) IsContainer() bool { return f.Grid != nil }

// Label returns the frame's name, its path, or its id, whichever is set first.
func (f *Frame) Label() string {
	switch {
	case f.Name != "":
		return f.Name
	case f.Path != "":
		return f.Path
	default:
		return fmt.Sprintf("#%d", f.ID)
	}
}

// Visible returns the frames that are not hidden.
func (s *Snapshot) Visible() []Frame {
	out := make([]Frame, 0, len(s.Frames))
	for _, f := range s.Frames {
		if !f.Hidden {
			out = append(out, f)
		}
	}
	return out
}

// Leaves returns the visible leaf frames.
func (s *Snapshot) Leaves() []Frame {
	var out []Frame
	for _, f := range s.Frames {
		if !f.Hidden && f.Grid == nil {
			out = append(out, f)
		}
	}
	return out
}

// Frame returns the frame with the given id.
func (s *Snapshot) Frame(id int) (Frame, bool) {
	for _, f := range s.Frames {
		if f.ID == id {
			return f, true
		}
	}
	return Frame{}, false
}

// Capture records the current layout of tree. paths may be nil.
func Capture(tree *frameset.Tree, name string, paths map[frameset.NodeID]string) Snapshot {
	root := tree.Rect(tree.Root())
	s := Snapshot{Name: name, Width: root.Width, Height: root.Height}

	tree.Walk(tree.Root(), func(id frameset.NodeID, depth int) bool {
		r := tree.Rect(id)
		f := Frame{
			ID:     int(id),
			Parent: int(tree.Parent(id)),
			Kind:   tree.Kind(id).String(),
			Name:   tree.Name(id),
			Path:   paths[id],
			Depth:  depth,
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
			Hidden: tree.Hidden(id),
			Edges:  edgeInfo(tree.EdgeInfo(id)),
		}
		if tree.Kind(id) == frameset.KindContainer {
			f.Grid = grid(tree, id)
		}
		s.Frames = append(s.Frames, f)
		return true
	})
	return s
}

func edgeInfo(info frameset.FrameEdgeInfo) EdgeInfo {
	side := func(e frameset.Edge) Side {
		return Side{AllowBorder: info.AllowBorder(e), PreventResize: info.PreventResize(e)}
	}
	return EdgeInfo{
		Top:    side(frameset.EdgeTop),
		Left:   side(frameset.EdgeLeft),
		Right:  side(frameset.EdgeRight),
		Bottom: side(frameset.EdgeBottom),
	}
}

func grid(tree *frameset.Tree, id frameset.NodeID) *Grid {
	rowSpecs, colSpecs := tree.Tracks(id)
	return &Grid{
		Border:      tree.Border(id),
		BorderColor: tree.BorderColor(id),
		Flatten:     tree.Flattening(id),
		Rows:        axis(tree, id, frameset.AxisRows, rowSpecs),
		Cols:        axis(tree, id, frameset.AxisCols, colSpecs),
	}
}

func axis(tree *frameset.Tree, id frameset.NodeID, a frameset.Axis, specs []frameset.Length) Axis {
	ax, _ := tree.Axis(id, a)
	out := Axis{Sizes: ax.Sizes(), Deltas: ax.Deltas()}
	for _, l := range specs {
		out.Specs = append(out.Specs, l.String())
	}
	border := tree.Border(id)
	for i := 0; i <= ax.Len(); i++ {
		thickness := 0
		if i > 0 && i < ax.Len() && ax.AllowBorder(i) {
			thickness = border
		}
		out.Boundaries = append(out.Boundaries, Boundary{
			Index:     i,
			Position:  tree.SplitPosition(id, a, i),
			Thickness: thickness,
			Side:      Side{AllowBorder: ax.AllowBorder(i), PreventResize: ax.PreventResize(i)},
		})
	}
	return out
}

// Marshal serializes a snapshot to pretty-printed JSON.
func Marshal(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal deserializes a snapshot and checks that it has a root frame.
func Unmarshal(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if len(s.Frames) == 0 || s.Frames[0].Grid == nil {
		return Snapshot{}, fmt.Errorf("snapshot must start with a root container")
	}
	return s, nil
}

// WriteFile writes a snapshot as JSON.
func WriteFile(s Snapshot, path string) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a snapshot written by WriteFile.
func ReadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
