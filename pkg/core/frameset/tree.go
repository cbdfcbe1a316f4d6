package frameset

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/framegrid/pkg/errors"
)

// NodeID addresses a node in a Tree.
type NodeID int

// NoNode is returned where no node applies.
const NoNode NodeID = -1

// NodeKind distinguishes containers from leaves.
type NodeKind uint8

const (
	KindContainer NodeKind = iota
	KindLeaf
)

// String returns "container" or "leaf".
func (k NodeKind) String() string {
	if k == KindLeaf {
		return "leaf"
	}
	return "container"
}

// ContainerSpec configures a grid container.
type ContainerSpec struct {
	Name string
	Rows []Length
	Cols []Length

	// Border is the border thickness in pixels. It only takes effect when
	// BorderVisible is set.
	Border        int
	BorderVisible bool
	BorderColor   string

	NoResize bool
	Flatten  bool
}

// LeafSpec configures a leaf frame.
type LeafSpec struct {
	Name        string
	NoResize    bool
	FrameBorder bool

	// NaturalWidth and NaturalHeight are the content size reported in
	// flattening mode when no Measurer is configured.
	NaturalWidth  int
	NaturalHeight int
}

// Scheduler is told when a container needs a new layout.
type Scheduler interface {
	ScheduleLayout(id NodeID)
}

// Repainter is told which areas changed during layout.
type Repainter interface {
	Repaint(r Rect)
}

// Measurer reports the natural content size of a node for flattening mode.
type Measurer interface {
	NaturalSize(id NodeID) (width, height int)
}

// Options configures a Tree's collaborators. All fields are optional.
type Options struct {
	Logger    *log.Logger
	Scheduler Scheduler
	Repainter Repainter
	Measurer  Measurer
}

type container struct {
	rowSpecs []Length
	colSpecs []Length
	rows     GridAxis
	cols     GridAxis
	children []NodeID

	border        int
	borderVisible bool
	borderColor   string
	noResize      bool
	flattening    bool
}

// effectiveBorder is the thickness that takes layout space.
func (c *container) effectiveBorder() int {
	if !c.borderVisible || c.border < 0 {
		return 0
	}
	return c.border
}

func (c *container) axis(a Axis) *GridAxis {
	if a == AxisCols {
		return &c.cols
	}
	return &c.rows
}

func (c *container) specs(a Axis) []Length {
	if a == AxisCols {
		return c.colSpecs
	}
	return c.rowSpecs
}

type leaf struct {
	edge          FrameEdgeInfo
	naturalWidth  int
	naturalHeight int
}

type node struct {
	kind        NodeKind
	name        string
	parent      NodeID
	rect        Rect
	hidden      bool
	needsLayout bool

	container *container
	leaf      *leaf
}

// Tree is an arena of containers and leaves. Node 0 is always the root
// container. Nodes are addressed by NodeID and never move or disappear, so
// ids stay valid across relayouts.
type Tree struct {
	nodes  []node
	opts   Options
	logger *log.Logger
}

// NewTree creates a tree whose root container is configured by root.
func NewTree(root ContainerSpec, opts Options) *Tree {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	t := &Tree{opts: opts, logger: logger}
	t.nodes = append(t.nodes, node{
		kind:        KindContainer,
		name:        root.Name,
		parent:      NoNode,
		needsLayout: true,
		container:   newContainer(root),
	})
	return t
}

func newContainer(spec ContainerSpec) *container {
	return &container{
		rowSpecs:      cloneLengths(spec.Rows),
		colSpecs:      cloneLengths(spec.Cols),
		rows:          GridAxis{splitBeingResized: noSplit},
		cols:          GridAxis{splitBeingResized: noSplit},
		border:        spec.Border,
		borderVisible: spec.BorderVisible,
		borderColor:   spec.BorderColor,
		noResize:      spec.NoResize,
		flattening:    spec.Flatten,
	}
}

func cloneLengths(l []Length) []Length {
	if len(l) == 0 {
		return nil
	}
	return append([]Length(nil), l...)
}

// Root returns the id of the root container.
func (t *Tree) Root() NodeID { return 0 }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// AddContainer appends a container to the children of parent.
func (t *Tree) AddContainer(parent NodeID, spec ContainerSpec) (NodeID, error) {
	return t.add(parent, node{kind: KindContainer, name: spec.Name, container: newContainer(spec)})
}

// AddLeaf appends a leaf to the children of parent.
func (t *Tree) AddLeaf(parent NodeID, spec LeafSpec) (NodeID, error) {
	return t.add(parent, node{kind: KindLeaf, name: spec.Name, leaf: &leaf{
		edge:          NewFrameEdgeInfo(spec.NoResize, spec.FrameBorder),
		naturalWidth:  spec.NaturalWidth,
		naturalHeight: spec.NaturalHeight,
	}})
}

func (t *Tree) add(parent NodeID, n node) (NodeID, error) {
	p, err := t.containerOf(parent)
	if err != nil {
		return NoNode, err
	}
	id := NodeID(len(t.nodes))
	n.parent = parent
	n.needsLayout = true
	t.nodes = append(t.nodes, n)
	p.children = append(p.children, id)
	t.MarkNeedsLayout(parent)
	return id, nil
}

func (t *Tree) valid(id NodeID) bool { return id >= 0 && int(id) < len(t.nodes) }

func (t *Tree) containerOf(id NodeID) (*container, error) {
	if !t.valid(id) {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "no node with id %d", id)
	}
	c := t.nodes[id].container
	if c == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node %d (%s) is not a container", id, t.nodes[id].name)
	}
	return c, nil
}

// SetTracks replaces the row and column specifications of a container. The
// axes are reallocated on the next layout if the track counts change.
func (t *Tree) SetTracks(id NodeID, rows, cols []Length) error {
	c, err := t.containerOf(id)
	if err != nil {
		return err
	}
	c.rowSpecs = cloneLengths(rows)
	c.colSpecs = cloneLengths(cols)
	t.MarkNeedsLayout(id)
	return nil
}

// SetNoResize changes the no-resize policy of a container or leaf.
func (t *Tree) SetNoResize(id NodeID, noResize bool) error {
	if !t.valid(id) {
		return errors.New(errors.ErrCodeNodeNotFound, "no node with id %d", id)
	}
	n := &t.nodes[id]
	if n.leaf != nil {
		allow := n.leaf.edge.AllowBorder(EdgeTop)
		n.leaf.edge = NewFrameEdgeInfo(noResize, allow)
		t.MarkNeedsLayout(n.parent)
		return nil
	}
	n.container.noResize = noResize
	t.MarkNeedsLayout(id)
	return nil
}

// Tracks returns the row and column specifications of a container.
func (t *Tree) Tracks(id NodeID) (rows, cols []Length) {
	if !t.valid(id) || t.nodes[id].container == nil {
		return nil, nil
	}
	c := t.nodes[id].container
	return cloneLengths(c.rowSpecs), cloneLengths(c.colSpecs)
}

// Contains reports whether id names a node of the tree.
func (t *Tree) Contains(id NodeID) bool { return t.valid(id) }

// Kind returns the kind of node id. id must satisfy Contains.
func (t *Tree) Kind(id NodeID) NodeKind { return t.nodes[id].kind }

// Name returns the name node id was created with.
func (t *Tree) Name(id NodeID) string {
	if !t.valid(id) {
		return ""
	}
	return t.nodes[id].name
}

// Parent returns the parent of id, or NoNode for the root and unknown ids.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	return t.nodes[id].parent
}

// Children returns the ordered children of a container.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.valid(id) {
		return nil
	}
	if c := t.nodes[id].container; c != nil {
		return append([]NodeID(nil), c.children...)
	}
	return nil
}

// Rect returns the rectangle assigned to id by the last layout, in tree
// coordinates.
func (t *Tree) Rect(id NodeID) Rect {
	if !t.valid(id) {
		return Rect{}
	}
	return t.nodes[id].rect
}

// Hidden reports whether id was left out of the last layout because its
// container had more children than grid cells.
func (t *Tree) Hidden(id NodeID) bool { return t.valid(id) && t.nodes[id].hidden }

// NeedsLayout reports whether id is waiting for a layout.
func (t *Tree) NeedsLayout(id NodeID) bool { return t.valid(id) && t.nodes[id].needsLayout }

// Border returns the effective border thickness of a container.
func (t *Tree) Border(id NodeID) int {
	if !t.valid(id) {
		return 0
	}
	if c := t.nodes[id].container; c != nil {
		return c.effectiveBorder()
	}
	return 0
}

// BorderColor returns the border color of a container, inherited from the
// nearest ancestor that sets one.
func (t *Tree) BorderColor(id NodeID) string {
	if !t.valid(id) {
		return ""
	}
	for cur := id; cur != NoNode; cur = t.nodes[cur].parent {
		if c := t.nodes[cur].container; c != nil && c.borderColor != "" {
			return c.borderColor
		}
	}
	return ""
}

// Flattening reports whether a container places children in flattening mode.
func (t *Tree) Flattening(id NodeID) bool {
	if !t.valid(id) {
		return false
	}
	c := t.nodes[id].container
	return c != nil && c.flattening
}

// Axis returns a copy of one axis of a container.
func (t *Tree) Axis(id NodeID, a Axis) (*GridAxis, bool) {
	if !t.valid(id) || t.nodes[id].container == nil {
		return nil, false
	}
	return t.nodes[id].container.axis(a).clone(), true
}

// EdgeInfo returns the edge info node id exposes to its parent. For a
// container this reflects the last edge aggregation pass.
func (t *Tree) EdgeInfo(id NodeID) FrameEdgeInfo {
	if !t.valid(id) {
		return FrameEdgeInfo{}
	}
	n := &t.nodes[id]
	if n.leaf != nil {
		return n.leaf.edge
	}
	return n.container.edgeInfo()
}

// MarkNeedsLayout flags a container for relayout and notifies the scheduler.
func (t *Tree) MarkNeedsLayout(id NodeID) {
	if !t.valid(id) {
		return
	}
	t.nodes[id].needsLayout = true
	if t.opts.Scheduler != nil {
		t.opts.Scheduler.ScheduleLayout(id)
	}
}

// Walk visits id and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	t.walk(id, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !fn(id, depth) {
		return
	}
	if c := t.nodes[id].container; c != nil {
		for _, child := range c.children {
			t.walk(child, depth+1, fn)
		}
	}
}

// ContainerAt returns the innermost visible container whose rectangle
// contains p, or NoNode.
func (t *Tree) ContainerAt(p Point) NodeID {
	root := t.Root()
	if !t.nodes[root].rect.Contains(p) {
		return NoNode
	}
	cur := root
	for {
		next := NoNode
		for _, child := range t.nodes[cur].container.children {
			n := &t.nodes[child]
			if n.container != nil && !n.hidden && n.rect.Contains(p) {
				next = child
				break
			}
		}
		if next == NoNode {
			return cur
		}
		cur = next
	}
}

// Deltas returns the non-zero resize deltas of every container, keyed by id.
func (t *Tree) Deltas() map[NodeID]AxisDeltas {
	out := make(map[NodeID]AxisDeltas)
	for i := range t.nodes {
		c := t.nodes[i].container
		if c == nil || (allZero(c.rows.deltas) && allZero(c.cols.deltas)) {
			continue
		}
		out[NodeID(i)] = AxisDeltas{Rows: c.rows.Deltas(), Cols: c.cols.Deltas()}
	}
	return out
}

// RestoreDeltas reapplies deltas saved by Deltas. Entries whose track counts
// no longer match the tree, or whose deltas on either axis do not sum to
// zero, are skipped. It returns the number of containers updated.
func (t *Tree) RestoreDeltas(saved map[NodeID]AxisDeltas) int {
	n := 0
	for id, d := range saved {
		if !t.valid(id) || t.nodes[id].container == nil {
			continue
		}
		c := t.nodes[id].container
		c.rows.ensure(trackCount(c.rowSpecs))
		c.cols.ensure(trackCount(c.colSpecs))
		if !ValidDeltas(d.Rows, c.rows.Len()) || !ValidDeltas(d.Cols, c.cols.Len()) {
			continue
		}
		c.rows.SetDeltas(d.Rows)
		c.cols.SetDeltas(d.Cols)
		t.MarkNeedsLayout(id)
		n++
	}
	return n
}

// AxisDeltas are the resize deltas of both axes of one container.
type AxisDeltas struct {
	Rows []int `json:"rows"`
	Cols []int `json:"cols"`
}

func allZero(v []int) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
