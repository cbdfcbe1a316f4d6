package frameset

import "testing"

func framed(name string) LeafSpec { return LeafSpec{Name: name, FrameBorder: true} }

func borderless(name string) LeafSpec { return LeafSpec{Name: name} }

// newGrid builds a single container with the given leaves.
func newGrid(t *testing.T, spec ContainerSpec, leaves ...LeafSpec) (*Tree, []NodeID) {
	t.Helper()
	tree := NewTree(spec, Options{})
	ids := make([]NodeID, len(leaves))
	for i, l := range leaves {
		id, err := tree.AddLeaf(tree.Root(), l)
		if err != nil {
			t.Fatalf("AddLeaf(%q): %v", l.Name, err)
		}
		ids[i] = id
	}
	return tree, ids
}

func mustAxis(t *testing.T, tree *Tree, id NodeID, a Axis) *GridAxis {
	t.Helper()
	ax, ok := tree.Axis(id, a)
	if !ok {
		t.Fatalf("Axis(%d, %s): not a container", id, a)
	}
	return ax
}

type repaintRecorder struct{ rects []Rect }

func (r *repaintRecorder) Repaint(rect Rect) { r.rects = append(r.rects, rect) }

type scheduleRecorder struct{ ids []NodeID }

func (s *scheduleRecorder) ScheduleLayout(id NodeID) { s.ids = append(s.ids, id) }

type measurer map[NodeID][2]int

func (m measurer) NaturalSize(id NodeID) (int, int) { return m[id][0], m[id][1] }
