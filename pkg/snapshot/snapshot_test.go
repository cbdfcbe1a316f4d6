package snapshot

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/framegrid/pkg/core/frameset"
)

func sampleTree(t *testing.T) *frameset.Tree {
	t.Helper()
	tree := frameset.NewTree(frameset.ContainerSpec{
		Name:          "mail",
		Cols:          []frameset.Length{frameset.Px(100), frameset.Star(1)},
		Border:        4,
		BorderVisible: true,
		BorderColor:   "#888",
	}, frameset.Options{})
	if _, err := tree.AddLeaf(tree.Root(), frameset.LeafSpec{Name: "toc", FrameBorder: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := tree.AddLeaf(tree.Root(), frameset.LeafSpec{Name: "body", FrameBorder: true, NoResize: true}); err != nil {
		t.Fatal(err)
	}
	tree.Layout(304, 200)
	return tree
}

func TestCapture(t *testing.T) {
	s := Capture(sampleTree(t), "mail", map[frameset.NodeID]string{0: "root", 1: "root/toc"})

	if s.Width != 304 || s.Height != 200 || len(s.Frames) != 3 {
		t.Fatalf("snapshot = %dx%d with %d frames", s.Width, s.Height, len(s.Frames))
	}

	root := s.Frames[0]
	if !root.IsContainer() || root.Parent != -1 || root.Kind != "container" {
		t.Errorf("root frame = %+v", root)
	}
	cols := root.Grid.Cols
	if !slices.Equal(cols.Specs, []string{"100", "*"}) || !slices.Equal(cols.Sizes, []int{100, 200}) {
		t.Errorf("cols = %+v", cols)
	}
	if len(cols.Boundaries) != 3 {
		t.Fatalf("boundaries = %+v", cols.Boundaries)
	}
	mid := cols.Boundaries[1]
	if mid.Position != 100 || mid.Thickness != 4 || !mid.AllowBorder || !mid.PreventResize {
		t.Errorf("interior boundary = %+v", mid)
	}
	if outer := cols.Boundaries[2]; outer.Position != 304 || outer.Thickness != 0 {
		t.Errorf("outer boundary = %+v", outer)
	}
	if root.Grid.BorderColor != "#888" || root.Grid.Border != 4 {
		t.Errorf("grid = %+v", root.Grid)
	}

	body := s.Frames[2]
	if body.Rect() != (frameset.Rect{X: 104, Width: 200, Height: 200}) {
		t.Errorf("body rect = %+v", body.Rect())
	}
	if !body.Edges.Left.PreventResize || body.Label() != "body" {
		t.Errorf("body = %+v", body)
	}
	if got := s.Frames[1].Path; got != "root/toc" {
		t.Errorf("toc path = %q", got)
	}
	if got := len(s.Leaves()); got != 2 {
		t.Errorf("Leaves() = %d, want 2", got)
	}
}

func TestFrameLabel(t *testing.T) {
	tests := []struct {
		f    Frame
		want string
	}{
		{Frame{ID: 3, Name: "toc", Path: "root/toc"}, "toc"},
		{Frame{ID: 3, Path: "root/0"}, "root/0"},
		{Frame{ID: 3}, "#3"},
	}
	for _, tt := range tests {
		if got := tt.f.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	s := Capture(sampleTree(t), "mail", nil)
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteFile(s, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Frames) != len(s.Frames) || got.Frames[2].X != 104 {
		t.Errorf("round trip = %+v", got)
	}
	if f, ok := got.Frame(2); !ok || f.Name != "body" {
		t.Errorf("Frame(2) = %+v, %v", f, ok)
	}

	data, _ := Marshal(s)
	if !strings.Contains(string(data), `"allow_border": true`) {
		t.Error("boundary permissions not flattened into JSON")
	}
}

func TestUnmarshalRejectsEmpty(t *testing.T) {
	for _, input := range []string{`{}`, `{"frames":[{"id":0,"kind":"leaf"}]}`, `not json`} {
		if _, err := Unmarshal([]byte(input)); err == nil {
			t.Errorf("Unmarshal(%s) succeeded", input)
		}
	}
}
