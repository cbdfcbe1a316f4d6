package text

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/matzehuels/framegrid/pkg/core/frameset"
	"github.com/matzehuels/framegrid/pkg/snapshot"
)

func twoPane(t *testing.T, left, right string, noResize bool) snapshot.Snapshot {
	t.Helper()
	tree := frameset.NewTree(frameset.ContainerSpec{
		Cols:          []frameset.Length{frameset.Px(100), frameset.Star(1)},
		Border:        4,
		BorderVisible: true,
	}, frameset.Options{})
	if _, err := tree.AddLeaf(tree.Root(), frameset.LeafSpec{Name: left, FrameBorder: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := tree.AddLeaf(tree.Root(), frameset.LeafSpec{Name: right, FrameBorder: true, NoResize: noResize}); err != nil {
		t.Fatal(err)
	}
	tree.Layout(304, 200)
	return snapshot.Capture(tree, "", nil)
}

func TestRender(t *testing.T) {
	out := Render(twoPane(t, "toc", "body", true), Options{})
	lines := strings.Split(out, "\n")
	if len(lines) != 13 {
		t.Fatalf("got %d lines, want 13\n%s", len(lines), out)
	}

	tests := []struct {
		row  int
		want string
	}{
		{0, "┌" + strings.Repeat("─", 11) + "│┌" + strings.Repeat("─", 23) + "┐"},
		{1, "│toc" + strings.Repeat(" ", 8) + "││body" + strings.Repeat(" ", 19) + "│"},
		{12, "└" + strings.Repeat("─", 11) + "│└" + strings.Repeat("─", 23) + "┘"},
	}
	for _, tt := range tests {
		if got := lines[tt.row]; got != tt.want {
			t.Errorf("line %d:\n got %q\nwant %q", tt.row, got, tt.want)
		}
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != 38 {
			t.Errorf("line %d has %d cells, want 38", i, n)
		}
	}
}

func TestRenderResizableAndActive(t *testing.T) {
	s := twoPane(t, "toc", "body", false)

	if line := strings.Split(Render(s, Options{}), "\n")[5]; []rune(line)[12] != '┃' {
		t.Errorf("resizable band = %q", line)
	}

	out := Render(s, Options{Active: &Marker{Container: 0, Axis: "cols", Boundary: 1}})
	if line := strings.Split(out, "\n")[5]; []rune(line)[12] != '║' {
		t.Errorf("active band = %q", line)
	}
}

func TestRenderLabels(t *testing.T) {
	out := Render(twoPane(t, "navigation-panel", "日本語", false), Options{})
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[1], "│navigation…") {
		t.Errorf("long label not truncated: %q", lines[1])
	}
	if !strings.Contains(lines[1], "│日本語") {
		t.Errorf("wide label missing: %q", lines[1])
	}
}

func TestRenderColor(t *testing.T) {
	s := twoPane(t, "toc", "body", false)
	plain := Render(s, Options{})
	colored := Render(s, Options{Color: true, Focus: 1})
	if !strings.Contains(colored, "toc") {
		t.Error("colored output lost labels")
	}
	if len(strings.Split(colored, "\n")) != len(strings.Split(plain, "\n")) {
		t.Error("color changed line count")
	}
}

func TestSize(t *testing.T) {
	tests := []struct {
		w, h       int
		opts       Options
		cols, rows int
	}{
		{304, 200, Options{}, 38, 13},
		{80, 24, Options{CellWidth: 1, CellHeight: 1}, 80, 24},
		{0, 0, Options{}, 0, 0},
		{9, 17, Options{}, 2, 2},
	}
	for _, tt := range tests {
		cols, rows := Size(tt.w, tt.h, tt.opts)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("Size(%d, %d) = %d, %d; want %d, %d", tt.w, tt.h, cols, rows, tt.cols, tt.rows)
		}
	}
	if w, h := PixelSize(10, 5, Options{}); w != 80 || h != 80 {
		t.Errorf("PixelSize = %d, %d", w, h)
	}
}

func TestRenderCropsLargeLayouts(t *testing.T) {
	huge := 1 << 40
	s := snapshot.Snapshot{
		Width:  huge,
		Height: huge,
		Frames: []snapshot.Frame{{ID: 1, Kind: "leaf", Name: "big", Width: huge, Height: huge}},
	}
	out := Render(s, Options{CellWidth: 1, CellHeight: 1})
	lines := strings.Split(out, "\n")
	if len(lines) != MaxRows {
		t.Fatalf("got %d lines, want %d", len(lines), MaxRows)
	}
	if n := utf8.RuneCountInString(lines[0]); n != MaxColumns {
		t.Errorf("first line has %d cells, want %d", n, MaxColumns)
	}
	if !strings.HasPrefix(lines[1], "│big") {
		t.Errorf("label missing: %q", lines[1][:min(len(lines[1]), 16)])
	}
}
