package session

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/framegrid/pkg/cache"
	"github.com/matzehuels/framegrid/pkg/core/frameset"
	"github.com/matzehuels/framegrid/pkg/errors"
)

func twoColumns(t *testing.T) (*frameset.Tree, map[frameset.NodeID]string) {
	t.Helper()
	tree := frameset.NewTree(frameset.ContainerSpec{
		Cols:          []frameset.Length{frameset.Star(1), frameset.Star(1)},
		Border:        6,
		BorderVisible: true,
	}, frameset.Options{})
	for range 2 {
		if _, err := tree.AddLeaf(tree.Root(), frameset.LeafSpec{FrameBorder: true}); err != nil {
			t.Fatal(err)
		}
	}
	tree.Layout(106, 50)
	return tree, map[frameset.NodeID]string{tree.Root(): "root", 1: "root/0", 2: "root/1"}
}

func colSizes(t *testing.T, tree *frameset.Tree) []int {
	t.Helper()
	ax, ok := tree.Axis(tree.Root(), frameset.AxisCols)
	if !ok {
		t.Fatal("root has no cols axis")
	}
	return ax.Sizes()
}

func TestNew(t *testing.T) {
	s := New("doc", 800, 600)
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", s.ID, err)
	}
	if s.IsExpired() {
		t.Error("new session is expired")
	}
	if got := s.ExpiresAt.Sub(s.CreatedAt); got != DefaultTTL {
		t.Errorf("ttl = %v, want %v", got, DefaultTTL)
	}
	if s.DeltasHash() != "" {
		t.Error("empty session should have empty deltas hash")
	}
}

func TestCaptureApply(t *testing.T) {
	tree, paths := twoColumns(t)
	tree.RestoreDeltas(map[frameset.NodeID]frameset.AxisDeltas{
		tree.Root(): {Rows: []int{0}, Cols: []int{10, -10}},
	})
	tree.LayoutDirty()

	s := New("doc", 106, 50)
	s.Capture(tree, paths)
	if d, ok := s.Deltas["root"]; !ok || !slices.Equal(d.Cols, []int{10, -10}) {
		t.Fatalf("captured deltas = %+v", s.Deltas)
	}

	fresh, freshPaths := twoColumns(t)
	if n := s.Apply(fresh, freshPaths); n != 1 {
		t.Fatalf("Apply updated %d containers, want 1", n)
	}
	fresh.LayoutDirty()
	if got := colSizes(t, fresh); !slices.Equal(got, []int{60, 40}) {
		t.Errorf("sizes after Apply = %v, want [60 40]", got)
	}
}

func TestApplySkipsUnknownPaths(t *testing.T) {
	tree, paths := twoColumns(t)
	s := New("doc", 106, 50)
	s.Merge(map[string]frameset.AxisDeltas{"root/sidebar": {Rows: []int{0}, Cols: []int{5, -5}}})
	if n := s.Apply(tree, paths); n != 0 {
		t.Errorf("Apply updated %d containers, want 0", n)
	}
}

func TestHashDeltas(t *testing.T) {
	a := map[string]frameset.AxisDeltas{"root": {Cols: []int{1, -1}}, "root/0": {Rows: []int{2, -2}}}
	b := map[string]frameset.AxisDeltas{"root/0": {Rows: []int{2, -2}}, "root": {Cols: []int{1, -1}}}
	if HashDeltas(a) != HashDeltas(b) {
		t.Error("equal delta sets hash differently")
	}
	b["root"] = frameset.AxisDeltas{Cols: []int{2, -2}}
	if HashDeltas(a) == HashDeltas(b) {
		t.Error("different delta sets hash equally")
	}
	if HashDeltas(nil) != "" {
		t.Error("empty set should hash to empty string")
	}
}

func TestValidateDeltas(t *testing.T) {
	tests := []struct {
		name   string
		deltas map[string]frameset.AxisDeltas
		ok     bool
	}{
		{"none", nil, true},
		{"empty axes", map[string]frameset.AxisDeltas{"root": {}}, true},
		{"balanced", map[string]frameset.AxisDeltas{"root": {Rows: []int{0}, Cols: []int{10, -10}}}, true},
		{"unbalanced cols", map[string]frameset.AxisDeltas{"root": {Rows: []int{0}, Cols: []int{500, 0}}}, false},
		{"unbalanced single row", map[string]frameset.AxisDeltas{"root/0": {Rows: []int{7}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDeltas(tt.deltas)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(c, nil)

	s := New("doc", 106, 50)
	s.Merge(map[string]frameset.AxisDeltas{"root": {Rows: []int{0}, Cols: []int{10, -10}}})
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Document != "doc" || !slices.Equal(got.Deltas["root"].Cols, []int{10, -10}) {
		t.Errorf("Get = %+v", got)
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("Get after Delete: %v", err)
	}
}

func TestStoreErrors(t *testing.T) {
	ctx := context.Background()
	store := NewStore(cache.NewNullCache(), nil)

	tests := []struct {
		name string
		id   string
		code errors.Code
	}{
		{"malformed id", "../etc/passwd", errors.ErrCodeInvalidInput},
		{"unknown id", uuid.NewString(), errors.ErrCodeSessionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Get(ctx, tt.id); !errors.Is(err, tt.code) {
				t.Errorf("Get(%q) = %v, want %s", tt.id, err, tt.code)
			}
		})
	}

	expired := New("doc", 1, 1)
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Save(ctx, expired); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save(expired) = %v", err)
	}
}
