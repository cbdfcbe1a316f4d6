// Package session persists interactive resize state.
//
// A [Session] records the resize deltas a user applied to one frameset
// description, keyed by frame path so they survive rebuilding the tree. The
// TUI saves a session on exit and the HTTP API lets clients create, update
// and replay sessions. Sessions are stored through a [cache.Cache], so the
// same backends serve the CLI (files) and the server (Redis or MongoDB).
//
//	store := session.NewStore(c, cache.NewDefaultKeyer())
//	sess := session.New(docHash, 800, 600)
//	sess.Capture(tree, paths)
//	err := store.Save(ctx, sess)
//
// [cache.Cache]: github.com/matzehuels/framegrid/pkg/cache.Cache
package session

import (
	"encoding/json"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/framegrid/pkg/cache"
	"github.com/matzehuels/framegrid/pkg/core/frameset"
	"github.com/matzehuels/framegrid/pkg/errors"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = cache.TTLSession

// Session is the resize state of one description.
type Session struct {
	ID string `json:"id"`

	// Document is the hash of the description the deltas apply to.
	Document string `json:"document"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`

	// Deltas are keyed by frame path.
	Deltas map[string]frameset.AxisDeltas `json:"deltas"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New creates an empty session with a random id.
func New(document string, width, height int) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Document:  document,
		Width:     width,
		Height:    height,
		Deltas:    map[string]frameset.AxisDeltas{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(DefaultTTL),
	}
}

// IsExpired reports whether the session is past its expiry time.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Capture replaces the stored deltas with the tree's current ones.
func (s *Session) Capture(tree *frameset.Tree, paths map[frameset.NodeID]string) {
	s.Deltas = CaptureDeltas(tree, paths)
	s.touch()
}

// Apply restores the stored deltas into tree and returns how many containers
// were updated. The tree needs a layout afterwards.
func (s *Session) Apply(tree *frameset.Tree, paths map[frameset.NodeID]string) int {
	return ApplyDeltas(tree, paths, s.Deltas)
}

// CaptureDeltas returns the tree's non-zero deltas keyed by frame path.
// Containers without a path are skipped.
func CaptureDeltas(tree *frameset.Tree, paths map[frameset.NodeID]string) map[string]frameset.AxisDeltas {
	out := map[string]frameset.AxisDeltas{}
	for id, d := range tree.Deltas() {
		if p, ok := paths[id]; ok {
			out[p] = d
		}
	}
	return out
}

// ApplyDeltas restores deltas keyed by frame path and returns how many
// containers were updated. Unknown paths and entries whose track counts no
// longer match are skipped.
func ApplyDeltas(tree *frameset.Tree, paths map[frameset.NodeID]string, deltas map[string]frameset.AxisDeltas) int {
	if len(deltas) == 0 {
		return 0
	}
	byPath := make(map[string]frameset.NodeID, len(paths))
	for id, p := range paths {
		byPath[p] = id
	}
	saved := make(map[frameset.NodeID]frameset.AxisDeltas, len(deltas))
	for p, d := range deltas {
		if id, ok := byPath[p]; ok {
			saved[id] = d
		}
	}
	return tree.RestoreDeltas(saved)
}

// ValidateDeltas checks that the deltas of every axis sum to zero, as deltas
// produced by dragging boundaries do. Unbalanced deltas are INVALID_INPUT
// errors.
func ValidateDeltas(deltas map[string]frameset.AxisDeltas) error {
	for _, p := range slices.Sorted(maps.Keys(deltas)) {
		d := deltas[p]
		for _, ax := range []struct {
			name string
			v    []int
		}{{"rows", d.Rows}, {"cols", d.Cols}} {
			if !frameset.ValidDeltas(ax.v, len(ax.v)) {
				return errors.New(errors.ErrCodeInvalidInput, "%s %s deltas %v do not sum to zero", p, ax.name, ax.v)
			}
		}
	}
	return nil
}

// Merge overlays deltas onto the stored ones.
func (s *Session) Merge(deltas map[string]frameset.AxisDeltas) {
	if s.Deltas == nil {
		s.Deltas = map[string]frameset.AxisDeltas{}
	}
	maps.Copy(s.Deltas, deltas)
	s.touch()
}

// DeltasHash identifies the stored deltas, for cache keys. It is empty when
// there are none.
func (s *Session) DeltasHash() string {
	return HashDeltas(s.Deltas)
}

// HashDeltas hashes a delta set. encoding/json sorts map keys, so equal sets
// hash equally.
func HashDeltas(d map[string]frameset.AxisDeltas) string {
	if len(d) == 0 {
		return ""
	}
	data, _ := json.Marshal(d)
	return cache.Hash(data)
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
	s.ExpiresAt = s.UpdatedAt.Add(DefaultTTL)
}
