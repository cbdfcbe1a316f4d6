package cache

// LayoutKeyOpts are the inputs besides the description that change a layout.
type LayoutKeyOpts struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Deltas string `json:"deltas,omitempty"` // hash of restored resize deltas
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Scale    int    `json:"scale,omitempty"`
	Labels   bool   `json:"labels,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
	Color    bool   `json:"color,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey is the key of the snapshot computed from a description.
	LayoutKey(docHash string, opts LayoutKeyOpts) string
	// ArtifactKey is the key of one rendered format of a snapshot.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
	// SessionKey is the key of a stored resize session.
	SessionKey(id string) string
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// SessionKey implements Keyer. Session ids are already unique, so they are
// used as is.
func (DefaultKeyer) SessionKey(id string) string {
	return "session:" + id
}

// ScopedKeyer wraps a Keyer with a prefix, so that several tenants or
// environments can share one backend.
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(docHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// SessionKey implements Keyer.
func (k *ScopedKeyer) SessionKey(id string) string {
	return k.prefix + k.inner.SessionKey(id)
}
