package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/framegrid/pkg/cache"
	"github.com/matzehuels/framegrid/pkg/config"
	"github.com/matzehuels/framegrid/pkg/observability"
	"github.com/matzehuels/framegrid/pkg/snapshot"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state, so one Runner can serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses cache.DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → layout → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	loadStart := time.Now()
	doc, hash, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.DocHash = hash
	result.Stats.LoadTime = time.Since(loadStart)

	layoutStart := time.Now()
	snap, layoutHit, err := r.LayoutWithCacheInfo(ctx, doc, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Snapshot = snap
	result.Stats.FrameCount = len(snap.Frames)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"frames", len(snap.Frames),
		"size", fmt.Sprintf("%dx%d", snap.Width, snap.Height),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	layoutHash, artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, err
	}
	result.LayoutHash = layoutHash
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the description and reports load hooks.
func (r *Runner) Load(ctx context.Context, opts Options) (*config.Document, string, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, "", err
	}
	source := opts.SourceName()
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, source)

	doc, hash, err := Load(opts)
	count := 0
	if doc != nil {
		count = doc.Root.Count()
	}
	observability.Pipeline().OnLoadComplete(ctx, source, count, time.Since(start), err)
	if err != nil {
		return nil, "", err
	}
	r.Logger.Debug("loaded description", "source", source, "frames", count, "hash", hash[:12])
	return doc, hash, nil
}

// LayoutWithCacheInfo returns the snapshot of doc, computing it on a cache
// miss, and reports whether it came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, doc *config.Document, docHash string, opts Options) (snapshot.Snapshot, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return snapshot.Snapshot{}, false, err
	}
	r.applyLogger(&opts)

	key := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts(doc.Width, doc.Height))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if snap, err := snapshot.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return snap, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("layout cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	snap, err := Layout(ctx, doc, opts)
	if err != nil {
		return snapshot.Snapshot{}, false, err
	}

	if data, err := snapshot.Marshal(snap); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("layout cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return snap, false, nil
}

// RenderWithCacheInfo renders every requested format, serving them from the
// cache when all are present. It returns the layout hash the artifacts are
// keyed under.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap snapshot.Snapshot, opts Options) (string, map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return "", nil, false, err
	}
	r.applyLogger(&opts)

	data, err := snapshot.Marshal(snap)
	if err != nil {
		return "", nil, false, fmt.Errorf("serialize snapshot for cache key: %w", err)
	}
	layoutHash := cache.Hash(data)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return layoutHash, artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	artifacts, err := Render(ctx, snap, opts)
	if err != nil {
		return "", nil, false, err
	}
	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return layoutHash, artifacts, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
