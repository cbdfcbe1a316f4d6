package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/framegrid/pkg/config"
	"github.com/matzehuels/framegrid/pkg/core/frameset"
	"github.com/matzehuels/framegrid/pkg/observability"
	"github.com/matzehuels/framegrid/pkg/session"
	"github.com/matzehuels/framegrid/pkg/snapshot"
)

// Build creates the tree for doc and restores deltas keyed by frame path.
// The tree still needs a layout.
func Build(doc *config.Document, deltas map[string]frameset.AxisDeltas, opts frameset.Options) (*frameset.Tree, map[frameset.NodeID]string, error) {
	tree, paths, err := config.Build(doc, opts)
	if err != nil {
		return nil, nil, err
	}
	if n := session.ApplyDeltas(tree, paths, deltas); n > 0 && opts.Logger != nil {
		opts.Logger.Debug("restored resize deltas", "containers", n)
	}
	return tree, paths, nil
}

// Layout lays doc out at its viewport size and captures the result.
func Layout(ctx context.Context, doc *config.Document, opts Options) (snapshot.Snapshot, error) {
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, doc.Name, doc.Root.Count())

	tree, paths, err := Build(doc, opts.Deltas, frameset.Options{Logger: opts.Logger})
	if err != nil {
		observability.Pipeline().OnLayoutComplete(ctx, doc.Name, time.Since(start), err)
		return snapshot.Snapshot{}, err
	}
	tree.Layout(doc.Width, doc.Height)
	snap := snapshot.Capture(tree, doc.Name, paths)

	observability.Pipeline().OnLayoutComplete(ctx, doc.Name, time.Since(start), nil)
	return snap, nil
}
