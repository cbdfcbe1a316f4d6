package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framegrid/pkg/pipeline"
	"github.com/matzehuels/framegrid/pkg/snapshot"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		rf      renderFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a computed layout",
		Long: `Render a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it. The layout contains all geometry, so this step is purely about
drawing.

Use 'render' as a shortcut to go directly from a description to output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts pipeline.Options
			if err := rf.apply(&opts); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], rf, opts, noCache)
		},
	}

	rf.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, rf renderFlags, opts pipeline.Options, noCache bool) error {
	snap, err := snapshot.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	spinner := newSpinnerWithContext(ctx, os.Stderr, "Rendering...")
	spinner.Start()
	_, artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return c.writeArtifacts(artifactWriteParams{
		artifacts:  artifacts,
		formats:    opts.Formats,
		input:      trimLayoutSuffix(input),
		output:     rf.output,
		frames:     len(snap.Frames),
		containers: countContainers(snap),
		cacheHit:   cacheHit,
	})
}

// trimLayoutSuffix maps mail.layout.json to mail.json, so outputs are named
// mail.svg rather than mail.layout.svg.
func trimLayoutSuffix(path string) string {
	if base, ok := strings.CutSuffix(path, ".layout.json"); ok && base != "" {
		return base + ".json"
	}
	return path
}
