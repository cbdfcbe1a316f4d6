package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framegrid/pkg/config"
	"github.com/matzehuels/framegrid/pkg/pipeline"
	"github.com/matzehuels/framegrid/pkg/snapshot"
)

// layoutFlags are shared by every command that lays out a description.
type layoutFlags struct {
	width     int
	height    int
	sessionID string
	noCache   bool
	refresh   bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.width, "width", 0, "viewport width (default: from the description)")
	cmd.Flags().IntVar(&f.height, "height", 0, "viewport height (default: from the description)")
	cmd.Flags().StringVar(&f.sessionID, "session", "", "apply the resize deltas of a stored session")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached result exists")
}

func (f *layoutFlags) options(input string) pipeline.Options {
	return pipeline.Options{
		Path:    input,
		Width:   f.width,
		Height:  f.height,
		Refresh: f.refresh,
	}
}

// layoutCommand creates the layout command for computing frame geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [frames.toml]",
		Short: "Compute the geometry of a frameset description",
		Long: `Compute the geometry of a frameset description.

The layout command reads a TOML (or JSON) description, allocates the tracks
of every grid container and writes the result as a layout.json snapshot. The
snapshot can be rendered later with 'visualize' without recomputing.

Results are cached, keyed by the description's content, viewport size and
resize deltas.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the description, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, flags layoutFlags, output string) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	snap, cacheHit, err := c.computeLayout(ctx, runner, input, flags)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if outputPath == "-" {
		data, err := snapshot.Marshal(snap)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.Out, string(data))
		return err
	}
	if err := snapshot.WriteFile(snap, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(snap.Frames), countContainers(snap), cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)
	return nil
}

// computeLayout runs load and layout for input, applying the session named
// by flags.
func (c *CLI) computeLayout(ctx context.Context, runner *pipeline.Runner, input string, flags layoutFlags) (snapshot.Snapshot, bool, error) {
	opts := flags.options(input)
	opts.Logger = c.Logger

	doc, docHash, err := runner.Load(ctx, opts)
	if err != nil {
		return snapshot.Snapshot{}, false, err
	}
	if flags.sessionID != "" {
		deltas, err := c.sessionDeltas(ctx, flags.sessionID, docHash)
		if err != nil {
			return snapshot.Snapshot{}, false, err
		}
		opts.Deltas = deltas
	}

	prog := newProgress(c.Logger)
	snap, cacheHit, err := runner.LayoutWithCacheInfo(ctx, doc, docHash, opts)
	if err != nil {
		return snapshot.Snapshot{}, false, fmt.Errorf("compute layout: %w", err)
	}
	prog.done(fmt.Sprintf("Laid out %s", displayName(doc, input)))
	return snap, cacheHit, nil
}

func countContainers(s snapshot.Snapshot) int {
	n := 0
	for _, f := range s.Frames {
		if f.IsContainer() {
			n++
		}
	}
	return n
}

func displayName(doc *config.Document, input string) string {
	if doc.Name != "" {
		return doc.Name
	}
	return filepath.Base(input)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. A known format
// extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
