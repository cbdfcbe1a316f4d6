package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framegrid/pkg/pipeline"
)

// renderFlags hold the render options shared by render and visualize.
type renderFlags struct {
	formats  string
	output   string
	labels   bool
	detailed bool
	scale    int
	color    bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, txt, dot, tree, json (comma-separated)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().BoolVar(&f.labels, "labels", false, "draw frame names (svg, png, pdf)")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "show rectangles and tracks (dot, tree)")
	cmd.Flags().IntVar(&f.scale, "scale", pipeline.DefaultScale, "pixel density for png")
	cmd.Flags().BoolVar(&f.color, "color", false, "color text output with ANSI escapes")
}

func (f *renderFlags) apply(opts *pipeline.Options) error {
	opts.Formats = parseFormats(f.formats)
	opts.Labels = f.labels
	opts.Detailed = f.detailed
	opts.Scale = f.scale
	opts.Color = f.color
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	if f.output == "-" && len(opts.Formats) != 1 {
		return fmt.Errorf("--output - needs exactly one format, got %d", len(opts.Formats))
	}
	return nil
}

// renderCommand creates the render command: layout and render in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		lf layoutFlags
		rf renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [frames.toml]",
		Short: "Lay out a frameset description and render it",
		Long: `Lay out a frameset description and render it.

Formats:
  svg    vector drawing of the frames and their border bands
  png    rasterized svg (needs rsvg-convert)
  pdf    svg converted to pdf (needs rsvg-convert)
  txt    box drawing for the terminal
  dot    Graphviz source of the frame tree
  tree   the frame tree rendered by Graphviz as svg
  json   the layout snapshot, as written by 'layout'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := lf.options(args[0])
			if err := rf.apply(&opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], lf, rf, opts)
		},
	}

	rf.register(cmd)
	lf.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, lf layoutFlags, rf renderFlags, opts pipeline.Options) error {
	runner, err := c.newRunner(ctx, lf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	snap, layoutHit, err := c.computeLayout(ctx, runner, input, lf)
	if err != nil {
		return err
	}

	opts.Logger = c.Logger
	spinner := newSpinnerWithContext(ctx, os.Stderr, "Rendering...")
	spinner.Start()
	_, artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	return c.writeArtifacts(artifactWriteParams{
		artifacts:  artifacts,
		formats:    opts.Formats,
		input:      input,
		output:     rf.output,
		frames:     len(snap.Frames),
		containers: countContainers(snap),
		cacheHit:   layoutHit && renderHit,
	})
}

type artifactWriteParams struct {
	artifacts  map[string][]byte
	formats    []string
	input      string
	output     string
	frames     int
	containers int
	cacheHit   bool
}

// writeArtifacts writes one file per format. A single format goes to
// output as given; several formats share the base path of output.
func (c *CLI) writeArtifacts(p artifactWriteParams) error {
	if p.output == "-" {
		_, err := c.Out.Write(p.artifacts[p.formats[0]])
		return err
	}

	var written []string
	for _, format := range p.formats {
		path := basePath(p.output, p.input) + "." + format
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if err := writeFile(path, p.artifacts[format]); err != nil {
			return err
		}
		written = append(written, path)
	}

	printSuccess("Rendered %d %s", len(written), plural(len(written), "file", "files"))
	for _, path := range written {
		printFile(path)
	}
	printStats(p.frames, p.containers, p.cacheHit)
	return nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
