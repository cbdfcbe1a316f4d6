package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/framegrid/pkg/snapshot"
)

// inspectCommand prints the resolved tracks of every container.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags  layoutFlags
		leaves bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [frames.toml]",
		Short: "Print the resolved geometry of every frame as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], flags, leaves)
		},
	}

	cmd.Flags().BoolVar(&leaves, "leaves", false, "include leaf frames")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, flags layoutFlags, leaves bool) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	snap, cacheHit, err := c.computeLayout(ctx, runner, input, flags)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.Out, StyleTitle.Render(snapshotTitle(snap)))
	fmt.Fprintln(c.Out, inspectTable(snap, leaves))
	printStats(len(snap.Frames), countContainers(snap), cacheHit)
	return nil
}

func snapshotTitle(s snapshot.Snapshot) string {
	name := s.Name
	if name == "" {
		name = "frameset"
	}
	return fmt.Sprintf("%s %dx%d", name, s.Width, s.Height)
}

// inspectTable lists containers (and leaves when asked) with their
// rectangle and resolved track sizes.
func inspectTable(s snapshot.Snapshot, leaves bool) string {
	var (
		rows   [][]string
		frames []snapshot.Frame
	)
	for _, f := range s.Frames {
		if !f.IsContainer() && !leaves {
			continue
		}
		frames = append(frames, f)
		rows = append(rows, inspectRow(f))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Frame", "Kind", "Rect", "Rows", "Cols", "Border").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if row >= len(frames) {
				return base
			}
			f := frames[row]
			switch {
			case f.Hidden:
				return base.Foreground(colorDim)
			case col == 0 && f.IsContainer():
				return base.Foreground(colorCyan)
			}
			return base
		}).
		Render()
}

func inspectRow(f snapshot.Frame) []string {
	label := strings.Repeat("  ", f.Depth) + f.Label()
	rect := fmt.Sprintf("%d,%d %dx%d", f.X, f.Y, f.Width, f.Height)
	if f.Hidden {
		rect = "hidden"
	}
	if f.Grid == nil {
		return []string{label, f.Kind, rect, "", "", ""}
	}
	g := f.Grid
	border := strconv.Itoa(g.Border)
	if g.Flatten {
		border += " flat"
	}
	return []string{
		label,
		f.Kind,
		rect,
		formatTracks(g.Rows),
		formatTracks(g.Cols),
		border,
	}
}

// formatTracks shows each track as spec=size, e.g. "100=100 *=200".
func formatTracks(a snapshot.Axis) string {
	parts := make([]string, len(a.Sizes))
	for i, size := range a.Sizes {
		spec := "*"
		if i < len(a.Specs) {
			spec = a.Specs[i]
		}
		parts[i] = fmt.Sprintf("%s=%d", spec, size)
	}
	return strings.Join(parts, " ")
}
