package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/framegrid/pkg/core/frameset"
	"github.com/matzehuels/framegrid/pkg/session"
)

// sessionCommand creates the session management command.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and manage stored resize sessions",
		Long: `Inspect and manage stored resize sessions.

A session records the resize deltas of one description, keyed by frame path,
so a layout dragged in 'tui' or through the HTTP API can be reproduced with
--session on layout and render.`,
	}

	cmd.AddCommand(c.sessionShowCommand())
	cmd.AddCommand(c.sessionExportCommand())
	cmd.AddCommand(c.sessionDeleteCommand())

	return cmd
}

func (c *CLI) sessionShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print a session and its deltas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.loadSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printKeyValue("ID", sess.ID)
			printKeyValue("Document", sess.Document[:12])
			printKeyValue("Size", fmt.Sprintf("%dx%d", sess.Width, sess.Height))
			printKeyValue("Updated", sess.UpdatedAt.Local().Format(time.DateTime))
			printKeyValue("Expires", sess.ExpiresAt.Local().Format(time.DateTime))
			printNewline()
			if len(sess.Deltas) == 0 {
				printInfo("No resize deltas")
				return nil
			}
			fmt.Fprintln(c.Out, deltasTable(sess.Deltas))
			return nil
		},
	}
}

func (c *CLI) sessionExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Write a session as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.loadSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(sess, "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')
			if output == "" || output == "-" {
				_, err = c.Out.Write(data)
				return err
			}
			if err := writeFile(output, data); err != nil {
				return err
			}
			printSuccess("Exported session")
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) sessionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, backend, err := c.newSessionStore(cmd.Context())
			if err != nil {
				return err
			}
			defer backend.Close()
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted session %s", args[0])
			return nil
		},
	}
}

func (c *CLI) loadSession(ctx context.Context, id string) (*session.Session, error) {
	store, backend, err := c.newSessionStore(ctx)
	if err != nil {
		return nil, err
	}
	defer backend.Close()
	return store.Get(ctx, id)
}

// sessionDeltas returns the deltas of session id, which must belong to the
// description with docHash.
func (c *CLI) sessionDeltas(ctx context.Context, id, docHash string) (map[string]frameset.AxisDeltas, error) {
	sess, err := c.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Document != docHash {
		return nil, fmt.Errorf("session %s was recorded for a different description", id)
	}
	c.Logger.Debug("applying session", "id", id, "containers", len(sess.Deltas))
	return sess.Deltas, nil
}

func deltasTable(deltas map[string]frameset.AxisDeltas) string {
	paths := make([]string, 0, len(deltas))
	for p := range deltas {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	rows := make([][]string, 0, len(paths))
	for _, p := range paths {
		d := deltas[p]
		rows = append(rows, []string{p, formatInts(d.Rows), formatInts(d.Cols)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Container", "Row deltas", "Col deltas").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

func formatInts(v []int) string {
	if len(v) == 0 {
		return "-"
	}
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprintf("%+d", n)
	}
	return strings.Join(parts, " ")
}
