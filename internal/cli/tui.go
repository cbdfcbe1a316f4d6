package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/framegrid/pkg/config"
	"github.com/matzehuels/framegrid/pkg/core/frameset"
	"github.com/matzehuels/framegrid/pkg/pipeline"
	"github.com/matzehuels/framegrid/pkg/render/text"
	"github.com/matzehuels/framegrid/pkg/session"
	"github.com/matzehuels/framegrid/pkg/snapshot"
)

// Lines above and below the drawing.
const (
	tuiHeaderLines = 2
	tuiFooterLines = 1
)

var (
	tuiStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	tuiActiveStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	tuiDirtyStyle  = lipgloss.NewStyle().Foreground(colorYellow)
)

type tuiFlags struct {
	sessionID string
	save      bool
	fit       bool
	color     bool
	noCache   bool
}

// tuiCommand creates the interactive resize command.
func (c *CLI) tuiCommand() *cobra.Command {
	var flags tuiFlags

	cmd := &cobra.Command{
		Use:   "tui [frames.toml]",
		Short: "Drag frame borders interactively in the terminal",
		Long: `Drag frame borders interactively in the terminal.

Drag a border band with the mouse, or select one with tab and move it with
the arrow keys (h/j/k/l). Press r to reset all deltas, s to save the session
and q to quit.

With --session the deltas of a stored session are restored and saved back on
exit; --save starts a new session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.sessionID, "session", "", "resume and update a stored session")
	cmd.Flags().BoolVar(&flags.save, "save", false, "save the deltas as a new session on exit")
	cmd.Flags().BoolVar(&flags.fit, "fit", false, "lay out at the terminal size instead of the description's")
	cmd.Flags().BoolVar(&flags.color, "color", true, "color the drawing")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runTUI(ctx context.Context, input string, flags tuiFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, docHash, err := runner.Load(ctx, pipeline.Options{Path: input, Logger: c.Logger})
	if err != nil {
		return err
	}

	var (
		sess  *session.Session
		store *session.Store
	)
	if flags.sessionID != "" || flags.save {
		s, backend, err := c.newSessionStore(ctx)
		if err != nil {
			return err
		}
		defer backend.Close()
		store = s
	}
	switch {
	case flags.sessionID != "":
		if sess, err = store.Get(ctx, flags.sessionID); err != nil {
			return err
		}
		if sess.Document != docHash {
			return fmt.Errorf("session %s was recorded for a different description", sess.ID)
		}
	case flags.save:
		sess = session.New(docHash, doc.Width, doc.Height)
	}

	var deltas map[string]frameset.AxisDeltas
	if sess != nil {
		deltas = sess.Deltas
	}
	m, err := newFrameModel(doc, deltas, frameModelOptions{fit: flags.fit, color: flags.color})
	if err != nil {
		return err
	}
	if store != nil {
		m.save = func(fm *frameModel) error { return saveSession(ctx, store, sess, fm) }
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	fm, ok := final.(frameModel)
	if !ok || sess == nil || !fm.dirty {
		return nil
	}
	if err := saveSession(context.WithoutCancel(ctx), store, sess, &fm); err != nil {
		return err
	}
	printSuccess("Saved session %s", sess.ID)
	printNextStep("Render it", fmt.Sprintf("%s render %s --session %s", appName, input, sess.ID))
	return nil
}

func saveSession(ctx context.Context, store *session.Store, sess *session.Session, m *frameModel) error {
	sess.Width, sess.Height = m.snap.Width, m.snap.Height
	sess.Capture(m.tree, m.paths)
	if err := store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// =============================================================================
// frameModel - interactive resizing
// =============================================================================

// grabTarget is a boundary the keyboard can select.
type grabTarget struct {
	container frameset.NodeID
	axis      frameset.Axis
	boundary  int
}

type frameModelOptions struct {
	fit   bool
	color bool
}

// frameModel is the bubbletea model of the tui command. The tree is shared
// between copies of the model; every update lays it out again and captures
// a fresh snapshot for drawing.
type frameModel struct {
	doc   *config.Document
	tree  *frameset.Tree
	paths map[frameset.NodeID]string
	disp  *frameset.Dispatcher
	snap  snapshot.Snapshot
	opts  frameModelOptions
	text  text.Options

	termWidth, termHeight int

	targets []grabTarget
	focus   int

	save   func(*frameModel) error
	status string
	dirty  bool
}

func newFrameModel(doc *config.Document, deltas map[string]frameset.AxisDeltas, opts frameModelOptions) (frameModel, error) {
	tree, paths, err := pipeline.Build(doc, deltas, tuiTreeOptions())
	if err != nil {
		return frameModel{}, err
	}
	m := frameModel{
		doc:   doc,
		tree:  tree,
		paths: paths,
		disp:  frameset.NewDispatcher(tree),
		opts:  opts,
		text:  text.Options{Color: opts.color},
	}
	m.tree.Layout(doc.Width, doc.Height)
	m.refresh()
	return m, nil
}

// tuiTreeOptions drops tree warnings; the alternate screen owns the terminal.
func tuiTreeOptions() frameset.Options {
	return frameset.Options{Logger: log.New(io.Discard)}
}

func (m frameModel) Init() tea.Cmd {
	return nil
}

func (m frameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		if m.opts.fit {
			w, h := text.PixelSize(msg.Width, max(msg.Height-tuiHeaderLines-tuiFooterLines, 1), m.text)
			m.tree.Layout(w, h)
			m.refresh()
		}
	}
	return m, nil
}

func (m frameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cw, ch := m.cellSize()
	switch msg.String() {
	case "q", "ctrl+c":
		m.disp.Cancel()
		return m, tea.Quit
	case "esc":
		m.disp.Cancel()
		m.status = "released"
	case "tab":
		m.moveFocus(1)
	case "shift+tab":
		m.moveFocus(-1)
	case "left", "h":
		m.nudge(-cw, 0)
	case "right", "l":
		m.nudge(cw, 0)
	case "up", "k":
		m.nudge(0, -ch)
	case "down", "j":
		m.nudge(0, ch)
	case "r":
		m.reset()
	case "s":
		if m.save == nil {
			m.status = "no session store (use --save or --session)"
			break
		}
		if err := m.save(&m); err != nil {
			m.status = err.Error()
			break
		}
		m.dirty = false
		m.status = "saved"
	}
	return m, nil
}

func (m frameModel) handleMouse(msg tea.MouseMsg) frameModel {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.pointerDown(msg.X, msg.Y-tuiHeaderLines) {
			s, _ := m.disp.Session()
			m.status = fmt.Sprintf("dragging %s", m.frameLabel(s.Container))
		}
	case msg.Action == tea.MouseActionMotion:
		if m.disp.PointerMove(m.cellCenter(msg.X, msg.Y-tuiHeaderLines)) {
			m.relayout()
		}
	case msg.Action == tea.MouseActionRelease:
		if m.disp.PointerUp(m.cellCenter(msg.X, msg.Y-tuiHeaderLines)) {
			m.relayout()
		}
		m.status = ""
	}
	return m
}

// pointerDown offers every pixel of the cell to the dispatcher until one
// grabs a boundary, since a band can be thinner than a cell.
func (m *frameModel) pointerDown(col, row int) bool {
	if col < 0 || row < 0 {
		return false
	}
	cw, ch := m.cellSize()
	for dy := range ch {
		for dx := range cw {
			if m.disp.PointerDown(frameset.Point{X: col*cw + dx, Y: row*ch + dy}) {
				return true
			}
		}
	}
	return false
}

func (m *frameModel) cellCenter(col, row int) frameset.Point {
	cw, ch := m.cellSize()
	return frameset.Point{X: col*cw + cw/2, Y: row*ch + ch/2}
}

func (m *frameModel) cellSize() (int, int) {
	cw, ch := m.text.CellWidth, m.text.CellHeight
	if cw <= 0 {
		cw = text.DefaultCellWidth
	}
	if ch <= 0 {
		ch = text.DefaultCellHeight
	}
	return cw, ch
}

func (m *frameModel) moveFocus(step int) {
	m.disp.Cancel()
	if len(m.targets) == 0 {
		m.status = "no resizable borders"
		return
	}
	m.focus = (m.focus + step + len(m.targets)) % len(m.targets)
	m.status = m.describe(m.targets[m.focus])
}

// nudge grabs the focused boundary if nothing is grabbed and moves it.
func (m *frameModel) nudge(dx, dy int) {
	if _, ok := m.disp.Session(); !ok {
		if len(m.targets) == 0 {
			return
		}
		t := m.targets[m.focus]
		if !m.disp.Grab(t.container, t.axis, t.boundary) {
			m.status = "border cannot be resized"
			return
		}
	}
	if m.disp.Nudge(dx, dy) {
		m.relayout()
	}
}

func (m *frameModel) reset() {
	m.disp.Cancel()
	tree, paths, err := pipeline.Build(m.doc, nil, tuiTreeOptions())
	if err != nil {
		m.status = err.Error()
		return
	}
	w, h := m.snap.Width, m.snap.Height
	m.tree, m.paths = tree, paths
	m.disp = frameset.NewDispatcher(tree)
	m.tree.Layout(w, h)
	m.dirty = true
	m.refresh()
	m.status = "reset"
}

func (m *frameModel) relayout() {
	m.tree.LayoutDirty()
	m.dirty = true
	m.refresh()
}

// refresh captures the tree and recomputes the keyboard targets.
func (m *frameModel) refresh() {
	m.snap = snapshot.Capture(m.tree, m.doc.Name, m.paths)
	m.targets = grabTargets(m.snap)
	if m.focus >= len(m.targets) {
		m.focus = 0
	}
}

// grabTargets lists the interior bands that can be dragged, in frame order.
func grabTargets(s snapshot.Snapshot) []grabTarget {
	var out []grabTarget
	for _, f := range s.Frames {
		if f.Grid == nil || f.Hidden || f.Grid.Flatten {
			continue
		}
		for _, ax := range []struct {
			axis frameset.Axis
			a    snapshot.Axis
		}{{frameset.AxisCols, f.Grid.Cols}, {frameset.AxisRows, f.Grid.Rows}} {
			for _, b := range ax.a.Boundaries {
				if b.Index <= 0 || b.Index >= len(ax.a.Sizes) || b.Thickness == 0 || b.PreventResize {
					continue
				}
				out = append(out, grabTarget{container: frameset.NodeID(f.ID), axis: ax.axis, boundary: b.Index})
			}
		}
	}
	return out
}

func (m *frameModel) frameLabel(id frameset.NodeID) string {
	if f, ok := m.snap.Frame(int(id)); ok {
		return f.Label()
	}
	return fmt.Sprintf("#%d", id)
}

func (m *frameModel) describe(t grabTarget) string {
	return fmt.Sprintf("%s %s border %d", m.frameLabel(t.container), t.axis, t.boundary)
}

// marker returns the boundary to highlight: the grabbed one, otherwise the
// focused one.
func (m frameModel) marker() *text.Marker {
	if s, ok := m.disp.Session(); ok {
		if axes := s.Axes(); len(axes) > 0 {
			b := s.ColBoundary
			if axes[0] == frameset.AxisRows {
				b = s.RowBoundary
			}
			return &text.Marker{Container: int(s.Container), Axis: axes[0].String(), Boundary: b}
		}
	}
	if len(m.targets) == 0 {
		return nil
	}
	t := m.targets[m.focus]
	return &text.Marker{Container: int(t.container), Axis: t.axis.String(), Boundary: t.boundary}
}

func (m frameModel) View() string {
	var b strings.Builder

	title := StyleTitle.Render(snapshotTitle(m.snap))
	if m.dirty {
		title += " " + tuiDirtyStyle.Render("●")
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("drag borders · tab select · ←↑↓→ move · r reset · s save · q quit"))
	b.WriteString("\n")

	opts := m.text
	opts.Active = m.marker()
	b.WriteString(text.Render(m.snap, opts))
	b.WriteString("\n")

	status := m.status
	if _, ok := m.disp.Session(); ok {
		b.WriteString(tuiActiveStyle.Render(status))
	} else {
		b.WriteString(tuiStatusStyle.Render(status))
	}
	return b.String()
}
