// Package listing shows the children of a path as a flat list or as an
// expandable tree, and tracks which entries are selected.
package listing

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/pathpick/internal/ui"
	"github.com/oakwood-commons/pathpick/internal/ui/table"
	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/signal"
)

// DisplayMode selects how entries are laid out.
type DisplayMode int

const (
	// List shows the direct children of the bound path.
	List DisplayMode = iota
	// Tree shows the hierarchy below the bound path with expandable nodes.
	Tree
)

func (d DisplayMode) String() string {
	if d == Tree {
		return ui.DisplayModeTree
	}
	return ui.DisplayModeList
}

// ParseDisplayMode converts a config value to a DisplayMode. The empty string
// means List.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ui.DisplayModeList:
		return List, nil
	case ui.DisplayModeTree:
		return Tree, nil
	}
	return List, fmt.Errorf("unknown display mode %q", s)
}

const (
	markWidth = 1
	kindWidth = 7
	sizeWidth = 9
)

type row struct {
	path     *path.Path
	depth    int
	leaf     bool
	kind     string
	size     int64
	expanded bool
}

// Model is the listing widget.
type Model struct {
	table *table.Model[row]
	path  *path.Path
	conn  *signal.Connection[*path.Path]

	mode      DisplayMode
	multi     bool
	selected  []*path.Path
	expanded  map[string]bool
	typeahead string
	err       error

	styles    ui.Styles
	title     string
	width     int
	height    int
	nameWidth int
	log       logr.Logger

	selectionChanged   signal.Signal[*Model]
	pathSelected       signal.Signal[*Model]
	displayModeChanged signal.Signal[*Model]
}

// Option configures a Model.
type Option func(*Model)

// WithMultipleSelection lets Space toggle entries in and out of the selection.
func WithMultipleSelection(multi bool) Option {
	return func(m *Model) { m.multi = multi }
}

// WithDisplayMode sets the initial display mode.
func WithDisplayMode(mode DisplayMode) Option {
	return func(m *Model) { m.mode = mode }
}

// WithStyles sets the styles used for the footer and the table colors.
func WithStyles(s ui.Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithLogger sets the logger.
func WithLogger(log logr.Logger) Option {
	return func(m *Model) { m.log = log }
}

// WithTitle sets the pane title.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// New returns a listing bound to an empty path.
func New(opts ...Option) *Model {
	m := &Model{
		expanded: map[string]bool{},
		styles:   ui.DefaultStyles(),
		title:    "Items",
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}

	cols := []table.Column{
		{Title: "", Width: markWidth},
		{Title: "NAME", Width: 20},
		{Title: "KIND", Width: kindWidth},
		{Title: "SIZE", Width: sizeWidth},
	}
	m.table = table.NewModel(cols, m.toRow, func(r row) string { return r.path.Name() })
	m.table.SetFlexColumn(1)
	if m.styles.NoColor {
		m.table.SetNoColor(true)
	} else {
		m.table.SetColors(m.styles.HeaderFG, nil, m.styles.SelectedFG, m.styles.SelectedBG)
	}
	m.SetSize(60, 12)
	m.SetPath(path.New(path.EmptySource()))
	return m
}

var _ ui.ChildModel = (*Model)(nil)

// SetPath binds p and reloads. The listing follows every change of p.
func (m *Model) SetPath(p *path.Path) {
	if p == m.path {
		return
	}
	m.conn.Disconnect()
	m.path = p
	m.conn = p.Changed().Connect(func(*path.Path) { m.Reload() })
	m.Reload()
}

// Path returns the bound path.
func (m *Model) Path() *path.Path {
	return m.path
}

// SelectionChanged is emitted after the set of selected paths changed.
func (m *Model) SelectionChanged() *signal.Signal[*Model] { return &m.selectionChanged }

// PathSelected is emitted when the user activates a leaf.
func (m *Model) PathSelected() *signal.Signal[*Model] { return &m.pathSelected }

// DisplayModeChanged is emitted after SetDisplayMode switched modes.
func (m *Model) DisplayModeChanged() *signal.Signal[*Model] { return &m.displayModeChanged }

// DisplayMode returns the current display mode.
func (m *Model) DisplayMode() DisplayMode { return m.mode }

// SetDisplayMode switches modes and reloads.
func (m *Model) SetDisplayMode(mode DisplayMode) {
	if mode == m.mode {
		return
	}
	m.mode = mode
	m.log.V(1).Info("listing display mode changed", "mode", mode.String())
	m.Reload()
	m.displayModeChanged.Emit(m)
}

// MultipleSelection reports whether more than one entry can be selected.
func (m *Model) MultipleSelection() bool { return m.multi }

// SelectedPaths returns the selected paths in selection order.
func (m *Model) SelectedPaths() []*path.Path {
	return slices.Clone(m.selected)
}

// SetSelectedPaths replaces the selection and moves the cursor to the first
// selected entry when it is visible. SelectionChanged is emitted only when
// the selection differs.
func (m *Model) SetSelectedPaths(paths []*path.Path) {
	next := make([]*path.Path, 0, len(paths))
	for _, p := range paths {
		next = append(next, path.New(p.Source(), p.Segments()...))
	}
	if samePaths(m.selected, next) {
		return
	}
	m.selected = next
	if len(next) > 0 {
		m.moveCursorTo(next[0])
	}
	m.table.Refresh()
	m.selectionChanged.Emit(m)
}

func samePaths(a, b []*path.Path) bool {
	return slices.EqualFunc(a, b, func(x, y *path.Path) bool { return x.Equal(y) })
}

func (m *Model) isSelected(p *path.Path) bool {
	return slices.ContainsFunc(m.selected, p.Equal)
}

// dir is the container whose entries are shown. A path bound to a leaf shows
// the leaf's siblings.
func (m *Model) dir() *path.Path {
	if m.path.IsLeaf() {
		return m.path.Parent()
	}
	return m.path
}

// ScrollToPath moves the cursor to p. In Tree mode the ancestors of p are
// expanded first. Paths outside the shown container are ignored.
func (m *Model) ScrollToPath(p *path.Path) {
	d := m.dir()
	if !p.HasPrefix(d) || p.Len() == d.Len() {
		return
	}
	if m.mode == Tree {
		probe := p.Snapshot()
		for n := p.Len() - 1; n > d.Len(); n-- {
			probe.Truncate(n)
			m.expanded[probe.String()] = true
		}
	}
	m.clearTypeahead()
	m.Reload()
	m.moveCursorTo(p)
}

func (m *Model) moveCursorTo(p *path.Path) bool {
	idx := m.table.IndexOf(func(r row) bool { return r.path.Equal(p) })
	if idx < 0 {
		return false
	}
	m.table.SetCursor(idx)
	return true
}

// Reload rebuilds the entries from the source. The cursor stays on the
// first selected entry, or on the entry it was on, when still present.
func (m *Model) Reload() {
	var prev *path.Path
	if r := m.table.SelectedRow(); r != nil {
		prev = r.path
	}
	m.clearTypeahead()

	var rows []row
	m.err = nil
	switch d := m.dir(); m.mode {
	case Tree:
		rows, m.err = m.treeRows(d, 0)
	default:
		rows, m.err = m.childRows(d, 0)
	}
	if m.err != nil {
		m.log.Error(m.err, "listing failed", "path", m.path.String())
	}
	m.table.SetRows(rows)

	moved := false
	if len(m.selected) > 0 {
		moved = m.moveCursorTo(m.selected[0])
	}
	if !moved && prev != nil {
		moved = m.moveCursorTo(prev)
	}
	if !moved {
		m.table.SetCursor(0)
	}
}

func (m *Model) childRows(p *path.Path, depth int) ([]row, error) {
	children, err := p.Children()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", p, err)
	}
	rows := make([]row, 0, len(children))
	for _, c := range children {
		info := c.Info()
		rows = append(rows, row{
			path:     c,
			depth:    depth,
			leaf:     info.Leaf,
			kind:     info.Kind,
			size:     info.Size,
			expanded: !info.Leaf && m.expanded[c.String()],
		})
	}
	return rows, nil
}

func (m *Model) treeRows(p *path.Path, depth int) ([]row, error) {
	children, err := m.childRows(p, depth)
	if err != nil {
		return nil, err
	}
	var out []row
	for _, r := range children {
		out = append(out, r)
		if !r.expanded {
			continue
		}
		// Keep the bound filter below the top level.
		probe := m.path.Snapshot()
		probe.SetSegments(r.path.Segments())
		sub, err := m.treeRows(probe, depth+1)
		if err != nil {
			m.log.Error(err, "expanding tree node failed", "path", r.path.String())
			continue
		}
		out = append(out, sub...)
	}
	return out, nil
}

func (m *Model) toRow(r row) table.Row {
	mark := " "
	if m.multi && m.isSelected(r.path) {
		mark = "*"
	}
	name := r.path.Name()
	if !r.leaf {
		name += path.Separator
	}
	if m.mode == Tree {
		glyph := "  "
		if !r.leaf {
			glyph = "▸ "
			if r.expanded {
				glyph = "▾ "
			}
		}
		name = strings.Repeat("  ", r.depth) + glyph + name
	}
	name = runewidth.Truncate(name, m.nameWidth, "…")
	return table.Row{mark, name, r.kind, formatSize(r)}
}

func formatSize(r row) string {
	switch r.kind {
	case path.KindFile:
		return humanBytes(r.size)
	case path.KindMap, path.KindList, path.KindString:
		return fmt.Sprintf("%d", r.size)
	}
	return ""
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(n)/float64(div), "KMGTPE"[exp])
}

func (m *Model) clearTypeahead() {
	m.typeahead = ""
	m.table.ClearFilter()
}

func (m *Model) setTypeahead(s string) {
	m.typeahead = s
	m.table.SetFilter(s)
	m.followCursor()
}

// Init implements ui.ChildModel.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles navigation, selection and type-ahead keys.
func (m *Model) Update(msg tea.Msg) (ui.ChildModel, tea.Cmd) {
	kp, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch kp.String() {
	case "up":
		m.moveCursor(-1)
	case "down":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-max(m.height-2, 1))
	case "pgdown":
		m.moveCursor(max(m.height-2, 1))
	case "home":
		m.moveCursor(-len(m.table.Rows()))
	case "end":
		m.moveCursor(len(m.table.Rows()))
	case "enter":
		m.activate()
	case "right":
		m.expandOrDescend()
	case "left":
		m.collapseOrAscend()
	case "backspace":
		if m.typeahead != "" {
			r := []rune(m.typeahead)
			m.setTypeahead(string(r[:len(r)-1]))
			return m, nil
		}
		m.collapseOrAscend()
	case "space":
		if m.multi {
			m.toggleCurrent()
		}
	case "esc":
		if m.typeahead != "" {
			m.clearTypeahead()
			m.followCursor()
		}
	default:
		if kp.Text != "" && kp.Mod&(tea.ModCtrl|tea.ModAlt) == 0 {
			m.setTypeahead(m.typeahead + kp.Text)
		}
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	n := len(m.table.Rows())
	if n == 0 {
		return
	}
	m.table.SetCursor(min(max(m.table.Cursor()+delta, 0), n-1))
	m.followCursor()
}

// followCursor makes the cursor entry the selection in single selection mode.
func (m *Model) followCursor() {
	if m.multi {
		return
	}
	if r := m.table.SelectedRow(); r != nil {
		m.SetSelectedPaths([]*path.Path{r.path})
	}
}

func (m *Model) activate() {
	r := m.table.SelectedRow()
	if r == nil {
		return
	}
	if r.leaf {
		if !m.multi {
			m.SetSelectedPaths([]*path.Path{r.path})
		} else if len(m.selected) == 0 {
			m.SetSelectedPaths([]*path.Path{r.path})
		}
		m.pathSelected.Emit(m)
		return
	}
	if m.mode == Tree {
		m.setExpanded(r.path, !r.expanded)
		return
	}
	m.path.SetSegments(r.path.Segments())
}

func (m *Model) expandOrDescend() {
	r := m.table.SelectedRow()
	if r == nil || r.leaf {
		return
	}
	if m.mode == Tree {
		if !r.expanded {
			m.setExpanded(r.path, true)
		} else {
			m.moveCursor(1)
		}
		return
	}
	m.path.SetSegments(r.path.Segments())
}

func (m *Model) collapseOrAscend() {
	if m.mode == List {
		m.path.SetSegments(m.dir().Parent().Segments())
		return
	}
	r := m.table.SelectedRow()
	if r == nil {
		return
	}
	if !r.leaf && r.expanded {
		m.setExpanded(r.path, false)
		return
	}
	if r.depth > 0 {
		m.moveCursorTo(r.path.Parent())
		m.followCursor()
	}
}

func (m *Model) setExpanded(p *path.Path, expanded bool) {
	if expanded {
		m.expanded[p.String()] = true
	} else {
		delete(m.expanded, p.String())
	}
	m.Reload()
	m.moveCursorTo(p)
}

func (m *Model) toggleCurrent() {
	r := m.table.SelectedRow()
	if r == nil {
		return
	}
	next := slices.Clone(m.selected)
	if i := slices.IndexFunc(next, r.path.Equal); i >= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		next = append(next, r.path)
	}
	m.SetSelectedPaths(next)
	m.moveCursorTo(r.path)
}

// View renders the entries and a one-line status.
func (m *Model) View() string {
	style, status := m.styles.Muted, ""
	switch {
	case m.err != nil:
		style, status = m.styles.Error, m.err.Error()
	case m.typeahead != "":
		status = "find: " + m.typeahead
	case len(m.table.Rows()) == 0:
		status = "(empty)"
	case m.multi:
		status = fmt.Sprintf("%d selected", len(m.selected))
	}
	status = style.Render(runewidth.Truncate(status, m.width, "…"))
	return lipgloss.JoinVertical(lipgloss.Left, m.table.View(), status)
}

// SetSize implements ui.ModelWithSize. One line is kept for the status.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetSize(width, max(height-1, 2))
	m.nameWidth = max(width-(markWidth+1)-(kindWidth+1)-(sizeWidth+1)-2, 4)
	m.table.Refresh()
}

// Focus implements ui.ModelWithFocus.
func (m *Model) Focus() tea.Cmd {
	m.table.Focus()
	return nil
}

// Blur implements ui.ModelWithFocus.
func (m *Model) Blur() { m.table.Blur() }

// Focused implements ui.ModelWithFocus.
func (m *Model) Focused() bool { return m.table.Focused() }

// Title implements ui.ModelWithTitle.
func (m *Model) Title() string { return m.title }
