// Package pathfield is a single-line text field bound to a path.
package pathfield

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/pathpick/internal/ui"
	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/signal"
)

// Model edits the segments of a bound path as text. The text follows the
// path; Enter writes the text back into the path and emits Activated.
type Model struct {
	input     textinput.Model
	path      *path.Path
	conn      *signal.Connection[*path.Path]
	activated signal.Signal[*Model]

	title    string
	visible  bool
	relative bool
	width   int
	log     logr.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the pane title.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithLogger sets the logger.
func WithLogger(log logr.Logger) Option {
	return func(m *Model) { m.log = log }
}

// WithRelativeText shows only the leaf name instead of the absolute path.
// Containers show an empty field, so typed names resolve below them.
func WithRelativeText() Option {
	return func(m *Model) { m.relative = true }
}

// WithPlaceholder sets the text shown while the field is empty.
func WithPlaceholder(s string) Option {
	return func(m *Model) { m.input.Placeholder = s }
}

// New returns a visible field bound to an empty path.
func New(opts ...Option) *Model {
	ti := textinput.New()
	ti.Prompt = "› "
	m := &Model{
		input:   ti,
		visible: true,
		width:   40,
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.SetPath(path.New(path.EmptySource()))
	return m
}

var _ ui.ChildModel = (*Model)(nil)

// SetPath binds p. The previous path is released.
func (m *Model) SetPath(p *path.Path) {
	if p == m.path {
		return
	}
	m.conn.Disconnect()
	m.path = p
	m.conn = p.Changed().Connect(func(*path.Path) { m.refresh() })
	m.refresh()
}

// Path returns the bound path.
func (m *Model) Path() *path.Path {
	return m.path
}

// Activated is emitted after Enter has written the text into the path.
func (m *Model) Activated() *signal.Signal[*Model] {
	return &m.activated
}

// Visible reports whether the field is shown.
func (m *Model) Visible() bool { return m.visible }

// SetVisible shows or hides the field.
func (m *Model) SetVisible(v bool) {
	m.visible = v
	if !v {
		m.input.Blur()
	}
}

// Value returns the current text.
func (m *Model) Value() string {
	return m.input.Value()
}

// SetValue replaces the text without touching the path.
func (m *Model) SetValue(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

func (m *Model) refresh() {
	text := m.path.String()
	if m.relative {
		text = ""
		if m.path.IsLeaf() {
			text = m.path.Name()
		}
	}
	m.input.SetValue(text)
	m.input.CursorEnd()
}

// base is the directory relative text is resolved against.
func (m *Model) base() []string {
	if m.path.IsLeaf() {
		return m.path.Parent().Segments()
	}
	return m.path.Segments()
}

func (m *Model) resolve(text string) []string {
	if strings.HasPrefix(text, path.Separator) {
		return path.Split(text)
	}
	return path.Split(strings.Join(m.base(), path.Separator) + path.Separator + text)
}

// Apply writes the text into the bound path.
func (m *Model) Apply() {
	segs := m.resolve(strings.TrimSpace(m.input.Value()))
	m.log.V(1).Info("path field applied", "title", m.title, "path", path.Separator+strings.Join(segs, path.Separator))
	m.path.SetSegments(segs)
	m.refresh()
}

// Complete extends the last segment of the text to the longest prefix shared
// by the matching children. It reports whether the text changed.
func (m *Model) Complete() bool {
	text := m.input.Value()
	dir, partial := text, ""
	if i := strings.LastIndex(text, path.Separator); i >= 0 {
		dir, partial = text[:i+1], text[i+1:]
	} else {
		dir, partial = "", text
	}

	probe := m.path.Snapshot()
	probe.SetSegments(m.resolve(dir))
	children, err := probe.Children()
	if err != nil {
		return false
	}
	var matches []*path.Path
	for _, c := range children {
		if strings.HasPrefix(c.Name(), partial) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return false
	}

	completed := matches[0].Name()
	for _, c := range matches[1:] {
		completed = commonPrefix(completed, c.Name())
	}
	if len(matches) == 1 && !matches[0].IsLeaf() {
		completed += path.Separator
	}
	next := dir + completed
	if next == text {
		return false
	}
	m.SetValue(next)
	return true
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// Init implements ui.ChildModel.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles editing keys. Tab is left to the host, which calls
// Complete.
func (m *Model) Update(msg tea.Msg) (ui.ChildModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if kp, ok := msg.(tea.KeyPressMsg); ok {
		switch kp.String() {
		case "enter":
			m.Apply()
			m.activated.Emit(m)
			return m, nil
		case "esc":
			m.refresh()
			return m, nil
		case "tab", "shift+tab":
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the field, or nothing when hidden.
func (m *Model) View() string {
	if !m.visible {
		return ""
	}
	return m.input.View()
}

// SetSize implements ui.ModelWithSize.
func (m *Model) SetSize(width, _ int) {
	m.width = width
	m.input.SetWidth(max(width-runewidth.StringWidth(m.input.Prompt)-1, 1))
}

// Focus implements ui.ModelWithFocus.
func (m *Model) Focus() tea.Cmd { return m.input.Focus() }

// Blur implements ui.ModelWithFocus.
func (m *Model) Blur() { m.input.Blur() }

// Focused implements ui.ModelWithFocus.
func (m *Model) Focused() bool { return m.input.Focused() }

// Title implements ui.ModelWithTitle.
func (m *Model) Title() string { return m.title }
