package ui

import (
	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Mode controls how the root routes messages.
type Mode int

const (
	// NormalMode routes keys to the current child.
	NormalMode Mode = iota
	// HelpMode shows the full key help; any key closes it.
	HelpMode
)

// RootModel is the top-level tea.Model. It owns the window size, the help
// line and the quit decision, and delegates everything else to one child.
//
// Children end the program by calling Finish from inside their Update; the
// root then returns tea.Quit.
type RootModel struct {
	mode    Mode
	current ChildModel
	keys    KeyMap
	help    help.Model
	styles  Styles

	width  int
	height int

	finished  bool
	cancelled bool
}

// NewRootModel wraps child.
func NewRootModel(child ChildModel, keys KeyMap, styles Styles) *RootModel {
	h := help.New()
	if !styles.NoColor {
		h.Styles.ShortKey = styles.Button
		h.Styles.FullKey = styles.Button
	}
	m := &RootModel{
		mode:    NormalMode,
		current: child,
		keys:    keys,
		help:    h,
		styles:  styles,
		width:   80,
		height:  24,
	}
	m.resize()
	return m
}

// Init initializes the child.
func (m *RootModel) Init() tea.Cmd {
	if m.current == nil {
		return nil
	}
	return m.current.Init()
}

// Finish ends the program after the current Update.
func (m *RootModel) Finish() {
	m.finished = true
}

// Cancel ends the program without a result.
func (m *RootModel) Cancel() {
	m.finished = true
	m.cancelled = true
}

// Finished reports whether Finish or Cancel was called.
func (m *RootModel) Finished() bool { return m.finished }

// Cancelled reports whether the user quit without choosing.
func (m *RootModel) Cancelled() bool { return m.cancelled }

// Update handles resizes, cancel and help, and routes the rest to the child.
func (m *RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyPressMsg:
		// Ctrl+C may arrive as the raw control character.
		if key.Matches(msg, m.keys.Cancel) || msg.Key().Code == 0x03 {
			m.Cancel()
			return m, tea.Quit
		}
		if m.mode == HelpMode {
			m.mode = NormalMode
			m.help.ShowAll = false
			m.resize()
			return m, nil
		}
		if key.Matches(msg, m.keys.Help) {
			m.mode = HelpMode
			m.help.ShowAll = true
			m.resize()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.current != nil {
		m.current, cmd = m.current.Update(msg)
	}
	if m.finished {
		return m, tea.Quit
	}
	return m, cmd
}

func (m *RootModel) helpView() string {
	return m.help.View(m.keys)
}

func (m *RootModel) resize() {
	m.help.SetWidth(m.width)
	if sized, ok := m.current.(ModelWithSize); ok {
		sized.SetSize(m.width, max(m.height-lipgloss.Height(m.helpView()), 1))
	}
}

// Render returns the frame as a string.
func (m *RootModel) Render() string {
	if m.finished {
		return ""
	}
	body := ""
	if m.current != nil {
		body = m.current.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.helpView())
}

// View renders the child and the help line on the alternate screen.
func (m *RootModel) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	// Report modifier keys so Shift+Tab is distinguishable.
	v.KeyboardEnhancements.ReportEventTypes = true
	return v
}

// SetMode changes the current mode.
func (m *RootModel) SetMode(mode Mode) {
	m.mode = mode
}

// Mode returns the current mode.
func (m *RootModel) Mode() Mode {
	return m.mode
}

// Size returns the last known window size.
func (m *RootModel) Size() (int, int) {
	return m.width, m.height
}
