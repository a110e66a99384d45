package preview

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/pathpick/internal/ui"
	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/signal"
)

// Compound shows several previews as tabs. Only the previews that accept
// the current path get a tab.
type Compound struct {
	previews []Preview
	path     *path.Path
	conn     *signal.Connection[*path.Path]
	active   string
	visible  []Preview

	styles ui.Styles
	width  int
	height int
	log    logr.Logger
}

// NewCompound creates the named previews. Unknown names are an error.
func NewCompound(types []string, styles ui.Styles, log logr.Logger) (*Compound, error) {
	c := &Compound{styles: styles, log: log, width: 30, height: 10}
	for _, name := range types {
		p, err := Create(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		c.previews = append(c.previews, p)
	}
	c.SetPath(path.New(path.EmptySource()))
	return c, nil
}

var _ ui.ChildModel = (*Compound)(nil)

// SetPath binds p and follows its changes.
func (c *Compound) SetPath(p *path.Path) {
	if p == c.path {
		return
	}
	c.conn.Disconnect()
	c.path = p
	c.conn = p.Changed().Connect(func(*path.Path) { c.refresh() })
	c.refresh()
}

// Path returns the bound path.
func (c *Compound) Path() *path.Path { return c.path }

// Empty reports whether no preview types are configured.
func (c *Compound) Empty() bool { return len(c.previews) == 0 }

// Tabs returns the names of the previews shown for the current path.
func (c *Compound) Tabs() []string {
	out := make([]string, len(c.visible))
	for i, p := range c.visible {
		out[i] = p.Name()
	}
	return out
}

// Active returns the name of the shown preview, or "".
func (c *Compound) Active() string {
	if cur := c.current(); cur != nil {
		return cur.Name()
	}
	return ""
}

func (c *Compound) refresh() {
	c.visible = c.visible[:0]
	for _, p := range c.previews {
		if p.Accepts(c.path) {
			c.visible = append(c.visible, p)
		}
	}
	c.log.V(1).Info("preview refreshed", "path", c.path.String(), "tabs", c.Tabs())
}

func (c *Compound) current() Preview {
	if len(c.visible) == 0 {
		return nil
	}
	for _, p := range c.visible {
		if p.Name() == c.active {
			return p
		}
	}
	return c.visible[0]
}

// Next shows the following tab.
func (c *Compound) Next() { c.cycle(1) }

// Prev shows the preceding tab.
func (c *Compound) Prev() { c.cycle(-1) }

func (c *Compound) cycle(delta int) {
	n := len(c.visible)
	if n == 0 {
		return
	}
	idx := 0
	if cur := c.current(); cur != nil {
		for i, p := range c.visible {
			if p == cur {
				idx = i
			}
		}
	}
	c.active = c.visible[((idx+delta)%n+n)%n].Name()
}

// Init implements ui.ChildModel.
func (c *Compound) Init() tea.Cmd { return nil }

// Update cycles tabs with [ and ].
func (c *Compound) Update(msg tea.Msg) (ui.ChildModel, tea.Cmd) {
	if kp, ok := msg.(tea.KeyPressMsg); ok {
		switch kp.String() {
		case "]":
			c.Next()
		case "[":
			c.Prev()
		}
	}
	return c, nil
}

// View renders the tab bar and the active preview.
func (c *Compound) View() string {
	cur := c.current()
	if cur == nil {
		return c.styles.Muted.Render("no preview")
	}
	tabs := make([]string, len(c.visible))
	for i, p := range c.visible {
		style := c.styles.Tab
		if p == cur {
			style = c.styles.TabActive
		}
		tabs[i] = style.Render(p.Name())
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	body := cur.Render(c.path, c.width, max(c.height-1, 1))
	return lipgloss.JoinVertical(lipgloss.Left, bar, body)
}

// SetSize implements ui.ModelWithSize.
func (c *Compound) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Title implements ui.ModelWithTitle.
func (c *Compound) Title() string { return "Preview" }
