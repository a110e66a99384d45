package filterui

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/pathpick/internal/ui"
	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/pathfilter"
)

// compoundEditor stacks the editors of a compound filter's parts. Keys go
// to the first editable part.
type compoundEditor struct {
	filter  *pathfilter.Compound
	editors []Editor
	focused bool
}

// NewCompoundEditor returns nil when none of the parts has an editor.
func NewCompoundEditor(f *pathfilter.Compound, opts Options) Editor {
	c := &compoundEditor{filter: f}
	for _, sub := range f.Filters() {
		if e := Create(sub, opts); e != nil {
			c.editors = append(c.editors, e)
		}
	}
	if len(c.editors) == 0 {
		return nil
	}
	return c
}

var _ Editor = (*compoundEditor)(nil)

func (c *compoundEditor) Filter() path.Filter { return c.filter }

func (c *compoundEditor) primary() Editor {
	for _, e := range c.editors {
		if e.Editable() {
			return e
		}
	}
	return nil
}

func (c *compoundEditor) Editable() bool { return c.primary() != nil }

func (c *compoundEditor) ToggleEnabled() bool {
	toggled := false
	for _, e := range c.editors {
		if e.ToggleEnabled() {
			toggled = true
		}
	}
	return toggled
}

// Complete completes in the first editable part.
func (c *compoundEditor) Complete() bool {
	if cp, ok := c.primary().(Completer); ok {
		return cp.Complete()
	}
	return false
}

func (c *compoundEditor) Init() tea.Cmd { return nil }

func (c *compoundEditor) Update(msg tea.Msg) (ui.ChildModel, tea.Cmd) {
	p := c.primary()
	if p == nil {
		return c, nil
	}
	_, cmd := p.Update(msg)
	return c, cmd
}

func (c *compoundEditor) View() string {
	views := make([]string, len(c.editors))
	for i, e := range c.editors {
		views[i] = e.View()
	}
	return strings.Join(views, "\n")
}

func (c *compoundEditor) SetSize(width, height int) {
	for _, e := range c.editors {
		e.SetSize(width, height)
	}
}

func (c *compoundEditor) Focus() tea.Cmd {
	c.focused = true
	if p := c.primary(); p != nil {
		return p.Focus()
	}
	return nil
}

func (c *compoundEditor) Blur() {
	c.focused = false
	for _, e := range c.editors {
		e.Blur()
	}
}

func (c *compoundEditor) Focused() bool { return c.focused }
