package filterui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/pathpick/internal/ui"
	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/pathfilter"
)

// textEditor is a one-line editor whose text is applied on Enter.
type textEditor struct {
	filter path.Filter
	label  string
	input  textinput.Model
	apply  func(string) error
	reset  func() string
	hint   string
	err    error
	opts   Options
	width  int

	// complete is nil for editors without completion.
	complete func(string) (string, bool)
}

func newTextEditor(f path.Filter, label string, opts Options) *textEditor {
	ti := textinput.New()
	ti.Prompt = label + " › "
	return &textEditor{filter: f, label: label, input: ti, opts: opts, width: 40}
}

// NewExpressionEditor edits a CEL expression filter.
func NewExpressionEditor(f *pathfilter.Expression, opts Options) Editor {
	e := newTextEditor(f, "expr", opts)
	e.input.Placeholder = `e.g. name.endsWith(".go")`
	e.apply = f.SetExpression
	e.reset = f.Expression
	e.complete = f.Complete
	fns := f.Functions()
	if len(fns) > 6 {
		fns = fns[:6]
	}
	e.hint = "functions: " + strings.Join(fns, ", ")
	e.input.SetValue(e.reset())
	return e
}

// NewGlobEditor edits a comma separated list of glob patterns.
func NewGlobEditor(f *pathfilter.Glob, opts Options) Editor {
	e := newTextEditor(f, "glob", opts)
	e.input.Placeholder = "*.go, *.md"
	e.apply = func(s string) error { return f.SetPatterns(pathfilter.ParsePatterns(s)) }
	e.reset = func() string { return strings.Join(f.Patterns(), ", ") }
	e.hint = "comma separated patterns, matched against leaf names"
	e.input.SetValue(e.reset())
	return e
}

var _ Editor = (*textEditor)(nil)

func (e *textEditor) Filter() path.Filter { return e.filter }

func (e *textEditor) Editable() bool { return true }

func (e *textEditor) ToggleEnabled() bool { return toggle(e.filter) }

func (e *textEditor) Init() tea.Cmd { return nil }

func (e *textEditor) Update(msg tea.Msg) (ui.ChildModel, tea.Cmd) {
	if isEnter(msg) {
		e.err = e.apply(e.input.Value())
		if e.err != nil {
			e.opts.Log.V(1).Info("filter rejected", "kind", e.label, "error", e.err.Error())
		} else {
			e.input.SetValue(e.reset())
		}
		return e, nil
	}
	if kp, ok := msg.(tea.KeyPressMsg); ok && kp.String() == "esc" {
		e.err = nil
		e.input.SetValue(e.reset())
		return e, nil
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return e, cmd
}

// Complete extends the identifier before the end of the input. It reports
// whether the text changed.
func (e *textEditor) Complete() bool {
	if e.complete == nil {
		return false
	}
	text, ok := e.complete(e.input.Value())
	if ok {
		e.input.SetValue(text)
		e.input.CursorEnd()
	}
	return ok
}

// Err returns the error of the last apply.
func (e *textEditor) Err() error { return e.err }

func (e *textEditor) View() string {
	line := e.opts.Styles.Muted.Render(enabledLabel(e.filter)) + " " + e.input.View()
	var second string
	if e.err != nil {
		second = e.opts.Styles.Error.Render(runewidth.Truncate(e.err.Error(), e.width, "…"))
	} else {
		second = e.opts.Styles.Muted.Render(runewidth.Truncate(e.hint, e.width, "…"))
	}
	return line + "\n" + second
}

func (e *textEditor) SetSize(width, _ int) {
	e.width = width
	e.input.SetWidth(max(width-runewidth.StringWidth(e.input.Prompt)-8, 1))
}

func (e *textEditor) Focus() tea.Cmd { return e.input.Focus() }

func (e *textEditor) Blur() { e.input.Blur() }

func (e *textEditor) Focused() bool { return e.input.Focused() }
