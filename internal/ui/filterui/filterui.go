// Package filterui provides editors for path filters. Editors are looked up
// by the filter's kind, so new filter types can bring their own editor.
package filterui

import (
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/pathpick/internal/ui"
	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/pathfilter"
)

// Editor edits one filter in place.
type Editor interface {
	ui.ChildModel
	ui.ModelWithFocus
	ui.ModelWithSize

	// Filter returns the edited filter.
	Filter() path.Filter
	// Editable reports whether the editor accepts keyboard input.
	Editable() bool
	// ToggleEnabled flips the enabled state of the filter. It reports
	// false when the filter cannot be disabled.
	ToggleEnabled() bool
}

// Completer is implemented by editors that can complete their input.
type Completer interface {
	Complete() bool
}

// Options are passed to every constructor.
type Options struct {
	Styles ui.Styles
	Log    logr.Logger
}

// Constructor builds an editor for f. It returns nil when f has nothing to
// edit.
type Constructor func(f path.Filter, opts Options) Editor

var registry = map[string]Constructor{}

// Register binds kind to ctor, replacing any previous constructor.
func Register(kind string, ctor Constructor) {
	registry[kind] = ctor
}

// Create returns the editor registered for f's kind, or nil when f is nil or
// no editor applies.
func Create(f path.Filter, opts Options) Editor {
	if f == nil {
		return nil
	}
	ctor, ok := registry[pathfilter.KindOf(f)]
	if !ok {
		opts.Log.V(1).Info("no filter editor registered", "kind", pathfilter.KindOf(f))
		return nil
	}
	return ctor(f, opts)
}

func init() {
	Register(pathfilter.KindLeaf, func(path.Filter, Options) Editor { return nil })
	Register(pathfilter.KindExpression, func(f path.Filter, opts Options) Editor {
		return NewExpressionEditor(f.(*pathfilter.Expression), opts)
	})
	Register(pathfilter.KindGlob, func(f path.Filter, opts Options) Editor {
		return NewGlobEditor(f.(*pathfilter.Glob), opts)
	})
	Register(pathfilter.KindCompound, func(f path.Filter, opts Options) Editor {
		return NewCompoundEditor(f.(*pathfilter.Compound), opts)
	})
}

// toggle flips a filter implementing pathfilter.Toggler.
func toggle(f path.Filter) bool {
	t, ok := f.(pathfilter.Toggler)
	if !ok {
		return false
	}
	t.SetEnabled(!t.Enabled())
	return true
}

func enabledLabel(f path.Filter) string {
	if t, ok := f.(pathfilter.Toggler); ok && !t.Enabled() {
		return "[off]"
	}
	return "[on] "
}

func isEnter(msg tea.Msg) bool {
	kp, ok := msg.(tea.KeyPressMsg)
	return ok && kp.String() == "enter"
}
