package ui

import (
	"charm.land/bubbles/v2/key"
)

// KeyConfig maps an action name to the keys that trigger it.
type KeyConfig map[string][]string

// Action names used in KeyConfig.
const (
	ActionToggleView   = "toggle_view"
	ActionReload       = "reload"
	ActionUp           = "up"
	ActionToggleFilter = "toggle_filter"
	ActionNextPreview  = "next_preview"
	ActionPrevPreview  = "prev_preview"
	ActionFocusNext    = "focus_next"
	ActionFocusPrev    = "focus_prev"
	ActionCancel       = "cancel"
	ActionHelp         = "help"
	ActionCopy         = "copy"
)

// KeyActions lists every configurable action.
func KeyActions() []string {
	return []string{
		ActionToggleView, ActionReload, ActionUp, ActionToggleFilter,
		ActionNextPreview, ActionPrevPreview, ActionFocusNext, ActionFocusPrev,
		ActionCancel, ActionHelp, ActionCopy,
	}
}

// KeyMap holds the chooser's global bindings. Keys not bound here go to the
// focused child.
type KeyMap struct {
	ToggleView   key.Binding
	Reload       key.Binding
	Up           key.Binding
	ToggleFilter key.Binding
	NextPreview  key.Binding
	PrevPreview  key.Binding
	FocusNext    key.Binding
	FocusPrev    key.Binding
	Cancel       key.Binding
	Help         key.Binding
	Copy         key.Binding
}

// DefaultKeyMap returns the bindings of the embedded configuration.
func DefaultKeyMap() KeyMap {
	cfg, err := EmbeddedDefaultConfig()
	if err != nil {
		return KeyMapFromConfig(nil)
	}
	return KeyMapFromConfig(cfg.UI.Keys)
}

// KeyMapFromConfig builds a KeyMap. Actions missing from cfg keep the
// built-in keys.
func KeyMapFromConfig(cfg KeyConfig) KeyMap {
	bind := func(action, help string, fallback ...string) key.Binding {
		keys := fallback
		if k, ok := cfg[action]; ok && len(k) > 0 {
			keys = k
		}
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
	}
	return KeyMap{
		ToggleView:   bind(ActionToggleView, "list/tree", "ctrl+t"),
		Reload:       bind(ActionReload, "reload", "ctrl+r"),
		Up:           bind(ActionUp, "up", "alt+up"),
		ToggleFilter: bind(ActionToggleFilter, "filter on/off", "ctrl+e"),
		NextPreview:  bind(ActionNextPreview, "next preview", "ctrl+n"),
		PrevPreview:  bind(ActionPrevPreview, "prev preview", "ctrl+p"),
		FocusNext:    bind(ActionFocusNext, "next pane", "tab"),
		FocusPrev:    bind(ActionFocusPrev, "prev pane", "shift+tab"),
		Cancel:       bind(ActionCancel, "cancel", "ctrl+c"),
		Help:         bind(ActionHelp, "more keys", "f1"),
		Copy:         bind(ActionCopy, "copy path", "ctrl+y"),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FocusNext, k.Up, k.ToggleView, k.Reload, k.Cancel, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusNext, k.FocusPrev, k.Up},
		{k.ToggleView, k.Reload, k.ToggleFilter},
		{k.NextPreview, k.PrevPreview, k.Copy},
		{k.Cancel, k.Help},
	}
}
