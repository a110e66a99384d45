package ui

import tea "charm.land/bubbletea/v2"

// ChildModel is implemented by every component the chooser composes. The
// host routes messages to children, which render plain strings that the
// parent lays out.
type ChildModel interface {
	// Init returns any initial commands.
	Init() tea.Cmd

	// Update handles a message and returns the updated model and commands.
	Update(msg tea.Msg) (ChildModel, tea.Cmd)

	// View renders the model.
	View() string
}

// ModelWithSize is implemented by children that react to resizes.
type ModelWithSize interface {
	SetSize(width, height int)
}

// ModelWithFocus is implemented by children that take keyboard focus.
type ModelWithFocus interface {
	Focus() tea.Cmd
	Blur()
	Focused() bool
}

// ModelWithTitle is implemented by children that label their pane.
type ModelWithTitle interface {
	Title() string
}
