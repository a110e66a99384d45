package chooser

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

const (
	toolbarHeight   = 1
	filterHeight    = 2
	leafFieldHeight = 1
)

// SetSize implements ui.ModelWithSize.
func (w *Widget) SetSize(width, height int) {
	w.width = width
	w.height = height
	w.layout()
}

func (w *Widget) buttons() string {
	return w.styles.Button.Render(w.toggleLabel) + " " +
		w.styles.Button.Render("[reload]") + " " +
		w.styles.Button.Render("[up]") + " "
}

// paneHeight is the outer height of the listing and preview panes.
func (w *Widget) paneHeight() int {
	h := w.height - toolbarHeight
	if w.filterVisible() {
		h -= filterHeight
	}
	if w.leafField.Visible() {
		h -= leafFieldHeight
	}
	return max(h, 5)
}

func (w *Widget) paneWidths() (listingW, previewW int) {
	if w.preview == nil {
		return w.width, 0
	}
	listingW = w.width * 2 / 3
	return listingW, w.width - listingW
}

func (w *Widget) layout() {
	if w.listing == nil {
		return
	}
	w.dirField.SetSize(w.width-lipgloss.Width(w.buttons()), toolbarHeight)

	listingW, previewW := w.paneWidths()
	frameW, frameH := w.styles.Pane.GetFrameSize()
	inner := w.paneHeight() - frameH - 1 // title line
	w.listing.SetSize(max(listingW-frameW, 10), max(inner, 3))
	if w.preview != nil {
		w.preview.SetSize(max(previewW-frameW, 5), max(inner, 3))
	}
	if w.filterEditor != nil {
		w.filterEditor.SetSize(w.width, filterHeight)
	}
	w.leafField.SetSize(w.width-lipgloss.Width(w.leafLabel()), leafFieldHeight)
}

func (w *Widget) leafLabel() string {
	return w.styles.Title.Render(w.leafField.Title()+":") + " "
}

func (w *Widget) pane(title, body string, width int, focused bool) string {
	style := w.styles.Pane
	if focused {
		style = w.styles.PaneFocused
	}
	frameW, frameH := style.GetFrameSize()
	innerW := max(width-frameW, 1)
	head := w.styles.Title.Render(runewidth.Truncate(title, innerW, "…"))
	return style.
		Width(innerW).
		Height(max(w.paneHeight()-frameH, 1)).
		Render(head + "\n" + body)
}

// View renders the chooser.
func (w *Widget) View() string {
	var rows []string
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, w.buttons(), w.dirField.View()))

	listingW, previewW := w.paneWidths()
	title := w.listing.Title() + " (" + w.listing.DisplayMode().String() + ")"
	panes := []string{w.pane(title, w.listing.View(), listingW, w.focus == focusListing)}
	if w.preview != nil {
		panes = append(panes, w.pane(w.preview.Title(), w.preview.View(), previewW, false))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panes...))

	if w.filterEditor != nil {
		rows = append(rows, w.filterEditor.View())
	}
	if w.leafField.Visible() {
		rows = append(rows, w.leafLabel()+w.leafField.View())
	}
	return strings.Join(rows, "\n")
}
