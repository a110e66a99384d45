package table

import (
	"fmt"
	"image/color"
	"strings"

	bubtable "charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Column and Row are re-exported so callers don't import bubbles directly.
type Column = bubtable.Column
type Row = bubtable.Row

// Model is a generic table over rows of type V. It wraps the bubbles table
// and adds name-prefix narrowing, key lookup and flexible column widths.
type Model[V any] struct {
	table    bubtable.Model
	styles   bubtable.Styles
	rows     []V
	filter   string
	filtered []V
	columns  []Column
	flex     int // index of the column that absorbs spare width, -1 for none

	toRow   func(V) Row
	keyFunc func(V) string

	width   int
	height  int
	focused bool
	noColor bool

	headerFG   color.Color
	headerBG   color.Color
	selectedFG color.Color
	selectedBG color.Color
}

// NewModel creates a table. keyFunc extracts the text matched by SetFilter
// and looked up by IndexOfKey.
func NewModel[V any](
	columns []Column,
	toRow func(V) Row,
	keyFunc func(V) string,
) *Model[V] {
	t := bubtable.New(
		bubtable.WithColumns(columns),
		bubtable.WithFocused(true),
		bubtable.WithHeight(5),
	)

	s := bubtable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Bold(true).
		Align(lipgloss.Left).
		PaddingLeft(0).
		PaddingRight(1)
	s.Selected = s.Selected.
		PaddingLeft(0).
		PaddingRight(0)
	s.Cell = lipgloss.NewStyle().
		Align(lipgloss.Left).
		PaddingLeft(0).
		PaddingRight(1)
	t.SetStyles(s)

	return &Model[V]{
		table:    t,
		styles:   s,
		rows:     []V{},
		filtered: []V{},
		columns:  columns,
		flex:     -1,
		toRow:    toRow,
		keyFunc:  keyFunc,
		width:    80,
		height:   10,
		focused:  true,
	}
}

// SetFlexColumn makes column i take whatever width the others leave.
func (m *Model[V]) SetFlexColumn(i int) {
	m.flex = i
	m.layoutColumns()
}

// SetRows replaces the rows and reapplies the current filter.
func (m *Model[V]) SetRows(rows []V) {
	m.rows = rows
	m.applyFilter()
}

// SetColumns updates the table columns and reapplies styles.
func (m *Model[V]) SetColumns(columns []Column) {
	m.columns = columns
	m.layoutColumns()
	m.applyColorScheme()
}

// Rows returns the rows that pass the filter.
func (m *Model[V]) Rows() []V {
	return m.filtered
}

// AllRows returns every row.
func (m *Model[V]) AllRows() []V {
	return m.rows
}

// SetFilter narrows rows to those whose key starts with filter, ignoring case.
func (m *Model[V]) SetFilter(filter string) {
	m.filter = filter
	m.applyFilter()
}

// Filter returns the current filter text.
func (m *Model[V]) Filter() string {
	return m.filter
}

// ClearFilter shows all rows again.
func (m *Model[V]) ClearFilter() {
	m.filter = ""
	m.applyFilter()
}

func (m *Model[V]) applyFilter() {
	if m.filter == "" {
		m.filtered = m.rows
	} else {
		prefix := strings.ToLower(m.filter)
		m.filtered = []V{}
		for _, row := range m.rows {
			if strings.HasPrefix(strings.ToLower(m.keyFunc(row)), prefix) {
				m.filtered = append(m.filtered, row)
			}
		}
	}

	m.refreshRows()

	if m.Cursor() >= len(m.filtered) && len(m.filtered) > 0 {
		m.SetCursor(len(m.filtered) - 1)
	}
}

// Refresh re-renders the visible rows, e.g. after the selection changed.
func (m *Model[V]) Refresh() {
	m.refreshRows()
}

func (m *Model[V]) refreshRows() {
	tableRows := make([]Row, len(m.filtered))
	for i, row := range m.filtered {
		tableRows[i] = m.toRow(row)
	}
	m.table.SetRows(tableRows)
}

// IndexOf returns the index of the first visible row matching fn, or -1.
func (m *Model[V]) IndexOf(fn func(V) bool) int {
	for i, row := range m.filtered {
		if fn(row) {
			return i
		}
	}
	return -1
}

// IndexOfKey returns the index of the visible row with the given key, or -1.
func (m *Model[V]) IndexOfKey(key string) int {
	return m.IndexOf(func(v V) bool { return m.keyFunc(v) == key })
}

// Cursor returns the current cursor position.
func (m *Model[V]) Cursor() int {
	return m.table.Cursor()
}

// SetCursor sets the cursor position.
func (m *Model[V]) SetCursor(pos int) {
	m.table.SetCursor(pos)
}

// SelectedRow returns the row under the cursor, or nil when there are none.
func (m *Model[V]) SelectedRow() *V {
	if len(m.filtered) == 0 {
		return nil
	}
	cursor := m.Cursor()
	if cursor < 0 || cursor >= len(m.filtered) {
		return nil
	}
	return &m.filtered[cursor]
}

// SetSize sets the table dimensions and recomputes the flex column.
func (m *Model[V]) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetWidth(width)
	m.table.SetHeight(height)
	m.layoutColumns()
}

// SetHeight updates only the table height, preserving current width.
func (m *Model[V]) SetHeight(height int) {
	m.SetSize(m.width, height)
}

func (m *Model[V]) layoutColumns() {
	cols := append([]Column(nil), m.columns...)
	if m.flex >= 0 && m.flex < len(cols) {
		used := 0
		for i, c := range cols {
			if i != m.flex {
				used += c.Width + 1
			}
		}
		if w := m.width - used - 1; w > 0 {
			cols[m.flex].Width = w
		}
	}
	m.table.SetColumns(cols)
}

// Focus sets the table focus state.
func (m *Model[V]) Focus() {
	m.focused = true
	m.table.Focus()
}

// Blur removes focus from the table.
func (m *Model[V]) Blur() {
	m.focused = false
	m.table.Blur()
}

// Focused returns true if the table has focus.
func (m *Model[V]) Focused() bool {
	return m.focused
}

// SetNoColor enables/disables color output.
func (m *Model[V]) SetNoColor(noColor bool) {
	m.noColor = noColor
	m.applyColorScheme()
}

// SetColors sets custom theme colors.
func (m *Model[V]) SetColors(headerFG, headerBG, selectedFG, selectedBG color.Color) {
	m.headerFG = headerFG
	m.headerBG = headerBG
	m.selectedFG = selectedFG
	m.selectedBG = selectedBG
	m.applyColorScheme()
}

func (m *Model[V]) applyColorScheme() {
	s := m.styles

	if m.noColor {
		s.Header = s.Header.UnsetForeground().UnsetBackground()
		s.Selected = s.Selected.UnsetForeground().UnsetBackground().Reverse(true)
		s.Cell = s.Cell.UnsetForeground().UnsetBackground()
	} else {
		if m.headerFG != nil {
			s.Header = s.Header.Foreground(m.headerFG)
		}
		if m.headerBG != nil {
			s.Header = s.Header.Background(m.headerBG)
		}
		if m.selectedFG != nil {
			s.Selected = s.Selected.Foreground(m.selectedFG)
		}
		if m.selectedBG != nil {
			s.Selected = s.Selected.Background(m.selectedBG)
		}
	}

	m.table.SetStyles(s)
	m.styles = s
}

// Update handles cursor movement keys.
func (m *Model[V]) Update(msg tea.Msg) (*Model[V], tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table to a string.
func (m *Model[V]) View() string {
	return m.table.View()
}

// Height returns the rendered height of the table (including header).
func (m *Model[V]) Height() int {
	return lipgloss.Height(m.View())
}

// Width returns the rendered width of the table.
func (m *Model[V]) Width() int {
	return lipgloss.Width(m.View())
}

// String returns a string representation for debugging.
func (m *Model[V]) String() string {
	return fmt.Sprintf("Table[rows=%d, filtered=%d, cursor=%d, filter=%q]",
		len(m.rows), len(m.filtered), m.Cursor(), m.filter)
}
