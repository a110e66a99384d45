package listing

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/pathfilter"
)

func testSource() path.Source {
	return path.NewDictSource(map[string]any{
		"usr": map[string]any{
			"local": map[string]any{
				"bin": map[string]any{"tool": "x", "tar": "y"},
			},
			"lib": map[string]any{"libc.so": 1},
		},
		"etc":   map[string]any{"hosts": "127.0.0.1"},
		"motd":  "hello",
		"alpha": "a",
	})
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyPressMsg
		switch k {
		case "up":
			msg = tea.KeyPressMsg{Code: tea.KeyUp}
		case "down":
			msg = tea.KeyPressMsg{Code: tea.KeyDown}
		case "left":
			msg = tea.KeyPressMsg{Code: tea.KeyLeft}
		case "right":
			msg = tea.KeyPressMsg{Code: tea.KeyRight}
		case "enter":
			msg = tea.KeyPressMsg{Code: tea.KeyEnter}
		case "space":
			msg = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
		case "backspace":
			msg = tea.KeyPressMsg{Code: tea.KeyBackspace}
		case "esc":
			msg = tea.KeyPressMsg{Code: tea.KeyEscape}
		default:
			r := []rune(k)[0]
			msg = tea.KeyPressMsg{Code: r, Text: k}
		}
		m.Update(msg)
	}
}

func names(m *Model) []string {
	var out []string
	for _, r := range m.table.Rows() {
		out = append(out, r.path.Name())
	}
	return out
}

func TestListing_ListShowsChildren(t *testing.T) {
	m := New()
	m.SetPath(path.New(testSource()))
	assert.Equal(t, []string{"alpha", "etc", "motd", "usr"}, names(m))
	assert.Contains(t, m.View(), "usr/")
}

func TestListing_FollowsBoundPath(t *testing.T) {
	m := New()
	p := path.New(testSource())
	m.SetPath(p)

	p.Append("usr")
	assert.Equal(t, []string{"lib", "local"}, names(m))
}

func TestListing_FilterOnBoundPath(t *testing.T) {
	m := New()
	p := path.New(testSource())
	p.SetFilter(pathfilter.NewLeaf())
	m.SetPath(p)
	assert.Equal(t, []string{"etc", "usr"}, names(m))
}

func TestListing_DescendAndAscend(t *testing.T) {
	m := New()
	p := path.New(testSource())
	m.SetPath(p)

	press(m, "down", "down", "down") // usr
	press(m, "enter")
	assert.Equal(t, "/usr", p.String())

	press(m, "down", "right") // local
	assert.Equal(t, "/usr/local", p.String())

	press(m, "left")
	assert.Equal(t, "/usr", p.String())
	press(m, "backspace")
	assert.True(t, p.IsEmpty())
}

func TestListing_SingleSelectionFollowsCursor(t *testing.T) {
	m := New()
	m.SetPath(path.New(testSource()))

	changes := 0
	m.SelectionChanged().Connect(func(*Model) { changes++ })

	press(m, "down")
	require.Len(t, m.SelectedPaths(), 1)
	assert.Equal(t, "/etc", m.SelectedPaths()[0].String())
	assert.Equal(t, 1, changes)
}

func TestListing_EnterOnLeafEmitsPathSelected(t *testing.T) {
	m := New()
	m.SetPath(path.New(testSource()))

	var got []string
	m.PathSelected().Connect(func(l *Model) {
		for _, p := range l.SelectedPaths() {
			got = append(got, p.String())
		}
	})
	press(m, "enter") // alpha
	assert.Equal(t, []string{"/alpha"}, got)
}

func TestListing_SetSelectedPathsEmitsOnlyOnChange(t *testing.T) {
	m := New()
	m.SetPath(path.New(testSource()))

	changes := 0
	m.SelectionChanged().Connect(func(*Model) { changes++ })

	motd := path.New(testSource(), "motd")
	m.SetSelectedPaths([]*path.Path{motd})
	m.SetSelectedPaths([]*path.Path{path.New(testSource(), "motd")})
	assert.Equal(t, 1, changes)
	assert.Equal(t, "motd", m.table.SelectedRow().path.Name(), "cursor follows the selection")

	m.SetSelectedPaths(nil)
	assert.Equal(t, 2, changes)
	assert.Empty(t, m.SelectedPaths())
}

func TestListing_MultipleSelectionToggles(t *testing.T) {
	m := New(WithMultipleSelection(true))
	m.SetPath(path.New(testSource()))

	press(m, "space", "down", "down", "space")
	sel := m.SelectedPaths()
	require.Len(t, sel, 2)
	assert.Equal(t, "/alpha", sel[0].String())
	assert.Equal(t, "/motd", sel[1].String())

	press(m, "space")
	require.Len(t, m.SelectedPaths(), 1)
	assert.Contains(t, m.View(), "1 selected")
}

func TestListing_Typeahead(t *testing.T) {
	m := New()
	m.SetPath(path.New(testSource()))

	press(m, "m")
	assert.Equal(t, []string{"motd"}, names(m))
	assert.Contains(t, m.View(), "find: m")

	press(m, "backspace")
	assert.Len(t, names(m), 4)

	press(m, "e", "esc")
	assert.Len(t, names(m), 4)
}

func TestListing_DisplayModeChanged(t *testing.T) {
	m := New()
	m.SetPath(path.New(testSource()))

	var modes []DisplayMode
	m.DisplayModeChanged().Connect(func(l *Model) { modes = append(modes, l.DisplayMode()) })

	m.SetDisplayMode(Tree)
	m.SetDisplayMode(Tree)
	m.SetDisplayMode(List)
	assert.Equal(t, []DisplayMode{Tree, List}, modes)
}

func TestListing_TreeExpandCollapse(t *testing.T) {
	m := New(WithDisplayMode(Tree))
	p := path.New(testSource())
	m.SetPath(p)

	press(m, "down", "down", "down") // usr
	press(m, "right")
	assert.Equal(t, []string{"alpha", "etc", "motd", "usr", "lib", "local"}, names(m))
	assert.True(t, p.IsEmpty(), "tree navigation does not move the bound path")

	press(m, "left")
	assert.Equal(t, []string{"alpha", "etc", "motd", "usr"}, names(m))
}

func TestListing_ScrollToPathExpandsAncestors(t *testing.T) {
	m := New(WithDisplayMode(Tree))
	m.SetPath(path.New(testSource()))

	target := path.New(testSource(), "usr", "local", "bin", "tool")
	m.ScrollToPath(target)

	row := m.table.SelectedRow()
	require.NotNil(t, row)
	assert.Equal(t, "/usr/local/bin/tool", row.path.String())
	assert.Contains(t, names(m), "bin")
}

func TestListing_ScrollToPathOutsideIsIgnored(t *testing.T) {
	m := New()
	m.SetPath(path.New(testSource(), "etc"))
	m.ScrollToPath(path.New(testSource(), "usr", "lib"))
	assert.Equal(t, []string{"hosts"}, names(m))
}

func TestListing_ErrorShownInline(t *testing.T) {
	m := New()
	m.SetPath(path.New(testSource(), "missing"))
	assert.Error(t, m.err)
	assert.Contains(t, m.View(), "missing")
}

func TestParseDisplayMode(t *testing.T) {
	mode, err := ParseDisplayMode("tree")
	require.NoError(t, err)
	assert.Equal(t, Tree, mode)

	mode, err = ParseDisplayMode("")
	require.NoError(t, err)
	assert.Equal(t, List, mode)

	_, err = ParseDisplayMode("grid")
	assert.Error(t, err)
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512B", humanBytes(512))
	assert.Equal(t, "1.5K", humanBytes(1536))
	assert.Equal(t, "2.0M", humanBytes(2*1024*1024))
}

func TestListing_LeafPathShowsSiblings(t *testing.T) {
	m := New()
	p := path.New(testSource(), "usr", "local", "bin", "tool")
	m.SetPath(p)
	m.SetSelectedPaths([]*path.Path{p})

	assert.Equal(t, []string{"tar", "tool"}, names(m))
	assert.Equal(t, "tool", m.table.SelectedRow().path.Name())

	press(m, "left")
	assert.Equal(t, "/usr/local", p.String())
}
