package chooser

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/pathpick/internal/ui"
	"github.com/oakwood-commons/pathpick/internal/ui/listing"
	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/pathfilter"
)

func testSource() path.Source {
	return path.NewDictSource(map[string]any{
		"usr": map[string]any{
			"local": map[string]any{
				"bin":   map[string]any{"tool": "x", "tar": "y"},
				"share": map[string]any{"doc": "readme"},
			},
			"lib": map[string]any{"libc.so": 1},
		},
		"etc":  map[string]any{"hosts": "127.0.0.1"},
		"motd": "hello",
	})
}

func newWidget(t *testing.T, p *path.Path, opts ...Option) *Widget {
	t.Helper()
	opts = append([]Option{WithNoColor(true), WithTheme(ui.DefaultTheme())}, opts...)
	w, err := New(p, opts...)
	require.NoError(t, err)
	return w
}

func keyPress(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "shift+tab":
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "alt+up":
		return tea.KeyPressMsg{Code: tea.KeyUp, Mod: tea.ModAlt}
	case "ctrl+t":
		return tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl}
	case "ctrl+r":
		return tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	case "ctrl+e":
		return tea.KeyPressMsg{Code: 'e', Mod: tea.ModCtrl}
	case "ctrl+y":
		return tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

func press(w *Widget, keys ...string) {
	for _, k := range keys {
		w.Update(keyPress(k))
	}
}

func selected(w *Widget) []string {
	var out []string
	for _, p := range w.listing.SelectedPaths() {
		out = append(out, p.String())
	}
	return out
}

func TestSetPath_LeafExample(t *testing.T) {
	p := path.New(testSource(), "usr", "local", "bin", "tool")
	w := newWidget(t, p)

	assert.Same(t, p, w.Path())
	assert.Equal(t, []string{"usr", "local", "bin"}, w.dirPath.Segments())
	assert.Equal(t, []string{"usr", "local", "bin", "tool"}, w.listingPath.Segments())
	assert.Equal(t, "tool", w.PathWidget().Value())
	assert.Equal(t, []string{"/usr/local/bin/tool"}, selected(w))
	assert.Equal(t, "/usr/local/bin", w.DirectoryPathWidget().Value())
}

func TestSetPath_SameInstanceIsNoop(t *testing.T) {
	p := path.New(testSource(), "usr")
	w := newWidget(t, p)
	dir, list := w.dirPath, w.listingPath

	w.SetPath(p)
	assert.Same(t, dir, w.dirPath)
	assert.Same(t, list, w.listingPath)
	assert.Equal(t, 2, p.Changed().Len(), "chooser and leaf field")
}

func TestSetPath_ReplacesAndReleasesPrevious(t *testing.T) {
	first := path.New(testSource(), "usr")
	w := newWidget(t, first)
	oldDir := w.dirPath

	second := path.New(testSource(), "etc")
	w.SetPath(second)

	assert.Equal(t, 0, first.Changed().Len())
	assert.Equal(t, 0, oldDir.Changed().Len())

	first.Append("lib")
	assert.Equal(t, []string{"etc"}, w.dirPath.Segments())
	assert.Equal(t, []string{"etc"}, w.listingPath.Segments())
}

func TestCanonicalLeafDropsLastSegmentOnDirectory(t *testing.T) {
	p := path.New(testSource())
	w := newWidget(t, p)

	p.SetSegments([]string{"usr", "local", "share", "doc"})
	assert.Equal(t, []string{"usr", "local", "share"}, w.dirPath.Segments())
	assert.Equal(t, []string{"usr", "local", "share"}, w.listingPath.Segments())
	assert.Equal(t, []string{"/usr/local/share/doc"}, selected(w))

	p.SetSegments([]string{"etc"})
	assert.Equal(t, []string{"etc"}, w.dirPath.Segments())
	assert.Empty(t, selected(w))
}

func TestCanonicalInvalidIsTruncated(t *testing.T) {
	p := path.New(testSource())
	w := newWidget(t, p)

	p.SetSegments([]string{"usr", "nope", "deeper"})
	assert.Equal(t, []string{"usr"}, w.dirPath.Segments())
	assert.Equal(t, []string{"usr"}, w.listingPath.Segments())
	assert.Equal(t, []string{"usr", "nope", "deeper"}, p.Segments(), "canonical keeps what was assigned")
}

func TestPropagationConverges(t *testing.T) {
	p := path.New(testSource(), "usr", "local", "bin", "tool")
	w := newWidget(t, p)

	dirChanges, listingChanges, pathChanges := 0, 0, 0
	w.dirPath.Changed().Connect(func(*path.Path) { dirChanges++ })
	w.listingPath.Changed().Connect(func(*path.Path) { listingChanges++ })
	p.Changed().Connect(func(*path.Path) { pathChanges++ })

	// The first replay moves the listing off the leaf; after that the state
	// is converged and replaying changes nothing.
	w.pathChanged(p)
	assert.Equal(t, []string{"usr", "local", "bin"}, w.listingPath.Segments())
	dirChanges, listingChanges, pathChanges = 0, 0, 0
	w.pathChanged(p)
	assert.Equal(t, 0, dirChanges)
	assert.Equal(t, 0, listingChanges)
	assert.Equal(t, 0, pathChanges)

	w.listingPath.SetSegments([]string{"usr", "lib"})
	assert.Equal(t, []string{"usr", "lib"}, w.dirPath.Segments())
	assert.Equal(t, []string{"usr", "lib"}, p.Segments())
	assert.Equal(t, 1, listingChanges)
	assert.Equal(t, 1, dirChanges)
	assert.Equal(t, 1, pathChanges)

	w.dirPath.SetSegments([]string{"etc"})
	assert.Equal(t, []string{"etc"}, p.Segments())
	assert.Equal(t, []string{"etc"}, w.listingPath.Segments())
}

func TestDirectoryChangeIsValidated(t *testing.T) {
	p := path.New(testSource(), "usr")
	w := newWidget(t, p)

	w.dirPath.SetSegments([]string{"usr", "local", "bin", "tool"})
	assert.Equal(t, []string{"usr", "local", "bin"}, p.Segments(), "a leaf is not a directory")
	assert.Equal(t, []string{"usr", "local", "bin"}, w.listingPath.Segments())
}

func TestUpExample(t *testing.T) {
	p := path.New(testSource(), "usr", "local", "bin")
	w := newWidget(t, p)
	require.Equal(t, []string{"usr", "local", "bin"}, w.dirPath.Segments())

	press(w, "alt+up")
	assert.Equal(t, []string{"usr", "local"}, w.dirPath.Segments())
	assert.Equal(t, []string{"usr", "local"}, p.Segments())
	assert.Equal(t, []string{"usr", "local"}, w.listingPath.Segments())

	w.dirPath.SetSegments(nil)
	w.Up()
	assert.True(t, p.IsEmpty())
}

func TestToggleListTreeListRestoresDerivedPaths(t *testing.T) {
	p := path.New(testSource(), "usr", "local", "bin", "tool")
	w := newWidget(t, p)
	assert.Contains(t, w.View(), "[tree]")

	press(w, "ctrl+t")
	require.Equal(t, listing.Tree, w.listing.DisplayMode())
	assert.Contains(t, w.View(), "[list]")

	// In Tree mode the derived paths are left alone.
	p.SetSegments([]string{"etc", "hosts"})
	assert.Equal(t, []string{"usr", "local", "bin"}, w.dirPath.Segments())

	press(w, "ctrl+t")
	require.Equal(t, listing.List, w.listing.DisplayMode())
	assert.Equal(t, []string{"etc"}, w.dirPath.Segments())
	assert.Equal(t, []string{"etc"}, w.listingPath.Segments())
	assert.Contains(t, w.View(), "[tree]")
}

func TestAttachingFilterExcludesLeavesOnDirectory(t *testing.T) {
	p := path.New(testSource(), "usr")
	w := newWidget(t, p)
	_, isLeaf := w.dirPath.Filter().(*pathfilter.Leaf)
	assert.True(t, isLeaf)
	assert.Nil(t, w.FilterWidget())

	g, err := pathfilter.NewGlob("t*")
	require.NoError(t, err)
	p.SetFilter(g)

	c, ok := w.dirPath.Filter().(*pathfilter.Compound)
	require.True(t, ok)
	require.Len(t, c.Filters(), 2)
	_, isLeaf = c.Filters()[0].(*pathfilter.Leaf)
	assert.True(t, isLeaf)
	assert.Same(t, g, c.Filters()[1])
	assert.NotNil(t, w.FilterWidget())
	assert.Contains(t, w.View(), "glob")

	p.SetFilter(nil)
	_, isLeaf = w.dirPath.Filter().(*pathfilter.Leaf)
	assert.True(t, isLeaf)
	assert.Nil(t, w.FilterWidget())
}

func TestListingPathFollowsCanonicalFilter(t *testing.T) {
	p := path.New(testSource(), "usr")
	w := newWidget(t, p)
	assert.Nil(t, w.listingPath.Filter())

	g, err := pathfilter.NewGlob("t*")
	require.NoError(t, err)
	p.SetFilter(g)
	assert.Same(t, g, w.listingPath.Filter())
	assert.Equal(t, []string{"usr"}, w.listingPath.Segments())

	p.SetFilter(nil)
	assert.Nil(t, w.listingPath.Filter())
}

func TestFilterSyncDoesNotTruncateCanonical(t *testing.T) {
	p := path.New(testSource(), "usr", "local", "bin", "tool")
	w := newWidget(t, p)

	g, err := pathfilter.NewGlob("*")
	require.NoError(t, err)
	p.SetFilter(g)
	assert.Equal(t, []string{"usr", "local", "bin", "tool"}, p.Segments())
	assert.Equal(t, []string{"usr", "local", "bin"}, w.dirPath.Segments())
}

func TestListingSelectionUpdatesCanonicalWithoutFeedback(t *testing.T) {
	p := path.New(testSource(), "usr", "local", "bin")
	w := newWidget(t, p)

	selectionChanges := 0
	w.listing.SelectionChanged().Connect(func(*listing.Model) { selectionChanges++ })
	dirChanges := 0
	w.dirPath.Changed().Connect(func(*path.Path) { dirChanges++ })

	press(w, "down") // tar -> tool
	assert.Equal(t, []string{"usr", "local", "bin", "tool"}, p.Segments())
	assert.Equal(t, 1, selectionChanges)
	assert.Equal(t, 0, dirChanges)
	assert.Equal(t, "tool", w.PathWidget().Value())
}

func TestPathSelectedFromListingAndLeafField(t *testing.T) {
	p := path.New(testSource(), "usr", "local", "bin", "tar")
	w := newWidget(t, p)

	var got []string
	w.PathSelected().Connect(func(c *Widget) { got = append(got, c.Path().String()) })

	press(w, "enter")
	assert.Equal(t, []string{"/usr/local/bin/tar"}, got)

	press(w, "tab") // listing -> leaf field
	require.Equal(t, "Name", w.Focused())
	w.PathWidget().SetValue("tool")
	press(w, "enter")
	assert.Equal(t, []string{"/usr/local/bin/tar", "/usr/local/bin/tool"}, got)
	assert.Equal(t, []string{"/usr/local/bin/tool"}, selected(w))
}

func TestDirectoryFieldNavigation(t *testing.T) {
	p := path.New(testSource())
	w := newWidget(t, p)

	press(w, "shift+tab")
	require.Equal(t, "Directory", w.Focused())
	w.DirectoryPathWidget().SetValue("/usr/lo")
	press(w, "tab")
	assert.Equal(t, "/usr/local/", w.DirectoryPathWidget().Value())
	assert.Equal(t, "Directory", w.Focused(), "completion keeps focus")

	press(w, "enter")
	assert.Equal(t, []string{"usr", "local"}, p.Segments())
	assert.Equal(t, []string{"usr", "local"}, w.listingPath.Segments())
}

func TestListingDescendPropagates(t *testing.T) {
	p := path.New(testSource())
	w := newWidget(t, p)

	press(w, "down", "down") // etc, motd, usr
	press(w, "right")
	assert.Equal(t, []string{"usr"}, w.listingPath.Segments())
	assert.Equal(t, []string{"usr"}, w.dirPath.Segments())
	assert.Equal(t, []string{"usr"}, p.Segments())
}

func TestReloadReemitsWithoutMutation(t *testing.T) {
	p := path.New(testSource(), "usr")
	w := newWidget(t, p)

	count := 0
	w.listingPath.Changed().Connect(func(*path.Path) { count++ })
	press(w, "ctrl+r")
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"usr"}, w.listingPath.Segments())
	assert.Equal(t, []string{"usr"}, p.Segments())
}

func TestMultipleSelectionHidesLeafField(t *testing.T) {
	p := path.New(testSource(), "usr", "local", "bin")
	w := newWidget(t, p, WithMultipleSelection(true))
	assert.False(t, w.PathWidget().Visible())

	press(w, "space", "down", "space")
	sel := w.SelectedPaths()
	require.Len(t, sel, 2)
	assert.Equal(t, "/usr/local/bin/tar", sel[0].String())
	assert.Equal(t, "/usr/local/bin/tool", sel[1].String())
	assert.Equal(t, []string{"usr", "local", "bin", "tar"}, p.Segments())
}

func TestFilterEditorFocusAndToggle(t *testing.T) {
	p := path.New(testSource(), "usr", "local", "bin")
	w := newWidget(t, p)
	expr, err := pathfilter.NewExpression("")
	require.NoError(t, err)
	p.SetFilter(expr)

	press(w, "tab") // listing -> filter
	require.Equal(t, "Filter", w.Focused())
	for _, r := range `!leaf || name == "tool"` {
		w.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	press(w, "enter")
	assert.Equal(t, `!leaf || name == "tool"`, expr.Expression())
	var names []string
	for _, c := range mustChildren(t, w.listingPath) {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"tool"}, names)
	assert.Equal(t, []string{"usr", "local", "bin"}, p.Segments())

	press(w, "ctrl+e")
	assert.False(t, expr.Enabled())
	assert.Len(t, mustChildren(t, w.listingPath), 2)
}

func mustChildren(t *testing.T, p *path.Path) []*path.Path {
	t.Helper()
	c, err := p.Children()
	require.NoError(t, err)
	return c
}

func TestPreviewFollowsCanonical(t *testing.T) {
	p := path.New(testSource(), "motd")
	w := newWidget(t, p, WithPreviewTypes("info", "data"))
	require.NotNil(t, w.PreviewWidget())
	assert.Equal(t, []string{"info", "data"}, w.PreviewWidget().Tabs())

	w.SetSize(100, 30)
	assert.Contains(t, w.View(), "Preview")
}

func TestUnknownPreviewType(t *testing.T) {
	_, err := New(path.New(testSource()), WithPreviewTypes("hex"))
	assert.Error(t, err)
}

func TestForeignPathPanics(t *testing.T) {
	w := newWidget(t, path.New(testSource()))
	assert.Panics(t, func() { w.listingPathChanged(path.New(testSource())) })
	assert.Panics(t, func() { w.dirPathChanged(w.listingPath) })
}

func TestCopyPathToClipboard(t *testing.T) {
	var copied []string
	defer ui.StubClipboard(func(s string) error {
		copied = append(copied, s)
		return nil
	})()

	w := newWidget(t, path.New(testSource(), "usr", "local", "bin", "tool"))
	press(w, "ctrl+y")
	assert.Equal(t, []string{"/usr/local/bin/tool"}, copied)
}

func TestTabCompletesFilterExpression(t *testing.T) {
	p := path.New(testSource(), "usr", "local", "bin")
	w := newWidget(t, p)
	expr, err := pathfilter.NewExpression("")
	require.NoError(t, err)
	p.SetFilter(expr)

	press(w, "tab")
	require.Equal(t, "Filter", w.Focused())
	for _, r := range "lef" {
		w.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	press(w, "tab")
	assert.Equal(t, "Filter", w.Focused())
	press(w, "enter")
	assert.Equal(t, "leaf", expr.Expression())

	press(w, "tab")
	assert.Equal(t, "Name", w.Focused())
}
