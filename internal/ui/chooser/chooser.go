// Package chooser composes a directory field, a listing, an optional preview,
// a filter editor and a leaf field into a path chooser, and keeps the paths
// they edit in step with each other.
//
// The widget owns three paths. The canonical path is the one given to
// SetPath and holds the final choice. The directory path is a copy that never
// addresses a leaf and drives the directory field. The listing path is a copy
// that drives the listing. A change to any of them is pushed into the other
// two while their handlers are blocked, so propagation never loops.
package chooser

import (
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/pathpick/internal/ui"
	"github.com/oakwood-commons/pathpick/internal/ui/filterui"
	"github.com/oakwood-commons/pathpick/internal/ui/listing"
	"github.com/oakwood-commons/pathpick/internal/ui/pathfield"
	"github.com/oakwood-commons/pathpick/internal/ui/preview"
	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/pathfilter"
	"github.com/oakwood-commons/pathpick/pkg/signal"
)

type focusTarget int

const (
	focusDirField focusTarget = iota
	focusListing
	focusFilter
	focusLeafField
)

// Widget is the path chooser.
type Widget struct {
	path        *path.Path
	dirPath     *path.Path
	listingPath *path.Path

	pathConn    *signal.Connection[*path.Path]
	dirConn     *signal.Connection[*path.Path]
	listingConn *signal.Connection[*path.Path]

	filter       path.Filter
	filterSynced bool
	dirFilter    *pathfilter.Compound

	dirField     *pathfield.Model
	listing      *listing.Model
	preview      *preview.Compound
	filterEditor filterui.Editor
	leafField    *pathfield.Model
	toggleLabel  string

	pathSelected signal.Signal[*Widget]

	focus  focusTarget
	keys   ui.KeyMap
	styles ui.Styles
	log    logr.Logger
	width  int
	height int
}

type options struct {
	previewTypes []string
	multi        bool
	mode         listing.DisplayMode
	theme        ui.Theme
	noColor      bool
	keys         ui.KeyMap
	log          logr.Logger
}

// Option configures a Widget.
type Option func(*options)

// WithPreviewTypes adds a preview pane with the given preview types.
func WithPreviewTypes(types ...string) Option {
	return func(o *options) { o.previewTypes = append(o.previewTypes, types...) }
}

// WithMultipleSelection lets the listing select several paths. The leaf
// field is hidden in this mode.
func WithMultipleSelection(multi bool) Option {
	return func(o *options) { o.multi = multi }
}

// WithDisplayMode sets the initial listing mode.
func WithDisplayMode(mode listing.DisplayMode) Option {
	return func(o *options) { o.mode = mode }
}

// WithTheme sets the colors.
func WithTheme(th ui.Theme) Option {
	return func(o *options) { o.theme = th }
}

// WithNoColor renders without colors.
func WithNoColor(noColor bool) Option {
	return func(o *options) { o.noColor = noColor }
}

// WithKeyMap sets the global key bindings.
func WithKeyMap(km ui.KeyMap) Option {
	return func(o *options) { o.keys = km }
}

// WithLogger sets the logger. Propagation steps are logged at V(1).
func WithLogger(log logr.Logger) Option {
	return func(o *options) { o.log = log }
}

// New builds a chooser for p. It fails only for unknown preview types.
func New(p *path.Path, opts ...Option) (*Widget, error) {
	o := options{
		theme: ui.DefaultTheme(),
		keys:  ui.DefaultKeyMap(),
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if p == nil {
		return nil, fmt.Errorf("chooser: nil path")
	}

	w := &Widget{
		keys:   o.keys,
		styles: ui.NewStyles(o.theme, o.noColor),
		log:    o.log,
		width:  80,
		height: 24,
		focus:  focusListing,
	}

	// Children start on a throwaway path; SetPath binds the real one.
	w.dirField = pathfield.New(pathfield.WithTitle("Directory"), pathfield.WithLogger(o.log))
	w.listing = listing.New(
		listing.WithMultipleSelection(o.multi),
		listing.WithDisplayMode(o.mode),
		listing.WithStyles(w.styles),
		listing.WithLogger(o.log),
	)
	w.leafField = pathfield.New(
		pathfield.WithTitle("Name"),
		pathfield.WithRelativeText(),
		pathfield.WithPlaceholder("name"),
		pathfield.WithLogger(o.log),
	)
	w.leafField.SetVisible(!o.multi)
	if len(o.previewTypes) > 0 {
		pv, err := preview.NewCompound(o.previewTypes, w.styles, o.log)
		if err != nil {
			return nil, err
		}
		w.preview = pv
	}

	w.listing.DisplayModeChanged().Connect(w.displayModeChanged)
	w.listing.SelectionChanged().Connect(w.listingSelectionChanged)
	w.listing.PathSelected().Connect(func(*listing.Model) { w.emitPathSelected() })
	w.leafField.Activated().Connect(func(*pathfield.Model) { w.emitPathSelected() })
	w.displayModeChanged(w.listing)

	w.SetPath(p)
	w.applyFocus()
	w.layout()
	return w, nil
}

var _ ui.ChildModel = (*Widget)(nil)

// Path returns the canonical path. Callers may mutate it; the chooser
// follows.
func (w *Widget) Path() *path.Path {
	return w.path
}

// SetPath makes p the canonical path and rebuilds the derived paths. Passing
// the current path again does nothing.
func (w *Widget) SetPath(p *path.Path) {
	if p == w.path {
		return
	}
	w.release()

	w.path = p

	// The directory path never addresses a leaf. Its leaf-excluding filter is
	// installed by updateFilter.
	w.dirPath = p.Copy()
	if w.dirPath.IsLeaf() && !w.dirPath.IsEmpty() {
		w.dirPath.RemoveLast()
	}
	w.dirField.SetPath(w.dirPath)

	w.listingPath = p.Copy()
	w.listing.SetPath(w.listingPath)

	w.leafField.SetPath(p)
	if w.preview != nil {
		w.preview.SetPath(p)
	}

	w.pathConn = p.Changed().Connect(w.pathChanged)
	w.dirConn = w.dirPath.Changed().Connect(w.dirPathChanged)
	w.listingConn = w.listingPath.Changed().Connect(w.listingPathChanged)

	w.filterSynced = false
	w.updateFilter()
	w.syncSelection()
	w.log.V(1).Info("chooser path set", "path", p.String(), "dir", w.dirPath.String())
}

// release drops every subscription tied to the current paths.
func (w *Widget) release() {
	w.pathConn.Disconnect()
	w.dirConn.Disconnect()
	w.listingConn.Disconnect()
	if w.dirPath != nil {
		w.dirPath.Detach()
	}
	if w.listingPath != nil {
		w.listingPath.Detach()
	}
	if w.dirFilter != nil {
		w.dirFilter.Close()
		w.dirFilter = nil
	}
}

// PathWidget returns the leaf field. It is hidden with multiple selection.
func (w *Widget) PathWidget() *pathfield.Model { return w.leafField }

// PathListingWidget returns the listing.
func (w *Widget) PathListingWidget() *listing.Model { return w.listing }

// DirectoryPathWidget returns the directory field.
func (w *Widget) DirectoryPathWidget() *pathfield.Model { return w.dirField }

// PreviewWidget returns the preview, or nil without preview types.
func (w *Widget) PreviewWidget() *preview.Compound { return w.preview }

// FilterWidget returns the editor of the current filter, or nil.
func (w *Widget) FilterWidget() filterui.Editor { return w.filterEditor }

// PathSelected is emitted when the user commits a choice in the listing or
// the leaf field.
func (w *Widget) PathSelected() *signal.Signal[*Widget] { return &w.pathSelected }

// SelectedPaths returns the chosen paths: the listing selection with
// multiple selection, otherwise the canonical path.
func (w *Widget) SelectedPaths() []*path.Path {
	if w.listing.MultipleSelection() {
		if sel := w.listing.SelectedPaths(); len(sel) > 0 {
			return sel
		}
	}
	return []*path.Path{w.path.Snapshot()}
}

func (w *Widget) emitPathSelected() {
	w.log.V(1).Info("path selected", "path", w.path.String())
	w.pathSelected.Emit(w)
}

func mustBe(got, want *path.Path, name string) {
	if got != want {
		panic(fmt.Sprintf("chooser: %s handler called for foreign path %s", name, got))
	}
}

// updateFilter mirrors the canonical filter onto the directory path, with
// leaves excluded, and onto the listing path, then swaps the filter editor.
func (w *Widget) updateFilter() {
	f := w.path.Filter()
	if w.filterSynced && f == w.filter {
		return
	}

	old := w.dirFilter
	w.dirFilter = nil
	var dirFilter path.Filter = pathfilter.NewLeaf()
	if f != nil {
		w.dirFilter = pathfilter.NewCompound(pathfilter.NewLeaf(), f)
		dirFilter = w.dirFilter
	}
	func() {
		defer signal.Blocked(w.dirConn, w.listingConn)()
		w.dirPath.SetFilter(dirFilter)
		w.listingPath.SetFilter(f)
	}()
	if old != nil {
		old.Close()
	}

	if w.filterEditor != nil {
		w.filterEditor.Blur()
	}
	w.filterEditor = filterui.Create(f, filterui.Options{Styles: w.styles, Log: w.log})
	if w.focus == focusFilter && !w.filterVisible() {
		w.focus = focusListing
	}
	w.applyFocus()
	w.layout()

	w.filter = f
	w.filterSynced = true
	w.log.V(1).Info("filter synchronized", "kind", pathfilter.KindOf(f), "editor", w.filterEditor != nil)
}

func (w *Widget) filterVisible() bool {
	return w.filterEditor != nil
}

// pathChanged handles changes of the canonical path.
func (w *Widget) pathChanged(p *path.Path) {
	mustBe(p, w.path, "canonical")
	w.updateFilter()

	if w.listing.DisplayMode() == listing.List {
		dir := p.Snapshot()
		if dir.IsLeaf() {
			dir.RemoveLast()
		}
		dir.TruncateUntilValid()
		func() {
			defer signal.Blocked(w.dirConn, w.listingConn)()
			w.dirPath.SetSegments(dir.Segments())
			w.listingPath.SetSegments(dir.Segments())
		}()
	} else {
		w.listing.ScrollToPath(p)
	}

	w.syncSelection()
	w.log.V(1).Info("canonical path changed", "path", p.String(), "dir", w.dirPath.String())
}

func (w *Widget) syncSelection() {
	if w.path.IsLeaf() {
		w.listing.SetSelectedPaths([]*path.Path{w.path})
	} else {
		w.listing.SetSelectedPaths(nil)
	}
}

// dirPathChanged handles edits of the directory path, e.g. typing a
// directory or going up.
func (w *Widget) dirPathChanged(p *path.Path) {
	mustBe(p, w.dirPath, "directory")
	dir := p.Snapshot()
	dir.TruncateUntilValid()
	func() {
		defer signal.Blocked(w.pathConn, w.listingConn)()
		w.path.SetSegments(dir.Segments())
		w.listingPath.SetSegments(dir.Segments())
	}()
	w.log.V(1).Info("directory path changed", "dir", p.String(), "path", w.path.String())
}

// listingPathChanged handles navigation inside the listing.
func (w *Widget) listingPathChanged(p *path.Path) {
	mustBe(p, w.listingPath, "listing")
	func() {
		defer signal.Blocked(w.pathConn, w.dirConn)()
		w.dirPath.SetSegments(p.Segments())
		w.path.SetSegments(p.Segments())
	}()
	w.log.V(1).Info("listing path changed", "path", p.String())
}

func (w *Widget) listingSelectionChanged(l *listing.Model) {
	if l != w.listing {
		panic("chooser: selection handler called for a foreign listing")
	}
	sel := l.SelectedPaths()
	if len(sel) == 0 {
		return
	}
	defer signal.Blocked(w.pathConn)()
	w.path.SetSegments(sel[0].Segments())
}

func (w *Widget) displayModeChanged(l *listing.Model) {
	if l != w.listing {
		panic("chooser: display mode handler called for a foreign listing")
	}
	// The button shows the mode it switches to.
	if l.DisplayMode() == listing.List {
		w.toggleLabel = "[tree]"
	} else {
		w.toggleLabel = "[list]"
	}
}

// Up moves the directory path one level up.
func (w *Widget) Up() {
	if w.dirPath.IsEmpty() {
		return
	}
	w.dirPath.RemoveLast()
}

// Reload makes the listing re-read its entries.
func (w *Widget) Reload() {
	w.listingPath.EmitChanged()
}

// ToggleDisplayMode switches the listing between List and Tree. Returning to
// List resynchronizes the derived paths, which are not kept current in Tree
// mode.
func (w *Widget) ToggleDisplayMode() {
	mode := listing.Tree
	if w.listing.DisplayMode() == listing.Tree {
		mode = listing.List
	}
	w.listing.SetDisplayMode(mode)
	if mode == listing.List {
		w.pathChanged(w.path)
	}
}

// ToggleFilter enables or disables the current filter.
func (w *Widget) ToggleFilter() bool {
	if w.filterEditor == nil {
		return false
	}
	return w.filterEditor.ToggleEnabled()
}

// Init implements ui.ChildModel.
func (w *Widget) Init() tea.Cmd {
	return w.focusCmd()
}

// CopyPath puts the canonical path on the system clipboard.
func (w *Widget) CopyPath() error {
	return ui.CopyToClipboard(w.path.String())
}

// Update routes keys. Global bindings are handled first; everything else
// goes to the focused child.
func (w *Widget) Update(msg tea.Msg) (ui.ChildModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.SetSize(msg.Width, msg.Height)
		return w, nil
	case tea.KeyPressMsg:
		return w, w.handleKey(msg)
	}
	return w, nil
}

func (w *Widget) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, w.keys.ToggleView):
		w.ToggleDisplayMode()
		return nil
	case key.Matches(msg, w.keys.Reload):
		w.Reload()
		return nil
	case key.Matches(msg, w.keys.Up):
		w.Up()
		return nil
	case key.Matches(msg, w.keys.ToggleFilter):
		w.ToggleFilter()
		return nil
	case key.Matches(msg, w.keys.NextPreview):
		if w.preview != nil {
			w.preview.Next()
		}
		return nil
	case key.Matches(msg, w.keys.PrevPreview):
		if w.preview != nil {
			w.preview.Prev()
		}
		return nil
	case key.Matches(msg, w.keys.FocusNext):
		if f := w.focusedField(); f != nil && f.Complete() {
			return nil
		}
		if c, ok := w.filterEditor.(filterui.Completer); ok && w.focus == focusFilter && c.Complete() {
			return nil
		}
		return w.cycleFocus(1)
	case key.Matches(msg, w.keys.FocusPrev):
		return w.cycleFocus(-1)
	case key.Matches(msg, w.keys.Copy):
		if err := w.CopyPath(); err != nil {
			w.log.Error(err, "copy path")
		}
		return nil
	}

	var cmd tea.Cmd
	switch w.focus {
	case focusDirField:
		_, cmd = w.dirField.Update(msg)
	case focusListing:
		_, cmd = w.listing.Update(msg)
	case focusFilter:
		if w.filterEditor != nil {
			_, cmd = w.filterEditor.Update(msg)
		}
	case focusLeafField:
		_, cmd = w.leafField.Update(msg)
	}
	return cmd
}

func (w *Widget) focusedField() *pathfield.Model {
	switch w.focus {
	case focusDirField:
		return w.dirField
	case focusLeafField:
		return w.leafField
	}
	return nil
}

func (w *Widget) focusOrder() []focusTarget {
	order := []focusTarget{focusDirField, focusListing}
	if w.filterEditor != nil && w.filterEditor.Editable() {
		order = append(order, focusFilter)
	}
	if w.leafField.Visible() {
		order = append(order, focusLeafField)
	}
	return order
}

func (w *Widget) cycleFocus(delta int) tea.Cmd {
	order := w.focusOrder()
	idx := 0
	for i, f := range order {
		if f == w.focus {
			idx = i
		}
	}
	w.focus = order[((idx+delta)%len(order)+len(order))%len(order)]
	w.applyFocus()
	return w.focusCmd()
}

// Focused returns which child has focus, as its title.
func (w *Widget) Focused() string {
	switch w.focus {
	case focusDirField:
		return w.dirField.Title()
	case focusFilter:
		return "Filter"
	case focusLeafField:
		return w.leafField.Title()
	}
	return w.listing.Title()
}

func (w *Widget) applyFocus() {
	w.dirField.Blur()
	w.listing.Blur()
	w.leafField.Blur()
	if w.filterEditor != nil {
		w.filterEditor.Blur()
	}
	w.focusCmd()
}

func (w *Widget) focusCmd() tea.Cmd {
	switch w.focus {
	case focusDirField:
		return w.dirField.Focus()
	case focusFilter:
		if w.filterEditor != nil {
			return w.filterEditor.Focus()
		}
	case focusLeafField:
		return w.leafField.Focus()
	}
	return w.listing.Focus()
}
