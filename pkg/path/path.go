// Package path models a location in a hierarchical namespace as an ordered
// list of segments resolved against a Source.
//
// A Path is mutable and announces every change through Changed. It may carry
// a Filter that restricts which children are visible and which items count as
// valid. Paths are not safe for concurrent use.
package path

import (
	"slices"
	"strings"

	"github.com/oakwood-commons/pathpick/pkg/signal"
)

// Separator joins segments in the string form of a path.
const Separator = "/"

// Filter decides whether an item is visible.
type Filter interface {
	Accept(item *Path) bool
}

// Notifier is implemented by filters whose behaviour can change after they
// are attached, for example when the user edits an expression.
type Notifier interface {
	Changed() *signal.Signal[Filter]
}

// Path is an ordered sequence of segments over a Source.
type Path struct {
	source     Source
	segments   []string
	filter     Filter
	filterConn *signal.Connection[Filter]
	changed    signal.Signal[*Path]
}

// New returns a path over source made of the given segments.
func New(source Source, segments ...string) *Path {
	if source == nil {
		source = EmptySource()
	}
	return &Path{source: source, segments: slices.Clone(segments)}
}

// Parse splits s on the separator and returns the resulting path. Empty and
// "." segments are ignored and ".." removes the previous segment.
func Parse(source Source, s string) *Path {
	return New(source, Split(s)...)
}

// Split breaks a path string into cleaned segments.
func Split(s string) []string {
	var out []string
	for _, part := range strings.Split(s, Separator) {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, part)
		}
	}
	return out
}

// Copy returns an independent path with the same source, segments and filter.
// Subscribers of the original are not carried over. The copy follows change
// notifications of the filter until Detach is called.
func (p *Path) Copy() *Path {
	c := New(p.source, p.segments...)
	c.attachFilter(p.filter)
	return c
}

// Snapshot is like Copy but the result does not follow the filter's change
// notifications. Use it for short-lived working copies.
func (p *Path) Snapshot() *Path {
	c := New(p.source, p.segments...)
	c.filter = p.filter
	return c
}

// Detach stops forwarding filter notifications. The filter stays attached.
func (p *Path) Detach() {
	p.filterConn.Disconnect()
	p.filterConn = nil
}

// Source returns the source the path resolves against.
func (p *Path) Source() Source {
	return p.source
}

// Changed is emitted after every mutation of the segments or the filter.
func (p *Path) Changed() *signal.Signal[*Path] {
	return &p.changed
}

// EmitChanged notifies subscribers without mutating the path. Listings use it
// to force a refresh of cached children.
func (p *Path) EmitChanged() {
	p.changed.Emit(p)
}

// Len returns the number of segments.
func (p *Path) Len() int {
	return len(p.segments)
}

// IsEmpty reports whether the path addresses the root.
func (p *Path) IsEmpty() bool {
	return len(p.segments) == 0
}

// Segment returns the segment at index i. Negative indices count from the end.
func (p *Path) Segment(i int) string {
	if i < 0 {
		i += len(p.segments)
	}
	return p.segments[i]
}

// Segments returns a copy of the segments.
func (p *Path) Segments() []string {
	return slices.Clone(p.segments)
}

// Name returns the last segment, or "" for the root.
func (p *Path) Name() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// SetSegments replaces all segments. Subscribers are notified only when the
// segments actually differ.
func (p *Path) SetSegments(segments []string) {
	if slices.Equal(p.segments, segments) {
		return
	}
	p.segments = slices.Clone(segments)
	p.changed.Emit(p)
}

// SetSegment replaces the segment at index i.
func (p *Path) SetSegment(i int, name string) {
	if i < 0 {
		i += len(p.segments)
	}
	if p.segments[i] == name {
		return
	}
	p.segments[i] = name
	p.changed.Emit(p)
}

// Append adds segments to the end of the path.
func (p *Path) Append(names ...string) {
	if len(names) == 0 {
		return
	}
	p.segments = append(p.segments, names...)
	p.changed.Emit(p)
}

// RemoveLast drops the final segment. It reports false for the root.
func (p *Path) RemoveLast() bool {
	if len(p.segments) == 0 {
		return false
	}
	p.segments = p.segments[:len(p.segments)-1]
	p.changed.Emit(p)
	return true
}

// Truncate keeps the first n segments.
func (p *Path) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(p.segments) {
		return
	}
	p.segments = p.segments[:n]
	p.changed.Emit(p)
}

// Parent returns a snapshot of the path without its last segment. The root is its
// own parent.
func (p *Path) Parent() *Path {
	c := p.Snapshot()
	if len(c.segments) > 0 {
		c.segments = c.segments[:len(c.segments)-1]
	}
	return c
}

// Child returns a filterless path one level below p.
func (p *Path) Child(name string) *Path {
	segs := make([]string, 0, len(p.segments)+1)
	segs = append(segs, p.segments...)
	return New(p.source, append(segs, name)...)
}

// Info describes the addressed item.
func (p *Path) Info() Info {
	if len(p.segments) == 0 {
		return Info{Exists: true, Kind: KindRoot}
	}
	info, err := p.source.Stat(p.segments)
	if err != nil {
		return Info{}
	}
	return info
}

// Exists reports whether the source knows the addressed item.
func (p *Path) Exists() bool {
	return p.Info().Exists
}

// IsLeaf reports whether the path addresses a terminal item. The root is
// never a leaf.
func (p *Path) IsLeaf() bool {
	if len(p.segments) == 0 {
		return false
	}
	info := p.Info()
	return info.Exists && info.Leaf
}

// IsValid reports whether the item exists and passes the attached filter.
func (p *Path) IsValid() bool {
	if len(p.segments) == 0 {
		return true
	}
	if !p.Exists() {
		return false
	}
	if p.filter != nil && !p.filter.Accept(p) {
		return false
	}
	return true
}

// TruncateUntilValid removes trailing segments until IsValid holds. The root
// is always valid, so this always terminates. At most one change is emitted.
func (p *Path) TruncateUntilValid() {
	probe := p.Snapshot()
	for probe.Len() > 0 && !probe.IsValid() {
		probe.segments = probe.segments[:len(probe.segments)-1]
	}
	p.SetSegments(probe.segments)
}

// Children lists the items directly below p, filtered by the attached filter.
// Returned children carry no filter.
func (p *Path) Children() ([]*Path, error) {
	names, err := p.source.Children(p.segments)
	if err != nil {
		return nil, err
	}
	out := make([]*Path, 0, len(names))
	for _, name := range names {
		child := p.Child(name)
		if p.filter != nil && !p.filter.Accept(child) {
			continue
		}
		out = append(out, child)
	}
	return out, nil
}

// Filter returns the attached filter, or nil.
func (p *Path) Filter() Filter {
	return p.filter
}

// SetFilter attaches f and notifies subscribers when it is a different
// object. Change notifications from f are re-emitted as path changes.
func (p *Path) SetFilter(f Filter) {
	if f == p.filter {
		return
	}
	p.attachFilter(f)
	p.changed.Emit(p)
}

func (p *Path) attachFilter(f Filter) {
	p.Detach()
	p.filter = f
	if n, ok := f.(Notifier); ok {
		p.filterConn = n.Changed().Connect(func(Filter) {
			p.changed.Emit(p)
		})
	}
}

// Equal reports whether both paths address the same segments.
func (p *Path) Equal(other *Path) bool {
	if p == nil || other == nil {
		return p == other
	}
	return slices.Equal(p.segments, other.segments)
}

// HasPrefix reports whether prefix addresses p or one of its ancestors.
func (p *Path) HasPrefix(prefix *Path) bool {
	if prefix.Len() > p.Len() {
		return false
	}
	return slices.Equal(p.segments[:prefix.Len()], prefix.segments)
}

// String returns the absolute form of the path, "/" for the root.
func (p *Path) String() string {
	return Separator + strings.Join(p.segments, Separator)
}
