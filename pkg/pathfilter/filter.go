// Package pathfilter provides the filters a chooser attaches to paths:
// leaf exclusion, logical AND composition, CEL expressions and name globs.
package pathfilter

import (
	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/signal"
)

// Filter kinds, used to look up an editor for a filter.
const (
	KindLeaf       = "leaf"
	KindCompound   = "compound"
	KindExpression = "expression"
	KindGlob       = "glob"
)

// Kinded is implemented by every filter in this package.
type Kinded interface {
	Kind() string
}

// Toggler is implemented by filters that can be switched off without being
// detached. A disabled filter accepts everything.
type Toggler interface {
	Enabled() bool
	SetEnabled(enabled bool)
}

// KindOf returns the kind of f, or "" when f does not report one.
func KindOf(f path.Filter) string {
	if k, ok := f.(Kinded); ok {
		return k.Kind()
	}
	return ""
}

// Leaf rejects leaf items so only containers remain.
type Leaf struct{}

// NewLeaf returns a leaf-excluding filter.
func NewLeaf() *Leaf {
	return &Leaf{}
}

// Accept implements path.Filter.
func (*Leaf) Accept(item *path.Path) bool {
	return !item.IsLeaf()
}

// Kind implements Kinded.
func (*Leaf) Kind() string { return KindLeaf }

// Compound accepts an item only when every sub-filter accepts it. Changes of
// sub-filters are re-emitted on its own Changed signal.
type Compound struct {
	filters []path.Filter
	conns   []*signal.Connection[path.Filter]
	changed signal.Signal[path.Filter]
}

// NewCompound combines filters. Nil entries are dropped.
func NewCompound(filters ...path.Filter) *Compound {
	c := &Compound{}
	for _, f := range filters {
		if f == nil {
			continue
		}
		c.filters = append(c.filters, f)
		if n, ok := f.(path.Notifier); ok {
			c.conns = append(c.conns, n.Changed().Connect(func(path.Filter) {
				c.changed.Emit(c)
			}))
		}
	}
	return c
}

// Accept implements path.Filter.
func (c *Compound) Accept(item *path.Path) bool {
	for _, f := range c.filters {
		if !f.Accept(item) {
			return false
		}
	}
	return true
}

// Filters returns the sub-filters in order.
func (c *Compound) Filters() []path.Filter {
	out := make([]path.Filter, len(c.filters))
	copy(out, c.filters)
	return out
}

// Changed implements path.Notifier.
func (c *Compound) Changed() *signal.Signal[path.Filter] {
	return &c.changed
}

// Close stops forwarding sub-filter changes.
func (c *Compound) Close() {
	for _, conn := range c.conns {
		conn.Disconnect()
	}
	c.conns = nil
}

// Kind implements Kinded.
func (*Compound) Kind() string { return KindCompound }
