package pathfilter

import (
	"fmt"
	stdpath "path"
	"slices"
	"strings"

	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/signal"
)

// Glob accepts items whose name matches any of its patterns. With LeafOnly
// set, which is the default, containers always pass so they stay navigable.
type Glob struct {
	patterns []string
	leafOnly bool
	enabled  bool
	changed  signal.Signal[path.Filter]
}

// NewGlob validates patterns and returns a leaf-only glob filter.
func NewGlob(patterns ...string) (*Glob, error) {
	g := &Glob{leafOnly: true, enabled: true}
	if err := validatePatterns(patterns); err != nil {
		return nil, err
	}
	g.patterns = slices.Clone(patterns)
	return g, nil
}

func validatePatterns(patterns []string) error {
	for _, p := range patterns {
		if _, err := stdpath.Match(p, ""); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", p, err)
		}
	}
	return nil
}

// ParsePatterns splits a comma separated list and trims each entry.
func ParsePatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Patterns returns the current patterns.
func (g *Glob) Patterns() []string {
	return slices.Clone(g.patterns)
}

// SetPatterns replaces the patterns. Invalid patterns leave the filter
// unchanged.
func (g *Glob) SetPatterns(patterns []string) error {
	if slices.Equal(g.patterns, patterns) {
		return nil
	}
	if err := validatePatterns(patterns); err != nil {
		return err
	}
	g.patterns = slices.Clone(patterns)
	g.changed.Emit(g)
	return nil
}

// LeafOnly reports whether containers bypass the patterns.
func (g *Glob) LeafOnly() bool { return g.leafOnly }

// SetLeafOnly changes whether containers bypass the patterns.
func (g *Glob) SetLeafOnly(leafOnly bool) {
	if g.leafOnly == leafOnly {
		return
	}
	g.leafOnly = leafOnly
	g.changed.Emit(g)
}

// Accept implements path.Filter.
func (g *Glob) Accept(item *path.Path) bool {
	if !g.enabled || len(g.patterns) == 0 {
		return true
	}
	if g.leafOnly && !item.IsLeaf() {
		return true
	}
	name := item.Name()
	for _, p := range g.patterns {
		if ok, _ := stdpath.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Enabled implements Toggler.
func (g *Glob) Enabled() bool { return g.enabled }

// SetEnabled implements Toggler.
func (g *Glob) SetEnabled(enabled bool) {
	if g.enabled == enabled {
		return
	}
	g.enabled = enabled
	g.changed.Emit(g)
}

// Changed implements path.Notifier.
func (g *Glob) Changed() *signal.Signal[path.Filter] {
	return &g.changed
}

// Kind implements Kinded.
func (*Glob) Kind() string { return KindGlob }
