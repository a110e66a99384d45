package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/pathpick/pkg/signal"
)

func sampleSource() *DictSource {
	return NewDictSource(map[string]any{
		"usr": map[string]any{
			"local": map[string]any{
				"bin": map[string]any{
					"tool":  "#!/bin/sh",
					"other": "binary",
				},
				"share": map[string]any{},
			},
		},
		"etc": map[string]any{
			"hosts": "127.0.0.1 localhost",
		},
		"items": []any{"a", "b"},
	})
}

type leafRejecter struct{}

func (leafRejecter) Accept(item *Path) bool { return !item.IsLeaf() }

type notifyingFilter struct {
	changed signal.Signal[Filter]
}

func (f *notifyingFilter) Accept(*Path) bool           { return true }
func (f *notifyingFilter) Changed() *signal.Signal[Filter] { return &f.changed }

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"/", nil},
		{"", nil},
		{"/usr/local/", []string{"usr", "local"}},
		{"usr/./local/../bin", []string{"usr", "bin"}},
		{"../..", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.in))
		})
	}
}

func TestPathBasics(t *testing.T) {
	src := sampleSource()
	p := Parse(src, "/usr/local/bin/tool")

	assert.Equal(t, 4, p.Len())
	assert.Equal(t, "tool", p.Name())
	assert.Equal(t, "bin", p.Segment(-2))
	assert.Equal(t, "/usr/local/bin/tool", p.String())
	assert.True(t, p.IsLeaf())
	assert.True(t, p.IsValid())
	assert.False(t, p.Parent().IsLeaf())
	assert.Equal(t, "/", New(src).String())
	assert.False(t, New(src).IsLeaf())
}

func TestChangedEmitsOnlyOnDifference(t *testing.T) {
	p := Parse(sampleSource(), "/usr/local")
	calls := 0
	p.Changed().Connect(func(*Path) { calls++ })

	p.SetSegments([]string{"usr", "local"})
	assert.Equal(t, 0, calls)

	p.SetSegments([]string{"usr"})
	p.Append("local", "bin")
	require.True(t, p.RemoveLast())
	p.Truncate(5)
	p.Truncate(1)
	p.SetSegment(0, "etc")
	assert.Equal(t, 5, calls)
	assert.Equal(t, []string{"etc"}, p.Segments())

	p.EmitChanged()
	assert.Equal(t, 6, calls)
}

func TestRemoveLastOnRoot(t *testing.T) {
	p := New(sampleSource())
	assert.False(t, p.RemoveLast())
}

func TestCopyIsIndependent(t *testing.T) {
	p := Parse(sampleSource(), "/usr/local")
	calls := 0
	p.Changed().Connect(func(*Path) { calls++ })

	c := p.Copy()
	c.Append("bin")

	assert.Equal(t, "/usr/local", p.String())
	assert.Equal(t, "/usr/local/bin", c.String())
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, c.Changed().Len())
}

func TestTruncateUntilValid(t *testing.T) {
	p := Parse(sampleSource(), "/usr/local/missing/deeper")
	calls := 0
	p.Changed().Connect(func(*Path) { calls++ })

	p.TruncateUntilValid()
	assert.Equal(t, "/usr/local", p.String())
	assert.Equal(t, 1, calls)

	p.TruncateUntilValid()
	assert.Equal(t, 1, calls)
}

func TestTruncateUntilValidHonoursFilter(t *testing.T) {
	p := Parse(sampleSource(), "/usr/local/bin/tool")
	p.SetFilter(leafRejecter{})
	p.TruncateUntilValid()
	assert.Equal(t, "/usr/local/bin", p.String())
}

func TestTruncateUntilValidWorstCaseIsRoot(t *testing.T) {
	p := Parse(sampleSource(), "/nope/nada")
	p.TruncateUntilValid()
	assert.True(t, p.IsEmpty())
}

func TestChildrenAreFiltered(t *testing.T) {
	p := Parse(sampleSource(), "/usr/local")
	children, err := p.Children()
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "bin", children[0].Name())
	assert.Nil(t, children[0].Filter())

	bin := Parse(sampleSource(), "/usr/local/bin")
	bin.SetFilter(leafRejecter{})
	children, err = bin.Children()
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestSetFilterNotifies(t *testing.T) {
	p := Parse(sampleSource(), "/usr")
	calls := 0
	p.Changed().Connect(func(*Path) { calls++ })

	f := &notifyingFilter{}
	p.SetFilter(f)
	p.SetFilter(f)
	assert.Equal(t, 1, calls)

	f.changed.Emit(f)
	assert.Equal(t, 2, calls)

	p.SetFilter(nil)
	f.changed.Emit(f)
	assert.Equal(t, 3, calls)
}

func TestCopyFollowsFilterUntilDetached(t *testing.T) {
	f := &notifyingFilter{}
	p := Parse(sampleSource(), "/usr")
	p.SetFilter(f)

	c := p.Copy()
	calls := 0
	c.Changed().Connect(func(*Path) { calls++ })
	f.changed.Emit(f)
	assert.Equal(t, 1, calls)

	c.Detach()
	f.changed.Emit(f)
	assert.Equal(t, 1, calls)
	assert.Same(t, f, c.Filter())

	s := p.Snapshot()
	s.Changed().Connect(func(*Path) { calls++ })
	f.changed.Emit(f)
	assert.Equal(t, 1, calls)
}

func TestEqualAndHasPrefix(t *testing.T) {
	src := sampleSource()
	a := Parse(src, "/usr/local/bin")
	b := Parse(src, "/usr/local")
	assert.True(t, a.HasPrefix(b))
	assert.False(t, b.HasPrefix(a))
	assert.True(t, a.Equal(Parse(src, "usr/local/bin")))
	assert.False(t, a.Equal(nil))
}
