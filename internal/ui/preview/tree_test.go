package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/pathfilter"
)

func TestTree_Accepts(t *testing.T) {
	assert.True(t, Tree{}.Accepts(path.New(dataSource())))
	assert.True(t, Tree{}.Accepts(path.New(fsSource(), "dir")))
	assert.False(t, Tree{}.Accepts(path.New(fsSource(), "notes.txt")))
	assert.False(t, Tree{}.Accepts(path.New(fsSource(), "missing")))
}

func TestTree_RendersDataValues(t *testing.T) {
	out := Tree{}.Render(path.New(dataSource()), 60, 20)
	assert.True(t, strings.HasPrefix(out, "/"), out)
	assert.Contains(t, out, "server/")
	assert.Contains(t, out, "port: 8080")
	assert.Contains(t, out, `host: "localhost"`)
	assert.Contains(t, out, `name: "demo"`)
}

func TestTree_RendersDirectories(t *testing.T) {
	out := Tree{}.Render(path.New(fsSource()), 60, 20)
	assert.Contains(t, out, "dir/")
	assert.Contains(t, out, "a.yaml")
	assert.Contains(t, out, "notes.txt")
}

func TestTree_AppliesFilter(t *testing.T) {
	p := path.New(fsSource())
	g, err := pathfilter.NewGlob("*.yaml")
	require.NoError(t, err)
	p.SetFilter(g)

	out := Tree{}.Render(p, 60, 20)
	assert.Contains(t, out, "a.yaml")
	assert.NotContains(t, out, "notes.txt")
}

func TestTree_BoundedByHeight(t *testing.T) {
	out := Tree{}.Render(path.New(dataSource()), 60, 2)
	assert.LessOrEqual(t, len(strings.Split(out, "\n")), 2)
}

func TestLeafLabelTruncatesLongValues(t *testing.T) {
	label := leafLabel("k", path.Info{Value: strings.Repeat("x", 100)})
	assert.LessOrEqual(t, len([]rune(label)), len("k: ")+treeMaxValueLen)
	assert.True(t, strings.HasSuffix(label, "…"))
}
