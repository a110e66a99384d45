package preview

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/pathpick/pkg/path"
)

// TypeTree names the subtree preview.
const TypeTree = "tree"

const (
	treeMaxDepth = 3
	// treeMaxValueLen bounds scalar values shown next to data leaves.
	treeMaxValueLen = 40
)

func init() {
	Register(TypeTree, func() Preview { return Tree{} })
}

// Tree draws the items below a container as an ASCII tree, a few levels
// deep. The container's filter applies at every level.
type Tree struct{}

func (Tree) Name() string { return TypeTree }

func (Tree) Accepts(p *path.Path) bool { return p.Exists() && !p.IsLeaf() }

func (Tree) Render(p *path.Path, width, height int) string {
	name := p.Name()
	if name == "" {
		name = path.Separator
	} else {
		name += path.Separator
	}
	tree := treeprint.NewWithRoot(name)
	budget := max(height, 1)
	if err := buildTree(tree, p, p.Filter(), 0, &budget); err != nil {
		tree.AddNode("error: " + err.Error())
	}
	return clip(strings.Split(strings.TrimRight(tree.String(), "\n"), "\n"), width, height)
}

// buildTree adds the children of p to branch. budget counts the nodes still
// worth adding; a preview never shows more lines than its height.
func buildTree(branch treeprint.Tree, p *path.Path, f path.Filter, depth int, budget *int) error {
	if depth >= treeMaxDepth {
		branch.AddNode("…")
		return nil
	}
	names, err := p.Source().Children(p.Segments())
	if err != nil {
		return err
	}
	for _, n := range names {
		if *budget <= 0 {
			branch.AddNode("…")
			return nil
		}
		child := p.Child(n)
		if f != nil && !f.Accept(child) {
			continue
		}
		*budget--
		if !child.IsLeaf() {
			sub := branch.AddBranch(n + path.Separator)
			if err := buildTree(sub, child, f, depth+1, budget); err != nil {
				sub.AddNode("error: " + err.Error())
			}
			continue
		}
		branch.AddNode(leafLabel(n, child.Info()))
	}
	return nil
}

// leafLabel shows scalar data values inline, like "port: 8080".
func leafLabel(name string, info path.Info) string {
	switch v := info.Value.(type) {
	case nil:
		return name
	case string:
		return name + ": " + truncateValue(fmt.Sprintf("%q", v))
	case map[string]any, []any:
		return name
	default:
		return name + ": " + truncateValue(fmt.Sprint(v))
	}
}

func truncateValue(s string) string {
	if r := []rune(s); len(r) > treeMaxValueLen {
		return string(r[:treeMaxValueLen-1]) + "…"
	}
	return s
}
