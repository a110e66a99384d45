// Package preview renders details of the item a path addresses.
package preview

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/pathpick/pkg/path"
)

// Preview renders one aspect of an item.
type Preview interface {
	// Name is the type name used in configuration and as tab label.
	Name() string
	// Accepts reports whether the preview has something to show for p.
	Accepts(p *path.Path) bool
	// Render draws p into a width x height box.
	Render(p *path.Path, width, height int) string
}

// Built-in preview types.
const (
	TypeInfo = "info"
	TypeData = "data"
	TypeText = "text"
)

// maxTextBytes caps how much of a file the text preview reads.
const maxTextBytes = 64 << 10

var registry = map[string]func() Preview{
	TypeInfo: func() Preview { return Info{} },
	TypeData: func() Preview { return Data{} },
	TypeText: func() Preview { return Text{} },
}

// Register adds or replaces a preview type.
func Register(name string, ctor func() Preview) {
	registry[name] = ctor
}

// Types lists the registered preview types.
func Types() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Create returns a new preview of the named type.
func Create(name string) (Preview, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown preview type %q (known: %s)", name, strings.Join(Types(), ", "))
	}
	return ctor(), nil
}

// Info shows what the source reports about an item.
type Info struct{}

func (Info) Name() string { return TypeInfo }

func (Info) Accepts(p *path.Path) bool { return p.Exists() }

func (Info) Render(p *path.Path, width, height int) string {
	info := p.Info()
	name := p.Name()
	if name == "" {
		name = path.Separator
	}
	lines := []string{
		"name  " + name,
		"path  " + p.String(),
		"kind  " + info.Kind,
	}
	if info.Leaf {
		lines = append(lines, "type  leaf")
	} else {
		lines = append(lines, "type  container")
	}
	if info.Size > 0 {
		lines = append(lines, fmt.Sprintf("size  %d", info.Size))
	}
	if !info.ModTime.IsZero() {
		lines = append(lines, "mod   "+info.ModTime.Format("2006-01-02 15:04:05"))
	}
	return clip(lines, width, height)
}

// Data shows the value below a data path as YAML.
type Data struct{}

func (Data) Name() string { return TypeData }

func (Data) Accepts(p *path.Path) bool {
	info := p.Info()
	return info.Exists && info.Value != nil
}

func (Data) Render(p *path.Path, width, height int) string {
	out, err := yaml.Marshal(p.Info().Value)
	if err != nil {
		return clip([]string{"error: " + err.Error()}, width, height)
	}
	return clip(strings.Split(strings.TrimRight(string(out), "\n"), "\n"), width, height)
}

// Text shows the first lines of a leaf's contents.
type Text struct{}

func (Text) Name() string { return TypeText }

func (Text) Accepts(p *path.Path) bool {
	_, ok := p.Source().(path.Reader)
	return ok && p.IsLeaf()
}

func (Text) Render(p *path.Path, width, height int) string {
	r := p.Source().(path.Reader)
	rc, err := r.Open(p.Segments())
	if err != nil {
		return clip([]string{"error: " + err.Error()}, width, height)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxTextBytes))
	if err != nil {
		return clip([]string{"error: " + err.Error()}, width, height)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return clip([]string{fmt.Sprintf("(binary, %d bytes shown)", len(data))}, width, height)
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), maxTextBytes)
	for sc.Scan() && len(lines) < max(height, 1) {
		lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
	}
	return clip(lines, width, height)
}

// clip truncates lines to width cells and keeps at most height lines.
func clip(lines []string, width, height int) string {
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = runewidth.Truncate(l, max(width, 1), "…")
	}
	return strings.Join(out, "\n")
}
