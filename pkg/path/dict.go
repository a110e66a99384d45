package path

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DictSource exposes nested maps and slices as a hierarchy. Maps and slices
// are containers, every other value is a leaf. Slice elements are addressed by
// their decimal index.
type DictSource struct {
	root any
}

// NewDictSource wraps root, typically the output of the loader package.
func NewDictSource(root any) *DictSource {
	return &DictSource{root: root}
}

// Root returns the wrapped data.
func (d *DictSource) Root() any {
	return d.root
}

func (d *DictSource) resolve(segments []string) (any, error) {
	node := d.root
	for i, seg := range segments {
		switch n := node.(type) {
		case map[string]any:
			v, ok := n[seg]
			if !ok {
				return nil, fmt.Errorf("%s: %w", strings.Join(segments[:i+1], Separator), ErrNotFound)
			}
			node = v
		case map[any]any:
			v, ok := lookupAnyKey(n, seg)
			if !ok {
				return nil, fmt.Errorf("%s: %w", strings.Join(segments[:i+1], Separator), ErrNotFound)
			}
			node = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(n) {
				return nil, fmt.Errorf("%s: %w", strings.Join(segments[:i+1], Separator), ErrNotFound)
			}
			node = n[idx]
		default:
			return nil, fmt.Errorf("%s: %w", strings.Join(segments[:i+1], Separator), ErrNotFound)
		}
	}
	return node, nil
}

func lookupAnyKey(m map[any]any, seg string) (any, bool) {
	for k, v := range m {
		if fmt.Sprint(k) == seg {
			return v, true
		}
	}
	return nil, false
}

// Stat implements Source.
func (d *DictSource) Stat(segments []string) (Info, error) {
	node, err := d.resolve(segments)
	if err != nil {
		return Info{}, err
	}
	info := Info{Exists: true, Value: node}
	switch n := node.(type) {
	case map[string]any:
		info.Kind, info.Size = KindMap, int64(len(n))
	case map[any]any:
		info.Kind, info.Size = KindMap, int64(len(n))
	case []any:
		info.Kind, info.Size = KindList, int64(len(n))
	case string:
		info.Kind, info.Leaf, info.Size = KindString, true, int64(len(n))
	case bool:
		info.Kind, info.Leaf = KindBool, true
	case nil:
		info.Kind, info.Leaf = KindNull, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		info.Kind, info.Leaf = KindNumber, true
	default:
		info.Kind, info.Leaf = KindOther, true
	}
	if len(segments) == 0 {
		info.Kind = KindRoot
		info.Leaf = false
	}
	return info, nil
}

// Children implements Source. Map keys are sorted.
func (d *DictSource) Children(segments []string) ([]string, error) {
	node, err := d.resolve(segments)
	if err != nil {
		return nil, err
	}
	switch n := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys, nil
	case map[any]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, fmt.Sprint(k))
		}
		sort.Strings(keys)
		return keys, nil
	case []any:
		keys := make([]string, len(n))
		for i := range n {
			keys[i] = strconv.Itoa(i)
		}
		return keys, nil
	case nil:
		if len(segments) == 0 {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", strings.Join(segments, Separator), ErrNotContainer)
}

// Open implements Reader. Scalars are rendered as plain text and containers as
// YAML.
func (d *DictSource) Open(segments []string) (io.ReadCloser, error) {
	node, err := d.resolve(segments)
	if err != nil {
		return nil, err
	}
	var text string
	switch n := node.(type) {
	case map[string]any, map[any]any, []any:
		out, err := yaml.Marshal(n)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", strings.Join(segments, Separator), err)
		}
		text = string(out)
	case nil:
		text = "null"
	default:
		text = fmt.Sprint(n)
	}
	return io.NopCloser(strings.NewReader(text)), nil
}
