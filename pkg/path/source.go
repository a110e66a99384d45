package path

import (
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by sources for segments that address nothing.
var ErrNotFound = errors.New("path not found")

// ErrNotContainer is returned when children are requested from a leaf.
var ErrNotContainer = errors.New("path is not a container")

// Item kinds reported in Info.Kind.
const (
	KindRoot   = "root"
	KindDir    = "dir"
	KindFile   = "file"
	KindMap    = "map"
	KindList   = "list"
	KindString = "string"
	KindNumber = "number"
	KindBool   = "bool"
	KindNull   = "null"
	KindOther  = "other"
)

// Info describes one item of a Source.
type Info struct {
	Exists  bool
	Leaf    bool
	Kind    string
	Size    int64
	ModTime time.Time
	// Value holds the underlying node for data sources.
	Value any
}

// Source resolves segments to items. Implementations return ErrNotFound for
// unknown items.
type Source interface {
	Stat(segments []string) (Info, error)
	Children(segments []string) ([]string, error)
}

// Reader is implemented by sources that can stream an item's contents.
type Reader interface {
	Open(segments []string) (io.ReadCloser, error)
}

type emptySource struct{}

// EmptySource returns a source that only contains the root.
func EmptySource() Source {
	return emptySource{}
}

func (emptySource) Stat(segments []string) (Info, error) {
	if len(segments) == 0 {
		return Info{Exists: true, Kind: KindRoot}, nil
	}
	return Info{}, ErrNotFound
}

func (emptySource) Children(segments []string) ([]string, error) {
	if len(segments) == 0 {
		return nil, nil
	}
	return nil, ErrNotFound
}
