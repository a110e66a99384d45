package path

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// FSSource exposes an fs.FS. Directories are containers and every other entry
// is a leaf.
type FSSource struct {
	fsys fs.FS
	// ShowHidden includes entries whose name starts with a dot.
	ShowHidden bool
}

// NewFSSource wraps fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

func fsName(segments []string) string {
	if len(segments) == 0 {
		return "."
	}
	return strings.Join(segments, "/")
}

func wrapFSError(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", name, err)
}

// Stat implements Source.
func (s *FSSource) Stat(segments []string) (Info, error) {
	name := fsName(segments)
	if !fs.ValidPath(name) {
		return Info{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	fi, err := fs.Stat(s.fsys, name)
	if err != nil {
		return Info{}, wrapFSError(name, err)
	}
	info := Info{
		Exists:  true,
		Leaf:    !fi.IsDir(),
		Kind:    KindFile,
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}
	if fi.IsDir() {
		info.Kind = KindDir
	}
	if len(segments) == 0 {
		info.Kind = KindRoot
	}
	return info, nil
}

// Children implements Source. Entries are returned in directory order, which
// fs.ReadDir sorts by name.
func (s *FSSource) Children(segments []string) ([]string, error) {
	name := fsName(segments)
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	entries, err := fs.ReadDir(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, wrapFSError(name, err)
		}
		if fi, statErr := fs.Stat(s.fsys, name); statErr == nil && !fi.IsDir() {
			return nil, fmt.Errorf("%s: %w", name, ErrNotContainer)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !s.ShowHidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Open implements Reader.
func (s *FSSource) Open(segments []string) (io.ReadCloser, error) {
	name := fsName(segments)
	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, wrapFSError(name, err)
	}
	return f, nil
}
