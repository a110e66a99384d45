package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oakwood-commons/pathpick/pkg/loader"
	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/pathfilter"
)

// source is what the chooser browses, plus how chosen paths are printed.
type source struct {
	src   path.Source
	start []string
	// dir is the directory an FS source is rooted at; empty for data.
	dir string
}

// openSource resolves the SOURCE argument: a directory, a data file, any
// other file (browsed from its directory), or "-" for data on stdin.
func openSource(arg string, stdin io.Reader, showHidden bool) (*source, error) {
	if arg == "" {
		arg = "."
	}
	if arg == "-" {
		data, err := loader.LoadReader(stdin)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return &source{src: path.NewDictSource(data)}, nil
	}

	st, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return nil, err
	}
	switch {
	case st.IsDir():
		return &source{src: dirSource(abs, showHidden), dir: abs}, nil
	case loader.IsDataFile(arg):
		data, err := loader.LoadFile(arg)
		if err != nil {
			return nil, err
		}
		return &source{src: path.NewDictSource(data)}, nil
	}
	dir := filepath.Dir(abs)
	return &source{
		src:   dirSource(dir, showHidden),
		dir:   dir,
		start: []string{filepath.Base(abs)},
	}, nil
}

func dirSource(dir string, showHidden bool) *path.FSSource {
	s := path.NewFSSource(os.DirFS(dir))
	s.ShowHidden = showHidden
	return s
}

// startPath builds the initial path. An explicit start overrides the one
// derived from SOURCE; for directories it may also be an OS path below dir.
func (s *source) startPath(start string) *path.Path {
	segments := s.start
	if start = strings.TrimSpace(start); start != "" {
		if s.dir != "" && filepath.IsAbs(start) {
			if rel, err := filepath.Rel(s.dir, start); err == nil && !strings.HasPrefix(rel, "..") {
				start = filepath.ToSlash(rel)
			}
		}
		segments = path.Split(start)
	}
	return path.New(s.src, segments...)
}

// format renders p for output: an OS path for directories, the in-document
// path otherwise.
func (s *source) format(p *path.Path) string {
	if s.dir == "" {
		return p.String()
	}
	return filepath.Join(append([]string{s.dir}, p.Segments()...)...)
}

// buildFilter combines the --filter expression and --glob patterns. It
// returns nil when neither is set.
func buildFilter(expr string, globs []string) (path.Filter, error) {
	var filters []path.Filter
	if strings.TrimSpace(expr) != "" {
		e, err := pathfilter.NewExpression(expr)
		if err != nil {
			return nil, fmt.Errorf("--filter: %w", err)
		}
		filters = append(filters, e)
	}
	var patterns []string
	for _, g := range globs {
		patterns = append(patterns, pathfilter.ParsePatterns(g)...)
	}
	if len(patterns) > 0 {
		g, err := pathfilter.NewGlob(patterns...)
		if err != nil {
			return nil, fmt.Errorf("--glob: %w", err)
		}
		filters = append(filters, g)
	}
	switch len(filters) {
	case 0:
		return nil, nil
	case 1:
		return filters[0], nil
	}
	return pathfilter.NewCompound(filters...), nil
}
