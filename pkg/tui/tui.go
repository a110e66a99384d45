// Package tui runs the path chooser as a Bubble Tea program.
package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/pathpick/internal/ui"
	"github.com/oakwood-commons/pathpick/internal/ui/chooser"
	"github.com/oakwood-commons/pathpick/pkg/path"
)

// ErrCancelled is returned by Choose when the user quits without choosing.
var ErrCancelled = errors.New("cancelled")

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

const defaultFallbackTermHeight = 24

// DetectTerminalSize returns the best-effort terminal width and height by probing
// stdout, stderr, and stdin, then falling back to the COLUMNS environment variable.
// If detection fails completely, returns (120, 24).
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return defaultFallbackTermWidth, defaultFallbackTermHeight
}

// build wires a chooser for p under a root model. Choosing a path finishes
// the root.
func build(p *path.Path, cfg Config) (*chooser.Widget, *ui.RootModel, error) {
	opts, keys, styles, err := cfg.options()
	if err != nil {
		return nil, nil, err
	}
	w, err := chooser.New(p, opts...)
	if err != nil {
		return nil, nil, err
	}
	root := ui.NewRootModel(w, keys, styles)
	w.PathSelected().Connect(func(*chooser.Widget) { root.Finish() })
	return w, root, nil
}

// Choose runs the chooser on p until the user picks a path or cancels. It
// returns the chosen paths, or ErrCancelled.
func Choose(p *path.Path, cfg Config, opts ...tea.ProgramOption) ([]*path.Path, error) {
	w, root, err := build(p, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		root.Update(tea.WindowSizeMsg{Width: cfg.Width, Height: cfg.Height})
	}
	if len(cfg.StartKeys) > 0 {
		ui.ApplyStartupKeys(root, cfg.StartKeys)
	}
	if !root.Finished() && !root.Cancelled() {
		if _, err := tea.NewProgram(root, opts...).Run(); err != nil {
			return nil, fmt.Errorf("run chooser: %w", err)
		}
	}
	if root.Cancelled() || !root.Finished() {
		return nil, ErrCancelled
	}
	return w.SelectedPaths(), nil
}

// Snapshot replays cfg.StartKeys and renders a single frame without a
// terminal. Width and height fall back to the detected terminal size.
func Snapshot(p *path.Path, cfg Config) (string, error) {
	_, root, err := build(p, cfg)
	if err != nil {
		return "", err
	}
	width, height := cfg.Width, cfg.Height
	if width <= 0 || height <= 0 {
		tw, th := DetectTerminalSize()
		if width <= 0 {
			width = tw
		}
		if height <= 0 {
			height = th
		}
		if height <= 0 {
			height = defaultFallbackTermHeight
		}
	}
	root.Init()
	root.Update(tea.WindowSizeMsg{Width: width, Height: height})
	ui.ApplyStartupKeys(root, cfg.StartKeys)
	return root.Render(), nil
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
