package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"
)

// copyToClipboardFn is swapped out by tests so nothing reaches the real
// clipboard.
var copyToClipboardFn = copyToClipboardImpl

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboardFn(text) }

// StubClipboard routes CopyToClipboard to fn and returns a restore function.
// A nil fn discards the text.
func StubClipboard(fn func(string) error) (restore func()) {
	orig := copyToClipboardFn
	if fn == nil {
		fn = func(string) error { return nil }
	}
	copyToClipboardFn = fn
	return func() { copyToClipboardFn = orig }
}

func clipboardCommand(ctx context.Context) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "pbcopy"), nil
	case "linux":
		// xclip, then xsel, then wl-copy (Wayland)
		for _, c := range [][]string{
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
			{"wl-copy"},
		} {
			if _, err := exec.LookPath(c[0]); err == nil {
				return exec.CommandContext(ctx, c[0], c[1:]...), nil
			}
		}
		return nil, fmt.Errorf("no clipboard command found (install xclip, xsel, or wl-clipboard)")
	case "windows":
		return exec.CommandContext(ctx, "clip"), nil
	}
	return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
}

func copyToClipboardImpl(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd, err := clipboardCommand(ctx)
	if err != nil {
		return err
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	_, _ = stdin.Write([]byte(text))
	_ = stdin.Close()
	return cmd.Wait()
}
