package ui

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain keeps every test in the package away from the real clipboard.
func TestMain(m *testing.M) {
	restore := StubClipboard(nil)
	code := m.Run()
	restore()
	os.Exit(code)
}

func TestStubClipboard(t *testing.T) {
	var got string
	restore := StubClipboard(func(s string) error {
		got = s
		return nil
	})
	require.NoError(t, CopyToClipboard("usr/local/bin"))
	assert.Equal(t, "usr/local/bin", got)

	restoreErr := StubClipboard(func(string) error { return errors.New("no clipboard") })
	assert.EqualError(t, CopyToClipboard("x"), "no clipboard")
	restoreErr()
	restore()

	got = ""
	require.NoError(t, CopyToClipboard("ignored"))
	assert.Empty(t, got)
}
