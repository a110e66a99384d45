package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Format
	}{
		{"json object", `{"a": 1}`, FormatJSON},
		{"json array", `[1, 2, 3]`, FormatJSON},
		{"json array of one string", `["x"]`, FormatJSON},
		{"nested json array", `[["a"]]`, FormatJSON},
		{"toml array table", "[[items]]\nname = \"a\"", FormatTOML},
		{"ndjson", "{\"a\":1}\n{\"a\":2}", FormatNDJSON},
		{"yaml", "a: 1\nb: two", FormatYAML},
		{"yaml list", "- a\n- b\n- c", FormatYAML},
		{"multi doc yaml", "a: 1\n---\nb: 2", FormatYAML},
		{"toml section", "[server]\nport = 8080", FormatTOML},
		{"toml key values", "name = \"x\"\nport = 1", FormatTOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.input))
		})
	}
}

func TestLoadFormats(t *testing.T) {
	root, err := Load([]byte(`{"usr": {"bin": ["a", "b"]}}`), FormatAuto)
	require.NoError(t, err)
	m := root.(map[string]any)
	assert.Equal(t, []any{"a", "b"}, m["usr"].(map[string]any)["bin"])

	root, err = Load([]byte("usr:\n  local:\n    bin: tool\n"), FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, "tool", root.(map[string]any)["usr"].(map[string]any)["local"].(map[string]any)["bin"])

	root, err = Load([]byte("[server]\nport = 8080\n"), FormatAuto)
	require.NoError(t, err)
	assert.EqualValues(t, 8080, root.(map[string]any)["server"].(map[string]any)["port"])
}

func TestLoadMultipleDocumentsBecomeList(t *testing.T) {
	root, err := Load([]byte("a: 1\n---\nb: 2\n---\n"), FormatAuto)
	require.NoError(t, err)
	docs, ok := root.([]any)
	require.True(t, ok)
	assert.Len(t, docs, 2)

	root, err = Load([]byte("{\"a\":1}\nplain line\n{\"a\":2}\n"), FormatNDJSON)
	require.NoError(t, err)
	docs = root.([]any)
	require.Len(t, docs, 3)
	assert.Equal(t, "plain line", docs[1])
}

func TestLoadErrors(t *testing.T) {
	_, err := Load([]byte("   \n"), FormatAuto)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Load([]byte(`{"a":`), FormatJSON)
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = Load([]byte("a: [1"), FormatYAML)
	assert.ErrorContains(t, err, "invalid YAML")

	_, err = Load([]byte("x"), Format("xml"))
	assert.ErrorContains(t, err, "unsupported format")
}

func TestLoadFileHonoursExtension(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "data.yaml")
	// Would sniff as TOML without the extension hint.
	require.NoError(t, os.WriteFile(name, []byte("key: \"a = b\"\n"), 0o600))

	root, err := LoadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "a = b", root.(map[string]any)["key"])

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadReader(t *testing.T) {
	root, err := LoadReader(strings.NewReader(`["x"]`))
	require.NoError(t, err)
	assert.Equal(t, []any{"x"}, root)
}

func TestFormatForFile(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForFile("a.JSON"))
	assert.Equal(t, FormatNDJSON, FormatForFile("a.jsonl"))
	assert.Equal(t, FormatYAML, FormatForFile("a.yml"))
	assert.Equal(t, FormatTOML, FormatForFile("a.toml"))
	assert.Equal(t, FormatAuto, FormatForFile("a.txt"))
	assert.True(t, IsDataFile("x.yaml"))
	assert.False(t, IsDataFile("x"))
}
