package tui

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/pathpick/internal/ui"
	"github.com/oakwood-commons/pathpick/internal/ui/chooser"
	"github.com/oakwood-commons/pathpick/internal/ui/listing"
)

// Config holds host-provided settings for running the chooser.
type Config struct {
	// Settings is the merged YAML configuration. The zero value means the
	// embedded defaults.
	Settings ui.Config

	ThemeName    string // theme from Settings; empty picks ui.theme.default
	NoColor      bool
	PreviewTypes []string // nil uses ui.defaults.preview
	MultiSelect  bool
	DisplayMode  string // "list" or "tree"

	// Width and Height size Snapshot output. Zero detects the terminal.
	Width  int
	Height int

	// StartKeys are replayed before the first frame, e.g. "<Down>", "<C-t>".
	StartKeys []string

	Logger logr.Logger
}

// DefaultConfig returns the configuration the CLI starts from.
func DefaultConfig() Config {
	cfg := Config{}
	embedded, err := ui.EmbeddedDefaultConfig()
	if err != nil {
		return cfg
	}
	return ConfigFromSettings(embedded)
}

// ConfigFromSettings fills the chooser defaults from a merged YAML config.
func ConfigFromSettings(settings ui.Config) Config {
	d := settings.UI.Defaults
	cfg := Config{
		Settings:     settings,
		PreviewTypes: append([]string(nil), d.Preview...),
		DisplayMode:  d.DisplayMode,
	}
	if d.MultiSelect != nil {
		cfg.MultiSelect = *d.MultiSelect
	}
	return cfg
}

func (cfg Config) settings() (ui.Config, error) {
	if len(cfg.Settings.UI.Themes) > 0 {
		return cfg.Settings, nil
	}
	return ui.EmbeddedDefaultConfig()
}

// options turns cfg into chooser options plus the key map and styles the
// root model needs.
func (cfg Config) options() ([]chooser.Option, ui.KeyMap, ui.Styles, error) {
	settings, err := cfg.settings()
	if err != nil {
		return nil, ui.KeyMap{}, ui.Styles{}, err
	}
	theme, ok := settings.ResolveTheme(strings.TrimSpace(cfg.ThemeName))
	if !ok {
		return nil, ui.KeyMap{}, ui.Styles{}, fmt.Errorf("unknown theme %q (available: %s)",
			cfg.ThemeName, strings.Join(ui.ThemeNames(settings), ", "))
	}
	mode, err := listing.ParseDisplayMode(cfg.DisplayMode)
	if err != nil {
		return nil, ui.KeyMap{}, ui.Styles{}, err
	}
	keys := ui.KeyMapFromConfig(settings.UI.Keys)
	opts := []chooser.Option{
		chooser.WithPreviewTypes(cfg.PreviewTypes...),
		chooser.WithMultipleSelection(cfg.MultiSelect),
		chooser.WithDisplayMode(mode),
		chooser.WithTheme(theme),
		chooser.WithNoColor(cfg.NoColor),
		chooser.WithKeyMap(keys),
		chooser.WithLogger(cfg.Logger),
	}
	return opts, keys, ui.NewStyles(theme, cfg.NoColor), nil
}
