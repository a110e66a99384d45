package ui

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of the chooser.
type Config struct {
	App AppConfig `yaml:"app"`
	UI  UIConfig  `yaml:"ui"`
}

// AppConfig holds application metadata.
type AppConfig struct {
	About AboutConfig `yaml:"about"`
}

// AboutConfig describes the application in help output.
type AboutConfig struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme    ThemeSelection         `yaml:"theme"`
	Themes   map[string]ThemeConfig `yaml:"themes,omitempty"`
	Keys     KeyConfig              `yaml:"keys,omitempty"`
	Defaults Defaults               `yaml:"defaults"`
}

// ThemeSelection names the active theme.
type ThemeSelection struct {
	Default string `yaml:"default,omitempty"`
}

// Defaults are the initial chooser settings, overridable by CLI flags.
type Defaults struct {
	Preview     []string `yaml:"preview,omitempty"`
	DisplayMode string   `yaml:"display_mode,omitempty"`
	ShowHidden  *bool    `yaml:"show_hidden,omitempty"`
	MultiSelect *bool    `yaml:"multi_select,omitempty"`
}

// Display modes accepted in Defaults.DisplayMode.
const (
	DisplayModeList = "list"
	DisplayModeTree = "tree"
)

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	out.UI.Themes = maps.Clone(c.UI.Themes)
	out.UI.Keys = maps.Clone(c.UI.Keys)
	for k, v := range out.UI.Keys {
		out.UI.Keys[k] = slices.Clone(v)
	}
	out.UI.Defaults.Preview = slices.Clone(c.UI.Defaults.Preview)
	if c.UI.Defaults.ShowHidden != nil {
		v := *c.UI.Defaults.ShowHidden
		out.UI.Defaults.ShowHidden = &v
	}
	if c.UI.Defaults.MultiSelect != nil {
		v := *c.UI.Defaults.MultiSelect
		out.UI.Defaults.MultiSelect = &v
	}
	return out
}

// Merge returns base overlaid with every non-empty field of override.
// Themes and keys are merged per entry.
func Merge(base, override Config) Config {
	out := base.Clone()
	if v := strings.TrimSpace(override.App.About.Name); v != "" {
		out.App.About.Name = v
	}
	if v := strings.TrimSpace(override.App.About.Description); v != "" {
		out.App.About.Description = v
	}
	if v := strings.TrimSpace(override.UI.Theme.Default); v != "" {
		out.UI.Theme.Default = v
	}
	if len(override.UI.Themes) > 0 && out.UI.Themes == nil {
		out.UI.Themes = map[string]ThemeConfig{}
	}
	for name, th := range override.UI.Themes {
		out.UI.Themes[name] = mergeThemeConfig(out.UI.Themes[name], th)
	}
	if len(override.UI.Keys) > 0 && out.UI.Keys == nil {
		out.UI.Keys = KeyConfig{}
	}
	for action, keys := range override.UI.Keys {
		out.UI.Keys[action] = slices.Clone(keys)
	}
	d := override.UI.Defaults
	if len(d.Preview) > 0 {
		out.UI.Defaults.Preview = slices.Clone(d.Preview)
	}
	if d.DisplayMode != "" {
		out.UI.Defaults.DisplayMode = d.DisplayMode
	}
	if d.ShowHidden != nil {
		v := *d.ShowHidden
		out.UI.Defaults.ShowHidden = &v
	}
	if d.MultiSelect != nil {
		v := *d.MultiSelect
		out.UI.Defaults.MultiSelect = &v
	}
	return out
}

func mergeThemeConfig(base, override ThemeConfig) ThemeConfig {
	pick := func(b, o ColorValue) ColorValue {
		if o != "" {
			return o
		}
		return b
	}
	return ThemeConfig{
		Accent:        pick(base.Accent, override.Accent),
		Muted:         pick(base.Muted, override.Muted),
		Border:        pick(base.Border, override.Border),
		BorderFocused: pick(base.BorderFocused, override.BorderFocused),
		SelectedFG:    pick(base.SelectedFG, override.SelectedFG),
		SelectedBG:    pick(base.SelectedBG, override.SelectedBG),
		ContainerFG:   pick(base.ContainerFG, override.ContainerFG),
		LeafFG:        pick(base.LeafFG, override.LeafFG),
		ErrorFG:       pick(base.ErrorFG, override.ErrorFG),
		HeaderFG:      pick(base.HeaderFG, override.HeaderFG),
	}
}

// Validate reports configuration values that cannot be applied.
func (c Config) Validate() error {
	switch c.UI.Defaults.DisplayMode {
	case "", DisplayModeList, DisplayModeTree:
	default:
		return fmt.Errorf("ui.defaults.display_mode: unknown mode %q (want %s or %s)", c.UI.Defaults.DisplayMode, DisplayModeList, DisplayModeTree)
	}
	if name := c.UI.Theme.Default; name != "" {
		if _, ok := c.UI.Themes[name]; !ok {
			return fmt.Errorf("ui.theme.default: unknown theme %q", name)
		}
	}
	for action := range c.UI.Keys {
		if !slices.Contains(KeyActions(), action) {
			return fmt.Errorf("ui.keys: unknown action %q", action)
		}
	}
	return nil
}

// ResolveTheme returns the named theme, or the configured default when name
// is empty.
func (c Config) ResolveTheme(name string) (Theme, bool) {
	if name == "" {
		name = c.UI.Theme.Default
	}
	th, ok := c.UI.Themes[name]
	if !ok {
		return Theme{}, false
	}
	return ThemeFromConfig(th, fallbackTheme()), true
}

// LoadConfigFile reads a YAML config file and merges it over the embedded
// defaults. An empty name returns the defaults.
func LoadConfigFile(name string) (Config, error) {
	base, err := EmbeddedDefaultConfig()
	if err != nil {
		return Config{}, err
	}
	if name == "" {
		return base, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return Config{}, err
	}
	var user Config
	if err := yaml.Unmarshal(data, &user); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", name, err)
	}
	merged := Merge(base, user)
	if err := merged.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", name, err)
	}
	return merged, nil
}
