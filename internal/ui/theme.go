package ui

import (
	"image/color"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
)

// Theme holds the colors used across the chooser.
type Theme struct {
	Accent        color.Color // Buttons and active tab
	Muted         color.Color // Hints, separators, disabled text
	Border        color.Color // Pane borders
	BorderFocused color.Color // Border of the focused pane
	SelectedFG    color.Color // Selected listing row foreground
	SelectedBG    color.Color // Selected listing row background
	ContainerFG   color.Color // Container entries in the listing
	LeafFG        color.Color // Leaf entries in the listing
	ErrorFG       color.Color // Inline errors
	HeaderFG      color.Color // Table header and pane titles
}

// ColorValue is a color as written in config files: an ANSI index ("12") or a
// hex value ("#ff8800").
type ColorValue string

// ThemeConfig is the YAML form of a Theme. Empty fields keep the base color.
type ThemeConfig struct {
	Accent        ColorValue `yaml:"accent,omitempty"`
	Muted         ColorValue `yaml:"muted,omitempty"`
	Border        ColorValue `yaml:"border,omitempty"`
	BorderFocused ColorValue `yaml:"border_focused,omitempty"`
	SelectedFG    ColorValue `yaml:"selected_fg,omitempty"`
	SelectedBG    ColorValue `yaml:"selected_bg,omitempty"`
	ContainerFG   ColorValue `yaml:"container_fg,omitempty"`
	LeafFG        ColorValue `yaml:"leaf_fg,omitempty"`
	ErrorFG       ColorValue `yaml:"error_fg,omitempty"`
	HeaderFG      ColorValue `yaml:"header_fg,omitempty"`
}

// fallbackTheme is used when the embedded config cannot supply one.
func fallbackTheme() Theme {
	return Theme{
		Accent:        lipgloss.Color("12"),
		Muted:         lipgloss.Color("240"),
		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("12"),
		SelectedFG:    lipgloss.Color("230"),
		SelectedBG:    lipgloss.Color("62"),
		ContainerFG:   lipgloss.Color("39"),
		LeafFG:        lipgloss.Color("252"),
		ErrorFG:       lipgloss.Color("9"),
		HeaderFG:      lipgloss.Color("11"),
	}
}

// ThemeFromConfig overlays cfg on base.
func ThemeFromConfig(cfg ThemeConfig, base Theme) Theme {
	th := base
	set := func(val ColorValue, dst *color.Color) {
		if v := strings.TrimSpace(string(val)); v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(cfg.Accent, &th.Accent)
	set(cfg.Muted, &th.Muted)
	set(cfg.Border, &th.Border)
	set(cfg.BorderFocused, &th.BorderFocused)
	set(cfg.SelectedFG, &th.SelectedFG)
	set(cfg.SelectedBG, &th.SelectedBG)
	set(cfg.ContainerFG, &th.ContainerFG)
	set(cfg.LeafFG, &th.LeafFG)
	set(cfg.ErrorFG, &th.ErrorFG)
	set(cfg.HeaderFG, &th.HeaderFG)
	return th
}

// DefaultTheme returns the default theme of the embedded configuration.
func DefaultTheme() Theme {
	cfg, err := EmbeddedDefaultConfig()
	if err != nil {
		return fallbackTheme()
	}
	th, ok := cfg.ResolveTheme("")
	if !ok {
		return fallbackTheme()
	}
	return th
}

// ThemeNames lists the themes defined in cfg.
func ThemeNames(cfg Config) []string {
	names := make([]string, 0, len(cfg.UI.Themes))
	for name := range cfg.UI.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	NoColor bool

	Button      lipgloss.Style
	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	Title       lipgloss.Style
	Container   lipgloss.Style
	Leaf        lipgloss.Style
	Selected    lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
	HeaderFG    color.Color
	SelectedFG  color.Color
	SelectedBG  color.Color
}

// NewStyles builds styles for th. With noColor every color is dropped and
// selection falls back to reverse video.
func NewStyles(th Theme, noColor bool) Styles {
	s := Styles{
		NoColor:     noColor,
		Button:      lipgloss.NewStyle().Bold(true),
		Pane:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()),
		PaneFocused: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()),
		Title:       lipgloss.NewStyle().Bold(true),
		Container:   lipgloss.NewStyle().Bold(true),
		Leaf:        lipgloss.NewStyle(),
		Selected:    lipgloss.NewStyle().Reverse(true),
		Muted:       lipgloss.NewStyle().Faint(true),
		Error:       lipgloss.NewStyle().Bold(true),
		Tab:         lipgloss.NewStyle().Padding(0, 1),
		TabActive:   lipgloss.NewStyle().Padding(0, 1).Underline(true).Bold(true),
	}
	if noColor {
		s.PaneFocused = s.PaneFocused.BorderStyle(lipgloss.ThickBorder())
		return s
	}
	s.Button = s.Button.Foreground(th.Accent)
	s.Pane = s.Pane.BorderForeground(th.Border)
	s.PaneFocused = s.PaneFocused.BorderForeground(th.BorderFocused)
	s.Title = s.Title.Foreground(th.HeaderFG)
	s.Container = s.Container.Foreground(th.ContainerFG)
	s.Leaf = s.Leaf.Foreground(th.LeafFG)
	s.Selected = lipgloss.NewStyle().Foreground(th.SelectedFG).Background(th.SelectedBG)
	s.Muted = lipgloss.NewStyle().Foreground(th.Muted)
	s.Error = s.Error.Foreground(th.ErrorFG)
	s.TabActive = s.TabActive.Foreground(th.Accent)
	s.HeaderFG = th.HeaderFG
	s.SelectedFG = th.SelectedFG
	s.SelectedBG = th.SelectedBG
	return s
}

// DefaultStyles returns colored styles for the default theme.
func DefaultStyles() Styles {
	return NewStyles(DefaultTheme(), false)
}
