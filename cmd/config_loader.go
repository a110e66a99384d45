package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/pathpick/internal/ui"
	"github.com/oakwood-commons/pathpick/pkg/settings"
)

// resolveConfigPath returns the explicit file if set, otherwise
// $XDG_CONFIG_HOME/pathpick/config.yaml or ~/.config/pathpick/config.yaml
// when one exists.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// loadConfig merges the resolved user file over the embedded defaults.
func loadConfig(explicit string) (ui.Config, error) {
	cfg, err := ui.LoadConfigFile(resolveConfigPath(explicit))
	if err != nil {
		return ui.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// configYAML renders cfg the way `pathpick config` prints it.
func configYAML(cfg ui.Config, source string) ([]byte, error) {
	var buf bytes.Buffer
	if source == "" {
		source = "embedded defaults"
	}
	fmt.Fprintf(&buf, "# %s configuration (%s)\n", settings.CliBinaryName, source)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
