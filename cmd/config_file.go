package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reviewdash/config"
)

const defaultConfigName = ".reviewdash.yaml"

// resolveConfigPath picks the file config commands operate on: the
// --configFile flag, then the file viper loaded, then $HOME/.reviewdash.yaml.
func resolveConfigPath(configFileFlag, configFileUsed string) (string, error) {
	if path := strings.TrimSpace(configFileFlag); path != "" {
		return path, nil
	}
	if path := strings.TrimSpace(configFileUsed); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, defaultConfigName), nil
}

// writeConfigTemplate writes the example configuration to path. An existing
// file is left alone unless overwrite is set; the bool reports a write.
func writeConfigTemplate(path string, overwrite bool) (bool, error) {
	if !overwrite {
		_, err := os.Stat(path)
		if err == nil {
			return false, nil
		}
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("checking config file failed: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("writing example config failed: %w", err)
	}
	return true, nil
}
