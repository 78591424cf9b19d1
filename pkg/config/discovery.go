package config

import (
	"os"
	"path/filepath"
)

// ConfigFileNames are the file names searched for an implicit configuration,
// in priority order.
var ConfigFileNames = []string{".squallrc", ".squallrc.yaml", "squall.yaml"}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// configIn returns the config file in dir, or "".
func configIn(dir string) string {
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// Discover finds an implicit configuration file: in startDir, then in its
// ancestors, then in homeDir. It returns "" when there is none.
func Discover(startDir, homeDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if path := configIn(dir); path != "" {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	if homeDir != "" {
		return configIn(homeDir)
	}
	return ""
}

// SidecarPath returns the per-file override path for a SQL file.
func SidecarPath(path string) string {
	return path + ".squall.yaml"
}
