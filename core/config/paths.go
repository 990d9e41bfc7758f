package config

import (
	"os"
	"path/filepath"
)

const (
	appName        = "ndrift"
	configFileName = "config.yaml"
)

// UserConfigPath returns the per-user config file location. XDG_CONFIG_HOME
// takes precedence over the platform default.
func UserConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, configFileName)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, configFileName)
}

// ProjectConfigPath returns the project config file for projectRoot.
func ProjectConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, "."+appName, configFileName)
}

// DefaultPaths returns the user and project config files that exist, in
// merge order: user first, project last.
func DefaultPaths(projectRoot string) []string {
	var paths []string
	for _, p := range []string{UserConfigPath(), ProjectConfigPath(projectRoot)} {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			paths = append(paths, p)
		}
	}
	return paths
}
