package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "flasky"
)

const (
	// EnvConfig selects the configuration profile.
	EnvConfig = "FLASK_CONFIG"

	// EnvCoverage is truthy when the process runs under coverage.
	EnvCoverage = "FLASK_COVERAGE"

	// EnvPrefix is the prefix of persistent configuration variables.
	EnvPrefix = "FLASKY"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/flasky by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/flasky/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/flasky/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}
