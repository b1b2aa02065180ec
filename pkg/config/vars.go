package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "anu"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/anu by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/anu by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/anu/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// DefaultDataDir returns the data directory used when data.dir is not set.
// Returns ~/.local/share/anu/data by default.
func DefaultDataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "data")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/anu/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// DatasetsFilePath returns the full path to the datasets.yaml file.
// Returns ~/.config/anu/datasets.yaml by default.
func DatasetsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "datasets.yaml")
}
