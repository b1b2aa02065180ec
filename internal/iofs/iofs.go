// Package iofs creates application directories and files and provides
// crash-safe file writes.
package iofs

import (
	_ "embed"
	"os"

	"github.com/gnames/anu/pkg/config"
)

//go:embed config.yaml
var ConfigYAML string

//go:embed datasets.yaml
var DatasetsYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := TouchDir(v); err != nil {
			return err
		}
	}
	return nil
}

// TouchDir creates a directory with all its parents if it does not exist.
func TouchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	return ensureFile(config.ConfigFilePath(homeDir), ConfigYAML)
}

func EnsureDatasetsFile(homeDir string) error {
	return ensureFile(config.DatasetsFilePath(homeDir), DatasetsYAML)
}

func ensureFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return CopyFileError(path, err)
	}

	return nil
}

// Exists checks if a file or directory exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
