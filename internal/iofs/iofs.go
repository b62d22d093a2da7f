// Package iofs prepares the file system for flasky: application
// directories, the default config.yaml and the optional .env file.
package iofs

import (
	_ "embed"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gnames/flasky/pkg/config"
	"github.com/joho/godotenv"
)

//go:embed config.yaml
var ConfigYAML string

// DotEnvFile is the name of the optional environment file.
const DotEnvFile = ".env"

// LoadDotEnv reads key=value pairs from dir/.env into the process
// environment. Variables that are already set keep their values.
// It returns false if there is no .env file.
func LoadDotEnv(dir string) (bool, error) {
	path := filepath.Join(dir, DotEnvFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, DotEnvError(path, err)
	}
	return true, nil
}

// PrepareHome creates config and log directories of flasky under
// homeDir and writes the default config.yaml unless it exists.
// It returns paths that did not exist before the call.
func PrepareHome(homeDir string) ([]string, error) {
	var res []string
	dirs := []string{
		config.ConfigDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		created, err := ensureDir(v)
		if err != nil {
			return res, err
		}
		if created {
			res = append(res, v)
		}
	}

	path := config.ConfigFilePath(homeDir)
	created, err := ensureFile(path, ConfigYAML)
	if err != nil {
		return res, err
	}
	if created {
		res = append(res, path)
	}
	return res, nil
}

func ensureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return false, nil
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return false, CreateDirError(dir, err)
	}
	return true, nil
}

// ensureFile never overwrites an existing file.
func ensureFile(path, content string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, WriteFileError(path, err)
	}
	return true, writeAndClose(f, path, content)
}

// writeAndClose reports a failed Close, it may be the first sign of
// unwritten data.
func writeAndClose(f io.WriteCloser, path, content string) error {
	_, err := io.WriteString(f, content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return WriteFileError(path, err)
	}
	return nil
}
