package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/santiagomed/llmutil/pkg/logger"
)

const dotEnvName = ".env"

// FindDotEnv walks up from dir looking for a .env file. It returns "" when
// none exists between dir and the filesystem root.
func FindDotEnv(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, dotEnvName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadDotEnv loads the nearest .env above the working directory into the
// process environment. Variables that are already set win. A missing file is
// not an error.
func LoadDotEnv(l logger.Logger) error {
	l = logger.OrNull(l)

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("error resolving working directory: %w", err)
	}
	path, err := FindDotEnv(wd)
	if err != nil {
		return fmt.Errorf("error looking for %s: %w", dotEnvName, err)
	}
	if path == "" {
		l.Debug("no .env file found")
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	l.WithField("path", path).Debug("loaded .env file")
	return nil
}
