package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DotEnvPaths are tried in order; the first file found is loaded.
var DotEnvPaths = []string{".env", ".env.local"}

// LoadDotEnv loads the first existing file of paths into the process
// environment without overriding variables that are already set. It returns
// the loaded path, or "" when none exists.
func LoadDotEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = DotEnvPaths
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("load %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}
