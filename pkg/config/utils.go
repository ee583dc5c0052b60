package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// moduleMarker ends the upward search for env files.
const moduleMarker = "go.mod"

// FindEnvFile resolves name (".env" when empty) to an existing file. Absolute
// paths are checked as given. Relative names are looked up from the working
// directory upward, stopping at the module root so that a file above the
// checkout is never picked up.
func FindEnvFile(name string) (string, error) {
	if name == "" {
		name = ".env"
	}
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", err
		}
		return name, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		if _, err := os.Stat(filepath.Join(dir, moduleMarker)); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("env file %s: %w", name, fs.ErrNotExist)
}

// maskValue keeps just enough of a secret to recognise it in logs.
func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
