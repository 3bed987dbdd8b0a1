// Package filex resolves and creates the directories the client keeps its
// local database in.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDataDir returns <user config dir>/otpkeeper, or ".otpkeeper" in
// the working directory when the user config dir cannot be determined.
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return ".otpkeeper"
	}
	return filepath.Join(base, "otpkeeper")
}

// EnsureDir creates dir (and parents) with owner-only permissions and
// returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}
