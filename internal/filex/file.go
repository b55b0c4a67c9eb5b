// Package filex holds filesystem helpers for locating and preparing the
// client's on-disk state.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) when missing and returns its absolute
// path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// EnsureParentDir makes sure the directory holding path exists.
func EnsureParentDir(path string) error {
	_, err := EnsureDir(filepath.Dir(path))
	return err
}

// DataDir is the per-user directory for app's files, falling back to a
// dot-directory in the working directory when the OS has no config dir.
func DataDir(app string) string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "." + app
	}
	return filepath.Join(base, app)
}
