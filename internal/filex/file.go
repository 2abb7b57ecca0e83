// Package filex contains filesystem helpers.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a relative path would escape its root.
var ErrOutsideRoot = errors.New("path escapes root directory")

// Within joins rel onto root and verifies that the result stays inside
// root. Absolute rel values are treated as relative to root.
func Within(root, rel string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", root, err)
	}

	full := filepath.Join(absRoot, filepath.Clean(string(filepath.Separator)+rel))

	r, err := filepath.Rel(absRoot, full)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return full, nil
}

// EnsureDir creates sub (and parents) under root and returns its absolute path.
func EnsureDir(root, sub string) (string, error) {
	dir, err := Within(root, sub)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
