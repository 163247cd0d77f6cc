// Package filex holds small filesystem helpers shared by the server and the
// client.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir with perm if it does not exist and returns its
// absolute path. Relative paths are resolved against the working directory.
func EnsureDir(dir string, perm os.FileMode) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, perm); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
