package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates the directory (and parents) if it does not exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// IsEmptyDir reports whether path is an existing directory with no entries
func IsEmptyDir(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}
