package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafeName is returned for output subfolder names that are not a
// single plain path segment.
var ErrUnsafeName = errors.New("unsafe output folder name")

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// OutputDir joins root with the optional subfolder name. An empty name
// means root itself.
func OutputDir(root, name string) (string, error) {
	if name == "" {
		return root, nil
	}
	if err := CheckName(name); err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

// CheckName accepts only a single path segment with no separators.
func CheckName(name string) error {
	switch {
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrUnsafeName, name)
	case filepath.IsAbs(name), filepath.VolumeName(name) != "":
		return fmt.Errorf("%w: %q is absolute", ErrUnsafeName, name)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, os.PathSeparator):
		return fmt.Errorf("%w: %q contains a path separator", ErrUnsafeName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains NUL", ErrUnsafeName, name)
	}
	return nil
}

// WriteFile creates the parent directory of path and writes data,
// replacing any existing file.
func WriteFile(path string, data []byte) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
