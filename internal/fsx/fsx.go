// Package fsx wraps the filesystem capabilities the conversion engine
// consumes: reading, existence checks, glob resolution and (for the CLI)
// writing with parent-directory creation. All access goes through an
// injected afero.Fs so tests can run against an in-memory filesystem.
package fsx

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// ErrNotFound reports that a requested file does not exist. Callers can
// distinguish it from other read failures with errors.Is.
var ErrNotFound = errors.New("file not found")

// ReadFile returns the content of path as a string.
func ReadFile(fsys afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", err
	}
	return string(data), nil
}

// Exists reports whether path exists on fsys.
func Exists(fsys afero.Fs, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(fsys afero.Fs, path string, content string) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %q: %w", dir, err)
	}
	return afero.WriteFile(fsys, path, []byte(content), 0o644)
}

// Remove deletes path. Missing files are not an error.
func Remove(fsys afero.Fs, path string) error {
	err := fsys.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Glob resolves a doublestar pattern relative to dir and returns the
// matching file paths joined back onto dir, sorted. A missing dir
// resolves to no matches rather than an error.
func Glob(fsys afero.Fs, dir, pattern string) ([]string, error) {
	ok, err := Exists(fsys, dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	scoped := afero.NewIOFS(afero.NewBasePathFs(fsys, dir))
	matches, err := doublestar.Glob(scoped, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q under %q: %w", pattern, dir, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	sort.Strings(paths)
	return paths, nil
}

// ValidPattern reports whether pattern is a well-formed doublestar glob.
func ValidPattern(pattern string) bool {
	return doublestar.ValidatePattern(path.Clean(pattern))
}

// ListDir returns the names of the entries directly under dir.
func ListDir(fsys afero.Fs, dir string) ([]string, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}
