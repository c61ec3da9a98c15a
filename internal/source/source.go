// Package source selects files with doublestar patterns and feeds them
// into a buffering stream.
package source

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is returned for patterns doublestar cannot parse.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// File is one selected file, the item type of item-mode pipelines.
type File struct {
	Path string
	Data []byte
}

// Match returns the regular files of fsys matching pattern, sorted by path.
func Match(fsys iofs.FS, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPattern, pattern)
	}
	var matches []string
	err := doublestar.GlobWalk(fsys, pattern, func(path string, d iofs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		matches = append(matches, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Bytes writes the content of every path to w, separated by sep.
func Bytes(fsys iofs.FS, paths []string, sep []byte, w io.Writer) error {
	for i, path := range paths {
		if i > 0 && len(sep) > 0 {
			if _, err := w.Write(sep); err != nil {
				return err
			}
		}
		data, err := iofs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// Sender accepts items; ItemStream satisfies it.
type Sender[T any] interface {
	Send(T) error
}

// Files sends one File per path to s.
func Files(fsys iofs.FS, paths []string, s Sender[File]) error {
	for _, path := range paths {
		data, err := iofs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := s.Send(File{Path: filepath.FromSlash(path), Data: data}); err != nil {
			return err
		}
	}
	return nil
}
