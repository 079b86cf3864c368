// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
)

// Target specifies all functions that are needed to write an extracted archive
type Target interface {
	// CreateFile creates a file at the specified path with src as content. The mode parameter is the file mode that
	// should be set on the file. If the file already exists and overwrite is false, an error should be returned. If
	// the file exists and overwrite is true, its content is replaced. The parent directory of path must exist. If the
	// file is created successfully, the number of bytes written should be returned. If an error occurs, the number of
	// bytes written should be returned along with the error.
	CreateFile(path string, src io.Reader, mode fs.FileMode, overwrite bool) (int64, error)

	// CreateDir creates the directory at the specified path with the specified mode, including all missing parent
	// directories. If the directory already exists, nothing is done. If a non-directory exists at path or one of
	// its parents, an error is returned.
	CreateDir(path string, mode fs.FileMode) error

	// Lstat see docs for os.Lstat. Main purpose is to check for symlinks in the extraction path.
	Lstat(path string) (fs.FileInfo, error)
}

// validEntryName returns an error wrapping [ErrInvalidEntryName] if name is
// not exactly one path element.
func validEntryName(name string) error {
	switch {
	case len(name) == 0:
		return fmt.Errorf("%w: empty name", ErrInvalidEntryName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidEntryName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidEntryName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidEntryName, name)
	case filepath.IsAbs(name) || filepath.VolumeName(name) != "":
		return fmt.Errorf("%w: %q is an absolute path", ErrInvalidEntryName, name)
	}
	return nil
}

// joinEntry joins the output path dst with the name of an archive entry
func joinEntry(dst string, name string) (string, error) {
	p := filepath.Join(dst, name)
	if err := validEntryName(name); err != nil {
		return p, &FilesystemError{Op: "join", Path: p, Err: err}
	}
	return p, nil
}

// createDir is a wrapper around the CreateDir function
//
// If path is a symlink and config.TraverseSymlinks() returns false, the function returns an error.
//
// If path is a symlink and config.TraverseSymlinks() returns true, a warning is logged and the
// function continues.
//
// Errors are returned as [*FilesystemError].
func createDir(t Target, path string, cfg *Config) error {
	if err := securityCheck(t, path, cfg); err != nil {
		return &FilesystemError{Op: "create directory", Path: path, Err: err}
	}
	if err := t.CreateDir(path, cfg.CustomCreateDirMode()); err != nil {
		return &FilesystemError{Op: "create directory", Path: path, Err: err}
	}
	return nil
}

// createFile is a wrapper around the CreateFile function
//
// If path is a symlink and config.TraverseSymlinks() returns false, the function returns an error.
//
// Errors are returned as [*FilesystemError]. If the file is created successfully, the
// function returns the number of bytes written and nil.
func createFile(t Target, path string, data []byte, cfg *Config) (int64, error) {
	if err := securityCheck(t, path, cfg); err != nil {
		return 0, &FilesystemError{Op: "create file", Path: path, Err: err}
	}
	n, err := t.CreateFile(path, bytes.NewReader(data), cfg.CustomFileMode(), cfg.Overwrite())
	if err != nil {
		return n, &FilesystemError{Op: "create file", Path: path, Err: err}
	}
	return n, nil
}

// securityCheck checks if path is a symlink. Parent directories below the
// output directory have been checked when they were created.
func securityCheck(t Target, path string, cfg *Config) error {
	stat, err := t.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("invalid path: %w", err)
	}

	if stat.Mode()&fs.ModeSymlink == 0 {
		return nil
	}

	if cfg.TraverseSymlinks() {
		cfg.Logger().Warn("traverse symlink", "path", path)
		return nil
	}
	return ErrSymlinkInPath
}
