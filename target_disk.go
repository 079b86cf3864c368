// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"fmt"
	"io"
	"io/fs"
	"os"
)

// TargetDisk is the struct type that holds all information for interacting with the filesystem
type TargetDisk struct{}

// NewTargetDisk creates a new TargetDisk
func NewTargetDisk() *TargetDisk {
	return &TargetDisk{}
}

// CreateDir creates a directory at the specified path with the specified mode, including all
// missing parents. If the directory already exists, nothing is done.
func (d *TargetDisk) CreateDir(path string, mode fs.FileMode) error {
	if err := os.MkdirAll(path, mode.Perm()); err != nil {
		return fmt.Errorf("failed to create directory (%w)", err)
	}
	return nil
}

// CreateFile creates a file at the specified path with src as content.
// If the file already exists and overwrite is false, an error is returned. An existing file
// is truncated before it is written.
func (d *TargetDisk) CreateFile(path string, src io.Reader, mode fs.FileMode, overwrite bool) (int64, error) {
	// Check for path validity and if file existence+overwrite
	if stat, err := os.Lstat(path); !os.IsNotExist(err) {

		// something wrong with path
		if err != nil {
			return 0, fmt.Errorf("invalid path: %w", err)
		}

		if stat.IsDir() {
			return 0, fmt.Errorf("%w: %s is a directory", fs.ErrExist, path)
		}

		// check for overwrite
		if !overwrite {
			return 0, fmt.Errorf("%w: %s", fs.ErrExist, path)
		}
	}

	// create dst file
	dstFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	n, err := io.Copy(dstFile, src)
	if err != nil {
		dstFile.Close()
		return n, fmt.Errorf("failed to write file: %w", err)
	}

	if err := dstFile.Close(); err != nil {
		return n, fmt.Errorf("failed to close file: %w", err)
	}
	return n, nil
}

// Lstat returns the FileInfo structure describing the named file.
// If there is an error, it will be of type *PathError.
func (d *TargetDisk) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}
