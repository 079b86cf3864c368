// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrMaxFilesExceeded indicates that the maximum number of files and directories is exceeded.
	ErrMaxFilesExceeded = errors.New("maximum files exceeded")

	// ErrMaxExtractionSizeExceeded indicates that the maximum size of all extracted files is exceeded.
	ErrMaxExtractionSizeExceeded = errors.New("maximum extraction size exceeded")

	// ErrMaxInputSizeExceeded indicates that the header file is larger than allowed.
	ErrMaxInputSizeExceeded = errors.New("maximum input size exceeded")

	// ErrInvalidEntryName indicates that a folder or file name in the archive is not a
	// single path element, e.g. "", "..", or a name containing a path separator.
	ErrInvalidEntryName = errors.New("invalid entry name")

	// ErrSymlinkInPath indicates that the output path contains a symlink.
	ErrSymlinkInPath = errors.New("symlink in path")

	// ErrInsufficientSpace indicates that the output filesystem cannot hold the archive.
	ErrInsufficientSpace = errors.New("insufficient free space")
)

// ArchiveOpenError is returned if the header or data file cannot be opened or
// parsed. Nothing has been written when it is returned.
type ArchiveOpenError struct {
	Header string
	Data   string
	Err    error
}

func (e *ArchiveOpenError) Error() string {
	return fmt.Sprintf("cannot open archive (header: %s, data: %s): %s", e.Header, e.Data, e.Err)
}

func (e *ArchiveOpenError) Unwrap() error {
	return e.Err
}

// ArchiveReadError is returned if the bytes of a file entry cannot be
// retrieved from the archive. Path is the slash separated path of the entry
// inside the archive.
type ArchiveReadError struct {
	Path string
	Err  error
}

func (e *ArchiveReadError) Error() string {
	return fmt.Sprintf("cannot read %s from archive: %s", e.Path, e.Err)
}

func (e *ArchiveReadError) Unwrap() error {
	return e.Err
}

// FilesystemError is returned if a directory or file cannot be created in
// the output. Op is the failed operation, Path the output path.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
