// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// checkFreeSpace returns a [*FilesystemError] wrapping [ErrInsufficientSpace]
// if the filesystem that will contain dst has less than need bytes available.
// dst does not need to exist, its closest existing parent is checked.
func checkFreeSpace(dst string, need uint64, cfg *Config) error {
	if !canCheckFreeSpace {
		cfg.Logger().Debug("skip free space check, not supported on this platform")
		return nil
	}

	dir, err := existingParent(dst)
	if err != nil {
		return &FilesystemError{Op: "check free space", Path: dst, Err: err}
	}

	avail, err := availableSpace(dir)
	if err != nil {
		return &FilesystemError{Op: "check free space", Path: dir, Err: err}
	}
	cfg.Logger().Debug("checked free space", "path", dir, "available", avail, "required", need)

	if avail < need {
		return &FilesystemError{
			Op:   "check free space",
			Path: dir,
			Err:  fmt.Errorf("%w: %d bytes required, %d bytes available", ErrInsufficientSpace, need, avail),
		}
	}
	return nil
}

// existingParent returns p or the closest parent of p that exists
func existingParent(p string) (string, error) {
	p, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	for {
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", err
		}
		p = parent
	}
}
